package compiler

import (
	"fmt"
	"io"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic is one positioned message from any stage of the pipeline.
type Diagnostic struct {
	Severity Severity
	Message  string
	Filename string
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Filename, d.Line, d.Column, d.Severity, d.Message)
}

// Reporter accumulates diagnostics across a compilation run. Stages append
// and keep going; the driver reads the counts to decide when to halt and
// prints everything at the end. Not goroutine-safe: the pipeline is
// single-threaded by design.
type Reporter struct {
	diags    []Diagnostic
	filename string
	errors   int
	warnings int
}

func NewReporter() *Reporter { return &Reporter{} }

// SetFilename sets the filename stamped on subsequent diagnostics. The lexer
// calls this when a pass starts.
func (r *Reporter) SetFilename(name string) { r.filename = name }

func (r *Reporter) add(sev Severity, line, col int, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Filename: r.filename,
		Line:     line,
		Column:   col,
	})
	switch sev {
	case SevError:
		r.errors++
	case SevWarning:
		r.warnings++
	}
}

// Infof records an info-level diagnostic at line:col.
func (r *Reporter) Infof(line, col int, format string, args ...any) {
	r.add(SevInfo, line, col, format, args...)
}

// Warnf records a warning. Warnings never fail the run.
func (r *Reporter) Warnf(line, col int, format string, args ...any) {
	r.add(SevWarning, line, col, format, args...)
}

// Errorf records an error. Errors fail the run but never abort a stage.
func (r *Reporter) Errorf(line, col int, format string, args ...any) {
	r.add(SevError, line, col, format, args...)
}

func (r *Reporter) HasErrors() bool   { return r.errors > 0 }
func (r *Reporter) HasWarnings() bool { return r.warnings > 0 }
func (r *Reporter) ErrorCount() int   { return r.errors }
func (r *Reporter) WarningCount() int { return r.warnings }

// Diagnostics returns a copy of the accumulated diagnostics in emission order.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// Print writes every diagnostic to w, one per line, in emission order.
func (r *Reporter) Print(w io.Writer) {
	for _, d := range r.diags {
		fmt.Fprintln(w, d)
	}
}

// Clear drops all accumulated diagnostics and resets the counts.
func (r *Reporter) Clear() {
	r.diags = nil
	r.errors = 0
	r.warnings = 0
}
