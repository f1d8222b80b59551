// Package compiler translates a small C-like language into COIL objects.
//
// The pipeline is conventional: the lexer turns source text into tokens,
// the parser builds an AST with panic-free error recovery, the analyzer
// checks scopes and types, and the code generator lowers the AST into a
// coil.Object ready for encoding. All stages report through a shared
// Reporter rather than returning errors, and a stage only runs when the
// previous ones finished without errors.
package compiler

import "coilc/pkg/coil"

// Options control a single compilation.
type Options struct {
	// Filename names the source in tokens and diagnostics.
	Filename string

	// OptLevel is the optimization level, 0 through 3. It is carried
	// through to the code generator.
	OptLevel int
}

// Result carries the artifacts of the stages that ran. Later fields are
// nil when an earlier stage reported errors.
type Result struct {
	Tokens  []Token
	Program *Program
	Object  *coil.Object
}

// Compile runs source through the full pipeline, stopping after the first
// stage that reports errors. Diagnostics accumulate in r; callers decide
// when to print them.
func Compile(source string, opts Options, r *Reporter) *Result {
	if opts.Filename == "" {
		opts.Filename = "<source>"
	}
	r.SetFilename(opts.Filename)

	res := &Result{}

	lexer := NewLexer(source, opts.Filename, r)
	res.Tokens = lexer.Tokenize()
	if r.HasErrors() {
		return res
	}

	parser := NewParser(res.Tokens, r)
	res.Program = parser.Parse()
	if r.HasErrors() {
		return res
	}

	analyzer := NewAnalyzer(r)
	analyzer.Analyze(res.Program)
	if r.HasErrors() {
		return res
	}

	gen := NewCodeGenerator(opts.OptLevel, r)
	res.Object = gen.Generate(res.Program)
	return res
}
