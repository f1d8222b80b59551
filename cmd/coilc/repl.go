package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"coilc/pkg/compiler"
)

const (
	historyFile = ".coilc_history"
	promptMain  = "coilc> "
	promptCont  = "  ...> "
	replBanner  = "coilc REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	replHelp    = `
Snippets are compiled as a whole translation unit of declarations; the
object dump is printed on success.

REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :tokens <code>   Print the token stream of a snippet
  :ast <code>      Print the syntax tree of a snippet
`
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive compiler shell",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runREPL()
	},
}

func runREPL() {
	fmt.Println(replBanner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history, best effort.
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readSnippet(ln)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if done := runReplCommand(trimmed); done {
				break
			}
			ln.AppendHistory(trimmed)
			continue
		}

		runSnippet(code)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	// Persist history, best effort.
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// readSnippet accumulates input lines until braces balance. The second
// result is false on EOF; a Ctrl+C abort cancels the snippet but keeps the
// session alive.
func readSnippet(ln *liner.State) (string, bool) {
	var lines []string
	depth := 0

	for {
		prompt := promptMain
		if len(lines) > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			return "", true
		}
		if err != nil {
			return "", false
		}

		lines = append(lines, line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			return strings.Join(lines, "\n"), true
		}
	}
}

// runReplCommand handles a :command line; a true result exits the session.
func runReplCommand(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Print(replHelp)

	case ":quit", ":exit", ":q":
		return true

	case ":tokens":
		code := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		if code == "" {
			fmt.Println("usage: :tokens <code>")
			return false
		}
		r := compiler.NewReporter()
		r.SetFilename("<repl>")
		lexer := compiler.NewLexer(code, "<repl>", r)
		for _, tok := range lexer.Tokenize() {
			fmt.Println(tok)
		}
		r.Print(os.Stdout)

	case ":ast":
		code := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		if code == "" {
			fmt.Println("usage: :ast <code>")
			return false
		}
		r := compiler.NewReporter()
		r.SetFilename("<repl>")
		lexer := compiler.NewLexer(code, "<repl>", r)
		parser := compiler.NewParser(lexer.Tokenize(), r)
		program := parser.Parse()
		if !r.HasErrors() {
			program.Dump(os.Stdout)
		}
		r.Print(os.Stdout)

	default:
		fmt.Printf("unknown command %s (try :help)\n", fields[0])
	}
	return false
}

// runSnippet compiles one snippet and prints the object dump on success.
func runSnippet(code string) {
	r := compiler.NewReporter()
	res := compiler.Compile(code, compiler.Options{Filename: "<repl>"}, r)

	r.Print(os.Stdout)
	if res.Object != nil && !r.HasErrors() {
		res.Object.Dump(os.Stdout)
	}
}
