package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coilc/pkg/compiler"
)

var (
	outputFile  string
	optLevel    int
	includeDirs []string
	defines     []string
	verbose     bool
	dumpTokens  bool
	dumpAST     bool
	dumpAsm     bool
)

var rootCmd = &cobra.Command{
	Use:   "coilc [options] input.c",
	Short: "C-subset compiler targeting the COIL object format",
	Long: `coilc compiles a restricted C-like language into COIL binary objects.

The pipeline runs lexical, syntax, and semantic analysis before code
generation. It stops at the first stage that reports errors and prints
every diagnostic collected up to that point.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if code := runBuild(args[0]); code != 0 {
			os.Exit(code)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "a.coil", "output file")
	rootCmd.Flags().IntVarP(&optLevel, "opt", "O", 0, "optimization level (0-3)")

	// Accepted for command-line compatibility; there is no preprocessor
	// stage to consume them.
	rootCmd.Flags().StringArrayVarP(&includeDirs, "include", "I", nil, "add include directory")
	rootCmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "define macro name[=value]")

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "print the token stream after lexing")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the syntax tree after parsing")
	rootCmd.Flags().BoolVar(&dumpAsm, "dump-asm", false, "print a readable dump of the generated object")

	rootCmd.AddCommand(replCmd)
}

// runBuild compiles inputFile stage by stage, halting after the first stage
// that reports errors. Diagnostics, warnings included, always reach stderr
// before the exit code is decided.
func runBuild(inputFile string) int {
	if verbose {
		fmt.Printf("Reading file: %s\n", inputFile)
	}
	source, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	reporter := compiler.NewReporter()
	reporter.SetFilename(inputFile)

	if verbose {
		fmt.Println("Performing lexical analysis...")
	}
	lexer := compiler.NewLexer(string(source), inputFile, reporter)
	tokens := lexer.Tokenize()
	if dumpTokens {
		for _, tok := range tokens {
			fmt.Println(tok)
		}
	}
	if reporter.HasErrors() {
		reporter.Print(os.Stderr)
		return 1
	}

	if verbose {
		fmt.Println("Performing syntax analysis...")
	}
	parser := compiler.NewParser(tokens, reporter)
	program := parser.Parse()
	if dumpAST {
		program.Dump(os.Stdout)
	}
	if reporter.HasErrors() {
		reporter.Print(os.Stderr)
		return 1
	}

	if verbose {
		fmt.Println("Performing semantic analysis...")
	}
	analyzer := compiler.NewAnalyzer(reporter)
	analyzer.Analyze(program)
	if reporter.HasErrors() {
		reporter.Print(os.Stderr)
		return 1
	}

	if verbose {
		fmt.Println("Generating COIL code...")
	}
	gen := compiler.NewCodeGenerator(optLevel, reporter)
	obj := gen.Generate(program)
	if dumpAsm {
		obj.Dump(os.Stdout)
	}
	if reporter.HasErrors() {
		reporter.Print(os.Stderr)
		return 1
	}

	if verbose {
		fmt.Printf("Writing output to: %s\n", outputFile)
	}
	if err := os.WriteFile(outputFile, obj.Encode(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Warnings survive a successful run.
	reporter.Print(os.Stderr)

	if verbose {
		fmt.Printf("Compilation successful: %s -> %s\n", inputFile, outputFile)
	}
	return 0
}
