package compiler

import (
	"strings"
	"testing"
)

// parseSource lexes and parses src.
func parseSource(src string) (*Program, *Reporter) {
	r := NewReporter()
	tokens := NewLexer(src, "test.c", r).Tokenize()
	return NewParser(tokens, r).Parse(), r
}

// parseExpr parses src as the sole expression statement of a wrapper
// function and returns the expression.
func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	prog, r := parseSource("void wrapper() { " + src + "; }")
	if r.HasErrors() {
		t.Fatalf("parse errors for %q: %v", src, r.Diagnostics())
	}
	fn := prog.Decls[0].(*FunctionDecl)
	return fn.Body.Stmts[0].(*ExprStmt).Expr
}

// TestParseExpressions checks precedence and associativity through the
// parenthesized String rendering of the tree.
func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"a = b = c", "(a = (b = c))"},
		{"x += 2", "(x = (x + 2))"},
		{"x <<= n", "(x = (x << n))"},
		{"a < b == c", "((a < b) == c)"},
		{"a & b | c ^ d", "((a & b) | (c ^ d))"},
		{"a << 2 + b", "(a << (2 + b))"},
		{"a && b || c", "((a && b) || c)"},
		{"-x * !y", "((- x) * (! y))"},
		{"~a % 3", "((~ a) % 3)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"f(1, x) + g()", "(f(1, x) + g())"},
		{"arr[i + 1]", "(arr[(i + 1)])"},
		{"p->next", "(p->next)"},
		{"s.field", "(s.field)"},
		{"*p + &x", "((* p) + (& x))"},
		// Postfix and prefix increment fold to the same node shape.
		{"x++", "(++ x)"},
		{"--x", "(-- x)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			if got := expr.String(); got != tt.want {
				t.Errorf("parsed %q as %s; want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDeclarations(t *testing.T) {
	t.Run("Global Variable", func(t *testing.T) {
		prog, r := parseSource("int x = 10;")
		if r.HasErrors() {
			t.Fatalf("parse errors: %v", r.Diagnostics())
		}
		decl, ok := prog.Decls[0].(*VariableDecl)
		if !ok {
			t.Fatalf("Decls[0] = %T; want *VariableDecl", prog.Decls[0])
		}
		if decl.Name.Lexeme != "x" || decl.Type.Name.Type != INT {
			t.Errorf("declared %s %s; want int x", decl.Type, decl.Name.Lexeme)
		}
		lit, ok := decl.Init.(*Literal)
		if !ok || lit.Tok.Lexeme != "10" {
			t.Errorf("initializer = %v; want literal 10", decl.Init)
		}
	})

	t.Run("Qualified Pointer", func(t *testing.T) {
		prog, r := parseSource("const char* s;")
		if r.HasErrors() {
			t.Fatalf("parse errors: %v", r.Diagnostics())
		}
		decl := prog.Decls[0].(*VariableDecl)
		typ := decl.Type
		if !typ.IsConst || typ.Name.Type != CHAR || !typ.IsPointer || typ.PointerLevel != 1 {
			t.Errorf("type = %s (pointer level %d); want const char*", typ, typ.PointerLevel)
		}
	})

	t.Run("Double Pointer", func(t *testing.T) {
		prog, r := parseSource("int** pp;")
		if r.HasErrors() {
			t.Fatalf("parse errors: %v", r.Diagnostics())
		}
		decl := prog.Decls[0].(*VariableDecl)
		if decl.Type.PointerLevel != 2 {
			t.Errorf("pointer level = %d; want 2", decl.Type.PointerLevel)
		}
	})

	t.Run("Function With Body", func(t *testing.T) {
		prog, r := parseSource("int add(int a, int b) { return a + b; }")
		if r.HasErrors() {
			t.Fatalf("parse errors: %v", r.Diagnostics())
		}
		fn, ok := prog.Decls[0].(*FunctionDecl)
		if !ok {
			t.Fatalf("Decls[0] = %T; want *FunctionDecl", prog.Decls[0])
		}
		if fn.Name.Lexeme != "add" || len(fn.Params) != 2 {
			t.Fatalf("parsed %s with %d params; want add with 2", fn.Name.Lexeme, len(fn.Params))
		}
		if fn.Params[0].Name.Lexeme != "a" || fn.Params[1].Name.Lexeme != "b" {
			t.Errorf("param names = %q, %q; want a, b", fn.Params[0].Name.Lexeme, fn.Params[1].Name.Lexeme)
		}
		if fn.Body == nil || len(fn.Body.Stmts) != 1 {
			t.Fatalf("body = %v; want one statement", fn.Body)
		}
		if _, ok := fn.Body.Stmts[0].(*ReturnStmt); !ok {
			t.Errorf("body statement = %T; want *ReturnStmt", fn.Body.Stmts[0])
		}
	})

	t.Run("Prototype", func(t *testing.T) {
		prog, r := parseSource("void draw(int);")
		if r.HasErrors() {
			t.Fatalf("parse errors: %v", r.Diagnostics())
		}
		fn := prog.Decls[0].(*FunctionDecl)
		if fn.Body != nil {
			t.Errorf("prototype body = %v; want nil", fn.Body)
		}
		if len(fn.Params) != 1 || fn.Params[0].Name.Lexeme != "" {
			t.Errorf("params = %v; want one unnamed", fn.Params)
		}
	})
}

func TestParseStatements(t *testing.T) {
	// body parses src as the body statements of a wrapper function.
	body := func(t *testing.T, src string) []Stmt {
		t.Helper()
		prog, r := parseSource("void wrapper() { " + src + " }")
		if r.HasErrors() {
			t.Fatalf("parse errors for %q: %v", src, r.Diagnostics())
		}
		return prog.Decls[0].(*FunctionDecl).Body.Stmts
	}

	t.Run("If Else", func(t *testing.T) {
		stmts := body(t, "if (x) y = 1; else { y = 2; }")
		ifStmt, ok := stmts[0].(*IfStmt)
		if !ok {
			t.Fatalf("statement = %T; want *IfStmt", stmts[0])
		}
		if _, ok := ifStmt.Body.(*ExprStmt); !ok {
			t.Errorf("then branch = %T; want *ExprStmt", ifStmt.Body)
		}
		if _, ok := ifStmt.ElseBody.(*BlockStmt); !ok {
			t.Errorf("else branch = %T; want *BlockStmt", ifStmt.ElseBody)
		}
	})

	t.Run("Dangling Else Binds Inner", func(t *testing.T) {
		stmts := body(t, "if (a) if (b) x = 1; else x = 2;")
		outer := stmts[0].(*IfStmt)
		if outer.ElseBody != nil {
			t.Fatalf("outer else = %v; want nil", outer.ElseBody)
		}
		inner := outer.Body.(*IfStmt)
		if inner.ElseBody == nil {
			t.Errorf("inner else = nil; want the else branch")
		}
	})

	t.Run("While", func(t *testing.T) {
		stmts := body(t, "while (i < 10) i = i + 1;")
		w, ok := stmts[0].(*WhileStmt)
		if !ok {
			t.Fatalf("statement = %T; want *WhileStmt", stmts[0])
		}
		if w.Condition.String() != "(i < 10)" {
			t.Errorf("condition = %s; want (i < 10)", w.Condition)
		}
	})

	t.Run("Do While", func(t *testing.T) {
		stmts := body(t, "do { i = i - 1; } while (i);")
		d, ok := stmts[0].(*DoWhileStmt)
		if !ok {
			t.Fatalf("statement = %T; want *DoWhileStmt", stmts[0])
		}
		if _, ok := d.Body.(*BlockStmt); !ok {
			t.Errorf("body = %T; want *BlockStmt", d.Body)
		}
	})

	t.Run("For Full Clauses", func(t *testing.T) {
		stmts := body(t, "for (int i = 0; i < 10; i++) total += i;")
		f := stmts[0].(*ForStmt)
		if _, ok := f.Init.(*VariableDecl); !ok {
			t.Errorf("init = %T; want *VariableDecl", f.Init)
		}
		if f.Cond == nil || f.Post == nil {
			t.Errorf("cond = %v, post = %v; want both present", f.Cond, f.Post)
		}
	})

	t.Run("For Empty Clauses", func(t *testing.T) {
		stmts := body(t, "for (;;) { }")
		f := stmts[0].(*ForStmt)
		if f.Init != nil || f.Cond != nil || f.Post != nil {
			t.Errorf("clauses = %v, %v, %v; want all absent", f.Init, f.Cond, f.Post)
		}
	})

	t.Run("Return Forms", func(t *testing.T) {
		stmts := body(t, "return; return x;")
		if r := stmts[0].(*ReturnStmt); r.Expr != nil {
			t.Errorf("bare return expr = %v; want nil", r.Expr)
		}
		if r := stmts[1].(*ReturnStmt); r.Expr == nil {
			t.Errorf("value return expr = nil; want x")
		}
	})

	t.Run("Break and Continue", func(t *testing.T) {
		stmts := body(t, "while (1) { break; continue; }")
		blk := stmts[0].(*WhileStmt).Body.(*BlockStmt)
		if _, ok := blk.Stmts[0].(*BreakStmt); !ok {
			t.Errorf("statement 0 = %T; want *BreakStmt", blk.Stmts[0])
		}
		if _, ok := blk.Stmts[1].(*ContinueStmt); !ok {
			t.Errorf("statement 1 = %T; want *ContinueStmt", blk.Stmts[1])
		}
	})

	t.Run("Nested Blocks", func(t *testing.T) {
		stmts := body(t, "{ int x = 1; { int y = 2; } }")
		blk := stmts[0].(*BlockStmt)
		if len(blk.Stmts) != 2 {
			t.Fatalf("outer block has %d statements; want 2", len(blk.Stmts))
		}
		if _, ok := blk.Stmts[1].(*BlockStmt); !ok {
			t.Errorf("statement 1 = %T; want *BlockStmt", blk.Stmts[1])
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErrors int
		wantMsg    string
		wantDecls  int
	}{
		{
			name:       "Missing Initializer Expression",
			input:      "int y = ;",
			wantErrors: 1,
			wantMsg:    "Expected expression",
		},
		{
			name:       "Recovery Reaches Next Declaration",
			input:      "int y = ; int z = 2;",
			wantErrors: 1,
			wantMsg:    "Expected expression",
			wantDecls:  1,
		},
		{
			name:       "Missing Semicolon",
			input:      "int x",
			wantErrors: 1,
			wantMsg:    "Expected ';' after variable declaration",
		},
		{
			name:       "Statement At Top Level",
			input:      "x = 1;",
			wantErrors: 1,
			wantMsg:    "Unsupported declaration",
		},
		{
			name:       "Missing Variable Name",
			input:      "int 5;",
			wantErrors: 1,
			wantMsg:    "Expected variable name",
		},
		{
			name:       "Unclosed Block",
			input:      "int f() { return 1;",
			wantErrors: 1,
			wantMsg:    "Expected '}' after block",
		},
		{
			// Statement-level recovery keeps the surrounding function.
			name:       "Missing Paren After If",
			input:      "void f() { if x) return; }",
			wantErrors: 1,
			wantMsg:    "Expected '(' after 'if'",
			wantDecls:  1,
		},
		{
			name:       "Missing Colon In Conditional",
			input:      "void f() { x = a ? b; }",
			wantErrors: 1,
			wantMsg:    "Expected ':' in conditional expression",
			wantDecls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, r := parseSource(tt.input)
			if r.ErrorCount() != tt.wantErrors {
				t.Fatalf("ErrorCount() = %d, want %d; diagnostics: %v",
					r.ErrorCount(), tt.wantErrors, r.Diagnostics())
			}
			found := false
			for _, d := range r.Diagnostics() {
				if strings.Contains(d.Message, tt.wantMsg) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("diagnostics %v do not mention %q", r.Diagnostics(), tt.wantMsg)
			}
			if len(prog.Decls) != tt.wantDecls {
				t.Errorf("len(Decls) = %d, want %d", len(prog.Decls), tt.wantDecls)
			}
		})
	}
}

// TestCompoundAssignDesugar checks that a compound assignment expands into
// independent copies of the left operand.
func TestCompoundAssignDesugar(t *testing.T) {
	expr := parseExpr(t, "x += y")
	outer, ok := expr.(*BinaryExpr)
	if !ok || outer.Op.Type != ASSIGN {
		t.Fatalf("outer = %v; want assignment", expr)
	}
	inner, ok := outer.Right.(*BinaryExpr)
	if !ok || inner.Op.Type != PLUS {
		t.Fatalf("inner = %v; want addition", outer.Right)
	}
	left := outer.Left.(*VarRef)
	innerLeft := inner.Left.(*VarRef)
	if left == innerLeft {
		t.Errorf("desugared operands share a node; want independent copies")
	}
	if left.Name.Lexeme != "x" || innerLeft.Name.Lexeme != "x" {
		t.Errorf("operand names = %q, %q; want x, x", left.Name.Lexeme, innerLeft.Name.Lexeme)
	}
}
