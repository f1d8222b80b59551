package compiler

import (
	"strings"
	"testing"
)

// lexAll scans src and returns the token stream together with the reporter
// that collected its diagnostics.
func lexAll(src string) ([]Token, *Reporter) {
	r := NewReporter()
	return NewLexer(src, "test.c", r).Tokenize(), r
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token // Type, Lexeme and Line are checked
		wantErr  bool
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []Token{{Type: EOF, Line: 1}},
		},
		{
			name:  "Operators",
			input: "+ - * / % & | ^ ~ ! = == != < <= > >= && || << >>",
			expected: []Token{
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: MINUS, Lexeme: "-", Line: 1},
				{Type: STAR, Lexeme: "*", Line: 1},
				{Type: SLASH, Lexeme: "/", Line: 1},
				{Type: PERCENT, Lexeme: "%", Line: 1},
				{Type: AND, Lexeme: "&", Line: 1},
				{Type: PIPE, Lexeme: "|", Line: 1},
				{Type: CARET, Lexeme: "^", Line: 1},
				{Type: TILDE, Lexeme: "~", Line: 1},
				{Type: NOT, Lexeme: "!", Line: 1},
				{Type: ASSIGN, Lexeme: "=", Line: 1},
				{Type: EQUALS, Lexeme: "==", Line: 1},
				{Type: NOT_EQ, Lexeme: "!=", Line: 1},
				{Type: LESS, Lexeme: "<", Line: 1},
				{Type: LESS_EQ, Lexeme: "<=", Line: 1},
				{Type: GREATER, Lexeme: ">", Line: 1},
				{Type: GREATER_EQ, Lexeme: ">=", Line: 1},
				{Type: AND_LOGICAL, Lexeme: "&&", Line: 1},
				{Type: OR_LOGICAL, Lexeme: "||", Line: 1},
				{Type: SHL_OP, Lexeme: "<<", Line: 1},
				{Type: SHR_OP, Lexeme: ">>", Line: 1},
				{Type: EOF, Line: 1},
			},
		},
		{
			name:  "Compound Assignment",
			input: "+= -= *= /= %= &= |= ^= <<= >>=",
			expected: []Token{
				{Type: PLUS_ASSIGN, Lexeme: "+=", Line: 1},
				{Type: MINUS_ASSIGN, Lexeme: "-=", Line: 1},
				{Type: STAR_ASSIGN, Lexeme: "*=", Line: 1},
				{Type: SLASH_ASSIGN, Lexeme: "/=", Line: 1},
				{Type: PERCENT_ASSIGN, Lexeme: "%=", Line: 1},
				{Type: AND_ASSIGN, Lexeme: "&=", Line: 1},
				{Type: OR_ASSIGN, Lexeme: "|=", Line: 1},
				{Type: XOR_ASSIGN, Lexeme: "^=", Line: 1},
				{Type: SHL_ASSIGN, Lexeme: "<<=", Line: 1},
				{Type: SHR_ASSIGN, Lexeme: ">>=", Line: 1},
				{Type: EOF, Line: 1},
			},
		},
		{
			name:  "Punctuation",
			input: "( ) { } [ ] ; , . : ? -> ... #",
			expected: []Token{
				{Type: LPAREN, Lexeme: "(", Line: 1},
				{Type: RPAREN, Lexeme: ")", Line: 1},
				{Type: LBRACE, Lexeme: "{", Line: 1},
				{Type: RBRACE, Lexeme: "}", Line: 1},
				{Type: LBRACKET, Lexeme: "[", Line: 1},
				{Type: RBRACKET, Lexeme: "]", Line: 1},
				{Type: SEMICOLON, Lexeme: ";", Line: 1},
				{Type: COMMA, Lexeme: ",", Line: 1},
				{Type: DOT, Lexeme: ".", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: QUESTION, Lexeme: "?", Line: 1},
				{Type: ARROW, Lexeme: "->", Line: 1},
				{Type: ELLIPSIS, Lexeme: "...", Line: 1},
				{Type: HASH, Lexeme: "#", Line: 1},
				{Type: EOF, Line: 1},
			},
		},
		{
			name:  "Keywords and Identifiers",
			input: "int char void if else while do for return break continue myVar _x1",
			expected: []Token{
				{Type: INT, Lexeme: "int", Line: 1},
				{Type: CHAR, Lexeme: "char", Line: 1},
				{Type: VOID, Lexeme: "void", Line: 1},
				{Type: IF, Lexeme: "if", Line: 1},
				{Type: ELSE, Lexeme: "else", Line: 1},
				{Type: WHILE, Lexeme: "while", Line: 1},
				{Type: DO, Lexeme: "do", Line: 1},
				{Type: FOR, Lexeme: "for", Line: 1},
				{Type: RETURN, Lexeme: "return", Line: 1},
				{Type: BREAK, Lexeme: "break", Line: 1},
				{Type: CONTINUE, Lexeme: "continue", Line: 1},
				{Type: IDENTIFIER, Lexeme: "myVar", Line: 1},
				{Type: IDENTIFIER, Lexeme: "_x1", Line: 1},
				{Type: EOF, Line: 1},
			},
		},
		{
			name:  "Numbers",
			input: "42 0 3.14 2.5f 1e3 1.5E-2 7L 9u",
			expected: []Token{
				{Type: INTEGER, Lexeme: "42", Line: 1},
				{Type: INTEGER, Lexeme: "0", Line: 1},
				{Type: FLOAT_LIT, Lexeme: "3.14", Line: 1},
				{Type: FLOAT_LIT, Lexeme: "2.5f", Line: 1},
				{Type: FLOAT_LIT, Lexeme: "1e3", Line: 1},
				{Type: FLOAT_LIT, Lexeme: "1.5E-2", Line: 1},
				{Type: INTEGER, Lexeme: "7L", Line: 1},
				{Type: INTEGER, Lexeme: "9u", Line: 1},
				{Type: EOF, Line: 1},
			},
		},
		{
			name:  "Char and String Literals",
			input: `'a' '\n' "hi" "a\"b"`,
			expected: []Token{
				{Type: CHAR_LIT, Lexeme: `'a'`, Line: 1},
				{Type: CHAR_LIT, Lexeme: `'\n'`, Line: 1},
				{Type: STRING, Lexeme: `"hi"`, Line: 1},
				{Type: STRING, Lexeme: `"a\"b"`, Line: 1},
				{Type: EOF, Line: 1},
			},
		},
		{
			name:  "Comments",
			input: "x // line comment\ny /* block */ z",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: IDENTIFIER, Lexeme: "y", Line: 2},
				{Type: IDENTIFIER, Lexeme: "z", Line: 2},
				{Type: EOF, Line: 2},
			},
		},
		{
			name:  "Adjacent Tokens",
			input: "x+y",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: IDENTIFIER, Lexeme: "y", Line: 1},
				{Type: EOF, Line: 1},
			},
		},
		{
			name:    "Unterminated Block Comment",
			input:   "/* start",
			wantErr: true,
		},
		{
			name:  "Unexpected Character Recovers",
			input: "@ x",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: EOF, Line: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, r := lexAll(tt.input)
			if r.HasErrors() != tt.wantErr {
				t.Fatalf("HasErrors() = %v, want %v; diagnostics: %v",
					r.HasErrors(), tt.wantErr, r.Diagnostics())
			}
			if tt.expected == nil {
				return
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("token count = %d, want %d; got %v", len(got), len(tt.expected), got)
			}
			for i, want := range tt.expected {
				tok := got[i]
				if tok.Type != want.Type || tok.Lexeme != want.Lexeme || tok.Line != want.Line {
					t.Errorf("token %d = %v; want [%s] %q line %d", i, tok, want.Type, want.Lexeme, want.Line)
				}
			}
		})
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, r := lexAll("int main\nx y")
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %v", r.Diagnostics())
	}

	// Columns on continuation lines are one past the visual position: the
	// newline itself is counted as the first column of the new line.
	want := []struct {
		lexeme string
		line   int
		column int
	}{
		{"int", 1, 1},
		{"main", 1, 5},
		{"x", 2, 2},
		{"y", 2, 4},
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Lexeme != w.lexeme || tok.Line != w.line || tok.Column != w.column {
			t.Errorf("token %d = %v; want %q at %d:%d", i, tok, w.lexeme, w.line, w.column)
		}
		if tok.Filename != "test.c" {
			t.Errorf("token %d filename = %q; want %q", i, tok.Filename, "test.c")
		}
	}
}

// TestTokenRoundTrip checks that concatenating every lexeme reproduces the
// source minus whitespace and comments.
func TestTokenRoundTrip(t *testing.T) {
	src := "int main() {\n\t// greeting\n\tint x = 40 + 2; /* answer */\n\treturn x;\n}\n"
	tokens, r := lexAll(src)
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %v", r.Diagnostics())
	}

	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Lexeme)
	}
	want := "intmain(){intx=40+2;returnx;}"
	if sb.String() != want {
		t.Errorf("joined lexemes = %q; want %q", sb.String(), want)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErrors int
		wantMsg    string
	}{
		{"Unterminated Block Comment", "/* never closed", 1, "Unterminated block comment"},
		{"Unterminated String", `"no closing`, 1, "Unterminated string literal"},
		{"String Ends In Backslash", `"abc\`, 2, "expected escape sequence"},
		{"Empty Char Literal", "''", 1, "Empty character literal"},
		{"Multi Char Literal", "'ab'", 1, "Multi-character character literal"},
		{"Exponent Without Digits", "1e+", 1, "exponent has no digits"},
		{"Unexpected Character", "$", 1, "Unexpected character: $"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := lexAll(tt.input)
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
		})
	}
}

// TestMultiCharLiteralRecovers checks that a malformed char literal still
// produces a token so parsing can continue.
func TestMultiCharLiteralRecovers(t *testing.T) {
	tokens, r := lexAll("'ab' x")
	if r.ErrorCount() != 1 {
		t.Fatalf("ErrorCount() = %d, want 1", r.ErrorCount())
	}
	if tokens[0].Type != CHAR_LIT || tokens[0].Lexeme != "'ab'" {
		t.Errorf("token 0 = %v; want CHAR_LIT 'ab'", tokens[0])
	}
	if tokens[1].Type != IDENTIFIER || tokens[1].Lexeme != "x" {
		t.Errorf("token 1 = %v; want IDENTIFIER x", tokens[1])
	}
}
