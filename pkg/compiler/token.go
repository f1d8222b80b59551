package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input
	UNKNOWN

	// Literals and names
	IDENTIFIER
	INTEGER   // decimal integer literal
	FLOAT_LIT // floating point literal, including exponent/suffix forms
	STRING    // string literal, quotes kept in the lexeme
	CHAR_LIT  // character literal, quotes kept in the lexeme

	// Keywords
	AUTO
	BREAK
	CASE
	CHAR
	CONST
	CONTINUE
	DEFAULT
	DO
	DOUBLE
	ELSE
	ENUM
	EXTERN
	FLOAT
	FOR
	GOTO
	IF
	INT
	LONG
	REGISTER
	RETURN
	SHORT
	SIGNED
	SIZEOF
	STATIC
	STRUCT
	SWITCH
	TYPEDEF
	UNION
	UNSIGNED
	VOID
	VOLATILE
	WHILE

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	AND     // & (binary bitwise AND, or unary address-of)
	PIPE    // |
	CARET   // ^
	TILDE   // ~
	NOT     // !
	ASSIGN  // =
	LESS    // <
	GREATER // >
	DOT     // .
	ARROW   // ->

	PLUS_PLUS   // ++
	MINUS_MINUS // --

	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	AND_ASSIGN     // &=
	OR_ASSIGN      // |=
	XOR_ASSIGN     // ^=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=

	EQUALS     // ==
	NOT_EQ     // !=
	LESS_EQ    // <=
	GREATER_EQ // >=

	SHL_OP      // <<
	SHR_OP      // >>
	AND_LOGICAL // &&
	OR_LOGICAL  // ||
	QUESTION    // ?

	// Punctuation
	SEMICOLON // ;
	COLON     // :
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	HASH      // #
	ELLIPSIS  // ...
)

// tokenNames is indexed by TokenType. Keywords, operators, and punctuation
// display as their source text so token dumps read like the input.
var tokenNames = [...]string{
	EOF:        "EOF",
	UNKNOWN:    "UNKNOWN",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	FLOAT_LIT:  "FLOAT",
	STRING:     "STRING",
	CHAR_LIT:   "CHAR",

	AUTO:     "auto",
	BREAK:    "break",
	CASE:     "case",
	CHAR:     "char",
	CONST:    "const",
	CONTINUE: "continue",
	DEFAULT:  "default",
	DO:       "do",
	DOUBLE:   "double",
	ELSE:     "else",
	ENUM:     "enum",
	EXTERN:   "extern",
	FLOAT:    "float",
	FOR:      "for",
	GOTO:     "goto",
	IF:       "if",
	INT:      "int",
	LONG:     "long",
	REGISTER: "register",
	RETURN:   "return",
	SHORT:    "short",
	SIGNED:   "signed",
	SIZEOF:   "sizeof",
	STATIC:   "static",
	STRUCT:   "struct",
	SWITCH:   "switch",
	TYPEDEF:  "typedef",
	UNION:    "union",
	UNSIGNED: "unsigned",
	VOID:     "void",
	VOLATILE: "volatile",
	WHILE:    "while",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	AND:     "&",
	PIPE:    "|",
	CARET:   "^",
	TILDE:   "~",
	NOT:     "!",
	ASSIGN:  "=",
	LESS:    "<",
	GREATER: ">",
	DOT:     ".",
	ARROW:   "->",

	PLUS_PLUS:   "++",
	MINUS_MINUS: "--",

	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	AND_ASSIGN:     "&=",
	OR_ASSIGN:      "|=",
	XOR_ASSIGN:     "^=",
	SHL_ASSIGN:     "<<=",
	SHR_ASSIGN:     ">>=",

	EQUALS:     "==",
	NOT_EQ:     "!=",
	LESS_EQ:    "<=",
	GREATER_EQ: ">=",

	SHL_OP:      "<<",
	SHR_OP:      ">>",
	AND_LOGICAL: "&&",
	OR_LOGICAL:  "||",
	QUESTION:    "?",

	SEMICOLON: ";",
	COLON:     ":",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	HASH:      "#",
	ELLIPSIS:  "...",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer. Line and Column are
// 1-based; Column is the position of the token's first character.
type Token struct {
	Type     TokenType
	Lexeme   string
	Filename string
	Line     int
	Column   int
}

func (t Token) String() string {
	return fmt.Sprintf("[%s] '%s' at %s:%d:%d", t.Type, t.Lexeme, t.Filename, t.Line, t.Column)
}
