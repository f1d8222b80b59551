package compiler

import "unicode"

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"auto":     AUTO,
	"break":    BREAK,
	"case":     CASE,
	"char":     CHAR,
	"const":    CONST,
	"continue": CONTINUE,
	"default":  DEFAULT,
	"do":       DO,
	"double":   DOUBLE,
	"else":     ELSE,
	"enum":     ENUM,
	"extern":   EXTERN,
	"float":    FLOAT,
	"for":      FOR,
	"goto":     GOTO,
	"if":       IF,
	"int":      INT,
	"long":     LONG,
	"register": REGISTER,
	"return":   RETURN,
	"short":    SHORT,
	"signed":   SIGNED,
	"sizeof":   SIZEOF,
	"static":   STATIC,
	"struct":   STRUCT,
	"switch":   SWITCH,
	"typedef":  TYPEDEF,
	"union":    UNION,
	"unsigned": UNSIGNED,
	"void":     VOID,
	"volatile": VOLATILE,
	"while":    WHILE,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src      []rune
	filename string
	reporter *Reporter
	start    int // index of the first rune of the token being scanned
	pos      int // index of the next rune to consume
	line     int // current 1-based source line
	column   int // one past the column of the last consumed rune
}

// NewLexer prepares a scanner over src. Diagnostics for malformed input are
// recorded on r; the scan itself never fails.
func NewLexer(src, filename string, r *Reporter) *Lexer {
	r.SetFilename(filename)
	return &Lexer{src: []rune(src), filename: filename, reporter: r, line: 1, column: 1}
}

// Tokenize scans the whole input and returns the token stream, terminated by
// exactly one EOF token. Malformed pieces are reported and skipped so that
// scanning always reaches the end of the input.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		l.skipWhitespace()
		if l.atEnd() {
			break
		}
		if tok, ok := l.scanToken(); ok {
			tokens = append(tokens, tok)
		}
	}
	tokens = append(tokens, Token{Type: EOF, Filename: l.filename, Line: l.line, Column: l.column})
	return tokens
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

// peekNext returns the rune one position ahead of the current position.
func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it. Line bookkeeping for newlines is
// done by the callers that consume them, not here.
func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	l.column++
	r := l.src[l.pos]
	l.pos++
	return r
}

// match consumes the next rune only if it equals expected.
func (l *Lexer) match(expected rune) bool {
	if l.atEnd() || l.src[l.pos] != expected {
		return false
	}
	l.pos++
	l.column++
	return true
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		case '\n':
			l.line++
			l.column = 1
			l.advance()
		case '/':
			if l.peekNext() == '/' || l.peekNext() == '*' {
				l.skipComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

// skipComment discards a // line comment or a /* */ block comment. The
// opening slash must still be at l.peek().
func (l *Lexer) skipComment() {
	if l.peekNext() == '/' {
		l.advance()
		l.advance()
		for l.peek() != '\n' && !l.atEnd() {
			l.advance()
		}
		return
	}

	l.advance() // consume '/'
	l.advance() // consume '*'
	startLine := l.line
	startColumn := l.column - 2

	for !l.atEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.peek() == '\n' {
			l.line++
			l.column = 1
		}
		l.advance()
	}
	l.reporter.Errorf(startLine, startColumn, "Unterminated block comment")
}

// makeToken builds a token from the runes consumed since l.start.
func (l *Lexer) makeToken(tt TokenType) Token {
	return Token{
		Type:     tt,
		Lexeme:   string(l.src[l.start:l.pos]),
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column - (l.pos - l.start),
	}
}

// scanToken scans one token starting at the current position. It returns
// ok=false when the input produced a diagnostic instead of a token.
func (l *Lexer) scanToken() (Token, bool) {
	l.start = l.pos
	c := l.peek()

	if unicode.IsLetter(c) || c == '_' {
		return l.scanIdentifier(), true
	}
	if unicode.IsDigit(c) {
		return l.scanNumber()
	}
	if c == '"' {
		return l.scanString()
	}
	if c == '\'' {
		return l.scanChar()
	}

	l.advance()
	switch c {
	case '(':
		return l.makeToken(LPAREN), true
	case ')':
		return l.makeToken(RPAREN), true
	case '{':
		return l.makeToken(LBRACE), true
	case '}':
		return l.makeToken(RBRACE), true
	case '[':
		return l.makeToken(LBRACKET), true
	case ']':
		return l.makeToken(RBRACKET), true
	case ';':
		return l.makeToken(SEMICOLON), true
	case ':':
		return l.makeToken(COLON), true
	case ',':
		return l.makeToken(COMMA), true
	case '~':
		return l.makeToken(TILDE), true
	case '?':
		return l.makeToken(QUESTION), true
	case '#':
		return l.makeToken(HASH), true
	case '.':
		if l.peek() == '.' && l.peekNext() == '.' {
			l.advance()
			l.advance()
			return l.makeToken(ELLIPSIS), true
		}
		return l.makeToken(DOT), true
	case '+':
		if l.match('+') {
			return l.makeToken(PLUS_PLUS), true
		}
		if l.match('=') {
			return l.makeToken(PLUS_ASSIGN), true
		}
		return l.makeToken(PLUS), true
	case '-':
		if l.match('>') {
			return l.makeToken(ARROW), true
		}
		if l.match('-') {
			return l.makeToken(MINUS_MINUS), true
		}
		if l.match('=') {
			return l.makeToken(MINUS_ASSIGN), true
		}
		return l.makeToken(MINUS), true
	case '*':
		if l.match('=') {
			return l.makeToken(STAR_ASSIGN), true
		}
		return l.makeToken(STAR), true
	case '/':
		if l.match('=') {
			return l.makeToken(SLASH_ASSIGN), true
		}
		return l.makeToken(SLASH), true
	case '%':
		if l.match('=') {
			return l.makeToken(PERCENT_ASSIGN), true
		}
		return l.makeToken(PERCENT), true
	case '&':
		if l.match('&') {
			return l.makeToken(AND_LOGICAL), true
		}
		if l.match('=') {
			return l.makeToken(AND_ASSIGN), true
		}
		return l.makeToken(AND), true
	case '|':
		if l.match('|') {
			return l.makeToken(OR_LOGICAL), true
		}
		if l.match('=') {
			return l.makeToken(OR_ASSIGN), true
		}
		return l.makeToken(PIPE), true
	case '^':
		if l.match('=') {
			return l.makeToken(XOR_ASSIGN), true
		}
		return l.makeToken(CARET), true
	case '!':
		if l.match('=') {
			return l.makeToken(NOT_EQ), true
		}
		return l.makeToken(NOT), true
	case '=':
		if l.match('=') {
			return l.makeToken(EQUALS), true
		}
		return l.makeToken(ASSIGN), true
	case '<':
		if l.match('=') {
			return l.makeToken(LESS_EQ), true
		}
		if l.match('<') {
			if l.match('=') {
				return l.makeToken(SHL_ASSIGN), true
			}
			return l.makeToken(SHL_OP), true
		}
		return l.makeToken(LESS), true
	case '>':
		if l.match('=') {
			return l.makeToken(GREATER_EQ), true
		}
		if l.match('>') {
			if l.match('=') {
				return l.makeToken(SHR_ASSIGN), true
			}
			return l.makeToken(SHR_OP), true
		}
		return l.makeToken(GREATER), true
	default:
		l.reporter.Errorf(l.line, l.column, "Unexpected character: %c", c)
		return Token{}, false
	}
}

// scanIdentifier collects an identifier or keyword. The first character
// (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdentifier() Token {
	for {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	tok := l.makeToken(IDENTIFIER)
	if kw, ok := keywords[tok.Lexeme]; ok {
		tok.Type = kw
	}
	return tok
}

// scanNumber collects an integer or floating point literal. A fractional
// part, an exponent, or an f suffix marks the literal as floating; l/L and
// u/U suffixes are consumed without changing the classification.
func (l *Lexer) scanNumber() (Token, bool) {
	isFloat := false

	for unicode.IsDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && unicode.IsDigit(l.peekNext()) {
		isFloat = true
		l.advance()
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !unicode.IsDigit(l.peek()) {
			l.reporter.Errorf(l.line, l.column, "Invalid floating point number: exponent has no digits")
			return Token{}, false
		}
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}

	switch {
	case l.peek() == 'f' || l.peek() == 'F':
		isFloat = true
		l.advance()
	case l.peek() == 'l' || l.peek() == 'L':
		l.advance()
		if l.peek() == 'u' || l.peek() == 'U' {
			l.advance()
		}
	case l.peek() == 'u' || l.peek() == 'U':
		l.advance()
		if l.peek() == 'l' || l.peek() == 'L' {
			l.advance()
		}
	}

	if isFloat {
		return l.makeToken(FLOAT_LIT), true
	}
	return l.makeToken(INTEGER), true
}

// scanString collects a string literal including its quotes. Escape
// sequences consume the following character without validation here; the
// code generator interprets them.
func (l *Lexer) scanString() (Token, bool) {
	l.advance() // consume opening quote
	startLine := l.line
	startColumn := l.column - 1

	for l.peek() != '"' && !l.atEnd() {
		if l.peek() == '\n' {
			l.line++
			l.column = 1
		}
		if l.peek() == '\\' {
			l.advance()
			if l.atEnd() {
				l.reporter.Errorf(startLine, startColumn, "Unterminated string literal: expected escape sequence")
				break
			}
			l.advance()
		} else {
			l.advance()
		}
	}

	if l.atEnd() {
		l.reporter.Errorf(startLine, startColumn, "Unterminated string literal")
		return Token{}, false
	}

	l.advance() // consume closing quote
	return l.makeToken(STRING), true
}

// scanChar collects a character literal: exactly one character or one escape
// sequence between single quotes. Each malformed shape gets its own
// diagnostic, with recovery to the next quote where possible.
func (l *Lexer) scanChar() (Token, bool) {
	l.advance() // consume opening quote
	startLine := l.line
	startColumn := l.column - 1

	switch {
	case l.peek() == '\\':
		l.advance()
		if l.atEnd() {
			l.reporter.Errorf(startLine, startColumn, "Unterminated character literal: expected escape sequence")
			return Token{}, false
		}
		l.advance()
	case l.peek() != '\'' && !l.atEnd():
		l.advance()
	default:
		l.reporter.Errorf(startLine, startColumn, "Empty character literal")
		if l.peek() == '\'' {
			l.advance()
		}
		return Token{}, false
	}

	if l.peek() != '\'' {
		l.reporter.Errorf(startLine, startColumn, "Multi-character character literal or missing closing quote")
		for l.peek() != '\'' && !l.atEnd() {
			l.advance()
		}
	}

	if l.peek() == '\'' {
		l.advance()
		return l.makeToken(CHAR_LIT), true
	}
	l.reporter.Errorf(startLine, startColumn, "Unterminated character literal")
	return Token{}, false
}
