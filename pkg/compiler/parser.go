package compiler

import (
	"errors"
	"strings"
)

// errParse is the sentinel returned after a syntax diagnostic has been
// recorded; it unwinds the descent to the nearest recovery point, which
// resynchronizes and keeps going.
var errParse = errors.New("parse error")

// compoundBase maps each compound assignment operator to the binary operator
// it expands to.
var compoundBase = map[TokenType]TokenType{
	PLUS_ASSIGN:    PLUS,
	MINUS_ASSIGN:   MINUS,
	STAR_ASSIGN:    STAR,
	SLASH_ASSIGN:   SLASH,
	PERCENT_ASSIGN: PERCENT,
	AND_ASSIGN:     AND,
	OR_ASSIGN:      PIPE,
	XOR_ASSIGN:     CARET,
	SHL_ASSIGN:     SHL_OP,
	SHR_ASSIGN:     SHR_OP,
}

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program       = declaration* EOF
//	declaration   = functionDecl | variableDecl
//	functionDecl  = typeSpecifier IDENTIFIER "(" parameterList? ")" (block | ";")
//	variableDecl  = typeSpecifier IDENTIFIER ("=" expression)? ";"
//	typeSpecifier = ("const" | "volatile")* baseType "*"*
//	block         = "{" statement* "}"
//	statement     = block | ifStmt | whileStmt | doWhileStmt | forStmt
//	              | returnStmt | "break" ";" | "continue" ";"
//	              | variableDecl | expression ";"
//	expression    = assignment
//	assignment    = conditional (("=" | "+=" | "-=" | ...) assignment)?
//	conditional   = logicalOr ("?" expression ":" conditional)?
//	logicalOr     = logicalAnd ("||" logicalAnd)*
//	logicalAnd    = bitwiseOr ("&&" bitwiseOr)*
//	bitwiseOr     = bitwiseXor ("|" bitwiseXor)*
//	bitwiseXor    = bitwiseAnd ("^" bitwiseAnd)*
//	bitwiseAnd    = equality ("&" equality)*
//	equality      = comparison (("==" | "!=") comparison)*
//	comparison    = shift (("<" | "<=" | ">" | ">=") shift)*
//	shift         = additive (("<<" | ">>") additive)*
//	additive      = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = unary (("*" | "/" | "%") unary)*
//	unary         = ("-" | "+" | "!" | "~" | "*" | "&" | "++" | "--") unary | postfix
//	postfix       = primary ("[" expression "]" | "(" args ")"
//	              | ("." | "->") IDENTIFIER | "++" | "--")*
//	primary       = INTEGER | FLOAT | CHAR | STRING | IDENTIFIER | "(" expression ")"
type Parser struct {
	tokens   []Token
	pos      int
	reporter *Reporter
}

func NewParser(tokens []Token, r *Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: r}
}

// Parse consumes the whole token stream and returns the Program root. Syntax
// errors are recorded on the Reporter; each broken construct costs exactly
// one diagnostic and parsing resumes at the next statement boundary.
func (p *Parser) Parse() *Program {
	prog := &Program{}
	for !p.atEnd() {
		decl, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		}
	}
	return prog
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].Type == EOF
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+offset]
}

// prev returns the most recently consumed token.
func (p *Parser) prev() Token {
	return p.tokens[p.pos-1]
}

// advance consumes and returns the current token. The EOF token is never
// consumed.
func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.prev()
}

func (p *Parser) check(tt TokenType) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == tt
}

// match consumes the current token if it is any of the given types.
func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// fail records a diagnostic at tok and returns the unwind sentinel.
func (p *Parser) fail(tok Token, format string, args ...any) error {
	p.reporter.Errorf(tok.Line, tok.Column, format, args...)
	return errParse
}

// expect consumes the current token if it matches tt, otherwise records
// message as a diagnostic and fails.
func (p *Parser) expect(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.fail(p.peek(), "%s", message)
}

// isTypeSpecifier reports whether tok can start a type specifier.
func isTypeSpecifier(tok Token) bool {
	switch tok.Type {
	case VOID, CHAR, SHORT, INT, LONG, FLOAT, DOUBLE, SIGNED, UNSIGNED, CONST, VOLATILE:
		return true
	}
	return false
}

// synchronize advances past the broken construct so parsing can resume at a
// statement boundary: just past a ';', or at a token that can start a new
// statement or declaration.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.prev().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case IF, WHILE, FOR, RETURN, BREAK, CONTINUE, VOID, CHAR, SHORT, INT, LONG, FLOAT, DOUBLE:
			return
		}
		p.advance()
	}
}

// declaration parses one top-level declaration. Distinguishing a function
// from a variable takes a speculative parse of the type specifier: if an
// identifier followed by '(' comes next it is a function, and the cursor is
// rewound so the dedicated parser sees the whole declaration.
func (p *Parser) declaration() (Node, error) {
	if isTypeSpecifier(p.peek()) {
		startPos := p.pos
		if _, err := p.typeSpecifier(); err != nil {
			return nil, err
		}
		if p.check(IDENTIFIER) && p.peekAt(1).Type == LPAREN {
			p.pos = startPos
			return p.functionDecl()
		}
		p.pos = startPos
		decl, err := p.variableDecl()
		if err != nil {
			return nil, err
		}
		return decl, nil
	}

	p.reporter.Errorf(p.peek().Line, p.peek().Column, "Unsupported declaration")
	p.synchronize()
	return nil, nil
}

func (p *Parser) functionDecl() (Node, error) {
	retType, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER, "Expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN, "Expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []*Param
	if !p.check(RPAREN) {
		params, err = p.parameterList()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RPAREN, "Expected ')' after parameters"); err != nil {
		return nil, err
	}

	fn := &FunctionDecl{ReturnType: retType, Name: name, Params: params}
	if p.check(LBRACE) {
		fn.Body, err = p.block()
		if err != nil {
			return nil, err
		}
	} else if _, err := p.expect(SEMICOLON, "Expected ';' after function declaration"); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) variableDecl() (*VariableDecl, error) {
	ts, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER, "Expected variable name")
	if err != nil {
		return nil, err
	}

	decl := &VariableDecl{Type: ts, Name: name}
	if p.match(ASSIGN) {
		decl.Init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON, "Expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) typeSpecifier() (*TypeSpec, error) {
	ts := &TypeSpec{}
	for p.match(CONST, VOLATILE) {
		if p.prev().Type == CONST {
			ts.IsConst = true
		} else {
			ts.IsVolatile = true
		}
	}

	if !isTypeSpecifier(p.peek()) {
		return nil, p.fail(p.peek(), "Expected type specifier")
	}
	ts.Name = p.advance()

	for p.match(STAR) {
		ts.IsPointer = true
		ts.PointerLevel++
	}
	return ts, nil
}

// parameter parses one parameter; the name may be omitted.
func (p *Parser) parameter() (*Param, error) {
	ts, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}
	prm := &Param{Type: ts}
	if p.check(IDENTIFIER) {
		prm.Name = p.advance()
	}
	return prm, nil
}

func (p *Parser) parameterList() ([]*Param, error) {
	first, err := p.parameter()
	if err != nil {
		return nil, err
	}
	params := []*Param{first}
	for p.match(COMMA) {
		prm, err := p.parameter()
		if err != nil {
			return nil, err
		}
		params = append(params, prm)
	}
	return params, nil
}

func (p *Parser) block() (*BlockStmt, error) {
	if _, err := p.expect(LBRACE, "Expected '{' before block"); err != nil {
		return nil, err
	}

	blk := &BlockStmt{}
	for !p.check(RBRACE) && !p.atEnd() {
		stmt, err := p.statement()
		if err != nil {
			p.synchronize()
			continue
		}
		if stmt != nil {
			blk.Stmts = append(blk.Stmts, stmt)
		}
	}

	if _, err := p.expect(RBRACE, "Expected '}' after block"); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.check(LBRACE):
		blk, err := p.block()
		if err != nil {
			return nil, err
		}
		return blk, nil
	case p.match(IF):
		return p.ifStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(DO):
		return p.doWhileStmt()
	case p.match(FOR):
		return p.forStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(BREAK):
		if _, err := p.expect(SEMICOLON, "Expected ';' after 'break'"); err != nil {
			return nil, err
		}
		return &BreakStmt{}, nil
	case p.match(CONTINUE):
		if _, err := p.expect(SEMICOLON, "Expected ';' after 'continue'"); err != nil {
			return nil, err
		}
		return &ContinueStmt{}, nil
	}

	if isTypeSpecifier(p.peek()) {
		decl, err := p.variableDecl()
		if err != nil {
			return nil, err
		}
		return decl, nil
	}
	return p.exprStmt()
}

func (p *Parser) exprStmt() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, "Expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func (p *Parser) ifStmt() (Stmt, error) {
	if _, err := p.expect(LPAREN, "Expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "Expected ')' after if condition"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Condition: cond, Body: body}
	if p.match(ELSE) {
		stmt.ElseBody, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	if _, err := p.expect(LPAREN, "Expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "Expected ')' after while condition"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

func (p *Parser) doWhileStmt() (Stmt, error) {
	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(WHILE, "Expected 'while' after do body"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN, "Expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "Expected ')' after while condition"); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, "Expected ';' after do-while statement"); err != nil {
		return nil, err
	}
	return &DoWhileStmt{Body: body, Condition: cond}, nil
}

func (p *Parser) forStmt() (Stmt, error) {
	if _, err := p.expect(LPAREN, "Expected '(' after 'for'"); err != nil {
		return nil, err
	}

	stmt := &ForStmt{}
	if !p.check(SEMICOLON) {
		if isTypeSpecifier(p.peek()) {
			decl, err := p.variableDecl()
			if err != nil {
				return nil, err
			}
			stmt.Init = decl
		} else {
			init, err := p.exprStmt()
			if err != nil {
				return nil, err
			}
			stmt.Init = init
		}
	} else if _, err := p.expect(SEMICOLON, "Expected ';'"); err != nil {
		return nil, err
	}

	var err error
	if !p.check(SEMICOLON) {
		stmt.Cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON, "Expected ';' after for condition"); err != nil {
		return nil, err
	}

	if !p.check(RPAREN) {
		stmt.Post, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RPAREN, "Expected ')' after for clauses"); err != nil {
		return nil, err
	}

	stmt.Body, err = p.statement()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) returnStmt() (Stmt, error) {
	stmt := &ReturnStmt{}
	var err error
	if !p.check(SEMICOLON) {
		stmt.Expr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMICOLON, "Expected ';' after return value"); err != nil {
		return nil, err
	}
	return stmt, nil
}

//  Expression parsing, lowest precedence first.

func (p *Parser) expression() (Expr, error) {
	return p.parseAssignment()
}

// parseAssignment handles = and the compound assignments. a OP= b is
// desugared here into a = (a OP b); the target subtree is cloned so that the
// two positions it occupies stay independent.
func (p *Parser) parseAssignment() (Expr, error) {
	expr, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	if p.match(ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, AND_ASSIGN, OR_ASSIGN, XOR_ASSIGN, SHL_ASSIGN, SHR_ASSIGN) {
		op := p.prev()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}

		if base, ok := compoundBase[op.Type]; ok {
			binTok := Token{
				Type:     base,
				Lexeme:   strings.TrimSuffix(op.Lexeme, "="),
				Filename: op.Filename,
				Line:     op.Line,
				Column:   op.Column,
			}
			inner := &BinaryExpr{Left: cloneExpr(expr), Op: binTok, Right: value}
			eqTok := Token{Type: ASSIGN, Lexeme: "=", Filename: op.Filename, Line: op.Line, Column: op.Column}
			return &BinaryExpr{Left: expr, Op: eqTok, Right: inner}, nil
		}
		return &BinaryExpr{Left: expr, Op: op, Right: value}, nil
	}
	return expr, nil
}

// parseConditional handles ?: (right associative).
func (p *Parser) parseConditional() (Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	if p.match(QUESTION) {
		trueExpr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON, "Expected ':' in conditional expression"); err != nil {
			return nil, err
		}
		falseExpr, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		return &CondExpr{Condition: cond, TrueExpr: trueExpr, FalseExpr: falseExpr}, nil
	}
	return cond, nil
}

func (p *Parser) parseLogicalOr() (Expr, error) {
	expr, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OR_LOGICAL) {
		op := p.prev()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseLogicalAnd() (Expr, error) {
	expr, err := p.parseBitwiseOr()
	if err != nil {
		return nil, err
	}
	for p.match(AND_LOGICAL) {
		op := p.prev()
		right, err := p.parseBitwiseOr()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseBitwiseOr() (Expr, error) {
	expr, err := p.parseBitwiseXor()
	if err != nil {
		return nil, err
	}
	for p.match(PIPE) {
		op := p.prev()
		right, err := p.parseBitwiseXor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseBitwiseXor() (Expr, error) {
	expr, err := p.parseBitwiseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(CARET) {
		op := p.prev()
		right, err := p.parseBitwiseAnd()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// parseBitwiseAnd handles binary &. Unary & (address-of) is consumed by
// parseUnary and never reaches here.
func (p *Parser) parseBitwiseAnd() (Expr, error) {
	expr, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	expr, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.match(EQUALS, NOT_EQ) {
		op := p.prev()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseComparison() (Expr, error) {
	expr, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.match(LESS, LESS_EQ, GREATER, GREATER_EQ) {
		op := p.prev()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseShift() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.match(SHL_OP, SHR_OP) {
		op := p.prev()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(PLUS, MINUS) {
		op := p.prev()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(STAR, SLASH, PERCENT) {
		op := p.prev()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.match(MINUS, PLUS, NOT, TILDE, STAR, AND, PLUS_PLUS, MINUS_MINUS) {
		op := p.prev()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Right: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(LBRACKET):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET, "Expected ']' after array index"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Array: expr, Index: index}

		case p.match(LPAREN):
			call := &FunctionCall{Callee: expr}
			if !p.check(RPAREN) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					call.Args = append(call.Args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.expect(RPAREN, "Expected ')' after arguments"); err != nil {
				return nil, err
			}
			expr = call

		case p.match(DOT, ARROW):
			op := p.prev()
			member, err := p.expect(IDENTIFIER, "Expected identifier after '.' or '->'")
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{Object: expr, Op: op, Member: member}

		case p.match(PLUS_PLUS, MINUS_MINUS):
			expr = &UnaryExpr{Op: p.prev(), Right: expr}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	if p.match(INTEGER, FLOAT_LIT, CHAR_LIT, STRING) {
		return &Literal{Tok: p.prev()}, nil
	}
	if p.match(IDENTIFIER) {
		return &VarRef{Name: p.prev()}, nil
	}
	if p.match(LPAREN) {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, p.fail(p.peek(), "Expected expression")
}
