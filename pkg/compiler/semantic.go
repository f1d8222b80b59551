package compiler

import "strings"

// Analyzer walks the AST once, resolving names against a scoped symbol table
// and checking types. It never mutates the AST; every failed check is
// recorded on the Reporter and yields a best-effort type (usually void) so
// one pass surfaces as many diagnostics as possible.
type Analyzer struct {
	reporter *Reporter
	symbols  *SymbolTable

	// Set while inside a function body.
	currentReturn *TypeInfo
	hasReturn     bool
}

func NewAnalyzer(r *Reporter) *Analyzer {
	return &Analyzer{reporter: r, symbols: NewSymbolTable()}
}

// Analyze checks the whole program. The symbol table is reset first, so an
// Analyzer can be reused across runs.
func (a *Analyzer) Analyze(prog *Program) {
	if prog == nil {
		return
	}
	a.symbols.Reset()

	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *FunctionDecl:
			a.checkFunctionDecl(d)
		case *VariableDecl:
			a.checkVariableDecl(d)
		}
	}
}

func (a *Analyzer) checkFunctionDecl(fn *FunctionDecl) {
	returnType := a.typeFromSpec(fn.ReturnType)

	params := make([]*TypeInfo, 0, len(fn.Params))
	for _, prm := range fn.Params {
		params = append(params, a.typeFromSpec(prm.Type))
	}
	fnType := FunctionOf(returnType, params)

	name := fn.Name.Lexeme
	if a.symbols.ExistsInCurrentScope(name) {
		a.reporter.Errorf(fn.Name.Line, fn.Name.Column,
			"Function '%s' already declared in this scope", name)
		return
	}
	a.symbols.DeclareFunction(name, fnType)

	if fn.Body == nil {
		return
	}

	a.symbols.EnterScope()
	a.currentReturn = returnType
	// A void function is satisfied without an explicit return.
	a.hasReturn = returnType.Kind == TYPE_VOID

	for _, prm := range fn.Params {
		a.checkParameter(prm)
	}
	a.checkBlock(fn.Body)

	// Tracked with a seen-a-return flag, not reachability analysis, so this
	// stays a warning.
	if !a.hasReturn && returnType.Kind != TYPE_VOID {
		a.reporter.Warnf(fn.Name.Line, fn.Name.Column,
			"Function '%s' may not return a value", name)
	}

	a.currentReturn = nil
	a.symbols.LeaveScope()
}

func (a *Analyzer) checkVariableDecl(decl *VariableDecl) {
	typ := a.typeFromSpec(decl.Type)

	name := decl.Name.Lexeme
	if a.symbols.ExistsInCurrentScope(name) {
		a.reporter.Errorf(decl.Name.Line, decl.Name.Column,
			"Variable '%s' already declared in this scope", name)
		return
	}

	if decl.Init != nil {
		initType := a.checkExpr(decl.Init)
		if !typesCompatible(initType, typ) {
			a.reporter.Errorf(decl.Name.Line, decl.Name.Column,
				"Cannot initialize variable of type '%s' with expression of type '%s'",
				typ.Kind, initType.Kind)
		}
	}

	// Registered even when the initializer was incompatible, so later uses
	// of the name resolve.
	a.symbols.DeclareVariable(name, typ)
}

// checkParameter registers one parameter in the function scope. Unnamed
// parameters are permitted and skipped.
func (a *Analyzer) checkParameter(prm *Param) {
	typ := a.typeFromSpec(prm.Type)
	if prm.Name.Lexeme == "" {
		return
	}

	name := prm.Name.Lexeme
	if a.symbols.ExistsInCurrentScope(name) {
		a.reporter.Errorf(prm.Name.Line, prm.Name.Column,
			"Parameter '%s' already declared", name)
		return
	}
	a.symbols.DeclareParameter(name, typ)
}

func (a *Analyzer) checkBlock(blk *BlockStmt) {
	a.symbols.EnterScope()
	for _, stmt := range blk.Stmts {
		a.checkStmt(stmt)
	}
	a.symbols.LeaveScope()
}

func (a *Analyzer) checkStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *ExprStmt:
		a.checkExpr(s.Expr)
	case *VariableDecl:
		a.checkVariableDecl(s)
	case *BlockStmt:
		a.checkBlock(s)
	case *IfStmt:
		a.checkIf(s)
	case *WhileStmt:
		a.checkWhile(s)
	case *DoWhileStmt:
		a.checkDoWhile(s)
	case *ForStmt:
		a.checkFor(s)
	case *ReturnStmt:
		a.checkReturn(s)
	case *BreakStmt, *ContinueStmt:
		// Loop context is not validated.
	}
}

// checkBranchBody analyzes a statement used as a branch or loop body. A
// non-block statement still gets an implicit scope of its own.
func (a *Analyzer) checkBranchBody(stmt Stmt) {
	if blk, ok := stmt.(*BlockStmt); ok {
		a.checkBlock(blk)
		return
	}
	a.symbols.EnterScope()
	a.checkStmt(stmt)
	a.symbols.LeaveScope()
}

func (a *Analyzer) checkIf(stmt *IfStmt) {
	condType := a.checkExpr(stmt.Condition)
	if !condType.IsScalar() {
		a.reporter.Errorf(0, 0, "If condition must be a scalar type")
	}

	a.checkBranchBody(stmt.Body)
	if stmt.ElseBody != nil {
		a.checkBranchBody(stmt.ElseBody)
	}
}

func (a *Analyzer) checkWhile(stmt *WhileStmt) {
	condType := a.checkExpr(stmt.Condition)
	if !condType.IsScalar() {
		a.reporter.Errorf(0, 0, "While condition must be a scalar type")
	}
	a.checkBranchBody(stmt.Body)
}

func (a *Analyzer) checkDoWhile(stmt *DoWhileStmt) {
	a.checkBranchBody(stmt.Body)

	condType := a.checkExpr(stmt.Condition)
	if !condType.IsScalar() {
		a.reporter.Errorf(0, 0, "Do-while condition must be a scalar type")
	}
}

func (a *Analyzer) checkFor(stmt *ForStmt) {
	a.symbols.EnterScope()

	if stmt.Init != nil {
		a.checkStmt(stmt.Init)
	}
	if stmt.Cond != nil {
		condType := a.checkExpr(stmt.Cond)
		if !condType.IsScalar() {
			a.reporter.Errorf(0, 0, "For condition must be a scalar type")
		}
	}
	if stmt.Post != nil {
		a.checkExpr(stmt.Post)
	}
	a.checkBranchBody(stmt.Body)

	a.symbols.LeaveScope()
}

func (a *Analyzer) checkReturn(stmt *ReturnStmt) {
	if a.currentReturn == nil {
		a.reporter.Errorf(0, 0, "Return statement outside of function")
		return
	}
	a.hasReturn = true

	if stmt.Expr != nil {
		valueType := a.checkExpr(stmt.Expr)
		if !typesCompatible(valueType, a.currentReturn) {
			a.reporter.Errorf(0, 0, "Cannot return value of incompatible type")
		}
	} else if a.currentReturn.Kind != TYPE_VOID {
		a.reporter.Errorf(0, 0, "Non-void function should return a value")
	}
}

// checkExpr computes an expression's type. A nil expression and every
// already-diagnosed failure yield void so checking can continue.
func (a *Analyzer) checkExpr(expr Expr) *TypeInfo {
	if expr == nil {
		return VoidType()
	}

	switch e := expr.(type) {
	case *Literal:
		return a.checkLiteral(e)
	case *VarRef:
		return a.checkVarRef(e)
	case *UnaryExpr:
		return a.checkUnary(e)
	case *BinaryExpr:
		return a.checkBinary(e)
	case *FunctionCall:
		return a.checkCall(e)
	case *IndexExpr:
		return a.checkIndex(e)
	case *MemberExpr:
		return a.checkMember(e)
	case *CondExpr:
		return a.checkCond(e)
	}

	a.reporter.Errorf(0, 0, "Unknown expression type: %T", expr)
	return VoidType()
}

func (a *Analyzer) checkLiteral(lit *Literal) *TypeInfo {
	switch lit.Tok.Type {
	case INTEGER:
		return IntType()
	case FLOAT_LIT:
		// An unsuffixed constant is double; the f suffix narrows it to float.
		if strings.HasSuffix(lit.Tok.Lexeme, "f") || strings.HasSuffix(lit.Tok.Lexeme, "F") {
			return FloatType()
		}
		return DoubleType()
	case CHAR_LIT:
		return CharType()
	case STRING:
		// Chars between the quotes plus the NUL terminator.
		return ArrayOf(CharType(), len(lit.Tok.Lexeme)-2+1)
	}

	a.reporter.Errorf(lit.Tok.Line, lit.Tok.Column, "Unknown literal type")
	return VoidType()
}

func (a *Analyzer) checkVarRef(ref *VarRef) *TypeInfo {
	sym := a.symbols.Lookup(ref.Name.Lexeme)
	if sym == nil {
		a.reporter.Errorf(ref.Name.Line, ref.Name.Column,
			"Undefined variable '%s'", ref.Name.Lexeme)
		return VoidType()
	}
	return sym.Type
}

func (a *Analyzer) checkUnary(expr *UnaryExpr) *TypeInfo {
	operand := a.checkExpr(expr.Right)
	op := expr.Op

	switch op.Type {
	case MINUS, PLUS:
		if !operand.IsNumeric() {
			a.reporter.Errorf(op.Line, op.Column,
				"Unary operator %s requires numeric operand", op.Lexeme)
			return VoidType()
		}
		return operand

	case NOT:
		if !operand.IsScalar() {
			a.reporter.Errorf(op.Line, op.Column,
				"Unary operator ! requires scalar operand")
			return VoidType()
		}
		return IntType()

	case TILDE:
		if !operand.IsInteger() {
			a.reporter.Errorf(op.Line, op.Column,
				"Unary operator ~ requires integer operand")
			return VoidType()
		}
		return operand

	case STAR:
		if operand.Kind != TYPE_POINTER {
			a.reporter.Errorf(op.Line, op.Column, "Cannot dereference non-pointer type")
			return VoidType()
		}
		return operand.Base

	case AND:
		return PointerTo(operand)

	case PLUS_PLUS, MINUS_MINUS:
		if !operand.IsNumeric() && operand.Kind != TYPE_POINTER {
			a.reporter.Errorf(op.Line, op.Column,
				"Unary operator %s requires numeric or pointer operand", op.Lexeme)
			return VoidType()
		}
		return operand
	}

	a.reporter.Errorf(op.Line, op.Column, "Unknown unary operator: %s", op.Lexeme)
	return VoidType()
}

func (a *Analyzer) checkBinary(expr *BinaryExpr) *TypeInfo {
	left := a.checkExpr(expr.Left)
	right := a.checkExpr(expr.Right)
	op := expr.Op

	switch op.Type {
	case PLUS:
		if left.Kind == TYPE_POINTER && right.IsInteger() {
			return left
		}
		if left.IsInteger() && right.Kind == TYPE_POINTER {
			return right
		}
		if left.IsNumeric() && right.IsNumeric() {
			return commonType(left, right)
		}
		a.reporter.Errorf(op.Line, op.Column, "Invalid operands to binary +")
		return VoidType()

	case MINUS:
		if left.Kind == TYPE_POINTER && right.IsInteger() {
			return left
		}
		// Pointer difference yields an integer.
		if left.Kind == TYPE_POINTER && right.Kind == TYPE_POINTER {
			return IntType()
		}
		if left.IsNumeric() && right.IsNumeric() {
			return commonType(left, right)
		}
		a.reporter.Errorf(op.Line, op.Column, "Invalid operands to binary -")
		return VoidType()

	case STAR, SLASH, PERCENT:
		if left.IsNumeric() && right.IsNumeric() {
			return commonType(left, right)
		}
		a.reporter.Errorf(op.Line, op.Column, "Invalid operands to binary %s", op.Lexeme)
		return VoidType()

	case LESS, LESS_EQ, GREATER, GREATER_EQ, EQUALS, NOT_EQ:
		// Compatibility in either direction is enough to compare.
		if !typesCompatible(left, right) && !typesCompatible(right, left) {
			a.reporter.Errorf(op.Line, op.Column, "Incompatible types for comparison")
			return VoidType()
		}
		return IntType()

	case AND, PIPE, CARET, SHL_OP, SHR_OP:
		if !left.IsInteger() || !right.IsInteger() {
			a.reporter.Errorf(op.Line, op.Column, "Bitwise operators require integer operands")
			return VoidType()
		}
		return commonType(left, right)

	case AND_LOGICAL, OR_LOGICAL:
		if !left.IsScalar() || !right.IsScalar() {
			a.reporter.Errorf(op.Line, op.Column, "Logical operators require scalar operands")
			return VoidType()
		}
		return IntType()

	case ASSIGN:
		if !typesCompatible(right, left) {
			a.reporter.Errorf(op.Line, op.Column, "Cannot assign incompatible type")
			return VoidType()
		}
		return left
	}

	a.reporter.Errorf(op.Line, op.Column, "Unknown binary operator: %s", op.Lexeme)
	return VoidType()
}

func (a *Analyzer) checkCall(call *FunctionCall) *TypeInfo {
	calleeType := a.checkExpr(call.Callee)

	if calleeType.Kind != TYPE_FUNCTION {
		a.reporter.Errorf(0, 0, "Called object is not a function")
		return VoidType()
	}
	if len(call.Args) != len(calleeType.Params) {
		a.reporter.Errorf(0, 0, "Wrong number of arguments to function call")
		return VoidType()
	}

	for i, arg := range call.Args {
		argType := a.checkExpr(arg)
		if !typesCompatible(argType, calleeType.Params[i]) {
			a.reporter.Errorf(0, 0, "Argument type mismatch in function call")
		}
	}
	return calleeType.Base
}

func (a *Analyzer) checkIndex(expr *IndexExpr) *TypeInfo {
	arrayType := a.checkExpr(expr.Array)
	indexType := a.checkExpr(expr.Index)

	if arrayType.Kind != TYPE_ARRAY && arrayType.Kind != TYPE_POINTER {
		a.reporter.Errorf(0, 0, "Subscripted value is not an array or pointer")
		return VoidType()
	}
	if !indexType.IsInteger() {
		a.reporter.Errorf(0, 0, "Array index must be an integer")
		return VoidType()
	}
	return arrayType.Base
}

func (a *Analyzer) checkMember(expr *MemberExpr) *TypeInfo {
	objectType := a.checkExpr(expr.Object)
	op := expr.Op

	if op.Type == DOT {
		if objectType.Kind != TYPE_STRUCT {
			a.reporter.Errorf(op.Line, op.Column, "Left operand of '.' must be a struct")
			return VoidType()
		}
	} else if op.Type == ARROW {
		if objectType.Kind != TYPE_POINTER ||
			(objectType.Base != nil && objectType.Base.Kind != TYPE_STRUCT) {
			a.reporter.Errorf(op.Line, op.Column,
				"Left operand of '->' must be a pointer to a struct")
			return VoidType()
		}
	}

	// Member types are not resolved; every access is typed as int.
	a.reporter.Warnf(op.Line, op.Column, "Struct member access not fully implemented")
	return IntType()
}

func (a *Analyzer) checkCond(expr *CondExpr) *TypeInfo {
	condType := a.checkExpr(expr.Condition)
	if !condType.IsScalar() {
		a.reporter.Errorf(0, 0, "Conditional operator requires scalar condition")
		return VoidType()
	}

	trueType := a.checkExpr(expr.TrueExpr)
	falseType := a.checkExpr(expr.FalseExpr)

	if typesCompatible(trueType, falseType) {
		return trueType
	}
	if typesCompatible(falseType, trueType) {
		return falseType
	}
	a.reporter.Errorf(0, 0, "Incompatible types in conditional expression")
	return VoidType()
}

// typeFromSpec converts a parsed type specifier into a TypeInfo. Base types
// outside void/char/int/float/double are reported and treated as void.
func (a *Analyzer) typeFromSpec(spec *TypeSpec) *TypeInfo {
	var result *TypeInfo
	switch spec.Name.Type {
	case VOID:
		result = VoidType()
	case CHAR:
		result = CharType()
	case INT:
		result = IntType()
	case FLOAT:
		result = FloatType()
	case DOUBLE:
		result = DoubleType()
	default:
		a.reporter.Errorf(spec.Name.Line, spec.Name.Column, "Unknown type: %s", spec.Name.Lexeme)
		result = VoidType()
	}
	result.IsConst = spec.IsConst
	result.IsVolatile = spec.IsVolatile

	for i := 0; i < spec.PointerLevel; i++ {
		result = PointerTo(result)
	}
	return result
}
