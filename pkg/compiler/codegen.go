package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"coilc/pkg/coil"
)

// processorCPU tags sections and the leading directive for the CPU target.
const processorCPU = 0x01

// genVar is one name visible during generation.
type genVar struct {
	name string
	id   uint16
	typ  uint16
}

// binaryOpcode maps the arithmetic and bitwise operators to their opcode.
var binaryOpcode = map[TokenType]uint8{
	PLUS:    coil.OpAdd,
	MINUS:   coil.OpSub,
	STAR:    coil.OpMul,
	SLASH:   coil.OpDiv,
	PERCENT: coil.OpMod,
	AND:     coil.OpAnd,
	PIPE:    coil.OpOr,
	CARET:   coil.OpXor,
	SHL_OP:  coil.OpShl,
	SHR_OP:  coil.OpShr,
}

// comparisonCond maps each comparison operator to the branch condition that
// holds when the comparison is true.
var comparisonCond = map[TokenType]uint8{
	LESS:       coil.CondLT,
	LESS_EQ:    coil.CondLE,
	GREATER:    coil.CondGT,
	GREATER_EQ: coil.CondGE,
	EQUALS:     coil.CondEQ,
	NOT_EQ:     coil.CondNE,
}

// CodeGenerator lowers the AST into a coil.Object. It performs its own
// top-down walk, re-deriving the little type information it needs from
// explicit type specifiers; the input is assumed to have passed semantic
// analysis.
//
// Every sub-expression materializes into a fresh variable ID. IDs are
// monotonic across the whole run, starting at 1, and are never reused, not
// even after their scope exits.
type CodeGenerator struct {
	optLevel int
	reporter *Reporter

	obj         *coil.Object
	textSection uint16
	dataSection uint16
	bssSection  uint16

	// scopes[0] holds globals and is never popped.
	scopes     []map[string]genVar
	nextVarID  uint16
	labelCount int

	currentFunction string
}

// NewCodeGenerator returns a generator for the given optimization level.
// The level is carried but does not change lowering yet.
func NewCodeGenerator(optLevel int, r *Reporter) *CodeGenerator {
	return &CodeGenerator{optLevel: optLevel, reporter: r}
}

// Generate lowers prog and returns the object model. A nil program is
// reported and yields an empty object.
func (g *CodeGenerator) Generate(prog *Program) *coil.Object {
	g.obj = coil.NewObject()
	if prog == nil {
		g.reporter.Errorf(0, 0, "Empty AST")
		return g.obj
	}

	g.initialize()
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *FunctionDecl:
			g.genFunctionDecl(d)
		case *VariableDecl:
			g.genGlobalVariable(d)
		}
	}
	return g.obj
}

func (g *CodeGenerator) initialize() {
	g.textSection = g.addNamedSection(".text", coil.SecExecutable|coil.SecReadable)
	g.dataSection = g.addNamedSection(".data", coil.SecWritable|coil.SecReadable|coil.SecInitialized)
	g.bssSection = g.addNamedSection(".bss", coil.SecWritable|coil.SecReadable|coil.SecUninitialized)

	g.scopes = []map[string]genVar{{}}
	g.nextVarID = 1
	g.labelCount = 0
	g.currentFunction = ""

	g.emit(coil.OpProc, coil.ImmU8(processorCPU))
}

func (g *CodeGenerator) addNamedSection(name string, attrs uint32) uint16 {
	nameIndex := g.obj.AddSymbol(coil.Symbol{
		Name:          name,
		Attributes:    coil.SymGlobal,
		ProcessorType: processorCPU,
	})
	return g.obj.AddSection(coil.Section{
		NameIndex:     nameIndex,
		Attributes:    attrs,
		Alignment:     16,
		ProcessorType: processorCPU,
	})
}

func (g *CodeGenerator) genFunctionDecl(fn *FunctionDecl) {
	name := fn.Name.Lexeme
	g.currentFunction = name

	sym := g.addSymbol(name, coil.SymGlobal|coil.SymFunction, g.textSection)
	g.emit(coil.OpSym, coil.Sym(sym))

	if fn.Body != nil {
		g.enterScope()

		// Parameters are pulled by positional index through the ABI; an
		// unnamed parameter still occupies its index.
		for i, prm := range fn.Params {
			if prm.Name.Lexeme == "" {
				continue
			}
			paramType := g.translateType(prm.Type)
			paramID := g.nextVar()
			g.bindVar(prm.Name.Lexeme, paramID, paramType)

			g.emitVarDecl(paramID, paramType)
			g.emit(coil.OpMov,
				coil.Var(paramID),
				coil.ImmU16(coil.TypeABICtl|coil.TypeParam),
				coil.ImmU16(uint16(i)))
		}

		g.genBlock(fn.Body)

		// Trailing return in case the body fell through. main reports an
		// explicit zero exit status.
		if name == "main" {
			g.emit(coil.OpRet, coil.ImmU16(coil.TypeABICtl|coil.TypeRet), coil.Imm32(0))
		} else {
			g.emit(coil.OpRet)
		}

		g.leaveScope()
	}

	g.currentFunction = ""
}

// genGlobalVariable places a global's symbol in .data (initialized) or .bss
// and binds it a variable ID in the never-popped global frame so references
// resolve. The initializer bytes themselves are the linker's concern; no
// instructions are emitted.
func (g *CodeGenerator) genGlobalVariable(decl *VariableDecl) {
	varType := g.translateType(decl.Type)

	section := g.bssSection
	if decl.Init != nil {
		section = g.dataSection
	}
	g.addSymbol(decl.Name.Lexeme, coil.SymGlobal|coil.SymData, section)

	id := g.nextVar()
	g.bindVar(decl.Name.Lexeme, id, varType)
}

func (g *CodeGenerator) genLocalVariable(decl *VariableDecl) {
	varType := g.translateType(decl.Type)

	id := g.nextVar()
	g.bindVar(decl.Name.Lexeme, id, varType)

	if decl.Init != nil {
		init := g.genExpr(decl.Init)
		g.emitVarDecl(id, varType, init)
	} else {
		g.emitVarDecl(id, varType)
	}
}

func (g *CodeGenerator) genBlock(blk *BlockStmt) {
	g.emit(coil.OpScopeE)
	g.enterScope()

	for _, stmt := range blk.Stmts {
		g.genStmt(stmt)
	}

	g.leaveScope()
	g.emit(coil.OpScopeL)
}

func (g *CodeGenerator) genStmt(stmt Stmt) {
	if stmt == nil {
		return
	}

	switch s := stmt.(type) {
	case *BlockStmt:
		g.genBlock(s)
	case *ExprStmt:
		g.genExpr(s.Expr)
	case *VariableDecl:
		g.genLocalVariable(s)
	case *IfStmt:
		g.genIf(s)
	case *WhileStmt:
		g.genWhile(s)
	case *DoWhileStmt:
		g.genDoWhile(s)
	case *ForStmt:
		g.genFor(s)
	case *ReturnStmt:
		g.genReturn(s)
	case *BreakStmt:
		// Loop context tracking is not implemented; no jump is produced.
		g.reporter.Warnf(0, 0, "Break statement not fully implemented")
	case *ContinueStmt:
		g.reporter.Warnf(0, 0, "Continue statement not fully implemented")
	default:
		g.reporter.Errorf(0, 0, "Unknown statement type: %T", stmt)
	}
}

func (g *CodeGenerator) genIf(stmt *IfStmt) {
	elseLabel := g.newLabel("else")
	endLabel := g.newLabel("endif")

	cond := g.genExpr(stmt.Condition)
	g.emit(coil.OpCmp, coil.Var(cond), coil.Imm32(0))
	g.emitBranch(coil.CondEQ, elseLabel)

	g.genStmt(stmt.Body)
	g.emitBranch(coil.CondAlways, endLabel)

	g.emitLabel(elseLabel)
	if stmt.ElseBody != nil {
		g.genStmt(stmt.ElseBody)
	}
	g.emitLabel(endLabel)
}

func (g *CodeGenerator) genWhile(stmt *WhileStmt) {
	startLabel := g.newLabel("while_start")
	endLabel := g.newLabel("while_end")

	g.emitLabel(startLabel)

	cond := g.genExpr(stmt.Condition)
	g.emit(coil.OpCmp, coil.Var(cond), coil.Imm32(0))
	g.emitBranch(coil.CondEQ, endLabel)

	g.genStmt(stmt.Body)
	g.emitBranch(coil.CondAlways, startLabel)

	g.emitLabel(endLabel)
}

func (g *CodeGenerator) genDoWhile(stmt *DoWhileStmt) {
	startLabel := g.newLabel("dowhile_start")
	condLabel := g.newLabel("dowhile_condition")
	endLabel := g.newLabel("dowhile_end")

	g.emitLabel(startLabel)
	g.genStmt(stmt.Body)

	g.emitLabel(condLabel)
	cond := g.genExpr(stmt.Condition)
	g.emit(coil.OpCmp, coil.Var(cond), coil.Imm32(0))
	g.emitBranch(coil.CondEQ, endLabel)

	g.emitBranch(coil.CondAlways, startLabel)
	g.emitLabel(endLabel)
}

func (g *CodeGenerator) genFor(stmt *ForStmt) {
	startLabel := g.newLabel("for_start")
	incLabel := g.newLabel("for_increment")
	endLabel := g.newLabel("for_end")

	// The initializer's declarations live in their own scope.
	g.emit(coil.OpScopeE)
	g.enterScope()

	if stmt.Init != nil {
		g.genStmt(stmt.Init)
	}

	g.emitLabel(startLabel)
	if stmt.Cond != nil {
		cond := g.genExpr(stmt.Cond)
		g.emit(coil.OpCmp, coil.Var(cond), coil.Imm32(0))
		g.emitBranch(coil.CondEQ, endLabel)
	}

	g.genStmt(stmt.Body)

	g.emitLabel(incLabel)
	if stmt.Post != nil {
		g.genExpr(stmt.Post)
	}
	g.emitBranch(coil.CondAlways, startLabel)

	g.emitLabel(endLabel)

	g.leaveScope()
	g.emit(coil.OpScopeL)
}

func (g *CodeGenerator) genReturn(stmt *ReturnStmt) {
	if stmt.Expr != nil {
		value := g.genExpr(stmt.Expr)
		g.emit(coil.OpRet, coil.ImmU16(coil.TypeABICtl|coil.TypeRet), coil.Var(value))
	} else {
		g.emit(coil.OpRet, coil.ImmU16(coil.TypeABICtl|coil.TypeRet))
	}
}

// genExpr lowers an expression and returns the variable ID holding its
// value. Failures are reported and return ID 0.
func (g *CodeGenerator) genExpr(expr Expr) uint16 {
	if expr == nil {
		g.reporter.Errorf(0, 0, "Null expression")
		return 0
	}

	switch e := expr.(type) {
	case *Literal:
		return g.genLiteral(e)
	case *VarRef:
		return g.genVarRef(e)
	case *UnaryExpr:
		return g.genUnary(e)
	case *BinaryExpr:
		return g.genBinary(e)
	case *FunctionCall:
		return g.genCall(e)
	case *IndexExpr:
		return g.genIndex(e)
	case *MemberExpr:
		return g.genMember(e)
	case *CondExpr:
		return g.genCond(e)
	}

	g.reporter.Errorf(0, 0, "Unknown expression type: %T", expr)
	return 0
}

func (g *CodeGenerator) genLiteral(lit *Literal) uint16 {
	result := g.nextVar()

	switch lit.Tok.Type {
	case INTEGER:
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpMov, coil.Var(result), coil.Imm32(parseIntLexeme(lit.Tok.Lexeme)))

	case FLOAT_LIT:
		value, single := parseFloatLexeme(lit.Tok.Lexeme)
		if single {
			g.emitVarDecl(result, coil.TypeFP32)
			g.emit(coil.OpMov, coil.Var(result), coil.ImmF32(float32(value)))
		} else {
			g.emitVarDecl(result, coil.TypeFP64)
			g.emit(coil.OpMov, coil.Var(result), coil.ImmF64(value))
		}

	case CHAR_LIT:
		g.emitVarDecl(result, coil.TypeInt8)
		g.emit(coil.OpMov, coil.Var(result), coil.Imm8(charValue(lit.Tok.Lexeme)))

	case STRING:
		// No data-section layout for string bytes; the value is a null
		// pointer placeholder.
		g.reporter.Warnf(0, 0, "String literals not fully implemented")
		g.emitVarDecl(result, coil.TypePtr)
		g.emit(coil.OpMov, coil.Var(result), coil.Imm32(0))

	default:
		g.reporter.Errorf(0, 0, "Unknown literal type")
		return 0
	}
	return result
}

func (g *CodeGenerator) genVarRef(ref *VarRef) uint16 {
	v, ok := g.lookupVar(ref.Name.Lexeme)
	if !ok {
		g.reporter.Errorf(ref.Name.Line, ref.Name.Column,
			"Undefined variable: %s", ref.Name.Lexeme)
		return 0
	}
	return v.id
}

func (g *CodeGenerator) genUnary(expr *UnaryExpr) uint16 {
	operand := g.genExpr(expr.Right)

	// Allocated before dispatch; the stubbed pointer cases below return the
	// operand and leave this ID unused.
	result := g.nextVar()

	switch expr.Op.Type {
	case MINUS:
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpNeg, coil.Var(result), coil.Var(operand))

	case PLUS:
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpMov, coil.Var(result), coil.Var(operand))

	case NOT:
		// result = 1, overwritten with 0 unless the operand was zero.
		endLabel := g.newLabel("not_end")
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpCmp, coil.Var(operand), coil.Imm32(0))
		g.emit(coil.OpMov, coil.Var(result), coil.Imm32(1))
		g.emitBranch(coil.CondEQ, endLabel)
		g.emit(coil.OpMov, coil.Var(result), coil.Imm32(0))
		g.emitLabel(endLabel)

	case TILDE:
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpNot, coil.Var(result), coil.Var(operand))

	case PLUS_PLUS:
		// The expression's value is a copy taken before the update.
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpMov, coil.Var(result), coil.Var(operand))
		g.emit(coil.OpInc, coil.Var(operand))

	case MINUS_MINUS:
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpMov, coil.Var(result), coil.Var(operand))
		g.emit(coil.OpDec, coil.Var(operand))

	case STAR:
		g.reporter.Warnf(0, 0, "Dereference operator not fully implemented")
		return operand

	case AND:
		g.reporter.Warnf(0, 0, "Address-of operator not fully implemented")
		return operand

	default:
		g.reporter.Errorf(expr.Op.Line, expr.Op.Column,
			"Unknown unary operator: %s", expr.Op.Lexeme)
		return 0
	}
	return result
}

func (g *CodeGenerator) genBinary(expr *BinaryExpr) uint16 {
	// Assignment and the short-circuit operators control their own operand
	// evaluation and temporaries.
	switch expr.Op.Type {
	case ASSIGN:
		return g.genAssign(expr)
	case AND_LOGICAL:
		return g.genLogicalAnd(expr)
	case OR_LOGICAL:
		return g.genLogicalOr(expr)
	}

	left := g.genExpr(expr.Left)
	right := g.genExpr(expr.Right)
	result := g.nextVar()

	if op, ok := binaryOpcode[expr.Op.Type]; ok {
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(op, coil.Var(result), coil.Var(left), coil.Var(right))
		return result
	}

	if cond, ok := comparisonCond[expr.Op.Type]; ok {
		// result = 1, overwritten with 0 unless the comparison held.
		endLabel := g.newLabel("cmp_end")
		g.emitVarDecl(result, coil.TypeInt32)
		g.emit(coil.OpCmp, coil.Var(left), coil.Var(right))
		g.emit(coil.OpMov, coil.Var(result), coil.Imm32(1))
		g.emitBranch(cond, endLabel)
		g.emit(coil.OpMov, coil.Var(result), coil.Imm32(0))
		g.emitLabel(endLabel)
		return result
	}

	g.reporter.Errorf(expr.Op.Line, expr.Op.Column,
		"Binary operator not implemented: %s", expr.Op.Lexeme)
	return 0
}

// genAssign copies the right value into the left operand's existing
// variable. No temporary is allocated; the left ID is the expression's
// value, so chained assignments work.
func (g *CodeGenerator) genAssign(expr *BinaryExpr) uint16 {
	left := g.genExpr(expr.Left)
	right := g.genExpr(expr.Right)
	g.emit(coil.OpMov, coil.Var(left), coil.Var(right))
	return left
}

// genLogicalAnd lowers && with short-circuit evaluation: the right operand
// is not evaluated when the left is zero.
func (g *CodeGenerator) genLogicalAnd(expr *BinaryExpr) uint16 {
	falseLabel := g.newLabel("and_false")
	endLabel := g.newLabel("and_end")

	left := g.genExpr(expr.Left)
	result := g.nextVar()
	g.emitVarDecl(result, coil.TypeInt32)

	g.emit(coil.OpCmp, coil.Var(left), coil.Imm32(0))
	g.emitBranch(coil.CondEQ, falseLabel)

	right := g.genExpr(expr.Right)
	g.emit(coil.OpCmp, coil.Var(right), coil.Imm32(0))
	g.emitBranch(coil.CondEQ, falseLabel)

	g.emit(coil.OpMov, coil.Var(result), coil.Imm32(1))
	g.emitBranch(coil.CondAlways, endLabel)

	g.emitLabel(falseLabel)
	g.emit(coil.OpMov, coil.Var(result), coil.Imm32(0))
	g.emitLabel(endLabel)
	return result
}

// genLogicalOr lowers || with short-circuit evaluation: the right operand
// is not evaluated when the left is nonzero.
func (g *CodeGenerator) genLogicalOr(expr *BinaryExpr) uint16 {
	trueLabel := g.newLabel("or_true")
	endLabel := g.newLabel("or_end")

	left := g.genExpr(expr.Left)
	result := g.nextVar()
	g.emitVarDecl(result, coil.TypeInt32)

	g.emit(coil.OpCmp, coil.Var(left), coil.Imm32(0))
	g.emitBranch(coil.CondNE, trueLabel)

	right := g.genExpr(expr.Right)
	g.emit(coil.OpCmp, coil.Var(right), coil.Imm32(0))
	g.emitBranch(coil.CondNE, trueLabel)

	g.emit(coil.OpMov, coil.Var(result), coil.Imm32(0))
	g.emitBranch(coil.CondAlways, endLabel)

	g.emitLabel(trueLabel)
	g.emit(coil.OpMov, coil.Var(result), coil.Imm32(1))
	g.emitLabel(endLabel)
	return result
}

func (g *CodeGenerator) genCall(call *FunctionCall) uint16 {
	callee, ok := call.Callee.(*VarRef)
	if !ok {
		g.reporter.Errorf(0, 0, "Only simple function calls supported")
		return 0
	}

	args := make([]uint16, 0, len(call.Args))
	for _, arg := range call.Args {
		args = append(args, g.genExpr(arg))
	}

	// The return value lands in a fresh variable; int is assumed.
	result := g.nextVar()
	g.emitVarDecl(result, coil.TypeInt32)

	sym := g.addSymbol(callee.Name.Lexeme, coil.SymGlobal|coil.SymFunction, g.textSection)
	operands := make([]coil.Operand, 0, len(args)+2)
	operands = append(operands, coil.Sym(sym), coil.ImmU16(coil.TypeABICtl|coil.TypeParam))
	for _, id := range args {
		operands = append(operands, coil.Var(id))
	}
	g.emit(coil.OpCall, operands...)

	g.emit(coil.OpMov, coil.Var(result), coil.ImmU16(coil.TypeABICtl|coil.TypeRet))
	return result
}

func (g *CodeGenerator) genIndex(expr *IndexExpr) uint16 {
	array := g.genExpr(expr.Array)
	index := g.genExpr(expr.Index)

	// Elements are assumed int-sized.
	result := g.nextVar()
	g.emitVarDecl(result, coil.TypeInt32)
	g.emit(coil.OpIndex, coil.Var(result), coil.Var(array), coil.Var(index))
	return result
}

func (g *CodeGenerator) genMember(expr *MemberExpr) uint16 {
	g.reporter.Warnf(0, 0, "Member access not implemented")
	return 0
}

func (g *CodeGenerator) genCond(expr *CondExpr) uint16 {
	cond := g.genExpr(expr.Condition)

	falseLabel := g.newLabel("cond_false")
	endLabel := g.newLabel("cond_end")

	result := g.nextVar()
	g.emitVarDecl(result, coil.TypeInt32)

	g.emit(coil.OpCmp, coil.Var(cond), coil.Imm32(0))
	g.emitBranch(coil.CondEQ, falseLabel)

	trueID := g.genExpr(expr.TrueExpr)
	g.emit(coil.OpMov, coil.Var(result), coil.Var(trueID))
	g.emitBranch(coil.CondAlways, endLabel)

	g.emitLabel(falseLabel)
	falseID := g.genExpr(expr.FalseExpr)
	g.emit(coil.OpMov, coil.Var(result), coil.Var(falseID))

	g.emitLabel(endLabel)
	return result
}

// Helpers.

func (g *CodeGenerator) nextVar() uint16 {
	id := g.nextVarID
	g.nextVarID++
	return id
}

func (g *CodeGenerator) newLabel(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, g.labelCount)
	g.labelCount++
	return label
}

// addSymbol interns a named symbol; when the name is already present the
// existing index is returned and the first registration's attributes win.
func (g *CodeGenerator) addSymbol(name string, attrs uint32, section uint16) uint16 {
	return g.obj.AddSymbol(coil.Symbol{
		Name:          name,
		Attributes:    attrs,
		SectionIndex:  section,
		ProcessorType: processorCPU,
	})
}

func (g *CodeGenerator) enterScope() {
	g.scopes = append(g.scopes, map[string]genVar{})
}

// leaveScope drops the innermost frame; names shadowed by it become visible
// again. Variable IDs are not reclaimed.
func (g *CodeGenerator) leaveScope() {
	if len(g.scopes) > 1 {
		g.scopes = g.scopes[:len(g.scopes)-1]
	}
}

func (g *CodeGenerator) bindVar(name string, id, typ uint16) {
	g.scopes[len(g.scopes)-1][name] = genVar{name: name, id: id, typ: typ}
}

func (g *CodeGenerator) lookupVar(name string) (genVar, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if v, ok := g.scopes[i][name]; ok {
			return v, true
		}
	}
	return genVar{}, false
}

func (g *CodeGenerator) emit(op uint8, operands ...coil.Operand) {
	g.obj.AddInstruction(g.textSection, coil.Ins(op, operands...))
}

// emitVarDecl declares a variable, optionally with an initializing
// variable's ID.
func (g *CodeGenerator) emitVarDecl(id, typ uint16, init ...uint16) {
	operands := []coil.Operand{coil.Var(id), coil.ImmU16(typ)}
	if len(init) > 0 && init[0] != 0 {
		operands = append(operands, coil.Var(init[0]))
	}
	g.emit(coil.OpVar, operands...)
}

// emitLabel binds a label symbol at the current position.
func (g *CodeGenerator) emitLabel(label string) {
	sym := g.addSymbol(label, 0, g.textSection)
	g.emit(coil.OpSym, coil.Sym(sym))
}

// emitBranch emits a branch to label, taken when cond holds.
func (g *CodeGenerator) emitBranch(cond uint8, label string) {
	sym := g.addSymbol(label, 0, g.textSection)
	g.obj.AddInstruction(g.textSection, coil.Branch(cond, coil.Sym(sym)))
}

// translateType maps a declared type to its object-model type tag. Every
// pointer lowers to PTR regardless of its base type.
func (g *CodeGenerator) translateType(spec *TypeSpec) uint16 {
	if spec.IsPointer {
		return coil.TypePtr
	}
	switch spec.Name.Type {
	case INT:
		return coil.TypeInt32
	case CHAR:
		return coil.TypeInt8
	case FLOAT:
		return coil.TypeFP32
	case DOUBLE:
		return coil.TypeFP64
	case VOID:
		return coil.TypeVoid
	}

	g.reporter.Warnf(spec.Name.Line, spec.Name.Column,
		"Unknown type '%s', defaulting to int", spec.Name.Lexeme)
	return coil.TypeInt32
}

// parseIntLexeme reads the leading decimal digits of an integer literal,
// ignoring any suffix letters. Out-of-range values saturate.
func parseIntLexeme(lexeme string) int32 {
	end := 0
	for end < len(lexeme) && lexeme[end] >= '0' && lexeme[end] <= '9' {
		end++
	}
	v, _ := strconv.ParseInt(lexeme[:end], 10, 32)
	return int32(v)
}

// parseFloatLexeme parses a float literal; the second result reports
// whether an f suffix marked it single precision.
func parseFloatLexeme(lexeme string) (float64, bool) {
	single := strings.HasSuffix(lexeme, "f") || strings.HasSuffix(lexeme, "F")
	v, _ := strconv.ParseFloat(strings.TrimRight(lexeme, "fFlLuU"), 64)
	return v, single
}

// charValue extracts the byte value of a char literal lexeme, quotes
// included, resolving escape sequences. An unknown escape yields the
// escaped character itself.
func charValue(lexeme string) int8 {
	value := lexeme[1]
	if value == '\\' && len(lexeme) > 2 {
		switch lexeme[2] {
		case 'n':
			value = '\n'
		case 't':
			value = '\t'
		case 'r':
			value = '\r'
		case '0':
			value = 0
		case '\\':
			value = '\\'
		case '\'':
			value = '\''
		case '"':
			value = '"'
		default:
			value = lexeme[2]
		}
	}
	return int8(value)
}
