package compiler

import (
	"fmt"
	"strings"
)

// Node is the common interface of every AST node.
type Node interface {
	String() string
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Literal is an integer, float, char, or string constant. The token keeps the
// exact source lexeme (including quotes for string/char literals).
type Literal struct {
	Tok Token
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return l.Tok.Lexeme }

// VarRef is a read of a named variable.
type VarRef struct {
	Name Token
}

func (*VarRef) exprNode()        {}
func (v *VarRef) String() string { return v.Name.Lexeme }

// UnaryExpr represents Op Right. Prefix and postfix ++/-- both land here; the
// grammar does not distinguish them.
type UnaryExpr struct {
	Op    Token
	Right Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", u.Op.Lexeme, u.Right) }

// BinaryExpr represents Left Op Right. Plain assignment is a BinaryExpr with
// an '=' operator; compound assignments are desugared by the parser before
// this node is built.
type BinaryExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op.Lexeme, b.Right)
}

// FunctionCall represents callee(args). The callee is a full expression even
// though code generation only accepts simple names for now.
type FunctionCall struct {
	Callee Expr
	Args   []Expr
}

func (*FunctionCall) exprNode() {}
func (c *FunctionCall) String() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

// IndexExpr represents Array[Index].
type IndexExpr struct {
	Array Expr
	Index Expr
}

func (*IndexExpr) exprNode()        {}
func (e *IndexExpr) String() string { return fmt.Sprintf("(%s[%s])", e.Array, e.Index) }

// MemberExpr represents Object.Member or Object->Member.
type MemberExpr struct {
	Object Expr
	Op     Token // '.' or '->'
	Member Token
}

func (*MemberExpr) exprNode() {}
func (e *MemberExpr) String() string {
	return fmt.Sprintf("(%s%s%s)", e.Object, e.Op.Lexeme, e.Member.Lexeme)
}

// CondExpr represents Condition ? TrueExpr : FalseExpr.
type CondExpr struct {
	Condition Expr
	TrueExpr  Expr
	FalseExpr Expr
}

func (*CondExpr) exprNode() {}
func (e *CondExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Condition, e.TrueExpr, e.FalseExpr)
}

//  Statement nodes

// Stmt is implemented by every node executed for effect.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", e.Expr) }

// BlockStmt represents { statement... }.
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmtNode()        {}
func (b *BlockStmt) String() string { return fmt.Sprintf("BlockStmt(len=%d)", len(b.Stmts)) }

// TypeSpec is a declaration's type: qualifiers, a base type keyword, and a
// pointer level.
type TypeSpec struct {
	Name         Token // base type keyword
	IsConst      bool
	IsVolatile   bool
	IsPointer    bool
	PointerLevel int
}

func (t *TypeSpec) String() string {
	var sb strings.Builder
	if t.IsConst {
		sb.WriteString("const ")
	}
	if t.IsVolatile {
		sb.WriteString("volatile ")
	}
	sb.WriteString(t.Name.Lexeme)
	for i := 0; i < t.PointerLevel; i++ {
		sb.WriteByte('*')
	}
	return sb.String()
}

// VariableDecl represents  type name [= init];  at any scope.
type VariableDecl struct {
	Type *TypeSpec
	Name Token
	Init Expr
}

func (*VariableDecl) stmtNode() {}
func (d *VariableDecl) String() string {
	if d.Init != nil {
		return fmt.Sprintf("VariableDecl(%s %s = %s)", d.Type, d.Name.Lexeme, d.Init)
	}
	return fmt.Sprintf("VariableDecl(%s %s)", d.Type, d.Name.Lexeme)
}

// IfStmt represents if (cond) body [else elseBody].
type IfStmt struct {
	Condition Expr
	Body      Stmt
	ElseBody  Stmt // may be nil
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.ElseBody != nil {
		return fmt.Sprintf("IfStmt(if %s then %s else %s)", i.Condition, i.Body, i.ElseBody)
	}
	return fmt.Sprintf("IfStmt(if %s then %s)", i.Condition, i.Body)
}

// WhileStmt represents while (cond) body.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("WhileStmt(while %s do %s)", w.Condition, w.Body)
}

// DoWhileStmt represents do body while (cond);.
type DoWhileStmt struct {
	Body      Stmt
	Condition Expr
}

func (*DoWhileStmt) stmtNode() {}
func (d *DoWhileStmt) String() string {
	return fmt.Sprintf("DoWhileStmt(do %s while %s)", d.Body, d.Condition)
}

// ForStmt represents for (init; cond; post) body. Any clause may be absent.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

func (*ForStmt) stmtNode() {}
func (f *ForStmt) String() string {
	return fmt.Sprintf("ForStmt(init=%s, cond=%s, post=%s, body=%s)", f.Init, f.Cond, f.Post, f.Body)
}

// ReturnStmt represents return [expr];.
type ReturnStmt struct {
	Expr Expr // nil for a bare return
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Expr != nil {
		return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
	}
	return "ReturnStmt"
}

// BreakStmt represents break;.
type BreakStmt struct{}

func (*BreakStmt) stmtNode()        {}
func (s *BreakStmt) String() string { return "BreakStmt" }

// ContinueStmt represents continue;.
type ContinueStmt struct{}

func (*ContinueStmt) stmtNode()        {}
func (s *ContinueStmt) String() string { return "ContinueStmt" }

//  Declarations

// Param is one function parameter. Name is the zero Token for unnamed
// parameters (prototypes).
type Param struct {
	Type *TypeSpec
	Name Token
}

func (p *Param) String() string {
	if p.Name.Lexeme != "" {
		return fmt.Sprintf("%s %s", p.Type, p.Name.Lexeme)
	}
	return p.Type.String()
}

// FunctionDecl represents retType name(params) { body }. Body is nil for a
// prototype.
type FunctionDecl struct {
	ReturnType *TypeSpec
	Name       Token
	Params     []*Param
	Body       *BlockStmt
}

func (f *FunctionDecl) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	sig := fmt.Sprintf("FunctionDecl(%s %s(%s)", f.ReturnType, f.Name.Lexeme, strings.Join(parts, ", "))
	if f.Body == nil {
		return sig + ")"
	}
	return fmt.Sprintf("%s, body=%s)", sig, f.Body)
}

// Program is the root node: an ordered list of top-level declarations
// (functions and global variables).
type Program struct {
	Decls []Node
}

func (p *Program) String() string { return fmt.Sprintf("Program(decls=%d)", len(p.Decls)) }

// cloneExpr deep-copies an expression tree. The compound-assignment desugar
// needs two independent copies of the left operand.
func cloneExpr(expr Expr) Expr {
	switch e := expr.(type) {
	case nil:
		return nil
	case *Literal:
		return &Literal{Tok: e.Tok}
	case *VarRef:
		return &VarRef{Name: e.Name}
	case *UnaryExpr:
		return &UnaryExpr{Op: e.Op, Right: cloneExpr(e.Right)}
	case *BinaryExpr:
		return &BinaryExpr{Left: cloneExpr(e.Left), Op: e.Op, Right: cloneExpr(e.Right)}
	case *FunctionCall:
		out := &FunctionCall{Callee: cloneExpr(e.Callee)}
		for _, arg := range e.Args {
			out.Args = append(out.Args, cloneExpr(arg))
		}
		return out
	case *IndexExpr:
		return &IndexExpr{Array: cloneExpr(e.Array), Index: cloneExpr(e.Index)}
	case *MemberExpr:
		return &MemberExpr{Object: cloneExpr(e.Object), Op: e.Op, Member: e.Member}
	case *CondExpr:
		return &CondExpr{
			Condition: cloneExpr(e.Condition),
			TrueExpr:  cloneExpr(e.TrueExpr),
			FalseExpr: cloneExpr(e.FalseExpr),
		}
	}
	return expr
}
