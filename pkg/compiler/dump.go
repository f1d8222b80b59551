package compiler

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the tree to w. Expressions render on a
// single line; statement bodies nest.
func (p *Program) Dump(w io.Writer) {
	fmt.Fprintf(w, "program: %d declaration(s)\n", len(p.Decls))
	for _, decl := range p.Decls {
		dumpNode(w, decl, 1)
	}
}

func dumpNode(w io.Writer, node Node, depth int) {
	if node == nil {
		return
	}
	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *FunctionDecl:
		parts := make([]string, len(n.Params))
		for i, p := range n.Params {
			parts[i] = p.String()
		}
		fmt.Fprintf(w, "%sfunc %s %s(%s)\n",
			indent, n.ReturnType, n.Name.Lexeme, strings.Join(parts, ", "))
		if n.Body != nil {
			dumpNode(w, n.Body, depth+1)
		}

	case *VariableDecl:
		if n.Init != nil {
			fmt.Fprintf(w, "%svar %s %s = %s\n", indent, n.Type, n.Name.Lexeme, n.Init)
		} else {
			fmt.Fprintf(w, "%svar %s %s\n", indent, n.Type, n.Name.Lexeme)
		}

	case *BlockStmt:
		fmt.Fprintf(w, "%sblock\n", indent)
		for _, stmt := range n.Stmts {
			dumpNode(w, stmt, depth+1)
		}

	case *IfStmt:
		fmt.Fprintf(w, "%sif %s\n", indent, n.Condition)
		dumpNode(w, n.Body, depth+1)
		if n.ElseBody != nil {
			fmt.Fprintf(w, "%selse\n", indent)
			dumpNode(w, n.ElseBody, depth+1)
		}

	case *WhileStmt:
		fmt.Fprintf(w, "%swhile %s\n", indent, n.Condition)
		dumpNode(w, n.Body, depth+1)

	case *DoWhileStmt:
		fmt.Fprintf(w, "%sdo\n", indent)
		dumpNode(w, n.Body, depth+1)
		fmt.Fprintf(w, "%swhile %s\n", indent, n.Condition)

	case *ForStmt:
		fmt.Fprintf(w, "%sfor init=%s cond=%s post=%s\n",
			indent, dumpClause(n.Init), dumpClause(n.Cond), dumpClause(n.Post))
		dumpNode(w, n.Body, depth+1)

	default:
		fmt.Fprintf(w, "%s%s\n", indent, node)
	}
}

// dumpClause renders an optional for clause; absent clauses print as "-".
func dumpClause(n Node) string {
	if n == nil {
		return "-"
	}
	return n.String()
}
