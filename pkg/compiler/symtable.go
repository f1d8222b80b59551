package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind identifies what a name refers to.
type SymbolKind int

const (
	SYM_VARIABLE SymbolKind = iota
	SYM_FUNCTION
	SYM_PARAMETER
	SYM_TYPEDEF
)

var symbolKindNames = [...]string{
	SYM_VARIABLE:  "variable",
	SYM_FUNCTION:  "function",
	SYM_PARAMETER: "parameter",
	SYM_TYPEDEF:   "typedef",
}

func (k SymbolKind) String() string {
	if k >= 0 && int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// SymbolInfo is one declared name.
type SymbolInfo struct {
	Kind       SymbolKind
	Type       *TypeInfo
	Name       string
	ScopeLevel int
}

func (s *SymbolInfo) clone() *SymbolInfo {
	c := *s
	c.Type = s.Type.Clone()
	return &c
}

// SymbolTable tracks declared names as a stack of scopes. The bottom frame
// is the global scope and is never popped; inner frames are created on
// EnterScope and discarded on LeaveScope, so a shadowed outer binding
// becomes visible again when the shadowing scope exits.
type SymbolTable struct {
	scopes []map[string]*SymbolInfo
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]*SymbolInfo{{}}}
}

func (st *SymbolTable) EnterScope() {
	st.scopes = append(st.scopes, map[string]*SymbolInfo{})
}

// LeaveScope discards the innermost scope. Popping the global scope is a
// caller bug, not a user-input condition, and panics.
func (st *SymbolTable) LeaveScope() {
	if len(st.scopes) == 1 {
		panic("symtable: cannot leave global scope")
	}
	st.scopes = st.scopes[:len(st.scopes)-1]
}

// Depth returns the current nesting level; the global scope is level 0.
func (st *SymbolTable) Depth() int {
	return len(st.scopes) - 1
}

func (st *SymbolTable) DeclareVariable(name string, typ *TypeInfo) {
	st.declare(SYM_VARIABLE, name, typ, st.Depth())
}

// DeclareFunction registers into the global scope regardless of the current
// nesting level.
func (st *SymbolTable) DeclareFunction(name string, typ *TypeInfo) {
	st.scopes[0][name] = &SymbolInfo{Kind: SYM_FUNCTION, Type: typ, Name: name, ScopeLevel: 0}
}

func (st *SymbolTable) DeclareParameter(name string, typ *TypeInfo) {
	st.declare(SYM_PARAMETER, name, typ, st.Depth())
}

func (st *SymbolTable) DeclareTypedef(name string, typ *TypeInfo) {
	st.declare(SYM_TYPEDEF, name, typ, st.Depth())
}

func (st *SymbolTable) declare(kind SymbolKind, name string, typ *TypeInfo, level int) {
	st.scopes[len(st.scopes)-1][name] = &SymbolInfo{Kind: kind, Type: typ, Name: name, ScopeLevel: level}
}

// Exists reports whether name is visible from the current scope.
func (st *SymbolTable) Exists(name string) bool {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if _, ok := st.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

func (st *SymbolTable) ExistsInCurrentScope(name string) bool {
	_, ok := st.scopes[len(st.scopes)-1][name]
	return ok
}

// Lookup resolves name from the innermost scope outward. The returned
// SymbolInfo is a copy; mutating it does not affect the table.
func (st *SymbolTable) Lookup(name string) *SymbolInfo {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if sym, ok := st.scopes[i][name]; ok {
			return sym.clone()
		}
	}
	return nil
}

// Reset drops everything and returns to an empty global scope.
func (st *SymbolTable) Reset() {
	st.scopes = []map[string]*SymbolInfo{{}}
}

// String dumps every scope from the global outward, names sorted, for
// debugging.
func (st *SymbolTable) String() string {
	var sb strings.Builder
	for level, scope := range st.scopes {
		fmt.Fprintf(&sb, "scope %d:\n", level)
		names := make([]string, 0, len(scope))
		for name := range scope {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sym := scope[name]
			fmt.Fprintf(&sb, "  %s %s: %s\n", sym.Kind, sym.Name, sym.Type)
		}
	}
	return sb.String()
}
