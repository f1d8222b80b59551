package compiler

import "testing"

func TestSymbolTable(t *testing.T) {
	t.Run("Declare And Lookup", func(t *testing.T) {
		st := NewSymbolTable()
		st.DeclareVariable("x", IntType())

		sym := st.Lookup("x")
		if sym == nil {
			t.Fatal("Lookup(x) = nil after declare")
		}
		if sym.Kind != SYM_VARIABLE || sym.Type.Kind != TYPE_INT || sym.ScopeLevel != 0 {
			t.Errorf("Lookup(x) = %+v; want int variable at level 0", sym)
		}
		if st.Lookup("y") != nil {
			t.Error("Lookup(y) = non-nil for undeclared name")
		}
	})

	t.Run("Lookup Returns A Copy", func(t *testing.T) {
		st := NewSymbolTable()
		st.DeclareVariable("x", IntType())

		first := st.Lookup("x")
		first.Type.Kind = TYPE_DOUBLE

		if second := st.Lookup("x"); second.Type.Kind != TYPE_INT {
			t.Errorf("mutating a lookup result changed the table entry to %v", second.Type.Kind)
		}
	})

	t.Run("Shadowing", func(t *testing.T) {
		st := NewSymbolTable()
		st.DeclareVariable("x", IntType())

		st.EnterScope()
		st.DeclareVariable("x", DoubleType())
		if sym := st.Lookup("x"); sym.Type.Kind != TYPE_DOUBLE || sym.ScopeLevel != 1 {
			t.Errorf("shadowed Lookup(x) = %+v; want double at level 1", sym)
		}

		st.LeaveScope()
		if sym := st.Lookup("x"); sym.Type.Kind != TYPE_INT || sym.ScopeLevel != 0 {
			t.Errorf("after LeaveScope Lookup(x) = %+v; want int at level 0", sym)
		}
	})

	t.Run("Current Scope Visibility", func(t *testing.T) {
		st := NewSymbolTable()
		st.DeclareVariable("x", IntType())
		st.EnterScope()

		if st.ExistsInCurrentScope("x") {
			t.Error("ExistsInCurrentScope(x) = true for an outer binding")
		}
		if !st.Exists("x") {
			t.Error("Exists(x) = false for a visible outer binding")
		}

		st.DeclareVariable("y", IntType())
		if !st.ExistsInCurrentScope("y") {
			t.Error("ExistsInCurrentScope(y) = false after declare")
		}
	})

	t.Run("Functions Land In Global Scope", func(t *testing.T) {
		st := NewSymbolTable()
		st.EnterScope()
		st.EnterScope()
		st.DeclareFunction("f", FunctionOf(IntType(), nil))
		st.LeaveScope()
		st.LeaveScope()

		sym := st.Lookup("f")
		if sym == nil {
			t.Fatal("Lookup(f) = nil from the global scope")
		}
		if sym.Kind != SYM_FUNCTION || sym.ScopeLevel != 0 {
			t.Errorf("Lookup(f) = %+v; want function at level 0", sym)
		}
	})

	t.Run("Depth", func(t *testing.T) {
		st := NewSymbolTable()
		if st.Depth() != 0 {
			t.Fatalf("initial Depth() = %d; want 0", st.Depth())
		}
		st.EnterScope()
		st.EnterScope()
		st.EnterScope()
		if st.Depth() != 3 {
			t.Errorf("Depth() = %d after three enters; want 3", st.Depth())
		}
		st.LeaveScope()
		st.LeaveScope()
		st.LeaveScope()
		if st.Depth() != 0 {
			t.Errorf("Depth() = %d after matching leaves; want 0", st.Depth())
		}
	})

	t.Run("Leaving Global Scope Panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("LeaveScope() on the global scope did not panic")
			}
		}()
		NewSymbolTable().LeaveScope()
	})

	t.Run("Reset", func(t *testing.T) {
		st := NewSymbolTable()
		st.DeclareVariable("x", IntType())
		st.EnterScope()
		st.DeclareVariable("y", IntType())

		st.Reset()
		if st.Depth() != 0 {
			t.Errorf("Depth() = %d after Reset; want 0", st.Depth())
		}
		if st.Exists("x") || st.Exists("y") {
			t.Error("Reset left declarations behind")
		}
	})
}
