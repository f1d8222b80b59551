package compiler

import "testing"

func TestTypesCompatible(t *testing.T) {
	tests := []struct {
		name   string
		source *TypeInfo
		target *TypeInfo
		want   bool
	}{
		{"Int To Int", IntType(), IntType(), true},
		{"Char To Int", CharType(), IntType(), true},
		{"Int To Char", IntType(), CharType(), false},
		{"Float To Double", FloatType(), DoubleType(), true},
		{"Double To Float", DoubleType(), FloatType(), false},
		{"Int To Double", IntType(), DoubleType(), true},
		{"Char To Float", CharType(), FloatType(), true},
		{"Double To Int", DoubleType(), IntType(), false},
		{"Void To Int", VoidType(), IntType(), false},
		{"Array Decays To Pointer", ArrayOf(IntType(), 4), PointerTo(IntType()), true},
		{"Pointer To Array", PointerTo(IntType()), ArrayOf(IntType(), 4), false},
		{"Pointer Bases Recurse", PointerTo(CharType()), PointerTo(IntType()), true},
		{"Pointer Bases Reject", PointerTo(IntType()), PointerTo(CharType()), false},
		{"Nil Source", nil, IntType(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := typesCompatible(tt.source, tt.target); got != tt.want {
				t.Errorf("typesCompatible(%v, %v) = %v; want %v", tt.source, tt.target, got, tt.want)
			}
		})
	}
}

func TestCommonType(t *testing.T) {
	tests := []struct {
		name string
		a    *TypeInfo
		b    *TypeInfo
		want TypeKind
	}{
		{"Double Dominates", IntType(), DoubleType(), TYPE_DOUBLE},
		{"Float Beats Integer", FloatType(), IntType(), TYPE_FLOAT},
		{"Wider Integer Wins", CharType(), IntType(), TYPE_INT},
		{"Wider Integer Wins Reversed", IntType(), CharType(), TYPE_INT},
		{"Same Kind Keeps Kind", IntType(), IntType(), TYPE_INT},
		{"Double Over Float", DoubleType(), FloatType(), TYPE_DOUBLE},
		{"Fallback Keeps Left", IntType(), PointerTo(CharType()), TYPE_INT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commonType(tt.a, tt.b); got.Kind != tt.want {
				t.Errorf("commonType(%v, %v) = %v; want kind %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	constInt := IntType()
	constInt.IsConst = true

	tests := []struct {
		typ  *TypeInfo
		want string
	}{
		{IntType(), "int"},
		{PointerTo(CharType()), "char*"},
		{PointerTo(PointerTo(IntType())), "int**"},
		{ArrayOf(IntType(), 4), "int[]"},
		{FunctionOf(IntType(), []*TypeInfo{IntType(), FloatType()}), "int(int, float)"},
		{FunctionOf(VoidType(), nil), "void()"},
		{constInt, "const int"},
		{PointerTo(constInt), "const int*"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestTypeSizes(t *testing.T) {
	if got := ArrayOf(IntType(), 4).Size; got != 16 {
		t.Errorf("array of 4 ints has size %d; want 16", got)
	}
	if got := PointerTo(CharType()).Size; got != 8 {
		t.Errorf("pointer size = %d; want 8", got)
	}
}

func TestTypeClone(t *testing.T) {
	orig := FunctionOf(PointerTo(IntType()), []*TypeInfo{CharType()})
	clone := orig.Clone()

	clone.Base.Base.Kind = TYPE_CHAR
	clone.Params[0].Kind = TYPE_DOUBLE

	if orig.Base.Base.Kind != TYPE_INT {
		t.Errorf("mutating the clone changed the original return type to %v", orig.Base.Base.Kind)
	}
	if orig.Params[0].Kind != TYPE_CHAR {
		t.Errorf("mutating the clone changed the original parameter to %v", orig.Params[0].Kind)
	}

	var nilType *TypeInfo
	if nilType.Clone() != nil {
		t.Error("Clone() of nil = non-nil; want nil")
	}
}
