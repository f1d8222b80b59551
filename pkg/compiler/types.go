package compiler

import (
	"fmt"
	"strings"
)

// TypeKind identifies the fundamental kind of a type.
type TypeKind int

const (
	TYPE_VOID TypeKind = iota
	TYPE_CHAR
	TYPE_INT
	TYPE_FLOAT
	TYPE_DOUBLE
	TYPE_STRUCT
	TYPE_ARRAY
	TYPE_POINTER
	TYPE_FUNCTION
)

var typeKindNames = [...]string{
	TYPE_VOID:     "void",
	TYPE_CHAR:     "char",
	TYPE_INT:      "int",
	TYPE_FLOAT:    "float",
	TYPE_DOUBLE:   "double",
	TYPE_STRUCT:   "struct",
	TYPE_ARRAY:    "array",
	TYPE_POINTER:  "pointer",
	TYPE_FUNCTION: "function",
}

func (k TypeKind) String() string {
	if k >= 0 && int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// TypeInfo describes a value's type during analysis. Base holds the pointee
// for pointers, the element type for arrays, and the return type for
// functions. Size is in bytes.
type TypeInfo struct {
	Kind       TypeKind
	IsConst    bool
	IsVolatile bool
	Size       int
	Base       *TypeInfo
	Params     []*TypeInfo
}

func VoidType() *TypeInfo   { return &TypeInfo{Kind: TYPE_VOID} }
func CharType() *TypeInfo   { return &TypeInfo{Kind: TYPE_CHAR, Size: 1} }
func IntType() *TypeInfo    { return &TypeInfo{Kind: TYPE_INT, Size: 4} }
func FloatType() *TypeInfo  { return &TypeInfo{Kind: TYPE_FLOAT, Size: 4} }
func DoubleType() *TypeInfo { return &TypeInfo{Kind: TYPE_DOUBLE, Size: 8} }

// PointerTo returns a pointer type wrapping base.
func PointerTo(base *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: TYPE_POINTER, Size: 8, Base: base}
}

// ArrayOf returns an array type of count elements.
func ArrayOf(elem *TypeInfo, count int) *TypeInfo {
	return &TypeInfo{Kind: TYPE_ARRAY, Size: elem.Size * count, Base: elem}
}

// FunctionOf returns a function type; Base carries the return type.
func FunctionOf(ret *TypeInfo, params []*TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: TYPE_FUNCTION, Base: ret, Params: params}
}

// Clone returns a deep copy, so the caller can hold the result without
// aliasing symbol table state.
func (t *TypeInfo) Clone() *TypeInfo {
	if t == nil {
		return nil
	}
	c := *t
	c.Base = t.Base.Clone()
	if t.Params != nil {
		c.Params = make([]*TypeInfo, len(t.Params))
		for i, p := range t.Params {
			c.Params[i] = p.Clone()
		}
	}
	return &c
}

// IsScalar reports whether the type can stand as a condition: any numeric
// type or a pointer.
func (t *TypeInfo) IsScalar() bool {
	switch t.Kind {
	case TYPE_CHAR, TYPE_INT, TYPE_FLOAT, TYPE_DOUBLE, TYPE_POINTER:
		return true
	}
	return false
}

func (t *TypeInfo) IsNumeric() bool {
	switch t.Kind {
	case TYPE_CHAR, TYPE_INT, TYPE_FLOAT, TYPE_DOUBLE:
		return true
	}
	return false
}

func (t *TypeInfo) IsInteger() bool {
	return t.Kind == TYPE_CHAR || t.Kind == TYPE_INT
}

func (t *TypeInfo) IsFloatingPoint() bool {
	return t.Kind == TYPE_FLOAT || t.Kind == TYPE_DOUBLE
}

func (t *TypeInfo) String() string {
	var sb strings.Builder
	if t.IsConst {
		sb.WriteString("const ")
	}
	if t.IsVolatile {
		sb.WriteString("volatile ")
	}
	switch t.Kind {
	case TYPE_POINTER:
		sb.WriteString(t.Base.String())
		sb.WriteByte('*')
	case TYPE_ARRAY:
		sb.WriteString(t.Base.String())
		sb.WriteString("[]")
	case TYPE_FUNCTION:
		sb.WriteString(t.Base.String())
		sb.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(t.Kind.String())
	}
	return sb.String()
}

// typesCompatible reports whether a value of type source can be used where
// target is expected. The relation is directional: char promotes to int,
// float to double, any integer to any floating type, and an array decays to
// a pointer over a compatible element type. Compound types of the same kind
// compare their base types.
func typesCompatible(source, target *TypeInfo) bool {
	if source == nil || target == nil {
		return false
	}

	if source.Kind == target.Kind {
		switch source.Kind {
		case TYPE_ARRAY, TYPE_POINTER, TYPE_FUNCTION:
			return typesCompatible(source.Base, target.Base)
		}
		return true
	}

	if source.Kind == TYPE_CHAR && target.Kind == TYPE_INT {
		return true
	}
	if source.Kind == TYPE_FLOAT && target.Kind == TYPE_DOUBLE {
		return true
	}
	if source.IsInteger() && target.IsFloatingPoint() {
		return true
	}
	if source.Kind == TYPE_ARRAY && target.Kind == TYPE_POINTER {
		return typesCompatible(source.Base, target.Base)
	}
	return false
}

// commonType returns the arithmetic result type for a pair of operands:
// double beats float beats integer, equal-kind pairs keep that kind, and an
// integer pair keeps the wider operand (ties keep the left). Anything else
// falls back to the left operand's type.
func commonType(a, b *TypeInfo) *TypeInfo {
	if a.Kind == b.Kind {
		return a
	}
	if a.Kind == TYPE_DOUBLE || b.Kind == TYPE_DOUBLE {
		return DoubleType()
	}
	if a.Kind == TYPE_FLOAT || b.Kind == TYPE_FLOAT {
		return FloatType()
	}
	if a.IsInteger() && b.IsInteger() {
		if a.Size >= b.Size {
			return a
		}
		return b
	}
	return a
}
