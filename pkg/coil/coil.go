// Package coil models COIL relocatable objects in memory: a symbol table,
// attributed sections, and a typed instruction stream per executable section.
// Instructions reference symbols and virtual variables by index, so nothing
// here needs relocation fixups; Encode in encode.go produces the on-disk
// layout.
package coil

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Instruction opcodes.
const (
	OpProc   uint8 = 0x01 // select the target processor
	OpSym    uint8 = 0x02 // bind a symbol to the current position
	OpVar    uint8 = 0x03 // declare a virtual variable
	OpMov    uint8 = 0x04
	OpAdd    uint8 = 0x10
	OpSub    uint8 = 0x11
	OpMul    uint8 = 0x12
	OpDiv    uint8 = 0x13
	OpMod    uint8 = 0x14
	OpNeg    uint8 = 0x15
	OpInc    uint8 = 0x16
	OpDec    uint8 = 0x17
	OpAnd    uint8 = 0x20
	OpOr     uint8 = 0x21
	OpXor    uint8 = 0x22
	OpNot    uint8 = 0x23
	OpShl    uint8 = 0x24
	OpShr    uint8 = 0x25
	OpCmp    uint8 = 0x30
	OpBr     uint8 = 0x31
	OpCall   uint8 = 0x32
	OpRet    uint8 = 0x33
	OpIndex  uint8 = 0x40
	OpScopeE uint8 = 0x50 // lexical scope enter
	OpScopeL uint8 = 0x51 // lexical scope leave
)

var opcodeNames = map[uint8]string{
	OpProc:   "PROC",
	OpSym:    "SYM",
	OpVar:    "VAR",
	OpMov:    "MOV",
	OpAdd:    "ADD",
	OpSub:    "SUB",
	OpMul:    "MUL",
	OpDiv:    "DIV",
	OpMod:    "MOD",
	OpNeg:    "NEG",
	OpInc:    "INC",
	OpDec:    "DEC",
	OpAnd:    "AND",
	OpOr:     "OR",
	OpXor:    "XOR",
	OpNot:    "NOT",
	OpShl:    "SHL",
	OpShr:    "SHR",
	OpCmp:    "CMP",
	OpBr:     "BR",
	OpCall:   "CALL",
	OpRet:    "RET",
	OpIndex:  "INDEX",
	OpScopeE: "SCOPEE",
	OpScopeL: "SCOPEL",
}

// OpcodeName returns the mnemonic for op.
func OpcodeName(op uint8) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP(0x%02X)", op)
}

// Branch conditions carried in Instruction.Flag. Only CMP updates the
// processor's condition state and only BR reads it.
const (
	CondAlways uint8 = iota
	CondEQ
	CondNE
	CondLT
	CondLE
	CondGT
	CondGE
)

var condNames = [...]string{
	CondAlways: "",
	CondEQ:     "EQ",
	CondNE:     "NE",
	CondLT:     "LT",
	CondLE:     "LE",
	CondGT:     "GT",
	CondGE:     "GE",
}

// Operand value types.
const (
	TypeVoid   uint16 = 0x0000
	TypeInt8   uint16 = 0x0001
	TypeInt16  uint16 = 0x0002
	TypeInt32  uint16 = 0x0003
	TypeInt64  uint16 = 0x0004
	TypeUint8  uint16 = 0x0005
	TypeUint16 uint16 = 0x0006
	TypeUint32 uint16 = 0x0007
	TypeUint64 uint16 = 0x0008
	TypeFP32   uint16 = 0x0010
	TypeFP64   uint16 = 0x0011
	TypePtr    uint16 = 0x0020

	// TypeABICtl marks an immediate as an ABI control word rather than data;
	// it is composed with TypeParam or TypeRet.
	TypeABICtl uint16 = 0x8000
	TypeParam  uint16 = 0x0100
	TypeRet    uint16 = 0x0200
)

// Symbol attribute bits.
const (
	SymGlobal   uint32 = 1 << 0
	SymFunction uint32 = 1 << 1
	SymData     uint32 = 1 << 2
)

// Section attribute bits.
const (
	SecExecutable    uint32 = 1 << 0
	SecReadable      uint32 = 1 << 1
	SecWritable      uint32 = 1 << 2
	SecInitialized   uint32 = 1 << 3
	SecUninitialized uint32 = 1 << 4
)

// OperandKind discriminates Operand.
type OperandKind uint8

const (
	OperandImm OperandKind = iota
	OperandVar
	OperandSym
)

// Operand is one instruction argument. Bits holds the raw payload: immediates
// store their value bits, variable operands a variable ID, symbol operands a
// symbol table index.
type Operand struct {
	Kind OperandKind
	Type uint16 // value type of an immediate; 0 for variables and symbols
	Bits uint64
}

// Imm8 builds a signed 8-bit immediate.
func Imm8(v int8) Operand {
	return Operand{Kind: OperandImm, Type: TypeInt8, Bits: uint64(uint8(v))}
}

// Imm32 builds a signed 32-bit immediate.
func Imm32(v int32) Operand {
	return Operand{Kind: OperandImm, Type: TypeInt32, Bits: uint64(uint32(v))}
}

// ImmU8 builds an unsigned 8-bit immediate.
func ImmU8(v uint8) Operand {
	return Operand{Kind: OperandImm, Type: TypeUint8, Bits: uint64(v)}
}

// ImmU16 builds an unsigned 16-bit immediate. ABI control words travel as
// this kind, e.g. ImmU16(TypeABICtl|TypeParam).
func ImmU16(v uint16) Operand {
	return Operand{Kind: OperandImm, Type: TypeUint16, Bits: uint64(v)}
}

// ImmF32 builds a 32-bit float immediate.
func ImmF32(v float32) Operand {
	return Operand{Kind: OperandImm, Type: TypeFP32, Bits: uint64(math.Float32bits(v))}
}

// ImmF64 builds a 64-bit float immediate.
func ImmF64(v float64) Operand {
	return Operand{Kind: OperandImm, Type: TypeFP64, Bits: math.Float64bits(v)}
}

// Var references a virtual variable by ID.
func Var(id uint16) Operand {
	return Operand{Kind: OperandVar, Bits: uint64(id)}
}

// Sym references a symbol table entry by index.
func Sym(index uint16) Operand {
	return Operand{Kind: OperandSym, Bits: uint64(index)}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandVar:
		return fmt.Sprintf("#%d", o.Bits)
	case OperandSym:
		return fmt.Sprintf("@%d", o.Bits)
	}
	switch {
	case o.Type == TypeFP32:
		return fmt.Sprintf("%g", math.Float32frombits(uint32(o.Bits)))
	case o.Type == TypeFP64:
		return fmt.Sprintf("%g", math.Float64frombits(o.Bits))
	case o.Type == TypeUint16 && uint16(o.Bits)&TypeABICtl != 0:
		switch {
		case uint16(o.Bits)&TypeParam != 0:
			return "$param"
		case uint16(o.Bits)&TypeRet != 0:
			return "$ret"
		}
		return "$abi"
	case o.Type == TypeInt8:
		return fmt.Sprintf("%d", int8(o.Bits))
	case o.Type == TypeInt32:
		return fmt.Sprintf("%d", int32(o.Bits))
	}
	return fmt.Sprintf("%d", o.Bits)
}

// Instruction is one operation in a section's stream.
type Instruction struct {
	Opcode   uint8
	Flag     uint8 // branch condition on BR; 0 elsewhere
	Operands []Operand
}

// Ins builds an instruction from an opcode and its operands.
func Ins(op uint8, operands ...Operand) Instruction {
	return Instruction{Opcode: op, Operands: operands}
}

// Branch builds a BR carrying the given condition flag.
func Branch(cond uint8, target Operand) Instruction {
	return Instruction{Opcode: OpBr, Flag: cond, Operands: []Operand{target}}
}

// EncodedSize returns the byte length of the instruction on disk.
func (i Instruction) EncodedSize() uint32 {
	return 3 + 11*uint32(len(i.Operands))
}

// format renders the instruction; resolve, when non-nil, maps symbol indices
// to names.
func (i Instruction) format(resolve func(uint16) string) string {
	name := OpcodeName(i.Opcode)
	if i.Opcode == OpBr && i.Flag != CondAlways && int(i.Flag) < len(condNames) {
		name += "." + condNames[i.Flag]
	}
	if len(i.Operands) == 0 {
		return name
	}
	parts := make([]string, len(i.Operands))
	for n, op := range i.Operands {
		if op.Kind == OperandSym && resolve != nil {
			parts[n] = "@" + resolve(uint16(op.Bits))
			continue
		}
		parts[n] = op.String()
	}
	return name + " " + strings.Join(parts, ", ")
}

func (i Instruction) String() string { return i.format(nil) }

// Symbol is one symbol table entry.
type Symbol struct {
	Name          string
	Attributes    uint32
	Value         uint32
	SectionIndex  uint16
	ProcessorType uint8
}

// Section is one attributed region of the object. Size tracks the encoded
// byte length of Instructions and is maintained by AddInstruction.
type Section struct {
	NameIndex     uint16 // symbol table index of the section's name
	Attributes    uint32
	Offset        uint32
	Size          uint32
	Address       uint32
	Alignment     uint16
	ProcessorType uint8
	Instructions  []Instruction
}

// Object is a COIL object under construction.
type Object struct {
	Symbols  []Symbol
	Sections []Section

	symIndex map[string]uint16
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{symIndex: make(map[string]uint16)}
}

// AddSymbol appends sym and returns its index. Symbols deduplicate by name:
// re-adding an existing name returns the existing index and leaves the stored
// entry untouched.
func (o *Object) AddSymbol(sym Symbol) uint16 {
	if o.symIndex == nil {
		o.symIndex = make(map[string]uint16)
	}
	if idx, ok := o.symIndex[sym.Name]; ok {
		return idx
	}
	idx := uint16(len(o.Symbols))
	o.Symbols = append(o.Symbols, sym)
	o.symIndex[sym.Name] = idx
	return idx
}

// FindSymbol returns the index of the named symbol.
func (o *Object) FindSymbol(name string) (uint16, bool) {
	idx, ok := o.symIndex[name]
	return idx, ok
}

// SymbolName resolves a symbol index to its name for listings.
func (o *Object) SymbolName(index uint16) string {
	if int(index) < len(o.Symbols) {
		return o.Symbols[index].Name
	}
	return fmt.Sprintf("sym(%d)", index)
}

// AddSection appends s and returns its index.
func (o *Object) AddSection(s Section) uint16 {
	o.Sections = append(o.Sections, s)
	return uint16(len(o.Sections) - 1)
}

// AddInstruction appends ins to the section's stream and grows its size.
func (o *Object) AddInstruction(section uint16, ins Instruction) {
	s := &o.Sections[section]
	s.Instructions = append(s.Instructions, ins)
	s.Size += ins.EncodedSize()
}

// Dump writes a human-readable listing to w with symbol operands resolved to
// their names. SYM instructions render as label definitions.
func (o *Object) Dump(w io.Writer) {
	fmt.Fprintf(w, "symbols (%d):\n", len(o.Symbols))
	for i, sym := range o.Symbols {
		fmt.Fprintf(w, "  %3d  %-20s attrs=0x%X section=%d\n", i, sym.Name, sym.Attributes, sym.SectionIndex)
	}
	for _, sec := range o.Sections {
		fmt.Fprintf(w, "section %s (%d bytes):\n", o.SymbolName(sec.NameIndex), sec.Size)
		for _, ins := range sec.Instructions {
			if ins.Opcode == OpSym && len(ins.Operands) == 1 && ins.Operands[0].Kind == OperandSym {
				fmt.Fprintf(w, "%s:\n", o.SymbolName(uint16(ins.Operands[0].Bits)))
				continue
			}
			fmt.Fprintf(w, "    %s\n", ins.format(o.SymbolName))
		}
	}
}
