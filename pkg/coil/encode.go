package coil

import (
	"bytes"
	"encoding/binary"
)

// Magic identifies an encoded COIL object.
var Magic = [4]byte{'C', 'O', 'I', 'L'}

// FormatVersion is written into the header of every encoded object.
const FormatVersion uint16 = 1

// Encode serializes the object. Layout, all little-endian:
//
//	header      magic, u16 version, u16 reserved, u16 symbol count, u16 section count
//	symbol      u16 name length, name bytes, u32 attributes, u32 value,
//	            u16 section index, u8 processor type
//	section     u16 name index, u32 attributes, u32 offset, u32 size, u32 address,
//	            u16 alignment, u8 processor type, u32 instruction count, instructions
//	instruction u8 opcode, u8 flag, u8 operand count, operands
//	operand     u8 kind, u16 type, u64 bits
//
// Encoding the same object twice yields identical bytes.
func (o *Object) Encode() []byte {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	writeU16(&buf, FormatVersion)
	writeU16(&buf, 0) // reserved
	writeU16(&buf, uint16(len(o.Symbols)))
	writeU16(&buf, uint16(len(o.Sections)))

	for _, sym := range o.Symbols {
		writeU16(&buf, uint16(len(sym.Name)))
		buf.WriteString(sym.Name)
		writeU32(&buf, sym.Attributes)
		writeU32(&buf, sym.Value)
		writeU16(&buf, sym.SectionIndex)
		buf.WriteByte(sym.ProcessorType)
	}

	for _, sec := range o.Sections {
		writeU16(&buf, sec.NameIndex)
		writeU32(&buf, sec.Attributes)
		writeU32(&buf, sec.Offset)
		writeU32(&buf, sec.Size)
		writeU32(&buf, sec.Address)
		writeU16(&buf, sec.Alignment)
		buf.WriteByte(sec.ProcessorType)
		writeU32(&buf, uint32(len(sec.Instructions)))
		for _, ins := range sec.Instructions {
			buf.WriteByte(ins.Opcode)
			buf.WriteByte(ins.Flag)
			buf.WriteByte(uint8(len(ins.Operands)))
			for _, op := range ins.Operands {
				buf.WriteByte(uint8(op.Kind))
				writeU16(&buf, op.Type)
				writeU64(&buf, op.Bits)
			}
		}
	}
	return buf.Bytes()
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
