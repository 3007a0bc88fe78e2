// Package emitter serializes a proto.Prototype tree into the Lua 5.1
// binary chunk format: a fixed 12-byte header followed by a recursive
// function block for the root prototype. The format here
// targets an unmodified reference Lua 5.1 loader, so every field width,
// byte order and tag value is fixed by the reference implementation, not by
// this compiler's own preferences.
package emitter

import (
	"bytes"
	"encoding/binary"
	"math"

	"luac51/proto"
)

// header is the fixed 12-byte Lua 5.1 binary chunk signature: \x1BLua,
// version 0x51, format 0 (official), endianness 1 (little), sizeof(int)=4,
// sizeof(size_t)=4, sizeof(Instruction)=4, sizeof(lua_Number)=8, and the
// integral flag 0 (numbers are doubles).
var header = []byte{
	0x1B, 'L', 'u', 'a',
	0x51, // version
	0x00, // format
	0x01, // endianness: little
	0x04, // sizeof(int)
	0x04, // sizeof(size_t)
	0x04, // sizeof(Instruction)
	0x08, // sizeof(lua_Number)
	0x00, // integral flag: 0 = floating point
}

// Emit serializes root (and its nested prototypes) into a Lua 5.1 binary
// chunk.
func Emit(root *proto.Prototype) []byte {
	var buf bytes.Buffer
	buf.Write(header)
	writeFunction(&buf, root)
	return buf.Bytes()
}

func writeInt(buf *bytes.Buffer, n int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n))
	buf.Write(b[:])
}

func writeSizeT(buf *bytes.Buffer, n int) { writeInt(buf, n) }

// writeString writes a length-prefixed string, the length including the
// trailing NUL. An empty string is encoded as length 0 with no payload
// (matching the reference writer's treatment of a nil source name).
func writeString(buf *bytes.Buffer, s string) {
	if s == "" {
		writeSizeT(buf, 0)
		return
	}
	writeSizeT(buf, len(s)+1)
	buf.WriteString(s)
	buf.WriteByte(0)
}

func writeByte(buf *bytes.Buffer, b byte) { buf.WriteByte(b) }

func writeDouble(buf *bytes.Buffer, f float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	buf.Write(b[:])
}

// encodeInstruction packs an abstract Instruction into its 32-bit word:
// opcode in bits 0-5, A in bits 6-13, then either (C in 14-22, B in 23-31)
// for ABC form or Bx in 14-31 for ABx/AsBx form.
func encodeInstruction(i proto.Instruction) uint32 {
	w := uint32(i.Op) << proto.PosOp
	w |= uint32(i.A) << proto.PosA
	switch i.Op.Mode() {
	case proto.ModeABx, proto.ModeAsBx:
		w |= uint32(i.Bx) << proto.PosBx
	default:
		w |= uint32(i.B) << proto.PosB
		w |= uint32(i.C) << proto.PosC
	}
	return w
}

func writeFunction(buf *bytes.Buffer, p *proto.Prototype) {
	writeString(buf, p.Source)
	writeInt(buf, p.LineDefined)
	writeInt(buf, p.LastLineDefined)
	writeByte(buf, byte(len(p.Upvalues)))
	writeByte(buf, byte(p.NumParams))
	if p.IsVararg {
		writeByte(buf, 2) // VARARG_ISVARARG
	} else {
		writeByte(buf, 0)
	}
	writeByte(buf, byte(p.MaxStackSize))

	writeInt(buf, len(p.Code))
	for _, ins := range p.Code {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], encodeInstruction(ins))
		buf.Write(b[:])
	}

	writeInt(buf, len(p.Constants))
	for _, c := range p.Constants {
		switch c.Kind {
		case proto.ConstNil:
			writeByte(buf, 0)
		case proto.ConstBool:
			writeByte(buf, 1)
			if c.Bool {
				writeByte(buf, 1)
			} else {
				writeByte(buf, 0)
			}
		case proto.ConstNumber:
			writeByte(buf, 3)
			writeDouble(buf, c.Number)
		case proto.ConstString:
			writeByte(buf, 4)
			writeString(buf, c.String)
		}
	}

	writeInt(buf, len(p.Children))
	for _, child := range p.Children {
		writeFunction(buf, child)
	}

	// Debug info: line-per-instruction, locals, upvalue names.
	writeInt(buf, len(p.Lines))
	for _, line := range p.Lines {
		writeInt(buf, line)
	}
	writeInt(buf, len(p.Locals))
	for _, l := range p.Locals {
		writeString(buf, l.Name)
		writeInt(buf, l.StartPC)
		endPC := l.EndPC
		if endPC < 0 {
			endPC = len(p.Code)
		}
		writeInt(buf, endPC)
	}
	writeInt(buf, len(p.Upvalues))
	for _, u := range p.Upvalues {
		writeString(buf, u.Name)
	}
}
