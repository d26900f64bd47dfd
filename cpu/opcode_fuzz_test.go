package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzEncoding(f *testing.F) {
	for op := range 16 {
		f.Add(uint8(op), uint8(0), uint8(0), uint8(0), uint8(0), uint16(0))
		f.Add(uint8(op), uint8(0xf), uint8(0xf), uint8(0xf), uint8(0xff), uint16(0x3ff))
	}

	f.Fuzz(func(t *testing.T, op8, a8, b8, c8, value uint8, addr uint16) {
		assert := assert.New(t)

		op := Op(op8 & 0xf)
		a := Reg(a8 & 0xf)
		b := Reg(b8 & 0xf)
		c := Reg(c8 & 0xf)
		cond := CodeCond(value & 0x3)
		addr &= ADDR_MASK

		var code Code
		var expected Instruction
		switch op {
		case OP_HLT:
			code, expected = MakeCodeHalt(), Halt{}
		case OP_RET:
			code, expected = MakeCodeReturn(), Return{}
		case OP_ADD, OP_SUB, OP_NOR, OP_AND, OP_XOR:
			code, expected = MakeCodeAlu(op, a, b, c), Alu{Code: op, A: a, B: b, C: c}
		case OP_MOV:
			code, expected = MakeCodeMove(a, c), Move{A: a, C: c}
		case OP_LDR:
			code, expected = MakeCodeValue(op, a, value), LoadImmediate{A: a, Value: value}
		case OP_ADR:
			code, expected = MakeCodeValue(op, a, value), AddImmediate{A: a, Value: value}
		case OP_LOD:
			code, expected = MakeCodeValue(op, a, value), Load{A: a, Addr: value}
		case OP_STR:
			code, expected = MakeCodeValue(op, a, value), Store{A: a, Value: value}
		case OP_JMP:
			code, expected = MakeCodeAddr(op, addr), Jump{Addr: addr}
		case OP_CAL:
			code, expected = MakeCodeAddr(op, addr), Call{Addr: addr}
		case OP_BRH:
			code, expected = MakeCodeBranch(a, b, cond, addr), Branch{A: a, B: b, Cond: cond, Addr: addr}
		case OP_PGE:
			code, expected = MakeCodePage(uint8(a)), Page{Page: uint8(a)}
		}

		assert.Equal(op, code.Op())
		assert.Equal(op.Width(), len(code.Words()))
		assert.Equal(expected, code.Decode())

		// Decoding the fetched words gives the same instruction.
		words := code.Words()
		fetched := Code{Word: words[0], Immediates: words[1:]}
		assert.Equal(expected, fetched.Decode())
	})
}
