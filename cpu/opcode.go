package cpu

import (
	"fmt"
)

// Op is the 4-bit operation selector in the top nibble of a word.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_STR = Op(0b0000) // STR
	OP_LOD = Op(0b0001) // LOD
	OP_PGE = Op(0b0010) // PGE
	OP_RET = Op(0b0011) // RET
	OP_CAL = Op(0b0100) // CAL
	OP_BRH = Op(0b0101) // BRH
	OP_JMP = Op(0b0110) // JMP
	OP_ADR = Op(0b0111) // ADR
	OP_LDR = Op(0b1000) // LDR
	OP_MOV = Op(0b1001) // MOV
	OP_XOR = Op(0b1010) // XOR
	OP_AND = Op(0b1011) // AND
	OP_NOR = Op(0b1100) // NOR
	OP_SUB = Op(0b1101) // SUB
	OP_ADD = Op(0b1110) // ADD
	OP_HLT = Op(0b1111) // HLT
)

// Alu returns true if the operation is a three register ALU operation.
func (op Op) Alu() bool {
	switch op {
	case OP_ADD, OP_SUB, OP_NOR, OP_AND, OP_XOR:
		return true
	}
	return false
}

// Width returns the number of program words the operation occupies.
func (op Op) Width() int {
	if op == OP_BRH {
		return 2
	}
	return 1
}

// CodeCond is a branch condition code.
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_EQ = CodeCond(0b00) // eq
	COND_NE = CodeCond(0b01) // ne
	COND_LT = CodeCond(0b10) // lt
	COND_GT = CodeCond(0b11) // gt
)

// Holds compares two register values, unsigned.
func (cond CodeCond) Holds(a, b uint32) bool {
	switch cond {
	case COND_EQ:
		return a == b
	case COND_NE:
		return a != b
	case COND_LT:
		return a < b
	case COND_GT:
		return a > b
	}
	return false
}

// Reg is a register index.
type Reg uint8

func (reg Reg) String() string {
	return fmt.Sprintf("r%d", uint8(reg))
}

const (
	REG_COUNT = 16 // Registers addressable by a 4-bit field.
	ADDR_MASK = 0x3ff
	BYTE_MASK = 0xff
)

// Code represents a single instruction word with its trailing operand words.
type Code struct {
	Word       uint16
	Immediates []uint16
}

// MakeCode packs an opcode and its nibble-aligned operand fields.
func MakeCode(op Op, fields uint16, imms ...uint16) Code {
	return Code{
		Word:       (uint16(op) << 12) | (fields & 0x0fff),
		Immediates: imms,
	}
}

// MakeCodeAlu creates a three register ALU instruction: c = a op b.
func MakeCodeAlu(op Op, a, b, c Reg) Code {
	return MakeCode(op, (uint16(a&0xf)<<8)|(uint16(b&0xf)<<4)|uint16(c&0xf))
}

// MakeCodeMove creates a register move: c = a.
func MakeCodeMove(a, c Reg) Code {
	return MakeCode(OP_MOV, (uint16(a&0xf)<<8)|uint16(c&0xf))
}

// MakeCodeValue creates a register + 8-bit value instruction (LDR, ADR, LOD, STR).
func MakeCodeValue(op Op, a Reg, value uint8) Code {
	return MakeCode(op, (uint16(a&0xf)<<8)|uint16(value))
}

// MakeCodeAddr creates a 10-bit address instruction (JMP, CAL).
func MakeCodeAddr(op Op, addr uint16) Code {
	return MakeCode(op, addr&ADDR_MASK)
}

// MakeCodeBranch creates a conditional branch; the compared registers
// follow in an operand word.
func MakeCodeBranch(a, b Reg, cond CodeCond, addr uint16) Code {
	operand := (uint16(a&0xf) << 8) | (uint16(b&0xf) << 4)
	return MakeCode(OP_BRH, (uint16(cond&0x3)<<10)|(addr&ADDR_MASK), operand)
}

// MakeCodePage creates a page select instruction.
func MakeCodePage(page uint8) Code {
	return MakeCode(OP_PGE, uint16(page&0xf)<<8)
}

// MakeCodeHalt creates a halt instruction.
func MakeCodeHalt() Code {
	return MakeCode(OP_HLT, 0)
}

// MakeCodeReturn creates a return instruction.
func MakeCodeReturn() Code {
	return MakeCode(OP_RET, 0)
}

// Op returns the opcode from bits 15-12.
func (code Code) Op() Op {
	return Op((code.Word >> 12) & 0xf)
}

// A returns the register field in bits 11-8.
func (code Code) A() Reg {
	return Reg((code.Word >> 8) & 0xf)
}

// B returns the register field in bits 7-4.
func (code Code) B() Reg {
	return Reg((code.Word >> 4) & 0xf)
}

// C returns the register field in bits 3-0.
func (code Code) C() Reg {
	return Reg(code.Word & 0xf)
}

// Value returns the 8-bit immediate in bits 7-0.
func (code Code) Value() uint8 {
	return uint8(code.Word & BYTE_MASK)
}

// Addr returns the 10-bit address in bits 9-0.
func (code Code) Addr() uint16 {
	return code.Word & ADDR_MASK
}

// Cond returns the condition code in bits 11-10.
func (code Code) Cond() CodeCond {
	return CodeCond((code.Word >> 10) & 0x3)
}

// Page returns the page number, which shares bits 11-8 with register A.
func (code Code) Page() uint8 {
	return uint8((code.Word >> 8) & 0xf)
}

// ImmediateNeed returns the number of operand words required by this instruction.
func (code Code) ImmediateNeed() int {
	return code.Op().Width() - 1
}

// Words returns the instruction word followed by its operand words.
func (code Code) Words() []uint16 {
	return append([]uint16{code.Word}, code.Immediates...)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	return code.Decode().String()
}
