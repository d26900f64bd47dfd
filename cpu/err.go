package cpu

import (
	"errors"

	"github.com/ezrec/putater/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty       = errors.New(f("ip beyond program"))
	ErrStackEmpty    = errors.New(f("stack empty"))
	ErrStackFull     = errors.New(f("stack full"))
	ErrRegisterRange = errors.New(f("register beyond register file"))
	ErrHalted        = errors.New(f("processor halted"))
	ErrMemoryMissing = errors.New(f("no memory attached"))

	// Assembler errors
	ErrDefineSyntax    = errors.New(f("define syntax"))
	ErrDefineDuplicate = errors.New(f("define duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
)

// ErrOpcodeUnknown is a mnemonic missing from the opcode table.
type ErrOpcodeUnknown string

func (eo ErrOpcodeUnknown) Error() string {
	return f("unknown opcode '%v'", string(eo))
}

// ErrOperandCount is a mnemonic with the wrong number of operands.
type ErrOperandCount struct {
	Mnemonic string
	Want     int
	Got      int
}

func (err ErrOperandCount) Error() string {
	return f("%v expects %d operands, got %d", err.Mnemonic, err.Want, err.Got)
}

// ErrRegisterInvalid is an operand that does not name a register.
type ErrRegisterInvalid struct {
	Mnemonic string
	Position int // 1-based operand position.
	Word     string
}

func (err ErrRegisterInvalid) Error() string {
	return f("%v operand %d '%v' is not a register", err.Mnemonic, err.Position, err.Word)
}

// ErrOperandRange is a numeric operand outside of its field.
type ErrOperandRange struct {
	Word  string
	Limit int
}

func (err ErrOperandRange) Error() string {
	return f("'%v' is outside of [0,%d)", err.Word, err.Limit)
}

// ErrConditionInvalid is a branch condition outside of [0,4).
type ErrConditionInvalid string

func (err ErrConditionInvalid) Error() string {
	return f("'%v' is not a branch condition", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrOpcode locates a runtime fault at a program counter.
type ErrOpcode struct {
	Ip   int
	Code Code
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x at 0x%03x %v", eo.Code.Word, eo.Ip, eo.Code.Op())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrOpcodeInvalid is an opcode value absent from the opcode table.
type ErrOpcodeInvalid uint16

func (eo ErrOpcodeInvalid) Error() string {
	return f("invalid opcode %d in word 0x%04x", int(eo>>12), uint16(eo))
}
