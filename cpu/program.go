package cpu

import (
	"iter"
	"maps"
	"slices"
)

// Opcode represents a line of assembled code with its source location and generated instruction.
type Opcode struct {
	LineNo    int
	Ip        int
	Words     []string
	Code      Code
	LinkLabel string
}

// Width returns the number of program words used by the opcode.
func (op *Opcode) Width() int {
	return 1 + len(op.Code.Immediates)
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
	Label   map[string]int // Label name to program counter.
	Define  map[string]int // Define name to value. Not used by operands.
}

type Debug struct {
	*Opcode
	Index int
}

// Debug locates the opcode covering the program counter. Index is the
// offset of ip within the opcode's words.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= op.Ip && ip < op.Ip+op.Width() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  ip - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the program words, entry point first.
func (prog *Program) Binary() (bins []uint16) {
	for _, code := range prog.Codes() {
		bins = append(bins, code.Words()...)
	}

	return
}

// Codes iterates the instructions by their program counter.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Code) {
				return
			}
		}
	}
}

// Labels iterates the label table in name order.
func (prog *Program) Labels() iter.Seq2[string, int] {
	return sortedAll(prog.Label)
}

// Defines iterates the definition table in name order.
func (prog *Program) Defines() iter.Seq2[string, int] {
	return sortedAll(prog.Define)
}

func sortedAll(table map[string]int) iter.Seq2[string, int] {
	return func(yield func(name string, value int) bool) {
		for _, name := range slices.Sorted(maps.Keys(table)) {
			if !yield(name, table[name]) {
				return
			}
		}
	}
}
