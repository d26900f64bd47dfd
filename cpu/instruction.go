package cpu

import (
	"fmt"
)

// Instruction is a decoded instruction. The set of implementations is closed;
// Execute dispatches over all of them.
type Instruction interface {
	Op() Op
	String() string
	registers() []Reg
}

// Halt stops the processor.
type Halt struct{}

// Alu is one of ADD, SUB, NOR, AND, XOR: C = A op B.
type Alu struct {
	Code Op
	A, B Reg
	C    Reg
}

// Move copies A into C.
type Move struct {
	A, C Reg
}

// LoadImmediate sets A to Value.
type LoadImmediate struct {
	A     Reg
	Value uint8
}

// AddImmediate adds Value to A.
type AddImmediate struct {
	A     Reg
	Value uint8
}

// Jump sets the counter to Addr.
type Jump struct {
	Addr uint16
}

// Branch jumps to Addr when Cond holds between A and B.
type Branch struct {
	A, B Reg
	Cond CodeCond
	Addr uint16
}

// Call pushes the return address and jumps to Addr.
type Call struct {
	Addr uint16
}

// Return pops the return address into the counter.
type Return struct{}

// Page selects the active memory page.
type Page struct {
	Page uint8
}

// Load reads the byte at Addr of the active page into A.
type Load struct {
	A    Reg
	Addr uint8
}

// Store writes Value to the address held in A, on the active page.
type Store struct {
	A     Reg
	Value uint8
}

// Invalid is a word whose opcode matches no table entry.
type Invalid struct {
	Word uint16
}

func (Halt) Op() Op { return OP_HLT }
func (inst Alu) Op() Op { return inst.Code }
func (Move) Op() Op { return OP_MOV }
func (LoadImmediate) Op() Op { return OP_LDR }
func (AddImmediate) Op() Op { return OP_ADR }
func (Jump) Op() Op { return OP_JMP }
func (Branch) Op() Op { return OP_BRH }
func (Call) Op() Op { return OP_CAL }
func (Return) Op() Op { return OP_RET }
func (Page) Op() Op { return OP_PGE }
func (Load) Op() Op { return OP_LOD }
func (Store) Op() Op { return OP_STR }
func (inst Invalid) Op() Op { return Op((inst.Word >> 12) & 0xf) }

func (Halt) registers() []Reg { return nil }
func (inst Alu) registers() []Reg { return []Reg{inst.A, inst.B, inst.C} }
func (inst Move) registers() []Reg { return []Reg{inst.A, inst.C} }
func (inst LoadImmediate) registers() []Reg { return []Reg{inst.A} }
func (inst AddImmediate) registers() []Reg { return []Reg{inst.A} }
func (Jump) registers() []Reg { return nil }
func (inst Branch) registers() []Reg { return []Reg{inst.A, inst.B} }
func (Call) registers() []Reg { return nil }
func (Return) registers() []Reg { return nil }
func (Page) registers() []Reg { return nil }
func (inst Load) registers() []Reg { return []Reg{inst.A} }
func (inst Store) registers() []Reg { return []Reg{inst.A} }
func (Invalid) registers() []Reg { return nil }

func (Halt) String() string { return "HLT" }
func (inst Alu) String() string {
	return fmt.Sprintf("%v %v %v %v", inst.Code, inst.A, inst.B, inst.C)
}
func (inst Move) String() string { return fmt.Sprintf("MOV %v %v", inst.A, inst.C) }
func (inst LoadImmediate) String() string {
	return fmt.Sprintf("LDR %v %d", inst.A, inst.Value)
}
func (inst AddImmediate) String() string {
	return fmt.Sprintf("ADR %v %d", inst.A, inst.Value)
}
func (inst Jump) String() string { return fmt.Sprintf("JMP 0x%03x", inst.Addr) }
func (inst Branch) String() string {
	return fmt.Sprintf("BRH %v %v %v 0x%03x", inst.A, inst.B, inst.Cond, inst.Addr)
}
func (inst Call) String() string { return fmt.Sprintf("CAL 0x%03x", inst.Addr) }
func (Return) String() string { return "RET" }
func (inst Page) String() string { return fmt.Sprintf("PGE %d", inst.Page) }
func (inst Load) String() string { return fmt.Sprintf("LOD %v %d", inst.A, inst.Addr) }
func (inst Store) String() string { return fmt.Sprintf("STR %v %d", inst.A, inst.Value) }
func (inst Invalid) String() string {
	return fmt.Sprintf(".word 0x%04x", inst.Word)
}

// Decode derives the structured instruction from a code. It has no side effects.
// A branch without its operand word compares r0 with r0.
func (code Code) Decode() Instruction {
	switch op := code.Op(); op {
	case OP_HLT:
		return Halt{}
	case OP_ADD, OP_SUB, OP_NOR, OP_AND, OP_XOR:
		return Alu{Code: op, A: code.A(), B: code.B(), C: code.C()}
	case OP_MOV:
		return Move{A: code.A(), C: code.C()}
	case OP_LDR:
		return LoadImmediate{A: code.A(), Value: code.Value()}
	case OP_ADR:
		return AddImmediate{A: code.A(), Value: code.Value()}
	case OP_JMP:
		return Jump{Addr: code.Addr()}
	case OP_BRH:
		inst := Branch{Cond: code.Cond(), Addr: code.Addr()}
		if len(code.Immediates) > 0 {
			operand := Code{Word: code.Immediates[0]}
			inst.A = operand.A()
			inst.B = operand.B()
		}
		return inst
	case OP_CAL:
		return Call{Addr: code.Addr()}
	case OP_RET:
		return Return{}
	case OP_PGE:
		return Page{Page: code.Page()}
	case OP_LOD:
		return Load{A: code.A(), Addr: code.Value()}
	case OP_STR:
		return Store{A: code.A(), Value: code.Value()}
	}

	return Invalid{Word: code.Word}
}
