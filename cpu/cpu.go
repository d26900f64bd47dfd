package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/putater/memory"
)

const (
	STEP_LIMIT = 1000 // Default number of ticks per Run.
)

var _cpu_defines = map[string]string{
	"REG_COUNT":   fmt.Sprintf("%v", REG_COUNT),
	"STACK_LIMIT": fmt.Sprintf("%v", STACK_LIMIT),
	"ADDR_MASK":   fmt.Sprintf("0x%x", ADDR_MASK),
}

// Logger receives one trace line per executed instruction.
type Logger interface {
	Log(args ...any)
}

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool   // Set to trace every executed instruction.
	Logger  Logger // Trace sink. If nil, the standard logger is used.

	Memory  *memory.Memory // Reference to the paged memory.
	Program []uint16       // Loaded program words.

	Ip       int           // Program counter, an index into Program.
	Register []uint32      // Register bank.
	Stack    Stack[uint32] // Return address stack.
	Halted   bool          // Set by HLT or a runtime fault.

	Ticks     int // Executed instruction counter.
	StepLimit int // Maximum ticks per Run.
}

// NewCpu creates a new CPU with a register bank and a reference to memory.
func NewCpu(registers int, mem *memory.Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:    mem,
		Register:  make([]uint32, registers),
		StepLimit: STEP_LIMIT,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 6s: %03x\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 6s: %v\n", "halted", cpu.Halted)
	if cpu.Memory != nil {
		text += fmt.Sprintf("% 6s: %d\n", "page", cpu.Memory.Page)
	}
	top, ok := cpu.Stack.Peek()
	if ok {
		text += fmt.Sprintf("% 6s: %03x\n", "stack", top)
	} else {
		text += fmt.Sprintf("% 6s: ---\n", "stack")
	}
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 6s: %04X_%04X\n", Reg(n).String(), val>>16, val&0xffff)
	}

	return
}

// Reset clears the registers, stack, memory and counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register)
	cpu.Stack.Reset()
	if cpu.Memory != nil {
		cpu.Memory.Reset()
	}
	cpu.Ip = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// LoadProgram installs program words and rewinds the counter. Registers,
// stack and memory are retained.
func (cpu *Cpu) LoadProgram(words []uint16) {
	cpu.Program = slices.Clone(words)
	cpu.Ip = 0
	cpu.Halted = false
}

// trace emits an instruction trace line.
func (cpu *Cpu) trace(args ...any) {
	if !cpu.Verbose {
		return
	}

	if cpu.Logger != nil {
		cpu.Logger.Log(args...)
	} else {
		log.Println(args...)
	}
}

// FetchCode fetches the instruction at the program counter, with its operand words.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Ip < 0 || cpu.Ip >= len(cpu.Program) {
		err = ErrIpEmpty
		return
	}

	code = Code{Word: cpu.Program[cpu.Ip]}
	need := code.ImmediateNeed()
	if cpu.Ip+need >= len(cpu.Program) {
		err = ErrIpEmpty
		return
	}
	if need > 0 {
		code.Immediates = slices.Clone(cpu.Program[cpu.Ip+1 : cpu.Ip+1+need])
	}

	return
}

// fault halts the processor.
func (cpu *Cpu) fault() {
	cpu.Halted = true
	cpu.Ip = 0
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	code, err := cpu.FetchCode()
	if err != nil {
		err = errors.Join(ErrOpcode{Ip: cpu.Ip, Code: code}, err)
		cpu.fault()
		return
	}

	err = cpu.Execute(code)
	return
}

// Run ticks until the processor halts or StepLimit ticks have executed.
// Running out of steps is not an error; Halted remains false.
func (cpu *Cpu) Run() (err error) {
	for step := 0; step < cpu.StepLimit && !cpu.Halted; step++ {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// checkRegisters verifies that every register field names a register in the bank.
func (cpu *Cpu) checkRegisters(inst Instruction) (err error) {
	for _, reg := range inst.registers() {
		if int(reg) >= len(cpu.Register) {
			err = ErrRegisterRange
			return
		}
	}

	return
}

// Execute executes a single instruction. A fault halts the processor and
// rewinds the counter before any register is modified.
func (cpu *Cpu) Execute(code Code) (err error) {
	return cpu.execute(code, code.Decode())
}

// execute dispatches a decoded instruction.
func (cpu *Cpu) execute(code Code, inst Instruction) (err error) {
	ip := cpu.Ip
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Ip: ip, Code: code}, err)
			cpu.fault()
		}
	}()

	cpu.trace(fmt.Sprintf("%03x:", ip), fmt.Sprintf("%04x", code.Word), inst)

	err = cpu.checkRegisters(inst)
	if err != nil {
		return
	}

	switch inst.(type) {
	case Page, Load, Store:
		if cpu.Memory == nil {
			err = ErrMemoryMissing
			return
		}
	}

	next_ip := ip + 1
	reg := cpu.Register

	switch inst := inst.(type) {
	case Halt:
		cpu.Halted = true
		next_ip = 0
	case Alu:
		reg[inst.C] = doAlu(inst.Code, reg[inst.A], reg[inst.B])
	case Move:
		reg[inst.C] = reg[inst.A]
	case LoadImmediate:
		reg[inst.A] = uint32(inst.Value)
	case AddImmediate:
		reg[inst.A] += uint32(inst.Value)
	case Jump:
		next_ip = int(inst.Addr)
	case Branch:
		next_ip = ip + OP_BRH.Width()
		if inst.Cond.Holds(reg[inst.A], reg[inst.B]) {
			next_ip = int(inst.Addr)
		}
	case Call:
		if cpu.Stack.Full() {
			err = ErrStackFull
			return
		}
		cpu.Stack.Push(uint32(next_ip))
		next_ip = int(inst.Addr)
	case Return:
		var addr uint32
		var ok bool
		addr, ok = cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		next_ip = int(addr)
	case Page:
		cpu.Memory.SetPage(int(inst.Page))
	case Load:
		var value byte
		value, err = cpu.Memory.Read(uint32(inst.Addr))
		if err != nil {
			return
		}
		reg[inst.A] = uint32(value)
	case Store:
		err = cpu.Memory.Write(reg[inst.A], inst.Value)
		if err != nil {
			return
		}
	case Invalid:
		err = ErrOpcodeInvalid(inst.Word)
		return
	default:
		err = ErrOpcodeInvalid(code.Word)
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}

// doAlu performs the requested ALU action, and returns the output value.
func doAlu(op Op, a uint32, b uint32) (output uint32) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_SUB:
		output = a - b
	case OP_NOR:
		output = ^(a | b)
	case OP_AND:
		output = a & b
	case OP_XOR:
		output = a ^ b
	}

	return
}
