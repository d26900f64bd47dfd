// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator hosts a processor, its memory and a program listing.
package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/putater/config"
	"github.com/ezrec/putater/cpu"
	"github.com/ezrec/putater/internal"
	"github.com/ezrec/putater/memory"
	"github.com/ezrec/putater/transcript"
)

// Emulator state. CPU + memory + program listing + trace transcript.
type Emulator struct {
	Verbose  bool         // If set, traces every instruction.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Transcript *transcript.Transcript // Instruction trace.
}

// NewEmulator creates a new emulator. A nil configuration uses the defaults.
func NewEmulator(cfg *config.Config) (emu *Emulator) {
	if cfg == nil {
		cfg = config.Default()
	}
	machine := cfg.Machine

	emu = &Emulator{
		Verbose:    machine.Verbose,
		Cpu:        cpu.NewCpu(machine.Registers, memory.NewMemory(machine.Memory)),
		Program:    &cpu.Program{},
		Transcript: transcript.NewTranscript(log.Default()),
	}

	emu.Cpu.StepLimit = machine.Steps
	emu.Cpu.Logger = emu.Transcript

	return
}

// Defines returns an iterator over all of the machine constants.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		maps.All(map[string]string{
			"REGISTERS":  fmt.Sprintf("%v", len(emu.Cpu.Register)),
			"STEP_LIMIT": fmt.Sprintf("%v", emu.Cpu.StepLimit),
		}),
		emu.Cpu.Defines(),
		emu.Cpu.Memory.Defines(),
	)
}

// Reset clears the machine state and loads the program listing.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = false
	emu.Cpu.Reset()
	emu.Transcript.Clear()
	emu.Cpu.LoadProgram(emu.Program.Binary())
	emu.Cpu.Verbose = emu.Verbose
}

// Load replaces the program listing and rewinds the counter. Registers and
// memory keep their contents.
func (emu *Emulator) Load(prog *cpu.Program) {
	emu.Program = prog
	emu.Cpu.LoadProgram(prog.Binary())
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return cpu.Code{}
	}

	return dbg.Opcode.Code
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	done = emu.Cpu.Halted

	return
}

// Run ticks until the program halts, faults or uses up its step budget.
// exhausted is set when the budget ran out first.
func (emu *Emulator) Run() (exhausted bool, err error) {
	for range emu.Cpu.StepLimit {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	exhausted = !emu.Cpu.Halted
	return
}
