package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/putater/config"
	"github.com/ezrec/putater/cpu"
	"github.com/ezrec/putater/internal"
)

func assemble(t *testing.T, program []string) *cpu.Program {
	asm := &cpu.Assembler{}
	lines, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatalf("%v", err)
	}
	prog, err := asm.Assemble(lines)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return prog
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu.Memory)
	assert.Equal(config.DEFAULT_REGISTERS, len(emu.Cpu.Register))
	assert.Equal(config.DEFAULT_MEMORY, emu.Cpu.Memory.Size())
	assert.Equal(config.DEFAULT_STEPS, emu.Cpu.StepLimit)
}

func TestEmulatorConfig(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Machine.Registers = 4
	cfg.Machine.Memory = 512
	cfg.Machine.Steps = 7
	cfg.Machine.Verbose = true

	emu := NewEmulator(cfg)
	assert.True(emu.Verbose)
	assert.Equal(4, len(emu.Cpu.Register))
	assert.Equal(2, emu.Cpu.Memory.Pages())
	assert.Equal(7, emu.Cpu.StepLimit)

	defines := internal.IterSeq2Collect(emu.Defines())
	assert.Equal("4", defines["REGISTERS"])
	assert.Equal("7", defines["STEP_LIMIT"])
	assert.Equal("256", defines["PAGE_SIZE"])
	assert.Equal("16", defines["REG_COUNT"])
}

func TestEmulatorTick(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDR r1 3",
		"LDR r2 4",
		"ADD r1 r2 r3",
		"HLT",
	}

	emu := NewEmulator(nil)
	emu.Program = assemble(t, program)
	emu.Reset()

	for n, op := range emu.Program.Opcodes {
		assert.Equal(op.LineNo, emu.LineNo())
		assert.Equal(op.Code, emu.Code())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(n == len(emu.Program.Opcodes)-1, done)
	}

	assert.Equal(uint32(7), emu.Cpu.Register[3])
	assert.True(emu.Cpu.Halted)
	assert.Equal(0, emu.Cpu.Ip)

	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDR r1 10",
		"LDR r2 1",
		"loop:",
		"SUB r1 r2 r1",
		"BRH r1 r0 ne loop",
		"HLT",
	}

	emu := NewEmulator(nil)
	emu.Program = assemble(t, program)
	emu.Reset()

	exhausted, err := emu.Run()
	assert.NoError(err)
	assert.False(exhausted)
	assert.True(emu.Cpu.Halted)
	assert.Equal(uint32(0), emu.Cpu.Register[1])
	assert.Equal(23, emu.Cpu.Ticks)
}

func TestEmulatorRunExhausted(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Machine.Steps = 5

	emu := NewEmulator(cfg)
	emu.Program = assemble(t, []string{
		"spin:",
		"ADR r1 1",
		"JMP spin",
	})
	emu.Reset()

	exhausted, err := emu.Run()
	assert.NoError(err)
	assert.True(exhausted)
	assert.False(emu.Cpu.Halted)
	assert.Equal(5, emu.Cpu.Ticks)
	assert.Equal(uint32(3), emu.Cpu.Register[1])
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	emu.Program = assemble(t, []string{
		"LDR r1 1", // 1
		"RET",      // 2
	})
	emu.Reset()

	_, err := emu.Run()
	assert.ErrorIs(err, cpu.ErrStackEmpty)

	var runtime *ErrRuntime
	assert.ErrorAs(err, &runtime)
	assert.Equal(2, runtime.LineNo)
	assert.True(emu.Cpu.Halted)
	assert.Equal(0, emu.Cpu.Ip)
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	emu.Program = assemble(t, []string{
		"ADR r1 2",
		"HLT",
	})
	emu.Reset()

	_, err := emu.Run()
	assert.NoError(err)
	assert.Equal(uint32(2), emu.Cpu.Register[1])

	emu.Load(emu.Program)
	assert.False(emu.Cpu.Halted)
	_, err = emu.Run()
	assert.NoError(err)
	assert.Equal(uint32(4), emu.Cpu.Register[1])

	emu.Reset()
	assert.Equal(uint32(0), emu.Cpu.Register[1])
}

func TestEmulatorTrace(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Machine.Verbose = true

	emu := NewEmulator(cfg)
	emu.Transcript.Sink = nil
	emu.Program = assemble(t, []string{
		"LDR r1 5",
		"HLT",
	})
	emu.Reset()

	_, err := emu.Run()
	assert.NoError(err)
	assert.Equal(2, emu.Transcript.Lines())
	assert.Contains(emu.Transcript.String(), "LDR r1 5")
	assert.Contains(emu.Transcript.String(), "HLT")
}
