package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.starlark.net/starlark"

	"github.com/ezrec/putater/cpu"
	"github.com/ezrec/putater/emulator"
)

func runProgram(t *testing.T, program []string) *emulator.Emulator {
	asm := &cpu.Assembler{}
	lines, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatalf("%v", err)
	}
	prog, err := asm.Assemble(lines)
	if err != nil {
		t.Fatalf("%v", err)
	}

	emu := emulator.NewEmulator(nil)
	emu.Transcript.Sink = nil
	emu.Program = prog
	emu.Reset()
	_, err = emu.Run()
	if err != nil {
		t.Fatalf("%v", err)
	}

	return emu
}

var testProgram = []string{
	"define ANSWER 42",
	"LDR r1 42",
	"LDR r2 16",
	"PGE 1",
	"STR r2 7",
	"done:",
	"HLT",
}

func TestCheckPass(t *testing.T) {
	assert := assert.New(t)

	emu := runProgram(t, testProgram)

	script := strings.Join([]string{
		`expect(reg(1) == defines["ANSWER"], "answer")`,
		`expect(mem(PAGE_SIZE + 16) == 7)`,
		`expect(page == 1)`,
		`expect(halted)`,
		`expect(ip == 0)`,
		`expect(ticks == 5)`,
		`expect(labels["done"] == 4)`,
		`expect(REG_COUNT == 16)`,
		`print("checked")`,
	}, "\n")

	err := Run(emu, "pass.star", script)
	assert.NoError(err)
	assert.Contains(emu.Transcript.String(), "checked")
}

func TestCheckFail(t *testing.T) {
	assert := assert.New(t)

	emu := runProgram(t, testProgram)

	script := strings.Join([]string{
		`expect(reg(1) == 1, "wrong register")`,
		`expect(reg(2) == 16)`,
		`expect(mem(0) == 1)`,
	}, "\n")

	err := Run(emu, "fail.star", script)
	var expect *ErrExpect
	assert.ErrorAs(err, &expect)
	assert.Equal(2, len(expect.Failures))
	assert.Contains(expect.Failures[0], "fail.star:1:")
	assert.Contains(expect.Failures[0], "wrong register")
	assert.Contains(expect.Failures[1], "fail.star:3:")
}

func TestCheckRange(t *testing.T) {
	assert := assert.New(t)

	emu := runProgram(t, testProgram)

	err := Run(emu, "reg.star", `reg(16)`)
	var evalErr *starlark.EvalError
	assert.ErrorAs(err, &evalErr)
	var rangeErr *ErrRange
	assert.ErrorAs(err, &rangeErr)
	assert.Equal(16, rangeErr.Index)

	err = Run(emu, "mem.star", `mem(-1)`)
	assert.ErrorAs(err, &rangeErr)
	assert.Equal("mem", rangeErr.Builtin)
}

func TestCheckSyntax(t *testing.T) {
	assert := assert.New(t)

	emu := runProgram(t, testProgram)

	err := Run(emu, "bad.star", `expect(`)
	assert.Error(err)

	err = Run(emu, "frozen.star", `labels["x"] = 1`)
	assert.Error(err)
}
