// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package check verifies a finished machine with Starlark scripts.
//
// A script sees these predeclared names:
//
//	reg(n)              register n
//	mem(addr)           byte at a flat memory address
//	expect(cond, msg)   records a failure when cond is false
//	page, ip, halted, ticks
//	labels, defines     program tables
//
// and every machine constant (PAGE_SIZE, REG_COUNT, ...).
package check

import (
	"fmt"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/putater/emulator"
)

// Checker evaluates scripts against an emulator.
type Checker struct {
	Emulator *emulator.Emulator

	failures []string
}

// Run evaluates a script against the emulator state.
func Run(emu *emulator.Emulator, name string, src any) error {
	chk := &Checker{Emulator: emu}
	return chk.Run(name, src)
}

// Predeclared returns the script environment.
func (chk *Checker) Predeclared() (env starlark.StringDict) {
	emu := chk.Emulator
	env = starlark.StringDict{}

	for key, str := range emu.Defines() {
		v64, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			env[key] = starlark.String(str)
		} else {
			env[key] = starlark.MakeInt64(v64)
		}
	}

	env["reg"] = starlark.NewBuiltin("reg", chk.reg)
	env["mem"] = starlark.NewBuiltin("mem", chk.mem)
	env["expect"] = starlark.NewBuiltin("expect", chk.expect)

	env["page"] = starlark.MakeInt(emu.Cpu.Memory.Page)
	env["ip"] = starlark.MakeInt(emu.Cpu.Ip)
	env["halted"] = starlark.Bool(emu.Cpu.Halted)
	env["ticks"] = starlark.MakeInt(emu.Cpu.Ticks)

	labels := starlark.NewDict(len(emu.Program.Label))
	for name, ip := range emu.Program.Labels() {
		_ = labels.SetKey(starlark.String(name), starlark.MakeInt(ip))
	}
	labels.Freeze()
	env["labels"] = labels

	defines := starlark.NewDict(len(emu.Program.Define))
	for name, value := range emu.Program.Defines() {
		_ = defines.SetKey(starlark.String(name), starlark.MakeInt(value))
	}
	defines.Freeze()
	env["defines"] = defines

	return
}

// Run evaluates a script. Every expectation is evaluated; failures are
// reported together.
func (chk *Checker) Run(name string, src any) (err error) {
	chk.failures = nil

	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			chk.Emulator.Transcript.Log(msg)
		},
	}
	opts := syntax.FileOptions{}

	_, err = starlark.ExecFileOptions(&opts, thread, name, src, chk.Predeclared())
	if err != nil {
		return
	}

	if len(chk.failures) > 0 {
		err = &ErrExpect{Script: name, Failures: chk.failures}
	}

	return
}

func (chk *Checker) reg(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var n int
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &n)
	if err != nil {
		return
	}

	registers := chk.Emulator.Cpu.Register
	if n < 0 || n >= len(registers) {
		err = &ErrRange{Builtin: b.Name(), Index: n}
		return
	}

	value = starlark.MakeUint64(uint64(registers[n]))
	return
}

func (chk *Checker) mem(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var addr int
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr)
	if err != nil {
		return
	}

	data := chk.Emulator.Cpu.Memory.Data
	if addr < 0 || addr >= len(data) {
		err = &ErrRange{Builtin: b.Name(), Index: addr}
		return
	}

	value = starlark.MakeInt(int(data[addr]))
	return
}

func (chk *Checker) expect(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var cond starlark.Value
	var msg string
	err = starlark.UnpackArgs(b.Name(), args, kwargs, "cond", &cond, "msg?", &msg)
	if err != nil {
		return
	}

	if !cond.Truth() {
		if len(msg) == 0 {
			msg = "expectation failed"
		}
		if pos := thread.CallFrame(1).Pos; pos.IsValid() {
			msg = fmt.Sprintf("%v: %v", pos, msg)
		}
		chk.failures = append(chk.failures, msg)
	}

	value = starlark.None
	return
}
