// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/putater/check"
	"github.com/ezrec/putater/config"
	"github.com/ezrec/putater/cpu"
	"github.com/ezrec/putater/emulator"
	"github.com/ezrec/putater/object"
)

// assemble compiles a source file.
func assemble(path string, cfg *config.Config, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for name, value := range cfg.Define {
		asm.Predefine(name, value)
	}

	lines, err := asm.Parse(inf)
	if err != nil {
		return
	}

	return asm.Assemble(lines)
}

// load reads a CBOR program image.
func load(path string) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	img, err := object.Read(inf)
	if err != nil {
		return
	}

	prog = img.Program()
	return
}

// list prints the program listing.
func list(w io.Writer, prog *cpu.Program) {
	labels := map[int][]string{}
	for name, ip := range prog.Labels() {
		labels[ip] = append(labels[ip], name)
	}

	for name, value := range prog.Defines() {
		fmt.Fprintf(w, "             define %v %v\n", name, value)
	}

	for _, op := range prog.Opcodes {
		for _, name := range labels[op.Ip] {
			fmt.Fprintf(w, "             %v:\n", name)
		}
		words := ""
		for _, word := range op.Code.Words() {
			words += fmt.Sprintf(" %04x", word)
		}
		fmt.Fprintf(w, "%04d %03x:%-10s %v\n", op.LineNo, op.Ip, words, op.Code)
	}
}

// stepper waits for a key press between instructions.
type stepper struct {
	in  *os.File
	raw bool
	buf *bufio.Reader
}

func newStepper(in *os.File) *stepper {
	return &stepper{
		in:  in,
		raw: term.IsTerminal(int(in.Fd())),
		buf: bufio.NewReader(in),
	}
}

// key returns the next key press. Without a terminal a whole line is read.
func (st *stepper) key() (key byte, err error) {
	if !st.raw {
		var line string
		line, err = st.buf.ReadString('\n')
		if len(line) > 0 {
			key = line[0]
			err = nil
		}
		return
	}

	state, err := term.MakeRaw(int(st.in.Fd()))
	if err != nil {
		return
	}
	defer term.Restore(int(st.in.Fd()), state)

	one := make([]byte, 1)
	_, err = st.in.Read(one)
	key = one[0]
	return
}

// step runs the emulator one key press per instruction. 'q' stops.
func step(emu *emulator.Emulator) (err error) {
	st := newStepper(os.Stdin)

	for {
		fmt.Printf("%04d %03x: %v [space: step, r: registers, q: quit] ", emu.LineNo(), emu.Cpu.Ip, emu.Code())
		var key byte
		key, err = st.key()
		fmt.Println()
		if err != nil {
			return
		}

		switch key {
		case 'q', 3:
			return
		case 'r':
			fmt.Print(emu.Cpu.String())
			continue
		}

		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}

func main() {
	var configFile string
	var compile string
	var image string
	var output string
	var raw string
	var save bool
	var verbose bool
	var stepping bool
	var steps int
	var script string
	var listing bool
	var dump bool

	flag.StringVar(&configFile, "config", "", ".toml machine configuration")
	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&image, "l", "", ".cbor program image to load")
	flag.StringVar(&output, "o", "", ".cbor program image to write")
	flag.StringVar(&raw, "b", "", "raw big-endian program words to write")
	flag.BoolVar(&save, "s", false, "Save program image, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&stepping, "step", false, "Single step, one key press per instruction")
	flag.IntVar(&steps, "steps", 0, "Step budget (overrides configuration)")
	flag.StringVar(&script, "check", "", ".star verification script to run after execution")
	flag.BoolVar(&listing, "list", false, "Print the program listing")
	flag.BoolVar(&dump, "dump", false, "Print the machine state after execution")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := config.Default()
	if len(configFile) != 0 {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
	}
	if steps > 0 {
		cfg.Machine.Steps = steps
	}
	if verbose {
		cfg.Machine.Verbose = true
	}
	err := cfg.Validate()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	var prog *cpu.Program
	switch {
	case len(compile) != 0 && len(image) != 0:
		log.Fatalf("%v: -c and -l are exclusive", os.Args[0])
	case len(compile) != 0:
		prog, err = assemble(compile, cfg, cfg.Machine.Verbose)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(image) != 0:
		prog, err = load(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	default:
		log.Fatalf("%v: one of -c or -l is required", os.Args[0])
	}

	if listing {
		list(os.Stdout, prog)
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		err = object.FromProgram(prog).Write(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if len(raw) != 0 {
		ouf, err := os.Create(raw)
		if err != nil {
			log.Fatalf("%v: %v", raw, err)
		}
		err = object.WriteRaw(ouf, prog.Binary())
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", raw, err)
		}
	}

	if save {
		return
	}

	emu := emulator.NewEmulator(cfg)
	emu.Program = prog
	emu.Reset()

	if stepping {
		err = step(emu)
	} else {
		var exhausted bool
		exhausted, err = emu.Run()
		if exhausted {
			log.Printf("%v: step budget of %d exhausted", os.Args[0], emu.Cpu.StepLimit)
		}
	}

	if dump {
		fmt.Print(emu.Cpu.String())
	}

	if err != nil {
		log.Fatal(err)
	}

	if len(script) != 0 {
		src, err := os.ReadFile(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		err = check.Run(emu, script, src)
		if err != nil {
			log.Fatal(err)
		}
	}
}
