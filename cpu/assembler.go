// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Line is a tokenized source line.
type Line struct {
	LineNo int      // 1-based source line number.
	Words  []string // Whitespace separated tokens.
}

func (line Line) String() string {
	return strings.Join(line.Words, " ")
}

// Assembler is a two pass assembler for the putater instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]int
	Label     map[string]int // Map of jump labels to program counter.
	Define    map[string]int // Map of defines.
}

// Predefine seeds the definition table before assembly.
func (asm *Assembler) Predefine(name string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// opMap is the mnemonic table.
var opMap = map[string]Op{
	"HLT": OP_HLT,
	"ADD": OP_ADD,
	"SUB": OP_SUB,
	"NOR": OP_NOR,
	"AND": OP_AND,
	"XOR": OP_XOR,
	"MOV": OP_MOV,
	"LDR": OP_LDR,
	"ADR": OP_ADR,
	"JMP": OP_JMP,
	"BRH": OP_BRH,
	"CAL": OP_CAL,
	"RET": OP_RET,
	"PGE": OP_PGE,
	"LOD": OP_LOD,
	"STR": OP_STR,
}

// regMap is the register name table.
var regMap = map[string]Reg{
	"r0":  0,
	"r1":  1,
	"r2":  2,
	"r3":  3,
	"r4":  4,
	"r5":  5,
	"r6":  6,
	"r7":  7,
	"r8":  8,
	"r9":  9,
	"r10": 10,
	"r11": 11,
	"r12": 12,
	"r13": 13,
	"r14": 14,
	"r15": 15,
}

// condMap accepts the condition names and their two bit spellings.
var condMap = map[string]CodeCond{
	"eq": COND_EQ,
	"ne": COND_NE,
	"lt": COND_LT,
	"gt": COND_GT,
	"00": COND_EQ,
	"01": COND_NE,
	"10": COND_LT,
	"11": COND_GT,
}

type operandKind int

const (
	operandReg   operandKind = iota // 4-bit register name
	operandValue                    // 8-bit unsigned literal
	operandPage                     // 4-bit page literal or register name
	operandCond                     // 2-bit condition
	operandLabel                    // 10-bit label address
)

// operandMap is the operand form of each opcode.
var operandMap = map[Op][]operandKind{
	OP_HLT: nil,
	OP_ADD: {operandReg, operandReg, operandReg},
	OP_SUB: {operandReg, operandReg, operandReg},
	OP_NOR: {operandReg, operandReg, operandReg},
	OP_AND: {operandReg, operandReg, operandReg},
	OP_XOR: {operandReg, operandReg, operandReg},
	OP_MOV: {operandReg, operandReg},
	OP_LDR: {operandReg, operandValue},
	OP_ADR: {operandReg, operandValue},
	OP_JMP: {operandLabel},
	OP_BRH: {operandReg, operandReg, operandCond, operandLabel},
	OP_CAL: {operandLabel},
	OP_RET: nil,
	OP_PGE: {operandPage},
	OP_LOD: {operandReg, operandValue},
	OP_STR: {operandReg, operandValue},
}

// valueOf parses a base-10 literal in [0,limit). A leading '+' is rejected.
func (asm *Assembler) valueOf(word string, limit int) (value uint16, err error) {
	if strings.HasPrefix(word, "+") {
		err = ErrParseNumber(word)
		return
	}

	v64, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			err = ErrOperandRange{Word: word, Limit: limit}
		} else {
			err = ErrParseNumber(word)
		}
		return
	}

	if v64 < 0 || v64 >= int64(limit) {
		err = ErrOperandRange{Word: word, Limit: limit}
		return
	}

	value = uint16(v64)
	return
}

// condOf parses a branch condition.
func (asm *Assembler) condOf(word string) (cond CodeCond, err error) {
	cond, ok := condMap[word]
	if ok {
		return
	}

	v64, perr := strconv.ParseInt(word, 10, 64)
	if perr != nil || strings.HasPrefix(word, "+") || v64 < 0 || v64 > int64(COND_GT) {
		err = ErrConditionInvalid(word)
		return
	}

	cond = CodeCond(v64)
	return
}

// labelOf returns the label declared by a line, if any.
func labelOf(words []string) (label string, ok bool) {
	if len(words) != 1 || !strings.HasSuffix(words[0], ":") {
		return
	}

	return strings.TrimSuffix(words[0], ":"), true
}

// isDefine returns true for a define statement.
func isDefine(words []string) bool {
	return len(words) > 0 && words[0] == "define"
}

// Parse tokenizes an input stream. Blank lines and comments are dropped;
// a comment runs from ';' to the end of the line.
func (asm *Assembler) Parse(input io.Reader) (lines []Line, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment := strings.SplitN(text, ";", 2)
		words := strings.Fields(text_comment[0])
		if len(words) == 0 {
			continue
		}

		lines = append(lines, Line{LineNo: lineno, Words: words})
	}

	err = scanner.Err()
	return
}

// define records a 'define NAME VALUE' statement.
func (asm *Assembler) define(words []string) (err error) {
	if len(words) != 3 {
		err = ErrDefineSyntax
		return
	}

	value, err := strconv.Atoi(words[2])
	if err != nil {
		err = errors.Join(ErrDefineSyntax, ErrParseNumber(words[2]))
		return
	}

	_, ok := asm.Define[words[1]]
	if ok {
		err = ErrDefineDuplicate
		return
	}

	asm.Define[words[1]] = value
	return
}

// resolve validates the operands of an instruction line and returns the
// ordered field values.
func (asm *Assembler) resolve(words []string) (op Op, args []uint16, err error) {
	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeUnknown(words[0])
		return
	}

	mnemonic := words[0]
	kinds := operandMap[op]
	operands := words[1:]
	if len(operands) != len(kinds) {
		err = ErrOperandCount{Mnemonic: mnemonic, Want: len(kinds), Got: len(operands)}
		return
	}

	args = make([]uint16, len(kinds))
	for n, kind := range kinds {
		word := operands[n]
		switch kind {
		case operandReg:
			reg, ok := regMap[word]
			if !ok {
				err = ErrRegisterInvalid{Mnemonic: mnemonic, Position: n + 1, Word: word}
				return
			}
			args[n] = uint16(reg)
		case operandValue:
			args[n], err = asm.valueOf(word, 1<<8)
		case operandPage:
			reg, ok := regMap[word]
			if ok {
				args[n] = uint16(reg)
			} else {
				args[n], err = asm.valueOf(word, 1<<4)
			}
		case operandCond:
			var cond CodeCond
			cond, err = asm.condOf(word)
			args[n] = uint16(cond)
		case operandLabel:
			ip, ok := asm.Label[word]
			if !ok {
				err = ErrLabelMissing(word)
				return
			}
			if ip > ADDR_MASK {
				err = ErrOperandRange{Word: word, Limit: ADDR_MASK + 1}
				return
			}
			args[n] = uint16(ip)
		}
		if err != nil {
			return
		}
	}

	return
}

// pack places the validated fields of an instruction into its words.
func pack(op Op, args []uint16) Code {
	if op.Alu() {
		return MakeCodeAlu(op, Reg(args[0]), Reg(args[1]), Reg(args[2]))
	}

	switch op {
	case OP_MOV:
		return MakeCodeMove(Reg(args[0]), Reg(args[1]))
	case OP_LDR, OP_ADR, OP_LOD, OP_STR:
		return MakeCodeValue(op, Reg(args[0]), uint8(args[1]))
	case OP_JMP, OP_CAL:
		return MakeCodeAddr(op, args[0])
	case OP_BRH:
		return MakeCodeBranch(Reg(args[0]), Reg(args[1]), CodeCond(args[2]), args[3])
	case OP_PGE:
		return MakeCodePage(uint8(args[0]))
	}

	return MakeCode(op, 0)
}

// Assemble translates tokenized lines into a Program. The first failure
// aborts assembly and no program is returned.
func (asm *Assembler) Assemble(lines []Line) (prog *Program, err error) {
	var line Line

	defer func() {
		if err != nil {
			prog = nil
			err = ErrSyntax{LineNo: line.LineNo, Line: line.String(), Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]int, 16)
	asm.Define = maps.Clone(asm.predefine)
	if asm.Define == nil {
		asm.Define = make(map[string]int)
	}

	// Pass one: definitions.
	for _, line = range lines {
		if isDefine(line.Words) {
			err = asm.define(line.Words)
			if err != nil {
				return
			}
		}
	}

	// Pass two: label addresses.
	ip := 0
	for _, line = range lines {
		if len(line.Words) == 0 || isDefine(line.Words) {
			continue
		}
		label, ok := labelOf(line.Words)
		if !ok {
			width := 1
			op, known := opMap[line.Words[0]]
			if known {
				width = op.Width()
			}
			ip += width
			continue
		}
		if len(label) == 0 {
			err = ErrLabelInvalid
			return
		}
		_, ok = asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = ip
	}

	// Pass three: operand validation.
	type resolved struct {
		line Line
		ip   int
		op   Op
		args []uint16
	}
	var pending []resolved

	ip = 0
	for _, line = range lines {
		if len(line.Words) == 0 || isDefine(line.Words) {
			continue
		}
		if _, ok := labelOf(line.Words); ok {
			continue
		}
		if asm.Verbose {
			log.Printf("%v: %03x %v\n", line.LineNo, ip, line)
		}
		var op Op
		var args []uint16
		op, args, err = asm.resolve(line.Words)
		if err != nil {
			return
		}
		pending = append(pending, resolved{line: line, ip: ip, op: op, args: args})
		ip += op.Width()
	}

	// Pass four: packing.
	for _, res := range pending {
		opcode := Opcode{
			LineNo: res.line.LineNo,
			Ip:     res.ip,
			Words:  res.line.Words,
			Code:   pack(res.op, res.args),
		}
		if kinds := operandMap[res.op]; len(kinds) > 0 && kinds[len(kinds)-1] == operandLabel {
			opcode.LinkLabel = res.line.Words[len(res.line.Words)-1]
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
		Define:  maps.Clone(asm.Define),
	}

	return
}
