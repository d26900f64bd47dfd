package object

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/putater/cpu"
)

var testSource = []string{
	"define LIMIT 3",
	"LDR r1 0",
	"LDR r2 1",
	"LDR r3 3",
	"loop:",
	"ADD r1 r2 r1",
	"BRH r1 r3 ne loop",
	"CAL done",
	"HLT",
	"done:",
	"RET",
}

func testProgram(t *testing.T) *cpu.Program {
	asm := &cpu.Assembler{}
	lines, err := asm.Parse(strings.NewReader(strings.Join(testSource, "\n")))
	if err != nil {
		t.Fatalf("%v", err)
	}
	prog, err := asm.Assemble(lines)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return prog
}

func TestFromProgram(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)
	img := FromProgram(prog)

	assert.Equal(IMAGE_VERSION, img.Version)
	assert.Equal(prog.Binary(), img.Words)
	assert.Equal([]int{2, 3, 4, 6, 7, 7, 8, 9, 11}, img.Lines)
	assert.Equal(map[string]int{"loop": 3, "done": 8}, img.Labels)
	assert.Equal(map[string]int{"LIMIT": 3}, img.Defines)
}

func TestImageProgram(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)
	got := FromProgram(prog).Program()

	assert.Equal(prog.Binary(), got.Binary())
	assert.Equal(prog.Label, got.Label)
	assert.Equal(prog.Define, got.Define)
	assert.Equal(len(prog.Opcodes), len(got.Opcodes))
	for n, op := range prog.Opcodes {
		assert.Equal(op.Ip, got.Opcodes[n].Ip)
		assert.Equal(op.LineNo, got.Opcodes[n].LineNo)
		assert.Equal(op.Code, got.Opcodes[n].Code)
		assert.Equal(op.LinkLabel, got.Opcodes[n].LinkLabel)
	}

	assert.Equal([]string{"BRH", "r1", "r3", "ne", "0x003"}, got.Opcodes[4].Words)
}

func TestImageCodec(t *testing.T) {
	assert := assert.New(t)

	img := FromProgram(testProgram(t))

	data, err := img.Marshal()
	assert.NoError(err)

	again, err := img.Marshal()
	assert.NoError(err)
	assert.Equal(data, again)

	got, err := Unmarshal(data)
	assert.NoError(err)
	assert.Equal(img, got)

	buff := &bytes.Buffer{}
	assert.NoError(img.Write(buff))
	got, err = Read(buff)
	assert.NoError(err)
	assert.Equal(img, got)
}

func TestImageErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Unmarshal([]byte{0xff, 0x00})
	assert.Error(err)

	data, err := (&Image{Version: 99, Words: []uint16{0xf000}}).Marshal()
	assert.NoError(err)
	_, err = Unmarshal(data)
	assert.ErrorIs(err, ErrVersion(99))

	data, err = cbor.Marshal(&Image{Version: IMAGE_VERSION, Words: []uint16{0xf000}, Lines: []int{1, 2}})
	assert.NoError(err)
	_, err = Unmarshal(data)
	assert.ErrorIs(err, ErrLines)
}

func TestRaw(t *testing.T) {
	assert := assert.New(t)

	words := []uint16{0x8105, 0x5401, 0x0010, 0xf000}

	buff := &bytes.Buffer{}
	assert.NoError(WriteRaw(buff, words))
	assert.Equal([]byte{0x81, 0x05, 0x54, 0x01, 0x00, 0x10, 0xf0, 0x00}, buff.Bytes())

	got, err := ReadRaw(buff)
	assert.NoError(err)
	assert.Equal(words, got)

	_, err = ReadRaw(bytes.NewReader([]byte{0x81, 0x05, 0x54}))
	assert.ErrorIs(err, ErrRawLength)

	got, err = ReadRaw(bytes.NewReader(nil))
	assert.NoError(err)
	assert.Empty(got)
}
