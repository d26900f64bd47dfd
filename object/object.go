// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package object reads and writes assembled program images.
package object

import (
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/putater/cpu"
)

const (
	IMAGE_VERSION = 1 // Current image format revision.
)

// Image is the on-disk form of an assembled program.
type Image struct {
	Version int            `cbor:"1,keyasint"`
	Words   []uint16       `cbor:"2,keyasint"`           // Program words, entry point first.
	Lines   []int          `cbor:"3,keyasint,omitempty"` // Source line of each word.
	Labels  map[string]int `cbor:"4,keyasint,omitempty"`
	Defines map[string]int `cbor:"5,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("object: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// FromProgram captures an assembled program listing.
func FromProgram(prog *cpu.Program) (img *Image) {
	img = &Image{
		Version: IMAGE_VERSION,
		Labels:  maps.Clone(prog.Label),
		Defines: maps.Clone(prog.Define),
	}

	for _, op := range prog.Opcodes {
		for _, word := range op.Code.Words() {
			img.Words = append(img.Words, word)
			img.Lines = append(img.Lines, op.LineNo)
		}
	}

	return
}

// Program rebuilds a listing from the image. Source words are replaced by
// the disassembly of each instruction.
func (img *Image) Program() (prog *cpu.Program) {
	prog = &cpu.Program{
		Label:  maps.Clone(img.Labels),
		Define: maps.Clone(img.Defines),
	}
	if prog.Label == nil {
		prog.Label = map[string]int{}
	}
	if prog.Define == nil {
		prog.Define = map[string]int{}
	}

	// Reverse label table, first name in order wins.
	target := map[int]string{}
	for name, ip := range prog.Labels() {
		if _, ok := target[ip]; !ok {
			target[ip] = name
		}
	}

	for ip := 0; ip < len(img.Words); {
		code := cpu.Code{Word: img.Words[ip]}
		end := min(ip+1+code.ImmediateNeed(), len(img.Words))
		if end > ip+1 {
			code.Immediates = slices.Clone(img.Words[ip+1 : end])
		}

		opcode := cpu.Opcode{
			Ip:    ip,
			Words: strings.Fields(code.String()),
			Code:  code,
		}
		if ip < len(img.Lines) {
			opcode.LineNo = img.Lines[ip]
		}
		switch inst := code.Decode().(type) {
		case cpu.Jump:
			opcode.LinkLabel = target[int(inst.Addr)]
		case cpu.Call:
			opcode.LinkLabel = target[int(inst.Addr)]
		case cpu.Branch:
			opcode.LinkLabel = target[int(inst.Addr)]
		}

		prog.Opcodes = append(prog.Opcodes, opcode)
		ip = end
	}

	return
}

// Marshal encodes the image as canonical CBOR.
func (img *Image) Marshal() ([]byte, error) {
	return encMode.Marshal(img)
}

// Unmarshal decodes a CBOR image.
func Unmarshal(data []byte) (img *Image, err error) {
	img = &Image{}
	err = cbor.Unmarshal(data, img)
	if err != nil {
		img = nil
		err = fmt.Errorf("object: unmarshal image: %w", err)
		return
	}

	if img.Version != IMAGE_VERSION {
		err = ErrVersion(img.Version)
		img = nil
		return
	}

	if len(img.Lines) != 0 && len(img.Lines) != len(img.Words) {
		err = ErrLines
		img = nil
		return
	}

	return
}

// Write encodes the image to a stream.
func (img *Image) Write(w io.Writer) (err error) {
	data, err := img.Marshal()
	if err != nil {
		return
	}

	_, err = w.Write(data)
	return
}

// Read decodes an image from a stream.
func Read(r io.Reader) (img *Image, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	return Unmarshal(data)
}

// WriteRaw writes program words as big-endian 16-bit values.
func WriteRaw(w io.Writer, words []uint16) error {
	return binary.Write(w, binary.BigEndian, words)
}

// ReadRaw reads big-endian 16-bit program words.
func ReadRaw(r io.Reader) (words []uint16, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data)%2 != 0 {
		err = ErrRawLength
		return
	}

	words = make([]uint16, len(data)/2)
	for n := range words {
		words[n] = binary.BigEndian.Uint16(data[n*2:])
	}

	return
}
