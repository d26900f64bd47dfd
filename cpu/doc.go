// Package cpu implements the processor and assembler for the putater system.
//
// A machine word is 16 bits wide. The top nibble selects one of sixteen
// operations; the remaining twelve bits hold register nibbles, an 8-bit value,
// a 10-bit address, a 2-bit branch condition or a 4-bit page number depending
// on the operation. The assembler and the processor share the packing and
// unpacking helpers in opcode.go, so both sides agree bit-for-bit.
//
// The processor has sixteen 32-bit registers, a program counter indexing the
// program words, a return address stack and a reference to paged memory.
package cpu
