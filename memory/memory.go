// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the paged byte store of the putater system.
//
// Memory is a flat byte array split into 256 byte pages. Exactly one page is
// addressable at a time; every read and write is offset by the current page.
package memory

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	PAGE_SIZE = 256 // Bytes per page.
)

// Memory is a paged byte store.
type Memory struct {
	Verbose bool   // Set to enable verbose logging.
	Data    []byte // Flat backing store.
	Page    int    // Current page.

	BytesWritten int // Write counter.
}

// NewMemory creates a memory of size bytes.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		Data: make([]byte, size),
	}

	return
}

// Reset zeros the store, selects page 0 and clears the write counter.
func (mem *Memory) Reset() {
	clear(mem.Data)
	mem.Page = 0
	mem.BytesWritten = 0
}

// Size returns the size of the store in bytes.
func (mem *Memory) Size() int {
	return len(mem.Data)
}

// Pages returns the number of whole pages in the store.
func (mem *Memory) Pages() int {
	return len(mem.Data) / PAGE_SIZE
}

// Defines returns the memory geometry as name/value pairs.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"PAGE_SIZE":   fmt.Sprintf("%v", PAGE_SIZE),
		"MEMORY_SIZE": fmt.Sprintf("%v", mem.Size()),
		"PAGE_COUNT":  fmt.Sprintf("%v", mem.Pages()),
	})
}

// SetPage selects the page used by subsequent reads and writes.
func (mem *Memory) SetPage(page int) {
	if mem.Verbose {
		log.Printf("memory: page %d", page)
	}
	mem.Page = page
}

// effective returns the flat address for a page relative address. The
// address must fall inside the current page.
func (mem *Memory) effective(address uint32) (index int, err error) {
	flat := uint64(address) + uint64(mem.Page)*PAGE_SIZE
	if mem.Page < 0 || address >= PAGE_SIZE || flat >= uint64(len(mem.Data)) {
		err = &ErrBounds{Address: address, Page: mem.Page, Size: len(mem.Data)}
		return
	}

	index = int(flat)
	return
}

// Read returns the byte at address on the current page.
func (mem *Memory) Read(address uint32) (value byte, err error) {
	index, err := mem.effective(address)
	if err != nil {
		return
	}

	value = mem.Data[index]
	return
}

// Write stores a byte at address on the current page.
func (mem *Memory) Write(address uint32, value byte) (err error) {
	index, err := mem.effective(address)
	if err != nil {
		return
	}

	if mem.Verbose {
		log.Printf("memory: [%d:%02x] = %02x", mem.Page, address, value)
	}

	mem.Data[index] = value
	mem.BytesWritten++
	return
}
