package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[uint32]{}
	assert.True(s.Empty())
	assert.False(s.Full())

	s.Push(0x12345678)
	assert.False(s.Empty())
	assert.Equal(1, len(s.Data))
	assert.Equal(uint32(0x12345678), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[uint32]{}
	s.Push(0x12345678)
	s.Push(0xABCDEF01)

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint32(0xABCDEF01), val)
	assert.Equal(1, len(s.Data))

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint32(0x12345678), val)
	assert.Equal(0, len(s.Data))
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(0, val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{}
	s.Push(3)
	s.Push(7)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(7, val)
	assert.Equal(2, len(s.Data))
}

func TestStack_Items(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[string]{}
	s.Push("first")
	s.Push("second")
	s.Push("third")

	items := s.Items()
	assert.Equal([]string{"first", "second", "third"}, items)

	top, _ := s.Peek()
	assert.Equal(items[len(items)-1], top)
}

func TestStack_Lifo(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{}
	for n := range 5 {
		s.Push(n)
	}

	for n := 4; n >= 0; n-- {
		val, ok := s.Pop()
		assert.True(ok)
		assert.Equal(n, val)
	}
	assert.True(s.Empty())
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{}
	s.Push(1)
	s.Push(2)
	assert.Equal(2, len(s.Data))

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, len(s.Data))

	s.Reset()
	assert.True(s.Empty())
}

func TestStack_Capacity(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{}

	for i := 0; i < STACK_LIMIT; i++ {
		assert.False(s.Full())
		s.Push(i)
	}

	assert.True(s.Full())
	assert.Equal(STACK_LIMIT, len(s.Data))
}
