package cpu

const (
	STACK_LIMIT = 1024 // Maximum return address stack depth
)

// Stack is a last-in first-out store. Push appends, Pop and Peek
// use the most recently pushed item.
type Stack[T any] struct {
	Data []T
}

func (s *Stack[T]) Push(value T) {
	s.Data = append(s.Data, value)
}

func (s *Stack[T]) Pop() (value T, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack[T]) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack[T]) Full() bool {
	return len(s.Data) >= STACK_LIMIT
}

func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Items returns the stack contents, oldest first. The last item is the top.
func (s *Stack[T]) Items() []T {
	return s.Data
}

func (s *Stack[T]) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
