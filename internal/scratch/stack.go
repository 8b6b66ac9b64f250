// Package scratch implements the session-scoped byte stack used to
// accumulate transient, variable-sized values: in-progress lexeme
// spellings and in-progress AST ID lists. Everything pushed onto it is
// popped back off, in stack discipline, by the operation that pushed it.
package scratch

import "github.com/xyproto/jocc/internal/fatal"

// Stack is an append-only byte stack with doubling growth. The zero value
// is ready to use.
type Stack struct {
	data []byte
}

// End returns the current top of the stack, i.e. its length in bytes.
// Callers use this to remember where a variable-length run started so
// they can slice it back out at End() time, or pop back to it.
func (s *Stack) End() int {
	return len(s.data)
}

// Len is an alias for End, read where the caller means "how many bytes
// are currently on the stack" rather than "the address just past the
// top".
func (s *Stack) Len() int {
	return len(s.data)
}

// Push appends b to the top of the stack, growing the backing array by
// doubling if necessary.
func (s *Stack) Push(b []byte) {
	oldLen := len(s.data)
	newLen := oldLen + len(b)
	if newLen < oldLen {
		fatal.ImplLimitExceeded("scratch stack")
	}

	if cap(s.data) < newLen {
		newCap := cap(s.data)
		if newCap == 0 {
			newCap = 1
		}
		for newCap < newLen {
			newCap *= 2
		}
		grown := make([]byte, oldLen, newCap)
		copy(grown, s.data)
		s.data = grown
	}

	s.data = s.data[:newLen]
	copy(s.data[oldLen:], b)
}

// PushByte pushes a single byte.
func (s *Stack) PushByte(b byte) {
	oldLen := len(s.data)
	if cap(s.data) < oldLen+1 {
		s.Push([]byte{b})
		return
	}
	s.data = append(s.data, b)
}

// Pop discards the top n bytes. The caller is responsible for popping
// exactly what it pushed; Pop does not validate stack discipline beyond
// refusing to underflow.
func (s *Stack) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[:len(s.data)-n]
}

// PopTo truncates the stack back to a previously recorded End() offset.
func (s *Stack) PopTo(mark int) {
	if mark > len(s.data) {
		mark = len(s.data)
	}
	s.data = s.data[:mark]
}

// Slice returns the bytes in [from, to) without copying. The returned
// slice is only valid until the next Push grows the backing array.
func (s *Stack) Slice(from, to int) []byte {
	return s.data[from:to]
}

// Bytes returns a copy of the bytes in [from, to).
func (s *Stack) Bytes(from, to int) []byte {
	out := make([]byte, to-from)
	copy(out, s.data[from:to])
	return out
}
