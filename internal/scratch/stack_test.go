package scratch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopRoundTrip(t *testing.T) {
	var s Stack

	mark := s.End()
	s.Push([]byte("hello"))
	s.PushByte(' ')
	s.Push([]byte("world"))

	require.Equal(t, "hello world", string(s.Bytes(mark, s.End())))

	s.PopTo(mark)
	require.Equal(t, 0, s.Len())
}

func TestNestedPushPop(t *testing.T) {
	var s Stack

	outer := s.End()
	s.Push([]byte("AAA"))

	inner := s.End()
	s.Push([]byte("BBB"))
	require.Equal(t, "BBB", string(s.Bytes(inner, s.End())))
	s.PopTo(inner)

	require.Equal(t, "AAA", string(s.Bytes(outer, s.End())))
	s.PopTo(outer)
	require.Equal(t, 0, s.Len())
}

func TestGrowsPastInitialCapacity(t *testing.T) {
	var s Stack
	const n = 10000
	mark := s.End()
	for i := 0; i < n; i++ {
		s.PushByte(byte(i))
	}
	require.Equal(t, n, s.End()-mark)
	got := s.Bytes(mark, s.End())
	for i := 0; i < n; i++ {
		require.Equal(t, byte(i), got[i])
	}
}
