package utf8x

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeASCII(t *testing.T) {
	r, n := Decode([]byte("A"))
	require.Equal(t, rune('A'), r)
	require.Equal(t, 1, n)
}

func TestDecodeMultiByte(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
		r    rune
		n    int
	}{
		{"2-byte", []byte("é"), 'é', 2},
		{"3-byte", []byte("中"), '中', 3},
		{"4-byte", []byte("\U0001F600"), '\U0001F600', 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, n := Decode(c.b)
			require.Equal(t, c.r, r)
			require.Equal(t, c.n, n)
		})
	}
}

func TestDecodeOverlong(t *testing.T) {
	// 0xC0 0x80 is an overlong encoding of NUL.
	r, n := Decode([]byte{0xC0, 0x80})
	require.Equal(t, Invalid, r)
	require.Equal(t, 2, n)
}

func TestDecodeSurrogate(t *testing.T) {
	// 0xED 0xA0 0x80 encodes U+D800, a surrogate.
	r, n := Decode([]byte{0xED, 0xA0, 0x80})
	require.Equal(t, Invalid, r)
	require.Equal(t, 3, n)
}

func TestDecodeOutOfRange(t *testing.T) {
	// 0xF4 0x90 0x80 0x80 encodes U+110000, past U+10FFFF.
	r, n := Decode([]byte{0xF4, 0x90, 0x80, 0x80})
	require.Equal(t, Invalid, r)
	require.Equal(t, 4, n)
}

func TestDecodeBadContinuation(t *testing.T) {
	r, n := Decode([]byte{0xE4, 'x', 'y'})
	require.Equal(t, Invalid, r)
	require.Equal(t, 1, n)
}

func TestDecodeTruncated(t *testing.T) {
	r, n := Decode([]byte{0xE4})
	require.Equal(t, Invalid, r)
	require.Equal(t, 1, n)
}

func TestDecodeUnrecognizedLead(t *testing.T) {
	r, n := Decode([]byte{0xFF})
	require.Equal(t, Invalid, r)
	require.Equal(t, 1, n)
}

func TestReverseDecodeRoundTrips(t *testing.T) {
	s := []byte("x中y\U0001F600")
	for _, want := range []struct {
		end int
		r   rune
		n   int
	}{
		{1, 'x', 1},
		{4, '中', 3},
		{5, 'y', 1},
		{9, '\U0001F600', 4},
	} {
		r, n := ReverseDecode(s[:want.end])
		require.Equal(t, want.r, r)
		require.Equal(t, want.n, n)
	}
}

func TestReverseDecodeInvalid(t *testing.T) {
	// A lone continuation byte with nothing valid before it.
	r, n := ReverseDecode([]byte{0x80})
	require.Equal(t, Invalid, r)
	require.Equal(t, 1, n)
}
