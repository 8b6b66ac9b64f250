package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xyproto/jocc/internal/srcman"
	"github.com/xyproto/jocc/internal/synk"
)

func setupLine(t *testing.T, raw []byte) (*srcman.Manager, srcman.SrcLoc) {
	sm := srcman.New()
	phys := sm.AddPhysFile(0, append(append([]byte{}, raw...), 0))
	logi := sm.AddLogiFile(phys, synk.AstID(0), 1)
	pres := sm.AddPresFile(logi, 1, 0, 1)
	sm.AddLine(1, pres, 0)
	return sm, 1
}

func TestRenderExcerptTrimsAndEscapes(t *testing.T) {
	// A 200-byte line with a TAB at byte offset 4 and the diagnosed
	// start at byte offset 119.
	line := make([]byte, 200)
	for i := range line {
		line[i] = 'x'
	}
	line[4] = '\t'

	sm, lineBase := setupLine(t, line)
	start := lineBase + 119

	s := New()
	s.Add(sm, start, start+1, SeverityError, CodeTODO)

	require.Len(t, s.All(), 1)
	d := s.All()[0]

	require.LessOrEqual(t, len(d.LineText), maxWidth)
	require.LessOrEqual(t, int(d.LineTextOffset), len(d.LineText))

	// The left side measures 120 columns (the TAB counts as its 2-byte
	// escape) and the right side is capped at 80; trimming the larger
	// side one code point at a time settles at 40 + 40, which drops the
	// TAB from the excerpt. Escaping a TAB that stays in the excerpt is
	// checked by TestRenderExcerptEscapesTabWhenNearby.
	require.Equal(t, strings.Repeat("x", maxWidth), d.LineText)
	require.Equal(t, uint32(40), d.LineTextOffset)
}

func TestRenderExcerptEscapesTabWhenNearby(t *testing.T) {
	line := []byte("ab\tcd\n")
	sm, lineBase := setupLine(t, line)
	start := lineBase + 3 // the 'c', just after the tab

	s := New()
	s.Add(sm, start, start+1, SeverityError, CodeTODO)

	d := s.All()[0]
	require.Equal(t, "ab\\tc", d.LineText[:len(d.LineText)-1])
	require.True(t, strings.HasSuffix(d.LineText, "d"))
	// left = width("ab") + width("\t") = 2 + 2 = 4.
	require.Equal(t, uint32(4), d.LineTextOffset)
}

func TestRenderExcerptAtEOFAppendsMarker(t *testing.T) {
	line := []byte("int")
	sm, lineBase := setupLine(t, line)
	start := lineBase + 3 // just past the content, at the NUL sentinel

	s := New()
	s.Add(sm, start, start+1, SeverityError, CodeTODO)

	d := s.All()[0]
	require.True(t, strings.HasSuffix(d.LineText, "<EOF>"))
	require.Equal(t, "int<EOF>", d.LineText)
}

func TestRenderExcerptAtEOFReservesRoomForMarker(t *testing.T) {
	// 79 printable bytes, no trailing newline, diagnosed at column 0:
	// left contributes nothing, so naive trimming to 80 columns plus a
	// 5-byte "<EOF>" marker tacked on afterward would overflow to 84.
	line := make([]byte, 79)
	for i := range line {
		line[i] = 'x'
	}
	sm, lineBase := setupLine(t, line)

	s := New()
	s.Add(sm, lineBase, lineBase+1, SeverityError, CodeTODO)

	d := s.All()[0]
	require.LessOrEqual(t, len(d.LineText), maxWidth)
	require.True(t, strings.HasSuffix(d.LineText, "<EOF>"))
}

func TestRenderExcerptEscapesInvalidUTF8(t *testing.T) {
	// Scanning right stops after the single invalid byte; the trailing
	// 'b' is never reached.
	line := []byte{'a', 0xFF, 'b', '\n'}
	sm, lineBase := setupLine(t, line)
	start := lineBase

	s := New()
	s.Add(sm, start, start+1, SeverityError, CodeTODO)

	d := s.All()[0]
	require.Equal(t, `a\xFF`, d.LineText)
}
