// Package diag implements the diagnostic store and the excerpt
// renderer: given a source-location range it synthesizes a bounded,
// escaped line excerpt with the offending column recorded as an
// offset into it. Diagnostics are never printed by this package; the
// driver formats and emits them.
package diag

import (
	"fmt"
	"strings"

	"github.com/xyproto/jocc/internal/fatal"
	"github.com/xyproto/jocc/internal/srcman"
	"github.com/xyproto/jocc/internal/utf8x"
)

// Severity classifies a diagnostic.
type Severity uint16

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Code is a closed, growable enum of diagnostic codes.
type Code uint16

const (
	CodeTODO Code = iota
)

// Diagnostic is one reported defect: a source-location range, a
// severity and code, and a pre-rendered, ≤80-column excerpt with the
// byte-offset of the range's start within that excerpt.
type Diagnostic struct {
	Start, End     srcman.SrcLoc
	Severity       Severity
	Code           Code
	LineTextOffset uint32
	LineText       string
}

// Store is an append-only array of diagnostics.
type Store struct {
	diags []Diagnostic
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Len returns the number of diagnostics recorded so far.
func (s *Store) Len() int {
	return len(s.diags)
}

// All returns the recorded diagnostics in insertion order.
func (s *Store) All() []Diagnostic {
	return s.diags
}

const maxWidth = 80

// Add renders the excerpt for [start, end) against sm and appends the
// resulting diagnostic. end is expected (debug-only, unchecked here)
// to lie in the same logical file as start.
func (s *Store) Add(sm *srcman.Manager, start, end srcman.SrcLoc, severity Severity, code Code) {
	if len(s.diags) >= (1<<32)-1 {
		fatal.ImplLimitExceeded("diagnostic store")
	}

	line, lineStart := sm.GetLine(start)
	pres := sm.PresFile(line.PresFileID)
	logi := sm.LogiFile(pres.LogiFileID)
	phys := sm.PhysFile(logi.PhysFileID)
	text := phys.Text

	lineStartOff := int(lineStart - logi.BaseLoc)
	startOff := int(start - logi.BaseLoc)

	left, leftStart := measureLeft(text, lineStartOff, startOff)
	right, rightEnd, atEOF := measureRight(text, startOff)

	leftStart, left = trimLeadingWS(text, leftStart, startOff, left)
	rightEnd, right = trimTrailingWS(text, startOff, rightEnd, right)

	// The "<EOF>" marker appended below costs 5 columns on top of
	// whatever escapeAppend renders for [leftStart, rightEnd), so it
	// must come out of the same 80-column budget, not be added after.
	budget := maxWidth
	minRight := 1
	if atEOF {
		budget -= len("<EOF>")
		minRight = 5
	}
	leftStart, left, rightEnd, right = trimToFit(text, leftStart, left, rightEnd, right, minRight, budget)

	var b strings.Builder
	escapeAppend(&b, text, leftStart, startOff)
	escapeAppend(&b, text, startOff, rightEnd)
	if atEOF {
		b.WriteString("<EOF>")
	}

	s.diags = append(s.diags, Diagnostic{
		Start:          start,
		End:            end,
		Severity:       severity,
		Code:           code,
		LineTextOffset: uint32(left),
		LineText:       b.String(),
	})
}

func decodeFwd(text []byte, off int) (rune, int) {
	if text[off] < 0x80 {
		return rune(text[off]), 1
	}
	return utf8x.Decode(text[off:])
}

func decodeBwd(text []byte, end int) (rune, int) {
	if text[end-1] < 0x80 {
		return rune(text[end-1]), 1
	}
	return utf8x.ReverseDecode(text[:end])
}

// escapeWidth returns the escaped byte width of the code point r
// decoded with the given size, per the declared escape rules.
func escapeWidth(text []byte, off int, r rune, size int) int {
	switch {
	case r == utf8x.Invalid:
		return 4 * size
	case size == 1 && text[off] == '\t':
		return 2
	case size == 1 && text[off] >= 0x20 && text[off] <= 0x7E:
		return 1
	case r <= 0xFFFF:
		return 6
	default:
		return 10
	}
}

func measureLeft(text []byte, lineStartOff, startOff int) (width, start int) {
	off := startOff
	for off > lineStartOff {
		r, size := decodeBwd(text, off)
		width += escapeWidth(text, off-size, r, size)
		off -= size
	}
	return width, off
}

// measureRight scans forward from startOff, stopping at EOL or EOF,
// capped heuristically at 80 columns, and breaking early after a
// single invalid UTF-8 sequence.
func measureRight(text []byte, startOff int) (width, end int, atEOF bool) {
	off := startOff
	for width < maxWidth {
		b := text[off]
		if b == 0 {
			atEOF = true
			return width, off, atEOF
		}
		if b == '\n' || b == '\r' {
			return width, off, false
		}

		r, size := decodeFwd(text, off)
		width += escapeWidth(text, off, r, size)
		off += size
		if r == utf8x.Invalid {
			return width, off, false
		}
	}
	return width, off, false
}

func trimLeadingWS(text []byte, leftStart, startOff, left int) (int, int) {
	for leftStart < startOff {
		b := text[leftStart]
		if b != ' ' && b != '\t' {
			break
		}
		w := 1
		if b == '\t' {
			w = 2
		}
		leftStart++
		left -= w
	}
	return leftStart, left
}

func trimTrailingWS(text []byte, startOff, rightEnd, right int) (int, int) {
	for rightEnd > startOff {
		b := text[rightEnd-1]
		if b != ' ' && b != '\t' {
			break
		}
		w := 1
		if b == '\t' {
			w = 2
		}
		rightEnd--
		right -= w
	}
	return rightEnd, right
}

// trimToFit iteratively trims one code point from whichever side is
// larger until left+right fits within budget columns, never trimming
// right below minRight.
func trimToFit(text []byte, leftStart, left, rightEnd, right, minRight, budget int) (int, int, int, int) {
	for left+right > budget {
		if left < right && right > minRight {
			r, size := decodeBwd(text, rightEnd)
			right -= escapeWidth(text, rightEnd-size, r, size)
			rightEnd -= size
			if right < minRight {
				right = minRight
			}
			continue
		}

		r, size := decodeFwd(text, leftStart)
		left -= escapeWidth(text, leftStart, r, size)
		leftStart += size
		if left < 0 {
			left = 0
		}
	}
	return leftStart, left, rightEnd, right
}

func escapeAppend(b *strings.Builder, text []byte, from, to int) {
	off := from
	for off < to {
		c := text[off]
		switch {
		case c == '\t':
			b.WriteString(`\t`)
			off++
		case c >= 0x20 && c <= 0x7E:
			b.WriteByte(c)
			off++
		default:
			r, size := decodeFwd(text, off)
			switch {
			case r == utf8x.Invalid:
				for i := 0; i < size; i++ {
					fmt.Fprintf(b, `\x%02X`, text[off+i])
				}
			case r <= 0xFFFF:
				fmt.Fprintf(b, `\u%04X`, r)
			default:
				fmt.Fprintf(b, `\U%08X`, r)
			}
			off += size
		}
	}
}
