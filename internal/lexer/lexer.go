// Package lexer implements the streaming scanner: a one-byte lookahead
// switch over a text buffer that emits one lexeme per call, eliding
// line splices transparently and accumulating token spellings on a
// scratch stack.
package lexer

import (
	"github.com/xyproto/jocc/internal/intern"
	"github.com/xyproto/jocc/internal/scratch"
	"github.com/xyproto/jocc/internal/srcman"
	"github.com/xyproto/jocc/internal/synk"
	"github.com/xyproto/jocc/internal/utf8x"
)

// Lexeme is one unit of lexer output.
type Lexeme struct {
	Category synk.Category
	// Spelling is the interned token spelling with line splices
	// removed. 0 for non-tokens (EOF, EOL, white-space, comments,
	// line-splices).
	Spelling intern.StringID
}

// Lexer scans one logical file's text. Create one per file the
// preprocessor processes; call BeginLine before each logical line (the
// lexer calls it itself for line splices and comment-embedded EOLs).
type Lexer struct {
	srcman   *srcman.Manager
	interner *intern.Interner
	scratch  *scratch.Stack
	srcloc   *srcman.SrcLoc // shared counter, owned by the translation group

	text []byte
	pos  int

	presFileID    srcman.PresFileID
	lineNumOffset uint32
}

// New returns a Lexer over text (which must carry a sentinel NUL past
// its last content byte), reporting lines against presFileID. srcloc
// is the translation group's shared source-location counter, positioned
// at the first source location of this file's span; the lexer advances
// it by one for every byte it consumes, the sentinel included, so a file
// lexed through EOF spans len(text) consecutive values.
func New(sm *srcman.Manager, in *intern.Interner, st *scratch.Stack, loc *srcman.SrcLoc, text []byte, presFileID srcman.PresFileID) *Lexer {
	return &Lexer{
		srcman:     sm,
		interner:   in,
		scratch:    st,
		srcloc:     loc,
		text:       text,
		presFileID: presFileID,
	}
}

// BeginLine records the line starting at the lexer's current position.
func (l *Lexer) BeginLine() {
	l.srcman.AddLine(*l.srcloc, l.presFileID, l.lineNumOffset)
}

func (l *Lexer) consumeChar() byte {
	c := l.text[l.pos]
	l.pos++
	*l.srcloc++
	return c
}

// skipLineSplices returns the buffer offset of the next byte after
// skipping any backslash-newline splices, without consuming anything.
func (l *Lexer) skipLineSplices(pos int) int {
	for {
		if l.text[pos] != '\\' || (l.text[pos+1] != '\n' && l.text[pos+1] != '\r') {
			return pos
		}
		pos++
		c := l.text[pos]
		pos++
		if c == '\r' && l.text[pos] == '\n' {
			pos++
		}
	}
}

func (l *Lexer) consumeLineSplices() {
	for {
		if l.text[l.pos] != '\\' || (l.text[l.pos+1] != '\n' && l.text[l.pos+1] != '\r') {
			return
		}

		l.consumeChar()
		c := l.consumeChar()
		if c == '\r' && l.text[l.pos] == '\n' {
			l.consumeChar()
		}

		l.lineNumOffset++
		l.BeginLine()
	}
}

func (l *Lexer) peek() byte {
	return l.text[l.skipLineSplices(l.pos)]
}

func (l *Lexer) consumePeek() byte {
	l.consumeLineSplices()
	return l.consumeChar()
}

func (l *Lexer) includeChar() byte {
	c := l.consumeChar()
	l.scratch.PushByte(c)
	return c
}

func (l *Lexer) includePeek() byte {
	c := l.consumePeek()
	l.scratch.PushByte(c)
	return c
}

// isControl reports whether b is a control byte disallowed in raw
// character-constant/string-literal bodies: < 0x20 except TAB, or in
// [0x7F, 0x9F].
func isControl(b byte) bool {
	if b < 0x20 {
		return b != '\t'
	}
	return b >= 0x7F && b <= 0x9F
}

// includeUntilDelimiter includes characters up to and including
// delimiter, building a character-constant or string-literal spelling.
// It returns true if the literal closed properly, or false
// (INCOMPLETE_*) if EOF/EOL/a control byte/invalid UTF-8 was reached
// first.
func (l *Lexer) includeUntilDelimiter(delimiter byte) bool {
	for {
		l.consumeLineSplices()

		switch l.text[l.pos] {
		case delimiter:
			l.includeChar()
			return true
		case '\\':
			// Include the backslash, then fall through below to
			// include whatever follows verbatim (even if it looks
			// like the delimiter or another backslash).
			l.includeChar()
			l.consumeLineSplices()
		}

		c := l.text[l.pos]
		if c == 0 || c == '\n' || c == '\r' {
			return false
		}

		if c < 0x80 {
			if isControl(c) {
				return false
			}
			l.includeChar()
			continue
		}

		r, size := utf8x.Decode(l.text[l.pos:])
		if r == utf8x.Invalid {
			return false
		}
		for i := 0; i < size; i++ {
			l.includeChar()
		}
	}
}

func (l *Lexer) oneOrTwo(oneCat synk.Category, twoByte byte, twoCat synk.Category) synk.Category {
	l.includeChar()
	if l.peek() == twoByte {
		l.includePeek()
		return twoCat
	}
	return oneCat
}

func (l *Lexer) oneOrTwoOrTwo(oneCat synk.Category, b1 byte, cat1 synk.Category, b2 byte, cat2 synk.Category) synk.Category {
	l.includeChar()
	switch p := l.peek(); p {
	case b1:
		l.includePeek()
		return cat1
	case b2:
		l.includePeek()
		return cat2
	default:
		return oneCat
	}
}

func (l *Lexer) oneOrTwoOrTwoOrTwo(oneCat synk.Category, b1 byte, cat1 synk.Category, b2 byte, cat2 synk.Category, b3 byte, cat3 synk.Category) synk.Category {
	l.includeChar()
	switch p := l.peek(); p {
	case b1:
		l.includePeek()
		return cat1
	case b2:
		l.includePeek()
		return cat2
	case b3:
		l.includePeek()
		return cat3
	default:
		return oneCat
	}
}

// oneOrTwoOrTwoOrThree handles e.g. < or <= or << or <<=: two
// single-step alternatives plus a third byte choosable only after the
// second alternative matched.
func (l *Lexer) oneOrTwoOrTwoOrThree(oneCat synk.Category, b1 byte, cat1 synk.Category, b2 byte, cat2 synk.Category, b3 byte, cat3 synk.Category) synk.Category {
	l.includeChar()
	p := l.peek()
	switch p {
	case b1:
		l.includePeek()
		return cat1
	case b2:
		l.includePeek()
		if l.peek() == b3 {
			l.includePeek()
			return cat3
		}
		return cat2
	default:
		return oneCat
	}
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Next scans and returns the next lexeme. Callers must stop invoking
// Next after it returns CategoryEOF.
func (l *Lexer) Next() Lexeme {
	spellingStart := l.scratch.End()

	var cat synk.Category

	switch c := l.text[l.pos]; {
	case c == 0:
		l.consumeChar()
		cat = synk.CategoryEOF

	case c == '\n':
		l.consumeChar()
		l.lineNumOffset++
		cat = synk.CategoryEOL

	case c == '\r':
		l.consumeChar()
		if l.text[l.pos] == '\n' {
			l.consumeChar()
		}
		l.lineNumOffset++
		cat = synk.CategoryEOL

	case c == ' ' || c == '\t':
		for {
			l.consumeChar()
			if l.text[l.pos] != ' ' && l.text[l.pos] != '\t' {
				break
			}
		}
		cat = synk.CategoryWS

	case c == 'L' || c == 'U' || c == 'u':
		cat = l.lexPrefixedLiteralOrIdent()

	case c == '\'':
		l.includeChar()
		if l.includeUntilDelimiter('\'') {
			cat = synk.CategoryCharConst
		} else {
			cat = synk.CategoryIncompleteCharConst
		}

	case c == '"':
		l.includeChar()
		if l.includeUntilDelimiter('"') {
			cat = synk.CategoryStringLit
		} else {
			cat = synk.CategoryIncompleteStringLit
		}

	case isIdentStart(c):
		l.includeChar()
		l.lexIdentTail()
		cat = synk.CategoryIdent

	case c == '.':
		cat = l.lexDotOrEllipsisOrPPNumber()

	case isDigit(c):
		l.includeChar()
		l.lexPPNumberTail()
		cat = synk.CategoryPPNumber

	case c == '/':
		cat = l.lexSlash()

	case c == '!':
		cat = l.oneOrTwo(synk.CategoryExclaim, '=', synk.CategoryNE)
	case c == '#':
		cat = l.oneOrTwo(synk.CategoryHash, '#', synk.CategoryHashHash)
	case c == '%':
		cat = l.oneOrTwo(synk.CategoryPercent, '=', synk.CategoryModAssign)
	case c == '&':
		cat = l.oneOrTwoOrTwo(synk.CategoryAmpersand, '&', synk.CategoryAndAnd, '=', synk.CategoryAndAssign)
	case c == '(':
		l.includeChar()
		cat = synk.CategoryLParen
	case c == ')':
		l.includeChar()
		cat = synk.CategoryRParen
	case c == '*':
		cat = l.oneOrTwo(synk.CategoryAsterisk, '=', synk.CategoryMulAssign)
	case c == '+':
		cat = l.oneOrTwoOrTwo(synk.CategoryPlus, '+', synk.CategoryInc, '=', synk.CategoryAddAssign)
	case c == ',':
		l.includeChar()
		cat = synk.CategoryComma
	case c == '-':
		cat = l.oneOrTwoOrTwoOrTwo(synk.CategoryMinus, '-', synk.CategoryDec, '=', synk.CategorySubAssign, '>', synk.CategoryArrow)
	case c == ':':
		cat = l.oneOrTwo(synk.CategoryColon, ':', synk.CategoryColonColon)
	case c == ';':
		l.includeChar()
		cat = synk.CategorySemicolon
	case c == '<':
		cat = l.oneOrTwoOrTwoOrThree(synk.CategoryLT, '=', synk.CategoryLE, '<', synk.CategoryShl, '=', synk.CategoryShlAssign)
	case c == '=':
		cat = l.oneOrTwo(synk.CategoryAssign, '=', synk.CategoryEqEq)
	case c == '>':
		cat = l.oneOrTwoOrTwoOrThree(synk.CategoryGT, '=', synk.CategoryGE, '>', synk.CategoryShr, '=', synk.CategoryShrAssign)
	case c == '?':
		l.includeChar()
		cat = synk.CategoryQMark
	case c == '[':
		l.includeChar()
		cat = synk.CategoryLBrack
	case c == ']':
		l.includeChar()
		cat = synk.CategoryRBrack
	case c == '^':
		cat = l.oneOrTwo(synk.CategoryCaret, '=', synk.CategoryXorAssign)
	case c == '{':
		l.includeChar()
		cat = synk.CategoryLBrace
	case c == '|':
		cat = l.oneOrTwoOrTwo(synk.CategoryVBar, '|', synk.CategoryOrOr, '=', synk.CategoryOrAssign)
	case c == '}':
		l.includeChar()
		cat = synk.CategoryRBrace
	case c == '~':
		l.includeChar()
		cat = synk.CategoryTilde

	case c == '\\':
		if l.text[l.pos+1] == '\r' || l.text[l.pos+1] == '\n' {
			l.consumeChar()
			cc := l.consumeChar()
			if cc == '\r' && l.text[l.pos] == '\n' {
				l.consumeChar()
			}
			l.lineNumOffset++
			l.BeginLine()
			cat = synk.CategoryLineSplice
		} else {
			l.includeChar()
			cat = synk.CategoryOtherChar
		}

	case c >= ' ' && c <= '~':
		l.includeChar()
		cat = synk.CategoryOtherChar

	default:
		cat = l.lexIllegalOrNonASCII()
	}

	spelling := l.interner.Intern(l.scratch.Slice(spellingStart, l.scratch.End()))
	l.scratch.PopTo(spellingStart)

	return Lexeme{Category: cat, Spelling: spelling}
}

func (l *Lexer) lexIdentTail() {
	for {
		c := l.peek()
		if isIdentCont(c) {
			l.includePeek()
		} else {
			break
		}
	}
}

func (l *Lexer) lexPPNumberTail() {
	for {
		c := l.peek()
		switch {
		case c == 'E' || c == 'e' || c == 'P' || c == 'p':
			l.includePeek()
			if s := l.peek(); s == '+' || s == '-' {
				l.includePeek()
			}
		case c == '.' || isIdentCont(c):
			l.includePeek()
		default:
			return
		}
	}
}

// lexPrefixedLiteralOrIdent handles the L/U/u/u8 prefixes, which begin
// a character-constant or string-literal if immediately followed by a
// quote, and otherwise are ordinary identifiers.
func (l *Lexer) lexPrefixedLiteralOrIdent() synk.Category {
	c := l.includeChar()
	d := l.peek()

	if c == 'u' && d == '8' {
		l.includePeek()
		d = l.peek()
	}

	switch d {
	case '\'':
		l.includePeek()
		if l.includeUntilDelimiter('\'') {
			return synk.CategoryCharConst
		}
		return synk.CategoryIncompleteCharConst
	case '"':
		l.includePeek()
		if l.includeUntilDelimiter('"') {
			return synk.CategoryStringLit
		}
		return synk.CategoryIncompleteStringLit
	default:
		l.lexIdentTail()
		return synk.CategoryIdent
	}
}

func (l *Lexer) lexDotOrEllipsisOrPPNumber() synk.Category {
	l.includeChar()

	peek := l.skipLineSplices(l.pos)
	switch {
	case isDigit(l.text[peek]):
		l.includePeek()
		l.lexPPNumberTail()
		return synk.CategoryPPNumber
	case l.text[peek] == '.' && l.text[l.skipLineSplices(peek+1)] == '.':
		l.includePeek()
		l.includePeek()
		return synk.CategoryEllipsis
	default:
		return synk.CategoryDot
	}
}

func (l *Lexer) lexSlash() synk.Category {
	peek := l.skipLineSplices(l.pos + 1)
	switch l.text[peek] {
	case '*':
		l.consumeChar()
		l.consumePeek()
		for {
			if l.text[l.pos] == 0 {
				return synk.CategoryIncompleteBlockComment
			}
			c := l.consumeChar()
			if c == '*' && l.peek() == '/' {
				l.consumePeek()
				return synk.CategoryBlockComment
			} else if c == '\r' || c == '\n' {
				if c == '\r' && l.text[l.pos] == '\n' {
					l.consumeChar()
				}
				l.lineNumOffset++
				l.BeginLine()
			}
		}
	case '/':
		l.consumeChar()
		l.consumePeek()
		for {
			l.consumeLineSplices()
			c := l.text[l.pos]
			if c == 0 || c == '\r' || c == '\n' {
				break
			}
			l.consumeChar()
		}
		return synk.CategoryLineComment
	case '=':
		l.includeChar()
		l.includePeek()
		return synk.CategoryDivAssign
	default:
		l.includeChar()
		return synk.CategorySlash
	}
}

// lexIllegalOrNonASCII handles any byte that isn't ASCII-printable and
// wasn't handled above: a control byte or the lead of a UTF-8 sequence.
// Either way it's ILLEGAL_BYTES, a distinct category telling the
// preprocessor to abort the file; the raw bytes become its spelling.
func (l *Lexer) lexIllegalOrNonASCII() synk.Category {
	_, size := utf8x.Decode(l.text[l.pos:])
	if size < 1 {
		size = 1
	}
	for i := 0; i < size; i++ {
		l.includeChar()
	}
	return synk.CategoryIllegalBytes
}
