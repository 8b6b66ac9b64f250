package tgroup

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xyproto/jocc/internal/synk"
)

func TestPreprocessSingleLineBuildsTokenNodes(t *testing.T) {
	g := New()
	name := g.Strings.Intern([]byte("t.c"))
	// No trailing newline: the line ends at EOF, not at an EOL lexeme,
	// so there's no trailing empty line after it.
	phys := g.SrcMan.AddPhysFile(name, append([]byte("int x;"), 0))

	res := g.Preprocess(phys)
	require.False(t, res.IllegalBytes)
	require.Len(t, res.Lines, 1)

	tokens := res.Lines[0].TokenIDs
	require.Len(t, tokens, 4) // int, ' ', x, ;  -- whitespace gets a node too

	for _, id := range tokens {
		require.Equal(t, uint16(0), g.Arena.ChildCount(id))
	}
	require.Equal(t, synk.CategoryIdent, g.Arena.Category(tokens[0]))
	require.Equal(t, synk.CategoryWS, g.Arena.Category(tokens[1]))
	require.Equal(t, synk.CategoryIdent, g.Arena.Category(tokens[2]))
	require.Equal(t, synk.CategorySemicolon, g.Arena.Category(tokens[3]))
}

func TestPreprocessMultiLineSplitsTokensPerLine(t *testing.T) {
	g := New()
	name := g.Strings.Intern([]byte("t.c"))
	// Only the final line lacks a trailing newline, so it ends at EOF
	// instead of producing a third, empty trailing line.
	phys := g.SrcMan.AddPhysFile(name, append([]byte("int x;\nint y;"), 0))

	res := g.Preprocess(phys)
	require.Len(t, res.Lines, 2)
	require.Len(t, res.Lines[0].TokenIDs, 4)
	require.Len(t, res.Lines[1].TokenIDs, 4)
}

func TestPreprocessStopsAtIllegalBytes(t *testing.T) {
	g := New()
	name := g.Strings.Intern([]byte("t.c"))
	phys := g.SrcMan.AddPhysFile(name, append([]byte("int\x01x;"), 0))

	res := g.Preprocess(phys)
	require.True(t, res.IllegalBytes)
	require.Len(t, res.Lines, 1)
	tokens := res.Lines[0].TokenIDs
	require.Len(t, tokens, 2) // "int", then the illegal-bytes lexeme itself
	require.Equal(t, synk.CategoryIdent, g.Arena.Category(tokens[0]))
	require.Equal(t, synk.CategoryIllegalBytes, g.Arena.Category(tokens[1]))
}

func TestApplyLineDirectiveAddsPresumedFile(t *testing.T) {
	g := New()
	name := g.Strings.Intern([]byte("t.c"))
	phys := g.SrcMan.AddPhysFile(name, append([]byte("int x;\n"), 0))
	res := g.Preprocess(phys)

	other := g.Strings.Intern([]byte("other.h"))
	pres := g.ApplyLineDirective(res.LogiFileID, 1, other, 100)
	got := g.SrcMan.PresFile(pres)
	require.Equal(t, other, got.PresName)
	require.Equal(t, uint32(100), got.PresLineBase)
}
