// Package tgroup ties the core packages together into a single
// translation group: the owning aggregate for one compilation session,
// plus the preprocessor shell that drives a Lexer over a physical
// file's text and hangs its lexemes off the AST arena.
//
// Full #include expansion, macro expansion, and conditional compilation
// live outside this package; Preprocess only turns bytes into lexeme
// nodes and per-line ID lists for whatever stage consumes them next.
package tgroup

import (
	"github.com/xyproto/jocc/internal/diag"
	"github.com/xyproto/jocc/internal/intern"
	"github.com/xyproto/jocc/internal/lexer"
	"github.com/xyproto/jocc/internal/scratch"
	"github.com/xyproto/jocc/internal/srcman"
	"github.com/xyproto/jocc/internal/synk"
)

// Group owns every structure shared across one compilation session: the
// monotonic source-location counter, the AST arena, the diagnostic
// store, the source manager, the string interner, and the scratch
// stack used for transient spellings and in-progress ID lists.
type Group struct {
	SrcLoc  srcman.SrcLoc
	Arena   synk.Arena
	Diags   *diag.Store
	SrcMan  *srcman.Manager
	Strings *intern.Interner
	Scratch scratch.Stack
}

// New returns a Group ready to preprocess its first file. Source
// locations start at 1; 0 is reserved to mean "no location".
func New() *Group {
	return &Group{
		SrcLoc:  1,
		Diags:   diag.New(),
		SrcMan:  srcman.New(),
		Strings: intern.New(),
	}
}

// LinePreprocessed holds the lexeme AST-IDs produced for one source
// line, in lexical order. When the line's IDList promoted runs into
// sublist nodes, Preprocess expands those sublists back into the lexeme
// IDs they hold, so TokenIDs never contains a sublist node ID.
type LinePreprocessed struct {
	TokenIDs []synk.AstID
}

// PreprocessResult is the outcome of preprocessing one physical file.
type PreprocessResult struct {
	LogiFileID   srcman.LogiFileID
	PresFileID   srcman.PresFileID
	Lines        []LinePreprocessed
	IllegalBytes bool
}

// Preprocess lexes a physical file end to end: it creates one logical
// file (this is the primary occurrence, not an #include — callers that
// need inclusion chains pass the including AST node separately through
// a future API) and one presumed file, then repeatedly begins a line
// and loops the lexer, recording every lexeme except EOL and EOF as a
// 2-or-3-word AST node (start source-location, end source-location,
// and the interned spelling when the lexeme carries one) — whitespace
// and comments get nodes too, matching the original preprocessor's
// shell. Each line's token nodes are accumulated on an IDList and
// finalized, giving the caller a flat node-ID run per line rather than
// a silently discarded one. A line ends at its EOL lexeme; the whole
// file ends at EOF or at an ILLEGAL_BYTES lexeme (which still gets its
// own node before the break).
func (g *Group) Preprocess(physFileID srcman.PhysFileID) PreprocessResult {
	phys := g.SrcMan.PhysFile(physFileID)

	logi := g.SrcMan.AddLogiFile(physFileID, synk.AstID(0), g.SrcLoc)
	pres := g.SrcMan.AddPresFile(logi, 1, phys.Name, 1)

	lx := lexer.New(g.SrcMan, g.Strings, &g.Scratch, &g.SrcLoc, phys.Text, pres)

	result := PreprocessResult{LogiFileID: logi, PresFileID: pres}

	for {
		lx.BeginLine()

		var list synk.IDList
		mark := g.Scratch.End()
		eof := false

		for {
			startLoc := g.SrcLoc
			lexeme := lx.Next()
			endLoc := g.SrcLoc

			if lexeme.Category == synk.CategoryEOF {
				eof = true
				break
			}
			if lexeme.Category == synk.CategoryEOL {
				break
			}

			extraCount := uint32(2)
			if lexeme.Spelling != 0 {
				extraCount = 3
			}
			id := g.Arena.AllocNode(lexeme.Category, 0, extraCount)
			g.Arena.Set(id, 0, uint32(startLoc))
			g.Arena.Set(id, 1, uint32(endLoc))
			if lexeme.Spelling != 0 {
				g.Arena.Set(id, 2, uint32(lexeme.Spelling))
			}
			list.Push(&g.Arena, &g.Scratch, id)

			if lexeme.Category == synk.CategoryIllegalBytes {
				result.IllegalBytes = true
				eof = true
				break
			}
		}

		count := list.Finalize(&g.Arena, &g.Scratch)
		raw := synk.ReadIDs(g.Scratch.Bytes(mark, mark+int(count)*4))
		g.Scratch.PopTo(mark)

		ids := make([]synk.AstID, 0, len(raw))
		for _, id := range raw {
			if g.Arena.Category(id) != synk.CategorySublist {
				ids = append(ids, id)
				continue
			}
			for i := uint32(0); i < uint32(g.Arena.ChildCount(id)); i++ {
				ids = append(ids, synk.AstID(g.Arena.Get(id, i)))
			}
		}

		result.Lines = append(result.Lines, LinePreprocessed{TokenIDs: ids})

		if eof {
			break
		}
	}

	return result
}

// ApplyLineDirective records a presumed file for logical file lf,
// anchored at physical line atLine, with presumed name name and
// starting line number newLineNum, and returns its ID. It does no #line
// parsing itself — the preprocessor driving this call has already
// decided name and newLineNum. It does not attach any line records to
// the new presumed file: lines already recorded, and lines a running
// Lexer records, keep the presumed file they were created with.
func (g *Group) ApplyLineDirective(lf srcman.LogiFileID, atLine uint32, name intern.StringID, newLineNum uint32) srcman.PresFileID {
	return g.SrcMan.AddPresFile(lf, atLine, name, newLineNum)
}
