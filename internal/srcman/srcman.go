// Package srcman implements the source manager: the physical/logical/
// presumed file model and the sorted line index that maps a source
// location back to a line, presumed file, and column.
package srcman

import (
	"github.com/xyproto/jocc/internal/fatal"
	"github.com/xyproto/jocc/internal/intern"
	"github.com/xyproto/jocc/internal/synk"
)

// SrcLoc identifies one byte position within one logical file. It is
// allocated contiguously per physical file at preprocessing time. 0 is
// reserved for "null".
type SrcLoc uint32

// PhysFileID indexes Manager's physical file table.
type PhysFileID uint32

// LogiFileID indexes Manager's logical file table.
type LogiFileID uint32

// PresFileID indexes Manager's presumed file table.
type PresFileID uint32

// PhysFile is a named byte buffer, one per file actually read from disk
// or handed to the manager. Text is expected to carry a sentinel NUL
// past its last content byte and includes it, so the content itself is
// Text[:len(Text)-1].
type PhysFile struct {
	Name intern.StringID
	Text []byte

	// PragmaOnce and SkipIfdef are carried here for the external
	// preprocessor's use; nothing in this package reads or writes them
	// beyond construction.
	PragmaOnce bool
	SkipIfdef  intern.StringID
}

// LogiFile is one inclusion instance of a physical file, whether or not
// it was #include'd, and if so, where.
type LogiFile struct {
	PhysFileID PhysFileID
	IncludedAt synk.AstID
	BaseLoc    SrcLoc
}

// PresFile is a #line-style proxy for a LogiFile, allowing a later
// directive to override the reported file name and line numbering
// without altering the underlying logical file.
type PresFile struct {
	LogiFileID   LogiFileID
	PhysLineBase uint32
	PresName     intern.StringID
	PresLineBase uint32
}

// Line is a source line relative to a presumed file.
type Line struct {
	PresFileID    PresFileID
	LineNumOffset uint32 // relative to PresFile.PresLineBase
}

// Manager owns the four append-only tables: physical files, logical
// files, presumed files, and line records. The zero value is not ready
// to use; call New.
type Manager struct {
	physFiles []PhysFile
	logiFiles []LogiFile
	presFiles []PresFile

	lineStarts []SrcLoc
	lines      []Line
}

// New returns an initialized, empty Manager.
func New() *Manager {
	return &Manager{}
}

// AddPhysFile registers a physical file and returns its ID.
func (m *Manager) AddPhysFile(name intern.StringID, text []byte) PhysFileID {
	if len(m.physFiles) >= (1<<32)-1 {
		fatal.ImplLimitExceeded("srcman phys files")
	}
	id := PhysFileID(len(m.physFiles))
	m.physFiles = append(m.physFiles, PhysFile{Name: name, Text: text})
	return id
}

// AddLogiFile registers an inclusion instance of physFileID, included
// at includedAt (the AST node of the #include directive, or 0 for the
// translation unit's primary file), with base as the first source
// location reserved for its span.
func (m *Manager) AddLogiFile(physFileID PhysFileID, includedAt synk.AstID, base SrcLoc) LogiFileID {
	if len(m.logiFiles) >= (1<<32)-1 {
		fatal.ImplLimitExceeded("srcman logi files")
	}
	id := LogiFileID(len(m.logiFiles))
	m.logiFiles = append(m.logiFiles, LogiFile{
		PhysFileID: physFileID,
		IncludedAt: includedAt,
		BaseLoc:    base,
	})
	return id
}

// AddPresFile registers a presumed-file override anchored at
// physLineBase of logiFileID, reporting presName starting at
// presLineBase.
func (m *Manager) AddPresFile(logiFileID LogiFileID, physLineBase uint32, presName intern.StringID, presLineBase uint32) PresFileID {
	if len(m.presFiles) >= (1<<32)-1 {
		fatal.ImplLimitExceeded("srcman pres files")
	}
	id := PresFileID(len(m.presFiles))
	m.presFiles = append(m.presFiles, PresFile{
		LogiFileID:   logiFileID,
		PhysLineBase: physLineBase,
		PresName:     presName,
		PresLineBase: presLineBase,
	})
	return id
}

// AddLine registers a line starting at start. start must strictly
// exceed the start of every previously added line.
func (m *Manager) AddLine(start SrcLoc, presFileID PresFileID, lineNumOffset uint32) {
	if n := len(m.lineStarts); n > 0 && start <= m.lineStarts[n-1] {
		panic("srcman: AddLine called with non-increasing start")
	}
	if len(m.lineStarts) >= (1<<32)-1 {
		fatal.ImplLimitExceeded("srcman lines")
	}
	m.lineStarts = append(m.lineStarts, start)
	m.lines = append(m.lines, Line{PresFileID: presFileID, LineNumOffset: lineNumOffset})
}

// PhysFile returns the physical file with the given ID.
func (m *Manager) PhysFile(id PhysFileID) *PhysFile {
	return &m.physFiles[id]
}

// LogiFile returns the logical file with the given ID.
func (m *Manager) LogiFile(id LogiFileID) *LogiFile {
	return &m.logiFiles[id]
}

// PresFile returns the presumed file with the given ID.
func (m *Manager) PresFile(id PresFileID) *PresFile {
	return &m.presFiles[id]
}

// GetLine finds the line record containing loc and returns it along
// with the source location at which that line starts. loc must be
// greater than or equal to the first registered line's start; behavior
// is undefined (and the search result meaningless) if no lines have
// been added yet.
func (m *Manager) GetLine(loc SrcLoc) (line *Line, lineStart SrcLoc) {
	lo := uint32(0)
	hi := uint32(len(m.lineStarts))

	for {
		diff := hi - lo
		if diff == 1 {
			return &m.lines[lo], m.lineStarts[lo]
		}

		mid := lo + diff/2
		if loc < m.lineStarts[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
}
