// Package synk implements the packed 32-bit-word AST arena and the
// append-only ID-list builder used to assemble a node's children before
// the node itself is allocated.
package synk

import "github.com/xyproto/jocc/internal/fatal"

// AstID is the index of the word immediately after a node's header.
// 0 is reserved for "null".
type AstID uint32

// Arena is a flat array of uint32 words holding every AST node's header,
// children, and category-specific extras. The zero value is ready to use.
type Arena struct {
	data []uint32
}

// AllocNode appends a node with the given category, childCount direct
// children, and extraCount trailing extra words, writes the packed
// header, and returns the ID of the first child slot. The caller fills
// in the childCount + extraCount words at data[id-1+1 : id-1+1+childCount+extraCount]
// via Set.
func (a *Arena) AllocNode(cat Category, childCount uint16, extraCount uint32) AstID {
	oldLen := uint32(len(a.data))

	tmpLen := oldLen + 1 + uint32(childCount)
	if tmpLen <= oldLen {
		fatal.ImplLimitExceeded("ast arena")
	}

	newLen := tmpLen + extraCount
	if newLen < tmpLen {
		fatal.ImplLimitExceeded("ast arena")
	}

	if uint32(cap(a.data)) < newLen {
		newCap := uint32(cap(a.data)) * 2
		if newCap < newLen {
			newCap = newLen
		}
		grown := make([]uint32, oldLen, newCap)
		copy(grown, a.data)
		a.data = grown
	}
	a.data = a.data[:newLen]

	a.data[oldLen] = uint32(cat) | uint32(childCount)<<16
	return AstID(oldLen + 1)
}

// Set writes word at the given slot offset (0-based) past id's header,
// i.e. the slot holding the i'th child ID or extra word.
func (a *Arena) Set(id AstID, slot uint32, word uint32) {
	a.data[uint32(id)+slot] = word
}

// Get reads word at the given slot offset past id's header.
func (a *Arena) Get(id AstID, slot uint32) uint32 {
	return a.data[uint32(id)+slot]
}

// SetRange bulk-copies words into the slots starting at the given
// offset past id's header.
func (a *Arena) SetRange(id AstID, slot uint32, words []uint32) {
	copy(a.data[uint32(id)+slot:], words)
}

// Category decodes the syntactic category from id's header.
func (a *Arena) Category(id AstID) Category {
	return Category(a.data[id-1] & 0xFFFF)
}

// ChildCount decodes the child count from id's header.
func (a *Arena) ChildCount(id AstID) uint16 {
	return uint16(a.data[id-1] >> 16)
}

// Len returns the number of words currently stored, i.e. one past the
// highest valid slot index.
func (a *Arena) Len() uint32 {
	return uint32(len(a.data))
}
