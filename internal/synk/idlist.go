package synk

import (
	"encoding/binary"

	"github.com/xyproto/jocc/internal/scratch"
)

const maxDirect = 1<<16 - 1

// IDList tracks an AST ID list being assembled on a scratch stack: the
// caller Pushes child IDs one at a time, then Finalizes to get the
// total child count to pass to Arena.AllocNode for the enclosing node.
// The zero value is ready to use.
type IDList struct {
	direct  uint16
	sublist uint16
}

func toSublist(arena *Arena, stack *scratch.Stack, childCount uint16) {
	childrenSize := int(childCount) * 4
	children := stack.Slice(stack.End()-childrenSize, stack.End())

	sublist := arena.AllocNode(CategorySublist, childCount, 0)
	for i := uint16(0); i < childCount; i++ {
		arena.Set(sublist, uint32(i), binary.LittleEndian.Uint32(children[i*4:]))
	}
	stack.Pop(childrenSize)

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(sublist))
	stack.Push(buf[:])
}

// Push appends id to the list. If direct_count would wrap past 65535,
// the existing 65535 direct IDs are first promoted to a sublist node.
func (l *IDList) Push(arena *Arena, stack *scratch.Stack, id AstID) {
	l.direct++
	if l.direct == 0 {
		l.direct = 1
		l.sublist++
		toSublist(arena, stack, maxDirect)
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(id))
	stack.Push(buf[:])
}

// ReadIDs decodes a run of little-endian uint32 AstIDs from b, as left
// on a scratch stack by repeated Push calls. len(b) must be a multiple
// of 4.
func ReadIDs(b []byte) []AstID {
	ids := make([]AstID, len(b)/4)
	for i := range ids {
		ids[i] = AstID(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return ids
}

// Finalize ensures the total child count fits in uint16, promoting any
// remaining direct IDs to one last sublist node if necessary, and
// returns the count to pass as child_count when allocating the
// enclosing node. The scratch stack then holds exactly that many IDs,
// ready to be copied into the enclosing node via Arena.SetRange. Do
// not reuse l after calling Finalize.
func (l *IDList) Finalize(arena *Arena, stack *scratch.Stack) uint16 {
	total := uint32(l.direct) + uint32(l.sublist)
	if total <= maxDirect {
		return uint16(total)
	}

	toSublist(arena, stack, l.direct)
	return l.sublist + 1
}
