// Package intern implements the string interner: a hash set of byte
// sequences keyed by a 64-bit hash, producing dense, stable 32-bit IDs.
// Each distinct byte sequence is stored exactly once, in a NUL-terminated
// byte heap; its ID doubles as a byte offset into that heap.
package intern

import (
	"hash/fnv"

	"github.com/xyproto/jocc/internal/fatal"
)

// StringID identifies an interned byte sequence. 0 denotes the empty
// string and is never the ID of any interned non-empty sequence.
type StringID uint32

type entry struct {
	hash uint32   // low 32 bits of the 64-bit hash
	id   StringID // 0 means the slot is empty
}

// Interner is a hash set of byte strings producing dense uint32 IDs. The
// zero value is not ready to use; call New.
type Interner struct {
	entries  []entry
	count    uint32 // occupied entries
	data     []byte // byte heap; data[0] == 0, the empty string
	capacity int    // power of two
}

// New returns an initialized, empty Interner.
func New() *Interner {
	return &Interner{
		entries:  make([]entry, 1),
		capacity: 1,
		data:     []byte{0},
	}
}

func hash64(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// Intern returns the stable ID for b, interning it if this is the first
// time this exact byte sequence has been seen. Intern(nil) and
// Intern([]byte{}) both return 0.
func (in *Interner) Intern(b []byte) StringID {
	if len(b) == 0 {
		return 0
	}

	h := uint32(hash64(b))
	mask := uint32(in.capacity - 1)

	idx := h & mask
	for {
		e := &in.entries[idx]
		if e.id != 0 && e.hash == h {
			if in.bytesEqual(e.id, b) {
				return e.id
			}
		}
		if e.id == 0 {
			break
		}
		idx = (idx + 1) & mask
	}

	// Grow before inserting if occupancy would exceed capacity/2.
	in.count++
	if in.count > uint32(in.capacity)/2 {
		in.grow()
		mask = uint32(in.capacity - 1)
		for idx = h & mask; in.entries[idx].id != 0; idx = (idx + 1) & mask {
		}
	}

	id := StringID(len(in.data))
	in.entries[idx] = entry{hash: h, id: id}

	newSize := len(in.data) + len(b) + 1
	if uint64(newSize) > uint64(^StringID(0)) {
		fatal.ImplLimitExceeded("string interner")
	}
	if cap(in.data) < newSize {
		newCap := cap(in.data)
		if newCap == 0 {
			newCap = 1
		}
		for newCap < newSize {
			newCap *= 2
		}
		grown := make([]byte, len(in.data), newCap)
		copy(grown, in.data)
		in.data = grown
	}
	in.data = in.data[:newSize]
	copy(in.data[id:], b)
	in.data[int(id)+len(b)] = 0

	return id
}

func (in *Interner) bytesEqual(id StringID, b []byte) bool {
	off := int(id)
	if off+len(b) > len(in.data) {
		return false
	}
	for i, c := range b {
		if in.data[off+i] != c {
			return false
		}
	}
	return in.data[off+len(b)] == 0
}

func (in *Interner) grow() {
	oldCapacity := in.capacity
	if oldCapacity > (1<<31) {
		fatal.ImplLimitExceeded("string interner entry table")
	}
	newCapacity := oldCapacity * 2
	newEntries := make([]entry, newCapacity)
	mask := uint32(newCapacity - 1)

	for _, old := range in.entries {
		if old.id == 0 {
			continue
		}
		for j := old.hash & mask; ; j = (j + 1) & mask {
			if newEntries[j].id == 0 {
				newEntries[j] = old
				break
			}
		}
	}

	in.entries = newEntries
	in.capacity = newCapacity
}

// Get returns the NUL-terminated bytes (NUL excluded) for id. Get(0)
// returns the empty slice.
func (in *Interner) Get(id StringID) []byte {
	if id == 0 {
		return nil
	}
	off := int(id)
	end := off
	for in.data[end] != 0 {
		end++
	}
	return in.data[off:end]
}
