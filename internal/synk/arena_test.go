package synk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocNodeHeaderPacking(t *testing.T) {
	var a Arena
	id := a.AllocNode(CategoryIdent, 2, 1)

	require.Equal(t, CategoryIdent, a.Category(id))
	require.Equal(t, uint16(2), a.ChildCount(id))

	a.Set(id, 0, 111)
	a.Set(id, 1, 222)
	a.Set(id, 2, 333)

	require.Equal(t, uint32(111), a.Get(id, 0))
	require.Equal(t, uint32(222), a.Get(id, 1))
	require.Equal(t, uint32(333), a.Get(id, 2))
}

func TestAllocNodeIDsAreSequentialAndNonzero(t *testing.T) {
	var a Arena
	id1 := a.AllocNode(CategoryEOF, 0, 0)
	id2 := a.AllocNode(CategoryWS, 0, 2)

	require.NotZero(t, id1)
	require.NotZero(t, id2)
	require.NotEqual(t, id1, id2)
	// id1's node is a lone header word, so id2's header directly follows it.
	require.Equal(t, id1+1, id2)
}

func TestTokenNodeExtraLayout(t *testing.T) {
	// Token nodes: 0 children, 3 extras (start srcloc, end srcloc, spelling ID).
	var a Arena
	id := a.AllocNode(CategoryIdent, 0, 3)
	a.Set(id, 0, 10) // start
	a.Set(id, 1, 15) // end
	a.Set(id, 2, 42) // spelling string-ID

	require.Equal(t, uint16(0), a.ChildCount(id))
	require.Equal(t, uint32(10), a.Get(id, 0))
	require.Equal(t, uint32(15), a.Get(id, 1))
	require.Equal(t, uint32(42), a.Get(id, 2))
}
