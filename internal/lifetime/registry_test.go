package lifetime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRemove(t *testing.T) {
	var r Registry[string]

	a := r.Add("a")
	b := r.Add("b")
	assert.True(t, a.Valid())
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Remove(a))
	assert.False(t, r.Remove(a), "second remove must report false")
	assert.Equal(t, 1, r.Len())

	v, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.False(t, r.Remove(b))

	_, ok = r.Pop()
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestStaleIDDoesNotRemoveReusedSlot(t *testing.T) {
	var r Registry[int]

	old := r.Add(1)
	require.True(t, r.Remove(old))

	fresh := r.Add(2)
	assert.Equal(t, old.slot, fresh.slot, "slot should be reused")
	assert.False(t, r.Remove(old), "stale ID removed a reused slot")
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Remove(fresh))
}

func TestZeroIDIsInvalid(t *testing.T) {
	var r Registry[int]
	r.Add(1)

	var id ID
	assert.False(t, id.Valid())
	assert.False(t, r.Remove(id))
	assert.False(t, r.Remove(ID{slot: 9, gen: 1}))
	assert.Equal(t, 1, r.Len())
}

// node mimics a handle that unregisters itself from its parent on close.
type node struct {
	parent *Registry[*node]
	id     ID
	closed bool
}

func (n *node) close() {
	n.closed = true
	n.parent.Remove(n.id)
}

func TestDrainWithSelfRemoval(t *testing.T) {
	var r Registry[*node]
	nodes := make([]*node, 5)
	for i := range nodes {
		n := &node{parent: &r}
		n.id = r.Add(n)
		nodes[i] = n
	}

	// A child closed by someone else before the drain.
	nodes[2].close()

	for {
		n, ok := r.Pop()
		if !ok {
			break
		}
		n.close()
	}

	assert.Zero(t, r.Len())
	for i, n := range nodes {
		assert.True(t, n.closed, "node %d not closed", i)
	}
}
