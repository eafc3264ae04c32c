package tree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(v int64) *int64 { return &v }

// shoes(1) > boots(3), trainers(4) > running(5); clothing(2) is a second root.
func sampleNodes() []Node {
	return []Node{
		{ID: 1, Name: "Shoes"},
		{ID: 2, Name: "Clothing"},
		{ID: 3, ParentID: id(1), Name: "Boots"},
		{ID: 4, ParentID: id(1), Name: "Trainers"},
		{ID: 5, ParentID: id(4), Name: "Running"},
	}
}

func TestBuild_NameOrderedNestedSets(t *testing.T) {
	pos, err := Build(sampleNodes())
	require.NoError(t, err)

	assert.Equal(t, Position{TreeID: 1, Left: 1, Right: 2, Depth: 0}, pos[2])
	assert.Equal(t, Position{TreeID: 2, Left: 1, Right: 8, Depth: 0}, pos[1])
	assert.Equal(t, Position{TreeID: 2, Left: 2, Right: 3, Depth: 1}, pos[3])
	assert.Equal(t, Position{TreeID: 2, Left: 4, Right: 7, Depth: 1}, pos[4])
	assert.Equal(t, Position{TreeID: 2, Left: 5, Right: 6, Depth: 2}, pos[5])
}

func TestBuild_IndependentOfInsertionOrder(t *testing.T) {
	want, err := Build(sampleNodes())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		nodes := sampleNodes()
		rng.Shuffle(len(nodes), func(a, b int) { nodes[a], nodes[b] = nodes[b], nodes[a] })
		got, err := Build(nodes)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBuild_SiblingNameTieBrokenByID(t *testing.T) {
	pos, err := Build([]Node{
		{ID: 10, Name: "Root"},
		{ID: 12, ParentID: id(10), Name: "Same"},
		{ID: 11, ParentID: id(10), Name: "Same"},
	})
	require.NoError(t, err)
	assert.Less(t, pos[11].Left, pos[12].Left)
}

func TestBuild_Containment(t *testing.T) {
	pos, err := Build(sampleNodes())
	require.NoError(t, err)

	assert.True(t, pos[1].Contains(pos[5]))
	assert.True(t, pos[4].Contains(pos[5]))
	assert.False(t, pos[3].Contains(pos[5]))
	assert.False(t, pos[2].Contains(pos[5]))
	assert.False(t, pos[5].Contains(pos[5]))
}

func TestBuild_UnknownParent(t *testing.T) {
	_, err := Build([]Node{{ID: 1, ParentID: id(99), Name: "Orphan"}})
	assert.ErrorIs(t, err, ErrUnknownParent)
}

func TestBuild_DetectsCycle(t *testing.T) {
	_, err := Build([]Node{
		{ID: 1, ParentID: id(2), Name: "A"},
		{ID: 2, ParentID: id(1), Name: "B"},
		{ID: 3, Name: "Root"},
	})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuild_Empty(t *testing.T) {
	pos, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, pos)
}

func TestReparent_RejectsMoveUnderDescendant(t *testing.T) {
	_, err := Reparent(sampleNodes(), 1, id(5))
	assert.ErrorIs(t, err, ErrCycle)

	_, err = Reparent(sampleNodes(), 4, id(4))
	assert.ErrorIs(t, err, ErrCycle)
}

func TestReparent_UnknownIDs(t *testing.T) {
	_, err := Reparent(sampleNodes(), 42, nil)
	assert.ErrorIs(t, err, ErrUnknownNode)

	_, err = Reparent(sampleNodes(), 1, id(42))
	assert.ErrorIs(t, err, ErrUnknownParent)
}

func TestReparent_ToRootAndChanged(t *testing.T) {
	nodes := sampleNodes()
	before, err := Build(nodes)
	require.NoError(t, err)

	moved, err := Reparent(nodes, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), *nodes[4].ParentID, "input must not be modified")

	after, err := Build(moved)
	require.NoError(t, err)

	assert.Equal(t, Position{TreeID: 2, Left: 1, Right: 2, Depth: 0}, after[5])
	assert.Equal(t, Position{TreeID: 3, Left: 1, Right: 6, Depth: 0}, after[1])
	assert.Equal(t, []int64{1, 3, 4, 5}, Changed(before, after))
}

func TestReparent_UnderOtherRoot(t *testing.T) {
	moved, err := Reparent(sampleNodes(), 4, id(2))
	require.NoError(t, err)

	pos, err := Build(moved)
	require.NoError(t, err)
	assert.True(t, pos[2].Contains(pos[4]))
	assert.True(t, pos[2].Contains(pos[5]))
	assert.Equal(t, 2, pos[5].Depth)
	assert.Equal(t, Position{TreeID: 2, Left: 1, Right: 4, Depth: 0}, pos[1])
}
