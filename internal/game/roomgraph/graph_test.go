package roomgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultCorridorCap(t *testing.T) {
	assert.Equal(t, DefaultMaxChildCorridors, New(0).MaxChildCorridors())
	assert.Equal(t, 2, New(2).MaxChildCorridors())
}

func TestGraph_AddNode(t *testing.T) {
	c := testCatalog(t)
	g := New(3)

	n, err := g.AddNode(Position{X: 10, Y: 20}, mustType(t, c, typeRoom))
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID())
	assert.Equal(t, Position{X: 10, Y: 20}, n.Position())
	assert.Equal(t, typeRoom, n.Type().Name)
	assert.Empty(t, n.ParentIDs())
	assert.Empty(t, n.ChildIDs())
	assert.Equal(t, 1, g.Len())

	got, ok := g.GetNode(n.ID())
	require.True(t, ok)
	assert.Same(t, n, got)
}

func TestGraph_AddNode_NilType(t *testing.T) {
	g := New(3)
	_, err := g.AddNode(Position{}, nil)
	assert.ErrorIs(t, err, ErrNilRoomType)
	assert.Equal(t, 0, g.Len())
}

func TestGraph_AddNode_UniqueIDs(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := mustAdd(t, g, c, typeRoom)
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestGraph_GetNode_Absent(t *testing.T) {
	n, ok := New(3).GetNode("missing")
	assert.False(t, ok)
	assert.Nil(t, n)
}

func TestGraph_ZeroValuePanics(t *testing.T) {
	var g Graph
	assert.PanicsWithValue(t, ErrNotIndexed, func() { g.GetNode("x") })
	assert.PanicsWithValue(t, ErrNotIndexed, func() { g.CanConnect("a", "b") })
	assert.PanicsWithValue(t, ErrNotIndexed, func() { g.RemoveNode("x") })
}

func TestGraph_NodesPreservesOrder(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	a := mustAdd(t, g, c, typeEntrance)
	b := mustAdd(t, g, c, typeCorridor)
	d := mustAdd(t, g, c, typeRoom)

	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID())
	}
	assert.Equal(t, []string{a, b, d}, ids)
}

func TestGraph_EntranceCorridorRoomScenario(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	e := mustAdd(t, g, c, typeEntrance)
	cor := mustAdd(t, g, c, typeCorridor)
	r := mustAdd(t, g, c, typeRoom)

	assert.True(t, g.Connect(e, cor))
	assert.True(t, g.Connect(cor, r))
	assert.False(t, g.Connect(e, r))
	assert.Equal(t, RuleTargetHasParent, g.Check(e, r))

	assert.Equal(t, []string{cor}, node(t, g, e).ChildIDs())
	assert.Equal(t, []string{e}, node(t, g, cor).ParentIDs())
	assert.Equal(t, []string{r}, node(t, g, cor).ChildIDs())
	assert.Equal(t, []string{cor}, node(t, g, r).ParentIDs())

	require.True(t, g.RemoveNode(cor))
	assert.NotContains(t, node(t, g, e).ChildIDs(), cor)
	assert.NotContains(t, node(t, g, r).ParentIDs(), cor)
	_, ok := g.GetNode(cor)
	assert.False(t, ok)
	assert.Equal(t, 2, g.Len())
}

func TestGraph_ConnectTwiceDoesNotDuplicate(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	e := mustAdd(t, g, c, typeEntrance)
	cor := mustAdd(t, g, c, typeCorridor)

	require.True(t, g.Connect(e, cor))
	assert.False(t, g.CanConnect(e, cor))
	assert.False(t, g.Connect(e, cor))
	assert.Equal(t, []string{cor}, node(t, g, e).ChildIDs())
	assert.Equal(t, []string{e}, node(t, g, cor).ParentIDs())
}

func TestGraph_ConnectRejectionLeavesNoPartialEdge(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	a := mustAdd(t, g, c, typeCorridor)
	b := mustAdd(t, g, c, typeCorridor)

	assert.False(t, g.Connect(a, b))
	assert.Empty(t, node(t, g, a).ChildIDs())
	assert.Empty(t, node(t, g, b).ParentIDs())
}

func TestGraph_Disconnect(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	e := mustAdd(t, g, c, typeEntrance)
	cor := mustAdd(t, g, c, typeCorridor)
	require.True(t, g.Connect(e, cor))

	assert.True(t, g.Disconnect(e, cor))
	assert.Empty(t, node(t, g, e).ChildIDs())
	assert.Empty(t, node(t, g, cor).ParentIDs())

	assert.False(t, g.Disconnect(e, cor), "missing edge is a no-op")
	assert.False(t, g.Disconnect("ghost", cor))

	// The corridor is free to be re-parented.
	assert.True(t, g.Connect(e, cor))
}

func TestGraph_RemoveNode_Unknown(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	mustAdd(t, g, c, typeRoom)
	assert.False(t, g.RemoveNode("ghost"))
	assert.Equal(t, 1, g.Len())
}

func TestGraph_RemoveNode_EntranceIsCallerPolicy(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	e := mustAdd(t, g, c, typeEntrance)
	assert.True(t, g.RemoveNode(e))
	assert.Equal(t, 0, g.Len())
}

func TestGraph_RemoveNode_ClearsOneSidedReferences(t *testing.T) {
	c := testCatalog(t)
	g, err := FromRecords(c, 3, []Record{
		{ID: "e", Type: typeEntrance, ChildIDs: []string{"c"}},
		{ID: "c", Type: typeCorridor},
	})
	require.NoError(t, err)

	require.True(t, g.RemoveNode("c"))
	assert.Empty(t, node(t, g, "e").ChildIDs())
}

func TestGraph_DanglingReferencesAreTolerated(t *testing.T) {
	c := testCatalog(t)
	g, err := FromRecords(c, 3, []Record{
		{ID: "e", Type: typeEntrance, ChildIDs: []string{"gone"}},
		{ID: "r", Type: typeRoom, ParentIDs: []string{"gone"}},
	})
	require.NoError(t, err)

	assert.True(t, g.RemoveNode("e"))
	assert.True(t, g.Disconnect("gone", "r"))
	assert.Empty(t, node(t, g, "r").ParentIDs())
	assert.False(t, g.CanConnect("gone", "r"))
}

func TestGraph_Reindex(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	id := mustAdd(t, g, c, typeRoom)

	g.index = make(map[string]*RoomNode)
	_, ok := g.GetNode(id)
	require.False(t, ok)

	g.Reindex()
	_, ok = g.GetNode(id)
	assert.True(t, ok)
}

func TestGraph_MoveNode(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	n, err := g.AddNode(Position{X: 1, Y: 1}, mustType(t, c, typeRoom))
	require.NoError(t, err)

	assert.True(t, g.MoveNode(n.ID(), Position{X: 4, Y: -1}))
	assert.Equal(t, Position{X: 5, Y: 0}, n.Position())
	assert.False(t, g.MoveNode("ghost", Position{X: 1}))
}

func TestGraph_ChangeType(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	e := mustAdd(t, g, c, typeEntrance)
	n := mustAdd(t, g, c, typeNone)

	ok, err := g.ChangeType(n, mustType(t, c, typeCorridor))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, typeCorridor, node(t, g, n).Type().Name)

	ok, err = g.ChangeType(e, mustType(t, c, typeRoom))
	require.NoError(t, err)
	assert.False(t, ok, "entrances keep their type")

	_, err = g.ChangeType(n, nil)
	assert.ErrorIs(t, err, ErrNilRoomType)

	ok, err = g.ChangeType("ghost", mustType(t, c, typeRoom))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGraph_ChangeType_ParentedNodeIsFixed(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	e := mustAdd(t, g, c, typeEntrance)
	cor := mustAdd(t, g, c, typeCorridor)
	require.True(t, g.Connect(e, cor))

	ok, err := g.ChangeType(cor, mustType(t, c, typeCorridorNS))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGraph_ChangeType_FlippingCorridorDropsChildren(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	r := mustAdd(t, g, c, typeRoom)
	cor := mustAdd(t, g, c, typeCorridor)
	require.True(t, g.Connect(r, cor))

	ok, err := g.ChangeType(r, mustType(t, c, typeCorridorNS))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, node(t, g, r).ChildIDs())
	assert.Empty(t, node(t, g, cor).ParentIDs())
}

func TestGraph_ChangeType_CorridorVariantKeepsChildren(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	cor := mustAdd(t, g, c, typeCorridor)
	r := mustAdd(t, g, c, typeRoom)
	require.True(t, g.Connect(cor, r))

	ok, err := g.ChangeType(cor, mustType(t, c, typeCorridorNS))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{r}, node(t, g, cor).ChildIDs())
}

func TestGraph_ChangeType_BecomingBossDropsChildren(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	r := mustAdd(t, g, c, typeRoom)
	cor := mustAdd(t, g, c, typeCorridor)
	require.True(t, g.Connect(r, cor))

	ok, err := g.ChangeType(r, mustType(t, c, typeBoss))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, node(t, g, r).ChildIDs())
}

func TestGraph_ChangeType_ClearingToNoneDropsChildren(t *testing.T) {
	c := testCatalog(t)
	g := New(3)
	r := mustAdd(t, g, c, typeRoom)
	cor := mustAdd(t, g, c, typeCorridor)
	require.True(t, g.Connect(r, cor))

	ok, err := g.ChangeType(r, mustType(t, c, typeNone))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, node(t, g, r).ChildIDs())
	assert.Empty(t, node(t, g, cor).ParentIDs())
}
