package roomgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
)

const (
	typeNone       = "None"
	typeEntrance   = "Entrance"
	typeCorridor   = "Corridor"
	typeCorridorNS = "CorridorNS"
	typeRoom       = "Small Room"
	typeBoss       = "Boss Room"
)

func testCatalog(t testing.TB) *roomtype.Catalog {
	t.Helper()
	c, err := roomtype.NewCatalog([]*roomtype.RoomType{
		{Name: typeNone, IsNone: true},
		{Name: typeEntrance, IsEntrance: true, Displayable: true},
		{Name: typeCorridor, IsCorridor: true, Displayable: true},
		{Name: typeCorridorNS, IsCorridorNS: true},
		{Name: typeRoom, Displayable: true},
		{Name: typeBoss, IsBossRoom: true, Displayable: true},
	})
	require.NoError(t, err)
	return c
}

func mustType(t testing.TB, c *roomtype.Catalog, name string) *roomtype.RoomType {
	t.Helper()
	rt, ok := c.Lookup(name)
	require.True(t, ok, "room type %q", name)
	return rt
}

func mustAdd(t testing.TB, g *Graph, c *roomtype.Catalog, name string) string {
	t.Helper()
	n, err := g.AddNode(Position{}, mustType(t, c, name))
	require.NoError(t, err)
	return n.ID()
}

func node(t testing.TB, g *Graph, id string) *RoomNode {
	t.Helper()
	n, ok := g.GetNode(id)
	require.True(t, ok, "node %q", id)
	return n
}
