package roomgraph

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
)

// Record is the persisted form of a room node. Type references the room
// type by catalog name.
type Record struct {
	ID        string   `yaml:"id"`
	Type      string   `yaml:"type"`
	Position  Position `yaml:"position"`
	ParentIDs []string `yaml:"parents,omitempty"`
	ChildIDs  []string `yaml:"children,omitempty"`
}

// Records enumerates the graph's nodes in order for saving.
func (g *Graph) Records() []Record {
	out := make([]Record, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, Record{
			ID:        n.id,
			Type:      n.roomType.Name,
			Position:  n.position,
			ParentIDs: slices.Clone(n.parentIDs),
			ChildIDs:  slices.Clone(n.childIDs),
		})
	}
	return out
}

// FromRecords bulk-constructs a graph from saved records and builds its index.
// Adjacency lists are restored as saved; references to ids absent from
// records are kept and tolerated as dangling.
//
// Precondition: catalog must be non-nil.
// Postcondition: Returns an indexed Graph, or an error when a record has an
// empty or duplicate id or names a type missing from catalog.
func FromRecords(catalog *roomtype.Catalog, maxChildCorridors int, records []Record) (*Graph, error) {
	g := New(maxChildCorridors)
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: id must not be empty", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("record %d: duplicate node id %q", i, r.ID)
		}
		seen[r.ID] = true

		rt, ok := catalog.Lookup(r.Type)
		if !ok {
			return nil, fmt.Errorf("node %q: unknown room type %q", r.ID, r.Type)
		}
		g.nodes = append(g.nodes, &RoomNode{
			id:        r.ID,
			roomType:  rt,
			position:  r.Position,
			parentIDs: slices.Clone(r.ParentIDs),
			childIDs:  slices.Clone(r.ChildIDs),
		})
	}
	g.Reindex()
	return g, nil
}
