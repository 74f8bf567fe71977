package roomgraph

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
)

// DefaultMaxChildCorridors is the corridor cap used when none is configured.
const DefaultMaxChildCorridors = 3

var (
	// ErrNilRoomType is returned when a node is created or retyped without a room type.
	ErrNilRoomType = errors.New("room type must not be nil")
	// ErrNotIndexed is the panic value for operations on a graph whose
	// lookup index was never established.
	ErrNotIndexed = errors.New("room graph used before its index was built")
	// ErrTypeNotSelectable is returned when a session retypes a node to a
	// type hidden from the editor's type list.
	ErrTypeNotSelectable = errors.New("room type is not selectable in the editor")
)

// Graph owns an ordered sequence of room nodes and an id index derived from it.
//
// Graph is not safe for concurrent use; callers serialise access.
type Graph struct {
	nodes             []*RoomNode
	index             map[string]*RoomNode
	maxChildCorridors int
}

// New creates an empty graph. A maxChildCorridors below 1 selects
// DefaultMaxChildCorridors.
//
// Postcondition: Returns an indexed, empty Graph.
func New(maxChildCorridors int) *Graph {
	if maxChildCorridors < 1 {
		maxChildCorridors = DefaultMaxChildCorridors
	}
	return &Graph{
		index:             make(map[string]*RoomNode),
		maxChildCorridors: maxChildCorridors,
	}
}

// MaxChildCorridors returns the configured corridor cap.
func (g *Graph) MaxChildCorridors() int { return g.maxChildCorridors }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the nodes in creation order.
//
// Postcondition: The slice is a copy; the nodes are shared with the graph.
func (g *Graph) Nodes() []*RoomNode {
	return slices.Clone(g.nodes)
}

// GetNode returns the node with the given id.
//
// Postcondition: Returns (node, true) if found, or (nil, false) when the node
// was removed or never existed.
func (g *Graph) GetNode(id string) (*RoomNode, bool) {
	g.mustBeIndexed()
	n, ok := g.index[id]
	return n, ok
}

// Reindex clears and rebuilds the id index from the node sequence.
// It must be called after nodes are bulk loaded.
func (g *Graph) Reindex() {
	g.index = make(map[string]*RoomNode, len(g.nodes))
	for _, n := range g.nodes {
		g.index[n.id] = n
	}
}

// AddNode creates a node of type rt at pos with a fresh id.
//
// Postcondition: Returns the new node, or ErrNilRoomType when rt is nil.
func (g *Graph) AddNode(pos Position, rt *roomtype.RoomType) (*RoomNode, error) {
	g.mustBeIndexed()
	if rt == nil {
		return nil, ErrNilRoomType
	}
	n := &RoomNode{
		id:       uuid.NewString(),
		roomType: rt,
		position: pos,
	}
	g.nodes = append(g.nodes, n)
	g.index[n.id] = n
	return n, nil
}

// RemoveNode deletes the node and strips its id from every other node's
// parent and child lists. Whether entrances may be deleted is the caller's
// policy; this method removes any node.
//
// Postcondition: Returns false and changes nothing when id is unknown.
func (g *Graph) RemoveNode(id string) bool {
	g.mustBeIndexed()
	n, ok := g.index[id]
	if !ok {
		return false
	}

	for _, pid := range n.parentIDs {
		if p, ok := g.index[pid]; ok {
			p.removeChild(id)
		}
	}
	for _, cid := range n.childIDs {
		if c, ok := g.index[cid]; ok {
			c.removeParent(id)
		}
	}

	kept := g.nodes[:0]
	for _, other := range g.nodes {
		if other == n {
			continue
		}
		// Catch one-sided references left by externally loaded data.
		other.removeChild(id)
		other.removeParent(id)
		kept = append(kept, other)
	}
	clear(g.nodes[len(kept):])
	g.nodes = kept
	delete(g.index, id)
	return true
}

// Connect adds the edge fromID -> toID if Check allows it. Both adjacency
// lists are updated together or not at all.
//
// Postcondition: Returns true if the edge was added.
func (g *Graph) Connect(fromID, toID string) bool {
	if !g.Check(fromID, toID).Allowed() {
		return false
	}
	from, to := g.index[fromID], g.index[toID]
	from.childIDs = append(from.childIDs, toID)
	to.parentIDs = append(to.parentIDs, fromID)
	return true
}

// Disconnect removes the edge fromID -> toID.
//
// Postcondition: Returns true if either side of the edge was present and has
// been removed; a missing edge is a no-op.
func (g *Graph) Disconnect(fromID, toID string) bool {
	g.mustBeIndexed()
	removed := false
	if from, ok := g.index[fromID]; ok {
		removed = from.removeChild(toID) || removed
	}
	if to, ok := g.index[toID]; ok {
		removed = to.removeParent(fromID) || removed
	}
	return removed
}

// MoveNode translates the node's position by delta.
//
// Postcondition: Returns false when id is unknown.
func (g *Graph) MoveNode(id string, delta Position) bool {
	g.mustBeIndexed()
	n, ok := g.index[id]
	if !ok {
		return false
	}
	n.position = n.position.Add(delta)
	return true
}

// ChangeType assigns rt to an unparented, non-entrance node. When the change
// switches the node between room and corridor, makes it a boss room or
// clears it to the placeholder type, its outgoing edges no longer satisfy the
// adjacency rules and are removed.
//
// Postcondition: Returns (false, nil) when the node is unknown, has a parent,
// or is an entrance; ErrNilRoomType when rt is nil.
func (g *Graph) ChangeType(id string, rt *roomtype.RoomType) (bool, error) {
	g.mustBeIndexed()
	if rt == nil {
		return false, ErrNilRoomType
	}
	n, ok := g.index[id]
	if !ok || len(n.parentIDs) > 0 || n.roomType.IsEntrance {
		return false, nil
	}

	prev := n.roomType
	n.roomType = rt
	if prev.Corridor() != rt.Corridor() || (!prev.IsBossRoom && rt.IsBossRoom) || rt.IsNone {
		for _, cid := range slices.Clone(n.childIDs) {
			g.Disconnect(id, cid)
		}
	}
	return true, nil
}

func (g *Graph) mustBeIndexed() {
	if g.index == nil {
		panic(ErrNotIndexed)
	}
}
