// Package roomgraph provides the dungeon room-node graph: a directed forest of
// room nodes rooted at entrances, whose edges are gated by room-type
// adjacency rules.
package roomgraph

import (
	"slices"

	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
)

// Position is the node's location on the authoring canvas. The graph stores
// it for persistence and display but never interprets it.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Add returns p translated by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// RoomNode is a single room in the graph. Parent and child ids are weak
// references; an id that no longer resolves is skipped by every operation.
type RoomNode struct {
	id        string
	roomType  *roomtype.RoomType
	position  Position
	parentIDs []string
	childIDs  []string
}

// ID returns the node's immutable identifier.
func (n *RoomNode) ID() string { return n.id }

// Type returns the node's room type.
func (n *RoomNode) Type() *roomtype.RoomType { return n.roomType }

// Position returns the node's canvas position.
func (n *RoomNode) Position() Position { return n.position }

// ParentIDs returns a copy of the node's parent ids.
func (n *RoomNode) ParentIDs() []string { return slices.Clone(n.parentIDs) }

// ChildIDs returns a copy of the node's child ids in insertion order.
func (n *RoomNode) ChildIDs() []string { return slices.Clone(n.childIDs) }

// HasParent reports whether id is among the node's parents.
func (n *RoomNode) HasParent(id string) bool { return slices.Contains(n.parentIDs, id) }

// HasChild reports whether id is among the node's children.
func (n *RoomNode) HasChild(id string) bool { return slices.Contains(n.childIDs, id) }

func (n *RoomNode) removeChild(id string) bool {
	i := slices.Index(n.childIDs, id)
	if i < 0 {
		return false
	}
	n.childIDs = slices.Delete(n.childIDs, i, i+1)
	return true
}

func (n *RoomNode) removeParent(id string) bool {
	i := slices.Index(n.parentIDs, id)
	if i < 0 {
		return false
	}
	n.parentIDs = slices.Delete(n.parentIDs, i, i+1)
	return true
}
