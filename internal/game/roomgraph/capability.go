package roomgraph

import "github.com/cory-johannsen/roomgraph/internal/game/roomtype"

// Reader is the always-available data model view of a graph: lookup,
// iteration and the edge predicate.
type Reader interface {
	Len() int
	MaxChildCorridors() int
	Nodes() []*RoomNode
	GetNode(id string) (*RoomNode, bool)
	Check(fromID, toID string) Rule
	CanConnect(fromID, toID string) bool
	Records() []Record
}

// Editor adds the mutating operations used only by the authoring tool.
type Editor interface {
	Reader
	AddNode(pos Position, rt *roomtype.RoomType) (*RoomNode, error)
	RemoveNode(id string) bool
	Connect(fromID, toID string) bool
	Disconnect(fromID, toID string) bool
	MoveNode(id string, delta Position) bool
	ChangeType(id string, rt *roomtype.RoomType) (bool, error)
	Reindex()
}

var (
	_ Reader = (*Graph)(nil)
	_ Editor = (*Graph)(nil)
)
