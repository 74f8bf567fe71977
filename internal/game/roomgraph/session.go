package roomgraph

import (
	"fmt"

	"github.com/cory-johannsen/roomgraph/internal/game/roomtype"
)

// Template layout used by CreateTemplate.
const (
	TemplateColumns  = 8
	TemplateRows     = 5
	TemplateSpacingX = 230
	TemplateSpacingY = 185
)

// EntranceStart is where the entrance is placed when the first node of an
// empty graph is created.
var EntranceStart = Position{X: 200, Y: 200}

// Session composes an Editor with the room type catalog and a node selection,
// providing the gestures of the authoring tool.
type Session struct {
	graph    Editor
	catalog  *roomtype.Catalog
	selected map[string]bool
}

// NewSession creates a Session editing graph with types from catalog.
//
// Precondition: graph and catalog must be non-nil; catalog must be valid.
func NewSession(graph Editor, catalog *roomtype.Catalog) *Session {
	return &Session{
		graph:    graph,
		catalog:  catalog,
		selected: make(map[string]bool),
	}
}

// Graph returns the edited graph.
func (s *Session) Graph() Editor { return s.graph }

// Catalog returns the session's room type catalog.
func (s *Session) Catalog() *roomtype.Catalog { return s.catalog }

// CreateNode adds an unassigned node at pos. On an empty graph the entrance
// node is created first at EntranceStart.
//
// Postcondition: Returns the unassigned node.
func (s *Session) CreateNode(pos Position) (*RoomNode, error) {
	if s.graph.Len() == 0 {
		if _, err := s.graph.AddNode(EntranceStart, s.catalog.Entrance()); err != nil {
			return nil, fmt.Errorf("creating entrance: %w", err)
		}
	}
	return s.graph.AddNode(pos, s.catalog.None())
}

// CreateTemplate lays out a TemplateColumns x TemplateRows grid of nodes
// starting at origin: the first is the entrance, the rest are unassigned.
//
// Postcondition: Returns the created nodes, or nil when the graph is not empty.
func (s *Session) CreateTemplate(origin Position) ([]*RoomNode, error) {
	if s.graph.Len() > 0 {
		return nil, nil
	}
	nodes := make([]*RoomNode, 0, TemplateColumns*TemplateRows)
	for i := 0; i < TemplateColumns; i++ {
		for j := 0; j < TemplateRows; j++ {
			rt := s.catalog.None()
			if i == 0 && j == 0 {
				rt = s.catalog.Entrance()
			}
			pos := origin.Add(Position{X: float64(TemplateSpacingX * i), Y: float64(TemplateSpacingY * j)})
			n, err := s.graph.AddNode(pos, rt)
			if err != nil {
				return nil, fmt.Errorf("creating template node %d,%d: %w", i, j, err)
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// ChangeType assigns the named catalog type to a node. Only types offered
// in the editor's type list may be chosen.
//
// Postcondition: Returns an error for unknown or non-displayable type names;
// (false, nil) when the graph refuses the change.
func (s *Session) ChangeType(id, typeName string) (bool, error) {
	rt, ok := s.catalog.Lookup(typeName)
	if !ok {
		return false, fmt.Errorf("unknown room type %q", typeName)
	}
	if !rt.Displayable {
		return false, fmt.Errorf("room type %q: %w", typeName, ErrTypeNotSelectable)
	}
	return s.graph.ChangeType(id, rt)
}

// Select toggles a node's selection state.
//
// Postcondition: Returns the new selection state; false for unknown nodes.
func (s *Session) Select(id string) bool {
	if _, ok := s.graph.GetNode(id); !ok {
		return false
	}
	s.selected[id] = !s.selected[id]
	if !s.selected[id] {
		delete(s.selected, id)
	}
	return s.selected[id]
}

// Deselect clears a node's selection state.
func (s *Session) Deselect(id string) {
	delete(s.selected, id)
}

// SelectAll marks every node selected.
func (s *Session) SelectAll() {
	for _, n := range s.graph.Nodes() {
		s.selected[n.ID()] = true
	}
}

// ClearSelection deselects every node.
func (s *Session) ClearSelection() {
	clear(s.selected)
}

// IsSelected reports whether id is selected.
func (s *Session) IsSelected(id string) bool { return s.selected[id] }

// Selected returns the selected node ids in graph order.
func (s *Session) Selected() []string {
	var ids []string
	for _, n := range s.graph.Nodes() {
		if s.selected[n.ID()] {
			ids = append(ids, n.ID())
		}
	}
	return ids
}

// RemoveNode deletes a node and its edges. Entrances cannot be deleted from
// the authoring tool.
//
// Postcondition: Returns false for unknown ids and entrances, leaving the
// graph unchanged.
func (s *Session) RemoveNode(id string) bool {
	n, ok := s.graph.GetNode(id)
	if !ok || n.Type().IsEntrance {
		return false
	}
	if !s.graph.RemoveNode(id) {
		return false
	}
	delete(s.selected, id)
	return true
}

// DeleteSelectedNodes removes every selected node except entrances.
//
// Postcondition: Returns the number of nodes removed.
func (s *Session) DeleteSelectedNodes() int {
	removed := 0
	for _, id := range s.Selected() {
		if s.RemoveNode(id) {
			removed++
		}
	}
	return removed
}

// DeleteSelectedLinks removes every edge whose endpoints are both selected,
// then clears the selection.
//
// Postcondition: Returns the number of edges removed.
func (s *Session) DeleteSelectedLinks() int {
	removed := 0
	for _, id := range s.Selected() {
		n, ok := s.graph.GetNode(id)
		if !ok {
			continue
		}
		for _, cid := range n.ChildIDs() {
			if s.selected[cid] && s.graph.Disconnect(id, cid) {
				removed++
			}
		}
	}
	s.ClearSelection()
	return removed
}

// Checkpoint captures the graph so a later Rollback can restore it.
func (s *Session) Checkpoint() []Record {
	return s.graph.Records()
}

// Rollback replaces the edited graph with one rebuilt from a Checkpoint.
// Selections of nodes absent from the checkpoint are dropped.
//
// Postcondition: Graph returns the rebuilt graph; values obtained from Graph
// before the call no longer reflect the session.
func (s *Session) Rollback(records []Record) error {
	g, err := FromRecords(s.catalog, s.graph.MaxChildCorridors(), records)
	if err != nil {
		return fmt.Errorf("rolling back: %w", err)
	}
	s.graph = g
	for id := range s.selected {
		if _, ok := g.GetNode(id); !ok {
			delete(s.selected, id)
		}
	}
	return nil
}
