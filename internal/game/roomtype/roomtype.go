// Package roomtype provides the room-type catalog: the fixed list of room
// node types (entrance, corridor, boss room, none, ...) a dungeon graph may use.
package roomtype

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCatalog is returned when a catalog contains no room types.
var ErrEmptyCatalog = errors.New("room type catalog is empty")

// RoomType describes the adjacency capabilities of a room node.
// Values are immutable after the catalog is loaded.
type RoomType struct {
	// Name is the display name and the persisted reference key.
	Name string
	// Displayable marks types offered to the user when assigning a node's type.
	Displayable bool
	// IsCorridor marks a generic corridor.
	IsCorridor bool
	// IsCorridorNS marks a north-south corridor variant.
	IsCorridorNS bool
	// IsCorridorEW marks an east-west corridor variant.
	IsCorridorEW bool
	// IsEntrance marks the root room type.
	IsEntrance bool
	// IsBossRoom marks a boss room.
	IsBossRoom bool
	// IsNone marks the unassigned placeholder type.
	IsNone bool
}

// Corridor reports whether t has any corridor capability. Corridor
// sub-variants are treated as one capability by the adjacency rules.
func (t *RoomType) Corridor() bool {
	return t.IsCorridor || t.IsCorridorNS || t.IsCorridorEW
}

// String returns the type name.
func (t *RoomType) String() string {
	return t.Name
}

// Catalog is the ordered, read-only list of room types available to a graph.
type Catalog struct {
	types  []*RoomType
	byName map[string]*RoomType
}

// NewCatalog builds a Catalog from types and validates it.
//
// Postcondition: Returns a valid Catalog or a non-nil error describing every violation.
func NewCatalog(types []*RoomType) (*Catalog, error) {
	c := &Catalog{
		types:  types,
		byName: make(map[string]*RoomType, len(types)),
	}
	for _, t := range types {
		if t != nil {
			c.byName[t.Name] = t
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks catalog invariants: at least one type, no nil or unnamed
// types, unique names, exactly one entrance and exactly one none type.
//
// Postcondition: Returns nil if valid, or an error listing all violations.
func (c *Catalog) Validate() error {
	if len(c.types) == 0 {
		return ErrEmptyCatalog
	}

	var errs []string
	seen := make(map[string]bool, len(c.types))
	entrances, nones := 0, 0
	for i, t := range c.types {
		if t == nil {
			errs = append(errs, fmt.Sprintf("room_types[%d] is nil", i))
			continue
		}
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Sprintf("room_types[%d]: name must not be empty", i))
		} else if seen[t.Name] {
			errs = append(errs, fmt.Sprintf("room_types[%d]: duplicate name %q", i, t.Name))
		}
		seen[t.Name] = true
		if t.IsEntrance {
			entrances++
		}
		if t.IsNone {
			nones++
		}
	}
	if entrances != 1 {
		errs = append(errs, fmt.Sprintf("exactly one entrance type required, got %d", entrances))
	}
	if nones != 1 {
		errs = append(errs, fmt.Sprintf("exactly one none type required, got %d", nones))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid room type catalog: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Lookup returns the room type with the given name.
//
// Postcondition: Returns (type, true) if found, or (nil, false) otherwise.
func (c *Catalog) Lookup(name string) (*RoomType, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Entrance returns the catalog's entrance type.
func (c *Catalog) Entrance() *RoomType {
	return c.find(func(t *RoomType) bool { return t.IsEntrance })
}

// None returns the catalog's unassigned placeholder type.
func (c *Catalog) None() *RoomType {
	return c.find(func(t *RoomType) bool { return t.IsNone })
}

// All returns the room types in catalog order.
//
// Postcondition: The returned slice is a copy; mutating it does not affect the catalog.
func (c *Catalog) All() []*RoomType {
	out := make([]*RoomType, len(c.types))
	copy(out, c.types)
	return out
}

// DisplayNames returns the names of all displayable types in catalog order.
func (c *Catalog) DisplayNames() []string {
	var names []string
	for _, t := range c.types {
		if t.Displayable {
			names = append(names, t.Name)
		}
	}
	return names
}

// Len returns the number of room types.
func (c *Catalog) Len() int {
	return len(c.types)
}

func (c *Catalog) find(match func(*RoomType) bool) *RoomType {
	for _, t := range c.types {
		if match(t) {
			return t
		}
	}
	return nil
}
