package roomtype

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog files.
type yamlCatalogFile struct {
	RoomTypes []yamlRoomType `yaml:"room_types"`
}

// yamlRoomType is the YAML representation of a room type.
// Displayable defaults to true when omitted.
type yamlRoomType struct {
	Name         string `yaml:"name"`
	Displayable  *bool  `yaml:"displayable"`
	IsCorridor   bool   `yaml:"corridor"`
	IsCorridorNS bool   `yaml:"corridor_ns"`
	IsCorridorEW bool   `yaml:"corridor_ew"`
	IsEntrance   bool   `yaml:"entrance"`
	IsBossRoom   bool   `yaml:"boss_room"`
	IsNone       bool   `yaml:"none"`
}

// LoadCatalogFromFile reads and validates a room type catalog YAML file.
//
// Precondition: path must point to a YAML catalog file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading room type catalog %s: %w", path, err)
	}
	c, err := LoadCatalogFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading room type catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadCatalogFromBytes parses and validates a room type catalog from YAML bytes.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing room type catalog YAML: %w", err)
	}

	types := make([]*RoomType, 0, len(file.RoomTypes))
	for _, yt := range file.RoomTypes {
		displayable := true
		if yt.Displayable != nil {
			displayable = *yt.Displayable
		}
		types = append(types, &RoomType{
			Name:         strings.TrimSpace(yt.Name),
			Displayable:  displayable,
			IsCorridor:   yt.IsCorridor,
			IsCorridorNS: yt.IsCorridorNS,
			IsCorridorEW: yt.IsCorridorEW,
			IsEntrance:   yt.IsEntrance,
			IsBossRoom:   yt.IsBossRoom,
			IsNone:       yt.IsNone,
		})
	}

	return NewCatalog(types)
}
