// Package brush provides tile-layer brushes driven by an external grid
// editing host.
package brush

import "fmt"

// Vec3 is an integer cell coordinate; Z selects the tile layer.
type Vec3 struct {
	X, Y, Z int
}

// String formats v as "(x, y, z)".
func (v Vec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// Bounds is an axis-aligned box of cells anchored at Min.
type Bounds struct {
	Min  Vec3
	Size Vec3
}

// Brush is the capability set a grid editor invokes for user gestures. The
// grid editor's own default brush, which writes the tile data, satisfies it
// too, so brushes can wrap one another.
type Brush interface {
	Paint(pos Vec3) error
	Erase(pos Vec3) error
	FloodFill(pos Vec3) error
	BoxFill(area Bounds) error
}

// CoordinateBrush pins every gesture to a fixed tile layer Z before handing
// it to the wrapped brush.
type CoordinateBrush struct {
	Z    int
	host Brush
}

var _ Brush = (*CoordinateBrush)(nil)

// NewCoordinateBrush creates a brush painting on layer z through host.
//
// Precondition: host must be non-nil.
func NewCoordinateBrush(host Brush, z int) *CoordinateBrush {
	return &CoordinateBrush{Z: z, host: host}
}

// Paint paints the cell at pos on the brush layer.
func (b *CoordinateBrush) Paint(pos Vec3) error {
	return b.host.Paint(b.onLayer(pos))
}

// Erase erases the cell at pos on the brush layer.
func (b *CoordinateBrush) Erase(pos Vec3) error {
	return b.host.Erase(b.onLayer(pos))
}

// FloodFill flood fills from pos on the brush layer.
func (b *CoordinateBrush) FloodFill(pos Vec3) error {
	return b.host.FloodFill(b.onLayer(pos))
}

// BoxFill fills area with its anchor moved to the brush layer; the size is kept.
func (b *CoordinateBrush) BoxFill(area Bounds) error {
	area.Min = b.onLayer(area.Min)
	return b.host.BoxFill(area)
}

// Label returns the preview text shown next to the cursor: the anchor cell
// on the brush layer, plus the box size when more than one cell is covered.
func (b *CoordinateBrush) Label(area Bounds) string {
	label := "Pos: " + b.onLayer(area.Min).String()
	if area.Size.X > 1 || area.Size.Y > 1 {
		label += fmt.Sprintf(" Size: (%d, %d)", area.Size.X, area.Size.Y)
	}
	return label
}

// Outline returns the four corners of area on the brush layer in drawing
// order, or nil when the brush paints layer 0 and no outline is needed.
func (b *CoordinateBrush) Outline(area Bounds) []Vec3 {
	if b.Z == 0 {
		return nil
	}
	minX, minY := area.Min.X, area.Min.Y
	maxX, maxY := minX+area.Size.X, minY+area.Size.Y
	return []Vec3{
		{X: minX, Y: minY, Z: b.Z},
		{X: maxX, Y: minY, Z: b.Z},
		{X: maxX, Y: maxY, Z: b.Z},
		{X: minX, Y: maxY, Z: b.Z},
	}
}

func (b *CoordinateBrush) onLayer(pos Vec3) Vec3 {
	return Vec3{X: pos.X, Y: pos.Y, Z: b.Z}
}
