package brush

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type recordingHost struct {
	painted []Vec3
	erased  []Vec3
	flooded []Vec3
	boxes   []Bounds
	err     error
}

func (h *recordingHost) Paint(pos Vec3) error {
	h.painted = append(h.painted, pos)
	return h.err
}

func (h *recordingHost) Erase(pos Vec3) error {
	h.erased = append(h.erased, pos)
	return h.err
}

func (h *recordingHost) FloodFill(pos Vec3) error {
	h.flooded = append(h.flooded, pos)
	return h.err
}

func (h *recordingHost) BoxFill(area Bounds) error {
	h.boxes = append(h.boxes, area)
	return h.err
}

func TestCoordinateBrush_PinsLayer(t *testing.T) {
	host := &recordingHost{}
	b := NewCoordinateBrush(host, 3)

	require.NoError(t, b.Paint(Vec3{X: 1, Y: 2, Z: 9}))
	require.NoError(t, b.Erase(Vec3{X: 4, Y: 5}))
	require.NoError(t, b.FloodFill(Vec3{X: -1, Y: 0, Z: -7}))
	require.NoError(t, b.BoxFill(Bounds{Min: Vec3{X: 2, Y: 2}, Size: Vec3{X: 3, Y: 4, Z: 1}}))

	assert.Equal(t, []Vec3{{X: 1, Y: 2, Z: 3}}, host.painted)
	assert.Equal(t, []Vec3{{X: 4, Y: 5, Z: 3}}, host.erased)
	assert.Equal(t, []Vec3{{X: -1, Y: 0, Z: 3}}, host.flooded)
	assert.Equal(t, []Bounds{{Min: Vec3{X: 2, Y: 2, Z: 3}, Size: Vec3{X: 3, Y: 4, Z: 1}}}, host.boxes)
}

func TestCoordinateBrush_PropagatesHostErrors(t *testing.T) {
	boom := errors.New("locked layer")
	b := NewCoordinateBrush(&recordingHost{err: boom}, 1)
	assert.ErrorIs(t, b.Paint(Vec3{}), boom)
	assert.ErrorIs(t, b.BoxFill(Bounds{}), boom)
}

func TestCoordinateBrush_Label(t *testing.T) {
	b := NewCoordinateBrush(&recordingHost{}, 2)
	assert.Equal(t, "Pos: (4, 5, 2)", b.Label(Bounds{Min: Vec3{X: 4, Y: 5}, Size: Vec3{X: 1, Y: 1}}))
	assert.Equal(t, "Pos: (4, 5, 2) Size: (3, 1)", b.Label(Bounds{Min: Vec3{X: 4, Y: 5}, Size: Vec3{X: 3, Y: 1}}))
}

func TestCoordinateBrush_Outline(t *testing.T) {
	assert.Nil(t, NewCoordinateBrush(&recordingHost{}, 0).Outline(Bounds{Size: Vec3{X: 2, Y: 2}}))

	corners := NewCoordinateBrush(&recordingHost{}, 1).Outline(Bounds{Min: Vec3{X: 1, Y: 1}, Size: Vec3{X: 2, Y: 3}})
	assert.Equal(t, []Vec3{{1, 1, 1}, {3, 1, 1}, {3, 4, 1}, {1, 4, 1}}, corners)
}

func TestPropertyPaintedCellsLandOnBrushLayer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		z := rapid.IntRange(-8, 8).Draw(t, "z")
		pos := Vec3{
			X: rapid.IntRange(-100, 100).Draw(t, "x"),
			Y: rapid.IntRange(-100, 100).Draw(t, "y"),
			Z: rapid.IntRange(-8, 8).Draw(t, "pz"),
		}
		host := &recordingHost{}
		if err := NewCoordinateBrush(host, z).Paint(pos); err != nil {
			t.Fatalf("paint: %v", err)
		}
		got := host.painted[0]
		if got.Z != z || got.X != pos.X || got.Y != pos.Y {
			t.Fatalf("painted %v, want (%d, %d, %d)", got, pos.X, pos.Y, z)
		}
	})
}
