// Package shape defines renderable geometry as a composable tree.
//
// A Shape is a leaf mesh: vertices, faces that index into them, and one
// colour per face. A MultiShape places other nodes (leaves or composites) at
// an offset and orientation. The same node may be placed many times; it is
// shared by pointer, never copied. Nodes are treated as immutable once a
// factory returns them.
package shape

import (
	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
)

// Node is either a *Shape or a *MultiShape.
type Node interface {
	node() // marker method restricting implementations to this package
}

// Shape is a leaf mesh. Face winding is counter-clockwise seen from outside,
// so the outward normal is (v1-v0)x(v2-v0).
type Shape struct {
	Vertices []geom.Vec3
	Faces    [][]int
	Colors   []color.Color // parallel to Faces
}

func (*Shape) node() {}

// New builds a leaf. It does not check its input; see Validate.
func New(vertices []geom.Vec3, faces [][]int, colors []color.Color) *Shape {
	return &Shape{Vertices: vertices, Faces: faces, Colors: colors}
}

// FaceColor returns the colour of face i, or opaque white when the shape
// carries fewer colours than faces.
func (s *Shape) FaceColor(i int) color.Color {
	if i < len(s.Colors) {
		return s.Colors[i]
	}
	return color.White
}

// Placement is one entry of a MultiShape.
type Placement struct {
	Child       Node
	Position    geom.Vec3
	Orientation geom.Orientation
}

// Transform returns the placement's local transform.
func (p Placement) Transform() geom.Transform {
	return geom.At(p.Position, p.Orientation)
}

// MultiShape is an ordered list of placements. The zero value is an empty,
// valid composite that renders nothing.
type MultiShape struct {
	entries []Placement
}

func (*MultiShape) node() {}

// NewMulti returns an empty composite.
func NewMulti() *MultiShape {
	return &MultiShape{}
}

// Add places child at position with the given orientation.
func (m *MultiShape) Add(child Node, position geom.Vec3, orientation geom.Orientation) {
	m.entries = append(m.entries, Placement{
		Child:       child,
		Position:    position,
		Orientation: orientation,
	})
}

// AddAt places child at position with no rotation.
func (m *MultiShape) AddAt(child Node, position geom.Vec3) {
	m.Add(child, position, geom.Identity())
}

// AddNode places child at the origin with no rotation.
func (m *MultiShape) AddNode(child Node) {
	m.Add(child, geom.Origin, geom.Identity())
}

// Entries returns the placements in insertion order. The slice is shared
// with m and must not be modified.
func (m *MultiShape) Entries() []Placement {
	return m.entries
}

// Len returns the number of placements.
func (m *MultiShape) Len() int {
	return len(m.entries)
}
