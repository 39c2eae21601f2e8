// Package kernel defines the flat triangle mesh handed to renderers and
// exporters, and the abstract geometry kernel that measures and exports
// meshes. Implementations (sdfx) live in sub-packages so that the rest of
// the system does not depend on a particular CAD library.
package kernel

// Box is an axis-aligned bounding box.
type Box struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Size returns the box extent along each axis.
func (b Box) Size() [3]float64 {
	return [3]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of the box.
func (b Box) Center() [3]float64 {
	return [3]float64{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Bounds returns the box enclosing every vertex of meshes. ok is false
	// when there are no vertices.
	Bounds(meshes []*Mesh) (box Box, ok bool)

	// SaveSTL writes the triangles of meshes to an STL file at path.
	SaveSTL(path string, meshes []*Mesh) error
}
