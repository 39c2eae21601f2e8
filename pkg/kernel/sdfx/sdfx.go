// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/chazu/bestiary/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// ErrNoTriangles is returned when there is nothing to export.
var ErrNoTriangles = errors.New("sdfx: no triangles to export")

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func vec(p [3]float64) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// BoundingBox returns the sdfx box enclosing every vertex of meshes.
func BoundingBox(meshes []*kernel.Mesh) (sdf.Box3, bool) {
	var bb sdf.Box3
	found := false
	for _, m := range meshes {
		if m == nil {
			continue
		}
		for i := 0; i < m.VertexCount(); i++ {
			p := vec(m.Vertex(i))
			if !found {
				bb = sdf.Box3{Min: p, Max: p}
				found = true
				continue
			}
			bb = sdf.Box3{Min: bb.Min.Min(p), Max: bb.Max.Max(p)}
		}
	}
	return bb, found
}

// Bounds returns the axis-aligned bounding box of meshes.
func (k *SdfxKernel) Bounds(meshes []*kernel.Mesh) (kernel.Box, bool) {
	bb, ok := BoundingBox(meshes)
	if !ok {
		return kernel.Box{}, false
	}
	return kernel.Box{
		Min: [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z},
		Max: [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z},
	}, true
}

// Triangles converts meshes into sdfx triangles. Degenerate triangles are
// dropped since they carry no surface.
func Triangles(meshes []*kernel.Mesh) []*sdf.Triangle3 {
	var out []*sdf.Triangle3
	for _, m := range meshes {
		if m == nil {
			continue
		}
		for t := 0; t < m.TriangleCount(); t++ {
			c := m.Triangle(t)
			a, b, d := vec(c[0]), vec(c[1]), vec(c[2])
			if b.Sub(a).Cross(d.Sub(a)).Length() == 0 {
				continue
			}
			out = append(out, &sdf.Triangle3{a, b, d})
		}
	}
	return out
}

// SaveSTL writes meshes to a binary STL file.
func (k *SdfxKernel) SaveSTL(path string, meshes []*kernel.Mesh) error {
	tris := Triangles(meshes)
	if len(tris) == 0 {
		return ErrNoTriangles
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
