package kernel

import "github.com/samber/lo"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, colors has 4 bytes per vertex (r,g,b,a),
// indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Colors   []uint8   `json:"colors"`   // [r0,g0,b0,a0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which placement path this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i as three float64 coordinates.
func (m *Mesh) Vertex(i int) [3]float64 {
	return [3]float64{
		float64(m.Vertices[3*i]),
		float64(m.Vertices[3*i+1]),
		float64(m.Vertices[3*i+2]),
	}
}

// Triangle returns the three corners of triangle t.
func (m *Mesh) Triangle(t int) [3][3]float64 {
	return [3][3]float64{
		m.Vertex(int(m.Indices[3*t])),
		m.Vertex(int(m.Indices[3*t+1])),
		m.Vertex(int(m.Indices[3*t+2])),
	}
}

// Merge concatenates meshes into one, offsetting indices. Nil meshes are
// skipped. The result has the given part name.
func Merge(name string, meshes ...*Mesh) *Mesh {
	meshes = lo.Compact(meshes)
	out := &Mesh{
		Vertices: make([]float32, 0, lo.SumBy(meshes, func(m *Mesh) int { return len(m.Vertices) })),
		Normals:  make([]float32, 0, lo.SumBy(meshes, func(m *Mesh) int { return len(m.Normals) })),
		Colors:   make([]uint8, 0, lo.SumBy(meshes, func(m *Mesh) int { return len(m.Colors) })),
		Indices:  make([]uint32, 0, lo.SumBy(meshes, func(m *Mesh) int { return len(m.Indices) })),
		PartName: name,
	}
	for _, m := range meshes {
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		out.Normals = append(out.Normals, m.Normals...)
		out.Colors = append(out.Colors, m.Colors...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
