package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/bestiary/pkg/kernel"
)

// unitQuad is two triangles covering [0,1]² at height z, offset by dx.
func unitQuad(dx, z float32) *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{dx, 0, z, dx + 1, 0, z, dx + 1, 1, z, dx, 1, z},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestBounds(t *testing.T) {
	k := New()
	box, ok := k.Bounds([]*kernel.Mesh{unitQuad(0, -2), nil, unitQuad(5, 3)})
	if !ok {
		t.Fatal("expected bounds")
	}

	const tol = 1e-6
	expectMin := [3]float64{0, 0, -2}
	expectMax := [3]float64{6, 1, 3}
	for i := 0; i < 3; i++ {
		if math.Abs(box.Min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, box.Min[i], expectMin[i])
		}
		if math.Abs(box.Max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, box.Max[i], expectMax[i])
		}
	}
}

func TestBoundsEmpty(t *testing.T) {
	k := New()
	if _, ok := k.Bounds(nil); ok {
		t.Error("Bounds(nil) should report no geometry")
	}
	if _, ok := k.Bounds([]*kernel.Mesh{{}}); ok {
		t.Error("Bounds of an empty mesh should report no geometry")
	}
}

func TestTrianglesSkipsDegenerate(t *testing.T) {
	m := unitQuad(0, 0)
	// A sliver triangle with all three corners on one line.
	m.Vertices = append(m.Vertices, 2, 0, 0, 3, 0, 0)
	m.Indices = append(m.Indices, 0, 4, 5)

	tris := Triangles([]*kernel.Mesh{m})
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
}

func TestSaveSTL(t *testing.T) {
	k := New()
	path := filepath.Join(t.TempDir(), "quad.stl")
	if err := k.SaveSTL(path, []*kernel.Mesh{unitQuad(0, 0)}); err != nil {
		t.Fatalf("SaveSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// Binary STL: 80 byte header, 4 byte count, 50 bytes per triangle.
	if info.Size() != 84+2*50 {
		t.Errorf("file size = %d, want %d", info.Size(), 84+2*50)
	}
}

func TestSaveSTLEmpty(t *testing.T) {
	k := New()
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := k.SaveSTL(path, nil); err != ErrNoTriangles {
		t.Fatalf("SaveSTL(nil) = %v, want ErrNoTriangles", err)
	}
}
