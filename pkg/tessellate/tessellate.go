// Package tessellate walks a shape tree and produces world-space triangle
// meshes. One mesh is produced per leaf visit, so a leaf placed many times
// yields many meshes.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/kernel"
	"github.com/chazu/bestiary/pkg/shape"
)

var (
	// ErrCycle is returned when a composite is reachable from itself.
	ErrCycle = errors.New("tessellate: placement cycle")

	// ErrNilNode is returned when a placement has no child.
	ErrNilNode = errors.New("tessellate: placement has no shape")
)

// VisitFunc is called for every leaf visit with the placement path from the
// root, the leaf, and the composed transform taking leaf space into world
// space. Returning an error stops the walk.
type VisitFunc func(path shape.Path, s *shape.Shape, world geom.Transform) error

// transformStack accumulates placement transforms during traversal. Each
// entry is the composition of everything below it, so the top is always
// the full leaf-to-world transform.
type transformStack struct {
	frames []geom.Transform
}

func newTransformStack(base geom.Transform) *transformStack {
	return &transformStack{frames: []geom.Transform{base}}
}

func (ts *transformStack) push(local geom.Transform) {
	ts.frames = append(ts.frames, ts.top().Compose(local))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 1 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

func (ts *transformStack) top() geom.Transform {
	return ts.frames[len(ts.frames)-1]
}

// walker carries the traversal state.
type walker struct {
	ts     *transformStack
	onPath map[*shape.MultiShape]bool
	fn     VisitFunc
}

// Walk visits every leaf reachable from root in placement order. base is
// applied on top of every placement, e.g. a game item's own position and
// orientation. A shared leaf is visited once per path that reaches it.
// Walk never mutates the tree.
func Walk(root shape.Node, base geom.Transform, fn VisitFunc) error {
	if root == nil {
		return nil
	}
	w := &walker{
		ts:     newTransformStack(base),
		onPath: make(map[*shape.MultiShape]bool),
		fn:     fn,
	}
	return w.walkNode(root, nil)
}

func (w *walker) walkNode(n shape.Node, path shape.Path) error {
	switch v := n.(type) {
	case *shape.Shape:
		if v == nil {
			return fmt.Errorf("%s: %w", path, ErrNilNode)
		}
		return w.fn(path, v, w.ts.top())

	case *shape.MultiShape:
		if v == nil {
			return fmt.Errorf("%s: %w", path, ErrNilNode)
		}
		return w.handleMulti(v, path)

	case nil:
		return fmt.Errorf("%s: %w", path, ErrNilNode)

	default:
		return fmt.Errorf("%s: unknown node type %T", path, n)
	}
}

// handleMulti pushes each placement's transform, recurses into the child,
// then pops.
func (w *walker) handleMulti(m *shape.MultiShape, path shape.Path) error {
	if w.onPath[m] {
		return fmt.Errorf("%s: %w", path, ErrCycle)
	}
	w.onPath[m] = true
	defer delete(w.onPath, m)

	for i, e := range m.Entries() {
		childPath := append(path[:len(path):len(path)], i)
		w.ts.push(e.Transform())
		err := w.walkNode(e.Child, childPath)
		w.ts.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// Instance is one leaf visit: the shared leaf and where it lands.
type Instance struct {
	Path      shape.Path
	Shape     *shape.Shape
	Transform geom.Transform
}

// Instances lists every leaf visit under root, keeping the leaf pointers so
// that a renderer can upload each distinct leaf once and draw it many times.
func Instances(root shape.Node, base geom.Transform) ([]Instance, error) {
	var out []Instance
	err := Walk(root, base, func(path shape.Path, s *shape.Shape, world geom.Transform) error {
		out = append(out, Instance{Path: path, Shape: s, Transform: world})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Tessellate walks the tree and produces one triangle mesh per leaf visit
// in world space. Faces are fan-triangulated with a flat normal, and every
// vertex carries its face's colour. The part name is the placement path.
func Tessellate(root shape.Node, base geom.Transform) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	err := Walk(root, base, func(path shape.Path, s *shape.Shape, world geom.Transform) error {
		mesh, err := ToMesh(s, world)
		if err != nil {
			return fmt.Errorf("tessellate: %s: %w", path, err)
		}
		mesh.PartName = path.String()
		meshes = append(meshes, mesh)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meshes, nil
}

// Flatten tessellates the tree and merges the result into one mesh named
// name. Renderers that draw an item as a single buffer use this.
func Flatten(name string, root shape.Node, base geom.Transform) (*kernel.Mesh, error) {
	meshes, err := Tessellate(root, base)
	if err != nil {
		return nil, err
	}
	return kernel.Merge(name, meshes...), nil
}

// ToMesh triangulates one leaf placed by world.
func ToMesh(s *shape.Shape, world geom.Transform) (*kernel.Mesh, error) {
	var numVerts, numTri int
	for fi, face := range s.Faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("face %d has %d vertices", fi, len(face))
		}
		numVerts += len(face)
		numTri += len(face) - 2
	}

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Colors:   make([]uint8, 0, numVerts*4),
		Indices:  make([]uint32, 0, numTri*3),
	}

	for fi, face := range s.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(s.Vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range", fi, idx)
			}
		}

		n := world.ApplyDir(s.FaceNormal(fi))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		c := s.FaceColor(fi)

		base := uint32(m.VertexCount())
		for _, idx := range face {
			p := world.Apply(s.Vertices[idx])
			m.Vertices = append(m.Vertices, float32(p.X()), float32(p.Y()), float32(p.Z()))
			m.Normals = append(m.Normals, float32(n.X()), float32(n.Y()), float32(n.Z()))
			m.Colors = append(m.Colors, c.R, c.G, c.B, c.A)
		}
		for k := 1; k+1 < len(face); k++ {
			m.Indices = append(m.Indices, base, base+uint32(k), base+uint32(k+1))
		}
	}
	return m, nil
}
