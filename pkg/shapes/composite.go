package shapes

import (
	"math/rand/v2"

	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
)

// crossArmEdge is the edge length of the six arm cubes of CubeCross.
const crossArmEdge = 0.5

// axisDirections lists the six unit axis directions, positive first.
var axisDirections = []geom.Vec3{
	geom.XAxis, geom.YAxis, geom.ZAxis,
	geom.NegXAxis, geom.NegYAxis, geom.NegZAxis,
}

// cornerSigns lists the eight (±1, ±1, ±1) corners in x-slowest order.
var cornerSigns = func() []geom.Vec3 {
	out := make([]geom.Vec3, 0, 8)
	for _, x := range [2]float64{-1, 1} {
		for _, y := range [2]float64{-1, 1} {
			for _, z := range [2]float64{-1, 1} {
				out = append(out, geom.Vec3{x, y, z})
			}
		}
	}
	return out
}()

// DualTetrahedron overlays two tetrahedra of the same edge sharing a
// centre, the second turned 90° to face along +X. Each draws its face
// colours from its own source; a nil source picks a random colour.
func DualTetrahedron(edge float64, c1, c2 color.Source) *shape.MultiShape {
	m := shape.NewMulti()
	m.AddNode(Tetrahedron(edge, c1))
	m.Add(Tetrahedron(edge, c2), geom.Origin, geom.Facing(geom.XAxis))
	return m
}

// CubeCross places a cube of the given edge coloured c1 at the origin and
// a small cube coloured c2 centred on each of its six faces.
func CubeCross(edge float64, c1, c2 color.Color) *shape.MultiShape {
	m := shape.NewMulti()
	m.AddNode(Cube(edge, color.Repeat(c1)))
	for _, dir := range axisDirections {
		m.AddAt(Cube(crossArmEdge, color.Repeat(c2)), dir.Mul(edge/2))
	}
	return m
}

// CubeCorners places a cube of the given edge coloured c1 at the origin
// and a half-size cube coloured c2 on each of its eight corners.
func CubeCorners(edge float64, c1, c2 color.Color) *shape.MultiShape {
	m := shape.NewMulti()
	m.AddNode(Cube(edge, color.Repeat(c1)))
	for _, corner := range cornerSigns {
		m.AddAt(Cube(edge/2, color.Repeat(c2)), corner.Mul(edge/2))
	}
	return m
}

// CubeFrame builds the wireframe of a cube from twelve 1-thick timbers, one
// along each edge. Timbers are edge+1 long so they overlap at the corners.
// All timbers share the first six colours, one per face; extra colours are
// ignored.
func CubeFrame(edge float64, colors []color.Color) (*shape.MultiShape, error) {
	if len(colors) < 6 {
		return nil, ErrTooFewColors
	}
	faces := colors[:6]
	h, l := edge/2, edge+1

	type timber struct {
		size, pos geom.Vec3
	}
	timbers := []timber{
		{geom.V(l, 1, 1), geom.V(0, +h, +h)},
		{geom.V(l, 1, 1), geom.V(0, +h, -h)},
		{geom.V(l, 1, 1), geom.V(0, -h, +h)},
		{geom.V(l, 1, 1), geom.V(0, -h, -h)},

		{geom.V(1, l, 1), geom.V(+h, 0, +h)},
		{geom.V(1, l, 1), geom.V(+h, 0, -h)},
		{geom.V(1, l, 1), geom.V(-h, 0, +h)},
		{geom.V(1, l, 1), geom.V(-h, 0, -h)},

		{geom.V(1, 1, l), geom.V(+h, +h, 0)},
		{geom.V(1, 1, l), geom.V(+h, -h, 0)},
		{geom.V(1, 1, l), geom.V(-h, +h, 0)},
		{geom.V(1, 1, l), geom.V(-h, -h, 0)},
	}

	m := shape.NewMulti()
	for _, t := range timbers {
		m.AddAt(Cuboid(t.size.X(), t.size.Y(), t.size.Z(), color.Cycle(faces...)), t.pos)
	}
	return m, nil
}

// CubeCluster places one shared cube at every position. The cube gets a
// random colour with per-face variation drawn from r (nil uses the global
// source).
func CubeCluster(edge float64, positions []geom.Vec3, r *rand.Rand) *shape.MultiShape {
	m := shape.NewMulti()
	cube := Cube(edge, color.RandomVariations(r))
	for _, p := range positions {
		m.AddAt(cube, p)
	}
	return m
}
