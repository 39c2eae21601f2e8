package shapes

import (
	"math"

	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
)

// tetrahedronFaces wind counter-clockwise seen from outside.
var tetrahedronFaces = [][]int{
	{0, 2, 1},
	{1, 3, 0},
	{2, 3, 1},
	{0, 3, 2},
}

// boxFaces index the corners of a box listed in (x, y, z) sign order,
// x slowest: ---, --+, -+-, -++, +--, +-+, ++-, +++.
var boxFaces = [][]int{
	{0, 1, 3, 2}, // left   -x
	{4, 6, 7, 5}, // right  +x
	{7, 3, 1, 5}, // front  +z
	{0, 2, 6, 4}, // back   -z
	{3, 7, 6, 2}, // top    +y
	{1, 0, 4, 5}, // bottom -y
}

// Tetrahedron returns a regular tetrahedron with the given edge length,
// centred on the origin. Its vertices sit on alternate corners of a cube of
// side edge/√2.
func Tetrahedron(edge float64, colors color.Source) *shape.Shape {
	s := edge / math.Sqrt2 / 2
	vertices := []geom.Vec3{
		{+s, +s, +s},
		{-s, -s, +s},
		{-s, +s, -s},
		{+s, -s, -s},
	}
	return shape.New(vertices, cloneFaces(tetrahedronFaces), faceColors(colors, len(tetrahedronFaces), nil))
}

// Cube returns an axis-aligned cube centred on the origin.
func Cube(edge float64, colors color.Source) *shape.Shape {
	return Cuboid(edge, edge, edge, colors)
}

// Cuboid returns an axis-aligned box of size x by y by z centred on the
// origin, with the same topology as Cube.
func Cuboid(x, y, z float64, colors color.Source) *shape.Shape {
	hx, hy, hz := x/2, y/2, z/2
	vertices := make([]geom.Vec3, 0, 8)
	for _, px := range [2]float64{-hx, +hx} {
		for _, py := range [2]float64{-hy, +hy} {
			for _, pz := range [2]float64{-hz, +hz} {
				vertices = append(vertices, geom.Vec3{px, py, pz})
			}
		}
	}
	return shape.New(vertices, cloneFaces(boxFaces), faceColors(colors, len(boxFaces), nil))
}

// cloneFaces gives every shape its own face lists.
func cloneFaces(faces [][]int) [][]int {
	out := make([][]int, len(faces))
	for i, f := range faces {
		out[i] = append([]int(nil), f...)
	}
	return out
}
