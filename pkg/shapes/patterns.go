package shapes

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
)

// Ring places number copies of basic evenly around a circle of the given
// radius in the YZ plane. Copy k sits at angle a = k·2π/number, at
// (0, radius·sin a, radius·cos a), pitched by a about the ring axis, so
// successive copies are progressively more rotated. The same basic node is
// shared by every copy. A non-positive number gives an empty ring.
func Ring(basic shape.Node, radius float64, number int) *shape.MultiShape {
	m := shape.NewMulti()
	if number <= 0 {
		return m
	}
	step := 2 * math.Pi / float64(number)
	for k := 0; k < number; k++ {
		a := float64(k) * step
		m.Add(basic, ringPosition(radius, a), geom.Identity().Pitch(a))
	}
	return m
}

// AccumulatedRing is the older ring loop: the angle is advanced before each
// copy is placed and the loop stops once the accumulated angle reaches 2π.
// The first copy therefore sits one step past zero, and floating point
// rounding can yield number+1 copies. Ring should be preferred.
func AccumulatedRing(basic shape.Node, radius float64, number int) *shape.MultiShape {
	m := shape.NewMulti()
	if number <= 0 {
		return m
	}
	step := 2 * math.Pi / float64(number)
	orientation := geom.Identity()
	for angle := 0.0; angle < 2*math.Pi; {
		angle += step
		orientation = orientation.Pitch(step)
		m.Add(basic, ringPosition(radius, angle), orientation)
	}
	return m
}

func ringPosition(radius, angle float64) geom.Vec3 {
	return geom.V(0, radius*math.Sin(angle), radius*math.Cos(angle))
}

// CubeRing is a Ring of one shared cube.
func CubeRing(edge, radius float64, number int, colors color.Source) *shape.MultiShape {
	return Ring(Cube(edge, colors), radius, number)
}

// DefaultMaxAttempts bounds the draws RgbCubeCluster makes per cube.
const DefaultMaxAttempts = 1000

type clusterOptions struct {
	maxAttempts int
}

// ClusterOption configures RgbCubeCluster.
type ClusterOption func(*clusterOptions)

// MaxAttempts sets how many positions RgbCubeCluster may draw for a single
// cube before giving up. Values below 1 are treated as 1.
func MaxAttempts(n int) ClusterOption {
	return func(o *clusterOptions) {
		o.maxAttempts = max(n, 1)
	}
}

// GradientColor is the colour RgbCubeCluster gives a cube at p: each
// channel maps its coordinate linearly from [-clusterEdge, clusterEdge]
// onto [0, 255]. A cluster with no extent is mid grey.
func GradientColor(p geom.Vec3, clusterEdge int) color.Color {
	if clusterEdge <= 0 {
		return color.RGBA(127, 127, 127, 255)
	}
	ce := float64(clusterEdge)
	channel := func(v float64) uint8 {
		return uint8((v + ce) / ce / 2 * 255)
	}
	return color.RGBA(channel(p.X()), channel(p.Y()), channel(p.Z()), 255)
}

// RgbCubeCluster places count cubes at random integer lattice points in
// [-clusterEdge, clusterEdge]³, coloured by GradientColor. Points at
// distance hole or less from the origin are rejected and redrawn. Each cube
// may take at most MaxAttempts draws (DefaultMaxAttempts unless set); when
// it runs out the function returns ErrSamplingExhausted. A hole that covers
// every lattice point is reported up front as ErrUnsatisfiableHole. r
// supplies the randomness; nil uses the global source.
func RgbCubeCluster(edge float64, clusterEdge, count int, hole float64, r *rand.Rand, opts ...ClusterOption) (*shape.MultiShape, error) {
	if clusterEdge <= 0 {
		return nil, ErrInvalidExtent
	}
	if hole >= float64(clusterEdge)*math.Sqrt(3) {
		return nil, ErrUnsatisfiableHole
	}
	o := clusterOptions{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&o)
	}

	intn := rand.IntN
	if r != nil {
		intn = r.IntN
	}
	coord := func() float64 {
		return float64(intn(2*clusterEdge+1) - clusterEdge)
	}

	m := shape.NewMulti()
	for i := 0; i < count; i++ {
		placed := false
		for attempt := 0; attempt < o.maxAttempts; attempt++ {
			p := geom.V(coord(), coord(), coord())
			if p.Len() <= hole {
				continue
			}
			m.AddAt(Cube(edge, color.Repeat(GradientColor(p, clusterEdge))), p)
			placed = true
			break
		}
		if !placed {
			return nil, fmt.Errorf("cube %d after %d attempts: %w", i, o.maxAttempts, ErrSamplingExhausted)
		}
	}
	return m, nil
}

// CubeLattice covers the six faces of a cube of side clusterEdge with small
// cubes of the given edge, on a grid of step freq running from
// int(-clusterEdge/2) to int(clusterEdge/2) inclusive. Grid points on the
// cube's edges are covered once per adjoining face. One cube leaf is shared
// by every placement.
func CubeLattice(edge, clusterEdge float64, freq int, c color.Color) (*shape.MultiShape, error) {
	if freq <= 0 {
		return nil, ErrInvalidStep
	}
	h := clusterEdge / 2
	lo, hi := int(-h), int(h+1)

	m := shape.NewMulti()
	cube := Cube(edge, color.Repeat(c))
	for i := lo; i < hi; i += freq {
		for j := lo; j < hi; j += freq {
			fi, fj := float64(i), float64(j)
			for _, p := range []geom.Vec3{
				{fi, fj, -h},
				{fi, fj, +h},
				{fi, -h, fj},
				{fi, +h, fj},
				{-h, fi, fj},
				{+h, fi, fj},
			} {
				m.AddAt(cube, p)
			}
		}
	}
	return m, nil
}
