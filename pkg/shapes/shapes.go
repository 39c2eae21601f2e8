// Package shapes builds Shape and MultiShape trees for the named primitives
// and patterns: tetrahedra, cubes, cuboids and the composites built from
// them (crosses, corners, frames, rings, clusters and lattices).
//
// Factories that take a color.Source draw one colour per face from it. A nil
// Source stands for "no colours given" and is replaced by variations of a
// random colour.
package shapes

import (
	"errors"
	"math/rand/v2"

	"github.com/chazu/bestiary/pkg/color"
)

var (
	// ErrTooFewColors is returned by CubeFrame when fewer than six face
	// colours are supplied.
	ErrTooFewColors = errors.New("shapes: cube frame needs 6 face colours")

	// ErrInvalidStep is returned by CubeLattice for a non-positive grid step.
	ErrInvalidStep = errors.New("shapes: lattice step must be positive")

	// ErrInvalidExtent is returned by RgbCubeCluster for a cluster edge that
	// is not positive.
	ErrInvalidExtent = errors.New("shapes: cluster edge must be positive")

	// ErrUnsatisfiableHole is returned by RgbCubeCluster when no lattice
	// point inside the cluster lies outside the hole.
	ErrUnsatisfiableHole = errors.New("shapes: hole covers the whole cluster")

	// ErrSamplingExhausted is returned by RgbCubeCluster when a cube could not
	// be placed within the attempt budget.
	ErrSamplingExhausted = errors.New("shapes: rejection sampling exhausted")
)

// faceColors draws n colours from src, falling back to random variations.
func faceColors(src color.Source, n int, r *rand.Rand) []color.Color {
	if src == nil {
		src = color.RandomVariations(r)
	}
	return color.Take(src, n)
}
