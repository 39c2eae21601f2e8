// Package bestiary maps the ten digit keys to preconfigured game items.
//
// Build assembles the catalog once at startup from the shape factories. The
// only live dependency is the world's camera, which drives the slow-motion
// modifier of the lattice item.
package bestiary

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"

	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
	"github.com/chazu/bestiary/pkg/shapes"
)

// Bestiary maps triggers to items. It is read-only after Build, apart from
// the items' own per-frame state.
type Bestiary map[TriggerID]*GameItem

// Keys returns the bound triggers in key order.
func (b Bestiary) Keys() []TriggerID {
	keys := lo.Keys(b)
	slices.Sort(keys)
	return keys
}

// Lookup returns the item bound to t.
func (b Bestiary) Lookup(t TriggerID) (*GameItem, bool) {
	item, ok := b[t]
	return item, ok
}

// Lattice dimensions for the Key0 item. The camera counts as inside the
// lattice while it is within the cube of side LatticeEdge.
const (
	LatticeEdge   = 40.0
	LatticeStep   = 2
	SlowMoFactor  = 0.2
	ClusterExtent = 20
	ClusterCubes  = 4000
)

// Options control Build.
type Options struct {
	// Rand supplies every random choice. Nil uses the global source, so
	// each build differs.
	Rand *rand.Rand

	// MaxAttempts bounds the draws per cube of the RGB cluster; zero uses
	// shapes.DefaultMaxAttempts.
	MaxAttempts int

	// Logger receives a debug line per item; nil uses slog.Default().
	Logger *slog.Logger
}

// Build returns the ten-item catalog. world may be nil, in which case the
// slow-motion item never slows down.
func Build(world World, opts Options) (Bestiary, error) {
	r := opts.Rand
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	var cam Camera
	if world != nil {
		cam = world.Camera()
	}

	b := make(Bestiary, NumTriggers)
	add := func(t TriggerID, item *GameItem) {
		b[t] = item
		st := shape.Summarize(item.Shape)
		log.Debug("bestiary item", "key", t.String(), "name", item.Name,
			"placements", st.Placements, "leaves", st.LeafVisits, "faces", st.Faces)
	}
	at := func(name string, n shape.Node) *GameItem {
		return &GameItem{Name: name, Shape: n, Position: geom.Origin, Orientation: geom.Identity()}
	}

	add(Key1, at("tetrahedron", shapes.Tetrahedron(1.8, color.Vary(r, color.Blue, color.Cyan))))

	add(Key2, at("cube", shapes.Cube(0.9, color.Vary(r, color.Green, color.Purple))))

	add(Key3, at("dual-tetrahedron", shapes.DualTetrahedron(1.8, color.RandomVariations(r), color.RandomVariations(r))))

	add(Key4, at("cube-cross", shapes.CubeCross(1, color.Red, color.Red.Tinted(color.Yellow))))

	add(Key5, at("cube-corners", shapes.CubeCorners(1, color.Yellow.Tinted(color.White), color.Yellow)))

	add(Key6, at("cube-ring", shapes.Ring(shapes.Cube(1, color.Vary(r, color.Cyan.Tinted(color.Black))), 2, 13)))

	twisted := at("twisted-ring", shapes.Ring(
		shapes.DualTetrahedron(1,
			color.Vary(r, color.Orange.Tinted(color.Black, 0.5)),
			color.Vary(r, color.Orange.Tinted(color.Black)),
		),
		4,
		54,
	))
	twisted.Orientation = geom.Facing(geom.XAxis)
	twisted.Spin = NewSpinner(1)
	add(Key7, twisted)

	frame, err := shapes.CubeFrame(10, color.Take(color.Repeat(color.Grey.Tinted(color.White)), 6))
	if err != nil {
		return nil, fmt.Errorf("bestiary: key %s: %w", Key8, err)
	}
	add(Key8, at("cube-frame", frame))

	var clusterOpts []shapes.ClusterOption
	if opts.MaxAttempts > 0 {
		clusterOpts = append(clusterOpts, shapes.MaxAttempts(opts.MaxAttempts))
	}
	cluster, err := shapes.RgbCubeCluster(1.0, ClusterExtent, ClusterCubes, 0, r, clusterOpts...)
	if err != nil {
		return nil, fmt.Errorf("bestiary: key %s: %w", Key9, err)
	}
	add(Key9, at("rgb-cluster", cluster))

	lattice, err := shapes.CubeLattice(1, LatticeEdge, LatticeStep, color.White)
	if err != nil {
		return nil, fmt.Errorf("bestiary: key %s: %w", Key0, err)
	}
	item := at("lattice", lattice)
	item.SlowMo = NewSlowMo(CubeBounds{Center: geom.Origin, Edge: LatticeEdge}, cam, SlowMoFactor)
	add(Key0, item)

	return b, nil
}
