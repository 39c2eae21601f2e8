package engine

import (
	"fmt"
	"math/rand/v2"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/bestiary/pkg/bestiary"
	"github.com/chazu/bestiary/pkg/color"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
	"github.com/chazu/bestiary/pkg/shapes"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpColor wraps a color.Color.
type sexpColor struct {
	c color.Color
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(color %q)", c.c.String())
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// sexpSource wraps a color.Source so it can be handed to a factory.
type sexpSource struct {
	src  color.Source
	desc string
}

func (s *sexpSource) SexpString(ps *zygo.PrintState) string {
	return "(" + s.desc + ")"
}
func (s *sexpSource) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a shape tree node returned by a factory.
type sexpShape struct {
	node shape.Node
	kind string
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	st := shape.Summarize(s.node)
	return fmt.Sprintf("(%s :placements %d :faces %d)", s.kind, st.Placements, st.Faces)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpPlacement wraps a placement built by `place` and consumed by `group`.
type sexpPlacement struct {
	p shape.Placement
}

func (p *sexpPlacement) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(place :at (vec3 %g %g %g))", p.p.Position.X(), p.p.Position.Y(), p.p.Position.Z())
}
func (p *sexpPlacement) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// script is the state the builtins of one evaluation share.
type script struct {
	rng         *rand.Rand
	camera      bestiary.Camera
	maxAttempts int
	items       bestiary.Bestiary
}

func newScript(rng *rand.Rand, camera bestiary.Camera, maxAttempts int) *script {
	return &script{
		rng:         rng,
		camera:      camera,
		maxAttempts: maxAttempts,
		items:       make(bestiary.Bestiary),
	}
}

// source resolves an optional colour-source argument; a missing source is
// a random colour with per-face variation.
func (sc *script) source(args []zygo.Sexp, i int) (color.Source, error) {
	if i >= len(args) {
		return color.RandomVariations(sc.rng), nil
	}
	src, err := toSource(args[i])
	if err != nil {
		return nil, err
	}
	if src == nil {
		return color.RandomVariations(sc.rng), nil
	}
	return src, nil
}

// varied resolves a dual-tetrahedron colour: a plain colour becomes
// variations of it, a source is used as is.
func (sc *script) varied(args []zygo.Sexp, i int) (color.Source, error) {
	if i >= len(args) {
		return color.RandomVariations(sc.rng), nil
	}
	if c, ok := args[i].(*sexpColor); ok {
		return color.Vary(sc.rng, c.c), nil
	}
	return sc.source(args, i)
}

// numbers extracts the first n positional arguments as floats.
func numbers(fn string, args []zygo.Sexp, names ...string) ([]float64, error) {
	if len(args) < len(names) {
		return nil, fmt.Errorf("%s requires %d arguments (%v), got %d", fn, len(names), names, len(args))
	}
	out := make([]float64, len(names))
	for i, name := range names {
		f, err := toFloat64(args[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fn, name, err)
		}
		out[i] = f
	}
	return out, nil
}

func shapeResult(kind string, n shape.Node) (zygo.Sexp, error) {
	return &sexpShape{node: n, kind: kind}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all bestiary builtins into a zygomys environment.
// The builtins record items into sc during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names such as cube-ring reach zygomys as cube_ring.
func registerBuiltins(env *zygo.Zlisp, sc *script) {
	registerColorBuiltins(env, sc)
	registerShapeBuiltins(env, sc)
	registerLayoutBuiltins(env, sc)
}

func registerColorBuiltins(env *zygo.Zlisp, sc *script) {

	// -----------------------------------------------------------------------
	// (rgb 255 128 0) or (rgb 255 128 0 200)
	// -----------------------------------------------------------------------
	env.AddFunction("rgb", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rgb requires 3 or 4 arguments, got %d", len(args))
		}
		ch := [4]uint8{0, 0, 0, 255}
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rgb: channel %d: %w", i, err)
			}
			if n < 0 || n > 255 {
				return zygo.SexpNull, fmt.Errorf("rgb: channel %d: %d out of range 0-255", i, n)
			}
			ch[i] = uint8(n)
		}
		return &sexpColor{c: color.RGBA(ch[0], ch[1], ch[2], ch[3])}, nil
	})

	// -----------------------------------------------------------------------
	// (color :cyan) or (color "#ff8000")
	// -----------------------------------------------------------------------
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("color requires exactly 1 argument, got %d", len(args))
		}
		c, err := toColor(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
		return &sexpColor{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (tint (color :orange) (color :black) 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("tint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 && len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("tint requires a colour, a target and an optional bias")
		}
		c, err := toColor(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tint: colour: %w", err)
		}
		other, err := toColor(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tint: target: %w", err)
		}
		bias := color.DefaultTint
		if len(args) == 3 {
			if bias, err = toFloat64(args[2]); err != nil {
				return zygo.SexpNull, fmt.Errorf("tint: bias: %w", err)
			}
		}
		return &sexpColor{c: c.Tinted(other, bias)}, nil
	})

	// -----------------------------------------------------------------------
	// (variations (color :blue)) or (variations (color :blue) (color :cyan))
	// -----------------------------------------------------------------------
	env.AddFunction("variations", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return &sexpSource{src: color.RandomVariations(sc.rng), desc: "variations"}, nil
		}
		if len(args) > 2 {
			return zygo.SexpNull, fmt.Errorf("variations takes at most 2 colours, got %d", len(args))
		}
		c, err := toColor(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("variations: %w", err)
		}
		var other []color.Color
		if len(args) == 2 {
			o, err := toColor(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("variations: other: %w", err)
			}
			other = append(other, o)
		}
		return &sexpSource{src: color.Vary(sc.rng, c, other...), desc: "variations " + c.String()}, nil
	})

	// -----------------------------------------------------------------------
	// (cycle (color :red) (color :green) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("cycle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		cs := make([]color.Color, 0, len(args))
		for i, a := range args {
			c, err := toColor(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cycle: colour %d: %w", i, err)
			}
			cs = append(cs, c)
		}
		return &sexpSource{src: color.Cycle(cs...), desc: fmt.Sprintf("cycle of %d", len(cs))}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := numbers("vec3", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: geom.V(v[0], v[1], v[2])}, nil
	})
}

func registerShapeBuiltins(env *zygo.Zlisp, sc *script) {

	// -----------------------------------------------------------------------
	// (tetrahedron 1.8 colours?)
	// -----------------------------------------------------------------------
	env.AddFunction("tetrahedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("tetrahedron", args, "edge")
		if err != nil {
			return zygo.SexpNull, err
		}
		src, err := sc.source(args, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tetrahedron: colours: %w", err)
		}
		return shapeResult("tetrahedron", shapes.Tetrahedron(n[0], src))
	})

	// -----------------------------------------------------------------------
	// (cube 0.9 colours?)
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("cube", args, "edge")
		if err != nil {
			return zygo.SexpNull, err
		}
		src, err := sc.source(args, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: colours: %w", err)
		}
		return shapeResult("cube", shapes.Cube(n[0], src))
	})

	// -----------------------------------------------------------------------
	// (cuboid 11 1 1 colours?)
	// -----------------------------------------------------------------------
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("cuboid", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		src, err := sc.source(args, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: colours: %w", err)
		}
		return shapeResult("cuboid", shapes.Cuboid(n[0], n[1], n[2], src))
	})

	// -----------------------------------------------------------------------
	// (dual-tetrahedron 1 colour1? colour2?)
	// -----------------------------------------------------------------------
	env.AddFunction("dual_tetrahedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("dual-tetrahedron", args, "edge")
		if err != nil {
			return zygo.SexpNull, err
		}
		c1, err := sc.varied(args, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dual-tetrahedron: colour 1: %w", err)
		}
		c2, err := sc.varied(args, 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dual-tetrahedron: colour 2: %w", err)
		}
		return shapeResult("dual-tetrahedron", shapes.DualTetrahedron(n[0], c1, c2))
	})

	// -----------------------------------------------------------------------
	// (cube-cross 1 (color :red) (color :yellow))
	// (cube-corners 1 (color :white) (color :yellow))
	// -----------------------------------------------------------------------
	twoColor := func(fn string, build func(edge float64, c1, c2 color.Color) *shape.MultiShape) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 3 {
				return zygo.SexpNull, fmt.Errorf("%s requires an edge and two colours", fn)
			}
			n, err := numbers(fn, args, "edge")
			if err != nil {
				return zygo.SexpNull, err
			}
			c1, err := toColor(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: colour 1: %w", fn, err)
			}
			c2, err := toColor(args[2])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: colour 2: %w", fn, err)
			}
			return shapeResult(fn, build(n[0], c1, c2))
		}
	}
	env.AddFunction("cube_cross", twoColor("cube-cross", shapes.CubeCross))
	env.AddFunction("cube_corners", twoColor("cube-corners", shapes.CubeCorners))

	// -----------------------------------------------------------------------
	// (cube-frame 10 (list c1 c2 c3 c4 c5 c6)) or (cube-frame 10 source)
	// -----------------------------------------------------------------------
	env.AddFunction("cube_frame", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cube-frame requires an edge and colours")
		}
		n, err := numbers("cube-frame", args, "edge")
		if err != nil {
			return zygo.SexpNull, err
		}
		var cs []color.Color
		switch v := args[1].(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			if cs, err = toColors(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("cube-frame: colours: %w", err)
			}
		default:
			src, err := toSource(v)
			if err != nil || src == nil {
				return zygo.SexpNull, fmt.Errorf("cube-frame: colours: expected a list or a colour source")
			}
			cs = color.Take(src, 6)
		}
		m, err := shapes.CubeFrame(n[0], cs)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube-frame: %w", err)
		}
		return shapeResult("cube-frame", m)
	})

	// -----------------------------------------------------------------------
	// (cube-cluster 1 (list (vec3 0 0 0) (vec3 2 0 0)))
	// -----------------------------------------------------------------------
	env.AddFunction("cube_cluster", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cube-cluster requires an edge and a list of positions")
		}
		n, err := numbers("cube-cluster", args, "edge")
		if err != nil {
			return zygo.SexpNull, err
		}
		items, err := sexpListToSlice(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube-cluster: positions: %w", err)
		}
		positions := make([]geom.Vec3, 0, len(items))
		for i, item := range items {
			p, err := toVec3(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube-cluster: position %d: %w", i, err)
			}
			positions = append(positions, p)
		}
		return shapeResult("cube-cluster", shapes.CubeCluster(n[0], positions, sc.rng))
	})

	// -----------------------------------------------------------------------
	// (rgb-cluster 1 20 4000 :hole 5)
	// -----------------------------------------------------------------------
	env.AddFunction("rgb_cluster", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("rgb-cluster requires edge, cluster edge and count")
		}
		edge, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rgb-cluster: edge: %w", err)
		}
		ce, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rgb-cluster: cluster edge: %w", err)
		}
		count, err := toInt(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rgb-cluster: count: %w", err)
		}
		var hole float64
		if v, ok := pa.kw["hole"]; ok {
			if hole, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rgb-cluster: hole: %w", err)
			}
		}
		var opts []shapes.ClusterOption
		if sc.maxAttempts > 0 {
			opts = append(opts, shapes.MaxAttempts(sc.maxAttempts))
		}
		m, err := shapes.RgbCubeCluster(edge, ce, count, hole, sc.rng, opts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rgb-cluster: %w", err)
		}
		return shapeResult("rgb-cluster", m)
	})

	// -----------------------------------------------------------------------
	// (cube-lattice 1 40 2 (color :white))
	// -----------------------------------------------------------------------
	env.AddFunction("cube_lattice", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("cube-lattice requires edge, cluster edge, step and colour")
		}
		n, err := numbers("cube-lattice", args, "edge", "cluster edge")
		if err != nil {
			return zygo.SexpNull, err
		}
		freq, err := toInt(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube-lattice: step: %w", err)
		}
		c, err := toColor(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube-lattice: colour: %w", err)
		}
		m, err := shapes.CubeLattice(n[0], n[1], freq, c)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube-lattice: %w", err)
		}
		return shapeResult("cube-lattice", m)
	})
}

func registerLayoutBuiltins(env *zygo.Zlisp, sc *script) {

	// -----------------------------------------------------------------------
	// (ring (cube 1) 2 13) or (ring (cube 1) 2 13 :accumulate)
	// -----------------------------------------------------------------------
	env.AddFunction("ring", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("ring requires a shape, a radius and a count")
		}
		basic, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ring: shape: %w", err)
		}
		radius, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ring: radius: %w", err)
		}
		number, err := toInt(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ring: count: %w", err)
		}
		if _, ok := pa.kw["accumulate"]; ok {
			return shapeResult("ring", shapes.AccumulatedRing(basic, radius, number))
		}
		return shapeResult("ring", shapes.Ring(basic, radius, number))
	})

	// -----------------------------------------------------------------------
	// (cube-ring 1 2 13 colours?)
	// -----------------------------------------------------------------------
	env.AddFunction("cube_ring", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("cube-ring", args, "edge", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("cube-ring requires edge, radius and count")
		}
		number, err := toInt(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube-ring: count: %w", err)
		}
		src, err := sc.source(args, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube-ring: colours: %w", err)
		}
		return shapeResult("cube-ring", shapes.CubeRing(n[0], n[1], number, src))
	})

	// -----------------------------------------------------------------------
	// (place shape :at (vec3 1 0 0) :facing (vec3 1 0 0) :pitch 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a shape as first argument")
		}
		child, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		p := shape.Placement{Child: child, Orientation: geom.Identity()}
		if p.Position, p.Orientation, err = placement(pa, p.Orientation); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		return &sexpPlacement{p: p}, nil
	})

	// -----------------------------------------------------------------------
	// (group (place (cube 1) :at (vec3 2 0 0)) (tetrahedron 1) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		m := shape.NewMulti()
		for i, a := range args {
			switch v := a.(type) {
			case *sexpPlacement:
				m.Add(v.p.Child, v.p.Position, v.p.Orientation)
			case *sexpShape:
				m.AddNode(v.node)
			default:
				return zygo.SexpNull, fmt.Errorf("group: child %d: expected shape or placement, got %T (%s)",
					i, a, a.SexpString(nil))
			}
		}
		return shapeResult("group", m)
	})

	// -----------------------------------------------------------------------
	// (item 7 "twisted-ring" shape :at v :facing v :spin 1 :spin-axis v
	//       :slowmo 0.2 :bounds 40)
	// -----------------------------------------------------------------------
	env.AddFunction("item", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("item requires a key, a name and a shape")
		}
		key, err := toTrigger(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("item: key: %w", err)
		}
		if _, dup := sc.items[key]; dup {
			return zygo.SexpNull, fmt.Errorf("item: key %s is already bound", key)
		}
		itemName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("item: name: %w", err)
		}
		node, err := toShape(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("item: %w", err)
		}

		item := &bestiary.GameItem{Name: itemName, Shape: node, Orientation: geom.Identity()}
		if item.Position, item.Orientation, err = placement(pa, item.Orientation); err != nil {
			return zygo.SexpNull, fmt.Errorf("item: %w", err)
		}

		if v, ok := pa.kw["spin"]; ok {
			speed, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("item: spin: %w", err)
			}
			item.Spin = bestiary.NewSpinner(speed)
			if v, ok := pa.kw["spin-axis"]; ok {
				if item.Spin.Axis, err = toVec3(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("item: spin-axis: %w", err)
				}
			}
		}

		if v, ok := pa.kw["slowmo"]; ok {
			factor, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("item: slowmo: %w", err)
			}
			edge := bestiary.LatticeEdge
			if b, ok := pa.kw["bounds"]; ok {
				if edge, err = toFloat64(b); err != nil {
					return zygo.SexpNull, fmt.Errorf("item: bounds: %w", err)
				}
			}
			bounds := bestiary.CubeBounds{Center: item.Position, Edge: edge}
			item.SlowMo = bestiary.NewSlowMo(bounds, sc.camera, factor)
		}

		sc.items[key] = item
		return &sexpShape{node: node, kind: "item " + key.String()}, nil
	})
}

// placement reads the :at, :facing, :pitch, :yaw and :roll keywords shared
// by place and item. Rotations apply in that order, each in the local frame
// of the previous one.
func placement(pa kwArgs, o geom.Orientation) (geom.Vec3, geom.Orientation, error) {
	var pos geom.Vec3
	if v, ok := pa.kw["at"]; ok {
		p, err := toVec3(v)
		if err != nil {
			return pos, o, fmt.Errorf("at: %w", err)
		}
		pos = p
	}
	if v, ok := pa.kw["facing"]; ok {
		dir, err := toVec3(v)
		if err != nil {
			return pos, o, fmt.Errorf("facing: %w", err)
		}
		if dir.Len() == 0 {
			return pos, o, fmt.Errorf("facing: zero vector")
		}
		o = geom.Facing(dir)
	}
	for _, axis := range []struct {
		kw     string
		rotate func(geom.Orientation, float64) geom.Orientation
	}{
		{"pitch", geom.Orientation.Pitch},
		{"yaw", geom.Orientation.Yaw},
		{"roll", geom.Orientation.Roll},
	} {
		if v, ok := pa.kw[axis.kw]; ok {
			a, err := toFloat64(v)
			if err != nil {
				return pos, o, fmt.Errorf("%s: %w", axis.kw, err)
			}
			o = axis.rotate(o, a)
		}
	}
	return pos, o, nil
}
