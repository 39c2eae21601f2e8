package bestiary

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
)

// movingCamera is a camera the test can move between frames.
type movingCamera struct {
	pos geom.Vec3
}

func (c *movingCamera) Position() geom.Vec3 { return c.pos }

func build(t *testing.T, world World) Bestiary {
	t.Helper()
	b, err := Build(world, Options{Rand: rand.New(rand.NewPCG(1, 2))})
	require.NoError(t, err)
	return b
}

func TestBuildHasTenItems(t *testing.T) {
	b := build(t, nil)
	require.Len(t, b, NumTriggers)
	assert.Equal(t, Triggers(), b.Keys())

	names := map[string]bool{}
	for _, k := range b.Keys() {
		item, ok := b.Lookup(k)
		require.True(t, ok)
		require.NotNil(t, item.Shape, "key %s", k)
		assert.NotEmpty(t, item.Name)
		names[item.Name] = true
	}
	assert.Len(t, names, NumTriggers, "item names are unique")
}

func TestBuildItemsValidate(t *testing.T) {
	b := build(t, nil)
	for _, k := range b.Keys() {
		res := shape.ValidateAll(b[k].Shape)
		assert.True(t, res.OK(), "key %s (%s): %v", k, b[k].Name, res.Errors)
	}
}

func TestBuildShapes(t *testing.T) {
	b := build(t, nil)

	tests := []struct {
		key        TriggerID
		placements int
		leaves     int
	}{
		{Key1, 0, 1},
		{Key2, 0, 1},
		{Key3, 2, 2},
		{Key4, 7, 7},
		{Key5, 9, 9},
		{Key6, 13, 13},
		{Key7, 54 + 54*2, 54 * 2},
		{Key8, 12, 12},
		{Key9, ClusterCubes, ClusterCubes},
		{Key0, 21 * 21 * 6, 21 * 21 * 6},
	}
	for _, tt := range tests {
		st := shape.Summarize(b[tt.key].Shape)
		assert.Equal(t, tt.placements, st.Placements, "key %s placements", tt.key)
		assert.Equal(t, tt.leaves, st.LeafVisits, "key %s leaf visits", tt.key)
	}

	// The ring and the lattice share one leaf across all placements.
	assert.Equal(t, 1, shape.Summarize(b[Key6].Shape).DistinctLeaves)
	assert.Equal(t, 1, shape.Summarize(b[Key0].Shape).DistinctLeaves)
	assert.Equal(t, 2, shape.Summarize(b[Key7].Shape).DistinctLeaves)
}

func TestBuildIsReproducibleWithSeed(t *testing.T) {
	a, b := build(t, nil), build(t, nil)
	for _, k := range a.Keys() {
		assert.Equal(t, shape.Fingerprint(a[k].Shape), shape.Fingerprint(b[k].Shape), "key %s", k)
	}
}

func TestTwistedRingSpins(t *testing.T) {
	b := build(t, nil)
	item := b[Key7]
	require.NotNil(t, item.Spin)
	assert.True(t, geom.ApproxEqualVec(geom.XAxis, item.Orientation.Forward(), 1e-9))

	before := item.Orientation
	item.Update(0.5)
	assert.False(t, item.Orientation.ApproxEqual(before))
	assert.True(t, item.Orientation.ApproxEqual(before.Mul(geom.Rotation(geom.YAxis, 0.5))))

	for _, k := range []TriggerID{Key1, Key2, Key6, Key9} {
		static := b[k]
		o := static.Orientation
		static.Update(1)
		assert.True(t, static.Orientation.ApproxEqual(o), "key %s should not spin", k)
	}
}

func TestSlowMoFollowsCamera(t *testing.T) {
	cam := &movingCamera{pos: geom.V(0, 0, 100)}
	b := build(t, StaticWorld{Cam: cam})
	lattice := b[Key0]
	require.NotNil(t, lattice.SlowMo)

	assert.False(t, lattice.SlowMo.Active())
	assert.Equal(t, 1.0, lattice.TimeScale())

	cam.pos = geom.V(5, -19, 19.9)
	assert.True(t, lattice.SlowMo.Active())
	assert.Equal(t, SlowMoFactor, lattice.TimeScale())

	cam.pos = geom.V(0, 20, 0)
	assert.False(t, lattice.SlowMo.Active(), "the boundary itself is outside")

	for _, k := range []TriggerID{Key1, Key7, Key9} {
		assert.Equal(t, 1.0, b[k].TimeScale())
	}
}

func TestSlowMoWithoutWorld(t *testing.T) {
	b := build(t, nil)
	assert.False(t, b[Key0].SlowMo.Active())
	assert.Equal(t, 1.0, b[Key0].TimeScale())
}

func TestSlowMoScalesSpin(t *testing.T) {
	cam := &movingCamera{}
	item := &GameItem{
		Orientation: geom.Identity(),
		Spin:        NewSpinner(1),
		SlowMo:      NewSlowMo(CubeBounds{Edge: 2}, cam, 0.25),
	}
	item.Update(2)
	assert.True(t, item.Orientation.ApproxEqual(geom.Rotation(geom.YAxis, 0.5)))

	cam.pos = geom.V(5, 0, 0)
	item.Update(1)
	assert.True(t, item.Orientation.ApproxEqual(geom.Rotation(geom.YAxis, 1.5)))
}

func TestCubeBounds(t *testing.T) {
	b := CubeBounds{Center: geom.V(10, 0, 0), Edge: 4}
	tests := []struct {
		p    geom.Vec3
		want bool
	}{
		{geom.V(10, 0, 0), true},
		{geom.V(11.9, 1.9, -1.9), true},
		{geom.V(12, 0, 0), false},
		{geom.V(0, 0, 0), false},
		{geom.V(10, 0, -2.1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.IsPointInsideBounds(tt.p), "%v", tt.p)
	}
}

func TestCameraFunc(t *testing.T) {
	var calls int
	cam := CameraFunc(func() geom.Vec3 {
		calls++
		return geom.V(0, 0, float64(calls)*15)
	})
	s := NewSlowMo(CubeBounds{Edge: LatticeEdge}, cam, 0.5)
	assert.True(t, s.Active())
	assert.False(t, s.Active())
	assert.Equal(t, 2, calls)
}

func TestSpinnerNil(t *testing.T) {
	var s *Spinner
	o := geom.Rotation(geom.ZAxis, 1)
	assert.True(t, s.Apply(o, 10).ApproxEqual(o))

	axisless := &Spinner{Speed: 3}
	assert.True(t, axisless.Apply(o, 10).ApproxEqual(o))
}

func TestItemTransform(t *testing.T) {
	item := &GameItem{Position: geom.V(1, 2, 3), Orientation: geom.Rotation(geom.ZAxis, math.Pi/2)}
	p := item.Transform().Apply(geom.XAxis)
	assert.True(t, geom.ApproxEqualVec(geom.V(1, 3, 3), p, 1e-9), "%v", p)
}

func TestBuildWithSmallAttemptBudget(t *testing.T) {
	// Without a hole only the origin is rejected, so a few draws per cube
	// are plenty.
	b, err := Build(nil, Options{Rand: rand.New(rand.NewPCG(5, 5)), MaxAttempts: 5})
	require.NoError(t, err)
	assert.Equal(t, ClusterCubes, shape.Summarize(b[Key9].Shape).Placements)
}
