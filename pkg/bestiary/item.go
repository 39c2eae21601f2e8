package bestiary

import (
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/shape"
)

// Spinner turns an item continuously about an axis in its local frame.
type Spinner struct {
	Axis  geom.Vec3 // local axis, need not be normalised
	Speed float64   // radians per second
}

// NewSpinner returns a spinner about the local Y axis.
func NewSpinner(speed float64) *Spinner {
	return &Spinner{Axis: geom.YAxis, Speed: speed}
}

// Apply returns o advanced by dt seconds of spin.
func (s *Spinner) Apply(o geom.Orientation, dt float64) geom.Orientation {
	if s == nil || s.Speed == 0 || s.Axis.Len() == 0 {
		return o
	}
	return o.Mul(geom.Rotation(s.Axis, s.Speed*dt))
}

// GameItem is a shape together with its placement in the world and
// optional behaviour modifiers. Items are created once by Build; the frame
// loop then mutates Orientation through Update.
type GameItem struct {
	Name        string
	Shape       shape.Node
	Position    geom.Vec3
	Orientation geom.Orientation
	Spin        *Spinner // nil for a static item
	SlowMo      *SlowMo  // nil when time always runs at full speed
}

// TimeScale is the factor applied to time for this item: the slow-mo
// factor while its condition holds, 1 otherwise.
func (g *GameItem) TimeScale() float64 {
	return g.SlowMo.Scale()
}

// Update advances the item by dt seconds of wall time, scaled by
// TimeScale.
func (g *GameItem) Update(dt float64) {
	g.Orientation = g.Spin.Apply(g.Orientation, dt*g.TimeScale())
}

// Transform is the item's placement in world space.
func (g *GameItem) Transform() geom.Transform {
	return geom.At(g.Position, g.Orientation)
}
