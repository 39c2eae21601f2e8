package bestiary

import "github.com/chazu/bestiary/pkg/geom"

// BoundsChecker decides whether a point lies inside some region.
type BoundsChecker interface {
	IsPointInsideBounds(p geom.Vec3) bool
}

// CubeBounds is the open axis-aligned cube of side Edge around Center.
type CubeBounds struct {
	Center geom.Vec3
	Edge   float64
}

// IsPointInsideBounds reports whether every coordinate of p lies strictly
// within Edge/2 of the centre.
func (b CubeBounds) IsPointInsideBounds(p geom.Vec3) bool {
	d := p.Sub(b.Center)
	h := b.Edge / 2
	for i := 0; i < 3; i++ {
		if d[i] <= -h || d[i] >= h {
			return false
		}
	}
	return true
}

// Camera exposes the live viewpoint position. The engine moves it; the
// bestiary only reads it.
type Camera interface {
	Position() geom.Vec3
}

// CameraFunc adapts a function to Camera.
type CameraFunc func() geom.Vec3

// Position calls f.
func (f CameraFunc) Position() geom.Vec3 { return f() }

// World is the part of the running world the bestiary needs.
type World interface {
	Camera() Camera
}

// StaticWorld is a World with a fixed camera handle.
type StaticWorld struct {
	Cam Camera
}

// Camera returns w.Cam.
func (w StaticWorld) Camera() Camera { return w.Cam }

// SlowMo slows time by Factor while the camera is inside Bounds. The
// condition is re-evaluated on every call, against the camera's current
// position.
type SlowMo struct {
	Bounds BoundsChecker
	Camera Camera
	Factor float64
}

// NewSlowMo returns a slow-motion modifier.
func NewSlowMo(bounds BoundsChecker, camera Camera, factor float64) *SlowMo {
	return &SlowMo{Bounds: bounds, Camera: camera, Factor: factor}
}

// Active reports whether the camera is currently inside the bounds. It is
// false when either the bounds or the camera is missing.
func (s *SlowMo) Active() bool {
	if s == nil || s.Bounds == nil || s.Camera == nil {
		return false
	}
	return s.Bounds.IsPointInsideBounds(s.Camera.Position())
}

// Scale returns Factor while active and 1 otherwise.
func (s *SlowMo) Scale() float64 {
	if s.Active() {
		return s.Factor
	}
	return 1
}
