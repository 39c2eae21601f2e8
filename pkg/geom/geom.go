// Package geom holds the small amount of 3D math the shape layer needs:
// a vector type, orientations backed by unit quaternions, and rigid
// transforms that compose from leaf to root.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a point or direction in 3D space.
type Vec3 = mgl64.Vec3

// Axis constants.
var (
	Origin   = Vec3{0, 0, 0}
	XAxis    = Vec3{1, 0, 0}
	YAxis    = Vec3{0, 1, 0}
	ZAxis    = Vec3{0, 0, 1}
	NegXAxis = Vec3{-1, 0, 0}
	NegYAxis = Vec3{0, -1, 0}
	NegZAxis = Vec3{0, 0, -1}
)

// DefaultForward is the direction an identity orientation faces.
var DefaultForward = NegZAxis

// V is shorthand for building a Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Orientation is a rotation state. The zero value is the identity.
type Orientation struct {
	q mgl64.Quat
}

// Identity returns the orientation that applies no rotation.
func Identity() Orientation {
	return Orientation{q: mgl64.QuatIdent()}
}

// Rotation returns a rotation of angle radians about axis.
func Rotation(axis Vec3, angle float64) Orientation {
	return Orientation{q: mgl64.QuatRotate(angle, axis.Normalize())}
}

// Facing returns the orientation that turns DefaultForward onto forward.
func Facing(forward Vec3) Orientation {
	return Orientation{q: mgl64.QuatBetweenVectors(DefaultForward, forward.Normalize())}
}

// quat maps the zero value onto the identity quaternion.
func (o Orientation) quat() mgl64.Quat {
	if o.q.W == 0 && o.q.V == (Vec3{}) {
		return mgl64.QuatIdent()
	}
	return o.q
}

// Quat exposes the underlying unit quaternion.
func (o Orientation) Quat() mgl64.Quat {
	return o.quat()
}

// Mul returns the rotation o followed, in o's local frame, by other.
func (o Orientation) Mul(other Orientation) Orientation {
	return Orientation{q: o.quat().Mul(other.quat()).Normalize()}
}

// Rotate applies the orientation to v.
func (o Orientation) Rotate(v Vec3) Vec3 {
	return o.quat().Rotate(v)
}

// Pitch returns o rotated by angle about its local X axis.
func (o Orientation) Pitch(angle float64) Orientation {
	return o.Mul(Rotation(XAxis, angle))
}

// Yaw returns o rotated by angle about its local Y axis.
func (o Orientation) Yaw(angle float64) Orientation {
	return o.Mul(Rotation(YAxis, angle))
}

// Roll returns o rotated by angle about its local Z axis.
func (o Orientation) Roll(angle float64) Orientation {
	return o.Mul(Rotation(ZAxis, angle))
}

// Forward is DefaultForward rotated by o.
func (o Orientation) Forward() Vec3 {
	return o.Rotate(DefaultForward)
}

// ApproxEqual reports whether o and other describe the same rotation.
// q and -q are the same rotation.
func (o Orientation) ApproxEqual(other Orientation) bool {
	a, b := o.quat(), other.quat()
	return math.Abs(a.Dot(b)) > 1-1e-9
}

// Transform is a placement: rotate by Orientation, then offset by Position.
type Transform struct {
	Position    Vec3
	Orientation Orientation
}

// IdentityTransform leaves points where they are.
func IdentityTransform() Transform {
	return Transform{Orientation: Identity()}
}

// At returns a transform with the given position and orientation.
func At(position Vec3, orientation Orientation) Transform {
	return Transform{Position: position, Orientation: orientation}
}

// Compose returns the transform of a child placed at child inside t: the
// child's local transform is applied first, then t.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Position:    t.Position.Add(t.Orientation.Rotate(child.Position)),
		Orientation: t.Orientation.Mul(child.Orientation),
	}
}

// Apply maps a point from local space into t's parent space.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Position.Add(t.Orientation.Rotate(p))
}

// ApplyDir rotates a direction without translating it.
func (t Transform) ApplyDir(d Vec3) Vec3 {
	return t.Orientation.Rotate(d)
}

// ApproxEqualVec reports whether every component of a and b differs by at
// most tol. The tolerance is absolute.
func ApproxEqualVec(a, b Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
