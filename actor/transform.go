package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a position and an orientation in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformFrom creates a transform from a position and a rotation.
// The rotation is normalized and its inverse cached.
func NewTransformFrom(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{Position: position, Rotation: rotation}.Normalized()
}

// Normalized returns the transform with a unit rotation and an up to date InverseRotation.
// A zero rotation is treated as the identity.
func (t Transform) Normalized() Transform {
	if t.Rotation.Len() == 0 {
		t.Rotation = mgl64.QuatIdent()
	} else {
		t.Rotation = t.Rotation.Normalize()
	}
	t.InverseRotation = t.Rotation.Conjugate()

	return t
}

// Mul composes two transforms: the result applies other first, then t
func (t Transform) Mul(other Transform) Transform {
	return Transform{
		Position: t.Position.Add(t.Rotation.Rotate(other.Position)),
		Rotation: t.Rotation.Mul(other.Rotation),
	}.Normalized()
}

// Inverse returns the transform that undoes t
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Conjugate()
	if t.Rotation.Len() == 0 {
		inv = mgl64.QuatIdent()
	}

	return Transform{
		Position: inv.Rotate(t.Position).Mul(-1),
		Rotation: inv,
	}.Normalized()
}

// Apply transforms a point from local to parent space
func (t Transform) Apply(point mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(point))
}

// ApplyVector rotates a direction from local to parent space
func (t Transform) ApplyVector(vector mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(vector)
}

// Translated returns a copy of t moved to the given position, rotation untouched
func (t Transform) Translated(position mgl64.Vec3) Transform {
	t.Position = position

	return t
}

// Interpolate blends t toward target by weight (0 keeps t, 1 reaches target).
// Positions are lerped, rotations slerped along the shortest arc.
func (t Transform) Interpolate(target Transform, weight float64) Transform {
	weight = mgl64.Clamp(weight, 0, 1)
	if weight == 0 {
		return t
	}
	if weight == 1 {
		return target
	}

	from := t.Normalized().Rotation
	to := target.Normalized().Rotation
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}

	return Transform{
		Position: t.Position.Add(target.Position.Sub(t.Position).Mul(weight)),
		Rotation: mgl64.QuatSlerp(from, to, weight),
	}.Normalized()
}

// ApproxEqual compares positions component-wise with an absolute tolerance
// and rotations up to sign
func (t Transform) ApproxEqual(other Transform, epsilon float64) bool {
	for i := range t.Position {
		if !(math.Abs(t.Position[i]-other.Position[i]) <= epsilon) {
			return false
		}
	}

	a := t.Normalized().Rotation
	b := other.Normalized().Rotation
	dot := a.Dot(b)
	if dot < 0 {
		dot = -dot
	}

	return 1-dot <= epsilon
}
