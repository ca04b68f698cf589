package actor

import "github.com/go-gl/mathgl/mgl64"

// Ray is a finite segment: Origin + t*Direction with t in [0, Length]
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // normalized by NewRay
	Length    float64
}

// NewRay creates a ray with a normalized direction
func NewRay(origin, direction mgl64.Vec3, length float64) Ray {
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}

	return Ray{Origin: origin, Direction: direction, Length: length}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Bounds returns the AABB enclosing the whole segment
func (r Ray) Bounds() AABB {
	end := r.At(r.Length)
	min := r.Origin
	max := r.Origin
	for i := 0; i < 3; i++ {
		if end[i] < min[i] {
			min[i] = end[i]
		}
		if end[i] > max[i] {
			max[i] = end[i]
		}
	}

	return AABB{Min: min, Max: max}
}

// RayHit describes the nearest intersection of a ray with a body
type RayHit struct {
	Body     *RigidBody
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}
