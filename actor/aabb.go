package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// IntersectRay reports whether the ray segment crosses the box
func (a AABB) IntersectRay(ray Ray) bool {
	_, _, ok := slab(ray.Origin, ray.Direction, a.Min, a.Max, ray.Length)

	return ok
}

// slab clips the segment origin + t*direction, t in [0, length], against a box.
// It returns the entry distance and the entry face normal (zero if the origin is inside).
func slab(origin, direction, min, max mgl64.Vec3, length float64) (float64, mgl64.Vec3, bool) {
	tNear := 0.0
	tFar := length
	var normal mgl64.Vec3

	for axis := 0; axis < 3; axis++ {
		if math.Abs(direction[axis]) < 1e-12 {
			if origin[axis] < min[axis] || origin[axis] > max[axis] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}

		inv := 1.0 / direction[axis]
		t1 := (min[axis] - origin[axis]) * inv
		t2 := (max[axis] - origin[axis]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}

		if t1 > tNear {
			tNear = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		tFar = math.Min(tFar, t2)

		if tNear > tFar {
			return 0, mgl64.Vec3{}, false
		}
	}

	return tNear, normal, true
}
