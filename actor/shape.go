package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	// Raycast returns the entry distance and the world normal of the ray
	// against the shape placed at transform
	Raycast(ray Ray, transform Transform) (float64, mgl64.Vec3, bool)
	Type() ShapeType
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }

func (b *Box) ComputeAABB(transform Transform) {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}

	worldCorner := transform.Apply(corners[0])
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = transform.Apply(corners[i])

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

// Raycast runs the slab test in box space, then brings the normal back to world space
func (b *Box) Raycast(ray Ray, transform Transform) (float64, mgl64.Vec3, bool) {
	transform = transform.Normalized()
	origin := transform.InverseRotation.Rotate(ray.Origin.Sub(transform.Position))
	direction := transform.InverseRotation.Rotate(ray.Direction)

	t, normal, ok := slab(origin, direction, b.HalfExtents.Mul(-1), b.HalfExtents, ray.Length)
	if !ok {
		return 0, mgl64.Vec3{}, false
	}
	if normal.Len() == 0 {
		// origin inside the box
		return 0, ray.Direction.Mul(-1), true
	}

	return t, transform.Rotation.Rotate(normal), true
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r², identical on every axis
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) Raycast(ray Ray, transform Transform) (float64, mgl64.Vec3, bool) {
	m := ray.Origin.Sub(transform.Position)
	b := m.Dot(ray.Direction)
	c := m.Dot(m) - s.Radius*s.Radius

	// origin outside and pointing away
	if c > 0 && b > 0 {
		return 0, mgl64.Vec3{}, false
	}

	discriminant := b*b - c
	if discriminant < 0 {
		return 0, mgl64.Vec3{}, false
	}

	if c <= 0 {
		return 0, ray.Direction.Mul(-1), true
	}

	t := -b - math.Sqrt(discriminant)
	if t > ray.Length {
		return 0, mgl64.Vec3{}, false
	}

	return t, ray.At(t).Sub(transform.Position).Normalize(), true
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

func (p *Plane) Type() ShapeType { return ShapeTypePlane }

func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1.0 // detection thickness below the surface
	const infinity = 1e10

	planePoint := p.Normal.Mul(-p.Distance)

	// Create base bounds with thickness along the normal
	min := planePoint.Sub(p.Normal.Mul(thickness)).Add(transform.Position)
	max := planePoint.Add(transform.Position)

	absNormal := mgl64.Vec3{
		math.Abs(p.Normal.X()),
		math.Abs(p.Normal.Y()),
		math.Abs(p.Normal.Z()),
	}

	// For axes not aligned with the normal, extend to infinity
	if absNormal.X() < 1.0 {
		min[0] = -infinity
		max[0] = infinity
	}
	if absNormal.Y() < 1.0 {
		min[1] = -infinity
		max[1] = infinity
	}
	if absNormal.Z() < 1.0 {
		min[2] = -infinity
		max[2] = infinity
	}

	// a normal pointing down the axis flips min and max
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// ComputeMass calculates mass data for the plane
// Planes are always static with infinite mass
func (p *Plane) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

// Raycast only reports hits on the side the normal points to
func (p *Plane) Raycast(ray Ray, transform Transform) (float64, mgl64.Vec3, bool) {
	denominator := p.Normal.Dot(ray.Direction)
	if denominator >= -1e-12 {
		return 0, mgl64.Vec3{}, false
	}

	planePoint := p.Normal.Mul(-p.Distance).Add(transform.Position)
	t := planePoint.Sub(ray.Origin).Dot(p.Normal) / denominator
	if t < 0 || t > ray.Length {
		return 0, mgl64.Vec3{}, false
	}

	return t, p.Normal, true
}
