package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and constraints
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

// DefaultCollisionLayer is the layer bit every new body starts on
const DefaultCollisionLayer uint32 = 1

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0= no rebound, 1= perfect restitution

	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64 // 0.0 - 1.0, typical: 0.01
	AngularDamping  float64 // 0.0 - 1.0, typical: 0.05
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	ID uuid.UUID

	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion
	PresolveVelocity mgl64.Vec3
	Velocity         mgl64.Vec3 // Linear velocity of the center of mass (m/s)

	// Angular motion
	PresolveAngularVelocity mgl64.Vec3
	AngularVelocity         mgl64.Vec3 // rad/s
	InertiaLocal            mgl64.Mat3
	InverseInertiaLocal     mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	// Center of mass in body space; zero is the shape origin
	centerOfMass       mgl64.Vec3
	customCenterOfMass bool

	IsSleeping bool
	SleepTimer float64

	// Physical properties
	Material     Material
	BodyType     BodyType // Dynamic or Static
	GravityScale float64

	// CollisionLayer is the bitmask queries are filtered against
	CollisionLayer uint32

	// Collision shape
	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	transform = transform.Normalized()
	rb := &RigidBody{
		ID:                uuid.New(),
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		BodyType:          bodyType,
		GravityScale:      1.0,
		CollisionLayer:    DefaultCollisionLayer,
		Velocity:          mgl64.Vec3{0, 0, 0},
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{
			Density: 0,
			mass:    math.Inf(1),
		}
	} else {
		rb.Material = Material{
			Density: density,
			mass:    shape.ComputeMass(density),
		}
	}

	rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.PreviousTransform = rb.Transform

	// linear
	acceleration := gravity.Mul(rb.GravityScale).Add(rb.accumulatedForce.Mul(1.0 / rb.Material.GetMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))

	// angular
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	rb.applyCorrection(rb.Velocity.Mul(dt), rb.AngularVelocity.Mul(dt))

	rb.PresolveVelocity = rb.Velocity
	rb.PresolveAngularVelocity = rb.AngularVelocity
}

// Update derives the velocities from the solved positions
func (rb *RigidBody) Update(dt float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping || dt <= 0 {
		return
	}

	previousCenter := rb.PreviousTransform.Apply(rb.centerOfMass)
	rb.Velocity = rb.GetCenterOfMassWorld().Sub(previousCenter).Mul(1.0 / dt)

	qDelta := rb.Transform.Rotation.Mul(rb.PreviousTransform.Rotation.Conjugate()).Normalize()
	if qDelta.W >= 0.0 {
		rb.AngularVelocity = qDelta.V.Mul(2.0 / dt)
	} else {
		rb.AngularVelocity = qDelta.V.Mul(-2.0 / dt)
	}
}

// ApplyCorrection moves the center of mass by linear and rotates the body
// about it by the rotation vector angular. Used by the solvers.
func (rb *RigidBody) ApplyCorrection(linear, angular mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.applyCorrection(linear, angular)
}

func (rb *RigidBody) applyCorrection(linear, angular mgl64.Vec3) {
	center := rb.GetCenterOfMassWorld().Add(linear)

	if angular.Len() > 0 {
		omegaQuat := mgl64.Quat{V: angular, W: 0}
		qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
		rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot).Normalize()
		rb.Transform.InverseRotation = rb.Transform.Rotation.Conjugate()
	}

	rb.Transform.Position = center.Sub(rb.Transform.Rotation.Rotate(rb.centerOfMass))
	rb.Shape.ComputeAABB(rb.Transform)
}

// AddForce accumulates a force (N) applied at the center of mass until ClearForces
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque (N⋅m) until ClearForces
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// GetAccumulatedForce returns the force applied by every Integrate until cleared
func (rb *RigidBody) GetAccumulatedForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

// GetAccumulatedTorque returns the torque applied by every Integrate until cleared
func (rb *RigidBody) GetAccumulatedTorque() mgl64.Vec3 {
	return rb.accumulatedTorque
}

func (rb *RigidBody) GetID() uuid.UUID {
	return rb.ID
}

func (rb *RigidBody) GetTransform() Transform {
	return rb.Transform
}

// SetPosition teleports the body origin, previous position included, so no velocity is derived from the jump
func (rb *RigidBody) SetPosition(position mgl64.Vec3) {
	rb.Transform.Position = position
	rb.PreviousTransform.Position = position
	rb.Shape.ComputeAABB(rb.Transform)
}

func (rb *RigidBody) GetVelocity() mgl64.Vec3 {
	return rb.Velocity
}

func (rb *RigidBody) SetVelocities(linear, angular mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Velocity = linear
	rb.AngularVelocity = angular
}

func (rb *RigidBody) GetMass() float64 {
	return rb.Material.GetMass()
}

func (rb *RigidBody) IsDynamic() bool {
	return rb.BodyType == BodyTypeDynamic
}

func (rb *RigidBody) GetAngularDamping() float64 {
	return rb.Material.AngularDamping
}

func (rb *RigidBody) SetAngularDamping(damping float64) {
	rb.Material.AngularDamping = damping
}

// SetCenterOfMass moves the center of mass to a body-space offset from the origin
func (rb *RigidBody) SetCenterOfMass(offset mgl64.Vec3) {
	rb.centerOfMass = offset
	rb.customCenterOfMass = true
}

// ClearCenterOfMass goes back to the shape's own center of mass
func (rb *RigidBody) ClearCenterOfMass() {
	rb.centerOfMass = mgl64.Vec3{}
	rb.customCenterOfMass = false
}

func (rb *RigidBody) HasCustomCenterOfMass() bool {
	return rb.customCenterOfMass
}

func (rb *RigidBody) GetCenterOfMass() mgl64.Vec3 {
	return rb.centerOfMass
}

func (rb *RigidBody) GetCenterOfMassWorld() mgl64.Vec3 {
	return rb.Transform.Apply(rb.centerOfMass)
}

// SetCollisionLayer turns one layer bit (0-31) on or off
func (rb *RigidBody) SetCollisionLayer(layer int, enabled bool) {
	if layer < 0 || layer > 31 {
		return
	}

	if enabled {
		rb.CollisionLayer |= 1 << uint(layer)
	} else {
		rb.CollisionLayer &^= 1 << uint(layer)
	}
}

func (rb *RigidBody) GetCollisionLayer(layer int) bool {
	if layer < 0 || layer > 31 {
		return false
	}

	return rb.CollisionLayer&(1<<uint(layer)) != 0
}

// Raycast tests the ray against the body shape; the hit body is rb
func (rb *RigidBody) Raycast(ray Ray) (RayHit, bool) {
	t, normal, ok := rb.Shape.Raycast(ray, rb.Transform)
	if !ok {
		return RayHit{}, false
	}

	return RayHit{Body: rb, Point: ray.At(t), Normal: normal, Distance: t}, true
}

func (rb *RigidBody) GetInverseMass() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}

	return 1.0 / rb.Material.GetMass()
}

// GetInertiaWorld returns the inertia tensor in world space
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// GetInverseInertiaWorld returns the inverse inertia tensor in world space
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
