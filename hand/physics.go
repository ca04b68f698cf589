// Package hand is the per-frame controller of a physics-driven tracked hand:
// wrist actuation, finger colliders, grasp freezing and the grab/hold cycle.
package hand

import (
	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/skeleton"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Body is the physical wrist. The hand only writes forces into it;
// the physics engine integrates the resulting transform.
type Body interface {
	GetTransform() actor.Transform
	SetPosition(position mgl64.Vec3)
	SetVelocities(linear, angular mgl64.Vec3)
	GetMass() float64
	GetInertiaWorld() mgl64.Mat3
	AddForce(force mgl64.Vec3)
	AddTorque(torque mgl64.Vec3)
}

// Mover is anything reporting a linear velocity, e.g. the player body carrying the hand
type Mover interface {
	GetVelocity() mgl64.Vec3
}

// Object is a handle on something a probe can hit and the hand can hold
type Object interface {
	GetID() uuid.UUID
	GetTransform() actor.Transform
}

// DynamicObject is an Object simulated as a dynamic rigid body.
// Its damping and center of mass are overridden while held.
type DynamicObject interface {
	Object
	IsDynamic() bool
	GetAngularDamping() float64
	SetAngularDamping(damping float64)
	HasCustomCenterOfMass() bool
	GetCenterOfMass() mgl64.Vec3
	SetCenterOfMass(offset mgl64.Vec3)
	ClearCenterOfMass()
}

// LayeredObject is an Object with collision layer bits
type LayeredObject interface {
	Object
	SetCollisionLayer(layer int, enabled bool)
	GetCollisionLayer(layer int) bool
}

// RayHit is the nearest hit of a probe
type RayHit struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Object Object
}

// Joint is an attached 6-DOF constraint between the wrist and a held object
type Joint interface {
	AnchorA() actor.Transform
}

// Physics is the engine-side collaborator: raycasts and joints
type Physics interface {
	CastRay(ray actor.Ray, mask uint32) (RayHit, bool)
	AttachJoint(wrist Body, object Object, anchor actor.Transform) (Joint, error)
	DetachJoint(joint Joint)
	// Alive reports whether an object handle still refers to a live object
	Alive(object Object) bool
}

// PoseSink receives the output skeleton, one parent-relative pose per bone
type PoseSink interface {
	SetLocalPose(bone skeleton.BoneId, pose actor.Transform)
}

// GhostSink receives the lag feedback opacity, 0 when the wrist is on target
type GhostSink interface {
	SetGhostOpacity(opacity float64)
}

type stillMover struct{}

func (stillMover) GetVelocity() mgl64.Vec3 { return mgl64.Vec3{} }
