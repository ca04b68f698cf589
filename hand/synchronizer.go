package hand

import (
	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/skeleton"
	"github.com/go-gl/mathgl/mgl64"
)

// BoneCollider is the physical stand-in of one finger bone. It hangs under
// the physical wrist, so Local is relative to the wrist body.
type BoneCollider struct {
	Bone   skeleton.BoneId
	Local  actor.Transform
	Probes []Probe

	// Touching is true when a probe hit something on the last frame
	Touching bool
	Hit      RayHit
}

// World returns the collider pose for a given physical wrist pose
func (c *BoneCollider) World(wrist actor.Transform) actor.Transform {
	return wrist.Mul(c.Local)
}

// Cast runs the probes in order and stops at the first hit
func (c *BoneCollider) Cast(physics Physics, wrist actor.Transform, mask uint32) (RayHit, bool) {
	frame := c.World(wrist)
	for _, probe := range c.Probes {
		if hit, ok := physics.CastRay(probe.Ray(frame), mask); ok {
			return hit, true
		}
	}
	return RayHit{}, false
}

// Synchronizer moves each collider toward its tracked bone with an
// exponential smoothing, so probes sweep through space instead of jumping.
type Synchronizer struct {
	Blend  float64
	Offset mgl64.Vec3
	Align  mgl64.Quat
}

func NewSynchronizer(cfg Config) Synchronizer {
	return Synchronizer{
		Blend:  cfg.ColliderBlend,
		Offset: cfg.ColliderOffset,
		Align:  cfg.ColliderAlign.Quat(),
	}
}

// Target returns the wrist-relative collider pose for a tracked bone
func (s Synchronizer) Target(trackedWrist, trackedBone actor.Transform) actor.Transform {
	offset := actor.NewTransformFrom(s.Offset, mgl64.QuatIdent())
	align := actor.NewTransformFrom(mgl64.Vec3{}, s.Align)

	return trackedWrist.Inverse().Mul(trackedBone).Mul(offset).Mul(align)
}

// Step blends the collider one frame toward target
func (s Synchronizer) Step(collider *BoneCollider, target actor.Transform) {
	collider.Local = collider.Local.Interpolate(target, s.Blend)
}
