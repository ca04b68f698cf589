package hand

import (
	"math"

	"github.com/akmonengine/grasp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// WristActuator is a proportional controller that drives the physical wrist
// toward the tracked wrist with a force and a torque every frame.
type WristActuator struct {
	LinearGain       float64
	AngularGain      float64
	BodyVelocityGain float64
}

// Actuation is what one Drive call computed and applied
type Actuation struct {
	LinearAcceleration  mgl64.Vec3
	AngularAcceleration mgl64.Vec3
	Force               mgl64.Vec3
	Torque              mgl64.Vec3
}

// Compute returns the accelerations that close the gap between phys and track
func (a WristActuator) Compute(track, phys actor.Transform, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	if dt <= 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}

	linear := track.Position.Sub(phys.Position).Mul(a.LinearGain / dt)
	angular := eulerDelta(track.Rotation, phys.Rotation).Mul(a.AngularGain)

	return finiteOrZero(linear), finiteOrZero(angular)
}

// Drive resets the wrist velocities, then applies the force and torque for this frame.
// parentVelocity is the velocity of the body carrying the hand.
func (a WristActuator) Drive(body Body, track actor.Transform, parentVelocity mgl64.Vec3, dt float64) Actuation {
	phys := body.GetTransform()
	body.SetVelocities(mgl64.Vec3{}, mgl64.Vec3{})

	linear, angular := a.Compute(track, phys, dt)
	if dt <= 0 {
		return Actuation{}
	}

	force := linear.Mul(body.GetMass()).Add(finiteOrZero(parentVelocity).Mul(a.BodyVelocityGain))
	torque := body.GetInertiaWorld().Mul3x1(angular)

	act := Actuation{
		LinearAcceleration:  linear,
		AngularAcceleration: angular,
		Force:               finiteOrZero(force),
		Torque:              finiteOrZero(torque),
	}
	body.AddForce(act.Force)
	body.AddTorque(act.Torque)

	return act
}

// eulerDelta returns the YXZ Euler angles (x, y, z) of the rotation taking from onto to,
// along the shortest arc
func eulerDelta(to, from mgl64.Quat) mgl64.Vec3 {
	dq := to.Mul(from.Conjugate())
	if dq.Len() == 0 {
		return mgl64.Vec3{}
	}
	dq = dq.Normalize()
	if dq.W < 0 {
		dq = dq.Scale(-1)
	}

	return eulerYXZ(dq.Mat4().Mat3())
}

func eulerYXZ(m mgl64.Mat3) mgl64.Vec3 {
	const epsilon = 1e-9

	m12 := m.At(1, 2)
	switch {
	case m12 >= 1-epsilon:
		// gimbal lock, x = -90°
		return mgl64.Vec3{-math.Pi / 2, -math.Atan2(m.At(0, 1), m.At(0, 0)), 0}
	case m12 <= -1+epsilon:
		// gimbal lock, x = +90°
		return mgl64.Vec3{math.Pi / 2, math.Atan2(m.At(0, 1), m.At(0, 0)), 0}
	}

	// pure rotation about X
	if m.At(1, 0) == 0 && m.At(0, 1) == 0 && m.At(0, 2) == 0 && m.At(2, 0) == 0 && m.At(0, 0) == 1 {
		return mgl64.Vec3{math.Atan2(-m12, m.At(1, 1)), 0, 0}
	}

	return mgl64.Vec3{
		math.Asin(-m12),
		math.Atan2(m.At(0, 2), m.At(2, 2)),
		math.Atan2(m.At(1, 0), m.At(1, 1)),
	}
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func finiteOrZero(v mgl64.Vec3) mgl64.Vec3 {
	if !finite(v) {
		return mgl64.Vec3{}
	}
	return v
}

func finiteTransform(t actor.Transform) bool {
	q := t.Rotation
	return finite(t.Position) && finite(q.V) && !math.IsNaN(q.W) && !math.IsInf(q.W, 0)
}
