package constraint

import (
	"github.com/akmonengine/grasp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

var _ Constraint = (*FixedJoint)(nil)

// FixedJoint locks all six degrees of freedom between two bodies at a shared anchor frame.
// Anchors are stored in each body's space, so the joint follows both bodies.
type FixedJoint struct {
	BodyA        *actor.RigidBody
	BodyB        *actor.RigidBody
	LocalAnchorA actor.Transform
	LocalAnchorB actor.Transform
	// Compliance is the inverse stiffness (XPBD alpha), 0 is rigid
	Compliance float64
}

// NewFixedJoint pins bodyA and bodyB together at the world frame anchor
func NewFixedJoint(bodyA, bodyB *actor.RigidBody, anchor actor.Transform, compliance float64) *FixedJoint {
	anchor = anchor.Normalized()

	return &FixedJoint{
		BodyA:        bodyA,
		BodyB:        bodyB,
		LocalAnchorA: bodyA.Transform.Inverse().Mul(anchor),
		LocalAnchorB: bodyB.Transform.Inverse().Mul(anchor),
		Compliance:   compliance,
	}
}

// AnchorA returns the anchor frame as seen by body A, in world space
func (j *FixedJoint) AnchorA() actor.Transform {
	return j.BodyA.Transform.Mul(j.LocalAnchorA)
}

// AnchorB returns the anchor frame as seen by body B, in world space
func (j *FixedJoint) AnchorB() actor.Transform {
	return j.BodyB.Transform.Mul(j.LocalAnchorB)
}

// Error returns the positional and angular drift between both anchor frames
func (j *FixedJoint) Error() (float64, float64) {
	a := j.AnchorA()
	b := j.AnchorB()

	return b.Position.Sub(a.Position).Len(), rotationError(a.Rotation, b.Rotation).Len()
}

// SolvePosition closes the anchor gap, then the orientation gap (XPBD, one pass per substep)
func (j *FixedJoint) SolvePosition(dt float64) {
	bodyA := j.BodyA
	bodyB := j.BodyB
	if bodyA.BodyType == actor.BodyTypeStatic && bodyB.BodyType == actor.BodyTypeStatic {
		return
	}

	alphaTilde := j.Compliance / (dt * dt)
	invMassA := bodyA.GetInverseMass()
	invMassB := bodyB.GetInverseMass()

	// ========== 1. Position ==========
	pA := bodyA.Transform.Apply(j.LocalAnchorA.Position)
	pB := bodyB.Transform.Apply(j.LocalAnchorB.Position)
	delta := pB.Sub(pA)

	if c := delta.Len(); c > 1e-9 {
		bodyA.Awake()
		bodyB.Awake()

		n := delta.Mul(1.0 / c)
		rA := pA.Sub(bodyA.GetCenterOfMassWorld())
		rB := pB.Sub(bodyB.GetCenterOfMassWorld())
		IA_inv := bodyA.GetInverseInertiaWorld()
		IB_inv := bodyB.GetInverseInertiaWorld()

		rA_cross_n := rA.Cross(n)
		rB_cross_n := rB.Cross(n)
		wA := invMassA + IA_inv.Mul3x1(rA_cross_n).Dot(rA_cross_n)
		wB := invMassB + IB_inv.Mul3x1(rB_cross_n).Dot(rB_cross_n)

		if wA+wB > 1e-12 {
			// impulse pulling A toward B, B receives the opposite
			lambda := c / (wA + wB + alphaTilde)
			impulse := n.Mul(lambda)

			bodyA.ApplyCorrection(impulse.Mul(invMassA), IA_inv.Mul3x1(rA.Cross(impulse)))
			bodyB.ApplyCorrection(impulse.Mul(-invMassB), IB_inv.Mul3x1(rB.Cross(impulse.Mul(-1))))
		}
	}

	// ========== 2. Orientation ==========
	qA := bodyA.Transform.Rotation.Mul(j.LocalAnchorA.Rotation)
	qB := bodyB.Transform.Rotation.Mul(j.LocalAnchorB.Rotation)
	rotation := rotationError(qA, qB)

	if theta := rotation.Len(); theta > 1e-9 {
		n := rotation.Mul(1.0 / theta)
		IA_inv := bodyA.GetInverseInertiaWorld()
		IB_inv := bodyB.GetInverseInertiaWorld()
		wA := IA_inv.Mul3x1(n).Dot(n)
		wB := IB_inv.Mul3x1(n).Dot(n)

		if wA+wB > 1e-12 {
			lambda := theta / (wA + wB + alphaTilde)

			bodyA.ApplyCorrection(mgl64.Vec3{}, IA_inv.Mul3x1(n.Mul(lambda)))
			bodyB.ApplyCorrection(mgl64.Vec3{}, IB_inv.Mul3x1(n.Mul(-lambda)))
		}
	}
}

// SolveVelocity removes the residual jitter a locked pair accumulates
func (j *FixedJoint) SolveVelocity(dt float64) {
	if j.BodyA.IsSleeping && j.BodyB.IsSleeping {
		return
	}

	clampSmallVelocities(j.BodyA)
	clampSmallVelocities(j.BodyB)
}

// rotationError returns the rotation vector that turns from onto to, along the shortest arc
func rotationError(from, to mgl64.Quat) mgl64.Vec3 {
	dq := to.Mul(from.Conjugate()).Normalize()
	if dq.W < 0 {
		return dq.V.Mul(-2)
	}

	return dq.V.Mul(2)
}
