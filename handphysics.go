package grasp

import (
	"fmt"

	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/constraint"
	"github.com/akmonengine/grasp/hand"
)

type handPhysics struct {
	world   *World
	exclude []*actor.RigidBody
}

// HandPhysics exposes the world to a hand. Raycasts skip the excluded bodies,
// typically the hand's own wrist.
func HandPhysics(world *World, exclude ...*actor.RigidBody) hand.Physics {
	return &handPhysics{world: world, exclude: exclude}
}

func (p *handPhysics) CastRay(ray actor.Ray, mask uint32) (hand.RayHit, bool) {
	hit, ok := p.world.Raycast(ray, mask, p.exclude...)
	if !ok {
		return hand.RayHit{}, false
	}

	return hand.RayHit{Point: hit.Point, Normal: hit.Normal, Object: hit.Body}, true
}

func (p *handPhysics) AttachJoint(wrist hand.Body, object hand.Object, anchor actor.Transform) (hand.Joint, error) {
	bodyA, ok := wrist.(*actor.RigidBody)
	if !ok {
		return nil, fmt.Errorf("wrist %T: %w", wrist, ErrUnknownBody)
	}
	bodyB, ok := object.(*actor.RigidBody)
	if !ok {
		return nil, fmt.Errorf("object %T: %w", object, ErrUnknownBody)
	}

	joint, err := p.world.AttachJoint(bodyA, bodyB, anchor)
	if err != nil {
		return nil, err
	}
	return joint, nil
}

func (p *handPhysics) DetachJoint(joint hand.Joint) {
	if fixed, ok := joint.(*constraint.FixedJoint); ok {
		p.world.DetachJoint(fixed)
	}
}

func (p *handPhysics) Alive(object hand.Object) bool {
	body, ok := object.(*actor.RigidBody)
	return ok && p.world.Contains(body)
}
