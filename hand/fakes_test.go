package hand

import (
	"errors"
	"testing"

	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/skeleton"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeBody struct {
	transform actor.Transform
	linear    mgl64.Vec3
	angular   mgl64.Vec3
	mass      float64
	inertia   mgl64.Mat3

	force          mgl64.Vec3
	torque         mgl64.Vec3
	velocityResets int
}

func newFakeBody(position mgl64.Vec3) *fakeBody {
	return &fakeBody{
		transform: actor.NewTransformFrom(position, mgl64.QuatIdent()),
		mass:      1,
		inertia:   mgl64.Ident3(),
	}
}

func (b *fakeBody) GetTransform() actor.Transform   { return b.transform }
func (b *fakeBody) SetPosition(position mgl64.Vec3) { b.transform.Position = position }
func (b *fakeBody) GetMass() float64                { return b.mass }
func (b *fakeBody) GetInertiaWorld() mgl64.Mat3     { return b.inertia }
func (b *fakeBody) AddForce(force mgl64.Vec3)       { b.force = b.force.Add(force) }
func (b *fakeBody) AddTorque(torque mgl64.Vec3)     { b.torque = b.torque.Add(torque) }
func (b *fakeBody) GetVelocity() mgl64.Vec3         { return b.linear }

func (b *fakeBody) SetVelocities(linear, angular mgl64.Vec3) {
	b.linear, b.angular = linear, angular
	if linear.Len() == 0 && angular.Len() == 0 {
		b.velocityResets++
	}
}

type fakeObject struct {
	id        uuid.UUID
	transform actor.Transform
	dynamic   bool

	damping      float64
	center       mgl64.Vec3
	customCenter bool
	layers       uint32
}

func newFakeObject(position mgl64.Vec3) *fakeObject {
	return &fakeObject{
		id:        uuid.New(),
		transform: actor.NewTransformFrom(position, mgl64.QuatIdent()),
		dynamic:   true,
		damping:   0.05,
		layers:    1,
	}
}

func (o *fakeObject) GetID() uuid.UUID                  { return o.id }
func (o *fakeObject) GetTransform() actor.Transform     { return o.transform }
func (o *fakeObject) IsDynamic() bool                   { return o.dynamic }
func (o *fakeObject) GetAngularDamping() float64        { return o.damping }
func (o *fakeObject) SetAngularDamping(damping float64) { o.damping = damping }
func (o *fakeObject) HasCustomCenterOfMass() bool       { return o.customCenter }
func (o *fakeObject) GetCenterOfMass() mgl64.Vec3       { return o.center }

func (o *fakeObject) SetCenterOfMass(offset mgl64.Vec3) {
	o.center, o.customCenter = offset, true
}

func (o *fakeObject) ClearCenterOfMass() {
	o.center, o.customCenter = mgl64.Vec3{}, false
}

func (o *fakeObject) SetCollisionLayer(layer int, enabled bool) {
	if enabled {
		o.layers |= 1 << uint(layer)
	} else {
		o.layers &^= 1 << uint(layer)
	}
}

func (o *fakeObject) GetCollisionLayer(layer int) bool {
	return o.layers&(1<<uint(layer)) != 0
}

type fakeJoint struct {
	anchor actor.Transform
	object Object
}

func (j *fakeJoint) AnchorA() actor.Transform { return j.anchor }

// fakeTarget answers every ray starting at origin
type fakeTarget struct {
	origin mgl64.Vec3
	hit    RayHit
}

type fakePhysics struct {
	targets   []fakeTarget
	casts     int
	attached  []*fakeJoint
	detached  []Joint
	attachErr error
	dead      map[uuid.UUID]bool
}

func newFakePhysics() *fakePhysics {
	return &fakePhysics{dead: make(map[uuid.UUID]bool)}
}

func (p *fakePhysics) target(origin mgl64.Vec3, object Object, point mgl64.Vec3) {
	p.targets = append(p.targets, fakeTarget{origin: origin, hit: RayHit{Point: point, Object: object}})
}

func (p *fakePhysics) CastRay(ray actor.Ray, mask uint32) (RayHit, bool) {
	p.casts++
	for _, t := range p.targets {
		if vec3AlmostEqual(ray.Origin, t.origin, 1e-9) {
			return t.hit, true
		}
	}
	return RayHit{}, false
}

func (p *fakePhysics) AttachJoint(wrist Body, object Object, anchor actor.Transform) (Joint, error) {
	if p.attachErr != nil {
		return nil, p.attachErr
	}
	joint := &fakeJoint{anchor: anchor, object: object}
	p.attached = append(p.attached, joint)
	return joint, nil
}

func (p *fakePhysics) DetachJoint(joint Joint) {
	p.detached = append(p.detached, joint)
}

func (p *fakePhysics) Alive(object Object) bool {
	return !p.dead[object.GetID()]
}

type fakeGhost struct {
	opacity float64
	calls   int
}

func (g *fakeGhost) SetGhostOpacity(opacity float64) {
	g.opacity = opacity
	g.calls++
}

var errAttach = errors.New("attach refused")

// newTrackedSkeleton lays the fingers out side by side along -Z, 3cm per joint
func newTrackedSkeleton() *skeleton.Skeleton {
	s := skeleton.NewHandSkeleton(skeleton.Left)
	for i := 1; i < skeleton.BoneCount; i++ {
		bone := skeleton.BoneId(i)
		if bone == skeleton.Palm {
			s.SetLocalPose(bone, actor.NewTransformFrom(mgl64.Vec3{0, 0, -0.04}, mgl64.QuatIdent()))
			continue
		}

		offset := mgl64.Vec3{0, 0, -0.03}
		if s.Parent(bone) == int(skeleton.Wrist) {
			finger, _ := skeleton.ParseFinger(bone.String())
			offset = mgl64.Vec3{0.02 * float64(finger), 0, -0.03}
		}
		s.SetLocalPose(bone, actor.NewTransformFrom(offset, mgl64.QuatIdent()))
	}
	return s
}

type fixture struct {
	poses   *skeleton.Skeleton
	output  *skeleton.Skeleton
	wrist   *fakeBody
	physics *fakePhysics
	ghost   *fakeGhost
	hand    *Hand

	holds  []HoldEvent
	resets []ResetEvent
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	f := &fixture{
		poses:   newTrackedSkeleton(),
		output:  skeleton.NewHandSkeleton(skeleton.Left),
		wrist:   newFakeBody(mgl64.Vec3{}),
		physics: newFakePhysics(),
		ghost:   &fakeGhost{},
	}

	h, err := New(cfg, Options{
		Poses:   f.poses,
		Wrist:   f.wrist,
		Physics: f.physics,
		Output:  f.output,
		Ghost:   f.ghost,
	})
	require.NoError(t, err)
	f.hand = h

	h.Subscribe(HOLD, func(event Event) { f.holds = append(f.holds, event.(HoldEvent)) })
	h.Subscribe(RESET, func(event Event) { f.resets = append(f.resets, event.(ResetEvent)) })

	return f
}

// colliderOrigin is where the probes of a bone's collider start this frame
func (f *fixture) colliderOrigin(bone skeleton.BoneId) mgl64.Vec3 {
	return f.hand.Collider(bone).World(f.wrist.GetTransform()).Position
}

// grabOrigin is where the wrist grab probe starts this frame
func (f *fixture) grabOrigin() mgl64.Vec3 {
	return f.wrist.GetTransform().Apply(f.hand.Config().GrabProbe.Origin)
}
