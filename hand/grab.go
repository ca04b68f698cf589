package hand

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akmonengine/grasp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// State is the grab/hold state of a hand
type State uint8

const (
	// Idle: not grabbing, not holding
	Idle State = iota
	// Seeking: grabbing, waiting for the wrist probe to hit something
	Seeking
	// Holding: an object is attached to the wrist
	Holding
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Seeking:
		return "seeking"
	case Holding:
		return "holding"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Binding is the association with the held object, present only while Holding.
// It keeps what is needed to give the object back as it was.
type Binding struct {
	Object Object
	// Anchor is the physical wrist pose translated to the grab hit point
	Anchor actor.Transform
	// AnchorOffset is the hit point in the object's space
	AnchorOffset mgl64.Vec3

	joint Joint

	dynamic           DynamicObject
	savedDamping      float64
	savedCenterOfMass mgl64.Vec3
	savedCustomCenter bool

	layered    LayeredObject
	savedLayer bool
}

// Joint returns the constraint attaching the object to the wrist
func (b *Binding) Joint() Joint {
	return b.joint
}

func (h *Hand) setGrabbing(grabbing bool) {
	if !grabbing {
		h.reset("released")
		return
	}
	if h.state != Idle {
		return
	}

	h.attachFailed = false
	h.setState(Seeking)
}

func (h *Hand) setState(state State) {
	if state == h.state {
		return
	}

	h.logger.Debug("state change", "from", h.state.String(), "to", state.String(), "frame", h.frame)
	h.state = state
}

// seek casts the wrist probe and takes hold of whatever it hits
func (h *Hand) seek(phys actor.Transform) {
	hit, ok := h.physics.CastRay(h.cfg.GrabProbe.Ray(phys), h.cfg.ProbeMask)
	if !ok || hit.Object == nil {
		return
	}

	h.hold(phys, hit)
}

func (h *Hand) hold(phys actor.Transform, hit RayHit) {
	anchor := phys.Translated(hit.Point)

	joint, err := h.physics.AttachJoint(h.wrist, hit.Object, anchor)
	if err != nil {
		level := slog.LevelError
		if h.attachFailed {
			level = slog.LevelDebug
		}
		h.attachFailed = true
		h.logger.Log(context.Background(), level, "attach joint", "object", hit.Object.GetID().String(), "error", err, "frame", h.frame)
		return
	}

	binding := &Binding{
		Object:       hit.Object,
		Anchor:       anchor,
		AnchorOffset: hit.Object.GetTransform().Inverse().Apply(hit.Point),
		joint:        joint,
	}

	if dynamic, ok := hit.Object.(DynamicObject); ok && dynamic.IsDynamic() {
		binding.dynamic = dynamic
		binding.savedDamping = dynamic.GetAngularDamping()
		binding.savedCenterOfMass = dynamic.GetCenterOfMass()
		binding.savedCustomCenter = dynamic.HasCustomCenterOfMass()

		dynamic.SetAngularDamping(h.cfg.HeldAngularDamping)
		dynamic.SetCenterOfMass(binding.AnchorOffset)
	}

	if layered, ok := hit.Object.(LayeredObject); ok {
		binding.layered = layered
		binding.savedLayer = layered.GetCollisionLayer(h.cfg.HeldLayer)
		layered.SetCollisionLayer(h.cfg.HeldLayer, true)
	}

	h.binding = binding
	h.setState(Holding)
	h.logger.Debug("holding", "object", hit.Object.GetID().String(), "point", hit.Point)

	h.events.emit(HoldEvent{
		Hand:     h,
		Wrist:    h.wrist,
		Skeleton: h.poses,
		Object:   hit.Object,
	})
}

// checkHeld falls back to the reset path when the held object is gone
func (h *Hand) checkHeld() {
	if h.binding == nil || h.physics.Alive(h.binding.Object) {
		return
	}

	h.logger.Warn("held object lost", "object", h.binding.Object.GetID().String())
	h.reset("object lost")
}

// reset ends the grasp episode. It is a no-op when idle.
func (h *Hand) reset(reason string) {
	if h.state == Idle {
		return
	}

	if b := h.binding; b != nil {
		h.physics.DetachJoint(b.joint)

		if h.physics.Alive(b.Object) {
			if b.dynamic != nil {
				b.dynamic.SetAngularDamping(b.savedDamping)
				if b.savedCustomCenter {
					b.dynamic.SetCenterOfMass(b.savedCenterOfMass)
				} else {
					b.dynamic.ClearCenterOfMass()
				}
			}
			if b.layered != nil {
				b.layered.SetCollisionLayer(h.cfg.HeldLayer, b.savedLayer)
			}
		}
		h.binding = nil
	}

	h.freeze.Unfreeze(h.poses)
	h.setState(Idle)
	h.logger.Debug("reset", "reason", reason, "frame", h.frame)

	h.events.emit(ResetEvent{Hand: h})
}

// Release ends the current grasp episode as if the grab input was released
func (h *Hand) Release() {
	h.reset("released")
	h.events.flush()
}
