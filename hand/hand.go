package hand

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/skeleton"
	"github.com/go-gl/mathgl/mgl64"
)

// Options are the collaborators of a Hand. Poses, Wrist and Physics are required.
type Options struct {
	// Poses is the tracked skeleton, with its override channel
	Poses skeleton.PoseSource
	// Wrist is the dynamic body driven toward the tracked wrist
	Wrist Body
	// Physics answers the probes and holds the joints
	Physics Physics

	// Output receives the simulated skeleton every frame
	Output PoseSink
	// Parent is the body carrying the hand, the player for instance
	Parent Mover
	// Ghost receives the lag feedback
	Ghost  GhostSink
	Logger *slog.Logger
}

// Hand runs the control loop of one tracked hand. It is single threaded:
// Process and the input handlers must be called from the simulation thread.
type Hand struct {
	cfg     Config
	poses   skeleton.PoseSource
	wrist   Body
	physics Physics
	output  PoseSink
	parent  Mover
	ghost   GhostSink
	logger  *slog.Logger

	topology    *skeleton.Topology
	rest        *skeleton.RestPoseCache
	actuator    WristActuator
	sync        Synchronizer
	freeze      *FreezeEngine
	watchdog    Watchdog
	colliders   []*BoneCollider
	grabButtons []Button

	state   State
	binding *Binding
	events  Events

	// set after the first attach failure of a Seeking episode
	attachFailed bool

	frame uint64
	lag   float64
	last  Actuation
}

// New builds a hand from its config. The bone topology is derived from the
// pose source bone names, and the rest pose is captured from its current pose.
func New(cfg Config, opts Options) (*Hand, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case opts.Poses == nil:
		return nil, fmt.Errorf("%w: poses", ErrMissingOption)
	case opts.Wrist == nil:
		return nil, fmt.Errorf("%w: wrist", ErrMissingOption)
	case opts.Physics == nil:
		return nil, fmt.Errorf("%w: physics", ErrMissingOption)
	}

	names := make([]string, opts.Poses.BoneCount())
	for i := range names {
		names[i] = opts.Poses.BoneName(skeleton.BoneId(i))
	}
	topology, err := skeleton.NewTopology(names)
	if err != nil {
		return nil, fmt.Errorf("hand topology: %w", err)
	}

	grabButtons := make([]Button, 0, len(cfg.GrabButtons))
	for _, name := range cfg.GrabButtons {
		button, err := ParseButton(name)
		if err != nil {
			return nil, err
		}
		grabButtons = append(grabButtons, button)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	parent := opts.Parent
	if parent == nil {
		parent = stillMover{}
	}

	h := &Hand{
		cfg:     cfg,
		poses:   opts.Poses,
		wrist:   opts.Wrist,
		physics: opts.Physics,
		output:  opts.Output,
		parent:  parent,
		ghost:   opts.Ghost,
		logger:  logger.With("hand", cfg.Side.String()),

		topology: topology,
		rest:     skeleton.CaptureRestPose(opts.Poses),
		actuator: WristActuator{
			LinearGain:       cfg.LinearGain,
			AngularGain:      cfg.AngularGain,
			BodyVelocityGain: cfg.BodyVelocityGain,
		},
		sync:        NewSynchronizer(cfg),
		freeze:      NewFreezeEngine(topology),
		watchdog:    Watchdog{ThresholdSq: cfg.ResetDistanceSq},
		grabButtons: grabButtons,
		events:      NewEvents(),
	}

	restWrist := h.rest.Pose(skeleton.Wrist)
	for _, bone := range topology.PhysicalBones() {
		h.colliders = append(h.colliders, &BoneCollider{
			Bone:   bone,
			Local:  h.sync.Target(restWrist, h.rest.Pose(bone)),
			Probes: append([]Probe(nil), cfg.BoneProbes...),
		})
	}

	return h, nil
}

// Process runs one frame of the hand, before the physics engine steps.
func (h *Hand) Process(dt float64) {
	h.frame++

	phys := h.wrist.GetTransform()
	track, tracked := h.trackedWrist(phys)

	resetting := tracked && h.watchdog.Diverged(track, phys)
	if resetting {
		h.logger.Warn("wrist diverged, snapping to tracked pose",
			"distance", track.Position.Sub(phys.Position).Len(), "frame", h.frame)

		h.reset("watchdog")
		h.freeze.Unfreeze(h.poses)
		h.wrist.SetVelocities(mgl64.Vec3{}, mgl64.Vec3{})
		h.wrist.SetPosition(track.Position)
		h.last = Actuation{}
		phys = h.wrist.GetTransform()
	} else {
		h.last = h.actuator.Drive(h.wrist, track, h.parent.GetVelocity(), dt)
	}
	h.updateLag(track, phys)

	h.syncBones(track, tracked, phys, resetting)

	if !resetting {
		switch h.state {
		case Seeking:
			h.seek(phys)
		case Holding:
			h.checkHeld()
		}
	}

	h.writeOutput(phys)
	h.events.flush()
}

// trackedWrist returns the world pose of the tracked wrist. A non-finite
// tracking sample is replaced by the physical pose, which zeroes the error.
func (h *Hand) trackedWrist(phys actor.Transform) (actor.Transform, bool) {
	track := h.poses.Root().Mul(h.poses.GlobalPose(skeleton.Wrist))
	if !finiteTransform(track) {
		return phys, false
	}
	return track, true
}

func (h *Hand) updateLag(track, phys actor.Transform) {
	h.lag = track.Position.Sub(phys.Position).Len()
	if math.IsNaN(h.lag) {
		h.lag = math.Inf(1)
	}
	if h.ghost != nil {
		h.ghost.SetGhostOpacity(h.Opacity())
	}
}

// syncBones moves every collider toward its tracked bone, then runs its probes.
// Colliders go in ascending bone order, proximal bones first.
func (h *Hand) syncBones(track actor.Transform, tracked bool, phys actor.Transform, resetting bool) {
	wrist := h.poses.GlobalPose(skeleton.Wrist)

	for _, c := range h.colliders {
		bone := h.poses.GlobalPose(c.Bone)

		var target actor.Transform
		if tracked && finiteTransform(wrist) && finiteTransform(bone) {
			target = h.sync.Target(wrist, bone)
		} else {
			target = h.sync.Target(h.rest.Pose(skeleton.Wrist), h.rest.Pose(c.Bone))
		}

		if resetting {
			c.Local = target
			c.Touching, c.Hit = false, RayHit{}
			continue
		}

		h.sync.Step(c, target)
		c.Hit, c.Touching = c.Cast(h.physics, phys, h.cfg.ProbeMask)
		// contacts outside a grasp episode are not captured
		if c.Touching && h.IsGrabbing() {
			h.freeze.Freeze(c.Bone, h.poses, true)
		}
	}
}

// writeOutput sends the physical wrist and the tracked, possibly frozen, fingers
func (h *Hand) writeOutput(phys actor.Transform) {
	if h.output == nil {
		return
	}

	h.output.SetLocalPose(skeleton.Wrist, phys)
	for i := 1; i < h.poses.BoneCount(); i++ {
		bone := skeleton.BoneId(i)
		h.output.SetLocalPose(bone, h.poses.LocalPose(bone))
	}
}

// Subscribe adds a listener for hold or reset notifications
func (h *Hand) Subscribe(eventType EventType, listener EventListener) {
	h.events.Subscribe(eventType, listener)
}

func (h *Hand) State() State {
	return h.state
}

func (h *Hand) IsGrabbing() bool {
	return h.state != Idle
}

func (h *Hand) IsHolding() bool {
	return h.state == Holding
}

// Binding returns the held object binding, nil unless Holding
func (h *Hand) Binding() *Binding {
	return h.binding
}

// FrozenPose returns the pose captured for a bone in the current episode
func (h *Hand) FrozenPose(bone skeleton.BoneId) (actor.Transform, bool) {
	return h.freeze.Frozen(bone)
}

func (h *Hand) FrozenBones() []skeleton.BoneId {
	return h.freeze.Bones()
}

// Collider returns the collider of a bone, nil for bones without one
func (h *Hand) Collider(bone skeleton.BoneId) *BoneCollider {
	for _, c := range h.colliders {
		if c.Bone == bone {
			return c
		}
	}
	return nil
}

func (h *Hand) Colliders() []*BoneCollider {
	return h.colliders
}

// Lag is the distance between the tracked and the physical wrist on the last frame
func (h *Hand) Lag() float64 {
	return h.lag
}

// Opacity is the ghost opacity for the last frame's lag
func (h *Hand) Opacity() float64 {
	return mgl64.Clamp(h.lag, 0, h.cfg.GhostMaxDistance) / h.cfg.GhostMaxDistance
}

// LastActuation returns what the wrist actuator applied on the last frame
func (h *Hand) LastActuation() Actuation {
	return h.last
}

func (h *Hand) Topology() *skeleton.Topology {
	return h.topology
}

func (h *Hand) RestPose() *skeleton.RestPoseCache {
	return h.rest
}

func (h *Hand) Frame() uint64 {
	return h.frame
}

func (h *Hand) Config() Config {
	return h.cfg
}
