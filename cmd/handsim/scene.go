package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/akmonengine/grasp"
	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/config"
	"github.com/akmonengine/grasp/hand"
	"github.com/akmonengine/grasp/skeleton"
	"github.com/go-gl/mathgl/mgl64"
)

// script frames, at 60 Hz
const (
	reachEnd     = 90
	gripAt       = 100
	curlFrames   = 30
	liftStart    = 140
	liftEnd      = 230
	releaseAt    = 260
	regripAt     = 300
	teleportAt   = 360
	liftHeight   = 0.25
	teleportJump = 3.0
	curlAngle    = 0.5
)

type stateChange struct {
	Frame    uint64
	From, To hand.State
}

// report sums up a scripted run
type report struct {
	Frames       int
	Holds        int
	Resets       int
	Changes      []stateChange
	Lag          []float64
	MaxLag       float64
	MaxOpacity   float64
	MaxFrozen    int
	ObjectStart  mgl64.Vec3
	ObjectEnd    mgl64.Vec3
	FinalState   hand.State
	SleepEvents  int
	WakeEvents   int
	JointChanges int
}

type ghost struct {
	opacity float64
}

func (g *ghost) SetGhostOpacity(opacity float64) {
	g.opacity = opacity
}

// scene is the demo world: ground, a box to grab and one tracked hand
type scene struct {
	cfg    *config.Config
	world  *grasp.World
	poses  *skeleton.Skeleton
	output *skeleton.Skeleton
	wrist  *actor.RigidBody
	object *actor.RigidBody
	ghost  *ghost
	hand   *hand.Hand
	logger *slog.Logger

	start mgl64.Vec3
	reach mgl64.Vec3
	curl  float64
}

func newScene(cfg *config.Config, logger *slog.Logger) (*scene, error) {
	sc := cfg.Scene

	world := grasp.NewWorld(sc.Gravity, sc.Substeps, grasp.NewSpatialGrid(0.5, 1024))
	world.Workers = max(1, sc.Workers)

	if sc.Ground {
		world.AddBody(actor.NewRigidBody(actor.NewTransform(), &actor.Plane{Normal: mgl64.Vec3{0, 1, 0}}, actor.BodyTypeStatic, 0))
	}

	wrist := actor.NewRigidBody(
		actor.NewTransformFrom(sc.Wrist.Position, mgl64.QuatIdent()),
		&actor.Sphere{Radius: sc.Wrist.Radius},
		actor.BodyTypeDynamic,
		sc.Wrist.Density,
	)
	object := actor.NewRigidBody(
		actor.NewTransformFrom(sc.Object.Position, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: sc.Object.HalfExtents},
		actor.BodyTypeDynamic,
		sc.Object.Density,
	)
	object.GravityScale = sc.Object.GravityScale
	object.SetAngularDamping(sc.Object.AngularDamping)
	world.AddBody(wrist)
	world.AddBody(object)

	s := &scene{
		cfg:    cfg,
		world:  world,
		poses:  skeleton.NewHandSkeleton(cfg.Hand.Side),
		output: skeleton.NewHandSkeleton(cfg.Hand.Side),
		wrist:  wrist,
		object: object,
		ghost:  &ghost{},
		logger: logger,
		start:  sc.Wrist.Position,
	}

	// the grab probe points down, so the wrist stops above the box,
	// halfway along the probe and offset back by the probe origin
	probe := cfg.Hand.GrabProbe
	top := sc.Object.Position.Add(mgl64.Vec3{0, sc.Object.HalfExtents.Y(), 0})
	s.reach = top.Sub(probe.Origin).Sub(probe.Direction.Normalize().Mul(probe.Length / 2))

	s.poses.SetRoot(actor.NewTransformFrom(s.start, mgl64.QuatIdent()))
	s.pose()

	h, err := hand.New(cfg.Hand, hand.Options{
		Poses:   s.poses,
		Wrist:   wrist,
		Physics: grasp.HandPhysics(world, wrist),
		Output:  s.output,
		Ghost:   s.ghost,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create hand: %w", err)
	}
	s.hand = h

	return s, nil
}

// pose lays the fingers out in front of the wrist, curled by s.curl
func (s *scene) pose() {
	for i := 1; i < skeleton.BoneCount; i++ {
		bone := skeleton.BoneId(i)
		if bone == skeleton.Palm {
			s.poses.SetLocalPose(bone, actor.NewTransformFrom(mgl64.Vec3{0, 0, -0.04}, mgl64.QuatIdent()))
			continue
		}

		if s.poses.Parent(bone) == int(skeleton.Wrist) {
			finger, _ := skeleton.ParseFinger(bone.String())
			offset := mgl64.Vec3{0.02 * float64(finger-skeleton.Middle), 0, -0.03}
			s.poses.SetLocalPose(bone, actor.NewTransformFrom(offset, mgl64.QuatIdent()))
			continue
		}

		rotation := mgl64.QuatRotate(-curlAngle*s.curl, mgl64.Vec3{1, 0, 0})
		s.poses.SetLocalPose(bone, actor.NewTransformFrom(mgl64.Vec3{0, 0, -0.03}, rotation))
	}
}

// script moves the tracked hand and sends the inputs of a frame
func (s *scene) script(frame int) error {
	var root mgl64.Vec3
	switch {
	case frame <= reachEnd:
		root = lerp(s.start, s.reach, smoothstep(float64(frame)/reachEnd))
	case frame < liftStart:
		root = s.reach
	case frame < liftEnd:
		t := smoothstep(float64(frame-liftStart) / float64(liftEnd-liftStart))
		root = s.reach.Add(mgl64.Vec3{0, liftHeight * t, 0})
	default:
		root = s.reach.Add(mgl64.Vec3{0, liftHeight, 0})
	}
	if frame >= teleportAt {
		root = root.Add(mgl64.Vec3{teleportJump, 0, 0})
	}
	s.poses.SetRoot(actor.NewTransformFrom(root, mgl64.QuatIdent()))

	switch {
	case frame >= gripAt && frame < releaseAt:
		s.curl = min(1, float64(frame-gripAt)/curlFrames)
	case frame >= releaseAt:
		s.curl = max(0, s.curl-1.0/curlFrames)
	}
	s.pose()

	switch frame {
	case gripAt:
		return s.hand.HandleButton(hand.ButtonGrip.String(), true)
	case releaseAt:
		return s.hand.HandleButton(hand.ButtonGrip.String(), false)
	case regripAt:
		s.hand.HandlePose("full_grip", "open")
	}
	return nil
}

// run plays the script for the configured number of frames
func (s *scene) run() (*report, error) {
	r := &report{
		Frames:      s.cfg.Scene.Frames,
		ObjectStart: s.object.Transform.Position,
	}

	s.hand.Subscribe(hand.HOLD, func(hand.Event) { r.Holds++ })
	s.hand.Subscribe(hand.RESET, func(hand.Event) { r.Resets++ })
	s.world.Events.Subscribe(grasp.ON_SLEEP, func(grasp.Event) { r.SleepEvents++ })
	s.world.Events.Subscribe(grasp.ON_WAKE, func(grasp.Event) { r.WakeEvents++ })
	s.world.Events.Subscribe(grasp.JOINT_ATTACHED, func(grasp.Event) { r.JointChanges++ })
	s.world.Events.Subscribe(grasp.JOINT_DETACHED, func(grasp.Event) { r.JointChanges++ })

	dt := s.cfg.Scene.Dt
	state := s.hand.State()
	for frame := range s.cfg.Scene.Frames {
		if err := s.script(frame); err != nil {
			return nil, fmt.Errorf("frame %d: %w", frame, err)
		}

		s.hand.Process(dt)
		s.world.Step(dt)

		if next := s.hand.State(); next != state {
			r.Changes = append(r.Changes, stateChange{Frame: s.hand.Frame(), From: state, To: next})
			state = next
		}
		lag := s.hand.Lag()
		if math.IsInf(lag, 1) {
			s.logger.Warn("non finite wrist", "frame", frame)
		}
		r.Lag = append(r.Lag, lag)
		r.MaxLag = max(r.MaxLag, lag)
		r.MaxOpacity = max(r.MaxOpacity, s.ghost.opacity)
		r.MaxFrozen = max(r.MaxFrozen, len(s.hand.FrozenBones()))
	}
	s.world.Flush()

	r.ObjectEnd = s.object.Transform.Position
	r.FinalState = s.hand.State()

	return r, nil
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func smoothstep(t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}
