// Package grasp is a small XPBD rigid-body world: dynamic and static bodies,
// fixed joints and raycasts. It is the physics collaborator of the hand package.
package grasp

import (
	"errors"
	"fmt"
	"slices"

	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

const DEFAULT_WORKERS = 1

var ErrUnknownBody = errors.New("body is not in the world")

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity     mgl64.Vec3
	Substeps    int
	SpatialGrid *SpatialGrid
	Workers     int

	Joints []*constraint.FixedJoint
	// JointCompliance is given to every new joint, 0 is rigid
	JointCompliance float64

	Events Events

	byID      map[uuid.UUID]*actor.RigidBody
	gridDirty bool
}

// NewWorld creates an empty world. grid may be nil, raycasts then test every body.
func NewWorld(gravity mgl64.Vec3, substeps int, grid *SpatialGrid) *World {
	return &World{
		Gravity:         gravity,
		Substeps:        max(1, substeps),
		SpatialGrid:     grid,
		Workers:         DEFAULT_WORKERS,
		JointCompliance: constraint.STIFF_COMPLIANCE,
		Events:          NewEvents(),
		byID:            make(map[uuid.UUID]*actor.RigidBody),
		gridDirty:       true,
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	if w.byID == nil {
		w.byID = make(map[uuid.UUID]*actor.RigidBody)
	}
	if _, exists := w.byID[body.ID]; exists {
		return
	}

	w.Bodies = append(w.Bodies, body)
	w.byID[body.ID] = body
	w.gridDirty = true
}

// RemoveBody removes a rigid body from the world, with every joint attached to it
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := slices.Index(w.Bodies, body)
	if k == -1 {
		return
	}

	w.Bodies = slices.Delete(w.Bodies, k, k+1)
	delete(w.byID, body.ID)
	w.gridDirty = true

	for _, joint := range slices.Clone(w.Joints) {
		if joint.BodyA == body || joint.BodyB == body {
			w.DetachJoint(joint)
		}
	}

	w.Events.forget(body)
	w.Events.emit(BodyRemovedEvent{Body: body})
}

// Body returns the body registered with an ID
func (w *World) Body(id uuid.UUID) (*actor.RigidBody, bool) {
	body, ok := w.byID[id]
	return body, ok
}

// Contains reports whether this exact body is still in the world
func (w *World) Contains(body *actor.RigidBody) bool {
	if body == nil {
		return false
	}
	registered, ok := w.byID[body.ID]
	return ok && registered == body
}

// AttachJoint locks bodyA and bodyB together at the world frame anchor
func (w *World) AttachJoint(bodyA, bodyB *actor.RigidBody, anchor actor.Transform) (*constraint.FixedJoint, error) {
	for _, body := range []*actor.RigidBody{bodyA, bodyB} {
		if !w.Contains(body) {
			return nil, fmt.Errorf("attach joint: %w", ErrUnknownBody)
		}
	}
	if bodyA == bodyB {
		return nil, fmt.Errorf("attach joint: a body cannot be jointed to itself")
	}

	joint := constraint.NewFixedJoint(bodyA, bodyB, anchor, w.JointCompliance)
	w.Joints = append(w.Joints, joint)
	bodyA.Awake()
	bodyB.Awake()

	w.Events.emit(JointAttachedEvent{Joint: joint})

	return joint, nil
}

// DetachJoint removes a joint, it returns false when the joint was not attached
func (w *World) DetachJoint(joint *constraint.FixedJoint) bool {
	k := slices.Index(w.Joints, joint)
	if k == -1 {
		return false
	}

	w.Joints = slices.Delete(w.Joints, k, k+1)
	joint.BodyA.Awake()
	joint.BodyB.Awake()

	w.Events.emit(JointDetachedEvent{Joint: joint})

	return true
}

// Invalidate tells the world bodies were moved outside of Step
func (w *World) Invalidate() {
	w.gridDirty = true
}

func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(1, w.Substeps)
	h := dt / float64(w.Substeps)

	for range w.Substeps {
		w.integrate(h)

		// Phase 2: Solver, only one iteration is required thanks to substeps
		w.solvePosition(h)

		// Phase 3: Update Position & Velocity
		// Calculate final velocities and commit positions
		w.update(h)

		// Phase 4: Velocity
		w.solveVelocity(h)

		w.trySleep(h)
	}
	// forces added since the last step act on every substep
	for _, body := range w.Bodies {
		body.ClearForces()
	}
	w.gridDirty = true

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

// Flush sends the events buffered outside of Step, by joint or body changes
func (w *World) Flush() {
	w.Events.flush()
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

// joints share bodies, they are solved one after the other
func (w *World) solvePosition(h float64) {
	for _, joint := range w.Joints {
		joint.SolvePosition(h)
	}
}

func (w *World) update(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Update(h)
	})
}

func (w *World) solveVelocity(h float64) {
	for _, joint := range w.Joints {
		joint.SolveVelocity(h)
	}
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	for _, body := range w.Bodies {
		body.TrySleep(h, 0.1, 0.05)
	}
}
