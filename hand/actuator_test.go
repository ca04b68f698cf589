package hand

import (
	"math"
	"testing"

	"github.com/akmonengine/grasp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return math.Abs(a.X()-b.X()) <= epsilon &&
		math.Abs(a.Y()-b.Y()) <= epsilon &&
		math.Abs(a.Z()-b.Z()) <= epsilon
}

func TestEulerDelta(t *testing.T) {
	tests := []struct {
		name string
		to   mgl64.Quat
		from mgl64.Quat
		want mgl64.Vec3
	}{
		{"identity", mgl64.QuatIdent(), mgl64.QuatIdent(), mgl64.Vec3{}},
		{"about X", mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0}), mgl64.QuatIdent(), mgl64.Vec3{0.3, 0, 0}},
		{"about Y", mgl64.QuatRotate(-0.4, mgl64.Vec3{0, 1, 0}), mgl64.QuatIdent(), mgl64.Vec3{0, -0.4, 0}},
		{"about Z", mgl64.QuatRotate(0.5, mgl64.Vec3{0, 0, 1}), mgl64.QuatIdent(), mgl64.Vec3{0, 0, 0.5}},
		{"relative", mgl64.QuatRotate(0.9, mgl64.Vec3{0, 1, 0}), mgl64.QuatRotate(0.2, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{0, 0.7, 0}},
		{
			"YXZ order",
			mgl64.QuatRotate(0.3, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(0.2, mgl64.Vec3{1, 0, 0})).Mul(mgl64.QuatRotate(0.1, mgl64.Vec3{0, 0, 1})),
			mgl64.QuatIdent(),
			mgl64.Vec3{0.2, 0.3, 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eulerDelta(tt.to, tt.from)
			if !vec3AlmostEqual(got, tt.want, 1e-9) {
				t.Errorf("eulerDelta() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEulerDelta_ShortestArc(t *testing.T) {
	q := mgl64.QuatRotate(0.6, mgl64.Vec3{0, 1, 0})
	a := eulerDelta(q, mgl64.QuatIdent())
	b := eulerDelta(q.Scale(-1), mgl64.QuatIdent())

	if !vec3AlmostEqual(a, b, 1e-12) {
		t.Errorf("q and -q give %v and %v", a, b)
	}
}

func TestEulerDelta_GimbalLock(t *testing.T) {
	got := eulerDelta(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}), mgl64.QuatIdent())
	if math.Abs(got.X()-math.Pi/2) > 1e-6 || !finite(got) {
		t.Errorf("eulerDelta() = %v, want x = pi/2", got)
	}
}

func TestWristActuator_Compute(t *testing.T) {
	a := WristActuator{LinearGain: 30, AngularGain: 5, BodyVelocityGain: 10}
	phys := actor.NewTransform()

	tests := []struct {
		name        string
		track       actor.Transform
		dt          float64
		wantLinear  mgl64.Vec3
		wantAngular mgl64.Vec3
	}{
		{"no error", actor.NewTransform(), 0.01, mgl64.Vec3{}, mgl64.Vec3{}},
		{"position error", actor.NewTransformFrom(mgl64.Vec3{0, 0.01, 0}, mgl64.QuatIdent()), 0.01, mgl64.Vec3{0, 30, 0}, mgl64.Vec3{}},
		{"rotation error", actor.NewTransformFrom(mgl64.Vec3{}, mgl64.QuatRotate(0.2, mgl64.Vec3{0, 1, 0})), 0.01, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}},
		{"zero dt", actor.NewTransformFrom(mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent()), 0, mgl64.Vec3{}, mgl64.Vec3{}},
		{"negative dt", actor.NewTransformFrom(mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent()), -1, mgl64.Vec3{}, mgl64.Vec3{}},
		{"non finite", actor.Transform{Position: mgl64.Vec3{math.Inf(1), 0, 0}, Rotation: mgl64.QuatIdent()}, 0.01, mgl64.Vec3{}, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linear, angular := a.Compute(tt.track, phys, tt.dt)
			if !vec3AlmostEqual(linear, tt.wantLinear, 1e-9) {
				t.Errorf("linear = %v, want %v", linear, tt.wantLinear)
			}
			if !vec3AlmostEqual(angular, tt.wantAngular, 1e-9) {
				t.Errorf("angular = %v, want %v", angular, tt.wantAngular)
			}
		})
	}
}

func TestWristActuator_ForceProportionalToError(t *testing.T) {
	a := WristActuator{LinearGain: 30, AngularGain: 5}

	var previous float64
	for _, distance := range []float64{0.01, 0.02, 0.04} {
		body := newFakeBody(mgl64.Vec3{})
		body.mass = 3
		a.Drive(body, actor.NewTransformFrom(mgl64.Vec3{distance, 0, 0}, mgl64.QuatIdent()), mgl64.Vec3{}, 0.02)

		magnitude := body.force.Len()
		if previous > 0 && math.Abs(magnitude/previous-2) > 1e-9 {
			t.Errorf("force %v is not twice %v", magnitude, previous)
		}
		previous = magnitude
	}
}

func TestWristActuator_DriveTorque(t *testing.T) {
	a := WristActuator{LinearGain: 30, AngularGain: 5}
	body := newFakeBody(mgl64.Vec3{})
	body.inertia = mgl64.Diag3(mgl64.Vec3{2, 3, 4})

	act := a.Drive(body, actor.NewTransformFrom(mgl64.Vec3{}, mgl64.QuatRotate(0.1, mgl64.Vec3{0, 0, 1})), mgl64.Vec3{}, 0.01)

	if !vec3AlmostEqual(act.Torque, mgl64.Vec3{0, 0, 4 * 5 * 0.1}, 1e-9) {
		t.Errorf("torque = %v, want (0, 0, 2)", act.Torque)
	}
	if body.torque != act.Torque {
		t.Errorf("applied torque = %v, want %v", body.torque, act.Torque)
	}
	if body.velocityResets != 1 {
		t.Errorf("velocities reset %d times, want 1", body.velocityResets)
	}
}
