package skeleton

import (
	"errors"
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

func translation(x, y, z float64) actor.Transform {
	return actor.NewTransformFrom(mgl64.Vec3{x, y, z}, mgl64.QuatIdent())
}

func TestNewSkeleton_InvalidParents(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		parents []int
	}{
		{"length mismatch", []string{"Wrist"}, []int{NoParent, 0}},
		{"child before parent", []string{"Wrist", "Palm"}, []int{1, NoParent}},
		{"self parent", []string{"Wrist", "Palm"}, []int{NoParent, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSkeleton(tt.names, tt.parents); !errors.Is(err, ErrInvalidSkeleton) {
				t.Errorf("NewSkeleton() error = %v, want ErrInvalidSkeleton", err)
			}
		})
	}
}

func TestSkeleton_GlobalPoseChain(t *testing.T) {
	s := NewHandSkeleton(Left)
	s.SetLocalPose(Wrist, translation(1, 0, 0))
	s.SetLocalPose(IndexMetacarpal, translation(0, 0, -0.05))
	s.SetLocalPose(IndexProximal, translation(0, 0, -0.04))

	got := s.GlobalPose(IndexProximal).Position
	if !vec3AlmostEqual(got, mgl64.Vec3{1, 0, -0.09}, 1e-12) {
		t.Errorf("GlobalPose(IndexProximal) = %v, want (1, 0, -0.09)", got)
	}
}

func TestSkeleton_GlobalPoseRotatedParent(t *testing.T) {
	s := NewHandSkeleton(Left)
	s.SetLocalPose(Wrist, actor.NewTransformFrom(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})))
	s.SetLocalPose(ThumbMetacarpal, translation(0, 0, -1))

	got := s.GlobalPose(ThumbMetacarpal).Position
	if !vec3AlmostEqual(got, mgl64.Vec3{-1, 0, 0}, 1e-12) {
		t.Errorf("GlobalPose(ThumbMetacarpal) = %v, want (-1, 0, 0)", got)
	}
}

func TestSkeleton_SetLocalPoses(t *testing.T) {
	s := NewHandSkeleton(Right)

	if err := s.SetLocalPoses(make([]actor.Transform, 3)); !errors.Is(err, ErrInvalidSkeleton) {
		t.Errorf("short snapshot error = %v, want ErrInvalidSkeleton", err)
	}

	poses := make([]actor.Transform, BoneCount)
	for i := range poses {
		poses[i] = translation(0, float64(i), 0)
	}
	if err := s.SetLocalPoses(poses); err != nil {
		t.Fatalf("SetLocalPoses() error = %v", err)
	}

	// Palm hangs from the wrist: 25 + 0
	if got := s.GlobalPose(Palm).Position.Y(); got != 25 {
		t.Errorf("GlobalPose(Palm).Y = %v, want 25", got)
	}
}

func TestSkeleton_OverrideFullWeight(t *testing.T) {
	s := NewHandSkeleton(Left)
	s.SetLocalPose(IndexMetacarpal, translation(0, 0, -0.05))
	s.SetLocalPose(IndexProximal, translation(0, 0, -0.04))

	frozen := actor.NewTransformFrom(mgl64.Vec3{0.3, 0.2, 0.1}, mgl64.QuatRotate(0.4, mgl64.Vec3{1, 0, 0}))
	s.SetPoseOverride(IndexMetacarpal, frozen, 1.0)

	if got := s.GlobalPose(IndexMetacarpal); got != frozen {
		t.Errorf("GlobalPose with full override = %v, want %v", got, frozen)
	}
	if !s.Overridden(IndexMetacarpal) {
		t.Error("Overridden() should report the bone")
	}

	// the child follows its overridden parent
	child := s.GlobalPose(IndexProximal)
	want := frozen.Mul(translation(0, 0, -0.04))
	if !child.ApproxEqual(want, 1e-12) {
		t.Errorf("child pose = %v, want %v", child, want)
	}

	// tracked motion underneath does not leak through
	s.SetLocalPose(IndexMetacarpal, translation(0, 0.5, -0.05))
	if got := s.GlobalPose(IndexMetacarpal); got != frozen {
		t.Errorf("override should hide tracked motion, got %v", got)
	}

	s.ClearPoseOverrides()
	if got := s.GlobalPose(IndexMetacarpal).Position; !vec3AlmostEqual(got, mgl64.Vec3{0, 0.5, -0.05}, 1e-12) {
		t.Errorf("after clear = %v, want tracked pose", got)
	}
}

func TestSkeleton_OverridePartialWeight(t *testing.T) {
	s := NewHandSkeleton(Left)
	s.SetPoseOverride(Palm, translation(0, 1, 0), 0.25)

	if got := s.GlobalPose(Palm).Position; !vec3AlmostEqual(got, mgl64.Vec3{0, 0.25, 0}, 1e-12) {
		t.Errorf("GlobalPose(Palm) = %v, want (0, 0.25, 0)", got)
	}

	s.SetPoseOverride(Palm, translation(0, 1, 0), 0)
	if s.Overridden(Palm) {
		t.Error("zero weight should remove the override")
	}
}

func TestSkeleton_LocalPose(t *testing.T) {
	s := NewHandSkeleton(Left)
	s.SetLocalPose(Wrist, translation(1, 0, 0))
	s.SetLocalPose(RingMetacarpal, translation(0, 0, -0.05))

	if got := s.LocalPose(RingMetacarpal); !got.ApproxEqual(translation(0, 0, -0.05), 1e-12) {
		t.Errorf("LocalPose() = %v, want tracked local", got)
	}

	s.SetPoseOverride(RingMetacarpal, translation(1, 1, 0), 1)
	if got := s.LocalPose(RingMetacarpal); !got.ApproxEqual(translation(0, 1, 0), 1e-12) {
		t.Errorf("LocalPose() with override = %v, want (0, 1, 0)", got)
	}
}

func TestSkeleton_SetGlobalPose(t *testing.T) {
	s := NewHandSkeleton(Left)
	s.SetLocalPose(Wrist, translation(1, 2, 3))
	s.SetGlobalPose(MiddleMetacarpal, translation(1, 2, 2))

	if got := s.LocalPose(MiddleMetacarpal); !got.ApproxEqual(translation(0, 0, -1), 1e-12) {
		t.Errorf("LocalPose() = %v, want (0, 0, -1)", got)
	}
}

func TestSkeleton_OutOfRange(t *testing.T) {
	s := NewHandSkeleton(Left)

	if s.BoneName(BoneId(99)) != "" {
		t.Error("out of range name should be empty")
	}
	if got := s.GlobalPose(BoneId(-1)); got != actor.NewTransform() {
		t.Errorf("out of range pose = %v, want identity", got)
	}
	s.SetPoseOverride(BoneId(40), translation(1, 0, 0), 1)
	if s.Overridden(BoneId(40)) {
		t.Error("out of range override should be ignored")
	}
}

func TestCaptureRestPose(t *testing.T) {
	s := NewHandSkeleton(Left)
	s.SetLocalPose(Wrist, translation(0, 1, 0))
	rest := CaptureRestPose(s)

	s.SetLocalPose(Wrist, translation(5, 5, 5))

	if rest.Len() != BoneCount {
		t.Errorf("Len() = %d, want %d", rest.Len(), BoneCount)
	}
	if got := rest.Pose(Palm).Position; !vec3AlmostEqual(got, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("rest Palm = %v, want (0, 1, 0)", got)
	}
	if rest.Pose(BoneId(77)) != actor.NewTransform() {
		t.Error("out of range rest pose should be identity")
	}
}

func TestSkeleton_Root(t *testing.T) {
	s := NewHandSkeleton(Left)
	if s.Root() != actor.NewTransform() {
		t.Errorf("default root = %v, want identity", s.Root())
	}

	s.SetLocalPose(Palm, translation(0, 0.1, 0))
	s.SetPoseOverride(Palm, translation(0, 0.2, 0), 1)
	s.SetRoot(translation(3, 0, 0))

	// skeleton space is untouched by the root
	if got := s.GlobalPose(Palm).Position; !vec3AlmostEqual(got, mgl64.Vec3{0, 0.2, 0}, 1e-12) {
		t.Errorf("GlobalPose(Palm) = %v, want (0, 0.2, 0)", got)
	}
	world := s.Root().Mul(s.GlobalPose(Palm)).Position
	if !vec3AlmostEqual(world, mgl64.Vec3{3, 0.2, 0}, 1e-12) {
		t.Errorf("world palm = %v, want (3, 0.2, 0)", world)
	}
}
