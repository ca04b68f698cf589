package skeleton

import (
	"fmt"

	"github.com/akmonengine/grasp/actor"
)

// PoseSource supplies one pose snapshot per frame for a tracked skeleton.
// Global poses are in skeleton space, placed in the world by Root, and
// already include any override set through the override channel.
type PoseSource interface {
	Root() actor.Transform
	BoneCount() int
	BoneName(bone BoneId) string
	GlobalPose(bone BoneId) actor.Transform
	LocalPose(bone BoneId) actor.Transform
	SetPoseOverride(bone BoneId, pose actor.Transform, weight float64)
	ClearPoseOverrides()
}

type override struct {
	pose   actor.Transform
	weight float64
}

// Skeleton is an in-memory PoseSource. Local poses are written once per
// frame by the tracking input; global poses are derived lazily and blended
// with the overrides.
type Skeleton struct {
	root      actor.Transform
	names     []string
	parents   []int
	local     []actor.Transform
	global    []actor.Transform
	overrides map[BoneId]override
	dirty     bool
}

// NewSkeleton creates a skeleton in its identity pose. Parents must come
// before their children; the root has NoParent.
func NewSkeleton(names []string, parents []int) (*Skeleton, error) {
	if len(names) != len(parents) {
		return nil, fmt.Errorf("%w: %d names for %d parents", ErrInvalidSkeleton, len(names), len(parents))
	}
	for i, parent := range parents {
		if parent != NoParent && (parent < 0 || parent >= i) {
			return nil, fmt.Errorf("%w: bone %d has parent %d", ErrInvalidSkeleton, i, parent)
		}
	}

	s := &Skeleton{
		root:      actor.NewTransform(),
		names:     append([]string(nil), names...),
		parents:   append([]int(nil), parents...),
		local:     make([]actor.Transform, len(names)),
		global:    make([]actor.Transform, len(names)),
		overrides: make(map[BoneId]override),
		dirty:     true,
	}
	for i := range s.local {
		s.local[i] = actor.NewTransform()
	}

	return s, nil
}

// NewHandSkeleton creates a full hand skeleton with the default names and hierarchy
func NewHandSkeleton(side Side) *Skeleton {
	s, err := NewSkeleton(DefaultBoneNames(side), DefaultParents())
	if err != nil {
		// the default tables are always valid
		panic(err)
	}
	return s
}

// Root returns the world pose of skeleton space
func (s *Skeleton) Root() actor.Transform {
	return s.root
}

// SetRoot places skeleton space in the world. It moves every bone without
// touching the overrides, which stay in skeleton space.
func (s *Skeleton) SetRoot(root actor.Transform) {
	s.root = root.Normalized()
}

func (s *Skeleton) BoneCount() int {
	return len(s.names)
}

func (s *Skeleton) BoneName(bone BoneId) string {
	if !s.valid(bone) {
		return ""
	}
	return s.names[bone]
}

func (s *Skeleton) Names() []string {
	return append([]string(nil), s.names...)
}

// Parent returns the parent of a bone, NoParent for the root
func (s *Skeleton) Parent(bone BoneId) int {
	if !s.valid(bone) {
		return NoParent
	}
	return s.parents[bone]
}

// SetLocalPoses replaces the whole parent-relative snapshot
func (s *Skeleton) SetLocalPoses(poses []actor.Transform) error {
	if len(poses) != len(s.local) {
		return fmt.Errorf("%w: snapshot has %d poses, want %d", ErrInvalidSkeleton, len(poses), len(s.local))
	}

	for i, pose := range poses {
		s.local[i] = pose.Normalized()
	}
	s.dirty = true

	return nil
}

// SetLocalPose writes one bone's parent-relative pose
func (s *Skeleton) SetLocalPose(bone BoneId, pose actor.Transform) {
	if !s.valid(bone) {
		return
	}

	s.local[bone] = pose.Normalized()
	s.dirty = true
}

// SetGlobalPose writes the local pose that puts a bone at the given global pose,
// given the current pose of its parent
func (s *Skeleton) SetGlobalPose(bone BoneId, pose actor.Transform) {
	if !s.valid(bone) {
		return
	}

	parent := s.parents[bone]
	if parent == NoParent {
		s.SetLocalPose(bone, pose)
		return
	}
	s.SetLocalPose(bone, s.GlobalPose(BoneId(parent)).Inverse().Mul(pose))
}

// GlobalPose returns the skeleton-space pose, overrides included
func (s *Skeleton) GlobalPose(bone BoneId) actor.Transform {
	if !s.valid(bone) {
		return actor.NewTransform()
	}

	s.refresh()
	return s.global[bone]
}

// LocalPose returns the parent-relative pose, overrides included
func (s *Skeleton) LocalPose(bone BoneId) actor.Transform {
	if !s.valid(bone) {
		return actor.NewTransform()
	}

	// an override on an ancestor moves the parent and the child together
	if _, overridden := s.overrides[bone]; !overridden {
		return s.local[bone]
	}

	parent := s.parents[bone]
	if parent == NoParent {
		return s.GlobalPose(bone)
	}
	return s.GlobalPose(BoneId(parent)).Inverse().Mul(s.GlobalPose(bone))
}

// SetPoseOverride blends the global pose of a bone toward pose by weight (1 replaces it)
func (s *Skeleton) SetPoseOverride(bone BoneId, pose actor.Transform, weight float64) {
	if !s.valid(bone) {
		return
	}

	if weight <= 0 {
		delete(s.overrides, bone)
	} else {
		s.overrides[bone] = override{pose: pose, weight: min(weight, 1)}
	}
	s.dirty = true
}

func (s *Skeleton) ClearPoseOverrides() {
	if len(s.overrides) == 0 {
		return
	}

	clear(s.overrides)
	s.dirty = true
}

// Overridden reports whether a bone currently has a pose override
func (s *Skeleton) Overridden(bone BoneId) bool {
	_, ok := s.overrides[bone]
	return ok
}

func (s *Skeleton) refresh() {
	if !s.dirty {
		return
	}

	for i := range s.local {
		pose := s.local[i]
		if parent := s.parents[i]; parent != NoParent {
			pose = s.global[parent].Mul(pose)
		}
		if o, ok := s.overrides[BoneId(i)]; ok {
			pose = pose.Interpolate(o.pose, o.weight)
		}
		s.global[i] = pose
	}
	s.dirty = false
}

func (s *Skeleton) valid(bone BoneId) bool {
	return bone >= 0 && int(bone) < len(s.names)
}
