package hand

import (
	"maps"
	"slices"

	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/skeleton"
)

// FreezeEngine keeps the last free pose of the finger bones that touched
// something during the current grasp episode.
type FreezeEngine struct {
	topology *skeleton.Topology
	cache    map[skeleton.BoneId]actor.Transform
}

func NewFreezeEngine(topology *skeleton.Topology) *FreezeEngine {
	return &FreezeEngine{
		topology: topology,
		cache:    make(map[skeleton.BoneId]actor.Transform),
	}
}

// Freeze handles a contact on bone. Every bone of the same finger at or
// proximal to it is captured once, from the current global pose.
// While grabbing, the captured poses override the pose source at full weight.
func (f *FreezeEngine) Freeze(bone skeleton.BoneId, poses skeleton.PoseSource, grabbing bool) {
	finger, ok := f.topology.Finger(bone)
	if !ok {
		return
	}

	for _, chained := range f.topology.Chain(finger) {
		if chained > bone {
			break
		}

		pose, cached := f.cache[chained]
		if !cached {
			pose = poses.GlobalPose(chained)
			f.cache[chained] = pose
		}
		if grabbing {
			poses.SetPoseOverride(chained, pose, 1.0)
		}
	}
}

// Unfreeze drops every override and empties the cache
func (f *FreezeEngine) Unfreeze(poses skeleton.PoseSource) {
	poses.ClearPoseOverrides()
	clear(f.cache)
}

// Frozen returns the captured pose of a bone
func (f *FreezeEngine) Frozen(bone skeleton.BoneId) (actor.Transform, bool) {
	pose, ok := f.cache[bone]
	return pose, ok
}

func (f *FreezeEngine) Len() int {
	return len(f.cache)
}

// Bones returns the captured bones in ascending order
func (f *FreezeEngine) Bones() []skeleton.BoneId {
	return slices.Sorted(maps.Keys(f.cache))
}
