package skeleton

import "github.com/akmonengine/grasp/actor"

// RestPoseCache is the global pose of every bone captured at initialization
type RestPoseCache struct {
	poses []actor.Transform
}

// CaptureRestPose snapshots the current global poses of a source
func CaptureRestPose(source PoseSource) *RestPoseCache {
	c := &RestPoseCache{poses: make([]actor.Transform, source.BoneCount())}
	for i := range c.poses {
		c.poses[i] = source.GlobalPose(BoneId(i))
	}
	return c
}

// Pose returns the rest pose of a bone, identity when out of range
func (c *RestPoseCache) Pose(bone BoneId) actor.Transform {
	if bone < 0 || int(bone) >= len(c.poses) {
		return actor.NewTransform()
	}
	return c.poses[bone]
}

func (c *RestPoseCache) Len() int {
	return len(c.poses)
}
