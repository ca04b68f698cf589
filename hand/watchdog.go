package hand

import "github.com/akmonengine/grasp/actor"

// Watchdog detects a physical wrist that drifted too far from its tracked pose
type Watchdog struct {
	ThresholdSq float64
}

// Diverged reports a squared distance strictly above the threshold,
// or a physical wrist that is no longer finite
func (w Watchdog) Diverged(track, phys actor.Transform) bool {
	if !finite(phys.Position) {
		return finite(track.Position)
	}

	delta := track.Position.Sub(phys.Position)
	return delta.Dot(delta) > w.ThresholdSq
}
