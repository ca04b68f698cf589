package hand

import (
	"fmt"
	"math"

	"github.com/akmonengine/grasp/actor"
	"github.com/akmonengine/grasp/skeleton"
	"github.com/go-gl/mathgl/mgl64"
)

// AxisAngle is a rotation written as an axis and an angle in radians
type AxisAngle struct {
	Axis  mgl64.Vec3 `yaml:"axis"`
	Angle float64    `yaml:"angle"`
}

// Quat returns the rotation, identity for a zero axis
func (a AxisAngle) Quat() mgl64.Quat {
	if a.Axis.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(a.Angle, a.Axis.Normalize())
}

// Probe is a ray in the space of the frame it is attached to
type Probe struct {
	Origin    mgl64.Vec3 `yaml:"origin"`
	Direction mgl64.Vec3 `yaml:"direction"`
	Length    float64    `yaml:"length"`
}

// Ray places the probe in world space, given the world pose of its frame
func (p Probe) Ray(frame actor.Transform) actor.Ray {
	return actor.NewRay(frame.Apply(p.Origin), frame.ApplyVector(p.Direction), p.Length)
}

type Config struct {
	Side skeleton.Side `yaml:"side"`

	// wrist actuator
	LinearGain       float64 `yaml:"linear_gain"`
	AngularGain      float64 `yaml:"angular_gain"`
	BodyVelocityGain float64 `yaml:"body_velocity_gain"`

	// finger colliders
	ColliderBlend  float64    `yaml:"collider_blend"`
	ColliderOffset mgl64.Vec3 `yaml:"collider_offset"`
	ColliderAlign  AxisAngle  `yaml:"collider_align"`
	BoneProbes     []Probe    `yaml:"bone_probes"`

	// grabbing
	GrabProbe          Probe    `yaml:"grab_probe"`
	ProbeMask          uint32   `yaml:"probe_mask"`
	HeldAngularDamping float64  `yaml:"held_angular_damping"`
	HeldLayer          int      `yaml:"held_layer"`
	GrabButtons        []string `yaml:"grab_buttons"`

	// watchdog and feedback
	ResetDistanceSq  float64 `yaml:"reset_distance_sq"`
	GhostMaxDistance float64 `yaml:"ghost_max_distance"`
}

func DefaultConfig() Config {
	return Config{
		Side:             skeleton.Left,
		LinearGain:       30,
		AngularGain:      5,
		BodyVelocityGain: 10,
		ColliderBlend:    0.4,
		// bones point down -Z; the capsule starts at the joint
		ColliderOffset: mgl64.Vec3{0, 0, -0.01},
		ColliderAlign:  AxisAngle{Axis: mgl64.Vec3{1, 0, 0}, Angle: -math.Pi / 2},
		BoneProbes: []Probe{
			{Direction: mgl64.Vec3{0, 1, 0}, Length: 0.015},
			{Direction: mgl64.Vec3{0, 0, -1}, Length: 0.01},
		},
		GrabProbe: Probe{
			Origin:    mgl64.Vec3{0, -0.02, -0.05},
			Direction: mgl64.Vec3{0, -1, 0},
			Length:    0.1,
		},
		ProbeMask:          math.MaxUint32,
		HeldAngularDamping: 5,
		HeldLayer:          2,
		GrabButtons:        []string{ButtonGrip.String()},
		ResetDistanceSq:    1.0,
		GhostMaxDistance:   0.5,
	}
}

// Validate checks the config before a Hand is built from it
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"linear_gain", c.LinearGain},
		{"angular_gain", c.AngularGain},
		{"reset_distance_sq", c.ResetDistanceSq},
		{"ghost_max_distance", c.GhostMaxDistance},
		{"grab_probe.length", c.GrabProbe.Length},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.BodyVelocityGain < 0 {
		return fmt.Errorf("%w: body_velocity_gain must not be negative, got %v", ErrInvalidConfig, c.BodyVelocityGain)
	}
	if !(c.ColliderBlend > 0 && c.ColliderBlend <= 1) {
		return fmt.Errorf("%w: collider_blend must be in (0, 1], got %v", ErrInvalidConfig, c.ColliderBlend)
	}
	if c.GrabProbe.Direction.Len() == 0 {
		return fmt.Errorf("%w: grab_probe has no direction", ErrInvalidConfig)
	}
	for i, probe := range c.BoneProbes {
		if probe.Direction.Len() == 0 || !(probe.Length > 0) {
			return fmt.Errorf("%w: bone_probes[%d] needs a direction and a positive length", ErrInvalidConfig, i)
		}
	}
	if c.HeldLayer < 0 || c.HeldLayer > 31 {
		return fmt.Errorf("%w: held_layer must be in [0, 31], got %d", ErrInvalidConfig, c.HeldLayer)
	}
	if len(c.GrabButtons) == 0 {
		return fmt.Errorf("%w: no grab button", ErrInvalidConfig)
	}
	for _, name := range c.GrabButtons {
		if _, err := ParseButton(name); err != nil {
			return fmt.Errorf("%w: grab_buttons: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}
