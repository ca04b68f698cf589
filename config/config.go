// Package config loads the YAML configuration of the hand and of the demo scene.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/akmonengine/grasp/hand"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultFrames   = 480
	DefaultSubsteps = 8
)

var ErrInvalidScene = errors.New("invalid scene config")

type Config struct {
	Hand  hand.Config `yaml:"hand"`
	Scene SceneConfig `yaml:"scene"`
}

// SceneConfig describes the world the demo hand runs in
type SceneConfig struct {
	Dt       float64    `yaml:"dt"`
	Frames   int        `yaml:"frames"`
	Substeps int        `yaml:"substeps"`
	Gravity  mgl64.Vec3 `yaml:"gravity"`
	Ground   bool       `yaml:"ground"`
	Workers  int        `yaml:"workers"`

	Wrist  WristConfig  `yaml:"wrist"`
	Object ObjectConfig `yaml:"object"`
}

type WristConfig struct {
	Position mgl64.Vec3 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
	Density  float64    `yaml:"density"`
}

// ObjectConfig is the box the scripted hand reaches for
type ObjectConfig struct {
	HalfExtents    mgl64.Vec3 `yaml:"half_extents"`
	Position       mgl64.Vec3 `yaml:"position"`
	Density        float64    `yaml:"density"`
	GravityScale   float64    `yaml:"gravity_scale"`
	AngularDamping float64    `yaml:"angular_damping"`
}

func DefaultConfig() *Config {
	return &Config{
		Hand: hand.DefaultConfig(),
		Scene: SceneConfig{
			Dt:       DefaultDt,
			Frames:   DefaultFrames,
			Substeps: DefaultSubsteps,
			Gravity:  mgl64.Vec3{0, -9.81, 0},
			Ground:   true,
			Workers:  1,
			Wrist: WristConfig{
				Position: mgl64.Vec3{0, 1.2, 0},
				Radius:   0.04,
				Density:  1000,
			},
			Object: ObjectConfig{
				// resting on an invisible shelf, the world has no contacts
				HalfExtents:    mgl64.Vec3{0.03, 0.03, 0.03},
				Position:       mgl64.Vec3{0, 1.0, -0.35},
				Density:        400,
				GravityScale:   0,
				AngularDamping: 0.05,
			},
		},
	}
}

// Load reads a YAML file over the defaults, then validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Hand.Validate(); err != nil {
		return err
	}
	return c.Scene.Validate()
}

func (s SceneConfig) Validate() error {
	switch {
	case !(s.Dt > 0):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidScene, s.Dt)
	case s.Frames <= 0:
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidScene, s.Frames)
	case s.Substeps <= 0:
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalidScene, s.Substeps)
	case s.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidScene, s.Workers)
	case !(s.Wrist.Radius > 0) || !(s.Wrist.Density > 0):
		return fmt.Errorf("%w: wrist needs a positive radius and density", ErrInvalidScene)
	case !(s.Object.Density > 0):
		return fmt.Errorf("%w: object density must be positive, got %v", ErrInvalidScene, s.Object.Density)
	}

	for i := range 3 {
		if !(s.Object.HalfExtents[i] > 0) {
			return fmt.Errorf("%w: object half extents must be positive, got %v", ErrInvalidScene, s.Object.HalfExtents)
		}
	}
	return nil
}
