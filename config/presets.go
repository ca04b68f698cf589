package config

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Presets are changes applied over DefaultConfig
var Presets = map[string]func(cfg *Config){
	"shelf": func(cfg *Config) {},
	"heavy": func(cfg *Config) {
		cfg.Scene.Object.Density = 4000
		cfg.Scene.Object.HalfExtents = mgl64.Vec3{0.05, 0.05, 0.05}
	},
	"soft": func(cfg *Config) {
		cfg.Hand.LinearGain = 12
		cfg.Hand.AngularGain = 2
		cfg.Hand.ColliderBlend = 0.2
	},
}

// GetPreset returns the default config modified by a preset, nil for an unknown name
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
