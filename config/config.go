// Package config loads the lamp settings from an embedded defaults file,
// optionally overlaid by a user provided yaml file.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/esimov/ascii-lava/lava"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Settings holds every tunable of the lamp.
type Settings struct {
	Physics PhysicsSettings `yaml:"physics"`
	Render  RenderSettings  `yaml:"render"`
	Server  ServerSettings  `yaml:"server"`
	Stats   StatsSettings   `yaml:"stats"`
}

// PhysicsSettings mirrors the simulation configuration plus the particle
// count override.
type PhysicsSettings struct {
	GravityX      float64 `yaml:"gravity_x"`
	GravityY      float64 `yaml:"gravity_y"`
	Viscosity     float64 `yaml:"viscosity"`
	HeatSpeed     float64 `yaml:"heat_speed"`
	Spacing       float64 `yaml:"spacing"`
	Stiffness     float64 `yaml:"stiffness"`
	Dampening     float64 `yaml:"dampening"`
	RepulseRadius float64 `yaml:"repulse_radius"`
	RepulseForce  float64 `yaml:"repulse_force"`
	Swirl         bool    `yaml:"swirl"`
	SwirlStrength float64 `yaml:"swirl_strength"`
	Particles     int     `yaml:"particles"` // 0 derives the count from the domain area
}

// RenderSettings drives the rasterizer and the terminal colors.
type RenderSettings struct {
	FontSize float64 `yaml:"font_size"`
	Palette  string  `yaml:"palette"`
	Ramp     string  `yaml:"ramp"`
	FPS      int     `yaml:"fps"`
}

// ServerSettings configures the static hosting layout of the optional
// pointer websocket server. The listening address is operational and
// comes from the -listen flag instead.
type ServerSettings struct {
	Prefix string `yaml:"prefix"`
	Root   string `yaml:"root"`
}

// StatsSettings configures the telemetry collection.
type StatsSettings struct {
	Window int `yaml:"window"` // frames per statistics window
}

// Load parses the embedded defaults and overlays them with the user file
// when a path is given. Fields missing from the user file keep their
// default values.
func Load(path string) (*Settings, error) {
	s := &Settings{}
	if err := yaml.Unmarshal(defaultsYAML, s); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing settings file: %w", err)
		}
	}
	s.sanitize()
	return s, nil
}

// sanitize pins the values the front ends rely on to workable ranges.
// The physics values need no treatment here, the simulator clamps them
// on every step anyway.
func (s *Settings) sanitize() {
	if s.Render.FontSize < 1 {
		s.Render.FontSize = 16
	}
	if s.Render.FPS < 1 {
		s.Render.FPS = 30
	}
	if s.Render.Ramp == "" {
		s.Render.Ramp = "lava"
	}
	if s.Stats.Window < 2 {
		s.Stats.Window = 120
	}
	if s.Server.Prefix == "" {
		s.Server.Prefix = "/"
	}
	if s.Server.Root == "" {
		s.Server.Root = "."
	}
}

// Lava maps the physics settings onto a simulation configuration.
func (s *Settings) Lava() lava.Config {
	return lava.Config{
		Gravity:       lava.Vector{X: s.Physics.GravityX, Y: s.Physics.GravityY},
		Viscosity:     s.Physics.Viscosity,
		HeatSpeed:     s.Physics.HeatSpeed,
		Spacing:       s.Physics.Spacing,
		Stiffness:     s.Physics.Stiffness,
		Dampening:     s.Physics.Dampening,
		RepulseRadius: s.Physics.RepulseRadius,
		RepulseForce:  s.Physics.RepulseForce,
		Swirl:         s.Physics.Swirl,
		SwirlStrength: s.Physics.SwirlStrength,
	}
}

// PaletteRunes returns the configured glyph ramp, or nil when the
// built-in default should be kept.
func (s *Settings) PaletteRunes() []rune {
	if s.Render.Palette == "" {
		return nil
	}
	return []rune(s.Render.Palette)
}
