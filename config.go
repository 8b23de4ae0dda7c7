package aspen

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/tanema/gween/ease"
)

// Config tunes resolution and transition behavior for one engine root. The
// zero value is not useful; start from DefaultConfig or LoadConfig.
type Config struct {
	// MaxDepth caps resolution recursion. Documents are acyclic by
	// construction, so this is a defensive bound, not cycle detection.
	MaxDepth int `toml:"max_depth"`

	// DurationMillis is the default transition duration.
	DurationMillis float64 `toml:"duration_millis"`

	// Easing names the tween curve: linear, quad, cubic, expo, back
	// (all in-out). Unknown names fall back to linear.
	Easing string `toml:"easing"`

	// ReseatThreshold is how far (in pixels) an animated size may drift
	// before positions are re-seated against fresh layout results. Zero
	// re-seats on every tick a size control moves.
	ReseatThreshold float64 `toml:"reseat_threshold"`

	// Spring configures spring-driven position/size controls.
	Spring SpringConfig `toml:"spring"`
}

// SpringConfig selects spring integration for geometry controls. Damping 0
// means critically damped.
type SpringConfig struct {
	Enabled   bool    `toml:"enabled"`
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`
	Mass      float64 `toml:"mass"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:        defaultMaxDepth,
		DurationMillis:  300,
		Easing:          "linear",
		ReseatThreshold: 4,
		Spring: SpringConfig{
			Stiffness: DefaultSpring.Stiffness,
			Mass:      DefaultSpring.Mass,
		},
	}
}

// LoadConfig reads a TOML config file, overlaying the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// springParams converts the config's spring section to control parameters.
func (c *Config) springParams() SpringParams {
	p := SpringParams{
		Stiffness: c.Spring.Stiffness,
		Damping:   c.Spring.Damping,
		Mass:      c.Spring.Mass,
	}
	if p.Stiffness <= 0 {
		p.Stiffness = DefaultSpring.Stiffness
	}
	if p.Mass <= 0 {
		p.Mass = 1
	}
	return p
}

// easingByName maps a config easing name to its gween curve.
func easingByName(name string) ease.TweenFunc {
	switch name {
	case "", "linear":
		return ease.Linear
	case "quad":
		return ease.InOutQuad
	case "cubic":
		return ease.InOutCubic
	case "expo":
		return ease.InOutExpo
	case "back":
		return ease.InOutBack
	default:
		return ease.Linear
	}
}
