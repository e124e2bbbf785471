package world

import (
	"fmt"

	"github.com/adammck/strider/math3d"
)

// SegmentConfig is a static line of ground. Overlap segments don't block
// rays, but are still reported by volume casts.
type SegmentConfig struct {
	From     math3d.Vector3 `yaml:"from"`
	To       math3d.Vector3 `yaml:"to"`
	Radius   float64        `yaml:"radius"`
	Overlap  bool           `yaml:"overlap"`
	Channels []uint         `yaml:"channels"`
}

type PlatformConfig struct {
	From  math3d.Vector3 `yaml:"from"`
	To    math3d.Vector3 `yaml:"to"`
	Width float64        `yaml:"width"`
	Speed float64        `yaml:"speed"`
}

type Config struct {
	Ground    []SegmentConfig  `yaml:"ground"`
	Platforms []PlatformConfig `yaml:"platforms"`
}

// DefaultConfig is a long flat floor at zero.
func DefaultConfig() Config {
	return Config{
		Ground: []SegmentConfig{
			{From: math3d.Vector3{X: -10000}, To: math3d.Vector3{X: 10000}},
		},
	}
}

// Build returns a world containing everything in the config.
func Build(cfg Config) (*World, error) {
	w := New()

	for i, s := range cfg.Ground {
		if _, err := w.AddSegment(s.From, s.To, s.Radius, !s.Overlap, s.Channels...); err != nil {
			return nil, fmt.Errorf("ground %d: %w", i, err)
		}
	}

	for i, p := range cfg.Platforms {
		if _, err := w.AddPlatform(p.From, p.To, p.Width, p.Speed); err != nil {
			return nil, fmt.Errorf("platform %d: %w", i, err)
		}
	}

	log.Infof("built world with %d segments and %d platforms", len(cfg.Ground), len(cfg.Platforms))
	return w, nil
}
