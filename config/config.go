package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adammck/strider/components/ik"
	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/world"
	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to the name of every environment override.
const EnvPrefix = "STRIDER_"

var ErrInvalid = errors.New("invalid config")

var log = logrus.WithFields(logrus.Fields{
	"pkg": "config",
})

// Character describes the demo character: where it starts, its size, and the
// layout of its joints in its own frame.
type Character struct {
	Position  math3d.Vector3            `yaml:"position"`
	Clearance float64                   `yaml:"clearance"`
	Width     float64                   `yaml:"width"`
	Height    float64                   `yaml:"height"`
	Joints    map[string]math3d.Vector3 `yaml:"joints"`
	Chains    []ik.Chain                `yaml:"chains"`
}

// File is everything which can be loaded from a config file.
type File struct {
	Legs      legs.Config  `yaml:"legs"`
	Character Character    `yaml:"character"`
	World     world.Config `yaml:"world"`

	// Path to the controller script. Relative paths are relative to the
	// config file.
	Script string `yaml:"script" env:"SCRIPT"`

	FrameRate float64 `yaml:"frame_rate" env:"FRAME_RATE"`
	LogLevel  string  `yaml:"log_level" env:"LOG_LEVEL"`
	LogJSON   bool    `yaml:"log_json" env:"LOG_JSON"`
}

type hip struct {
	name string
	x, y float64
}

// Default returns a four legged character on a flat floor, which walks in
// diagonal pairs.
func Default() File {
	f := File{
		Legs: legs.DefaultConfig(),
		Character: Character{
			Position:  math3d.Vector3{Z: 50},
			Clearance: 50,
			Width:     100,
			Height:    40,
			Joints:    map[string]math3d.Vector3{},
		},
		World:     world.DefaultConfig(),
		FrameRate: 60,
		LogLevel:  "info",
	}

	hips := []hip{
		{"fl", 40, -30},
		{"fr", 40, 30},
		{"bl", -40, -30},
		{"br", -40, 30},
	}

	for _, h := range hips {
		f.Legs.Legs = append(f.Legs.Legs, legs.Leg{
			Name:        h.name,
			ParentJoint: "hip_" + h.name,
			TipJoint:    "tip_" + h.name,
		})

		f.Character.Joints["hip_"+h.name] = math3d.Vector3{X: h.x, Y: h.y}
		f.Character.Joints["tip_"+h.name] = math3d.Vector3{X: h.x, Y: h.y, Z: -50}
		f.Character.Chains = append(f.Character.Chains, ik.Chain{
			Hip:   "hip_" + h.name,
			Tip:   "tip_" + h.name,
			Femur: 40,
			Tibia: 45,
		})
	}

	f.Legs.Groups = []legs.Group{
		{Legs: []int{0, 3}},
		{Legs: []int{1, 2}},
	}

	return f
}

// Load returns the defaults, overlaid with the file at path (if path isn't
// empty), overlaid with the environment.
func Load(path string) (File, error) {
	f := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return f, fmt.Errorf("config: load %s: %w", path, err)
		}

		if err := yaml.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("config: parse %s: %w", path, err)
		}

		if f.Script != "" && !filepath.IsAbs(f.Script) {
			f.Script = filepath.Join(filepath.Dir(path), f.Script)
		}
	}

	if err := env.ParseWithOptions(&f, env.Options{Prefix: EnvPrefix}); err != nil {
		return f, fmt.Errorf("config: parse env: %w", err)
	}

	if err := f.Validate(); err != nil {
		return f, err
	}

	return f, nil
}

// Validate checks the host settings and the engine config.
func (f File) Validate() error {
	if f.FrameRate <= 0 {
		return fmt.Errorf("%w: frame_rate must be positive, got %0.2f", ErrInvalid, f.FrameRate)
	}

	if f.Character.Clearance <= 0 {
		return fmt.Errorf("%w: character clearance must be positive, got %0.2f", ErrInvalid, f.Character.Clearance)
	}

	if _, err := logrus.ParseLevel(f.LogLevel); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	if err := f.Legs.Validate(); err != nil {
		return fmt.Errorf("%w: legs: %w", ErrInvalid, err)
	}

	return nil
}
