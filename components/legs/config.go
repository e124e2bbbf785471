package legs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adammck/strider/components/legs/gait"
	"github.com/adammck/strider/math3d"
)

var (
	// ErrNoLegs indicates that the configuration has no legs.
	ErrNoLegs = errors.New("no legs")

	// ErrNoGroups indicates that the configuration has no leg groups.
	ErrNoGroups = errors.New("no leg groups")

	// ErrInvalidGroup indicates a group which is empty or names a leg which
	// does not exist, or a leg which is in no group (or in several).
	ErrInvalidGroup = errors.New("invalid leg group")

	// ErrInvalidLeg indicates a leg without joint references.
	ErrInvalidLeg = errors.New("invalid leg")

	// ErrInvalidConfig indicates a setting outside of its valid range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidBodyLimit indicates a negative maximum body pitch or roll.
	// It wraps ErrInvalidConfig.
	ErrInvalidBodyLimit = fmt.Errorf("%w: body rotation limit", ErrInvalidConfig)
)

// Solver selects how footholds are found.
type Solver string

const (
	// SolverBasic casts a single ray down from above each foot.
	SolverBasic Solver = "basic"

	// SolverAdvanced falls back to a volume sweep when the ray misses or lands
	// too far away, which finds ledges and steps the ray alone would not.
	SolverAdvanced Solver = "advanced"
)

// Leg is the static description of one leg.
type Leg struct {
	Name        string `yaml:"name"`
	ParentJoint string `yaml:"parent_joint"`
	TipJoint    string `yaml:"tip_joint"`

	// Offset moves the foot column away from the parent joint, in the
	// character frame. Z is added to the foothold height.
	Offset math3d.Vector3 `yaml:"offset"`
}

// Group is a set of legs which are lifted and planted together.
type Group struct {
	Legs []int `yaml:"legs"`
}

// Config holds every tunable of the engine. Distances are in world units,
// rates are per second, and angles are in degrees.
type Config struct {
	Legs   []Leg   `yaml:"legs"`
	Groups []Group `yaml:"groups"`

	StepHeight          float64 `yaml:"step_height"`
	StepDistanceForward float64 `yaml:"step_distance_forward"`
	StepDistanceRight   float64 `yaml:"step_distance_right"`

	// StepSequencePercent is how far along its step the previous group must be
	// before the next may lift. 1 never overlaps two groups.
	StepSequencePercent float64 `yaml:"step_sequence_percent"`

	StepSlopeReduction  float64 `yaml:"step_slope_reduction"`
	MinStepDuration     float64 `yaml:"min_step_duration"`
	MinUnplantDistance  float64 `yaml:"min_unplant_distance"`
	FreezeTargetPercent float64 `yaml:"freeze_target_percent"`
	FootRotationRate    float64 `yaml:"foot_rotation_rate"`

	BodyBounce           float64 `yaml:"body_bounce"`
	BodySlope            float64 `yaml:"body_slope"`
	BodyLocationRate     float64 `yaml:"body_location_rate"`
	BodyZOffset          float64 `yaml:"body_z_offset"`
	BodyRotationRate     float64 `yaml:"body_rotation_rate"`
	BodyAccelerationTilt float64 `yaml:"body_acceleration_tilt"`
	MaxPitch             float64 `yaml:"max_pitch"`
	MaxRoll              float64 `yaml:"max_roll"`
	RotateOnFeet         bool    `yaml:"rotate_on_feet"`
	RotateOnAcceleration bool    `yaml:"rotate_on_acceleration"`

	Solver                     Solver  `yaml:"solver"`
	FallbackRadiusMultiplier   float64 `yaml:"fallback_radius_multiplier"`
	FallbackDistanceMultiplier float64 `yaml:"fallback_distance_multiplier"`

	TraceChannel     uint    `yaml:"trace_channel"`
	TraceLength      float64 `yaml:"trace_length"`
	TraceStartOffset float64 `yaml:"trace_start_offset"`
	TraceComplex     bool    `yaml:"trace_complex"`

	SpeedCurve  gait.Spec `yaml:"speed_curve"`
	HeightCurve gait.Spec `yaml:"height_curve"`

	// Precision is handed through to the IK consumer as its goal tolerance.
	Precision float64 `yaml:"precision"`
}

// DefaultConfig returns a configuration with every tunable set to a sensible
// value, and no legs.
func DefaultConfig() Config {
	return Config{
		StepHeight:          20,
		StepDistanceForward: 50,
		StepDistanceRight:   30,
		StepSequencePercent: 1,
		StepSlopeReduction:  0.75,
		MinStepDuration:     0.15,
		MinUnplantDistance:  5,
		FreezeTargetPercent: 0.5,
		FootRotationRate:    15,

		BodyBounce:           0.5,
		BodySlope:            0.5,
		BodyLocationRate:     10,
		BodyRotationRate:     2.5,
		BodyAccelerationTilt: 0.1,
		MaxPitch:             45,
		MaxRoll:              45,
		RotateOnFeet:         true,
		RotateOnAcceleration: true,

		Solver:                     SolverAdvanced,
		FallbackRadiusMultiplier:   1.5,
		FallbackDistanceMultiplier: 1.2,

		TraceLength:      350,
		TraceStartOffset: 50,
		TraceComplex:     true,

		SpeedCurve:  gait.Spec{Kind: "ease"},
		HeightCurve: gait.Spec{Kind: "bell"},

		Precision: 1,
	}
}

// Validate returns an error wrapping one of the Err* sentinels if the config
// cannot drive a character.
func (c *Config) Validate() error {
	if len(c.Legs) == 0 {
		return ErrNoLegs
	}

	if len(c.Groups) == 0 {
		return ErrNoGroups
	}

	for i, leg := range c.Legs {
		if leg.ParentJoint == "" || leg.TipJoint == "" {
			return fmt.Errorf("%w: leg %d (%s) needs parent and tip joints", ErrInvalidLeg, i, leg.Name)
		}
	}

	owner := make([]int, len(c.Legs))
	for i := range owner {
		owner[i] = -1
	}

	for g, group := range c.Groups {
		if len(group.Legs) == 0 {
			return fmt.Errorf("%w: group %d is empty", ErrInvalidGroup, g)
		}

		for _, i := range group.Legs {
			if i < 0 || i >= len(c.Legs) {
				return fmt.Errorf("%w: group %d names leg %d, but there are %d legs", ErrInvalidGroup, g, i, len(c.Legs))
			}

			if owner[i] != -1 {
				return fmt.Errorf("%w: leg %d is in groups %d and %d", ErrInvalidGroup, i, owner[i], g)
			}

			owner[i] = g
		}
	}

	for i, g := range owner {
		if g == -1 {
			return fmt.Errorf("%w: leg %d is in no group", ErrInvalidGroup, i)
		}
	}

	if c.Precision <= 0 {
		return fmt.Errorf("%w: precision must be positive, got %v", ErrInvalidConfig, c.Precision)
	}

	if c.MinStepDuration <= 0 {
		return fmt.Errorf("%w: min_step_duration must be positive, got %v", ErrInvalidConfig, c.MinStepDuration)
	}

	if c.StepSequencePercent < 0 || c.StepSequencePercent > 1 {
		return fmt.Errorf("%w: step_sequence_percent must be in [0, 1], got %v", ErrInvalidConfig, c.StepSequencePercent)
	}

	if c.TraceLength <= 0 {
		return fmt.Errorf("%w: trace_length must be positive, got %v", ErrInvalidConfig, c.TraceLength)
	}

	if c.MaxPitch < 0 {
		return fmt.Errorf("%w: max_pitch must not be negative, got %v", ErrInvalidBodyLimit, c.MaxPitch)
	}

	if c.MaxRoll < 0 {
		return fmt.Errorf("%w: max_roll must not be negative, got %v", ErrInvalidBodyLimit, c.MaxRoll)
	}

	switch Solver(strings.ToLower(string(c.Solver))) {
	case SolverBasic, SolverAdvanced:
	default:
		return fmt.Errorf("%w: unknown solver %q", ErrInvalidConfig, c.Solver)
	}

	if _, err := c.SpeedCurve.Curve(); err != nil {
		return fmt.Errorf("%w: speed_curve: %s", ErrInvalidConfig, err)
	}

	if _, err := c.HeightCurve.Curve(); err != nil {
		return fmt.Errorf("%w: height_curve: %s", ErrInvalidConfig, err)
	}

	return nil
}

// groupOf returns, for each leg, the index of the group which contains it.
// Only meaningful on a validated config.
func (c *Config) groupOf() []int {
	owner := make([]int, len(c.Legs))
	for g, group := range c.Groups {
		for _, i := range group.Legs {
			owner[i] = g
		}
	}
	return owner
}

func (c *Config) advanced() bool {
	return Solver(strings.ToLower(string(c.Solver))) == SolverAdvanced
}
