package gait

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/adammck/strider/utils"
	"gopkg.in/yaml.v3"
)

// Curve maps the fraction of a step which has elapsed (0 to 1) to a ratio. The
// speed curve decides how far along the line from the lift-off point to the
// target a foot is; the height curve decides how far it is raised.
type Curve interface {
	Value(t float64) float64
}

// Ease is a sine from 0 to 1, so a foot accelerates out of lift-off and
// decelerates into the plant.
type Ease struct{}

func (Ease) Value(t float64) float64 {
	return 0.5 - (math.Cos(utils.Clamp(t, 0, 1)*math.Pi) / 2)
}

// Bell is a bell curve peaking at the middle of the step, rescaled so that it
// is exactly zero at both ends.
type Bell struct{}

func (Bell) Value(t float64) float64 {
	edge := bell(0)
	return (bell(utils.Clamp(t, 0, 1)) - edge) / (1 - edge)
}

func bell(t float64) float64 {
	return math.Pow(2, -math.Pow((t-0.5)*(math.E*2), 2))
}

// Linear returns t.
type Linear struct{}

func (Linear) Value(t float64) float64 {
	return utils.Clamp(t, 0, 1)
}

// Key is a single point on a Keys curve.
type Key struct {
	T float64
	V float64
}

// Keys interpolates linearly between keyframes, and holds the first and last
// values outside of them.
type Keys []Key

func (k Keys) Value(t float64) float64 {
	if len(k) == 0 {
		return 0
	}

	if t <= k[0].T {
		return k[0].V
	}

	for i := 1; i < len(k); i++ {
		if t <= k[i].T {
			a, b := k[i-1], k[i]
			if b.T == a.T {
				return b.V
			}
			return a.V + (b.V-a.V)*(t-a.T)/(b.T-a.T)
		}
	}

	return k[len(k)-1].V
}

// Spec is the serialized form of a curve. In YAML it is either a bare kind
// ("ease") or a mapping with a kind and, for "keys", a list of [t, v] pairs.
type Spec struct {
	Kind string       `yaml:"kind"`
	Keys [][2]float64 `yaml:"keys,omitempty"`
}

func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Kind = value.Value
		s.Keys = nil
		return nil
	}

	type plain Spec
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}

	*s = Spec(p)
	return nil
}

// Curve builds the curve which s describes.
func (s Spec) Curve() (Curve, error) {
	switch strings.ToLower(s.Kind) {
	case "ease":
		return Ease{}, nil

	case "bell":
		return Bell{}, nil

	case "linear":
		return Linear{}, nil

	case "keys":
		if len(s.Keys) == 0 {
			return nil, fmt.Errorf("keys curve has no keys")
		}

		keys := make(Keys, len(s.Keys))
		for i, kv := range s.Keys {
			keys[i] = Key{T: kv[0], V: kv[1]}
		}
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].T < keys[j].T })
		return keys, nil

	case "":
		return nil, fmt.Errorf("curve kind is empty")

	default:
		return nil, fmt.Errorf("unknown curve kind: %q", s.Kind)
	}
}
