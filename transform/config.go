package transform

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neurodecode/gomvpa/pkg/errors"
	"github.com/neurodecode/gomvpa/preprocessing"
)

// Estimation selects how scaling statistics are estimated before the
// transform method runs. Any value other than the two recognized modes
// disables scaling and passes the matrices through untouched.
type Estimation string

const (
	// EstimationAll scales the training matrix only. The test matrix is
	// ignored and replaced by a zero placeholder of the same shape: under
	// "all" estimation the training pool already stands for the full
	// dataset, so there is no independent test transform at this stage.
	EstimationAll Estimation = "all"

	// EstimationAcross stacks train and test row-wise, scales the combined
	// block as one unit, and splits it back at the original row boundary.
	EstimationAcross Estimation = "across"
)

// NVox is the count/percentage selection value: either the "all" token, an
// absolute column count, or a fraction (< 1) of the available columns.
type NVox struct {
	all      bool
	count    int
	fraction float64
}

// NVoxAll returns the "keep everything" token.
func NVoxAll() NVox { return NVox{all: true} }

// NVoxCount returns an absolute column-count selection.
func NVoxCount(n int) NVox { return NVox{count: n} }

// NVoxFraction returns a fractional selection; f must be in (0, 1).
func NVoxFraction(f float64) NVox { return NVox{fraction: f} }

// ParseNVoxToken parses a string selection token. "all" is the only
// recognized token; anything else is a fatal configuration error.
func ParseNVoxToken(tok string) (NVox, error) {
	if tok == "all" {
		return NVoxAll(), nil
	}
	return NVox{}, errors.NewValueError("ParseNVoxToken", "unrecognized selection token "+tok+` (only "all" is allowed)`)
}

// IsAll reports whether the value is the "all" token.
func (v NVox) IsAll() bool { return v.all }

// TargetCount resolves the value to a concrete column count given the number
// of currently available columns. Fractions round up.
func (v NVox) TargetCount(available int) (int, error) {
	switch {
	case v.all:
		return available, nil
	case v.fraction != 0:
		if v.fraction <= 0 || v.fraction >= 1 {
			return 0, errors.NewValidationError("n_vox", "fraction must be in (0, 1)", v.fraction)
		}
		return int(math.Ceil(v.fraction * float64(available))), nil
	default:
		if v.count <= 0 {
			return 0, errors.NewValidationError("n_vox", "count must be positive", v.count)
		}
		return v.count, nil
	}
}

// UnmarshalYAML accepts "all", an integer count, or a float fraction.
func (v *NVox) UnmarshalYAML(node *yaml.Node) error {
	switch node.Tag {
	case "!!str":
		var tok string
		if err := node.Decode(&tok); err != nil {
			return errors.WithStack(err)
		}
		parsed, err := ParseNVoxToken(tok)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	case "!!int":
		var n int
		if err := node.Decode(&n); err != nil {
			return errors.WithStack(err)
		}
		if n <= 0 {
			return errors.NewValidationError("n_vox", "count must be positive", n)
		}
		*v = NVoxCount(n)
		return nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return errors.WithStack(err)
		}
		if f <= 0 {
			return errors.NewValidationError("n_vox", "must be positive", f)
		}
		if f < 1 {
			*v = NVoxFraction(f)
		} else {
			*v = NVoxCount(int(f))
		}
		return nil
	default:
		return errors.NewValidationError("n_vox", "must be \"all\", an integer or a fraction", node.Tag)
	}
}

// UnmarshalYAML resolves a method name in a config file to a ByName spec.
func (s *MethodSpec) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return errors.WithStack(err)
	}
	*s = ByName(name)
	return nil
}

// SelectionConfig is the optional score-based feature selection step.
// Count/percentage selection and critical-value selection are independent;
// when both are set they run in that order.
type SelectionConfig struct {
	// NVox is the count/percentage selection value.
	NVox *NVox `yaml:"n_vox"`

	// CriticalValue keeps only columns whose score is strictly greater.
	CriticalValue *float64 `yaml:"critical_value"`
}

// Config parameterizes one FeatureTransformer.Transform call.
type Config struct {
	// Method names or carries the transform capability. A zero spec falls
	// back to the shipped default, MethodPCA.
	Method MethodSpec `yaml:"method"`

	// Estimation selects the scaling mode; see the Estimation constants.
	Estimation Estimation `yaml:"estimation"`

	// Scaling parameterizes the scaler used by the recognized estimation modes.
	Scaling preprocessing.ScalingConfig `yaml:"scaling"`

	// Selection, when non-nil, enables score-based feature selection.
	Selection *SelectionConfig `yaml:"selection"`

	// NComponents caps the number of components a rotation method keeps.
	// Zero means all. The applied config reports the count actually kept.
	NComponents int `yaml:"n_components"`
}

// LoadConfig reads a yaml transform configuration from path. Unknown fields
// are rejected so typos fail loudly rather than silently disabling a step.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open transform config %s", path)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse transform config %s", path)
	}
	if cfg.Method.IsZero() {
		cfg.Method = ByName(MethodPCA)
	}
	return cfg, nil
}
