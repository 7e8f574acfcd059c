package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// Scaling method names accepted by ScalingConfig.
const (
	ScalingStandard = "standard"
	ScalingMinMax   = "minmax"
	ScalingNone     = "none"
)

// ScalingConfig selects and parameterizes the scaler applied by Scale.
// The zero value means standard scaling with mean subtraction and unit
// variance, which is what decoding pipelines use unless told otherwise.
type ScalingConfig struct {
	// Method is one of "standard", "minmax" or "none". Empty means "standard".
	Method string `yaml:"method"`

	// WithMean controls mean subtraction for standard scaling. nil means true.
	WithMean *bool `yaml:"with_mean"`

	// WithStd controls division by the standard deviation. nil means true.
	WithStd *bool `yaml:"with_std"`

	// FeatureRange is the target range for minmax scaling. The zero value
	// means [0, 1].
	FeatureRange [2]float64 `yaml:"feature_range"`
}

func (c ScalingConfig) withMean() bool { return c.WithMean == nil || *c.WithMean }
func (c ScalingConfig) withStd() bool  { return c.WithStd == nil || *c.WithStd }

func (c ScalingConfig) featureRange() [2]float64 {
	if c.FeatureRange == [2]float64{} {
		return [2]float64{0, 1}
	}
	return c.FeatureRange
}

// Scale fits the configured scaler on X and returns the scaled matrix.
// The matrix is treated as one estimation unit; callers decide what goes
// into it (train only, or train and test stacked row-wise).
//
// This is the Scaler collaborator contract consumed by the feature
// transformer: scale(config, matrix) -> matrix.
func Scale(cfg ScalingConfig, X mat.Matrix) (mat.Matrix, error) {
	switch cfg.Method {
	case "", ScalingStandard:
		return NewStandardScaler(cfg.withMean(), cfg.withStd()).FitTransform(X)
	case ScalingMinMax:
		return NewMinMaxScaler(cfg.featureRange()).FitTransform(X)
	case ScalingNone:
		return X, nil
	default:
		return nil, errors.NewValidationError("scaling.method", "must be standard, minmax or none", cfg.Method)
	}
}
