// Package model provides the base estimator state and the small interfaces
// shared by the decoding components.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for estimators that learn from labeled samples.
type Fitter interface {
	// Fit stores or estimates whatever the estimator needs from the
	// training matrix X and its per-row labels.
	Fit(X mat.Matrix, labels []float64) error
}

// Transformer is the interface for feature transformations.
type Transformer interface {
	// Fit learns the parameters needed for the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit and Transform in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter is the interface for estimators that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the estimator's hyperparameters.
	GetParams() map[string]interface{}
}
