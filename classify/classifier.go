package classify

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/core/model"
	"github.com/neurodecode/gomvpa/pkg/errors"
)

// CorrelationClassifier is the estimator-shaped wrapper around Classify for
// callers that prefer the Fit-then-predict style. Fit copies its inputs, so
// the caller keeps exclusive ownership of the training matrix.
type CorrelationClassifier struct {
	model.BaseEstimator

	trainX      *mat.Dense
	trainLabels []float64
}

// NewCorrelationClassifier returns an unfitted classifier.
func NewCorrelationClassifier() *CorrelationClassifier {
	return &CorrelationClassifier{}
}

// Fit stores a copy of the training matrix and its labels.
func (c *CorrelationClassifier) Fit(X mat.Matrix, labels []float64) error {
	r, cols := X.Dims()
	if r == 0 || cols == 0 {
		return errors.NewModelError("CorrelationClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(labels) != r {
		return errors.NewDimensionError("CorrelationClassifier.Fit", r, len(labels), 0)
	}

	c.trainX = mat.DenseCopyOf(X)
	c.trainLabels = append([]float64(nil), labels...)
	c.SetFitted()
	return nil
}

// Classify runs the correlation classifier against the fitted training pool.
func (c *CorrelationClassifier) Classify(testLabels []float64, testX mat.Matrix) (*Result, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("CorrelationClassifier", "Classify")
	}
	return Classify(testLabels, testX, Model{X: c.trainX, Labels: c.trainLabels})
}

// Classes returns the sorted distinct training labels seen by Fit.
func (c *CorrelationClassifier) Classes() []float64 {
	if !c.IsFitted() {
		return nil
	}
	return sortedUnique(c.trainLabels)
}

// GetParams implements model.ParameterGetter. The classifier has no
// hyperparameters; the map documents that explicitly.
func (c *CorrelationClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}
