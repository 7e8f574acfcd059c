// Package metrics provides evaluation metrics for decoding results.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// Accuracy returns the fraction of predictions equal to the true labels.
// NaN predictions (from degenerate classifications) count as misses.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) == 0 {
		return 0, errors.NewModelError("metrics.Accuracy", "empty labels", errors.ErrEmptyData)
	}
	if len(yTrue) != len(yPred) {
		return 0, errors.NewDimensionError("metrics.Accuracy", len(yTrue), len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if !math.IsNaN(yPred[i]) && yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ConfusionMatrix returns the count matrix C and the sorted class set it is
// indexed by: C[i][j] counts samples whose true label is classes[i] and
// predicted label is classes[j]. NaN predictions are dropped from the counts
// (they appear in no column).
func ConfusionMatrix(yTrue, yPred []float64) (*mat.Dense, []float64, error) {
	if len(yTrue) == 0 {
		return nil, nil, errors.NewModelError("metrics.ConfusionMatrix", "empty labels", errors.ErrEmptyData)
	}
	if len(yTrue) != len(yPred) {
		return nil, nil, errors.NewDimensionError("metrics.ConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	classIdx := make(map[float64]int)
	var classes []float64
	add := func(l float64) {
		if math.IsNaN(l) {
			return
		}
		if _, ok := classIdx[l]; !ok {
			classIdx[l] = 0
			classes = append(classes, l)
		}
	}
	for i := range yTrue {
		add(yTrue[i])
		add(yPred[i])
	}
	sort.Float64s(classes)
	for i, c := range classes {
		classIdx[c] = i
	}

	cm := mat.NewDense(len(classes), len(classes), nil)
	for i := range yTrue {
		if math.IsNaN(yPred[i]) {
			continue
		}
		r, c := classIdx[yTrue[i]], classIdx[yPred[i]]
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, classes, nil
}
