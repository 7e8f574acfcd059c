package transform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// PCA is the shipped default transform method: a principal-component
// rotation scored by the variance each component explains in the training
// pool. Components are estimated on the training matrix only; the test
// matrix is centered with the training means and projected onto the same
// rotation, so both outputs share one column space.
type PCA struct{}

// NewPCA returns the default variance-scored rotation method.
func NewPCA() *PCA { return &PCA{} }

// Apply implements Method.
func (p *PCA) Apply(cfg Config, train, test mat.Matrix) (Config, *mat.Dense, *mat.Dense, []float64, error) {
	rTr, c := train.Dims()
	rTe, cTe := test.Dims()
	if rTr == 0 || c == 0 {
		return cfg, nil, nil, nil, errors.NewModelError("PCA.Apply", "empty training data", errors.ErrEmptyData)
	}
	if cTe != c {
		return cfg, nil, nil, nil, errors.NewDimensionError("PCA.Apply", c, cTe, 1)
	}

	// Column means of the training pool only.
	means := make([]float64, c)
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < rTr; i++ {
			sum += train.At(i, j)
		}
		means[j] = sum / float64(rTr)
	}

	centeredTrain := mat.NewDense(rTr, c, nil)
	for i := 0; i < rTr; i++ {
		for j := 0; j < c; j++ {
			centeredTrain.Set(i, j, train.At(i, j)-means[j])
		}
	}
	centeredTest := mat.NewDense(rTe, c, nil)
	for i := 0; i < rTe; i++ {
		for j := 0; j < c; j++ {
			centeredTest.Set(i, j, test.At(i, j)-means[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centeredTrain, mat.SVDThin); !ok {
		return cfg, nil, nil, nil, errors.NewModelError("PCA.Apply", "SVD did not converge", nil)
	}

	var v mat.Dense
	svd.VTo(&v)
	singular := svd.Values(nil)

	k := len(singular)
	if cfg.NComponents > 0 && cfg.NComponents < k {
		k = cfg.NComponents
	}
	rotation := v.Slice(0, c, 0, k)

	// Variance explained per component. With a single training row the
	// unbiased denominator degenerates; fall back to n.
	denom := float64(rTr - 1)
	if rTr < 2 {
		denom = float64(rTr)
	}
	score := make([]float64, k)
	for i := 0; i < k; i++ {
		score[i] = singular[i] * singular[i] / denom
	}

	trainT := mat.NewDense(rTr, k, nil)
	trainT.Mul(centeredTrain, rotation)
	testT := mat.NewDense(rTe, k, nil)
	testT.Mul(centeredTest, rotation)

	applied := cfg
	applied.NComponents = k
	return applied, trainT, testT, score, nil
}
