package transform

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// MethodNone is the registry key of the identity method.
const MethodNone = "none"

// Identity passes the feature space through unchanged and scores each column
// with its training-pool variance. It exists for pipelines that want
// score-based voxel selection without re-expressing the features first.
type Identity struct{}

// NewIdentity returns the pass-through method.
func NewIdentity() *Identity { return &Identity{} }

// Apply implements Method.
func (id *Identity) Apply(cfg Config, train, test mat.Matrix) (Config, *mat.Dense, *mat.Dense, []float64, error) {
	rTr, c := train.Dims()
	_, cTe := test.Dims()
	if rTr == 0 || c == 0 {
		return cfg, nil, nil, nil, errors.NewModelError("Identity.Apply", "empty training data", errors.ErrEmptyData)
	}
	if cTe != c {
		return cfg, nil, nil, nil, errors.NewDimensionError("Identity.Apply", c, cTe, 1)
	}

	score := make([]float64, c)
	col := make([]float64, rTr)
	for j := 0; j < c; j++ {
		mat.Col(col, j, train)
		score[j] = stat.Variance(col, nil)
	}

	return cfg, mat.DenseCopyOf(train), mat.DenseCopyOf(test), score, nil
}

func init() {
	Register(MethodNone, func() Method { return NewIdentity() })
}
