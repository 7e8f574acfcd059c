package transform

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// rankDescending returns column indices ordered by descending score.
// The sort is stable, so ties keep their original index order.
func rankDescending(score []float64) []int {
	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return score[idx[a]] > score[idx[b]]
	})
	return idx
}

// subsetColumns builds a new matrix holding the given columns of m, in the
// given order.
func subsetColumns(m *mat.Dense, idx []int) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, len(idx), nil)
	for i := 0; i < r; i++ {
		for k, j := range idx {
			out.Set(i, k, m.At(i, j))
		}
	}
	return out
}

// subsetScores mirrors subsetColumns for the score vector.
func subsetScores(score []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, j := range idx {
		out[k] = score[j]
	}
	return out
}

// applySelection runs the configured selection steps over the transformed
// matrices. The count/percentage step runs first, then the critical-value
// step; both are optional and both apply the identical column subset to the
// train matrix, the test matrix and the carried score vector.
//
// A selection step never produces an implicit empty set: every fallback is
// "keep all", announced through a non-fatal warning.
func applySelection(sel *SelectionConfig, train, test *mat.Dense, score []float64) (*mat.Dense, *mat.Dense, error) {
	if sel == nil {
		return train, test, nil
	}

	if sel.NVox != nil {
		if sel.NVox.IsAll() {
			// The "all" token short-circuits the whole selection stage.
			return train, test, nil
		}

		_, cols := train.Dims()
		target, err := sel.NVox.TargetCount(cols)
		if err != nil {
			return nil, nil, err
		}

		if target > cols {
			errors.Warn(errors.NewSelectionOverflowWarning(target, cols))
		} else {
			keep := rankDescending(score)[:target]
			train = subsetColumns(train, keep)
			test = subsetColumns(test, keep)
			score = subsetScores(score, keep)
		}
	}

	if sel.CriticalValue != nil {
		cv := *sel.CriticalValue
		_, cols := train.Dims()

		var keep []int
		for j := 0; j < cols; j++ {
			if score[j] > cv {
				keep = append(keep, j)
			}
		}

		if len(keep) == cols || len(keep) == 0 {
			// All columns pass, or none do. Either way filtering would be a
			// no-op or an empty set; keep everything and say so.
			errors.Warn(errors.NewThresholdNoOpWarning(cv, len(keep), cols))
			return train, test, nil
		}

		train = subsetColumns(train, keep)
		test = subsetColumns(test, keep)
	}

	return train, test, nil
}
