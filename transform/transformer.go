package transform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/pkg/errors"
	"github.com/neurodecode/gomvpa/pkg/log"
	"github.com/neurodecode/gomvpa/preprocessing"
)

// FeatureTransformer orchestrates one transform call: optional scaling
// according to the estimation mode, dispatch to the configured Method, and
// score-based feature selection.
//
// A transformer holds no state between calls; every Transform is a pure
// function of its inputs, safe to run concurrently from many goroutines.
type FeatureTransformer struct{}

// NewFeatureTransformer returns a stateless transformer.
func NewFeatureTransformer() *FeatureTransformer {
	return &FeatureTransformer{}
}

// Transform re-expresses and prunes the feature columns of the paired
// train/test matrices. It returns the transformed matrices together with the
// applied configuration: cfg with any method-chosen parameters filled in.
//
// Fatal errors are limited to malformed configuration (an unresolvable
// method spec, an invalid selection value) and shape mismatches; everything
// numerically awkward degrades with a warning instead.
func (ft *FeatureTransformer) Transform(cfg Config, train, test mat.Matrix) (*mat.Dense, *mat.Dense, Config, error) {
	logger := log.GetLogger().With(log.ModelNameKey, "FeatureTransformer")

	rTr, c := train.Dims()
	rTe, cTe := test.Dims()
	if rTr == 0 || c == 0 {
		return nil, nil, cfg, errors.NewModelError("FeatureTransformer.Transform", "empty training data", errors.ErrEmptyData)
	}
	if cTe != c {
		return nil, nil, cfg, errors.NewDimensionError("FeatureTransformer.Transform", c, cTe, 1)
	}

	if cfg.Method.IsZero() {
		cfg.Method = ByName(MethodPCA)
	}
	method, err := cfg.Method.Resolve()
	if err != nil {
		return nil, nil, cfg, err
	}

	scaledTrain, scaledTest, err := scaleByEstimation(cfg, train, test)
	if err != nil {
		return nil, nil, cfg, err
	}

	applied, trainT, testT, score, err := method.Apply(cfg, scaledTrain, scaledTest)
	if err != nil {
		return nil, nil, cfg, err
	}

	// Contract checks on the method output before selection touches it.
	_, cT := trainT.Dims()
	_, cE := testT.Dims()
	if cE != cT {
		return nil, nil, applied, errors.NewDimensionError("FeatureTransformer.Transform", cT, cE, 1)
	}
	if len(score) != cT {
		return nil, nil, applied, errors.NewModelError("FeatureTransformer.Transform",
			"method returned a score per-column mismatch", errors.NewDimensionError("score", cT, len(score), 1))
	}

	trainT, testT, err = applySelection(cfg.Selection, trainT, testT, score)
	if err != nil {
		return nil, nil, applied, err
	}

	_, selected := trainT.Dims()
	logger.Debug("feature transform complete",
		log.OperationKey, "transform",
		log.MethodKey, cfg.Method.String(),
		log.EstimationKey, string(cfg.Estimation),
		log.SamplesKey, rTr,
		log.TestSamplesKey, rTe,
		log.FeaturesKey, c,
		log.SelectedKey, selected,
	)

	return trainT, testT, applied, nil
}

// Transform is a package-level convenience for one-shot calls.
func Transform(cfg Config, train, test mat.Matrix) (*mat.Dense, *mat.Dense, Config, error) {
	return NewFeatureTransformer().Transform(cfg, train, test)
}

// scaleByEstimation runs the scaling step for the recognized estimation
// modes and passes the matrices through untouched for anything else.
func scaleByEstimation(cfg Config, train, test mat.Matrix) (mat.Matrix, mat.Matrix, error) {
	switch cfg.Estimation {
	case EstimationAcross:
		rTr, c := train.Dims()
		rTe, _ := test.Dims()

		stacked := mat.NewDense(rTr+rTe, c, nil)
		for i := 0; i < rTr; i++ {
			for j := 0; j < c; j++ {
				stacked.Set(i, j, train.At(i, j))
			}
		}
		for i := 0; i < rTe; i++ {
			for j := 0; j < c; j++ {
				stacked.Set(rTr+i, j, test.At(i, j))
			}
		}

		scaled, err := preprocessing.Scale(cfg.Scaling, stacked)
		if err != nil {
			return nil, nil, err
		}
		dense := mat.DenseCopyOf(scaled)
		return dense.Slice(0, rTr, 0, c), dense.Slice(rTr, rTr+rTe, 0, c), nil

	case EstimationAll:
		scaled, err := preprocessing.Scale(cfg.Scaling, train)
		if err != nil {
			return nil, nil, err
		}
		// Under "all" estimation the test matrix is discarded here on
		// purpose; the zero placeholder keeps its shape flowing through the
		// method and the selection subsetting.
		rTe, c := test.Dims()
		return scaled, mat.NewDense(rTe, c, nil), nil

	default:
		return train, test, nil
	}
}
