package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// stubMethod echoes its inputs and reports a fixed score vector, which lets
// the selection tests control the ranking exactly. It also doubles as the
// capability-object dispatch path.
type stubMethod struct {
	score []float64
}

func (s stubMethod) Apply(cfg Config, train, test mat.Matrix) (Config, *mat.Dense, *mat.Dense, []float64, error) {
	return cfg, mat.DenseCopyOf(train), mat.DenseCopyOf(test), append([]float64(nil), s.score...), nil
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return &warnings
}

func testMatrices() (*mat.Dense, *mat.Dense) {
	train := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	test := mat.NewDense(2, 4, []float64{
		13, 14, 15, 16,
		17, 18, 19, 20,
	})
	return train, test
}

func TestFractionalSelectionKeepsTopScores(t *testing.T) {
	warnings := captureWarnings(t)
	train, test := testMatrices()

	half := NVoxFraction(0.5)
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{0.1, 0.9, 0.3, 0.8}}),
		Selection: &SelectionConfig{NVox: &half},
	}

	trainT, testT, _, err := Transform(cfg, train, test)
	require.NoError(t, err)
	require.Empty(t, *warnings)

	// ceil(0.5 * 4) = 2 columns, ranked by descending score: original
	// columns 1 then 3.
	_, cols := trainT.Dims()
	require.Equal(t, 2, cols)
	assert.Equal(t, []float64{2, 6, 10}, mat.Col(nil, 0, trainT))
	assert.Equal(t, []float64{4, 8, 12}, mat.Col(nil, 1, trainT))
	assert.Equal(t, []float64{14, 18}, mat.Col(nil, 0, testT))
	assert.Equal(t, []float64{16, 20}, mat.Col(nil, 1, testT))
}

func TestFractionalSelectionStableTieBreak(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	half := NVoxFraction(0.5)
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{0.5, 0.5, 0.5, 0.9}}),
		Selection: &SelectionConfig{NVox: &half},
	}

	trainT, _, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	// Column 3 wins outright; the 0.5 tie resolves to the earliest index.
	assert.Equal(t, []float64{4, 8, 12}, mat.Col(nil, 0, trainT))
	assert.Equal(t, []float64{1, 5, 9}, mat.Col(nil, 1, trainT))
}

func TestCountSelectionOverflowKeepsAll(t *testing.T) {
	warnings := captureWarnings(t)
	train, test := testMatrices()

	ten := NVoxCount(10)
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{1, 2, 3, 4}}),
		Selection: &SelectionConfig{NVox: &ten},
	}

	trainT, testT, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	_, cols := trainT.Dims()
	assert.Equal(t, 4, cols)
	_, cols = testT.Dims()
	assert.Equal(t, 4, cols)

	require.Len(t, *warnings, 1)
	var overflow *errors.SelectionOverflowWarning
	require.ErrorAs(t, (*warnings)[0], &overflow)
	assert.Equal(t, 10, overflow.Requested)
	assert.Equal(t, 4, overflow.Available)
}

func TestCriticalValueSelection(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	cv := 0.5
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{0.1, 0.9, 0.3, 0.8}}),
		Selection: &SelectionConfig{CriticalValue: &cv},
	}

	trainT, testT, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	// Only scores 0.9 and 0.8 are strictly greater than 0.5; the survivors
	// keep their original column order.
	assert.Equal(t, []float64{2, 6, 10}, mat.Col(nil, 0, trainT))
	assert.Equal(t, []float64{4, 8, 12}, mat.Col(nil, 1, trainT))
	assert.Equal(t, []float64{14, 18}, mat.Col(nil, 0, testT))
}

func TestCriticalValueAllPassIsNoOpWithWarning(t *testing.T) {
	warnings := captureWarnings(t)
	train, test := testMatrices()

	cv := 0.0
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{0.1, 0.9, 0.3, 0.8}}),
		Selection: &SelectionConfig{CriticalValue: &cv},
	}

	trainT, _, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	_, cols := trainT.Dims()
	assert.Equal(t, 4, cols)

	require.Len(t, *warnings, 1)
	var noop *errors.ThresholdNoOpWarning
	require.ErrorAs(t, (*warnings)[0], &noop)
	assert.Equal(t, 4, noop.Survivors)
}

func TestCriticalValueNonePassKeepsAllWithWarning(t *testing.T) {
	warnings := captureWarnings(t)
	train, test := testMatrices()

	cv := 5.0
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{0.1, 0.9, 0.3, 0.8}}),
		Selection: &SelectionConfig{CriticalValue: &cv},
	}

	trainT, _, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	_, cols := trainT.Dims()
	assert.Equal(t, 4, cols)

	require.Len(t, *warnings, 1)
	var noop *errors.ThresholdNoOpWarning
	require.ErrorAs(t, (*warnings)[0], &noop)
	assert.Equal(t, 0, noop.Survivors)
}

func TestCountThenCriticalValueRunInSequence(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	three := NVoxCount(3)
	cv := 0.5
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{0.1, 0.9, 0.3, 0.8}}),
		Selection: &SelectionConfig{NVox: &three, CriticalValue: &cv},
	}

	trainT, _, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	// Count selection keeps columns 1, 3, 2 (scores 0.9, 0.8, 0.3); the
	// threshold then drops the 0.3 column.
	_, cols := trainT.Dims()
	require.Equal(t, 2, cols)
	assert.Equal(t, []float64{2, 6, 10}, mat.Col(nil, 0, trainT))
	assert.Equal(t, []float64{4, 8, 12}, mat.Col(nil, 1, trainT))
}

func TestNVoxAllSkipsSelection(t *testing.T) {
	warnings := captureWarnings(t)
	train, test := testMatrices()

	all := NVoxAll()
	cv := 5.0 // would otherwise warn
	cfg := Config{
		Method:    ByObject(stubMethod{score: []float64{0.1, 0.9, 0.3, 0.8}}),
		Selection: &SelectionConfig{NVox: &all, CriticalValue: &cv},
	}

	trainT, _, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	_, cols := trainT.Dims()
	assert.Equal(t, 4, cols)
	assert.Empty(t, *warnings)
}

func TestPassThroughIsNumericallyIdentity(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	cfg := Config{
		Method:     ByName(MethodNone),
		Estimation: Estimation("zscore-later"), // unrecognized: scaling skipped
	}

	trainT, testT, _, err := Transform(cfg, train, test)
	require.NoError(t, err)
	assert.True(t, mat.Equal(train, trainT))
	assert.True(t, mat.Equal(test, testT))
}

func TestEstimationAllZeroesTestPlaceholder(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	cfg := Config{
		Method:     ByObject(stubMethod{score: []float64{1, 1, 1, 1}}),
		Estimation: EstimationAll,
	}

	trainT, testT, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	// Train is standard scaled; the test matrix is discarded and replaced
	// by a same-shaped zero placeholder.
	r, c := testT.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 4, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Zero(t, testT.At(i, j))
		}
	}

	// Columns of the scaled train matrix have zero mean.
	rT, _ := trainT.Dims()
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < rT; i++ {
			sum += trainT.At(i, j)
		}
		assert.InDelta(t, 0, sum/float64(rT), 1e-12)
	}
}

func TestEstimationAcrossScalesCombinedBlock(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	cfg := Config{
		Method:     ByObject(stubMethod{score: []float64{1, 1, 1, 1}}),
		Estimation: EstimationAcross,
	}

	trainT, testT, _, err := Transform(cfg, train, test)
	require.NoError(t, err)

	// The stacked block was scaled as one unit, so the pooled column means
	// are zero while the train columns alone are not.
	rTr, c := trainT.Dims()
	rTe, _ := testT.Dims()
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < rTr; i++ {
			sum += trainT.At(i, j)
		}
		trainSum := sum
		for i := 0; i < rTe; i++ {
			sum += testT.At(i, j)
		}
		assert.InDelta(t, 0, sum/float64(rTr+rTe), 1e-12)
		assert.Negative(t, trainSum)
	}
}

func TestRegistryAndObjectDispatchAgree(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	byName, _, _, err := Transform(Config{Method: ByName(MethodNone)}, train, test)
	require.NoError(t, err)
	byObject, _, _, err := Transform(Config{Method: ByObject(NewIdentity())}, train, test)
	require.NoError(t, err)

	assert.True(t, mat.Equal(byName, byObject))
}

func TestUnresolvableMethodIsFatal(t *testing.T) {
	train, test := testMatrices()

	_, _, _, err := Transform(Config{Method: ByName("searchlight-magic")}, train, test)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownMethod))
}

func TestZeroMethodSpecDefaultsToPCA(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	_, _, applied, err := Transform(Config{}, train, test)
	require.NoError(t, err)
	assert.Equal(t, MethodPCA, applied.Method.String())
}

func TestColumnMismatchIsFatal(t *testing.T) {
	train := mat.NewDense(2, 3, nil)
	test := mat.NewDense(2, 2, nil)

	_, _, _, err := Transform(Config{Method: ByName(MethodNone)}, train, test)
	require.Error(t, err)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))
}

func TestPCAScoresAreDescendingVariances(t *testing.T) {
	captureWarnings(t)

	// Nearly all variance lives on the first axis.
	train := mat.NewDense(4, 3, []float64{
		10, 0.1, 0,
		-10, -0.1, 0,
		9, 0.1, 0,
		-9, -0.1, 0,
	})
	test := mat.NewDense(2, 3, []float64{
		8, 0, 0,
		-8, 0, 0,
	})

	pca := NewPCA()
	applied, trainT, testT, score, err := pca.Apply(Config{}, train, test)
	require.NoError(t, err)

	_, k := trainT.Dims()
	require.Equal(t, 3, k)
	require.Len(t, score, k)
	assert.Equal(t, 3, applied.NComponents)

	for i := 1; i < len(score); i++ {
		assert.GreaterOrEqual(t, score[i-1], score[i])
	}
	assert.Greater(t, score[0], 100.0)

	_, kTest := testT.Dims()
	assert.Equal(t, k, kTest)
}

func TestPCAComponentCap(t *testing.T) {
	captureWarnings(t)
	train, test := testMatrices()

	applied, trainT, testT, score, err := NewPCA().Apply(Config{NComponents: 2}, train, test)
	require.NoError(t, err)

	_, k := trainT.Dims()
	assert.Equal(t, 2, k)
	_, k = testT.Dims()
	assert.Equal(t, 2, k)
	assert.Len(t, score, 2)
	assert.Equal(t, 2, applied.NComponents)
}

func TestMethodScoreContractViolation(t *testing.T) {
	train, test := testMatrices()

	cfg := Config{Method: ByObject(stubMethod{score: []float64{1, 2}})} // 2 scores for 4 columns
	_, _, _, err := Transform(cfg, train, test)
	require.Error(t, err)
}

func TestParseNVoxToken(t *testing.T) {
	v, err := ParseNVoxToken("all")
	require.NoError(t, err)
	assert.True(t, v.IsAll())

	_, err = ParseNVoxToken("half")
	require.Error(t, err)
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestNVoxTargetCount(t *testing.T) {
	n, err := NVoxFraction(0.5).TargetCount(5)
	require.NoError(t, err)
	assert.Equal(t, 3, n) // ceil(2.5)

	n, err = NVoxCount(7).TargetCount(5)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = NVoxCount(-1).TargetCount(5)
	require.Error(t, err)
}
