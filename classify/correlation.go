// Package classify implements the correlation-based decoding classifier:
// class prototypes are built from the train and test pools, compared with
// Pearson correlation, stabilized with a Fisher z-transform, and the label
// with the highest z wins.
package classify

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/neurodecode/gomvpa/pkg/errors"
	"github.com/neurodecode/gomvpa/pkg/log"
)

// Model is the fitted input to a classification call: the training matrix
// and one label per training row. It is read-only and call-scoped; Classify
// neither mutates nor retains it.
type Model struct {
	X      mat.Matrix
	Labels []float64
}

// Diagnostics carries the informational outputs of a classification call.
type Diagnostics struct {
	// Correlation is the secondary diagnostic scalar r2: the correlation of
	// the concatenated first-two-class pairing. It never feeds prediction
	// and is NaN when either pool has fewer than two prototypes.
	Correlation float64

	// CorrelationMatrix is the Pearson r between test prototypes (rows) and
	// training prototypes (columns), after clamping.
	CorrelationMatrix *mat.Dense

	// ZMatrix is the Fisher z-transform of CorrelationMatrix.
	ZMatrix *mat.Dense
}

// Result is the output of one classification call. Prediction operates at
// class-prototype granularity: one row per distinct test label, not per raw
// test sample.
type Result struct {
	// Predicted holds one predicted training label per distinct test label,
	// in TestClasses order. NaN in the degenerate single-feature case.
	Predicted []float64

	// DecisionValues has one row per distinct test label and one column per
	// unordered pair of distinct training labels, enumerated
	// lexicographically over TrainClasses; the values are signed Fisher-z
	// differences. nil when there are fewer than two training classes.
	DecisionValues *mat.Dense

	// TrainClasses is the sorted set of distinct training labels: the
	// canonical class ordering used by every output column.
	TrainClasses []float64

	// TestClasses is the sorted set of distinct test labels: the row
	// ordering of every output.
	TestClasses []float64

	Diagnostics Diagnostics
}

// Correlations whose magnitude reaches 1 within this tolerance are clamped
// to ±corrClampValue so atanh stays finite.
const (
	corrClampTol   = 1e-12
	corrClampValue = 0.99999
)

// Classify predicts one training label per distinct test label by comparing
// class prototypes with Pearson correlation and Fisher z values.
//
// Numerically extreme input never fails: near-unity correlations are
// clamped, and a single-feature space degrades to NaN-filled outputs of the
// documented shapes. Both degradations emit a non-fatal warning, so a
// searchlight driver can run thousands of calls without one bad
// neighborhood aborting the batch. Fatal errors are reserved for malformed
// input shapes.
func Classify(testLabels []float64, testX mat.Matrix, m Model) (res *Result, err error) {
	defer errors.Recover(&err, "classify.Classify")

	const op = "CorrelationClassifier.Classify"

	rTe, c := testX.Dims()
	rTr, cTr := m.X.Dims()
	if rTr == 0 || cTr == 0 {
		return nil, errors.NewModelError(op, "empty training data", errors.ErrEmptyData)
	}
	if rTe == 0 {
		return nil, errors.NewModelError(op, "empty test data", errors.ErrEmptyData)
	}
	if c != cTr {
		return nil, errors.NewDimensionError(op, cTr, c, 1)
	}
	if len(m.Labels) != rTr {
		return nil, errors.NewDimensionError(op, rTr, len(m.Labels), 0)
	}
	if len(testLabels) != rTe {
		return nil, errors.NewDimensionError(op, rTe, len(testLabels), 0)
	}

	trainClasses := sortedUnique(m.Labels)
	testClasses := sortedUnique(testLabels)
	nTrainClasses := len(trainClasses)
	nTestClasses := len(testClasses)
	nPairs := nTrainClasses * (nTrainClasses - 1) / 2

	trainProto := prototypes(m.X, m.Labels, trainClasses)
	testProto := prototypes(testX, testLabels, testClasses)

	// Prototypes are plain sums. When the pools have different sizes each
	// pool is normalized by its own sample count; equal pools skip the
	// division to avoid pointless floating-point noise.
	if rTr != rTe {
		trainProto.Scale(1/float64(rTr), trainProto)
		testProto.Scale(1/float64(rTe), testProto)
	}

	logger := log.GetLogger().With(log.ModelNameKey, "CorrelationClassifier")

	if c == 1 {
		// A single feature column leaves correlation undefined. Terminal,
		// not an error: NaN outputs of the documented shapes.
		errors.Warn(errors.NewDegenerateFeatureWarning(op, c))
		return nanResult(trainClasses, testClasses, nPairs), nil
	}

	r := mat.NewDense(nTestClasses, nTrainClasses, nil)
	for t := 0; t < nTestClasses; t++ {
		for k := 0; k < nTrainClasses; k++ {
			r.Set(t, k, stat.Correlation(mat.Row(nil, t, testProto), mat.Row(nil, k, trainProto), nil))
		}
	}

	r2 := diagnosticCorrelation(trainProto, testProto)

	clamped := 0
	r.Apply(func(_, _ int, v float64) float64 {
		if math.Abs(v) >= 1-corrClampTol {
			clamped++
			return math.Copysign(corrClampValue, v)
		}
		return v
	}, r)
	if clamped > 0 {
		errors.Warn(errors.NewCorrelationClampWarning(nTestClasses, nTrainClasses, clamped))
	}

	z := mat.NewDense(nTestClasses, nTrainClasses, nil)
	z.Apply(func(_, _ int, v float64) float64 { return math.Atanh(v) }, r)

	var dv *mat.Dense
	if nPairs > 0 {
		dv = mat.NewDense(nTestClasses, nPairs, nil)
		p := 0
		for i := 0; i < nTrainClasses; i++ {
			for j := i + 1; j < nTrainClasses; j++ {
				for t := 0; t < nTestClasses; t++ {
					dv.Set(t, p, z.At(t, i)-z.At(t, j))
				}
				p++
			}
		}
	}

	predicted := make([]float64, nTestClasses)
	for t := 0; t < nTestClasses; t++ {
		predicted[t] = trainClasses[argmax(z.RawRowView(t))]
	}

	logger.Debug("classification complete",
		log.OperationKey, "classify",
		log.SamplesKey, rTr,
		log.TestSamplesKey, rTe,
		log.FeaturesKey, c,
		log.ClassesKey, nTrainClasses,
	)

	return &Result{
		Predicted:      predicted,
		DecisionValues: dv,
		TrainClasses:   trainClasses,
		TestClasses:    testClasses,
		Diagnostics: Diagnostics{
			Correlation:       r2,
			CorrelationMatrix: r,
			ZMatrix:           z,
		},
	}, nil
}

// sortedUnique returns the sorted set of distinct values in labels.
func sortedUnique(labels []float64) []float64 {
	seen := make(map[float64]struct{}, len(labels))
	out := make([]float64, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Float64s(out)
	return out
}

// prototypes sums the same-label rows of X into one row per class, in
// classes order.
func prototypes(X mat.Matrix, labels []float64, classes []float64) *mat.Dense {
	_, c := X.Dims()
	classIdx := make(map[float64]int, len(classes))
	for i, cl := range classes {
		classIdx[cl] = i
	}

	proto := mat.NewDense(len(classes), c, nil)
	for i, l := range labels {
		k := classIdx[l]
		for j := 0; j < c; j++ {
			proto.Set(k, j, proto.At(k, j)+X.At(i, j))
		}
	}
	return proto
}

// diagnosticCorrelation computes the informational r2 scalar: the
// correlation between concat(trainProto1, testProto1) and
// concat(trainProto2, testProto2). When that pairing is trivially perfect
// (the first two classes coincide under it), the train1-vs-test2
// correlation is reported instead so the diagnostic stays informative.
func diagnosticCorrelation(trainProto, testProto *mat.Dense) float64 {
	kTrain, _ := trainProto.Dims()
	kTest, _ := testProto.Dims()
	if kTrain < 2 || kTest < 2 {
		return math.NaN()
	}

	a := append(mat.Row(nil, 0, trainProto), mat.Row(nil, 0, testProto)...)
	b := append(mat.Row(nil, 1, trainProto), mat.Row(nil, 1, testProto)...)
	r2 := stat.Correlation(a, b, nil)
	if r2 >= 1-corrClampTol {
		r2 = stat.Correlation(mat.Row(nil, 0, trainProto), mat.Row(nil, 1, testProto), nil)
	}
	return r2
}

// nanResult builds the degenerate single-feature output: every matrix and
// prediction is NaN, shapes as documented on Result.
func nanResult(trainClasses, testClasses []float64, nPairs int) *Result {
	nan := math.NaN()
	fill := func(m *mat.Dense) *mat.Dense {
		m.Apply(func(_, _ int, _ float64) float64 { return nan }, m)
		return m
	}

	nTest, nTrain := len(testClasses), len(trainClasses)
	predicted := make([]float64, nTest)
	for i := range predicted {
		predicted[i] = nan
	}

	var dv *mat.Dense
	if nPairs > 0 {
		dv = fill(mat.NewDense(nTest, nPairs, nil))
	}

	return &Result{
		Predicted:      predicted,
		DecisionValues: dv,
		TrainClasses:   trainClasses,
		TestClasses:    testClasses,
		Diagnostics: Diagnostics{
			Correlation:       nan,
			CorrelationMatrix: fill(mat.NewDense(nTest, nTrain, nil)),
			ZMatrix:           fill(mat.NewDense(nTest, nTrain, nil)),
		},
	}
}

// argmax returns the index of the row maximum; ties keep the first index,
// which is the canonical class order. An all-NaN row resolves to 0.
func argmax(row []float64) int {
	best := 0
	bestV := math.Inf(-1)
	for i, v := range row {
		if v > bestV {
			best = i
			bestV = v
		}
	}
	return best
}
