// Package gomvpa provides the decoding core of a multivariate pattern
// analysis (MVPA) pipeline: a pluggable, scored feature transformation and
// selection stage, and a correlation-based classifier that compares class
// prototypes through Pearson correlation and a Fisher z-transform.
//
// The library is built for callers that run the same small computation many
// times over independent cross-validation folds or searchlight
// neighborhoods: every operation is a pure, reentrant function of its
// inputs, numerically extreme cases degrade to warnings instead of errors,
// and nothing blocks or retains caller-owned matrices.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "gonum.org/v1/gonum/mat"
//
//	    "github.com/neurodecode/gomvpa/classify"
//	    "github.com/neurodecode/gomvpa/transform"
//	)
//
//	func main() {
//	    train := mat.NewDense(4, 3, []float64{
//	        1, 0, 0,
//	        1, 0.1, 0,
//	        0, 1, 0,
//	        0, 1, 0.1,
//	    })
//	    test := mat.NewDense(2, 3, []float64{
//	        1, 0, 0,
//	        0, 1, 0,
//	    })
//
//	    cfg := transform.Config{
//	        Method:     transform.ByName(transform.MethodPCA),
//	        Estimation: transform.EstimationAcross,
//	    }
//	    trainT, testT, _, err := transform.Transform(cfg, train, test)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    res, err := classify.Classify(
//	        []float64{1, 2}, testT,
//	        classify.Model{X: trainT, Labels: []float64{1, 1, 2, 2}},
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Predicted)
//	}
//
// # Packages
//
//   - transform: feature scaling, the Method plug-in contract with its
//     registry, the PCA default, and score-based selection
//   - classify: the correlation classifier
//   - preprocessing: standard and min-max scalers
//   - metrics: accuracy and confusion matrices for decoding results
//   - pkg/errors, pkg/log: structured errors, warnings and logging
package gomvpa
