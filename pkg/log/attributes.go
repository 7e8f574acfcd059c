// Package log defines standard attribute keys for decoding operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in gomvpa. Using these standard keys enables better
// log analysis, monitoring, and debugging of decoding pipelines that run the
// same computation over thousands of folds or searchlight neighborhoods.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
// These attributes identify the component and operation being performed.
const (
	// ModelNameKey identifies the type of component emitting the log.
	// Examples: "FeatureTransformer", "CorrelationClassifier", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the decoding operation being performed.
	// Standard values: "transform", "classify", "scale", "select"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "transform", "classify", "preprocessing"
	ComponentKey = "ml.component"

	// MethodKey names the active transform method.
	// Examples: "pca"
	MethodKey = "ml.method"

	// EstimationKey records the scaling estimation mode in effect.
	// Values: "all", "across", or the raw unrecognized token
	EstimationKey = "ml.estimation"
)

// Data Shape and Characteristics
// These attributes describe the structure of the matrices being processed.
const (
	// SamplesKey indicates the number of samples (rows) in a matrix.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in a matrix.
	// Important for dimensionality tracking and debugging shape mismatches.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct labels in a pool.
	ClassesKey = "data.classes"

	// SelectedKey indicates how many feature columns survived selection.
	SelectedKey = "data.selected"

	// TestSamplesKey indicates the number of test samples in a call.
	TestSamplesKey = "data.test_samples"
)

// Error Context
const (
	// WarningTypeKey names the warning type attached to a warn-level record.
	WarningTypeKey = "warning.type"
)
