// Package log defines standard attribute keys for estimator logging.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so records from different backends can be filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "BayesianLinearRegression", "LinearRegression", "StandardScaler"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "predict_std", "predict_samples", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of raw features (columns), without the intercept.
	FeaturesKey = "data.features"

	// AugmentedFeaturesKey indicates the design-matrix width including the intercept column.
	AugmentedFeaturesKey = "data.features_augmented"
)

// Performance and Quality
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// MSEKey records mean squared error on held-out data.
	MSEKey = "metrics.mse"

	// MeanStdKey records the average predictive standard deviation.
	MeanStdKey = "metrics.mean_std"

	// CoverageKey records the empirical coverage of a credible interval.
	CoverageKey = "metrics.coverage"
)

// Prediction Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"

	// PredSamplesKey indicates the number of posterior-predictive draws per test point.
	PredSamplesKey = "preds.samples"
)

// Posterior Diagnostics
const (
	// ConditionKey records the condition number estimate of the posterior precision.
	ConditionKey = "posterior.condition"

	// MaxWeightVarianceKey records the largest marginal posterior weight variance.
	MaxWeightVarianceKey = "posterior.max_weight_variance"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorKindKey carries the bayeslm error kind (invalid input, not fitted, ...).
	ErrorKindKey = "error.kind"
)

// Hyperparameters and Configuration
const (
	// AlphaKey records the prior weight precision.
	AlphaKey = "hyperparams.alpha"

	// BetaKey records the observation noise precision.
	BetaKey = "hyperparams.beta"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit            = "fit"
	OperationPredict        = "predict"
	OperationPredictStd     = "predict_std"
	OperationPredictSamples = "predict_samples"
	OperationTransform      = "transform"
	OperationScore          = "score"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"
	PhaseEvaluation    = "evaluation"

	ErrorNotFitted             = "NOT_FITTED"
	ErrorInvalidInput          = "INVALID_INPUT"
	ErrorInvalidHyperparameter = "INVALID_HYPERPARAMETER"
	ErrorNumericalInstability  = "NUMERICAL_INSTABILITY"
)
