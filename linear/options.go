package linear

import (
	"github.com/YuminosukeSato/bayeslm/pkg/log"
)

const (
	// DefaultWeightPrecision is the default prior precision α.
	DefaultWeightPrecision = 1.0

	// DefaultNoisePrecision is the default observation noise precision β.
	DefaultNoisePrecision = 1.0
)

// options holds construction-time settings shared by the estimators in this package.
type options struct {
	alpha   float64
	beta    float64
	seed    uint64
	hasSeed bool
	logger  log.Logger
}

func defaultOptions() options {
	return options{
		alpha: DefaultWeightPrecision,
		beta:  DefaultNoisePrecision,
	}
}

// Option is a function that configures an estimator
type Option func(*options)

// WithWeightPrecision sets the prior weight precision α
func WithWeightPrecision(alpha float64) Option {
	return func(o *options) {
		o.alpha = alpha
	}
}

// WithNoisePrecision sets the observation noise precision β
func WithNoisePrecision(beta float64) Option {
	return func(o *options) {
		o.beta = beta
	}
}

// WithRandomState seeds the source used by PredictSamples when the caller
// passes a nil source
func WithRandomState(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithLogger sets the logger. By default the global provider's logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
