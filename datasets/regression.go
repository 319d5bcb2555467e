// Package datasets generates seeded synthetic regression problems.
package datasets

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RegressionConfig describes a linear problem y = X·coef + bias + ε.
type RegressionConfig struct {
	// NSamples is the number of rows.
	NSamples int
	// NFeatures is the number of columns of X.
	NFeatures int
	// NInformative is the number of features with a non-zero coefficient.
	// Zero means all of them.
	NInformative int
	// Bias is the true intercept.
	Bias float64
	// Noise is the standard deviation of ε.
	Noise float64
	// Seed seeds the PCG source.
	Seed uint64
}

// DefaultRegressionConfig mirrors the demo setup: 50 samples, one feature, noise 0.3.
func DefaultRegressionConfig() RegressionConfig {
	return RegressionConfig{
		NSamples:  50,
		NFeatures: 1,
		Noise:     0.3,
		Seed:      42,
	}
}

// Regression is a generated problem together with the coefficients that produced it.
type Regression struct {
	X    *mat.Dense
	Y    *mat.Dense
	Coef []float64
	Bias float64
}

func (c RegressionConfig) validate() error {
	const op = "MakeRegression"
	if c.NSamples <= 0 {
		return errors.NewValueError(op, "NSamples must be positive")
	}
	if c.NFeatures <= 0 {
		return errors.NewValueError(op, "NFeatures must be positive")
	}
	if c.NInformative < 0 || c.NInformative > c.NFeatures {
		return errors.NewValueError(op, "NInformative must be in [0, NFeatures]")
	}
	if c.Noise < 0 {
		return errors.NewValueError(op, "Noise must be non-negative")
	}
	return nil
}

// MakeRegression draws X from a standard normal, informative coefficients
// from U(0, 100), and adds Gaussian noise. The same config always yields
// the same data.
func MakeRegression(cfg RegressionConfig) (*Regression, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	informative := cfg.NInformative
	if informative == 0 {
		informative = cfg.NFeatures
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	gauss := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	unif := distuv.Uniform{Min: 0, Max: 100, Src: src}

	X := mat.NewDense(cfg.NSamples, cfg.NFeatures, nil)
	for i := 0; i < cfg.NSamples; i++ {
		row := X.RawRowView(i)
		for j := range row {
			row[j] = gauss.Rand()
		}
	}

	coef := make([]float64, cfg.NFeatures)
	for j := 0; j < informative; j++ {
		coef[j] = unif.Rand()
	}

	y := mat.NewDense(cfg.NSamples, 1, nil)
	y.Mul(X, mat.NewVecDense(cfg.NFeatures, coef))
	for i := 0; i < cfg.NSamples; i++ {
		v := y.At(i, 0) + cfg.Bias
		if cfg.Noise > 0 {
			v += cfg.Noise * gauss.Rand()
		}
		y.Set(i, 0, v)
	}

	return &Regression{X: X, Y: y, Coef: coef, Bias: cfg.Bias}, nil
}

// TrainTestSplit returns the first nTrain rows as the training set and the
// rest as the test set, without shuffling.
func TrainTestSplit(X, y *mat.Dense, nTrain int) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	const op = "TrainTestSplit"
	r, c := X.Dims()
	ry, _ := y.Dims()
	if ry != r {
		return nil, nil, nil, nil, errors.NewDimensionError(op, r, ry, 0)
	}
	if nTrain <= 0 || nTrain >= r {
		return nil, nil, nil, nil, errors.NewValueError(op, "nTrain must leave at least one row on each side")
	}

	XTrain = mat.DenseCopyOf(X.Slice(0, nTrain, 0, c))
	XTest = mat.DenseCopyOf(X.Slice(nTrain, r, 0, c))
	yTrain = mat.DenseCopyOf(y.Slice(0, nTrain, 0, 1))
	yTest = mat.DenseCopyOf(y.Slice(nTrain, r, 0, 1))
	return XTrain, XTest, yTrain, yTest, nil
}
