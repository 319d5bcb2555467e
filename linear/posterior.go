package linear

import (
	"math"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	// WarnCondition is the condition number of the posterior precision above
	// which Fit emits an IllConditionedWarning.
	WarnCondition = 1e10

	// MaxCondition is the condition number above which the posterior
	// precision is treated as numerically singular.
	MaxCondition = 1e14
)

// Posterior is the Gaussian posterior over weights N(mean, covariance),
// intercept first. It is immutable: accessors return copies.
//
// covariance is always (αI + βXᵀX)⁻¹ for the design matrix X it was
// computed from.
type Posterior struct {
	mean       *mat.VecDense
	covariance *mat.SymDense
	alpha      float64
	beta       float64
	nSamples   int
	condition  float64
}

// ComputePosterior performs the conjugate update of the prior N(0, α⁻¹I)
// with n observations y = Xw + ε, ε ~ N(0, β⁻¹):
//
//	precision  = αI + βXᵀX
//	covariance = precision⁻¹
//	mean       = β · covariance · Xᵀy
//
// X is the intercept-augmented design matrix. Both the inverse and the mean
// come from one Cholesky factorization of the precision; the mean is a
// solve, not a product with the explicit inverse. Inputs are not modified.
func ComputePosterior(X *mat.Dense, y mat.Vector, alpha, beta float64) (*Posterior, error) {
	const op = "ComputePosterior"

	if err := validatePrecisions(alpha, beta); err != nil {
		return nil, err
	}
	if X == nil || y == nil {
		return nil, errors.NewValueError(op, "design matrix and targets are required")
	}
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return nil, errors.NewModelError(op, "empty design matrix", errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError(op, n, y.Len(), 0)
	}
	for i := 0; i < n; i++ {
		if v := y.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewValueError(op, "targets contain NaN or Inf")
		}
	}

	var post *Posterior
	err := errors.SafeExecute(op, func() error {
		var err error
		post, err = solvePosterior(op, X, y, alpha, beta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// solvePosterior は事後精度行列を作って Cholesky 分解し、平均と共分散を求める。
// gonum の形状エラーは panic になるので SafeExecute の中で呼ぶ。
func solvePosterior(op string, X *mat.Dense, y mat.Vector, alpha, beta float64) (*Posterior, error) {
	n, p := X.Dims()

	// precision = αI + βXᵀX
	precision := mat.NewSymDense(p, nil)
	precision.SymRankK(precision, beta, X.T())
	for i := 0; i < p; i++ {
		precision.SetSym(i, i, precision.At(i, i)+alpha)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(precision); !ok {
		return nil, errors.NewNumericalInstabilityError(op, "posterior precision is not positive definite", 0, nil)
	}
	cond := chol.Cond()
	if math.IsNaN(cond) || cond > MaxCondition {
		return nil, errors.NewNumericalInstabilityError(op, "posterior precision is numerically singular", cond, nil)
	}
	if cond > WarnCondition {
		errors.Warn(errors.NewIllConditionedWarning(op, cond, WarnCondition))
	}

	var covariance mat.SymDense
	if err := chol.InverseTo(&covariance); err != nil {
		return nil, errors.NewNumericalInstabilityError(op, "posterior covariance: "+err.Error(), cond, nil)
	}

	// mean = precision⁻¹ (βXᵀy)
	var xty mat.VecDense
	xty.MulVec(X.T(), y)
	xty.ScaleVec(beta, &xty)

	var mean mat.VecDense
	if err := chol.SolveVecTo(&mean, &xty); err != nil {
		return nil, errors.NewNumericalInstabilityError(op, "posterior mean: "+err.Error(), cond, nil)
	}

	if err := errors.CheckNumericalStability(op, mean.RawVector().Data); err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix(op, &covariance, p, p); err != nil {
		return nil, err
	}

	return &Posterior{
		mean:       &mean,
		covariance: &covariance,
		alpha:      alpha,
		beta:       beta,
		nSamples:   n,
		condition:  cond,
	}, nil
}

func validatePrecisions(alpha, beta float64) error {
	if !errors.IsPositiveFinite(alpha) {
		return errors.NewHyperparameterError("alpha", "must be positive and finite", alpha)
	}
	if !errors.IsPositiveFinite(beta) {
		return errors.NewHyperparameterError("beta", "must be positive and finite", beta)
	}
	return nil
}

// Dim returns the number of weights, intercept included.
func (p *Posterior) Dim() int {
	return p.mean.Len()
}

// Mean returns a copy of the posterior mean.
func (p *Posterior) Mean() []float64 {
	return append([]float64(nil), p.mean.RawVector().Data...)
}

// Covariance returns a copy of the posterior covariance.
func (p *Posterior) Covariance() *mat.SymDense {
	c := mat.NewSymDense(p.Dim(), nil)
	c.CopySym(p.covariance)
	return c
}

// WeightPrecision returns α.
func (p *Posterior) WeightPrecision() float64 { return p.alpha }

// NoisePrecision returns β.
func (p *Posterior) NoisePrecision() float64 { return p.beta }

// NSamples returns the number of observations the posterior was computed from.
func (p *Posterior) NSamples() int { return p.nSamples }

// Condition returns the condition number estimate of the posterior precision.
func (p *Posterior) Condition() float64 { return p.condition }

// Marginal returns the mean and variance of the marginal posterior of weight i.
// Index 0 is the intercept.
func (p *Posterior) Marginal(i int) (mean, variance float64, err error) {
	if i < 0 || i >= p.Dim() {
		return 0, 0, errors.NewValueError("Posterior.Marginal", "weight index out of range")
	}
	return p.mean.AtVec(i), p.covariance.At(i, i), nil
}

// PriorMarginal returns the marginal prior N(0, 1/α) of weight i.
func (p *Posterior) PriorMarginal(i int) (mean, variance float64, err error) {
	if i < 0 || i >= p.Dim() {
		return 0, 0, errors.NewValueError("Posterior.PriorMarginal", "weight index out of range")
	}
	return 0, 1 / p.alpha, nil
}

// maxMarginalVariance is logged after a fit.
func (p *Posterior) maxMarginalVariance() float64 {
	m := 0.0
	for i := 0; i < p.Dim(); i++ {
		m = math.Max(m, p.covariance.At(i, i))
	}
	return m
}
