package linear

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/bayeslm/core/model"
	"github.com/YuminosukeSato/bayeslm/metrics"
	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"github.com/YuminosukeSato/bayeslm/pkg/log"
	"gonum.org/v1/gonum/mat"
)

const olsModelName = "LinearRegression"

// olsFit は最小二乗法で推定した重み（先頭が切片）
type olsFit struct {
	weights *mat.VecDense
}

// LinearRegression は最小二乗法による線形回帰モデル
//
// サンプル数が増えるとベイズ線形回帰の事後平均はこの推定値に収束する。
type LinearRegression struct {
	state  *model.StateManager[olsFit]
	logger log.Logger
}

// NewLinearRegression は新しい線形回帰モデルを作成する。
// WithLogger 以外のオプションは無視される。
func NewLinearRegression(opts ...Option) *LinearRegression {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.GetLoggerWithName(olsModelName)
	}
	return &LinearRegression{
		state:  model.NewStateManager[olsFit](),
		logger: logger.With(log.ModelNameKey, olsModelName),
	}
}

// Fit はモデルを訓練データで学習させる
// 正規方程式ではなく X = QR 分解で最小二乗問題を解く
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	const op = "LinearRegression.Fit"
	defer errors.Recover(&err, op)
	start := time.Now()

	if X == nil || y == nil {
		return errors.NewValueError(op, "X and y are required")
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	yVec, err := columnVector(op, y, r)
	if err != nil {
		return err
	}
	if r < c+1 {
		return errors.NewValueError(op, fmt.Sprintf("need at least %d samples for %d features, got %d", c+1, c, r))
	}

	// 切片項のために X に 1 の列を追加
	XWithIntercept, err := AddIntercept(X)
	if err != nil {
		return err
	}

	var qr mat.QR
	qr.Factorize(XWithIntercept)
	if cond := qr.Cond(); cond > MaxCondition {
		return errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
	}

	weights := mat.NewVecDense(c+1, nil)
	if err := qr.SolveVecTo(weights, false, yVec); err != nil {
		return errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability(op, weights.RawVector().Data); err != nil {
		return err
	}

	// モデルを学習済み状態に設定
	lr.state.Store(&olsFit{weights: weights}, c, r)

	lr.logger.Debug("least squares fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	fit, nFeatures, err := lr.state.Require(olsModelName, "Predict")
	if err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValueError("LinearRegression.Predict", "X is required")
	}

	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", nFeatures, c, 1)
	}

	XWithIntercept, err := AddIntercept(X)
	if err != nil {
		return nil, err
	}

	// 予測: y = [1, X] * weights
	predictions := mat.NewDense(r, 1, nil)
	predictions.Mul(XWithIntercept, fit.weights)
	return predictions, nil
}

// Coef は学習された重み（係数）を返す
func (lr *LinearRegression) Coef() ([]float64, error) {
	fit, _, err := lr.state.Require(olsModelName, "Coef")
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), fit.weights.RawVector().Data[1:]...), nil
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() (float64, error) {
	fit, _, err := lr.state.Require(olsModelName, "Intercept")
	if err != nil {
		return 0, err
	}
	return fit.weights.AtVec(0), nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := yPred.Dims()
	yVec, err := columnVector("LinearRegression.Score", y, r)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yVec, mat.NewVecDense(r, mat.Col(nil, 0, yPred)))
}

// IsFitted はモデルが学習済みかどうかを返す
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

var _ model.Regressor = (*LinearRegression)(nil)
