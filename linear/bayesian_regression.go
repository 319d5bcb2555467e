package linear

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/YuminosukeSato/bayeslm/core/model"
	"github.com/YuminosukeSato/bayeslm/metrics"
	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"github.com/YuminosukeSato/bayeslm/pkg/log"
	"gonum.org/v1/gonum/mat"
)

const (
	bayesModelName   = "BayesianLinearRegression"
	weightsFormatVer = "1.0.0"
)

// BayesianLinearRegression はガウス事前分布 N(0, α⁻¹I) とガウスノイズ N(0, β⁻¹)
// を仮定した閉形式のベイズ線形回帰
//
// Fit は事後分布 N(m, Σ) を計算して保存し、以降の予測はその事後分布だけを読む。
// 再学習は事後分布を丸ごと置き換える。失敗した Fit は以前の状態を変更しない。
// 学習後のインスタンスは複数のゴルーチンから同時に予測に使える。
type BayesianLinearRegression struct {
	state *model.StateManager[Posterior]

	alpha   float64
	beta    float64
	seed    uint64
	hasSeed bool

	rng    *lockedSource
	logger log.Logger
}

// NewBayesianLinearRegression は新しいベイズ線形回帰モデルを作成する
//
// ハイパーパラメータは作成後に変更できない。不正な値は Fit 時に
// InvalidHyperparameter として報告される。
//
// 使用例:
//
//	m := linear.NewBayesianLinearRegression(
//	    linear.WithWeightPrecision(2),
//	    linear.WithNoisePrecision(25),
//	    linear.WithRandomState(42),
//	)
func NewBayesianLinearRegression(opts ...Option) *BayesianLinearRegression {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.GetLoggerWithName(bayesModelName)
	}

	return &BayesianLinearRegression{
		state:   model.NewStateManager[Posterior](),
		alpha:   o.alpha,
		beta:    o.beta,
		seed:    o.seed,
		hasSeed: o.hasSeed,
		rng:     newLockedSource(o.seed, o.hasSeed),
		logger:  logger.With(log.ModelNameKey, bayesModelName),
	}
}

// Fit はモデルを訓練データで学習させる
//
// X は n×d の特徴量行列、y は n×1 の目的変数。切片列は内部で追加される。
func (b *BayesianLinearRegression) Fit(X, y mat.Matrix) (err error) {
	const op = "BayesianLinearRegression.Fit"
	defer errors.Recover(&err, op)

	start := time.Now()
	logger := b.logger.With(log.OperationKey, log.OperationFit, log.PhaseKey, log.PhaseTraining)

	post, nFeatures, err := b.computePosterior(op, X, y)
	if err != nil {
		logger.Error("fit failed", err)
		return err
	}

	b.state.Store(post, nFeatures, post.NSamples())

	logger.Debug("posterior updated",
		log.SamplesKey, post.NSamples(),
		log.FeaturesKey, nFeatures,
		log.AugmentedFeaturesKey, post.Dim(),
		log.AlphaKey, b.alpha,
		log.BetaKey, b.beta,
		log.ConditionKey, post.Condition(),
		log.MaxWeightVarianceKey, post.maxMarginalVariance(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (b *BayesianLinearRegression) computePosterior(op string, X, y mat.Matrix) (*Posterior, int, error) {
	if err := validatePrecisions(b.alpha, b.beta); err != nil {
		return nil, 0, err
	}
	if X == nil || y == nil {
		return nil, 0, errors.NewValueError(op, "X and y are required")
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	yVec, err := columnVector(op, y, r)
	if err != nil {
		return nil, 0, err
	}

	Xa, err := AddIntercept(X)
	if err != nil {
		return nil, 0, err
	}

	post, err := ComputePosterior(Xa, yVec, b.alpha, b.beta)
	if err != nil {
		return nil, 0, err
	}
	return post, c, nil
}

// prepare は学習済みの事後分布と切片付きのテスト行列を返す
func (b *BayesianLinearRegression) prepare(method string, X mat.Matrix) (*Posterior, *mat.Dense, error) {
	post, nFeatures, err := b.state.Require(bayesModelName, method)
	if err != nil {
		return nil, nil, err
	}

	op := bayesModelName + "." + method
	if X == nil {
		return nil, nil, errors.NewValueError(op, "X is required")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, nil, errors.NewValueError(op, "X has no rows")
	}
	if c != nFeatures {
		return nil, nil, errors.NewDimensionError(op, nFeatures, c, 1)
	}

	Xa, err := AddIntercept(X)
	if err != nil {
		return nil, nil, err
	}
	return post, Xa, nil
}

// Predict は事後平均による点予測（n×1）を返す
func (b *BayesianLinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	post, Xa, err := b.prepare("Predict", X)
	if err != nil {
		return nil, err
	}

	mean := post.predictMean(Xa)
	r, _ := Xa.Dims()
	return mat.NewDense(r, 1, mean.RawVector().Data), nil
}

// PredictWithStd は予測平均と予測標準偏差 sqrt(1/β + x Σ xᵀ) を返す
func (b *BayesianLinearRegression) PredictWithStd(X mat.Matrix) (mean, std *mat.VecDense, err error) {
	dist, err := b.predictDistribution("PredictWithStd", X)
	if err != nil {
		return nil, nil, err
	}
	s := dist.Std()
	return mat.NewVecDense(len(dist.Mean), dist.Mean), mat.NewVecDense(len(s), s), nil
}

// PredictDistribution は予測分散を認識論的な項と偶然的な項に分けて返す
func (b *BayesianLinearRegression) PredictDistribution(X mat.Matrix) (*PredictiveDistribution, error) {
	return b.predictDistribution("PredictDistribution", X)
}

func (b *BayesianLinearRegression) predictDistribution(method string, X mat.Matrix) (*PredictiveDistribution, error) {
	post, Xa, err := b.prepare(method, X)
	if err != nil {
		return nil, err
	}

	dist := post.predictive(Xa)
	b.logger.Debug("predictive distribution",
		log.OperationKey, log.OperationPredictStd,
		log.PredsKey, dist.Len(),
	)
	return dist, nil
}

// PredictSamples は事後予測分布から nSamples 本のサンプルを生成する
//
// 戻り値は n_test × nSamples の行列。列 j は同じ重みベクトルを全行で共有する
// 1本の回帰直線で、列同士は独立。src が nil の場合は WithRandomState で
// シードされたモデル自身のソースを使う。
func (b *BayesianLinearRegression) PredictSamples(X mat.Matrix, nSamples int, src rand.Source) (*mat.Dense, error) {
	post, Xa, err := b.prepare("PredictSamples", X)
	if err != nil {
		return nil, err
	}
	if nSamples <= 0 {
		return nil, errors.NewValueError(bayesModelName+".PredictSamples", "nSamples must be positive")
	}
	if src == nil {
		src = b.rng
	}

	samples, err := post.sample(Xa, nSamples, src)
	if err != nil {
		return nil, err
	}

	r, _ := Xa.Dims()
	b.logger.Debug("posterior predictive samples drawn",
		log.OperationKey, log.OperationPredictSamples,
		log.PredsKey, r,
		log.PredSamplesKey, nSamples,
	)
	return samples, nil
}

// Score は事後平均による予測の決定係数（R²）を計算する
func (b *BayesianLinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := b.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := yPred.Dims()
	yVec, err := columnVector(bayesModelName+".Score", y, r)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yVec, mat.NewVecDense(r, mat.Col(nil, 0, yPred)))
}

// MarginalWeightDistribution は重み i の周辺事後分布 N(mean, variance) を返す。
// i = 0 は切片。
func (b *BayesianLinearRegression) MarginalWeightDistribution(i int) (mean, variance float64, err error) {
	post, _, err := b.state.Require(bayesModelName, "MarginalWeightDistribution")
	if err != nil {
		return 0, 0, err
	}
	return post.Marginal(i)
}

// PriorWeightDistribution は重み i の周辺事前分布 N(0, 1/α) を返す
func (b *BayesianLinearRegression) PriorWeightDistribution(i int) (mean, variance float64, err error) {
	post, _, err := b.state.Require(bayesModelName, "PriorWeightDistribution")
	if err != nil {
		return 0, 0, err
	}
	return post.PriorMarginal(i)
}

// Posterior は現在の事後分布を返す。未学習なら NotFitted。
func (b *BayesianLinearRegression) Posterior() (*Posterior, error) {
	post, _, err := b.state.Require(bayesModelName, "Posterior")
	return post, err
}

// Intercept は切片の事後平均を返す
func (b *BayesianLinearRegression) Intercept() (float64, error) {
	post, _, err := b.state.Require(bayesModelName, "Intercept")
	if err != nil {
		return 0, err
	}
	return post.mean.AtVec(0), nil
}

// Coef は特徴量の係数の事後平均を返す（切片は含まない）
func (b *BayesianLinearRegression) Coef() ([]float64, error) {
	post, _, err := b.state.Require(bayesModelName, "Coef")
	if err != nil {
		return nil, err
	}
	return post.Mean()[1:], nil
}

// IsFitted はモデルが学習済みかどうかを返す
func (b *BayesianLinearRegression) IsFitted() bool {
	return b.state.IsFitted()
}

// GetParams はハイパーパラメータを返す
func (b *BayesianLinearRegression) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"alpha": b.alpha,
		"beta":  b.beta,
	}
	if b.hasSeed {
		params["random_state"] = b.seed
	}
	return params
}

// String はモデルの文字列表現を返す
func (b *BayesianLinearRegression) String() string {
	st := b.state.GetState()
	if !st.Fitted {
		return fmt.Sprintf("BayesianLinearRegression(alpha=%g, beta=%g, fitted=false)", b.alpha, b.beta)
	}
	return fmt.Sprintf("BayesianLinearRegression(alpha=%g, beta=%g, n_features=%d, n_samples=%d)",
		b.alpha, b.beta, st.NFeatures, st.NSamples)
}

// Clone は同じハイパーパラメータと事後分布を持つ新しいモデルを返す
//
// 事後分布は不変なので共有する。乱数ソースはシードから作り直す。
func (b *BayesianLinearRegression) Clone() *BayesianLinearRegression {
	clone := &BayesianLinearRegression{
		state:   model.NewStateManager[Posterior](),
		alpha:   b.alpha,
		beta:    b.beta,
		seed:    b.seed,
		hasSeed: b.hasSeed,
		rng:     newLockedSource(b.seed, b.hasSeed),
		logger:  b.logger,
	}
	post, nFeatures := b.state.Snapshot()
	if post != nil {
		clone.state.Store(post, nFeatures, post.NSamples())
	}
	return clone
}

// ExportWeights は事後分布をシリアライズ可能な形式で返す
func (b *BayesianLinearRegression) ExportWeights() (*model.PosteriorWeights, error) {
	post, _, err := b.state.Require(bayesModelName, "ExportWeights")
	if err != nil {
		return nil, err
	}

	dim := post.Dim()
	cov := make([]float64, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			cov[i*dim+j] = post.covariance.At(i, j)
		}
	}

	pw := &model.PosteriorWeights{
		ModelType:       bayesModelName,
		Version:         weightsFormatVer,
		Dim:             dim,
		Mean:            post.Mean(),
		Covariance:      cov,
		WeightPrecision: post.alpha,
		NoisePrecision:  post.beta,
		NSamples:        post.nSamples,
	}
	pw.Checksum = pw.ComputeChecksum()
	return pw, nil
}

// ImportWeights はエクスポートされた事後分布を読み込み、学習済み状態にする
//
// α と β はこのモデルのハイパーパラメータと一致している必要がある。
// 共分散は正定値でなければならない。失敗した場合、現在の状態は変わらない。
func (b *BayesianLinearRegression) ImportWeights(pw *model.PosteriorWeights) error {
	const op = "BayesianLinearRegression.ImportWeights"

	if pw == nil {
		return errors.NewValueError(op, "weights are nil")
	}
	if err := pw.Validate(); err != nil {
		return errors.Wrap(err, op)
	}
	if pw.Dim < 2 {
		return errors.NewValueError(op, "weights must include the intercept and at least one coefficient")
	}
	if pw.ModelType != bayesModelName {
		return errors.NewValueError(op, fmt.Sprintf("model type mismatch: expected %s, got %s", bayesModelName, pw.ModelType))
	}
	if pw.WeightPrecision != b.alpha || pw.NoisePrecision != b.beta {
		return errors.NewHyperparameterError("alpha/beta", "imported weights were computed with different precisions", pw.WeightPrecision)
	}

	cov := mat.NewSymDense(pw.Dim, append([]float64(nil), pw.Covariance...))
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return errors.NewNumericalInstabilityError(op, "imported covariance is not positive definite", 0, nil)
	}

	post := &Posterior{
		mean:       mat.NewVecDense(pw.Dim, append([]float64(nil), pw.Mean...)),
		covariance: cov,
		alpha:      pw.WeightPrecision,
		beta:       pw.NoisePrecision,
		nSamples:   pw.NSamples,
		condition:  chol.Cond(),
	}
	b.state.Store(post, pw.Dim-1, pw.NSamples)
	return nil
}

var _ model.ProbabilisticRegressor = (*BayesianLinearRegression)(nil)
