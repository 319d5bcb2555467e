// Package model は推定器が共有するインターフェースと状態管理を提供する
package model

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する点予測（n×1）を返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はR²スコアを計算できるモデルのインターフェース
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// UncertaintyPredictor は予測の標準偏差も返せるモデルのインターフェース
type UncertaintyPredictor interface {
	Predictor
	// PredictWithStd は予測平均と予測標準偏差を返す
	PredictWithStd(X mat.Matrix) (mean, std *mat.VecDense, err error)
}

// SamplePredictor は事後予測分布からサンプルを生成できるモデルのインターフェース
type SamplePredictor interface {
	// PredictSamples は n_test × nSamples のサンプル行列を返す
	PredictSamples(X mat.Matrix, nSamples int, src rand.Source) (*mat.Dense, error)
}

// Regressor は点予測を行う回帰モデル
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// ProbabilisticRegressor は予測分布を持つ回帰モデル
type ProbabilisticRegressor interface {
	Regressor
	UncertaintyPredictor
	SamplePredictor
}
