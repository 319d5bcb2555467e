// Package preprocessing は特徴量の前処理を提供する
package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/bayeslm/core/model"
	"github.com/YuminosukeSato/bayeslm/core/parallel"
	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"github.com/YuminosukeSato/bayeslm/pkg/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// minScale より小さい標準偏差は1として扱う（ゼロ除算を避ける）
const minScale = 1e-8

// scalerStats は学習済みの列ごとの統計量
type scalerStats struct {
	mean  []float64
	scale []float64
}

// StandardScaler はデータを平均0、標準偏差1に変換する
type StandardScaler struct {
	state *model.StateManager[scalerStats]

	withMean bool
	withStd  bool
	logger   log.Logger
}

// Option は StandardScaler の設定を変更する
type Option func(*StandardScaler)

// WithMean は平均を引くかどうかを設定する (デフォルト: true)
func WithMean(enabled bool) Option {
	return func(s *StandardScaler) {
		s.withMean = enabled
	}
}

// WithStd は標準偏差で割るかどうかを設定する (デフォルト: true)
func WithStd(enabled bool) Option {
	return func(s *StandardScaler) {
		s.withStd = enabled
	}
}

// WithLogger はロガーを設定する
func WithLogger(logger log.Logger) Option {
	return func(s *StandardScaler) {
		s.logger = logger
	}
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler()
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(opts ...Option) *StandardScaler {
	s := &StandardScaler{
		state:    model.NewStateManager[scalerStats](),
		withMean: true,
		withStd:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("StandardScaler")
	}
	return s
}

// Fit は訓練データから列ごとの平均と標準偏差（母分散）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	const op = "StandardScaler.Fit"
	if X == nil {
		return errors.NewValueError(op, "X is required")
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if err := errors.CheckFiniteInput(op, X, r, c); err != nil {
		return err
	}

	stats := &scalerStats{
		mean:  make([]float64, c),
		scale: make([]float64, c),
	}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, variance := stat.PopMeanVariance(col, nil)

		if s.withMean {
			stats.mean[j] = mean
		}
		stats.scale[j] = 1.0
		if s.withStd {
			// withMean=false でも分散は平均まわりで計算する
			if sd := math.Sqrt(variance); sd >= minScale {
				stats.scale[j] = sd
			}
		}
	}

	s.state.Store(stats, c, r)
	s.logger.Debug("scaler fitted",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply("Transform", X, func(v, mean, scale float64) float64 {
		return (v - mean) / scale
	})
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply("InverseTransform", X, func(v, mean, scale float64) float64 {
		return v*scale + mean
	})
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

func (s *StandardScaler) apply(method string, X mat.Matrix, f func(v, mean, scale float64) float64) (mat.Matrix, error) {
	stats, nFeatures, err := s.state.Require("StandardScaler", method)
	if err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValueError("StandardScaler."+method, "X is required")
	}
	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError("StandardScaler."+method, nFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := result.RawRowView(i)
			for j := range row {
				row[j] = f(X.At(i, j), stats.mean[j], stats.scale[j])
			}
		}
	})
	return result, nil
}

// Mean は学習した列ごとの平均を返す
func (s *StandardScaler) Mean() ([]float64, error) {
	stats, _, err := s.state.Require("StandardScaler", "Mean")
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), stats.mean...), nil
}

// Scale は学習した列ごとの標準偏差を返す
func (s *StandardScaler) Scale() ([]float64, error) {
	stats, _, err := s.state.Require("StandardScaler", "Scale")
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), stats.scale...), nil
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.withMean,
		"with_std":  s.withStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	st := s.state.GetState()
	if !st.Fitted {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.withMean, s.withStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)", s.withMean, s.withStd, st.NFeatures)
}
