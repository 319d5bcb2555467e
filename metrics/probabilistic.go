package metrics

import (
	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MeanLogPredictiveDensity は正規予測分布 N(mean[i], std[i]²) のもとでの
// 観測値の対数密度の平均を計算する。大きいほど良い。
func MeanLogPredictiveDensity(yTrue, mean, std mat.Vector) (float64, error) {
	const op = "MeanLogPredictiveDensity"
	n, err := checkPair(op, yTrue, mean)
	if err != nil {
		return 0, err
	}
	if _, err := checkPair(op, yTrue, std); err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		s := std.AtVec(i)
		if !errors.IsPositiveFinite(s) {
			return 0, errors.NewValueError(op, "standard deviations must be positive and finite")
		}
		sum += distuv.Normal{Mu: mean.AtVec(i), Sigma: s}.LogProb(yTrue.AtVec(i))
	}
	return sum / float64(n), nil
}

// IntervalCoverage は lower[i] <= yTrue[i] <= upper[i] を満たす割合を返す
func IntervalCoverage(yTrue, lower, upper []float64) (float64, error) {
	const op = "IntervalCoverage"
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if len(lower) != n {
		return 0, errors.NewDimensionError(op, n, len(lower), 0)
	}
	if len(upper) != n {
		return 0, errors.NewDimensionError(op, n, len(upper), 0)
	}

	covered := 0
	for i, y := range yTrue {
		if lower[i] > upper[i] {
			return 0, errors.NewValueError(op, "lower bound exceeds upper bound")
		}
		if y >= lower[i] && y <= upper[i] {
			covered++
		}
	}
	return float64(covered) / float64(n), nil
}

// MeanStd は予測標準偏差の平均を返す
func MeanStd(std mat.Vector) (float64, error) {
	if std == nil || std.Len() == 0 {
		return 0, errors.NewValueError("MeanStd", "empty vector")
	}
	return stat.Mean(toSlice(std), nil), nil
}
