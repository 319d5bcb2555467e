package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
)

func TestMeanLogPredictiveDensity(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{0, 1})
	mean := mat.NewVecDense(2, []float64{0, 0})
	std := mat.NewVecDense(2, []float64{1, 1})

	got, err := MeanLogPredictiveDensity(yTrue, mean, std)
	require.NoError(t, err)

	// log N(0|0,1) = -½log(2π), log N(1|0,1) = -½log(2π) - ½
	want := -0.5*math.Log(2*math.Pi) - 0.25
	assert.InDelta(t, want, got, 1e-12)

	// 過信した予測は罰せられる
	narrow := mat.NewVecDense(2, []float64{0.01, 0.01})
	overconfident, err := MeanLogPredictiveDensity(yTrue, mean, narrow)
	require.NoError(t, err)
	assert.Less(t, overconfident, got)

	_, err = MeanLogPredictiveDensity(yTrue, mean, mat.NewVecDense(2, []float64{1, 0}))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = MeanLogPredictiveDensity(yTrue, mean, mat.NewVecDense(1, []float64{1}))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestIntervalCoverage(t *testing.T) {
	got, err := IntervalCoverage(
		[]float64{0, 1, 2, 3},
		[]float64{-1, 1.5, 1, 3},
		[]float64{1, 2, 3, 4},
	)
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)

	_, err = IntervalCoverage(nil, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = IntervalCoverage([]float64{1}, []float64{2}, []float64{0})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = IntervalCoverage([]float64{1, 2}, []float64{0}, []float64{3, 3})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestMeanStd(t *testing.T) {
	got, err := MeanStd(mat.NewVecDense(3, []float64{0.2, 0.3, 0.4}))
	require.NoError(t, err)
	assert.InDelta(t, 0.3, got, 1e-12)

	_, err = MeanStd(&mat.VecDense{})
	assert.Error(t, err)
}
