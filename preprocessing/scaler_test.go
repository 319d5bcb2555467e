package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"github.com/YuminosukeSato/bayeslm/pkg/log"
)

func quietScaler(opts ...Option) *StandardScaler {
	logger, _ := log.NewTestLogger(log.LevelError)
	return NewStandardScaler(append([]Option{WithLogger(logger)}, opts...)...)
}

func TestStandardScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	s := quietScaler()
	Xs, err := s.FitTransform(X)
	require.NoError(t, err)

	mean, err := s.Mean()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.5, 25}, mean, 1e-12)

	for j := 0; j < 2; j++ {
		col := mat.Col(nil, j, Xs)
		m, v := stat.PopMeanVariance(col, nil)
		assert.InDelta(t, 0, m, 1e-12)
		assert.InDelta(t, 1, v, 1e-12)
	}

	back, err := s.InverseTransform(Xs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScaler_Options(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
	})

	s := quietScaler(WithMean(false))
	require.NoError(t, s.Fit(X))

	mean, err := s.Mean()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, mean)

	scale, err := s.Scale()
	require.NoError(t, err)
	// 定数列のスケールは1
	assert.Equal(t, 1.0, scale[1])

	noStd := quietScaler(WithStd(false))
	require.NoError(t, noStd.Fit(X))
	scale, err = noStd.Scale()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, scale)

	assert.Equal(t, map[string]interface{}{"with_mean": true, "with_std": false}, noStd.GetParams())
	assert.Equal(t, "StandardScaler(with_mean=true, with_std=false, n_features=2)", noStd.String())
}

func TestStandardScaler_Errors(t *testing.T) {
	s := quietScaler()

	_, err := s.Transform(mat.NewDense(1, 1, []float64{1}))
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	assert.True(t, errors.Is(s.Fit(&mat.Dense{}), errors.ErrInvalidInput))

	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = s.Transform(mat.NewDense(1, 3, nil))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
