package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
)

func TestLinearRegression_Basic(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression(WithLogger(discardLogger()))
	require.NoError(t, lr.Fit(X, y))

	coef, err := lr.Coef()
	require.NoError(t, err)
	intercept, err := lr.Intercept()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, coef[0], 1e-10)
	assert.InDelta(t, 1.0, intercept, 1e-10)

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	require.NoError(t, err)
	assert.InDelta(t, 11.0, pred.At(0, 0), 1e-10)
	assert.InDelta(t, 13.0, pred.At(1, 0), 1e-10)

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestLinearRegression_MultipleFeatures(t *testing.T) {
	// y = 2*x1 + 3*x2 + 1
	X := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 1,
		3, 2,
		4, 2,
		5, 3,
	})
	y := mat.NewDense(5, 1, []float64{6, 8, 13, 15, 20})

	lr := NewLinearRegression(WithLogger(discardLogger()))
	require.NoError(t, lr.Fit(X, y))

	coef, err := lr.Coef()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3}, coef, 1e-9)
}

func TestLinearRegression_Errors(t *testing.T) {
	lr := NewLinearRegression(WithLogger(discardLogger()))

	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
	_, err = lr.Coef()
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	// 説明変数より少ないサンプル
	err = lr.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), mat.NewDense(2, 1, []float64{1, 2}))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	// 同一の列
	X := mat.NewDense(4, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	err = lr.Fit(X, mat.NewDense(4, 1, []float64{1, 2, 3, 4}))
	assert.True(t, errors.Is(err, errors.ErrNumericalInstability), "got %v", err)
	assert.False(t, lr.IsFitted())

	require.NoError(t, lr.Fit(mat.NewDense(3, 1, []float64{0, 1, 2}), mat.NewDense(3, 1, []float64{1, 2, 3})))
	_, err = lr.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
