package visualize

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
)

type fakeWeights struct{}

func (fakeWeights) MarginalWeightDistribution(i int) (float64, float64, error) {
	if i > 1 {
		return 0, 0, errors.NewValueError("fake", "weight index out of range")
	}
	return 0.5 * float64(i), 0.01, nil
}

func (fakeWeights) PriorWeightDistribution(i int) (float64, float64, error) {
	return 0, 0.5, nil
}

func grid() []float64 {
	return []float64{-2, -1, 0, 1, 2}
}

func TestPredictiveBand(t *testing.T) {
	x := grid()
	mean := []float64{-4, -2, 0, 2, 4}
	std := []float64{0.5, 0.3, 0.2, 0.3, 0.5}
	train := Points{X: []float64{-1, 1}, Y: []float64{-2.1, 1.9}}

	p, err := PredictiveBand(x, mean, std, 2, train, Points{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(p, &buf, "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	_, err = PredictiveBand(x, mean, std[:2], 2, train, Points{})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = PredictiveBand(x, mean, std, 0, train, Points{})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = PredictiveBand(x, mean, std, 2, Points{X: []float64{1}}, Points{})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestSampleLinesAndUncertainty(t *testing.T) {
	x := grid()
	samples := mat.NewDense(5, 3, nil)
	for i := 0; i < 5; i++ {
		for j := 0; j < 3; j++ {
			samples.Set(i, j, x[i]*float64(j+1))
		}
	}

	p, err := SampleLines(x, samples, x, Points{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(p, &buf, "svg"))
	assert.Contains(t, buf.String(), "<svg")

	_, err = SampleLines(x, mat.NewDense(4, 3, nil), x, Points{})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = UncertaintyCurve(x, []float64{1, 1, 1, 1, 1})
	require.NoError(t, err)
	_, err = UncertaintyCurve(nil, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestWeightMarginalSave(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		p, err := WeightMarginal(fakeWeights{}, i)
		require.NoError(t, err)

		path := filepath.Join(dir, "weight.png")
		require.NoError(t, Save(p, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err := WeightMarginal(fakeWeights{}, 2)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
