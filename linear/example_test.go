package linear_test

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayeslm/linear"
)

func ExampleBayesianLinearRegression() {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0.1, 1.0, 2.1, 2.9})

	m := linear.NewBayesianLinearRegression(
		linear.WithWeightPrecision(1),
		linear.WithNoisePrecision(25),
	)
	if err := m.Fit(X, y); err != nil {
		fmt.Println(err)
		return
	}

	mean, std, err := m.PredictWithStd(mat.NewDense(2, 1, []float64{1.5, 10}))
	if err != nil {
		fmt.Println(err)
		return
	}
	for i := 0; i < mean.Len(); i++ {
		fmt.Printf("%.3f ± %.3f\n", mean.AtVec(i), std.AtVec(i))
	}

	// Output:
	// 1.524 ± 0.223
	// 9.546 ± 0.784
}

func ExampleBayesianLinearRegression_PredictSamples() {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0.1, 1.0, 2.1, 2.9})

	m := linear.NewBayesianLinearRegression(linear.WithNoisePrecision(25))
	if err := m.Fit(X, y); err != nil {
		fmt.Println(err)
		return
	}

	// 各列は1本の回帰直線
	samples, err := m.PredictSamples(mat.NewDense(3, 1, []float64{0, 1, 2}), 100, rand.NewPCG(1, 2))
	if err != nil {
		fmt.Println(err)
		return
	}
	r, c := samples.Dims()
	fmt.Println(r, "test points,", c, "sampled lines")

	// Output:
	// 3 test points, 100 sampled lines
}

func ExampleBayesianLinearRegression_MarginalWeightDistribution() {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0.1, 1.0, 2.1, 2.9})

	m := linear.NewBayesianLinearRegression(linear.WithWeightPrecision(1), linear.WithNoisePrecision(25))
	if err := m.Fit(X, y); err != nil {
		fmt.Println(err)
		return
	}

	for i := 0; i < 2; i++ {
		_, priorVar, _ := m.PriorWeightDistribution(i)
		mean, variance, _ := m.MarginalWeightDistribution(i)
		fmt.Printf("w%d: prior var %.1f, posterior N(%.3f, %.4f)\n", i, priorVar, mean, variance)
	}

	// Output:
	// w0: prior var 1.0, posterior N(0.108, 0.0271)
	// w1: prior var 1.0, posterior N(0.944, 0.0078)
}
