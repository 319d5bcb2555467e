// Package bayeslm provides closed-form Bayesian linear regression for Go,
// with calibrated predictive uncertainty for every prediction.
//
// The model places an isotropic Gaussian prior N(0, α⁻¹I) on the weights
// (intercept included) and assumes Gaussian observation noise with precision
// β. Because the prior is conjugate, fitting is a single linear-algebra
// update and the posterior predictive distribution is Gaussian in closed
// form: its variance splits into the noise floor 1/β and an epistemic term
// that grows away from the training data.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/bayeslm/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
//	    y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//
//	    model := linear.NewBayesianLinearRegression(
//	        linear.WithWeightPrecision(1),
//	        linear.WithNoisePrecision(10),
//	    )
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    mean, std, err := model.PredictWithStd(mat.NewDense(2, 1, []float64{1.5, 10}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(mean), mat.Formatted(std))
//	}
//
// # Packages
//
//   - linear: BayesianLinearRegression, the posterior and predictive engine,
//     and the least-squares LinearRegression baseline
//   - core/model: estimator interfaces, fit-then-freeze state and weight export
//   - core/parallel: row-chunked parallel loops
//   - metrics: point metrics (MSE, RMSE, MAE, R²) and probabilistic metrics
//   - preprocessing: StandardScaler
//   - datasets: seeded synthetic regression data
//   - visualize: gonum/plot renderers for predictive bands and weight marginals
//   - pkg/errors, pkg/log: error kinds and structured logging
//
// The blrdemo command under cmd/ wires all of them together.
//
// # License
//
// bayeslm is released under the MIT License.
package bayeslm
