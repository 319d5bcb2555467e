package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"

	"github.com/YuminosukeSato/bayeslm/datasets"
	"github.com/YuminosukeSato/bayeslm/linear"
	"github.com/YuminosukeSato/bayeslm/metrics"
	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"github.com/YuminosukeSato/bayeslm/pkg/log"
	"github.com/YuminosukeSato/bayeslm/preprocessing"
	"github.com/YuminosukeSato/bayeslm/visualize"
)

// gridPoints は予測帯を描く入力グリッドの点数
const gridPoints = 100

type demoConfig struct {
	Alpha    float64
	Beta     float64
	Samples  int
	Features int
	NSamples int
	Noise    float64
	Train    int
	Seed     uint64
	Out      string
}

func defaultDemoConfig() demoConfig {
	return demoConfig{
		Alpha:    2,
		Beta:     25,
		Samples:  50,
		Features: 1,
		NSamples: 20,
		Noise:    0.3,
		Train:    30,
		Seed:     42,
	}
}

type report struct {
	model     string
	intercept float64
	coef      []float64
	trueCoef  []float64
	nTest     int

	bayesMSE float64
	olsMSE   float64
	r2       float64
	meanStd  float64
	coverage float64
	mlpd     float64

	plots []string
}

func (r *report) print(w io.Writer) {
	fmt.Fprintln(w, r.model)
	fmt.Fprintf(w, "  %-28s %.4f\n", "intercept", r.intercept)
	for j, c := range r.coef {
		fmt.Fprintf(w, "  %-28s %.4f (true %.4f)\n", fmt.Sprintf("coef[%d]", j), c, r.trueCoef[j])
	}
	fmt.Fprintf(w, "held-out points: %d\n", r.nTest)
	fmt.Fprintf(w, "  %-28s %.4f\n", "Bayesian MSE", r.bayesMSE)
	fmt.Fprintf(w, "  %-28s %.4f\n", "OLS MSE", r.olsMSE)
	fmt.Fprintf(w, "  %-28s %.4f\n", "R²", r.r2)
	fmt.Fprintf(w, "  %-28s %.4f\n", "mean predictive std", r.meanStd)
	fmt.Fprintf(w, "  %-28s %.4f\n", "95% interval coverage", r.coverage)
	fmt.Fprintf(w, "  %-28s %.4f\n", "mean log predictive density", r.mlpd)
	for _, p := range r.plots {
		fmt.Fprintf(w, "wrote %s\n", p)
	}
}

// runDemo はデータ生成から評価、描画までを順に実行する
func runDemo(cfg demoConfig, logger log.Logger) (*report, error) {
	start := time.Now()

	data, err := datasets.MakeRegression(datasets.RegressionConfig{
		NSamples:  cfg.Samples,
		NFeatures: cfg.Features,
		Noise:     cfg.Noise,
		Seed:      cfg.Seed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate data")
	}

	scaler := preprocessing.NewStandardScaler(preprocessing.WithLogger(logger))
	scaled, err := scaler.FitTransform(data.X)
	if err != nil {
		return nil, errors.Wrap(err, "standardize features")
	}
	XTrain, XTest, yTrain, yTest, err := datasets.TrainTestSplit(mat.DenseCopyOf(scaled), data.Y, cfg.Train)
	if err != nil {
		return nil, errors.Wrap(err, "split data")
	}

	blr := linear.NewBayesianLinearRegression(
		linear.WithWeightPrecision(cfg.Alpha),
		linear.WithNoisePrecision(cfg.Beta),
		linear.WithRandomState(cfg.Seed),
		linear.WithLogger(logger),
	)
	if err := blr.Fit(XTrain, yTrain); err != nil {
		return nil, errors.Wrap(err, "fit bayesian model")
	}
	ols := linear.NewLinearRegression(linear.WithLogger(logger))
	if err := ols.Fit(XTrain, yTrain); err != nil {
		return nil, errors.Wrap(err, "fit least squares baseline")
	}

	rep := &report{model: blr.String(), trueCoef: data.Coef}
	if rep.intercept, err = blr.Intercept(); err != nil {
		return nil, err
	}
	if rep.coef, err = blr.Coef(); err != nil {
		return nil, err
	}
	if err := rep.evaluate(blr, ols, XTest, yTest); err != nil {
		return nil, err
	}

	if cfg.Out != "" {
		rep.plots, err = renderPlots(cfg, blr, XTrain, XTest, yTrain, yTest)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("demo finished",
		log.SamplesKey, cfg.Samples,
		log.FeaturesKey, cfg.Features,
		"test.mse", rep.bayesMSE,
		"test.coverage", rep.coverage,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return rep, nil
}

func (r *report) evaluate(blr *linear.BayesianLinearRegression, ols *linear.LinearRegression, XTest, yTest *mat.Dense) error {
	dist, err := blr.PredictDistribution(XTest)
	if err != nil {
		return err
	}
	yTrue := yTest.ColView(0)
	mean := mat.NewVecDense(dist.Len(), dist.Mean)
	std := mat.NewVecDense(dist.Len(), dist.Std())
	r.nTest = dist.Len()

	if r.bayesMSE, err = metrics.MSE(yTrue, mean); err != nil {
		return err
	}
	if r.r2, err = metrics.R2Score(yTrue, mean); err != nil {
		return err
	}
	if r.meanStd, err = metrics.MeanStd(std); err != nil {
		return err
	}
	if r.mlpd, err = metrics.MeanLogPredictiveDensity(yTrue, mean, std); err != nil {
		return err
	}
	lower, upper, err := dist.Interval(0.95)
	if err != nil {
		return err
	}
	if r.coverage, err = metrics.IntervalCoverage(mat.Col(nil, 0, yTest), lower, upper); err != nil {
		return err
	}

	olsPred, err := ols.Predict(XTest)
	if err != nil {
		return err
	}
	r.olsMSE, err = metrics.MSEMatrix(yTest, olsPred)
	return err
}

// renderPlots は cfg.Out に PNG を書き出し、そのパスを返す。
// 予測帯とサンプル線は入力が1次元のときだけ描く。
func renderPlots(cfg demoConfig, blr *linear.BayesianLinearRegression, XTrain, XTest, yTrain, yTest *mat.Dense) ([]string, error) {
	if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", cfg.Out)
	}

	type namedPlot struct {
		name string
		p    *plot.Plot
	}
	var plots []namedPlot
	add := func(name string, p *plot.Plot) {
		plots = append(plots, namedPlot{name: name, p: p})
	}

	if cfg.Features == 1 {
		train := visualize.Points{X: mat.Col(nil, 0, XTrain), Y: mat.Col(nil, 0, yTrain)}
		test := visualize.Points{X: mat.Col(nil, 0, XTest), Y: mat.Col(nil, 0, yTest)}

		all := append(append([]float64(nil), train.X...), test.X...)
		lo, hi := floats.Min(all)-0.5, floats.Max(all)+0.5
		x := make([]float64, gridPoints)
		floats.Span(x, lo, hi)
		grid := mat.NewDense(gridPoints, 1, x)

		meanVec, stdVec, err := blr.PredictWithStd(grid)
		if err != nil {
			return nil, err
		}
		mean := mat.Col(nil, 0, meanVec)
		std := mat.Col(nil, 0, stdVec)

		band, err := visualize.PredictiveBand(x, mean, std, 2, train, test)
		if err != nil {
			return nil, err
		}
		add("predictive_band.png", band)

		samples, err := blr.PredictSamples(grid, cfg.NSamples, nil)
		if err != nil {
			return nil, err
		}
		lines, err := visualize.SampleLines(x, samples, mean, train)
		if err != nil {
			return nil, err
		}
		add("posterior_samples.png", lines)

		curve, err := visualize.UncertaintyCurve(x, std)
		if err != nil {
			return nil, err
		}
		add("uncertainty.png", curve)
	}

	for i := 0; i <= cfg.Features; i++ {
		p, err := visualize.WeightMarginal(blr, i)
		if err != nil {
			return nil, err
		}
		add(fmt.Sprintf("weight_%d.png", i), p)
	}

	paths := make([]string, 0, len(plots))
	for _, np := range plots {
		path := filepath.Join(cfg.Out, np.name)
		if err := visualize.Save(np.p, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
