// Package visualize は予測分布と重みの事後分布を gonum/plot で描画する
//
// 各関数は *plot.Plot を返すだけで、ファイルへの書き出しは Save / Encode が行う。
package visualize

import (
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strconv"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	trainColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	testColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	meanColor  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	bandColor  = color.RGBA{R: 44, G: 160, B: 44, A: 50}
	priorColor = color.RGBA{R: 31, G: 119, B: 180, A: 180}
	postColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	postFill   = color.RGBA{R: 214, G: 39, B: 40, A: 70}
	stdColor   = color.RGBA{R: 128, G: 0, B: 128, A: 255}
)

const (
	// DefaultWidth と DefaultHeight は Save の画像サイズ
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Points は散布図に描く観測点
type Points struct {
	X []float64
	Y []float64
}

func (p Points) xys(op string) (plotter.XYs, error) {
	if len(p.X) != len(p.Y) {
		return nil, errors.NewDimensionError(op, len(p.X), len(p.Y), 0)
	}
	xys := make(plotter.XYs, len(p.X))
	for i := range p.X {
		xys[i].X = p.X[i]
		xys[i].Y = p.Y[i]
	}
	return xys, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, xys plotter.XYs, c color.Color, width vg.Length, label string) error {
	l, err := plotter.NewLine(xys)
	if err != nil {
		return errors.Wrap(err, "visualize: line")
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = width
	p.Add(l)
	if label != "" {
		p.Legend.Add(label, l)
	}
	return nil
}

func addScatter(p *plot.Plot, pts Points, c color.Color, label string) error {
	if len(pts.X) == 0 {
		return nil
	}
	xys, err := pts.xys("visualize.Scatter")
	if err != nil {
		return err
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return errors.Wrap(err, "visualize: scatter")
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(s)
	p.Legend.Add(label, s)
	return nil
}

func curve(op string, x, y []float64) (plotter.XYs, error) {
	if len(x) == 0 {
		return nil, errors.NewValueError(op, "no points to draw")
	}
	return Points{X: x, Y: y}.xys(op)
}

// PredictiveBand は予測平均と mean ± k·std の帯を訓練・テストデータと重ねて描く
func PredictiveBand(x, mean, std []float64, k float64, train, test Points) (*plot.Plot, error) {
	const op = "visualize.PredictiveBand"
	meanXYs, err := curve(op, x, mean)
	if err != nil {
		return nil, err
	}
	if len(std) != len(x) {
		return nil, errors.NewDimensionError(op, len(x), len(std), 0)
	}
	if !(k > 0) {
		return nil, errors.NewValueError(op, "band width must be positive")
	}

	// 上側を左から右、下側を右から左にたどる多角形
	band := make(plotter.XYs, 0, 2*len(x))
	for i := range x {
		band = append(band, plotter.XY{X: x[i], Y: mean[i] + k*std[i]})
	}
	for i := len(x) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: x[i], Y: mean[i] - k*std[i]})
	}
	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return nil, errors.Wrap(err, "visualize: band")
	}
	poly.Color = bandColor
	poly.LineStyle.Width = 0

	p := newPlot("Bayesian Linear Regression with Uncertainty", "x", "y")
	p.Add(poly)
	p.Legend.Add("±"+strconv.FormatFloat(k, 'g', -1, 64)+"σ band", poly)
	if err := addScatter(p, train, trainColor, "training data"); err != nil {
		return nil, err
	}
	if err := addScatter(p, test, testColor, "test data"); err != nil {
		return nil, err
	}
	if err := addLine(p, meanXYs, meanColor, vg.Points(2), "predictive mean"); err != nil {
		return nil, err
	}
	return p, nil
}

// SampleLines は事後予測サンプルの各列を1本の線として描く
//
// samples は len(x) × k の行列で、列 j が1本のサンプル関数。
func SampleLines(x []float64, samples mat.Matrix, mean []float64, train Points) (*plot.Plot, error) {
	const op = "visualize.SampleLines"
	meanXYs, err := curve(op, x, mean)
	if err != nil {
		return nil, err
	}
	if samples == nil {
		return nil, errors.NewValueError(op, "samples are required")
	}
	r, c := samples.Dims()
	if r != len(x) {
		return nil, errors.NewDimensionError(op, len(x), r, 0)
	}

	p := newPlot("Posterior Predictive Samples", "x", "y")
	faint := color.RGBA{R: 44, G: 160, B: 44, A: 80}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, samples)
		xys, err := curve(op, x, col)
		if err != nil {
			return nil, err
		}
		label := ""
		if j == 0 {
			label = "samples"
		}
		if err := addLine(p, xys, faint, vg.Points(1), label); err != nil {
			return nil, err
		}
	}
	if err := addScatter(p, train, trainColor, "training data"); err != nil {
		return nil, err
	}
	if err := addLine(p, meanXYs, meanColor, vg.Points(3), "mean prediction"); err != nil {
		return nil, err
	}
	return p, nil
}

// UncertaintyCurve は予測標準偏差を入力に対して描く
func UncertaintyCurve(x, std []float64) (*plot.Plot, error) {
	xys, err := curve("visualize.UncertaintyCurve", x, std)
	if err != nil {
		return nil, err
	}
	p := newPlot("Prediction Uncertainty", "x", "predictive std")
	if err := addLine(p, xys, stdColor, vg.Points(2), ""); err != nil {
		return nil, err
	}
	return p, nil
}

// WeightDistribution は重みごとの周辺事前分布と周辺事後分布を返す
type WeightDistribution interface {
	MarginalWeightDistribution(i int) (mean, variance float64, err error)
	PriorWeightDistribution(i int) (mean, variance float64, err error)
}

// WeightMarginal は重み i の事前密度（破線）と事後密度（塗りつぶし）を
// 事後平均 ± 3σ の範囲で描く。i = 0 は切片。
func WeightMarginal(dist WeightDistribution, i int) (*plot.Plot, error) {
	postMean, postVar, err := dist.MarginalWeightDistribution(i)
	if err != nil {
		return nil, err
	}
	priorMean, priorVar, err := dist.PriorWeightDistribution(i)
	if err != nil {
		return nil, err
	}

	const n = 100
	postSD := math.Sqrt(postVar)
	prior := distuv.Normal{Mu: priorMean, Sigma: math.Sqrt(priorVar)}
	post := distuv.Normal{Mu: postMean, Sigma: postSD}

	priorXYs := make(plotter.XYs, n)
	postXYs := make(plotter.XYs, n)
	lo, hi := postMean-3*postSD, postMean+3*postSD
	for k := 0; k < n; k++ {
		w := lo + (hi-lo)*float64(k)/float64(n-1)
		priorXYs[k] = plotter.XY{X: w, Y: prior.Prob(w)}
		postXYs[k] = plotter.XY{X: w, Y: post.Prob(w)}
	}

	fill := make(plotter.XYs, 0, n+2)
	fill = append(fill, plotter.XY{X: lo, Y: 0})
	fill = append(fill, postXYs...)
	fill = append(fill, plotter.XY{X: hi, Y: 0})
	poly, err := plotter.NewPolygon(fill)
	if err != nil {
		return nil, errors.Wrap(err, "visualize: posterior fill")
	}
	poly.Color = postFill
	poly.LineStyle.Width = 0

	title := "Bias"
	if i > 0 {
		title = "Weight " + strconv.Itoa(i)
	}
	p := newPlot(title, "value", "density")
	p.Add(poly)

	priorLine, err := plotter.NewLine(priorXYs)
	if err != nil {
		return nil, errors.Wrap(err, "visualize: prior")
	}
	priorLine.LineStyle.Color = priorColor
	priorLine.LineStyle.Width = vg.Points(1.5)
	priorLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(priorLine)
	p.Legend.Add("prior", priorLine)

	if err := addLine(p, postXYs, postColor, vg.Points(2), "posterior"); err != nil {
		return nil, err
	}
	return p, nil
}

// Save は拡張子（.png, .svg, .pdf など）に応じた形式で p を保存する
func Save(p *plot.Plot, path string) error {
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return errors.Wrapf(err, "visualize: save %s", filepath.Base(path))
	}
	return nil
}

// Encode は p を format（"png", "svg" など）で w に書き出す
func Encode(p *plot.Plot, w io.Writer, format string) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return errors.Wrapf(err, "visualize: encode %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "visualize: write")
	}
	return nil
}
