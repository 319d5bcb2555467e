package linear

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/YuminosukeSato/bayeslm/core/parallel"
	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// PredictiveDistribution は各テスト点の事後予測分布 N(Mean, Epistemic + Aleatoric)
type PredictiveDistribution struct {
	// Mean は予測平均 x·m
	Mean []float64

	// Epistemic は重みの不確実性による分散 x Σ xᵀ（常に ≥ 0）
	Epistemic []float64

	// Aleatoric は観測ノイズの分散 1/β
	Aleatoric float64
}

// Len returns the number of test points.
func (d *PredictiveDistribution) Len() int {
	return len(d.Mean)
}

// Variance returns the total predictive variance per test point.
func (d *PredictiveDistribution) Variance() []float64 {
	v := make([]float64, len(d.Epistemic))
	for i, e := range d.Epistemic {
		v[i] = e + d.Aleatoric
	}
	return v
}

// Std returns the predictive standard deviation per test point.
func (d *PredictiveDistribution) Std() []float64 {
	s := d.Variance()
	for i := range s {
		s[i] = math.Sqrt(s[i])
	}
	return s
}

// Interval returns the central credible interval containing the given
// probability mass (for example 0.95) at every test point.
func (d *PredictiveDistribution) Interval(level float64) (lower, upper []float64, err error) {
	if !(level > 0 && level < 1) {
		return nil, nil, errors.NewValueError("PredictiveDistribution.Interval", "level must be in (0, 1)")
	}
	z := distuv.UnitNormal.Quantile(0.5 + level/2)

	std := d.Std()
	lower = make([]float64, len(std))
	upper = make([]float64, len(std))
	for i, s := range std {
		lower[i] = d.Mean[i] - z*s
		upper[i] = d.Mean[i] + z*s
	}
	return lower, upper, nil
}

// predictMean は X_aug·m を計算する
func (p *Posterior) predictMean(Xa *mat.Dense) *mat.VecDense {
	r, _ := Xa.Dims()
	pred := mat.NewVecDense(r, nil)
	pred.MulVec(Xa, p.mean)
	return pred
}

// predictive は平均と分散の分解を計算する
func (p *Posterior) predictive(Xa *mat.Dense) *PredictiveDistribution {
	r, c := Xa.Dims()
	dist := &PredictiveDistribution{
		Mean:      p.predictMean(Xa).RawVector().Data,
		Epistemic: make([]float64, r),
		Aleatoric: 1 / p.beta,
	}

	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			x := mat.NewVecDense(c, Xa.RawRowView(i))
			// 丸め誤差で負になる場合は0に丸める
			dist.Epistemic[i] = math.Max(0, mat.Inner(x, p.covariance, x))
		}
	})

	return dist
}

// sample は事後予測分布からサンプルを生成する
//
// 列 j は1つの重みベクトル w_j ~ N(m, Σ) を全テスト点で共有し、
// 各要素に独立な ε ~ N(0, 1/β) を加える。
func (p *Posterior) sample(Xa *mat.Dense, nSamples int, src rand.Source) (*mat.Dense, error) {
	const op = "PredictSamples"

	weights, ok := distmv.NewNormal(p.Mean(), p.covariance, src)
	if !ok {
		return nil, errors.NewNumericalInstabilityError(op, "posterior covariance is not positive definite", p.condition, nil)
	}

	// 先に全ての重みを引く
	dim := p.Dim()
	W := mat.NewDense(dim, nSamples, nil)
	w := make([]float64, dim)
	for j := 0; j < nSamples; j++ {
		W.SetCol(j, weights.Rand(w))
	}

	r, _ := Xa.Dims()
	samples := mat.NewDense(r, nSamples, nil)
	samples.Mul(Xa, W)

	noise := distuv.Normal{Mu: 0, Sigma: math.Sqrt(1 / p.beta), Src: src}
	for i := 0; i < r; i++ {
		row := samples.RawRowView(i)
		for j := range row {
			row[j] += noise.Rand()
		}
	}

	return samples, nil
}

// lockedSource は複数のゴルーチンから使える rand.Source
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func newLockedSource(seed uint64, seeded bool) *lockedSource {
	if !seeded {
		seed = rand.Uint64()
	}
	return &lockedSource{src: rand.NewPCG(seed, seed)}
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}
