package linear

import (
	"github.com/YuminosukeSato/bayeslm/core/parallel"
	"github.com/YuminosukeSato/bayeslm/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// AddIntercept は n×d の特徴量行列から先頭列が1の n×(d+1) 計画行列を作る
//
// 行の順序は保たれ、X は変更されない。行がない場合と NaN/Inf を含む場合は
// InvalidInput を返す。
func AddIntercept(X mat.Matrix) (*mat.Dense, error) {
	if X == nil {
		return nil, errors.NewValueError("AddIntercept", "feature matrix is nil")
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewModelError("AddIntercept", "feature matrix has no rows", errors.ErrEmptyData)
	}
	if err := errors.CheckFiniteInput("AddIntercept", X, r, c); err != nil {
		return nil, err
	}

	XWithIntercept := mat.NewDense(r, c+1, nil)

	// 行数が閾値以下なら逐次処理
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := XWithIntercept.RawRowView(i)
			row[0] = 1.0 // 切片項
			for j := 0; j < c; j++ {
				row[j+1] = X.At(i, j)
			}
		}
	})

	return XWithIntercept, nil
}

// columnVector は n×1 の行列をベクトルとしてコピーする
func columnVector(op string, y mat.Matrix, n int) (*mat.VecDense, error) {
	if y == nil {
		return nil, errors.NewValueError(op, "target vector is nil")
	}
	ry, cy := y.Dims()
	if ry != n {
		return nil, errors.NewDimensionError(op, n, ry, 0)
	}
	if cy != 1 {
		return nil, errors.NewDimensionError(op, 1, cy, 1)
	}
	if err := errors.CheckFiniteInput(op, y, ry, cy); err != nil {
		return nil, err
	}
	yVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}
	return yVec, nil
}
