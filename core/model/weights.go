package model

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/YuminosukeSato/bayeslm/pkg/errors"
)

// PosteriorWeights はガウス事後分布のスナップショット（シリアライゼーション用）
//
// Covariance は Dim×Dim の行優先フラット配列で、完全な再現性のため
// float64 をそのまま保持する。
type PosteriorWeights struct {
	// ModelType はモデルの種類
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Dim は切片を含む重みの次元
	Dim int `json:"dim"`

	// Mean は事後平均（先頭が切片）
	Mean []float64 `json:"mean"`

	// Covariance は事後共分散
	Covariance []float64 `json:"covariance"`

	// WeightPrecision は事前分布の精度 α
	WeightPrecision float64 `json:"weight_precision"`

	// NoisePrecision は観測ノイズの精度 β
	NoisePrecision float64 `json:"noise_precision"`

	// NSamples は学習に使ったサンプル数
	NSamples int `json:"n_samples"`

	// Checksum は Mean と Covariance の SHA-256
	Checksum string `json:"checksum,omitempty"`
}

// ToJSON はPosteriorWeightsをJSON形式にシリアライズ
func (pw *PosteriorWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(pw, "", "  ")
}

// FromJSON はJSON形式からPosteriorWeightsをデシリアライズ
func (pw *PosteriorWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, pw)
}

// ComputeChecksum は Mean と Covariance のビット列から SHA-256 を計算する
//
// NaN や Inf を含む場合も値ごとに異なるチェックサムになる。
func (pw *PosteriorWeights) ComputeChecksum() string {
	h := sha256.New()
	var buf [8]byte
	for _, vals := range [][]float64{pw.Mean, pw.Covariance} {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(vals)))
		h.Write(buf[:])
		for _, v := range vals {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Validate はPosteriorWeightsの妥当性を検証
//
// 形式の誤りは ErrInvalidInput、NaN/Inf を含む平均・共分散は
// ErrNumericalInstability としてマークされたエラーを返す。
func (pw *PosteriorWeights) Validate() error {
	const op = "PosteriorWeights.Validate"
	if pw.ModelType == "" {
		return errors.NewValueError(op, "model_type is required")
	}
	if pw.Version == "" {
		return errors.NewValueError(op, "version is required")
	}
	if pw.Dim < 1 {
		return errors.NewValueError(op, fmt.Sprintf("dim must be at least 1, got %d", pw.Dim))
	}
	if len(pw.Mean) != pw.Dim {
		return errors.NewDimensionError(op, pw.Dim, len(pw.Mean), 0)
	}
	if len(pw.Covariance) != pw.Dim*pw.Dim {
		return errors.NewDimensionError(op, pw.Dim*pw.Dim, len(pw.Covariance), 0)
	}
	if err := errors.CheckNumericalStability(op+" mean", pw.Mean); err != nil {
		return err
	}
	if err := errors.CheckNumericalStability(op+" covariance", pw.Covariance); err != nil {
		return err
	}
	for i := 0; i < pw.Dim; i++ {
		for j := i + 1; j < pw.Dim; j++ {
			if pw.Covariance[i*pw.Dim+j] != pw.Covariance[j*pw.Dim+i] {
				return errors.NewValueError(op, fmt.Sprintf("covariance is not symmetric at (%d, %d)", i, j))
			}
		}
	}
	if !errors.IsPositiveFinite(pw.WeightPrecision) {
		return errors.NewHyperparameterError("alpha", "weight_precision must be positive and finite", pw.WeightPrecision)
	}
	if !errors.IsPositiveFinite(pw.NoisePrecision) {
		return errors.NewHyperparameterError("beta", "noise_precision must be positive and finite", pw.NoisePrecision)
	}
	if pw.Checksum != "" && pw.Checksum != pw.ComputeChecksum() {
		return errors.NewValueError(op, "checksum mismatch: weights may be corrupted")
	}
	return nil
}

// Clone はPosteriorWeightsのディープコピーを作成
func (pw *PosteriorWeights) Clone() *PosteriorWeights {
	clone := *pw
	clone.Mean = append([]float64(nil), pw.Mean...)
	clone.Covariance = append([]float64(nil), pw.Covariance...)
	return &clone
}
