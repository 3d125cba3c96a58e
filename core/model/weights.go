package model

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

// WeightsVersion は ModelWeights のフォーマットバージョン
const WeightsVersion = "1"

// ModelWeights は線形分類器のパラメータを転送・保存するための構造体
type ModelWeights struct {
	// ModelType はモデルの種類（LogisticRegression等）
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は係数行列（n_classes × n_features、行優先）
	Coefficients [][]float64 `json:"coefficients"`

	// FitIntercept は Intercept が含まれるかどうか
	FitIntercept bool `json:"fit_intercept"`

	// Intercept は切片ベクトル。FitIntercept が false の場合は空
	Intercept []float64 `json:"intercept,omitempty"`

	// Classes はクラスラベル（オプション）
	Classes []int `json:"classes,omitempty"`

	// Checksum は Coefficients、Intercept、Classes の sha256
	Checksum string `json:"checksum,omitempty"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode model weights")
	}
	return data, nil
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "failed to decode model weights")
	}
	return nil
}

// Shape は係数行列の形状を返す
func (mw *ModelWeights) Shape() (rows, cols int) {
	rows = len(mw.Coefficients)
	if rows > 0 {
		cols = len(mw.Coefficients[0])
	}
	return rows, cols
}

// Validate はModelWeightsの形状の妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.Version != WeightsVersion {
		return errors.NewValidationError("version", "unsupported weights version", mw.Version)
	}

	rows, cols := mw.Shape()
	if rows == 0 || cols == 0 {
		return errors.NewValidationError("coefficients", "must be a non-empty matrix", [2]int{rows, cols})
	}
	for i, row := range mw.Coefficients {
		if len(row) != cols {
			return errors.Wrapf(errors.NewDimensionError("ModelWeights.Validate", cols, len(row), 1), "coefficient row %d", i)
		}
	}

	if mw.FitIntercept && len(mw.Intercept) != rows {
		return errors.NewDimensionError("ModelWeights.Validate", rows, len(mw.Intercept), 0)
	}
	if !mw.FitIntercept && len(mw.Intercept) > 0 {
		return errors.NewValidationError("intercept", "must be empty when fit_intercept is false", len(mw.Intercept))
	}
	return nil
}

// ComputeChecksum は係数・切片・クラスから sha256 を計算する
//
// 値は IEEE 754 のビット列として書き込むため NaN や Inf を含んでも失敗しない。
// 各配列の前に長さを書き込み、配列の境界が変わると異なる値になる。
func (mw *ModelWeights) ComputeChecksum() string {
	h := sha256.New()
	var buf [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(uint64(len(mw.Coefficients)))
	for _, row := range mw.Coefficients {
		writeUint(uint64(len(row)))
		for _, v := range row {
			writeUint(math.Float64bits(v))
		}
	}
	writeUint(uint64(len(mw.Intercept)))
	for _, v := range mw.Intercept {
		writeUint(math.Float64bits(v))
	}
	writeUint(uint64(len(mw.Classes)))
	for _, c := range mw.Classes {
		writeUint(uint64(int64(c)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyChecksum はチェックサムを検証する。Checksum が空の場合は何もしない
func (mw *ModelWeights) VerifyChecksum() error {
	if mw.Checksum == "" {
		return nil
	}
	if got := mw.ComputeChecksum(); got != mw.Checksum {
		return errors.Wrapf(errors.ErrChecksumMismatch, "weights may be corrupted: expected %s, got %s", mw.Checksum, got)
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:    mw.ModelType,
		Version:      mw.Version,
		FitIntercept: mw.FitIntercept,
		Checksum:     mw.Checksum,
		Coefficients: make([][]float64, len(mw.Coefficients)),
	}
	for i, row := range mw.Coefficients {
		clone.Coefficients[i] = append([]float64(nil), row...)
	}
	if mw.Intercept != nil {
		clone.Intercept = append([]float64(nil), mw.Intercept...)
	}
	if mw.Classes != nil {
		clone.Classes = append([]int(nil), mw.Classes...)
	}
	return clone
}
