package metrics

import (
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率（予測ラベルが正解ラベルと一致する割合）を計算する
//
// yTrue と yPred は同じ長さの列ベクトル（n×1 行列でもよい）であること。
func Accuracy(yTrue, yPred mat.Matrix) (float64, error) {
	n, err := checkColumnPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.At(i, 0) == yPred.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// LogLoss は多クラス交差エントロピー損失を計算する
//
// proba は n_samples × n_classes の確率行列で、列の順序は classes に対応する。
// 確率は [1e-15, 1-1e-15] にクリップされる。
func LogLoss(yTrue mat.Matrix, proba mat.Matrix, classes []int) (float64, error) {
	n, cols := proba.Dims()
	if n == 0 {
		return 0, errors.NewModelError("LogLoss", "empty data", errors.ErrEmptyData)
	}
	if r, c := yTrue.Dims(); r != n || c != 1 {
		return 0, errors.NewDimensionError("LogLoss", n, r, 0)
	}
	if cols != len(classes) {
		return 0, errors.NewDimensionError("LogLoss", len(classes), cols, 1)
	}

	index := make(map[int]int, len(classes))
	for j, c := range classes {
		index[c] = j
	}

	const eps = 1e-15
	var sum float64
	for i := 0; i < n; i++ {
		label := int(yTrue.At(i, 0))
		j, ok := index[label]
		if !ok {
			return 0, errors.NewValidationError("y_true", "label not present in classes", label)
		}
		p := proba.At(i, j)
		if p < eps {
			p = eps
		} else if p > 1-eps {
			p = 1 - eps
		}
		sum -= errors.StabilizeLog(p)
	}
	return sum / float64(n), nil
}

func checkColumnPair(op string, a, b mat.Matrix) (int, error) {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if ca != 1 || cb != 1 {
		return 0, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	if ra != rb {
		return 0, errors.NewDimensionError(op, ra, rb, 0)
	}
	return ra, nil
}
