package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/scigo-fl/core/model"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

// LabelEncoder はscikit-learn互換のラベルエンコーダ
// 文字列ラベルを 0..n_classes-1 の整数に変換する
type LabelEncoder struct {
	state *model.StateManager

	// Classes はソート済みの一意なラベル。インデックスがエンコード値になる
	Classes []string

	index map[string]int
}

// NewLabelEncoder は新しいLabelEncoderを作成する
//
// 使用例:
//
//	enc := preprocessing.NewLabelEncoder()
//	codes, err := enc.FitTransform([]string{"Malaria", "Allergy", "Malaria"})
//	// codes == []int{1, 0, 1}
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{state: model.NewStateManager()}
}

// Fit はラベル集合を学習する。クラスは辞書順に並べられる
func (e *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}

	e.Classes = make([]string, 0, len(seen))
	for l := range seen {
		e.Classes = append(e.Classes, l)
	}
	sort.Strings(e.Classes)

	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}

	e.state.SetFitted()
	e.state.SetDimensions(1, len(labels))
	return nil
}

// Transform はラベルを整数コードに変換する
//
// 学習時に存在しなかったラベルはエラーになる。
func (e *LabelEncoder) Transform(labels []string) ([]int, error) {
	if err := e.state.RequireFitted("LabelEncoder", "Transform"); err != nil {
		return nil, err
	}

	codes := make([]int, len(labels))
	for i, l := range labels {
		code, ok := e.index[l]
		if !ok {
			return nil, errors.NewValidationError("label", "previously unseen label", l)
		}
		codes[i] = code
	}
	return codes, nil
}

// FitTransform はFitとTransformを同時に実行する
func (e *LabelEncoder) FitTransform(labels []string) ([]int, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}

// InverseTransform は整数コードを元のラベルに戻す
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if err := e.state.RequireFitted("LabelEncoder", "InverseTransform"); err != nil {
		return nil, err
	}

	labels := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(e.Classes) {
			return nil, errors.NewValidationError("code", "out of range", c)
		}
		labels[i] = e.Classes[c]
	}
	return labels, nil
}

// NClasses は学習済みクラス数を返す
func (e *LabelEncoder) NClasses() int {
	return len(e.Classes)
}
