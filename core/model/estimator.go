package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は分類器の場合は正解率を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Classifier は分類モデルのインターフェース
type Classifier interface {
	Fitter
	Predictor
	Scorer

	// PredictProba は各クラスの確率を予測する
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は既知のクラスラベルを返す
	Classes() []int
}

// LinearParams は線形分類器のパラメータ（係数行列・切片ベクトル・クラス集合）を
// 読み書きするためのインターフェース。連合学習で参加者とコーディネータの間で
// パラメータを受け渡すために使う。
type LinearParams interface {
	// FitIntercept は切片を学習する設定かどうかを返す
	FitIntercept() bool

	// Coef は係数行列 (n_classes × n_features) のコピーを返す。未設定ならnil
	Coef() *mat.Dense

	// Intercept は切片ベクトル (n_classes) のコピーを返す。未設定ならnil
	Intercept() *mat.VecDense

	// Classes はクラスラベルのコピーを返す。未設定ならnil
	Classes() []int

	// SetCoef は係数行列を上書きする
	SetCoef(coef *mat.Dense) error

	// SetIntercept は切片ベクトルを上書きする
	SetIntercept(intercept *mat.VecDense) error

	// SetClasses はクラスラベルを上書きする
	SetClasses(classes []int) error
}

// LinearClassifier は学習とパラメータ入出力の両方を備えた線形分類器
type LinearClassifier interface {
	Classifier
	LinearParams
}

// WarmStarter はウォームスタートを切り替えられるモデルのインターフェース。
// true の場合、Fit は既存のパラメータから学習を継続する
type WarmStarter interface {
	IsWarmStart() bool
	SetWarmStart(warmStart bool)
}
