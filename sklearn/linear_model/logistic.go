package linear_model

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/core/model"
	"github.com/YuminosukeSato/scigo-fl/core/parallel"
	"github.com/YuminosukeSato/scigo-fl/metrics"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// parallelThreshold は予測・スコアリングを並列化する最小サンプル数
const parallelThreshold = 1000

// LogisticRegression implements logistic regression for classification
// Compatible with scikit-learn's LogisticRegression
//
// 学習済みパラメータは coef_ (n_classes × n_features、二値分類では 1 × n_features) と
// intercept_ (n_classes) に保持される。SetCoef / SetIntercept / SetClasses で外部から
// 注入することもでき、連合学習の参加者間でパラメータを受け渡すのに使う。
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty      string  // Regularization: "l2", "none"
	C            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	randomState  int64   // Random seed
	maxIter      int     // Maximum iterations
	warmStart    bool    // Reuse previous solution
	tol          float64 // Tolerance for stopping

	// Model parameters
	coef_      *mat.Dense    // Coefficients (n_classes x n_features or 1 x n_features for binary)
	intercept_ *mat.VecDense // Intercept terms; nil when fitIntercept is false and nothing was injected
	classes_   []int         // Unique class labels
	nIter_     []int         // Actual iterations per coefficient row

	logger log.Logger
	rand   *rand.Rand
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		randomState:  -1,
		maxIter:      100,
		warmStart:    false,
		tol:          1e-4,
	}

	for _, opt := range opts {
		opt(lr)
	}

	if lr.randomState >= 0 {
		lr.rand = rand.New(rand.NewSource(lr.randomState))
	} else {
		lr.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if lr.logger == nil {
		lr.logger = log.GetLoggerWithName("LogisticRegression")
	}

	return lr
}

// Option functions

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState sets the random seed
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// WithLRWarmStart makes Fit continue from the current parameters
func WithLRWarmStart(warmStart bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.warmStart = warmStart
	}
}

// WithLRLogger sets the logger used for fit progress
func WithLRLogger(logger log.Logger) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.logger = logger
	}
}

// Fit trains the logistic regression model
//
// ウォームスタートが有効で、既存のクラス集合が y のラベルをすべて含む場合は
// 既存の係数・切片・クラスから学習を継続する。一部のクラスしか含まない
// データ分割でも、事前に設定したクラス数のまま学習できる。
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LogisticRegression.Fit")

	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if err := errors.CheckMatrix("LogisticRegression.Fit", X); err != nil {
		return err
	}

	labels := uniqueLabels(y)
	if !lr.canWarmStart(labels, nFeatures) {
		lr.classes_ = labels
		lr.initializeWeights(nFeatures)
	}
	if len(lr.classes_) < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			"this solver needs samples of at least 2 classes in the data")
	}
	if lr.fitIntercept && lr.intercept_ == nil {
		rows, _ := lr.coef_.Dims()
		lr.intercept_ = mat.NewVecDense(rows, nil)
	}
	rows, _ := lr.coef_.Dims()
	lr.nIter_ = make([]int, rows)

	rowErrs := make([]error, rows)
	if rows == 1 {
		rowErrs[0] = lr.fitRow(X, binaryTargets(y, lr.classes_[1]), 0)
	} else {
		// One-vs-rest: 各行は独立しているので並列に学習できる
		// ゴルーチン内のパニックは Fit の Recover に届かないため行ごとに回収する
		parallel.ParallelizeWithThreshold(rows, 1, func(start, end int) {
			for k := start; k < end; k++ {
				rowErrs[k] = errors.SafeExecute("LogisticRegression.Fit", func() error {
					return lr.fitRow(X, binaryTargets(y, lr.classes_[k]), k)
				})
			}
		})
	}
	for _, err := range rowErrs {
		if err != nil {
			return err
		}
	}

	iters := 0
	for _, n := range lr.nIter_ {
		if n > iters {
			iters = n
		}
	}
	if iters >= lr.maxIter && lr.maxIter > 1 {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter,
			"gradient descent did not reach the tolerance; increase max_iter"))
	}

	lr.state.SetFitted()
	lr.state.SetDimensions(nFeatures, nSamples)
	lr.logger.Debug("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, len(lr.classes_),
		log.IterationKey, iters,
	)
	return nil
}

// canWarmStart reports whether Fit may keep the current parameters.
func (lr *LogisticRegression) canWarmStart(labels []int, nFeatures int) bool {
	if !lr.warmStart || lr.coef_ == nil || len(lr.classes_) < 2 {
		return false
	}
	rows, cols := lr.coef_.Dims()
	if cols != nFeatures {
		return false
	}
	if !rowsMatchClasses(rows, len(lr.classes_)) {
		return false
	}
	for _, l := range labels {
		i := sort.SearchInts(lr.classes_, l)
		if i == len(lr.classes_) || lr.classes_[i] != l {
			return false
		}
	}
	return true
}

// coefRows returns the number of coefficient rows for nClasses classes.
func coefRows(nClasses int) int {
	if nClasses == 2 {
		return 1
	}
	return nClasses
}

// rowsMatchClasses reports whether a coefficient matrix with rows rows can
// serve nClasses classes. A binary model may use one row or one per class.
func rowsMatchClasses(rows, nClasses int) bool {
	return rows == nClasses || rows == coefRows(nClasses)
}

// uniqueLabels returns the sorted unique labels of y.
func uniqueLabels(y mat.Matrix) []int {
	rows, _ := y.Dims()
	seen := make(map[int]struct{})
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = struct{}{}
	}

	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}

// binaryTargets encodes y as 1 for positive and 0 otherwise.
func binaryTargets(y mat.Matrix, positive int) *mat.VecDense {
	rows, _ := y.Dims()
	t := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positive {
			t.SetVec(i, 1)
		}
	}
	return t
}

// initializeWeights initializes model weights with small random values
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	rows := coefRows(len(lr.classes_))
	data := make([]float64, rows*nFeatures)
	for i := range data {
		data[i] = lr.rand.NormFloat64() * 0.01
	}
	lr.coef_ = mat.NewDense(rows, nFeatures, data)

	if lr.fitIntercept {
		lr.intercept_ = mat.NewVecDense(rows, nil)
	} else {
		lr.intercept_ = nil
	}
}

// fitRow runs gradient descent on coefficient row k against binary targets.
// It stops with a NumericalInstabilityError when the gradient overflows.
func (lr *LogisticRegression) fitRow(X mat.Matrix, target *mat.VecDense, k int) error {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef_.RawRowView(k)

	intercept := 0.0
	if lr.intercept_ != nil {
		intercept = lr.intercept_.AtVec(k)
	}

	baseLearningRate := 1.0
	gradWeights := make([]float64, nFeatures)

	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - target.AtVec(i)
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)
		if err := errors.CheckNumericalStability("LogisticRegression.Fit", append(gradWeights, gradIntercept), iter); err != nil {
			return err
		}

		if lr.penalty == "l2" {
			lambda := 1.0 / lr.C
			for j := range weights {
				gradWeights[j] += lambda * weights[j]
			}
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))

		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			intercept -= learningRate * gradIntercept
		}

		lr.nIter_[k] = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			break
		}
	}

	if lr.intercept_ != nil {
		lr.intercept_.SetVec(k, intercept)
	}
	return nil
}

// decisionFunction returns X·coefᵀ + intercept (n_samples × n_rows).
func (lr *LogisticRegression) decisionFunction(X mat.Matrix) (*mat.Dense, error) {
	nSamples, nFeatures := X.Dims()
	rows, cols := lr.coef_.Dims()
	if nFeatures != cols {
		return nil, errors.NewDimensionError("LogisticRegression.Predict", cols, nFeatures, 1)
	}
	if n := len(lr.classes_); n > 0 && !rowsMatchClasses(rows, n) {
		return nil, errors.NewValidationError("classes", "does not match the coefficient rows", n)
	}
	if nSamples == 0 {
		return &mat.Dense{}, nil
	}

	scores := mat.NewDense(nSamples, rows, nil)
	scores.Mul(X, lr.coef_.T())
	if lr.intercept_ != nil {
		for k := 0; k < rows; k++ {
			b := lr.intercept_.AtVec(k)
			for i := 0; i < nSamples; i++ {
				scores.Set(i, k, scores.At(i, k)+b)
			}
		}
	}
	return scores, nil
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "Predict"); err != nil {
		return nil, err
	}

	scores, err := lr.decisionFunction(X)
	if err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return &mat.Dense{}, nil
	}

	classes := lr.effectiveClasses()
	_, rows := scores.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)

	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if rows == 1 {
				if scores.At(i, 0) >= 0 {
					predictions.Set(i, 0, float64(classes[1]))
				} else {
					predictions.Set(i, 0, float64(classes[0]))
				}
				continue
			}
			best := 0
			for k := 1; k < rows; k++ {
				if scores.At(i, k) > scores.At(i, best) {
					best = k
				}
			}
			predictions.Set(i, 0, float64(classes[best]))
		}
	})

	return predictions, nil
}

// PredictProba returns probability estimates for each class
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}

	scores, err := lr.decisionFunction(X)
	if err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return &mat.Dense{}, nil
	}

	_, rows := scores.Dims()
	nClasses := len(lr.effectiveClasses())
	probas := mat.NewDense(nSamples, nClasses, nil)

	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if rows == 1 {
				p := sigmoid(scores.At(i, 0))
				probas.Set(i, 0, 1.0-p)
				probas.Set(i, 1, p)
				continue
			}

			// Multiclass using softmax
			maxScore := -math.MaxFloat64
			for k := 0; k < rows; k++ {
				maxScore = math.Max(maxScore, scores.At(i, k))
			}
			sum := 0.0
			for k := 0; k < rows; k++ {
				e := errors.StabilizeExp(scores.At(i, k) - maxScore)
				probas.Set(i, k, e)
				sum += e
			}
			for k := 0; k < rows; k++ {
				probas.Set(i, k, probas.At(i, k)/sum)
			}
		}
	})

	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	score, err := metrics.Accuracy(y, predictions)
	if err != nil {
		return 0, err
	}
	lr.logger.Debug("scored",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseEvaluation,
		log.AccuracyKey, score,
	)
	return score, nil
}

// effectiveClasses returns classes_, or 0..n-1 derived from the coefficient
// shape when parameters were injected without class labels.
func (lr *LogisticRegression) effectiveClasses() []int {
	if len(lr.classes_) > 0 {
		return lr.classes_
	}
	rows, _ := lr.coef_.Dims()
	n := rows
	if rows == 1 {
		n = 2
	}
	classes := make([]int, n)
	for i := range classes {
		classes[i] = i
	}
	return classes
}

// FitIntercept reports whether the model fits an intercept.
func (lr *LogisticRegression) FitIntercept() bool {
	return lr.fitIntercept
}

// Coef returns a copy of the coefficient matrix, or nil before fitting.
func (lr *LogisticRegression) Coef() *mat.Dense {
	if lr.coef_ == nil {
		return nil
	}
	return mat.DenseCopyOf(lr.coef_)
}

// Intercept returns a copy of the intercept vector, or nil when absent.
func (lr *LogisticRegression) Intercept() *mat.VecDense {
	if lr.intercept_ == nil {
		return nil
	}
	return mat.VecDenseCopyOf(lr.intercept_)
}

// Classes returns a copy of the known class labels.
func (lr *LogisticRegression) Classes() []int {
	if lr.classes_ == nil {
		return nil
	}
	return append([]int(nil), lr.classes_...)
}

// NIter returns the number of iterations run per coefficient row in the last Fit.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter_...)
}

// SetCoef replaces the coefficient matrix and marks the model fitted.
// The matrix is copied.
func (lr *LogisticRegression) SetCoef(coef *mat.Dense) error {
	if coef == nil || coef.IsEmpty() {
		return errors.NewValidationError("coef", "must be a non-empty matrix", nil)
	}
	if err := errors.CheckMatrix("LogisticRegression.SetCoef", coef); err != nil {
		return err
	}
	rows, cols := coef.Dims()
	if lr.intercept_ != nil && lr.intercept_.Len() != rows {
		// 形状が変わる場合、古い切片は使えない
		lr.intercept_ = nil
	}

	lr.coef_ = mat.DenseCopyOf(coef)
	lr.state.SetFitted()
	lr.state.SetDimensions(cols, 0)
	return nil
}

// SetIntercept replaces the intercept vector. nil clears it.
func (lr *LogisticRegression) SetIntercept(intercept *mat.VecDense) error {
	if intercept == nil {
		lr.intercept_ = nil
		return nil
	}
	if lr.coef_ != nil {
		rows, _ := lr.coef_.Dims()
		if intercept.Len() != rows {
			return errors.NewDimensionError("LogisticRegression.SetIntercept", rows, intercept.Len(), 0)
		}
	}
	if err := errors.CheckMatrix("LogisticRegression.SetIntercept", intercept); err != nil {
		return err
	}
	lr.intercept_ = mat.VecDenseCopyOf(intercept)
	return nil
}

// SetClasses replaces the class labels. Labels are stored sorted.
func (lr *LogisticRegression) SetClasses(classes []int) error {
	if len(classes) < 2 {
		return errors.NewValidationError("classes", "need at least 2 classes", len(classes))
	}
	sorted := append([]int(nil), classes...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return errors.NewValidationError("classes", "duplicate class label", sorted[i])
		}
	}
	lr.classes_ = sorted
	return nil
}

// IsWarmStart implements model.WarmStarter.
func (lr *LogisticRegression) IsWarmStart() bool {
	return lr.warmStart
}

// SetWarmStart implements model.WarmStarter.
func (lr *LogisticRegression) SetWarmStart(warmStart bool) {
	lr.warmStart = warmStart
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"random_state":  lr.randomState,
		"max_iter":      lr.maxIter,
		"warm_start":    lr.warmStart,
		"tol":           lr.tol,
	}
}

// SetParams sets the model hyperparameters
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		var ok bool
		switch key {
		case "penalty":
			lr.penalty, ok = value.(string)
		case "C":
			lr.C, ok = value.(float64)
		case "fit_intercept":
			lr.fitIntercept, ok = value.(bool)
		case "random_state":
			lr.randomState, ok = value.(int64)
			if ok && lr.randomState >= 0 {
				lr.rand = rand.New(rand.NewSource(lr.randomState))
			}
		case "max_iter":
			lr.maxIter, ok = value.(int)
		case "warm_start":
			lr.warmStart, ok = value.(bool)
		case "tol":
			lr.tol, ok = value.(float64)
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
		if !ok {
			return errors.NewValidationError(key, "invalid type", value)
		}
	}
	return nil
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

var (
	_ model.LinearClassifier = (*LogisticRegression)(nil)
	_ model.WarmStarter      = (*LogisticRegression)(nil)
)
