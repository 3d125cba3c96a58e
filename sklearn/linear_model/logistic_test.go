package linear_model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

// TestLogisticRegression_FitPredict_Binary tests binary classification
func TestLogisticRegression_FitPredict_Binary(t *testing.T) {
	// Create simple linearly separable data
	// Class 0: points around (1, 1)
	// Class 1: points around (3, 3)
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})

	y := mat.NewDense(6, 1, []float64{
		0, 0, 0, // Class 0
		1, 1, 1, // Class 1
	})

	// Create and train model
	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRTol(1e-4),
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	// Test predictions on training data
	predictions, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	// Check predictions
	for i := 0; i < 6; i++ {
		pred := predictions.At(i, 0)
		actual := y.At(i, 0)
		if pred != actual {
			t.Errorf("Sample %d: expected %v, got %v", i, actual, pred)
		}
	}

	// Test on new data
	XTest := mat.NewDense(2, 2, []float64{
		1.0, 1.0, // Should be class 0
		3.0, 3.0, // Should be class 1
	})

	testPreds, err := lr.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict on test data: %v", err)
	}

	if testPreds.At(0, 0) != 0 {
		t.Errorf("Test point (1,1) should be class 0, got %v", testPreds.At(0, 0))
	}

	if testPreds.At(1, 0) != 1 {
		t.Errorf("Test point (3,3) should be class 1, got %v", testPreds.At(1, 0))
	}
}

// TestLogisticRegression_PredictProba tests probability predictions
func TestLogisticRegression_PredictProba(t *testing.T) {
	// Simple data
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})

	y := mat.NewDense(4, 1, []float64{
		0, 0, 1, 1,
	})

	lr := NewLogisticRegression(
		WithLRMaxIter(500),
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := probas.Dims()
	if rows != 4 || cols != 2 {
		t.Errorf("Expected probas shape (4, 2), got (%d, %d)", rows, cols)
	}

	// Check that probabilities sum to 1
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			prob := probas.At(i, j)
			if prob < 0 || prob > 1 {
				t.Errorf("Invalid probability at (%d, %d): %v", i, j, prob)
			}
			sum += prob
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Probabilities for sample %d don't sum to 1: %v", i, sum)
		}
	}

	// Check that higher probability corresponds to predicted class
	predictions, _ := lr.Predict(X)
	for i := 0; i < rows; i++ {
		pred := int(predictions.At(i, 0))
		prob0 := probas.At(i, 0)
		prob1 := probas.At(i, 1)

		if pred == 0 && prob0 <= prob1 {
			t.Errorf("Sample %d: predicted class 0 but P(0)=%v <= P(1)=%v", i, prob0, prob1)
		}
		if pred == 1 && prob1 <= prob0 {
			t.Errorf("Sample %d: predicted class 1 but P(1)=%v <= P(0)=%v", i, prob1, prob0)
		}
	}
}

// TestLogisticRegression_Score tests accuracy calculation
func TestLogisticRegression_Score(t *testing.T) {
	// Create XOR-like data (not linearly separable, but we'll use more features)
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0, 0, 1,
		0, 1, 0,
		0, 1, 1,
		1, 0, 0,
		1, 0, 1,
		1, 1, 0,
		1, 1, 1,
	})

	// Simple pattern: class 1 if sum of features > 1.5
	y := mat.NewDense(8, 1, []float64{
		0, 0, 0, 1, 0, 1, 1, 1,
	})

	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRC(10.0), // Less regularization for better fit
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.75 { // Should achieve at least 75% accuracy
		t.Errorf("Score too low: %v", score)
	}

	// Perfect classification test with better separated data
	XSimple := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		3, 3,
		3, 4,
		4, 3,
	})
	ySimple := mat.NewDense(6, 1, []float64{
		0, 0, 0, // Class 0 (lower values)
		1, 1, 1, // Class 1 (higher values)
	})

	lr2 := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRC(10.0), // Less regularization for better fit
	)
	if err := lr2.Fit(XSimple, ySimple); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	scoreSimple, err := lr2.Score(XSimple, ySimple)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if scoreSimple != 1.0 {
		t.Errorf("Expected perfect score for linearly separable data, got %v", scoreSimple)
	}
}

// TestLogisticRegression_Regularization tests L2 regularization
func TestLogisticRegression_Regularization(t *testing.T) {
	// Create data with many features (prone to overfitting)
	X := mat.NewDense(10, 5, []float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
		1, 1, 0, 0, 0,
		0, 1, 1, 0, 0,
		0, 0, 1, 1, 0,
		0, 0, 0, 1, 1,
		1, 0, 0, 0, 1,
	})

	y := mat.NewDense(10, 1, []float64{
		0, 0, 0, 1, 1, 0, 0, 1, 1, 1,
	})

	// Train with strong regularization
	lrStrong := NewLogisticRegression(
		WithLRC(0.01), // Strong regularization (small C)
		WithLRMaxIter(1000),
	)
	if err := lrStrong.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	// Train with weak regularization
	lrWeak := NewLogisticRegression(
		WithLRC(100.0), // Weak regularization (large C)
		WithLRMaxIter(1000),
	)
	if err := lrWeak.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	// Check that strong regularization produces smaller weights
	strongNorm := mat.Norm(lrStrong.Coef(), 2)
	weakNorm := mat.Norm(lrWeak.Coef(), 2)

	if strongNorm >= weakNorm {
		t.Errorf("Strong regularization should produce smaller weights: strong=%v, weak=%v",
			strongNorm, weakNorm)
	}
}

// TestLogisticRegression_Multiclass tests multiclass classification
func TestLogisticRegression_Multiclass(t *testing.T) {
	// Create 3-class data
	X := mat.NewDense(9, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		2, 2,
		2, 3,
		3, 2,
		4, 4,
		4, 5,
		5, 4,
	})

	y := mat.NewDense(9, 1, []float64{
		0, 0, 0, // Class 0
		1, 1, 1, // Class 1
		2, 2, 2, // Class 2
	})

	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRC(10.0),
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit multiclass model: %v", err)
	}

	// Check that we have 3 classes
	if len(lr.Classes()) != 3 {
		t.Errorf("Expected 3 classes, got %d", len(lr.Classes()))
	}
	if r, c := lr.Coef().Dims(); r != 3 || c != 2 {
		t.Errorf("Expected coef shape (3, 2), got (%d, %d)", r, c)
	}

	// Check predictions
	predictions, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	correct := 0
	for i := 0; i < 9; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}

	accuracy := float64(correct) / 9.0
	if accuracy < 0.89 { // Should achieve at least 89% accuracy (8/9)
		t.Errorf("Multiclass accuracy too low: %v", accuracy)
	}

	// Test probability predictions
	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := probas.Dims()
	if cols != 3 {
		t.Errorf("Expected 3 probability columns, got %d", cols)
	}

	// Check probability constraints
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			prob := probas.At(i, j)
			if prob < 0 || prob > 1 {
				t.Errorf("Invalid probability at (%d, %d): %v", i, j, prob)
			}
			sum += prob
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Probabilities for sample %d don't sum to 1: %v", i, sum)
		}
	}
}

// TestLogisticRegression_GetSetParams tests parameter management
func TestLogisticRegression_GetSetParams(t *testing.T) {
	lr := NewLogisticRegression()

	// Get default params
	params := lr.GetParams()

	// Check some defaults
	if params["C"].(float64) != 1.0 {
		t.Errorf("Default C should be 1.0, got %v", params["C"])
	}

	if params["max_iter"].(int) != 100 {
		t.Errorf("Default max_iter should be 100, got %v", params["max_iter"])
	}

	// Set new params
	newParams := map[string]interface{}{
		"C":        2.0,
		"max_iter": 200,
		"penalty":  "none",
		"tol":      1e-5,
	}

	err := lr.SetParams(newParams)
	if err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	// Verify changes
	if lr.C != 2.0 {
		t.Errorf("C not updated: expected 2.0, got %v", lr.C)
	}

	if lr.maxIter != 200 {
		t.Errorf("max_iter not updated: expected 200, got %v", lr.maxIter)
	}

	if lr.penalty != "none" {
		t.Errorf("penalty not updated: expected 'none', got %v", lr.penalty)
	}

	if lr.tol != 1e-5 {
		t.Errorf("tol not updated: expected 1e-5, got %v", lr.tol)
	}
}

// TestLogisticRegression_NotFitted tests error when predicting without fitting
func TestLogisticRegression_NotFitted(t *testing.T) {
	lr := NewLogisticRegression()

	X := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	_, err := lr.Predict(X)
	if err == nil {
		t.Error("Expected error when predicting without fitting")
	}

	_, err = lr.PredictProba(X)
	if err == nil {
		t.Error("Expected error when predicting probabilities without fitting")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("Expected NotFittedError, got %T", err)
	}
}

// TestLogisticRegression_InjectedParameters tests predicting with parameters set from outside
func TestLogisticRegression_InjectedParameters(t *testing.T) {
	lr := NewLogisticRegression()

	// Class k wins when feature k is the largest
	coef := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	if err := lr.SetCoef(coef); err != nil {
		t.Fatalf("SetCoef failed: %v", err)
	}
	if err := lr.SetIntercept(mat.NewVecDense(3, []float64{0, 0, 0})); err != nil {
		t.Fatalf("SetIntercept failed: %v", err)
	}
	if err := lr.SetClasses([]int{10, 20, 30}); err != nil {
		t.Fatalf("SetClasses failed: %v", err)
	}

	X := mat.NewDense(3, 3, []float64{
		5, 0, 0,
		0, 5, 0,
		0, 0, 5,
	})
	predictions, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, want := range []float64{10, 20, 30} {
		if got := predictions.At(i, 0); got != want {
			t.Errorf("Sample %d: expected %v, got %v", i, want, got)
		}
	}

	// The stored matrix is a copy
	coef.Set(0, 0, 100)
	if lr.Coef().At(0, 0) != 1 {
		t.Error("SetCoef must copy its input")
	}
}

// TestLogisticRegression_SetterValidation tests shape and value checks of the setters
func TestLogisticRegression_SetterValidation(t *testing.T) {
	lr := NewLogisticRegression()

	if err := lr.SetCoef(nil); err == nil {
		t.Error("Expected error for nil coef")
	}

	bad := mat.NewDense(1, 2, []float64{math.NaN(), 0})
	if err := lr.SetCoef(bad); err == nil {
		t.Error("Expected error for NaN coef")
	}

	if err := lr.SetCoef(mat.NewDense(2, 4, nil)); err != nil {
		t.Fatalf("SetCoef failed: %v", err)
	}
	err := lr.SetIntercept(mat.NewVecDense(3, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("Expected DimensionError for intercept length mismatch, got %v", err)
	}

	if err := lr.SetClasses([]int{1, 1}); err == nil {
		t.Error("Expected error for duplicate classes")
	}
}

// TestLogisticRegression_WarmStartKeepsClasses tests that a warm-started model
// keeps its class set when the data only covers some of the classes
func TestLogisticRegression_WarmStartKeepsClasses(t *testing.T) {
	lr := NewLogisticRegression(
		WithLRWarmStart(true),
		WithLRMaxIter(1),
	)

	classes := []int{0, 1, 2, 3}
	if err := lr.SetClasses(classes); err != nil {
		t.Fatalf("SetClasses failed: %v", err)
	}
	if err := lr.SetCoef(mat.NewDense(4, 2, nil)); err != nil {
		t.Fatalf("SetCoef failed: %v", err)
	}
	if err := lr.SetIntercept(mat.NewVecDense(4, nil)); err != nil {
		t.Fatalf("SetIntercept failed: %v", err)
	}

	// Only classes 0 and 2 are present
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		3, 3,
		3, 4,
	})
	y := mat.NewDense(4, 1, []float64{0, 0, 2, 2})

	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if got := lr.Classes(); len(got) != 4 {
		t.Errorf("Expected 4 classes to be kept, got %v", got)
	}
	if r, c := lr.Coef().Dims(); r != 4 || c != 2 {
		t.Errorf("Expected coef shape (4, 2), got (%d, %d)", r, c)
	}
	if n := lr.NIter(); len(n) != 4 || n[0] != 1 {
		t.Errorf("Expected one iteration per row, got %v", n)
	}

	// Without warm start the classes come from y
	lr.SetWarmStart(false)
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if got := lr.Classes(); len(got) != 2 {
		t.Errorf("Expected classes from y, got %v", got)
	}
	if r, _ := lr.Coef().Dims(); r != 1 {
		t.Errorf("Expected a single coefficient row for binary data, got %d", r)
	}
}

// TestLogisticRegression_NoIntercept tests that no intercept is stored when disabled
func TestLogisticRegression_NoIntercept(t *testing.T) {
	lr := NewLogisticRegression(WithLogisticFitIntercept(false), WithLRMaxIter(10))

	X := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if lr.Intercept() != nil {
		t.Error("Expected nil intercept when fit_intercept is false")
	}
	if lr.FitIntercept() {
		t.Error("FitIntercept should be false")
	}
}

// TestLogisticRegression_FitErrors tests input validation in Fit
func TestLogisticRegression_FitErrors(t *testing.T) {
	tests := []struct {
		name string
		X    mat.Matrix
		y    mat.Matrix
	}{
		{"sample mismatch", mat.NewDense(3, 2, nil), mat.NewDense(2, 1, nil)},
		{"y not a column", mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil)},
		{"single class", mat.NewDense(2, 2, nil), mat.NewDense(2, 1, []float64{1, 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLogisticRegression()
			if err := lr.Fit(tt.X, tt.y); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
// TestLogisticRegression_GradientOverflow tests that an overflowing gradient
// stops Fit with a NumericalInstabilityError on both the binary and the
// one-vs-rest paths
func TestLogisticRegression_GradientOverflow(t *testing.T) {
	tests := []struct {
		name    string
		classes []int
		rows    int
	}{
		{"binary", []int{0, 1}, 1},
		{"one-vs-rest", []int{0, 1, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLogisticRegression(WithLRWarmStart(true), WithLRMaxIter(1))
			if err := lr.SetClasses(tt.classes); err != nil {
				t.Fatalf("SetClasses failed: %v", err)
			}
			if err := lr.SetCoef(mat.NewDense(tt.rows, 1, nil)); err != nil {
				t.Fatalf("SetCoef failed: %v", err)
			}
			if err := lr.SetIntercept(mat.NewVecDense(tt.rows, nil)); err != nil {
				t.Fatalf("SetIntercept failed: %v", err)
			}

			// 有限だが勾配の和が +-Inf になる値
			X := mat.NewDense(4, 1, []float64{1e308, 1e308, 1e308, 1e308})
			y := mat.NewDense(4, 1, []float64{0, 0, 0, 0})

			err := lr.Fit(X, y)
			var numErr *errors.NumericalInstabilityError
			if !errors.As(err, &numErr) {
				t.Errorf("Expected NumericalInstabilityError, got %v", err)
			}
		})
	}
}
