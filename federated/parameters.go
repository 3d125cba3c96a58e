package federated

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// Parameters is the transmissible state of a linear classifier.
type Parameters struct {
	// Coefficients is n_classes × n_features (1 × n_features for a binary model).
	Coefficients *mat.Dense

	// Intercept has one entry per coefficient row. nil when the model does
	// not fit an intercept.
	Intercept *mat.VecDense

	// Classes is the class-label set. Applied only when non-empty.
	Classes []int
}

// Len returns the number of arrays carried: 2 with an intercept, 1 without.
func (p Parameters) Len() int {
	if p.Intercept == nil {
		return 1
	}
	return 2
}

// Matrices returns the arrays in transmission order, coefficients first.
func (p Parameters) Matrices() []mat.Matrix {
	out := []mat.Matrix{p.Coefficients}
	if p.Intercept != nil {
		out = append(out, p.Intercept)
	}
	return out
}

// Shape returns the coefficient matrix dimensions.
func (p Parameters) Shape() (nClasses, nFeatures int) {
	if p.Coefficients == nil || p.Coefficients.IsEmpty() {
		return 0, 0
	}
	return p.Coefficients.Dims()
}

// Clone returns a deep copy.
func (p Parameters) Clone() Parameters {
	var out Parameters
	if p.Coefficients != nil && !p.Coefficients.IsEmpty() {
		out.Coefficients = mat.DenseCopyOf(p.Coefficients)
	}
	if p.Intercept != nil && !p.Intercept.IsEmpty() {
		out.Intercept = mat.VecDenseCopyOf(p.Intercept)
	}
	if p.Classes != nil {
		out.Classes = append([]int(nil), p.Classes...)
	}
	return out
}

// Validate checks that the coefficients are present and finite, that the
// intercept, if any, has one entry per coefficient row, and that the classes,
// if any, are distinct and fit the coefficient rows.
func (p Parameters) Validate() error {
	rows, _ := p.Shape()
	if rows == 0 {
		return errors.NewValidationError("coefficients", "must be a non-empty matrix", nil)
	}
	if err := errors.CheckMatrix("Parameters.Validate", p.Coefficients); err != nil {
		return err
	}
	if p.Intercept != nil {
		if p.Intercept.Len() != rows {
			return errors.NewDimensionError("Parameters.Validate", rows, p.Intercept.Len(), 0)
		}
		if err := errors.CheckMatrix("Parameters.Validate", p.Intercept); err != nil {
			return err
		}
	}
	return validateClasses(p.Classes, rows)
}

// validateClasses checks a class set against the coefficient rows. A binary
// model may carry one row or one row per class.
func validateClasses(classes []int, rows int) error {
	n := len(classes)
	if n == 0 {
		return nil
	}
	if n < 2 {
		return errors.NewValidationError("classes", "need at least 2 classes", classes)
	}
	seen := make(map[int]struct{}, n)
	for _, c := range classes {
		if _, dup := seen[c]; dup {
			return errors.NewValidationError("classes", "must be distinct", classes)
		}
		seen[c] = struct{}{}
	}
	if rows != n && !(n == 2 && rows == 1) {
		return errors.NewDimensionError("Parameters.Validate", rows, n, 0)
	}
	return nil
}

// EqualApprox reports whether p and q carry the same arrays within tol.
func (p Parameters) EqualApprox(q Parameters, tol float64) bool {
	pr, pc := p.Shape()
	qr, qc := q.Shape()
	if pr != qr || pc != qc {
		return false
	}
	if pr > 0 && !mat.EqualApprox(p.Coefficients, q.Coefficients, tol) {
		return false
	}
	if (p.Intercept == nil) != (q.Intercept == nil) {
		return false
	}
	if p.Intercept != nil {
		if p.Intercept.Len() != q.Intercept.Len() {
			return false
		}
		if !floats.EqualApprox(p.Intercept.RawVector().Data, q.Intercept.RawVector().Data, tol) {
			return false
		}
	}
	if len(p.Classes) != len(q.Classes) {
		return false
	}
	for i := range p.Classes {
		if p.Classes[i] != q.Classes[i] {
			return false
		}
	}
	return true
}

// GetModelParameters returns copies of the model's coefficients, its
// intercept when the model fits one, and its classes.
func GetModelParameters(m Model) (Parameters, error) {
	coef := m.Coef()
	if coef == nil || coef.IsEmpty() {
		return Parameters{}, errors.NewNotFittedError(modelName(m), "GetModelParameters")
	}

	params := Parameters{
		Coefficients: mat.DenseCopyOf(coef),
	}
	if m.FitIntercept() {
		intercept := m.Intercept()
		if intercept == nil {
			return Parameters{}, errors.NewNotFittedError(modelName(m), "GetModelParameters")
		}
		params.Intercept = mat.VecDenseCopyOf(intercept)
	}
	if classes := m.Classes(); len(classes) > 0 {
		params.Classes = append([]int(nil), classes...)
	}

	rows, cols := params.Shape()
	log.GetLoggerWithName("federated").Debug("parameters extracted",
		log.OperationKey, log.OperationGetParams,
		log.ModelNameKey, modelName(m),
		log.ClassesKey, rows,
		log.FeaturesKey, cols,
		log.FitInterceptKey, params.Intercept != nil,
	)
	return params, nil
}

// SetModelParams writes p into m and returns m.
//
// The coefficients are always replaced. The intercept is replaced only when
// the model fits one, in which case p must carry it. Classes are replaced
// only when p has them. Nothing is written when validation fails.
func SetModelParams[M Model](m M, p Parameters) (M, error) {
	return m, p.ApplyTo(m)
}

// ApplyTo writes p into m. See SetModelParams.
func (p Parameters) ApplyTo(m Model) (err error) {
	defer errors.Recover(&err, "federated.ApplyTo")

	if err := p.Validate(); err != nil {
		return err
	}
	if m.FitIntercept() && p.Intercept == nil {
		return errors.NewValidationError("intercept", "required when the model fits an intercept", nil)
	}

	if err := m.SetCoef(p.Coefficients); err != nil {
		return errors.Wrap(err, "failed to set coefficients")
	}
	if m.FitIntercept() {
		if err := m.SetIntercept(p.Intercept); err != nil {
			return errors.Wrap(err, "failed to set intercept")
		}
	}
	if len(p.Classes) > 0 {
		if err := m.SetClasses(p.Classes); err != nil {
			return errors.Wrap(err, "failed to set classes")
		}
	}

	rows, cols := p.Shape()
	log.GetLoggerWithName("federated").Debug("parameters applied",
		log.OperationKey, log.OperationSetParams,
		log.ModelNameKey, modelName(m),
		log.ClassesKey, rows,
		log.FeaturesKey, cols,
		log.FitInterceptKey, m.FitIntercept(),
	)
	return nil
}
