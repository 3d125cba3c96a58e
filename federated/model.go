package federated

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Model is the view of a linear classifier that the helpers need.
//
// Coef and Intercept return nil when the model holds no such parameter.
// The setters copy their arguments.
type Model interface {
	FitIntercept() bool
	Coef() *mat.Dense
	Intercept() *mat.VecDense
	Classes() []int
	SetCoef(coef *mat.Dense) error
	SetIntercept(intercept *mat.VecDense) error
	SetClasses(classes []int) error
}

func modelName(m Model) string {
	return fmt.Sprintf("%T", m)
}
