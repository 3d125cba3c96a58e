package federated

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/core/model"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// ToWeights converts p into the wire struct, with its checksum filled in.
func (p Parameters) ToWeights(modelType string) *model.ModelWeights {
	rows, cols := p.Shape()
	w := &model.ModelWeights{
		ModelType:    modelType,
		Version:      model.WeightsVersion,
		Coefficients: make([][]float64, rows),
		FitIntercept: p.Intercept != nil,
	}
	for i := 0; i < rows; i++ {
		w.Coefficients[i] = make([]float64, cols)
		mat.Row(w.Coefficients[i], i, p.Coefficients)
	}
	if p.Intercept != nil {
		w.Intercept = make([]float64, p.Intercept.Len())
		for i := range w.Intercept {
			w.Intercept[i] = p.Intercept.AtVec(i)
		}
	}
	if len(p.Classes) > 0 {
		w.Classes = append([]int(nil), p.Classes...)
	}
	w.Checksum = w.ComputeChecksum()
	return w
}

// ParametersFromWeights validates w, verifies its checksum and converts it
// into Parameters.
func ParametersFromWeights(w *model.ModelWeights) (Parameters, error) {
	if w == nil {
		return Parameters{}, errors.NewValidationError("weights", "must not be nil", nil)
	}
	if err := w.Validate(); err != nil {
		return Parameters{}, err
	}
	if err := w.VerifyChecksum(); err != nil {
		return Parameters{}, err
	}

	rows, cols := w.Shape()
	data := make([]float64, 0, rows*cols)
	for _, row := range w.Coefficients {
		data = append(data, row...)
	}

	p := Parameters{Coefficients: mat.NewDense(rows, cols, data)}
	if w.FitIntercept {
		p.Intercept = mat.NewVecDense(rows, append([]float64(nil), w.Intercept...))
	}
	if len(w.Classes) > 0 {
		p.Classes = append([]int(nil), w.Classes...)
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Hash returns the sha256 of the coefficients, intercept and classes.
// Non-finite values hash by their bit patterns.
func (p Parameters) Hash() string {
	return p.ToWeights("").Checksum
}

// EncodeJSON writes p as indented JSON.
func (p Parameters) EncodeJSON(w io.Writer, modelType string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	weights := p.ToWeights(modelType)
	data, err := weights.ToJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write parameters")
	}

	log.GetLoggerWithName("federated").Debug("parameters encoded",
		log.ModelNameKey, modelType,
		log.ChecksumKey, weights.Checksum,
	)
	return nil
}

// DecodeJSON reads parameters written by EncodeJSON.
func DecodeJSON(r io.Reader) (Parameters, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Parameters{}, errors.Wrap(err, "failed to read parameters")
	}
	var weights model.ModelWeights
	if err := weights.FromJSON(data); err != nil {
		return Parameters{}, err
	}
	return ParametersFromWeights(&weights)
}

// SaveParameters writes p to path as a gob checkpoint.
func (p Parameters) SaveParameters(path, modelType string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return model.SaveModel(p.ToWeights(modelType), path)
}

// LoadParameters reads a checkpoint written by SaveParameters.
func LoadParameters(path string) (Parameters, error) {
	var weights model.ModelWeights
	if err := model.LoadModel(&weights, path); err != nil {
		return Parameters{}, err
	}
	return ParametersFromWeights(&weights)
}
