package federated

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

func sampleParameters() Parameters {
	return Parameters{
		Coefficients: mat.NewDense(3, 2, []float64{0.1, -0.2, 0.3, 0.4, -0.5, 0.6}),
		Intercept:    mat.NewVecDense(3, []float64{1, 2, 3}),
		Classes:      []int{0, 1, 2},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		params Parameters
	}{
		{"with intercept", sampleParameters()},
		{"without intercept", Parameters{Coefficients: mat.NewDense(1, 3, []float64{1, 2, 3})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.params.EncodeJSON(&buf, "LogisticRegression"); err != nil {
				t.Fatalf("EncodeJSON() error = %v", err)
			}

			got, err := DecodeJSON(&buf)
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if !got.EqualApprox(tt.params, 0) {
				t.Error("decoded parameters differ")
			}
			if got.Len() != tt.params.Len() {
				t.Errorf("Len() = %d, want %d", got.Len(), tt.params.Len())
			}
		})
	}
}

func TestDecodeJSON_TamperedChecksum(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleParameters().EncodeJSON(&buf, "LogisticRegression"); err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	tampered := strings.Replace(buf.String(), "0.3", "0.9", 1)

	_, err := DecodeJSON(strings.NewReader(tampered))
	if !errors.Is(err, errors.ErrChecksumMismatch) {
		t.Errorf("DecodeJSON() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestParametersFromWeights_TamperedClasses(t *testing.T) {
	w := sampleParameters().ToWeights("LogisticRegression")
	w.Classes[2] = 5

	_, err := ParametersFromWeights(w)
	if !errors.Is(err, errors.ErrChecksumMismatch) {
		t.Errorf("ParametersFromWeights() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestGobCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.gob")
	params := sampleParameters()

	if err := params.SaveParameters(path, "LogisticRegression"); err != nil {
		t.Fatalf("SaveParameters() error = %v", err)
	}
	got, err := LoadParameters(path)
	if err != nil {
		t.Fatalf("LoadParameters() error = %v", err)
	}
	if !got.EqualApprox(params, 0) {
		t.Error("loaded parameters differ")
	}

	if _, err := LoadParameters(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("LoadParameters(missing) should fail")
	}
}

func TestHash(t *testing.T) {
	a := sampleParameters()
	b := a.Clone()
	if a.Hash() != b.Hash() {
		t.Error("equal parameters should hash equally")
	}

	b.Intercept.SetVec(0, 42)
	if a.Hash() == b.Hash() {
		t.Error("different parameters should hash differently")
	}

	c := a.Clone()
	c.Classes[0] = 9
	if a.Hash() == c.Hash() {
		t.Error("different classes should hash differently")
	}

	nan := a.Clone()
	nan.Coefficients.Set(0, 0, math.NaN())
	inf := a.Clone()
	inf.Coefficients.Set(0, 0, math.Inf(-1))
	if nan.Hash() == inf.Hash() {
		t.Error("non-finite parameters should still hash by value")
	}
}
