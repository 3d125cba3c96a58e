package federated

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/dataset"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// LabelColumns names the label columns of a prepared table. Encoded holds
// the numeric label; Raw, if set, is the original label and is dropped too.
type LabelColumns struct {
	Encoded string
	Raw     string
}

// DiseaseLabelColumns returns the label columns of the disease dataset.
func DiseaseLabelColumns() LabelColumns {
	return LabelColumns{
		Encoded: dataset.DefaultEncodedColumn,
		Raw:     dataset.DefaultLabelColumn,
	}
}

// LoadDiseaseDataset loads the disease dataset through p. Labels come from
// prognosis_encoded; both prognosis columns are removed from the features.
func LoadDiseaseDataset(p dataset.Preparer) (Dataset, error) {
	return LoadDataset(p, DiseaseLabelColumns())
}

// LoadDataset loads a train/test pair through p, taking labels from
// cols.Encoded and every other column except cols.Raw as features.
func LoadDataset(p dataset.Preparer, cols LabelColumns) (Dataset, error) {
	if cols.Encoded == "" {
		return Dataset{}, errors.NewValidationError("encoded", "label column name is required", cols.Encoded)
	}

	train, test, err := p.PrepareData()
	if err != nil {
		return Dataset{}, errors.Wrap(err, "failed to prepare data")
	}

	trainXY, err := splitTable(train, cols)
	if err != nil {
		return Dataset{}, errors.Wrap(err, "train")
	}
	testXY, err := splitTable(test, cols)
	if err != nil {
		return Dataset{}, errors.Wrap(err, "test")
	}

	_, features := trainXY.X.Dims()
	log.GetLoggerWithName("federated").Info("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, trainXY.Rows(),
		log.FeaturesKey, features,
		log.TestSamplesKey, testXY.Rows(),
	)
	return Dataset{Train: trainXY, Test: testXY}, nil
}

func splitTable(t *dataset.Table, cols LabelColumns) (XY, error) {
	if t == nil {
		return XY{}, errors.NewValidationError("table", "must not be nil", nil)
	}

	labels, err := t.ColumnFloats(cols.Encoded)
	if err != nil {
		return XY{}, err
	}

	drop := []string{cols.Encoded}
	if cols.Raw != "" {
		drop = append(drop, cols.Raw)
	}
	features, err := t.Drop(drop...)
	if err != nil {
		return XY{}, err
	}
	X, err := features.ToDense()
	if err != nil {
		return XY{}, err
	}

	if len(labels) == 0 {
		return XY{X: X, Y: &mat.VecDense{}}, nil
	}
	return XY{X: X, Y: mat.NewVecDense(len(labels), labels)}, nil
}
