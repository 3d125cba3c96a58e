package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
	"github.com/YuminosukeSato/scigo-fl/preprocessing"
)

const (
	// DefaultLabelColumn is the raw diagnosis column of the disease dataset.
	DefaultLabelColumn = "prognosis"

	// DefaultEncodedColumn holds the integer-encoded diagnosis.
	DefaultEncodedColumn = "prognosis_encoded"
)

// Preparer produces the train and test tables of a dataset.
type Preparer interface {
	PrepareData() (train, test *Table, err error)
}

// ReadCSV reads a CSV document with a header row.
//
// Columns with an empty header or a header starting with "Unnamed" are
// dropped; the disease dataset ships with a trailing empty column.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("ReadCSV", "empty data", errors.ErrEmptyData)
	}

	header := records[0]
	keep := make([]int, 0, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "Unnamed") {
			continue
		}
		header[j] = name
		keep = append(keep, j)
	}

	raw := &Table{Columns: header, Rows: records[1:]}
	selected := raw.Select(keep)
	return NewTable(selected.Columns, selected.Rows)
}

// ReadCSVFile reads the CSV file at path.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return t, nil
}

// CSVPreparer loads train and test CSV files and adds an encoded label column.
//
// The encoder is fitted on the training labels only; a test label that never
// appears in training is an error.
type CSVPreparer struct {
	TrainPath     string
	TestPath      string
	LabelColumn   string
	EncodedColumn string

	encoder *preprocessing.LabelEncoder
}

// NewCSVPreparer creates a CSVPreparer with the disease dataset's column names.
func NewCSVPreparer(trainPath, testPath string) *CSVPreparer {
	return &CSVPreparer{
		TrainPath:     trainPath,
		TestPath:      testPath,
		LabelColumn:   DefaultLabelColumn,
		EncodedColumn: DefaultEncodedColumn,
	}
}

// PrepareData implements Preparer.
func (p *CSVPreparer) PrepareData() (train, test *Table, err error) {
	logger := log.GetLoggerWithName("dataset")

	train, err = ReadCSVFile(p.TrainPath)
	if err != nil {
		return nil, nil, err
	}
	test, err = ReadCSVFile(p.TestPath)
	if err != nil {
		return nil, nil, err
	}

	labels, err := train.Column(p.LabelColumn)
	if err != nil {
		return nil, nil, err
	}
	p.encoder = preprocessing.NewLabelEncoder()
	if err := p.encoder.Fit(labels); err != nil {
		return nil, nil, err
	}

	for _, t := range []*Table{train, test} {
		if err := p.encode(t); err != nil {
			return nil, nil, err
		}
	}

	logger.Info("dataset prepared",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, train.NRows(),
		log.FeaturesKey, train.NCols()-2,
		log.ClassesKey, p.encoder.NClasses(),
	)
	return train, test, nil
}

func (p *CSVPreparer) encode(t *Table) error {
	labels, err := t.Column(p.LabelColumn)
	if err != nil {
		return err
	}
	codes, err := p.encoder.Transform(labels)
	if err != nil {
		return err
	}
	cells := make([]string, len(codes))
	for i, c := range codes {
		cells[i] = strconv.Itoa(c)
	}
	return t.AddColumn(p.EncodedColumn, cells)
}

// Encoder returns the label encoder fitted by the last PrepareData call.
func (p *CSVPreparer) Encoder() *preprocessing.LabelEncoder {
	return p.encoder
}
