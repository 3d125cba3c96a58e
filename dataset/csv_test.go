package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const trainCSV = `itching,skin_rash,prognosis,
1,0,Fungal infection,
0,1,Allergy,
1,1,Fungal infection,
0,0,GERD,
`

const testCSV = `itching,skin_rash,prognosis
0,1,Allergy
1,0,GERD
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReadCSV_DropsUnnamedColumns(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,Unnamed: 1,b,\n1,x,2,\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"a", "b"}) {
		t.Errorf("Columns = %v, want [a b]", table.Columns)
	}
	if !reflect.DeepEqual(table.Rows, [][]string{{"1", "2"}}) {
		t.Errorf("Rows = %v", table.Rows)
	}

	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("ReadCSV(empty) should fail")
	}
}

func TestCSVPreparer_PrepareData(t *testing.T) {
	dir := t.TempDir()
	p := NewCSVPreparer(
		writeFile(t, dir, "Training.csv", trainCSV),
		writeFile(t, dir, "Testing.csv", testCSV),
	)

	train, test, err := p.PrepareData()
	if err != nil {
		t.Fatalf("PrepareData() error = %v", err)
	}

	wantCols := []string{"itching", "skin_rash", "prognosis", "prognosis_encoded"}
	if !reflect.DeepEqual(train.Columns, wantCols) {
		t.Errorf("train columns = %v, want %v", train.Columns, wantCols)
	}
	if !reflect.DeepEqual(test.Columns, wantCols) {
		t.Errorf("test columns = %v, want %v", test.Columns, wantCols)
	}

	// Allergy=0, Fungal infection=1, GERD=2
	trainCodes, _ := train.Column(DefaultEncodedColumn)
	if !reflect.DeepEqual(trainCodes, []string{"1", "0", "1", "2"}) {
		t.Errorf("train codes = %v", trainCodes)
	}
	testCodes, _ := test.Column(DefaultEncodedColumn)
	if !reflect.DeepEqual(testCodes, []string{"0", "2"}) {
		t.Errorf("test codes = %v", testCodes)
	}

	if p.Encoder().NClasses() != 3 {
		t.Errorf("NClasses() = %d, want 3", p.Encoder().NClasses())
	}
}

func TestCSVPreparer_Errors(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "Training.csv", trainCSV)

	t.Run("missing file", func(t *testing.T) {
		p := NewCSVPreparer(train, filepath.Join(dir, "nope.csv"))
		if _, _, err := p.PrepareData(); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unseen test label", func(t *testing.T) {
		test := writeFile(t, dir, "unseen.csv", "itching,skin_rash,prognosis\n0,0,Malaria\n")
		p := NewCSVPreparer(train, test)
		if _, _, err := p.PrepareData(); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing label column", func(t *testing.T) {
		test := writeFile(t, dir, "nolabel.csv", "itching,skin_rash\n0,0\n")
		p := NewCSVPreparer(train, test)
		if _, _, err := p.PrepareData(); err == nil {
			t.Error("expected error")
		}
	})
}
