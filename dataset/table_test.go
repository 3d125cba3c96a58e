package dataset

import (
	"reflect"
	"testing"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		[]string{"itching", "skin_rash", "prognosis"},
		[][]string{
			{"1", "0", "Fungal infection"},
			{"0", "1", "Allergy"},
			{"1", "1", "Fungal infection"},
		},
	)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]string
	}{
		{"duplicate column", []string{"a", "a"}, nil},
		{"ragged row", []string{"a", "b"}, [][]string{{"1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.columns, tt.rows); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTable_Column(t *testing.T) {
	table := newTestTable(t)

	got, err := table.Column("prognosis")
	if err != nil {
		t.Fatalf("Column() error = %v", err)
	}
	want := []string{"Fungal infection", "Allergy", "Fungal infection"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Column() = %v, want %v", got, want)
	}

	_, err = table.Column("missing")
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("Column(missing) = %v, want ValidationError", err)
	}

	if _, err := table.ColumnFloats("prognosis"); err == nil {
		t.Error("ColumnFloats() on text column should fail")
	}
}

func TestTable_DropAndToDense(t *testing.T) {
	table := newTestTable(t)

	features, err := table.Drop("prognosis")
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if !reflect.DeepEqual(features.Columns, []string{"itching", "skin_rash"}) {
		t.Errorf("Columns = %v", features.Columns)
	}
	// Drop never modifies the receiver
	if table.NCols() != 3 {
		t.Errorf("original NCols() = %d, want 3", table.NCols())
	}

	X, err := features.ToDense()
	if err != nil {
		t.Fatalf("ToDense() error = %v", err)
	}
	r, c := X.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("Dims() = (%d, %d), want (3, 2)", r, c)
	}
	if X.At(2, 1) != 1 || X.At(1, 0) != 0 {
		t.Errorf("unexpected values %v", X.RawMatrix().Data)
	}

	if _, err := table.Drop("missing"); err == nil {
		t.Error("Drop(missing) should fail")
	}
	if _, err := table.ToDense(); err == nil {
		t.Error("ToDense() with text column should fail")
	}
}

func TestTable_AddColumn(t *testing.T) {
	table := newTestTable(t)

	if err := table.AddColumn("code", []string{"1", "0", "1"}); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	values, err := table.ColumnFloats("code")
	if err != nil {
		t.Fatalf("ColumnFloats() error = %v", err)
	}
	if !reflect.DeepEqual(values, []float64{1, 0, 1}) {
		t.Errorf("ColumnFloats() = %v", values)
	}

	if err := table.AddColumn("code", []string{"1", "0", "1"}); err == nil {
		t.Error("duplicate AddColumn should fail")
	}
	if err := table.AddColumn("short", []string{"1"}); err == nil {
		t.Error("AddColumn with wrong length should fail")
	}
}
