// Package dataset provides a minimal named-column table and the CSV-backed
// preparer that yields the train and test tables of the disease dataset.
package dataset

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

// Table is a row-major table of string cells with named columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates a Table. Every row must have one cell per column.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c)
		}
		seen[c] = struct{}{}
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Wrapf(errors.NewDimensionError("NewTable", len(columns), len(row), 1), "row %d", i)
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// NRows returns the number of rows.
func (t *Table) NRows() int {
	return len(t.Rows)
}

// NCols returns the number of columns.
func (t *Table) NCols() int {
	return len(t.Columns)
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the cells of column name.
func (t *Table) Column(name string) ([]string, error) {
	j := t.ColumnIndex(name)
	if j < 0 {
		return nil, errors.NewValidationError("column", "not found", name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[j]
	}
	return values, nil
}

// ColumnFloats parses column name as float64 values.
func (t *Table) ColumnFloats(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.NewValidationError(name, "non-numeric cell", c), "row %d", i)
		}
		values[i] = v
	}
	return values, nil
}

// AddColumn appends a column. values must have one cell per row.
func (t *Table) AddColumn(name string, values []string) error {
	if t.ColumnIndex(name) >= 0 {
		return errors.NewValidationError("column", "already exists", name)
	}
	if len(values) != len(t.Rows) {
		return errors.NewDimensionError("Table.AddColumn", len(t.Rows), len(values), 0)
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// Drop returns a new Table without the named columns. Every name must exist.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[int]struct{}, len(names))
	for _, n := range names {
		j := t.ColumnIndex(n)
		if j < 0 {
			return nil, errors.NewValidationError("column", "not found", n)
		}
		drop[j] = struct{}{}
	}

	keep := make([]int, 0, len(t.Columns)-len(drop))
	for j := range t.Columns {
		if _, ok := drop[j]; !ok {
			keep = append(keep, j)
		}
	}
	return t.Select(keep), nil
}

// Select returns a new Table holding the columns at the given positions.
func (t *Table) Select(cols []int) *Table {
	out := &Table{
		Columns: make([]string, len(cols)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for k, j := range cols {
		out.Columns[k] = t.Columns[j]
	}
	for i, row := range t.Rows {
		r := make([]string, len(cols))
		for k, j := range cols {
			r[k] = row[j]
		}
		out.Rows[i] = r
	}
	return out
}

// ToDense parses every cell as float64 and returns an NRows × NCols matrix.
// An empty table yields a zero-value matrix.
func (t *Table) ToDense() (*mat.Dense, error) {
	if len(t.Rows) == 0 || len(t.Columns) == 0 {
		return &mat.Dense{}, nil
	}

	data := make([]float64, 0, len(t.Rows)*len(t.Columns))
	for i, row := range t.Rows {
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.NewValidationError(t.Columns[j], "non-numeric cell", cell), "row %d", i)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(len(t.Rows), len(t.Columns), data), nil
}
