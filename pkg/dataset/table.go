// Package dataset provides the tabular representation used for stage
// artifacts: an ordered set of named string columns serialized as UTF-8 CSV
// with a header row and no index column.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// Table is a column-ordered table of string cells. Nullable fields are
// represented as empty cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Append adds a row from a column->value map. Columns missing from the map
// become empty cells; keys that are not table columns are ignored.
func (t *Table) Append(values map[string]string) {
	row := make([]string, len(t.columns))
	for name, v := range values {
		if i, ok := t.index[name]; ok {
			row[i] = v
		}
	}
	t.rows = append(t.rows, row)
}

// Get returns the cell at (row, column). Absent columns read as "".
func (t *Table) Get(row int, column string) string {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][i]
}

// Set writes the cell at (row, column). A no-op for absent columns.
func (t *Table) Set(row int, column, value string) {
	if i, ok := t.index[column]; ok && row >= 0 && row < len(t.rows) {
		t.rows[row][i] = value
	}
}

// Apply rewrites every cell of a column through fn. Absent columns are
// skipped rather than failing, so transforms tolerate schema drift.
func (t *Table) Apply(column string, fn func(string) string) {
	i, ok := t.index[column]
	if !ok {
		return
	}
	for _, row := range t.rows {
		row[i] = fn(row[i])
	}
}

// AddColumn appends a new column whose cells are derived per row. Existing
// columns of the same name are overwritten in place.
func (t *Table) AddColumn(name string, derive func(row int) string) {
	if i, ok := t.index[name]; ok {
		for r, row := range t.rows {
			row[i] = derive(r)
		}
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for r := range t.rows {
		t.rows[r] = append(t.rows[r], derive(r))
	}
}

// Concat appends all rows of other, matching columns by name. Columns of
// other that this table lacks are dropped; columns it lacks read as "".
func (t *Table) Concat(other *Table) {
	for r := 0; r < other.Len(); r++ {
		values := make(map[string]string, len(other.columns))
		for _, c := range other.columns {
			values[c] = other.Get(r, c)
		}
		t.Append(values)
	}
}

// WriteCSV serializes the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bytes returns the CSV serialization of the table.
func (t *Table) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses a table from CSV with a header row.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := New(header...)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make([]string, len(t.columns))
		copy(row, record)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// FromBytes parses a table from serialized CSV.
func FromBytes(data []byte) (*Table, error) {
	return ReadCSV(bytes.NewReader(data))
}
