// Package dataset loads the liturgy table and derives the views the
// dashboard needs from it.
//
// A Dataset is an ordered set of columns and string rows whose schema is
// discovered at load time. Datasets are treated as immutable: Head,
// Enrich and friends always return a new value and never touch their input.
package dataset

import "strings"

// Dataset is a loaded table. Every row has len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Record is one liturgy row keyed by column name.
type Record map[string]string

// New copies columns and rows into a Dataset. Short rows are padded with
// empty cells and long rows are cut to the column count.
func New(columns []string, rows [][]string) *Dataset {
	d := &Dataset{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, len(rows)),
	}
	for i, r := range rows {
		row := make([]string, len(columns))
		copy(row, r)
		d.Rows[i] = row
	}
	return d
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnIndex returns the index of name (case-insensitive) or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// Record returns row i as a column→value map.
func (d *Dataset) Record(i int) Record {
	rec := make(Record, len(d.Columns))
	for j, c := range d.Columns {
		rec[c] = d.Rows[i][j]
	}
	return rec
}

// Head returns a copy holding the first n rows. n <= 0 or n >= Len
// returns a copy of the whole dataset.
func (d *Dataset) Head(n int) *Dataset {
	if n <= 0 || n >= len(d.Rows) {
		return d.Clone()
	}
	return New(d.Columns, d.Rows[:n])
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	return New(d.Columns, d.Rows)
}
