// Package sheet holds the in-memory table model and the xlsx reader/writer
// behind it.
package sheet

import "strings"

// Row maps a column name to the cell value. Absent columns read as "".
type Row map[string]string

// Table is an ordered set of rows loaded from one spreadsheet sheet.
// Columns preserves the header order of the source file; Rows preserve the
// original row order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Clone returns a deep copy of the table. Batch runs mutate only the copy,
// so the input table stays intact until the run finishes.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, row := range t.Rows {
		out.Rows[i] = make(Row, len(row))
		for col, val := range row {
			out.Rows[i][col] = val
		}
	}
	return out
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Cell returns the value at (row, col), or "" when the row has no value for
// that column.
func (t *Table) Cell(row int, col string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][col]
}

// SetCell writes value at (row, col). Out-of-range rows are ignored.
func (t *Table) SetCell(row int, col, value string) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	if t.Rows[row] == nil {
		t.Rows[row] = make(Row)
	}
	t.Rows[row][col] = value
}

// IsBlank reports whether the cell at (row, col) is empty or
// whitespace-only.
func (t *Table) IsBlank(row int, col string) bool {
	return strings.TrimSpace(t.Cell(row, col)) == ""
}
