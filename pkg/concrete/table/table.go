package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/newsprobe/concrete/pkg/concrete/internalerr"
)

// Table is an in-memory tabular dataset: a header and string-typed rows.
// Rows may be ragged; a cell beyond a row's length is treated as absent.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadCSV loads a CSV file into a table. The first row is the header.
// Cells are kept as raw strings; only the header has whitespace and a
// possible UTF-8 BOM stripped.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("data file %s: %w", path, internalerr.ErrEmptyTable)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanHeader(cell)
	}

	return &Table{Columns: header, Rows: rows[1:]}, nil
}

// ColumnIndex returns the position of a named column, or -1 if the table
// has no such column. Matching is exact; column names are data, not config.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col) and whether the cell exists.
// Ragged rows make trailing cells absent rather than empty.
func (t *Table) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return "", false
	}
	r := t.Rows[row]
	if col >= len(r) {
		return "", false
	}
	return r[col], true
}

// AddColumn appends a column with one value per row. Short rows are padded
// with empty cells first so the new values line up.
func (t *Table) AddColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("add column %q: %w: %d values for %d rows",
			name, internalerr.ErrInvalidInput, len(values), len(t.Rows))
	}
	width := len(t.Columns)
	t.Columns = append(t.Columns, name)
	for i, row := range t.Rows {
		for len(row) < width {
			row = append(row, "")
		}
		t.Rows[i] = append(row, values[i])
	}
	return nil
}

func cleanHeader(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "\ufeff")
}
