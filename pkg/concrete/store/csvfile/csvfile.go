package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/newsprobe/concrete/pkg/concrete/report"
	"github.com/newsprobe/concrete/pkg/concrete/store"
	"github.com/newsprobe/concrete/pkg/concrete/table"
)

// sink writes the enriched table to a CSV file.
type sink struct {
	path string
}

// New creates a CSV sink writing to the given path.
func New(path string) store.Sink {
	return &sink{path: path}
}

// WriteTable writes the header and all rows. Ragged rows are padded with
// empty cells so every output row has the full column count.
func (s *sink) WriteTable(ctx context.Context, tbl *table.Table, _ *report.Run) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	width := len(tbl.Columns)
	for i, row := range tbl.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := row
		if len(out) < width {
			out = make([]string, width)
			copy(out, row)
		}
		if err := w.Write(out); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output file: %w", err)
	}
	return nil
}

// Close implements store.Sink.
func (s *sink) Close() error { return nil }
