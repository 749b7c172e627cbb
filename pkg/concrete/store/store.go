package store

import (
	"context"

	"github.com/newsprobe/concrete/pkg/concrete/report"
	"github.com/newsprobe/concrete/pkg/concrete/table"
)

// Sink writes an enriched table to its final destination. The run report is
// passed alongside so sinks that keep metadata (sqlite) can persist it;
// plain-file sinks ignore it.
type Sink interface {
	WriteTable(ctx context.Context, tbl *table.Table, run *report.Run) error
	Close() error
}
