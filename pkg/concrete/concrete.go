// Package concrete enriches tabular text data with concreteness scores.
//
// A lexicon of per-word and per-phrase ratings is built once, then every
// requested text column is scored row by row and written back as a new
// avg_conc_<field> column. Scoring is a pure function of (text, lexicon),
// so rows are scored independently, optionally in parallel.
package concrete

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/newsprobe/concrete/pkg/concrete/lexicon"
	"github.com/newsprobe/concrete/pkg/concrete/report"
	"github.com/newsprobe/concrete/pkg/concrete/score"
	"github.com/newsprobe/concrete/pkg/concrete/table"
)

// ScoreColumnPrefix is prepended to a field name to form its output column.
const ScoreColumnPrefix = "avg_conc_"

// Engine is the scoring facade.
type Engine struct {
	scorer  *score.Scorer
	reports *report.Builder
	workers int
}

// Options configures an Engine.
type Options struct {
	Lexicon *lexicon.Lexicon
	// Workers bounds the number of goroutines scoring rows of one column.
	// Values below 1 mean sequential scoring.
	Workers int
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		scorer:  score.New(opts.Lexicon),
		reports: report.NewBuilder(),
		workers: workers,
	}
}

// EnrichTable scores every requested field present in the table and appends
// one avg_conc_<field> column per field, preserving row order. Requested
// fields missing from the header are skipped with a warning; that is a soft
// policy, not an error. Returns the run report.
func (e *Engine) EnrichTable(ctx context.Context, source string, tbl *table.Table, fields []string) (*report.Run, error) {
	run := e.reports.Start(source, len(tbl.Rows))

	for _, field := range fields {
		col := tbl.ColumnIndex(field)
		if col < 0 {
			log.Printf("Warning: field %q not found in the data", field)
			run.AddSkipped(field)
			continue
		}

		scores := e.scoreColumn(ctx, tbl, col)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outCol := ScoreColumnPrefix + field
		if err := tbl.AddColumn(outCol, formatScores(scores)); err != nil {
			return nil, err
		}
		run.AddField(field, outCol, scores)
		log.Printf("Scored field %q: %d rows", field, len(scores))
	}

	run.Finish()
	return run, nil
}

// scoreColumn scores one cell per row. Rows are independent and the lexicon
// is read-only, so they are fanned out across the worker pool; results land
// in an index-addressed slice, which keeps output order equal to input order.
func (e *Engine) scoreColumn(ctx context.Context, tbl *table.Table, col int) []float64 {
	scores := make([]float64, len(tbl.Rows))

	if e.workers == 1 {
		for i := range tbl.Rows {
			scores[i] = e.scoreCell(tbl, i, col)
		}
		return scores
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				scores[i] = e.scoreCell(tbl, i, col)
			}
		}()
	}

feed:
	for i := range tbl.Rows {
		select {
		case rows <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(rows)
	wg.Wait()

	return scores
}

// scoreCell treats an absent cell (ragged row) like a non-string value.
func (e *Engine) scoreCell(tbl *table.Table, row, col int) float64 {
	text, ok := tbl.Cell(row, col)
	if !ok {
		return score.Sentinel
	}
	return e.scorer.Score(text)
}

func formatScores(scores []float64) []string {
	out := make([]string, len(scores))
	for i, v := range scores {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}
