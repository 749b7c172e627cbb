package report

import (
	"crypto/rand"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/newsprobe/concrete/pkg/concrete/score"
)

// Run summarizes one scoring pass over a dataset.
type Run struct {
	ID         string       `json:"id"`
	Source     string       `json:"source"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMS int64        `json:"duration_ms"`
	Rows       int          `json:"rows"`
	Fields     []FieldStats `json:"fields"`
	Skipped    []string     `json:"skipped_fields,omitempty"`
}

// FieldStats describes score coverage for one enriched field.
// Mean, Min and Max cover matched scores only; sentinel rows are counted
// separately as Unscored.
type FieldStats struct {
	Field    string  `json:"field"`
	Column   string  `json:"column"`
	Rows     int     `json:"rows"`
	Scored   int     `json:"scored"`
	Unscored int     `json:"unscored"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Builder constructs run reports with monotonic ULID identifiers.
type Builder struct {
	entropy *ulid.MonotonicEntropy
}

// NewBuilder creates a report builder.
func NewBuilder() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Start opens a new run for the given source dataset.
func (b *Builder) Start(source string, rows int) *Run {
	return &Run{
		ID:        ulid.MustNew(ulid.Now(), b.entropy).String(),
		Source:    source,
		StartedAt: time.Now().UTC(),
		Rows:      rows,
	}
}

// AddField records coverage statistics computed from a field's score column.
func (r *Run) AddField(field, column string, scores []float64) {
	stats := FieldStats{
		Field:  field,
		Column: column,
		Rows:   len(scores),
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
	}
	var sum float64
	for _, v := range scores {
		if v == score.Sentinel {
			stats.Unscored++
			continue
		}
		stats.Scored++
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	if stats.Scored > 0 {
		stats.Mean = sum / float64(stats.Scored)
	} else {
		stats.Min = 0
		stats.Max = 0
	}
	r.Fields = append(r.Fields, stats)
}

// AddSkipped records a requested field that was absent from the input table.
func (r *Run) AddSkipped(field string) {
	r.Skipped = append(r.Skipped, field)
}

// Finish stamps the run duration.
func (r *Run) Finish() {
	r.DurationMS = time.Since(r.StartedAt).Milliseconds()
}
