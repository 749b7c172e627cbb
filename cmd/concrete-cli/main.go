package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/newsprobe/concrete/pkg/concrete"
	"github.com/newsprobe/concrete/pkg/concrete/config"
	"github.com/newsprobe/concrete/pkg/concrete/lexicon"
	"github.com/newsprobe/concrete/pkg/concrete/store"
	"github.com/newsprobe/concrete/pkg/concrete/store/csvfile"
	"github.com/newsprobe/concrete/pkg/concrete/store/sqlite"
	"github.com/newsprobe/concrete/pkg/concrete/table"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Optional YAML run configuration")
		dataPath    = flag.String("data", "", "CSV file with the text data (required unless set in config)")
		ratingsPath = flag.String("ratings", "", "CSV file with concreteness ratings (required unless set in config)")
		outputPath  = flag.String("output", "", "Output path (required unless set in config)")
		format      = flag.String("format", "", "Output format: csv or sqlite (default csv)")
		fieldsFlag  = flag.String("fields", "", "Comma-separated text fields to score")
		workers     = flag.Int("workers", 0, "Parallel scoring workers per field")
		reportPath  = flag.String("report", "", "Optional path for the JSON run report (default: stdout)")
	)
	flag.Parse()

	run, err := buildRun(*configPath, *dataPath, *ratingsPath, *outputPath, *format, *fieldsFlag, *workers)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	lex, err := lexicon.LoadCSV(run.Ratings, lexicon.Columns{
		Word:   run.RatingsColumns.Word,
		Rating: run.RatingsColumns.Rating,
		Bigram: run.RatingsColumns.Bigram,
	})
	if err != nil {
		log.Fatalf("load ratings: %v", err)
	}
	stats := lex.Stats()
	log.Printf("Loaded lexicon: %d unigrams, %d bigrams", stats.Unigrams, stats.Bigrams)

	tbl, err := table.ReadCSV(run.Data)
	if err != nil {
		log.Fatalf("load data: %v", err)
	}

	engine := concrete.New(concrete.Options{Lexicon: lex, Workers: run.Workers})
	result, err := engine.EnrichTable(ctx, run.Data, tbl, run.Fields)
	if err != nil {
		log.Fatalf("score fields: %v", err)
	}

	sink, err := openSink(ctx, run)
	if err != nil {
		log.Fatalf("open output: %v", err)
	}
	defer sink.Close()

	if err := sink.WriteTable(ctx, tbl, result); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("Processing complete. Results saved to %q.", run.Output)

	if err := emitReport(result, *reportPath); err != nil {
		log.Fatalf("write report: %v", err)
	}
}

// buildRun merges the optional YAML config with CLI flags; flags win.
func buildRun(configPath, data, ratings, output, format, fields string, workers int) (*config.Run, error) {
	run := &config.Run{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		run = loaded
	}
	if data != "" {
		run.Data = data
	}
	if ratings != "" {
		run.Ratings = ratings
	}
	if output != "" {
		run.Output = output
	}
	if format != "" {
		run.Format = format
	}
	if fields != "" {
		run.Fields = splitFields(fields)
	}
	if workers > 0 {
		run.Workers = workers
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return run, nil
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func openSink(ctx context.Context, run *config.Run) (store.Sink, error) {
	switch run.Format {
	case "sqlite":
		return sqlite.Open(ctx, run.Output)
	default:
		return csvfile.New(run.Output), nil
	}
}

func emitReport(result any, path string) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(path, append(out, '\n'), 0644)
}
