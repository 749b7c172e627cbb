package concrete

import (
	"context"
	"reflect"
	"testing"

	"github.com/newsprobe/concrete/pkg/concrete/lexicon"
	"github.com/newsprobe/concrete/pkg/concrete/table"
)

func testLexicon() *lexicon.Lexicon {
	return lexicon.Build([]lexicon.Entry{
		{Phrase: "cat", Rating: 3.0},
		{Phrase: "dog", Rating: 5.0},
		{Phrase: "climate change", Rating: 4.5, Bigram: true},
	})
}

func testTable() *table.Table {
	return &table.Table{
		Columns: []string{"id", "headline", "abstract"},
		Rows: [][]string{
			{"1", "Cat meets dog", "climate change ahead"},
			{"2", "Nothing matches here", ""},
			{"3", "DOG!", "42"},
		},
	}
}

func TestEnrichTable(t *testing.T) {
	engine := New(Options{Lexicon: testLexicon()})
	tbl := testTable()

	run, err := engine.EnrichTable(context.Background(), "data.csv", tbl, []string{"headline", "abstract"})
	if err != nil {
		t.Fatalf("EnrichTable: %v", err)
	}

	want := []string{"id", "headline", "abstract", "avg_conc_headline", "avg_conc_abstract"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, want)
	}

	checks := []struct {
		row, col int
		want     string
	}{
		{0, 3, "4"},   // (3.0 + 5.0) / 2
		{0, 4, "4.5"}, // bigram match
		{1, 3, "-1"},  // no token matched
		{1, 4, "-1"},  // empty text
		{2, 3, "5"},   // case and punctuation insensitive
		{2, 4, "-1"},  // digits normalize to nothing
	}
	for _, c := range checks {
		if v, ok := tbl.Cell(c.row, c.col); !ok || v != c.want {
			t.Errorf("Cell(%d,%d) = %q, %v, want %q", c.row, c.col, v, ok, c.want)
		}
	}

	if len(run.Fields) != 2 || len(run.Skipped) != 0 {
		t.Errorf("report fields/skipped = %d/%d", len(run.Fields), len(run.Skipped))
	}
	if run.Fields[0].Scored != 2 || run.Fields[0].Unscored != 1 {
		t.Errorf("headline stats = %+v", run.Fields[0])
	}
}

func TestEnrichTableSkipsMissingField(t *testing.T) {
	engine := New(Options{Lexicon: testLexicon()})
	tbl := testTable()

	run, err := engine.EnrichTable(context.Background(), "data.csv", tbl, []string{"headline", "snippet"})
	if err != nil {
		t.Fatalf("EnrichTable: %v", err)
	}

	if got := tbl.ColumnIndex("avg_conc_snippet"); got != -1 {
		t.Error("missing field should not produce an output column")
	}
	if got := tbl.ColumnIndex("avg_conc_headline"); got == -1 {
		t.Error("present field should still be scored")
	}
	if !reflect.DeepEqual(run.Skipped, []string{"snippet"}) {
		t.Errorf("Skipped = %v", run.Skipped)
	}
}

func TestEnrichTableRaggedRows(t *testing.T) {
	engine := New(Options{Lexicon: testLexicon()})
	tbl := &table.Table{
		Columns: []string{"id", "headline"},
		Rows:    [][]string{{"1", "cat"}, {"2"}},
	}

	if _, err := engine.EnrichTable(context.Background(), "data.csv", tbl, []string{"headline"}); err != nil {
		t.Fatalf("EnrichTable: %v", err)
	}

	if v, _ := tbl.Cell(0, 2); v != "3" {
		t.Errorf("Cell(0,2) = %q, want 3", v)
	}
	// the absent cell scores as sentinel, like a non-string value
	if v, _ := tbl.Cell(1, 2); v != "-1" {
		t.Errorf("Cell(1,2) = %q, want -1", v)
	}
}

func TestEnrichTableParallelMatchesSequential(t *testing.T) {
	lex := testLexicon()
	fields := []string{"headline", "abstract"}

	seqTbl := testTable()
	if _, err := New(Options{Lexicon: lex}).EnrichTable(context.Background(), "d", seqTbl, fields); err != nil {
		t.Fatal(err)
	}

	parTbl := testTable()
	if _, err := New(Options{Lexicon: lex, Workers: 8}).EnrichTable(context.Background(), "d", parTbl, fields); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(seqTbl.Rows, parTbl.Rows) {
		t.Error("parallel scoring must produce the same rows in the same order")
	}
}

func TestEnrichTableCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New(Options{Lexicon: testLexicon(), Workers: 4})
	if _, err := engine.EnrichTable(ctx, "data.csv", testTable(), []string{"headline"}); err == nil {
		t.Error("cancelled context should surface an error")
	}
}
