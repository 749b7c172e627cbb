package lexicon

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/newsprobe/concrete/pkg/concrete/internalerr"
)

// Lexicon stores concreteness ratings for direct lookup:
// - unigrams: single words (car, idea, democracy)
// - bigrams: two-word phrases matched as a contiguous token pair (climate change)
//
// A phrase lives in exactly one of the two maps, decided by the bigram flag on
// its source row. Keys are lowercase and whitespace-trimmed. When a source
// contains the same phrase twice, the last row wins.
//
// A Lexicon is built once and read-only afterwards, so concurrent scoring
// needs no locking.
type Lexicon struct {
	unigrams map[string]float64
	bigrams  map[string]float64
}

// Entry represents one row of a ratings source.
type Entry struct {
	Phrase string
	Rating float64
	Bigram bool
}

// Build constructs a lexicon from rating entries.
// Entries with an empty phrase are dropped. Ratings are carried through
// unmodified: no clamping, no rounding, no range check.
func Build(entries []Entry) *Lexicon {
	lex := &Lexicon{
		unigrams: make(map[string]float64, len(entries)),
		bigrams:  make(map[string]float64),
	}
	for _, e := range entries {
		phrase := strings.ToLower(strings.TrimSpace(e.Phrase))
		if phrase == "" {
			continue
		}
		if e.Bigram {
			lex.bigrams[phrase] = e.Rating
		} else {
			lex.unigrams[phrase] = e.Rating
		}
	}
	return lex
}

// Unigram returns the rating for a single word.
func (l *Lexicon) Unigram(word string) (float64, bool) {
	r, ok := l.unigrams[strings.ToLower(word)]
	return r, ok
}

// Bigram returns the rating for a two-word phrase
// (words separated by a single space).
func (l *Lexicon) Bigram(phrase string) (float64, bool) {
	r, ok := l.bigrams[strings.ToLower(phrase)]
	return r, ok
}

// Stats holds lexicon size information.
type Stats struct {
	Unigrams int
	Bigrams  int
}

// Stats returns the number of entries per map.
func (l *Lexicon) Stats() Stats {
	return Stats{Unigrams: len(l.unigrams), Bigrams: len(l.bigrams)}
}

// Columns names the ratings CSV columns. Zero values fall back to the
// conventional names used by the Brysbaert concreteness norms export.
type Columns struct {
	Word   string
	Rating string
	Bigram string
}

func (c Columns) withDefaults() Columns {
	if c.Word == "" {
		c.Word = "Word"
	}
	if c.Rating == "" {
		c.Rating = "Conc.M"
	}
	if c.Bigram == "" {
		c.Bigram = "Bigram"
	}
	return c
}

// LoadCSV reads a ratings table and builds a lexicon from it.
// The file must carry a header row containing the three named columns
// (case-insensitive match). A missing column or an unparseable rating is a
// hard error: a broken ratings source terminates the run rather than
// producing a partial lexicon.
func LoadCSV(path string, cols Columns) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ratings file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ratings file %s: %w", path, internalerr.ErrEmptyTable)
	}

	cols = cols.withDefaults()
	header := rows[0]
	wordIdx := findColumn(header, cols.Word)
	ratingIdx := findColumn(header, cols.Rating)
	bigramIdx := findColumn(header, cols.Bigram)
	if wordIdx < 0 {
		return nil, fmt.Errorf("ratings file %s: %w: %q", path, internalerr.ErrMissingColumn, cols.Word)
	}
	if ratingIdx < 0 {
		return nil, fmt.Errorf("ratings file %s: %w: %q", path, internalerr.ErrMissingColumn, cols.Rating)
	}
	if bigramIdx < 0 {
		return nil, fmt.Errorf("ratings file %s: %w: %q", path, internalerr.ErrMissingColumn, cols.Bigram)
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if wordIdx >= len(row) {
			continue
		}
		phrase := cleanCell(row[wordIdx])
		if phrase == "" {
			continue
		}
		if ratingIdx >= len(row) || bigramIdx >= len(row) {
			return nil, fmt.Errorf("ratings file %s line %d: %w: short row", path, i+2, internalerr.ErrInvalidInput)
		}
		rating, err := strconv.ParseFloat(cleanCell(row[ratingIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("ratings file %s line %d: parse rating: %w", path, i+2, err)
		}
		bigram, err := parseFlag(cleanCell(row[bigramIdx]))
		if err != nil {
			return nil, fmt.Errorf("ratings file %s line %d: parse bigram flag: %w", path, i+2, err)
		}
		entries = append(entries, Entry{Phrase: phrase, Rating: rating, Bigram: bigram})
	}

	return Build(entries), nil
}

// parseFlag accepts the 0/1 convention of the ratings export as well as
// textual booleans.
func parseFlag(s string) (bool, error) {
	switch s {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	}
	return strconv.ParseBool(s)
}

func findColumn(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(cleanCell(col), name) {
			return i
		}
	}
	return -1
}

// cleanCell trims whitespace and a possible UTF-8 BOM from a CSV cell.
func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "\ufeff")
}
