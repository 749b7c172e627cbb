package score

import (
	"math"
	"testing"

	"github.com/newsprobe/concrete/pkg/concrete/lexicon"
)

func testLexicon() *lexicon.Lexicon {
	return lexicon.Build([]lexicon.Entry{
		{Phrase: "cat", Rating: 3.0},
		{Phrase: "dog", Rating: 5.0},
		{Phrase: "climate", Rating: 2.0},
		{Phrase: "change", Rating: 3.5},
		{Phrase: "climate change", Rating: 4.5, Bigram: true},
		{Phrase: "zero", Rating: 0.0},
	})
}

func TestScoreMean(t *testing.T) {
	s := New(testLexicon())

	// "the" and "and" are unknown; mean over cat and dog only
	got := s.Score("the cat and dog")
	want := (3.0 + 5.0) / 2
	if got != want {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScoreNoMatch(t *testing.T) {
	s := New(testLexicon())

	if got := s.Score("xyzabc qqrrss"); got != Sentinel {
		t.Errorf("Score = %v, want sentinel", got)
	}
}

func TestScoreNormalizesToEmpty(t *testing.T) {
	s := New(testLexicon())

	tests := []struct {
		name string
		text string
	}{
		{name: "digits only", text: "123"},
		{name: "punctuation only", text: "!!!"},
		{name: "whitespace only", text: "   "},
		{name: "empty", text: ""},
		{name: "digits and punctuation", text: "3.14, 42!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.text); got != Sentinel {
				t.Errorf("Score(%q) = %v, want sentinel", tt.text, got)
			}
		})
	}
}

func TestScorePunctuationAndNumbers(t *testing.T) {
	s := New(testLexicon())

	got := s.Score("Cat! 123 Dog?")
	if got != 4.0 {
		t.Errorf("Score = %v, want 4.0", got)
	}
	if got != s.Score("cat dog") {
		t.Error("Noisy text should score identically to its clean form")
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	s := New(testLexicon())

	if s.Score("CAT") != s.Score("cat") {
		t.Error("Scoring should be case-insensitive")
	}
	if got := s.Score("CAT"); got != 3.0 {
		t.Errorf("Score = %v, want 3.0", got)
	}
}

func TestBigramPrecedence(t *testing.T) {
	s := New(testLexicon())

	// The bigram wins over both unigrams, exactly, with no averaging-in
	if got := s.Score("climate change"); got != 4.5 {
		t.Errorf("Score = %v, want 4.5", got)
	}
}

func TestBigramConsumesSecondToken(t *testing.T) {
	s := New(testLexicon())

	// "change" exists as a unigram (3.5) but must not contribute after the
	// bigram match; only "dog" adds a second rating.
	got := s.Score("climate change dog")
	want := (4.5 + 5.0) / 2
	if got != want {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestBigramNotFormedAcrossLastToken(t *testing.T) {
	s := New(testLexicon())

	// Trailing "climate" has no successor: unigram rating applies
	got := s.Score("dog climate")
	want := (5.0 + 2.0) / 2
	if got != want {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScoreZeroRating(t *testing.T) {
	s := New(testLexicon())

	// A computed mean of zero is a real score, distinct from the sentinel
	if got := s.Score("zero"); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestScoreIdempotent(t *testing.T) {
	s := New(testLexicon())

	text := "Climate change! Cats, dogs & 99 problems."
	first := s.Score(text)
	for i := 0; i < 10; i++ {
		if got := s.Score(text); got != first {
			t.Fatalf("Score changed between calls: %v then %v", first, got)
		}
	}
}

func TestScoreValueNonString(t *testing.T) {
	s := New(testLexicon())

	values := []any{nil, 42, 3.14, true, []string{"cat"}}
	for _, v := range values {
		if got := s.ScoreValue(v); got != Sentinel {
			t.Errorf("ScoreValue(%v) = %v, want sentinel", v, got)
		}
	}

	if got := s.ScoreValue("cat"); got != 3.0 {
		t.Errorf("ScoreValue(string) = %v, want 3.0", got)
	}
}

func TestScoreUnderscoreSurvivesNormalization(t *testing.T) {
	// Underscores are word characters: "cat_dog" stays one token and
	// matches nothing, rather than splitting into two matches.
	s := New(testLexicon())
	if got := s.Score("cat_dog"); got != Sentinel {
		t.Errorf("Score = %v, want sentinel", got)
	}
}

func TestScoreMeanPrecision(t *testing.T) {
	lex := lexicon.Build([]lexicon.Entry{
		{Phrase: "a", Rating: 1.1},
		{Phrase: "b", Rating: 2.2},
		{Phrase: "c", Rating: 3.3},
	})
	s := New(lex)

	got := s.Score("a b c")
	want := (1.1 + 2.2 + 3.3) / 3
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}
