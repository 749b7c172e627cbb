package score

import (
	"strings"
	"unicode"

	"github.com/newsprobe/concrete/pkg/concrete/lexicon"
)

// Sentinel is returned when no score is available: the input was not a
// string, normalized to nothing, or matched no lexicon entry. It is part of
// the contract, not an error; callers must branch on it rather than treat it
// as a legitimately low score.
const Sentinel = -1

// Scorer computes the average concreteness of a text against a lexicon.
// It holds no mutable state, so a single Scorer is safe for concurrent use.
type Scorer struct {
	lex *lexicon.Lexicon
}

// New creates a scorer backed by the given lexicon.
func New(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// ScoreValue scores an arbitrary cell value. Anything that is not a string
// yields Sentinel.
func (s *Scorer) ScoreValue(v any) float64 {
	text, ok := v.(string)
	if !ok {
		return Sentinel
	}
	return s.Score(text)
}

// Score tokenizes a text and computes its average concreteness.
//
// The text is normalized first: punctuation and digits are removed, the rest
// is trimmed, lowercased and split on whitespace runs. The token stream is
// then scanned left to right. At each position the two-token bigram is tried
// first; a hit consumes both tokens, and the second token is never re-tested
// as a unigram. Otherwise the single token is looked up and the cursor
// advances by one whether or not it matched.
//
// Returns the arithmetic mean of all matched ratings, or Sentinel when
// nothing matched.
func (s *Scorer) Score(text string) float64 {
	text = strings.TrimSpace(normalize(text))
	if text == "" {
		return Sentinel
	}

	tokens := strings.Fields(strings.ToLower(text))

	var sum float64
	var n int
	i := 0
	for i < len(tokens) {
		if i < len(tokens)-1 {
			candidate := tokens[i] + " " + tokens[i+1]
			if rating, ok := s.lex.Bigram(candidate); ok {
				sum += rating
				n++
				i += 2
				continue
			}
		}
		if rating, ok := s.lex.Unigram(tokens[i]); ok {
			sum += rating
			n++
		}
		i++
	}

	if n == 0 {
		return Sentinel
	}
	return sum / float64(n)
}

// normalize removes every rune that is neither a word rune
// (letter, digit, underscore) nor whitespace, then removes digits.
func normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}
