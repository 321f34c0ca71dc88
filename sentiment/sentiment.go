// Package sentiment scores free text with the AFINN-165 lexicon.
//
// The score is comparative: the sum of per-word polarity weights divided by
// the number of tokens, so long neutral comments are not outweighed by a
// single strong word. A word directly preceded by a negator has its weight
// inverted. Results are clamped to [-1, 1].
package sentiment

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed afinn.txt
var afinnData string

var lexicon = mustParseLexicon(afinnData)

// negators invert the weight of the word that directly follows them.
var negators = map[string]struct{}{
	"cant": {}, "can't": {},
	"dont": {}, "don't": {},
	"doesnt": {}, "doesn't": {},
	"isnt": {}, "isn't": {},
	"wont": {}, "won't": {},
	"not": {}, "non": {},
}

// Result is the full breakdown of one analysis.
type Result struct {
	Score       int      `json:"score"`
	Comparative float64  `json:"comparative"`
	Tokens      int      `json:"tokens"`
	Positive    []string `json:"positive,omitempty"`
	Negative    []string `json:"negative,omitempty"`
}

// Analyze tokenizes text and sums lexicon weights.
func Analyze(text string) Result {
	tokens := Tokenize(text)
	r := Result{Tokens: len(tokens)}
	if len(tokens) == 0 {
		return r
	}

	for i, tok := range tokens {
		w, ok := lexicon[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if _, neg := negators[tokens[i-1]]; neg {
				w = -w
			}
		}
		r.Score += w
		if w > 0 {
			r.Positive = append(r.Positive, tok)
		} else if w < 0 {
			r.Negative = append(r.Negative, tok)
		}
	}

	r.Comparative = clamp(float64(r.Score) / float64(len(tokens)))
	return r
}

// Score returns the comparative score of text in [-1, 1]. Empty or
// unscoreable text scores 0.
func Score(text string) float64 {
	return Analyze(text).Comparative
}

const punctuation = ".,/#!?$%^&*;:{}=_`\"~()[]<>|\\+-@"

// Tokenize lower-cases the plain text of a comment and splits it on
// whitespace after replacing punctuation with spaces. Apostrophes are kept
// so that contractions like "don't" survive for negation.
func Tokenize(text string) []string {
	s := strings.ToLower(PlainText(text))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '’' || r == '‘':
			return '\''
		case strings.ContainsRune(punctuation, r):
			return ' '
		}
		return r
	}, s)
	return strings.Fields(s)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func mustParseLexicon(data string) map[string]int {
	lex := make(map[string]int)
	for n, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, weight, ok := strings.Cut(line, "\t")
		if !ok {
			panic(fmt.Sprintf("sentiment: lexicon line %d: missing tab", n+1))
		}
		w, err := strconv.Atoi(weight)
		if err != nil {
			panic(fmt.Sprintf("sentiment: lexicon line %d: %v", n+1, err))
		}
		lex[word] = w
	}
	return lex
}
