// Package analytics holds the dashboard aggregation transforms. Every
// function here is pure: it reads already-fetched stories and comments,
// never mutates them and performs no I/O.
package analytics

import (
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"

	"github.com/danielmmetz/hn-pulse/store"
)

const (
	// KeywordLimit is the number of keywords kept after ranking.
	KeywordLimit = 25
)

var wordPattern = regexp.MustCompile(`\w+`)

// stopWords are dropped from titles before counting. Besides the usual
// English function words it carries the terms every HN listing is full of.
var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are", "as", "at",
	"be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
	"can", "cannot", "could", "com",
	"did", "do", "does", "doing", "don", "down", "during",
	"each",
	"few", "for", "from", "further",
	"had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "it", "its", "itself",
	"me", "more", "most", "my", "myself",
	"no", "nor", "not",
	"of", "off", "on", "once", "only", "or", "other", "ought", "our", "ours", "ourselves", "out", "over", "own",
	"same", "shan", "she", "should", "so", "some", "such",
	"than", "that", "the", "their", "theirs", "them", "themselves", "then", "there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up",
	"very",
	"was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why", "with", "would",
	"you", "your", "yours", "yourself", "yourselves",
	"hn", "ask", "show", "tell", "using", "one", "like", "get", "app", "web", "use", "vs",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Keyword is a title term with its frequency across the batch. Weight maps
// Count linearly onto [0, 1] between the least and most frequent retained
// keywords.
type Keyword struct {
	Text   string  `json:"text"`
	Count  int     `json:"value"`
	Weight float64 `json:"weight"`
}

// Keywords counts title terms across stories and returns the KeywordLimit
// most frequent ones seen more than once, most frequent first. Ties keep
// the order in which terms were first encountered.
func Keywords(stories []store.Story) []Keyword {
	counts := make(map[string]int)
	var order []string
	for _, st := range stories {
		for _, word := range titleWords(st.Title) {
			if _, ok := counts[word]; !ok {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	kws := make([]Keyword, 0, len(order))
	for _, word := range order {
		if counts[word] > 1 {
			kws = append(kws, Keyword{Text: word, Count: counts[word]})
		}
	}
	slices.SortStableFunc(kws, func(a, b Keyword) int { return b.Count - a.Count })
	if len(kws) > KeywordLimit {
		kws = kws[:KeywordLimit]
	}

	if len(kws) == 0 {
		return kws
	}
	hi, lo := kws[0].Count, kws[len(kws)-1].Count
	for i := range kws {
		if hi == lo {
			kws[i].Weight = 1
			continue
		}
		kws[i].Weight = float64(kws[i].Count-lo) / float64(hi-lo)
	}
	return kws
}

// Shuffle returns a copy of kws in random display order.
func Shuffle(kws []Keyword, r *rand.Rand) []Keyword {
	out := slices.Clone(kws)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func titleWords(title string) []string {
	var words []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(title), -1) {
		if len(w) <= 1 || isNumeric(w) {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
