package analytics

import (
	"cmp"
	"math"
	"net/url"
	"slices"
	"strings"

	"github.com/danielmmetz/hn-pulse/store"
)

// DomainLimit is the number of domains kept by TopDomains.
const DomainLimit = 10

// Domain returns the host of rawURL with a leading "www." removed. It
// reports false for empty or unparseable URLs and URLs without a host.
func Domain(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return strings.TrimPrefix(host, "www."), true
}

// DomainCount is a domain with the number of stories linking to it.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// TopDomains ranks domains by story count, descending, and keeps the first
// limit. Ties keep first-seen order. Stories without a usable URL are
// ignored.
func TopDomains(stories []store.Story, limit int) []DomainCount {
	counts := make(map[string]int)
	var order []string
	for _, st := range stories {
		d, ok := Domain(st.URL)
		if !ok {
			continue
		}
		if _, seen := counts[d]; !seen {
			order = append(order, d)
		}
		counts[d]++
	}
	return rank(order, counts, limit, func(k string, n int) DomainCount {
		return DomainCount{Domain: k, Count: n}
	})
}

// rank turns first-seen keys and their counts into a stable descending
// ranking truncated to limit (limit <= 0 keeps everything).
func rank[T any](order []string, counts map[string]int, limit int, mk func(string, int) T) []T {
	slices.SortStableFunc(order, func(a, b string) int { return cmp.Compare(counts[b], counts[a]) })
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	out := make([]T, 0, len(order))
	for _, k := range order {
		out = append(out, mk(k, counts[k]))
	}
	return out
}

// DomainSentimentBucket is a sentiment category with the comments that fell
// into it and the distinct domains of the stories they were posted under.
type DomainSentimentBucket struct {
	Category   Category `json:"name"`
	Count      int      `json:"value"`
	Percentage float64  `json:"percentage"`
	Domains    []string `json:"domains"`
}

// DomainSentiment attributes each comment to the domain of its story and
// buckets it by sentiment category. Comments whose story has no usable URL
// are not bucketed but still count toward the percentage denominator.
// Empty buckets are omitted; the rest are ordered Positive, Neutral,
// Negative.
func DomainSentiment(stories []store.Story, comments []store.FlatComment) []DomainSentimentBucket {
	domains := make(map[int]string, len(stories))
	for _, st := range stories {
		if d, ok := Domain(st.URL); ok {
			domains[st.ID] = d
		}
	}

	counts := make(map[Category]int, len(Categories))
	sets := make(map[Category]map[string]struct{}, len(Categories))
	for _, c := range comments {
		d, ok := domains[c.StoryID]
		if !ok {
			continue
		}
		cat := Classify(c.Score)
		counts[cat]++
		if sets[cat] == nil {
			sets[cat] = make(map[string]struct{})
		}
		sets[cat][d] = struct{}{}
	}

	var out []DomainSentimentBucket
	for _, cat := range Categories {
		if counts[cat] == 0 {
			continue
		}
		names := make([]string, 0, len(sets[cat]))
		for d := range sets[cat] {
			names = append(names, d)
		}
		slices.Sort(names)
		out = append(out, DomainSentimentBucket{
			Category:   cat,
			Count:      counts[cat],
			Percentage: percentage(counts[cat], len(comments)),
			Domains:    names,
		})
	}
	if out == nil {
		out = []DomainSentimentBucket{}
	}
	return out
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round(float64(n)/float64(total)*100, 1)
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
