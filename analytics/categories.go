package analytics

import (
	"fmt"
	"strings"

	"github.com/danielmmetz/hn-pulse/store"
)

// Category is a coarse sentiment band.
type Category string

const (
	Positive Category = "Positive"
	Neutral  Category = "Neutral"
	Negative Category = "Negative"
)

// Categories lists every category in display order.
var Categories = []Category{Positive, Neutral, Negative}

// neutralBand is the half-width of the band around zero classified as
// Neutral. Scores exactly on the boundary are Neutral.
const neutralBand = 0.05

// Classify returns the category of a sentiment score.
func Classify(score float64) Category {
	switch {
	case score > neutralBand:
		return Positive
	case score < -neutralBand:
		return Negative
	default:
		return Neutral
	}
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment category %q", s)
}

// CategoryCount is the number of comments in a category.
type CategoryCount struct {
	Category Category `json:"name"`
	Count    int      `json:"value"`
}

// CategoryCounts buckets comments by category. Empty categories are omitted
// and the rest are ordered Positive, Neutral, Negative.
func CategoryCounts(comments []store.FlatComment) []CategoryCount {
	counts := make(map[Category]int, len(Categories))
	for _, c := range comments {
		counts[Classify(c.Score)]++
	}
	out := make([]CategoryCount, 0, len(Categories))
	for _, cat := range Categories {
		if counts[cat] > 0 {
			out = append(out, CategoryCount{Category: cat, Count: counts[cat]})
		}
	}
	return out
}
