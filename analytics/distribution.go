package analytics

import (
	"math"

	"github.com/danielmmetz/hn-pulse/store"
)

// binsPerUnit is the number of histogram bins per unit of score: bins sit
// on multiples of 0.2.
const binsPerUnit = 5

// Bin is one histogram bucket of comment scores.
type Bin struct {
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// Distribution rounds every score to the nearest multiple of 0.2, halves
// rounding up, and counts comments per bin. All 11 bins from -1 to 1 are
// always present, in ascending order.
func Distribution(comments []store.FlatComment) []Bin {
	bins := make([]Bin, 2*binsPerUnit+1)
	for i := range bins {
		bins[i].Score = float64(i-binsPerUnit) / binsPerUnit
	}
	for _, c := range comments {
		k := int(math.Floor(c.Score*binsPerUnit + 0.5))
		k = min(max(k, -binsPerUnit), binsPerUnit)
		bins[k+binsPerUnit].Count++
	}
	return bins
}
