package analytics

import (
	"fmt"
	"strconv"

	"github.com/danielmmetz/hn-pulse/store"
)

// EngagementPoint pairs a story's score with its comment count. Recency
// places the story between the oldest (0) and newest (1) story of the
// batch and Color is the matching gradient stop.
type EngagementPoint struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	Descendants int     `json:"descendants"`
	Time        int64   `json:"time"`
	Recency     float64 `json:"recency"`
	Color       string  `json:"color"`
}

// Engagement maps every story to a scatter point. When all stories share a
// timestamp they are all treated as the newest.
func Engagement(stories []store.Story) []EngagementPoint {
	out := make([]EngagementPoint, 0, len(stories))
	if len(stories) == 0 {
		return out
	}

	lo, hi := stories[0].Time, stories[0].Time
	for _, st := range stories[1:] {
		lo, hi = min(lo, st.Time), max(hi, st.Time)
	}

	for _, st := range stories {
		r := 1.0
		if hi > lo {
			r = float64(st.Time-lo) / float64(hi-lo)
		}
		out = append(out, EngagementPoint{
			ID:          st.ID,
			Title:       st.Title,
			Score:       st.Score,
			Descendants: st.Descendants,
			Time:        st.Time,
			Recency:     r,
			Color:       recencyColor(r),
		})
	}
	return out
}

// recencyColor interpolates from a muted blue (old) to a saturated orange
// (new).
func recencyColor(r float64) string {
	h := 220 + (24-220)*r
	s := 30 + (100-30)*r
	return fmt.Sprintf("hsl(%s, %s%%, 50%%)", num(h), num(s))
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
