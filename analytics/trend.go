package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/danielmmetz/hn-pulse/store"
)

// TrendPoint is the mean comment sentiment of one calendar hour.
type TrendPoint struct {
	Time      time.Time `json:"time"`
	Timestamp int64     `json:"timestamp"`
	Average   float64   `json:"average"`
	Count     int       `json:"count"`
}

// Trend is an hourly sentiment series. Sufficient is false when there are
// fewer than two points, which is too few to draw a trend.
type Trend struct {
	Points     []TrendPoint `json:"points"`
	Sufficient bool         `json:"sufficient"`
}

// HourlyTrend averages the scores of comments posted in the 24 hours before
// now per calendar hour in now's location, oldest hour first.
func HourlyTrend(comments []store.FlatComment, now time.Time) Trend {
	since := now.Add(-24 * time.Hour)
	loc := now.Location()

	type acc struct {
		start time.Time
		sum   float64
		n     int
	}
	hours := make(map[int64]*acc)
	for _, c := range comments {
		t := time.Unix(c.Time, 0).In(loc)
		if t.Before(since) {
			continue
		}
		h := startOfHour(t)
		a, ok := hours[h.Unix()]
		if !ok {
			a = &acc{start: h}
			hours[h.Unix()] = a
		}
		a.sum += c.Score
		a.n++
	}

	points := make([]TrendPoint, 0, len(hours))
	for _, a := range hours {
		points = append(points, TrendPoint{
			Time:      a.start,
			Timestamp: a.start.UnixMilli(),
			Average:   round(a.sum/float64(a.n), 2),
			Count:     a.n,
		})
	}
	slices.SortFunc(points, func(a, b TrendPoint) int { return a.Time.Compare(b.Time) })
	return Trend{Points: points, Sufficient: len(points) >= 2}
}

func startOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// HourComments groups the comments of one story inside a drill-down hour.
type HourComments struct {
	StoryID    int                 `json:"storyId"`
	StoryTitle string              `json:"storyTitle"`
	Comments   []store.FlatComment `json:"comments"`
}

// CommentsInHour selects the comments posted during the calendar hour (in
// t's location) containing t, orders them by absolute score descending and
// groups them by story in order of each story's first comment.
func CommentsInHour(comments []store.FlatComment, t time.Time) []HourComments {
	start := startOfHour(t)
	end := start.Add(time.Hour)

	var selected []store.FlatComment
	for _, c := range comments {
		ct := time.Unix(c.Time, 0)
		if !ct.Before(start) && ct.Before(end) {
			selected = append(selected, c)
		}
	}
	slices.SortStableFunc(selected, func(a, b store.FlatComment) int {
		return cmp.Compare(math.Abs(b.Score), math.Abs(a.Score))
	})

	out := make([]HourComments, 0)
	index := make(map[int]int)
	for _, c := range selected {
		i, ok := index[c.StoryID]
		if !ok {
			i = len(out)
			index[c.StoryID] = i
			out = append(out, HourComments{StoryID: c.StoryID, StoryTitle: c.StoryTitle})
		}
		out[i].Comments = append(out[i].Comments, c)
	}
	return out
}
