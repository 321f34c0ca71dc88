package analytics

import (
	"fmt"
	"time"

	"github.com/danielmmetz/hn-pulse/store"
)

// ActivityGrid counts story submissions by weekday (Sunday first) and hour
// of day in the location of the reference time.
type ActivityGrid struct {
	Counts [7][24]int `json:"grid"`
	Max    int        `json:"max"`
}

// Activity builds the submission grid over stories submitted in the seven
// days before now. Older stories are not counted.
func Activity(stories []store.Story, now time.Time) ActivityGrid {
	var g ActivityGrid
	since := now.AddDate(0, 0, -7)
	for _, st := range stories {
		t := time.Unix(st.Time, 0).In(now.Location())
		if t.Before(since) {
			continue
		}
		d, h := int(t.Weekday()), t.Hour()
		g.Counts[d][h]++
		g.Max = max(g.Max, g.Counts[d][h])
	}
	return g
}

// ResolveCell maps a grid cell back to the most recent occurrence of that
// weekday on or before now's date, at the start of the given hour. Today
// resolves to today even when the hour is still ahead.
func ResolveCell(now time.Time, day, hour int) (time.Time, error) {
	if day < 0 || day > 6 {
		return time.Time{}, fmt.Errorf("day %d out of range [0, 6]", day)
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("hour %d out of range [0, 23]", hour)
	}
	back := (int(now.Weekday()) - day + 7) % 7
	return time.Date(now.Year(), now.Month(), now.Day()-back, hour, 0, 0, 0, now.Location()), nil
}

// StoriesInHour returns the stories submitted in [start, start+1h), highest
// score first.
func StoriesInHour(stories []store.Story, start time.Time) []store.Story {
	end := start.Add(time.Hour)
	out := make([]store.Story, 0)
	for _, st := range stories {
		t := time.Unix(st.Time, 0)
		if !t.Before(start) && t.Before(end) {
			out = append(out, st)
		}
	}
	sortByScore(out)
	return out
}
