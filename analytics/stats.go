package analytics

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/danielmmetz/hn-pulse/store"
)

// Stats is the dashboard summary row.
type Stats struct {
	TotalComments    int          `json:"totalComments"`
	ActiveStories    int          `json:"activeStories"`
	UniqueDomains    int          `json:"uniqueDomains"`
	AverageSentiment float64      `json:"averageSentiment"`
	PeakHour         int          `json:"peakHour"`
	PeakHourLabel    string       `json:"peakActivityHour"`
	TopStory         *store.Story `json:"highestScoringStory"`
}

// Summarize computes the summary row. The peak hour is the hour of the
// first weekday-hour cell (in loc) to reach the highest submission count
// over the whole batch; -1 when there are no stories.
func Summarize(stories []store.Story, comments []store.FlatComment, loc *time.Location) Stats {
	s := Stats{
		TotalComments: len(comments),
		ActiveStories: len(stories),
		PeakHour:      -1,
	}

	domains := make(map[string]struct{})
	for _, st := range stories {
		if d, ok := Domain(st.URL); ok {
			domains[d] = struct{}{}
		}
	}
	s.UniqueDomains = len(domains)

	if len(comments) > 0 {
		var sum float64
		for _, c := range comments {
			sum += c.Score
		}
		s.AverageSentiment = round(sum/float64(len(comments)), 2)
	}

	var grid [7][24]int
	best := 0
	for _, st := range stories {
		t := time.Unix(st.Time, 0).In(loc)
		d, h := int(t.Weekday()), t.Hour()
		grid[d][h]++
		if grid[d][h] > best {
			best = grid[d][h]
			s.PeakHour = h
		}
	}
	s.PeakHourLabel = HourLabel(s.PeakHour)

	if len(stories) > 0 {
		top := slices.Clone(stories)
		sortByScore(top)
		s.TopStory = &top[0]
	}
	return s
}

// HourLabel renders an hour of day on a 12-hour clock, "N/A" for -1.
func HourLabel(h int) string {
	switch {
	case h < 0 || h > 23:
		return "N/A"
	case h == 0:
		return "12 AM"
	case h == 12:
		return "12 PM"
	case h > 12:
		return fmt.Sprintf("%d PM", h-12)
	}
	return fmt.Sprintf("%d AM", h)
}

// StoriesMatching returns the stories whose title or URL contains keyword
// or whose author is keyword, all case-insensitively, highest score first.
func StoriesMatching(stories []store.Story, keyword string) []store.Story {
	kw := strings.ToLower(keyword)
	out := make([]store.Story, 0)
	for _, st := range stories {
		if strings.Contains(strings.ToLower(st.Title), kw) ||
			(st.URL != "" && strings.Contains(strings.ToLower(st.URL), kw)) ||
			strings.ToLower(st.By) == kw {
			out = append(out, st)
		}
	}
	sortByScore(out)
	return out
}

// StoriesWithCategory returns the stories that received at least one
// comment in cat, highest score first.
func StoriesWithCategory(stories []store.Story, comments []store.FlatComment, cat Category) []store.Story {
	ids := make(map[int]struct{})
	for _, c := range comments {
		if Classify(c.Score) == cat {
			ids[c.StoryID] = struct{}{}
		}
	}
	out := make([]store.Story, 0)
	for _, st := range stories {
		if _, ok := ids[st.ID]; ok {
			out = append(out, st)
		}
	}
	sortByScore(out)
	return out
}

func sortByScore(stories []store.Story) {
	slices.SortStableFunc(stories, func(a, b store.Story) int { return b.Score - a.Score })
}
