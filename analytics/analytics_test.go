package analytics

import (
	"time"

	"github.com/danielmmetz/hn-pulse/store"
)

// wed is a Wednesday afternoon used as "now" throughout the tests.
var wed = time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC)

func storyAt(id int, title, url, by string, score int, t time.Time) store.Story {
	return store.Story{ID: id, Title: title, URL: url, By: by, Score: score, Time: t.Unix()}
}

func commentAt(id, storyID int, score float64, t time.Time) store.FlatComment {
	return store.FlatComment{ID: id, StoryID: storyID, StoryTitle: "story", Score: score, Time: t.Unix(), Text: "x"}
}

func titles(ts ...string) []store.Story {
	out := make([]store.Story, len(ts))
	for i, t := range ts {
		out[i] = store.Story{ID: i + 1, Title: t}
	}
	return out
}
