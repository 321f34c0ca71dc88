package store

import "github.com/danielmmetz/hn-pulse/hn"

// Story is a snapshot of a top story taken at fetch time.
type Story struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Score       int    `json:"score"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
	Kids        []int  `json:"kids,omitempty"`
}

// Comment is a scored node of a story's comment tree.
type Comment struct {
	ID        int        `json:"id"`
	By        string     `json:"by"`
	Text      string     `json:"text"`
	Time      int64      `json:"time"`
	Sentiment float64    `json:"sentiment"`
	Kids      []*Comment `json:"kids"`
}

// FlatComment is a first-level comment scored for dashboard-wide aggregates,
// tagged with the story it was posted under.
type FlatComment struct {
	ID         int     `json:"id"`
	By         string  `json:"by"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
	Score      float64 `json:"score"`
	StoryID    int     `json:"storyId"`
	StoryTitle string  `json:"storyTitle"`
}

// StoryWithComments is the single-story view.
type StoryWithComments struct {
	Story
	Comments []*Comment `json:"comments"`
}

func StoryFromItem(item *hn.Item) Story {
	st := Story{
		ID:          item.ID,
		Title:       item.Title,
		URL:         item.URL,
		Score:       item.Score,
		By:          item.By,
		Time:        item.Time,
		Descendants: item.Descendants,
	}
	if len(item.Kids) > 0 {
		st.Kids = append([]int(nil), item.Kids...)
	}
	return st
}

// CountComments returns the number of nodes in a comment forest.
func CountComments(comments []*Comment) int {
	n := 0
	for _, c := range comments {
		n += 1 + CountComments(c.Kids)
	}
	return n
}
