package worker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/danielmmetz/hn-pulse/sentiment"
	"github.com/danielmmetz/hn-pulse/store"
)

// Collect fetches up to perStory first-level comments of every story in one
// concurrent fan-out and scores them. Replies are not visited. Every
// surviving comment appears exactly once; the result is grouped by story in
// input order. perStory <= 0 takes every first-level comment.
func Collect(ctx context.Context, src ItemSource, stories []store.Story, perStory int) []store.FlatComment {
	perStoryResults := make([][]store.FlatComment, len(stories))

	var g errgroup.Group
	for i, st := range stories {
		if len(st.Kids) == 0 {
			continue
		}
		g.Go(func() error {
			items := fetchItems(ctx, src, capIDs(st.Kids, perStory))
			out := make([]store.FlatComment, 0, len(items))
			for _, item := range items {
				if !item.Visible() {
					continue
				}
				out = append(out, store.FlatComment{
					ID:         item.ID,
					By:         item.By,
					Text:       item.Text,
					Time:       item.Time,
					Score:      sentiment.Score(item.Text),
					StoryID:    st.ID,
					StoryTitle: st.Title,
				})
			}
			perStoryResults[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var total int
	for _, r := range perStoryResults {
		total += len(r)
	}
	flat := make([]store.FlatComment, 0, total)
	for _, r := range perStoryResults {
		flat = append(flat, r...)
	}
	return flat
}
