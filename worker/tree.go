package worker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/danielmmetz/hn-pulse/hn"
	"github.com/danielmmetz/hn-pulse/sentiment"
	"github.com/danielmmetz/hn-pulse/store"
)

// TreeOptions bounds a comment tree build.
type TreeOptions struct {
	// MaxDepth is the deepest level fetched; top-level comments are depth 0.
	MaxDepth int
	// MaxChildren caps the replies fetched per node, taking the first ones
	// in source order. 0 means no cap.
	MaxChildren int
}

// BuildTree fetches and scores the comment tree rooted at kids.
//
// Each level is fetched as one concurrent batch and joined before the next
// level starts; siblings then recurse concurrently. Levels deeper than
// MaxDepth are never requested. Unavailable, deleted, dead and textless
// comments are dropped together with their replies. Output order follows
// the input IDs, never fetch completion order.
func BuildTree(ctx context.Context, src ItemSource, kids []int, opts TreeOptions) []*store.Comment {
	return buildLevel(ctx, src, kids, 0, opts)
}

func buildLevel(ctx context.Context, src ItemSource, ids []int, depth int, opts TreeOptions) []*store.Comment {
	if len(ids) == 0 || depth > opts.MaxDepth {
		return []*store.Comment{}
	}

	items := fetchItems(ctx, src, capIDs(ids, opts.MaxChildren))

	nodes := make([]*store.Comment, len(items))
	var g errgroup.Group
	for i, item := range items {
		if !item.Visible() {
			continue
		}
		g.Go(func() error {
			nodes[i] = scoreNode(item, buildLevel(ctx, src, item.Kids, depth+1, opts))
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*store.Comment, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func scoreNode(item *hn.Item, kids []*store.Comment) *store.Comment {
	return &store.Comment{
		ID:        item.ID,
		By:        item.By,
		Text:      item.Text,
		Time:      item.Time,
		Sentiment: sentiment.Score(item.Text),
		Kids:      kids,
	}
}
