package worker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/danielmmetz/hn-pulse/hn"
)

// ItemSource is the read-only remote item store. FetchItem reports every
// kind of failure as a nil item; TopStories fails only when the index
// listing itself is unreachable.
type ItemSource interface {
	TopStories(ctx context.Context) ([]int, error)
	FetchItem(ctx context.Context, id int) *hn.Item
}

// fetchItems fetches all ids concurrently and returns them in input order.
// Unavailable items are nil.
func fetchItems(ctx context.Context, src ItemSource, ids []int) []*hn.Item {
	results := make([]*hn.Item, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = src.FetchItem(ctx, id)
			return nil
		})
	}
	_ = g.Wait() // never fails: absence is recorded per item
	return results
}

func capIDs(ids []int, max int) []int {
	if max > 0 && len(ids) > max {
		return ids[:max]
	}
	return ids
}
