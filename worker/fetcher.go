package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danielmmetz/hn-pulse/store"
)

var (
	// ErrMissingStoryID is returned before any fetch when no story id is given.
	ErrMissingStoryID = errors.New("storyId is required")
	// ErrStoryNotFound is returned when the story item itself is unavailable.
	ErrStoryNotFound = errors.New("story not found")
	// ErrIndexUnavailable wraps failures to list the top stories.
	ErrIndexUnavailable = errors.New("top stories index unavailable")
)

// Config bounds the batches the fetcher requests.
type Config struct {
	TopStoriesLimit       int
	SentimentStoriesLimit int
	CommentsPerStory      int
	Tree                  TreeOptions
	StoriesTTL            time.Duration
	SentimentsTTL         time.Duration
	// LoadTimeout bounds a shared load once it is detached from the
	// request that started it.
	LoadTimeout time.Duration
}

// DefaultConfig mirrors the batch sizes the dashboard was designed around.
func DefaultConfig() Config {
	return Config{
		TopStoriesLimit:       100,
		SentimentStoriesLimit: 50,
		CommentsPerStory:      20,
		Tree:                  TreeOptions{MaxDepth: 2},
		StoriesTTL:            time.Minute,
		SentimentsTTL:         5 * time.Minute,
		LoadTimeout:           30 * time.Second,
	}
}

type Fetcher struct {
	src  ItemSource
	snap *store.Snapshot
	cfg  Config
	now  func() time.Time

	sfStories    singleflight.Group
	sfSentiments singleflight.Group
	sfStory      singleflight.Group
}

func NewFetcher(src ItemSource, snap *store.Snapshot, cfg Config) *Fetcher {
	return &Fetcher{src: src, snap: snap, cfg: cfg, now: time.Now}
}

// TopStories returns the top story batch, served from the snapshot while it
// is fresh. Concurrent callers share one load.
func (f *Fetcher) TopStories(ctx context.Context) ([]store.Story, error) {
	if stories, ok := f.snap.Stories(f.now(), f.cfg.StoriesTTL); ok {
		return stories, nil
	}
	v, err := f.shared(ctx, &f.sfStories, "top-stories", func(ctx context.Context) (interface{}, error) {
		return f.LoadTopStories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]store.Story), nil
}

// LoadTopStories fetches the first TopStoriesLimit top stories, dropping
// unavailable ones, and stores the batch in the snapshot.
func (f *Fetcher) LoadTopStories(ctx context.Context) ([]store.Story, error) {
	start := time.Now()
	ids, err := f.src.TopStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	requested := capIDs(ids, f.cfg.TopStoriesLimit)
	stories := f.fetchStories(ctx, requested)
	// Items fetched after cancellation come back nil; the batch is partial.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load top stories: %w", err)
	}
	f.snap.SetStories(stories, f.now())

	slog.Info("top stories loaded", "requested", len(requested), "stories", len(stories), "elapsed", time.Since(start))
	return stories, nil
}

// CommentSentiments returns the scored first-level comments of the top
// SentimentStoriesLimit stories, served from the snapshot while fresh.
func (f *Fetcher) CommentSentiments(ctx context.Context) ([]store.FlatComment, error) {
	if comments, ok := f.snap.Sentiments(f.now(), f.cfg.SentimentsTTL); ok {
		return comments, nil
	}
	v, err := f.shared(ctx, &f.sfSentiments, "comment-sentiments", func(ctx context.Context) (interface{}, error) {
		return f.LoadCommentSentiments(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]store.FlatComment), nil
}

// LoadCommentSentiments always fetches a new flat comment batch.
func (f *Fetcher) LoadCommentSentiments(ctx context.Context) ([]store.FlatComment, error) {
	start := time.Now()
	ids, err := f.src.TopStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	stories := f.fetchStories(ctx, capIDs(ids, f.cfg.SentimentStoriesLimit))
	comments := Collect(ctx, f.src, stories, f.cfg.CommentsPerStory)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load comment sentiments: %w", err)
	}
	f.snap.SetSentiments(comments, f.now())

	slog.Info("comment sentiments loaded", "stories", len(stories), "comments", len(comments), "elapsed", time.Since(start))
	return comments, nil
}

// StoryWithComments fetches one story and its scored comment tree, bounded
// by the configured depth and fan-out caps.
func (f *Fetcher) StoryWithComments(ctx context.Context, id int) (*store.StoryWithComments, error) {
	if id <= 0 {
		return nil, ErrMissingStoryID
	}
	v, err := f.shared(ctx, &f.sfStory, fmt.Sprintf("story-comments-%d", id), func(ctx context.Context) (interface{}, error) {
		item := f.src.FetchItem(ctx, id)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("story %d: %w", id, err)
		}
		if item == nil {
			return nil, fmt.Errorf("story %d: %w", id, ErrStoryNotFound)
		}
		tree := BuildTree(ctx, f.src, item.Kids, f.cfg.Tree)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("story %d: %w", id, err)
		}
		return &store.StoryWithComments{Story: store.StoryFromItem(item), Comments: tree}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*store.StoryWithComments), nil
}

// shared runs load once per key for all concurrent callers. The load is
// detached from the starting caller's cancellation and bounded by
// LoadTimeout. A caller that gives up gets its own context error.
func (f *Fetcher) shared(ctx context.Context, g *singleflight.Group, key string, load func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := g.DoChan(key, func() (interface{}, error) {
		lctx := context.WithoutCancel(ctx)
		if f.cfg.LoadTimeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(lctx, f.cfg.LoadTimeout)
			defer cancel()
		}
		return load(lctx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Fetcher) fetchStories(ctx context.Context, ids []int) []store.Story {
	items := fetchItems(ctx, f.src, ids)
	stories := make([]store.Story, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		stories = append(stories, store.StoryFromItem(item))
	}
	return stories
}
