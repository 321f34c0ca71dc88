package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Publisher receives a notification after each successful refresh.
type Publisher interface {
	Publish(eventType, data string)
}

// Poller periodically reloads both dashboard batches so that API reads are
// served from a warm snapshot.
type Poller struct {
	fetcher  *Fetcher
	pub      Publisher
	interval time.Duration
}

func NewPoller(fetcher *Fetcher, pub Publisher, interval time.Duration) *Poller {
	return &Poller{fetcher: fetcher, pub: pub, interval: interval}
}

// Start begins the polling loop. It runs until the context is cancelled.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		p.poll(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("poller: shutting down")
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

func (p *Poller) poll(ctx context.Context) {
	slog.Info("poller: refreshing dashboard batches")
	start := time.Now()

	stories, err := p.fetcher.LoadTopStories(ctx)
	if err != nil {
		slog.Error("poller: error loading top stories", "error", err)
		return
	}
	if ctx.Err() != nil {
		slog.Info("poller: cancelled after story load")
		return
	}

	comments, err := p.fetcher.LoadCommentSentiments(ctx)
	if err != nil {
		slog.Error("poller: error loading comment sentiments", "error", err)
		return
	}

	slog.Info("poller: refresh complete", "stories", len(stories), "comments", len(comments), "elapsed", time.Since(start))

	if p.pub != nil {
		data, _ := json.Marshal(map[string]interface{}{
			"stories":   len(stories),
			"comments":  len(comments),
			"timestamp": time.Now().Unix(),
		})
		p.pub.Publish("dashboard_updated", string(data))
	}
}
