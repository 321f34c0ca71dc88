package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// MaxInFlight bounds concurrent requests. 0 leaves fan-out unbounded.
	MaxInFlight int
	// RequestsPerSecond throttles outgoing requests. 0 disables throttling.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	sem     chan struct{}
	limiter *rate.Limiter
}

func NewClient(opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    opts.HTTPClient,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if opts.MaxInFlight > 0 {
		c.sem = make(chan struct{}, opts.MaxInFlight)
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

func (c *Client) acquire(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.sem == nil {
		return nil
	}
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	if c.sem != nil {
		<-c.sem
	}
}

// TopStories returns the ordered top story IDs. Any failure here is fatal
// for the caller: without the listing there is nothing to work from.
func (c *Client) TopStories(ctx context.Context) ([]int, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/topstories.json", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch top stories: unexpected status %d", resp.StatusCode)
	}

	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("decode top stories: %w", err)
	}
	return ids, nil
}

// GetItem fetches a single HN item by ID. A missing item (JSON null or a
// non-2xx status) yields a nil item and a nil error.
func (c *Client) GetItem(ctx context.Context, id int) (*Item, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/item/%d.json", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request for item %d: %w", id, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch item %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch item %d: unexpected status %d", id, resp.StatusCode)
	}

	var item *Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decode item %d: %w", id, err)
	}
	if item == nil || item.ID == 0 {
		return nil, nil
	}
	return item, nil
}

// FetchItem is GetItem with failures folded into absence. It logs and
// returns nil instead of an error so that batch callers can simply filter.
func (c *Client) FetchItem(ctx context.Context, id int) *Item {
	item, err := c.GetItem(ctx, id)
	if err != nil {
		slog.Warn("item unavailable", "item_id", id, "error", err)
		return nil
	}
	if item == nil {
		slog.Debug("item missing", "item_id", id)
	}
	return item
}
