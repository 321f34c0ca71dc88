package api

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielmmetz/hn-pulse/analytics"
	"github.com/danielmmetz/hn-pulse/store"
	"github.com/danielmmetz/hn-pulse/worker"
)

// AnalyticsHandler serves the dashboard aggregates computed from the
// current story and comment batches. Calendar days and hours are taken in
// loc.
type AnalyticsHandler struct {
	fetcher *worker.Fetcher
	loc     *time.Location
	now     func() time.Time
	rand    func() *rand.Rand
}

func NewAnalyticsHandler(fetcher *worker.Fetcher, loc *time.Location) *AnalyticsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsHandler{fetcher: fetcher, loc: loc, now: time.Now, rand: newRand}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (h *AnalyticsHandler) clock() time.Time {
	return h.now().In(h.loc)
}

// batches loads both batches concurrently.
func (h *AnalyticsHandler) batches(r *http.Request) ([]store.Story, []store.FlatComment, error) {
	var (
		stories  []store.Story
		comments []store.FlatComment
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		stories, err = h.fetcher.TopStories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = h.fetcher.CommentSentiments(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return stories, comments, nil
}

// storiesOnly wraps an aggregate over the story batch.
func (h *AnalyticsHandler) storiesOnly(fn func([]store.Story, time.Time) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stories, err := h.fetcher.TopStories(r.Context())
		if err != nil {
			writeFetchError(w, r, err)
			return
		}
		writeJSON(w, r, fn(stories, h.clock()))
	}
}

// commentsOnly wraps an aggregate over the flat comment batch.
func (h *AnalyticsHandler) commentsOnly(fn func([]store.FlatComment, time.Time) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := h.fetcher.CommentSentiments(r.Context())
		if err != nil {
			writeFetchError(w, r, err)
			return
		}
		writeJSON(w, r, fn(comments, h.clock()))
	}
}

// both wraps an aggregate needing stories and comments.
func (h *AnalyticsHandler) both(fn func([]store.Story, []store.FlatComment, time.Time) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stories, comments, err := h.batches(r)
		if err != nil {
			writeFetchError(w, r, err)
			return
		}
		writeJSON(w, r, fn(stories, comments, h.clock()))
	}
}

// Dashboard handles GET /api/dashboard. Keywords are ranked, then shuffled
// for display; ?shuffle=false keeps the ranked order.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	shuffle := true
	if v := r.URL.Query().Get("shuffle"); v != "" {
		shuffle, _ = strconv.ParseBool(v)
	}
	h.both(func(s []store.Story, c []store.FlatComment, now time.Time) interface{} {
		d := analytics.BuildDashboard(s, c, now)
		if shuffle {
			d.Keywords = analytics.Shuffle(d.Keywords, h.rand())
		}
		return d
	})(w, r)
}

// Keywords handles GET /api/analytics/keywords. With ?shuffle=true the
// ranked keywords come back in random display order.
func (h *AnalyticsHandler) Keywords(w http.ResponseWriter, r *http.Request) {
	shuffle, _ := strconv.ParseBool(r.URL.Query().Get("shuffle"))
	h.storiesOnly(func(s []store.Story, _ time.Time) interface{} {
		kws := analytics.Keywords(s)
		if shuffle {
			kws = analytics.Shuffle(kws, h.rand())
		}
		return kws
	})(w, r)
}

// Domains handles GET /api/analytics/domains
func (h *AnalyticsHandler) Domains(w http.ResponseWriter, r *http.Request) {
	h.storiesOnly(func(s []store.Story, _ time.Time) interface{} {
		return analytics.TopDomains(s, analytics.DomainLimit)
	})(w, r)
}

// Submitters handles GET /api/analytics/submitters
func (h *AnalyticsHandler) Submitters(w http.ResponseWriter, r *http.Request) {
	h.storiesOnly(func(s []store.Story, _ time.Time) interface{} {
		return analytics.TopSubmitters(s, analytics.SubmitterLimit)
	})(w, r)
}

// Activity handles GET /api/analytics/activity
func (h *AnalyticsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	h.storiesOnly(func(s []store.Story, now time.Time) interface{} {
		return analytics.Activity(s, now)
	})(w, r)
}

// Engagement handles GET /api/analytics/engagement
func (h *AnalyticsHandler) Engagement(w http.ResponseWriter, r *http.Request) {
	h.storiesOnly(func(s []store.Story, _ time.Time) interface{} {
		return analytics.Engagement(s)
	})(w, r)
}

// Stats handles GET /api/analytics/stats
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.both(func(s []store.Story, c []store.FlatComment, now time.Time) interface{} {
		return analytics.Summarize(s, c, now.Location())
	})(w, r)
}

// Trend handles GET /api/analytics/sentiment/trend
func (h *AnalyticsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	h.commentsOnly(func(c []store.FlatComment, now time.Time) interface{} {
		return analytics.HourlyTrend(c, now)
	})(w, r)
}

// Distribution handles GET /api/analytics/sentiment/distribution
func (h *AnalyticsHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	h.commentsOnly(func(c []store.FlatComment, _ time.Time) interface{} {
		return analytics.Distribution(c)
	})(w, r)
}

// Categories handles GET /api/analytics/sentiment/categories
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.commentsOnly(func(c []store.FlatComment, _ time.Time) interface{} {
		return analytics.CategoryCounts(c)
	})(w, r)
}

// DomainSentiment handles GET /api/analytics/sentiment/domains
func (h *AnalyticsHandler) DomainSentiment(w http.ResponseWriter, r *http.Request) {
	h.both(func(s []store.Story, c []store.FlatComment, _ time.Time) interface{} {
		return analytics.DomainSentiment(s, c)
	})(w, r)
}

type resolvedCell struct {
	Time      time.Time `json:"time"`
	Timestamp int64     `json:"timestamp"`
}

// ResolveActivityCell handles GET /api/analytics/activity/resolve?day=D&hour=H
func (h *AnalyticsHandler) ResolveActivityCell(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day, err := strconv.Atoi(q.Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day")
		return
	}
	hour, err := strconv.Atoi(q.Get("hour"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hour")
		return
	}
	t, err := analytics.ResolveCell(h.clock(), day, hour)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, resolvedCell{Time: t, Timestamp: t.UnixMilli()})
}
