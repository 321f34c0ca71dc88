package api

import (
	"net/http"
	"time"

	"github.com/danielmmetz/hn-pulse/store"
	"github.com/danielmmetz/hn-pulse/worker"
)

// Events is the event stream endpoint.
type Events interface {
	http.Handler
	SubscriberCounter
}

// Config wires the handlers.
type Config struct {
	Fetcher  *worker.Fetcher
	Snapshot *store.Snapshot
	Events   Events
	Location *time.Location
}

// NewRouter registers every route and wraps the mux in the request-ID,
// logging and CORS middleware.
func NewRouter(cfg Config) http.Handler {
	stories := NewStoriesHandler(cfg.Fetcher)
	comments := NewCommentsHandler(cfg.Fetcher)
	an := NewAnalyticsHandler(cfg.Fetcher, cfg.Location)
	health := NewHealthHandler(cfg.Snapshot, cfg.Events)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/stories/top", stories.TopStories)
	mux.HandleFunc("GET /api/stories/{id}", stories.GetStory)
	mux.HandleFunc("POST /api/story-with-comments", stories.StoryWithComments)
	mux.HandleFunc("GET /api/comments/sentiment", comments.Sentiments)

	mux.HandleFunc("GET /api/dashboard", an.Dashboard)
	mux.HandleFunc("GET /api/analytics/keywords", an.Keywords)
	mux.HandleFunc("GET /api/analytics/domains", an.Domains)
	mux.HandleFunc("GET /api/analytics/submitters", an.Submitters)
	mux.HandleFunc("GET /api/analytics/activity", an.Activity)
	mux.HandleFunc("GET /api/analytics/activity/resolve", an.ResolveActivityCell)
	mux.HandleFunc("GET /api/analytics/engagement", an.Engagement)
	mux.HandleFunc("GET /api/analytics/stats", an.Stats)
	mux.HandleFunc("GET /api/analytics/sentiment/trend", an.Trend)
	mux.HandleFunc("GET /api/analytics/sentiment/distribution", an.Distribution)
	mux.HandleFunc("GET /api/analytics/sentiment/categories", an.Categories)
	mux.HandleFunc("GET /api/analytics/sentiment/domains", an.DomainSentiment)

	mux.HandleFunc("GET /api/deep-dive/keyword/{keyword}", an.KeywordStories)
	mux.HandleFunc("GET /api/deep-dive/activity/{timestamp}", an.ActivityStories)
	mux.HandleFunc("GET /api/deep-dive/sentiment/{category}", an.CategoryStories)
	mux.HandleFunc("GET /api/deep-dive/sentiment-hour/{timestamp}", an.HourComments)

	mux.Handle("GET /api/health", health)
	if cfg.Events != nil {
		mux.Handle("GET /api/events", cfg.Events)
	}

	return RequestID(Logging(CORS(mux)))
}
