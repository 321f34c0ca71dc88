package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielmmetz/hn-pulse/analytics"
	"github.com/danielmmetz/hn-pulse/store"
)

// Deep-dive views narrow the current batches to what a dashboard element
// was selected for.

// KeywordStories handles GET /api/deep-dive/keyword/{keyword}
func (h *AnalyticsHandler) KeywordStories(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.PathValue("keyword"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}
	h.storiesOnly(func(s []store.Story, _ time.Time) interface{} {
		return analytics.StoriesMatching(s, keyword)
	})(w, r)
}

// ActivityStories handles GET /api/deep-dive/activity/{timestamp}, where
// timestamp is the start of the hour in Unix milliseconds.
func (h *AnalyticsHandler) ActivityStories(w http.ResponseWriter, r *http.Request) {
	start, ok := h.pathTime(w, r)
	if !ok {
		return
	}
	h.storiesOnly(func(s []store.Story, _ time.Time) interface{} {
		return analytics.StoriesInHour(s, start)
	})(w, r)
}

// CategoryStories handles GET /api/deep-dive/sentiment/{category}
func (h *AnalyticsHandler) CategoryStories(w http.ResponseWriter, r *http.Request) {
	cat, err := analytics.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.both(func(s []store.Story, c []store.FlatComment, _ time.Time) interface{} {
		return analytics.StoriesWithCategory(s, c, cat)
	})(w, r)
}

// HourComments handles GET /api/deep-dive/sentiment-hour/{timestamp}
func (h *AnalyticsHandler) HourComments(w http.ResponseWriter, r *http.Request) {
	t, ok := h.pathTime(w, r)
	if !ok {
		return
	}
	h.commentsOnly(func(c []store.FlatComment, _ time.Time) interface{} {
		return analytics.CommentsInHour(c, t)
	})(w, r)
}

func (h *AnalyticsHandler) pathTime(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	ms, err := strconv.ParseInt(r.PathValue("timestamp"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid timestamp")
		return time.Time{}, false
	}
	return time.UnixMilli(ms).In(h.loc), true
}
