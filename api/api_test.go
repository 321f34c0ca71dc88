package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmmetz/hn-pulse/hn"
	"github.com/danielmmetz/hn-pulse/sse"
	"github.com/danielmmetz/hn-pulse/store"
	"github.com/danielmmetz/hn-pulse/worker"
)

type upstream struct {
	srv      *httptest.Server
	indexBad atomic.Bool
}

// newUpstream serves a small fixed HN item store.
func newUpstream(t *testing.T) *upstream {
	t.Helper()
	now := time.Now().Unix()
	items := map[string]string{
		"100": fmt.Sprintf(`{"id":100,"type":"story","by":"rsc","time":%d,"title":"Go generics in practice","url":"https://go.dev/blog","score":300,"descendants":3,"kids":[1,2]}`, now-600),
		"200": fmt.Sprintf(`{"id":200,"type":"story","by":"pg","time":%d,"title":"Generics again","url":"https://www.example.com/x","score":120,"descendants":1,"kids":[3]}`, now-7200),
		"1":   fmt.Sprintf(`{"id":1,"type":"comment","by":"a","time":%d,"text":"I love it","kids":[11]}`, now-300),
		"2":   fmt.Sprintf(`{"id":2,"type":"comment","by":"b","time":%d,"deleted":true}`, now-300),
		"3":   fmt.Sprintf(`{"id":3,"type":"comment","by":"c","time":%d,"text":"this is awful"}`, now-5400),
		"11":  fmt.Sprintf(`{"id":11,"type":"comment","by":"d","time":%d,"text":"good point"}`, now-200),
	}

	u := &upstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /topstories.json", func(w http.ResponseWriter, r *http.Request) {
		if u.indexBad.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[100, 404, 200]`))
	})
	mux.HandleFunc("GET /item/{file}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := items[strings.TrimSuffix(r.PathValue("file"), ".json")]
		if !ok {
			w.Write([]byte(`null`))
			return
		}
		w.Write([]byte(body))
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

type testAPI struct {
	up     *upstream
	srv    *httptest.Server
	snap   *store.Snapshot
	broker *sse.Broker
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	up := newUpstream(t)
	cfg := worker.DefaultConfig()
	cfg.StoriesTTL = 0
	cfg.SentimentsTTL = 0
	snap := store.NewSnapshot()
	fetcher := worker.NewFetcher(hn.NewClient(hn.Options{BaseURL: up.srv.URL}), snap, cfg)
	broker := sse.NewBroker(10, time.Minute)

	srv := httptest.NewServer(NewRouter(Config{
		Fetcher:  fetcher,
		Snapshot: snap,
		Events:   broker,
		Location: time.UTC,
	}))
	t.Cleanup(srv.Close)
	return &testAPI{up: up, srv: srv, snap: snap, broker: broker}
}

func (a *testAPI) do(t *testing.T, method, path, body string, header http.Header) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestTopStoriesEndpoint(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/stories/top", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	stories := decode[[]store.Story](t, resp)
	require.Len(t, stories, 2)
	assert.Equal(t, 100, stories[0].ID)
	assert.Equal(t, 200, stories[1].ID)

	again := a.do(t, http.MethodGet, "/api/stories/top", "", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, again.StatusCode)
}

func TestIndexFailureIsBadGateway(t *testing.T) {
	a := newTestAPI(t)
	a.up.indexBad.Store(true)

	for _, path := range []string{"/api/stories/top", "/api/comments/sentiment", "/api/dashboard", "/api/analytics/stats"} {
		resp := a.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode, path)
		body := decode[errorResponse](t, resp)
		assert.Equal(t, worker.ErrIndexUnavailable.Error(), body.Error, path)
	}
}

func TestGetStory(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/stories/100", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	story := decode[store.StoryWithComments](t, resp)
	assert.Equal(t, "Go generics in practice", story.Title)
	require.Len(t, story.Comments, 1, "the deleted comment is pruned")
	assert.Equal(t, 1, story.Comments[0].ID)
	require.Len(t, story.Comments[0].Kids, 1)
	assert.Equal(t, 11, story.Comments[0].Kids[0].ID)
	assert.Greater(t, story.Comments[0].Sentiment, 0.0)

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"/api/stories/abc", http.StatusBadRequest, "invalid id"},
		{"/api/stories/0", http.StatusBadRequest, "storyId is required"},
		{"/api/stories/999", http.StatusNotFound, "Story not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := a.do(t, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.msg, decode[errorResponse](t, resp).Error)
		})
	}
}

func TestPostStoryWithComments(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodPost, "/api/story-with-comments", `{"storyId": 200}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	story := decode[store.StoryWithComments](t, resp)
	assert.Equal(t, 200, story.ID)
	require.Len(t, story.Comments, 1)
	assert.Less(t, story.Comments[0].Sentiment, 0.0)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing id", `{}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"malformed", `{"storyId":`, http.StatusBadRequest},
		{"unknown story", `{"storyId": 31337}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.do(t, http.MethodPost, "/api/story-with-comments", tt.body, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCommentSentimentsEndpoint(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/comments/sentiment", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decode[[]store.FlatComment](t, resp)

	require.Len(t, comments, 2)
	assert.Equal(t, 1, comments[0].ID)
	assert.Equal(t, 100, comments[0].StoryID)
	assert.Equal(t, "Go generics in practice", comments[0].StoryTitle)
	assert.Equal(t, 3, comments[1].ID)
	assert.Equal(t, 200, comments[1].StoryID)
}

func TestDashboardEndpoint(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d struct {
		Stats struct {
			TotalComments int `json:"totalComments"`
			ActiveStories int `json:"activeStories"`
			UniqueDomains int `json:"uniqueDomains"`
		} `json:"stats"`
		Keywords     []map[string]interface{} `json:"keywords"`
		Distribution []map[string]interface{} `json:"sentimentDistribution"`
		TopDomains   []map[string]interface{} `json:"topDomains"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, 2, d.Stats.TotalComments)
	assert.Equal(t, 2, d.Stats.ActiveStories)
	assert.Equal(t, 2, d.Stats.UniqueDomains)
	require.Len(t, d.Keywords, 1)
	assert.Equal(t, "generics", d.Keywords[0]["text"])
	assert.Len(t, d.Distribution, 11)
	assert.Len(t, d.TopDomains, 2)

	status := a.snap.Status()
	assert.Equal(t, 2, status.Stories)
	assert.Equal(t, 2, status.Sentiments)
}

func TestAnalyticsEndpoints(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{
		"/api/analytics/keywords",
		"/api/analytics/keywords?shuffle=true",
		"/api/analytics/domains",
		"/api/analytics/submitters",
		"/api/analytics/activity",
		"/api/analytics/engagement",
		"/api/analytics/stats",
		"/api/analytics/sentiment/trend",
		"/api/analytics/sentiment/distribution",
		"/api/analytics/sentiment/categories",
		"/api/analytics/sentiment/domains",
		"/api/deep-dive/keyword/generics",
		"/api/deep-dive/sentiment/positive",
		fmt.Sprintf("/api/deep-dive/activity/%d", time.Now().Add(-time.Hour).UnixMilli()),
		fmt.Sprintf("/api/deep-dive/sentiment-hour/%d", time.Now().UnixMilli()),
	} {
		resp := a.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestDeepDiveKeyword(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/deep-dive/keyword/EXAMPLE", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stories := decode[[]store.Story](t, resp)
	require.Len(t, stories, 1)
	assert.Equal(t, 200, stories[0].ID)
}

func TestBadAnalyticsInput(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{
		"/api/analytics/activity/resolve?day=9&hour=1",
		"/api/analytics/activity/resolve?day=x&hour=1",
		"/api/analytics/activity/resolve?day=1",
		"/api/deep-dive/sentiment/mixed",
		"/api/deep-dive/activity/yesterday",
		"/api/deep-dive/sentiment-hour/noon",
	} {
		resp := a.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.NotEmpty(t, decode[errorResponse](t, resp).Error, path)
	}
}

func TestResolveActivityCell(t *testing.T) {
	h := NewAnalyticsHandler(nil, time.UTC)
	h.now = func() time.Time { return time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC) }

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/activity/resolve?day=0&hour=9", nil)
	rec := httptest.NewRecorder()
	h.ResolveActivityCell(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got resolvedCell
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	want := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(got.Time))
	assert.Equal(t, want.UnixMilli(), got.Timestamp)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	a.do(t, http.MethodGet, "/api/stories/top", "", nil)

	resp := a.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status      string       `json:"status"`
		Snapshot    store.Status `json:"snapshot"`
		Subscribers int          `json:"subscribers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2, body.Snapshot.Stories)
	assert.NotZero(t, body.Snapshot.StoriesAt)
	assert.Zero(t, body.Subscribers)
}
