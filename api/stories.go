package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/danielmmetz/hn-pulse/worker"
)

type StoriesHandler struct {
	fetcher *worker.Fetcher
}

func NewStoriesHandler(fetcher *worker.Fetcher) *StoriesHandler {
	return &StoriesHandler{fetcher: fetcher}
}

// TopStories handles GET /api/stories/top
func (h *StoriesHandler) TopStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.fetcher.TopStories(r.Context())
	if err != nil {
		writeFetchError(w, r, err)
		return
	}
	writeJSON(w, r, stories)
}

// GetStory handles GET /api/stories/{id}
func (h *StoriesHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.serveStory(w, r, id)
}

type storyRequest struct {
	StoryID int `json:"storyId"`
}

// StoryWithComments handles POST /api/story-with-comments with a
// {"storyId": N} body.
func (h *StoriesHandler) StoryWithComments(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.serveStory(w, r, req.StoryID)
}

func (h *StoriesHandler) serveStory(w http.ResponseWriter, r *http.Request, id int) {
	story, err := h.fetcher.StoryWithComments(r.Context(), id)
	if err != nil {
		writeFetchError(w, r, err)
		return
	}
	writeJSON(w, r, story)
}
