package api

import (
	"net/http"

	"github.com/danielmmetz/hn-pulse/worker"
)

type CommentsHandler struct {
	fetcher *worker.Fetcher
}

func NewCommentsHandler(fetcher *worker.Fetcher) *CommentsHandler {
	return &CommentsHandler{fetcher: fetcher}
}

// Sentiments handles GET /api/comments/sentiment
func (h *CommentsHandler) Sentiments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.fetcher.CommentSentiments(r.Context())
	if err != nil {
		writeFetchError(w, r, err)
		return
	}
	writeJSON(w, r, comments)
}
