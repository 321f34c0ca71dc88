package api

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielmmetz/hn-pulse/worker"
)

// writeJSON marshals data and serves it with an ETag so unchanged snapshots
// answer 304 to revalidating clients.
func writeJSON(w http.ResponseWriter, r *http.Request, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal response", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	etag := fmt.Sprintf(`"%x"`, md5.Sum(body))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Write(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// writeFetchError maps a fetch failure to its status and error object.
func writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, worker.ErrMissingStoryID):
		status, msg = http.StatusBadRequest, worker.ErrMissingStoryID.Error()
	case errors.Is(err, worker.ErrStoryNotFound):
		status, msg = http.StatusNotFound, "Story not found"
	case errors.Is(err, worker.ErrIndexUnavailable):
		status, msg = http.StatusBadGateway, worker.ErrIndexUnavailable.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "upstream timeout"
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request failed", "path", r.URL.Path, "status", status, "request_id", RequestIDFrom(r.Context()), "error", err)
	writeError(w, status, msg)
}
