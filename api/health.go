package api

import (
	"net/http"

	"github.com/danielmmetz/hn-pulse/store"
)

// SubscriberCounter reports connected event-stream clients.
type SubscriberCounter interface {
	SubscriberCount() int
}

type HealthHandler struct {
	snap   *store.Snapshot
	events SubscriberCounter
}

func NewHealthHandler(snap *store.Snapshot, events SubscriberCounter) *HealthHandler {
	return &HealthHandler{snap: snap, events: events}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":   "ok",
		"snapshot": h.snap.Status(),
	}
	if h.events != nil {
		resp["subscribers"] = h.events.SubscriberCount()
	}
	writeJSON(w, r, resp)
}
