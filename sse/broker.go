// Package sse pushes dashboard refresh notifications to browsers over
// server-sent events.
package sse

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type Event struct {
	ID   uint64
	Type string
	Data string
}

func (e *Event) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", e.ID, e.Type, e.Data)
	return int64(n), err
}

// Broker fans published events out to every connected client and keeps a
// short history so reconnecting clients can catch up.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan *Event]struct{}
	history     *history
	lastID      uint64
	keepalive   time.Duration
}

func NewBroker(historySize int, keepalive time.Duration) *Broker {
	if keepalive <= 0 {
		keepalive = 30 * time.Second
	}
	return &Broker{
		subscribers: make(map[chan *Event]struct{}),
		history:     newHistory(historySize),
		keepalive:   keepalive,
	}
}

// Publish assigns the next event ID and delivers the event to every
// subscriber that has room for it. Slow subscribers miss the event and can
// recover through Last-Event-ID on reconnect.
func (b *Broker) Publish(eventType, data string) {
	b.mu.Lock()
	b.lastID++
	evt := &Event{ID: b.lastID, Type: eventType, Data: data}
	b.history.add(evt)

	subs := make([]chan *Event, 0, len(b.subscribers))
	for ch := range b.subscribers {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	dropped := 0
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		slog.Warn("sse: dropped event for slow subscribers", "event_id", evt.ID, "type", eventType, "subscribers", dropped)
	}
}

// subscribe registers a subscriber and returns the events it missed since
// lastID. Registration and the history read happen under one lock so no
// event falls between them.
func (b *Broker) subscribe(lastID uint64, resume bool) (ch chan *Event, replay []*Event, resync bool, current uint64) {
	ch = make(chan *Event, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = struct{}{}
	if resume {
		var ok bool
		replay, ok = b.history.after(lastID)
		resync = !ok
	}
	return ch, replay, resync, b.lastID
}

func (b *Broker) unsubscribe(ch chan *Event) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
}

func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Browsers resend Last-Event-ID on reconnect; first connects may pass it
	// as a query parameter instead.
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("lastEventId")
	}
	lastID, err := strconv.ParseUint(raw, 10, 64)
	resume := raw != "" && err == nil

	ch, replay, resync, current := b.subscribe(lastID, resume)
	defer b.unsubscribe(ch)
	slog.Debug("sse: client connected", "remote", r.RemoteAddr, "last_event_id", raw)

	if resync {
		fmt.Fprintf(w, "id: %d\nevent: sync_required\ndata: {}\n\n", current)
	}
	for _, e := range replay {
		e.WriteTo(w)
	}
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(b.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("sse: client disconnected", "remote", r.RemoteAddr)
			return
		case evt := <-ch:
			evt.WriteTo(w)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// LastEventID returns the ID of the most recently published event.
func (b *Broker) LastEventID() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastID
}
