package sse

// history keeps the most recent events for Last-Event-ID replay.
type history struct {
	events []*Event
	size   int
}

func newHistory(size int) *history {
	if size < 1 {
		size = 1
	}
	return &history{events: make([]*Event, 0, size), size: size}
}

func (h *history) add(e *Event) {
	if len(h.events) >= h.size {
		copy(h.events, h.events[1:])
		h.events = h.events[:len(h.events)-1]
	}
	h.events = append(h.events, e)
}

// after returns the events newer than lastID. ok is false when events
// after lastID have already been evicted and the client must resync.
func (h *history) after(lastID uint64) (events []*Event, ok bool) {
	if len(h.events) == 0 {
		return nil, true
	}
	if lastID+1 < h.events[0].ID {
		return nil, false
	}
	for _, e := range h.events {
		if e.ID > lastID {
			events = append(events, e)
		}
	}
	return events, true
}
