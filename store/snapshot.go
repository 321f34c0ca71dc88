package store

import (
	"sync"
	"time"
)

// Snapshot holds the latest fetched dashboard batches in process memory.
// It is written by the fetcher after a successful load and read by the API
// handlers; entries older than their TTL are reported as stale.
type Snapshot struct {
	mu           sync.RWMutex
	stories      []Story
	storiesAt    time.Time
	sentiments   []FlatComment
	sentimentsAt time.Time
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// SetStories replaces the stories batch.
func (s *Snapshot) SetStories(stories []Story, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories = append([]Story(nil), stories...)
	s.storiesAt = at
}

// Stories returns a copy of the stories batch if it was set no earlier than
// ttl before now.
func (s *Snapshot) Stories(now time.Time, ttl time.Duration) ([]Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.storiesAt.IsZero() || now.Sub(s.storiesAt) > ttl {
		return nil, false
	}
	return append([]Story(nil), s.stories...), true
}

// SetSentiments replaces the flat comment batch.
func (s *Snapshot) SetSentiments(comments []FlatComment, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentiments = append([]FlatComment(nil), comments...)
	s.sentimentsAt = at
}

// Sentiments returns a copy of the flat comment batch if it is fresh.
func (s *Snapshot) Sentiments(now time.Time, ttl time.Duration) ([]FlatComment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sentimentsAt.IsZero() || now.Sub(s.sentimentsAt) > ttl {
		return nil, false
	}
	return append([]FlatComment(nil), s.sentiments...), true
}

// Status reports batch sizes and load times for the health endpoint.
type Status struct {
	Stories      int   `json:"stories_count"`
	StoriesAt    int64 `json:"stories_fetched_at,omitempty"`
	Sentiments   int   `json:"sentiments_count"`
	SentimentsAt int64 `json:"sentiments_fetched_at,omitempty"`
}

func (s *Snapshot) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{Stories: len(s.stories), Sentiments: len(s.sentiments)}
	if !s.storiesAt.IsZero() {
		st.StoriesAt = s.storiesAt.Unix()
	}
	if !s.sentimentsAt.IsZero() {
		st.SentimentsAt = s.sentimentsAt.Unix()
	}
	return st
}
