package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmmetz/hn-pulse/hn"
)

func TestSnapshotStoriesTTL(t *testing.T) {
	s := NewSnapshot()
	now := time.Unix(1_700_000_000, 0)

	_, ok := s.Stories(now, time.Minute)
	assert.False(t, ok, "empty snapshot must be stale")

	s.SetStories([]Story{{ID: 1}, {ID: 2}}, now)

	got, ok := s.Stories(now.Add(30*time.Second), time.Minute)
	require.True(t, ok)
	assert.Len(t, got, 2)

	_, ok = s.Stories(now.Add(2*time.Minute), time.Minute)
	assert.False(t, ok)
}

func TestSnapshotReturnsCopies(t *testing.T) {
	s := NewSnapshot()
	now := time.Now()
	in := []FlatComment{{ID: 1, Score: 0.5}}
	s.SetSentiments(in, now)
	in[0].Score = -1

	got, ok := s.Sentiments(now, time.Minute)
	require.True(t, ok)
	assert.Equal(t, 0.5, got[0].Score)

	got[0].Score = 0
	again, _ := s.Sentiments(now, time.Minute)
	assert.Equal(t, 0.5, again[0].Score)
}

func TestSnapshotStatus(t *testing.T) {
	s := NewSnapshot()
	assert.Equal(t, Status{}, s.Status())

	at := time.Unix(1_700_000_000, 0)
	s.SetStories([]Story{{ID: 1}}, at)
	st := s.Status()
	assert.Equal(t, 1, st.Stories)
	assert.Equal(t, at.Unix(), st.StoriesAt)
	assert.Zero(t, st.SentimentsAt)
}

func TestStoryFromItem(t *testing.T) {
	item := &hn.Item{ID: 7, Title: "T", URL: "https://a.b", Score: 3, By: "me", Time: 10, Descendants: 4, Kids: []int{1, 2}}
	st := StoryFromItem(item)
	assert.Equal(t, Story{ID: 7, Title: "T", URL: "https://a.b", Score: 3, By: "me", Time: 10, Descendants: 4, Kids: []int{1, 2}}, st)

	item.Kids[0] = 99
	assert.Equal(t, 1, st.Kids[0], "kids must not alias the source item")
}

func TestCountComments(t *testing.T) {
	forest := []*Comment{
		{ID: 1, Kids: []*Comment{{ID: 2}, {ID: 3, Kids: []*Comment{{ID: 4}}}}},
		{ID: 5},
	}
	assert.Equal(t, 5, CountComments(forest))
	assert.Zero(t, CountComments(nil))
}
