package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmmetz/hn-pulse/store"
)

func TestEngagement(t *testing.T) {
	stories := []store.Story{
		{ID: 1, Score: 10, Descendants: 4, Time: 300},
		{ID: 2, Score: 20, Descendants: 8, Time: 100},
		{ID: 3, Score: 30, Descendants: 0, Time: 200},
	}

	got := Engagement(stories)

	require.Len(t, got, 3)
	assert.Equal(t, 10, got[0].Score)
	assert.Equal(t, 4, got[0].Descendants)
	assert.Equal(t, 1.0, got[0].Recency)
	assert.Equal(t, "hsl(24, 100%, 50%)", got[0].Color)
	assert.Equal(t, 0.0, got[1].Recency)
	assert.Equal(t, "hsl(220, 30%, 50%)", got[1].Color)
	assert.Equal(t, 0.5, got[2].Recency)
	assert.Equal(t, "hsl(122, 65%, 50%)", got[2].Color)
}

func TestEngagementSameTime(t *testing.T) {
	got := Engagement([]store.Story{{ID: 1, Time: 5}, {ID: 2, Time: 5}})
	for _, p := range got {
		assert.Equal(t, 1.0, p.Recency)
		assert.Equal(t, "hsl(24, 100%, 50%)", p.Color)
	}
}

func TestEngagementEmpty(t *testing.T) {
	got := Engagement(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
