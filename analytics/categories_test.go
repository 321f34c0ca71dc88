package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmmetz/hn-pulse/store"
)

func TestCategoryCountsScenario(t *testing.T) {
	comments := []store.FlatComment{{Score: 0.2}, {Score: -0.2}, {Score: 0.0}}

	assert.Equal(t, []CategoryCount{
		{Category: Positive, Count: 1},
		{Category: Neutral, Count: 1},
		{Category: Negative, Count: 1},
	}, CategoryCounts(comments))
}

func TestCategoryCountsOmitsZero(t *testing.T) {
	got := CategoryCounts([]store.FlatComment{{Score: -1}, {Score: 1}, {Score: 0.9}})
	assert.Equal(t, []CategoryCount{
		{Category: Positive, Count: 2},
		{Category: Negative, Count: 1},
	}, got)
	assert.Empty(t, CategoryCounts(nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Category
	}{
		{1, Positive},
		{0.051, Positive},
		{0.05, Neutral},
		{0, Neutral},
		{-0.05, Neutral},
		{-0.051, Negative},
		{-1, Negative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("negative")
	require.NoError(t, err)
	assert.Equal(t, Negative, c)

	_, err = ParseCategory("mixed")
	assert.Error(t, err)
}
