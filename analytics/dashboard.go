package analytics

import (
	"time"

	"github.com/danielmmetz/hn-pulse/store"
)

// Dashboard bundles every aggregate the dashboard renders.
type Dashboard struct {
	GeneratedAt     time.Time               `json:"generatedAt"`
	Stats           Stats                   `json:"stats"`
	Keywords        []Keyword               `json:"keywords"`
	TopDomains      []DomainCount           `json:"topDomains"`
	TopSubmitters   []Submitter             `json:"topSubmitters"`
	Activity        ActivityGrid            `json:"activity"`
	Trend           Trend                   `json:"sentimentTrend"`
	Distribution    []Bin                   `json:"sentimentDistribution"`
	Categories      []CategoryCount         `json:"sentimentCategories"`
	DomainSentiment []DomainSentimentBucket `json:"domainSentiment"`
	Engagement      []EngagementPoint       `json:"engagement"`
}

// BuildDashboard computes all aggregates relative to now, whose location
// defines calendar days and hours.
func BuildDashboard(stories []store.Story, comments []store.FlatComment, now time.Time) Dashboard {
	return Dashboard{
		GeneratedAt:     now,
		Stats:           Summarize(stories, comments, now.Location()),
		Keywords:        Keywords(stories),
		TopDomains:      TopDomains(stories, DomainLimit),
		TopSubmitters:   TopSubmitters(stories, SubmitterLimit),
		Activity:        Activity(stories, now),
		Trend:           HourlyTrend(comments, now),
		Distribution:    Distribution(comments),
		Categories:      CategoryCounts(comments),
		DomainSentiment: DomainSentiment(stories, comments),
		Engagement:      Engagement(stories),
	}
}
