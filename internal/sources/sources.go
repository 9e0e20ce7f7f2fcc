// Package sources holds the clients for every external collaborator of the
// analysis pipeline. Each client is hidden behind a small interface so the
// pipeline can be exercised with fakes.
package sources

import (
	"context"
	"time"

	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// KeywordExpander produces candidate keywords for a topic.
type KeywordExpander interface {
	Expand(ctx context.Context, topic, category string, seed []string) ([]models.Candidate, error)
}

// TitleGenerator suggests video titles for the winning keywords.
type TitleGenerator interface {
	GenerateTitles(ctx context.Context, keywords []string, category string) ([]string, error)
}

// TrendSource provides search-interest data. FetchInterest accepts at most
// five keywords per call (the transport's hard limit) and returns a series
// per keyword.
type TrendSource interface {
	FetchInterest(ctx context.Context, keywords []string, geo, timeframe string) (map[string][]float64, error)
	TrendingTopics(ctx context.Context, geo string) ([]string, error)
	// RotateIdentity switches the client to a fresh request identity.
	// Called between retry attempts.
	RotateIdentity()
}

// VideoItem is a search hit on the video platform.
type VideoItem struct {
	ID           string
	Title        string
	ChannelID    string
	ChannelTitle string
	PublishedAt  time.Time
}

// VideoStats are per-video counters.
type VideoStats struct {
	Views    int64
	Likes    int64
	Comments int64
}

// ChannelStats are per-channel counters.
type ChannelStats struct {
	Title       string
	Subscribers int64
	TotalViews  int64
	VideoCount  int64
}

// VideoPlatform provides search and statistics from the video site. order
// is the platform ordering ("date", "viewCount", "relevance").
type VideoPlatform interface {
	Search(ctx context.Context, query, order string, publishedAfter time.Time, maxResults int, region string) ([]VideoItem, error)
	VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error)
	ChannelStats(ctx context.Context, ids []string) (map[string]ChannelStats, error)
}

// SocialSource measures cross-platform buzz for a keyword.
type SocialSource interface {
	AnalyzeBuzz(ctx context.Context, keyword string) (*models.SocialSignal, error)
}

// HistoricalDataProvider supplies past channel observations. Growth rates
// are only computed when real observations exist.
type HistoricalDataProvider interface {
	SubscriberHistory(ctx context.Context, channelID string, since time.Time) ([]SubscriberObservation, error)
}

// SubscriberObservation is one historical subscriber count.
type SubscriberObservation struct {
	At          time.Time
	Subscribers int64
}
