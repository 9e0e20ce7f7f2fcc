package models

// CompetitionTier buckets how crowded a keyword's niche is.
type CompetitionTier string

const (
	CompetitionLow     CompetitionTier = "low"
	CompetitionMedium  CompetitionTier = "medium"
	CompetitionHigh    CompetitionTier = "high"
	CompetitionUnknown CompetitionTier = "unknown"
)

// Windows used for upload-frequency counts.
const (
	Window24h = "24h"
	Window7d  = "7d"
	Window30d = "30d"
)

// VelocityStats describes view accumulation speed (views per hour since
// publication) over a sample of recent videos.
type VelocityStats struct {
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	P75    float64 `json:"p75"`
	Sample int     `json:"sample"`
}

// EngagementStats describes (likes+comments)/views ratios, as percentages.
type EngagementStats struct {
	AvgRate    float64 `json:"avg_rate"`
	MedianRate float64 `json:"median_rate"`
	HighRatio  float64 `json:"high_ratio"`
	Sample     int     `json:"sample"`
}

// CompetitionSnapshot is the per-keyword output of competition analysis.
type CompetitionSnapshot struct {
	Keyword          string          `json:"keyword"`
	UploadCounts     map[string]int  `json:"upload_counts"`
	Velocity         VelocityStats   `json:"view_velocity"`
	Engagement       EngagementStats `json:"engagement"`
	ChannelDiversity float64         `json:"channel_diversity"`
	Tier             CompetitionTier `json:"tier"`
	Opportunity      float64         `json:"opportunity_score"`
}

// FallbackCompetitionSnapshot is the neutral record used when the video
// platform cannot be reached.
func FallbackCompetitionSnapshot(keyword string) CompetitionSnapshot {
	return CompetitionSnapshot{
		Keyword:      keyword,
		UploadCounts: map[string]int{},
		Tier:         CompetitionUnknown,
		Opportunity:  50,
	}
}

// ChannelProfile describes one competitor channel in a landscape report.
type ChannelProfile struct {
	ChannelID     string  `json:"channel_id"`
	Title         string  `json:"title"`
	Subscribers   int64   `json:"subscribers"`
	TotalViews    int64   `json:"total_views"`
	VideoCount    int64   `json:"video_count"`
	DominanceShare float64 `json:"dominance_share"`
	GrowthRate    *float64 `json:"growth_rate,omitempty"`
}

// CompetitorLandscape aggregates the channels competing on a keyword.
// GrowthRate fields stay nil unless a historical data provider supplied
// observations; they are never synthesized.
type CompetitorLandscape struct {
	Keyword          string           `json:"keyword"`
	Channels         []ChannelProfile `json:"channels"`
	AvgSubscribers   float64          `json:"avg_subscribers"`
	MarketSaturation string           `json:"market_saturation"`
	EntryDifficulty  string           `json:"entry_difficulty"`
	MarketLeaders    []string         `json:"market_leaders"`
}
