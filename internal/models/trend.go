package models

// TrendDirection classifies the shape of an interest series.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
	TrendUnknown TrendDirection = "unknown"
)

// TrendSignal summarizes search-interest data for one keyword. When the
// upstream source could not be reached, IsRealData is false and the record
// carries documented neutral defaults (average 50, stable).
type TrendSignal struct {
	Keyword         string         `json:"keyword"`
	Interest        []float64      `json:"interest,omitempty"`
	AverageInterest float64        `json:"average_interest"`
	MaxInterest     float64        `json:"max_interest"`
	Direction       TrendDirection `json:"direction"`
	GrowthRate      float64        `json:"growth_rate"`
	Volatility      float64        `json:"volatility"`
	DataPoints      int            `json:"data_points"`
	IsRealData      bool           `json:"is_real_data"`
	Region          string         `json:"region,omitempty"`
}

// FallbackTrendSignal is the neutral record a keyword receives when interest
// data is unavailable after retries.
func FallbackTrendSignal(keyword string) TrendSignal {
	return TrendSignal{
		Keyword:         keyword,
		AverageInterest: 50,
		MaxInterest:     50,
		Direction:       TrendStable,
		IsRealData:      false,
	}
}

// TrendingOpportunity is a currently-trending topic that quick-scored above
// the discovery threshold.
type TrendingOpportunity struct {
	Topic       string  `json:"topic"`
	Opportunity float64 `json:"opportunity_score"`
	Action      string  `json:"recommended_action"`
}
