package models

// GrowthPotential classifies how far a keyword could run.
type GrowthPotential string

const (
	GrowthLow    GrowthPotential = "low"
	GrowthMedium GrowthPotential = "medium"
	GrowthHigh   GrowthPotential = "high"
	GrowthViral  GrowthPotential = "viral"
)

// ViewRange is an inclusive estimated view interval.
type ViewRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Prediction is the rule-engine output for one keyword.
type Prediction struct {
	Keyword            string              `json:"keyword"`
	EstimatedViews     ViewRange           `json:"estimated_views"`
	GrowthPotential    GrowthPotential     `json:"growth_potential"`
	CompetitionLevel   CompetitionTier     `json:"competition_level"`
	BestUploadTimes    map[string][]string `json:"best_upload_times"`
	SubscriberGain     int64               `json:"estimated_subscriber_gain"`
	SuccessProbability float64             `json:"success_probability"`
	Confidence         float64             `json:"confidence"`
	Recommendations    []string            `json:"recommendations"`
}
