package models

import (
	"fmt"
	"strings"
	"time"
)

// Analysis depths. Depth controls how many keywords survive each funnel
// stage and how long the run may take.
const (
	DepthQuick    = "quick"
	DepthStandard = "standard"
	DepthDeep     = "deep"
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Topic    string   `json:"topic" binding:"required,min=2,max=100"`
	Category string   `json:"category" binding:"omitempty,max=50"`
	Keywords []string `json:"keywords" binding:"omitempty,max=20,dive,min=1,max=50"`
	Depth    string   `json:"depth" binding:"omitempty,oneof=quick standard deep"`
	Region   string   `json:"region" binding:"omitempty,len=2"`
}

// Normalize trims fields and fills defaults. Returns ErrInvalidInput when the
// topic is empty after trimming.
func (r *AnalyzeRequest) Normalize() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if len([]rune(r.Topic)) < 2 {
		return fmt.Errorf("%w: topic must have at least 2 characters", ErrInvalidInput)
	}
	r.Category = strings.TrimSpace(r.Category)
	if r.Depth == "" {
		r.Depth = DepthStandard
	}
	if r.Region == "" {
		r.Region = "KR"
	}
	for i := range r.Keywords {
		r.Keywords[i] = strings.TrimSpace(r.Keywords[i])
	}
	return nil
}

// ReportStats carries run-level counters for observability and confidence
// bonuses downstream.
type ReportStats struct {
	ExpandedCount   int           `json:"expanded_count"`
	FirstPassCount  int           `json:"first_pass_count"`
	FinalCount      int           `json:"final_count"`
	RealDataRatio   float64       `json:"real_data_ratio"`
	DegradedSources []string      `json:"degraded_sources,omitempty"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// AnalysisReport is the complete pipeline output.
type AnalysisReport struct {
	ID          string                `json:"id"`
	Topic       string                `json:"topic"`
	Category    string                `json:"category"`
	Depth       string                `json:"depth"`
	Keywords    []ScoredKeyword       `json:"keywords"`
	Landscapes  []CompetitorLandscape `json:"landscapes,omitempty"`
	Predictions []Prediction          `json:"predictions"`
	Titles      []string              `json:"suggested_titles,omitempty"`
	Stats       ReportStats           `json:"stats"`
	CreatedAt   time.Time             `json:"created_at"`
}
