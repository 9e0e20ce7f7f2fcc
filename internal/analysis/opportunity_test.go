package analysis

import (
	"testing"

	"github.com/gatat123/YouTube-Bot-v7/internal/config"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

func TestScoreNoSignalsIsNeutral(t *testing.T) {
	s := NewScorer(config.ScoringWeights{})
	kw := models.ScoredKeyword{Keyword: "게임"}

	s.Score(&kw)

	if kw.Opportunity != 50 {
		t.Errorf("Opportunity = %v, want 50", kw.Opportunity)
	}
	if kw.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", kw.Confidence)
	}
}

func TestScoreRenormalizesOverPresentSlots(t *testing.T) {
	s := NewScorer(config.ScoringWeights{})
	kw := models.ScoredKeyword{
		Keyword: "게임",
		Competition: &models.CompetitionSnapshot{
			Tier:        models.CompetitionLow,
			Opportunity: 90,
		},
	}

	s.Score(&kw)

	// Competition slot alone: (20 tier + 18 platform) / 40 = 95%.
	if kw.Opportunity != 95 {
		t.Errorf("Opportunity = %v, want 95", kw.Opportunity)
	}
	if kw.Confidence != 40 {
		t.Errorf("Confidence = %v, want 40", kw.Confidence)
	}
}

func TestScoreAllSlotsClamped(t *testing.T) {
	s := NewScorer(config.ScoringWeights{})
	kw := models.ScoredKeyword{
		Keyword: "게임",
		Trend: &models.TrendSignal{
			AverageInterest: 90,
			GrowthRate:      80,
			DataPoints:      100,
			IsRealData:      true,
		},
		Competition: &models.CompetitionSnapshot{
			Tier:        models.CompetitionLow,
			Opportunity: 100,
		},
		Social: &models.SocialSignal{BuzzScore: 100, ViralScore: 100},
	}

	s.Score(&kw)

	if kw.Opportunity != 100 {
		t.Errorf("Opportunity = %v, want 100", kw.Opportunity)
	}
	if kw.Confidence != 100 {
		t.Errorf("Confidence = %v, want clamped 100", kw.Confidence)
	}
}

func TestConfidenceCredits(t *testing.T) {
	s := NewScorer(config.ScoringWeights{})

	tests := []struct {
		name string
		kw   models.ScoredKeyword
		want float64
	}{
		{
			name: "short trend series only",
			kw:   models.ScoredKeyword{Trend: &models.TrendSignal{DataPoints: 10}},
			want: 40,
		},
		{
			name: "medium trend series",
			kw:   models.ScoredKeyword{Trend: &models.TrendSignal{DataPoints: 60}},
			want: 45,
		},
		{
			name: "long trend series",
			kw:   models.ScoredKeyword{Trend: &models.TrendSignal{DataPoints: 120}},
			want: 50,
		},
		{
			name: "competition and social only",
			kw: models.ScoredKeyword{
				Competition: &models.CompetitionSnapshot{Tier: models.CompetitionMedium},
				Social:      &models.SocialSignal{},
			},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Score(&tt.kw)
			if tt.kw.Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", tt.kw.Confidence, tt.want)
			}
		})
	}
}

func TestNormalizeBatch(t *testing.T) {
	keywords := []models.ScoredKeyword{
		{Keyword: "a", Opportunity: 20},
		{Keyword: "b", Opportunity: 50},
		{Keyword: "c", Opportunity: 80},
	}

	NormalizeBatch(keywords)

	want := []float64{0, 50, 100}
	for i, kw := range keywords {
		if kw.Opportunity != want[i] {
			t.Errorf("keywords[%d].Opportunity = %v, want %v", i, kw.Opportunity, want[i])
		}
	}
}

func TestNormalizeBatchSkipsDegenerateInputs(t *testing.T) {
	single := []models.ScoredKeyword{{Keyword: "a", Opportunity: 70}}
	NormalizeBatch(single)
	if single[0].Opportunity != 70 {
		t.Errorf("single keyword rescaled to %v", single[0].Opportunity)
	}

	equal := []models.ScoredKeyword{
		{Keyword: "a", Opportunity: 60},
		{Keyword: "b", Opportunity: 60},
	}
	NormalizeBatch(equal)
	for _, kw := range equal {
		if kw.Opportunity != 60 {
			t.Errorf("equal scores rescaled to %v", kw.Opportunity)
		}
	}
}
