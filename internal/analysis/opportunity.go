package analysis

import (
	"github.com/gatat123/YouTube-Bot-v7/internal/config"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// Scorer combines trend, competition and social signals into the final
// opportunity score. Slots without data are excluded and the score is
// renormalized over the weights that remain, so a keyword is never punished
// for a source being down.
type Scorer struct {
	weights config.ScoringWeights
}

// NewScorer builds a scorer; zero weights fall back to the canonical
// 40/40/20 split.
func NewScorer(weights config.ScoringWeights) *Scorer {
	if weights.Trend <= 0 && weights.Competition <= 0 && weights.Social <= 0 {
		weights = config.ScoringWeights{Trend: 40, Competition: 40, Social: 20}
	}
	return &Scorer{weights: weights}
}

// Score computes Opportunity and Confidence for one keyword in place.
func (s *Scorer) Score(kw *models.ScoredKeyword) {
	var points, weightSum float64

	if kw.Trend != nil {
		points += trendPoints(kw.Trend) / 40 * s.weights.Trend
		weightSum += s.weights.Trend
	}
	if kw.Competition != nil {
		points += competitionPoints(kw.Competition) / 40 * s.weights.Competition
		weightSum += s.weights.Competition
	}
	if kw.Social != nil {
		points += socialPoints(kw.Social) / 20 * s.weights.Social
		weightSum += s.weights.Social
	}

	if weightSum == 0 {
		kw.Opportunity = 50
	} else {
		kw.Opportunity = models.Clamp(points/weightSum*100, 0, 100)
	}
	kw.Confidence = confidence(kw)
}

// trendPoints is on a 0-40 scale: up to 20 for current popularity, up to 20
// for growth.
func trendPoints(t *models.TrendSignal) float64 {
	var points float64

	switch avg := t.AverageInterest; {
	case avg > 70:
		points += 20
	case avg > 50:
		points += 15
	case avg > 30:
		points += 10
	default:
		points += 5
	}

	switch g := t.GrowthRate; {
	case g > 50:
		points += 20
	case g > 20:
		points += 15
	case g > 0:
		points += 10
	case g > -20:
		points += 5
	}

	return points
}

// competitionPoints is on a 0-40 scale: up to 20 from the tier, up to 20
// from the platform opportunity score.
func competitionPoints(c *models.CompetitionSnapshot) float64 {
	var points float64
	switch c.Tier {
	case models.CompetitionLow:
		points = 20
	case models.CompetitionMedium:
		points = 10
	case models.CompetitionHigh:
		points = 5
	default:
		points = 10
	}
	return points + c.Opportunity*0.2
}

// socialPoints is on a 0-20 scale.
func socialPoints(s *models.SocialSignal) float64 {
	return s.BuzzScore*0.1 + s.ViralScore*0.1
}

// confidence reflects how much real data backs the score: each present
// source contributes its slot credit, and richer trend series add a bonus.
func confidence(kw *models.ScoredKeyword) float64 {
	var c float64
	if kw.Trend != nil {
		c += 40
		switch dp := kw.Trend.DataPoints; {
		case dp > 90:
			c += 10
		case dp > 30:
			c += 5
		}
	}
	if kw.Competition != nil {
		c += 40
	}
	if kw.Social != nil {
		c += 20
	}
	return models.Clamp(c, 0, 100)
}

// NormalizeBatch rescales opportunity scores so the batch spans 0-100,
// keeping relative order. Skipped when all scores are equal.
func NormalizeBatch(keywords []models.ScoredKeyword) {
	if len(keywords) < 2 {
		return
	}
	minV, maxV := keywords[0].Opportunity, keywords[0].Opportunity
	for _, kw := range keywords[1:] {
		if kw.Opportunity < minV {
			minV = kw.Opportunity
		}
		if kw.Opportunity > maxV {
			maxV = kw.Opportunity
		}
	}
	if maxV == minV {
		return
	}
	for i := range keywords {
		keywords[i].Opportunity = (keywords[i].Opportunity - minV) / (maxV - minV) * 100
	}
}
