package analysis

import (
	"time"

	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// baseViewsByTier are the pre-adjustment view ranges.
var baseViewsByTier = map[models.CompetitionTier]models.ViewRange{
	models.CompetitionLow:    {Min: 5000, Max: 50000},
	models.CompetitionMedium: {Min: 1000, Max: 20000},
	models.CompetitionHigh:   {Min: 100, Max: 5000},
}

// conversionByTier maps competition to the view-to-subscriber rate.
var conversionByTier = map[models.CompetitionTier]float64{
	models.CompetitionLow:    0.01,
	models.CompetitionMedium: 0.005,
	models.CompetitionHigh:   0.002,
}

// seasonalFactors reflect monthly viewing patterns: new-year and year-end
// spikes, summer-holiday lift, spring dip.
var seasonalFactors = map[time.Month]float64{
	time.January:   1.2,
	time.February:  1.1,
	time.March:     1.0,
	time.April:     0.9,
	time.May:       0.9,
	time.June:      0.95,
	time.July:      1.1,
	time.August:    1.2,
	time.September: 1.0,
	time.October:   1.0,
	time.November:  1.1,
	time.December:  1.3,
}

// PredictionContext carries run-level data quality inputs for the
// confidence estimate.
type PredictionContext struct {
	TotalKeywords    int
	RegionalData     bool
	ConsistencyScore float64
}

// PredictionEngine turns a scored keyword into a rule-based performance
// forecast. It never calls external services and never fails; missing
// signals degrade to neutral assumptions.
type PredictionEngine struct {
	// now is replaceable in tests; the seasonal multiplier and temporal
	// recommendations depend on the current month.
	now func() time.Time
}

func NewPredictionEngine() *PredictionEngine {
	return &PredictionEngine{now: time.Now}
}

// Predict builds the forecast for one keyword.
func (e *PredictionEngine) Predict(kw models.ScoredKeyword, category string, pctx PredictionContext) models.Prediction {
	tier := effectiveTier(kw.Competition)
	trendScore := TrendScore(kw.Trend)

	base := baseViewsByTier[tier]
	profile := ProfileFor(category)
	trendMult := 1.0 + trendScore/100
	seasonalMult := seasonalFactors[e.now().Month()]

	minViews := int64(float64(base.Min) * profile.ViewMultiplier * trendMult * seasonalMult)
	maxViews := int64(float64(base.Max) * profile.ViewMultiplier * trendMult * seasonalMult)

	viral := ViralPotential(trendScore, tier)
	if viral == models.GrowthViral {
		maxViews *= 5
	}

	avgViews := float64(minViews+maxViews) / 2
	gain := int64(avgViews * conversionByTier[tier] * profile.SubscriberAdjustment)

	return models.Prediction{
		Keyword:            kw.Keyword,
		EstimatedViews:     models.ViewRange{Min: minViews, Max: maxViews},
		GrowthPotential:    viral,
		CompetitionLevel:   tier,
		BestUploadTimes:    UploadTimesFor(category),
		SubscriberGain:     gain,
		SuccessProbability: successProbability(trendScore, tier, viral),
		Confidence:         predictionConfidence(kw, pctx),
		Recommendations:    recommendations(tier, trendScore, viral, category),
	}
}

// effectiveTier treats missing or unknown competition as medium so the
// forecast stays conservative.
func effectiveTier(c *models.CompetitionSnapshot) models.CompetitionTier {
	if c == nil {
		return models.CompetitionMedium
	}
	switch c.Tier {
	case models.CompetitionLow, models.CompetitionMedium, models.CompetitionHigh:
		return c.Tier
	default:
		return models.CompetitionMedium
	}
}

// TrendScore is a 0-100 momentum score: the mean of the last five interest
// points, boosted 1.3x when rising and dampened 0.7x when falling. No trend
// data means the neutral 50.
func TrendScore(t *models.TrendSignal) float64 {
	score := 50.0
	if t == nil {
		return score
	}

	if n := len(t.Interest); n > 0 {
		start := n - 5
		if start < 0 {
			start = 0
		}
		score = models.Clamp(mean(t.Interest[start:]), 0, 100)
	}

	switch t.Direction {
	case models.TrendRising:
		score = models.Clamp(score*1.3, 0, 100)
	case models.TrendFalling:
		score *= 0.7
	}
	return score
}

// ViralPotential classifies upside from momentum and competition.
func ViralPotential(trendScore float64, tier models.CompetitionTier) models.GrowthPotential {
	switch {
	case trendScore > 80 && tier == models.CompetitionLow:
		return models.GrowthViral
	case trendScore > 70 && (tier == models.CompetitionLow || tier == models.CompetitionMedium):
		return models.GrowthHigh
	case trendScore > 50:
		return models.GrowthMedium
	default:
		return models.GrowthLow
	}
}

func successProbability(trendScore float64, tier models.CompetitionTier, viral models.GrowthPotential) float64 {
	p := 50.0
	p += (trendScore - 50) * 0.5

	switch tier {
	case models.CompetitionLow:
		p += 20
	case models.CompetitionHigh:
		p -= 20
	}

	switch viral {
	case models.GrowthViral:
		p += 30
	case models.GrowthHigh:
		p += 15
	case models.GrowthMedium:
		p += 5
	}

	return models.Clamp(p, 0, 100)
}

func predictionConfidence(kw models.ScoredKeyword, pctx PredictionContext) float64 {
	c := 50.0
	if pctx.TotalKeywords > 50 {
		c += 10
	}
	if kw.Trend != nil && kw.Trend.DataPoints > 20 {
		c += 10
	}
	if pctx.RegionalData {
		c += 5
	}
	if pctx.ConsistencyScore > 0.7 {
		c += 10
	}
	return models.Clamp(c, 0, 100)
}

// recommendations assembles up to five actions in priority order:
// competition first, then momentum, then virality, then category specials.
func recommendations(tier models.CompetitionTier, trendScore float64, viral models.GrowthPotential, category string) []string {
	recs := make([]string, 0, 8)

	switch tier {
	case models.CompetitionHigh:
		recs = append(recs,
			"🎯 니치 키워드와 롱테일 키워드에 집중하세요",
			"📊 차별화된 콘텐츠 포맷이나 독특한 관점을 제시하세요")
	case models.CompetitionLow:
		recs = append(recs,
			"💎 블루오션 키워드입니다! 빠르게 콘텐츠를 제작하세요",
			"🔄 시리즈물로 제작하여 해당 분야 권위자가 되세요")
	}

	if trendScore > 70 {
		recs = append(recs,
			"🔥 급상승 트렌드! 24-48시간 내 업로드를 권장합니다",
			"📱 쇼츠(Shorts)도 함께 제작하여 노출을 극대화하세요")
	} else if trendScore < 30 {
		recs = append(recs, "📈 에버그린 콘텐츠로 접근하여 장기적 조회수를 노리세요")
	}

	if viral == models.GrowthViral || viral == models.GrowthHigh {
		recs = append(recs,
			"🚀 바이럴 가능성 높음! 썸네일과 제목에 특별히 신경쓰세요",
			"💬 커뮤니티 탭과 SNS를 활용한 사전 홍보를 진행하세요")
	}

	switch category {
	case "Gaming":
		recs = append(recs, "🎮 실시간 스트리밍과 연계하여 시너지를 만드세요")
	case "Education":
		recs = append(recs, "📚 자료 다운로드 링크를 제공하여 가치를 높이세요")
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}
