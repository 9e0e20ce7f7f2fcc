package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/cache"
	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

// statsSample caps how many recent videos feed velocity and engagement.
const statsSample = 20

// CompetitionAnalyzer measures how crowded a keyword's niche is on the video
// platform. A keyword whose data cannot be fetched gets the unknown-tier
// fallback snapshot rather than failing the run.
type CompetitionAnalyzer struct {
	platform sources.VideoPlatform
	cache    *cache.Manager
	region   string
	log      zerolog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewCompetitionAnalyzer wires the analyzer. cacheMgr may be nil.
func NewCompetitionAnalyzer(platform sources.VideoPlatform, cacheMgr *cache.Manager, region string) *CompetitionAnalyzer {
	return &CompetitionAnalyzer{
		platform: platform,
		cache:    cacheMgr,
		region:   region,
		log:      logging.Component("competition"),
		now:      time.Now,
	}
}

// Analyze returns the competition snapshot for one keyword.
func (c *CompetitionAnalyzer) Analyze(ctx context.Context, keyword string) models.CompetitionSnapshot {
	cacheKey := cache.Key("competition", c.region, keyword)
	if c.cache != nil {
		var cached models.CompetitionSnapshot
		if c.cache.GetObject(ctx, cacheKey, &cached) {
			return cached
		}
	}

	now := c.now()
	windows := []struct {
		name  string
		since time.Time
	}{
		{models.Window24h, now.Add(-24 * time.Hour)},
		{models.Window7d, now.AddDate(0, 0, -7)},
		{models.Window30d, now.AddDate(0, 0, -30)},
	}

	counts := make(map[string]int, len(windows))
	var sample []sources.VideoItem
	for _, w := range windows {
		items, err := c.platform.Search(ctx, keyword, "date", w.since, 50, c.region)
		if err != nil {
			c.log.Warn().Err(err).Str("keyword", keyword).Str("window", w.name).Msg("search failed, degrading to fallback")
			return models.FallbackCompetitionSnapshot(keyword)
		}
		counts[w.name] = len(items)
		if w.name == models.Window7d {
			sample = items
		}
		if w.name == models.Window30d && len(sample) == 0 {
			sample = items
		}
	}
	if len(sample) > statsSample {
		sample = sample[:statsSample]
	}

	velocity, engagement, diversity := c.sampleStats(ctx, sample, now)

	score := CompetitionScore(counts, diversity)
	tier := TierFor(score)

	snapshot := models.CompetitionSnapshot{
		Keyword:          keyword,
		UploadCounts:     counts,
		Velocity:         velocity,
		Engagement:       engagement,
		ChannelDiversity: diversity,
		Tier:             tier,
		Opportunity:      OpportunityFromCompetition(tier, velocity.Avg, engagement.AvgRate),
	}
	if c.cache != nil {
		c.cache.SetObject(ctx, cacheKey, snapshot, cache.CategoryCompetitor)
	}
	return snapshot
}

func (c *CompetitionAnalyzer) sampleStats(ctx context.Context, sample []sources.VideoItem, now time.Time) (models.VelocityStats, models.EngagementStats, float64) {
	if len(sample) == 0 {
		return models.VelocityStats{}, models.EngagementStats{}, 0
	}

	ids := make([]string, len(sample))
	for i, v := range sample {
		ids[i] = v.ID
	}
	stats, err := c.platform.VideoStats(ctx, ids)
	if err != nil {
		c.log.Warn().Err(err).Msg("video stats failed, omitting velocity and engagement")
		return models.VelocityStats{}, models.EngagementStats{}, channelDiversity(sample)
	}

	var velocities, rates []float64
	highEngagement := 0
	for _, v := range sample {
		st, ok := stats[v.ID]
		if !ok {
			continue
		}
		hours := now.Sub(v.PublishedAt).Hours()
		if hours < 1 {
			hours = 1
		}
		velocities = append(velocities, float64(st.Views)/hours)

		if st.Views > 0 {
			rate := float64(st.Likes+st.Comments) / float64(st.Views) * 100
			rates = append(rates, rate)
			if rate > 5 {
				highEngagement++
			}
		}
	}

	velocity := models.VelocityStats{Sample: len(velocities)}
	if len(velocities) > 0 {
		velocity.Avg = mean(velocities)
		velocity.Median = percentile(velocities, 50)
		velocity.P75 = percentile(velocities, 75)
		velocity.Max = maxOf(velocities)
	}

	engagement := models.EngagementStats{Sample: len(rates)}
	if len(rates) > 0 {
		engagement.AvgRate = mean(rates)
		engagement.MedianRate = percentile(rates, 50)
		engagement.HighRatio = float64(highEngagement) / float64(len(rates))
	}

	return velocity, engagement, channelDiversity(sample)
}

func channelDiversity(sample []sources.VideoItem) float64 {
	if len(sample) == 0 {
		return 0
	}
	channels := make(map[string]struct{}, len(sample))
	for _, v := range sample {
		channels[v.ChannelID] = struct{}{}
	}
	return float64(len(channels)) / float64(len(sample))
}

// CompetitionScore bands the raw signals into an additive score. Heavier
// upload cadence and lower channel diversity both mean a harder niche.
func CompetitionScore(counts map[string]int, diversity float64) int {
	score := 0

	switch day := counts[models.Window24h]; {
	case day >= 20:
		score += 3
	case day >= 10:
		score += 2
	case day >= 5:
		score += 1
	}

	switch week := counts[models.Window7d]; {
	case week >= 200:
		score += 3
	case week >= 100:
		score += 2
	case week >= 50:
		score += 1
	}

	switch {
	case diversity > 0 && diversity < 0.3:
		score += 2
	case diversity > 0 && diversity < 0.5:
		score += 1
	}

	return score
}

// TierFor maps a banded score to a tier.
func TierFor(score int) models.CompetitionTier {
	switch {
	case score >= 6:
		return models.CompetitionHigh
	case score >= 3:
		return models.CompetitionMedium
	default:
		return models.CompetitionLow
	}
}

// OpportunityFromCompetition converts a snapshot into a 0-100 opportunity
// score: low competition starts high, and demand evidence (view velocity,
// engagement) adds on top.
func OpportunityFromCompetition(tier models.CompetitionTier, avgVelocity, avgEngagement float64) float64 {
	var score float64
	switch tier {
	case models.CompetitionLow:
		score = 40
	case models.CompetitionMedium:
		score = 25
	case models.CompetitionHigh:
		score = 10
	default:
		score = 20
	}

	switch {
	case avgVelocity > 5000:
		score += 30
	case avgVelocity > 1000:
		score += 20
	case avgVelocity > 100:
		score += 10
	}

	switch {
	case avgEngagement > 8:
		score += 30
	case avgEngagement > 5:
		score += 20
	case avgEngagement > 2:
		score += 10
	}

	return models.Clamp(score, 0, 100)
}

func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
