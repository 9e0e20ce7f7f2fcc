package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

// LandscapeAnalyzer profiles the channels competing on a keyword. Channel
// growth rates come exclusively from the optional history provider; without
// observations the field stays empty.
type LandscapeAnalyzer struct {
	platform sources.VideoPlatform
	history  sources.HistoricalDataProvider
	region   string
	log      zerolog.Logger

	now func() time.Time
}

// NewLandscapeAnalyzer wires the analyzer. history may be nil.
func NewLandscapeAnalyzer(platform sources.VideoPlatform, history sources.HistoricalDataProvider, region string) *LandscapeAnalyzer {
	return &LandscapeAnalyzer{
		platform: platform,
		history:  history,
		region:   region,
		log:      logging.Component("landscape"),
		now:      time.Now,
	}
}

// Analyze returns the competitor landscape for a keyword, profiling up to
// depth channels.
func (l *LandscapeAnalyzer) Analyze(ctx context.Context, keyword string, depth int) (*models.CompetitorLandscape, error) {
	if depth <= 0 {
		depth = 10
	}

	maxResults := depth * 3
	if maxResults > 50 {
		maxResults = 50
	}
	items, err := l.platform.Search(ctx, keyword, "viewCount", time.Time{}, maxResults, l.region)
	if err != nil {
		return nil, fmt.Errorf("landscape search: %w", err)
	}

	channelIDs := make([]string, 0, depth)
	seen := make(map[string]struct{}, depth)
	for _, it := range items {
		if _, dup := seen[it.ChannelID]; dup {
			continue
		}
		seen[it.ChannelID] = struct{}{}
		channelIDs = append(channelIDs, it.ChannelID)
		if len(channelIDs) == depth {
			break
		}
	}
	if len(channelIDs) == 0 {
		return &models.CompetitorLandscape{
			Keyword:          keyword,
			MarketSaturation: "unknown",
			EntryDifficulty:  "unknown",
		}, nil
	}

	stats, err := l.platform.ChannelStats(ctx, channelIDs)
	if err != nil {
		return nil, fmt.Errorf("landscape channel stats: %w", err)
	}

	var totalSubs int64
	channels := make([]models.ChannelProfile, 0, len(channelIDs))
	for _, id := range channelIDs {
		st, ok := stats[id]
		if !ok {
			continue
		}
		totalSubs += st.Subscribers
		channels = append(channels, models.ChannelProfile{
			ChannelID:   id,
			Title:       st.Title,
			Subscribers: st.Subscribers,
			TotalViews:  st.TotalViews,
			VideoCount:  st.VideoCount,
			GrowthRate:  l.growthRate(ctx, id),
		})
	}
	if len(channels) == 0 {
		return &models.CompetitorLandscape{
			Keyword:          keyword,
			MarketSaturation: "unknown",
			EntryDifficulty:  "unknown",
		}, nil
	}

	for i := range channels {
		if totalSubs > 0 {
			channels[i].DominanceShare = float64(channels[i].Subscribers) / float64(totalSubs) * 100
		}
	}

	avgSubs := float64(totalSubs) / float64(len(channels))
	saturation := "medium"
	switch {
	case avgSubs > 500_000:
		saturation = "high"
	case avgSubs < 50_000:
		saturation = "low"
	}

	leaders := make([]string, 0, 3)
	for i := 0; i < len(channels) && i < 3; i++ {
		leaders = append(leaders, channels[i].Title)
	}

	return &models.CompetitorLandscape{
		Keyword:          keyword,
		Channels:         channels,
		AvgSubscribers:   avgSubs,
		MarketSaturation: saturation,
		EntryDifficulty:  saturation,
		MarketLeaders:    leaders,
	}, nil
}

// growthRate derives a 30-day subscriber growth percentage from real
// observations. Nil when no provider or fewer than two observations exist.
func (l *LandscapeAnalyzer) growthRate(ctx context.Context, channelID string) *float64 {
	if l.history == nil {
		return nil
	}
	obs, err := l.history.SubscriberHistory(ctx, channelID, l.now().AddDate(0, 0, -30))
	if err != nil {
		l.log.Warn().Err(err).Str("channel", channelID).Msg("subscriber history unavailable")
		return nil
	}
	if len(obs) < 2 {
		return nil
	}
	first, last := obs[0], obs[len(obs)-1]
	if first.Subscribers <= 0 {
		return nil
	}
	rate := float64(last.Subscribers-first.Subscribers) / float64(first.Subscribers) * 100
	return &rate
}

// EntryStrategy maps market saturation to the recommended entry approach.
func EntryStrategy(saturation string) string {
	switch saturation {
	case "low":
		return "블루오션 기회! 빠른 콘텐츠 제작으로 선점 효과 노리세요."
	case "medium":
		return "차별화 전략 필요. 니치 타겟팅과 고품질 콘텐츠로 승부하세요."
	case "high":
		return "포화 시장. 혁신적 포맷이나 콜라보레이션 전략을 고려하세요."
	default:
		return "추가 시장 분석이 필요합니다."
	}
}
