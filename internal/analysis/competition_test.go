package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/gatat123/YouTube-Bot-v7/internal/models"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

type fakeVideoPlatform struct {
	items     []sources.VideoItem
	stats     map[string]sources.VideoStats
	channels  map[string]sources.ChannelStats
	searchErr error
}

func (f *fakeVideoPlatform) Search(ctx context.Context, query, order string, publishedAfter time.Time, maxResults int, region string) ([]sources.VideoItem, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.items, nil
}

func (f *fakeVideoPlatform) VideoStats(ctx context.Context, ids []string) (map[string]sources.VideoStats, error) {
	return f.stats, nil
}

func (f *fakeVideoPlatform) ChannelStats(ctx context.Context, ids []string) (map[string]sources.ChannelStats, error) {
	return f.channels, nil
}

func TestAnalyzeDegradesToFallbackOnSearchError(t *testing.T) {
	platform := &fakeVideoPlatform{searchErr: models.ErrSourceUnavailable}
	analyzer := NewCompetitionAnalyzer(platform, nil, "KR")

	snapshot := analyzer.Analyze(context.Background(), "게임 공략")

	if snapshot.Tier != models.CompetitionUnknown {
		t.Errorf("Tier = %v, want unknown", snapshot.Tier)
	}
	if snapshot.Opportunity != 50 {
		t.Errorf("Opportunity = %v, want neutral 50", snapshot.Opportunity)
	}
}

func TestAnalyzeComputesSnapshot(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	items := make([]sources.VideoItem, 0, 10)
	stats := make(map[string]sources.VideoStats, 10)
	for i := 0; i < 10; i++ {
		id := "v" + string(rune('a'+i))
		items = append(items, sources.VideoItem{
			ID:          id,
			ChannelID:   "ch" + string(rune('a'+i%5)),
			PublishedAt: now.Add(-2 * time.Hour),
		})
		stats[id] = sources.VideoStats{Views: 10000, Likes: 500, Comments: 300}
	}

	analyzer := NewCompetitionAnalyzer(&fakeVideoPlatform{items: items, stats: stats}, nil, "KR")
	analyzer.now = func() time.Time { return now }

	snapshot := analyzer.Analyze(context.Background(), "게임 공략")

	if snapshot.UploadCounts[models.Window24h] != 10 {
		t.Errorf("24h count = %d, want 10", snapshot.UploadCounts[models.Window24h])
	}
	// 10 uploads in 24h scores 2, everything else stays under its band.
	if snapshot.Tier != models.CompetitionLow {
		t.Errorf("Tier = %v, want low", snapshot.Tier)
	}
	if snapshot.Velocity.Avg != 5000 {
		t.Errorf("Velocity.Avg = %v, want 5000", snapshot.Velocity.Avg)
	}
	if snapshot.Engagement.AvgRate != 8 {
		t.Errorf("Engagement.AvgRate = %v, want 8", snapshot.Engagement.AvgRate)
	}
	if snapshot.ChannelDiversity != 0.5 {
		t.Errorf("ChannelDiversity = %v, want 0.5", snapshot.ChannelDiversity)
	}
	// Low tier 40, velocity in (1000, 5000] band 20, engagement in (5, 8] band 20.
	if snapshot.Opportunity != 80 {
		t.Errorf("Opportunity = %v, want 80", snapshot.Opportunity)
	}
}

func TestCompetitionScore(t *testing.T) {
	tests := []struct {
		name      string
		counts    map[string]int
		diversity float64
		want      int
	}{
		{
			name:      "saturated niche",
			counts:    map[string]int{models.Window24h: 25, models.Window7d: 250},
			diversity: 0.2,
			want:      8,
		},
		{
			name:      "moderate niche",
			counts:    map[string]int{models.Window24h: 12, models.Window7d: 120},
			diversity: 0.4,
			want:      5,
		},
		{
			name:      "quiet niche",
			counts:    map[string]int{models.Window24h: 1, models.Window7d: 10},
			diversity: 0.9,
			want:      0,
		},
		{
			name:      "zero diversity means no sample, no penalty",
			counts:    map[string]int{},
			diversity: 0,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompetitionScore(tt.counts, tt.diversity); got != tt.want {
				t.Errorf("CompetitionScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  models.CompetitionTier
	}{
		{0, models.CompetitionLow},
		{2, models.CompetitionLow},
		{3, models.CompetitionMedium},
		{5, models.CompetitionMedium},
		{6, models.CompetitionHigh},
		{8, models.CompetitionHigh},
	}
	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestOpportunityFromCompetition(t *testing.T) {
	tests := []struct {
		name       string
		tier       models.CompetitionTier
		velocity   float64
		engagement float64
		want       float64
	}{
		{"low tier with hot demand", models.CompetitionLow, 6000, 9, 100},
		{"high tier no demand", models.CompetitionHigh, 0, 0, 10},
		{"unknown tier neutral base", models.CompetitionUnknown, 0, 0, 20},
		{"medium tier modest demand", models.CompetitionMedium, 500, 3, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OpportunityFromCompetition(tt.tier, tt.velocity, tt.engagement); got != tt.want {
				t.Errorf("OpportunityFromCompetition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	if got := percentile(xs, 50); got != 2.5 {
		t.Errorf("p50 = %v, want 2.5", got)
	}
	if got := percentile(xs, 75); got != 3.25 {
		t.Errorf("p75 = %v, want 3.25", got)
	}
	if got := percentile(xs, 100); got != 4 {
		t.Errorf("p100 = %v, want 4", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("empty p50 = %v, want 0", got)
	}
}
