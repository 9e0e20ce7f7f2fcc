package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

type fakeHistory struct {
	observations []sources.SubscriberObservation
	err          error
}

func (f *fakeHistory) SubscriberHistory(ctx context.Context, channelID string, since time.Time) ([]sources.SubscriberObservation, error) {
	return f.observations, f.err
}

func TestLandscapeAnalyze(t *testing.T) {
	analyzer := NewLandscapeAnalyzer(testPlatform(), nil, "KR")

	land, err := analyzer.Analyze(context.Background(), "게임 공략", 10)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(land.Channels) != 2 {
		t.Fatalf("Channels = %d, want 2 unique channels", len(land.Channels))
	}
	if land.AvgSubscribers != 25000 {
		t.Errorf("AvgSubscribers = %v, want 25000", land.AvgSubscribers)
	}
	if land.MarketSaturation != "low" {
		t.Errorf("MarketSaturation = %q, want low", land.MarketSaturation)
	}
	if land.Channels[0].DominanceShare != 60 {
		t.Errorf("DominanceShare = %v, want 60", land.Channels[0].DominanceShare)
	}
	if len(land.MarketLeaders) != 2 || land.MarketLeaders[0] != "채널A" {
		t.Errorf("MarketLeaders = %v, want 채널A first", land.MarketLeaders)
	}
	for _, ch := range land.Channels {
		if ch.GrowthRate != nil {
			t.Errorf("channel %s has growth rate without a history provider", ch.ChannelID)
		}
	}
}

func TestLandscapeAnalyzeEmptyMarket(t *testing.T) {
	analyzer := NewLandscapeAnalyzer(&fakeVideoPlatform{}, nil, "KR")

	land, err := analyzer.Analyze(context.Background(), "아무도 없는 키워드", 10)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if land.MarketSaturation != "unknown" {
		t.Errorf("MarketSaturation = %q, want unknown", land.MarketSaturation)
	}
	if len(land.Channels) != 0 {
		t.Errorf("Channels = %d, want 0", len(land.Channels))
	}
}

func TestLandscapeGrowthRateFromHistory(t *testing.T) {
	history := &fakeHistory{observations: []sources.SubscriberObservation{
		{At: time.Now().AddDate(0, 0, -30), Subscribers: 100000},
		{At: time.Now(), Subscribers: 110000},
	}}
	analyzer := NewLandscapeAnalyzer(testPlatform(), history, "KR")

	land, err := analyzer.Analyze(context.Background(), "게임 공략", 10)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for _, ch := range land.Channels {
		if ch.GrowthRate == nil {
			t.Fatalf("channel %s missing growth rate", ch.ChannelID)
		}
		if *ch.GrowthRate != 10 {
			t.Errorf("GrowthRate = %v, want 10", *ch.GrowthRate)
		}
	}
}

func TestLandscapeGrowthRateNeedsTwoObservations(t *testing.T) {
	history := &fakeHistory{observations: []sources.SubscriberObservation{
		{At: time.Now(), Subscribers: 100000},
	}}
	analyzer := NewLandscapeAnalyzer(testPlatform(), history, "KR")

	land, err := analyzer.Analyze(context.Background(), "게임 공략", 10)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for _, ch := range land.Channels {
		if ch.GrowthRate != nil {
			t.Errorf("channel %s has growth rate from a single observation", ch.ChannelID)
		}
	}
}

func TestEntryStrategy(t *testing.T) {
	tests := []struct {
		saturation string
		wantSub    string
	}{
		{"low", "블루오션"},
		{"medium", "차별화"},
		{"high", "포화"},
		{"unknown", "추가 시장 분석"},
	}
	for _, tt := range tests {
		got := EntryStrategy(tt.saturation)
		if !strings.Contains(got, tt.wantSub) {
			t.Errorf("EntryStrategy(%q) = %q, want substring %q", tt.saturation, got, tt.wantSub)
		}
	}
}
