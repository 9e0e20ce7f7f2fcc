package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/gatat123/YouTube-Bot-v7/internal/models"
	"github.com/gatat123/YouTube-Bot-v7/internal/retry"
)

type fakeTrendSource struct {
	failures  int
	calls     int
	rotations int
	series    map[string][]float64
	topics    []string
	lastReq   []string
}

func (f *fakeTrendSource) FetchInterest(ctx context.Context, keywords []string, geo, timeframe string) (map[string][]float64, error) {
	f.calls++
	f.lastReq = append([]string(nil), keywords...)
	if f.calls <= f.failures {
		return nil, models.ErrSourceUnavailable
	}
	out := make(map[string][]float64, len(keywords))
	for _, kw := range keywords {
		if s, ok := f.series[kw]; ok {
			out[kw] = s
		} else {
			out[kw] = []float64{50, 50, 50, 50, 50, 50, 50, 50, 50, 50}
		}
	}
	return out, nil
}

func (f *fakeTrendSource) TrendingTopics(ctx context.Context, geo string) ([]string, error) {
	if f.topics == nil {
		return nil, models.ErrSourceUnavailable
	}
	return f.topics, nil
}

func (f *fakeTrendSource) RotateIdentity() { f.rotations++ }

// immediatePolicy retries without real sleeping.
func immediatePolicy(attempts int) retry.Policy {
	p := retry.NewPolicy(attempts, time.Millisecond, 2, time.Millisecond, 5)
	p.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func TestCollectRetriesAndRotatesIdentity(t *testing.T) {
	source := &fakeTrendSource{failures: 2}
	agg := NewTrendAggregator(source, nil, immediatePolicy(3), TrendAggregatorConfig{Geo: "KR"})

	signals := agg.Collect(context.Background(), []string{"게임 공략", "신작 게임"}, "Gaming", nil)

	if source.calls != 3 {
		t.Errorf("calls = %d, want 3", source.calls)
	}
	if source.rotations != 2 {
		t.Errorf("rotations = %d, want 2", source.rotations)
	}
	if len(signals) != 2 {
		t.Fatalf("signals = %d, want 2", len(signals))
	}
	for _, s := range signals {
		if !s.IsRealData {
			t.Errorf("signal %q degraded to fallback after successful retry", s.Keyword)
		}
	}
}

func TestCollectBatchCarriesCategoryAnchor(t *testing.T) {
	source := &fakeTrendSource{}
	agg := NewTrendAggregator(source, nil, immediatePolicy(1), TrendAggregatorConfig{Geo: "KR"})

	agg.Collect(context.Background(), []string{"공략", "추천", "순위", "리뷰"}, "Gaming", nil)

	if len(source.lastReq) == 0 || source.lastReq[0] != "게임" {
		t.Fatalf("request = %v, want anchor 게임 first", source.lastReq)
	}
	if len(source.lastReq) > 5 {
		t.Errorf("request carries %d keywords, transport allows 5", len(source.lastReq))
	}
}

func TestCollectFallsBackAfterExhaustion(t *testing.T) {
	source := &fakeTrendSource{failures: 100}
	agg := NewTrendAggregator(source, nil, immediatePolicy(2), TrendAggregatorConfig{Geo: "KR"})

	signals := agg.Collect(context.Background(), []string{"게임 공략"}, "", nil)

	if len(signals) != 1 {
		t.Fatalf("signals = %d, want 1", len(signals))
	}
	s := signals[0]
	if s.IsRealData {
		t.Error("fallback signal marked as real data")
	}
	if s.AverageInterest != 50 || s.Direction != models.TrendStable {
		t.Errorf("fallback = avg %v direction %v, want 50/stable", s.AverageInterest, s.Direction)
	}
}

func TestCollectPreservesOrderAndLength(t *testing.T) {
	source := &fakeTrendSource{}
	agg := NewTrendAggregator(source, nil, immediatePolicy(1), TrendAggregatorConfig{Geo: "KR"})

	keywords := []string{"하나", "둘", "셋", "넷", "다섯", "여섯"}
	var progress []int
	signals := agg.Collect(context.Background(), keywords, "", func(done, total int) {
		progress = append(progress, done)
	})

	if len(signals) != len(keywords) {
		t.Fatalf("signals = %d, want %d", len(signals), len(keywords))
	}
	for i, kw := range keywords {
		if signals[i].Keyword != kw {
			t.Errorf("signals[%d] = %q, want %q", i, signals[i].Keyword, kw)
		}
	}
	if len(progress) == 0 || progress[len(progress)-1] != len(keywords) {
		t.Errorf("progress = %v, want final count %d", progress, len(keywords))
	}
}

func TestDeriveDirection(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   models.TrendDirection
	}{
		{
			name:   "too few points",
			series: []float64{10, 20, 30},
			want:   models.TrendUnknown,
		},
		{
			name:   "rising",
			series: []float64{10, 10, 10, 20, 30, 40, 50, 60, 70, 80},
			want:   models.TrendRising,
		},
		{
			name:   "falling",
			series: []float64{80, 80, 80, 60, 50, 40, 30, 20, 10, 10},
			want:   models.TrendFalling,
		},
		{
			name:   "stable",
			series: []float64{50, 50, 50, 51, 49, 50, 50, 50, 50, 50},
			want:   models.TrendStable,
		},
		{
			name:   "rising from zero baseline",
			series: []float64{0, 0, 0, 5, 10, 15, 20, 25, 30, 35},
			want:   models.TrendRising,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveDirection(tt.series); got != tt.want {
				t.Errorf("DeriveDirection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{
			name:   "too few points",
			series: []float64{10, 20, 30},
			want:   0,
		},
		{
			name:   "doubling",
			series: []float64{10, 10, 10, 10, 10, 20, 20, 20, 20, 20},
			want:   100,
		},
		{
			name:   "flat",
			series: []float64{30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
			want:   0,
		},
		{
			name:   "zero baseline guards division",
			series: []float64{0, 0, 0, 0, 0, 10, 10, 10, 10, 10},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GrowthRate(tt.series); got != tt.want {
				t.Errorf("GrowthRate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolatility(t *testing.T) {
	if got := Volatility([]float64{40, 40, 40}); got != 0 {
		t.Errorf("constant series volatility = %v, want 0", got)
	}
	if got := Volatility([]float64{0, 10}); got != 5 {
		t.Errorf("Volatility([0,10]) = %v, want 5", got)
	}
	if got := Volatility(nil); got != 0 {
		t.Errorf("empty series volatility = %v, want 0", got)
	}
}

func TestBuildTrendSignalEmptySeries(t *testing.T) {
	s := BuildTrendSignal("게임", nil, "KR")
	if s.IsRealData {
		t.Error("empty series produced a real-data signal")
	}
	if s.AverageInterest != 50 {
		t.Errorf("AverageInterest = %v, want 50", s.AverageInterest)
	}
}
