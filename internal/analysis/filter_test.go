package analysis

import (
	"reflect"
	"testing"

	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

func TestFunnelBasic(t *testing.T) {
	f := NewFunnel()

	tests := []struct {
		name       string
		candidates []string
		cap        int
		want       []string
	}{
		{
			name:       "trim strip and dedup",
			candidates: []string{"  Game  ", "game", "Game!", "a"},
			cap:        30,
			want:       []string{"Game"},
		},
		{
			name:       "hangul passes through",
			candidates: []string{"게임 공략", "게임*공략?"},
			cap:        30,
			want:       []string{"게임 공략", "게임공략"},
		},
		{
			name:       "length bounds in runes",
			candidates: []string{"가", "가나", "가나다"},
			cap:        30,
			want:       []string{"가나", "가나다"},
		},
		{
			name:       "cap stops early",
			candidates: []string{"aa", "bb", "cc", "dd"},
			cap:        2,
			want:       []string{"aa", "bb"},
		},
		{
			name:       "allowed punctuation survives",
			candidates: []string{"c#-tutorial", "k.pop #shorts @home"},
			cap:        30,
			want:       []string{"c#-tutorial", "k.pop #shorts @home"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Basic(tt.candidates, tt.cap)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Basic(%v) = %v, want %v", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestFunnelBasicIdempotent(t *testing.T) {
	f := NewFunnel()
	in := []string{"  Game  ", "게임 공략!", "valid keyword"}

	once := f.Basic(in, 0)
	twice := f.Basic(once, 0)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Basic not idempotent: %v then %v", once, twice)
	}
}

func TestFunnelByRelevance(t *testing.T) {
	f := NewFunnel()
	candidates := []string{"게임", "요리 레시피", "게임 공략 모음"}

	got := f.ByRelevance(candidates, "게임 공략", 2)
	want := []string{"게임 공략 모음", "게임"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByRelevance = %v, want %v", got, want)
	}
}

func TestFunnelByRelevanceDropsZeroScores(t *testing.T) {
	f := NewFunnel()
	got := f.ByRelevance([]string{"cooking", "baking"}, "게임", 10)
	if len(got) != 0 {
		t.Errorf("ByRelevance kept unrelated keywords: %v", got)
	}
}

func TestWeightedScore(t *testing.T) {
	rising := &models.TrendSignal{
		Direction:       models.TrendRising,
		AverageInterest: 80,
		IsRealData:      true,
	}

	tests := []struct {
		name string
		kw   models.ScoredKeyword
		want float64
	}{
		{
			name: "full marks",
			kw:   models.ScoredKeyword{Relevance: 1.0, Trend: rising},
			want: 90, // 30 + 20 rising + 30 capped interest + 10 real
		},
		{
			name: "stable synthetic data",
			kw: models.ScoredKeyword{
				Relevance: 0.5,
				Trend:     &models.TrendSignal{Direction: models.TrendStable, AverageInterest: 50},
			},
			want: 50, // 15 + 10 stable + 25
		},
		{
			name: "no trend signal",
			kw:   models.ScoredKeyword{Relevance: 1.0},
			want: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedScore(tt.kw); got != tt.want {
				t.Errorf("WeightedScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFunnelBySignals(t *testing.T) {
	f := NewFunnel()
	keywords := []models.ScoredKeyword{
		{Keyword: "low", Relevance: 0.1},
		{Keyword: "high", Relevance: 1.0, Trend: &models.TrendSignal{Direction: models.TrendRising, AverageInterest: 80, IsRealData: true}},
		{Keyword: "mid", Relevance: 0.5},
	}

	got := f.BySignals(keywords, 2)
	if len(got) != 2 {
		t.Fatalf("BySignals returned %d keywords, want 2", len(got))
	}
	if got[0].Keyword != "high" || got[1].Keyword != "mid" {
		t.Errorf("BySignals order = [%s, %s], want [high, mid]", got[0].Keyword, got[1].Keyword)
	}
}

func TestFunnelBySignalsNarrowsNeverWidens(t *testing.T) {
	f := NewFunnel()
	keywords := []models.ScoredKeyword{{Keyword: "one"}, {Keyword: "two"}}

	got := f.BySignals(keywords, 10)
	if len(got) != len(keywords) {
		t.Errorf("BySignals len = %d, want %d", len(got), len(keywords))
	}
}

func TestDedupCandidates(t *testing.T) {
	candidates := []models.Candidate{
		{Text: "게임 공략", Origin: models.OriginCore},
		{Text: "게임공략", Origin: models.OriginLongTail},  // whitespace-insensitive dup
		{Text: "Game-Play", Origin: models.OriginCore},
		{Text: "gameplay", Origin: models.OriginIntent}, // hyphen and case dup
		{Text: "신작 게임", Origin: models.OriginTemporal},
	}

	got := DedupCandidates(candidates, 0)
	if len(got) != 3 {
		t.Fatalf("DedupCandidates kept %d, want 3: %+v", len(got), got)
	}
	// First occurrence wins, so family priority order is preserved.
	if got[0].Origin != models.OriginCore || got[1].Origin != models.OriginCore {
		t.Errorf("DedupCandidates did not keep first occurrences: %+v", got)
	}
}

func TestDedupCandidatesCap(t *testing.T) {
	candidates := make([]models.Candidate, 0, 100)
	for i := 0; i < 100; i++ {
		candidates = append(candidates, models.Candidate{Text: "키워드" + string(rune('가'+i))})
	}
	got := DedupCandidates(candidates, 90)
	if len(got) != 90 {
		t.Errorf("DedupCandidates len = %d, want 90", len(got))
	}
}
