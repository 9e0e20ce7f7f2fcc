package analysis

import "testing"

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		topic     string
		want      float64
	}{
		{
			name:      "exact match scores whole topic plus token",
			candidate: "게임",
			topic:     "게임",
			want:      7, // +5 whole topic, +2 single token
		},
		{
			name:      "korean long tail contains topic",
			candidate: "마인크래프트 초보자 집 짓기",
			topic:     "마인크래프트",
			want:      7,
		},
		{
			name:      "partial token overlap",
			candidate: "minecraft building tips",
			topic:     "minecraft survival",
			want:      2,
		},
		{
			name:      "no overlap",
			candidate: "cooking pasta",
			topic:     "게임",
			want:      0,
		},
		{
			name:      "empty candidate",
			candidate: "",
			topic:     "게임",
			want:      0,
		},
		{
			name:      "length penalty past 30 runes",
			candidate: "게임 게임 게임 게임 게임 게임 게임 게임 게임 게임 게임",
			topic:     "게임",
			want:      6, // 5 + 2 - 1
		},
		{
			name:      "special characters cost half a point each",
			candidate: "게임!!",
			topic:     "게임",
			want:      6, // 5 + 2 - 0.5*2
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelevanceScore(tt.candidate, tt.topic)
			if got != tt.want {
				t.Errorf("RelevanceScore(%q, %q) = %v, want %v", tt.candidate, tt.topic, got, tt.want)
			}
		})
	}
}

func TestRelevanceScoreNeverNegative(t *testing.T) {
	// A candidate made almost entirely of penalties still floors at zero.
	got := RelevanceScore("!!!@@@###$$$%%%^^^&&&***((()))", "게임")
	if got < 0 {
		t.Errorf("RelevanceScore = %v, want >= 0", got)
	}
}
