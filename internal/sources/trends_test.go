package sources

import (
	"testing"
)

func TestStripTrendsPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object body", ")]}'\n{\"a\":1}", `{"a":1}`},
		{"array body", ")]}',\n[1,2]", `[1,2]`},
		{"already clean", `{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(StripTrendsPrefix([]byte(tt.in))); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMultiline(t *testing.T) {
	body := []byte(`)]}'
{"default":{"timelineData":[
  {"time":"1","value":[10,70]},
  {"time":"2","value":[20,80]},
  {"time":"3","value":[30,90]}
]}}`)

	series, err := ParseMultiline(body, []string{"게임", "마인크래프트"})
	if err != nil {
		t.Fatalf("ParseMultiline: %v", err)
	}

	game := series["게임"]
	if len(game) != 3 || game[0] != 10 || game[2] != 30 {
		t.Errorf("first keyword series = %v", game)
	}
	mc := series["마인크래프트"]
	if len(mc) != 3 || mc[1] != 80 {
		t.Errorf("second keyword series = %v", mc)
	}
}

func TestParseMultilineMalformed(t *testing.T) {
	if _, err := ParseMultiline([]byte("not json"), []string{"a"}); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `["a","b"]`, `["a","b"]`},
		{"fenced", "```json\n[\"a\"]\n```", `["a"]`},
		{"prose prefix", `here you go: ["a"]`, `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONArray(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuzzScores(t *testing.T) {
	buzz, viral := BuzzScores(0, 0, 0)
	if buzz != 0 || viral != 0 {
		t.Errorf("empty search should score zero, got %f/%f", buzz, viral)
	}

	smallBuzz, _ := BuzzScores(5, 20, 2)
	bigBuzz, _ := BuzzScores(50, 5000, 800)
	if smallBuzz >= bigBuzz {
		t.Errorf("more volume must score higher: %f >= %f", smallBuzz, bigBuzz)
	}
	if bigBuzz > 100 {
		t.Errorf("buzz must stay within 0-100, got %f", bigBuzz)
	}

	_, lowViral := BuzzScores(50, 1000, 10)
	_, highViral := BuzzScores(50, 1000, 900)
	if lowViral >= highViral {
		t.Errorf("retweet share must raise virality: %f >= %f", lowViral, highViral)
	}
}
