package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Origin identifies which expansion family produced a candidate keyword.
type Origin string

const (
	OriginCore     Origin = "core"
	OriginIntent   Origin = "search_intent"
	OriginAudience Origin = "target_audience"
	OriginTemporal Origin = "temporal"
	OriginLongTail Origin = "long_tail"
	OriginSeed     Origin = "seed"
	OriginTrending Origin = "trending"
)

// Candidate is a keyword produced by the expansion stage, before any
// external signal is attached.
type Candidate struct {
	Text      string  `json:"text"`
	Origin    Origin  `json:"origin"`
	Relevance float64 `json:"relevance"`
	Rank      int     `json:"rank"`
}

// SocialSignal carries cross-platform buzz for a keyword. Scores are on a
// 0-100 scale.
type SocialSignal struct {
	Keyword    string   `json:"keyword"`
	BuzzScore  float64  `json:"buzz_score"`
	ViralScore float64  `json:"viral_score"`
	Mentions   int      `json:"mentions"`
	Sources    []string `json:"sources"`
}

// ScoredKeyword is a candidate enriched with whatever signals the pipeline
// managed to collect. Nil signal pointers mean the source was skipped or
// degraded for this keyword.
type ScoredKeyword struct {
	Keyword     string               `json:"keyword"`
	Origin      Origin               `json:"origin"`
	Relevance   float64              `json:"relevance"`
	Trend       *TrendSignal         `json:"trend,omitempty"`
	Competition *CompetitionSnapshot `json:"competition,omitempty"`
	Social      *SocialSignal        `json:"social,omitempty"`
	Opportunity float64              `json:"opportunity_score"`
	Confidence  float64              `json:"confidence"`
}

var dedupTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DedupKey normalizes a keyword for duplicate detection: lowercase, accents
// stripped, whitespace and hyphens removed. "Game-Play" and "game play"
// collapse to the same key.
func DedupKey(s string) string {
	if out, _, err := transform.String(dedupTransformer, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Clamp keeps v inside [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
