package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// allowedChars keeps word characters, whitespace, Hangul and the handful of
// punctuation marks that appear in real search queries.
var allowedChars = regexp.MustCompile(`[^\w\s\-_.#@\p{Hangul}]`)

// Funnel is the three-stage keyword filter: sanitation, relevance ranking
// and signal-weighted selection. Every stage narrows, never widens.
type Funnel struct {
	log zerolog.Logger
}

func NewFunnel() *Funnel {
	return &Funnel{log: logging.Component("funnel")}
}

// Basic sanitizes raw candidates: trim, length bounds (2-50 runes), special
// characters stripped, case-insensitive dedup keeping the first occurrence.
// The output never exceeds cap (when cap > 0) and preserves input order.
func (f *Funnel) Basic(candidates []string, cap int) []string {
	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, raw := range candidates {
		kw := strings.TrimSpace(raw)
		n := utf8.RuneCountInString(kw)
		if n < 2 || n > 50 {
			continue
		}
		kw = strings.TrimSpace(allowedChars.ReplaceAllString(kw, ""))
		if utf8.RuneCountInString(kw) < 2 {
			continue
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
		if cap > 0 && len(out) == cap {
			break
		}
	}
	return out
}

// ByRelevance scores candidates against the topic, drops zero scores and
// keeps the top keep entries. Sorting is stable so equal scores preserve
// input order.
func (f *Funnel) ByRelevance(candidates []string, topic string, keep int) []string {
	type scored struct {
		keyword string
		score   float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, kw := range candidates {
		ranked = append(ranked, scored{keyword: kw, score: RelevanceScore(kw, topic)})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]string, 0, keep)
	for _, r := range ranked {
		if r.score == 0 {
			continue
		}
		out = append(out, r.keyword)
		if keep > 0 && len(out) == keep {
			break
		}
	}
	return out
}

// WeightedScore combines the candidate's relevance with its trend signal:
//
//	30 x relevance (relevance is on a 0-1 scale here)
//	+20 rising / +10 stable trend direction
//	+ min(averageInterest/2, 30)
//	+10 when the signal came from real data
func WeightedScore(kw models.ScoredKeyword) float64 {
	score := 30 * kw.Relevance
	if kw.Trend != nil {
		switch kw.Trend.Direction {
		case models.TrendRising:
			score += 20
		case models.TrendStable:
			score += 10
		}
		interest := kw.Trend.AverageInterest / 2
		if interest > 30 {
			interest = 30
		}
		score += interest
		if kw.Trend.IsRealData {
			score += 10
		}
	}
	return score
}

// BySignals keeps the target highest-scoring keywords by WeightedScore.
// Sorting is stable; ties preserve input order.
func (f *Funnel) BySignals(keywords []models.ScoredKeyword, target int) []models.ScoredKeyword {
	ranked := make([]models.ScoredKeyword, len(keywords))
	copy(ranked, keywords)

	sort.SliceStable(ranked, func(i, j int) bool {
		return WeightedScore(ranked[i]) > WeightedScore(ranked[j])
	})

	if target > 0 && len(ranked) > target {
		ranked = ranked[:target]
	}
	f.log.Debug().Int("in", len(keywords)).Int("out", len(ranked)).Msg("signal filter")
	return ranked
}

// DedupCandidates removes duplicate candidates by normalized key, keeping
// the first (highest family priority) occurrence, and caps the result.
func DedupCandidates(candidates []models.Candidate, cap int) []models.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := models.DedupKey(c.Text)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
		if cap > 0 && len(out) == cap {
			break
		}
	}
	return out
}
