package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// specialChars matches anything outside word characters, whitespace and
// Hangul. Each match costs half a point of relevance.
var specialChars = regexp.MustCompile(`[^\w\s\p{Hangul}]`)

// RelevanceScore rates how well a candidate keyword matches the topic.
// Scores are unbounded above and floored at zero:
//
//	+5.0 when the whole topic appears inside the candidate
//	+2.0 per topic token that appears inside the candidate
//	-1.0 when the candidate runs past 30 characters
//	-0.5 per special character
func RelevanceScore(candidate, topic string) float64 {
	cand := strings.ToLower(strings.TrimSpace(candidate))
	top := strings.ToLower(strings.TrimSpace(topic))
	if cand == "" || top == "" {
		return 0
	}

	score := 0.0
	if strings.Contains(cand, top) {
		score += 5.0
	}
	for _, token := range strings.Fields(top) {
		if strings.Contains(cand, token) {
			score += 2.0
		}
	}
	if utf8.RuneCountInString(cand) > 30 {
		score -= 1.0
	}
	score -= 0.5 * float64(len(specialChars.FindAllString(cand, -1)))

	if score < 0 {
		return 0
	}
	return score
}
