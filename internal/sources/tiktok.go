package sources

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
)

// TikTokSource is a placeholder until an official API becomes available.
// Every keyword receives the neutral viral signal.
type TikTokSource struct {
	log zerolog.Logger
}

func NewTikTokSource() *TikTokSource {
	return &TikTokSource{log: logging.Component("tiktok")}
}

// AnalyzeBuzz returns the neutral signal.
func (s *TikTokSource) AnalyzeBuzz(ctx context.Context, keyword string) (*models.SocialSignal, error) {
	return &models.SocialSignal{
		Keyword:    keyword,
		BuzzScore:  50,
		ViralScore: 50,
		Sources:    []string{"tiktok:stub"},
	}, nil
}

// MergedSocialSource averages the signals of several social sources, so the
// scorer sees one social slot.
type MergedSocialSource struct {
	sources []SocialSource
	log     zerolog.Logger
}

func NewMergedSocialSource(sources ...SocialSource) *MergedSocialSource {
	return &MergedSocialSource{sources: sources, log: logging.Component("social")}
}

// AnalyzeBuzz merges the underlying signals. Sources that fail are skipped;
// nil is returned when none succeeded.
func (m *MergedSocialSource) AnalyzeBuzz(ctx context.Context, keyword string) (*models.SocialSignal, error) {
	merged := &models.SocialSignal{Keyword: keyword}
	ok := 0
	for _, src := range m.sources {
		sig, err := src.AnalyzeBuzz(ctx, keyword)
		if err != nil || sig == nil {
			if err != nil {
				m.log.Warn().Err(err).Str("keyword", keyword).Msg("social source failed")
			}
			continue
		}
		merged.BuzzScore += sig.BuzzScore
		merged.ViralScore += sig.ViralScore
		merged.Mentions += sig.Mentions
		merged.Sources = append(merged.Sources, sig.Sources...)
		ok++
	}
	if ok == 0 {
		return nil, models.ErrSourceUnavailable
	}
	merged.BuzzScore /= float64(ok)
	merged.ViralScore /= float64(ok)
	return merged, nil
}
