package analysis

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/cache"
	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
	"github.com/gatat123/YouTube-Bot-v7/internal/retry"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

// TrendAggregatorConfig controls batching and pacing.
type TrendAggregatorConfig struct {
	// BatchSize is the number of keywords per interest request, anchor
	// excluded. The transport allows five slots total, one goes to the
	// anchor.
	BatchSize int
	Geo       string
	Timeframe string
	DelayMin  time.Duration
	DelayMax  time.Duration
}

// TrendAggregator collects interest signals for keyword batches. Each batch
// carries the category anchor keyword so scores stay comparable across
// batches; batches that keep failing degrade to fallback signals instead of
// aborting the run.
type TrendAggregator struct {
	source sources.TrendSource
	cache  *cache.Manager
	policy retry.Policy
	cfg    TrendAggregatorConfig
	log    zerolog.Logger

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTrendAggregator wires the aggregator. cacheMgr may be nil.
func NewTrendAggregator(source sources.TrendSource, cacheMgr *cache.Manager, policy retry.Policy, cfg TrendAggregatorConfig) *TrendAggregator {
	if cfg.BatchSize <= 0 || cfg.BatchSize > 4 {
		cfg.BatchSize = 4
	}
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		source.RotateIdentity()
	}
	a := &TrendAggregator{
		source: source,
		cache:  cacheMgr,
		policy: policy,
		cfg:    cfg,
		log:    logging.Component("trends-agg"),
	}
	a.sleep = func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
	return a
}

// Collect returns one signal per keyword, in input order. onProgress, when
// non-nil, receives the running completed/total counts.
func (a *TrendAggregator) Collect(ctx context.Context, keywords []string, category string, onProgress func(done, total int)) []models.TrendSignal {
	out := make([]models.TrendSignal, 0, len(keywords))
	anchor := ProfileFor(category).AnchorKeyword

	for start := 0; start < len(keywords); start += a.cfg.BatchSize {
		end := start + a.cfg.BatchSize
		if end > len(keywords) {
			end = len(keywords)
		}
		batch := keywords[start:end]

		out = append(out, a.collectBatch(ctx, batch, anchor)...)
		if onProgress != nil {
			onProgress(len(out), len(keywords))
		}

		if end < len(keywords) {
			if err := a.pause(ctx); err != nil {
				// Deadline hit mid-run: remaining keywords get fallbacks.
				for _, kw := range keywords[end:] {
					out = append(out, models.FallbackTrendSignal(kw))
				}
				return out
			}
		}
	}
	return out
}

func (a *TrendAggregator) collectBatch(ctx context.Context, batch []string, anchor string) []models.TrendSignal {
	cacheKey := cache.Key("trends", a.cfg.Geo, a.cfg.Timeframe, anchor, strings.Join(batch, "|"))
	if a.cache != nil {
		var cached []models.TrendSignal
		if a.cache.GetObject(ctx, cacheKey, &cached) && len(cached) == len(batch) {
			return cached
		}
	}

	request := append([]string{anchor}, batch...)
	var series map[string][]float64
	err := a.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		var ferr error
		series, ferr = a.source.FetchInterest(ctx, request, a.cfg.Geo, a.cfg.Timeframe)
		return ferr
	})
	if err != nil {
		a.log.Warn().Err(err).Strs("batch", batch).Msg("interest fetch failed, using fallbacks")
		fallbacks := make([]models.TrendSignal, len(batch))
		for i, kw := range batch {
			fallbacks[i] = models.FallbackTrendSignal(kw)
		}
		return fallbacks
	}

	signals := make([]models.TrendSignal, len(batch))
	for i, kw := range batch {
		signals[i] = BuildTrendSignal(kw, series[kw], a.cfg.Geo)
	}
	if a.cache != nil {
		a.cache.SetObject(ctx, cacheKey, signals, cache.CategoryTrending)
	}
	return signals
}

func (a *TrendAggregator) pause(ctx context.Context) error {
	if a.cfg.DelayMax <= 0 {
		return ctx.Err()
	}
	d := a.cfg.DelayMin
	if spread := a.cfg.DelayMax - a.cfg.DelayMin; spread > 0 {
		d += time.Duration(rand.Int63n(int64(spread)))
	}
	return a.sleep(ctx, d)
}

// BuildTrendSignal derives the signal metrics from a raw interest series.
// An empty series degrades to the fallback record.
func BuildTrendSignal(keyword string, series []float64, geo string) models.TrendSignal {
	if len(series) == 0 {
		return models.FallbackTrendSignal(keyword)
	}

	sum, maxV := 0.0, 0.0
	for _, v := range series {
		sum += v
		if v > maxV {
			maxV = v
		}
	}

	return models.TrendSignal{
		Keyword:         keyword,
		Interest:        series,
		AverageInterest: sum / float64(len(series)),
		MaxInterest:     maxV,
		Direction:       DeriveDirection(series),
		GrowthRate:      GrowthRate(series),
		Volatility:      Volatility(series),
		DataPoints:      len(series),
		IsRealData:      true,
		Region:          geo,
	}
}

// DeriveDirection compares the mean of the most recent ~30% of points with
// the earliest ~30%. Fewer than 7 points is not enough evidence.
func DeriveDirection(series []float64) models.TrendDirection {
	n := len(series)
	if n < 7 {
		return models.TrendUnknown
	}

	window := n * 3 / 10
	if window < 1 {
		window = 1
	}
	early := mean(series[:window])
	recent := mean(series[n-window:])

	if early == 0 {
		if recent > 0 {
			return models.TrendRising
		}
		return models.TrendStable
	}
	switch ratio := recent / early; {
	case ratio > 1.1:
		return models.TrendRising
	case ratio < 0.9:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

// GrowthRate is the percent change between the mean of the last five points
// and the mean of the five before those. Requires at least ten points.
func GrowthRate(series []float64) float64 {
	n := len(series)
	if n < 10 {
		return 0
	}
	recent := mean(series[n-5:])
	previous := mean(series[n-10 : n-5])
	if previous == 0 {
		return 0
	}
	return (recent - previous) / previous * 100
}

// Volatility is the population standard deviation of the series.
func Volatility(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	m := mean(series)
	var sum float64
	for _, v := range series {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(series)))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
