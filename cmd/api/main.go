package main

import (
	"context"

	"google.golang.org/genai"

	"github.com/gatat123/YouTube-Bot-v7/internal/analysis"
	"github.com/gatat123/YouTube-Bot-v7/internal/api/routes"
	"github.com/gatat123/YouTube-Bot-v7/internal/cache"
	"github.com/gatat123/YouTube-Bot-v7/internal/config"
	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/observability"
	"github.com/gatat123/YouTube-Bot-v7/internal/progress"
	"github.com/gatat123/YouTube-Bot-v7/internal/retry"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

func main() {
	cfg := config.LoadConfig()
	logging.Initialize(cfg.LogLevel)
	log := logging.Component("main")

	if cfg.TracingEnabled {
		observability.InitTracer(cfg)
		defer observability.ShutdownTracer()
	}

	ctx := context.Background()

	// Cache: ristretto memory tier always, Postgres backup when configured.
	var store cache.Store
	if cfg.Cache.DatabaseURL != "" {
		pg, err := cache.NewPostgresStore(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("postgres cache unavailable, running memory-only")
		} else {
			store = pg
		}
	}
	cacheMgr, err := cache.NewManager(cfg.Cache.MaxCostBytes, store)
	if err != nil {
		log.Fatal().Err(err).Msg("cache init failed")
	}
	defer cacheMgr.Close()

	// Gemini drives keyword expansion and title generation. Without a key the
	// pipeline runs on seed keywords only.
	var genaiClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		genaiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client init failed")
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, keyword expansion degraded to seed keywords")
	}
	gemini := sources.NewGeminiClient(genaiClient, cfg.GeminiChatModel)

	trends := sources.NewTrendsClient(cfg.Sources.TrendsBaseURL)
	youtube := sources.NewYouTubeClient(cfg.Sources.YouTubeAPIKey)
	social := sources.NewMergedSocialSource(
		sources.NewTwitterSource(cfg.Sources.TwitterBearerToken),
		sources.NewTikTokSource(),
	)

	policy := retry.NewPolicy(
		cfg.Retry.MaxAttempts,
		cfg.Retry.BaseDelay,
		cfg.Retry.Multiplier,
		cfg.Retry.MaxDelay,
		cfg.Retry.RateLimitFactor,
	)

	aggregator := analysis.NewTrendAggregator(trends, cacheMgr, policy, analysis.TrendAggregatorConfig{
		BatchSize: cfg.Sources.TrendsBatchSize,
		Geo:       cfg.Sources.TrendsGeo,
		Timeframe: cfg.Sources.TrendsTimeframe,
		DelayMin:  cfg.Sources.BatchDelayMin,
		DelayMax:  cfg.Sources.BatchDelayMax,
	})

	pipeline := analysis.NewPipeline(analysis.PipelineDeps{
		Expander:    gemini,
		Trends:      aggregator,
		Competition: analysis.NewCompetitionAnalyzer(youtube, cacheMgr, cfg.Sources.YouTubeRegionCode),
		Landscape:   analysis.NewLandscapeAnalyzer(youtube, nil, cfg.Sources.YouTubeRegionCode),
		Social:      social,
		Titles:      gemini,
		Scorer:      analysis.NewScorer(cfg.Scoring),
		Predictor:   analysis.NewPredictionEngine(),
	}, cfg.Analysis)

	var publishers []progress.Publisher
	if cfg.NATSURL != "" {
		nats, err := progress.NewNATSPublisher(cfg.NATSURL, cfg.ProgressTopic)
		if err != nil {
			log.Warn().Err(err).Msg("nats unreachable, progress events disabled")
		} else {
			defer nats.Close()
			publishers = append(publishers, nats)
		}
	}

	r := routes.SetupRouter(cfg, routes.Deps{
		Pipeline:   pipeline,
		Trends:     trends,
		Cache:      cacheMgr,
		Publishers: publishers,
	})

	log.Info().Str("port", cfg.ServerPort).Msg("server listening")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
