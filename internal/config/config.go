// Package config manages application configuration via environment variables.
//
// # Environment Variables
//
// ## Server
//   - SERVER_PORT: HTTP listen port (default: 8080)
//
// ## Gemini
//   - GEMINI_API_KEY: Google Gemini API key
//   - GEMINI_CHAT_MODEL: Model for keyword expansion and titles (default: gemini-2.0-flash)
//
// ## YouTube
//   - YOUTUBE_API_KEY: YouTube Data API v3 key
//   - YOUTUBE_REGION_CODE: Default region for searches (default: KR)
//
// ## Trends
//   - TRENDS_BASE_URL: Base URL of the trends endpoint (default: https://trends.google.com)
//   - TRENDS_GEO: Default geo for interest queries (default: KR)
//   - TRENDS_TIMEFRAME: Interest-over-time window (default: today 3-m)
//   - TRENDS_BATCH_SIZE: Keywords per interest request, anchor excluded (default: 4, max: 4)
//   - TRENDS_BATCH_DELAY_MIN_MS: Minimum pause between batches (default: 1000)
//   - TRENDS_BATCH_DELAY_MAX_MS: Maximum pause between batches (default: 3000)
//
// ## Twitter
//   - TWITTER_BEARER_TOKEN: Bearer token for recent-search buzz signal (optional)
//
// ## Retry
//   - RETRY_MAX_ATTEMPTS: Attempts per external call (default: 3)
//   - RETRY_BASE_DELAY_MS: First backoff delay (default: 1000)
//   - RETRY_MULTIPLIER: Backoff growth factor (default: 2.0)
//   - RETRY_MAX_DELAY_MS: Backoff ceiling (default: 30000)
//   - RETRY_RATE_LIMIT_FACTOR: Extra backoff factor on throttling responses (default: 5.0)
//
// ## Analysis
//   - ANALYSIS_EXPANSION_TARGET: Candidates produced by expansion (default: 90)
//   - ANALYSIS_FIRST_FILTER_TARGET: Keywords surviving the first funnel pass (default: 60)
//   - ANALYSIS_ENRICH_TOP: Keywords sent to YouTube enrichment (default: 30)
//   - ANALYSIS_COMPETITOR_TOP: Keywords receiving competitor landscapes (default: 10)
//   - ANALYSIS_SECOND_FILTER_TARGET: Keywords surviving the final funnel pass (default: 40)
//   - ANALYSIS_PREDICTION_TOP: Keywords receiving predictions (default: 10)
//   - ANALYSIS_TITLE_TOP: Keywords feeding title generation (default: 5)
//   - ANALYSIS_BASIC_FILTER_CAP: Basic-filter output cap (default: 30)
//   - ANALYSIS_RELEVANCE_KEEP: Relevance-filter survivors (default: 20)
//   - ANALYSIS_TIMEOUT_QUICK_S / _STANDARD_S / _DEEP_S: Pipeline deadlines (default: 60 / 180 / 360)
//
// ## Scoring
//   - SCORING_TREND_WEIGHT: Trend slot weight (default: 40)
//   - SCORING_COMPETITION_WEIGHT: Competition slot weight (default: 40)
//   - SCORING_SOCIAL_WEIGHT: Social slot weight (default: 20)
//
// ## Cache
//   - CACHE_MAX_COST_BYTES: Memory-tier budget (default: 67108864)
//   - DATABASE_URL: PostgreSQL DSN for the backup tier (optional; memory-only when unset)
//
// ## Events
//   - NATS_URL: NATS server for progress events (optional)
//   - PROGRESS_TOPIC: Subject for stage events (default: analysis.progress)
//
// ## Observability
//   - TRACING_ENABLED: Enable OTLP tracing (default: false)
//   - TRACING_ENDPOINT: OTLP gRPC endpoint (default: localhost:4317)
//   - LOG_LEVEL: zerolog level (default: info)
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// Gemini configuration
	GeminiAPIKey    string
	GeminiChatModel string

	// Source configuration
	Sources SourcesConfig

	// Retry policy shared by external calls
	Retry RetryConfig

	// Funnel caps and deadlines
	Analysis AnalysisConfig

	// Opportunity weighting
	Scoring ScoringWeights

	// Cache tiers
	Cache CacheConfig

	// Progress events
	NATSURL       string
	ProgressTopic string

	// Tracing configuration
	TracingEnabled  bool
	TracingEndpoint string

	LogLevel string
}

// SourcesConfig groups external collaborator settings.
type SourcesConfig struct {
	YouTubeAPIKey     string
	YouTubeRegionCode string

	TrendsBaseURL    string
	TrendsGeo        string
	TrendsTimeframe  string
	TrendsBatchSize  int
	BatchDelayMin    time.Duration
	BatchDelayMax    time.Duration

	TwitterBearerToken string
}

// RetryConfig parametrizes the shared retry policy.
type RetryConfig struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	Multiplier      float64
	MaxDelay        time.Duration
	RateLimitFactor float64
}

// AnalysisConfig holds per-stage caps and depth deadlines.
type AnalysisConfig struct {
	ExpansionTarget    int
	FirstFilterTarget  int
	EnrichTop          int
	CompetitorTop      int
	SecondFilterTarget int
	PredictionTop      int
	TitleTop           int
	BasicFilterCap     int
	RelevanceKeep      int

	TimeoutQuick    time.Duration
	TimeoutStandard time.Duration
	TimeoutDeep     time.Duration
}

// Timeout maps a depth name to its pipeline deadline.
func (a AnalysisConfig) Timeout(depth string) time.Duration {
	switch depth {
	case "quick":
		return a.TimeoutQuick
	case "deep":
		return a.TimeoutDeep
	default:
		return a.TimeoutStandard
	}
}

// ScoringWeights are the slot weights of the opportunity scorer. Only slots
// with data participate; the final score is renormalized over present slots.
type ScoringWeights struct {
	Trend       float64
	Competition float64
	Social      float64
}

// CacheConfig holds cache-tier settings.
type CacheConfig struct {
	MaxCostBytes int64
	DatabaseURL  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiChatModel: getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),

		Sources: SourcesConfig{
			YouTubeAPIKey:     getEnv("YOUTUBE_API_KEY", ""),
			YouTubeRegionCode: getEnv("YOUTUBE_REGION_CODE", "KR"),

			TrendsBaseURL:   getEnv("TRENDS_BASE_URL", "https://trends.google.com"),
			TrendsGeo:       getEnv("TRENDS_GEO", "KR"),
			TrendsTimeframe: getEnv("TRENDS_TIMEFRAME", "today 3-m"),
			TrendsBatchSize: min(getEnvInt("TRENDS_BATCH_SIZE", 4), 4),
			BatchDelayMin:   time.Duration(getEnvInt("TRENDS_BATCH_DELAY_MIN_MS", 1000)) * time.Millisecond,
			BatchDelayMax:   time.Duration(getEnvInt("TRENDS_BATCH_DELAY_MAX_MS", 3000)) * time.Millisecond,

			TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		},

		Retry: RetryConfig{
			MaxAttempts:     getEnvInt("RETRY_MAX_ATTEMPTS", 3),
			BaseDelay:       time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 1000)) * time.Millisecond,
			Multiplier:      getEnvFloat("RETRY_MULTIPLIER", 2.0),
			MaxDelay:        time.Duration(getEnvInt("RETRY_MAX_DELAY_MS", 30000)) * time.Millisecond,
			RateLimitFactor: getEnvFloat("RETRY_RATE_LIMIT_FACTOR", 5.0),
		},

		Analysis: AnalysisConfig{
			ExpansionTarget:    getEnvInt("ANALYSIS_EXPANSION_TARGET", 90),
			FirstFilterTarget:  getEnvInt("ANALYSIS_FIRST_FILTER_TARGET", 60),
			EnrichTop:          getEnvInt("ANALYSIS_ENRICH_TOP", 30),
			CompetitorTop:      getEnvInt("ANALYSIS_COMPETITOR_TOP", 10),
			SecondFilterTarget: getEnvInt("ANALYSIS_SECOND_FILTER_TARGET", 40),
			PredictionTop:      getEnvInt("ANALYSIS_PREDICTION_TOP", 10),
			TitleTop:           getEnvInt("ANALYSIS_TITLE_TOP", 5),
			BasicFilterCap:     getEnvInt("ANALYSIS_BASIC_FILTER_CAP", 30),
			RelevanceKeep:      getEnvInt("ANALYSIS_RELEVANCE_KEEP", 20),

			TimeoutQuick:    time.Duration(getEnvInt("ANALYSIS_TIMEOUT_QUICK_S", 60)) * time.Second,
			TimeoutStandard: time.Duration(getEnvInt("ANALYSIS_TIMEOUT_STANDARD_S", 180)) * time.Second,
			TimeoutDeep:     time.Duration(getEnvInt("ANALYSIS_TIMEOUT_DEEP_S", 360)) * time.Second,
		},

		Scoring: ScoringWeights{
			Trend:       getEnvFloat("SCORING_TREND_WEIGHT", 40),
			Competition: getEnvFloat("SCORING_COMPETITION_WEIGHT", 40),
			Social:      getEnvFloat("SCORING_SOCIAL_WEIGHT", 20),
		},

		Cache: CacheConfig{
			MaxCostBytes: int64(getEnvInt("CACHE_MAX_COST_BYTES", 64<<20)),
			DatabaseURL:  getEnv("DATABASE_URL", ""),
		},

		NATSURL:       getEnv("NATS_URL", ""),
		ProgressTopic: getEnv("PROGRESS_TOPIC", "analysis.progress"),

		TracingEnabled:  getEnv("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
