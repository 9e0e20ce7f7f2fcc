package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gatat123/YouTube-Bot-v7/internal/analysis"
	"github.com/gatat123/YouTube-Bot-v7/internal/api/handlers"
	"github.com/gatat123/YouTube-Bot-v7/internal/cache"
	"github.com/gatat123/YouTube-Bot-v7/internal/config"
	middlewares "github.com/gatat123/YouTube-Bot-v7/internal/middleware"
	"github.com/gatat123/YouTube-Bot-v7/internal/progress"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

// Deps are the wired collaborators the router exposes over HTTP.
type Deps struct {
	Pipeline   *analysis.Pipeline
	Trends     sources.TrendSource
	Cache      *cache.Manager
	Publishers []progress.Publisher
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(middlewares.RequestID())
	if cfg.TracingEnabled {
		r.Use(middlewares.RequestTiming())
	}

	analyzeHandler := handlers.NewAnalyzeHandler(deps.Pipeline, deps.Publishers...)
	trendingHandler := handlers.NewTrendingHandler(deps.Pipeline, deps.Trends)
	cacheHandler := handlers.NewCacheHandler(deps.Cache)
	healthHandler := handlers.NewHealthHandler(cfg)

	api := r.Group("/api/v1")
	{
		api.POST("/analyze", analyzeHandler.Analyze)
		api.GET("/trending", trendingHandler.Trending)
		api.GET("/cache/stats", cacheHandler.Stats)
	}

	r.GET("/health", healthHandler.Health)
	r.GET("/liveness", healthHandler.Liveness)

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
