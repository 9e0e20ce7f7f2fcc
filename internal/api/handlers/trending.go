package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/analysis"
	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/sources"
)

// TrendingHandler serves the trending-opportunity endpoint.
type TrendingHandler struct {
	pipeline *analysis.Pipeline
	trends   sources.TrendSource
	log      zerolog.Logger
}

func NewTrendingHandler(pipeline *analysis.Pipeline, trends sources.TrendSource) *TrendingHandler {
	return &TrendingHandler{
		pipeline: pipeline,
		trends:   trends,
		log:      logging.Component("trending-handler"),
	}
}

// Trending quick-scores today's trending topics for a region.
//
// GET /api/v1/trending?region=KR
func (h *TrendingHandler) Trending(c *gin.Context) {
	region := c.DefaultQuery("region", "KR")

	opportunities, err := h.pipeline.TrendingOpportunities(c.Request.Context(), h.trends, region)
	if err != nil {
		h.log.Warn().Err(err).Str("region", region).Msg("trending lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "trending data unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region":        region,
		"opportunities": opportunities,
		"generated_at":  time.Now().Unix(),
	})
}
