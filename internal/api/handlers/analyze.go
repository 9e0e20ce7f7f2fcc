package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/analysis"
	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
	"github.com/gatat123/YouTube-Bot-v7/internal/models"
	"github.com/gatat123/YouTube-Bot-v7/internal/progress"
)

// AnalyzeHandler serves the keyword analysis endpoint.
type AnalyzeHandler struct {
	pipeline   *analysis.Pipeline
	publishers []progress.Publisher
	log        zerolog.Logger
}

// NewAnalyzeHandler wires the handler. publishers receive per-run progress
// events and may be empty.
func NewAnalyzeHandler(pipeline *analysis.Pipeline, publishers ...progress.Publisher) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline:   pipeline,
		publishers: publishers,
		log:        logging.Component("analyze-handler"),
	}
}

// Analyze runs the full pipeline for a topic.
//
// POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrors(verr)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID := c.GetString("request_id")
	tracker := progress.NewTracker(runID, h.publishers...)

	report, err := h.pipeline.Run(c.Request.Context(), req, tracker)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrPipelineTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "analysis did not finish within the depth deadline"})
		default:
			h.log.Error().Err(err).Str("topic", req.Topic).Msg("analysis failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

func fieldErrors(verr validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verr))
	for _, fe := range verr {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
