package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatat123/YouTube-Bot-v7/internal/config"
)

// HealthHandler serves the liveness and health endpoints.
type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Liveness confirms the process is running. No dependency checks.
//
// GET /liveness
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Health reports which external sources are configured. Missing credentials
// degrade the pipeline instead of breaking it, so the status stays 200 with
// per-source detail.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	response.Checks["gemini"] = configured(h.cfg.GeminiAPIKey != "")
	response.Checks["youtube"] = configured(h.cfg.Sources.YouTubeAPIKey != "")
	response.Checks["twitter"] = configured(h.cfg.Sources.TwitterBearerToken != "")
	response.Checks["postgres"] = configured(h.cfg.Cache.DatabaseURL != "")
	response.Checks["nats"] = configured(h.cfg.NATSURL != "")

	c.JSON(http.StatusOK, response)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not_configured"
}
