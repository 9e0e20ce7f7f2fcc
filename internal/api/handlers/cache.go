package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatat123/YouTube-Bot-v7/internal/cache"
)

// CacheHandler exposes cache statistics for operations.
type CacheHandler struct {
	manager *cache.Manager
}

func NewCacheHandler(manager *cache.Manager) *CacheHandler {
	return &CacheHandler{manager: manager}
}

// Stats returns hit/miss counters for both cache tiers.
//
// GET /api/v1/cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Stats())
}
