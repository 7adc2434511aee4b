package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pkgredis "github.com/Invincible1602/AyurYoga/pkg/redis"
)

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	redis *pkgredis.Client
}

// NewHealthHandler creates a new HealthHandler. The Redis client may be
// nil when the deployment runs without one.
func NewHealthHandler(redis *pkgredis.Client) *HealthHandler {
	return &HealthHandler{redis: redis}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "ayuryoga-web",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready checks if the service is ready to accept traffic
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	redisStatus := "not configured"
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"service": "ayuryoga-web",
				"redis":   "disconnected",
				"error":   err.Error(),
			})
			return
		}
		redisStatus = "connected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "ayuryoga-web",
		"redis":   redisStatus,
	})
}
