package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swasth-health/portal-backend/internal/store"
	"go.uber.org/zap"
)

// HealthHandler implements the liveness endpoint.
type HealthHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(s store.Store, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  s,
		logger: logger,
	}
}

// Check pings the backing store and reports service health.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("store ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}
