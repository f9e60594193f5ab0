package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/settings-service/pkg/response"
	"github.com/rs/zerolog"
)

// Pinger is the minimal contract I need from a repository to check readiness.
// I keep it local to the handler package to avoid coupling and simplify tests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	repo Pinger
	log  zerolog.Logger
}

func NewHealthHandler(repo Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{repo: repo, log: logger.With().Str("module", "http").Str("component", "health").Logger()}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	response.WriteData(c, http.StatusOK, gin.H{"status": "alive"})
}

// Readiness verifies the storage engine answers. The failure reason is logged, not returned.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("readiness check failed")
		response.WriteData(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"status": "ready"})
}
