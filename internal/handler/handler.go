package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/settings-service/internal/repository"
	"github.com/maxviazov/settings-service/internal/service"
	"github.com/maxviazov/settings-service/pkg/response"
	"github.com/rs/zerolog"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, settingsSvc service.SettingsService, logger zerolog.Logger) {
	h := NewHealthHandler(repo, logger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	NewSettingsHandler(settingsSvc).Register(r)

	r.NoRoute(func(c *gin.Context) {
		response.WriteError(c, repository.ErrNotFound)
	})
}

// NewRouter builds the complete HTTP handler: gin engine with recovery,
// access logging and CORS, all routes, and trailing-slash normalization.
func NewRouter(logger zerolog.Logger, repo Pinger, settingsSvc service.SettingsService) http.Handler {
	r := gin.New()
	// TrimTrailingSlash rewrites the path before gin sees it, so no redirects.
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), RequestLogger(logger), CORS())
	Register(r, repo, settingsSvc, logger)
	return TrimTrailingSlash(r)
}
