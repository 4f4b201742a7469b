package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/interfaces/http/handlers"
	"github.com/savedeities/contribute/internal/interfaces/http/middleware"
)

// ContributionRouteConfig holds dependencies for contribution routes.
type ContributionRouteConfig struct {
	ContributionHandler *handlers.ContributionHandler
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *middleware.RateLimiter
}

// SetupContributionRoutes configures the contribution checkout routes.
func SetupContributionRoutes(engine *gin.Engine, cfg *ContributionRouteConfig) {
	contributions := engine.Group("/api/contributions")
	{
		contributions.GET("/presets", cfg.ContributionHandler.GetPresets)
		contributions.GET("/current", cfg.ContributionHandler.GetCurrent)

		submit := []gin.HandlerFunc{cfg.ContributionHandler.Submit}
		if cfg.RateLimiter != nil {
			submit = append([]gin.HandlerFunc{cfg.RateLimiter.Limit()}, submit...)
		}
		contributions.POST("", submit...)

		contributions.POST("/complete", cfg.ContributionHandler.Complete)
		contributions.POST("/dismiss", cfg.ContributionHandler.Dismiss)
	}
}
