package http

import (
	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/infrastructure/config"
	"github.com/savedeities/contribute/internal/interfaces/http/middleware"
	"github.com/savedeities/contribute/internal/interfaces/http/routes"
	"github.com/savedeities/contribute/internal/shared/logger"

	_ "github.com/savedeities/contribute/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.CustomLogger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.OriginGuard(r.cfg.Server.AllowedOrigins))

	routes.SetupSystemRoutes(r.engine, &routes.SystemRouteConfig{
		HealthHandler: r.healthHandler,
		AssetHandler:  r.assetHandler,
		EnableSwagger: r.cfg.IsDebug(),
	})

	routes.SetupContributionRoutes(r.engine, &routes.ContributionRouteConfig{
		ContributionHandler: r.contributionHandler,
		RateLimiter:         r.rateLimiter,
	})

	routes.SetupCaseRoutes(r.engine, &routes.CaseRouteConfig{
		CaseHandler: r.caseHandler,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
