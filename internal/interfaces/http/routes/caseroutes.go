package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/interfaces/http/handlers"
)

// CaseRouteConfig holds dependencies for case routes.
type CaseRouteConfig struct {
	CaseHandler *handlers.CaseHandler
}

// SetupCaseRoutes configures the read-only case summary routes.
func SetupCaseRoutes(engine *gin.Engine, cfg *CaseRouteConfig) {
	cases := engine.Group("/api/cases")
	{
		cases.GET("/:id", cfg.CaseHandler.GetCase)
	}
}
