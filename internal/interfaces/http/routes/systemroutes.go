package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/savedeities/contribute/internal/interfaces/http/handlers"
)

// SystemRouteConfig holds dependencies for health, asset and docs routes.
type SystemRouteConfig struct {
	HealthHandler *handlers.HealthHandler
	AssetHandler  *handlers.AssetHandler
	EnableSwagger bool
}

// SetupSystemRoutes configures routes outside the contribution API.
func SetupSystemRoutes(engine *gin.Engine, cfg *SystemRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.HealthCheck)
	engine.GET("/assets/checkout.js", cfg.AssetHandler.CheckoutScript)

	if cfg.EnableSwagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
