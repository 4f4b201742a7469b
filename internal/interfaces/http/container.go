package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/infrastructure/cache"
	"github.com/savedeities/contribute/internal/infrastructure/cases"
	"github.com/savedeities/contribute/internal/infrastructure/config"
	"github.com/savedeities/contribute/internal/infrastructure/gateway"
	"github.com/savedeities/contribute/internal/infrastructure/paymentapi"
	"github.com/savedeities/contribute/internal/infrastructure/token"
	"github.com/savedeities/contribute/internal/interfaces/http/handlers"
	"github.com/savedeities/contribute/internal/interfaces/http/middleware"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/services/markdown"
)

// janitorInterval is how often idle donor sessions are swept.
const janitorInterval = time.Minute

// Container holds the infrastructure components, services and handlers of
// the contribution service and wires them together. Shutdown releases them.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Infrastructure services
	markdown     markdown.MarkdownService
	catalog      *cases.CatalogRepository
	tokens       *token.AttemptTokenService
	guard        *cache.InFlightGuard
	scriptLoader *gateway.CheckoutScriptLoader
	bridge       *gateway.CheckoutBridge
	orders       *paymentapi.OrderClient
	verifier     *paymentapi.VerifyClient
	notifier     checkout.SupportNotifier

	// Application services
	registry     *checkout.SessionRegistry
	contribution *checkout.ContributionService

	// Handlers
	contributionHandler *handlers.ContributionHandler
	caseHandler         *handlers.CaseHandler
	healthHandler       *handlers.HealthHandler
	assetHandler        *handlers.AssetHandler

	// Middlewares
	rateLimiter *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, catalog, tokens, notifier
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Contribution - gateway, backend clients, sessions
	if err := c.initContribution(); err != nil {
		return nil, err
	}

	// Section 3: Handlers and middlewares
	c.initHandlers()

	c.registry.StartJanitor(janitorInterval)

	return c, nil
}

// WarmUp fetches the gateway library ahead of the first donor. Failure is
// logged only; the next attempt retries.
func (c *Container) WarmUp(ctx context.Context) {
	if err := c.scriptLoader.EnsureLoaded(ctx); err != nil {
		c.log.Warnw("checkout script warm-up failed", "error", err)
	}
}

// Shutdown cancels pending checkouts and closes connections.
func (c *Container) Shutdown() {
	if c.registry != nil {
		c.registry.Shutdown()
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close Redis client", "error", err)
		}
	}
}

func (c *Container) redisEnabled() bool {
	return c.redis != nil
}

func wrapInit(section string, err error) error {
	return fmt.Errorf("failed to initialize %s: %w", section, err)
}
