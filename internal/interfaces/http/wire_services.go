package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/infrastructure/cache"
	"github.com/savedeities/contribute/internal/infrastructure/cases"
	"github.com/savedeities/contribute/internal/infrastructure/config"
	"github.com/savedeities/contribute/internal/infrastructure/email"
	"github.com/savedeities/contribute/internal/infrastructure/gateway"
	"github.com/savedeities/contribute/internal/infrastructure/paymentapi"
	"github.com/savedeities/contribute/internal/infrastructure/ratelimit"
	"github.com/savedeities/contribute/internal/infrastructure/token"
	"github.com/savedeities/contribute/internal/interfaces/http/handlers"
	"github.com/savedeities/contribute/internal/interfaces/http/middleware"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/services/markdown"
)

const redisPingTimeout = 5 * time.Second

// ============================================================
// Section 1: Infrastructure - Redis, catalog, tokens, notifier
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return wrapInit("redis", err)
		}
		c.redis = client
		c.guard = cache.NewInFlightGuard(client)
	} else {
		log.Infow("Redis disabled, in-flight guard and rate limiting are off")
	}

	c.markdown = markdown.NewMarkdownService()

	catalog, err := cases.NewCatalogRepository(cfg.Cases.CatalogPath, log.Named("cases"))
	if err != nil {
		return wrapInit("case catalog", err)
	}
	c.catalog = catalog

	tokens, err := token.NewAttemptTokenService(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		return wrapInit("attempt tokens", err)
	}
	c.tokens = tokens

	c.notifier = newSupportNotifier(cfg, log.Named("support"))

	return nil
}

// initRedis connects to Redis and verifies the connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// newSupportNotifier mails the support desk when it is configured and
// otherwise only logs incidents.
func newSupportNotifier(cfg *config.Config, log logger.Interface) checkout.SupportNotifier {
	if !cfg.Support.Enabled || cfg.Support.Address == "" {
		return email.NewLogNotifier(log)
	}
	smtp, err := email.NewSMTPEmailService(cfg.Email)
	if err != nil {
		log.Warnw("support email unavailable, incidents will only be logged", "error", err)
		return email.NewLogNotifier(log)
	}
	log.Infow("support notifications enabled", "address", cfg.Support.Address)
	return email.NewSupportNotifier(smtp, cfg.Support.Address, log)
}

// ============================================================
// Section 2: Contribution - gateway, backend clients, sessions
// ============================================================

func (c *Container) initContribution() error {
	cfg := c.cfg
	log := c.log

	c.scriptLoader = gateway.NewCheckoutScriptLoader(cfg.Gateway.ScriptURL, cfg.Gateway.ScriptTimeout, log.Named("gateway"))
	c.bridge = gateway.NewCheckoutBridge(cfg.Gateway, log.Named("gateway"))

	backend := paymentapi.NewClient(cfg.Backend, log.Named("paymentapi"))
	c.orders = paymentapi.NewOrderClient(backend)
	c.verifier = paymentapi.NewVerifyClient(backend)

	casePresets, err := checkout.ParsePresets(cfg.Contribution.CasePresets)
	if err != nil {
		return wrapInit("case presets", err)
	}
	generalPresets, err := checkout.ParsePresets(cfg.Contribution.GeneralPresets)
	if err != nil {
		return wrapInit("general presets", err)
	}

	maxAmount, err := checkout.ParseMaxAmount(cfg.Contribution.MaxAmount)
	if err != nil {
		return wrapInit("maximum amount", err)
	}

	deps := checkout.Dependencies{
		Scripts:  c.scriptLoader,
		Orders:   c.orders,
		Bridge:   c.bridge,
		Verifier: c.verifier,
		Notifier: c.notifier,
	}
	// a nil *InFlightGuard must not reach the interface
	if c.guard != nil {
		deps.Guard = c.guard
	}

	orchCfg := checkout.OrchestratorConfig{
		Currency:              cfg.Contribution.Currency,
		StrictDonorValidation: cfg.Contribution.StrictDonorValidation,
		VerifyTimeout:         cfg.Contribution.VerifyTimeout,
		LockTTL:               cache.InFlightTTL,
		MaxAmount:             maxAmount,
	}
	orchLog := log.Named("checkout")

	c.registry = checkout.NewSessionRegistry(
		func(ctx context.Context, sessionID string) *checkout.PaymentOrchestrator {
			return checkout.NewPaymentOrchestrator(ctx, sessionID, deps, orchCfg, orchLog)
		},
		cfg.Contribution.SessionTTL,
		log.Named("sessions"),
	)

	c.contribution = checkout.NewContributionService(
		c.registry,
		c.catalog,
		c.tokens,
		c.markdown,
		checkout.ServiceConfig{
			Currency:           cfg.Contribution.Currency,
			CasePresets:        casePresets,
			GeneralPresets:     generalPresets,
			GeneralDescription: cfg.Contribution.GeneralDescription,
			CaseFallbackTitle:  cfg.Contribution.CaseFallbackTitle,
		},
		log.Named("contribution"),
	)

	return nil
}

// ============================================================
// Section 3: Handlers and middlewares
// ============================================================

func (c *Container) initHandlers() {
	cfg := c.cfg
	log := c.log

	c.contributionHandler = handlers.NewContributionHandler(
		c.contribution,
		handlers.SessionCookieConfig{
			TTL:    cfg.Contribution.SessionTTL,
			Secure: cfg.Server.CookieSecure,
		},
		log,
	)
	c.caseHandler = handlers.NewCaseHandler(c.contribution, log)
	c.healthHandler = handlers.NewHealthHandler(c.registry)
	c.assetHandler = handlers.NewAssetHandler(c.scriptLoader, log)

	if cfg.RateLimit.Enabled {
		if !c.redisEnabled() {
			log.Warnw("rate limiting requires Redis, leaving submissions unthrottled")
			return
		}
		limiter := ratelimit.NewRedisRateLimiter(c.redis, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		c.rateLimiter = middleware.NewRateLimiter(limiter, log)
	}
}
