package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/savedeities/contribute/internal/infrastructure/config"
	httpRouter "github.com/savedeities/contribute/internal/interfaces/http"
	"github.com/savedeities/contribute/internal/shared/biztime"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/version"
)

const (
	shutdownTimeout = 30 * time.Second
	warmUpTimeout   = 15 * time.Second
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the contribution checkout HTTP server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a config file (defaults to configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath, ginMode)
	} else {
		cfg, err = config.Load(ginMode)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.IsDebug()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	info := version.Current()
	logger.Info("starting server",
		"environment", env,
		"version", info.Version,
		"commit", info.GitCommit)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	router, err := httpRouter.NewRouter(cfg, logger.NewLogger())
	if err != nil {
		return err
	}
	router.SetupRoutes()

	warmCtx, cancelWarm := context.WithTimeout(context.Background(), warmUpTimeout)
	go func() {
		defer cancelWarm()
		router.WarmUp(warmCtx)
	}()

	srv := &http.Server{
		Addr:        cfg.Server.GetAddr(),
		Handler:     router.GetEngine(),
		ReadTimeout: 15 * time.Second,
		// long-polls on /api/contributions/current hold the response for up to a minute
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		router.Shutdown()
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("shutting down server...")

	// pending checkouts resolve as cancelled before the listener closes so
	// long-polls answer with the final state
	router.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
