package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/keji-green/lit-engine/config"
	"github.com/keji-green/lit-engine/internal/adapter/answerer"
	"github.com/keji-green/lit-engine/internal/repository"
	"github.com/keji-green/lit-engine/internal/service"
	v1 "github.com/keji-green/lit-engine/internal/transport/http/v1"
	"github.com/keji-green/lit-engine/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(os.Stdout).With().Timestamp().Logger()

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("database", cfg.DatabaseURL).
		Str("answerer", cfg.AnswererURL).
		Msg("starting interview engine")

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	// Initialize answer service client
	gen := answerer.NewClient(cfg.AnswererURL)

	// Initialize question policy engine
	ctx := context.Background()
	guard, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	// Initialize service
	svc := service.New(db, gen, guard, cfg)

	// Initialize handler
	h := v1.NewHandler(svc)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	log.Info().Int("port", cfg.HTTPPort).Msg("interview engine started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down interview engine")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	log.Info().Msg("interview engine stopped")
}
