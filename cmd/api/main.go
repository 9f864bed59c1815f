package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tallyhq/tally-backend/internal/config"
	"github.com/tallyhq/tally-backend/internal/docstore"
	"github.com/tallyhq/tally-backend/internal/handler"
	"github.com/tallyhq/tally-backend/internal/middleware"
	"github.com/tallyhq/tally-backend/internal/store"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Open the document store backend
	ds, cleanup, err := openDocstore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to open document store")
	}
	defer cleanup()
	log.Info().Str("backend", cfg.StorageBackend).Msg("Document store ready")

	// Initialize stores and hydrate their slices
	accountsStore := store.NewAccountsStore(ds)
	categoriesStore := store.NewCategoriesStore(ds)
	transactionsStore := store.NewTransactionsStore(ds)

	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelHydrate()
	if err := accountsStore.Load(hydrateCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to hydrate accounts store")
	}
	if err := categoriesStore.Load(hydrateCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to hydrate categories store")
	}
	if err := transactionsStore.Load(hydrateCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to hydrate transactions store")
	}
	log.Info().Msg("Stores hydrated")

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountsStore)
	categoryHandler := handler.NewCategoryHandler(categoriesStore)
	transactionHandler := handler.NewTransactionHandler(transactionsStore)
	dashboardHandler := handler.NewDashboardHandler(accountsStore, transactionsStore)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Per-IP rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, accountHandler, categoryHandler, transactionHandler, dashboardHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Let in-flight snapshot writes drain before exiting
	accountsStore.Flush()
	categoriesStore.Flush()
	transactionsStore.Flush()

	log.Info().Msg("Server exited")
}

// openDocstore creates the configured document store backend. The returned
// cleanup releases whatever the backend holds open.
func openDocstore(cfg *config.Config) (docstore.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		ds, err := docstore.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return ds, func() { ds.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(context.Background()); err != nil {
			pool.Close()
			return nil, nil, err
		}
		ds, err := docstore.NewPostgres(context.Background(), pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return ds, pool.Close, nil

	case config.BackendS3:
		ds, err := docstore.NewS3(context.Background(), cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return ds, func() {}, nil

	default: // config.BackendMemory
		return docstore.NewMemory(), func() {}, nil
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
