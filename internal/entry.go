// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/arneko/larder/internal/api"
	"github.com/arneko/larder/internal/catalog"
	"github.com/arneko/larder/internal/index"
	"github.com/arneko/larder/internal/logging"
	"github.com/arneko/larder/internal/recipeservice"
	"github.com/arneko/larder/internal/sse"
	"github.com/arneko/larder/internal/storage"
	"github.com/arneko/larder/internal/watch"
)

// Run starts the HTTP server, the vault watcher, and everything they need.
// It blocks until ctx is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := logging.Setup(os.Stderr, cfg.App.LogLevel, cfg.App.LogFile)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("index_file", cfg.Index.File),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure the vault and its recipes directory exist.
	recipesRoot := filepath.Join(cfg.Vault.Path, cfg.Vault.RecipesDir)
	if err := os.MkdirAll(recipesRoot, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize the search catalog.
	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	builder := index.New(store, index.Config{
		ScanDir:   cfg.Vault.RecipesDir,
		IndexFile: cfg.Index.File,
		Workers:   cfg.Index.Workers,
	}, logger)

	// Initial build and catalog sync.
	count, err := builder.Run(ctx)
	if err != nil {
		logger.Warn("initial index build failed", slog.String("error", err.Error()))
	}
	if err := catalog.Sync(db, store, builder, logger); err != nil {
		logger.Warn("initial catalog sync failed", slog.String("error", err.Error()))
	}
	logger.Info("vault indexed", slog.Int("recipes", count))

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build recipe service and API router.
	svc := recipeservice.NewService(store, db, builder, logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, broker.PublishIndexUpdated)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the recipes directory; every change rebuilds the artifact,
	// re-syncs the catalog, and notifies SSE subscribers.
	g.Go(func() error {
		rebuild := func(rctx context.Context) error {
			n, buildErr := builder.Run(rctx)
			if buildErr != nil {
				return buildErr
			}
			if syncErr := catalog.Sync(db, store, builder, logger); syncErr != nil {
				logger.Warn("catalog sync failed", slog.String("error", syncErr.Error()))
			}
			broker.PublishIndexUpdated(n)
			return nil
		}
		return watch.Watch(gCtx, recipesRoot, 500*time.Millisecond, logger, builder.SkipBase, rebuild)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
