// Package main is the entry point for the Tavola API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tavola/internal/cache"
	"tavola/internal/config"
	"tavola/internal/database"
	"tavola/internal/handlers"
	"tavola/internal/layout"
	"tavola/internal/middleware"
	"tavola/internal/router"
	"tavola/internal/session"
	"tavola/internal/storage"
	"tavola/internal/store"
	"tavola/internal/theme"
	"tavola/internal/upstream"
)

func main() {
	// Pick up a local .env before reading the environment.
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (upstream payload cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// S3 snapshot storage is optional; without it Bootstrap can only fall
	// back to the stale Valkey copy.
	var snapshots upstream.Snapshots
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		snapshots = storageClient
		slog.Info("s3 snapshot storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, upstream snapshots disabled")
	}

	upstreamCfg := upstream.Config{
		URL:      cfg.UpstreamURL,
		APIKey:   cfg.UpstreamAPIKey,
		ClientID: cfg.UpstreamClientID,
		CacheTTL: cfg.UpstreamCacheTTL,
		Timeout:  cfg.UpstreamTimeout,
	}
	if !upstreamCfg.Configured() {
		slog.Warn("upstream POS platform not configured, client and menu endpoints will fail")
	}
	upstreamClient := upstream.New(upstreamCfg, cache.NewPayloadCache(valkeyClient), snapshots)

	// Initialize data stores and the services built on them.
	layouts := layout.NewManager(store.NewLayoutStore(db))
	themes := theme.NewService(store.NewThemeStore(db))
	videos := store.NewVideoStore(db)

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	sessions := session.NewManager([]byte(cfg.AdminSecret), !cfg.IsDev())
	if !sessions.Configured() {
		slog.Warn("ADMIN_SECRET not set, admin login disabled")
	}

	authHandlers, err := handlers.NewAuth(sessions, cfg.AdminPassword, cfg.AdminPasswordHash, cfg.AdminTOTPSecret)
	if err != nil {
		slog.Error("failed to initialize admin auth", "error", err)
		os.Exit(1)
	}

	// Five login attempts per IP every ten minutes.
	loginLimiter := middleware.NewRateLimiter(5, 10*time.Minute, nil)
	defer loginLimiter.Stop()
	if cfg.TrustProxy {
		loginLimiter.TrustProxyHeaders()
	}

	r := router.New(sessions, loginLimiter, router.Handlers{
		Public: handlers.NewPublic(upstreamClient, layouts, themes, videos),
		Admin:  handlers.NewAdmin(upstreamClient, layouts, themes, videos),
		Auth:   authHandlers,
	})

	// WriteTimeout must cover a cold upstream fetch.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 20*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
