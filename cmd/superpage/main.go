// Package main is the entry point for the SuperPage server.
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

	"superpage/internal/ai"
	"superpage/internal/audit"
	"superpage/internal/cache"
	"superpage/internal/chat"
	"superpage/internal/config"
	"superpage/internal/database"
	"superpage/internal/generator"
	"superpage/internal/handlers"
	"superpage/internal/prompt"
	"superpage/internal/router"
	"superpage/internal/session"
	"superpage/internal/storage"
	"superpage/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"archive", cfg.ArchiveEnabled(),
	)

	// Connect to Valkey for history and theme persistence.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	valkeyStore := store.NewValkeyStore(valkeyClient)

	// The Postgres archive is optional. Without it the session history is
	// the only record of generated pages.
	var archiveStore *store.ArchiveStore
	if cfg.ArchiveEnabled() {
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
		archiveStore = store.NewArchiveStore(db)
	} else {
		slog.Warn("postgres not configured, page archive disabled")
	}

	// S3 storage is optional. Without it, generated hero images are
	// embedded in pages as base64 data URIs.
	s3Client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey,
		cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to configure s3 storage", "error", err)
		os.Exit(1)
	}
	if s3Client == nil {
		slog.Warn("s3 not configured, generated images will be embedded inline")
	}

	// A fresh AI client is created per call so key rotation takes effect
	// without a restart.
	factory := ai.NewFactory(ai.Config{APIKey: cfg.GeminiKey, BaseURL: cfg.GeminiBaseURL})

	var images generator.ImageStore
	if s3Client != nil {
		images = s3Client
	}
	gen := generator.New(
		func() generator.ModelClient { return factory.Client() },
		&prompt.Builder{WordTarget: cfg.WordTarget},
		generator.Models{Pro: cfg.ModelPro, Flash: cfg.ModelFlash, Image: cfg.ModelImage},
		images,
	)
	auditor := audit.New(
		func() audit.ModelClient { return factory.Client() },
		cfg.ModelFlash, cfg.AuditBudget,
	)
	reviser := chat.New(
		func() chat.ModelClient { return factory.Client() },
		cfg.ModelFlash, cfg.ChatBudget,
	)

	var archiver session.Archiver
	if archiveStore != nil {
		archiver = archiveStore
	}
	sess := session.NewManager(gen, auditor, reviser, valkeyStore, valkeyStore, archiver, cfg.HistoryCap)

	// Restore the persisted session before serving.
	if err := sess.Load(context.Background()); err != nil {
		slog.Error("failed to restore session", "error", err)
		os.Exit(1)
	}

	api := handlers.NewAPI(sess, archiveStore)
	r := router.New(api, router.Options{APITokenHash: cfg.APITokenHash, RateLimit: cfg.RateLimit})

	// WriteTimeout must accommodate the generation pipeline, which waits
	// on grounded LLM calls that can run well past a minute.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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
