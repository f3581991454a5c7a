package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/jwebster45206/fifteen-days/internal/config"
	"github.com/jwebster45206/fifteen-days/internal/handlers"
	"github.com/jwebster45206/fifteen-days/internal/logger"
	"github.com/jwebster45206/fifteen-days/internal/middleware"
	"github.com/jwebster45206/fifteen-days/internal/sources"
	"github.com/jwebster45206/fifteen-days/internal/storage"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Fifteen Days API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"locale", cfg.Locale,
		"content_format", cfg.ContentFormat,
		"storage_backend", cfg.StorageBackend)

	srcs, err := sources.Build(cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load content")
		os.Exit(1)
	}
	locales := make([]locale.Locale, 0, len(srcs))
	for loc := range srcs {
		locales = append(locales, loc)
	}
	slices.Sort(locales)

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	store, err := storage.Open(storageCtx, cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to connect to storage")
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, locales, log)
	mux.Handle("/health", healthHandler)

	gameHandler := handlers.NewGameHandler(srcs, store, log)
	mux.Handle("/v1/games", gameHandler)
	mux.Handle("/v1/games/", gameHandler)

	handler := middleware.Logger(mux)
	if cfg.CORSOrigin != "" {
		handler = middleware.CORS(cfg.CORSOrigin, handler)
	}
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
