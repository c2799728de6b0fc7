// Copyright PromptLab Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpAdapter "github.com/promptlab/promptlab/pkg/adapters/http"
	"github.com/promptlab/promptlab/pkg/archive"
	_ "github.com/promptlab/promptlab/pkg/archive/filesystem"
	_ "github.com/promptlab/promptlab/pkg/archive/memory"
	_ "github.com/promptlab/promptlab/pkg/archive/s3"
	"github.com/promptlab/promptlab/pkg/core/api"
	"github.com/promptlab/promptlab/pkg/core/config"
	"github.com/promptlab/promptlab/pkg/observability/logging"
	"github.com/promptlab/promptlab/pkg/storage"
	_ "github.com/promptlab/promptlab/pkg/storage/memory"
	_ "github.com/promptlab/promptlab/pkg/storage/postgres"
	_ "github.com/promptlab/promptlab/pkg/storage/sqlite"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 8080, "HTTP port to listen on")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("PromptLab Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	// Local .env files are optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info("Starting PromptLab Server",
		"version", Version,
		"build_time", BuildTime)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", "error", err)
	}

	// Override port if specified
	if *port != 8080 {
		cfg.Server.Port = *port
	}

	initCtx := context.Background()

	// Initialize storage
	store, err := storage.Providers.New(initCtx, cfg.Storage.Type, cfg.Storage.Params)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())
	logger.Info("Initialized storage", "type", cfg.Storage.Type)

	// Initialize archive backend
	archiveStore, err := archive.Providers.New(initCtx, cfg.Archive.Type, cfg.Archive.Params)
	if err != nil {
		logger.Error("Failed to initialize archive", "type", cfg.Archive.Type, "error", err)
		os.Exit(1)
	}
	defer archiveStore.Close(context.Background())
	logger.Info("Initialized archive", "type", cfg.Archive.Type)

	// Initialize completion client (optional)
	var completions api.CompletionClient
	if cfg.LLM.Enabled() {
		completions = api.NewOpenAIClient(cfg.LLM.Endpoint, cfg.LLM.APIKey)
		logger.Info("Initialized completion client", "endpoint", cfg.LLM.Endpoint, "model", cfg.LLM.Model)
	}

	// Initialize HTTP adapter
	handler := httpAdapter.New(httpAdapter.Config{
		Store:       store,
		Archive:     archiveStore,
		Completions: completions,
		Model:       cfg.LLM.Model,
		Version:     Version,
		Logger:      logger,
	})
	logger.Info("Initialized HTTP adapter")

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
