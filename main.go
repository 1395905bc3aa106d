package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/VishwasK/agentmemory/config"
	"github.com/VishwasK/agentmemory/database"
	"github.com/VishwasK/agentmemory/llm"
	"github.com/VishwasK/agentmemory/memory"
	"github.com/VishwasK/agentmemory/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	store, err := database.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx, cfg.EmbeddingDimensions); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	llmClient := llm.New(cfg, logger)

	embedder, err := llm.NewCachedEmbedder(llmClient, cfg.EmbedCacheSize)
	if err != nil {
		logger.Fatal("Failed to initialize embedding cache", zap.Error(err))
	}

	memories, err := memory.New(cfg, store, embedder, logger)
	if err != nil {
		logger.Fatal("Failed to initialize memory store", zap.Error(err))
	}

	webServer := web.NewServer(cfg, memories, llmClient, logger)

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port := fmt.Sprintf(":%d", cfg.WebPort)
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
