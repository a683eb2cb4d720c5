package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ai-helpdesk/internal/api"
	"ai-helpdesk/internal/api/handlers"
	"ai-helpdesk/internal/knowledge"
	"ai-helpdesk/internal/service"
	"ai-helpdesk/internal/taxonomy"
	"ai-helpdesk/pkg/auth"
	"ai-helpdesk/pkg/config"
	"ai-helpdesk/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting help desk service")

	ctx := context.Background()

	// Read-only reference data, loaded once and shared by all requests
	table := taxonomy.Load(filepath.Join(cfg.Knowledge.DataDir, cfg.Knowledge.CategoriesFile), appLogger)
	store := knowledge.NewStore(&cfg.Knowledge, appLogger)

	// External providers
	llmService, err := service.NewLLMService(&cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}

	embeddingService, err := service.NewEmbeddingService(&cfg.Embedding, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding service", zap.Error(err))
	}
	var embedder service.Embedder
	if embeddingService != nil {
		embedder = embeddingService
	}

	// Pipeline components
	classifier := service.NewClassifierService(llmService, table, appLogger)
	retrieval := service.NewRetrievalService(ctx, store, llmService, embedder, &cfg.Retrieval, appLogger)
	escalation := service.NewEscalationService(table, cfg.Escalation.ConfidenceThreshold, appLogger)
	response := service.NewResponseService(llmService, appLogger)
	pipeline := service.NewPipelineService(classifier, retrieval, escalation, response, store, appLogger)

	// Optional bearer-token auth
	var jwtManager *auth.JWTManager
	if cfg.JWT.SecretKey != "" {
		jwtManager = auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	} else {
		appLogger.Warn("JWT secret not set, API is served without authentication")
	}

	helpdeskHandler := handlers.NewHelpdeskHandler(pipeline, appLogger)
	app := api.SetupRouter(helpdeskHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
