package service

import (
	"context"
	"fmt"
	"time"

	"ai-helpdesk/pkg/config"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Embedder turns texts into fixed-length vectors. The embedding service
// is optional: running without one simply disables the vector retrieval
// tier.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

type EmbeddingService struct {
	embedder embeddings.Embedder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewEmbeddingService builds a provider-backed embedder. Returns
// (nil, nil) when no embedding model is configured.
func NewEmbeddingService(cfg *config.EmbeddingConfig, logger *zap.Logger) (*EmbeddingService, error) {
	if cfg.Model == "" {
		logger.Info("No embedding model configured, vector retrieval disabled")
		return nil, nil
	}

	opts := []openai.Option{
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to construct embedder: %w", err)
	}

	logger.Info("Embedding service initialized", zap.String("model", cfg.Model))

	return &EmbeddingService{embedder: embedder, timeout: cfg.Timeout, logger: logger}, nil
}

// Each call carries its own timeout, mirroring LLMService.Complete: an
// unresponsive embedding endpoint surfaces as an ordinary error and the
// retrieval cascade moves on instead of hanging.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.embedder.EmbedQuery(ctx, text)
}

func (s *EmbeddingService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.embedder.EmbedDocuments(ctx, texts)
}
