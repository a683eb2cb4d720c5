package service

import (
	"context"
	"fmt"
	"strings"

	"ai-helpdesk/pkg/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Completer is the opaque text-completion service consumed by the
// classifier, the semantic retrieval tier and the response synthesizer.
// Implementations may fail or time out; callers recover via fallbacks.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// LLMService wraps an OpenAI-compatible chat model behind the Completer
// interface. Any endpoint speaking the OpenAI API works (a custom base
// URL covers Groq-style providers).
type LLMService struct {
	model  llms.Model
	config *config.LLMConfig
	logger *zap.Logger
}

func NewLLMService(cfg *config.LLMConfig, logger *zap.Logger) (*LLMService, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	logger.Info("LLM service initialized", zap.String("model", cfg.Model))

	return &LLMService{
		model:  client,
		config: cfg,
		logger: logger,
	}, nil
}

// Complete sends a single prompt and returns the trimmed completion.
// Each call carries its own timeout; a timeout is indistinguishable from
// any other provider failure for the caller.
func (s *LLMService) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	out, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt,
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(s.config.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	return strings.TrimSpace(out), nil
}
