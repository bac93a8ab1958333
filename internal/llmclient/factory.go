// File: internal/llmclient/factory.go
package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/config"
	"github.com/xkilldash9x/chimera/internal/llmutil"
)

// NewClient is a factory function that creates an LLMClient based on the
// model configuration.
func NewClient(cfg config.LLMModelConfig, llm config.LLMConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(cfg, logger)
	case config.ProviderOpenRouter:
		return NewOpenRouterClient(cfg, llm.SiteURL, llm.SiteName, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: '%s'. Supported: [%s, %s]",
			cfg.Provider, config.ProviderGemini, config.ProviderOpenRouter)
	}
}

// NewClientOrNil builds a client, degrading to nil when the provider has no
// API key. Every consumer of schemas.LLMClient treats nil as "heuristics
// only", so a keyless environment still produces a full (if weaker) run.
func NewClientOrNil(cfg config.LLMModelConfig, llm config.LLMConfig, logger *zap.Logger) schemas.LLMClient {
	if cfg.APIKey == "" {
		logger.Warn("No API key configured; running without LLM",
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model),
		)
		return nil
	}
	client, err := NewClient(cfg, llm, logger)
	if err != nil {
		logger.Warn("Failed to construct LLM client; running without LLM", zap.Error(err))
		return nil
	}
	return client
}

// GenerateWithReasoning wraps a Generate call with the REASONING:/ACTION:
// protocol the agent planning prompts rely on. The raw response is returned
// inside the ReasonedResponse for forensic logging by callers.
func GenerateWithReasoning(ctx context.Context, client schemas.LLMClient, req schemas.GenerationRequest) (schemas.ReasonedResponse, error) {
	structured := req
	structured.SystemPrompt = req.SystemPrompt + "\n\nPlease structure your response as follows:\nREASONING: [Your internal thought process and reasoning]\nACTION: [Your final action or response]"

	full, err := client.Generate(ctx, structured)
	if err != nil {
		return schemas.ReasonedResponse{}, err
	}
	return llmutil.ParseReasonedResponse(full), nil
}
