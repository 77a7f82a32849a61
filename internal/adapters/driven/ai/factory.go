package ai

import (
	"fmt"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateLLMService creates an LLM service from settings. Unconfigured
// settings yield a nil service, not an error: the pipeline then runs
// in identity-fallback mode.
func (f *Factory) CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	cfg := ChatLLMConfig{
		APIKey:               settings.APIKey,
		Model:                settings.Model,
		BaseURL:              settings.BaseURL,
		MaxRequestsPerMinute: settings.MaxRequestsPerMinute,
	}

	switch settings.Provider {
	case domain.AIProviderGroq:
		return NewGroqLLM(cfg)
	case domain.AIProviderOpenAI:
		return NewOpenAILLM(cfg)
	case domain.AIProviderOllama:
		return NewOllamaLLM(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

func NewOllamaLLM(baseURL, model string) (driven.LLMService, error) {
	// TODO: Implement Ollama LLM adapter
	return nil, fmt.Errorf("Ollama LLM adapter not yet implemented")
}
