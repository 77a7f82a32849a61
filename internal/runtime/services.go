package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
)

// Services holds references to dynamically configurable collaborators and
// the currently published corpus.
// The LLM service can be swapped at runtime; the corpus follows a
// build-then-publish discipline: a rebuild constructs a complete new corpus
// and swaps the reference here, so readers never observe a partial build.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	// Dynamic services (can be nil, updated at runtime)
	llmService driven.LLMService

	// Published enriched corpus (nil until the first successful build)
	corpus *domain.Corpus
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// LLMService returns the current LLM service (may be nil)
func (s *Services) LLMService() driven.LLMService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.llmService
}

// SetLLMService updates the LLM service.
// Closes the old service if present. Updates config flags.
func (s *Services) SetLLMService(svc driven.LLMService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Close old service
	if s.llmService != nil {
		_ = s.llmService.Close()
	}

	s.llmService = svc
	s.config.SetLLMAvailable(svc != nil)
}

// ValidateAndSetLLM validates connectivity before setting the LLM service
func (s *Services) ValidateAndSetLLM(ctx context.Context, svc driven.LLMService) error {
	if svc == nil {
		s.SetLLMService(nil)
		return nil
	}

	// Validate connectivity
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}

	s.SetLLMService(svc)
	return nil
}

// Corpus returns the currently published corpus (nil before the first build).
// The returned corpus is immutable; callers must not modify it.
func (s *Services) Corpus() *domain.Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus
}

// PublishCorpus atomically replaces the published corpus.
// The previous corpus stays valid for readers that already hold it.
func (s *Services) PublishCorpus(corpus *domain.Corpus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = corpus
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.llmService != nil {
		_ = s.llmService.Close()
		s.llmService = nil
	}

	s.config.SetLLMAvailable(false)

	return nil
}
