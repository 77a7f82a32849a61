package driven

import (
	"context"
)

// LLMService is the text-generation collaborator consumed by the tag
// resolver. It is a capability, not a source of truth: every caller must
// tolerate failure and carry on without it.
type LLMService interface {
	// Generate sends a natural-language instruction and returns the raw
	// model output. The response may wrap useful content in extra prose;
	// callers are responsible for extraction.
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}
