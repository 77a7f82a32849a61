package driving

import (
	"context"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
)

// CorpusEnricher augments raw posts with normalized metadata.
type CorpusEnricher interface {
	// Enrich returns enriched copies of the input posts, in input order.
	// The input is never mutated. Each output post carries a recomputed
	// line count, a language, and unified tags projected through mapping.
	// A post with no text fails the whole call with domain.ErrSchema.
	Enrich(posts []*domain.Post, mapping map[string]string) ([]*domain.Post, error)
}

// CorpusBuilder orchestrates a full corpus rebuild: gathering the raw tag
// universe, resolving it once, and enriching every post.
type CorpusBuilder interface {
	// Build produces a fresh enriched corpus from a raw one. The input
	// corpus is not mutated. Callers publish the result atomically; a
	// failed build leaves the previously published corpus untouched.
	Build(ctx context.Context, raw *domain.Corpus) (*domain.Corpus, error)
}
