package driven

import (
	"context"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
)

// CorpusStore loads raw corpora and persists enriched ones.
// The core itself never persists anything; this boundary belongs to the
// caller and is exercised only by the build orchestration and the worker.
type CorpusStore interface {
	// Load reads and parses a corpus. Both accepted wire shapes (bare post
	// array, or envelope with posts and dataset_info) collapse to a Corpus.
	Load(ctx context.Context) (*domain.Corpus, error)

	// Save writes a corpus back, restoring the top-level shape the source
	// document used.
	Save(ctx context.Context, corpus *domain.Corpus) error
}
