package driving

import (
	"github.com/custodia-labs/exemplar-core/internal/core/domain"
)

// ExemplarSelector answers retrieval requests against an enriched corpus.
// Selection is pure and deterministic; no call here can fail.
type ExemplarSelector interface {
	// Select returns up to req.Limit() posts matching the request, in
	// corpus order (first-K, not ranked). An empty result means "no
	// exemplars available" and is a valid outcome.
	Select(corpus *domain.Corpus, req domain.GenerationRequest) []*domain.Post

	// ListTags returns the sorted union of every post's unified tags with
	// the supplied seed categories, for discovery and autocomplete.
	ListTags(corpus *domain.Corpus, extra []string) []string
}
