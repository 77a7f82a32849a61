package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driving"
)

// Ensure corpusEnricher implements CorpusEnricher
var _ driving.CorpusEnricher = (*corpusEnricher)(nil)

// corpusEnricher implements the CorpusEnricher interface.
// Enrichment is copy-on-write: raw posts are cloned and the clones receive
// the normalized metadata; the input is never touched.
type corpusEnricher struct {
	logger *slog.Logger
}

// NewCorpusEnricher creates a new CorpusEnricher.
func NewCorpusEnricher(logger *slog.Logger) driving.CorpusEnricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &corpusEnricher{logger: logger}
}

// Enrich returns enriched copies of the input posts, in input order.
func (e *corpusEnricher) Enrich(posts []*domain.Post, mapping map[string]string) ([]*domain.Post, error) {
	enriched := make([]*domain.Post, 0, len(posts))

	for i, post := range posts {
		if post == nil {
			return nil, fmt.Errorf("%w: post at index %d is nil", domain.ErrSchema, i)
		}
		if strings.TrimSpace(post.Text) == "" {
			return nil, fmt.Errorf("%w: post %q has no text", domain.ErrSchema, post.ID)
		}

		// Line count is always recomputed; every other metadata field
		// outside language and unified_tags passes through untouched.
		out := post.Clone()
		out.Metadata.LineCount = domain.CountLines(out.Text)

		if out.Metadata.Language == "" {
			out.Metadata.Language = string(domain.LanguageEnglish)
		}

		out.Metadata.UnifiedTags = unifyPostTags(out.Metadata, mapping)

		enriched = append(enriched, out)
	}

	return enriched, nil
}

// unifyPostTags builds the post's raw tag sequence (topic first, then
// hashtags in authored order), normalizes each entry and projects it through
// the corpus-wide mapping. Duplicates are removed keeping first-seen order.
// A normalized tag absent from the mapping maps to itself; given the
// resolver's totality invariant that is defensive only.
func unifyPostTags(meta domain.PostMetadata, mapping map[string]string) []string {
	raw := make([]string, 0, 1+len(meta.Hashtags))
	if meta.Topic != "" {
		raw = append(raw, meta.Topic)
	}
	raw = append(raw, meta.Hashtags...)

	seen := make(map[string]struct{}, len(raw))
	unified := make([]string, 0, len(raw))

	for _, entry := range raw {
		tag := domain.NormalizeTag(entry)
		if tag == "" {
			continue
		}

		canonical, ok := mapping[tag]
		if !ok || canonical == "" {
			canonical = tag
		}

		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		unified = append(unified, canonical)
	}

	return unified
}
