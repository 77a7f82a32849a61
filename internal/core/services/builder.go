package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driving"
)

// Ensure corpusBuilder implements CorpusBuilder
var _ driving.CorpusBuilder = (*corpusBuilder)(nil)

// corpusBuilder coordinates the corpus enrichment pipeline:
//  1. Gather the corpus-wide raw tag universe (seed categories, topics, hashtags)
//  2. Resolve it to a canonical mapping (one collaborator call per tag set)
//  3. Enrich every post through the mapping
//
// The result is a fresh corpus; the caller publishes it atomically.
type corpusBuilder struct {
	resolver driving.TagResolver
	enricher driving.CorpusEnricher
	logger   *slog.Logger
}

// CorpusBuilderConfig holds dependencies for the corpus builder.
type CorpusBuilderConfig struct {
	Resolver driving.TagResolver
	Enricher driving.CorpusEnricher
	Logger   *slog.Logger
}

// NewCorpusBuilder creates a new CorpusBuilder.
func NewCorpusBuilder(cfg CorpusBuilderConfig) driving.CorpusBuilder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &corpusBuilder{
		resolver: cfg.Resolver,
		enricher: cfg.Enricher,
		logger:   logger,
	}
}

// Build produces a fresh enriched corpus from a raw one.
func (b *corpusBuilder) Build(ctx context.Context, raw *domain.Corpus) (*domain.Corpus, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil corpus", domain.ErrInvalidInput)
	}

	start := time.Now()

	rawTags := collectRawTags(raw)
	mapping := b.resolver.Resolve(ctx, rawTags)

	enriched, err := b.enricher.Enrich(raw.Posts, mapping)
	if err != nil {
		return nil, fmt.Errorf("enrich corpus: %w", err)
	}

	categories := make([]string, len(raw.Categories))
	copy(categories, raw.Categories)

	b.logger.Info("corpus built",
		"posts", len(enriched),
		"raw_tags", len(rawTags),
		"canonical_tags", countDistinct(mapping),
		"took", time.Since(start),
	)

	return &domain.Corpus{
		Posts:      enriched,
		Categories: categories,
		Wrapped:    raw.Wrapped,
	}, nil
}

// collectRawTags gathers every tag source in the corpus: the dataset's seed
// categories, each post's topic and each post's hashtags. Normalization and
// deduplication are the resolver's job.
func collectRawTags(corpus *domain.Corpus) []string {
	tags := make([]string, 0, len(corpus.Categories)+2*len(corpus.Posts))
	tags = append(tags, corpus.Categories...)

	for _, post := range corpus.Posts {
		if post == nil {
			continue
		}
		if post.Metadata.Topic != "" {
			tags = append(tags, post.Metadata.Topic)
		}
		tags = append(tags, post.Metadata.Hashtags...)
	}

	return tags
}

// countDistinct counts distinct canonical values in a mapping.
func countDistinct(mapping map[string]string) int {
	values := make(map[string]struct{}, len(mapping))
	for _, v := range mapping {
		values[v] = struct{}{}
	}
	return len(values)
}
