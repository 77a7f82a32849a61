package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driving"
	"github.com/custodia-labs/exemplar-core/internal/runtime"
)

// Ensure tagResolver implements TagResolver
var _ driving.TagResolver = (*tagResolver)(nil)

const (
	defaultResolveTimeout = 30 * time.Second
	defaultMappingTTL     = time.Hour
)

// tagResolver implements the TagResolver interface.
// The semantic merge decision is delegated to the LLM collaborator; every
// failure mode degrades to the identity fallback, so Resolve is total and
// callable offline.
type tagResolver struct {
	services *runtime.Services // Dynamic LLM access
	cache    driven.MappingCache
	cacheTTL time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// TagResolverConfig holds dependencies for the tag resolver.
type TagResolverConfig struct {
	Services *runtime.Services
	Cache    driven.MappingCache // optional; nil disables caching
	CacheTTL time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewTagResolver creates a new TagResolver.
// The LLM collaborator is accessed dynamically via runtime.Services, so it
// may be configured, replaced or absent at any point.
func NewTagResolver(cfg TagResolverConfig) driving.TagResolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultMappingTTL
	}

	return &tagResolver{
		services: cfg.Services,
		cache:    cfg.Cache,
		cacheTTL: cacheTTL,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve maps every normalized raw tag to a canonical tag.
func (r *tagResolver) Resolve(ctx context.Context, rawTags []string) map[string]string {
	candidates := normalizeCandidates(rawTags)
	if len(candidates) == 0 {
		// Side-effect-free fast path: no collaborator, no cache.
		return map[string]string{}
	}

	key := mappingKey(candidates)

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err == nil {
			return repairMapping(cached, candidates)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("mapping cache read failed", "error", err)
		}
	}

	mapping, ok := r.resolveWithLLM(ctx, candidates)
	if !ok {
		return identityMapping(candidates)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, mapping, r.cacheTTL); err != nil {
			r.logger.Warn("mapping cache write failed", "error", err)
		}
	}

	return mapping
}

// resolveWithLLM asks the collaborator for a merged mapping.
// Returns ok=false when the call or the parse fails; the caller falls back.
func (r *tagResolver) resolveWithLLM(ctx context.Context, candidates []string) (map[string]string, bool) {
	llm := r.services.LLMService()
	if llm == nil {
		r.logger.Debug("no LLM configured, using identity mapping", "tags", len(candidates))
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	response, err := llm.Generate(ctx, buildTagUnificationPrompt(candidates))
	if err != nil {
		r.logger.Warn("tag unification call failed, using identity mapping",
			"error", err,
			"tags", len(candidates),
		)
		return nil, false
	}

	parsed, err := parseMappingResponse(response)
	if err != nil {
		r.logger.Warn("tag unification response unparseable, using identity mapping",
			"error", err,
		)
		return nil, false
	}

	return repairMapping(parsed, candidates), true
}

// normalizeCandidates trims, unmarks and title-cases raw tags, drops empties,
// collapses duplicates and returns the result sorted.
func normalizeCandidates(rawTags []string) []string {
	seen := make(map[string]struct{}, len(rawTags))
	candidates := make([]string, 0, len(rawTags))

	for _, raw := range rawTags {
		tag := domain.NormalizeTag(raw)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		candidates = append(candidates, tag)
	}

	sort.Strings(candidates)
	return candidates
}

// mappingKey digests a sorted candidate list into a stable cache key.
func mappingKey(candidates []string) string {
	sum := sha256.Sum256([]byte(strings.Join(candidates, "\n")))
	return hex.EncodeToString(sum[:])
}

// identityMapping maps every candidate to itself.
func identityMapping(candidates []string) map[string]string {
	mapping := make(map[string]string, len(candidates))
	for _, tag := range candidates {
		mapping[tag] = tag
	}
	return mapping
}

// repairMapping enforces the output invariant: the domain covers every
// candidate and every value is non-empty. Candidates the collaborator
// dropped, or mapped to blank, map to themselves.
func repairMapping(mapping map[string]string, candidates []string) map[string]string {
	repaired := make(map[string]string, len(candidates))

	for tag, merged := range mapping {
		merged = strings.TrimSpace(merged)
		if merged != "" {
			repaired[tag] = merged
		}
	}

	for _, tag := range candidates {
		if v, ok := repaired[tag]; !ok || v == "" {
			repaired[tag] = tag
		}
	}

	return repaired
}

// parseMappingResponse parses collaborator output into a string mapping.
// Two independent stages: a strict JSON parse, then extraction of the first
// top-level brace-delimited object from surrounding prose.
func parseMappingResponse(response string) (map[string]string, error) {
	var mapping map[string]string

	trimmed := strings.TrimSpace(response)
	if err := json.Unmarshal([]byte(trimmed), &mapping); err == nil {
		return mapping, nil
	}

	extracted := extractJSONObject(trimmed)
	if extracted == "" {
		return nil, domain.ErrCollaborator
	}
	if err := json.Unmarshal([]byte(extracted), &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// extractJSONObject returns the substring from the first '{' to the last
// '}', or "" when no such span exists.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
