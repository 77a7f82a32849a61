package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driving"
)

// Ensure exemplarSelector implements ExemplarSelector
var _ driving.ExemplarSelector = (*exemplarSelector)(nil)

// exemplarSelector implements the ExemplarSelector interface.
// Selection is a first-K scan in corpus order: no ranking, no shuffling,
// so a fixed corpus and request always yield the same sequence.
type exemplarSelector struct{}

// NewExemplarSelector creates a new ExemplarSelector.
func NewExemplarSelector() driving.ExemplarSelector {
	return &exemplarSelector{}
}

// Select returns up to req.Limit() posts matching the request.
func (s *exemplarSelector) Select(corpus *domain.Corpus, req domain.GenerationRequest) []*domain.Post {
	matches := []*domain.Post{}
	if corpus == nil {
		return matches
	}

	limit := req.Limit()

	for _, post := range corpus.Posts {
		if post == nil {
			continue
		}
		if !matchesRequest(post, req) {
			continue
		}

		matches = append(matches, post)
		if len(matches) >= limit {
			break
		}
	}

	return matches
}

// matchesRequest is the conjunction of the three retrieval predicates:
// tag membership, language equality and length-bucket membership.
// Tag and language comparisons are case-insensitive.
func matchesRequest(post *domain.Post, req domain.GenerationRequest) bool {
	if !hasTag(post, req.Tag) {
		return false
	}
	if !strings.EqualFold(post.Language(), string(req.Language)) {
		return false
	}
	return req.LengthBucket.Contains(post.LineCount())
}

func hasTag(post *domain.Post, tag string) bool {
	for _, t := range post.Metadata.UnifiedTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ListTags returns the sorted union of every post's unified tags with the
// supplied seed categories.
func (s *exemplarSelector) ListTags(corpus *domain.Corpus, extra []string) []string {
	set := make(map[string]struct{})

	for _, category := range extra {
		if category != "" {
			set[category] = struct{}{}
		}
	}

	if corpus != nil {
		for _, post := range corpus.Posts {
			if post == nil {
				continue
			}
			for _, tag := range post.Metadata.UnifiedTags {
				if tag != "" {
					set[tag] = struct{}{}
				}
			}
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
