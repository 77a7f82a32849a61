package driving

import (
	"github.com/custodia-labs/exemplar-core/internal/core/domain"
)

// QualityService scores posts for intrinsic quality.
type QualityService interface {
	// Score computes the additive heuristic score for a post, in [0, 10].
	// Pure and total: the same text always yields the same value.
	Score(post *domain.Post) float64

	// Assess runs structural validation and, when it passes, scoring plus
	// advisory warnings. Validation failures are reported in the returned
	// report, never as an error.
	Assess(post *domain.Post) *domain.QualityReport
}
