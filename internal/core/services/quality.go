package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driving"
)

// Ensure qualityService implements QualityService
var _ driving.QualityService = (*qualityService)(nil)

// Validation bounds for post text and hashtags.
const (
	minTextChars      = 10
	maxTextChars      = 3000
	maxHashtagMarkers = 10
	minHashtagChars   = 2
	maxHashtagChars   = 50
	maxTopicChars     = 100
)

var hashtagPattern = regexp.MustCompile(`^#[a-zA-Z0-9_]+$`)

// Keyword groups for the content-quality signals. Matched as
// case-insensitive substrings of the post text.
var (
	logicalConnectors = []string{"because", "however", "therefore", "meanwhile"}
	insightMarkers    = []string{"think", "believe", "suggest", "recommend"}
	experienceMarkers = []string{"experience", "learned", "discovered", "found"}
	actionableMarkers = []string{"tips", "advice", "strategies", "methods"}
	professionalWords = []string{"professional", "industry", "business", "career", "leadership", "strategy"}
)

var validTones = []string{
	"professional", "casual", "formal", "friendly", "authoritative",
	"conversational", "inspirational", "educational", "analytical",
}

var validEngagementLevels = []string{"low", "medium", "high", "very_high"}

// qualityService implements the QualityService interface.
type qualityService struct{}

// NewQualityService creates a new QualityService.
func NewQualityService() driving.QualityService {
	return &qualityService{}
}

// Score computes the additive heuristic score for a post.
// Each signal is independent; the raw sum is capped at 10.
func (q *qualityService) Score(post *domain.Post) float64 {
	score := 0.0

	// Length sweet spot
	words := post.WordCount()
	switch {
	case words >= 50 && words <= 300:
		score += 2.0
	case (words >= 30 && words < 50) || (words > 300 && words <= 500):
		score += 1.0
	}

	// Engagement elements
	if post.HasQuestion() {
		score += 1.0
	}
	if post.HasExclamation() {
		score += 0.5
	}
	if post.HashtagCount() > 0 {
		score += 0.5
	}

	// Hashtag quality
	switch count := post.HashtagCount(); {
	case count >= 1 && count <= 5:
		score += 1.0
	case count > 5:
		score += 0.5
	}

	// Structure
	if post.LineCount() >= 3 {
		score += 1.0
	}
	if strings.Contains(post.Text, "\n\n") {
		score += 1.0
	}

	// Content quality indicators
	lower := strings.ToLower(post.Text)
	if containsAny(lower, logicalConnectors) {
		score += 0.5
	}
	if containsAny(lower, insightMarkers) {
		score += 0.5
	}
	if containsAny(lower, experienceMarkers) {
		score += 0.5
	}
	if containsAny(lower, actionableMarkers) {
		score += 0.5
	}

	// Professional tone
	if containsAny(lower, professionalWords) {
		score += 1.0
	}

	return math.Min(score, 10.0)
}

// Assess validates the post and, when validation passes, scores it and
// collects metrics and advisory warnings.
func (q *qualityService) Assess(post *domain.Post) *domain.QualityReport {
	report := &domain.QualityReport{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	if err := validatePostText(post.Text); err != nil {
		return failReport(report, err)
	}
	if err := validateHashtags(post.Metadata.Hashtags); err != nil {
		return failReport(report, err)
	}
	if err := validateMetadata(post.Metadata); err != nil {
		return failReport(report, err)
	}

	report.Score = q.Score(post)

	report.Metrics = map[string]any{
		"word_count":      post.WordCount(),
		"line_count":      post.LineCount(),
		"hashtag_count":   post.HashtagCount(),
		"has_question":    post.HasQuestion(),
		"has_exclamation": post.HasExclamation(),
		"length_category": lengthCategory(post),
	}

	if post.WordCount() < 50 {
		report.Warnings = append(report.Warnings, "post is quite short - consider adding more content")
	}
	if post.HashtagCount() == 0 {
		report.Warnings = append(report.Warnings, "no hashtags found - consider adding relevant hashtags")
	}
	if !post.HasQuestion() && !post.HasExclamation() {
		report.Warnings = append(report.Warnings, "post lacks engagement elements - consider adding questions or exclamations")
	}
	if post.WordCount() > 500 {
		report.Warnings = append(report.Warnings, "post is quite long - consider breaking it into multiple posts")
	}

	return report
}

// lengthCategory names a length class for reporting. The retrieval buckets
// leave gaps, but a report always carries a category: counts beyond the Long
// range clamp to Long, counts below the Short range clamp to Short.
func lengthCategory(post *domain.Post) string {
	if bucket, ok := post.LengthBucket(); ok {
		return string(bucket)
	}
	if post.LineCount() > 15 {
		return string(domain.BucketLong)
	}
	return string(domain.BucketShort)
}

func failReport(report *domain.QualityReport, err error) *domain.QualityReport {
	report.IsValid = false
	report.Errors = append(report.Errors, err.Error())
	return report
}

// validatePostText checks the structural preconditions on the text itself.
func validatePostText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: post text cannot be empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) < minTextChars {
		return fmt.Errorf("%w: post text must be at least %d characters long", domain.ErrValidation, minTextChars)
	}
	if utf8.RuneCountInString(text) > maxTextChars {
		return fmt.Errorf("%w: post text cannot exceed %d characters", domain.ErrValidation, maxTextChars)
	}
	if strings.Count(text, "#") > maxHashtagMarkers {
		return fmt.Errorf("%w: post cannot have more than %d hashtags", domain.ErrValidation, maxHashtagMarkers)
	}
	return nil
}

// validateHashtags checks each attached hashtag's syntax.
func validateHashtags(hashtags []string) error {
	for _, hashtag := range hashtags {
		if !strings.HasPrefix(hashtag, "#") {
			return fmt.Errorf("%w: hashtag %q must start with #", domain.ErrValidation, hashtag)
		}
		length := utf8.RuneCountInString(hashtag)
		if length < minHashtagChars {
			return fmt.Errorf("%w: hashtag %q is too short", domain.ErrValidation, hashtag)
		}
		if length > maxHashtagChars {
			return fmt.Errorf("%w: hashtag %q is too long", domain.ErrValidation, hashtag)
		}
		if !hashtagPattern.MatchString(hashtag) {
			return fmt.Errorf("%w: hashtag %q contains invalid characters", domain.ErrValidation, hashtag)
		}
	}
	return nil
}

// validateMetadata checks bounds on the descriptive metadata fields.
// Empty descriptors are always acceptable.
func validateMetadata(meta domain.PostMetadata) error {
	if utf8.RuneCountInString(meta.Topic) > maxTopicChars {
		return fmt.Errorf("%w: topic cannot exceed %d characters", domain.ErrValidation, maxTopicChars)
	}
	if meta.Tone != "" && !inList(meta.Tone, validTones) {
		return fmt.Errorf("%w: invalid tone: %s", domain.ErrValidation, meta.Tone)
	}
	if meta.EstimatedEngagement != "" && !inList(meta.EstimatedEngagement, validEngagementLevels) {
		return fmt.Errorf("%w: invalid engagement level: %s", domain.ErrValidation, meta.EstimatedEngagement)
	}
	if meta.QualityScore < 0 || meta.QualityScore > 10 {
		return fmt.Errorf("%w: quality score must be between 0 and 10", domain.ErrValidation)
	}
	return nil
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func inList(value string, list []string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}
