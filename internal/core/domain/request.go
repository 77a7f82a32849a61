package domain

import "fmt"

// LengthBucket discretizes post length by line count.
type LengthBucket string

// Length bucket constants.
const (
	BucketShort  LengthBucket = "Short"
	BucketMedium LengthBucket = "Medium"
	BucketLong   LengthBucket = "Long"
)

// AllLengthBuckets returns the buckets in ascending length order.
func AllLengthBuckets() []LengthBucket {
	return []LengthBucket{BucketShort, BucketMedium, BucketLong}
}

// Range returns the inclusive line-count range for the bucket.
// Unknown buckets return (0, 0), which contains no line count.
func (b LengthBucket) Range() (min, max int) {
	switch b {
	case BucketShort:
		return 1, 5
	case BucketMedium:
		return 6, 10
	case BucketLong:
		return 11, 15
	default:
		return 0, 0
	}
}

// Contains reports whether a line count falls inside the bucket's range.
// A line count of 0, or one beyond every range, matches no bucket.
func (b LengthBucket) Contains(lines int) bool {
	min, max := b.Range()
	return lines >= min && lines <= max && min > 0
}

// IsValid reports whether b is a known bucket.
func (b LengthBucket) IsValid() bool {
	switch b {
	case BucketShort, BucketMedium, BucketLong:
		return true
	default:
		return false
	}
}

// Language identifies the language of a post or request.
type Language string

// Supported languages.
const (
	LanguageEnglish  Language = "English"
	LanguageHinglish Language = "Hinglish"
)

// IsValid reports whether l is a supported language.
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageHinglish:
		return true
	default:
		return false
	}
}

// DefaultMaxExamples is the exemplar count returned when a request does not
// ask for a specific limit.
const DefaultMaxExamples = 2

// GenerationRequest describes what the downstream generation layer needs
// exemplars for.
type GenerationRequest struct {
	LengthBucket LengthBucket `json:"length_bucket"`
	Language     Language     `json:"language"`
	Tag          string       `json:"tag"`
	MaxExamples  int          `json:"max_examples"`
}

// Validate checks the request fields against the supported vocabulary.
func (r GenerationRequest) Validate() error {
	if !r.LengthBucket.IsValid() {
		return fmt.Errorf("%w: length bucket %q", ErrInvalidInput, r.LengthBucket)
	}
	if !r.Language.IsValid() {
		return fmt.Errorf("%w: language %q", ErrInvalidInput, r.Language)
	}
	if r.Tag == "" {
		return fmt.Errorf("%w: tag must not be empty", ErrInvalidInput)
	}
	return nil
}

// Limit returns the effective exemplar limit for the request.
func (r GenerationRequest) Limit() int {
	if r.MaxExamples <= 0 {
		return DefaultMaxExamples
	}
	return r.MaxExamples
}
