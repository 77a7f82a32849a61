package domain

import (
	"strings"
	"time"
)

// Post is one short text document in the exemplar corpus.
type Post struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Metadata   PostMetadata   `json:"metadata"`
	Engagement PostEngagement `json:"engagement"`
	CreatedAt  *time.Time     `json:"created_at,omitempty"`
}

// PostMetadata carries descriptive and derived fields for a post.
// The free-form descriptors (tone, structure, virality and so on) are
// passed through the pipeline unchanged; only LineCount, Language and
// UnifiedTags are written by the enricher.
type PostMetadata struct {
	Topic               string   `json:"topic,omitempty"`
	Tone                string   `json:"tone,omitempty"`
	PostType            string   `json:"post_type,omitempty"`
	WordCount           int      `json:"word_count,omitempty"`
	EstimatedEngagement string   `json:"estimated_engagement,omitempty"`
	TargetAudience      string   `json:"target_audience,omitempty"`
	BestPostingTime     string   `json:"best_posting_time,omitempty"`
	Hashtags            []string `json:"hashtags,omitempty"`
	Structure           string   `json:"structure,omitempty"`
	EngagementDrivers   []string `json:"engagement_drivers,omitempty"`
	QualityScore        float64  `json:"quality_score,omitempty"`
	ViralityPotential   string   `json:"virality_potential,omitempty"`
	EmotionalTone       string   `json:"emotional_tone,omitempty"`
	CallToAction        string   `json:"call_to_action,omitempty"`
	LineCount           int      `json:"line_count,omitempty"`
	Language            string   `json:"language,omitempty"`
	UnifiedTags         []string `json:"unified_tags,omitempty"`
}

// PostEngagement holds raw engagement counters for a post.
type PostEngagement struct {
	Likes    int  `json:"likes"`
	Comments int  `json:"comments"`
	Shares   int  `json:"shares"`
	Views    *int `json:"views,omitempty"`
}

// Total returns the combined engagement count (likes + comments + shares).
func (e PostEngagement) Total() int {
	return e.Likes + e.Comments + e.Shares
}

// NewPost creates a post with derived counts filled in.
func NewPost(id, text string) *Post {
	p := &Post{ID: id, Text: text}
	p.EnsureCounts()
	return p
}

// EnsureCounts fills LineCount and WordCount from the text when they were
// not supplied. Counts are derived facts of an immutable text; once set they
// are never recomputed.
func (p *Post) EnsureCounts() {
	if p.Metadata.LineCount == 0 {
		p.Metadata.LineCount = CountLines(p.Text)
	}
	if p.Metadata.WordCount == 0 {
		p.Metadata.WordCount = CountWords(p.Text)
	}
}

// LineCount returns the stored line count. Derivation from text happens
// only in EnsureCounts; a zero count stays zero and matches no bucket.
func (p *Post) LineCount() int {
	return p.Metadata.LineCount
}

// WordCount returns the stored word count, computing it from the text if the
// metadata never recorded one.
func (p *Post) WordCount() int {
	if p.Metadata.WordCount > 0 {
		return p.Metadata.WordCount
	}
	return CountWords(p.Text)
}

// HashtagCount returns the number of hashtags attached to the post.
func (p *Post) HashtagCount() int {
	return len(p.Metadata.Hashtags)
}

// HasQuestion reports whether the post text contains a question mark.
func (p *Post) HasQuestion() bool {
	return strings.Contains(p.Text, "?")
}

// HasExclamation reports whether the post text contains an exclamation mark.
func (p *Post) HasExclamation() bool {
	return strings.Contains(p.Text, "!")
}

// LengthBucket classifies the post by line count using the selector's
// inclusive bucket ranges. The second return value is false when the line
// count falls outside every bucket.
func (p *Post) LengthBucket() (LengthBucket, bool) {
	lines := p.LineCount()
	for _, b := range AllLengthBuckets() {
		if b.Contains(lines) {
			return b, true
		}
	}
	return "", false
}

// Language returns the post's language, defaulting to English when the
// metadata carries none.
func (p *Post) Language() string {
	if p.Metadata.Language == "" {
		return string(LanguageEnglish)
	}
	return p.Metadata.Language
}

// Clone returns a deep copy of the post. Slice-valued metadata fields are
// copied so mutations of the clone never reach the original.
func (p *Post) Clone() *Post {
	clone := *p

	clone.Metadata.Hashtags = copyStrings(p.Metadata.Hashtags)
	clone.Metadata.EngagementDrivers = copyStrings(p.Metadata.EngagementDrivers)
	clone.Metadata.UnifiedTags = copyStrings(p.Metadata.UnifiedTags)

	if p.Engagement.Views != nil {
		views := *p.Engagement.Views
		clone.Engagement.Views = &views
	}
	if p.CreatedAt != nil {
		created := *p.CreatedAt
		clone.CreatedAt = &created
	}

	return &clone
}

// CountLines counts newline-separated segments in text. An empty text is a
// single (empty) segment.
func CountLines(text string) int {
	return len(strings.Split(text, "\n"))
}

// CountWords counts whitespace-separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
