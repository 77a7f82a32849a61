package domain

import (
	"errors"
	"testing"
)

func TestLengthBucketRanges(t *testing.T) {
	cases := []struct {
		bucket   LengthBucket
		min, max int
	}{
		{BucketShort, 1, 5},
		{BucketMedium, 6, 10},
		{BucketLong, 11, 15},
		{LengthBucket("Epic"), 0, 0},
	}

	for _, tc := range cases {
		min, max := tc.bucket.Range()
		if min != tc.min || max != tc.max {
			t.Errorf("%s: range [%d,%d], want [%d,%d]", tc.bucket, min, max, tc.min, tc.max)
		}
	}
}

func TestLengthBucketContains(t *testing.T) {
	if !BucketMedium.Contains(6) || !BucketMedium.Contains(10) {
		t.Error("Medium should contain its inclusive bounds")
	}
	if BucketMedium.Contains(5) || BucketMedium.Contains(11) {
		t.Error("Medium should not contain neighbouring counts")
	}
	if BucketShort.Contains(0) {
		t.Error("no bucket contains a zero line count")
	}
	if LengthBucket("Epic").Contains(3) {
		t.Error("unknown bucket should contain nothing")
	}
}

func TestLanguageIsValid(t *testing.T) {
	if !LanguageEnglish.IsValid() || !LanguageHinglish.IsValid() {
		t.Error("expected known languages to be valid")
	}
	if Language("French").IsValid() {
		t.Error("expected unknown language to be invalid")
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	valid := GenerationRequest{
		LengthBucket: BucketShort,
		Language:     LanguageEnglish,
		Tag:          "Startup",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cases := []GenerationRequest{
		{LengthBucket: "Tiny", Language: LanguageEnglish, Tag: "Startup"},
		{LengthBucket: BucketShort, Language: "French", Tag: "Startup"},
		{LengthBucket: BucketShort, Language: LanguageEnglish, Tag: ""},
	}
	for i, req := range cases {
		err := req.Validate()
		if err == nil {
			t.Errorf("case %d: expected validation error", i)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestGenerationRequestLimit(t *testing.T) {
	req := GenerationRequest{}
	if req.Limit() != DefaultMaxExamples {
		t.Errorf("expected default limit %d, got %d", DefaultMaxExamples, req.Limit())
	}

	req.MaxExamples = 5
	if req.Limit() != 5 {
		t.Errorf("expected limit 5, got %d", req.Limit())
	}

	req.MaxExamples = -1
	if req.Limit() != DefaultMaxExamples {
		t.Errorf("negative max should default, got %d", req.Limit())
	}
}

func TestAIProviderValidation(t *testing.T) {
	if !AIProviderGroq.IsValid() || !AIProviderOpenAI.IsValid() || !AIProviderOllama.IsValid() {
		t.Error("expected known providers to be valid")
	}
	if AIProvider("bard").IsValid() {
		t.Error("expected unknown provider to be invalid")
	}
	if AIProviderOllama.RequiresAPIKey() {
		t.Error("ollama should not require an API key")
	}
	if !AIProviderGroq.RequiresAPIKey() {
		t.Error("groq should require an API key")
	}
}

func TestLLMSettingsIsConfigured(t *testing.T) {
	s := &LLMSettings{}
	if s.IsConfigured() {
		t.Error("empty settings should not be configured")
	}

	s = &LLMSettings{Provider: AIProviderGroq}
	if s.IsConfigured() {
		t.Error("groq without API key should not be configured")
	}

	s = &LLMSettings{Provider: AIProviderGroq, APIKey: "gsk-test"}
	if !s.IsConfigured() {
		t.Error("groq with API key should be configured")
	}

	s = &LLMSettings{Provider: AIProviderOllama}
	if !s.IsConfigured() {
		t.Error("ollama without API key should be configured")
	}
}
