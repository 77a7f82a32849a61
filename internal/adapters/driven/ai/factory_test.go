package ai

import (
	"errors"
	"testing"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
)

func TestFactory_CreateLLMService_NilSettings(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateLLMService(nil)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateLLMService_Unconfigured(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderGroq,
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Error("expected nil service when API key is missing")
	}
}

func TestFactory_CreateLLMService_Groq(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderGroq,
		APIKey:   "gsk-test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.Model() != "llama3-8b-8192" {
		t.Errorf("expected Groq default model, got %s", svc.Model())
	}
}

func TestFactory_CreateLLMService_OpenAI(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
		Model:    "gpt-4o",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.Model() != "gpt-4o" {
		t.Errorf("expected gpt-4o, got %s", svc.Model())
	}
}

func TestFactory_CreateLLMService_Ollama(t *testing.T) {
	factory := NewFactory()

	_, err := factory.CreateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
	})
	if err == nil {
		t.Error("expected not-implemented error for Ollama")
	}
}

func TestFactory_CreateLLMService_UnknownProvider(t *testing.T) {
	factory := NewFactory()

	_, err := factory.CreateLLMService(&domain.LLMSettings{
		Provider: "mistral",
		APIKey:   "test",
	})
	if !errors.Is(err, domain.ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestFactory_CreateLLMService_PassesRateLimit(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateLLMService(&domain.LLMSettings{
		Provider:             domain.AIProviderGroq,
		APIKey:               "gsk-test",
		MaxRequestsPerMinute: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	llm := svc.(*ChatLLM)
	if llm.limiter == nil {
		t.Error("expected rate limiter when MaxRequestsPerMinute is set")
	}
}
