package mocks

import (
	"context"
	"errors"
	"sync"
)

// MockLLMService is a mock implementation of LLMService for testing
type MockLLMService struct {
	mu sync.Mutex

	// Response is returned verbatim from Generate
	Response string

	// Err, when set, is returned from Generate instead of Response
	Err error

	// PingErr, when set, is returned from Ping
	PingErr error

	// Prompts records every prompt passed to Generate
	Prompts []string

	closed bool
}

// NewMockLLMService creates a MockLLMService that answers with response.
func NewMockLLMService(response string) *MockLLMService {
	return &MockLLMService{Response: response}
}

func (m *MockLLMService) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.closed {
		return "", errors.New("mock llm closed")
	}
	return m.Response, nil
}

func (m *MockLLMService) Model() string {
	return "mock-llm-model"
}

func (m *MockLLMService) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockLLMService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// CallCount returns how many times Generate was invoked.
func (m *MockLLMService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
