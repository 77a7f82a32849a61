package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
)

// Ensure ChatLLM implements LLMService
var _ driven.LLMService = (*ChatLLM)(nil)

// Default endpoints and models per provider.
const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	groqModel     = "llama3-8b-8192"
	openAIBaseURL = "https://api.openai.com/v1"
	openAIModel   = "gpt-4o-mini"
)

// ChatLLM implements LLMService against an OpenAI-compatible chat
// completions API. Groq and OpenAI both speak this protocol; only the
// base URL and default model differ.
type ChatLLM struct {
	apiKey  string
	model   string
	baseURL string
	limiter *rate.Limiter
	client  *http.Client
}

// ChatLLMConfig holds construction parameters for a ChatLLM.
type ChatLLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	// MaxRequestsPerMinute throttles outbound calls. Zero disables
	// client-side rate limiting.
	MaxRequestsPerMinute int
}

// NewGroqLLM creates an LLM service backed by Groq's chat completions API.
func NewGroqLLM(cfg ChatLLMConfig) (driven.LLMService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = groqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = groqModel
	}
	return newChatLLM(cfg)
}

// NewOpenAILLM creates an LLM service backed by OpenAI's chat completions API.
func NewOpenAILLM(cfg ChatLLMConfig) (driven.LLMService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openAIModel
	}
	return newChatLLM(cfg)
}

func newChatLLM(cfg ChatLLMConfig) (driven.LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	var limiter *rate.Limiter
	if cfg.MaxRequestsPerMinute > 0 {
		perRequest := time.Minute / time.Duration(cfg.MaxRequestsPerMinute)
		limiter = rate.NewLimiter(rate.Every(perRequest), 1)
	}

	return &ChatLLM{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: limiter,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// chatRequest is the request body for the chat completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt as a single user message and returns the
// model's reply with surrounding whitespace stripped.
func (c *ChatLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	}

	resp, err := c.doRequest(ctx, reqBody)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Model returns the model name being used
func (c *ChatLLM) Model() string {
	return c.model
}

// Ping verifies the service is reachable with a minimal completion request.
func (c *ChatLLM) Ping(ctx context.Context) error {
	_, err := c.Generate(ctx, "ping")
	return err
}

// Close releases resources held by the LLM service
func (c *ChatLLM) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// doRequest makes a request to the chat completions API
func (c *ChatLLM) doRequest(ctx context.Context, reqBody chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("chat API error: %s (type: %s, code: %s)",
			chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat API returned status %d", resp.StatusCode)
	}

	return &chatResp, nil
}
