// Package llm provides LLM client interfaces and implementations for the
// description generation proxy.
package llm

import (
	"context"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for the LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content   string
	Model     string
	TokensIn  int
	TokensOut int
	LatencyMs int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string

	// DefaultModel returns the model used when the request names none.
	DefaultModel() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	default:
		return NewOpenAIClient(apiKey)
	}
}
