package llm

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the Anthropic LLM client.
type AnthropicClient struct {
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// DefaultModel returns the model used when the request names none.
func (c *AnthropicClient) DefaultModel() string {
	return "claude-3-5-haiku-20241022"
}

// Complete sends a completion request. Messages with the system role are
// lifted into the Anthropic system parameter.
func (c *AnthropicClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.DefaultModel()
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			system = append(system, anthropic.TextBlockParam{
				Type: anthropic.F(anthropic.TextBlockParamTypeText),
				Text: anthropic.F(msg.Content),
			})
			continue
		}

		messages = append(messages, anthropic.MessageParam{
			Role: anthropic.F(anthropic.MessageParamRole(msg.Role)),
			Content: anthropic.F([]anthropic.ContentBlockParamUnion{
				anthropic.TextBlockParam{
					Type: anthropic.F(anthropic.TextBlockParamTypeText),
					Text: anthropic.F(msg.Content),
				},
			}),
		})
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.F(model),
		MaxTokens: anthropic.F(int64(maxTokens)),
		Messages:  anthropic.F(messages),
	}
	if len(system) > 0 {
		params.System = anthropic.F(system)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content += block.Text
		}
	}

	return &CompletionResponse{
		Content:   content,
		Model:     resp.Model,
		TokensIn:  int(resp.Usage.InputTokens),
		TokensOut: int(resp.Usage.OutputTokens),
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
