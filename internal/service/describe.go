package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/llm"
	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/pkg/logger"
	"github.com/swapcycle/exchange-platform/pkg/metrics"
)

// ErrNoProvider is returned when description generation is requested but no
// LLM credential was configured.
var ErrNoProvider = errors.New("no description provider configured")

const describeSystemPrompt = `You write listing descriptions for a second-hand exchange marketplace. ` +
	`Write in the first person, as the owner describing their own object. ` +
	`Plain prose only: no markdown, no lists, no headings, no emojis. ` +
	`Keep it warm and honest, around 5 to 7 lines.`

// DescribeService proxies description generation to an LLM provider. The
// provider may be nil when no credential is configured; calls then fail
// with ErrNoProvider instead of panicking.
type DescribeService struct {
	client  llm.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// NewDescribeService creates a new describe service. model may be empty to
// use the provider's default.
func NewDescribeService(client llm.Client, model string, timeout time.Duration, log *logger.Logger) *DescribeService {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &DescribeService{client: client, model: model, timeout: timeout, logger: log}
}

// Generate produces a listing description for the given title, theme and
// condition. All three fields are required. The generated text is returned
// trimmed; an empty generation is an error, never an empty success.
func (s *DescribeService) Generate(ctx context.Context, req *model.DescribeRequest) (string, error) {
	if s.client == nil {
		return "", ErrNoProvider
	}
	if strings.TrimSpace(req.Title) == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.Theme) == "" {
		return "", fmt.Errorf("%w: theme is required", ErrValidation)
	}
	if strings.TrimSpace(req.Condition) == "" {
		return "", fmt.Errorf("%w: condition is required", ErrValidation)
	}

	prompt := fmt.Sprintf(
		"Product: %s\nCategory: %s\nCondition: %s\n\nWrite the listing description.",
		req.Title, req.Theme, req.Condition,
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.Complete(ctx, &llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: describeSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		metrics.RecordDescribe(s.client.Name(), "error", time.Since(start).Seconds())
		s.logger.Error("description generation failed",
			zap.String("provider", s.client.Name()),
			zap.Error(err),
		)
		return "", fmt.Errorf("generate description: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		metrics.RecordDescribe(s.client.Name(), "empty", time.Since(start).Seconds())
		return "", errors.New("generate description: provider returned no text")
	}

	metrics.RecordDescribe(s.client.Name(), "ok", time.Since(start).Seconds())
	s.logger.Info("description generated",
		zap.String("provider", s.client.Name()),
		zap.String("model", resp.Model),
		zap.Int("tokens_in", resp.TokensIn),
		zap.Int("tokens_out", resp.TokensOut),
		zap.Int64("latency_ms", resp.LatencyMs),
	)
	return text, nil
}
