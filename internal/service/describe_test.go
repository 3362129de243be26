package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/swapcycle/exchange-platform/internal/llm"
	"github.com/swapcycle/exchange-platform/internal/model"
)

// fakeLLM records the last request and plays back a canned response.
type fakeLLM struct {
	lastReq *llm.CompletionRequest
	content string
	err     error
}

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: "fake-model"}, nil
}

func (f *fakeLLM) Name() string         { return "fake" }
func (f *fakeLLM) DefaultModel() string { return "fake-model" }

func newDescribeService(fake *fakeLLM) *DescribeService {
	return NewDescribeService(fake, "", time.Second, testLogger())
}

func TestDescribeInterpolatesFields(t *testing.T) {
	fake := &fakeLLM{content: "A lovely camera I have cared for."}
	svc := newDescribeService(fake)

	desc, err := svc.Generate(context.Background(), &model.DescribeRequest{
		Title:     "Film camera",
		Theme:     "Electronics & Gadgets",
		Condition: "good",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if desc != "A lovely camera I have cared for." {
		t.Errorf("description = %q", desc)
	}

	if fake.lastReq == nil {
		t.Fatal("provider was not called")
	}
	if fake.lastReq.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", fake.lastReq.Temperature)
	}
	if len(fake.lastReq.Messages) != 2 || fake.lastReq.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", fake.lastReq.Messages)
	}
	user := fake.lastReq.Messages[1].Content
	for _, want := range []string{"Film camera", "Electronics & Gadgets", "good"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q: %q", want, user)
		}
	}
}

func TestDescribeTrimsOutput(t *testing.T) {
	fake := &fakeLLM{content: "\n  A chair with a story.  \n"}
	svc := newDescribeService(fake)

	desc, err := svc.Generate(context.Background(), &model.DescribeRequest{
		Title: "Chair", Theme: "Furniture & Decor", Condition: "fair",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if desc != "A chair with a story." {
		t.Errorf("description = %q", desc)
	}
}

func TestDescribeEmptyOutputIsError(t *testing.T) {
	fake := &fakeLLM{content: "   \n"}
	svc := newDescribeService(fake)

	if _, err := svc.Generate(context.Background(), &model.DescribeRequest{
		Title: "Chair", Theme: "Furniture & Decor", Condition: "fair",
	}); err == nil {
		t.Error("want error on empty generation")
	}
}

func TestDescribeValidation(t *testing.T) {
	svc := newDescribeService(&fakeLLM{content: "x"})

	cases := []struct {
		name string
		req  *model.DescribeRequest
	}{
		{"missing title", &model.DescribeRequest{Theme: "t", Condition: "good"}},
		{"missing theme", &model.DescribeRequest{Title: "t", Condition: "good"}},
		{"missing condition", &model.DescribeRequest{Title: "t", Theme: "t"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Generate(context.Background(), tc.req); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestDescribeProviderError(t *testing.T) {
	boom := errors.New("upstream unavailable")
	svc := newDescribeService(&fakeLLM{err: boom})

	if _, err := svc.Generate(context.Background(), &model.DescribeRequest{
		Title: "Chair", Theme: "Furniture & Decor", Condition: "fair",
	}); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped provider error", err)
	}
}

func TestDescribeWithoutProvider(t *testing.T) {
	svc := NewDescribeService(nil, "", time.Second, testLogger())

	if _, err := svc.Generate(context.Background(), &model.DescribeRequest{
		Title: "Chair", Theme: "Furniture & Decor", Condition: "fair",
	}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("got %v, want ErrNoProvider", err)
	}
}
