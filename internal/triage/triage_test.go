package triage

import (
	"context"
	"errors"
	"testing"

	"business-verification-portal/pkg/logging"

	"github.com/sashabaranov/go-openai"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.response}},
		},
		Usage: openai.Usage{PromptTokens: 100, CompletionTokens: 50},
	}, nil
}

func TestTriageReport_StructuredResponse(t *testing.T) {
	stub := &stubClient{response: `{"summary": "Duplicate registration suspected.", "priority": 4}`}
	tr := NewWithClient(stub, Options{}, logging.NewNop())

	result, err := tr.TriageReport(context.Background(), "ABC Enterprises", "Same name registered twice")
	if err != nil {
		t.Fatalf("TriageReport: %v", err)
	}
	if result.Summary != "Duplicate registration suspected." || result.Priority != 4 {
		t.Errorf("result = %+v", result)
	}

	tokens, requests, cost, _ := tr.GetCostStats()
	if tokens != 150 || requests != 1 || cost <= 0 {
		t.Errorf("cost stats = %d tokens %d requests %v USD", tokens, requests, cost)
	}
}

func TestTriageReport_CachesIdenticalReports(t *testing.T) {
	stub := &stubClient{response: `{"summary": "ok", "priority": 2}`}
	tr := NewWithClient(stub, Options{}, logging.NewNop())

	ctx := context.Background()
	if _, err := tr.TriageReport(ctx, "Biz", "details"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.TriageReport(ctx, "Biz", "details"); err != nil {
		t.Fatal(err)
	}
	if stub.calls != 1 {
		t.Fatalf("API called %d times, want 1 (cache hit expected)", stub.calls)
	}

	if _, err := tr.TriageReport(ctx, "Biz", "other details"); err != nil {
		t.Fatal(err)
	}
	if stub.calls != 2 {
		t.Fatalf("API called %d times, want 2 for distinct report", stub.calls)
	}
}

func TestTriageReport_FallbackParsing(t *testing.T) {
	stub := &stubClient{response: "Here is my assessment. priority: 7. Looks serious."}
	tr := NewWithClient(stub, Options{}, logging.NewNop())

	result, err := tr.TriageReport(context.Background(), "Biz", "details")
	if err != nil {
		t.Fatalf("TriageReport: %v", err)
	}
	if result.Priority != 5 {
		t.Errorf("priority = %d, want clamp to 5", result.Priority)
	}
	if result.Summary == "" {
		t.Error("fallback should keep raw text as summary")
	}
}

func TestTriageReport_APIErrorPropagates(t *testing.T) {
	stub := &stubClient{err: errors.New("rate limited")}
	tr := NewWithClient(stub, Options{}, logging.NewNop())

	if _, err := tr.TriageReport(context.Background(), "Biz", "details"); err == nil {
		t.Fatal("expected error from failing API")
	}
}

func TestClampPriority(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {3, 3}, {5, 5}, {9, 5}, {-2, 1},
	}
	for _, tt := range tests {
		if got := clampPriority(tt.in); got != tt.want {
			t.Fatalf("clampPriority(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
