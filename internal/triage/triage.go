// Package triage summarizes incoming fraud reports with OpenAI so officers
// can work the queue by priority instead of arrival order. Triage is best
// effort: any failure leaves the report untriaged rather than unfiled.
package triage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"business-verification-portal/internal/constants"
	"business-verification-portal/pkg/circuit"
	"business-verification-portal/pkg/logging"

	"github.com/sashabaranov/go-openai"
)

// Result is the triage outcome attached to a stored report.
type Result struct {
	Summary  string `json:"summary"`
	Priority int    `json:"priority"` // 1 routine .. 5 urgent
}

// CostTracker tracks OpenAI API usage and costs
type CostTracker struct {
	mu               sync.RWMutex
	totalTokens      int
	totalRequests    int
	estimatedCostUSD float64
	startTime        time.Time
}

func (c *CostTracker) AddUsage(promptTokens, completionTokens int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalTokens += promptTokens + completionTokens
	c.totalRequests++

	// gpt-4o-mini pricing: $0.15/1M prompt tokens, $0.60/1M completion tokens
	promptCost := float64(promptTokens) * 0.15 / 1_000_000
	completionCost := float64(completionTokens) * 0.60 / 1_000_000
	c.estimatedCostUSD += promptCost + completionCost
}

func (c *CostTracker) GetStats() (totalTokens, totalRequests int, estimatedCostUSD float64, duration time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalTokens, c.totalRequests, c.estimatedCostUSD, time.Since(c.startTime)
}

// chatClient is the slice of the OpenAI client the triager uses.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options tune the triager.
type Options struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Triager drives report triage through the chat API behind a circuit
// breaker. Identical report texts reuse the cached result.
type Triager struct {
	client      chatClient
	opts        Options
	costTracker *CostTracker
	breaker     *circuit.Breaker
	log         *logging.Logger

	mu    sync.RWMutex
	cache map[string]Result
}

func New(apiKey string, opts Options, log *logging.Logger) *Triager {
	return NewWithClient(openai.NewClient(apiKey), opts, log)
}

// NewWithClient exists for tests and custom client setups.
func NewWithClient(client chatClient, opts Options, log *logging.Logger) *Triager {
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.TriageDefaultAPITimeout
	}
	return &Triager{
		client:      client,
		opts:        opts,
		costTracker: &CostTracker{startTime: time.Now()},
		log:         log.WithComponent("triage"),
		cache:       make(map[string]Result),
		breaker: circuit.New(circuit.Config{
			Name:              "openai_triage",
			OperationTimeout:  opts.Timeout,
			OpenFor:           30 * time.Second,
			MaxConsecFailures: 3,
			WindowSize:        20,
			FailureRate:       constants.CircuitFailureRate,
		}, log),
	}
}

func (t *Triager) GetCostStats() (totalTokens, totalRequests int, estimatedCostUSD float64, duration time.Duration) {
	return t.costTracker.GetStats()
}

// TriageReport summarizes one report and assigns a 1-5 priority.
func (t *Triager) TriageReport(ctx context.Context, businessName, details string) (*Result, error) {
	key := cacheKey(businessName, details)
	t.mu.RLock()
	cached, ok := t.cache[key]
	t.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	var result *Result
	err := t.breaker.Do(ctx, func(ctx context.Context) error {
		resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: t.opts.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildReportPrompt(businessName, details),
				},
			},
			Temperature: 0.1,
			MaxTokens:   t.opts.MaxTokens,
		})
		if err != nil {
			return fmt.Errorf("OpenAI API call failed: %w", err)
		}

		t.costTracker.AddUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

		if len(resp.Choices) == 0 {
			return fmt.Errorf("OpenAI returned no choices")
		}
		r, err := parseStructuredResponse(resp.Choices[0].Message.Content)
		if err != nil {
			r = parseResponseFallback(resp.Choices[0].Message.Content)
		}
		result = &r
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.cache[key] = *result
	t.mu.Unlock()
	return result, nil
}

const systemPrompt = `You are a triage assistant for a government business registry fraud desk.
Given a fraud report, respond with JSON only:
{"summary": "<one or two sentence neutral summary>", "priority": <1-5>}
Priority guide: 1 routine complaint, 3 likely policy violation, 5 active fraud or public safety risk.`

func buildReportPrompt(businessName, details string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s\n", businessName)
	fmt.Fprintf(&b, "Report:\n%s\n", details)
	return b.String()
}

func parseStructuredResponse(response string) (Result, error) {
	var parsed Result
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return Result{}, fmt.Errorf("JSON parsing failed: %w", err)
	}
	parsed.Priority = clampPriority(parsed.Priority)
	if parsed.Summary == "" {
		return Result{}, fmt.Errorf("empty summary in response")
	}
	return parsed, nil
}

// parseResponseFallback extracts a priority via regex when the model wraps
// its JSON in prose. The raw text becomes the summary.
func parseResponseFallback(response string) Result {
	priorityRegex := regexp.MustCompile(`"?priority"?:\s*(\d+)`)
	priority := constants.TriagePriorityMin
	if matches := priorityRegex.FindStringSubmatch(response); len(matches) > 1 {
		if p, err := strconv.Atoi(matches[1]); err == nil {
			priority = clampPriority(p)
		}
	}
	summary := strings.TrimSpace(response)
	if len(summary) > 500 {
		summary = summary[:500]
	}
	return Result{Summary: summary, Priority: priority}
}

func clampPriority(p int) int {
	if p < constants.TriagePriorityMin {
		return constants.TriagePriorityMin
	}
	if p > constants.TriagePriorityMax {
		return constants.TriagePriorityMax
	}
	return p
}

func cacheKey(businessName, details string) string {
	sum := md5.Sum([]byte(businessName + "\x00" + details))
	return hex.EncodeToString(sum[:])
}
