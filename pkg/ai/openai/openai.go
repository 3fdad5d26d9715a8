// Package openai implements ai.CompletionClient against any
// OpenAI-compatible chat completions endpoint, which covers the hosted
// services the analyzer is pointed at (Together, OpenAI, vLLM, ...).
package openai

import (
	"math"
	"sync"

	"vanshavali/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// CompletionOpenAIClient is an ai.CompletionClient backed by an
// OpenAI-compatible chat API. Create it with NewCompletionOpenAIClient.
type CompletionOpenAIClient struct {
	model   string
	baseURL string
	apiKey  string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewCompletionOpenAIClientParams defines the configuration for creating
// a new CompletionOpenAIClient. Model is the default model used when a
// request does not override it; BaseURL may be empty for the official
// OpenAI endpoint.
type NewCompletionOpenAIClientParams struct {
	Model   string
	BaseURL string
	APIKey  string
}

// NewCompletionOpenAIClient creates a completion client for the given
// endpoint. A missing API key yields a client whose calls fail, matching
// how a misconfigured boundary should surface: at request time, not at
// construction.
func NewCompletionOpenAIClient(
	params NewCompletionOpenAIClientParams,
) *CompletionOpenAIClient {
	return &CompletionOpenAIClient{
		model:      params.Model,
		baseURL:    params.BaseURL,
		apiKey:     params.APIKey,
		ChatClient: newClient(params.BaseURL, params.APIKey),
	}
}

func newClient(baseURL string, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)
	return &client
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *CompletionOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics
// since the last reset.
func (c *CompletionOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *CompletionOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs

	if c.metrics.DurationMs > 0 {
		tokensPerSecond := (float64(c.metrics.TotalTokens) * 1000.0) / float64(c.metrics.DurationMs)
		c.metrics.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}
