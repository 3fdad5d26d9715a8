// Package ai defines the boundary to the opaque text-completion service
// that approximates the local resolver. A client receives a single
// prompt string plus sampling parameters and returns plain text or
// fails; everything else about the service is outside this module.
package ai

import (
	"context"
	"errors"
)

// ErrNoContent is returned when the completion service answered but
// produced nothing usable.
var ErrNoContent = errors.New("ai: completion returned no content")

// GenerateOptions holds configuration for a completion request.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-1.0)
	MaxTokens     int      // Maximum completion tokens (500-4000)
}

// GenerateOption is a functional option for configuring completion requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling
// temperature. Lower values make outputs more deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens returns a GenerateOption that caps the completion length.
func WithMaxTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = n
	}
}

// ModelMetrics contains accumulated performance metrics from completion calls.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// CompletionClient is the interface to the completion service. Given a
// prompt and sampling parameters it returns the generated text; the
// caller parses the text, tolerating deviation from the expected layout.
type CompletionClient interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)
	GetMetrics() ModelMetrics
	ResetMetrics()
}
