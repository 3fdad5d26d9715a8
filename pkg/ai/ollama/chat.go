package ollama

import (
	"context"

	"vanshavali/pkg/ai"
	"vanshavali/pkg/prompt"

	"github.com/ollama/ollama/api"
)

// GenerateCompletion sends a single-turn prompt and returns the
// assistant text. The context window is widened when the prompt alone
// exceeds Ollama's default, so long example sections are not truncated.
func (c *CompletionOllamaClient) GenerateCompletion(
	ctx context.Context,
	promptText string,
	opts ...ai.GenerateOption,
) (string, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	options := ai.GenerateOptions{
		Model:       c.model,
		Temperature: prompt.DefaultTemperature,
		MaxTokens:   prompt.DefaultMaxTokens,
	}
	for _, o := range opts {
		o(&options)
	}

	maxTokens := prompt.ClampMaxTokens(options.MaxTokens)

	stream := false
	req := &api.ChatRequest{
		Model:  options.Model,
		Stream: &stream,
		Options: map[string]any{
			"temperature": prompt.ClampTemperature(options.Temperature),
			"num_predict": maxTokens,
		},
	}
	for _, sp := range options.SystemPrompts {
		req.Messages = append(req.Messages, api.Message{Role: "system", Content: sp})
	}
	req.Messages = append(req.Messages, api.Message{Role: "user", Content: promptText})

	promptTokens, err := prompt.CountTokens(promptText)
	if err != nil {
		return "", err
	}
	if promptTokens+maxTokens > 4096 {
		req.Options["num_ctx"] = promptTokens + maxTokens
	}

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", err
	}

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	if final.Message.Content == "" {
		return "", ai.ErrNoContent
	}
	return final.Message.Content, nil
}
