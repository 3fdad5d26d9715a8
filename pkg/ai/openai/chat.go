package openai

import (
	"context"
	"errors"
	"time"

	"vanshavali/pkg/ai"
	"vanshavali/pkg/prompt"

	"github.com/openai/openai-go/v3"
)

// GenerateCompletion sends a single-turn prompt to the chat model and
// returns the generated completion as plain text.
func (c *CompletionOpenAIClient) GenerateCompletion(
	ctx context.Context,
	promptText string,
	opts ...ai.GenerateOption,
) (string, error) {
	client := c.ChatClient
	if client == nil {
		return "", errors.New("openai: client not configured, missing API key")
	}

	options := ai.GenerateOptions{
		Model:       c.model,
		Temperature: prompt.DefaultTemperature,
		MaxTokens:   prompt.DefaultMaxTokens,
	}
	for _, o := range opts {
		o(&options)
	}

	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	msgs = append(msgs, openai.UserMessage(promptText))

	body := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(options.Model),
		Messages:            msgs,
		Temperature:         openai.Float(prompt.ClampTemperature(options.Temperature)),
		MaxCompletionTokens: openai.Int(int64(prompt.ClampMaxTokens(options.MaxTokens))),
	}

	start := time.Now()
	response, err := client.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	})

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", ai.ErrNoContent
	}
	return response.Choices[0].Message.Content, nil
}
