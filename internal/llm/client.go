// Package llm wraps the Groq text-generation API behind a small
// completion interface. Groq speaks the OpenAI chat protocol, so the
// official OpenAI Go client is pointed at Groq's base URL.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	client openai.Client
	model  string
}

func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model: model,
	}
}

// Complete sends a single system+user exchange and returns the raw
// assistant text. Callers parse the text themselves; the documented JSON
// shapes are expected but not guaranteed.
func (c *Client) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	return resp.Choices[0].Message.Content, nil
}
