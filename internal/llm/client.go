// Package llm wraps an OpenAI-compatible chat completion endpoint for
// explanation generation. The wrapper is a plain text-in/text-out
// collaborator; graceful degradation on failure is the caller's
// concern.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Config configures a Client. BaseURL is optional and supports
// OpenAI-compatible providers.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client generates text via chat completions.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a Client. The API key is required; everything else
// defaults.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: API key required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Model returns the configured model id.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one user prompt and returns the completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
