package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend translates with an OpenAI chat completion model
type OpenAIBackend struct {
	client *openai.Client
	model  string
	cfg    Config
}

// NewOpenAIBackend creates a backend for the given chat model
func NewOpenAIBackend(model string, cfg Config) *OpenAIBackend {
	if model == "" {
		model = openai.GPT4oMini
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		cfg:    cfg,
	}
}

// Translate asks the model for a plain translation of text
func (b *OpenAIBackend) Translate(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: translationPrompt(b.cfg, text),
			},
		},
		Temperature: 0.3,
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// Close is a no-op
func (b *OpenAIBackend) Close() error {
	return nil
}
