// Package openai provides an OCR engine backed by an OpenAI vision model
// (or any OpenAI-compatible endpoint).
package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/mangatl/internal"
	"codeberg.org/snonux/mangatl/internal/ocr"
)

// Name is the registry name of this engine
const Name = "openai"

const defaultTimeout = time.Minute

func init() {
	ocr.Register(Name, func(_ context.Context, cfg ocr.Config) (ocr.Engine, error) {
		return NewEngine(cfg)
	})
}

// Engine transcribes images through the chat completions API
type Engine struct {
	client  *openai.Client
	model   string
	prompt  string
	timeout time.Duration
}

// NewEngine creates an OpenAI vision engine
func NewEngine(cfg ocr.Config) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Engine{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		prompt:  cfg.PromptOrDefault(),
		timeout: timeout,
	}, nil
}

// Recognize sends the image as a data URL and returns the transcription
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", internal.MIMEType(imagePath), base64.StdEncoding.EncodeToString(imageData))

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: e.prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		Temperature: 0,
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no transcription returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the engine name
func (e *Engine) Name() string {
	return Name
}

// Close is a no-op for the HTTP based client
func (e *Engine) Close() error {
	return nil
}
