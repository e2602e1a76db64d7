package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiBackend translates with a Google Gemini model
type GeminiBackend struct {
	client *genai.Client
	model  string
	cfg    Config
}

// NewGeminiBackend creates a backend for the given Gemini model
func NewGeminiBackend(ctx context.Context, model string, cfg Config) (*GeminiBackend, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model, cfg: cfg}, nil
}

// Translate asks the model for a plain translation of text
func (b *GeminiBackend) Translate(ctx context.Context, text string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(translationPrompt(b.cfg, text)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.3)})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return translation, nil
}

// Name returns the backend name
func (b *GeminiBackend) Name() string {
	return "gemini"
}

// Close is a no-op
func (b *GeminiBackend) Close() error {
	return nil
}
