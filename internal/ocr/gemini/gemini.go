// Package gemini provides an OCR engine backed by a Google Gemini
// multimodal model.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"codeberg.org/snonux/mangatl/internal"
	"codeberg.org/snonux/mangatl/internal/ocr"
)

// Name is the registry name of this engine
const Name = "gemini"

const (
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = time.Minute
)

func init() {
	ocr.Register(Name, func(ctx context.Context, cfg ocr.Config) (ocr.Engine, error) {
		return NewEngine(ctx, cfg)
	})
}

// Engine transcribes images with GenerateContent
type Engine struct {
	client  *genai.Client
	model   string
	prompt  string
	timeout time.Duration
}

// NewEngine creates a Gemini engine using the Gemini Developer API
func NewEngine(ctx context.Context, cfg ocr.Config) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Engine{
		client:  client,
		model:   model,
		prompt:  cfg.PromptOrDefault(),
		timeout: timeout,
	}, nil
}

// Recognize sends the image inline together with the OCR prompt
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromText(e.prompt),
		genai.NewPartFromBytes(imageData, internal.MIMEType(imagePath)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

// Name returns the engine name
func (e *Engine) Name() string {
	return Name
}

// Close is a no-op; the genai client holds no closable resources
func (e *Engine) Close() error {
	return nil
}
