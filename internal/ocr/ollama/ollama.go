// Package ollama provides an OCR engine that asks a local Ollama vision
// model to transcribe the text of a page.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"codeberg.org/snonux/mangatl/internal/ocr"
)

// Name is the registry name of this engine
const Name = "ollama"

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2-vision"
	defaultTimeout = 2 * time.Minute
)

func init() {
	ocr.Register(Name, func(_ context.Context, cfg ocr.Config) (ocr.Engine, error) {
		return NewEngine(cfg), nil
	})
}

// Engine sends images to the Ollama generate endpoint
type Engine struct {
	baseURL string
	model   string
	prompt  string
	client  *http.Client
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Images  []string       `json:"images"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewEngine creates an Ollama engine, filling in defaults for empty fields
func NewEngine(cfg ocr.Config) *Engine {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
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
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		prompt:  cfg.PromptOrDefault(),
		client:  &http.Client{Timeout: timeout},
	}
}

// Recognize transcribes the image at imagePath
func (o *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	request := generateRequest{
		Model:   o.model,
		Prompt:  o.prompt,
		Images:  []string{base64.StdEncoding.EncodeToString(imageData)},
		Stream:  false,
		Options: map[string]any{"temperature": 0},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var generated generateResponse
	if err := json.Unmarshal(body, &generated); err != nil {
		return "", fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if generated.Error != "" {
			return "", fmt.Errorf("ollama request failed with status %d: %s", resp.StatusCode, generated.Error)
		}
		return "", fmt.Errorf("ollama request failed with status: %d", resp.StatusCode)
	}

	return strings.TrimSpace(generated.Response), nil
}

// Name returns the engine name
func (o *Engine) Name() string {
	return Name
}

// Close is a no-op; the HTTP client holds no per-engine resources
func (o *Engine) Close() error {
	return nil
}
