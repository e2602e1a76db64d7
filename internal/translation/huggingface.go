package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultHFEndpoint is the base URL of the hosted Hugging Face inference API
const DefaultHFEndpoint = "https://router.huggingface.co/hf-inference/models"

// HuggingFaceBackend calls a translation pipeline on the Hugging Face
// inference API
type HuggingFaceBackend struct {
	model    string
	endpoint string
	token    string
	client   *http.Client
}

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfTranslation struct {
	TranslationText string `json:"translation_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHuggingFaceBackend creates a backend for the given model id
func NewHuggingFaceBackend(model string, cfg Config) *HuggingFaceBackend {
	endpoint := cfg.HFEndpoint
	if endpoint == "" {
		endpoint = DefaultHFEndpoint
	}
	return &HuggingFaceBackend{
		model:    model,
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    cfg.HFToken,
		client:   &http.Client{},
	}
}

// Translate posts text to the model and returns the translation_text field
// of the first result
func (b *HuggingFaceBackend) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(hfRequest{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := b.endpoint + "/" + b.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Hugging Face API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("Hugging Face API error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("Hugging Face request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var results []hfTranslation
	if err := json.Unmarshal(respBody, &results); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(results[0].TranslationText), nil
}

// Name returns the backend name
func (b *HuggingFaceBackend) Name() string {
	return "huggingface"
}

// Close releases idle connections
func (b *HuggingFaceBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}
