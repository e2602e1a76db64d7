package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultModel is the Japanese to English MarianMT model used when no model
// is given
const DefaultModel = "Helsinki-NLP/opus-mt-ja-en"

// Backend providers selectable through the model identifier prefix
const (
	ProviderHuggingFace = "hf"
	ProviderOpenAI      = "openai"
	ProviderGemini      = "gemini"
)

// Backend translates a single text
type Backend interface {
	// Translate returns the translation of text
	Translate(ctx context.Context, text string) (string, error)

	// Name returns the backend name
	Name() string

	// Close releases the resources held by the backend
	Close() error
}

// Config holds the settings shared by all backends
type Config struct {
	SourceLang string // Language name used in LLM prompts, e.g. "Japanese"
	TargetLang string // Language name used in LLM prompts, e.g. "English"

	FallbackModel string // Model tried when the primary model fails

	OpenAIKey     string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiBaseURL string
	HFToken       string
	HFEndpoint    string // Base URL of the Hugging Face inference API

	Timeout   time.Duration // Per request timeout
	RateLimit float64       // Requests per second, 0 disables limiting

	Logger *slog.Logger
}

// DefaultConfig returns the default translation configuration
func DefaultConfig() Config {
	return Config{
		SourceLang: "Japanese",
		TargetLang: "English",
		HFEndpoint: DefaultHFEndpoint,
		Timeout:    time.Minute,
	}
}

// ModelRef is a parsed model identifier
type ModelRef struct {
	Provider string
	Name     string
}

func (m ModelRef) String() string {
	return m.Provider + ":" + m.Name
}

// ParseModel splits a model identifier into provider and model name.
// Identifiers without a known prefix are Hugging Face model ids.
func ParseModel(model string) (ModelRef, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}

	provider, name, found := strings.Cut(model, ":")
	if !found {
		return ModelRef{Provider: ProviderHuggingFace, Name: model}, nil
	}

	switch provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderGemini:
	default:
		return ModelRef{}, fmt.Errorf("unknown translation provider: %s", provider)
	}
	if name == "" {
		return ModelRef{}, fmt.Errorf("model name missing in %q", model)
	}
	return ModelRef{Provider: provider, Name: name}, nil
}

// NewBackend creates the backend selected by model, wrapped in a
// ResilientBackend
func NewBackend(ctx context.Context, model string, cfg Config) (Backend, error) {
	ref, err := ParseModel(model)
	if err != nil {
		return nil, err
	}

	var backend Backend
	switch ref.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		backend = NewOpenAIBackend(ref.Name, cfg)

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		backend, err = NewGeminiBackend(ctx, ref.Name, cfg)
		if err != nil {
			return nil, err
		}

	default:
		backend = NewHuggingFaceBackend(ref.Name, cfg)
	}

	return NewResilientBackend(backend, ResilienceConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Logger:    cfg.Logger,
	}), nil
}

// translationPrompt builds the instruction sent to LLM backends
func translationPrompt(cfg Config, text string) string {
	source, target := cfg.SourceLang, cfg.TargetLang
	if source == "" {
		source = "Japanese"
	}
	if target == "" {
		target = "English"
	}
	return fmt.Sprintf("Translate the following %s manga dialogue to %s. "+
		"Respond with only the %s translation, nothing else.\n\n%s", source, target, target, text)
}
