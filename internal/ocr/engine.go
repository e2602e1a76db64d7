package ocr

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultPrompt instructs vision-model engines to act as a plain OCR pass
const DefaultPrompt = `You are an OCR engine for manga pages.
Transcribe every piece of Japanese text visible in the image exactly as written,
in reading order (top to bottom, right to left for vertical text).
Do not translate, explain or add anything. Output only the transcribed text.
If there is no text, output nothing.`

// Engine recognizes the text on a single image
type Engine interface {
	// Recognize returns the text found in the image at imagePath
	Recognize(ctx context.Context, imagePath string) (string, error)

	// Name returns the engine name
	Name() string

	// Close releases the resources held by the engine
	Close() error
}

// Config holds the settings shared by all engine implementations. Engines
// ignore the fields they have no use for.
type Config struct {
	Languages []string          // Tesseract traineddata names, e.g. "jpn_vert"
	Model     string            // Vision model name for LLM-backed engines
	BaseURL   string            // API endpoint override
	APIKey    string            // API key for hosted engines
	Prompt    string            // Instruction sent to vision models
	Variables map[string]string // Engine-specific knobs, e.g. Tesseract variables
	Timeout   time.Duration     // Per-image request timeout for remote engines
}

// PromptOrDefault returns the configured prompt or DefaultPrompt
func (c Config) PromptOrDefault() string {
	if c.Prompt == "" {
		return DefaultPrompt
	}
	return c.Prompt
}

// Factory constructs an engine from configuration
type Factory func(ctx context.Context, cfg Config) (Engine, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an engine available under name. Registering the same name
// twice replaces the earlier factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewEngine creates the engine registered under name
func NewEngine(ctx context.Context, name string, cfg Config) (Engine, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown OCR engine: %s (available: %v)", name, Engines())
	}
	return factory(ctx, cfg)
}

// Engines returns the sorted names of all registered engines
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
