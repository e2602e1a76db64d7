package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/snonux/mangatl/internal"
	"codeberg.org/snonux/mangatl/internal/logger"
)

// OpenFunc creates the backend for a model identifier
type OpenFunc func(ctx context.Context, model string, cfg Config) (Backend, error)

// Option configures a Translator
type Option func(*Translator)

// WithOpenFunc replaces the function used to create backends
func WithOpenFunc(open OpenFunc) Option {
	return func(t *Translator) {
		t.open = open
	}
}

// Translator translates text sequences with the backend bound to its
// model. The backend is created on first use and held until Close.
type Translator struct {
	model   string
	cfg     Config
	open    OpenFunc
	backend Backend
	logger  *slog.Logger
}

// New creates a translator for model. An empty model selects DefaultModel.
func New(model string, cfg Config, opts ...Option) *Translator {
	if model == "" {
		model = DefaultModel
	}
	t := &Translator{
		model:  model,
		cfg:    cfg,
		open:   NewBackend,
		logger: logger.OrDefault(cfg.Logger),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Model returns the bound model identifier
func (t *Translator) Model() string {
	return t.model
}

// Translate translates texts. In concat mode the texts are joined without
// separator and translated once, yielding a single element (or none for
// empty input). Otherwise every text is translated on its own and the
// result has the same length and order as texts. Empty texts translate to
// empty strings without calling the backend. Cancellation of ctx is
// checked before each text and returned as ctx.Err().
func (t *Translator) Translate(ctx context.Context, texts []string, concat bool) ([]string, error) {
	if concat {
		if len(texts) == 0 {
			return []string{}, nil
		}
		translation, err := t.translateOne(ctx, -1, strings.Join(texts, ""))
		if err != nil {
			return nil, err
		}
		return []string{translation}, nil
	}

	translations := make([]string, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		translation, err := t.translateOne(ctx, i, text)
		if err != nil {
			return nil, err
		}
		translations = append(translations, translation)
	}
	return translations, nil
}

func (t *Translator) translateOne(ctx context.Context, index int, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	backend, err := t.acquire(ctx)
	if err != nil {
		return "", &internal.CapabilityError{Stage: internal.StageTranslation, Index: -1, Err: err}
	}

	translation, err := backend.Translate(ctx, text)
	if err != nil {
		return "", &internal.CapabilityError{
			Stage:    internal.StageTranslation,
			Provider: backend.Name(),
			Item:     excerpt(text, 40),
			Index:    index,
			Err:      err,
		}
	}

	t.logger.Debug("translated text", "index", index, "source", excerpt(text, 40), "translation", excerpt(translation, 40))
	return translation, nil
}

func (t *Translator) acquire(ctx context.Context) (Backend, error) {
	if t.backend != nil {
		return t.backend, nil
	}

	backend, err := t.open(ctx, t.model, t.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open backend for %s: %w", t.model, err)
	}

	if t.cfg.FallbackModel != "" && t.cfg.FallbackModel != t.model {
		fallback, err := t.open(ctx, t.cfg.FallbackModel, t.cfg)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("failed to open fallback backend for %s: %w", t.cfg.FallbackModel, err)
		}
		backend = NewFallbackBackend(backend, fallback, t.logger)
	}

	t.logger.Debug("translation backend opened", "model", t.model, "backend", backend.Name())
	t.backend = backend
	return backend, nil
}

// Close releases the backend if one was opened
func (t *Translator) Close() error {
	if t.backend == nil {
		return nil
	}
	err := t.backend.Close()
	t.backend = nil
	return err
}

// excerpt shortens s to at most n runes for log and error output
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
