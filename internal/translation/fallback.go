package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/snonux/mangatl/internal/logger"
)

// FallbackBackend wraps a primary backend with a fallback option
type FallbackBackend struct {
	primary  Backend
	fallback Backend
	logger   *slog.Logger
}

// NewFallbackBackend creates a backend that falls back to secondary if primary fails
func NewFallbackBackend(primary, fallback Backend, log *slog.Logger) *FallbackBackend {
	return &FallbackBackend{
		primary:  primary,
		fallback: fallback,
		logger:   logger.OrDefault(log),
	}
}

// Translate tries the primary backend first, falls back to the secondary on error
func (f *FallbackBackend) Translate(ctx context.Context, text string) (string, error) {
	translation, err := f.primary.Translate(ctx, text)
	if err == nil {
		return translation, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	f.logger.Warn("primary translation backend failed, falling back",
		"primary", f.primary.Name(), "fallback", f.fallback.Name(), "error", err)

	translation, fallbackErr := f.fallback.Translate(ctx, text)
	if fallbackErr != nil {
		return "", fmt.Errorf("both backends failed: primary=%v, fallback=%w", err, fallbackErr)
	}
	return translation, nil
}

// Name returns the backend name
func (f *FallbackBackend) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", f.primary.Name(), f.fallback.Name())
}

// Close closes both backends
func (f *FallbackBackend) Close() error {
	return errors.Join(f.primary.Close(), f.fallback.Close())
}
