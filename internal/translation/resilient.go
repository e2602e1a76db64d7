package translation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"codeberg.org/snonux/mangatl/internal/logger"
)

// ResilienceConfig configures a ResilientBackend
type ResilienceConfig struct {
	Timeout     time.Duration // Per request timeout, 0 disables it
	RateLimit   float64       // Requests per second, 0 disables limiting
	Burst       int           // Limiter burst size, defaults to 1
	MaxFailures uint32        // Consecutive failures that open the breaker, defaults to 3
	OpenTimeout time.Duration // Time the breaker stays open, defaults to 30s
	Logger      *slog.Logger
}

// ResilientBackend guards a backend with a timeout, a rate limiter and a
// circuit breaker. Once the breaker is open, requests fail immediately
// until OpenTimeout has passed.
type ResilientBackend struct {
	backend Backend
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
}

// NewResilientBackend wraps backend
func NewResilientBackend(backend Backend, cfg ResilienceConfig) *ResilientBackend {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout == 0 {
		openTimeout = 30 * time.Second
	}
	log := logger.OrDefault(cfg.Logger)

	r := &ResilientBackend{
		backend: backend,
		timeout: cfg.Timeout,
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    backend.Name(),
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("translation circuit breaker changed state",
				"backend", name, "from", from.String(), "to", to.String())
		},
	})

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return r
}

// Translate waits for the rate limiter and calls the wrapped backend
// through the circuit breaker
func (r *ResilientBackend) Translate(ctx context.Context, text string) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.backend.Translate(ctx, text)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// State returns the circuit breaker state
func (r *ResilientBackend) State() gobreaker.State {
	return r.breaker.State()
}

// Name returns the wrapped backend name
func (r *ResilientBackend) Name() string {
	return r.backend.Name()
}

// Close closes the wrapped backend
func (r *ResilientBackend) Close() error {
	return r.backend.Close()
}
