package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/threadforge/threadforge/internal/core/domain"
	apperrors "github.com/threadforge/threadforge/internal/core/errors"
	"github.com/threadforge/threadforge/internal/core/textstat"
	"github.com/threadforge/threadforge/internal/platform/observability"
)

const (
	defaultMaxRetries   = 2
	defaultInitialDelay = 500 * time.Millisecond
	delayMultiplier     = 2

	logKeyBackend = "backend"
)

// RetryConfig configures per-backend retry behavior.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   defaultMaxRetries,
		InitialDelay: defaultInitialDelay,
	}
}

// Orchestrator tries backends in registration order, retrying transient
// failures with exponential backoff, and guarantees a result as long as
// the final backend is the local deterministic pipeline.
type Orchestrator struct {
	backends []Backend
	retry    RetryConfig
	logger   *zerolog.Logger
}

// NewOrchestrator creates an orchestrator over the given backends, tried
// in order. Register the local backend last so every request has a
// deterministic fallback.
func NewOrchestrator(logger *zerolog.Logger, retry RetryConfig, backends ...Backend) *Orchestrator {
	if retry.MaxRetries <= 0 {
		retry.MaxRetries = defaultMaxRetries
	}

	if retry.InitialDelay <= 0 {
		retry.InitialDelay = defaultInitialDelay
	}

	return &Orchestrator{
		backends: backends,
		retry:    retry,
		logger:   logger,
	}
}

// Generate produces a thread from text. Input errors (empty text,
// degenerate segmentation) are terminal and returned immediately; backend
// failures cascade to the next backend. The source language profile is
// computed once here and stamped onto the result metadata.
func (o *Orchestrator) Generate(ctx context.Context, text string, opts domain.Options) (*domain.ThreadResult, error) {
	opts = opts.Normalize()
	profile := textstat.Analyze(text)

	var lastErr error

	for _, backend := range o.backends {
		if !backend.Available() {
			continue
		}

		result, err := o.generateWithRetry(ctx, backend, text, opts)
		if err != nil {
			if isTerminal(err) {
				return nil, err
			}

			lastErr = err

			observability.BackendFallbacks.WithLabelValues(string(backend.Name())).Inc()
			o.logger.Warn().
				Err(err).
				Str(logKeyBackend, string(backend.Name())).
				Msg("generation backend failed, trying fallback")

			continue
		}

		if result.Metadata.Language == "" {
			result.Metadata.Language = profile.Dominant
		}

		if result.Metadata.Direction == "" {
			result.Metadata.Direction = profile.Direction
		}

		observability.ThreadsGenerated.WithLabelValues(string(backend.Name())).Inc()

		return result, nil
	}

	if lastErr != nil {
		return nil, errors.Join(apperrors.ErrAllBackendsFailed, lastErr)
	}

	return nil, apperrors.ErrBackendUnavailable
}

// generateWithRetry retries one backend with exponential backoff. Terminal
// input errors and context cancellation abort immediately.
func (o *Orchestrator) generateWithRetry(ctx context.Context, backend Backend, text string, opts domain.Options) (*domain.ThreadResult, error) {
	var lastErr error

	delay := o.retry.InitialDelay

	for attempt := 0; attempt <= o.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("retry interrupted: %w", ctx.Err())
			case <-time.After(delay):
				delay *= delayMultiplier
			}
		}

		start := time.Now()

		result, err := backend.Generate(ctx, text, opts)

		observability.GenerationLatency.WithLabelValues(string(backend.Name())).Observe(time.Since(start).Seconds())

		if err == nil {
			return result, nil
		}

		lastErr = err

		if isTerminal(err) || errors.Is(err, apperrors.ErrBackendUnavailable) {
			return nil, err
		}
	}

	return nil, lastErr
}

// isTerminal reports whether the error is an input problem no backend can
// recover from.
func isTerminal(err error) bool {
	return errors.Is(err, apperrors.ErrEmptyInput) ||
		errors.Is(err, apperrors.ErrInputTooLong) ||
		errors.Is(err, apperrors.ErrSegmentationExhausted)
}

// AsGenerationError converts any pipeline error into the structured error
// payload returned to API callers.
func AsGenerationError(err error) *domain.GenerationError {
	code := "generation_failed"

	switch {
	case errors.Is(err, apperrors.ErrEmptyInput):
		code = "empty_input"
	case errors.Is(err, apperrors.ErrInputTooLong):
		code = "input_too_long"
	case errors.Is(err, apperrors.ErrSegmentationExhausted):
		code = "segmentation_exhausted"
	case errors.Is(err, apperrors.ErrAllBackendsFailed):
		code = "all_backends_failed"
	}

	return &domain.GenerationError{Message: err.Error(), Code: code}
}
