// Package generate exposes the thread generation entry points: the local
// deterministic pipeline, the remote OpenAI backend, and the orchestrator
// that composes them with retry and fallback so a response is always
// produced.
package generate

import (
	"context"

	"github.com/threadforge/threadforge/internal/core/domain"
)

// BackendName identifies a generation backend.
type BackendName string

const (
	BackendOpenAI BackendName = "openai"
	BackendLocal  BackendName = "local"
)

// Backend produces a complete thread from source text. Implementations
// must be safe for concurrent use; per-call state (used hashtag sets,
// message slices) is never shared between invocations.
type Backend interface {
	// Name returns the backend identifier, recorded in result metadata.
	Name() BackendName

	// Available reports whether the backend is configured and usable.
	Available() bool

	// Generate builds a thread. The local backend ignores ctx; remote
	// backends honor cancellation and deadlines.
	Generate(ctx context.Context, text string, opts domain.Options) (*domain.ThreadResult, error)
}
