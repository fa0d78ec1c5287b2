package generate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/threadforge/threadforge/internal/core/domain"
	apperrors "github.com/threadforge/threadforge/internal/core/errors"
)

const testArticle = "Artificial intelligence keeps reshaping software development. " +
	"Teams that adopt it early ship faster and learn faster. " +
	"The tooling is finally good enough for everyday work."

var errBackendDown = errors.New("backend down")

// stubBackend is a scriptable backend for orchestrator tests.
type stubBackend struct {
	name      BackendName
	available bool
	calls     int
	failFirst int
	err       error
	result    *domain.ThreadResult
}

func (s *stubBackend) Name() BackendName { return s.name }

func (s *stubBackend) Available() bool { return s.available }

func (s *stubBackend) Generate(_ context.Context, _ string, _ domain.Options) (*domain.ThreadResult, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	if s.calls <= s.failFirst {
		return nil, errBackendDown
	}

	return s.result, nil
}

func stubResult(source string) *domain.ThreadResult {
	return &domain.ThreadResult{
		Metadata: domain.Metadata{TweetsGenerated: 1, Source: source},
		Thread:   []domain.Message{{Index: 1, Text: "tweet", CharCount: 5}},
	}
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond}
}

func newTestOrchestrator(backends ...Backend) *Orchestrator {
	logger := zerolog.Nop()

	return NewOrchestrator(&logger, fastRetry(), backends...)
}

func TestOrchestratorFallsBackToSecondBackend(t *testing.T) {
	remote := &stubBackend{name: BackendOpenAI, available: true, err: errBackendDown}
	local := &stubBackend{name: BackendLocal, available: true, result: stubResult("local")}

	o := newTestOrchestrator(remote, local)

	result, err := o.Generate(context.Background(), testArticle, domain.Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if result.Metadata.Source != "local" {
		t.Errorf("Source = %q, want local", result.Metadata.Source)
	}

	// the failing backend was retried before falling back
	if remote.calls != 3 {
		t.Errorf("remote backend called %d times, want 3 (1 + 2 retries)", remote.calls)
	}
}

func TestOrchestratorSkipsUnavailableBackend(t *testing.T) {
	remote := &stubBackend{name: BackendOpenAI, available: false, err: errBackendDown}
	local := &stubBackend{name: BackendLocal, available: true, result: stubResult("local")}

	o := newTestOrchestrator(remote, local)

	if _, err := o.Generate(context.Background(), testArticle, domain.Options{}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if remote.calls != 0 {
		t.Errorf("unavailable backend was called %d times", remote.calls)
	}

	if local.calls != 1 {
		t.Errorf("local backend called %d times, want 1", local.calls)
	}
}

func TestOrchestratorRetrySucceedsWithoutFallback(t *testing.T) {
	remote := &stubBackend{name: BackendOpenAI, available: true, failFirst: 1, result: stubResult("openai")}
	local := &stubBackend{name: BackendLocal, available: true, result: stubResult("local")}

	o := newTestOrchestrator(remote, local)

	result, err := o.Generate(context.Background(), testArticle, domain.Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if result.Metadata.Source != "openai" {
		t.Errorf("Source = %q, want openai after successful retry", result.Metadata.Source)
	}

	if local.calls != 0 {
		t.Errorf("fallback was consulted %d times despite retry success", local.calls)
	}
}

func TestOrchestratorTerminalErrorStopsCascade(t *testing.T) {
	remote := &stubBackend{name: BackendOpenAI, available: true, err: fmt.Errorf("validation: %w", apperrors.ErrEmptyInput)}
	local := &stubBackend{name: BackendLocal, available: true, result: stubResult("local")}

	o := newTestOrchestrator(remote, local)

	_, err := o.Generate(context.Background(), "", domain.Options{})
	if !errors.Is(err, apperrors.ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}

	if remote.calls != 1 {
		t.Errorf("terminal error retried: %d calls", remote.calls)
	}

	if local.calls != 0 {
		t.Errorf("terminal error cascaded to fallback: %d calls", local.calls)
	}
}

func TestOrchestratorAllBackendsFailed(t *testing.T) {
	first := &stubBackend{name: BackendOpenAI, available: true, err: errBackendDown}
	second := &stubBackend{name: BackendLocal, available: true, err: errBackendDown}

	o := newTestOrchestrator(first, second)

	_, err := o.Generate(context.Background(), testArticle, domain.Options{})
	if !errors.Is(err, apperrors.ErrAllBackendsFailed) {
		t.Fatalf("error = %v, want ErrAllBackendsFailed", err)
	}
}

func TestOrchestratorNoAvailableBackend(t *testing.T) {
	remote := &stubBackend{name: BackendOpenAI, available: false}

	o := newTestOrchestrator(remote)

	_, err := o.Generate(context.Background(), testArticle, domain.Options{})
	if !errors.Is(err, apperrors.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
}

func TestOrchestratorStampsLanguageMetadata(t *testing.T) {
	local := &stubBackend{name: BackendLocal, available: true, result: stubResult("local")}

	o := newTestOrchestrator(local)

	result, err := o.Generate(context.Background(), testArticle, domain.Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if result.Metadata.Language != domain.DominantEnglish {
		t.Errorf("Language = %s, want english", result.Metadata.Language)
	}

	if result.Metadata.Direction != domain.DirectionLTR {
		t.Errorf("Direction = %s, want ltr", result.Metadata.Direction)
	}
}

func TestAsGenerationErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "empty input", err: apperrors.ErrEmptyInput, want: "empty_input"},
		{name: "too long", err: apperrors.ErrInputTooLong, want: "input_too_long"},
		{name: "segmentation", err: apperrors.ErrSegmentationExhausted, want: "segmentation_exhausted"},
		{name: "all failed", err: errors.Join(apperrors.ErrAllBackendsFailed, errBackendDown), want: "all_backends_failed"},
		{name: "unknown", err: errBackendDown, want: "generation_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AsGenerationError(tt.err); got.Code != tt.want {
				t.Errorf("code = %s, want %s", got.Code, tt.want)
			}
		})
	}
}
