package generate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/threadforge/threadforge/internal/core/assemble"
	"github.com/threadforge/threadforge/internal/core/domain"
	apperrors "github.com/threadforge/threadforge/internal/core/errors"
	"github.com/threadforge/threadforge/internal/core/segment"
	"github.com/threadforge/threadforge/internal/core/textstat"
)

// Local is the deterministic generation pipeline: segmentation, assembly,
// hashtag/emoji enrichment and length validation, with no I/O. It is the
// guaranteed fallback of the orchestrator and never fails for backend
// reasons.
type Local struct {
	assembler *assemble.Assembler
	logger    *zerolog.Logger
}

// NewLocal creates the local backend. The random source feeds phrase
// selection only; pass a seeded one in tests, nil otherwise.
func NewLocal(logger *zerolog.Logger, rnd *rand.Rand) *Local {
	return &Local{
		assembler: assemble.New(logger, rnd),
		logger:    logger,
	}
}

// Name implements Backend.
func (l *Local) Name() BackendName { return BackendLocal }

// Available implements Backend; the local pipeline is always usable.
func (l *Local) Available() bool { return true }

// Generate implements Backend. The context is accepted for interface
// symmetry; the pipeline is synchronous, single-threaded and bounded by
// input length times thread length.
func (l *Local) Generate(_ context.Context, text string, opts domain.Options) (*domain.ThreadResult, error) {
	opts = opts.Normalize()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: nothing to segment", apperrors.ErrEmptyInput)
	}

	profile := textstat.Analyze(text)

	segments := segment.Split(text, opts.MaxTweets)
	if len(segments) == 0 {
		return nil, apperrors.ErrSegmentationExhausted
	}

	messages, err := l.assembler.Build(segments, opts, profile)
	if err != nil {
		return nil, err
	}

	report := textstat.AnalyzeThread(messages)

	result := &domain.ThreadResult{
		Metadata: domain.Metadata{
			Language:           profile.Dominant,
			Direction:          profile.Direction,
			StyleRequested:     opts.Style,
			ToneDetected:       detectTone(text),
			MaxTweetsRequested: opts.MaxTweets,
			TweetsGenerated:    len(messages),
			Source:             string(BackendLocal),
		},
		Thread:          messages,
		ThreadSummary:   assemble.ThreadSummary(opts.Style, len(messages)),
		EngagementScore: assemble.EngagementScore(messages, opts.Style),
		Recommendations: report.Recommendations,
	}

	if l.logger != nil {
		l.logger.Debug().
			Int("tweets", len(messages)).
			Str("language", string(profile.Dominant)).
			Str("style", string(opts.Style)).
			Msg("generated thread locally")
	}

	return result, nil
}

// detectTone is a coarse structural read of the source text, recorded as
// metadata only.
func detectTone(text string) string {
	exclaims := strings.Count(text, "!")
	questions := strings.Count(text, "?") + strings.Count(text, "؟")

	switch {
	case exclaims >= 3:
		return "enthusiastic"
	case questions >= 3:
		return "inquisitive"
	default:
		return "informative"
	}
}
