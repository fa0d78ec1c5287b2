package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/threadforge/threadforge/internal/core/assemble"
	"github.com/threadforge/threadforge/internal/core/domain"
	apperrors "github.com/threadforge/threadforge/internal/core/errors"
)

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = time.Minute
	rateLimiterBurst        = 5

	errRateLimiter      = "rate limiter: %w"
	errChatCompletion   = "openai chat completion: %w"
	logKeyModel         = "model"
	logKeyTweets        = "tweets"
	defaultRemoteModel  = openai.GPT4oMini
	promptMaxSourceLen  = 6000
	remoteSystemPrompt  = "You convert prose into a numbered tweet thread. Respond with JSON only, shaped as " +
		`{"metadata":{"tweets_generated":N},"thread":[{"text":"...","char_count":N}]}. ` +
		"Each tweet must stay under 280 characters, keep the source order, and match the source language."
	remoteUserPromptFmt = "Write exactly %d tweets in a %s style from this text:\n\n%s"
)

// OpenAIConfig carries the remote backend settings.
type OpenAIConfig struct {
	APIKey string
	Model  string
	RPS    float64
}

// OpenAI generates threads through the chat completion API. Failures trip
// a circuit breaker so the orchestrator falls through to the local backend
// quickly during outages.
type OpenAI struct {
	cfg         OpenAIConfig
	client      *openai.Client
	assembler   *assemble.Assembler
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger

	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

// NewOpenAI creates the remote backend. An empty API key leaves the
// backend registered but unavailable.
func NewOpenAI(cfg OpenAIConfig, assembler *assemble.Assembler, logger *zerolog.Logger) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = defaultRemoteModel
	}

	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}

	return &OpenAI{
		cfg:         cfg,
		client:      openai.NewClient(cfg.APIKey),
		assembler:   assembler,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RPS), rateLimiterBurst),
		logger:      logger,
	}
}

// Name implements Backend.
func (c *OpenAI) Name() BackendName { return BackendOpenAI }

// Available implements Backend.
func (c *OpenAI) Available() bool { return c.cfg.APIKey != "" }

func (c *OpenAI) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", apperrors.ErrBackendUnavailable, c.circuitOpenUntil)
	}

	return nil
}

func (c *OpenAI) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures = 0
}

func (c *OpenAI) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("OpenAI circuit breaker opened")
	}
}

// Generate implements Backend. The remote response is schema-checked,
// rebalanced to the requested count, then post-processed with the same
// allocator/dedupe/length contracts as the local path.
func (c *OpenAI) Generate(ctx context.Context, text string, opts domain.Options) (*domain.ThreadResult, error) {
	opts = opts.Normalize()

	if err := c.checkCircuit(); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf(errRateLimiter, err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: remoteSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(remoteUserPromptFmt, opts.MaxTweets, opts.Style, capPromptSource(text)),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.recordFailure()

		return nil, fmt.Errorf(errChatCompletion, err)
	}

	content, err := firstChoiceContent(resp)
	if err != nil {
		c.recordFailure()

		return nil, err
	}

	messages, generated, err := parseRemoteThread(content)
	if err != nil {
		c.recordFailure()

		return nil, err
	}

	c.recordSuccess()

	messages = assemble.ExactCount(messages, opts.MaxTweets)
	messages = c.assembler.PostProcess(messages, opts)

	result := &domain.ThreadResult{
		Metadata: domain.Metadata{
			StyleRequested:     opts.Style,
			MaxTweetsRequested: opts.MaxTweets,
			TweetsGenerated:    len(messages),
			Source:             string(BackendOpenAI),
		},
		Thread:          messages,
		ThreadSummary:   assemble.ThreadSummary(opts.Style, len(messages)),
		EngagementScore: assemble.EngagementScore(messages, opts.Style),
	}

	c.logger.Debug().
		Str(logKeyModel, c.cfg.Model).
		Int(logKeyTweets, generated).
		Msg("remote thread generated")

	return result, nil
}

func capPromptSource(text string) string {
	runes := []rune(text)
	if len(runes) <= promptMaxSourceLen {
		return text
	}

	return string(runes[:promptMaxSourceLen])
}

// remoteThread is the minimum schema a remote response must satisfy before
// hashtag post-processing.
type remoteThread struct {
	Metadata struct {
		TweetsGenerated int `json:"tweets_generated"`
	} `json:"metadata"`
	Thread []struct {
		Text      string `json:"text"`
		CharCount int    `json:"char_count"`
	} `json:"thread"`
}

// parseRemoteThread accepts the expected wrapper object, a bare array of
// tweets, or a wrapper with the array under another key, then validates
// the schema.
// firstChoiceContent guards against an empty choices array, which the API
// can return on content filtering.
func firstChoiceContent(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", apperrors.ErrMalformedResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func parseRemoteThread(content string) ([]domain.Message, int, error) {
	content = stripCodeFence(content)

	parsed := tryParseWrapper(content)
	if parsed == nil {
		parsed = tryParseArray(content)
	}

	if parsed == nil {
		parsed = tryFindThreadInJSON(content)
	}

	if parsed == nil || len(parsed.Thread) == 0 {
		return nil, 0, fmt.Errorf("%w: no thread array found", apperrors.ErrMalformedResponse)
	}

	messages := make([]domain.Message, 0, len(parsed.Thread))

	for i, tweet := range parsed.Thread {
		text := strings.TrimSpace(tweet.Text)
		if text == "" {
			return nil, 0, fmt.Errorf("%w: tweet %d has empty text", apperrors.ErrMalformedResponse, i+1)
		}

		messages = append(messages, domain.Message{
			Index:            i + 1,
			Text:             text,
			CharCount:        tweet.CharCount,
			Hashtags:         []string{},
			EmojiSuggestions: []string{},
		})
	}

	generated := parsed.Metadata.TweetsGenerated
	if generated == 0 {
		generated = len(messages)
	}

	return messages, generated, nil
}

func tryParseWrapper(content string) *remoteThread {
	var wrapper remoteThread

	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && len(wrapper.Thread) > 0 {
		return &wrapper
	}

	return nil
}

func tryParseArray(content string) *remoteThread {
	var tweets []struct {
		Text      string `json:"text"`
		CharCount int    `json:"char_count"`
	}

	if err := json.Unmarshal([]byte(content), &tweets); err != nil || len(tweets) == 0 {
		return nil
	}

	var wrapper remoteThread

	wrapper.Thread = tweets

	return &wrapper
}

// tryFindThreadInJSON scans a generic object for the first array value
// that parses as a tweet list.
func tryFindThreadInJSON(content string) *remoteThread {
	var raw map[string]json.RawMessage

	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil
	}

	for _, v := range raw {
		if parsed := tryParseArray(string(v)); parsed != nil {
			return parsed
		}
	}

	return nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
