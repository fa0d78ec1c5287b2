// Package assemble turns ordered text segments into finished thread
// messages: numbering, style prefixes, hashtag and emoji enrichment, the
// closing call-to-action, optional image suggestions, and the final length
// gate that keeps every tweet within the character limit.
package assemble

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/threadforge/threadforge/internal/core/domain"
	apperrors "github.com/threadforge/threadforge/internal/core/errors"
	"github.com/threadforge/threadforge/internal/core/hashtags"
	"github.com/threadforge/threadforge/internal/core/textstat"
	"github.com/threadforge/threadforge/internal/platform/observability"
)

// TruncationWarning is recorded on any message whose text had to shrink to
// fit the limit.
const TruncationWarning = "Tweet truncated to fit character limit"

const maxEmojiSuggestions = hashtags.MaxEmojiSuggestions

// Assembler builds messages from segments. The random source drives prefix,
// CTA and thread-start emoji selection only; inject a seeded one in tests.
type Assembler struct {
	limit  int
	policy textstat.Policy
	rnd    *rand.Rand
	logger *zerolog.Logger
}

// New creates an Assembler with the standard tweet limit. A nil random
// source gets a time-seeded one.
func New(logger *zerolog.Logger, rnd *rand.Rand) *Assembler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // non-cryptographic phrase selection
	}

	return &Assembler{
		limit:  domain.MaxTweetChars,
		policy: textstat.DefaultPolicy(),
		rnd:    rnd,
		logger: logger,
	}
}

// Build runs every message through the enrichment sequence: numbering and
// prefix, hashtags, emoji, CTA/image on the closing tweet, then length
// validation with in-place truncation. Segments must be non-empty; an empty
// slice yields ErrSegmentationExhausted, never an empty thread.
func (a *Assembler) Build(segments []string, opts domain.Options, profile domain.LanguageProfile) ([]domain.Message, error) {
	if len(segments) == 0 {
		return nil, apperrors.ErrSegmentationExhausted
	}

	opts = opts.Normalize()
	arabic := a.usesArabicPhrasing(opts, profile)

	messages := a.numberAndPrefix(segments, opts, arabic)

	if opts.HashtagsEnabled() {
		hashtags.AllocateForThread(messages, hashtags.Options{
			ForceArabic: opts.Language == domain.LanguageArabic || opts.Language == domain.LanguageBoth,
		})
	}

	a.suggestEmojis(messages, opts.Style)

	messages = hashtags.DedupeThread(messages)

	a.attachClosing(messages, opts, arabic)
	a.validateLengths(messages)

	return messages, nil
}

// usesArabicPhrasing decides which prefix/CTA language pool applies.
func (a *Assembler) usesArabicPhrasing(opts domain.Options, profile domain.LanguageProfile) bool {
	switch opts.Language {
	case domain.LanguageArabic:
		return true
	case domain.LanguageEnglish:
		return false
	default:
		return profile.Dominant == domain.DominantArabic
	}
}

// numberAndPrefix creates the message objects, appends "(i/N)" numbering
// for multi-tweet threads, and puts a random style prefix on the opener.
func (a *Assembler) numberAndPrefix(segments []string, opts domain.Options, arabic bool) []domain.Message {
	total := len(segments)
	messages := make([]domain.Message, total)

	for i, seg := range segments {
		text := strings.TrimSpace(seg)

		if i == 0 {
			if prefix := a.pick(openerPrefixes[opts.Style].forLanguage(arabic)); prefix != "" {
				text = prefix + "\n\n" + text
			}
		}

		if total > 1 {
			text = fmt.Sprintf("%s (%d/%d)", text, i+1, total)
		}

		messages[i] = domain.Message{
			Index:            i + 1,
			Text:             text,
			Hashtags:         []string{},
			EmojiSuggestions: []string{},
		}
	}

	return messages
}

// suggestEmojis combines the style pool with content-triggered bonus emoji
// and marks the opener with a thread-start indicator, capped at three
// unique suggestions per tweet.
func (a *Assembler) suggestEmojis(messages []domain.Message, style domain.Style) {
	for i := range messages {
		var suggestions []string

		if i == 0 {
			suggestions = append(suggestions, a.pick(threadStartEmojis))
		}

		suggestions = append(suggestions, styleEmojis[style]...)
		suggestions = append(suggestions, bonusEmojisFor(messages[i].Text)...)

		suggestions = hashtags.DedupeEmojis(suggestions)
		if len(suggestions) > maxEmojiSuggestions {
			suggestions = suggestions[:maxEmojiSuggestions]
		}

		messages[i].EmojiSuggestions = suggestions
	}
}

func bonusEmojisFor(text string) []string {
	lower := strings.ToLower(text)

	var bonus []string

	for _, rule := range bonusEmojiRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				bonus = append(bonus, rule.emoji)
				break
			}
		}
	}

	return bonus
}

// attachClosing puts a CTA on the final tweet and, when requested, an image
// suggestion on every tweet.
func (a *Assembler) attachClosing(messages []domain.Message, opts domain.Options, arabic bool) {
	last := len(messages) - 1
	messages[last].CTA = a.pick(closingCTAs[opts.Style].forLanguage(arabic))

	if !opts.IncludeImages {
		return
	}

	for i := range messages {
		messages[i].Image = suggestImage(messages[i].Text, opts.Style)
	}
}

// suggestImage scores each keyword rule against the text; the score is the
// rule priority plus the length of every matched keyword. Below the
// threshold the style default template applies.
func suggestImage(text string, style domain.Style) *domain.ImageSuggestion {
	lower := strings.ToLower(text)

	var (
		best      *domain.ImageSuggestion
		bestScore int
	)

	for _, rule := range imageRules {
		score := 0

		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				score += rule.priority + len(kw)
			}
		}

		if score > bestScore {
			tmpl := rule.template
			best = &tmpl
			bestScore = score
		}
	}

	if best != nil && bestScore >= minImageScore {
		return best
	}

	tmpl := defaultImageTemplates[style]

	return &tmpl
}

// PostProcess applies the same allocator, thread-wide dedupe and length
// gate the local path uses to messages produced by a remote backend, so
// both paths return identically enriched threads.
func (a *Assembler) PostProcess(messages []domain.Message, opts domain.Options) []domain.Message {
	opts = opts.Normalize()

	for i := range messages {
		if messages[i].Hashtags == nil {
			messages[i].Hashtags = []string{}
		}

		if messages[i].EmojiSuggestions == nil {
			messages[i].EmojiSuggestions = []string{}
		}
	}

	if opts.HashtagsEnabled() {
		hashtags.AllocateForThread(messages, hashtags.Options{
			ForceArabic: opts.Language == domain.LanguageArabic || opts.Language == domain.LanguageBoth,
		})
	}

	messages = hashtags.DedupeThread(messages)
	a.validateLengths(messages)

	return messages
}

// validateLengths enforces the character limit per message. Oversized text
// is truncated in place, keeping hashtags and CTA intact, and the message
// carries a warning. CharCount is always recomputed here.
func (a *Assembler) validateLengths(messages []domain.Message) {
	for i := range messages {
		msg := &messages[i]

		check := textstat.ValidateLength(msg.Text, msg.Hashtags, msg.CTA, a.limit)
		if !check.IsValid {
			if a.logger != nil {
				a.logger.Debug().
					Int("index", msg.Index).
					Int("over_by", check.OverBy).
					Msg("truncating oversized tweet")
			}

			msg.Text = textstat.Truncate(msg.Text, a.limit, msg.Hashtags, msg.CTA)
			msg.Warnings = append(msg.Warnings, TruncationWarning)

			observability.TweetsTruncated.Inc()

			check = textstat.ValidateLength(msg.Text, msg.Hashtags, msg.CTA, a.limit)
		}

		msg.CharCount = check.CharCount
	}
}

// pick returns a random element, or "" for an empty pool.
func (a *Assembler) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}

	return pool[a.rnd.Intn(len(pool))]
}
