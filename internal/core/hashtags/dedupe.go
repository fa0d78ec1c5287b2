package hashtags

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/threadforge/threadforge/internal/core/domain"
	"github.com/threadforge/threadforge/internal/core/textstat"
)

// DefaultMaxPerMessage caps tags per message during thread balancing.
const DefaultMaxPerMessage = 3

// MaxEmojiSuggestions caps the emoji suggestions a message may carry. The
// cap holds after text-embedded emoji are merged in, not just at
// suggestion time.
const MaxEmojiSuggestions = 3

// hashtagPattern matches #-prefixed tokens of Latin letters, digits,
// underscores or Arabic-script code points.
var hashtagPattern = regexp.MustCompile(`#[0-9A-Za-z_\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]+`)

// NormalizeTag lowercases a tag and forces exactly one leading '#'.
// An empty or '#'-only input normalizes to "".
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.ToLower(tag))
	tag = strings.TrimLeft(tag, "#")

	if tag == "" {
		return ""
	}

	return "#" + tag
}

// DedupeHashtags normalizes every tag and deduplicates, preserving
// first-seen order and dropping empties. Idempotent.
func DedupeHashtags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized == "" {
			continue
		}

		if _, ok := seen[normalized]; ok {
			continue
		}

		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}

// DedupeEmojis trims and deduplicates emoji, preserving first-seen order.
func DedupeEmojis(emojis []string) []string {
	seen := make(map[string]struct{}, len(emojis))
	result := make([]string, 0, len(emojis))

	for _, e := range emojis {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}

		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}
		result = append(result, e)
	}

	return result
}

// ExtractHashtags scans free text for hashtag tokens and returns them
// deduplicated in order of appearance.
func ExtractHashtags(text string) []string {
	return DedupeHashtags(hashtagPattern.FindAllString(text, -1))
}

// ExtractEmojis scans free text for emoji grapheme clusters and returns
// them deduplicated in order of appearance. A whole ZWJ sequence or
// modifier chain is returned as one emoji.
func ExtractEmojis(text string) []string {
	var found []string

	gr := uniseg.NewGraphemes(text)

	for gr.Next() {
		runes := gr.Runes()
		if len(runes) > 0 && textstat.IsEmojiRune(runes[0]) {
			found = append(found, gr.Str())
		}
	}

	return DedupeEmojis(found)
}

// BalanceAcrossThread pools every hashtag of the thread, deduplicates the
// pool, and redistributes it so no tag appears on two messages. Message i
// starts reading the pool at offset (i*maxPerMessage) mod poolSize and
// wraps, taking only tags not yet assigned elsewhere. An empty pool leaves
// every message with an empty tag list.
func BalanceAcrossThread(messages []domain.Message, maxPerMessage int) []domain.Message {
	if maxPerMessage <= 0 {
		maxPerMessage = DefaultMaxPerMessage
	}

	var all []string
	for _, msg := range messages {
		all = append(all, msg.Hashtags...)
	}

	pool := DedupeHashtags(all)

	if len(pool) == 0 {
		for i := range messages {
			messages[i].Hashtags = []string{}
		}

		return messages
	}

	assigned := make(map[string]struct{}, len(pool))

	for i := range messages {
		tags := make([]string, 0, maxPerMessage)
		offset := (i * maxPerMessage) % len(pool)

		for step := 0; step < len(pool) && len(tags) < maxPerMessage; step++ {
			tag := pool[(offset+step)%len(pool)]
			if _, taken := assigned[tag]; taken {
				continue
			}

			assigned[tag] = struct{}{}

			tags = append(tags, tag)
		}

		messages[i].Hashtags = tags
	}

	return messages
}

// DedupeThread merges each message's structured hashtag and emoji lists
// with anything embedded in its text, dedupes both, then rebalances the
// hashtag pool across the whole thread.
func DedupeThread(messages []domain.Message) []domain.Message {
	for i := range messages {
		merged := append([]string{}, messages[i].Hashtags...)
		merged = append(merged, ExtractHashtags(messages[i].Text)...)
		messages[i].Hashtags = DedupeHashtags(merged)

		emojis := append([]string{}, messages[i].EmojiSuggestions...)
		emojis = append(emojis, ExtractEmojis(messages[i].Text)...)

		emojis = DedupeEmojis(emojis)
		if len(emojis) > MaxEmojiSuggestions {
			emojis = emojis[:MaxEmojiSuggestions]
		}

		messages[i].EmojiSuggestions = emojis
	}

	return BalanceAcrossThread(messages, DefaultMaxPerMessage)
}
