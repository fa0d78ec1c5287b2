package assemble

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/threadforge/threadforge/internal/core/domain"
	"github.com/threadforge/threadforge/internal/core/segment"
)

// ExactCount forces a message slice to the target length. Excess messages
// are dropped from the middle, keeping the hook and the conclusion. A
// shortfall splits the longest message at the space nearest its midpoint;
// the new second half starts with empty hashtag/emoji lists rather than
// duplicating the original's. Splitting stops early once the longest
// message is under the split floor. Indices are rewritten 1..N afterwards.
func ExactCount(messages []domain.Message, target int) []domain.Message {
	if target < domain.MinThreadLength {
		target = domain.MinThreadLength
	}

	if target > domain.MaxThreadLength {
		target = domain.MaxThreadLength
	}

	for len(messages) > target {
		mid := len(messages) / 2
		messages = append(messages[:mid], messages[mid+1:]...)
	}

	for len(messages) < target {
		idx := longestMessage(messages)
		if idx < 0 || uniseg.GraphemeClusterCount(messages[idx].Text) < segment.SplitFloorGraphemes {
			break
		}

		head, tail := splitMessageText(messages[idx].Text)
		if tail == "" {
			break
		}

		second := domain.Message{
			Text:             tail,
			Hashtags:         []string{},
			EmojiSuggestions: []string{},
		}

		messages[idx].Text = head

		messages = append(messages[:idx+1], messages[idx:]...)
		messages[idx+1] = second
	}

	for i := range messages {
		messages[i].Index = i + 1
	}

	return messages
}

func longestMessage(messages []domain.Message) int {
	bestIdx := -1
	bestLen := -1

	for i, msg := range messages {
		if n := uniseg.GraphemeClusterCount(msg.Text); n > bestLen {
			bestIdx = i
			bestLen = n
		}
	}

	return bestIdx
}

func splitMessageText(text string) (string, string) {
	mid := len(text) / 2

	cut := -1

	for offset := 0; offset <= mid; offset++ {
		if i := mid - offset; i >= 0 && i < len(text) && text[i] == ' ' {
			cut = i
			break
		}

		if i := mid + offset; i < len(text) && text[i] == ' ' {
			cut = i
			break
		}
	}

	if cut < 0 {
		return text, ""
	}

	return strings.TrimSpace(text[:cut]), strings.TrimSpace(text[cut:])
}
