package hashtags

import (
	"reflect"
	"testing"

	"github.com/threadforge/threadforge/internal/core/domain"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{name: "plain word", tag: "AI", want: "#ai"},
		{name: "already prefixed", tag: "#Tech", want: "#tech"},
		{name: "double prefix", tag: "##tech", want: "#tech"},
		{name: "surrounding space", tag: "  #Go  ", want: "#go"},
		{name: "hash only", tag: "#", want: ""},
		{name: "empty", tag: "", want: ""},
		{name: "arabic tag", tag: "#تقنية", want: "#تقنية"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTag(tt.tag); got != tt.want {
				t.Errorf("NormalizeTag(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestDedupeHashtagsIdempotent(t *testing.T) {
	input := []string{"#AI", "#ai", "ai", "#Tech", "#tech", "", "#", "#go"}

	once := DedupeHashtags(input)
	twice := DedupeHashtags(once)

	want := []string{"#ai", "#tech", "#go"}
	if !reflect.DeepEqual(once, want) {
		t.Errorf("DedupeHashtags = %v, want %v", once, want)
	}

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedupe not idempotent: %v then %v", once, twice)
	}
}

func TestDedupeHashtagsPreservesOrder(t *testing.T) {
	got := DedupeHashtags([]string{"#zebra", "#apple", "#Zebra", "#mango"})

	want := []string{"#zebra", "#apple", "#mango"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeHashtags = %v, want %v", got, want)
	}
}

func TestExtractHashtags(t *testing.T) {
	got := ExtractHashtags("Launching soon #AI and #MachineLearning, plus #ai again and #تقنية too")

	want := []string{"#ai", "#machinelearning", "#تقنية"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractHashtags = %v, want %v", got, want)
	}
}

func TestExtractEmojis(t *testing.T) {
	got := ExtractEmojis("ship it 🚀 then celebrate 🎉 and 🚀 once more")

	want := []string{"🚀", "🎉"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEmojis = %v, want %v", got, want)
	}
}

func TestExtractEmojisKeepsZWJSequenceWhole(t *testing.T) {
	got := ExtractEmojis("team 👨‍👩‍👧‍👦 effort")

	if len(got) != 1 || got[0] != "👨‍👩‍👧‍👦" {
		t.Errorf("ExtractEmojis = %v, want the family sequence as one emoji", got)
	}
}

func TestBalanceAcrossThreadNoTagTwice(t *testing.T) {
	messages := []domain.Message{
		{Index: 1, Hashtags: []string{"#ai", "#tech", "#go"}},
		{Index: 2, Hashtags: []string{"#ai", "#data", "#cloud"}},
		{Index: 3, Hashtags: []string{"#tech", "#ml", "#dev"}},
	}

	balanced := BalanceAcrossThread(messages, 3)

	seen := make(map[string]int)

	for _, msg := range balanced {
		if len(msg.Hashtags) > 3 {
			t.Errorf("message %d has %d tags, want at most 3", msg.Index, len(msg.Hashtags))
		}

		for _, tag := range msg.Hashtags {
			seen[tag]++
		}
	}

	for tag, count := range seen {
		if count > 1 {
			t.Errorf("tag %s assigned to %d messages", tag, count)
		}
	}
}

func TestBalanceAcrossThreadEmptyPool(t *testing.T) {
	messages := []domain.Message{
		{Index: 1},
		{Index: 2},
	}

	balanced := BalanceAcrossThread(messages, 3)

	for _, msg := range balanced {
		if msg.Hashtags == nil {
			t.Errorf("message %d has nil hashtags, want empty slice", msg.Index)
		}

		if len(msg.Hashtags) != 0 {
			t.Errorf("message %d has tags %v, want none", msg.Index, msg.Hashtags)
		}
	}
}

func TestDedupeThreadMergesTextTags(t *testing.T) {
	messages := []domain.Message{
		{Index: 1, Text: "Big launch today #AI 🚀", Hashtags: []string{"#tech"}},
		{Index: 2, Text: "More details follow", Hashtags: []string{"#AI"}},
	}

	result := DedupeThread(messages)

	seen := make(map[string]int)

	for _, msg := range result {
		for _, tag := range msg.Hashtags {
			seen[tag]++
		}
	}

	if seen["#ai"] > 1 {
		t.Error("#ai survived on more than one message")
	}

	if len(result[0].EmojiSuggestions) == 0 || result[0].EmojiSuggestions[0] != "🚀" {
		t.Errorf("EmojiSuggestions = %v, want rocket extracted from text", result[0].EmojiSuggestions)
	}
}

func TestDedupeThreadCapsEmojiSuggestions(t *testing.T) {
	messages := []domain.Message{
		{Index: 1, Text: "🧵 Here is what happened today 👇", EmojiSuggestions: []string{"🔥", "👀", "🧵"}},
		{Index: 2, Text: "More details follow"},
	}

	result := DedupeThread(messages)

	if got := len(result[0].EmojiSuggestions); got > MaxEmojiSuggestions {
		t.Errorf("EmojiSuggestions = %v (%d entries), want at most %d after merging text emoji",
			result[0].EmojiSuggestions, got, MaxEmojiSuggestions)
	}
}
