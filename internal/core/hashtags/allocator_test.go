package hashtags

import (
	"strings"
	"testing"

	"github.com/threadforge/threadforge/internal/core/domain"
)

const arabicAITText = "يعتمد المستقبل على ذكاء اصطناعي متقدم وعلى تقنية حديثة في كل مجال من مجالات الحياة"

func TestAllocateCapsAtMax(t *testing.T) {
	used := NewUsedSet()

	tags := Allocate("Deep learning and AI models are transforming technology", Options{}, used)

	if len(tags) == 0 {
		t.Fatal("expected at least one tag for AI content")
	}

	if len(tags) > DefaultMaxHashtags {
		t.Errorf("got %d tags, want at most %d", len(tags), DefaultMaxHashtags)
	}

	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			t.Errorf("tag %q missing # prefix", tag)
		}

		if tag != strings.ToLower(tag) {
			t.Errorf("tag %q not normalized", tag)
		}
	}
}

func TestAllocateRegistersInUsedSet(t *testing.T) {
	used := NewUsedSet()

	first := Allocate("AI and machine learning news", Options{}, used)

	for _, tag := range first {
		if !used.Contains(tag) {
			t.Errorf("tag %q not registered in used set", tag)
		}
	}

	second := Allocate("More AI and machine learning news", Options{}, used)

	for _, tag := range second {
		for _, prev := range first {
			if tag == prev {
				t.Errorf("tag %q allocated twice within one thread", tag)
			}
		}
	}
}

func TestAllocateThreadMarkerFirst(t *testing.T) {
	used := NewUsedSet()

	tags := Allocate("AI content for the opener", Options{IncludeThreadTag: true}, used)

	if len(tags) == 0 {
		t.Fatal("expected tags for the opener")
	}

	if !strings.Contains(tags[0], "thread") && !strings.Contains(tags[0], "سلسلة") {
		t.Errorf("first tag %q is not a thread marker", tags[0])
	}
}

func TestAllocateArabicContentDrawsArabicPool(t *testing.T) {
	used := NewUsedSet()

	tags := Allocate(arabicAITText, Options{}, used)

	hasArabic := false

	for _, tag := range tags {
		for _, r := range tag {
			if r >= 0x0600 && r <= 0x06FF {
				hasArabic = true
			}
		}
	}

	if !hasArabic {
		t.Errorf("Arabic content got no Arabic tags: %v", tags)
	}
}

func TestAllocateForceArabic(t *testing.T) {
	used := NewUsedSet()

	tags := Allocate("Pure English text about artificial intelligence", Options{ForceArabic: true}, used)

	hasArabic := false

	for _, tag := range tags {
		for _, r := range tag {
			if r >= 0x0600 && r <= 0x06FF {
				hasArabic = true
			}
		}
	}

	if !hasArabic {
		t.Errorf("ForceArabic yielded no Arabic tags: %v", tags)
	}
}

func TestAllocateForThreadCaps(t *testing.T) {
	messages := []domain.Message{
		{Index: 1, Text: "Opening tweet about artificial intelligence and startups"},
		{Index: 2, Text: "Middle tweet about business growth and the market"},
		{Index: 3, Text: "Closing tweet about future technology trends"},
	}

	AllocateForThread(messages, Options{})

	for i, msg := range messages {
		maxTags := interiorMessageCap
		if i == len(messages)-1 {
			maxTags = closingMessageCap
		}

		if len(msg.Hashtags) > maxTags {
			t.Errorf("message %d has %d tags, want at most %d", msg.Index, len(msg.Hashtags), maxTags)
		}
	}

	// thread-wide uniqueness
	seen := make(map[string]int)

	for _, msg := range messages {
		for _, tag := range msg.Hashtags {
			seen[tag]++
		}
	}

	for tag, count := range seen {
		if count > 1 {
			t.Errorf("tag %s appears on %d messages", tag, count)
		}
	}

	// only the opener carries the thread marker
	if len(messages[0].Hashtags) == 0 {
		t.Fatal("opener has no tags")
	}
}

func TestDetectTopicsFallsBackToGeneral(t *testing.T) {
	topics := DetectTopics("completely unrelated gibberish qwerty zxcvb")

	if len(topics) != 1 || topics[0] != TopicGeneral {
		t.Errorf("DetectTopics = %v, want [general]", topics)
	}
}

func TestDetectTopicsMatchesArabicKeywords(t *testing.T) {
	topics := DetectTopics(arabicAITText)

	found := false

	for _, topic := range topics {
		if topic == TopicAI {
			found = true
		}
	}

	if !found {
		t.Errorf("DetectTopics = %v, want ai topic for Arabic AI text", topics)
	}
}
