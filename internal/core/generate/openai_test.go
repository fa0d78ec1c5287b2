package generate

import (
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/threadforge/threadforge/internal/core/errors"
)

func TestParseRemoteThreadWrapper(t *testing.T) {
	content := `{"metadata":{"tweets_generated":2},"thread":[{"text":"first tweet","char_count":11},{"text":"second tweet","char_count":12}]}`

	messages, generated, err := parseRemoteThread(content)
	if err != nil {
		t.Fatalf("parseRemoteThread returned error: %v", err)
	}

	if generated != 2 {
		t.Errorf("generated = %d, want 2", generated)
	}

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}

	if messages[0].Text != "first tweet" || messages[0].Index != 1 {
		t.Errorf("first message = %+v", messages[0])
	}

	if messages[0].Hashtags == nil || messages[0].EmojiSuggestions == nil {
		t.Error("parsed messages must have non-nil enrichment slices")
	}
}

func TestParseRemoteThreadBareArray(t *testing.T) {
	content := `[{"text":"only tweet","char_count":10}]`

	messages, generated, err := parseRemoteThread(content)
	if err != nil {
		t.Fatalf("parseRemoteThread returned error: %v", err)
	}

	if generated != 1 || len(messages) != 1 {
		t.Errorf("got %d messages generated=%d, want 1/1", len(messages), generated)
	}
}

func TestParseRemoteThreadAlternateKey(t *testing.T) {
	content := `{"tweets":[{"text":"hidden under another key","char_count":24}]}`

	messages, _, err := parseRemoteThread(content)
	if err != nil {
		t.Fatalf("parseRemoteThread returned error: %v", err)
	}

	if len(messages) != 1 || messages[0].Text != "hidden under another key" {
		t.Errorf("messages = %+v", messages)
	}
}

func TestParseRemoteThreadCodeFence(t *testing.T) {
	content := "```json\n{\"thread\":[{\"text\":\"fenced tweet\",\"char_count\":12}]}\n```"

	messages, _, err := parseRemoteThread(content)
	if err != nil {
		t.Fatalf("parseRemoteThread returned error: %v", err)
	}

	if len(messages) != 1 || messages[0].Text != "fenced tweet" {
		t.Errorf("messages = %+v", messages)
	}
}

func TestParseRemoteThreadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "I could not produce JSON, sorry."},
		{name: "empty thread", content: `{"thread":[]}`},
		{name: "empty tweet text", content: `{"thread":[{"text":"  ","char_count":0}]}`},
		{name: "no array anywhere", content: `{"message":"done"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseRemoteThread(tt.content)
			if !errors.Is(err, apperrors.ErrMalformedResponse) {
				t.Errorf("error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestCapPromptSource(t *testing.T) {
	short := capPromptSource("short text")
	if short != "short text" {
		t.Errorf("capPromptSource(short) = %q", short)
	}

	long := make([]rune, 10000)
	for i := range long {
		long[i] = 'x'
	}

	capped := capPromptSource(string(long))
	if len([]rune(capped)) > 6000 {
		t.Errorf("capped prompt still %d runes", len([]rune(capped)))
	}
}

func TestFirstChoiceContent(t *testing.T) {
	if _, err := firstChoiceContent(openai.ChatCompletionResponse{}); !errors.Is(err, apperrors.ErrMalformedResponse) {
		t.Errorf("empty choices error = %v, want ErrMalformedResponse", err)
	}

	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "thread json"}},
		},
	}

	content, err := firstChoiceContent(resp)
	if err != nil {
		t.Fatalf("firstChoiceContent returned error: %v", err)
	}

	if content != "thread json" {
		t.Errorf("content = %q, want %q", content, "thread json")
	}
}
