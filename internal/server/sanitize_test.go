package server

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/threadforge/threadforge/internal/core/errors"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		max     int
		want    string
		wantErr error
	}{
		{name: "plain text", text: "hello world", max: 100, want: "hello world"},
		{name: "trims whitespace", text: "  padded  ", max: 100, want: "padded"},
		{name: "keeps newlines and tabs", text: "line one\n\tline two", max: 100, want: "line one\n\tline two"},
		{name: "strips control characters", text: "clean\x00\x07text", max: 100, want: "cleantext"},
		{name: "empty", text: "", max: 100, wantErr: apperrors.ErrEmptyInput},
		{name: "control chars only", text: "\x00\x01\x02", max: 100, wantErr: apperrors.ErrEmptyInput},
		{name: "over the cap", text: strings.Repeat("a", 50), max: 10, wantErr: apperrors.ErrInputTooLong},
		{name: "no cap", text: strings.Repeat("a", 50), max: 0, want: strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.text, tt.max)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("SanitizeInput = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeInputCountsGraphemes(t *testing.T) {
	// ten emoji are ten units, not forty bytes
	text := strings.Repeat("🎉", 10)

	got, err := SanitizeInput(text, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != text {
		t.Errorf("SanitizeInput altered emoji text")
	}

	if _, err := SanitizeInput(text, 9); !errors.Is(err, apperrors.ErrInputTooLong) {
		t.Errorf("error = %v, want ErrInputTooLong", err)
	}
}
