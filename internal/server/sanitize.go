package server

import (
	"strings"
	"unicode"

	"github.com/threadforge/threadforge/internal/core/errors"
	"github.com/threadforge/threadforge/internal/core/textstat"
)

// SanitizeInput strips control characters (keeping newlines and tabs),
// trims surrounding whitespace, and enforces the configured length cap.
func SanitizeInput(text string, maxChars int) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}

		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, text)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", errors.ErrEmptyInput
	}

	if maxChars > 0 && textstat.Count(cleaned) > maxChars {
		return "", errors.ErrInputTooLong
	}

	return cleaned, nil
}
