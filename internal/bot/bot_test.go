package bot

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/threadforge/threadforge/internal/core/domain"
	"github.com/threadforge/threadforge/internal/platform/config"
)

func newTestBot(adminIDs []int64) *Bot {
	logger := zerolog.Nop()

	return &Bot{
		cfg:    &config.Config{AdminIDs: adminIDs},
		logger: &logger,
	}
}

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		name     string
		adminIDs []int64
		userID   int64
		want     bool
	}{
		{"empty list permits everyone", nil, 42, true},
		{"listed admin", []int64{7, 42}, 42, true},
		{"unlisted user", []int64{7}, 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBot(tt.adminIDs)

			require.Equal(t, tt.want, b.isAllowed(tt.userID))
		})
	}
}

func TestPreferenceForWithoutStorage(t *testing.T) {
	b := newTestBot(nil)

	pref := b.preferenceFor(context.Background(), 99)

	require.NotNil(t, pref)
	require.Equal(t, int64(99), pref.UserID)
	require.Equal(t, domain.StyleProfessional, pref.Style)
	require.Equal(t, domain.LanguageAuto, pref.Language)
	require.True(t, pref.IncludeHashtags)
	require.Equal(t, domain.DefaultThreadLength, pref.MaxTweets)
}

func TestOptionsForCarriesPreference(t *testing.T) {
	b := newTestBot(nil)

	opts := b.optionsFor(context.Background(), 7)

	require.Equal(t, domain.StyleProfessional, opts.Style)
	require.Equal(t, domain.LanguageAuto, opts.Language)
	require.Equal(t, domain.DefaultThreadLength, opts.MaxTweets)
	require.True(t, opts.HashtagsEnabled())
}
