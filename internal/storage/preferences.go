package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/threadforge/threadforge/internal/core/domain"
)

// UserPreference stores per-user generation defaults for the bot front-end.
type UserPreference struct {
	UserID          int64
	Style           domain.Style
	Language        domain.Language
	IncludeHashtags bool
	MaxTweets       int
	UpdatedAt       time.Time
}

// GetPreference returns the stored preference for a user, or defaults when
// the user has never set one.
func (db *DB) GetPreference(ctx context.Context, userID int64) (*UserPreference, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT user_id, style, language, include_hashtags, max_tweets, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID)

	var (
		pref     UserPreference
		style    string
		language string
	)

	err := row.Scan(&pref.UserID, &style, &language, &pref.IncludeHashtags, &pref.MaxTweets, &pref.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return defaultPreference(userID), nil
		}

		return nil, fmt.Errorf("select preference: %w", err)
	}

	pref.Style = domain.Style(style)
	pref.Language = domain.Language(language)

	return &pref, nil
}

// UpsertPreference stores or updates a user's generation defaults.
func (db *DB) UpsertPreference(ctx context.Context, pref *UserPreference) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, style, language, include_hashtags, max_tweets, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id) DO UPDATE SET
			style = EXCLUDED.style,
			language = EXCLUDED.language,
			include_hashtags = EXCLUDED.include_hashtags,
			max_tweets = EXCLUDED.max_tweets,
			updated_at = now()`,
		pref.UserID, string(pref.Style), string(pref.Language), pref.IncludeHashtags, pref.MaxTweets,
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}

	return nil
}

func defaultPreference(userID int64) *UserPreference {
	return &UserPreference{
		UserID:          userID,
		Style:           domain.StyleProfessional,
		Language:        domain.LanguageAuto,
		IncludeHashtags: true,
		MaxTweets:       domain.DefaultThreadLength,
	}
}
