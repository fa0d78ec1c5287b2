package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/threadforge/threadforge/internal/core/domain"
	db "github.com/threadforge/threadforge/internal/storage"
)

type dbUserPreference = db.UserPreference

// preferenceFor loads the stored defaults for a user, falling back to the
// built-in defaults when storage is unavailable.
func (b *Bot) preferenceFor(ctx context.Context, userID int64) *dbUserPreference {
	fallback := &dbUserPreference{
		UserID:          userID,
		Style:           domain.StyleProfessional,
		Language:        domain.LanguageAuto,
		IncludeHashtags: true,
		MaxTweets:       domain.DefaultThreadLength,
	}

	if b.database == nil {
		return fallback
	}

	pref, err := b.database.GetPreference(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64(LogFieldUserID, userID).Msg("failed to load preference")

		return fallback
	}

	return pref
}

func (b *Bot) optionsFor(ctx context.Context, userID int64) domain.Options {
	pref := b.preferenceFor(ctx, userID)

	return domain.Options{
		Language:        pref.Language,
		Style:           pref.Style,
		MaxTweets:       pref.MaxTweets,
		IncludeHashtags: domain.BoolPtr(pref.IncludeHashtags),
	}
}

func (b *Bot) updatePreference(ctx context.Context, msg *tgbotapi.Message, apply func(*dbUserPreference), confirmation string) {
	if b.database == nil {
		b.sendMessage(msg.Chat.ID, "Preferences need storage to be configured; using defaults for now.")

		return
	}

	pref := b.preferenceFor(ctx, msg.From.ID)
	apply(pref)

	if err := b.database.UpsertPreference(ctx, pref); err != nil {
		b.logger.Error().Err(err).Int64(LogFieldUserID, msg.From.ID).Msg("failed to save preference")
		b.sendMessage(msg.Chat.ID, "Could not save your preference, try again later.")

		return
	}

	b.sendMessage(msg.Chat.ID, confirmation)
}
