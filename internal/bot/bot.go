// Package bot is a Telegram front-end for the thread generation pipeline.
// Users send prose (or a /thread command) and receive the numbered tweets
// back, one message per tweet.
package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/threadforge/threadforge/internal/core/generate"
	"github.com/threadforge/threadforge/internal/platform/config"
	db "github.com/threadforge/threadforge/internal/storage"
)

// Message delay constants.
const (
	// SleepBetweenTweets is the delay between sending tweets to avoid rate limits.
	SleepBetweenTweets = 300 * time.Millisecond
	updateTimeout      = 60
)

// Command names.
const (
	CmdStart    = "start"
	CmdHelp     = "help"
	CmdThread   = "thread"
	CmdStyle    = "style"
	CmdLanguage = "language"
	CmdTweets   = "tweets"
	CmdHashtags = "hashtags"
	CmdSettings = "settings"
)

// Log field names.
const (
	LogFieldUserID  = "user_id"
	LogFieldCommand = "command"
)

type Bot struct {
	cfg          *config.Config
	orchestrator *generate.Orchestrator
	database     *db.DB
	api          *tgbotapi.BotAPI
	logger       *zerolog.Logger
}

// New creates the bot. database may be nil, in which case per-user
// preferences fall back to defaults and history is not persisted.
func New(cfg *config.Config, orchestrator *generate.Orchestrator, database *db.DB, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}

	return &Bot{
		cfg:          cfg,
		orchestrator: orchestrator,
		database:     database,
		api:          api,
		logger:       logger,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("bot run context canceled: %w", ctx.Err())
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			if !b.isAllowed(update.Message.From.ID) {
				b.logger.Warn().Int64(LogFieldUserID, update.Message.From.ID).Msg("Unauthorized access attempt")
				continue
			}

			b.handleMessage(ctx, update.Message)
		}
	}
}

// isAllowed permits everyone when no admin list is configured.
func (b *Bot) isAllowed(userID int64) bool {
	if len(b.cfg.AdminIDs) == 0 {
		return true
	}

	for _, id := range b.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}

	return false
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.logger.Info().Str(LogFieldCommand, msg.Command()).Int64(LogFieldUserID, msg.From.ID).Msg("Handling command")
		b.handleCommand(ctx, msg)

		return
	}

	// Plain prose is treated as thread input.
	b.generateAndReply(ctx, msg, msg.Text)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}
