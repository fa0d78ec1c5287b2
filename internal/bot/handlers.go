package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/threadforge/threadforge/internal/core/domain"
	"github.com/threadforge/threadforge/internal/core/generate"
)

const helpText = `Send me prose and I turn it into a tweet thread.

Commands:
/thread <text> - generate a thread from text
/style <educational|technical|concise|engaging|professional> - set your default style
/language <auto|ar|en|both> - set the output language
/tweets <1-20> - set the thread length
/hashtags <on|off> - toggle hashtag enrichment
/settings - show your current defaults`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case CmdStart, CmdHelp:
		b.sendMessage(msg.Chat.ID, helpText)
	case CmdThread:
		b.generateAndReply(ctx, msg, msg.CommandArguments())
	case CmdStyle:
		b.handleStyle(ctx, msg)
	case CmdLanguage:
		b.handleLanguage(ctx, msg)
	case CmdTweets:
		b.handleTweets(ctx, msg)
	case CmdHashtags:
		b.handleHashtags(ctx, msg)
	case CmdSettings:
		b.handleSettings(ctx, msg)
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) generateAndReply(ctx context.Context, msg *tgbotapi.Message, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		b.sendMessage(msg.Chat.ID, "Send some text to turn into a thread, e.g. /thread Your article here.")

		return
	}

	opts := b.optionsFor(ctx, msg.From.ID)

	genCtx, cancel := context.WithTimeout(ctx, b.cfg.GenerateTimeout)
	defer cancel()

	result, err := b.orchestrator.Generate(genCtx, text, opts)
	if err != nil {
		genErr := generate.AsGenerationError(err)
		b.logger.Warn().Err(err).Int64(LogFieldUserID, msg.From.ID).Msg("generation failed")
		b.sendMessage(msg.Chat.ID, "Could not build a thread: "+genErr.Message)

		return
	}

	b.sendThread(msg.Chat.ID, result)

	if b.database != nil {
		if _, err := b.database.SaveThread(ctx, text, opts, result); err != nil {
			b.logger.Error().Err(err).Msg("failed to persist thread")
		}
	}
}

func (b *Bot) sendThread(chatID int64, result *domain.ThreadResult) {
	header := fmt.Sprintf("%s (score %.1f)", result.ThreadSummary, result.EngagementScore)
	b.sendMessage(chatID, header)

	for _, tweet := range result.Thread {
		text := tweet.Text

		if len(tweet.Hashtags) > 0 {
			text += "\n" + strings.Join(tweet.Hashtags, " ")
		}

		b.sendMessage(chatID, text)
		time.Sleep(SleepBetweenTweets)
	}
}

func (b *Bot) handleStyle(ctx context.Context, msg *tgbotapi.Message) {
	style := domain.Style(strings.ToLower(strings.TrimSpace(msg.CommandArguments())))
	if !style.Valid() {
		b.sendMessage(msg.Chat.ID, "Usage: /style educational|technical|concise|engaging|professional")

		return
	}

	b.updatePreference(ctx, msg, func(pref *dbUserPreference) {
		pref.Style = style
	}, "Style set to "+string(style))
}

func (b *Bot) handleLanguage(ctx context.Context, msg *tgbotapi.Message) {
	lang := domain.Language(strings.ToLower(strings.TrimSpace(msg.CommandArguments())))

	switch lang {
	case domain.LanguageAuto, domain.LanguageArabic, domain.LanguageEnglish, domain.LanguageBoth:
	default:
		b.sendMessage(msg.Chat.ID, "Usage: /language auto|ar|en|both")

		return
	}

	b.updatePreference(ctx, msg, func(pref *dbUserPreference) {
		pref.Language = lang
	}, "Language set to "+string(lang))
}

func (b *Bot) handleTweets(ctx context.Context, msg *tgbotapi.Message) {
	n, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || n < domain.MinThreadLength || n > domain.MaxThreadLength {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Usage: /tweets <%d-%d>", domain.MinThreadLength, domain.MaxThreadLength))

		return
	}

	b.updatePreference(ctx, msg, func(pref *dbUserPreference) {
		pref.MaxTweets = n
	}, fmt.Sprintf("Thread length set to %d", n))
}

func (b *Bot) handleHashtags(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	if arg != "on" && arg != "off" {
		b.sendMessage(msg.Chat.ID, "Usage: /hashtags on|off")

		return
	}

	b.updatePreference(ctx, msg, func(pref *dbUserPreference) {
		pref.IncludeHashtags = arg == "on"
	}, "Hashtags "+arg)
}

func (b *Bot) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	pref := b.preferenceFor(ctx, msg.From.ID)

	hashtags := "off"
	if pref.IncludeHashtags {
		hashtags = "on"
	}

	b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"Style: %s\nLanguage: %s\nTweets: %d\nHashtags: %s",
		pref.Style, pref.Language, pref.MaxTweets, hashtags,
	))
}
