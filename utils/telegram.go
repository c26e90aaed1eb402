package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tourdesk/logging"
)

// ChatNotifier posts a short HTML-formatted message to the staff chat.
type ChatNotifier interface {
	Notify(ctx context.Context, text string) error
}

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authenticates the bot token against the Bot API.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logging.Info().Str("bot", bot.Self.UserName).Msg("telegram notifier ready")
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) error { return nil }

// NewChatNotifier falls back to a no-op notifier when Telegram is not
// configured or the token is rejected.
func NewChatNotifier(token string, chatID int64) ChatNotifier {
	if token == "" || chatID == 0 {
		return noopNotifier{}
	}
	n, err := NewTelegramNotifier(token, chatID)
	if err != nil {
		logging.Error().Err(err).Msg("telegram disabled")
		return noopNotifier{}
	}
	return n
}

func ContactChatMessage(name, phone, email, message string) string {
	return fmt.Sprintf("<b>New contact request</b>\n%s\n%s\n%s\n\n%s",
		html.EscapeString(name), html.EscapeString(phone), html.EscapeString(email), html.EscapeString(truncate(message, 1500)))
}

func ReviewChatMessage(author, text string, rating *int) string {
	stars := ""
	if rating != nil {
		stars = " " + strings.Repeat("★", *rating)
	}
	return fmt.Sprintf("<b>New review awaiting moderation</b>%s\n%s: %s",
		stars, html.EscapeString(author), html.EscapeString(truncate(text, 1500)))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
