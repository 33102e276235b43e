// Package telegram is the outbound side of the bot: it wraps the Bot API
// client behind the Notifier port the router depends on.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/santabot/santa-server-go/internal/errors"
)

type Notifier struct {
	api *tgbotapi.BotAPI
}

func NewNotifier(token string) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotify, "Failed to initialize bot API client", err)
	}
	log.Info().Str("bot_username", api.Self.UserName).Msg("Bot API client ready")
	return &Notifier{api: api}, nil
}

// Username returns the authenticated bot account name, used to build
// invite deep links.
func (n *Notifier) Username() string {
	return n.api.Self.UserName
}

// Send delivers one text message to a chat. Failures are returned to the
// caller; retries are not attempted.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return apperrors.Notify(chatID, err)
	}
	return nil
}
