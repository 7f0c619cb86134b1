package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/i474232898/sixtyseconds/internal/digest"
)

// sender is the part of tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts messages to a single Telegram chat.
type TelegramNotifier struct {
	api    sender
	chatID int64
}

// NewTelegramNotifier connects to the Bot API with token. It fails if the token is rejected.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, msg digest.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := tgbotapi.NewMessage(n.chatID, msg.Text)
	m.DisableWebPagePreview = true

	if _, err := n.api.Send(m); err != nil {
		return fmt.Errorf("telegram send to %d: %w", n.chatID, err)
	}
	return nil
}
