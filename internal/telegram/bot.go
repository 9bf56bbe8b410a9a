package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smallbiznis/giftcert/internal/config"
	"go.uber.org/zap"
)

// Bot wraps the Telegram Bot API client for outbound sends and webhook
// registration.
type Bot struct {
	api *tgbotapi.BotAPI
	log *zap.Logger
}

func NewBot(cfg config.Config, log *zap.Logger) (*Bot, error) {
	if cfg.Telegram.Token == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &Bot{
		api: api,
		log: log.Named("telegram.bot"),
	}, nil
}

func (b *Bot) SendText(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) SendTextWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendDocument(chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	_, err := b.api.Send(doc)
	return err
}

// Send implements the artifact delivery contract. The owner reference is
// the decimal chat id recorded at intake. The bot API client is not
// context-aware, so the deadline is checked before the outbound call.
func (b *Bot) Send(ctx context.Context, ownerRef string, artifact []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(ownerRef, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid owner ref %q: %w", ownerRef, err)
	}
	return b.SendDocument(chatID, filename, artifact)
}

func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	if _, err := b.api.Request(wh); err != nil {
		return err
	}
	b.log.Info("telegram webhook registered", zap.String("url", url))
	return nil
}

func (b *Bot) DeleteWebhook() error {
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}
