// Package telegram adapts the Telegram bot API to the channel contract.
package telegram

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pmchrislee/ai-agent/internal/channel"
)

type Adapter struct {
	bot      *tgbotapi.BotAPI
	token    string
	incoming chan *channel.Message
	logger   *slog.Logger
}

func New(token string, logger *slog.Logger) *Adapter {
	return &Adapter{
		token:    token,
		incoming: make(chan *channel.Message, 100),
		logger:   logger,
	}
}

func (t *Adapter) Name() string {
	return "telegram"
}

func (t *Adapter) IsEnabled() bool {
	return t.token != ""
}

func (t *Adapter) Start(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return err
	}
	t.bot = bot
	t.logger.Info("telegram adapter connected", "bot", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				t.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || update.Message.Text == "" {
					continue
				}
				t.incoming <- &channel.Message{
					ID:      strconv.Itoa(update.Message.MessageID),
					Channel: "telegram",
					UserID:  strconv.FormatInt(update.Message.Chat.ID, 10),
					Content: update.Message.Text,
					Metadata: map[string]string{
						"from_id": strconv.FormatInt(update.Message.From.ID, 10),
					},
					Timestamp: int64(update.Message.Date),
				}
			}
		}
	}()
	return nil
}

func (t *Adapter) Stop() error {
	close(t.incoming)
	return nil
}

func (t *Adapter) SendMessage(userID string, resp *channel.Response) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return err
	}
	reply := tgbotapi.NewMessage(chatID, resp.Content)
	_, err = t.bot.Send(reply)
	return err
}

func (t *Adapter) Incoming() <-chan *channel.Message {
	return t.incoming
}
