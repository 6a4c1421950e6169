package notifier

import (
	"context"
	"fmt"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

type TelegramSender struct {
	api    *botApi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	return &TelegramSender{api: api, chatID: chatID}, nil
}

func (t *TelegramSender) Send(_ context.Context, subject, body string) error {
	msg := botApi.NewMessage(t.chatID, fmt.Sprintf("%v\n\n%v", subject, body))
	_, err := t.api.Send(msg)
	return err
}
