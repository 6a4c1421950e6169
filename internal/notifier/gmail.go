package notifier

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type GmailSender struct {
	service *gmail.Service
	from    string
	to      string
}

func NewGmailSender(ctx context.Context, credentialsFile, from, to string) (*GmailSender, error) {

	service, err := gmail.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gmail.GmailSendScope))
	if err != nil {
		return nil, err
	}

	return &GmailSender{service: service, from: from, to: to}, nil
}

func (g *GmailSender) Send(_ context.Context, subject, body string) error {

	raw := fmt.Sprintf("From: %v\r\nTo: %v\r\nSubject: %v\r\n\r\n%v",
		g.from, g.to, subject, body)

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := g.service.Users.Messages.Send("me", message).Do()
	return err
}
