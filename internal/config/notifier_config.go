package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type notifierChannel string

const (
	ChannelTelegram notifierChannel = "telegram"
	ChannelGmail    notifierChannel = "gmail"
	ChannelLog      notifierChannel = "log"
)

type NotifierConfig struct {
	Channel          notifierChannel `mapstructure:"channel"`
	TgToken          string          `mapstructure:"tg_token"`
	TgChatID         int64           `mapstructure:"tg_chat_id"`
	GmailCredentials string          `mapstructure:"gmail_credentials"`
	GmailFrom        string          `mapstructure:"gmail_from"`
	GmailTo          string          `mapstructure:"gmail_to"`
}

func (config NotifierConfig) validate() error {

	switch config.Channel {
	case ChannelTelegram:
		if config.TgToken == "" {
			return fmt.Errorf("missing variable: tg_token")
		}
		if config.TgChatID == 0 {
			return fmt.Errorf("missing variable: tg_chat_id")
		}
	case ChannelGmail:
		if config.GmailCredentials == "" {
			return fmt.Errorf("missing variable: gmail_credentials")
		}
		if config.GmailTo == "" {
			return fmt.Errorf("missing variable: gmail_to")
		}
	case ChannelLog, "":
	default:
		return fmt.Errorf("unknown notifier channel: %v", config.Channel)
	}

	return nil
}

func (config NotifierConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("notifier.channel", "NOTIFIER_CHANNEL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.tg_token", "TG_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.tg_chat_id", "TG_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.gmail_credentials", "GMAIL_CREDENTIALS"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.gmail_from", "GMAIL_FROM"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.gmail_to", "GMAIL_TO"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
