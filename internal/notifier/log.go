package notifier

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogSender writes notifications to the log. Used when no delivery
// channel is configured, e.g. in local runs.
type LogSender struct{}

func (LogSender) Send(_ context.Context, subject, body string) error {
	log.Infof("%v: %v", subject, body)
	return nil
}
