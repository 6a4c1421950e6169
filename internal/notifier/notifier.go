package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/applyflow/tracker/internal/domain/models"
	"github.com/applyflow/tracker/internal/events"
	"github.com/applyflow/tracker/internal/logger"
	"github.com/applyflow/tracker/internal/metrics"
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Sender delivers one notification over some channel.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

type followUpMarker interface {
	MarkSent(ctx context.Context, jobID string, when time.Time) error
}

// Notifier reacts to bus events: newly ingested applications are
// announced, and due follow-ups are sent and only then marked, so a
// failed delivery stays due for the next dispatch.
type Notifier struct {
	sender    Sender
	scheduler followUpMarker
	bus       EventBus.Bus
}

func NewNotifier(bus EventBus.Bus, sender Sender, scheduler followUpMarker) (*Notifier, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if sender == nil {
		return nil, errors.New("sender is nil")
	}

	if scheduler == nil {
		return nil, errors.New("scheduler is nil")
	}

	n := &Notifier{sender: sender, scheduler: scheduler, bus: bus}

	if err := bus.Subscribe(events.FollowUpDueTopic, n.onFollowUpDue); err != nil {
		return nil, err
	}

	if err := bus.Subscribe(events.ApplicationIngestedTopic, n.onApplicationIngested); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notifier) onFollowUpDue(event events.FollowUpDue) {

	ctx := context.Background()
	app := event.Application

	subject, body := followUpMessage(app)
	if err := n.sender.Send(ctx, subject, body); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotify).
			Errorf("failed to send follow-up for application %v: %v", app.JobID, err)
		return
	}

	if err := n.scheduler.MarkSent(ctx, app.JobID, time.Now()); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to mark follow-up as sent for application %v: %v", app.JobID, err)
		return
	}

	metrics.FollowUpsSentCounter.Inc()
	log.Infof("follow-up sent for application %v", app.JobID)
}

func (n *Notifier) onApplicationIngested(event events.ApplicationIngested) {

	subject, body := ingestedMessage(event)
	if err := n.sender.Send(context.Background(), subject, body); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotify).
			Errorf("failed to announce application %v: %v", event.JobID, err)
		return
	}

	log.Infof("announced ingested application %v", event.JobID)
}

func followUpMessage(app models.Application) (string, string) {
	appliedOn := ""
	if app.AppliedAt != nil {
		appliedOn = app.AppliedAt.Format("2006-01-02")
	}
	subject := fmt.Sprintf("Follow up: %v at %v", app.JobTitle, app.CompanyName)
	body := fmt.Sprintf("Time to follow up on %v at %v (applied %v).\n%v",
		app.JobTitle, app.CompanyName, appliedOn, app.JobURL)
	return subject, body
}

func ingestedMessage(event events.ApplicationIngested) (string, string) {
	subject := fmt.Sprintf("New application tracked: %v at %v", event.JobTitle, event.CompanyName)
	body := fmt.Sprintf("Now tracking %v at %v (stage: %v).\n%v",
		event.JobTitle, event.CompanyName, event.Stage, event.JobURL)
	return subject, body
}
