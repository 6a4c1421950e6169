package services

import (
	"context"
	"time"

	"github.com/applyflow/tracker/internal/events"
	"github.com/applyflow/tracker/internal/logger"
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// FollowUpDispatcher periodically asks the scheduler for due records
// and publishes them on the bus. Sending and mark_sent bookkeeping
// belong to the notifier side.
type FollowUpDispatcher struct {
	scheduler *FollowUpScheduler
	bus       EventBus.Bus
	cron      *cron.Cron
}

func NewFollowUpDispatcher(scheduler *FollowUpScheduler, bus EventBus.Bus, cronSpec string) (*FollowUpDispatcher, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	d := &FollowUpDispatcher{
		scheduler: scheduler,
		bus:       bus,
		cron:      cron.New(),
	}

	_, err := d.cron.AddFunc(cronSpec, d.dispatchDueFollowUps)
	if err != nil {
		return nil, err
	}

	d.cron.Start()
	log.Infof("follow-up dispatcher started, cron spec: %v", cronSpec)
	return d, nil
}

func (d *FollowUpDispatcher) Stop() {
	d.cron.Stop()
}

func (d *FollowUpDispatcher) dispatchDueFollowUps() {

	due, err := d.scheduler.DueFollowUps(context.Background(), time.Now())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get due follow-ups: %v", err)
		return
	}

	for _, app := range due {
		d.bus.Publish(events.FollowUpDueTopic, events.FollowUpDue{Application: app})
	}

	if len(due) > 0 {
		log.Infof("dispatched %v due follow-ups", len(due))
	}
}
