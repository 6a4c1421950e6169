package services

import (
	"context"
	"time"

	"github.com/applyflow/tracker/internal/domain/models"
	log "github.com/sirupsen/logrus"
)

type followUpRepository interface {
	Get(ctx context.Context, jobID string) (*models.Application, error)
	Save(ctx context.Context, app *models.Application) error
	DueFollowUps(ctx context.Context, now time.Time) ([]models.Application, error)
}

// FollowUpScheduler decides which records are due for a follow-up.
// "now" is always supplied by the caller, so the policy is pure and
// deterministically testable; the periodic driver lives in
// FollowUpDispatcher.
type FollowUpScheduler struct {
	apps  followUpRepository
	locks *KeyedMutex
}

func NewFollowUpScheduler(apps followUpRepository, locks *KeyedMutex) *FollowUpScheduler {
	return &FollowUpScheduler{apps: apps, locks: locks}
}

func (s *FollowUpScheduler) DueFollowUps(ctx context.Context, now time.Time) ([]models.Application, error) {
	return s.apps.DueFollowUps(ctx, now)
}

// MarkSent records that a follow-up went out. Idempotent: marking an
// already-sent record again is a no-op, not an error.
func (s *FollowUpScheduler) MarkSent(ctx context.Context, jobID string, when time.Time) error {

	unlock := s.locks.Lock(jobID)
	defer unlock()

	app, err := s.apps.Get(ctx, jobID)
	if err != nil {
		return err
	}

	if app.FollowUpSentAt != nil {
		log.Debugf("follow-up for application %v already marked sent", jobID)
		return nil
	}

	sentAt := when
	app.FollowUpSentAt = &sentAt
	app.AppendNote(when, "follow-up sent")

	return s.apps.Save(ctx, app)
}
