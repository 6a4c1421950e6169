package services

import (
	"context"
	"errors"
	"time"

	"github.com/applyflow/tracker/internal/domain/models"
	"github.com/applyflow/tracker/internal/metrics"
	"github.com/applyflow/tracker/internal/repositories"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type applicationRepository interface {
	Get(ctx context.Context, jobID string) (*models.Application, error)
	Create(ctx context.Context, app *models.Application, when time.Time) error
	Save(ctx context.Context, app *models.Application) error
	ChangeStage(ctx context.Context, app *models.Application, when time.Time) error
	List(ctx context.Context, filter repositories.Filter) ([]models.Application, error)
}

// IngestRecord is what the ingestion side delivers: board identity plus
// generated content. Stage is a funnel stage token and optional.
type IngestRecord struct {
	JobID          string `validate:"required"`
	CompanyName    string
	JobTitle       string
	JobURL         string `validate:"omitempty,url"`
	RequiredSkills []string
	CoverLetter    string
	InterviewPrep  string
	Stage          string
}

type FunnelService struct {
	apps          applicationRepository
	locks         *KeyedMutex
	followUpDelay time.Duration
	validate      *validator.Validate
}

func NewFunnelService(apps applicationRepository, locks *KeyedMutex, followUpDelay time.Duration) *FunnelService {
	return &FunnelService{
		apps:          apps,
		locks:         locks,
		followUpDelay: followUpDelay,
		validate:      validator.New(),
	}
}

// Upsert creates a record on first sight of a job_id and merges
// non-empty fields into it afterwards. Stage movement is UpdateStage's
// job: an existing record's stage is never touched here, and new
// records always start in the "new" stage.
func (s *FunnelService) Upsert(ctx context.Context, record IngestRecord) (*models.Application, error) {

	if err := s.validate.Struct(record); err != nil {
		return nil, &models.ValidationError{Reason: err.Error()}
	}

	if record.Stage != "" {
		if _, err := models.ToStage(record.Stage); err != nil {
			return nil, &models.ValidationError{Reason: err.Error()}
		}
	}

	unlock := s.locks.Lock(record.JobID)
	defer unlock()

	existing, err := s.apps.Get(ctx, record.JobID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		app := models.NewApplication(record.JobID, record.CompanyName, record.JobTitle,
			record.JobURL, record.RequiredSkills)
		app.CoverLetter = record.CoverLetter
		app.InterviewPrep = record.InterviewPrep

		if err := s.apps.Create(ctx, app, time.Now()); err != nil {
			return nil, err
		}
		return app, nil
	}

	mergeNonEmpty(existing, record)
	if err := s.apps.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func mergeNonEmpty(app *models.Application, record IngestRecord) {
	if record.CompanyName != "" {
		app.CompanyName = record.CompanyName
	}
	if record.JobTitle != "" {
		app.JobTitle = record.JobTitle
	}
	if record.JobURL != "" {
		app.JobURL = record.JobURL
	}
	if len(record.RequiredSkills) > 0 {
		app.SetSkills(record.RequiredSkills)
	}
	if record.CoverLetter != "" {
		app.CoverLetter = record.CoverLetter
	}
	if record.InterviewPrep != "" {
		app.InterviewPrep = record.InterviewPrep
	}
}

// UpdateStage validates and applies a funnel transition. Entering
// "applied" stamps applied_date (first time only) and schedules the
// follow-up; entering any later stage clears a pending follow-up.
func (s *FunnelService) UpdateStage(ctx context.Context, jobID string, newStage models.Stage, when time.Time) error {

	if _, err := models.ToStage(string(newStage)); err != nil {
		return &models.ValidationError{Reason: err.Error()}
	}

	unlock := s.locks.Lock(jobID)
	defer unlock()

	app, err := s.apps.Get(ctx, jobID)
	if err != nil {
		return err
	}

	if !app.Stage.CanTransitionTo(newStage) {
		return &models.InvalidTransitionError{JobID: jobID, From: app.Stage, To: newStage}
	}

	app.Stage = newStage

	switch newStage {
	case models.StageApplied:
		if app.AppliedAt == nil {
			appliedAt := when
			followUpAt := when.Add(s.followUpDelay)
			app.AppliedAt = &appliedAt
			app.FollowUpAt = &followUpAt
		}
	case models.StageInterviewed, models.StageOffered, models.StageRejected:
		app.FollowUpAt = nil
	}

	if err := s.apps.ChangeStage(ctx, app, when); err != nil {
		return err
	}

	metrics.StageTransitionsCounter.WithLabelValues(string(newStage)).Inc()
	log.Infof("application %v moved to stage %v", jobID, newStage)
	return nil
}

func (s *FunnelService) Get(ctx context.Context, jobID string) (*models.Application, error) {
	return s.apps.Get(ctx, jobID)
}

func (s *FunnelService) List(ctx context.Context, filter repositories.Filter) ([]models.Application, error) {
	return s.apps.List(ctx, filter)
}
