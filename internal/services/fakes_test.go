package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/applyflow/tracker/internal/domain/models"
	"github.com/applyflow/tracker/internal/repositories"
)

// fakeApplications is a map-backed stand-in for the gorm repository.
// The real SQL is exercised by the integration tests under tests/.
type fakeApplications struct {
	mu        sync.Mutex
	apps      map[string]models.Application
	stays     []models.StageTransition
	insertion []string
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{apps: make(map[string]models.Application)}
}

func (f *fakeApplications) Get(_ context.Context, jobID string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	app, ok := f.apps[jobID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &app, nil
}

func (f *fakeApplications) Create(_ context.Context, app *models.Application, when time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if app.CreatedAt.IsZero() {
		app.CreatedAt = when
	}
	f.apps[app.JobID] = *app
	f.insertion = append(f.insertion, app.JobID)
	f.stays = append(f.stays, models.StageTransition{JobID: app.JobID, Stage: app.Stage, EnteredAt: when})
	return nil
}

func (f *fakeApplications) Save(_ context.Context, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.apps[app.JobID] = *app
	return nil
}

func (f *fakeApplications) ChangeStage(_ context.Context, app *models.Application, when time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.apps[app.JobID] = *app
	for i := range f.stays {
		if f.stays[i].JobID == app.JobID && f.stays[i].LeftAt == nil {
			leftAt := when
			f.stays[i].LeftAt = &leftAt
		}
	}
	f.stays = append(f.stays, models.StageTransition{JobID: app.JobID, Stage: app.Stage, EnteredAt: when})
	return nil
}

func (f *fakeApplications) List(_ context.Context, filter repositories.Filter) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.Application
	for _, jobID := range f.insertion {
		app := f.apps[jobID]
		if len(filter.Stages) > 0 && !containsStage(filter.Stages, app.Stage) {
			continue
		}
		if filter.CompanyName != "" && app.CompanyName != filter.CompanyName {
			continue
		}
		if !filter.CreatedFrom.IsZero() && app.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && !app.CreatedAt.Before(filter.CreatedTo) {
			continue
		}
		result = append(result, app)
	}
	return result, nil
}

func containsStage(stages []models.Stage, stage models.Stage) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

func (f *fakeApplications) DueFollowUps(_ context.Context, now time.Time) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due []models.Application
	for _, app := range f.apps {
		if app.Stage == models.StageApplied && app.FollowUpAt != nil &&
			!app.FollowUpAt.After(now) && app.FollowUpSentAt == nil {
			due = append(due, app)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].FollowUpAt.Equal(*due[j].FollowUpAt) {
			return due[i].FollowUpAt.Before(*due[j].FollowUpAt)
		}
		return due[i].JobID < due[j].JobID
	})
	return due, nil
}
