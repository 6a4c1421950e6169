package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/applyflow/tracker/internal/domain/models"
	"gorm.io/gorm"
)

type Applications struct {
	db *gorm.DB
}

func NewApplicationsRepository(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

func (repo *Applications) Get(ctx context.Context, jobID string) (*models.Application, error) {

	var app models.Application
	if err := repo.db.WithContext(ctx).First(&app, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// Create stores a new record and opens its first stage stay in one transaction.
func (repo *Applications) Create(ctx context.Context, app *models.Application, when time.Time) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		return tx.Create(&models.StageTransition{
			JobID:     app.JobID,
			Stage:     app.Stage,
			EnteredAt: when,
		}).Error
	})
}

func (repo *Applications) Save(ctx context.Context, app *models.Application) error {
	return repo.db.WithContext(ctx).Save(app).Error
}

// ChangeStage persists a stage move: saves the record, closes the open
// stay and opens a new one, all in one transaction so readers never
// observe a record and its history out of step.
func (repo *Applications) ChangeStage(ctx context.Context, app *models.Application, when time.Time) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(app).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.StageTransition{}).
			Where("job_id = ? AND left_at IS NULL", app.JobID).
			Update("left_at", when).Error; err != nil {
			return err
		}

		return tx.Create(&models.StageTransition{
			JobID:     app.JobID,
			Stage:     app.Stage,
			EnteredAt: when,
		}).Error
	})
}

type Filter struct {
	Stages      []models.Stage
	CompanyName string
	CreatedFrom time.Time
	CreatedTo   time.Time
	SortBy      string
}

var sortableColumns = map[string]string{
	"company_name": "company_name",
	"job_title":    "job_title",
	"applied_at":   "applied_at",
	"created_at":   "created_at",
}

func (repo *Applications) List(ctx context.Context, filter Filter) ([]models.Application, error) {

	query := repo.db.WithContext(ctx).Model(&models.Application{})

	if len(filter.Stages) > 0 {
		query = query.Where("stage IN ?", filter.Stages)
	}
	if filter.CompanyName != "" {
		query = query.Where("company_name = ?", filter.CompanyName)
	}
	if !filter.CreatedFrom.IsZero() {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		query = query.Where("created_at < ?", filter.CreatedTo)
	}

	if column, ok := sortableColumns[filter.SortBy]; ok {
		query = query.Order(column + ", job_id")
	} else {
		query = query.Order("created_at, job_id")
	}

	var apps []models.Application
	if err := query.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// DueFollowUps returns applied-stage records whose follow-up date has
// passed and no follow-up has been sent yet. Oldest-due first, ties
// broken by job_id for determinism.
func (repo *Applications) DueFollowUps(ctx context.Context, now time.Time) ([]models.Application, error) {

	var apps []models.Application
	err := repo.db.WithContext(ctx).
		Where("stage = ? AND follow_up_at IS NOT NULL AND follow_up_at <= ? AND follow_up_sent_at IS NULL",
			models.StageApplied, now).
		Order("follow_up_at, job_id").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}
