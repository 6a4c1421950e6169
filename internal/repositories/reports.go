package repositories

import (
	"context"

	"github.com/applyflow/tracker/internal/domain/models"
	"gorm.io/gorm"
)

type Reports struct {
	db *gorm.DB
}

func NewReportsRepository(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

func (repo *Reports) CountByStage(ctx context.Context) (map[models.Stage]int64, error) {

	var rows []struct {
		Stage models.Stage
		Count int64
	}
	err := repo.db.WithContext(ctx).Model(&models.Application{}).
		Select("stage, COUNT(*) as count").
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Stage]int64, len(models.Stages()))
	for _, stage := range models.Stages() {
		counts[stage] = 0
	}
	for _, row := range rows {
		counts[row.Stage] = row.Count
	}
	return counts, nil
}

// CountReached counts applications that ever entered a stage. A stay
// row is opened on every entry, so history covers current stages too.
func (repo *Reports) CountReached(ctx context.Context, stage models.Stage) (int64, error) {

	var count int64
	err := repo.db.WithContext(ctx).Model(&models.StageTransition{}).
		Where("stage = ?", stage).
		Distinct("job_id").
		Count(&count).Error
	return count, err
}

func (repo *Reports) CountReachedBoth(ctx context.Context, from, to models.Stage) (int64, error) {

	var count int64
	err := repo.db.WithContext(ctx).Model(&models.StageTransition{}).
		Where("stage = ?", to).
		Where("job_id IN (?)", repo.db.Model(&models.StageTransition{}).
			Select("job_id").Where("stage = ?", from)).
		Distinct("job_id").
		Count(&count).Error
	return count, err
}

// FinishedStays returns closed stays in a stage, for duration statistics.
func (repo *Reports) FinishedStays(ctx context.Context, stage models.Stage) ([]models.StageTransition, error) {

	var stays []models.StageTransition
	err := repo.db.WithContext(ctx).
		Where("stage = ? AND left_at IS NOT NULL", stage).
		Find(&stays).Error
	if err != nil {
		return nil, err
	}
	return stays, nil
}
