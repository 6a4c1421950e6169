package services

import (
	"context"

	"github.com/applyflow/tracker/internal/domain/models"
)

type reportsRepository interface {
	CountByStage(ctx context.Context) (map[models.Stage]int64, error)
	CountReached(ctx context.Context, stage models.Stage) (int64, error)
	CountReachedBoth(ctx context.Context, from, to models.Stage) (int64, error)
	FinishedStays(ctx context.Context, stage models.Stage) ([]models.StageTransition, error)
}

// ReportingService is the read-only aggregation surface the dashboard
// polls. It never mutates state.
type ReportingService struct {
	reports reportsRepository
}

func NewReportingService(reports reportsRepository) *ReportingService {
	return &ReportingService{reports: reports}
}

func (s *ReportingService) FunnelCounts(ctx context.Context) (map[models.Stage]int64, error) {
	return s.reports.CountByStage(ctx)
}

// ConversionRate is the fraction of records that ever reached `from`
// which also reached `to`. Zero denominator yields 0, not an error.
func (s *ReportingService) ConversionRate(ctx context.Context, from, to models.Stage) (float64, error) {

	reached, err := s.reports.CountReached(ctx, from)
	if err != nil {
		return 0, err
	}
	if reached == 0 {
		return 0, nil
	}

	converted, err := s.reports.CountReachedBoth(ctx, from, to)
	if err != nil {
		return 0, err
	}

	return float64(converted) / float64(reached), nil
}

// AverageDaysInStage is the mean elapsed time between entering and
// leaving a stage, over records that have left it.
func (s *ReportingService) AverageDaysInStage(ctx context.Context, stage models.Stage) (float64, error) {

	stays, err := s.reports.FinishedStays(ctx, stage)
	if err != nil {
		return 0, err
	}
	if len(stays) == 0 {
		return 0, nil
	}

	var totalDays float64
	for _, stay := range stays {
		totalDays += stay.LeftAt.Sub(stay.EnteredAt).Hours() / 24
	}
	return totalDays / float64(len(stays)), nil
}
