package services

import (
	"context"
	"time"

	"github.com/applyflow/tracker/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
)

const funnelCountsCacheKey = "funnel_counts"

// CachedReporting memoizes funnel counts for the polling dashboard.
// Counts only go stale for the cache TTL; rate and duration queries are
// cheap enough to pass through.
type CachedReporting struct {
	reporting *ReportingService
	cache     *gocache.Cache
}

func NewCachedReporting(reporting *ReportingService) *CachedReporting {
	return &CachedReporting{reporting: reporting, cache: gocache.New(time.Minute, 5*time.Minute)}
}

func (c *CachedReporting) FunnelCounts(ctx context.Context) (map[models.Stage]int64, error) {
	if value, found := c.cache.Get(funnelCountsCacheKey); found {
		return value.(map[models.Stage]int64), nil
	}

	counts, err := c.reporting.FunnelCounts(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(funnelCountsCacheKey, counts, gocache.DefaultExpiration)
	return counts, nil
}

func (c *CachedReporting) ConversionRate(ctx context.Context, from, to models.Stage) (float64, error) {
	return c.reporting.ConversionRate(ctx, from, to)
}

func (c *CachedReporting) AverageDaysInStage(ctx context.Context, stage models.Stage) (float64, error) {
	return c.reporting.AverageDaysInStage(ctx, stage)
}
