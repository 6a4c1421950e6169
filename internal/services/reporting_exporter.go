package services

import (
	"context"

	"github.com/applyflow/tracker/internal/logger"
	"github.com/applyflow/tracker/internal/metrics"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ReportingExporter periodically publishes the funnel snapshot as
// metrics. The dashboard polls /metrics; it never mutates state.
type ReportingExporter struct {
	reporting *CachedReporting
	cron      *cron.Cron
}

func NewReportingExporter(reporting *CachedReporting, cronSpec string) (*ReportingExporter, error) {

	e := &ReportingExporter{
		reporting: reporting,
		cron:      cron.New(),
	}

	_, err := e.cron.AddFunc(cronSpec, e.exportFunnelCounts)
	if err != nil {
		return nil, err
	}

	e.cron.Start()
	log.Info("reporting exporter started")
	return e, nil
}

func (e *ReportingExporter) Stop() {
	e.cron.Stop()
}

func (e *ReportingExporter) exportFunnelCounts() {

	counts, err := e.reporting.FunnelCounts(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get funnel counts: %v", err)
		return
	}

	for stage, count := range counts {
		metrics.FunnelStageGauge.WithLabelValues(string(stage)).Set(float64(count))
	}
}
