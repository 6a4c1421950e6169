package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	IngestedApplicationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_applications_ingested_total",
			Help: "Total number of ingested job applications.",
		},
	)
	StageTransitionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_stage_transitions_total",
			Help: "Total number of funnel stage transitions.",
		},
		[]string{"to"},
	)
	FollowUpsSentCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_followups_sent_total",
			Help: "Total number of follow-up notifications sent.",
		},
	)
	FunnelStageGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracker_funnel_stage_applications",
			Help: "Current number of applications per funnel stage.",
		},
		[]string{"stage"},
	)
	IngestionStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "tracker_ingestion_step_duration_seconds",
			Help:       "Duration of each step in the ingestion process.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(IngestedApplicationsCounter)
	prometheus.MustRegister(StageTransitionsCounter)
	prometheus.MustRegister(FollowUpsSentCounter)
	prometheus.MustRegister(FunnelStageGauge)
	prometheus.MustRegister(IngestionStepDuration)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
