package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/applyflow/tracker/internal/clients/boards"
	"github.com/applyflow/tracker/internal/clients/gemini"
	"github.com/applyflow/tracker/internal/config"
	"github.com/applyflow/tracker/internal/logger"
	"github.com/applyflow/tracker/internal/metrics"
	"github.com/applyflow/tracker/internal/notifier"
	"github.com/applyflow/tracker/internal/repositories"
	"github.com/applyflow/tracker/internal/services"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

func runIngestor(ctx context.Context, cfg *config.Config, funnel *services.FunnelService, bus EventBus.Bus) *gemini.Client {

	aiClient, err := gemini.NewClient(ctx, cfg.Tracker.AIKey, gemini.Model(cfg.Tracker.AiModel))
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	aiClient.SetMinuteRateLimit(cfg.Tracker.AiMaxRequestsPerMinute)
	aiClient.SetDayRateLimit(cfg.Tracker.AiMaxRequestsPerDay)

	boardClient := boards.NewClient(cfg.Tracker.BoardBaseURL)
	boardClient.SetRateLimit(cfg.Tracker.BoardMaxRequestsPerSec)

	aiService := services.NewAIService(aiClient)

	ingestor := services.NewJobsIngestor(bus, aiService, boardClient, funnel,
		cfg.Tracker.SearchQueries, cfg.Tracker.IngestionInterval)
	go ingestor.Run(ctx)

	return aiClient
}

func createSender(ctx context.Context, cfg config.NotifierConfig) notifier.Sender {

	switch cfg.Channel {
	case config.ChannelTelegram:
		sender, err := notifier.NewTelegramSender(cfg.TgToken, cfg.TgChatID)
		if err != nil {
			log.Fatalf("can't create telegram sender: %v", err)
		}
		return sender
	case config.ChannelGmail:
		sender, err := notifier.NewGmailSender(ctx, cfg.GmailCredentials, cfg.GmailFrom, cfg.GmailTo)
		if err != nil {
			log.Fatalf("can't create gmail sender: %v", err)
		}
		return sender
	default:
		return notifier.LogSender{}
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	applications := repositories.NewApplicationsRepository(dbContext.DB)
	reports := repositories.NewReportsRepository(dbContext.DB)

	locks := services.NewKeyedMutex()
	funnel := services.NewFunnelService(applications, locks, cfg.Tracker.FollowUpDelay())
	scheduler := services.NewFollowUpScheduler(applications, locks)
	reporting := services.NewCachedReporting(services.NewReportingService(reports))

	exporter, err := services.NewReportingExporter(reporting, cfg.Tracker.ReportExportCronSpec)
	if err != nil {
		log.Fatalf("can't create reporting exporter: %v", err)
	}
	defer exporter.Stop()

	bus := EventBus.New()

	_, err = notifier.NewNotifier(bus, createSender(ctx, cfg.Notifier), scheduler)
	if err != nil {
		log.Fatalf("can't create notifier: %v", err)
	}

	dispatcher, err := services.NewFollowUpDispatcher(scheduler, bus, cfg.Tracker.FollowUpCronSpec)
	if err != nil {
		log.Fatalf("can't create follow-up dispatcher: %v", err)
	}
	defer dispatcher.Stop()

	aiClient := runIngestor(ctx, cfg, funnel, bus)
	defer func() {
		if err := aiClient.Close(); err != nil {
			log.Errorf("can't close AI client: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	log.Info("Services stopped.")
}
