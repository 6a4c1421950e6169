package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/applyflow/tracker/internal/clients/boards"
	"github.com/applyflow/tracker/internal/domain/models"
	"github.com/applyflow/tracker/internal/events"
	"github.com/applyflow/tracker/internal/logger"
	"github.com/applyflow/tracker/internal/metrics"
	"github.com/asaskevich/EventBus"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"github.com/samber/lo"
)

type listingsRetriever interface {
	GetListings(parameters boards.SearchParameters) ([]boards.ListingPreview, error)
	GetListing(id string) (boards.Listing, error)
}

type applicationUpserter interface {
	Upsert(ctx context.Context, record IngestRecord) (*models.Application, error)
}

// JobsIngestor feeds the funnel: it polls the job board for each
// configured search, generates cover letter and interview prep for new
// listings and upserts them as "new" applications.
type JobsIngestor struct {
	bus               EventBus.Bus
	board             listingsRetriever
	aiService         *AIService
	funnel            applicationUpserter
	cache             *gocache.Cache
	searches          []string
	ingestionInterval time.Duration
}

func NewJobsIngestor(bus EventBus.Bus, aiService *AIService, board listingsRetriever,
	funnel applicationUpserter, searches []string, interval time.Duration) *JobsIngestor {

	return &JobsIngestor{
		bus:               bus,
		board:             board,
		aiService:         aiService,
		funnel:            funnel,
		cache:             gocache.New(24*time.Hour, time.Hour),
		searches:          searches,
		ingestionInterval: interval,
	}
}

func (j *JobsIngestor) Run(ctx context.Context) {
	for {
		startTime := time.Now()
		log.Infof("running ingestion at %v", startTime)

		j.runIngestion(ctx)

		executionTime := time.Since(startTime)
		log.Infof("ingestion ended after %v", executionTime)

		sleepTime := j.ingestionInterval - executionTime
		if sleepTime < 0 {
			sleepTime = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(sleepTime):
		}
	}
}

func (j *JobsIngestor) runIngestion(ctx context.Context) {

	var ingestedTotal = 0

	for _, search := range j.searches {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ingestedTotal += j.ingestSearch(ctx, search)
	}

	log.Infof("ingested %v applications", ingestedTotal)
}

func (j *JobsIngestor) ingestSearch(ctx context.Context, search string) int {

	var pageSize, ingested = 20, 0

	for pageNum := 0; ; pageNum++ {

		params := boards.SearchParameters{
			Text:                   search,
			OrderByPublicationTime: true,
			Page:                   pageNum,
			PerPage:                pageSize,
		}

		previews, err := j.board.GetListings(params)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeBoardApi).
				Errorf("failed to get listing previews: %v", err)
			break
		}

		if len(previews) == 0 {
			break
		}

		for _, preview := range previews {
			if err := j.ingestListing(ctx, preview); err == nil {
				ingested++
			}
		}
	}

	return ingested
}

func (j *JobsIngestor) ingestListing(ctx context.Context, preview boards.ListingPreview) error {

	start := time.Now()
	listing, err := j.board.GetListing(preview.ID)
	metrics.IngestionStepDuration.WithLabelValues("info_retrieval").Observe(time.Since(start).Seconds())

	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBoardApi).Errorf("failed to get listing: %v", err)
		return err
	}

	cacheID := createListingCacheID(listing.ID, listing.Description)
	if _, found := j.cache.Get(cacheID); found {
		return nil
	}

	skills := lo.Map(listing.KeySkills, func(skill boards.KeySkill, _ int) string {
		return skill.Name
	})

	start = time.Now()
	coverLetter, err := j.aiService.GenerateCoverLetter(ctx, listing.Employer.Name, listing.Name,
		listing.Description, skills)
	if err == nil {
		var prep string
		prep, err = j.aiService.GenerateInterviewPrep(ctx, listing.Employer.Name, listing.Name,
			listing.Description, skills)
		if err == nil {
			err = j.upsertListing(ctx, listing, skills, coverLetter, prep)
		}
	}
	metrics.IngestionStepDuration.WithLabelValues("content_generation").Observe(time.Since(start).Seconds())

	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
			Errorf("failed to ingest listing %v: %v", listing.Url, err)
		return err
	}

	if err = j.cache.Add(cacheID, "", gocache.DefaultExpiration); err != nil {
		log.Errorf("failed to add listing to cache: %v", err)
	}

	return nil
}

func (j *JobsIngestor) upsertListing(ctx context.Context, listing boards.Listing, skills []string,
	coverLetter, interviewPrep string) error {

	app, err := j.funnel.Upsert(ctx, IngestRecord{
		JobID:          listing.ID,
		CompanyName:    listing.Employer.Name,
		JobTitle:       listing.Name,
		JobURL:         listing.Url,
		RequiredSkills: skills,
		CoverLetter:    coverLetter,
		InterviewPrep:  interviewPrep,
	})
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to upsert application: %v", err)
		return err
	}

	metrics.IngestedApplicationsCounter.Inc()
	j.bus.Publish(events.ApplicationIngestedTopic, events.ApplicationIngested{
		JobID:       app.JobID,
		CompanyName: app.CompanyName,
		JobTitle:    app.JobTitle,
		JobURL:      app.JobURL,
		Stage:       string(app.Stage),
	})
	return nil
}

func createListingCacheID(listingID, description string) string {
	descriptionHash := sha256.Sum256([]byte(description))
	return listingID + hex.EncodeToString(descriptionHash[:])
}
