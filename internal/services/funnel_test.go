package services

import (
	"context"
	"testing"
	"time"

	"github.com/applyflow/tracker/internal/domain/models"
	"github.com/applyflow/tracker/internal/repositories"
	"github.com/stretchr/testify/assert"
)

var day0 = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestFunnel(apps applicationRepository) *FunnelService {
	return NewFunnelService(apps, NewKeyedMutex(), 5*24*time.Hour)
}

func ingestRecord(jobID string) IngestRecord {
	return IngestRecord{
		JobID:          jobID,
		CompanyName:    "Acme",
		JobTitle:       "Go developer",
		JobURL:         "https://boards.example.com/vacancy/" + jobID,
		RequiredSkills: []string{"go", "sql"},
		CoverLetter:    "letter",
		InterviewPrep:  "prep",
	}
}

func Test_Upsert_NewRecord_StartsInNewStage(t *testing.T) {

	funnel := newTestFunnel(newFakeApplications())

	app, err := funnel.Upsert(context.Background(), ingestRecord("1"))
	assert.NoError(t, err)
	assert.Equal(t, models.StageNew, app.Stage)
	assert.Nil(t, app.AppliedAt)
	assert.Nil(t, app.FollowUpAt)
}

func Test_Upsert_EmptyJobID_ShouldFailWithValidationError(t *testing.T) {

	funnel := newTestFunnel(newFakeApplications())

	_, err := funnel.Upsert(context.Background(), IngestRecord{})
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func Test_Upsert_UnknownStageToken_ShouldFailWithValidationError(t *testing.T) {

	funnel := newTestFunnel(newFakeApplications())

	record := ingestRecord("1")
	record.Stage = "ghosted"

	_, err := funnel.Upsert(context.Background(), record)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func Test_Upsert_SameJobIDTwice_ShouldNotCreateSecondRecord(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)
	_, err = funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)

	listed, err := funnel.List(ctx, repositories.Filter{})
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
}

func Test_Upsert_ExistingRecord_MergesNonEmptyFieldsOnly(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)

	update := IngestRecord{JobID: "1", CoverLetter: "regenerated letter"}
	app, err := funnel.Upsert(ctx, update)
	assert.NoError(t, err)

	assert.Equal(t, "regenerated letter", app.CoverLetter)
	assert.Equal(t, "Acme", app.CompanyName)
	assert.Equal(t, []string{"go", "sql"}, app.SkillsAsArray())
}

func Test_Upsert_ExistingRecord_PreservesAppliedDate(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageApplied, day0))

	_, err = funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)

	app, err := funnel.Get(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, models.StageApplied, app.Stage)
	assert.NotNil(t, app.AppliedAt)
	assert.True(t, app.AppliedAt.Equal(day0))
}

func Test_UpdateStage_ForwardPath_EachStepSucceeds(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)

	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageApplied, day0))
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageInterviewed, day0.AddDate(0, 0, 3)))
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageOffered, day0.AddDate(0, 0, 10)))
}

func Test_UpdateStage_SkippingStep_ShouldFailWithInvalidTransition(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)

	err = funnel.UpdateStage(ctx, "1", models.StageInterviewed, day0)
	var transitionErr *models.InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.StageNew, transitionErr.From)
	assert.Equal(t, models.StageInterviewed, transitionErr.To)
}

func Test_UpdateStage_RejectedFromOffered_ShouldFail(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageApplied, day0))
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageInterviewed, day0))
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageOffered, day0))

	err = funnel.UpdateStage(ctx, "1", models.StageRejected, day0)
	var transitionErr *models.InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func Test_UpdateStage_IntoApplied_StampsAppliedDateAndFollowUp(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageApplied, day0))

	app, err := funnel.Get(ctx, "1")
	assert.NoError(t, err)
	assert.True(t, app.AppliedAt.Equal(day0))
	assert.True(t, app.FollowUpAt.Equal(day0.Add(5*24*time.Hour)))
}

func Test_UpdateStage_IntoInterviewed_ClearsPendingFollowUp(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageApplied, day0))
	assert.NoError(t, funnel.UpdateStage(ctx, "1", models.StageInterviewed, day0.AddDate(0, 0, 2)))

	app, err := funnel.Get(ctx, "1")
	assert.NoError(t, err)
	assert.Nil(t, app.FollowUpAt)
	assert.NotNil(t, app.AppliedAt)
}

func Test_UpdateStage_UnknownJobID_ShouldFailWithNotFound(t *testing.T) {

	funnel := newTestFunnel(newFakeApplications())

	err := funnel.UpdateStage(context.Background(), "missing", models.StageApplied, day0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func Test_UpdateStage_ConcurrentOnSameJobID_OnlyOneWins(t *testing.T) {

	apps := newFakeApplications()
	funnel := newTestFunnel(apps)
	ctx := context.Background()

	_, err := funnel.Upsert(ctx, ingestRecord("1"))
	assert.NoError(t, err)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- funnel.UpdateStage(ctx, "1", models.StageApplied, day0)
		}()
	}

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			var transitionErr *models.InvalidTransitionError
			assert.ErrorAs(t, err, &transitionErr)
			failures++
		}
	}

	assert.Equal(t, 1, failures)

	app, err := funnel.Get(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, models.StageApplied, app.Stage)
}
