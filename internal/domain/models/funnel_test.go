package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Stage_ForwardPath_AllowsSingleSteps(t *testing.T) {

	assert.True(t, StageNew.CanTransitionTo(StageApplied))
	assert.True(t, StageApplied.CanTransitionTo(StageInterviewed))
	assert.True(t, StageInterviewed.CanTransitionTo(StageOffered))
}

func Test_Stage_ForwardPath_ForbidsSkips(t *testing.T) {

	assert.False(t, StageNew.CanTransitionTo(StageInterviewed))
	assert.False(t, StageNew.CanTransitionTo(StageOffered))
	assert.False(t, StageApplied.CanTransitionTo(StageOffered))
	assert.False(t, StageApplied.CanTransitionTo(StageNew))
	assert.False(t, StageInterviewed.CanTransitionTo(StageApplied))
}

func Test_Stage_Rejected_ReachableFromNonTerminalOnly(t *testing.T) {

	assert.True(t, StageNew.CanTransitionTo(StageRejected))
	assert.True(t, StageApplied.CanTransitionTo(StageRejected))
	assert.True(t, StageInterviewed.CanTransitionTo(StageRejected))
	assert.False(t, StageOffered.CanTransitionTo(StageRejected))
	assert.False(t, StageRejected.CanTransitionTo(StageRejected))
}

func Test_Stage_TerminalStages_AllowNothing(t *testing.T) {

	for _, next := range Stages() {
		assert.False(t, StageOffered.CanTransitionTo(next))
		assert.False(t, StageRejected.CanTransitionTo(next))
	}
}

func Test_ToStage_UnknownValue_ShouldFail(t *testing.T) {

	_, err := ToStage("ghosted")
	assert.Error(t, err)
}

func Test_Application_SkillsRoundTrip(t *testing.T) {

	app := NewApplication("1", "Acme", "Go developer", "https://example.com/1",
		[]string{"go", "sql", "", "go"})
	assert.Equal(t, []string{"go", "sql"}, app.SkillsAsArray())

	app.SetSkills(nil)
	assert.Empty(t, app.SkillsAsArray())
}

func Test_Application_AppendNote_KeepsPreviousLines(t *testing.T) {

	app := NewApplication("1", "Acme", "Go developer", "", nil)
	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	app.AppendNote(when, "first")
	app.AppendNote(when.Add(time.Hour), "second")

	assert.Contains(t, app.Notes, "first")
	assert.Contains(t, app.Notes, "second")
	assert.Contains(t, app.Notes, "2025-03-01T12:00:00Z")
}
