package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Application is one job application attempt, keyed by the board's job ID.
// Records are never physically deleted.
type Application struct {
	JobID          string `gorm:"primaryKey"`
	CompanyName    string
	JobTitle       string
	JobURL         string
	RequiredSkills string `gorm:"column:required_skills"`
	CoverLetter    string
	InterviewPrep  string
	Stage          Stage `gorm:"index"`
	AppliedAt      *time.Time
	FollowUpAt     *time.Time `gorm:"index"`
	FollowUpSentAt *time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewApplication(jobID, companyName, jobTitle, jobURL string, skills []string) *Application {
	return &Application{
		JobID:          jobID,
		CompanyName:    companyName,
		JobTitle:       jobTitle,
		JobURL:         jobURL,
		RequiredSkills: joinSkills(skills),
		Stage:          StageNew,
	}
}

func joinSkills(skills []string) string {
	skills = lo.Uniq(lo.Filter(skills, func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	}))
	return strings.Join(skills, ",")
}

func (a *Application) SkillsAsArray() []string {
	if a.RequiredSkills == "" {
		return []string{}
	}
	return strings.Split(a.RequiredSkills, ",")
}

func (a *Application) SetSkills(skills []string) {
	a.RequiredSkills = joinSkills(skills)
}

// AppendNote adds a timestamped line to the free-form notes. Notes are
// append-only from the tracker's perspective.
func (a *Application) AppendNote(when time.Time, text string) {
	line := fmt.Sprintf("[%v] %v", when.UTC().Format(time.RFC3339), text)
	if a.Notes == "" {
		a.Notes = line
		return
	}
	a.Notes += "\n" + line
}

// StageTransition is one stay of an application in a funnel stage.
// LeftAt is nil while the application is still in the stage.
type StageTransition struct {
	ID        int    `gorm:"primaryKey"`
	JobID     string `gorm:"index"`
	Stage     Stage  `gorm:"index"`
	EnteredAt time.Time
	LeftAt    *time.Time
}
