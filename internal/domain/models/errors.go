package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a job_id has no record.
var ErrNotFound = errors.New("application not found")

// ValidationError marks a malformed ingestion record. Recoverable by the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid application record: " + e.Reason
}

// InvalidTransitionError marks a stage change that violates the funnel order.
type InvalidTransitionError struct {
	JobID string
	From  Stage
	To    Stage
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for application %v: %v -> %v", e.JobID, e.From, e.To)
}
