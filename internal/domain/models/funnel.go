package models

import "fmt"

type Stage string

const (
	StageNew         Stage = "new"
	StageApplied     Stage = "applied"
	StageInterviewed Stage = "interviewed"
	StageOffered     Stage = "offered"
	StageRejected    Stage = "rejected"
)

// funnelOrder holds the forward path; rejected sits outside of it.
var funnelOrder = []Stage{StageNew, StageApplied, StageInterviewed, StageOffered}

func ToStage(s string) (Stage, error) {
	switch s {
	case string(StageNew):
		return StageNew, nil
	case string(StageApplied):
		return StageApplied, nil
	case string(StageInterviewed):
		return StageInterviewed, nil
	case string(StageOffered):
		return StageOffered, nil
	case string(StageRejected):
		return StageRejected, nil
	default:
		return "", fmt.Errorf("invalid funnel stage: %v", s)
	}
}

func Stages() []Stage {
	return []Stage{StageNew, StageApplied, StageInterviewed, StageOffered, StageRejected}
}

func (s Stage) IsTerminal() bool {
	return s == StageOffered || s == StageRejected
}

// Order returns the position of a stage on the forward path, or -1 for rejected.
func (s Stage) Order() int {
	for i, stage := range funnelOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo allows exactly one step forward along the funnel,
// or a move to rejected from any non-terminal stage.
func (s Stage) CanTransitionTo(next Stage) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StageRejected {
		return true
	}
	return next.Order() == s.Order()+1
}
