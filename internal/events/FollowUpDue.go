package events

import "github.com/applyflow/tracker/internal/domain/models"

var FollowUpDueTopic = "FollowUpDueEvent"

type FollowUpDue struct {
	Application models.Application
}
