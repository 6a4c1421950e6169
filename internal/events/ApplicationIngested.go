package events

var ApplicationIngestedTopic = "ApplicationIngestedEvent"

type ApplicationIngested struct {
	JobID       string
	CompanyName string
	JobTitle    string
	JobURL      string
	Stage       string
}
