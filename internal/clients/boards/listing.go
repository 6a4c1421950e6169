package boards

import (
	"encoding/json"
	"fmt"
	"time"
)

type Listing struct {
	ListingPreview
	Description string
	KeySkills   []KeySkill `json:"key_skills"`
}

type ListingPreview struct {
	ID          string
	Name        string
	Url         string `json:"alternate_url"`
	Employer    Employer
	PublishedAt CustomTime `json:"published_at"`
}

type Employer struct {
	Name string
}

type KeySkill struct {
	Name string
}

type CustomTime struct {
	time.Time
}

func (dt *CustomTime) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	t, err := time.Parse("2006-01-02T15:04:05-0700", str)
	if err != nil {
		return fmt.Errorf("parsing time %s: %v", str, err)
	}
	dt.Time = t
	return nil
}
