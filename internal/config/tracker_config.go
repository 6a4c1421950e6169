package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type TrackerConfig struct {
	AIKey                  string        `mapstructure:"ai_key"`
	AiModel                string        `mapstructure:"ai_model"`
	AiMaxRequestsPerMinute float32       `mapstructure:"ai_max_requests_per_minute"`
	AiMaxRequestsPerDay    float32       `mapstructure:"ai_max_requests_per_day"`
	BoardBaseURL           string        `mapstructure:"board_base_url"`
	BoardMaxRequestsPerSec float32       `mapstructure:"board_max_requests_per_second"`
	SearchQueries          []string      `mapstructure:"search_queries"`
	IngestionInterval      time.Duration `mapstructure:"ingestion_interval"`
	FollowUpDelayDays      int           `mapstructure:"follow_up_delay_days"`
	FollowUpCronSpec       string        `mapstructure:"follow_up_cron_spec"`
	ReportExportCronSpec   string        `mapstructure:"report_export_cron_spec"`
}

func (config TrackerConfig) FollowUpDelay() time.Duration {
	return time.Duration(config.FollowUpDelayDays) * 24 * time.Hour
}

func (config TrackerConfig) validate() error {

	var missingFields []string

	if config.AIKey == "" {
		missingFields = append(missingFields, "ai_key")
	}

	if config.BoardBaseURL == "" {
		missingFields = append(missingFields, "board_base_url")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.FollowUpDelayDays <= 0 {
		return fmt.Errorf("follow_up_delay_days must be greater than zero")
	}

	return nil
}

func (config TrackerConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("tracker.ai_key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("tracker.ai_model", "AI_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("tracker.board_base_url", "BOARD_BASE_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("tracker.follow_up_delay_days", "FOLLOWUP_DELAY_DAYS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
