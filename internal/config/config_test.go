package config

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {

	os.Setenv("MODE", "test")
	os.Setenv("AI_KEY", "overrideKey")
	os.Setenv("AI_MODEL", "super_duper_model")
	os.Setenv("BOARD_BASE_URL", "https://boards.example.com")
	os.Setenv("FOLLOWUP_DELAY_DAYS", strconv.Itoa(9))
	os.Setenv("NOTIFIER_CHANNEL", "log")
	os.Setenv("DB_CONNECTION_STRING", "newConnectionString")

	cfg := Get()

	assert.Equal(t, "overrideKey", cfg.Tracker.AIKey)
	assert.Equal(t, "super_duper_model", cfg.Tracker.AiModel)
	assert.Equal(t, "https://boards.example.com", cfg.Tracker.BoardBaseURL)
	assert.Equal(t, 9, cfg.Tracker.FollowUpDelayDays)
	assert.Equal(t, "@every 5m", cfg.Tracker.ReportExportCronSpec)
	assert.Equal(t, ChannelLog, cfg.Notifier.Channel)
	assert.Equal(t, "newConnectionString", cfg.DB.ConnectionString)
}

func Test_TrackerConfig_NonPositiveFollowUpDelay_ShouldFail(t *testing.T) {

	cfg := TrackerConfig{AIKey: "key", BoardBaseURL: "https://boards.example.com", FollowUpDelayDays: 0}
	assert.Error(t, cfg.validate())
}
