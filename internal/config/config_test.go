package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6*time.Second, cfg.TickInterval)
	assert.Equal(t, 10, cfg.ForecastCapacity)
	assert.Equal(t, 0.10, cfg.AlertProbability)
	assert.Equal(t, 100, cfg.AlertFeedCap)
	assert.Equal(t, 300*time.Millisecond, cfg.ReplyDebounce)
	assert.Equal(t, 800*time.Millisecond, cfg.ReplyMinDelay)
	assert.Equal(t, 1700*time.Millisecond, cfg.ReplyMaxDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.ImageAnalysisDelay)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.AssistantModel)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "farm-dashboard-events", cfg.KafkaExportTopic)
	assert.False(t, cfg.KafkaExportEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "2s")
	t.Setenv("FORECAST_CAPACITY", "5")
	t.Setenv("ALERT_PROBABILITY", "0.25")
	t.Setenv("ALERT_FEED_CAP", "0")
	t.Setenv("REPLY_DEBOUNCE", "100ms")
	t.Setenv("REPLY_MIN_DELAY", "200ms")
	t.Setenv("REPLY_MAX_DELAY", "400ms")
	t.Setenv("IMAGE_ANALYSIS_DELAY", "1s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("ASSISTANT_MODEL", "gpt-4o")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_EXPORT_TOPIC", "custom-events")
	t.Setenv("KAFKA_EXPORT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Equal(t, 5, cfg.ForecastCapacity)
	assert.Equal(t, 0.25, cfg.AlertProbability)
	assert.Equal(t, 0, cfg.AlertFeedCap)
	assert.Equal(t, 100*time.Millisecond, cfg.ReplyDebounce)
	assert.Equal(t, 200*time.Millisecond, cfg.ReplyMinDelay)
	assert.Equal(t, 400*time.Millisecond, cfg.ReplyMaxDelay)
	assert.Equal(t, time.Second, cfg.ImageAnalysisDelay)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "gpt-4o", cfg.AssistantModel)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-events", cfg.KafkaExportTopic)
	assert.True(t, cfg.KafkaExportEnabled)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TICK_INTERVAL")
}

func TestLoad_InvalidProbability(t *testing.T) {
	t.Setenv("ALERT_PROBABILITY", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALERT_PROBABILITY")
}

func TestLoad_InvalidDelayOrder(t *testing.T) {
	t.Setenv("REPLY_MIN_DELAY", "2s")
	t.Setenv("REPLY_MAX_DELAY", "1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPLY_MIN_DELAY")
}
