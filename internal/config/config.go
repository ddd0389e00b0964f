package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all engine settings, populated from environment variables.
type Config struct {
	TickInterval     time.Duration
	ForecastCapacity int
	AlertProbability float64
	AlertFeedCap     int // 0 = unbounded

	ReplyDebounce      time.Duration
	ReplyMinDelay      time.Duration
	ReplyMaxDelay      time.Duration
	ImageAnalysisDelay time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional LLM-backed responder, enabled by presence of the API key.
	OpenAIAPIKey   string
	AssistantModel string

	// Optional Kafka event export.
	KafkaBrokers       []string
	KafkaExportTopic   string
	KafkaExportEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	tickInterval, err := parseDuration("TICK_INTERVAL", "6s")
	if err != nil {
		return nil, err
	}

	replyDebounce, err := parseDuration("REPLY_DEBOUNCE", "300ms")
	if err != nil {
		return nil, err
	}
	replyMinDelay, err := parseDuration("REPLY_MIN_DELAY", "800ms")
	if err != nil {
		return nil, err
	}
	replyMaxDelay, err := parseDuration("REPLY_MAX_DELAY", "1700ms")
	if err != nil {
		return nil, err
	}
	imageDelay, err := parseDuration("IMAGE_ANALYSIS_DELAY", "1500ms")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	forecastCapacity, err := parseInt("FORECAST_CAPACITY", 10)
	if err != nil {
		return nil, err
	}
	alertFeedCap, err := parseInt("ALERT_FEED_CAP", 100)
	if err != nil {
		return nil, err
	}

	alertProbability, err := parseFloat("ALERT_PROBABILITY", 0.10)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_EXPORT_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		TickInterval:     tickInterval,
		ForecastCapacity: forecastCapacity,
		AlertProbability: alertProbability,
		AlertFeedCap:     alertFeedCap,

		ReplyDebounce:      replyDebounce,
		ReplyMinDelay:      replyMinDelay,
		ReplyMaxDelay:      replyMaxDelay,
		ImageAnalysisDelay: imageDelay,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		AssistantModel: envOrDefault("ASSISTANT_MODEL", "gpt-4o-mini"),

		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaExportTopic:   envOrDefault("KAFKA_EXPORT_TOPIC", "farm-dashboard-events"),
		KafkaExportEnabled: kafkaEnabled,
	}

	if cfg.TickInterval <= 0 {
		return nil, errors.New("TICK_INTERVAL must be positive")
	}
	if cfg.ForecastCapacity <= 0 {
		return nil, errors.New("FORECAST_CAPACITY must be positive")
	}
	if cfg.AlertProbability < 0 || cfg.AlertProbability > 1 {
		return nil, errors.New("ALERT_PROBABILITY must be within [0, 1]")
	}
	if cfg.AlertFeedCap < 0 {
		return nil, errors.New("ALERT_FEED_CAP must be >= 0")
	}
	if cfg.ReplyMinDelay > cfg.ReplyMaxDelay {
		return nil, errors.New("REPLY_MIN_DELAY must not exceed REPLY_MAX_DELAY")
	}
	if cfg.KafkaExportEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_EXPORT_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaExportEnabled && cfg.KafkaExportTopic == "" {
		return nil, errors.New("KAFKA_EXPORT_ENABLED is true but KAFKA_EXPORT_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
