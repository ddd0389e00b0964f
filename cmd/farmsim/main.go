package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/krishimitra/field-engine/internal/adapter/http"
	kafkaadapter "github.com/krishimitra/field-engine/internal/adapter/kafka"
	openaiadapter "github.com/krishimitra/field-engine/internal/adapter/openai"
	"github.com/krishimitra/field-engine/internal/alerts"
	"github.com/krishimitra/field-engine/internal/chat"
	"github.com/krishimitra/field-engine/internal/config"
	"github.com/krishimitra/field-engine/internal/crops"
	"github.com/krishimitra/field-engine/internal/engine"
	"github.com/krishimitra/field-engine/internal/observability"
	"github.com/krishimitra/field-engine/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	store := telemetry.NewStore(clock, nil, cfg.ForecastCapacity, cfg.AlertProbability, logger)
	feed := alerts.NewFeed(clock, cfg.AlertFeedCap, logger)
	registry := crops.NewRegistry(clock)

	// Assistant backend (feature-flagged via OPENAI_API_KEY).
	var responder chat.Responder
	if cfg.OpenAIAPIKey != "" {
		r, err := openaiadapter.NewResponder(cfg.OpenAIAPIKey, cfg.AssistantModel)
		if err != nil {
			logger.Error("failed to initialize llm responder", "error", err)
			os.Exit(1)
		}
		responder = r
		logger.Info("llm responder enabled", "model", cfg.AssistantModel)
	} else {
		responder = chat.NewSimulatedResponder(clock, nil, cfg.ReplyMinDelay, cfg.ReplyMaxDelay)
		logger.Info("simulated responder enabled", "min_delay", cfg.ReplyMinDelay, "max_delay", cfg.ReplyMaxDelay)
	}

	session := chat.NewSession(chat.Config{
		ReplyDebounce:      cfg.ReplyDebounce,
		ImageAnalysisDelay: cfg.ImageAnalysisDelay,
	}, clock, responder, logger, metrics)

	eng := engine.New(clock, cfg.TickInterval, store, feed, registry, session, logger, metrics)

	// Kafka event export (feature-flagged via KAFKA_EXPORT_ENABLED).
	var exporter *kafkaadapter.Exporter
	if cfg.KafkaExportEnabled {
		exporter = kafkaadapter.NewExporter(cfg.KafkaBrokers, cfg.KafkaExportTopic, logger)
		eng.Subscribe(exporter)
		logger.Info("kafka export enabled", "topic", cfg.KafkaExportTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka export disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start simulation loop.
	go func() {
		if err := eng.Run(ctx); err != nil {
			logger.Error("engine error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if exporter != nil {
		if err := exporter.Close(); err != nil {
			logger.Error("kafka exporter close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
