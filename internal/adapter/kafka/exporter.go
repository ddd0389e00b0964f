// Package kafka exports engine events to a Kafka topic for downstream
// consumers (analytics, alert routing).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/krishimitra/field-engine/internal/domain"
)

const (
	eventTypeTelemetry = "telemetry_updated"
	eventTypeAlert     = "alert_raised"

	writeTimeout = 5 * time.Second
)

// Exporter publishes engine events to Kafka. It implements
// engine.Subscriber; the underlying writer runs in async mode so the tick
// loop never blocks on broker latency.
type Exporter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewExporter creates a Kafka producer for the export topic.
func NewExporter(brokers []string, topic string, logger *slog.Logger) *Exporter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
		Async:        true,
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil {
				logger.Warn("kafka export failed", "error", err, "messages", len(messages))
			}
		},
	}
	return &Exporter{writer: w, logger: logger}
}

// TelemetryUpdated publishes the post-step readings.
func (e *Exporter) TelemetryUpdated(soil domain.SoilReading, weather domain.WeatherReading) {
	msg, err := serializeTelemetry(soil, weather)
	if err != nil {
		e.logger.Warn("serialize telemetry event", "error", err)
		return
	}
	e.write(msg)
}

// AlertRaised publishes a newly raised alert.
func (e *Exporter) AlertRaised(alert domain.Alert) {
	msg, err := serializeAlert(alert)
	if err != nil {
		e.logger.Warn("serialize alert event", "error", err)
		return
	}
	e.write(msg)
}

func (e *Exporter) write(msg kafkago.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := e.writer.WriteMessages(ctx, msg); err != nil {
		e.logger.Warn("kafka export enqueue failed", "error", err)
	}
}

// Close flushes pending messages and releases the writer.
func (e *Exporter) Close() error {
	return e.writer.Close()
}

type telemetryEvent struct {
	Soil    domain.SoilReading    `json:"soil"`
	Weather domain.WeatherReading `json:"weather"`
}

// serializeTelemetry marshals a telemetry update into a Kafka message. All
// telemetry shares one key so a partition preserves reading order.
func serializeTelemetry(soil domain.SoilReading, weather domain.WeatherReading) (kafkago.Message, error) {
	data, err := json.Marshal(telemetryEvent{Soil: soil, Weather: weather})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize telemetry event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(eventTypeTelemetry),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(eventTypeTelemetry)},
			{Key: "updated_at", Value: []byte(weather.LastUpdated.Format(time.RFC3339))},
		},
	}, nil
}

// serializeAlert marshals an alert into a Kafka message keyed by alert ID.
func serializeAlert(alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(eventTypeAlert)},
			{Key: "created_at", Value: []byte(alert.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
