// Package engine drives the farm dashboard simulation: a clock-driven tick
// loop that advances telemetry, raises alerts, and fans updates out to
// subscribers, plus the intent surface the adapters call into.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/krishimitra/field-engine/internal/alerts"
	"github.com/krishimitra/field-engine/internal/chat"
	"github.com/krishimitra/field-engine/internal/crops"
	"github.com/krishimitra/field-engine/internal/domain"
	"github.com/krishimitra/field-engine/internal/observability"
	"github.com/krishimitra/field-engine/internal/telemetry"
)

// frostAdvisoryText is the canned notice raised when a manual alert request
// carries no text of its own.
const frostAdvisoryText = "Frost advisory tonight. Cover sensitive seedlings."

// Subscriber receives engine events synchronously from the tick loop.
// Implementations must not block; hand off to a goroutine or a buffered
// writer if delivery is slow.
type Subscriber interface {
	TelemetryUpdated(soil domain.SoilReading, weather domain.WeatherReading)
	AlertRaised(alert domain.Alert)
}

// Engine owns the simulation loop and exposes the operations the HTTP
// adapter maps onto. All state lives in the subsystems; the engine only
// sequences them.
type Engine struct {
	clock    clockwork.Clock
	interval time.Duration
	store    *telemetry.Store
	feed     *alerts.Feed
	crops    *crops.Registry
	session  *chat.Session
	logger   *slog.Logger
	metrics  *observability.Metrics

	subscribers []Subscriber
	stepped     atomic.Bool
}

// New wires an Engine over its subsystems. The tick interval must be
// positive; config validation enforces that upstream.
func New(
	clock clockwork.Clock,
	interval time.Duration,
	store *telemetry.Store,
	feed *alerts.Feed,
	registry *crops.Registry,
	session *chat.Session,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Engine {
	return &Engine{
		clock:    clock,
		interval: interval,
		store:    store,
		feed:     feed,
		crops:    registry,
		session:  session,
		logger:   logger,
		metrics:  metrics,
	}
}

// Subscribe registers a subscriber for tick events. Not safe to call after
// Run has started.
func (e *Engine) Subscribe(sub Subscriber) {
	e.subscribers = append(e.subscribers, sub)
}

// Run executes the tick loop until ctx is cancelled, then closes the chat
// session so no late replies land after shutdown.
func (e *Engine) Run(ctx context.Context) error {
	e.metrics.EngineRunning.Set(1)
	defer e.metrics.EngineRunning.Set(0)
	e.logger.Info("engine started", "tick_interval", e.interval)

	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.session.Close()
			e.logger.Info("engine stopped")
			return nil
		case <-ticker.Chan():
			e.step()
		}
	}
}

func (e *Engine) step() {
	soil, weather, draft := e.store.Step()
	e.stepped.Store(true)
	e.metrics.StepsApplied.Inc()

	var raised *domain.Alert
	if draft != nil {
		alert := e.feed.Push(draft.Category, draft.Text)
		e.metrics.AlertsRaised.WithLabelValues(string(draft.Category), "simulated").Inc()
		raised = &alert
	}

	for _, sub := range e.subscribers {
		sub.TelemetryUpdated(soil, weather)
		if raised != nil {
			sub.AlertRaised(*raised)
		}
	}
}

// Ready reports whether at least one simulation step has been applied. The
// readiness probe keys off this so traffic only arrives once real readings
// exist.
func (e *Engine) Ready() bool {
	return e.stepped.Load()
}

// Telemetry returns copies of the current soil and weather readings.
func (e *Engine) Telemetry() (domain.SoilReading, domain.WeatherReading) {
	return e.store.Soil(), e.store.Weather()
}

// Alerts returns the current alert feed, newest first.
func (e *Engine) Alerts() []domain.Alert {
	return e.feed.Snapshot()
}

// DismissAlert removes an alert from the feed. Unknown IDs are a no-op.
func (e *Engine) DismissAlert(id string) bool {
	ok := e.feed.Dismiss(id)
	if ok {
		e.metrics.AlertsDismissed.Inc()
	}
	return ok
}

// RaiseManualAlert pushes an operator-initiated alert and notifies
// subscribers. Empty text falls back to the frost advisory; an empty
// category defaults to info.
func (e *Engine) RaiseManualAlert(category domain.AlertCategory, text string) domain.Alert {
	text = strings.TrimSpace(text)
	if text == "" {
		category = domain.AlertWeather
		text = frostAdvisoryText
	}
	if category == "" {
		category = domain.AlertInfo
	}

	alert := e.feed.Push(category, text)
	e.metrics.AlertsRaised.WithLabelValues(string(category), "manual").Inc()
	for _, sub := range e.subscribers {
		sub.AlertRaised(alert)
	}
	return alert
}

// Crops returns the current crop records, newest first.
func (e *Engine) Crops() []domain.CropRecord {
	return e.crops.Snapshot()
}

// AddCrop registers a new crop with default stage and health. It reports
// false for names that are empty after trimming.
func (e *Engine) AddCrop(name string) (domain.CropRecord, bool) {
	return e.crops.Add(name)
}

// RemoveCrop deletes a crop record. Unknown IDs are a no-op.
func (e *Engine) RemoveCrop(id string) bool {
	return e.crops.Remove(id)
}

// Chat returns the engine's chat session.
func (e *Engine) Chat() *chat.Session {
	return e.session
}
