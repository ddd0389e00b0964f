// Package alerts keeps the dashboard's notice feed: an ordered, newest-first
// list of immutable alerts.
package alerts

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/krishimitra/field-engine/internal/domain"
)

// Feed is a newest-first alert list with idempotent dismissal.
//
// The dashboard never bounded this list; to avoid unbounded growth in a
// long-running engine the feed takes a cap and evicts the oldest alerts past
// it. Pass cap 0 to keep the original unbounded behavior.
type Feed struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	logger *slog.Logger
	cap    int
	alerts []domain.Alert
}

// NewFeed creates a Feed seeded with the dashboard's initial rain notice.
func NewFeed(clock clockwork.Clock, cap int, logger *slog.Logger) *Feed {
	f := &Feed{
		clock:  clock,
		logger: logger,
		cap:    cap,
	}
	f.Push(domain.AlertWeather, "Light rain expected tomorrow")
	return f
}

// Push prepends a new alert and returns it. Insertion order is the display
// and storage order; alerts are never reordered afterwards.
func (f *Feed) Push(category domain.AlertCategory, text string) domain.Alert {
	alert := domain.Alert{
		ID:        uuid.NewString(),
		Category:  category,
		Text:      text,
		CreatedAt: f.clock.Now(),
	}

	f.mu.Lock()
	f.alerts = append([]domain.Alert{alert}, f.alerts...)
	if f.cap > 0 && len(f.alerts) > f.cap {
		f.alerts = f.alerts[:f.cap]
	}
	f.mu.Unlock()

	f.logger.Info("alert raised", "id", alert.ID, "category", alert.Category, "text", alert.Text)
	return alert
}

// Dismiss removes the alert with the given ID. Dismissing an unknown or
// already-dismissed ID is a no-op; it reports whether an alert was removed.
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, a := range f.alerts {
		if a.ID == id {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the feed, newest first.
func (f *Feed) Snapshot() []domain.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out
}

// Len returns the number of alerts currently in the feed.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}
