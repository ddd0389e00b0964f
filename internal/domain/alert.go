package domain

import "time"

// AlertCategory classifies a notice for the alerts panel.
type AlertCategory string

const (
	AlertWeather AlertCategory = "weather"
	AlertInfo    AlertCategory = "info"
)

// Alert is an immutable notice shown newest-first in the alerts panel.
// Alerts are never edited after creation; they only leave the feed through
// explicit dismissal or cap eviction.
type Alert struct {
	ID        string        `json:"id"`
	Category  AlertCategory `json:"category"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"created_at"`
}
