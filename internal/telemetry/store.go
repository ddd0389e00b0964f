// Package telemetry simulates the soil and weather readings behind the
// dashboard's Home view. A single Store owns the current readings and
// advances them one bounded random step per clock tick.
package telemetry

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/krishimitra/field-engine/internal/domain"
)

// Per-tick walk magnitudes, taken from the dashboard's update loop.
const (
	moistureStep = 3.0
	phStep       = 0.1
	nutrientStep = 1.0
	tempStep     = 0.75
	rainStep     = 3.0
	windStep     = 2.0
	humidityStep = 2.0
)

const windGustAlertText = "Sudden wind gusts expected"

// AlertDraft is a probabilistic alert emitted by a step, before the feed
// assigns it an ID and timestamp.
type AlertDraft struct {
	Category domain.AlertCategory
	Text     string
}

// Store holds the current soil and weather readings. It is a single-writer
// structure: only Step mutates it, and Step calls must not interleave (the
// engine's tick loop is the one caller). Reads return copies.
type Store struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	rng    *rand.Rand
	logger *slog.Logger

	forecastCap      int
	alertProbability float64

	soil    domain.SoilReading
	weather domain.WeatherReading
}

// NewStore creates a Store seeded with the dashboard's initial readings and a
// synthetic forecast history. Pass a nil rng to seed one from the clock.
func NewStore(clock clockwork.Clock, rng *rand.Rand, forecastCap int, alertProbability float64, logger *slog.Logger) *Store {
	if rng == nil {
		rng = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}

	s := &Store{
		clock:            clock,
		rng:              rng,
		logger:           logger,
		forecastCap:      forecastCap,
		alertProbability: alertProbability,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	now := s.clock.Now()

	s.soil = domain.SoilReading{
		Moisture:    42,
		PH:          6.3,
		Nitrogen:    18,
		Phosphorus:  12,
		Potassium:   20,
		LastUpdated: now,
	}

	s.weather = domain.WeatherReading{
		TemperatureC:    26,
		RainProbability: 40,
		WindSpeedKmph:   12,
		Humidity:        70,
		Condition:       "Partly Cloudy",
		LastUpdated:     now,
		Forecast:        make([]domain.ForecastPoint, 0, s.forecastCap),
	}

	// Back-fill the trend charts so they are not empty on first render: one
	// synthetic point per minute leading up to now.
	for i := 0; i < s.forecastCap; i++ {
		fi := float64(i)
		s.weather.Forecast = append(s.weather.Forecast, domain.ForecastPoint{
			Time:            now.Add(-time.Duration(s.forecastCap-1-i) * time.Minute).Format("15:04"),
			TemperatureC:    domain.Round(25+math.Sin(fi/2)*2+s.rng.Float64(), 1),
			RainProbability: domain.Round(domain.Clamp(40+math.Sin(fi)*10+s.rng.Float64()*5, domain.PercentMin, domain.PercentMax), 0),
			WindSpeedKmph:   domain.Round(math.Max(0, 10+math.Sin(fi/3)*5+s.rng.Float64()*2), 0),
		})
	}
}

// Step advances every reading by one bounded random walk step, appends a
// forecast point (evicting the oldest at capacity), and with the configured
// probability emits an alert draft. It has no error path: clamping is the
// safety net and the step is total over the previous state plus entropy.
func (s *Store) Step() (domain.SoilReading, domain.WeatherReading, *AlertDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	s.soil.Moisture = domain.Round(domain.Walk(s.rng, s.soil.Moisture, moistureStep, domain.MoistureMin, domain.MoistureMax), 0)
	s.soil.PH = domain.Round(domain.Walk(s.rng, s.soil.PH, phStep, domain.PHMin, domain.PHMax), 2)
	s.soil.Nitrogen = domain.Round(domain.Walk(s.rng, s.soil.Nitrogen, nutrientStep, 0, domain.NoUpperBound), 0)
	s.soil.Phosphorus = domain.Round(domain.Walk(s.rng, s.soil.Phosphorus, nutrientStep, 0, domain.NoUpperBound), 0)
	s.soil.Potassium = domain.Round(domain.Walk(s.rng, s.soil.Potassium, nutrientStep, 0, domain.NoUpperBound), 0)
	s.soil.LastUpdated = now

	s.weather.TemperatureC = domain.Round(domain.Walk(s.rng, s.weather.TemperatureC, tempStep, -domain.NoUpperBound, domain.NoUpperBound), 1)
	s.weather.RainProbability = domain.Round(domain.Walk(s.rng, s.weather.RainProbability, rainStep, domain.PercentMin, domain.PercentMax), 0)
	s.weather.WindSpeedKmph = domain.Round(domain.Walk(s.rng, s.weather.WindSpeedKmph, windStep, 0, domain.NoUpperBound), 0)
	s.weather.Humidity = domain.Round(domain.Walk(s.rng, s.weather.Humidity, humidityStep, domain.PercentMin, domain.PercentMax), 0)
	s.weather.Condition = domain.ConditionFor(s.weather.RainProbability)
	s.weather.LastUpdated = now

	point := domain.ForecastPoint{
		Time:            now.Format("15:04"),
		TemperatureC:    s.weather.TemperatureC,
		RainProbability: s.weather.RainProbability,
		WindSpeedKmph:   s.weather.WindSpeedKmph,
	}
	if len(s.weather.Forecast) >= s.forecastCap {
		// Strict FIFO: shift in place so the backing array stays at capacity.
		n := copy(s.weather.Forecast, s.weather.Forecast[1:])
		s.weather.Forecast = s.weather.Forecast[:n]
	}
	s.weather.Forecast = append(s.weather.Forecast, point)

	var draft *AlertDraft
	if s.rng.Float64() < s.alertProbability {
		draft = &AlertDraft{Category: domain.AlertWeather, Text: windGustAlertText}
	}

	s.logger.Debug("telemetry step applied",
		"moisture", s.soil.Moisture,
		"temperature_c", s.weather.TemperatureC,
		"condition", s.weather.Condition,
		"alert", draft != nil,
	)

	return s.snapshotSoilLocked(), s.snapshotWeatherLocked(), draft
}

// Soil returns a copy of the current soil reading.
func (s *Store) Soil() domain.SoilReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotSoilLocked()
}

// Weather returns a copy of the current weather reading, including a copy of
// the forecast history.
func (s *Store) Weather() domain.WeatherReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotWeatherLocked()
}

func (s *Store) snapshotSoilLocked() domain.SoilReading {
	return s.soil
}

func (s *Store) snapshotWeatherLocked() domain.WeatherReading {
	w := s.weather
	w.Forecast = make([]domain.ForecastPoint, len(s.weather.Forecast))
	copy(w.Forecast, s.weather.Forecast)
	return w
}
