package telemetry

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishimitra/field-engine/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, forecastCap int, alertProbability float64) (*Store, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	rng := rand.New(rand.NewSource(42))
	return NewStore(clock, rng, forecastCap, alertProbability, discardLogger()), clock
}

func TestStore_SeedReadings(t *testing.T) {
	store, _ := newTestStore(t, 10, 0)

	soil := store.Soil()
	assert.Equal(t, 42.0, soil.Moisture)
	assert.Equal(t, 6.3, soil.PH)
	assert.Equal(t, 18.0, soil.Nitrogen)

	weather := store.Weather()
	assert.Equal(t, 26.0, weather.TemperatureC)
	assert.Equal(t, "Partly Cloudy", weather.Condition)
	assert.Len(t, weather.Forecast, 10)
}

func TestStore_Step_InvariantsHold(t *testing.T) {
	store, clock := newTestStore(t, 10, 0.5)

	for i := 0; i < 5_000; i++ {
		clock.Advance(6 * time.Second)
		soil, weather, _ := store.Step()

		assert.GreaterOrEqual(t, soil.Moisture, domain.MoistureMin)
		assert.LessOrEqual(t, soil.Moisture, domain.MoistureMax)
		assert.GreaterOrEqual(t, soil.PH, domain.PHMin)
		assert.LessOrEqual(t, soil.PH, domain.PHMax)
		assert.GreaterOrEqual(t, soil.Nitrogen, 0.0)
		assert.GreaterOrEqual(t, soil.Phosphorus, 0.0)
		assert.GreaterOrEqual(t, soil.Potassium, 0.0)

		assert.GreaterOrEqual(t, weather.RainProbability, 0.0)
		assert.LessOrEqual(t, weather.RainProbability, 100.0)
		assert.GreaterOrEqual(t, weather.Humidity, 0.0)
		assert.LessOrEqual(t, weather.Humidity, 100.0)
		assert.GreaterOrEqual(t, weather.WindSpeedKmph, 0.0)
		assert.LessOrEqual(t, len(weather.Forecast), 10)
	}
}

func TestStore_Step_ForecastFIFO(t *testing.T) {
	store, clock := newTestStore(t, 10, 0)

	// Advance one minute per step so every point gets a distinct time label.
	var wantLabels []string
	for i := 0; i < 25; i++ {
		clock.Advance(time.Minute)
		wantLabels = append(wantLabels, clock.Now().Format("15:04"))
		store.Step()
	}

	weather := store.Weather()
	require.Len(t, weather.Forecast, 10)

	gotLabels := make([]string, 0, len(weather.Forecast))
	for _, p := range weather.Forecast {
		gotLabels = append(gotLabels, p.Time)
	}

	// Exactly the last 10 generated points, in generation order.
	if diff := cmp.Diff(wantLabels[len(wantLabels)-10:], gotLabels); diff != "" {
		t.Errorf("forecast labels mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Step_ConditionTracksRain(t *testing.T) {
	store, clock := newTestStore(t, 10, 0)

	clock.Advance(6 * time.Second)
	_, weather, _ := store.Step()
	assert.Equal(t, domain.ConditionFor(weather.RainProbability), weather.Condition)
}

func TestStore_Step_AlertProbability(t *testing.T) {
	always, clock := newTestStore(t, 10, 1.0)
	for i := 0; i < 20; i++ {
		clock.Advance(6 * time.Second)
		_, _, draft := always.Step()
		require.NotNil(t, draft)
		assert.Equal(t, domain.AlertWeather, draft.Category)
		assert.NotEmpty(t, draft.Text)
	}

	never, clock2 := newTestStore(t, 10, 0)
	for i := 0; i < 20; i++ {
		clock2.Advance(6 * time.Second)
		_, _, draft := never.Step()
		assert.Nil(t, draft)
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store, clock := newTestStore(t, 10, 0)

	before := store.Weather()
	clock.Advance(6 * time.Second)
	store.Step()

	// Mutating a snapshot's forecast must not touch the store.
	before.Forecast[0].TemperatureC = -273
	after := store.Weather()
	assert.NotEqual(t, -273.0, after.Forecast[0].TemperatureC)
}

func TestStore_Step_UpdatesTimestamps(t *testing.T) {
	store, clock := newTestStore(t, 10, 0)

	clock.Advance(6 * time.Second)
	soil, weather, _ := store.Step()
	assert.Equal(t, clock.Now(), soil.LastUpdated)
	assert.Equal(t, clock.Now(), weather.LastUpdated)
}
