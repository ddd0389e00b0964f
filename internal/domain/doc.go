// Package domain models the farm dashboard's simulated telemetry and chat data.
//
// # Simulation Model
//
// Every numeric reading evolves as a bounded random walk: on each clock tick
// the previous value receives a uniform delta in [-maxDelta, +maxDelta] and is
// then clamped to the field's valid band. The bands follow the dashboard's
// display semantics:
//
//	Soil moisture:     [10, 90] percent (sensor floor/ceiling, not 0-100)
//	Soil pH:           [4.0, 9.0] (farming-plausible slice of the 0-14 scale)
//	Nutrients (N/P/K): >= 0 mg/kg
//	Rain probability:  [0, 100] percent
//	Humidity:          [0, 100] percent
//	Wind speed:        >= 0 km/h
//	Temperature:       unclamped, walks freely
//
// Clamping is the only safety net; a step is a total function over the
// previous reading plus entropy and has no error path.
//
// # Forecast History
//
// WeatherReading carries a fixed-capacity FIFO of ForecastPoint samples, one
// appended per tick, oldest evicted first. Time labels use the wall-clock
// "15:04" format the dashboard renders on chart axes.
//
// # Chat
//
// ChatMessage ordering is insertion order; there is no per-message timestamp.
// CaptureState tracks the hold-to-speak voice button (idle or listening).
package domain
