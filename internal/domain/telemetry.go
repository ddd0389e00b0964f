package domain

import "time"

// Valid bands for clamped telemetry fields.
const (
	MoistureMin = 10.0
	MoistureMax = 90.0
	PHMin       = 4.0
	PHMax       = 9.0
	PercentMin  = 0.0
	PercentMax  = 100.0

	// NoUpperBound is the max argument for fields that only have a floor.
	NoUpperBound = 1e9
)

// SoilReading is one snapshot of the simulated soil sensors for a field.
type SoilReading struct {
	Moisture    float64   `json:"moisture"`   // percent, [10, 90]
	PH          float64   `json:"ph"`         // [4.0, 9.0]
	Nitrogen    float64   `json:"nitrogen"`   // mg/kg, >= 0
	Phosphorus  float64   `json:"phosphorus"` // mg/kg, >= 0
	Potassium   float64   `json:"potassium"`  // mg/kg, >= 0
	LastUpdated time.Time `json:"last_updated"`
}

// ForecastPoint is one per-tick weather sample kept for trend charts.
type ForecastPoint struct {
	Time            string  `json:"time"` // "15:04" axis label
	TemperatureC    float64 `json:"temperature_c"`
	RainProbability float64 `json:"rain_probability"`
	WindSpeedKmph   float64 `json:"wind_speed_kmph"`
}

// WeatherReading is one snapshot of the simulated local weather, carrying a
// fixed-capacity FIFO of recent forecast points.
type WeatherReading struct {
	TemperatureC    float64         `json:"temperature_c"`
	RainProbability float64         `json:"rain_probability"` // percent, [0, 100]
	WindSpeedKmph   float64         `json:"wind_speed_kmph"`  // >= 0
	Humidity        float64         `json:"humidity"`         // percent, [0, 100]
	Condition       string          `json:"condition"`
	LastUpdated     time.Time       `json:"last_updated"`
	Forecast        []ForecastPoint `json:"forecast"`
}

// ConditionFor derives a display condition label from the rain probability.
func ConditionFor(rainProbability float64) string {
	switch {
	case rainProbability >= 75:
		return "Rain Likely"
	case rainProbability >= 55:
		return "Cloudy"
	case rainProbability >= 30:
		return "Partly Cloudy"
	default:
		return "Clear"
	}
}
