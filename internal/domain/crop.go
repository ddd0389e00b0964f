package domain

// Defaults applied when a crop is added from the dashboard quick form.
const (
	StageSeeding = "Seeding"
	HealthGood   = "Good"
)

// CropRecord tracks one crop entry on the dashboard. Records live only in
// memory; there is no server round-trip behind add/remove.
type CropRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	GrowthStage  string `json:"growth_stage"`
	HealthStatus string `json:"health_status"`
	PlantedOn    string `json:"planted_on"` // "2006-01-02"
}
