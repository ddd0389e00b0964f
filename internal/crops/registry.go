// Package crops keeps the in-memory crop records behind the dashboard's
// "Crops & Fields" card.
package crops

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/krishimitra/field-engine/internal/domain"
)

// Registry is the newest-first crop list. Single writer through Add/Remove,
// read-only snapshots for everyone else.
type Registry struct {
	mu    sync.Mutex
	clock clockwork.Clock
	crops []domain.CropRecord
}

// NewRegistry creates a Registry seeded with the dashboard's demo records.
func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		clock: clock,
		crops: []domain.CropRecord{
			{ID: uuid.NewString(), Name: "Wheat", GrowthStage: "Tillering", HealthStatus: domain.HealthGood, PlantedOn: "2025-01-20"},
			{ID: uuid.NewString(), Name: "Tomato", GrowthStage: "Flowering", HealthStatus: "Moderate", PlantedOn: "2025-02-12"},
		},
	}
}

// Add creates a crop record with default stage and health, planted today.
// A name that is empty after trimming is rejected.
func (r *Registry) Add(name string) (domain.CropRecord, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.CropRecord{}, false
	}

	crop := domain.CropRecord{
		ID:           uuid.NewString(),
		Name:         name,
		GrowthStage:  domain.StageSeeding,
		HealthStatus: domain.HealthGood,
		PlantedOn:    r.clock.Now().Format("2006-01-02"),
	}

	r.mu.Lock()
	r.crops = append([]domain.CropRecord{crop}, r.crops...)
	r.mu.Unlock()

	return crop, true
}

// Remove deletes the crop with the given ID. Removing an unknown ID is a
// no-op; it reports whether a record was removed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.crops {
		if c.ID == id {
			r.crops = append(r.crops[:i], r.crops[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the crop list, newest first.
func (r *Registry) Snapshot() []domain.CropRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.CropRecord, len(r.crops))
	copy(out, r.crops)
	return out
}
