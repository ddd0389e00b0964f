package crops

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishimitra/field-engine/internal/domain"
)

func TestRegistry_SeededRecords(t *testing.T) {
	reg := NewRegistry(clockwork.NewFakeClock())

	crops := reg.Snapshot()
	require.Len(t, crops, 2)
	assert.Equal(t, "Wheat", crops[0].Name)
	assert.Equal(t, "Tomato", crops[1].Name)
}

func TestRegistry_Add(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))
	reg := NewRegistry(clock)

	crop, ok := reg.Add("  Maize  ")
	require.True(t, ok)
	assert.Equal(t, "Maize", crop.Name, "name is trimmed")
	assert.Equal(t, domain.StageSeeding, crop.GrowthStage)
	assert.Equal(t, domain.HealthGood, crop.HealthStatus)
	assert.Equal(t, "2025-03-10", crop.PlantedOn)

	crops := reg.Snapshot()
	require.Len(t, crops, 3)
	assert.Equal(t, crop.ID, crops[0].ID, "new crops go first")
}

func TestRegistry_Add_RejectsEmptyName(t *testing.T) {
	reg := NewRegistry(clockwork.NewFakeClock())

	_, ok := reg.Add("")
	assert.False(t, ok)
	_, ok = reg.Add("   ")
	assert.False(t, ok)
	assert.Len(t, reg.Snapshot(), 2)
}

func TestRegistry_Remove_Idempotent(t *testing.T) {
	reg := NewRegistry(clockwork.NewFakeClock())
	crop, ok := reg.Add("Barley")
	require.True(t, ok)

	assert.True(t, reg.Remove(crop.ID))
	assert.False(t, reg.Remove(crop.ID), "second removal is a no-op")
	assert.False(t, reg.Remove("no-such-id"))
	assert.Len(t, reg.Snapshot(), 2)
}
