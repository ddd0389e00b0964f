package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalk_StaysInBand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	v := 42.0
	for i := 0; i < 10_000; i++ {
		v = Walk(rng, v, 3, MoistureMin, MoistureMax)
		assert.GreaterOrEqual(t, v, MoistureMin)
		assert.LessOrEqual(t, v, MoistureMax)
	}
}

func TestWalk_DeltaBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	prev := 50.0
	for i := 0; i < 1_000; i++ {
		next := Walk(rng, prev, 3, 0, 100)
		assert.InDelta(t, prev, next, 3.0)
		prev = next
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 90.0, Clamp(95, 10, 90))
	assert.Equal(t, 10.0, Clamp(3, 10, 90))
	assert.Equal(t, 42.0, Clamp(42, 10, 90))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 26.4, Round(26.449, 1))
	assert.Equal(t, 6.31, Round(6.3099, 2))
	assert.Equal(t, 40.0, Round(40.4, 0))
}

func TestConditionFor(t *testing.T) {
	assert.Equal(t, "Rain Likely", ConditionFor(80))
	assert.Equal(t, "Cloudy", ConditionFor(60))
	assert.Equal(t, "Partly Cloudy", ConditionFor(40))
	assert.Equal(t, "Clear", ConditionFor(10))
}
