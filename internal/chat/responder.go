package chat

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// SimulatedResponder is the default assistant backend. It waits a random
// delay in [minDelay, maxDelay] on the injected clock and then echoes the
// user's message with canned field advice, mimicking a remote assistant
// without any network dependency.
type SimulatedResponder struct {
	clock    clockwork.Clock
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedResponder creates a responder with the given delay band.
// A nil rng is seeded from the clock.
func NewSimulatedResponder(clock clockwork.Clock, rng *rand.Rand, minDelay, maxDelay time.Duration) *SimulatedResponder {
	if rng == nil {
		rng = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}
	return &SimulatedResponder{
		clock:    clock,
		minDelay: minDelay,
		maxDelay: maxDelay,
		rng:      rng,
	}
}

// Reply waits the simulated latency and returns a templated reply. It
// returns ctx.Err() if the context is cancelled while waiting.
func (r *SimulatedResponder) Reply(ctx context.Context, userText string) (string, error) {
	r.mu.Lock()
	delay := r.minDelay
	if span := int64(r.maxDelay - r.minDelay); span > 0 {
		delay += time.Duration(r.rng.Int63n(span + 1))
	}
	r.mu.Unlock()

	if delay > 0 {
		timer := r.clock.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.Chan():
		}
	}

	return fmt.Sprintf("Noted: %q. Field readings look stable; check the telemetry card for soil moisture before irrigating.", userText), nil
}
