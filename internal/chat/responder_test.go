package chat

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedResponder_RepliesAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rng := rand.New(rand.NewSource(1))
	r := NewSimulatedResponder(clock, rng, 800*time.Millisecond, 1700*time.Millisecond)

	type result struct {
		reply string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := r.Reply(context.Background(), "is it going to rain?")
		done <- result{reply, err}
	}()

	clock.BlockUntil(1)
	clock.Advance(1700 * time.Millisecond)

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Contains(t, res.reply, `"is it going to rain?"`)
	case <-time.After(3 * time.Second):
		t.Fatal("reply never arrived")
	}
}

func TestSimulatedResponder_NoReplyBeforeMinDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewSimulatedResponder(clock, rand.New(rand.NewSource(1)), 800*time.Millisecond, 1700*time.Millisecond)

	done := make(chan struct{})
	go func() {
		_, _ = r.Reply(context.Background(), "hello")
		close(done)
	}()

	clock.BlockUntil(1)
	clock.Advance(799 * time.Millisecond)

	select {
	case <-done:
		t.Fatal("reply arrived before the minimum delay")
	case <-time.After(100 * time.Millisecond):
	}

	clock.Advance(time.Second)
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("reply never arrived")
	}
}

func TestSimulatedResponder_CancelledContext(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewSimulatedResponder(clock, rand.New(rand.NewSource(1)), time.Second, 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := r.Reply(ctx, "hello")
		errs <- err
	}()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("reply never returned")
	}
}
