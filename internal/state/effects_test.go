package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/testutil"
)

const testEffect combat.EffectID = 42

func TestEffectRegistryAbsent(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.EffectOnActor, clock)

	assert.Equal(t, 0.0, r.Remaining(testEffect))
	assert.False(t, r.Ready(testEffect))
	assert.False(t, r.Tracked(testEffect))
}

func TestEffectRegistrySentinel(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.EffectOnActor, clock)

	r.TrackIfAbsent(testEffect)

	assert.True(t, r.Tracked(testEffect))
	assert.Equal(t, combat.SentinelRemaining, r.Remaining(testEffect))
	assert.False(t, r.Ready(testEffect))

	// Time passing never promotes a sentinel.
	clock.Advance(time.Hour)
	assert.Equal(t, combat.SentinelRemaining, r.Remaining(testEffect))
	assert.False(t, r.Ready(testEffect))
}

func TestEffectRegistryTrackIfAbsentIdempotent(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.EffectOnActor, clock)

	r.Update(map[combat.EffectID]float64{testEffect: 5.0})
	r.TrackIfAbsent(testEffect)

	// Re-seeding must not downgrade the concrete expiry.
	assert.InDelta(t, 5.0, r.Remaining(testEffect), 0.001)
}

func TestEffectRegistryRemainingClamped(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.EffectOnActor, clock)

	r.Update(map[combat.EffectID]float64{testEffect: 5.0})

	clock.Advance(4900 * time.Millisecond)
	assert.InDelta(t, 0.1, r.Remaining(testEffect), 0.001)

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, 0.0, r.Remaining(testEffect), "past expiry clamps to zero, never negative")
}

func TestEffectRegistrySentinelUpdatePreservesSentinel(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.EffectOnActor, clock)

	// A feed reporting the sentinel means "still unknown", not "0 left".
	r.Update(map[combat.EffectID]float64{testEffect: combat.SentinelRemaining})
	assert.Equal(t, combat.SentinelRemaining, r.Remaining(testEffect))

	// Once concrete, a sentinel report does not erase the known expiry.
	r.Update(map[combat.EffectID]float64{testEffect: 3.0})
	r.Update(map[combat.EffectID]float64{testEffect: combat.SentinelRemaining})
	assert.InDelta(t, 3.0, r.Remaining(testEffect), 0.001)
}

func TestEffectRegistryUpdateSkipsMissingIDs(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.EffectOnActor, clock)

	r.Update(map[combat.EffectID]float64{testEffect: 5.0})
	r.Update(map[combat.EffectID]float64{99: 1.0})

	assert.InDelta(t, 5.0, r.Remaining(testEffect), 0.001)
	assert.InDelta(t, 1.0, r.Remaining(99), 0.001)
}

func TestCooldownReady(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.Cooldown, clock)

	r.Update(map[combat.EffectID]float64{testEffect: 2.0})
	assert.False(t, r.Ready(testEffect))

	clock.Advance(2 * time.Second)
	assert.True(t, r.Ready(testEffect))

	// An observed zero remaining is ready immediately.
	r.Update(map[combat.EffectID]float64{99: 0})
	assert.True(t, r.Ready(99))
}

func TestEffectRegistryReset(t *testing.T) {
	clock := testutil.NewManualClock()
	r := NewEffectRegistry(combat.Cooldown, clock)

	r.Update(map[combat.EffectID]float64{testEffect: 5.0})
	r.TrackIfAbsent(7)
	assert.Equal(t, 2, r.Len())

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0.0, r.Remaining(testEffect))
	assert.False(t, r.Tracked(7))
}
