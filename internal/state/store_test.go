package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/testutil"
)

func TestStoreUpdateCoreBumpsFrame(t *testing.T) {
	s := NewStore(testutil.NewManualClock())

	assert.Equal(t, combat.FrameStamp(0), s.Frame())
	s.UpdateCore(1, 50, 0, 10, combat.FlagInCombat)
	assert.Equal(t, combat.FrameStamp(1), s.Frame())
	s.UpdateCore(1, 50, 0, 10, combat.FlagInCombat)
	assert.Equal(t, combat.FrameStamp(2), s.Frame())
}

func TestStoreFirstJobEmitsNoTransition(t *testing.T) {
	s := NewStore(testutil.NewManualClock())

	// Leaving JobNone is startup, not a job change.
	transitions := s.UpdateCore(1, 50, 0, 0, 0)
	assert.Empty(t, transitions)
}

func TestStoreJobChangeTransition(t *testing.T) {
	s := NewStore(testutil.NewManualClock())

	s.UpdateCore(1, 50, 0, 0, 0)
	transitions := s.UpdateCore(2, 50, 0, 0, 0)

	require.Len(t, transitions, 1)
	assert.Equal(t, TransitionJobChanged, transitions[0].Kind)
	assert.Equal(t, combat.JobID(1), transitions[0].OldJob)
	assert.Equal(t, combat.JobID(2), transitions[0].NewJob)

	// Same job again: no transition.
	assert.Empty(t, s.UpdateCore(2, 51, 0, 0, 0))
}

func TestSnapshotCanProcess(t *testing.T) {
	tests := []struct {
		name  string
		flags combat.StateFlags
		want  bool
	}{
		{"engaged and able", combat.FlagInCombat | combat.FlagCanAct, true},
		{"out of combat", combat.FlagCanAct, false},
		{"cannot act", combat.FlagInCombat, false},
		{"restricted area", combat.FlagInCombat | combat.FlagCanAct | combat.FlagInRestrictedArea, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Flags: tt.flags}
			assert.Equal(t, tt.want, snap.CanProcess())
		})
	}
}

func TestStoreScalarsAndGauges(t *testing.T) {
	s := NewStore(testutil.NewManualClock())
	s.UpdateCore(1, 50, 0, 0, 0)
	s.UpdateScalars(1.5, 4200, 10000)
	s.UpdateGauges(3, 77)

	snap := s.Snapshot()
	assert.Equal(t, 1.5, snap.TimeToNextAction)
	assert.Equal(t, uint32(4200), snap.Resource)
	assert.Equal(t, uint32(10000), snap.ResourceMax)
	assert.Equal(t, uint64(3), snap.Gauge[0])
	assert.Equal(t, uint64(77), snap.Gauge[1])

	// Scalar updates do not bump the frame.
	assert.Equal(t, combat.FrameStamp(1), s.Frame())
}

func TestStoreIsStale(t *testing.T) {
	clock := testutil.NewManualClock()
	s := NewStore(clock)

	assert.True(t, s.IsStale(time.Second), "never updated is always stale")

	s.UpdateCore(1, 50, 0, 0, 0)
	assert.False(t, s.IsStale(time.Second))

	clock.Advance(999 * time.Millisecond)
	assert.False(t, s.IsStale(time.Second))

	clock.Advance(2 * time.Millisecond)
	assert.True(t, s.IsStale(time.Second))
}

func TestStoreReset(t *testing.T) {
	clock := testutil.NewManualClock()
	s := NewStore(clock)
	s.UpdateCore(1, 50, 7, 10, combat.FlagInCombat)
	s.Effects(combat.Cooldown).Update(map[combat.EffectID]float64{5: 3.0})

	s.Reset()

	assert.Equal(t, combat.FrameStamp(0), s.Frame())
	assert.Equal(t, combat.JobNone, s.Snapshot().Job)
	assert.Equal(t, 0, s.Effects(combat.Cooldown).Len())
	assert.True(t, s.IsStale(time.Second))
}
