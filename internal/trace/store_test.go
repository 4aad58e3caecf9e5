package trace

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/resolver"
	"github.com/roach88/riposte/internal/state"
)

func testRun(id string) Run {
	var effects [combat.EffectKindCount]map[combat.EffectID]float64
	effects[combat.Cooldown] = map[combat.EffectID]float64{5: 2.5}
	effects[combat.EffectOnActor] = map[combat.EffectID]float64{7: combat.SentinelRemaining}

	return Run{
		ID:        id,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Ticks: []Tick{
			{
				Frame: 1,
				Snapshot: state.Snapshot{
					Job: 1, Level: 50, Target: 9, Zone: 3,
					Flags:            combat.FlagInCombat | combat.FlagCanAct,
					Gauge:            [2]uint64{4, 0},
					Frame:            1,
					TimeToNextAction: 1.5,
					Resource:         8000, ResourceMax: 10000,
				},
				Effects: effects,
				Candidates: []Candidate{
					{ID: 1, HP: 1.0, Flags: combat.Usable | combat.EntitySelf},
					{ID: 2, HP: 0.4, Flags: combat.Usable | combat.EntityAlly},
				},
				HardTarget: 9, HardValid: true, HasHard: true,
			},
			{
				Frame:    2,
				Snapshot: state.Snapshot{Job: 1, Level: 50, Frame: 2},
			},
		},
		Resolutions: []Resolution{
			{Frame: 1, Input: 101, Resolved: 103, Source: resolver.SourceEvaluated},
			{Frame: 2, Input: 101, Resolved: 101, Source: resolver.SourceCache},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run := testRun("run-1")

	require.NoError(t, s.SaveRun(ctx, run, "round trip"))

	loaded, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, run.ID, loaded.ID)
	assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt))
	require.Len(t, loaded.Ticks, 2)

	tick := loaded.Ticks[0]
	assert.Equal(t, run.Ticks[0].Snapshot, tick.Snapshot)
	assert.Equal(t, 2.5, tick.Effects[combat.Cooldown][5])
	assert.Equal(t, combat.SentinelRemaining, tick.Effects[combat.EffectOnActor][7])
	assert.Equal(t, run.Ticks[0].Candidates, tick.Candidates)
	assert.True(t, tick.HasHard)
	assert.Equal(t, combat.EntityID(9), tick.HardTarget)
	assert.True(t, tick.HardValid)

	assert.False(t, loaded.Ticks[1].HasHard)
	assert.Equal(t, run.Resolutions, loaded.Resolutions)
}

func TestStoreRunsAreImmutable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, testRun("run-1"), ""))
	assert.Error(t, s.SaveRun(ctx, testRun("run-1"), ""))
}

func TestStoreLoadMissingRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadRun(context.Background(), "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStoreListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// UUIDv7 run ids sort by creation time, so id order is time order.
	require.NoError(t, s.SaveRun(ctx, testRun("run-a"), "first"))
	require.NoError(t, s.SaveRun(ctx, testRun("run-b"), "second"))

	infos, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "run-b", infos[0].ID)
	assert.Equal(t, "second", infos[0].Note)
	assert.Equal(t, 2, infos[0].Ticks)
	assert.Equal(t, 2, infos[0].Resolutions)
	assert.Equal(t, "run-a", infos[1].ID)
}

func TestStoreOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveRun(context.Background(), testRun("run-1"), ""))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	infos, err := s2.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}
