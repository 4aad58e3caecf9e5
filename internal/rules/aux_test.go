package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/selection"
	"github.com/roach88/riposte/internal/state"
	"github.com/roach88/riposte/internal/testutil"
)

// auxFixture builds a set with three always-matching aux rules and a
// context whose scalars the test controls.
func auxFixture(t *testing.T) (*Set, *Context, *state.Store) {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.RegisterAux(AuxRule{Job: JobWarden, Label: "one", Priority: 10, Action: 11}))
	require.NoError(t, r.RegisterAux(AuxRule{Job: JobWarden, Label: "two", Priority: 20, Action: 12}))
	require.NoError(t, r.RegisterAux(AuxRule{Job: JobWarden, Label: "three", Priority: 30, Action: 13}))

	store := state.NewStore(testutil.NewManualClock())
	store.UpdateCore(JobWarden, 50, 0, 0, combat.FlagInCombat|combat.FlagCanAct)
	ctx := &Context{State: store, Selection: selection.NewCache(store)}
	return r.BuildSet(JobWarden, nil), ctx, store
}

func TestSuggestFillsByPriority(t *testing.T) {
	s, ctx, store := auxFixture(t)
	store.UpdateScalars(2.5, 0, 0)

	e := NewAuxEngine(0, 3)
	dst := make([]combat.ActionID, 3)
	n := e.Suggest(s, ctx, dst)

	require.Equal(t, 3, n)
	assert.Equal(t, []combat.ActionID{11, 12, 13}, dst)
}

func TestSuggestWeaveBudgetLimitsSlots(t *testing.T) {
	s, ctx, store := auxFixture(t)
	e := NewAuxEngine(0.8, 3)
	dst := make([]combat.ActionID, 3)

	// 0.9s window, 0.8s budget: one slot regardless of matching rules.
	store.UpdateScalars(0.9, 0, 0)
	assert.Equal(t, 1, e.Suggest(s, ctx, dst))

	// 1.7s buys two.
	store.UpdateScalars(1.7, 0, 0)
	assert.Equal(t, 2, e.Suggest(s, ctx, dst))

	// Under one budget: nothing.
	store.UpdateScalars(0.5, 0, 0)
	assert.Equal(t, 0, e.Suggest(s, ctx, dst))
}

func TestSuggestGatedByCanProcess(t *testing.T) {
	s, ctx, store := auxFixture(t)
	store.UpdateScalars(5, 0, 0)
	e := NewAuxEngine(0, 3)
	dst := make([]combat.ActionID, 3)

	store.UpdateCore(JobWarden, 50, 0, 0, combat.FlagCanAct) // out of combat
	assert.Equal(t, 0, e.Suggest(s, ctx, dst))

	store.UpdateCore(JobWarden, 50, 0, 0, combat.FlagInCombat|combat.FlagCanAct|combat.FlagInRestrictedArea)
	assert.Equal(t, 0, e.Suggest(s, ctx, dst))

	store.UpdateCore(JobWarden, 50, 0, 0, combat.FlagInCombat|combat.FlagCanAct)
	assert.Equal(t, 3, e.Suggest(s, ctx, dst))
}

func TestSuggestRespectsDstCapacity(t *testing.T) {
	s, ctx, store := auxFixture(t)
	store.UpdateScalars(10, 0, 0)
	e := NewAuxEngine(0, 8)

	dst := make([]combat.ActionID, 1)
	assert.Equal(t, 1, e.Suggest(s, ctx, dst))
	assert.Equal(t, combat.ActionID(11), dst[0])

	assert.Equal(t, 0, e.Suggest(s, ctx, nil))
}

func TestSuggestSkipsNonMatching(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterAux(AuxRule{Job: JobWarden, Label: "no", Priority: 10, Action: 11, When: never}))
	require.NoError(t, r.RegisterAux(AuxRule{Job: JobWarden, Label: "yes", Priority: 20, Action: 12}))

	store := state.NewStore(testutil.NewManualClock())
	store.UpdateCore(JobWarden, 50, 0, 0, combat.FlagInCombat|combat.FlagCanAct)
	store.UpdateScalars(5, 0, 0)
	ctx := &Context{State: store, Selection: selection.NewCache(store)}

	dst := make([]combat.ActionID, 2)
	n := NewAuxEngine(0, 2).Suggest(r.BuildSet(JobWarden, nil), ctx, dst)

	require.Equal(t, 1, n)
	assert.Equal(t, combat.ActionID(12), dst[0])
}

func TestSuggestPanickingPredicateSkipped(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterAux(AuxRule{
		Job: JobWarden, Label: "faulty", Priority: 10, Action: 11,
		When: func(*Context) bool { panic("boom") },
	}))
	require.NoError(t, r.RegisterAux(AuxRule{Job: JobWarden, Label: "sound", Priority: 20, Action: 12}))

	store := state.NewStore(testutil.NewManualClock())
	store.UpdateCore(JobWarden, 50, 0, 0, combat.FlagInCombat|combat.FlagCanAct)
	store.UpdateScalars(5, 0, 0)
	ctx := &Context{State: store, Selection: selection.NewCache(store)}

	dst := make([]combat.ActionID, 2)
	var n int
	assert.NotPanics(t, func() {
		n = NewAuxEngine(0, 2).Suggest(r.BuildSet(JobWarden, nil), ctx, dst)
	})
	require.Equal(t, 1, n)
	assert.Equal(t, combat.ActionID(12), dst[0])
}
