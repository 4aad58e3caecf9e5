package rules

import "github.com/roach88/riposte/internal/combat"

// DefaultWeaveBudget is the seconds of time-to-next-primary-action each
// suggested auxiliary action needs. Empirically tuned in the reference
// system; configurable, not an invariant.
const DefaultWeaveBudget = 0.8

// DefaultAuxSlots caps suggestions per query.
const DefaultAuxSlots = 2

// AuxEngine evaluates the priority-ranked auxiliary rules of the active
// set. Suggestions fill a caller-supplied buffer; the engine allocates
// nothing.
type AuxEngine struct {
	weaveBudget float64
	maxSlots    int
}

// NewAuxEngine creates an engine with the given weave budget and slot
// cap; zero values take the defaults.
func NewAuxEngine(weaveBudget float64, maxSlots int) *AuxEngine {
	if weaveBudget <= 0 {
		weaveBudget = DefaultWeaveBudget
	}
	if maxSlots <= 0 {
		maxSlots = DefaultAuxSlots
	}
	return &AuxEngine{weaveBudget: weaveBudget, maxSlots: maxSlots}
}

// Suggest writes up to len(dst) suggested actions into dst and returns how
// many were written.
//
// Three gates run before any rule: the snapshot must allow processing, the
// set must carry auxiliary rules for the job, and there must be at least
// one weave budget of time-to-next-primary-action left. Each additional
// suggestion needs another budget slot, so a 0.9s window with a 0.8s
// budget yields at most one suggestion regardless of matching rules.
func (e *AuxEngine) Suggest(s *Set, ctx *Context, dst []combat.ActionID) int {
	if len(dst) == 0 || len(s.aux) == 0 {
		return 0
	}
	snap := ctx.Snapshot()
	if !snap.CanProcess() {
		return 0
	}
	slots := int(snap.TimeToNextAction / e.weaveBudget)
	if slots <= 0 {
		return 0
	}
	if slots > e.maxSlots {
		slots = e.maxSlots
	}
	if slots > len(dst) {
		slots = len(dst)
	}

	n := 0
	for i := range s.aux {
		if n == slots {
			break
		}
		if auxMatches(&s.aux[i], ctx) {
			dst[n] = s.aux[i].Action
			n++
		}
	}
	return n
}

// auxMatches runs one auxiliary predicate under the same fail-open
// recovery as chain rules.
func auxMatches(a *AuxRule, ctx *Context) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()
	return a.When == nil || a.When(ctx)
}
