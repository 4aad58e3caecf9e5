package rules

import (
	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/selection"
	"github.com/roach88/riposte/internal/state"
)

// Context is what a rule sees: the live snapshot, the effect registries,
// and the candidate selection cache. It is assembled once per engine and
// reused; rules must not retain it across calls.
type Context struct {
	State     *state.Store
	Selection *selection.Cache
}

// Snapshot returns the current tick's snapshot.
func (c *Context) Snapshot() *state.Snapshot {
	return c.State.Snapshot()
}

// Remaining returns the seconds left on an effect, per the registry's
// tri-state contract.
func (c *Context) Remaining(kind combat.EffectKind, id combat.EffectID) float64 {
	return c.State.Effects(kind).Remaining(id)
}

// Ready reports whether a cooldown has elapsed.
func (c *Context) Ready(id combat.EffectID) bool {
	return c.State.Effects(combat.Cooldown).Ready(id)
}

// Predicate decides whether a rule applies to the current context.
type Predicate func(*Context) bool

// Resolver produces the output action for a matched rule. The input is the
// trigger action; most resolvers ignore it and return a fixed replacement.
type Resolver func(*Context, combat.ActionID) combat.ActionID

// Rule is one condition/result pair in a chain.
//
// Label is the stable name the external enablement profile keys on; it is
// never shown on the hot path. Dynamic marks rules whose predicate reads
// time-sensitive state (recast timers, remaining effect seconds); a chain
// containing any dynamic rule is memoized per frame instead of by TTL,
// because a TTL hit could span a frame boundary where those inputs
// genuinely changed.
type Rule struct {
	Label   string
	Dynamic bool
	When    Predicate
	Then    Resolver
}

// Chain is an ordered rule list claiming a set of trigger actions.
// Evaluation is first-match-wins with an implicit terminal fallback that
// returns the trigger unchanged.
type Chain struct {
	Job    combat.JobID
	Label  string
	Inputs []combat.ActionID
	Rules  []Rule
}

// Claims reports whether the chain handles the given trigger action.
func (c *Chain) Claims(input combat.ActionID) bool {
	for _, id := range c.Inputs {
		if id == input {
			return true
		}
	}
	return false
}

// Dynamic reports whether any rule in the chain is time-sensitive.
func (c *Chain) Dynamic() bool {
	for i := range c.Rules {
		if c.Rules[i].Dynamic {
			return true
		}
	}
	return false
}

// AuxRule is an independent opportunistic rule. Auxiliary rules have no
// chain ordering; Priority alone ranks them (lower fires first).
type AuxRule struct {
	Label    string
	Job      combat.JobID
	Priority int
	When     Predicate
	Action   combat.ActionID
}
