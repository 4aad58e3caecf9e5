package rules

import (
	"log/slog"

	"github.com/roach88/riposte/internal/combat"
)

// Evaluate walks the chain top to bottom and returns the first matching
// rule's resolution, or the input unchanged when nothing matches.
//
// A rule that panics is logged at debug level and treated as not matching.
// The fault is never surfaced: a single malformed rule must not block the
// rest of the chain or the underlying action.
func Evaluate(c *Chain, ctx *Context, input combat.ActionID) combat.ActionID {
	for i := range c.Rules {
		if out, matched := evalRule(&c.Rules[i], ctx, input); matched {
			return out
		}
	}
	return input
}

// evalRule runs one rule under panic recovery. On fault it reports
// "did not match" so the caller continues down the chain.
func evalRule(r *Rule, ctx *Context, input combat.ActionID) (out combat.ActionID, matched bool) {
	defer func() {
		if rec := recover(); rec != nil {
			out, matched = 0, false
			slog.Debug("rule fault, skipping", "rule", r.Label, "panic", rec)
		}
	}()

	if r.When != nil && !r.When(ctx) {
		return 0, false
	}
	if r.Then == nil {
		// Condition-only rule: matching means "leave the input alone".
		return input, true
	}
	return r.Then(ctx, input), true
}
