package cache

import (
	"time"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/state"
)

// DefaultTTL is the associative tier's entry lifetime. Empirically tuned
// in the reference system; configurable, not an invariant.
const DefaultTTL = 100 * time.Millisecond

// Resolution is the outward-facing memoizing layer. It picks the tier per
// call: the TTL tier while the active rule set is static, the frame memo
// when any consulted rule is dynamic.
type Resolution struct {
	clock state.Clock
	ttl   time.Duration
	assoc Associative
	memo  FrameMemo

	hits   uint64
	misses uint64
}

// NewResolution creates a cache with the given TTL; zero takes DefaultTTL.
func NewResolution(clock state.Clock, ttl time.Duration) *Resolution {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolution{clock: clock, ttl: ttl}
}

// Resolve returns the memoized resolution for input or evaluates eval and
// stores the result. dynamic selects the frame memo; frame scopes it.
func (r *Resolution) Resolve(input combat.ActionID, frame combat.FrameStamp, dynamic bool, eval func(combat.ActionID) combat.ActionID) combat.ActionID {
	if dynamic {
		if out, ok := r.memo.Get(input, frame); ok {
			r.hits++
			return out
		}
		r.misses++
		out := eval(input)
		r.memo.Put(input, out, frame)
		return out
	}

	now := r.clock.Now().UnixMilli()
	if out, ok := r.assoc.Get(input, now); ok {
		r.hits++
		return out
	}
	r.misses++
	out := eval(input)
	r.assoc.Put(input, out, now+r.ttl.Milliseconds(), now)
	return out
}

// Clear invalidates both tiers. Called when the rule set, mode, or job
// changes.
func (r *Resolution) Clear() {
	r.assoc.Clear()
	r.memo.Clear()
}

// Stats returns lifetime hit and miss counts. Diagnostics only.
func (r *Resolution) Stats() (hits, misses uint64) {
	return r.hits, r.misses
}
