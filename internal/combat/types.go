package combat

// ActionID identifies a requested or resolved action. The zero value means
// "no action" and is never a valid trigger.
type ActionID uint32

// EntityID identifies an actor, party member, companion, or target.
// The zero value means "no entity".
type EntityID uint32

// EffectID identifies a persistent effect or a cooldown group.
type EffectID uint32

// JobID identifies the actor's job (class). Jobs select which rule chains
// and auxiliary rules are active.
type JobID uint8

// ZoneID identifies the current zone. Some rules gate on restricted zones.
type ZoneID uint16

// FrameStamp is the monotonic per-tick counter. It is incremented exactly
// once per state update and scopes all per-frame memoization.
type FrameStamp uint64

// JobNone is the zero job, reported before the first state update.
const JobNone JobID = 0

// EffectKind selects one of the three independently tracked expiry classes.
type EffectKind uint8

const (
	// EffectOnActor tracks persistent effects applied to the actor itself.
	EffectOnActor EffectKind = iota
	// EffectOnTarget tracks persistent effects applied to the current target.
	EffectOnTarget
	// Cooldown tracks per-action recast timers.
	Cooldown

	// EffectKindCount is the number of tracked kinds; registries are sized
	// with it.
	EffectKindCount
)

// String returns the kind name for logs and traces.
func (k EffectKind) String() string {
	switch k {
	case EffectOnActor:
		return "actor_effect"
	case EffectOnTarget:
		return "target_effect"
	case Cooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// SentinelRemaining is the reserved "tracked but never observed" marker for
// remaining-seconds values. It is distinct from both "absent" (never tracked,
// reported as 0) and "expired" (concrete expiry in the past, also 0).
//
// Callers must compare against it exactly; it must never feed arithmetic.
const SentinelRemaining = -1.0

// IsSentinel reports whether a remaining-seconds value is the sentinel.
func IsSentinel(remaining float64) bool {
	return remaining == SentinelRemaining
}
