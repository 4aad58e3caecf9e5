package state

import (
	"log/slog"

	"github.com/roach88/riposte/internal/combat"
)

// expirySentinel marks a tracked identifier whose expiry has never been
// observed. It lives on the millisecond timeline where no real expiry can
// be negative, so it never collides with a concrete instant.
const expirySentinel int64 = -1

// EffectRegistry tracks absolute expiry instants for one effect kind.
//
// Each identifier is in one of three states:
//   - absent: never tracked; Remaining reports 0, Ready reports false
//   - sentinel: tracked via TrackIfAbsent but never observed; Remaining
//     reports combat.SentinelRemaining, Ready reports false
//   - concrete: a real expiry instant, possibly already in the past
//
// The asymmetry between Remaining and Ready is deliberate. An effect that
// was never seen is treated as absent (low risk: at worst a refresh is
// suggested early), while a cooldown that was never seen is treated as not
// ready (a false "ready" would suggest an illegal action).
type EffectRegistry struct {
	kind   combat.EffectKind
	clock  Clock
	expiry map[combat.EffectID]int64
}

// NewEffectRegistry creates an empty registry for one effect kind.
func NewEffectRegistry(kind combat.EffectKind, clock Clock) *EffectRegistry {
	return &EffectRegistry{
		kind:   kind,
		clock:  clock,
		expiry: make(map[combat.EffectID]int64),
	}
}

// Kind returns the effect class this registry tracks.
func (r *EffectRegistry) Kind() combat.EffectKind {
	return r.kind
}

// TrackIfAbsent seeds the sentinel for id unless id is already present.
// Idempotent: re-seeding never downgrades a concrete expiry.
func (r *EffectRegistry) TrackIfAbsent(id combat.EffectID) {
	if _, ok := r.expiry[id]; ok {
		return
	}
	r.expiry[id] = expirySentinel
}

// Update converts observed remaining-seconds values to absolute expiry
// instants. A remaining value equal to the sentinel leaves the entry as
// sentinel; it does not mean "zero remaining".
//
// Identifiers not present in observed keep their previous state: the feed
// reports only what it saw this tick, and absence of an id from one tick's
// report is not evidence the effect dropped.
func (r *EffectRegistry) Update(observed map[combat.EffectID]float64) {
	if len(observed) == 0 {
		return
	}
	now := unixMilli(r.clock)
	for id, remaining := range observed {
		if combat.IsSentinel(remaining) {
			r.TrackIfAbsent(id)
			continue
		}
		r.expiry[id] = now + int64(remaining*1000)
	}
}

// Remaining returns the seconds left for id.
//
// Absent ids report 0 ("not present"), sentinel ids report
// combat.SentinelRemaining ("unknown"), and concrete expiries report
// max(0, expiry-now). Callers must branch on combat.IsSentinel before
// doing arithmetic on the result.
func (r *EffectRegistry) Remaining(id combat.EffectID) float64 {
	exp, ok := r.expiry[id]
	if !ok {
		return 0
	}
	if exp == expirySentinel {
		return combat.SentinelRemaining
	}
	left := exp - unixMilli(r.clock)
	if left <= 0 {
		return 0
	}
	return float64(left) / 1000
}

// Ready reports whether a cooldown identifier has elapsed. Sentinel and
// absent ids are both "not ready": an unknown recast must never be treated
// as available.
func (r *EffectRegistry) Ready(id combat.EffectID) bool {
	exp, ok := r.expiry[id]
	if !ok || exp == expirySentinel {
		return false
	}
	return exp <= unixMilli(r.clock)
}

// Tracked reports whether id is present in any state, sentinel included.
func (r *EffectRegistry) Tracked(id combat.EffectID) bool {
	_, ok := r.expiry[id]
	return ok
}

// Reset drops every entry. Used on job change and by ResetForTesting;
// the next tick's Update repopulates from the live feed.
func (r *EffectRegistry) Reset() {
	if len(r.expiry) > 0 {
		slog.Debug("effect registry reset", "kind", r.kind.String(), "entries", len(r.expiry))
	}
	clear(r.expiry)
}

// Len returns the number of tracked identifiers. Used for diagnostics.
func (r *EffectRegistry) Len() int {
	return len(r.expiry)
}
