package state

import (
	"log/slog"
	"time"

	"github.com/roach88/riposte/internal/combat"
)

// Snapshot is the authoritative environment state for one tick. It is
// written wholesale by the single tick writer and read lock-free by every
// resolution query issued within the same tick.
type Snapshot struct {
	Job    combat.JobID
	Level  uint8
	Target combat.EntityID
	Zone   combat.ZoneID
	Flags  combat.StateFlags

	// Gauge holds the two generic per-job gauge words. Their meaning is
	// job-specific; rules decode them.
	Gauge [2]uint64

	// Frame is the monotonic tick counter, bumped once per UpdateCore.
	Frame combat.FrameStamp

	// TimeToNextAction is the seconds until the next primary action can
	// fire. Auxiliary suggestions are gated on it (the weave budget).
	TimeToNextAction float64

	Resource    uint32
	ResourceMax uint32
}

// InCombat reports the engaged flag.
func (s *Snapshot) InCombat() bool { return s.Flags.Has(combat.FlagInCombat) }

// CanAct reports whether the actor can currently act.
func (s *Snapshot) CanAct() bool { return s.Flags.Has(combat.FlagCanAct) }

// HasTarget reports whether a hard target is selected.
func (s *Snapshot) HasTarget() bool { return s.Flags.Has(combat.FlagHasTarget) }

// Moving reports the movement flag.
func (s *Snapshot) Moving() bool { return s.Flags.Has(combat.FlagMoving) }

// Restricted reports whether the actor is inside a restricted area.
func (s *Snapshot) Restricted() bool { return s.Flags.Has(combat.FlagInRestrictedArea) }

// CanProcess is the master gate for rule evaluation: engaged and able to
// act, outside restricted areas. The restricted-area clause goes beyond
// the plain in-combat-and-can-act gate: restricted zones forbid the
// resolved actions outright, so optimizing there could only suggest an
// action the host would reject.
func (s *Snapshot) CanProcess() bool {
	return s.InCombat() && s.CanAct() && !s.Restricted()
}

// TransitionKind tags a side-effect descriptor emitted by UpdateCore.
type TransitionKind uint8

const (
	// TransitionJobChanged is emitted when the actor's job differs from
	// the previous tick. The caller rebuilds rule chains and clears
	// resolution caches in response.
	TransitionJobChanged TransitionKind = iota + 1
)

// Transition describes a state change the caller must act on. Update
// returns descriptors instead of firing callbacks so the side effects stay
// visible and testable at the call site.
type Transition struct {
	Kind   TransitionKind
	OldJob combat.JobID
	NewJob combat.JobID
}

// Store owns the current snapshot and the three effect registries. It has
// no internal locking: the external contract is one writer, updating
// exactly once per tick before any resolve calls for that tick.
type Store struct {
	clock      Clock
	snap       Snapshot
	registries [combat.EffectKindCount]*EffectRegistry
	lastUpdate int64 // unix millis of the last UpdateCore, 0 before the first
}

// NewStore creates a zeroed store. The snapshot starts at frame 0 with
// JobNone; nothing is valid until the first UpdateCore.
func NewStore(clock Clock) *Store {
	s := &Store{clock: clock}
	for k := combat.EffectKind(0); k < combat.EffectKindCount; k++ {
		s.registries[k] = NewEffectRegistry(k, clock)
	}
	return s
}

// Snapshot returns the live snapshot. Readers hold the pointer only within
// the tick they obtained it; the next UpdateCore overwrites it in place.
func (s *Store) Snapshot() *Snapshot {
	return &s.snap
}

// Frame returns the current frame stamp.
func (s *Store) Frame() combat.FrameStamp {
	return s.snap.Frame
}

// Effects returns the registry for one effect kind.
func (s *Store) Effects(kind combat.EffectKind) *EffectRegistry {
	return s.registries[kind]
}

// UpdateCore overwrites the identity half of the snapshot and bumps the
// frame stamp. Called exactly once per tick, before UpdateScalars and
// before any resolution query.
//
// Returns side-effect descriptors for changes the caller must apply; today
// that is only the job change, which requires a chain rebuild.
func (s *Store) UpdateCore(job combat.JobID, level uint8, target combat.EntityID, zone combat.ZoneID, flags combat.StateFlags) []Transition {
	var transitions []Transition
	if job != s.snap.Job && s.snap.Job != combat.JobNone {
		transitions = append(transitions, Transition{
			Kind:   TransitionJobChanged,
			OldJob: s.snap.Job,
			NewJob: job,
		})
		slog.Debug("job changed", "old", s.snap.Job, "new", job)
	}

	s.snap.Job = job
	s.snap.Level = level
	s.snap.Target = target
	s.snap.Zone = zone
	s.snap.Flags = flags
	s.snap.Frame++
	s.lastUpdate = unixMilli(s.clock)

	return transitions
}

// UpdateScalars overwrites the per-tick scalar fields. Called after
// UpdateCore within the same tick; does not bump the frame stamp.
func (s *Store) UpdateScalars(timeToNextAction float64, resource, resourceMax uint32) {
	s.snap.TimeToNextAction = timeToNextAction
	s.snap.Resource = resource
	s.snap.ResourceMax = resourceMax
}

// UpdateGauges overwrites the two job gauge words.
func (s *Store) UpdateGauges(g0, g1 uint64) {
	s.snap.Gauge[0] = g0
	s.snap.Gauge[1] = g1
}

// IsStale reports whether more than threshold has elapsed since the last
// UpdateCore. A store that never updated is always stale.
func (s *Store) IsStale(threshold time.Duration) bool {
	if s.lastUpdate == 0 {
		return true
	}
	return unixMilli(s.clock)-s.lastUpdate > threshold.Milliseconds()
}

// Reset returns the store to its zero state: frame 0, JobNone, empty
// registries. Used by ResetForTesting.
func (s *Store) Reset() {
	s.snap = Snapshot{}
	s.lastUpdate = 0
	for _, r := range s.registries {
		r.Reset()
	}
}
