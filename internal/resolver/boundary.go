package resolver

import (
	"time"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/rules"
	"github.com/roach88/riposte/internal/selection"
	"github.com/roach88/riposte/internal/state"
)

// UpdateCoreState overwrites the identity half of the snapshot and bumps
// the frame. Called exactly once per tick, first. Job-change transitions
// reset the effect registries, re-seed the sentinels, and rebuild the rule
// set; the caches never serve a decision made under another job.
func (e *Engine) UpdateCoreState(job combat.JobID, level uint8, target combat.EntityID, zone combat.ZoneID, flags combat.StateFlags) {
	if !e.initialized {
		return
	}
	transitions := e.store.UpdateCore(job, level, target, zone, flags)
	for _, tr := range transitions {
		switch tr.Kind {
		case state.TransitionJobChanged:
			for k := combat.EffectKind(0); k < combat.EffectKindCount; k++ {
				e.store.Effects(k).Reset()
			}
			e.seedTracks()
			e.rebuildSet()
		}
	}
	// The first real job arrives without a transition (the store stays
	// quiet about leaving JobNone); profile edits arrive without any
	// store signal at all. Both invalidate the built set.
	if e.set.Job() != job || e.setVersion != e.profile.Version() {
		e.rebuildSet()
	}
	if e.observer != nil {
		e.observer.ObserveTick(e.store.Frame(), e.store.Snapshot())
	}
}

// UpdateScalarState overwrites the per-tick scalars.
func (e *Engine) UpdateScalarState(timeToNextAction float64, resource, resourceMax uint32) {
	if !e.initialized {
		return
	}
	e.store.UpdateScalars(timeToNextAction, resource, resourceMax)
}

// UpdateGauges overwrites the job gauge words.
func (e *Engine) UpdateGauges(g0, g1 uint64) {
	if !e.initialized {
		return
	}
	e.store.UpdateGauges(g0, g1)
}

// UpdateEffects feeds one effect kind's observed remaining seconds.
func (e *Engine) UpdateEffects(kind combat.EffectKind, observed map[combat.EffectID]float64) {
	if !e.initialized || kind >= combat.EffectKindCount {
		return
	}
	e.store.Effects(kind).Update(observed)
	if e.observer != nil {
		e.observer.ObserveEffects(e.store.Frame(), kind, observed)
	}
}

// UpdateEntityCandidates feeds this tick's candidate entities.
func (e *Engine) UpdateEntityCandidates(ids []combat.EntityID, hp []float64, flags []combat.EntityFlags, count int) {
	if !e.initialized {
		return
	}
	e.selection.Update(ids, hp, flags, count)
	if e.observer != nil {
		e.observer.ObserveCandidates(e.store.Frame(), ids, hp, flags, count)
	}
}

// UpdateHardTarget feeds the externally selected hard target.
func (e *Engine) UpdateHardTarget(id combat.EntityID, valid bool) {
	if !e.initialized {
		return
	}
	e.selection.UpdateHardTarget(id, valid)
	if e.observer != nil {
		e.observer.ObserveHardTarget(e.store.Frame(), id, valid)
	}
}

// IsStale reports whether the last tick is older than threshold.
func (e *Engine) IsStale(threshold time.Duration) bool {
	if !e.initialized {
		return true
	}
	return e.store.IsStale(threshold)
}

// Resolve maps a trigger action to the action that should execute.
//
// Uninitialized or degraded engines pass the input through; so does any
// trigger no enabled chain claims. The memoization tier is chosen by the
// active set: frame memo when any rule is dynamic, TTL otherwise.
func (e *Engine) Resolve(input combat.ActionID) combat.ActionID {
	if !e.initialized || e.degraded {
		if e.observer != nil {
			e.observer.ObserveResolution(e.frameOrZero(), input, input, SourcePassthrough)
		}
		return input
	}

	evaluated := false
	out := e.resCache.Resolve(input, e.store.Frame(), e.set.Dynamic(), func(in combat.ActionID) combat.ActionID {
		evaluated = true
		return e.set.Resolve(&e.ctx, in)
	})

	if e.observer != nil {
		src := SourceCache
		if evaluated {
			src = SourceEvaluated
		}
		e.observer.ObserveResolution(e.store.Frame(), input, out, src)
	}
	return out
}

// SuggestAuxiliary fills dst with up to its capacity of opportunistic
// secondary actions and returns how many were written. Returns 0 while
// uninitialized, degraded, or when the profile disables the job's
// auxiliary path.
func (e *Engine) SuggestAuxiliary(dst []combat.ActionID) int {
	if !e.initialized || e.degraded {
		return 0
	}
	if !e.profile.AuxiliaryEnabled(e.store.Snapshot().Job) {
		return 0
	}
	return e.aux.Suggest(e.set, &e.ctx, dst)
}

// ResolveTarget picks the entity for an entity-targeted ability. Abilities
// without a targeting declaration use the standard recipient tiers with
// default options.
func (e *Engine) ResolveTarget(ability combat.ActionID) combat.EntityID {
	if !e.initialized {
		return 0
	}
	spec, ok := e.registry.AbilityFor(ability)
	if !ok {
		return e.selection.ResolveTarget(selection.Options{})
	}
	switch spec.Mode {
	case rules.TargetCleanse:
		return e.selection.ResolveCleanseTarget(spec.Opts)
	case rules.TargetPlacement:
		return e.selection.ResolvePlacement()
	default:
		return e.selection.ResolveTarget(spec.Opts)
	}
}

// ClearResolutionCache invalidates both memoization tiers. External
// callers use it when their rule mode changes outside a tick.
func (e *Engine) ClearResolutionCache() {
	if e.initialized {
		e.resCache.Clear()
	}
}

func (e *Engine) frameOrZero() combat.FrameStamp {
	if e.store == nil {
		return 0
	}
	return e.store.Frame()
}
