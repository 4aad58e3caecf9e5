package trace

import (
	"log/slog"
	"time"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/config"
	"github.com/roach88/riposte/internal/resolver"
	"github.com/roach88/riposte/internal/rules"
)

// Mismatch is one replayed resolution that disagreed with the record.
type Mismatch struct {
	Frame        combat.FrameStamp
	Input        combat.ActionID
	Recorded     combat.ActionID
	Replayed     combat.ActionID
	RecordedFrom resolver.Source
}

// Report summarizes a replay.
type Report struct {
	RunID      string
	Ticks      int
	Checked    int
	Skipped    int
	Mismatches []Mismatch
}

// Deterministic reports whether every checked resolution matched.
func (r *Report) Deterministic() bool {
	return len(r.Mismatches) == 0
}

// Replay feeds a recorded run through a fresh engine and compares every
// recorded resolution against the re-resolved answer.
//
// Passthrough and cache-served resolutions are skipped. A passthrough
// carries no evaluation to verify, and a cache hit may have been served
// by the TTL tier across a tick where a predicate input changed; the
// record is still legal, it just cannot be re-derived by evaluating
// against the tick it was served in. Queries replay inside the same tick
// their feeds arrived in, so time-sensitive rules see remaining seconds
// as the original tick saw them (modulo the microseconds between feed
// and query, which the original resolve paid too).
func Replay(run Run, registry *rules.Registry, profile *config.Profile) (*Report, error) {
	// A nanosecond TTL keeps the associative tier permanently expired.
	// Replay ticks run back-to-back, so a wall-clock TTL tuned for live
	// pacing could serve a hit across ticks the original evaluated
	// separately; what replay verifies is the evaluation, not the cache.
	eng := resolver.New(
		resolver.WithRegistry(registry),
		resolver.WithProfile(profile),
		resolver.WithTTL(time.Nanosecond),
	)
	if err := eng.Initialize(); err != nil {
		return nil, err
	}
	defer eng.Dispose()

	report := &Report{RunID: run.ID, Ticks: len(run.Ticks)}

	// Index resolutions by their recorded frame.
	byFrame := make(map[combat.FrameStamp][]Resolution, len(run.Ticks))
	for _, res := range run.Resolutions {
		byFrame[res.Frame] = append(byFrame[res.Frame], res)
	}

	for _, tick := range run.Ticks {
		feedTick(eng, tick)
		for _, res := range byFrame[tick.Frame] {
			if res.Source != resolver.SourceEvaluated {
				report.Skipped++
				continue
			}
			replayed := eng.Resolve(res.Input)
			report.Checked++
			if replayed != res.Resolved {
				report.Mismatches = append(report.Mismatches, Mismatch{
					Frame:        res.Frame,
					Input:        res.Input,
					Recorded:     res.Resolved,
					Replayed:     replayed,
					RecordedFrom: res.Source,
				})
			}
		}
	}

	if !report.Deterministic() {
		slog.Warn("replay found mismatches",
			"run", run.ID,
			"checked", report.Checked,
			"mismatches", len(report.Mismatches),
		)
	}
	return report, nil
}

// feedTick pushes one recorded tick through the engine's update boundary
// in the same order the original driver did.
func feedTick(eng *resolver.Engine, t Tick) {
	snap := t.Snapshot
	eng.UpdateCoreState(snap.Job, snap.Level, snap.Target, snap.Zone, snap.Flags)
	eng.UpdateScalarState(snap.TimeToNextAction, snap.Resource, snap.ResourceMax)
	eng.UpdateGauges(snap.Gauge[0], snap.Gauge[1])
	for kind := combat.EffectKind(0); kind < combat.EffectKindCount; kind++ {
		if len(t.Effects[kind]) > 0 {
			eng.UpdateEffects(kind, t.Effects[kind])
		}
	}
	if len(t.Candidates) > 0 {
		ids := make([]combat.EntityID, len(t.Candidates))
		hp := make([]float64, len(t.Candidates))
		flags := make([]combat.EntityFlags, len(t.Candidates))
		for i, c := range t.Candidates {
			ids[i] = c.ID
			hp[i] = c.HP
			flags[i] = c.Flags
		}
		eng.UpdateEntityCandidates(ids, hp, flags, len(t.Candidates))
	}
	if t.HasHard {
		eng.UpdateHardTarget(t.HardTarget, t.HardValid)
	}
}
