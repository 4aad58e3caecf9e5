// Package harness runs declarative scenarios against the real resolution
// engine.
//
// A scenario scripts the engine's update boundary tick by tick and embeds
// the queries to issue after each tick, with optional inline expectations.
// The harness drives a manual clock, so effect expiries and cache TTLs
// land on exact boundaries and every run of a scenario produces the same
// event trace. Golden-file comparison of those traces lives in golden.go.
package harness

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/config"
	"github.com/roach88/riposte/internal/resolver"
	"github.com/roach88/riposte/internal/rules"
	"github.com/roach88/riposte/internal/selection"
	"github.com/roach88/riposte/internal/state"
	"github.com/roach88/riposte/internal/testutil"
)

// defaultTickMillis is the clock advance between ticks when the scenario
// does not set one.
const defaultTickMillis = 100

// Event is one query outcome in a scenario trace. Field order is the
// serialization order; traces are diffed against golden files.
type Event struct {
	Frame       uint64   `json:"frame"`
	Type        string   `json:"type"`
	Input       uint32   `json:"input,omitempty"`
	Resolved    uint32   `json:"resolved,omitempty"`
	Source      string   `json:"source,omitempty"`
	Suggestions []uint32 `json:"suggestions,omitempty"`
	Ability     uint32   `json:"ability,omitempty"`
	Entity      uint32   `json:"entity,omitempty"`
}

// Result is a completed scenario run.
type Result struct {
	Scenario string
	Events   []Event
	// Failures lists unmet inline expectations, empty on success.
	Failures []string
}

// sourceProbe captures the source of the most recent resolution. The
// harness is the only consumer; the other observer hooks are no-ops.
type sourceProbe struct {
	last resolver.Source
}

func (p *sourceProbe) ObserveTick(combat.FrameStamp, *state.Snapshot) {}
func (p *sourceProbe) ObserveEffects(combat.FrameStamp, combat.EffectKind, map[combat.EffectID]float64) {
}
func (p *sourceProbe) ObserveCandidates(combat.FrameStamp, []combat.EntityID, []float64, []combat.EntityFlags, int) {
}
func (p *sourceProbe) ObserveHardTarget(combat.FrameStamp, combat.EntityID, bool) {}
func (p *sourceProbe) ObserveResolution(_ combat.FrameStamp, _, _ combat.ActionID, source resolver.Source) {
	p.last = source
}

// LoadScenario parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if len(sc.Ticks) == 0 {
		return nil, fmt.Errorf("scenario %q has no ticks", sc.Name)
	}
	return &sc, nil
}

// Run executes a scenario against a fresh engine with the builtin rule
// registry and returns the event trace plus any expectation failures.
func Run(sc *Scenario) (*Result, error) {
	return RunWith(sc, rules.BuiltinRegistry())
}

// RunWith executes a scenario against a specific rule registry.
func RunWith(sc *Scenario, registry *rules.Registry) (*Result, error) {
	profile, err := scenarioProfile(sc)
	if err != nil {
		return nil, err
	}

	clock := testutil.NewManualClock()
	probe := &sourceProbe{}
	eng := resolver.New(
		resolver.WithClock(clock),
		resolver.WithRegistry(registry),
		resolver.WithProfile(profile),
		resolver.WithObserver(probe),
	)
	if err := eng.Initialize(); err != nil {
		return nil, err
	}
	defer eng.Dispose()

	tickMillis := sc.TickMillis
	if tickMillis <= 0 {
		tickMillis = defaultTickMillis
	}

	result := &Result{Scenario: sc.Name}
	for i := range sc.Ticks {
		if i > 0 {
			clock.Advance(time.Duration(tickMillis) * time.Millisecond)
		}
		if err := runTick(eng, probe, &sc.Ticks[i], result); err != nil {
			return nil, fmt.Errorf("scenario %q tick %d: %w", sc.Name, i+1, err)
		}
	}
	return result, nil
}

func runTick(eng *resolver.Engine, probe *sourceProbe, tick *TickScript, result *Result) error {
	if err := feedTick(eng, tick); err != nil {
		return err
	}
	frame := uint64(eng.State().Frame())

	for _, q := range tick.Queries {
		resolved := eng.Resolve(combat.ActionID(q.Input))
		result.Events = append(result.Events, Event{
			Frame:    frame,
			Type:     "resolve",
			Input:    q.Input,
			Resolved: uint32(resolved),
			Source:   probe.last.String(),
		})
		if q.Want != nil && uint32(resolved) != *q.Want {
			result.Failures = append(result.Failures,
				fmt.Sprintf("frame %d: resolve(%d) = %d, want %d", frame, q.Input, resolved, *q.Want))
		}
	}

	if tick.Aux != nil {
		maxCount := tick.Aux.Max
		if maxCount <= 0 {
			maxCount = rules.DefaultAuxSlots
		}
		buf := make([]combat.ActionID, maxCount)
		n := eng.SuggestAuxiliary(buf)
		suggestions := make([]uint32, n)
		for i := 0; i < n; i++ {
			suggestions[i] = uint32(buf[i])
		}
		result.Events = append(result.Events, Event{
			Frame:       frame,
			Type:        "aux",
			Suggestions: suggestions,
		})
		if tick.Aux.Want != nil && !equalU32(suggestions, tick.Aux.Want) {
			result.Failures = append(result.Failures,
				fmt.Sprintf("frame %d: aux = %v, want %v", frame, suggestions, tick.Aux.Want))
		}
	}

	for _, t := range tick.Targets {
		entity := eng.ResolveTarget(combat.ActionID(t.Ability))
		result.Events = append(result.Events, Event{
			Frame:   frame,
			Type:    "target",
			Ability: t.Ability,
			Entity:  uint32(entity),
		})
		if t.Want != nil && uint32(entity) != *t.Want {
			result.Failures = append(result.Failures,
				fmt.Sprintf("frame %d: target(%d) = %d, want %d", frame, t.Ability, entity, *t.Want))
		}
	}

	return nil
}

func feedTick(eng *resolver.Engine, tick *TickScript) error {
	if tick.Core != nil {
		flags, err := parseStateFlags(tick.Core.Flags)
		if err != nil {
			return err
		}
		eng.UpdateCoreState(
			combat.JobID(tick.Core.Job),
			tick.Core.Level,
			combat.EntityID(tick.Core.Target),
			combat.ZoneID(tick.Core.Zone),
			flags,
		)
	}
	if tick.Scalars != nil {
		eng.UpdateScalarState(tick.Scalars.NextAction, tick.Scalars.Resource, tick.Scalars.ResourceMax)
	}
	if len(tick.Gauges) > 0 {
		var g0, g1 uint64
		g0 = tick.Gauges[0]
		if len(tick.Gauges) > 1 {
			g1 = tick.Gauges[1]
		}
		eng.UpdateGauges(g0, g1)
	}
	for kindName, observed := range tick.Effects {
		kind, ok := effectKindNames[kindName]
		if !ok {
			return fmt.Errorf("unknown effect kind %q", kindName)
		}
		feed := make(map[combat.EffectID]float64, len(observed))
		for id, remaining := range observed {
			feed[combat.EffectID(id)] = remaining
		}
		eng.UpdateEffects(kind, feed)
	}
	if len(tick.Candidates) > 0 {
		if len(tick.Candidates) > selection.Capacity {
			return fmt.Errorf("%d candidates exceed capacity %d", len(tick.Candidates), selection.Capacity)
		}
		ids := make([]combat.EntityID, len(tick.Candidates))
		hp := make([]float64, len(tick.Candidates))
		flags := make([]combat.EntityFlags, len(tick.Candidates))
		for i, c := range tick.Candidates {
			f, err := parseEntityFlags(c.Flags)
			if err != nil {
				return err
			}
			ids[i] = combat.EntityID(c.ID)
			hp[i] = c.HP
			flags[i] = f
		}
		eng.UpdateEntityCandidates(ids, hp, flags, len(tick.Candidates))
	}
	if tick.HardTarget != nil {
		eng.UpdateHardTarget(combat.EntityID(tick.HardTarget.ID), tick.HardTarget.Valid)
	}
	return nil
}

// scenarioProfile builds the enablement profile from the scenario's inline
// section, running it through the same schema validation as a file load.
func scenarioProfile(sc *Scenario) (*config.Profile, error) {
	if sc.Profile == nil {
		return config.Default(), nil
	}
	raw, err := yaml.Marshal(sc.Profile)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: marshal profile: %w", sc.Name, err)
	}
	profile, err := config.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return profile, nil
}

func equalU32(a []uint32, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
