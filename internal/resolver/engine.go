package resolver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/riposte/internal/cache"
	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/config"
	"github.com/roach88/riposte/internal/rules"
	"github.com/roach88/riposte/internal/selection"
	"github.com/roach88/riposte/internal/state"
)

// Source says how a resolution was produced. Observers and traces use it;
// callers of Resolve never see it.
type Source uint8

const (
	// SourcePassthrough means the input came back unchanged without
	// evaluation: engine uninitialized or degraded mode.
	SourcePassthrough Source = iota
	// SourceCache means a memoization tier answered.
	SourceCache
	// SourceEvaluated means the rule chains ran.
	SourceEvaluated
)

// String returns the source name for traces.
func (s Source) String() string {
	switch s {
	case SourcePassthrough:
		return "passthrough"
	case SourceCache:
		return "cache"
	case SourceEvaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// Observer receives the engine's inbound feeds and outbound resolutions.
// The trace recorder implements it to make runs replayable; a nil observer
// costs one branch per call. Only ObserveResolution sits on the hot path;
// implementations must not allocate there.
type Observer interface {
	ObserveTick(frame combat.FrameStamp, snap *state.Snapshot)
	ObserveEffects(frame combat.FrameStamp, kind combat.EffectKind, observed map[combat.EffectID]float64)
	ObserveCandidates(frame combat.FrameStamp, ids []combat.EntityID, hp []float64, flags []combat.EntityFlags, count int)
	ObserveHardTarget(frame combat.FrameStamp, id combat.EntityID, valid bool)
	ObserveResolution(frame combat.FrameStamp, input, resolved combat.ActionID, source Source)
}

// Engine is the process-wide resolution engine.
//
// Lifecycle: New constructs, Initialize arms, Dispose disarms. Initialize
// on an armed engine is an error; no sub-component is constructed twice
// without an intervening Dispose. Before Initialize every resolve call
// passes its input through unchanged.
type Engine struct {
	clock    state.Clock
	registry *rules.Registry
	profile  *config.Profile
	observer Observer

	ttl         time.Duration
	weaveBudget float64
	auxSlots    int

	store     *state.Store
	selection *selection.Cache
	aux       *rules.AuxEngine
	resCache  *cache.Resolution
	ctx       rules.Context

	set        *rules.Set
	setVersion uint64

	initialized bool
	degraded    bool
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock substitutes the wall clock. Tests pass testutil.ManualClock.
func WithClock(c state.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithProfile sets the enablement profile. Defaults to config.Default
// (everything enabled).
func WithProfile(p *config.Profile) Option {
	return func(e *Engine) { e.profile = p }
}

// WithRegistry sets the rule table. Defaults to rules.BuiltinRegistry.
func WithRegistry(r *rules.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithObserver attaches a tick/resolution observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithTTL overrides the associative cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.ttl = ttl }
}

// WithWeaveBudget overrides the per-slot auxiliary weave budget, seconds.
func WithWeaveBudget(budget float64) Option {
	return func(e *Engine) { e.weaveBudget = budget }
}

// WithAuxSlots overrides the auxiliary suggestion cap.
func WithAuxSlots(n int) Option {
	return func(e *Engine) { e.auxSlots = n }
}

// New creates an unarmed engine. Call Initialize before the first tick.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = state.SystemClock{}
	}
	if e.registry == nil {
		e.registry = rules.BuiltinRegistry()
	}
	if e.profile == nil {
		e.profile = config.Default()
	}
	return e
}

// Initialize constructs the state store, the selection cache, and both
// memoization tiers, and seeds the sentinel for every declared effect
// track. Errors if the engine is already initialized.
func (e *Engine) Initialize() error {
	if e.initialized {
		return fmt.Errorf("engine already initialized")
	}
	e.store = state.NewStore(e.clock)
	e.selection = selection.NewCache(e.store)
	e.aux = rules.NewAuxEngine(e.weaveBudget, e.auxSlots)
	e.resCache = cache.NewResolution(e.clock, e.ttl)
	e.ctx = rules.Context{State: e.store, Selection: e.selection}
	e.seedTracks()
	e.rebuildSet()
	e.initialized = true
	slog.Info("resolution engine initialized", "jobs", len(e.registry.Jobs()))
	return nil
}

// Dispose disarms the engine and drops its sub-components. A disposed
// engine passes resolutions through until re-initialized.
func (e *Engine) Dispose() {
	if !e.initialized {
		return
	}
	e.initialized = false
	e.store = nil
	e.selection = nil
	e.aux = nil
	e.resCache = nil
	e.set = nil
	e.ctx = rules.Context{}
	slog.Info("resolution engine disposed")
}

// ResetForTesting clears every tier and re-seeds the sentinels without
// tearing down components. No-op before Initialize.
func (e *Engine) ResetForTesting() {
	if !e.initialized {
		return
	}
	e.store.Reset()
	e.selection.Reset()
	e.resCache.Clear()
	e.seedTracks()
	e.rebuildSet()
}

// SetDegraded flips the degraded-mode switch. While degraded, Resolve
// returns its input without evaluation, trading optimization for
// guaranteed latency.
func (e *Engine) SetDegraded(on bool) {
	if e.degraded != on {
		slog.Info("degraded mode", "on", on)
	}
	e.degraded = on
}

// Degraded reports the switch state.
func (e *Engine) Degraded() bool {
	return e.degraded
}

// Initialized reports the lifecycle state.
func (e *Engine) Initialized() bool {
	return e.initialized
}

// State exposes the snapshot store for rules-context consumers like the
// harness. Nil before Initialize.
func (e *Engine) State() *state.Store {
	return e.store
}

// seedTracks re-seeds the sentinel for every declared effect identifier.
func (e *Engine) seedTracks() {
	for _, t := range e.registry.Tracks() {
		e.store.Effects(t.Kind).TrackIfAbsent(t.ID)
	}
}

// rebuildSet rebuilds the active rule set for the current job against the
// current profile version and clears both cache tiers. Runs on the tick
// path only.
func (e *Engine) rebuildSet() {
	job := e.store.Snapshot().Job
	e.set = e.registry.BuildSet(job, e.profile.EnabledFunc(job))
	e.setVersion = e.profile.Version()
	e.resCache.Clear()
	slog.Debug("rule set rebuilt",
		"job", job,
		"chains", e.set.ChainCount(),
		"dynamic", e.set.Dynamic(),
		"profile_version", e.setVersion,
	)
}
