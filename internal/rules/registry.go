package rules

import (
	"fmt"
	"sort"

	"github.com/roach88/riposte/internal/combat"
)

// Registry is the static table of every chain and auxiliary rule the
// engine knows. It is populated once at startup from explicit Register
// calls; there is no runtime discovery.
type Registry struct {
	chains    map[combat.JobID][]*Chain
	aux       map[combat.JobID][]AuxRule
	labels    map[combat.JobID]map[string]bool
	abilities map[combat.ActionID]AbilitySpec
	tracks    []EffectTrack
}

// EffectTrack declares an effect or cooldown identifier some registered
// rule queries. The engine seeds the sentinel for every declared track on
// initialize, job change, and test reset, so a rule's first query before
// the feed reports anything sees "unknown" rather than "absent".
type EffectTrack struct {
	Kind combat.EffectKind
	ID   combat.EffectID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		chains: make(map[combat.JobID][]*Chain),
		aux:    make(map[combat.JobID][]AuxRule),
		labels: make(map[combat.JobID]map[string]bool),
	}
}

// Register adds a chain, validating that it claims at least one input,
// that its label is unique within the job, and that no other chain of the
// job claims one of its inputs. Declaration order is preserved.
func (r *Registry) Register(c *Chain) error {
	if c.Label == "" {
		return fmt.Errorf("chain for job %d has no label", c.Job)
	}
	if len(c.Inputs) == 0 {
		return fmt.Errorf("chain %q claims no inputs", c.Label)
	}
	if r.seen(c.Job, c.Label) {
		return fmt.Errorf("duplicate label %q for job %d", c.Label, c.Job)
	}
	for _, existing := range r.chains[c.Job] {
		for _, id := range c.Inputs {
			if existing.Claims(id) {
				return fmt.Errorf("chain %q: input %d already claimed by %q", c.Label, id, existing.Label)
			}
		}
	}
	r.chains[c.Job] = append(r.chains[c.Job], c)
	r.mark(c.Job, c.Label)
	return nil
}

// RegisterAux adds an auxiliary rule. Labels share the per-job namespace
// with chains so the enablement profile stays flat.
func (r *Registry) RegisterAux(a AuxRule) error {
	if a.Label == "" {
		return fmt.Errorf("aux rule for job %d has no label", a.Job)
	}
	if a.Action == 0 {
		return fmt.Errorf("aux rule %q has no action", a.Label)
	}
	if r.seen(a.Job, a.Label) {
		return fmt.Errorf("duplicate label %q for job %d", a.Label, a.Job)
	}
	r.aux[a.Job] = append(r.aux[a.Job], a)
	r.mark(a.Job, a.Label)
	return nil
}

// MustRegister is Register for static tables, panicking on a bad entry.
// Table mistakes are programmer errors and should fail at startup.
func (r *Registry) MustRegister(c *Chain) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// MustRegisterAux is RegisterAux for static tables.
func (r *Registry) MustRegisterAux(a AuxRule) {
	if err := r.RegisterAux(a); err != nil {
		panic(err)
	}
}

// Labels returns the sorted rule labels registered for a job. The
// configuration layer uses it to validate profile keys.
func (r *Registry) Labels(job combat.JobID) []string {
	set := r.labels[job]
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Jobs returns the sorted jobs that have at least one registration.
func (r *Registry) Jobs() []combat.JobID {
	set := make(map[combat.JobID]bool, len(r.labels))
	for j := range r.labels {
		set[j] = true
	}
	out := make([]combat.JobID, 0, len(set))
	for j := range set {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i] < out[k] })
	return out
}

// Track records an effect identifier for sentinel pre-seeding. Duplicates
// are dropped.
func (r *Registry) Track(kind combat.EffectKind, id combat.EffectID) {
	for _, t := range r.tracks {
		if t.Kind == kind && t.ID == id {
			return
		}
	}
	r.tracks = append(r.tracks, EffectTrack{Kind: kind, ID: id})
}

// Tracks returns the declared effect identifiers in registration order.
func (r *Registry) Tracks() []EffectTrack {
	return r.tracks
}

func (r *Registry) seen(job combat.JobID, label string) bool {
	return r.labels[job][label]
}

func (r *Registry) mark(job combat.JobID, label string) {
	if r.labels[job] == nil {
		r.labels[job] = make(map[string]bool)
	}
	r.labels[job][label] = true
}

// Set is the per-job evaluation view built from the registry and the
// enablement profile. Building happens off the hot path (on initialize,
// job change, or profile version change); resolving is a map probe plus a
// chain walk.
type Set struct {
	job     combat.JobID
	byInput map[combat.ActionID]*Chain
	aux     []AuxRule
	dynamic bool
}

// BuildSet filters the registry's chains and auxiliary rules for one job
// through the enablement predicate and indexes chains by claimed input.
// Auxiliary rules come out sorted by priority, declaration order breaking
// ties.
func (r *Registry) BuildSet(job combat.JobID, enabled func(label string) bool) *Set {
	s := &Set{
		job:     job,
		byInput: make(map[combat.ActionID]*Chain),
	}
	for _, c := range r.chains[job] {
		if enabled != nil && !enabled(c.Label) {
			continue
		}
		for _, id := range c.Inputs {
			s.byInput[id] = c
		}
		if c.Dynamic() {
			s.dynamic = true
		}
	}
	for _, a := range r.aux[job] {
		if enabled != nil && !enabled(a.Label) {
			continue
		}
		s.aux = append(s.aux, a)
	}
	sort.SliceStable(s.aux, func(i, k int) bool { return s.aux[i].Priority < s.aux[k].Priority })
	return s
}

// Job returns the job this set was built for.
func (s *Set) Job() combat.JobID {
	return s.job
}

// Dynamic reports whether any enabled chain contains a time-sensitive
// rule. The resolution cache switches to per-frame memoization when true.
func (s *Set) Dynamic() bool {
	return s.dynamic
}

// Resolve evaluates the chain claiming input, or returns the input
// unchanged when no enabled chain claims it.
func (s *Set) Resolve(ctx *Context, input combat.ActionID) combat.ActionID {
	c, ok := s.byInput[input]
	if !ok {
		return input
	}
	return Evaluate(c, ctx, input)
}

// ChainCount returns the number of distinct claimed inputs. Diagnostics
// only.
func (s *Set) ChainCount() int {
	return len(s.byInput)
}
