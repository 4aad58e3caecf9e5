package config

import (
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/riposte/internal/combat"
)

// JobConfig is one job's section of the profile.
type JobConfig struct {
	// Auxiliary gates the whole suggestion path for the job.
	Auxiliary *bool `yaml:"auxiliary,omitempty"`
	// Rules maps rule label to enabled. Labels are NFC-normalized.
	Rules map[string]bool `yaml:"rules,omitempty"`
}

// Profile is the engine-facing view of the enablement configuration.
//
// It follows the engine's single-threaded discipline: mutations and reads
// happen on the tick driver goroutine, so there is no internal locking.
// The version counter is the engine's rebuild signal.
type Profile struct {
	jobs    map[combat.JobID]JobConfig
	version uint64
}

// Default returns an empty profile: every rule and every job's auxiliary
// path enabled.
func Default() *Profile {
	return &Profile{jobs: make(map[combat.JobID]JobConfig), version: 1}
}

// Version returns the monotonically increasing configuration version.
// The engine compares it against the version its rule sets were built at.
func (p *Profile) Version() uint64 {
	return p.version
}

// Enabled reports whether a rule label is enabled for a job. Labels absent
// from the profile are enabled.
func (p *Profile) Enabled(job combat.JobID, label string) bool {
	jc, ok := p.jobs[job]
	if !ok || jc.Rules == nil {
		return true
	}
	enabled, ok := jc.Rules[norm.NFC.String(label)]
	if !ok {
		return true
	}
	return enabled
}

// AuxiliaryEnabled reports whether the suggestion path is enabled for a
// job. Absent means enabled.
func (p *Profile) AuxiliaryEnabled(job combat.JobID) bool {
	jc, ok := p.jobs[job]
	if !ok || jc.Auxiliary == nil {
		return true
	}
	return *jc.Auxiliary
}

// SetRule flips one rule and bumps the version.
func (p *Profile) SetRule(job combat.JobID, label string, enabled bool) {
	jc := p.jobs[job]
	if jc.Rules == nil {
		jc.Rules = make(map[string]bool)
	}
	jc.Rules[norm.NFC.String(label)] = enabled
	p.jobs[job] = jc
	p.version++
}

// SetAuxiliary flips a job's auxiliary toggle and bumps the version.
func (p *Profile) SetAuxiliary(job combat.JobID, enabled bool) {
	jc := p.jobs[job]
	jc.Auxiliary = &enabled
	p.jobs[job] = jc
	p.version++
}

// Jobs returns the sorted jobs the profile mentions.
func (p *Profile) Jobs() []combat.JobID {
	out := make([]combat.JobID, 0, len(p.jobs))
	for job := range p.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, k int) bool { return out[i] < out[k] })
	return out
}

// Labels returns the sorted rule labels the profile configures for a job.
func (p *Profile) Labels(job combat.JobID) []string {
	jc, ok := p.jobs[job]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(jc.Rules))
	for label := range jc.Rules {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// EnabledFunc returns the per-job predicate rule sets are built with.
func (p *Profile) EnabledFunc(job combat.JobID) func(label string) bool {
	return func(label string) bool {
		return p.Enabled(job, label)
	}
}
