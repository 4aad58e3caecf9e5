// Package config holds the external rule-enablement profile.
//
// The profile is a per-job map of rule label to enabled flag plus a per-job
// auxiliary toggle, loaded from YAML and validated against an embedded CUE
// schema before anything reaches the engine. Rule labels are NFC-normalized
// on load so config keys always compare byte-for-byte against registry
// labels.
//
// The engine never reads files itself: it holds a *Profile and watches its
// monotonic version counter to know when to rebuild its rule sets. Every
// mutation bumps the counter.
//
// Absent entries mean enabled. The profile is an opt-out surface: a job or
// rule that was never mentioned behaves as if switched on.
package config
