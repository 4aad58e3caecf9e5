// Package state holds the per-tick environment snapshot and the effect
// expiry registries.
//
// ARCHITECTURE:
//
// Single-Writer Tick Discipline:
// The external tick driver calls UpdateCore exactly once per tick, then the
// scalar and effect updates, then issues resolution queries. All of that
// happens on one goroutine; the store carries no locks. Correctness is a
// caller contract, not an internal mechanism.
//
// Tri-State Expiry Tracking:
// Effect and cooldown identifiers are tracked with an explicit sentinel for
// "seen in a rule, never observed in the feed". The sentinel is structural,
// not an error: callers branch on it instead of catching anything, and it
// is never conflated with "zero seconds remaining".
package state
