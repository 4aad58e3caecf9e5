// Package resolver assembles the engine facade: the lifecycle surface, the
// per-tick update boundary, and the per-event resolution boundary.
//
// ARCHITECTURE:
//
// Single-Writer Tick Loop:
// The external driver owns one goroutine. Each tick it pushes state through
// the update boundary, then issues resolution queries. The facade carries
// no locks; ordering is the caller's contract.
//
// Optimize, Never Block:
// Every failure mode degrades to returning the trigger unchanged. Resolve
// before Initialize passes through, a faulting rule is skipped, an unknown
// trigger comes back as itself, and the degraded-mode switch bypasses
// evaluation entirely. The engine may only improve the action stream, never
// stop it.
//
// Rebuild Signals:
// Rule sets are rebuilt, and both cache tiers cleared, on initialize, on a
// job-change transition from the state store, and when the enablement
// profile's version counter moves. Rebuilds happen on the tick path, never
// during a resolve call.
package resolver
