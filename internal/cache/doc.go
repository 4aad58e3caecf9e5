// Package cache provides the two memoization tiers in front of rule
// evaluation.
//
// The associative tier is a fixed 2-way set-associative cache with a short
// TTL. It is only consulted while the active rule set is static: a TTL hit
// can legally outlive a frame boundary only when no consulted rule reads
// time-sensitive state.
//
// The frame memo is the strict tier used when any active rule is dynamic.
// It matches on exact input and frame stamp, so a cached decision can
// never leak across a tick where conditions genuinely changed.
//
// Both tiers are fixed-size and allocation-free. Eviction on overflow is
// silent and expected; an expired entry is never returned as a hit even if
// it is still structurally present.
package cache
