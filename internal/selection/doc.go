// Package selection holds the per-tick candidate entity cache and the
// tiered target resolvers built on it.
//
// The cache is a fixed block of eight slots rebuilt every tick from the
// upstream party, companion, and hard-target feeds. Resolvers are single
// linear scans over those slots; at this size a scan beats any sort and
// keeps the hot path allocation-free.
//
// Freshness is frame-scoped: every resolver compares the cache's fill
// frame against the store's frame stamp and degrades to the self fallback
// when the candidates are from an older tick. A selection never returns
// "nothing" for abilities that need a recipient.
package selection
