package cache

import "github.com/roach88/riposte/internal/combat"

const (
	bucketCount = 16
	wayCount    = 2
)

// entry is one cached resolution. A zero input marks a free way; action 0
// is never a valid trigger.
type entry struct {
	input    combat.ActionID
	resolved combat.ActionID
	expiry   int64 // unix millis
}

// Associative is a fixed 2-way set-associative cache keyed by a hash of
// the input action. Entries are overwritten in place; when both ways of a
// bucket are live, the one expiring soonest is evicted.
type Associative struct {
	buckets [bucketCount][wayCount]entry
}

// bucketOf hashes an input to its bucket. Fibonacci hashing spreads the
// typically-dense action id space across the 16 buckets.
func bucketOf(input combat.ActionID) int {
	return int((uint32(input) * 2654435761) >> 28)
}

// Get returns the cached resolution for input, if present and not past
// its expiry at now.
func (a *Associative) Get(input combat.ActionID, now int64) (combat.ActionID, bool) {
	b := &a.buckets[bucketOf(input)]
	for w := 0; w < wayCount; w++ {
		if b[w].input == input && b[w].expiry > now {
			return b[w].resolved, true
		}
	}
	return 0, false
}

// Put stores a resolution expiring at the given instant. An existing entry
// for the same input is overwritten; otherwise a free or expired way is
// claimed; otherwise the way expiring soonest is evicted. Eviction is
// silent and expected at this capacity.
func (a *Associative) Put(input, resolved combat.ActionID, expiry int64, now int64) {
	b := &a.buckets[bucketOf(input)]

	// Same input always overwrites its own way so a bucket never holds
	// two entries for one input.
	victim := -1
	for w := 0; w < wayCount; w++ {
		if b[w].input == input {
			victim = w
			break
		}
	}
	if victim < 0 {
		victim = 0
		for w := 0; w < wayCount; w++ {
			if b[w].input == 0 || b[w].expiry <= now {
				victim = w
				break
			}
			if b[w].expiry < b[victim].expiry {
				victim = w
			}
		}
	}

	b[victim] = entry{input: input, resolved: resolved, expiry: expiry}
}

// Clear invalidates every entry.
func (a *Associative) Clear() {
	a.buckets = [bucketCount][wayCount]entry{}
}

// Len counts live entries at now. Diagnostics only.
func (a *Associative) Len(now int64) int {
	n := 0
	for i := range a.buckets {
		for w := 0; w < wayCount; w++ {
			if a.buckets[i][w].input != 0 && a.buckets[i][w].expiry > now {
				n++
			}
		}
	}
	return n
}
