package selection

import (
	"log/slog"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/state"
)

// Capacity is the fixed slot count: self, up to six other party members,
// and the companion.
const Capacity = 8

// Cache holds this tick's candidate entities in fixed parallel arrays.
//
// Update copies the feed into the slots and stamps the store's current
// frame; resolvers treat the slots as valid only while that stamp matches
// the store. The hard target is tracked separately because it arrives on
// its own feed and may not be a party member.
type Cache struct {
	store *state.Store

	ids   [Capacity]combat.EntityID
	hp    [Capacity]float64
	flags [Capacity]combat.EntityFlags
	count int

	filledFrame combat.FrameStamp

	hardTarget combat.EntityID
	hardValid  bool
	hardFrame  combat.FrameStamp

	// selfID survives across ticks so the terminal fallback has an
	// answer even when this tick's feed was empty or stale.
	selfID combat.EntityID

	// cleanseMask caches the per-slot "carries a removable negative
	// effect" bit, computed once per frame on first cleanse query.
	cleanseMask  uint8
	cleanseFrame combat.FrameStamp
}

// NewCache creates an empty cache bound to the store whose frame stamp
// scopes its validity.
func NewCache(store *state.Store) *Cache {
	return &Cache{store: store}
}

// Update copies up to Capacity candidates into the slots and stamps them
// with the store's current frame. Called once per tick by the external
// driver, after state.Store.UpdateCore. Excess candidates are dropped;
// the feed orders them self-first, so the overflow loses fringe slots.
func (c *Cache) Update(ids []combat.EntityID, hp []float64, flags []combat.EntityFlags, count int) {
	if count > Capacity {
		slog.Debug("candidate feed overflow", "count", count, "capacity", Capacity)
		count = Capacity
	}
	if count > len(ids) || count > len(hp) || count > len(flags) {
		count = min(len(ids), min(len(hp), len(flags)))
	}
	for i := 0; i < count; i++ {
		c.ids[i] = ids[i]
		c.hp[i] = hp[i]
		c.flags[i] = flags[i]
		if flags[i].Has(combat.EntitySelf) {
			c.selfID = ids[i]
		}
	}
	c.count = count
	c.filledFrame = c.store.Frame()
}

// UpdateHardTarget records the externally selected hard target and whether
// the host flagged it valid for the requested ability class.
func (c *Cache) UpdateHardTarget(id combat.EntityID, valid bool) {
	c.hardTarget = id
	c.hardValid = valid && id != 0
	c.hardFrame = c.store.Frame()
}

// fresh reports whether the slots were filled during the current frame.
func (c *Cache) fresh() bool {
	return c.count > 0 && c.filledFrame == c.store.Frame()
}

// hardTargetFresh reports whether the hard target feed ran this frame and
// flagged the target usable.
func (c *Cache) hardTargetFresh() bool {
	return c.hardValid && c.hardFrame == c.store.Frame()
}

// Self returns the last known self identifier, zero before the first feed.
func (c *Cache) Self() combat.EntityID {
	return c.selfID
}

// cleansable reports whether slot i carries a removable negative effect,
// computing the per-frame mask on first use.
func (c *Cache) cleansable(i int) bool {
	if c.cleanseFrame != c.store.Frame() {
		c.cleanseMask = 0
		for j := 0; j < c.count; j++ {
			if c.flags[j].Has(combat.EntityCleansable) {
				c.cleanseMask |= 1 << uint(j)
			}
		}
		c.cleanseFrame = c.store.Frame()
	}
	return c.cleanseMask&(1<<uint(i)) != 0
}

// slotOf returns the slot index holding id, or -1.
func (c *Cache) slotOf(id combat.EntityID) int {
	for i := 0; i < c.count; i++ {
		if c.ids[i] == id {
			return i
		}
	}
	return -1
}

// Reset clears the slots and the hard target. The remembered self id is
// kept: it is identity, not per-tick state.
func (c *Cache) Reset() {
	c.count = 0
	c.filledFrame = 0
	c.hardTarget = 0
	c.hardValid = false
	c.hardFrame = 0
	c.cleanseMask = 0
	c.cleanseFrame = 0
}
