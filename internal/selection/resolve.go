package selection

import "github.com/roach88/riposte/internal/combat"

// DefaultThreshold is the health fraction below which an ally is
// considered in need of a recipient ability.
const DefaultThreshold = 0.99

// DefaultOverrideDelta is the margin the companion must beat the chosen
// ally's health by before it takes the selection. The margin keeps the
// choice from flapping when companion and ally hover near each other.
const DefaultOverrideDelta = 0.25

// Options tunes one resolution. The zero value disables the companion
// override; callers that enable it usually pass DefaultOverrideDelta.
type Options struct {
	// Threshold is the ally health fraction cutoff; zero means
	// DefaultThreshold.
	Threshold float64

	// CompanionOverride lets the companion displace the chosen ally when
	// its health plus OverrideDelta is still below the ally's.
	CompanionOverride bool
	OverrideDelta     float64
}

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

// ResolveTarget picks the recipient for an entity-targeted ability.
//
// Priority order, first match wins:
//  1. the hard target, when this frame's feed flagged it valid
//  2. the lowest-health usable ally below the threshold, scan order
//     breaking ties
//  3. the companion, when override is enabled and it undercuts the chosen
//     ally by more than the delta margin
//  4. self, when below the threshold
//  5. self unconditionally
//
// Stale candidate slots (filled in an earlier frame) skip tiers 2-4: old
// health fractions must not drive a selection.
func (c *Cache) ResolveTarget(opts Options) combat.EntityID {
	if c.hardTargetFresh() {
		return c.hardTarget
	}
	return c.resolveAlly(opts, false)
}

// ResolveCleanseTarget applies the same ordering but only considers
// candidates carrying a removable negative effect.
func (c *Cache) ResolveCleanseTarget(opts Options) combat.EntityID {
	if c.hardTargetFresh() {
		if i := c.slotOf(c.hardTarget); i >= 0 && c.cleansable(i) {
			return c.hardTarget
		}
	}
	return c.resolveAlly(opts, true)
}

// resolveAlly runs tiers 2-5 of the selection order.
func (c *Cache) resolveAlly(opts Options, needCleanse bool) combat.EntityID {
	if !c.fresh() {
		return c.selfID
	}

	threshold := opts.threshold()

	allyIdx := -1
	selfIdx := -1
	companionIdx := -1
	for i := 0; i < c.count; i++ {
		f := c.flags[i]
		if !f.Has(combat.Usable) {
			continue
		}
		if needCleanse && !c.cleansable(i) {
			continue
		}
		switch {
		case f.Has(combat.EntitySelf):
			selfIdx = i
		case f.Has(combat.EntityCompanion):
			companionIdx = i
		case f.Has(combat.EntityAlly):
			if c.hp[i] < threshold && (allyIdx < 0 || c.hp[i] < c.hp[allyIdx]) {
				allyIdx = i
			}
		}
	}

	if allyIdx >= 0 {
		if opts.CompanionOverride && companionIdx >= 0 &&
			c.hp[companionIdx]+opts.OverrideDelta < c.hp[allyIdx] {
			return c.ids[companionIdx]
		}
		return c.ids[allyIdx]
	}
	if selfIdx >= 0 && c.hp[selfIdx] < threshold {
		return c.ids[selfIdx]
	}
	return c.selfID
}

// ResolvePlacement picks whose location a ground-placed ability should
// use: the hard target, else the first usable tank-role ally, else self.
func (c *Cache) ResolvePlacement() combat.EntityID {
	if c.hardTargetFresh() {
		return c.hardTarget
	}
	if c.fresh() {
		for i := 0; i < c.count; i++ {
			if c.flags[i].Has(combat.Usable|combat.EntityRoleTank) && !c.flags[i].Has(combat.EntitySelf) {
				return c.ids[i]
			}
		}
	}
	return c.selfID
}
