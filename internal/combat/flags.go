package combat

// StateFlags is the snapshot's boolean field bitset. Written wholesale by
// the single tick writer; read lock-free by resolution queries.
type StateFlags uint32

const (
	// FlagInCombat is set while the actor is engaged.
	FlagInCombat StateFlags = 1 << iota
	// FlagHasTarget is set when a hard target is selected.
	FlagHasTarget
	// FlagInRestrictedArea is set inside zones where optimization is
	// suppressed (sanctuaries, instanced lockouts).
	FlagInRestrictedArea
	// FlagCanAct is cleared while the actor is stunned, casting, or
	// otherwise unable to act.
	FlagCanAct
	// FlagMoving is set while the actor is moving; movement gates
	// cast-time resolutions.
	FlagMoving
)

// Has reports whether all bits in mask are set.
func (f StateFlags) Has(mask StateFlags) bool {
	return f&mask == mask
}

// EntityFlags is the per-candidate validity bitset, rebuilt every tick from
// the upstream party, companion, and target feeds.
type EntityFlags uint32

const (
	// EntityAlive is set for candidates above zero health.
	EntityAlive EntityFlags = 1 << iota
	// EntityInRange is set when the candidate is within ability range.
	EntityInRange
	// EntityInLineOfSight is set when nothing blocks the candidate.
	EntityInLineOfSight
	// EntityTargetable is set when the candidate can receive abilities.
	EntityTargetable
	// EntitySelf marks the actor's own slot.
	EntitySelf
	// EntityHardTarget marks the externally selected hard target.
	EntityHardTarget
	// EntityAlly is set for friendly candidates.
	EntityAlly
	// EntityCompanion marks the actor's companion (pet or squadron ally).
	EntityCompanion
	// EntityRoleTank marks tank-role candidates, used by ground placement.
	EntityRoleTank
	// EntityRoleHealer marks healer-role candidates.
	EntityRoleHealer
	// EntityCleansable is set when the candidate carries a removable
	// negative effect this frame.
	EntityCleansable
)

// Has reports whether all bits in mask are set.
func (f EntityFlags) Has(mask EntityFlags) bool {
	return f&mask == mask
}

// Usable is the minimum validity for receiving an ability: alive, in range,
// in line of sight, and targetable.
const Usable = EntityAlive | EntityInRange | EntityInLineOfSight | EntityTargetable
