package harness

import (
	"fmt"

	"github.com/roach88/riposte/internal/combat"
)

// Scenario is a declarative engine session: a name, an optional inline
// enablement profile, and an ordered list of ticks with embedded queries.
// Scenarios are authored in YAML; see testdata/scenarios.
type Scenario struct {
	Name string `yaml:"name"`

	// TickMillis advances the harness clock between ticks. Zero means
	// 100ms, a live-ish cadence.
	TickMillis int `yaml:"tick_millis,omitempty"`

	// Profile is inline enablement YAML in the config package's shape.
	Profile map[string]any `yaml:"profile,omitempty"`

	Ticks []TickScript `yaml:"ticks"`
}

// TickScript is one tick's feeds and the queries issued after them.
type TickScript struct {
	Core       *CoreScript                   `yaml:"core,omitempty"`
	Scalars    *ScalarScript                 `yaml:"scalars,omitempty"`
	Gauges     []uint64                      `yaml:"gauges,omitempty"`
	Effects    map[string]map[uint32]float64 `yaml:"effects,omitempty"`
	Candidates []CandidateScript             `yaml:"candidates,omitempty"`
	HardTarget *HardTargetScript             `yaml:"hard_target,omitempty"`

	Queries []QueryScript  `yaml:"queries,omitempty"`
	Aux     *AuxScript     `yaml:"aux,omitempty"`
	Targets []TargetScript `yaml:"targets,omitempty"`
}

// CoreScript feeds UpdateCoreState.
type CoreScript struct {
	Job    uint8    `yaml:"job"`
	Level  uint8    `yaml:"level"`
	Target uint32   `yaml:"target,omitempty"`
	Zone   uint16   `yaml:"zone,omitempty"`
	Flags  []string `yaml:"flags,omitempty"`
}

// ScalarScript feeds UpdateScalarState.
type ScalarScript struct {
	NextAction  float64 `yaml:"next_action"`
	Resource    uint32  `yaml:"resource"`
	ResourceMax uint32  `yaml:"resource_max"`
}

// CandidateScript is one selection-cache slot.
type CandidateScript struct {
	ID    uint32   `yaml:"id"`
	HP    float64  `yaml:"hp"`
	Flags []string `yaml:"flags"`
}

// HardTargetScript feeds UpdateHardTarget.
type HardTargetScript struct {
	ID    uint32 `yaml:"id"`
	Valid bool   `yaml:"valid"`
}

// QueryScript is one Resolve call with an optional expectation.
type QueryScript struct {
	Input uint32  `yaml:"input"`
	Want  *uint32 `yaml:"want,omitempty"`
}

// AuxScript is one SuggestAuxiliary call with an optional expectation.
type AuxScript struct {
	Max  int      `yaml:"max"`
	Want []uint32 `yaml:"want,omitempty"`
}

// TargetScript is one ResolveTarget call with an optional expectation.
type TargetScript struct {
	Ability uint32  `yaml:"ability"`
	Want    *uint32 `yaml:"want,omitempty"`
}

// stateFlagNames maps scenario flag names to snapshot bits.
var stateFlagNames = map[string]combat.StateFlags{
	"in-combat":  combat.FlagInCombat,
	"has-target": combat.FlagHasTarget,
	"restricted": combat.FlagInRestrictedArea,
	"can-act":    combat.FlagCanAct,
	"moving":     combat.FlagMoving,
}

// entityFlagNames maps scenario flag names to candidate bits. "usable" is
// shorthand for the full validity mask.
var entityFlagNames = map[string]combat.EntityFlags{
	"alive":         combat.EntityAlive,
	"in-range":      combat.EntityInRange,
	"line-of-sight": combat.EntityInLineOfSight,
	"targetable":    combat.EntityTargetable,
	"self":          combat.EntitySelf,
	"hard-target":   combat.EntityHardTarget,
	"ally":          combat.EntityAlly,
	"companion":     combat.EntityCompanion,
	"tank":          combat.EntityRoleTank,
	"healer":        combat.EntityRoleHealer,
	"cleansable":    combat.EntityCleansable,
	"usable":        combat.Usable,
}

// effectKindNames maps scenario effect sections to kinds.
var effectKindNames = map[string]combat.EffectKind{
	"actor":    combat.EffectOnActor,
	"target":   combat.EffectOnTarget,
	"cooldown": combat.Cooldown,
}

func parseStateFlags(names []string) (combat.StateFlags, error) {
	var flags combat.StateFlags
	for _, n := range names {
		bit, ok := stateFlagNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown state flag %q", n)
		}
		flags |= bit
	}
	return flags, nil
}

func parseEntityFlags(names []string) (combat.EntityFlags, error) {
	var flags combat.EntityFlags
	for _, n := range names {
		bit, ok := entityFlagNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown entity flag %q", n)
		}
		flags |= bit
	}
	return flags, nil
}
