package rules

import (
	"fmt"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/selection"
)

// TargetMode selects which resolver an entity-targeted ability uses.
type TargetMode uint8

const (
	// TargetRecipient uses the standard tiered recipient selection.
	TargetRecipient TargetMode = iota
	// TargetCleanse restricts selection to candidates carrying a
	// removable negative effect.
	TargetCleanse
	// TargetPlacement resolves whose location to use rather than whom
	// to target.
	TargetPlacement
)

// AbilitySpec declares how one ability picks its entity. Abilities without
// a spec execute unconditionally and never consult the selection cache.
type AbilitySpec struct {
	Action combat.ActionID
	Mode   TargetMode
	Opts   selection.Options
}

// RegisterAbility adds a targeted-ability declaration to the static table.
func (r *Registry) RegisterAbility(spec AbilitySpec) error {
	if spec.Action == 0 {
		return fmt.Errorf("ability spec has no action")
	}
	if r.abilities == nil {
		r.abilities = make(map[combat.ActionID]AbilitySpec)
	}
	if _, ok := r.abilities[spec.Action]; ok {
		return fmt.Errorf("duplicate ability spec for action %d", spec.Action)
	}
	r.abilities[spec.Action] = spec
	return nil
}

// MustRegisterAbility is RegisterAbility for static tables.
func (r *Registry) MustRegisterAbility(spec AbilitySpec) {
	if err := r.RegisterAbility(spec); err != nil {
		panic(err)
	}
}

// AbilityFor returns the targeting declaration for an action, if any.
func (r *Registry) AbilityFor(id combat.ActionID) (AbilitySpec, bool) {
	spec, ok := r.abilities[id]
	return spec, ok
}
