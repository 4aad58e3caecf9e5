package rules

import (
	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/selection"
)

// Demonstration jobs and actions used by the simulator, the harness, and
// the built-in registry. Real deployments register their own tables;
// nothing in the engine depends on these values.
const (
	JobWarden combat.JobID = 1
	JobMender combat.JobID = 2
)

const (
	ActionStrike     combat.ActionID = 101
	ActionCleave     combat.ActionID = 102
	ActionFinisher   combat.ActionID = 103
	ActionInterject  combat.ActionID = 110
	ActionMend       combat.ActionID = 201
	ActionMendII     combat.ActionID = 202
	ActionCleanse    combat.ActionID = 210
	ActionWard       combat.ActionID = 211
	ActionBeacon     combat.ActionID = 220
	ActionSecondWind combat.ActionID = 112
)

const (
	EffectComboWindow combat.EffectID = 1001
	EffectWardShield  combat.EffectID = 1002
	CooldownInterject combat.EffectID = 2001
	CooldownCleanse   combat.EffectID = 2002
	CooldownWind      combat.EffectID = 2003
)

// mendIILevel gates the upgraded heal.
const mendIILevel = 45

// BuiltinRegistry returns the demonstration rule table. It exercises every
// predicate surface the snapshot exposes: level gates, combo effect
// windows, cooldown readiness, gauge reads, and selection-backed targeting.
func BuiltinRegistry() *Registry {
	r := NewRegistry()

	// Warden: replace the basic strike with the finisher while the combo
	// window effect is running. Reading remaining seconds makes the rule
	// time-sensitive, so the whole chain memoizes per frame.
	r.MustRegister(&Chain{
		Job:    JobWarden,
		Label:  "strike-combo",
		Inputs: []combat.ActionID{ActionStrike},
		Rules: []Rule{
			{
				Label:   "finisher-in-window",
				Dynamic: true,
				When: func(ctx *Context) bool {
					left := ctx.Remaining(combat.EffectOnActor, EffectComboWindow)
					return !combat.IsSentinel(left) && left > 0
				},
				Then: func(*Context, combat.ActionID) combat.ActionID {
					return ActionFinisher
				},
			},
			{
				Label: "cleave-when-crowded",
				When: func(ctx *Context) bool {
					// Gauge word 0 carries the nearby-enemy count.
					return ctx.Snapshot().Gauge[0] >= 3
				},
				Then: func(*Context, combat.ActionID) combat.ActionID {
					return ActionCleave
				},
			},
		},
	})

	r.MustRegisterAux(AuxRule{
		Label:    "interject-weave",
		Job:      JobWarden,
		Priority: 10,
		Action:   ActionInterject,
		When: func(ctx *Context) bool {
			return ctx.Snapshot().HasTarget() && ctx.Ready(CooldownInterject)
		},
	})
	r.MustRegisterAux(AuxRule{
		Label:    "second-wind-weave",
		Job:      JobWarden,
		Priority: 20,
		Action:   ActionSecondWind,
		When: func(ctx *Context) bool {
			snap := ctx.Snapshot()
			if !ctx.Ready(CooldownWind) || snap.ResourceMax == 0 {
				return false
			}
			return float64(snap.Resource)/float64(snap.ResourceMax) < 0.5
		},
	})

	// Mender: level-gated heal upgrade. Pure snapshot read, so the TTL
	// cache stays legal for this job.
	r.MustRegister(&Chain{
		Job:    JobMender,
		Label:  "mend-upgrade",
		Inputs: []combat.ActionID{ActionMend},
		Rules: []Rule{
			{
				Label: "mend-two",
				When: func(ctx *Context) bool {
					return ctx.Snapshot().Level >= mendIILevel
				},
				Then: func(*Context, combat.ActionID) combat.ActionID {
					return ActionMendII
				},
			},
		},
	})

	r.MustRegisterAux(AuxRule{
		Label:    "cleanse-weave",
		Job:      JobMender,
		Priority: 10,
		Action:   ActionCleanse,
		When: func(ctx *Context) bool {
			return ctx.Ready(CooldownCleanse)
		},
	})

	// Every effect id the rules above query, for sentinel pre-seeding.
	r.Track(combat.EffectOnActor, EffectComboWindow)
	r.Track(combat.EffectOnActor, EffectWardShield)
	r.Track(combat.Cooldown, CooldownInterject)
	r.Track(combat.Cooldown, CooldownCleanse)
	r.Track(combat.Cooldown, CooldownWind)

	// Targeting declarations for the selection-backed abilities.
	r.MustRegisterAbility(AbilitySpec{
		Action: ActionMend,
		Mode:   TargetRecipient,
		Opts:   selection.Options{CompanionOverride: true, OverrideDelta: selection.DefaultOverrideDelta},
	})
	r.MustRegisterAbility(AbilitySpec{
		Action: ActionMendII,
		Mode:   TargetRecipient,
		Opts:   selection.Options{CompanionOverride: true, OverrideDelta: selection.DefaultOverrideDelta},
	})
	r.MustRegisterAbility(AbilitySpec{
		Action: ActionCleanse,
		Mode:   TargetCleanse,
	})
	r.MustRegisterAbility(AbilitySpec{
		Action: ActionBeacon,
		Mode:   TargetPlacement,
	})

	return r
}
