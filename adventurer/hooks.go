package adventurer

import "github.com/niceyeti/dlgrind/action"

// Name identifies which adventurer's special-cased rules apply. Rather
// than hard-coded switch statements strewn through the hot loop, each
// adventurer's behavior lives in a table of closures below, so the
// simulator's hot path never branches on identity.
type Name uint8

const (
	Generic Name = iota
	Heinwald
	Amane
	Annelie
)

func (n Name) String() string {
	switch n {
	case Heinwald:
		return "heinwald"
	case Amane:
		return "amane"
	case Annelie:
		return "annelie"
	default:
		return "generic"
	}
}

// Hooks bundles the three touch points an adventurer-specific effect can
// customize. Every field is non-nil after Lookup; adventurers without
// special-cased behavior get the identity hook set below.
type Hooks struct {
	// OnSkill runs when skill index i is successfully triggered, after
	// the universal SP-reset/UI-lockout bookkeeping.
	OnSkill func(s State, skillIndex int) State
	// DamageMultipliers returns the product of any adventurer-specific
	// multiplicative buffs active in s, beyond the universal formula
	// terms in the damage equation.
	DamageMultipliers func(s State) float64
	// SkillStateUpdate runs on every hit (not just skill hits), for
	// per-hit bookkeeping such as energy accrual or buff arming.
	SkillStateUpdate func(s State, hitAfter action.AfterAction) State
}

var identity = Hooks{
	OnSkill:           func(s State, _ int) State { return s },
	DamageMultipliers: func(State) float64 { return 1.0 },
	SkillStateUpdate:  func(s State, _ action.AfterAction) State { return s },
}

// table maps adventurer identity to its hook set. Entries are added here as
// adventurer-specific behavior is implemented; anything absent falls back
// to identity via Lookup.
var table = map[Name]Hooks{
	Generic: identity,

	// Heinwald: S2 rotates a two-slot "shift stance" counter; the
	// rotation affects nothing in the universal damage formula but is
	// tracked so downstream tooling (and partition coarsening) can
	// observe it.
	Heinwald: {
		OnSkill: func(s State, skillIndex int) State {
			if skillIndex == 1 {
				s.SkillShift[0], s.SkillShift[1] = rotate(s.SkillShift)
			}
			return s
		},
		DamageMultipliers: identity.DamageMultipliers,
		SkillStateUpdate:  identity.SkillStateUpdate,
	},

	// Amane: every hit accrues one point of energy (capped at MaxEnergy);
	// reaching the cap arms the universal "energy==5" damage multiplier
	// already defined in the damage formula, so no DamageMultipliers
	// override is needed here.
	Amane: {
		OnSkill:           identity.OnSkill,
		DamageMultipliers: identity.DamageMultipliers,
		SkillStateUpdate: func(s State, _ action.AfterAction) State {
			if s.Energy < MaxEnergy {
				s.Energy++
			}
			return s
		},
	},

	// Annelie: S3 refreshes a 20-second (1200-frame) strength buff in
	// buff slot 0, in addition to any universal buff accounting.
	Annelie: {
		OnSkill: func(s State, skillIndex int) State {
			if skillIndex == 2 {
				s.BuffFramesLeft[0] = 20 * 60
			}
			return s
		},
		DamageMultipliers: identity.DamageMultipliers,
		SkillStateUpdate:  identity.SkillStateUpdate,
	},
}

// Lookup returns the hook set for name, defaulting to the identity hooks
// for any adventurer without special-cased behavior.
func Lookup(name Name) Hooks {
	if h, ok := table[name]; ok {
		return h
	}
	return identity
}

func rotate(shift [2]uint8) (uint8, uint8) {
	return shift[1], shift[0]
}

// UnmarshalYAML lets Name appear as a plain string ("heinwald") in config
// documents rather than its numeric encoding.
func (n *Name) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "heinwald":
		*n = Heinwald
	case "amane":
		*n = Amane
	case "annelie":
		*n = Annelie
	default:
		*n = Generic
	}
	return nil
}

// MarshalYAML is the inverse of UnmarshalYAML.
func (n Name) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}
