// Package config defines the immutable, run-for-the-duration snapshot the
// simulator reads stat data from, and a YAML loader for it. This package
// only needs to produce the in-memory shape the core consumes; the wire
// schema and its binary encoding are the loader's concern, not the
// simulator's.
package config

import "github.com/niceyeti/dlgrind/adventurer"

// WeaponType gates whether an attack's hit is delayed behind a projectile.
type WeaponType uint8

const (
	Melee WeaponType = iota
	Staff
	Wand
	Bow
)

// IsProjectile reports whether this weapon type fires a projectile whose
// travel time delays the hit relative to the action's frame data.
func (t WeaponType) IsProjectile() bool {
	switch t {
	case Staff, Wand, Bow:
		return true
	default:
		return false
	}
}

func (t WeaponType) String() string {
	switch t {
	case Staff:
		return "staff"
	case Wand:
		return "wand"
	case Bow:
		return "bow"
	default:
		return "melee"
	}
}

// UnmarshalYAML lets WeaponType appear as a plain string in config
// documents rather than its numeric encoding.
func (t *WeaponType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "staff":
		*t = Staff
	case "wand":
		*t = Wand
	case "bow":
		*t = Bow
	default:
		*t = Melee
	}
	return nil
}

// MarshalYAML is the inverse of UnmarshalYAML.
func (t WeaponType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// ActionStat is the per-step stat block shared by combo steps, force
// strikes, and skills: how much damage it deals, its SP (granted on hit
// for combo steps and force strikes; the SP cost for skills), and its
// frame timing.
type ActionStat struct {
	DamagePercent float64 `yaml:"damagePercent" mapstructure:"damagePercent"`
	SP            uint16  `yaml:"sp" mapstructure:"sp"`
	Startup       uint32  `yaml:"startup" mapstructure:"startup"`
	Recovery      uint32  `yaml:"recovery" mapstructure:"recovery"`
}

// WeaponClass carries the five basic-combo steps and the force-strike
// stat shared by every weapon of a class, plus the optional XFS startup
// override table. A non-empty XFSStartups both supplies per-combo-step FS
// startup overrides and signals that FS cancels basic combos on this
// class.
type WeaponClass struct {
	ComboStats  [5]ActionStat `yaml:"comboStats" mapstructure:"comboStats"`
	FSStat      ActionStat    `yaml:"fsStat" mapstructure:"fsStat"`
	XFSStartups []uint32      `yaml:"xfsStartups,omitempty" mapstructure:"xfsStartups"`
}

// HasXFSOverride reports whether FS cancels basic combos on this weapon
// class.
func (wc WeaponClass) HasXFSOverride() bool {
	return len(wc.XFSStartups) > 0
}

// Weapon is an instance of a weapon class, adding identity and type.
type Weapon struct {
	Name string     `yaml:"name" mapstructure:"name"`
	Type WeaponType `yaml:"type" mapstructure:"type"`
}

// Adventurer carries identity (which gates adventurer-specific hooks),
// base strength, and per-skill stats. Index i of SkillStats corresponds
// to skill Si.
type Adventurer struct {
	Name         adventurer.Name `yaml:"name" mapstructure:"name"`
	BaseStrength float64         `yaml:"baseStrength" mapstructure:"baseStrength"`
	SkillStats   [3]ActionStat   `yaml:"skillStats" mapstructure:"skillStats"`
}

// Modifiers holds the percentage terms of the damage formula that are
// not derived from action stats directly.
type Modifiers struct {
	StrengthMod          float64   `yaml:"strengthMod" mapstructure:"strengthMod"`
	CoabilityStrengthMod float64   `yaml:"coabilityStrengthMod" mapstructure:"coabilityStrengthMod"`
	SkillDmgMod          float64   `yaml:"skillDmgMod" mapstructure:"skillDmgMod"`
	CoabilitySkillDmgMod float64   `yaml:"coabilitySkillDmgMod" mapstructure:"coabilitySkillDmgMod"`
	FSDmgMod             float64   `yaml:"fsDmgMod" mapstructure:"fsDmgMod"`
	CritRate             float64   `yaml:"critRate" mapstructure:"critRate"`
	CritDmgBuff          float64   `yaml:"critDmgBuff" mapstructure:"critDmgBuff"`
	StrengthBuffs        []float64 `yaml:"strengthBuffs,omitempty" mapstructure:"strengthBuffs"`
	// FSBuff is read but intentionally unconstrained by the damage
	// formula; it is a reserved field for a buff slot not yet wired to
	// any adventurer's hooks.
	FSBuff float64 `yaml:"fsBuff,omitempty" mapstructure:"fsBuff"`
}

// CritDmgBase is the fixed base crit-damage multiplier.
const CritDmgBase = 0.7

// CritDmg returns the crit damage multiplier: the fixed base plus the
// configured crit buff magnitude when buffActive is true.
func (m Modifiers) CritDmg(buffActive bool) float64 {
	if buffActive {
		return CritDmgBase + m.CritDmgBuff
	}
	return CritDmgBase
}

// Config is the full immutable snapshot the simulator reads from. It is
// built once (by Load or by a test fixture) and never mutated afterward.
type Config struct {
	WeaponClass WeaponClass `yaml:"weaponClass" mapstructure:"weaponClass"`
	Weapon      Weapon      `yaml:"weapon" mapstructure:"weapon"`
	Adventurer  Adventurer  `yaml:"adventurer" mapstructure:"adventurer"`
	Modifiers   Modifiers   `yaml:"modifiers" mapstructure:"modifiers"`
}

// ComboStat returns the stat block for basic-combo step i (0-based, 0..4).
func (c *Config) ComboStat(i int) ActionStat {
	return c.WeaponClass.ComboStats[i]
}

// SkillStat returns the stat block for skill index i (0-based, 0..2).
func (c *Config) SkillStat(i int) ActionStat {
	return c.Adventurer.SkillStats[i]
}
