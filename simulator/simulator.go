// Package simulator implements the deterministic action transition
// function: given an adventurer state and a player input, it returns the
// resulting state, its frame cost, and the damage it deals, or reports the
// action illegal. Everything here is a pure function of (config, prev, a).
package simulator

import (
	"github.com/niceyeti/dlgrind/action"
	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/config"
)

// DefaultProjectileDelay is the frame delay applied to a projectile-bearing
// weapon's combo/FS hits when no override is supplied.
const DefaultProjectileDelay uint32 = 50

// StrengthBuffFrames, CritBuffFrames, and EnergizedFrames are the ability
// buff durations in frames (60fps).
const (
	StrengthBuffFrames uint16 = 10 * 60
	CritBuffFrames     uint16 = 20 * 60
	EnergizedFrames    uint16 = 15 * 60
)

// HitWindow classifies when, relative to the surrounding action, a hit's
// damage and resource effects are applied. It does not change the frame
// or damage totals computed by ApplyAction; it exists to make the hit
// timing rule directly testable.
type HitWindow uint8

const (
	HitAtActionPoint HitWindow = iota
	HitDuringRecovery
	HitDuringUIWait
)

// Simulator is immutable for the run once constructed: it closes over a
// Config snapshot, the active skill count, and the projectile delay, none
// of which change while a rotation is being computed.
type Simulator struct {
	cfg             *config.Config
	numSkills       int
	projectileDelay uint32
	hooks           adventurer.Hooks
}

// New builds a Simulator for the given config, active skill count (2 or
// 3), and projectile delay override. A projectileDelay of 0 selects
// DefaultProjectileDelay.
func New(cfg *config.Config, numSkills int, projectileDelay uint32) *Simulator {
	if numSkills != 2 && numSkills != 3 {
		panic("simulator: numSkills must be 2 or 3")
	}
	if projectileDelay == 0 {
		projectileDelay = DefaultProjectileDelay
	}
	return &Simulator{
		cfg:             cfg,
		numSkills:       numSkills,
		projectileDelay: projectileDelay,
		hooks:           adventurer.Lookup(cfg.Adventurer.Name),
	}
}

// NumSkills returns the active skill count this simulator was built with.
func (s *Simulator) NumSkills() int { return s.numSkills }

// ApplyPrep sets every active skill's SP to floor(skillStat(i).SP *
// prepPercent / 100).
func (s *Simulator) ApplyPrep(prev adventurer.State, prepPercent uint8) adventurer.State {
	next := prev
	for i := 0; i < s.numSkills; i++ {
		spCap := s.cfg.SkillStat(i).SP
		next.SP[i] = uint16(uint32(spCap) * uint32(prepPercent) / 100)
	}
	return next
}

// ApplyAction is the core transition function. ok is false when a is
// illegal in prev, in which case next/frames/dmg are zero-valued and must
// not be used.
//
//	[AP prev]  recovery   |   startup   [AP next]
//	               ^input observed here
func (s *Simulator) ApplyAction(prev adventurer.State, a action.Action) (next adventurer.State, frames uint32, dmg float64, ok bool) {
	// FS does not cancel FS, and no skill cancels FS.
	if prev.After == action.AfterFS {
		if a == action.FS {
			return adventurer.State{}, 0, 0, false
		}
		if _, isSkill := a.SkillIndex(); isSkill {
			return adventurer.State{}, 0, 0, false
		}
	}

	after := prev
	var total uint32

	prevFrames := s.prevRecoveryFrames(prev.After, a)
	after = s.advance(after, prevFrames)
	total += prevFrames

	skillIndex, isSkill := a.SkillIndex()
	if isSkill {
		if after.UIHiddenFramesLeft > 0 {
			wait := uint32(after.UIHiddenFramesLeft)
			after = s.advance(after, wait)
			total += wait
		}
		if after.SP[skillIndex] < s.cfg.SkillStat(skillIndex).SP {
			return adventurer.State{}, 0, 0, false
		}
		after.UIHiddenFramesLeft = adventurer.UIHiddenFramesCap
		after.SP[skillIndex] = 0
		after = s.hooks.OnSkill(after, skillIndex)
	}

	after.After = s.nextAfter(prev.After, a)

	startupFrames := s.afterStartupFrames(prev.After, a, after.After)
	after = s.advance(after, startupFrames)
	total += startupFrames

	after, dmg = s.applyHit(after, after.After)

	for i := 0; i < s.numSkills; i++ {
		gained := s.afterActionSP(after.After)
		sum := uint32(after.SP[i]) + gained
		spCap := uint32(s.cfg.SkillStat(i).SP)
		if sum > spCap {
			sum = spCap
		}
		after.SP[i] = uint16(sum)
	}

	return after, total, dmg, true
}

// ComputeFrames re-invokes ApplyAction purely for its frame count,
// asserting legality. An illegal result here is an InvariantViolation
// and panics: a caller replaying an edge from a stored representative
// holds a stale or corrupt representative.
func (s *Simulator) ComputeFrames(prev adventurer.State, a action.Action) uint32 {
	_, frames, _, ok := s.ApplyAction(prev, a)
	if !ok {
		panic("simulator: computeFrames called on an illegal transition")
	}
	return frames
}

// advance wraps State.AdvanceFrames with the energy-decay rule: once the
// energized timer (buff slot 2) runs out, energy resets to zero. See
// DESIGN.md for why tying energy decay to the energized timer's expiry
// was chosen.
func (s *Simulator) advance(st adventurer.State, frames uint32) adventurer.State {
	wasArmed := st.BuffFramesLeft[2] > 0
	st = st.AdvanceFrames(frames)
	if wasArmed && st.BuffFramesLeft[2] == 0 {
		st.Energy = 0
	}
	return st
}

func (s *Simulator) nextAfter(prevAfter action.AfterAction, a action.Action) action.AfterAction {
	switch a {
	case action.FS:
		return action.AfterFS
	case action.X:
		return action.NextCombo(prevAfter)
	default:
		i, _ := a.SkillIndex()
		return action.AfterSkill(i)
	}
}

// prevRecoveryFrames implements the recovery-with-cancels table: a skill
// or (on weapons with an XFS override) a force strike cancels the
// recovery of whatever combo step or force strike preceded it; everything
// else must wait out its full recovery.
func (s *Simulator) prevRecoveryFrames(prev action.AfterAction, a action.Action) uint32 {
	if comboIndex, ok := prev.ComboIndex(); ok {
		if _, isSkill := a.SkillIndex(); isSkill {
			return 0
		}
		if a == action.FS && s.cfg.WeaponClass.HasXFSOverride() {
			return 0
		}
		return s.cfg.ComboStat(comboIndex).Recovery
	}
	if prev == action.AfterFS {
		if _, isSkill := a.SkillIndex(); isSkill {
			return 0
		}
		return s.cfg.WeaponClass.FSStat.Recovery
	}
	if skillIndex, ok := prev.SkillIndex(); ok {
		return s.cfg.SkillStat(skillIndex).Recovery
	}
	return 0
}

// afterStartupFrames implements the startup-frames table, including the
// XFS-override lookup for force strikes following a combo step.
func (s *Simulator) afterStartupFrames(prev action.AfterAction, a action.Action, after action.AfterAction) uint32 {
	switch a {
	case action.S1, action.S2, action.S3:
		i, _ := a.SkillIndex()
		return s.cfg.SkillStat(i).Startup
	case action.X:
		comboIndex, _ := after.ComboIndex()
		return s.cfg.ComboStat(comboIndex).Startup
	case action.FS:
		if comboIndex, ok := prev.ComboIndex(); ok && s.cfg.WeaponClass.HasXFSOverride() {
			return s.cfg.WeaponClass.XFSStartups[comboIndex]
		}
		return s.cfg.WeaponClass.FSStat.Startup
	default:
		panic("simulator: unknown action")
	}
}

// afterActionSP returns the SP every active skill slot accrues from
// landing the action tagged by after: ceil(stat.SP * (1+haste)), but since
// haste is not modeled here (no haste modifier is part of the supplied
// Config fields), this reduces to the stat's SP directly for combo/FS
// steps and zero for skills/Nothing.
func (s *Simulator) afterActionSP(after action.AfterAction) uint32 {
	switch {
	case after == action.AfterFS:
		return uint32(s.cfg.WeaponClass.FSStat.SP)
	case after == action.AfterS1 || after == action.AfterS2 || after == action.AfterS3:
		return 0
	default:
		if comboIndex, ok := after.ComboIndex(); ok {
			return uint32(s.cfg.ComboStat(comboIndex).SP)
		}
		return 0
	}
}

// hitDelay returns the frame delay between the action's input and the
// landing of its hit. Only combo steps and force strikes on a
// projectile-bearing weapon are delayed; skills and melee weapons hit at
// the action-point moment.
func (s *Simulator) hitDelay(after action.AfterAction) uint32 {
	if !s.cfg.Weapon.Type.IsProjectile() {
		return 0
	}
	if after == action.AfterFS {
		return s.projectileDelay
	}
	if _, ok := after.ComboIndex(); ok {
		return s.projectileDelay
	}
	return 0
}

// classifyHitWindow reports where, relative to prevFrames (the recovery
// window just elapsed), a hit with the given delay lands.
func classifyHitWindow(delay, prevFrames uint32) HitWindow {
	if delay == 0 {
		return HitAtActionPoint
	}
	if delay <= prevFrames {
		return HitDuringRecovery
	}
	return HitDuringUIWait
}

// HitWindowOf reports when the hit produced by applying a to prev lands.
// It does not affect ApplyAction's frame or
// damage totals.
func (s *Simulator) HitWindowOf(prev adventurer.State, a action.Action) HitWindow {
	after := s.nextAfter(prev.After, a)
	delay := s.hitDelay(after)
	prevFrames := s.prevRecoveryFrames(prev.After, a)
	return classifyHitWindow(delay, prevFrames)
}

// applyHit consolidates damage computation and adventurer-specific state
// changes into a single operation. next.After is already set to the
// hitting action's tag by the caller.
func (s *Simulator) applyHit(st adventurer.State, hitAfter action.AfterAction) (adventurer.State, float64) {
	dmg := s.damage(st, hitAfter)

	st = s.hooks.SkillStateUpdate(st, hitAfter)
	dmg *= s.hooks.DamageMultipliers(st)

	if st.Energy == adventurer.MaxEnergy && st.BuffFramesLeft[2] == 0 {
		st.BuffFramesLeft[0] = StrengthBuffFrames
		st.BuffFramesLeft[1] = CritBuffFrames
		st.BuffFramesLeft[2] = EnergizedFrames
	}

	return st, dmg
}

// damage computes the hit's damage total from the action's base percent,
// the adventurer's strength and modifiers, active buffs, and crit.
func (s *Simulator) damage(st adventurer.State, hitAfter action.AfterAction) float64 {
	m := s.cfg.Modifiers

	actionPercent := s.actionDamagePercent(hitAfter)

	skillFactor := 1.0
	if _, ok := hitAfter.SkillIndex(); ok {
		skillFactor = (1 + m.SkillDmgMod) * (1 + m.CoabilitySkillDmgMod)
	} else if hitAfter == action.AfterFS {
		skillFactor = 1 + m.FSDmgMod
	}

	strengthBuffProduct := 1.0
	if st.BuffFramesLeft[0] > 0 {
		for _, b := range m.StrengthBuffs {
			strengthBuffProduct *= b
		}
	}

	critDmg := m.CritDmg(st.BuffFramesLeft[1] > 0)

	dmg := (5.0 / 3.0) *
		s.cfg.Adventurer.BaseStrength *
		(1 + m.StrengthMod) * (1 + m.CoabilityStrengthMod) *
		strengthBuffProduct *
		actionPercent / 100 *
		skillFactor /
		10 *
		(1 + m.CritRate*critDmg) *
		1.5

	if st.Energy == adventurer.MaxEnergy {
		dmg *= 1.5
	}

	return dmg
}

func (s *Simulator) actionDamagePercent(hitAfter action.AfterAction) float64 {
	if hitAfter == action.AfterFS {
		return s.cfg.WeaponClass.FSStat.DamagePercent
	}
	if i, ok := hitAfter.SkillIndex(); ok {
		return s.cfg.SkillStat(i).DamagePercent
	}
	if i, ok := hitAfter.ComboIndex(); ok {
		return s.cfg.ComboStat(i).DamagePercent
	}
	return 0
}
