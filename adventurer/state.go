// Package adventurer holds the value-typed simulator state and the
// adventurer-identified effect hooks that customize it.
package adventurer

import "github.com/niceyeti/dlgrind/action"

// UIHiddenFramesCap is the fixed ceiling on post-skill UI lockout frames.
const UIHiddenFramesCap = 114

// MaxEnergy is the cap at which the strength buff arms.
const MaxEnergy = 5

// State is a plain value: copied, compared, and hashed by every field. It
// carries no pointers, so it is safe to use as a map key and to pass
// around by value wherever a read-only snapshot is needed.
type State struct {
	After              action.AfterAction
	UIHiddenFramesLeft uint8
	SP                 [3]uint16
	BuffFramesLeft     [3]uint16
	Energy             uint8
	SkillShift         [2]uint8
}

// AdvanceFrames subtracts elapsed frames from every frame-denominated
// counter, floored at zero, exactly as the original's
// AdventurerState::advanceFrames does for its (narrower) field set.
func (s State) AdvanceFrames(frames uint32) State {
	s.UIHiddenFramesLeft = subFloorZero8(s.UIHiddenFramesLeft, frames)
	for i := range s.BuffFramesLeft {
		s.BuffFramesLeft[i] = subFloorZero16(s.BuffFramesLeft[i], frames)
	}
	return s
}

func subFloorZero8(a uint8, b uint32) uint8 {
	if uint32(a) <= b {
		return 0
	}
	return a - uint8(b)
}

func subFloorZero16(a uint16, b uint32) uint16 {
	if uint32(a) <= b {
		return 0
	}
	return a - uint16(b)
}

// Equal reports whether two states carry identical field values. State
// already satisfies Go's comparable constraint (all fields are arrays of
// scalars), so == works directly; Equal exists for readability at call
// sites and to mirror the explicit operator== the original C++ wrote out
// field by field.
func (s State) Equal(other State) bool {
	return s == other
}

// Coarsen projects a state onto the reduced key used to seed Hopcroft's
// initial partition: SP counters are zeroed, buff timers are booleanized
// to "has any frames left," and energy is reduced to "is it maxed." This
// is not required to produce a partition finer than what Hopcroft would
// reach anyway, only to avoid merging states that are NOT behaviorally
// equivalent; Hopcroft does the rest.
func (s State) Coarsen() State {
	c := s
	c.SP = [3]uint16{}
	for i := range c.BuffFramesLeft {
		if c.BuffFramesLeft[i] != 0 {
			c.BuffFramesLeft[i] = 1
		}
	}
	if c.Energy == MaxEnergy {
		c.Energy = 1
	} else {
		c.Energy = 0
	}
	return c
}
