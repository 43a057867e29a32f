// Package action enumerates the inputs a player can issue and the
// post-action tags the simulator uses to track what an adventurer just did.
package action

// Action is a player input: the basic combo button, a force strike, or one
// of up to three skills.
type Action uint8

const (
	X Action = iota
	FS
	S1
	S2
	S3
)

// All is the fixed enumeration order used by the state-space builder and by
// action encoding; order matters for reproducibility (lower-numbered
// actions are explored first when the edge list is built, but edge order
// itself never changes the result, only scan locality).
var All = [...]Action{X, FS, S1, S2, S3}

func (a Action) String() string {
	switch a {
	case X:
		return "x"
	case FS:
		return "fs"
	case S1:
		return "s1"
	case S2:
		return "s2"
	case S3:
		return "s3"
	default:
		return "action(?)"
	}
}

// SkillIndex returns the 0-based skill slot for a skill action, or false if
// a is not a skill.
func (a Action) SkillIndex() (int, bool) {
	switch a {
	case S1:
		return 0, true
	case S2:
		return 1, true
	case S3:
		return 2, true
	default:
		return 0, false
	}
}

// AfterAction tags the just-completed action. C1..C5 is the basic-combo
// progression; the skill/FS tags mirror the Action that produced them.
type AfterAction uint8

const (
	Nothing AfterAction = iota
	C1
	C2
	C3
	C4
	C5
	AfterFS
	AfterS1
	AfterS2
	AfterS3
)

func (a AfterAction) String() string {
	switch a {
	case Nothing:
		return "nothing"
	case C1:
		return "c1"
	case C2:
		return "c2"
	case C3:
		return "c3"
	case C4:
		return "c4"
	case C5:
		return "c5"
	case AfterFS:
		return "fs"
	case AfterS1:
		return "s1"
	case AfterS2:
		return "s2"
	case AfterS3:
		return "s3"
	default:
		return "after(?)"
	}
}

// ComboIndex returns the 0-based combo-stat index (0..4 for C1..C5), or
// false if a is not a combo step.
func (a AfterAction) ComboIndex() (int, bool) {
	switch a {
	case C1:
		return 0, true
	case C2:
		return 1, true
	case C3:
		return 2, true
	case C4:
		return 3, true
	case C5:
		return 4, true
	default:
		return 0, false
	}
}

// SkillIndex returns the 0-based skill slot for an after-skill tag, or
// false if a does not tag a just-completed skill.
func (a AfterAction) SkillIndex() (int, bool) {
	switch a {
	case AfterS1:
		return 0, true
	case AfterS2:
		return 1, true
	case AfterS3:
		return 2, true
	default:
		return 0, false
	}
}

// NextCombo returns the AfterAction reached by an X input from the combo
// step (or non-combo state) prev.
func NextCombo(prev AfterAction) AfterAction {
	switch prev {
	case C1:
		return C2
	case C2:
		return C3
	case C3:
		return C4
	case C4:
		return C5
	default:
		return C1
	}
}

// AfterSkill returns the AfterAction tag produced by skill index i (0..2).
func AfterSkill(i int) AfterAction {
	switch i {
	case 0:
		return AfterS1
	case 1:
		return AfterS2
	case 2:
		return AfterS3
	default:
		panic("action: skill index out of bounds")
	}
}
