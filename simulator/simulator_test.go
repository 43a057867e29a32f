package simulator

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/dlgrind/action"
	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/config"
)

func testConfig() *config.Config {
	stat := func(pct float64, sp uint16, startup, recovery uint32) config.ActionStat {
		return config.ActionStat{DamagePercent: pct, SP: sp, Startup: startup, Recovery: recovery}
	}
	return &config.Config{
		WeaponClass: config.WeaponClass{
			ComboStats: [5]config.ActionStat{
				stat(100, 2, 10, 20),
				stat(110, 2, 10, 20),
				stat(120, 2, 10, 20),
				stat(130, 2, 10, 20),
				stat(150, 2, 10, 20),
			},
			FSStat: stat(200, 0, 15, 30),
		},
		Weapon: config.Weapon{Name: "test", Type: config.Melee},
		Adventurer: config.Adventurer{
			Name:         adventurer.Generic,
			BaseStrength: 1000,
			SkillStats: [3]config.ActionStat{
				stat(300, 10, 20, 40),
				stat(400, 10, 20, 40),
				stat(500, 10, 20, 40),
			},
		},
		Modifiers: config.Modifiers{
			StrengthMod: 0.1,
			CritRate:    0,
		},
	}
}

func TestApplyActionBasics(t *testing.T) {
	Convey("Given a generic adventurer with a melee weapon", t, func() {
		cfg := testConfig()
		sim := New(cfg, 3, 0)
		zero := adventurer.State{}

		Convey("An X from idle advances the combo chain and deals damage", func() {
			next, frames, dmg, ok := sim.ApplyAction(zero, action.X)
			So(ok, ShouldBeTrue)
			So(next.After, ShouldEqual, action.C1)
			So(frames, ShouldEqual, cfg.ComboStat(0).Startup)
			So(dmg, ShouldBeGreaterThan, 0)
		})

		Convey("Six consecutive X inputs walk C1 through C5 and wrap to C1", func() {
			st := zero
			afters := []action.AfterAction{}
			for i := 0; i < 6; i++ {
				var ok bool
				st, _, _, ok = sim.ApplyAction(st, action.X)
				So(ok, ShouldBeTrue)
				afters = append(afters, st.After)
			}
			So(afters[0], ShouldEqual, action.C1)
			So(afters[4], ShouldEqual, action.C5)
			So(afters[5], ShouldEqual, action.C1)
		})

		Convey("A skill is illegal without enough SP", func() {
			_, _, _, ok := sim.ApplyAction(zero, action.S1)
			So(ok, ShouldBeFalse)
		})

		Convey("A skill becomes legal once SP has been prepped to full", func() {
			prepped := sim.ApplyPrep(zero, 100)
			next, frames, dmg, ok := sim.ApplyAction(prepped, action.S1)
			So(ok, ShouldBeTrue)
			So(next.After, ShouldEqual, action.AfterS1)
			So(next.UIHiddenFramesLeft, ShouldEqual, adventurer.UIHiddenFramesCap)
			So(next.SP[0], ShouldEqual, 0)
			So(frames, ShouldEqual, cfg.SkillStat(0).Startup)
			So(dmg, ShouldBeGreaterThan, 0)
		})

		Convey("FS does not cancel FS", func() {
			afterFS := zero
			afterFS.After = action.AfterFS
			_, _, _, ok := sim.ApplyAction(afterFS, action.FS)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestXFSOverride(t *testing.T) {
	Convey("Given a weapon class with an XFS override table", t, func() {
		cfg := testConfig()
		cfg.WeaponClass.XFSStartups = []uint32{5, 6, 7, 8, 9}
		sim := New(cfg, 3, 0)

		Convey("FS after a combo step skips the combo step's recovery", func() {
			afterC2 := adventurer.State{After: action.C2}
			_, frames, _, ok := sim.ApplyAction(afterC2, action.FS)
			So(ok, ShouldBeTrue)
			So(frames, ShouldEqual, cfg.WeaponClass.XFSStartups[1])
		})
	})
}

func TestProjectileHitClassification(t *testing.T) {
	Convey("Given a bow-type weapon", t, func() {
		cfg := testConfig()
		cfg.Weapon.Type = config.Bow
		sim := New(cfg, 3, 0)

		Convey("A combo hit from idle lands during the UI wait window", func() {
			w := sim.HitWindowOf(adventurer.State{}, action.X)
			So(w, ShouldEqual, HitDuringUIWait)
		})

		Convey("A skill hit lands at the action point", func() {
			w := sim.HitWindowOf(adventurer.State{}, action.S1)
			So(w, ShouldEqual, HitAtActionPoint)
		})
	})
}

func TestEnergyArmsStrengthBuffAndDamageBonus(t *testing.T) {
	Convey("Given an Amane adventurer who gains energy on every hit", t, func() {
		cfg := testConfig()
		cfg.Adventurer.Name = adventurer.Amane
		sim := New(cfg, 3, 0)

		st := adventurer.State{}
		var lastDmg float64
		for i := 0; i < adventurer.MaxEnergy; i++ {
			var ok bool
			st, _, lastDmg, ok = sim.ApplyAction(st, action.X)
			So(ok, ShouldBeTrue)
		}

		Convey("Energy reaches the cap and arms the strength and energized buffs", func() {
			So(st.Energy, ShouldEqual, adventurer.MaxEnergy)
			So(st.BuffFramesLeft[0], ShouldBeGreaterThan, 0)
			So(st.BuffFramesLeft[2], ShouldBeGreaterThan, 0)
			So(lastDmg, ShouldBeGreaterThan, 0)
		})

		Convey("The energized timer eventually expires and resets energy", func() {
			decayed := sim.advance(st, uint32(EnergizedFrames))
			So(decayed.BuffFramesLeft[2], ShouldEqual, 0)
			So(decayed.Energy, ShouldEqual, 0)
		})
	})
}
