package reporter

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/dlgrind/action"
	"github.com/niceyeti/dlgrind/actionstring"
	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/config"
	"github.com/niceyeti/dlgrind/dp"
	"github.com/niceyeti/dlgrind/simulator"
)

func TestParseRotation(t *testing.T) {
	Convey("Given a rotation string with combo-run shorthand", t, func() {
		Convey("c3fs expands to three X inputs and an FS", func() {
			actions, err := ParseRotation("c3fs")
			So(err, ShouldBeNil)
			So(actions, ShouldResemble, []action.Action{action.X, action.X, action.X, action.FS})
		})

		Convey("Mixed tokens parse in order", func() {
			actions, err := ParseRotation("c2 s1 fs")
			So(err, ShouldBeNil)
			So(actions, ShouldResemble, []action.Action{action.X, action.X, action.S1, action.FS})
		})

		Convey("An unrecognized token is an error", func() {
			_, err := ParseRotation("banana")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFormatMilestone(t *testing.T) {
	Convey("Given a milestone with a simple sequence", t, func() {
		var seq actionstring.ActionString
		seq.Push(action.X)
		seq.Push(action.X)
		seq.Push(action.FS)
		m := dp.Milestone{Frame: 42, Damage: 123.5, Sequence: seq}

		Convey("FormatMilestone renders the fixed output-stream line", func() {
			So(FormatMilestone(m), ShouldEqual, "c2fs => 123.5 dmg in 42 frames")
		})

		Convey("PrintMilestone writes that line terminated by a newline", func() {
			var buf bytes.Buffer
			PrintMilestone(&buf, m)
			So(buf.String(), ShouldEqual, "c2fs => 123.5 dmg in 42 frames\n")
		})
	})
}

func TestPrintFPM(t *testing.T) {
	Convey("PrintFPM writes the fixed throughput diagnostic line", t, func() {
		var buf bytes.Buffer
		PrintFPM(&buf, 1800)
		So(buf.String(), ShouldEqual, "fpm: 1800\n")
	})
}

func testConfig() *config.Config {
	stat := func(pct float64, sp uint16, startup, recovery uint32) config.ActionStat {
		return config.ActionStat{DamagePercent: pct, SP: sp, Startup: startup, Recovery: recovery}
	}
	return &config.Config{
		WeaponClass: config.WeaponClass{
			ComboStats: [5]config.ActionStat{
				stat(100, 0, 10, 20),
				stat(100, 0, 10, 20),
				stat(100, 0, 10, 20),
				stat(100, 0, 10, 20),
				stat(100, 0, 10, 20),
			},
			FSStat: stat(150, 0, 15, 30),
		},
		Weapon: config.Weapon{Name: "test", Type: config.Melee},
		Adventurer: config.Adventurer{
			Name:         adventurer.Generic,
			BaseStrength: 1000,
			SkillStats: [3]config.ActionStat{
				stat(300, 65535, 20, 40),
				stat(400, 65535, 20, 40),
				stat(500, 65535, 20, 40),
			},
		},
	}
}

func TestReplay(t *testing.T) {
	Convey("Given a simple rotation and a melee simulator", t, func() {
		cfg := testConfig()
		sim := simulator.New(cfg, 3, 0)
		rotation, err := ParseRotation("c3fs")
		So(err, ShouldBeNil)

		Convey("Replay accumulates frames and damage across every step", func() {
			steps, err := Replay(sim, rotation)
			So(err, ShouldBeNil)
			So(len(steps), ShouldEqual, len(rotation))
			So(steps[len(steps)-1].FramesSoFar, ShouldBeGreaterThan, 0)
			So(steps[len(steps)-1].Damage, ShouldBeGreaterThan, 0)
		})

		Convey("An illegal step reports an error and returns the partial trace", func() {
			afterFS := []action.Action{action.FS, action.FS}
			steps, err := Replay(sim, afterFS)
			So(err, ShouldNotBeNil)
			So(len(steps), ShouldEqual, 1)
		})
	})
}
