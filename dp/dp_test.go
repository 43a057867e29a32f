package dp

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/config"
	"github.com/niceyeti/dlgrind/exploration"
	"github.com/niceyeti/dlgrind/minimizer"
	"github.com/niceyeti/dlgrind/simulator"
)

// tinyConfig builds a deliberately small state space: a melee weapon with
// five combo steps and no skills worth using (skills cost more SP than
// they're ever granted, so they never fire), which keeps the reachable
// graph small enough to reason about by hand.
func tinyConfig() *config.Config {
	stat := func(pct float64, sp uint16, startup, recovery uint32) config.ActionStat {
		return config.ActionStat{DamagePercent: pct, SP: sp, Startup: startup, Recovery: recovery}
	}
	return &config.Config{
		WeaponClass: config.WeaponClass{
			ComboStats: [5]config.ActionStat{
				stat(100, 0, 10, 10),
				stat(100, 0, 10, 10),
				stat(100, 0, 10, 10),
				stat(100, 0, 10, 10),
				stat(100, 0, 10, 10),
			},
			FSStat: stat(50, 0, 10, 10),
		},
		Weapon: config.Weapon{Name: "test", Type: config.Melee},
		Adventurer: config.Adventurer{
			Name:         adventurer.Generic,
			BaseStrength: 1000,
			SkillStats: [3]config.ActionStat{
				stat(1000, 65535, 1, 1),
				stat(1000, 65535, 1, 1),
				stat(1000, 65535, 1, 1),
			},
		},
	}
}

func buildPipeline(cfg *config.Config) (*simulator.Simulator, *exploration.Graph, minimizer.Result) {
	sim := simulator.New(cfg, 3, 0)
	g := exploration.Explore(sim, adventurer.State{})
	initial := g.InitialPartition()
	inv := g.Pack()
	min := minimizer.Minimize(inv, 5, initial)
	return sim, g, min
}

func TestSearchFindsPositiveDamageWithinHorizon(t *testing.T) {
	Convey("Given a tiny melee-only reachable state space", t, func() {
		cfg := tinyConfig()
		sim, g, min := buildPipeline(cfg)

		Convey("Search over a short horizon returns a positive damage total", func() {
			result, err := Search(context.Background(), sim, g, min, 60, Reporter{})
			So(err, ShouldBeNil)
			So(result.Damage, ShouldBeGreaterThan, 0)
			So(result.Frame, ShouldBeLessThanOrEqualTo, 60)
		})

		Convey("A longer horizon never does worse than a shorter one", func() {
			short, err := Search(context.Background(), sim, g, min, 40, Reporter{})
			So(err, ShouldBeNil)
			long, err := Search(context.Background(), sim, g, min, 80, Reporter{})
			So(err, ShouldBeNil)
			So(long.Damage, ShouldBeGreaterThanOrEqualTo, short.Damage-Epsilon)
		})

		Convey("Milestones are reported in strictly increasing damage order", func() {
			var milestones []Milestone
			_, err := Search(context.Background(), sim, g, min, 60, Reporter{
				OnMilestone: func(m Milestone) { milestones = append(milestones, m) },
			})
			So(err, ShouldBeNil)
			So(len(milestones), ShouldBeGreaterThan, 0)
			for i := 1; i < len(milestones); i++ {
				So(milestones[i].Damage, ShouldBeGreaterThan, milestones[i-1].Damage)
			}
		})
	})
}

func TestSearchRespectsContextCancellation(t *testing.T) {
	Convey("Given a context that is already cancelled", t, func() {
		cfg := tinyConfig()
		sim, g, min := buildPipeline(cfg)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Search returns an error instead of running to completion", func() {
			_, err := Search(ctx, sim, g, min, 60, Reporter{})
			So(err, ShouldNotBeNil)
		})
	})
}
