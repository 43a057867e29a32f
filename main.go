/*
dlgrind computes optimal action rotations for an adventurer in Dragalia
Lost: given a weapon/adventurer/modifier config, it explores the
reachable frame-by-frame state space, minimizes it with Hopcroft's
algorithm, and runs a frame-indexed dynamic program to find the
highest-damage rotation within a bounded frame horizon.

Two entry points live here:

	dlgrind [flags] [frames]        runs the optimizer
	dlgrind rotation <tokens...>    replays a fixed rotation and reports
	                                 its frame count and damage

This mirrors the split between the original's dlgrind-opt and
dlgrind-rotation binaries, folded into one flag-driven CLI.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/niceyeti/dlgrind/action"
	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/config"
	"github.com/niceyeti/dlgrind/dashboard"
	"github.com/niceyeti/dlgrind/dp"
	"github.com/niceyeti/dlgrind/exploration"
	"github.com/niceyeti/dlgrind/minimizer"
	"github.com/niceyeti/dlgrind/reporter"
	"github.com/niceyeti/dlgrind/simulator"
)

const defaultFrameHorizon = 3600

var (
	configPath      *string
	skillPrep       *int
	projectileDelay *int
	numSkills       *int
	serveAddr       *string
)

func init() {
	configPath = flag.String("config", "config.yaml", "path to the adventurer/weapon config file")
	skillPrep = flag.Int("skill-prep", 0, "initial skill SP, as a percent of each skill's cap")
	projectileDelay = flag.Int("projectile-delay", 0, "frame delay applied to projectile weapon hits (0 selects the default)")
	numSkills = flag.Int("num-skills", 3, "number of active skills (2 or 3)")
	serveAddr = flag.String("serve", "", "if set, serve a live progress dashboard at this address")
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "rotation" {
		if err := runRotation(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	flag.Parse()
	if err := runOptimizer(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSimulator() (*simulator.Simulator, *config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}
	sim := simulator.New(cfg, *numSkills, uint32(*projectileDelay))
	return sim, cfg, nil
}

func runRotation(args []string) error {
	sim, _, err := loadSimulator()
	if err != nil {
		return err
	}

	rotation, err := reporter.ParseRotation(joinArgs(args))
	if err != nil {
		return err
	}

	steps, err := reporter.Replay(sim, rotation)
	if err != nil {
		log := reporter.New(os.Stderr)
		reporter.LogReplay(log, steps)
		return err
	}

	log := reporter.New(os.Stderr)
	reporter.LogReplay(log, steps)

	if len(steps) == 0 {
		fmt.Println(0)
		fmt.Println(0.0)
		return nil
	}
	last := steps[len(steps)-1]
	fmt.Println(last.FramesSoFar)
	fmt.Println(last.SecondsSoFar)
	return nil
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func runOptimizer(positional []string) error {
	// Ambient diagnostics go to stderr; stdout is reserved for the
	// milestone lines' fixed output contract (see PrintMilestone).
	log := reporter.New(os.Stderr)

	sim, cfg, err := loadSimulator()
	if err != nil {
		log.Fatal(err)
		return err
	}

	initialState := adventurer.State{}
	if *skillPrep > 0 {
		initialState = sim.ApplyPrep(initialState, uint8(*skillPrep))
		log.WithField("skillPrep", *skillPrep).Info("skill prep applied to initial state")
	}

	horizon := defaultFrameHorizon
	if len(positional) > 0 {
		v, err := strconv.Atoi(positional[0])
		if err != nil {
			return fmt.Errorf("main: invalid frame horizon %q: %w", positional[0], err)
		}
		horizon = v
	}

	log.WithFields(map[string]interface{}{
		"config":          *configPath,
		"numSkills":       *numSkills,
		"projectileDelay": *projectileDelay,
		"weapon":          cfg.Weapon.Name,
		"adventurer":      cfg.Adventurer.Name,
		"horizon":         horizon,
	}).Info("starting rotation search")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var board *dashboard.Dashboard
	if *serveAddr != "" {
		board = dashboard.New(*serveAddr)
		go func() {
			if err := board.Serve(ctx); err != nil {
				log.WithError(err).Error("dashboard server exited")
			}
		}()
		log.WithField("addr", *serveAddr).Info("live dashboard listening")
	}

	g := exploration.Explore(sim, initialState)
	log.WithField("numStates", len(g.States)).Info("reachable state space explored")

	initialPartition := g.InitialPartition()
	packed := g.Pack()
	min := minimizer.Minimize(packed, len(action.All), initialPartition)
	log.WithField("numPartitions", min.NumPartitions).Info("state space minimized")

	fpmStart := time.Now()
	fpmFrames := 0

	result, err := dp.Search(ctx, sim, g, min, horizon, dp.Reporter{
		OnMilestone: func(m dp.Milestone) {
			reporter.PrintMilestone(os.Stdout, m)
			if board != nil {
				board.Publish(m)
			}
		},
		OnFrame: func(frame int, best float64) {
			if elapsed := time.Since(fpmStart); elapsed >= time.Minute {
				fpm := float64(frame-fpmFrames) / elapsed.Minutes()
				reporter.PrintFPM(os.Stderr, fpm)
				fpmFrames = frame
				fpmStart = time.Now()
			}
		},
	})
	if err != nil {
		return err
	}

	reporter.LogSearchResult(log, result)
	return nil
}
