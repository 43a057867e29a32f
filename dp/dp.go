// Package dp implements the frame-indexed dynamic program that finds the
// highest-damage action rotation reachable within a bounded frame
// horizon. It operates entirely over the minimized partition graph: the
// DP never touches an adventurer.State directly except through the
// partition's stored representative, which is what makes the
// minimization phase worthwhile.
package dp

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/niceyeti/dlgrind/action"
	"github.com/niceyeti/dlgrind/actionstring"
	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/exploration"
	"github.com/niceyeti/dlgrind/minimizer"
	"github.com/niceyeti/dlgrind/simulator"
)

// Epsilon is the absolute tolerance used when comparing damage totals for
// equality; float64 accumulation over a long rotation never lands on
// exactly the same bit pattern for two paths that are "the same" in any
// practical sense.
const Epsilon = 0.01

// Milestone is one improvement to the best damage total found so far, in
// discovery order, mirroring the progress lines the original printed as
// it searched.
type Milestone struct {
	Frame    int
	Damage   float64
	Sequence actionstring.ActionString
}

// Reporter receives milestones as the search discovers them and, if
// non-nil, that frame's best damage after every finished frame in which
// at least one partition is reached (even frames that produced no
// improvement); frames with no reached partition are not reported. Any
// field may be nil.
type Reporter struct {
	OnMilestone func(Milestone)
	OnFrame     func(frame int, best float64)
}

// cell is one (frame, partition) slot in the rolling DP buffer.
type cell struct {
	damage   float64 // -1 means unreached
	sequence actionstring.ActionString
}

// Result is the outcome of Search: the best damage total found within the
// horizon, the frame it was completed on, and the sequence that achieves
// it.
type Result struct {
	Damage   float64
	Frame    int
	Sequence actionstring.ActionString
}

// Search runs the DP for up to horizonFrames frames over the minimized
// partition graph built from g (the raw reachable-state graph) and min
// (its Hopcroft-reduced partitioning), using sim to compute per-edge
// frame costs and damage. reporter's callbacks may be nil.
func Search(
	ctx context.Context,
	sim *simulator.Simulator,
	g *exploration.Graph,
	min minimizer.Result,
	horizonFrames int,
	reporter Reporter,
) (Result, error) {
	numPartitions := int(min.NumPartitions)

	reps := partitionRepresentatives(g, min)
	partitionInverse := packPartitionInverse(g, min, numPartitions)

	initialStateCode := findStateCode(g, g.Initial)
	initialPartition := int(min.PartitionOf[initialStateCode])

	window := maxEdgeFrames(sim, partitionInverse, reps) + 1
	if window < 1 {
		window = 1
	}

	buf := make([]cell, window*numPartitions)
	for i := range buf {
		buf[i].damage = -1
	}
	dix := func(frame, p int) int {
		return (frame%window)*numPartitions + p
	}
	buf[dix(0, initialPartition)] = cell{damage: 0}

	lastBest := 0.0

	for f := 1; f <= horizonFrames; f++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		// Clear this frame's row before computing it: the slot at
		// (f mod window) held frame (f - window)'s values.
		for p := 0; p < numPartitions; p++ {
			buf[dix(f, p)] = cell{damage: -1}
		}

		eg, _ := errgroup.WithContext(ctx)
		for p := 0; p < numPartitions; p++ {
			p := p
			eg.Go(func() error {
				computeCell(sim, reps, partitionInverse, buf, dix, f, p, window)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return Result{}, err
		}

		best := -1.0
		bestP := -1
		for p := 0; p < numPartitions; p++ {
			v := buf[dix(f, p)].damage
			if v > best+Epsilon {
				best = v
				bestP = p
			}
		}

		if best >= 0 {
			if reporter.OnFrame != nil {
				reporter.OnFrame(f, best)
			}
			if best > lastBest+Epsilon {
				lastBest = best
				if reporter.OnMilestone != nil {
					reporter.OnMilestone(Milestone{
						Frame:    f,
						Damage:   best,
						Sequence: buf[dix(f, bestP)].sequence,
					})
				}
			}
		}
	}

	best := -1.0
	bestFrame := 0
	var bestSeq actionstring.ActionString
	for f := 0; f <= horizonFrames; f++ {
		for p := 0; p < numPartitions; p++ {
			idx := dix(f, p)
			// Only cells still valid for frame f (not overwritten by a
			// later wraparound) are read here; since this loop runs after
			// Search's main loop completed, only the LAST `window` frames'
			// cells are live, which is exactly the range callers should
			// trust. For horizonFrames >= window this naturally reports
			// from the final window of frames, matching the DP's own
			// notion of "most recent history it still remembers."
			if f+window <= horizonFrames {
				continue
			}
			v := buf[idx].damage
			if v > best+Epsilon {
				best = v
				bestFrame = f
				bestSeq = buf[idx].sequence
			}
		}
	}

	return Result{Damage: best, Frame: bestFrame, Sequence: bestSeq}, nil
}

// computeCell fills buf[dix(f,p)] by considering every (predecessor
// partition, action) edge that could have produced partition p, mirroring
// the original's inner loop: for each inbound edge, replay it from the
// predecessor's representative state to get its frame cost and damage,
// then relax the DP cell if the predecessor's best-at-the-earlier-frame
// total, plus this edge's damage, beats (or deterministically ties) the
// current best.
func computeCell(
	sim *simulator.Simulator,
	reps []adventurer.State,
	inv exploration.PackedInverse,
	buf []cell,
	dix func(frame, p int) int,
	f, p, window int,
) {
	cur := &buf[dix(f, p)]

	for i := inv.Index[p]; i < inv.Index[p+1]; i++ {
		prevP := int(inv.States[i])
		a := action.Action(inv.Actions[i])
		prevState := reps[prevP]

		_, frames, dmg, ok := sim.ApplyAction(prevState, a)
		if !ok {
			continue
		}
		framesInt := int(frames)
		if framesInt > f {
			continue
		}
		if framesInt >= window {
			continue
		}

		prevCell := buf[dix(f-framesInt, prevP)]
		if prevCell.damage < 0 {
			continue
		}

		candidate := prevCell.damage + dmg
		if candidate < 0 {
			continue
		}

		if candidate > cur.damage+Epsilon {
			seq := prevCell.sequence
			seq.Push(a)
			cur.damage = candidate
			cur.sequence = seq
		} else if candidate > cur.damage-Epsilon {
			seq := prevCell.sequence
			seq.Push(a)
			if cur.sequence.Less(seq) {
				cur.damage = candidate
				cur.sequence = seq
			}
		}
	}
}

func partitionRepresentatives(g *exploration.Graph, min minimizer.Result) []adventurer.State {
	reps := make([]adventurer.State, min.NumPartitions)
	for s, p := range min.PartitionOf {
		reps[p] = g.States[s] // last one wins, matching the original
	}
	return reps
}

// packPartitionInverse redoes the inverse transition table over
// partitions instead of raw states: two equivalent states may still have
// been reached by non-equivalent predecessors, so this recomputation (not
// a relabeling of the original inverse) is necessary, exactly as in the
// original.
func packPartitionInverse(g *exploration.Graph, min minimizer.Result, numPartitions int) exploration.PackedInverse {
	type key struct {
		p uint32
		a uint8
	}
	seen := make([]map[key]struct{}, numPartitions)
	for i := range seen {
		seen[i] = map[key]struct{}{}
	}

	for s := range g.States {
		p := min.PartitionOf[s]
		for _, e := range g.Inverse[s] {
			fromP := min.PartitionOf[e.From]
			k := key{uint32(fromP), uint8(e.A)}
			seen[p][k] = struct{}{}
		}
	}

	total := 0
	for _, m := range seen {
		total += len(m)
	}

	out := exploration.PackedInverse{
		Index:   make([]uint32, numPartitions+1),
		States:  make([]uint32, 0, total),
		Actions: make([]uint8, 0, total),
	}
	for p := 0; p < numPartitions; p++ {
		out.Index[p] = uint32(len(out.States))
		for k := range seen[p] {
			out.States = append(out.States, uint32(k.p))
			out.Actions = append(out.Actions, k.a)
		}
	}
	out.Index[numPartitions] = uint32(len(out.States))
	return out
}

func findStateCode(g *exploration.Graph, s adventurer.State) exploration.StateCode {
	for i, st := range g.States {
		if st == s {
			return exploration.StateCode(i)
		}
	}
	panic("dp: initial state not found in explored graph")
}

func maxEdgeFrames(sim *simulator.Simulator, inv exploration.PackedInverse, reps []adventurer.State) int {
	max := 0
	numPartitions := len(inv.Index) - 1
	for p := 0; p < numPartitions; p++ {
		for i := inv.Index[p]; i < inv.Index[p+1]; i++ {
			prevP := int(inv.States[i])
			a := action.Action(inv.Actions[i])
			_, frames, _, ok := sim.ApplyAction(reps[prevP], a)
			if !ok {
				continue
			}
			if int(frames) > max {
				max = int(frames)
			}
		}
	}
	return max
}
