// Package exploration builds the reachable-state graph for a Simulator
// and packs it into the inverse transition relation the minimizer
// consumes. This is the "compute reachable states" phase of the
// optimizer: a breadth/depth-first walk from the idle state, numbering
// every state and action it discovers and recording, for every state,
// the (predecessor, action) pairs that lead into it.
package exploration

import (
	"github.com/niceyeti/dlgrind/action"
	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/simulator"
)

// StateCode identifies a discovered adventurer.State by discovery order.
type StateCode uint32

// Edge is a single (predecessor state, action) pair that transitions into
// some state s; stored under s's inverse-adjacency list.
type Edge struct {
	From StateCode
	A    action.Action
}

// Graph is the fully-explored reachable state space of a Simulator,
// before minimization: every distinct state reachable from the initial
// state, numbered, together with its inbound edges.
type Graph struct {
	States  []adventurer.State // index by StateCode
	Inverse [][]Edge           // index by StateCode; inbound (from, action) pairs
	Initial adventurer.State   // the state the walk started from (post-prep)
}

// Explore performs the reachability walk described above, starting from
// initial (the idle state, or a prepped state if skill prep was applied
// before exploration).
func Explore(sim *simulator.Simulator, initial adventurer.State) *Graph {
	encode := make(map[adventurer.State]StateCode)
	g := &Graph{Initial: initial}

	register := func(s adventurer.State) StateCode {
		if code, ok := encode[s]; ok {
			return code
		}
		code := StateCode(len(g.States))
		encode[s] = code
		g.States = append(g.States, s)
		g.Inverse = append(g.Inverse, nil)
		return code
	}

	register(initial)

	todo := []adventurer.State{initial}
	for len(todo) > 0 {
		s := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		sCode := encode[s]

		for _, a := range action.All {
			next, _, _, ok := sim.ApplyAction(s, a)
			if !ok {
				continue
			}
			nCode, seen := encode[next]
			if !seen {
				nCode = register(next)
				todo = append(todo, next)
			}
			g.Inverse[nCode] = append(g.Inverse[nCode], Edge{From: sCode, A: a})
		}
	}

	return g
}

// InitialPartition assigns every discovered state to a coarse partition
// derived from adventurer.State.Coarsen, seeding Hopcroft's refinement:
// two states that differ after coarsening can never be equivalent, so
// there is no point asking Hopcroft to consider merging them.
func (g *Graph) InitialPartition() []uint32 {
	partitionOf := make(map[adventurer.State]uint32)
	out := make([]uint32, len(g.States))
	for i, s := range g.States {
		key := s.Coarsen()
		p, ok := partitionOf[key]
		if !ok {
			p = uint32(len(partitionOf))
			partitionOf[key] = p
		}
		out[i] = p
	}
	return out
}

// PackedInverse is the compressed-sparse-row encoding of a state or
// partition graph's inbound (predecessor, action) relation: for entity i,
// the half-open index range [Index[i], Index[i+1]) of States/Actions
// holds its inbound edges. It is the wire shape both Explore's raw state
// graph and the minimizer's reduced partition graph are packed into.
type PackedInverse struct {
	Index   []uint32 // length numEntities+1
	States  []uint32
	Actions []uint8
}

// Pack converts the graph's per-state adjacency lists into CSR form.
func (g *Graph) Pack() PackedInverse {
	total := 0
	for _, edges := range g.Inverse {
		total += len(edges)
	}

	pi := PackedInverse{
		Index:   make([]uint32, len(g.States)+1),
		States:  make([]uint32, 0, total),
		Actions: make([]uint8, 0, total),
	}
	for i, edges := range g.Inverse {
		pi.Index[i] = uint32(len(pi.States))
		for _, e := range edges {
			pi.States = append(pi.States, uint32(e.From))
			pi.Actions = append(pi.Actions, uint8(e.A))
		}
	}
	pi.Index[len(g.States)] = uint32(len(pi.States))
	return pi
}
