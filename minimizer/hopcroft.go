// Package minimizer implements Hopcroft's DFA-minimization algorithm over
// a partial, non-deterministic-looking transition function (an action is
// "non-deterministic" here only in that it may be illegal from a given
// state; every state/action pair that IS legal has exactly one outcome).
// Two reachable states collapse into one partition exactly when no
// sequence of actions can ever distinguish their future damage or
// legality, which is precisely the equivalence the frame-indexed DP
// needs: it only cares about a state's "representative" behavior going
// forward.
package minimizer

import "github.com/niceyeti/dlgrind/exploration"

// Partition identifies a block of equivalent states after minimization.
type Partition uint32

// waiting is the worklist of (partition, action) pairs still to be
// processed; a plain map[key]struct{} mirrors the unordered_set<pair> the
// original used, since Go has no generic pair-hashing for free.
type waitKey struct {
	p Partition
	a uint8
}

// Result is the output of minimization: for every original state, which
// partition it collapsed into.
type Result struct {
	NumPartitions uint32
	PartitionOf   []Partition // index by exploration.StateCode
}

// Minimize runs Hopcroft's algorithm against inv (the CSR-packed inverse
// transition relation over the ORIGINAL, unminimized states) seeded with
// initialPartition (index by state, value is the coarse partition id from
// Graph.InitialPartition).
func Minimize(inv exploration.PackedInverse, numActions int, initialPartition []uint32) Result {
	numStates := len(initialPartition)

	var blocks [][]uint32 // block id -> member states
	partitionOf := make([]Partition, numStates)
	{
		byCoarse := map[uint32][]uint32{}
		for s, p := range initialPartition {
			byCoarse[p] = append(byCoarse[p], uint32(s))
		}
		// Stable order: iterate coarse ids in increasing order so block ids
		// are a deterministic function of initialPartition's own ids.
		maxCoarse := uint32(0)
		for p := range byCoarse {
			if p+1 > maxCoarse {
				maxCoarse = p + 1
			}
		}
		for p := uint32(0); p < maxCoarse; p++ {
			members, ok := byCoarse[p]
			if !ok {
				continue
			}
			id := uint32(len(blocks))
			blocks = append(blocks, members)
			for _, s := range members {
				partitionOf[s] = Partition(id)
			}
		}
	}

	waiting := map[waitKey]struct{}{}
	for p := range blocks {
		for a := 0; a < numActions; a++ {
			waiting[waitKey{Partition(p), uint8(a)}] = struct{}{}
		}
	}

	blockSet := func(b int) map[uint32]struct{} {
		m := make(map[uint32]struct{}, len(blocks[b]))
		for _, s := range blocks[b] {
			m[s] = struct{}{}
		}
		return m
	}

	for len(waiting) > 0 {
		var key waitKey
		for k := range waiting {
			key = k
			break
		}
		delete(waiting, key)
		p, a := key.p, key.a

		// inverse <- f^-1(B[p]) under action a
		inverseSet := map[uint32]struct{}{}
		for _, s := range blocks[p] {
			for i := inv.Index[s]; i < inv.Index[s+1]; i++ {
				if inv.Actions[i] != a {
					continue
				}
				inverseSet[inv.States[i]] = struct{}{}
			}
		}

		// jlist: blocks split by inverseSet, excluding blocks wholly
		// contained in it.
		jlist := map[Partition][]uint32{}
		blockSizes := map[Partition]int{}
		for s := range inverseSet {
			q := partitionOf[s]
			jlist[q] = append(jlist[q], s)
			if blockSizes[q] == 0 {
				blockSizes[q] = len(blocks[q])
			}
		}
		for q, members := range jlist {
			if len(members) == blockSizes[q] {
				delete(jlist, q)
			}
		}

		for q, qMembers := range jlist {
			r := Partition(len(blocks))
			blocks = append(blocks, append([]uint32(nil), qMembers...))

			inQ := blockSet(int(q))
			for _, s := range qMembers {
				delete(inQ, s)
			}
			newQMembers := make([]uint32, 0, len(inQ))
			for s := range inQ {
				newQMembers = append(newQMembers, s)
			}
			blocks[q] = newQMembers

			for _, s := range qMembers {
				partitionOf[s] = r
			}

			for act := 0; act < numActions; act++ {
				if _, inWaiting := waiting[waitKey{q, uint8(act)}]; inWaiting {
					waiting[waitKey{r, uint8(act)}] = struct{}{}
				} else if len(blocks[r]) <= len(blocks[q]) {
					waiting[waitKey{r, uint8(act)}] = struct{}{}
				} else {
					waiting[waitKey{q, uint8(act)}] = struct{}{}
				}
			}
		}
	}

	return Result{
		NumPartitions: uint32(len(blocks)),
		PartitionOf:   partitionOf,
	}
}
