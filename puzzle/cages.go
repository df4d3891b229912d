package puzzle

import (
	"math/rand"
)

/*

Cage generation

The generator partitions the 81 solved cells into cages by greedy
randomized region growing.  It visits the cell indices in one
up-front shuffled order (so no corner of the board systematically
gets the first, largest cages), starts a cage at every cell not yet
claimed, draws a target size in [1, maxSize], and grows the cage one
cell at a time by picking uniformly among the unclaimed 4-neighbors
of the whole current membership.  A cage that runs out of unclaimed
neighbors before reaching its target simply stops small; that is
normal near board edges and around earlier cages.

The result is always a valid partition (every cell claimed exactly
once, every cage edge-connected) but the size distribution is
whatever the greedy process produces, not a tuned one.

*/

// unassigned marks a cell not yet claimed by any cage.
const unassigned = -1

// partitionCages partitions a solved grid into cages no larger than
// maxSize and returns the cages along with the cage id of every
// cell.  Each cage's Sum is computed once here, from the solution
// values of its final membership, and never touched again.
func partitionCages(rng *rand.Rand, values *[CellCount]int, maxSize int) ([]Cage, [CellCount]int) {
	var cageOf [CellCount]int
	for i := range cageOf {
		cageOf[i] = unassigned
	}

	var cages []Cage
	frontier := make([]int, 0, 4*maxSize)
	for _, start := range rng.Perm(CellCount) {
		if cageOf[start] != unassigned {
			continue
		}
		id := len(cages)
		members := []int{start}
		cageOf[start] = id
		target := rng.Intn(maxSize) + 1

		for len(members) < target {
			frontier = growthFrontier(frontier[:0], members, &cageOf)
			if len(frontier) == 0 {
				break
			}
			next := frontier[rng.Intn(len(frontier))]
			members = append(members, next)
			cageOf[next] = id
		}

		sum := 0
		for _, idx := range members {
			sum += values[idx]
		}
		cages = append(cages, Cage{ID: id, Sum: sum, Cells: members})
	}
	return cages, cageOf
}

// growthFrontier collects the unassigned 4-neighbors of every
// member, deduplicated, into dst.  Growth considers the whole
// membership, not just the newest cell, so cages can bend around
// claimed territory while staying connected.
func growthFrontier(dst []int, members []int, cageOf *[CellCount]int) []int {
	nbuf := make([]int, 0, 4)
	for _, idx := range members {
		for _, n := range appendNeighbors(nbuf[:0], idx) {
			if cageOf[n] != unassigned {
				continue
			}
			seen := false
			for _, f := range dst {
				if f == n {
					seen = true
					break
				}
			}
			if !seen {
				dst = append(dst, n)
			}
		}
	}
	return dst
}
