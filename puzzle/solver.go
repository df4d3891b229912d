package puzzle

import (
	"math/rand"
)

/*

Solution grid filler

The filler completes an empty (or partially seeded) grid into a
full, rule-valid Sudoku solution by depth-first backtracking over
the cell indices in reading order.  At each empty cell it tries the
digits 1..9 in an order shuffled by the session's random stream;
the shuffle decides which of the many valid solutions comes out,
not whether one is found; a 9x9 grid always completes from empty.

Each placement is explicitly undone on the failure path before the
loop moves to the next candidate, so a false return always leaves
the grid exactly as it was on entry.  No partial fill ever leaks to
a caller.

*/

// prefillDiagonal seeds the three diagonal 3x3 boxes with
// independent random permutations of 1..9.  The diagonal boxes
// share no row, column, or box, so any three permutations are
// mutually consistent.  This is purely a search accelerator; the
// filler succeeds with or without it.
func prefillDiagonal(rng *rand.Rand, values *[CellCount]int) {
	for box := 0; box < SideLength; box += TileLength + 1 {
		perm := rng.Perm(SideLength)
		baseRow := (box / TileLength) * TileLength
		baseCol := (box % TileLength) * TileLength
		n := 0
		for r := 0; r < TileLength; r++ {
			for c := 0; c < TileLength; c++ {
				values[cellAt(baseRow+r, baseCol+c)] = perm[n] + 1
				n++
			}
		}
	}
}

// fillSolution completes values into a full solution, reporting
// whether it succeeded.  Cells that already hold a nonzero value
// are kept and skipped, so it works on an empty grid and on one
// seeded by prefillDiagonal alike.
func fillSolution(rng *rand.Rand, values *[CellCount]int) bool {
	return fillFrom(rng, values, 0)
}

// fillFrom is the recursive worker for fillSolution, filling cells
// at idx and beyond.  Recursion depth is bounded by CellCount.
func fillFrom(rng *rand.Rand, values *[CellCount]int, idx int) bool {
	if idx == CellCount {
		return true
	}
	if values[idx] != 0 {
		return fillFrom(rng, values, idx+1)
	}
	var candidates [SideLength]int
	for i := range candidates {
		candidates[i] = i + 1
	}
	rng.Shuffle(SideLength, func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, val := range candidates {
		if !safeValue(values, idx, val) {
			continue
		}
		values[idx] = val
		if fillFrom(rng, values, idx+1) {
			return true
		}
		values[idx] = 0
	}
	return false
}
