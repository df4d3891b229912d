package puzzle

import (
	"math/rand"
	"testing"
)

// checkSolved fails the test unless values is a complete, rule-valid
// solution: every row, column, and box a permutation of 1..9.
func checkSolved(t *testing.T, values *[CellCount]int) {
	t.Helper()
	for group := 0; group < SideLength; group++ {
		var row, col, box [SideLength + 1]int
		for i := 0; i < SideLength; i++ {
			row[values[cellAt(group, i)]]++
			col[values[cellAt(i, group)]]++
			baseRow := (group / TileLength) * TileLength
			baseCol := (group % TileLength) * TileLength
			box[values[cellAt(baseRow+i/TileLength, baseCol+i%TileLength)]]++
		}
		for v := 1; v <= SideLength; v++ {
			if row[v] != 1 {
				t.Errorf("row %d has %d copies of %d", group, row[v], v)
			}
			if col[v] != 1 {
				t.Errorf("column %d has %d copies of %d", group, col[v], v)
			}
			if box[v] != 1 {
				t.Errorf("box %d has %d copies of %d", group, box[v], v)
			}
		}
	}
}

func TestFillSolutionFromEmpty(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		var values [CellCount]int
		if !fillSolution(rng, &values) {
			t.Fatalf("seed %d: fill failed from empty grid", seed)
		}
		checkSolved(t, &values)
	}
}

func TestFillSolutionWithDiagonalPrefill(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		var values [CellCount]int
		prefillDiagonal(rng, &values)

		// remember the seeded cells so we can check they survive
		var seeded [CellCount]int
		copy(seeded[:], values[:])

		if !fillSolution(rng, &values) {
			t.Fatalf("seed %d: fill failed on prefilled grid", seed)
		}
		checkSolved(t, &values)
		for i, v := range seeded {
			if v != 0 && values[i] != v {
				t.Errorf("seed %d: prefilled cell %d changed from %d to %d",
					seed, i, v, values[i])
			}
		}
	}
}

func TestPrefillDiagonalShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var values [CellCount]int
	prefillDiagonal(rng, &values)
	for idx := 0; idx < CellCount; idx++ {
		onDiagonal := boxOf(idx) == 0 || boxOf(idx) == 4 || boxOf(idx) == 8
		if onDiagonal && values[idx] == 0 {
			t.Errorf("diagonal cell %d left empty", idx)
		}
		if !onDiagonal && values[idx] != 0 {
			t.Errorf("off-diagonal cell %d filled with %d", idx, values[idx])
		}
	}
}

func TestFillSolutionDeterminism(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		var first, second [CellCount]int
		rng := rand.New(rand.NewSource(seed))
		prefillDiagonal(rng, &first)
		fillSolution(rng, &first)
		rng = rand.New(rand.NewSource(seed))
		prefillDiagonal(rng, &second)
		fillSolution(rng, &second)
		if first != second {
			t.Errorf("seed %d: two fills disagree", seed)
		}
	}
}

func TestFillFromLeavesNoPartialState(t *testing.T) {
	// a grid where index 2 cannot be filled: its row already has
	// 1 and 2, and its column and box have everything else
	var values [CellCount]int
	values[0], values[1] = 1, 2
	values[cellAt(1, 2)] = 3
	values[cellAt(2, 2)] = 4
	values[cellAt(3, 2)] = 5
	values[cellAt(4, 2)] = 6
	values[cellAt(5, 2)] = 7
	values[cellAt(6, 2)] = 8
	values[cellAt(7, 2)] = 9
	var before [CellCount]int
	copy(before[:], values[:])

	rng := rand.New(rand.NewSource(3))
	if fillFrom(rng, &values, 2) {
		t.Fatal("fill succeeded on an unsatisfiable grid")
	}
	if values != before {
		t.Error("failed fill leaked partial state into the grid")
	}
}
