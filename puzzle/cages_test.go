package puzzle

import (
	"math/rand"
	"reflect"
	"testing"
)

// solvedGrid builds a deterministic solved grid for cage tests.
func solvedGrid(t *testing.T, seed int64) [CellCount]int {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var values [CellCount]int
	if !fillSolution(rng, &values) {
		t.Fatalf("seed %d: fill failed", seed)
	}
	return values
}

// checkPartition fails the test unless cages and cageOf form a
// valid partition of the grid: total coverage with no overlap,
// consistent ids, bounded sizes, correct sums, and edge-connected
// member sets.
func checkPartition(t *testing.T, values *[CellCount]int, cages []Cage, cageOf *[CellCount]int, maxSize int) {
	t.Helper()
	covered := 0
	for _, cage := range cages {
		if len(cage.Cells) < 1 || len(cage.Cells) > maxSize {
			t.Errorf("cage %d has %d cells; want 1..%d", cage.ID, len(cage.Cells), maxSize)
		}
		covered += len(cage.Cells)
		sum := 0
		for _, idx := range cage.Cells {
			if cageOf[idx] != cage.ID {
				t.Errorf("cell %d is in cage %d's member list but mapped to cage %d",
					idx, cage.ID, cageOf[idx])
			}
			sum += values[idx]
		}
		if sum != cage.Sum {
			t.Errorf("cage %d sum is %d; members add to %d", cage.ID, cage.Sum, sum)
		}
		checkConnected(t, cage)
	}
	if covered != CellCount {
		t.Errorf("cages cover %d cells; want %d", covered, CellCount)
	}
	for idx, id := range cageOf {
		if id == unassigned {
			t.Errorf("cell %d was never assigned a cage", idx)
		}
	}
}

// checkConnected verifies 4-neighbor connectivity of a cage by
// flooding from its first member.
func checkConnected(t *testing.T, cage Cage) {
	t.Helper()
	if len(cage.Cells) == 0 {
		t.Errorf("cage %d is empty", cage.ID)
		return
	}
	inCage := make(map[int]bool, len(cage.Cells))
	for _, idx := range cage.Cells {
		inCage[idx] = true
	}
	seen := map[int]bool{cage.Cells[0]: true}
	queue := []int{cage.Cells[0]}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		for _, n := range appendNeighbors(nil, idx) {
			if inCage[n] && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	if len(seen) != len(cage.Cells) {
		t.Errorf("cage %d is disconnected: reached %d of %d cells",
			cage.ID, len(seen), len(cage.Cells))
	}
}

func TestPartitionCagesInvariants(t *testing.T) {
	for _, d := range []Difficulty{Medium, Hard} {
		for seed := int64(0); seed < 20; seed++ {
			values := solvedGrid(t, seed)
			rng := rand.New(rand.NewSource(seed + 1000))
			cages, cageOf := partitionCages(rng, &values, d.maxCageSize())
			checkPartition(t, &values, cages, &cageOf, d.maxCageSize())
		}
	}
}

func TestPartitionCagesIDsAreDense(t *testing.T) {
	values := solvedGrid(t, 7)
	rng := rand.New(rand.NewSource(7))
	cages, _ := partitionCages(rng, &values, Hard.maxCageSize())
	for i, cage := range cages {
		if cage.ID != i {
			t.Errorf("cage at position %d has id %d", i, cage.ID)
		}
	}
}

func TestPartitionCagesDeterminism(t *testing.T) {
	values := solvedGrid(t, 11)
	run := func() ([]Cage, [CellCount]int) {
		rng := rand.New(rand.NewSource(99))
		return partitionCages(rng, &values, Medium.maxCageSize())
	}
	cages1, cageOf1 := run()
	cages2, cageOf2 := run()
	if !reflect.DeepEqual(cages1, cages2) {
		t.Error("two partitions from the same seed produced different cages")
	}
	if cageOf1 != cageOf2 {
		t.Error("two partitions from the same seed produced different cell assignments")
	}
}

func TestPartitionCagesLowerBoundOnCount(t *testing.T) {
	// with cages capped at 3 cells there must be at least 27 cages
	values := solvedGrid(t, 13)
	rng := rand.New(rand.NewSource(13))
	cages, _ := partitionCages(rng, &values, Medium.maxCageSize())
	if len(cages) < CellCount/Medium.maxCageSize() {
		t.Errorf("got %d cages; want at least %d", len(cages), CellCount/Medium.maxCageSize())
	}
}
