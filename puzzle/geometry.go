package puzzle

/*

Board geometry

Unlike general Sudoku engines that parameterize the side length,
Killer Sudoku here is played on the fixed 9x9 board, so all the
geometry can be precomputed constants and tiny index arithmetic.

*/

// Board dimensions.  SideLength is the row/column length, TileLength
// the side of a 3x3 box, CellCount the total number of cells.
const (
	SideLength = 9
	TileLength = 3
	CellCount  = SideLength * SideLength
)

// rowOf, colOf, and boxOf map a cell index to its containing row,
// column, and box (all numbered 0..8, boxes in reading order).
func rowOf(idx int) int { return idx / SideLength }
func colOf(idx int) int { return idx % SideLength }
func boxOf(idx int) int {
	return (rowOf(idx)/TileLength)*TileLength + colOf(idx)/TileLength
}

// cellAt maps (row, col) back to a cell index.
func cellAt(row, col int) int { return row*SideLength + col }

// inBounds reports whether idx names a cell on the board.
func inBounds(idx int) bool { return idx >= 0 && idx < CellCount }

// neighborOffsets are the 4-connectivity (row, col) deltas used for
// cage adjacency.  Diagonal contact does not join cages.
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// appendNeighbors appends the in-bounds 4-neighbors of idx to dst
// and returns it.  Neighbors come out in a fixed order (up, down,
// left, right) so callers that consume them with a shared random
// stream stay deterministic.
func appendNeighbors(dst []int, idx int) []int {
	r, c := rowOf(idx), colOf(idx)
	for _, off := range neighborOffsets {
		nr, nc := r+off[0], c+off[1]
		if nr < 0 || nr >= SideLength || nc < 0 || nc >= SideLength {
			continue
		}
		dst = append(dst, cellAt(nr, nc))
	}
	return dst
}

// safeValue reports whether placing val at idx keeps the partial
// solution in values rule-valid: no duplicate in the cell's row,
// column, or 3x3 box.  Empty cells hold 0 and never conflict.
func safeValue(values *[CellCount]int, idx, val int) bool {
	row, col := rowOf(idx), colOf(idx)
	for i := 0; i < SideLength; i++ {
		if values[cellAt(row, i)] == val {
			return false
		}
		if values[cellAt(i, col)] == val {
			return false
		}
	}
	baseRow, baseCol := (row/TileLength)*TileLength, (col/TileLength)*TileLength
	for r := 0; r < TileLength; r++ {
		for c := 0; c < TileLength; c++ {
			if values[cellAt(baseRow+r, baseCol+c)] == val {
				return false
			}
		}
	}
	return true
}
