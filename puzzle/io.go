package puzzle

import (
	"fmt"
	"strings"
)

/*

Print forms of boards, for the CLI and for debugging.

The grid printer draws cage boundaries the same way the on-screen
renderer decides them: a wall goes between two adjacent cells iff
their cage ids differ.  Box boundaries use heavy bars so the
standard Sudoku structure stays visible underneath the cages.

*/

// vstr renders one cell value: blank for empty, the digit
// otherwise.
func vstr(v int) string {
	if v <= 0 {
		return " "
	}
	if v <= SideLength {
		return fmt.Sprint(v)
	}
	return "?"
}

// String gives the player's view of the session: entries, cage
// walls, and a trailing cage legend.
func (s *Session) String() string {
	return s.gridString(false) + s.CagesString()
}

// SolutionString gives the same picture with the hidden solution
// filled in.  Verification tooling prints this; game clients have
// no business calling it.
func (s *Session) SolutionString() string {
	return s.gridString(true) + s.CagesString()
}

// gridString draws the 9x9 grid.  Horizontal and vertical walls
// appear wherever two neighbors belong to different cages; box
// boundaries are drawn with '=' and '#' so they read through the
// cage walls.
func (s *Session) gridString(solution bool) string {
	var sb strings.Builder
	for row := 0; row < SideLength; row++ {
		sb.WriteString(s.ruleString(row))
		for col := 0; col < SideLength; col++ {
			idx := cellAt(row, col)
			if col%TileLength == 0 {
				sb.WriteString("#")
			} else if s.cells[idx].cage != s.cells[cellAt(row, col-1)].cage {
				sb.WriteString("|")
			} else {
				sb.WriteString(" ")
			}
			v := s.cells[idx].input
			if solution {
				v = s.cells[idx].value
			}
			sb.WriteString(" " + vstr(v) + " ")
		}
		sb.WriteString("#\n")
	}
	sb.WriteString(strings.Repeat("=", SideLength*4+1) + "\n")
	return sb.String()
}

// ruleString draws the horizontal rule above the given row.
func (s *Session) ruleString(row int) string {
	if row == 0 || row%TileLength == 0 {
		return strings.Repeat("=", SideLength*4+1) + "\n"
	}
	var sb strings.Builder
	for col := 0; col < SideLength; col++ {
		sb.WriteString("+")
		if s.cells[cellAt(row, col)].cage != s.cells[cellAt(row-1, col)].cage {
			sb.WriteString("---")
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteString("+\n")
	return sb.String()
}

// CagesString lists every cage with its target sum and member
// cells, one per line, in cage id order.
func (s *Session) CagesString() string {
	var sb strings.Builder
	for _, cage := range s.cages {
		fmt.Fprintf(&sb, "cage %2d (sum %2d): %v\n", cage.ID, cage.Sum, cage.Cells)
	}
	return sb.String()
}
