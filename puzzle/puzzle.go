// Package puzzle generates and validates Killer Sudoku puzzles.
//
// A Killer Sudoku puzzle is a standard 9x9 Sudoku solution (every
// row, column, and 3x3 box contains each digit 1 through 9 exactly
// once) overlaid with a partition of the 81 cells into connected
// "cages".  Each cage carries the sum of the solution values of its
// member cells, and those sums are the only clues the player gets
// (apart from a handful of pre-revealed cells on easier settings).
//
// Cells are designated by indices 0 through 80 that increase
// left-to-right, top-to-bottom (English reading order).
//
// A game is played through a Session.  Creating a session runs the
// whole generation pipeline: a randomized backtracking fill of the
// solution grid, a randomized connected-region partition of the
// solved grid into cages, and the difficulty's cell reveals.  The
// session then accepts player edits, marks cells that disagree with
// the solution, and reports completion and a time-based score.  All
// randomness comes from a stream owned by the session, so a session
// built from an explicit seed always produces the identical puzzle.
//
// The package does no drawing and no persistence: renderers consume
// the Board snapshot, and storage layers persist the (seed,
// difficulty, inputs) triple from which a session can be rebuilt.
package puzzle

import (
	"fmt"
	"strings"
)

/*

Difficulties

*/

// A Difficulty selects the cage-size bound used during generation
// and the number of cells revealed to the player before play
// starts.  Those are the only two knobs a difficulty turns.
type Difficulty int

// The known difficulties.  Medium keeps cages small and reveals a
// few cells; Hard allows larger cages and reveals nothing.
const (
	Medium Difficulty = iota
	Hard
)

// maxCageSize is the largest cage the generator will grow at this
// difficulty.
func (d Difficulty) maxCageSize() int {
	if d == Hard {
		return 5
	}
	return 3
}

// revealCount is the number of distinct cells pre-filled with their
// solution value and frozen at this difficulty.
func (d Difficulty) revealCount() int {
	if d == Medium {
		return 10
	}
	return 0
}

// String implements Stringer with the lowercase difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("<difficulty %d>", int(d))
}

// ParseDifficulty maps a difficulty name (any case) to its value.
// The empty string means Medium, so callers can treat the
// difficulty as optional.
func ParseDifficulty(name string) (Difficulty, error) {
	switch strings.ToLower(name) {
	case "", "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, Error{
		Scope:     ArgumentScope,
		Attribute: DifficultyAttribute,
		Condition: UnknownDifficultyCondition,
		Values:    ErrorData{name},
	}
}

/*

Snapshot types

*/

// A Cell is the renderer-facing view of one board cell.  Value is
// the player's entry (0 when empty); the solution value is never
// present in a snapshot.  Conflict is derived data: it is true only
// while the cell holds a nonzero entry that the validator has
// flagged, and it is recomputed on every edit.
type Cell struct {
	Index    int  `json:"index"`
	Value    int  `json:"value,omitempty"`
	CageID   int  `json:"cageId"`
	Fixed    bool `json:"fixed,omitempty"`
	Conflict bool `json:"conflict,omitempty"`
}

// A Cage is a connected group of cells whose solution values sum to
// Sum.  Cells holds grid indices in the order the generator grew
// the cage, so Cells[0] is the cage's starting cell.  Cages are
// immutable once generation finishes.
type Cage struct {
	ID    int   `json:"id"`
	Sum   int   `json:"sum"`
	Cells []int `json:"cells"`
}

// A Board is a read-only snapshot of a session for renderers and
// API clients.  It shares no storage with the session, so it stays
// valid (and stale) after further edits.
type Board struct {
	Difficulty string `json:"difficulty"`
	Seed       int64  `json:"seed"`
	Cells      []Cell `json:"cells"`
	Cages      []Cage `json:"cages"`
	Complete   bool   `json:"complete"`
	Score      int    `json:"score,omitempty"`
}

// A Choice is one player edit: assign Value to the cell at Index.
// A Value of 0 clears the cell.
type Choice struct {
	Index int `json:"index"`
	Value int `json:"value"`
}

/*

Score reporting

*/

// A SortOrder tells a leaderboard which direction is better.  This
// engine only ever produces HigherIsBetter scores.
type SortOrder int

// HigherIsBetter: larger scores rank higher.
const HigherIsBetter SortOrder = 1

// A ScoreEvent is emitted exactly once per session, on the
// transition to complete.
type ScoreEvent struct {
	Score int       `json:"score"`
	Order SortOrder `json:"sortOrder"`
}

// A ScoreReporter receives the session's single ScoreEvent.  The
// session does not persist or transmit scores itself; whatever the
// reporter does with the event is the leaderboard's business.
type ScoreReporter interface {
	ReportScore(ScoreEvent)
}
