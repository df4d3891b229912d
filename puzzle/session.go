package puzzle

import (
	"math/rand"
	"time"
)

// maxGenerateAttempts bounds the automatic reseed-and-retry loop
// around generation.  Backtracking from an empty 9x9 grid does not
// exhaust in practice, so one attempt is the overwhelmingly common
// case; the bound exists so a defect can never spin forever.
const maxGenerateAttempts = 8

// A cell is the session's authoritative record for one board
// position.  value is the hidden solution digit; input is what the
// player has entered (0 when empty); conflict is derived by the
// validator and never set anywhere else.
type cell struct {
	value    int
	input    int
	cage     int
	fixed    bool
	conflict bool
}

// A Session owns one generated puzzle and the player's progress on
// it.  Sessions are created per game and discarded, never reset in
// place, and they move through exactly two states: active from
// creation, then complete once every entry matches the solution,
// after which all edits are rejected.
//
// A session is not safe for concurrent use; callers feed it edits
// one at a time.
type Session struct {
	difficulty Difficulty
	seed       int64
	cells      [CellCount]cell
	cages      []Cage
	complete   bool
	score      int
	started    time.Time
	finished   time.Time
	now        func() time.Time
	reporter   ScoreReporter
}

// NewSession generates a fresh puzzle at the given difficulty and
// returns the session for it.  Generation runs the full pipeline
// inline: solution fill, cage partition, then the difficulty's cell
// reveals.  If a fill attempt exhausts its search (which should not
// happen from an empty grid), the whole attempt is thrown away and
// generation retries with a derived seed, a bounded number of
// times; the session never becomes playable over a half-built
// board.
func NewSession(d Difficulty, opts ...Option) (*Session, error) {
	if d != Medium && d != Hard {
		return nil, Error{
			Scope:     ArgumentScope,
			Attribute: DifficultyAttribute,
			Condition: UnknownDifficultyCondition,
			Values:    ErrorData{int(d)},
		}
	}
	cfg := newSessionConfig(opts)

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		// each attempt owns a fresh grid and stream; nothing is
		// shared with a failed prior attempt
		seed := cfg.seed + int64(attempt)
		rng := rand.New(rand.NewSource(seed))

		var values [CellCount]int
		prefillDiagonal(rng, &values)
		if !fillSolution(rng, &values) {
			continue
		}
		cages, cageOf := partitionCages(rng, &values, d.maxCageSize())

		s := &Session{
			difficulty: d,
			seed:       seed,
			cages:      cages,
			now:        cfg.now,
			reporter:   cfg.reporter,
		}
		for i := range s.cells {
			s.cells[i] = cell{value: values[i], cage: cageOf[i]}
		}
		s.reveal(rng)
		if cfg.started {
			s.started = cfg.start
		} else {
			s.started = s.now()
		}
		return s, nil
	}
	return nil, generationError(maxGenerateAttempts)
}

// reveal pre-fills the difficulty's quota of cells with their
// solution values and freezes them.  Indices are sampled without
// replacement so the quota is exact.
func (s *Session) reveal(rng *rand.Rand) {
	count := s.difficulty.revealCount()
	if count == 0 {
		return
	}
	for _, idx := range rng.Perm(CellCount)[:count] {
		s.cells[idx].input = s.cells[idx].value
		s.cells[idx].fixed = true
	}
}

/*

Player edits

*/

// SetCell records a player entry at idx, reruns the validator, and
// reruns the win check, completing the session if every entry now
// matches the solution.  The edit is silently ignored (no state
// change, applied is false) when the session is complete, the cell
// is fixed, or idx or val is out of range.  Stale edits from racy
// input handling are expected, not errors.
func (s *Session) SetCell(idx, val int) (applied bool) {
	if s.complete || !inBounds(idx) || val < 1 || val > SideLength {
		return false
	}
	if s.cells[idx].fixed {
		return false
	}
	s.cells[idx].input = val
	s.checkConflicts()
	if s.checkWin() {
		s.finish()
	}
	return true
}

// ClearCell empties the cell at idx and drops its conflict flag.
// Like SetCell it is silently ignored for complete sessions, fixed
// cells, and out-of-range indices.
func (s *Session) ClearCell(idx int) (applied bool) {
	if s.complete || !inBounds(idx) || s.cells[idx].fixed {
		return false
	}
	s.cells[idx].input = 0
	s.cells[idx].conflict = false
	return true
}

// checkConflicts recomputes every cell's conflict flag: a nonzero
// entry is in conflict iff it differs from the hidden solution
// value.  This deliberately reproduces the original game's
// check-against-the-solution behavior rather than live row/column/
// box/cage-sum duplicate detection.
func (s *Session) checkConflicts() {
	for i := range s.cells {
		c := &s.cells[i]
		c.conflict = c.input != 0 && c.input != c.value
	}
}

// checkWin reports whether every cell's entry equals its solution
// value.  Cage sums need no separate verification: a grid that
// matches the solution satisfies every cage sum by construction.
func (s *Session) checkWin() bool {
	for i := range s.cells {
		if s.cells[i].input != s.cells[i].value {
			return false
		}
	}
	return true
}

// finish moves the session to complete, fixes the score from the
// elapsed play time, and hands the one ScoreEvent to the reporter.
func (s *Session) finish() {
	s.complete = true
	s.finished = s.now()
	s.score = Score(int(s.finished.Sub(s.started) / time.Second))
	if s.reporter != nil {
		s.reporter.ReportScore(ScoreEvent{Score: s.score, Order: HigherIsBetter})
	}
}

/*

Accessors

*/

// Difficulty returns the difficulty the session was generated at.
func (s *Session) Difficulty() Difficulty { return s.difficulty }

// Seed returns the seed that reproduces this session's puzzle.
// When generation had to retry, this is the derived seed that
// actually succeeded, so replaying it skips the failed attempts.
func (s *Session) Seed() int64 { return s.seed }

// Complete reports whether the win condition has been met.
func (s *Session) Complete() bool { return s.complete }

// Score returns the session's score.  It is meaningful only once
// the session is complete; before that it returns ok=false.
func (s *Session) Score() (score int, ok bool) {
	if !s.complete {
		return 0, false
	}
	return s.score, true
}

// Started returns the time play began: the clock reading at
// generation, or the time given by WithStart.
func (s *Session) Started() time.Time { return s.started }

// Finished returns the time the session completed; the zero time
// while the session is still active.
func (s *Session) Finished() time.Time { return s.finished }

// Cages returns the cage set.  The returned slice shares the cages'
// member storage; callers must treat it as read-only.
func (s *Session) Cages() []Cage { return s.cages }

// Solution returns a copy of the hidden solution values in index
// order.  It exists for archival and verification tooling; renderer
// clients get Board, which never contains solution values.
func (s *Session) Solution() []int {
	out := make([]int, CellCount)
	for i := range s.cells {
		out[i] = s.cells[i].value
	}
	return out
}

// Inputs returns a copy of the player entries in index order, 0 for
// empty cells.  Together with the seed and difficulty this is
// enough to rebuild the session.
func (s *Session) Inputs() []int {
	out := make([]int, CellCount)
	for i := range s.cells {
		out[i] = s.cells[i].input
	}
	return out
}

// Board returns a read-only snapshot for renderers and API clients.
// It shares no storage with the session.
func (s *Session) Board() Board {
	b := Board{
		Difficulty: s.difficulty.String(),
		Seed:       s.seed,
		Cells:      make([]Cell, CellCount),
		Cages:      make([]Cage, len(s.cages)),
		Complete:   s.complete,
		Score:      s.score,
	}
	for i := range s.cells {
		c := &s.cells[i]
		b.Cells[i] = Cell{
			Index:    i,
			Value:    c.input,
			CageID:   c.cage,
			Fixed:    c.fixed,
			Conflict: c.conflict,
		}
	}
	for i, cage := range s.cages {
		b.Cages[i] = Cage{
			ID:    cage.ID,
			Sum:   cage.Sum,
			Cells: append([]int(nil), cage.Cells...),
		}
	}
	return b
}

// Replay applies a sequence of recorded choices to a freshly built
// session, ignoring any that no longer apply (exactly as live edits
// would be ignored).  Storage layers use it to reconstruct a saved
// session from its seed, difficulty, and entries.
func (s *Session) Replay(inputs []int) {
	for idx, val := range inputs {
		if val == 0 {
			continue
		}
		s.SetCell(idx, val)
	}
}
