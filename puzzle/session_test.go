package puzzle

import (
	"reflect"
	"testing"
	"time"
)

/*

Test helpers

*/

// fakeClock is a settable time source for sessions under test.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// recorder collects reported score events.
type recorder struct {
	events []ScoreEvent
}

func (r *recorder) ReportScore(ev ScoreEvent) { r.events = append(r.events, ev) }

// mustSession builds a deterministic session or fails the test.
func mustSession(t *testing.T, d Difficulty, seed int64, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithSeed(seed)}, opts...)
	s, err := NewSession(d, opts...)
	if err != nil {
		t.Fatalf("NewSession(%v, seed %d) failed: %v", d, seed, err)
	}
	return s
}

// solveAll fills every non-fixed cell with its solution value.
func solveAll(s *Session) {
	solution := s.Solution()
	for idx, v := range solution {
		s.SetCell(idx, v)
	}
}

/*

Generation

*/

func TestNewSessionGridIsValid(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		s := mustSession(t, Hard, seed)
		var values [CellCount]int
		copy(values[:], s.Solution())
		checkSolved(t, &values)
	}
}

func TestNewSessionRevealCounts(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       int
	}{
		{Medium, 10},
		{Hard, 0},
	}
	for _, tc := range tests {
		s := mustSession(t, tc.difficulty, 42)
		fixed := 0
		for _, c := range s.Board().Cells {
			if c.Fixed {
				fixed++
				if c.Value == 0 {
					t.Errorf("%v: fixed cell %d has no value", tc.difficulty, c.Index)
				}
			}
		}
		if fixed != tc.want {
			t.Errorf("%v: %d fixed cells; want %d", tc.difficulty, fixed, tc.want)
		}
	}
}

func TestNewSessionFixedCellsMatchSolution(t *testing.T) {
	s := mustSession(t, Medium, 7)
	solution := s.Solution()
	for _, c := range s.Board().Cells {
		if c.Fixed && c.Value != solution[c.Index] {
			t.Errorf("fixed cell %d shows %d; solution is %d", c.Index, c.Value, solution[c.Index])
		}
	}
}

func TestNewSessionDeterminism(t *testing.T) {
	first := mustSession(t, Medium, 314)
	second := mustSession(t, Medium, 314)
	if !reflect.DeepEqual(first.Board(), second.Board()) {
		t.Error("same seed produced different boards")
	}
	if !reflect.DeepEqual(first.Solution(), second.Solution()) {
		t.Error("same seed produced different solutions")
	}
}

func TestNewSessionBadDifficulty(t *testing.T) {
	if _, err := NewSession(Difficulty(99)); err == nil {
		t.Error("NewSession accepted an unknown difficulty")
	}
}

/*

Edits and validation

*/

func TestSetCellMarksConflicts(t *testing.T) {
	s := mustSession(t, Hard, 5)
	solution := s.Solution()
	wrong := solution[0]%SideLength + 1 // any value that isn't the solution

	if !s.SetCell(0, wrong) {
		t.Fatal("legal edit was rejected")
	}
	if !s.Board().Cells[0].Conflict {
		t.Error("wrong entry not flagged as conflict")
	}
	if !s.SetCell(0, solution[0]) {
		t.Fatal("correcting edit was rejected")
	}
	if s.Board().Cells[0].Conflict {
		t.Error("correct entry still flagged as conflict")
	}
}

func TestSetCellOnFixedCellIsNoOp(t *testing.T) {
	s := mustSession(t, Medium, 21)
	fixedIdx := -1
	for _, c := range s.Board().Cells {
		if c.Fixed {
			fixedIdx = c.Index
			break
		}
	}
	if fixedIdx < 0 {
		t.Fatal("medium board has no fixed cell")
	}
	before := s.Board()
	if s.SetCell(fixedIdx, 1) {
		t.Error("edit of a fixed cell reported as applied")
	}
	if s.ClearCell(fixedIdx) {
		t.Error("clear of a fixed cell reported as applied")
	}
	if !reflect.DeepEqual(before, s.Board()) {
		t.Error("edit of a fixed cell changed state")
	}
}

func TestSetCellRangeChecks(t *testing.T) {
	s := mustSession(t, Hard, 8)
	before := s.Board()
	for _, tc := range []struct{ idx, val int }{
		{-1, 5}, {CellCount, 5}, {0, 0}, {0, 10}, {0, -3},
	} {
		if s.SetCell(tc.idx, tc.val) {
			t.Errorf("SetCell(%d, %d) reported as applied", tc.idx, tc.val)
		}
	}
	if s.ClearCell(-1) || s.ClearCell(CellCount) {
		t.Error("ClearCell out of range reported as applied")
	}
	if !reflect.DeepEqual(before, s.Board()) {
		t.Error("rejected edits changed state")
	}
}

func TestClearCellDropsConflict(t *testing.T) {
	s := mustSession(t, Hard, 9)
	wrong := s.Solution()[4]%SideLength + 1
	s.SetCell(4, wrong)
	if !s.Board().Cells[4].Conflict {
		t.Fatal("setup: conflict not flagged")
	}
	if !s.ClearCell(4) {
		t.Fatal("clear of an editable cell was rejected")
	}
	c := s.Board().Cells[4]
	if c.Value != 0 || c.Conflict {
		t.Errorf("after clear, cell = %+v; want empty and unflagged", c)
	}
}

func TestChecksAreIdempotent(t *testing.T) {
	s := mustSession(t, Medium, 33)
	s.SetCell(0, 1)
	first := s.Board()
	s.checkConflicts()
	if s.checkWin() {
		t.Error("win check true on an incomplete board")
	}
	if !reflect.DeepEqual(first, s.Board()) {
		t.Error("re-running checks without an edit changed state")
	}
}

/*

Completion and scoring

*/

func TestWinRequiresEveryCellCorrect(t *testing.T) {
	s := mustSession(t, Hard, 17)
	solution := s.Solution()

	// fill everything but the last cell correctly, the last wrongly
	for idx := 0; idx < CellCount-1; idx++ {
		s.SetCell(idx, solution[idx])
	}
	last := CellCount - 1
	s.SetCell(last, solution[last]%SideLength+1)
	if s.Complete() {
		t.Fatal("session complete with one wrong cell")
	}
	if _, ok := s.Score(); ok {
		t.Error("score available before completion")
	}

	// correcting the one cell must complete on the next check
	s.SetCell(last, solution[last])
	if !s.Complete() {
		t.Fatal("session not complete after correcting the last cell")
	}
}

func TestCompletionScoreAndReporter(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	s := mustSession(t, Medium, 55, WithClock(clock.Now), WithReporter(rec))

	clock.advance(9 * time.Second)
	solveAll(s)
	if !s.Complete() {
		t.Fatal("session not complete after solving")
	}
	score, ok := s.Score()
	if !ok {
		t.Fatal("no score on a complete session")
	}
	if want := Score(9); score != want {
		t.Errorf("score = %d; want %d", score, want)
	}
	if len(rec.events) != 1 {
		t.Fatalf("reporter saw %d events; want 1", len(rec.events))
	}
	if ev := rec.events[0]; ev.Score != score || ev.Order != HigherIsBetter {
		t.Errorf("reported event = %+v", ev)
	}
}

func TestEditsRejectedAfterCompletion(t *testing.T) {
	s := mustSession(t, Hard, 23)
	solveAll(s)
	if !s.Complete() {
		t.Fatal("setup: session did not complete")
	}
	before := s.Board()
	if s.SetCell(0, 1) || s.ClearCell(0) {
		t.Error("edit after completion reported as applied")
	}
	if !reflect.DeepEqual(before, s.Board()) {
		t.Error("edit after completion changed state")
	}
}

func TestReplayRebuildsBoard(t *testing.T) {
	original := mustSession(t, Medium, 77)
	original.SetCell(0, 3)
	original.SetCell(40, 7)

	rebuilt := mustSession(t, original.Difficulty(), original.Seed())
	rebuilt.Replay(original.Inputs())
	if !reflect.DeepEqual(original.Board(), rebuilt.Board()) {
		t.Error("replayed session differs from the original")
	}
}

func TestReplayKeepsCompletionScore(t *testing.T) {
	clock := newFakeClock()
	original := mustSession(t, Medium, 31, WithClock(clock.Now))
	clock.advance(90 * time.Second)
	solveAll(original)
	want, ok := original.Score()
	if !ok {
		t.Fatal("session didn't complete")
	}

	// rebuilding with the saved start and a clock frozen at the
	// saved finish recomputes the identical score
	rebuilt := mustSession(t, original.Difficulty(), original.Seed(),
		WithStart(original.Started()),
		WithClock(func() time.Time { return original.Finished() }))
	rebuilt.Replay(original.Inputs())
	if got, ok := rebuilt.Score(); !ok || got != want {
		t.Errorf("rebuilt session scored %d (complete %v); want %d", got, ok, want)
	}
	if !reflect.DeepEqual(original.Board(), rebuilt.Board()) {
		t.Error("rebuilt board differs from the original")
	}
}

/*

End to end

*/

func TestMediumGameEndToEnd(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	s := mustSession(t, Medium, 2024, WithClock(clock.Now), WithReporter(rec))

	board := s.Board()
	fixed := 0
	for _, c := range board.Cells {
		if c.Fixed {
			fixed++
		}
	}
	if fixed != 10 {
		t.Errorf("%d fixed cells; want exactly 10", fixed)
	}
	if len(board.Cages) < CellCount/3 {
		t.Errorf("%d cages; want at least %d", len(board.Cages), CellCount/3)
	}
	for _, cage := range board.Cages {
		if len(cage.Cells) < 1 || len(cage.Cells) > 3 {
			t.Errorf("cage %d has %d cells; want 1..3", cage.ID, len(cage.Cells))
		}
	}

	clock.advance(90 * time.Second)
	solveAll(s)
	if !s.Complete() {
		t.Fatal("session did not complete")
	}
	score, ok := s.Score()
	if !ok || score < 1 || score > 10000 {
		t.Errorf("score = %d, ok = %v; want a score in [1,10000]", score, ok)
	}
	if len(rec.events) != 1 {
		t.Errorf("reporter saw %d events; want 1", len(rec.events))
	}
}
