package storage

import (
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jovankoledin/killer.go/conf"
	"github.com/jovankoledin/killer.go/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*

setup

Most of these tests exercise the real cache and database, so they
skip when neither is reachable.  Signature and the marshal helpers
are pure and always run.

*/

// connectOrSkip opens storage against the local configuration,
// skipping the test when the backing services are not running.
func connectOrSkip(t *testing.T) conf.Config {
	t.Helper()
	cfg := conf.Default()
	cfg.EnvName = "storagetest"
	if _, _, err := Connect(cfg); err != nil {
		t.Skipf("storage not available: %v", err)
	}
	t.Cleanup(Close)
	return cfg
}

func TestSignature(t *testing.T) {
	assert.Equal(t, "medium-42", Signature("medium", 42))
	assert.Equal(t, "hard--7", Signature("hard", -7))
}

func TestConnect(t *testing.T) {
	connectOrSkip(t)
	cid, dbid, err := Connect(conf.Default())
	require.NoError(t, err)
	assert.Equal(t, rdUrl, cid)
	assert.Equal(t, pgUrl, dbid)
}

func TestSessionRoundTrip(t *testing.T) {
	connectOrSkip(t)

	seed := int64(1001)
	original := &Session{SID: "storage-test-roundtrip"}
	require.NoError(t, original.StartGame(puzzle.Medium, &seed))

	// make some moves and persist them
	game := original.Game
	solution := game.Solution()
	for _, idx := range []int{2, 40, 77} {
		original.RecordMove(game.SetCell(idx, solution[idx]))
	}

	// a second session with the same ID finds and rebuilds it
	restored := &Session{SID: original.SID}
	require.True(t, restored.Lookup(), "saved session not found")
	assert.Equal(t, original.Difficulty, restored.Difficulty)
	assert.Equal(t, original.Seed, restored.Seed)
	require.NoError(t, restored.LoadGame())
	assert.Equal(t, game.Board(), restored.Game.Board())
}

// testClock is a settable time source for sessions under test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func TestCompletedSessionRoundTrip(t *testing.T) {
	connectOrSkip(t)

	clock := &testClock{now: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)}
	seed := int64(4242)
	original := &Session{SID: "storage-test-completed"}
	require.NoError(t, original.StartGame(puzzle.Medium, &seed, puzzle.WithClock(clock.Now)))

	// solve the whole board after a while; the score reflects the
	// elapsed play time
	clock.now = clock.now.Add(90 * time.Second)
	game := original.Game
	for idx, v := range game.Solution() {
		original.RecordMove(game.SetCell(idx, v))
	}
	require.True(t, game.Complete(), "solved game isn't complete")
	want, _ := game.Score()

	// the rebuilt game reports the original score, not one
	// recomputed from the reload time
	restored := &Session{SID: original.SID}
	require.True(t, restored.Lookup(), "saved session not found")
	require.NoError(t, restored.LoadGame())
	got, ok := restored.Game.Score()
	require.True(t, ok, "rebuilt game isn't complete")
	assert.Equal(t, want, got)
	assert.Equal(t, game.Board(), restored.Game.Board())
}

func TestLookupMissingSession(t *testing.T) {
	connectOrSkip(t)
	s := &Session{SID: "storage-test-no-such-session"}
	assert.False(t, s.Lookup())
}

func TestStartGameReplacesOldEntries(t *testing.T) {
	connectOrSkip(t)

	seed := int64(55)
	s := &Session{SID: "storage-test-replace"}
	require.NoError(t, s.StartGame(puzzle.Hard, &seed))
	solution := s.Game.Solution()
	s.RecordMove(s.Game.SetCell(0, solution[0]))

	// starting a new game drops the old entries
	require.NoError(t, s.StartGame(puzzle.Hard, &seed))
	restored := &Session{SID: s.SID}
	require.True(t, restored.Lookup())
	require.NoError(t, restored.LoadGame())
	assert.Equal(t, 0, restored.Game.Board().Cells[0].Value)
}

func TestArchiveRoundTrip(t *testing.T) {
	connectOrSkip(t)

	seed := int64(2002)
	s := &Session{SID: "storage-test-archive"}
	require.NoError(t, s.StartGame(puzzle.Medium, &seed))
	game := s.Game

	id := Signature(game.Difficulty().String(), game.Seed())
	ap, found := LoadArchived(id)
	require.True(t, found, "generated puzzle not archived")
	assert.Equal(t, game.Difficulty().String(), ap.Difficulty)
	assert.Equal(t, game.Seed(), ap.Seed)
	assert.Equal(t, game.Solution(), ap.Solution)
	assert.Equal(t, game.Cages(), ap.Cages)

	// a database fetch after a cache flush returns the same entry
	rdExecute(func(tx redis.Conn) error {
		_, err := tx.Do("DEL", (&puzzleEntry{PuzzleId: id}).key())
		return err
	})
	again, found := LoadArchived(id)
	require.True(t, found, "archived puzzle lost without its cache entry")
	assert.Equal(t, ap, again)
}

func TestLoadArchivedMissing(t *testing.T) {
	connectOrSkip(t)
	_, found := LoadArchived("medium-999999999")
	assert.False(t, found)
}
