package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"
	"github.com/jovankoledin/killer.go/puzzle"
)

/*

puzzle archive

Every generated puzzle is archived by its signature (difficulty
plus seed).  The database is the authority; the cache is a
read-through copy.  The archive lets tooling fetch and verify a
puzzle somebody played without regenerating it, and it doubles as
a record of what the generator has produced.

*/

// A puzzleEntry represents the stored form of a generated puzzle.
// It is JSON serializable so it can go into the cache as well as
// the database.
type puzzleEntry struct {
	PuzzleId   string // puzzle signature
	Difficulty string
	Seed       int64
	Solution   []int32
	Cages      []puzzle.Cage
}

// Signature names a puzzle by what regenerates it.
func Signature(difficulty string, seed int64) string {
	return fmt.Sprintf("%s-%d", difficulty, seed)
}

// archiveGame: archive a freshly generated game.  Archiving the
// same signature twice is a no-op, so reloaded sessions don't
// duplicate rows.
func archiveGame(game *puzzle.Session) {
	solution := game.Solution()
	pe := &puzzleEntry{
		PuzzleId:   Signature(game.Difficulty().String(), game.Seed()),
		Difficulty: game.Difficulty().String(),
		Seed:       game.Seed(),
		Solution:   make([]int32, len(solution)),
		Cages:      game.Cages(),
	}
	for i, v := range solution {
		pe.Solution[i] = int32(v)
	}
	pe.databaseInsert()
	pe.cacheInsert()
}

// An ArchivedPuzzle is the exported form of an archive row.
type ArchivedPuzzle struct {
	PuzzleId   string
	Difficulty string
	Seed       int64
	Solution   []int
	Cages      []puzzle.Cage
}

// LoadArchived fetches an archived puzzle by signature, checking
// the cache first and falling back to the database (caching the
// result).  Returns found=false when the signature was never
// archived.
func LoadArchived(id string) (*ArchivedPuzzle, bool) {
	pe := &puzzleEntry{PuzzleId: id}
	if !pe.cacheLoad() {
		if !pe.databaseLoad() {
			return nil, false
		}
		pe.cacheInsert()
	}
	ap := &ArchivedPuzzle{
		PuzzleId:   pe.PuzzleId,
		Difficulty: pe.Difficulty,
		Seed:       pe.Seed,
		Solution:   make([]int, len(pe.Solution)),
		Cages:      pe.Cages,
	}
	for i, v := range pe.Solution {
		ap.Solution[i] = int(v)
	}
	return ap, true
}

/*

cache and database forms

*/

// key: compute the cache key for a puzzleEntry.
func (pe *puzzleEntry) key() string {
	return rdEnv + ":PID:" + pe.PuzzleId
}

// cacheLoad: load an already cached puzzle entry.  Returns
// whether the entry was found in the cache.
func (pe *puzzleEntry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", pe.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("cache failure loading puzzleEntry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var spe *puzzleEntry
	if err := json.Unmarshal(bytes, &spe); err != nil {
		panic(fmt.Errorf("failed to unmarshal puzzleEntry %q: %v", pe.PuzzleId, err))
	}
	if spe.PuzzleId != pe.PuzzleId {
		panic(fmt.Errorf("cached puzzleEntry (id: %q) found for puzzle %q",
			spe.PuzzleId, pe.PuzzleId))
	}
	*pe = *spe
	return true
}

// cacheInsert: insert a puzzle entry into the cache.  Replaces
// any existing entry with the same id.
func (pe *puzzleEntry) cacheInsert() {
	bytes, e := json.Marshal(pe)
	if e != nil {
		panic(fmt.Errorf("failed to marshal puzzleEntry %q: %v", pe.PuzzleId, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", pe.key(), bytes)
		if err != nil {
			err = fmt.Errorf("cache failure saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}

// databaseLoad: load a puzzle entry from the database.  Returns
// whether a row with the entry's id exists.
func (pe *puzzleEntry) databaseLoad() (found bool) {
	body := func(ctx context.Context, tx pgx.Tx) error {
		var cages []byte
		row := tx.QueryRow(ctx,
			"SELECT difficulty, seed, solution, cages FROM puzzles "+
				"WHERE puzzleId = $1", pe.PuzzleId)
		err := row.Scan(&pe.Difficulty, &pe.Seed, &pe.Solution, &cages)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failure looking up puzzle %q: %v", pe.PuzzleId, err)
		}
		if err := json.Unmarshal(cages, &pe.Cages); err != nil {
			return fmt.Errorf("bad cage data for puzzle %q: %v", pe.PuzzleId, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	return
}

// databaseInsert: insert a puzzle entry into the database.  An
// entry with the same id already present is left alone.
func (pe *puzzleEntry) databaseInsert() {
	cages, e := json.Marshal(pe.Cages)
	if e != nil {
		panic(fmt.Errorf("failed to marshal cages of %q: %v", pe.PuzzleId, e))
	}
	body := func(ctx context.Context, tx pgx.Tx) (err error) {
		_, err = tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, difficulty, seed, solution, cages, created) "+
				"VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (puzzleId) DO NOTHING",
			pe.PuzzleId, pe.Difficulty, pe.Seed, pe.Solution, cages, time.Now())
		if err != nil {
			err = fmt.Errorf("database error saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	pgExecute(body)
}
