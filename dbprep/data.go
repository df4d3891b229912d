package dbprep

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jovankoledin/killer.go/puzzle"
)

/*

sample puzzles

A handful of puzzles with fixed seeds are loaded at setup, so a
fresh deployment has archive content to serve and the smoke tests
have known rows to look for.  Generation is deterministic, so the
samples are identical on every deployment.

*/

type sampleGame struct {
	difficulty puzzle.Difficulty
	seed       int64
}

var sampleGames = []sampleGame{
	{puzzle.Medium, 1},
	{puzzle.Medium, 2},
	{puzzle.Medium, 3},
	{puzzle.Hard, 1},
	{puzzle.Hard, 2},
}

type dataFunction func(ctx context.Context, tx pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertSamples,
	}
	downFunctions = []dataFunction{
		deleteSamples,
	}
)

// DataUp: load the sample puzzles into the database.  You should
// do this after you get the schema up!
func DataUp(databaseURL string) error {
	return applyFunctions(databaseURL, upFunctions)
}

// DataDown: remove the sample puzzles from the database.  You
// should do this before you tear the schema down!
func DataDown(databaseURL string) error {
	return applyFunctions(databaseURL, downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(databaseURL string, fns []dataFunction) error {
	ctx := context.Background()

	// open the database, defer the close
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx); err != nil {
			tx.Rollback(ctx)
			return err
		}
		return tx.Commit(ctx)
	}

	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return err
		}
	}
	return nil
}

// insertSamples generates each sample game and inserts its
// archive row.  Rows already present are left alone, so reruns
// are safe.
func insertSamples(ctx context.Context, tx pgx.Tx) error {
	for _, sg := range sampleGames {
		game, err := puzzle.NewSession(sg.difficulty, puzzle.WithSeed(sg.seed))
		if err != nil {
			return fmt.Errorf("couldn't generate sample %v-%d: %v", sg.difficulty, sg.seed, err)
		}
		solution := game.Solution()
		values := make([]int32, len(solution))
		for i, v := range solution {
			values[i] = int32(v)
		}
		cages, err := json.Marshal(game.Cages())
		if err != nil {
			return fmt.Errorf("couldn't marshal cages of sample %v-%d: %v", sg.difficulty, sg.seed, err)
		}
		id := fmt.Sprintf("%s-%d", game.Difficulty(), game.Seed())
		_, err = tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, difficulty, seed, solution, cages, created) "+
				"VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (puzzleId) DO NOTHING",
			id, game.Difficulty().String(), game.Seed(), values, cages, time.Now())
		if err != nil {
			return fmt.Errorf("couldn't insert sample %q: %v", id, err)
		}
	}
	return nil
}

// deleteSamples removes the sample rows.
func deleteSamples(ctx context.Context, tx pgx.Tx) error {
	for _, sg := range sampleGames {
		game, err := puzzle.NewSession(sg.difficulty, puzzle.WithSeed(sg.seed))
		if err != nil {
			return fmt.Errorf("couldn't regenerate sample %v-%d: %v", sg.difficulty, sg.seed, err)
		}
		id := fmt.Sprintf("%s-%d", game.Difficulty(), game.Seed())
		if _, err := tx.Exec(ctx, "DELETE FROM puzzles WHERE puzzleId = $1", id); err != nil {
			return fmt.Errorf("couldn't delete sample %q: %v", id, err)
		}
	}
	return nil
}
