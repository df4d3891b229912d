package storage

import (
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jovankoledin/killer.go/puzzle"
)

// A Session tracks one player's current game.  The hash persisted
// in the cache carries enough to rebuild the game exactly: the
// difficulty, the seed that generated the puzzle, the game's start
// and finish times, and the player's entries.  The live game itself
// is never serialized.
type Session struct {
	// these elements are persisted as the session hash
	SID        string // session ID
	Difficulty string // difficulty of the current game
	Seed       int64  // seed that generated the current game
	Created    string // RFC3339 time when the session was created
	Saved      string // RFC3339 time when the session was last saved
	Started    string // RFC3339Nano time when the current game began
	Finished   string // RFC3339Nano completion time, empty while in progress

	// the live game, rebuilt from the hash on load
	Game *puzzle.Session `redis:"-"`
}

/*

session manipulation

*/

// StartGame: generate a fresh game for the session at the given
// difficulty, replacing whatever game was in progress.  A non-nil
// seed pins generation; otherwise the clock seeds it.  Options
// beyond the seed (score reporters, clocks) are the caller's.
func (session *Session) StartGame(d puzzle.Difficulty, seed *int64, opts ...puzzle.Option) error {
	if seed != nil {
		opts = append(opts, puzzle.WithSeed(*seed))
	}
	game, err := puzzle.NewSession(d, opts...)
	if err != nil {
		log.Printf("Failed to generate a %v game for session %q: %v", d, session.SID, err)
		return err
	}
	session.AdoptGame(game)
	return nil
}

// AdoptGame: make an already generated game the session's current
// one, archiving it and resetting the cached entries.  Servers
// that generate games through the HTTP handlers hand them over
// here.
func (session *Session) AdoptGame(game *puzzle.Session) {
	session.Game = game
	session.Difficulty = game.Difficulty().String()
	session.Seed = game.Seed()
	session.Started = game.Started().Format(time.RFC3339Nano)
	session.Finished = ""
	if session.Created == "" {
		session.Created = time.Now().Format(time.RFC3339)
	}
	archiveGame(game)
	session.save(true)
	log.Printf("Reset session %v to a fresh %v game (seed %d).", session.SID, session.Difficulty, session.Seed)
}

// RecordMove: persist the game state after an edit.  Ignored
// edits need no save; callers pass the applied flag straight from
// the game.
func (session *Session) RecordMove(applied bool) {
	if !applied {
		return
	}
	session.save(false)
}

// Lookup: find the saved hash for the session's ID.  Returns
// whether a saved session was found; the found fields overwrite
// the receiver's.
func (session *Session) Lookup() (found bool) {
	body := func(tx redis.Conn) error {
		vals, err := redis.Values(tx.Do("HGETALL", session.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, session); err != nil {
				log.Printf("Redis error on parse of saved session %q: %v", session.SID, err)
				return err
			}
			found = true
			return nil
		}
		if err != nil {
			log.Printf("Redis error on lookup of session %q: %v", session.SID, err)
			return err
		}
		return nil
	}
	rdExecute(body)
	return
}

// LoadGame: rebuild the live game from the saved hash.  The seed
// regenerates the identical puzzle; replaying the saved entries
// restores the player's progress.  The saved start time carries
// over, so elapsed play time spans the reload, and a finished
// game's clock is frozen at its saved finish time, so the replay
// recomputes the identical score.  The rebuilt game carries no
// score reporter, so a finished game doesn't re-announce its
// score when the replay completes it.
func (session *Session) LoadGame() error {
	d, err := puzzle.ParseDifficulty(session.Difficulty)
	if err != nil {
		log.Printf("Saved session %q has bad difficulty %q: %v", session.SID, session.Difficulty, err)
		return err
	}
	opts := []puzzle.Option{puzzle.WithSeed(session.Seed)}
	if started, err := time.Parse(time.RFC3339Nano, session.Started); err == nil {
		opts = append(opts, puzzle.WithStart(started))
	}
	if session.Finished != "" {
		if finished, err := time.Parse(time.RFC3339Nano, session.Finished); err == nil {
			opts = append(opts, puzzle.WithClock(func() time.Time { return finished }))
		}
	}
	game, err := puzzle.NewSession(d, opts...)
	if err != nil {
		log.Printf("Failed to regenerate game for session %q (seed %d): %v", session.SID, session.Seed, err)
		return err
	}
	game.Replay(session.loadInputs())
	session.Game = game
	return nil
}

/*

serialization of game state into and out of the cache

*/

// save writes the session hash and the current entries.  reset
// additionally drops any entries left over from a prior game.
func (session *Session) save(reset bool) {
	session.Saved = time.Now().Format(time.RFC3339)
	if session.Game.Complete() {
		session.Finished = session.Game.Finished().Format(time.RFC3339Nano)
	}
	bytes := session.marshalInputs()
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		if reset {
			tx.Send("DEL", session.inputsKey())
		}
		_, err = tx.Do("SET", session.inputsKey(), bytes)
		if err != nil {
			log.Printf("Redis error on save of session %q: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
}

// marshalInputs - get JSON for the player's current entries
func (session *Session) marshalInputs() []byte {
	bytes, err := json.Marshal(session.Game.Inputs())
	if err != nil {
		log.Printf("Failed to marshal entries of session %q as JSON: %v", session.SID, err)
		panic(err)
	}
	return bytes
}

// loadInputs - get the saved entries, empty when none were saved
func (session *Session) loadInputs() []int {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", session.inputsKey()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			log.Printf("Redis error on load of session %q entries: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return nil
	}
	var inputs []int
	if err := json.Unmarshal(bytes, &inputs); err != nil {
		log.Printf("Failed to unmarshal saved entries of session %q: %v", session.SID, err)
		panic(err)
	}
	return inputs
}

/*

session key generation

*/

// key - returns the session key
func (session *Session) key() string {
	return rdEnv + ":SID:" + session.SID
}

// inputsKey - returns the key for the session's saved entries
func (session *Session) inputsKey() string {
	return session.key() + ":Inputs"
}
