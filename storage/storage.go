// Package storage persists killer sudoku sessions and generated
// puzzles.  Sessions live in Redis, keyed by session ID, so a
// player can close the browser and pick the same game up later.
// Generated puzzles are archived in Postgres, with a Redis
// read-through cache, so a puzzle of known seed and difficulty can
// be re-served or verified after the fact.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"
	"github.com/jovankoledin/killer.go/conf"
	"github.com/jovankoledin/killer.go/dbprep"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "storage")

// Connect initializes the database schema and opens the cache and
// database connections.  It returns identifiers for both (the URLs
// they were reached at) so callers can log where they landed.
func Connect(cfg conf.Config) (cacheId, databaseId string, err error) {
	// make sure the database is initialized
	if err = dbprep.EnsureData(cfg.DatabaseURL); err != nil {
		err = fmt.Errorf("couldn't initialize database: %v", err)
		return
	}

	rdInit(cfg)
	rdMutex.Lock()
	defer rdMutex.Unlock()
	cacheId, err = rdConnect()
	if err != nil {
		return
	}

	pgInit(cfg)
	databaseId, err = pgConnect()
	if err != nil {
		return
	}
	return
}

// Close shuts both connections down.
func Close() {
	rdMutex.Lock()
	defer rdMutex.Unlock()
	pgClose()
	rdClose()
}

/*

cache using Redis

*/

// Redis connection data
var (
	rdc     redis.Conn // open connection, if any
	rdUrl   string     // URL for the open connection
	rdEnv   string     // deployment name, used as a key prefix
	rdMutex sync.Mutex // prevent concurrent connection use
)

// rdInit - adopt the cache settings from the configuration
func rdInit(cfg conf.Config) {
	rdUrl = cfg.RedisURL
	rdEnv = cfg.EnvName
}

// rdConnect: connect to the configured Redis URL.  Returns the
// connection id, if successful, an error otherwise.
func rdConnect() (string, error) {
	conn, err := redis.DialURL(rdUrl)
	if err != nil {
		err = fmt.Errorf("couldn't connect to cache at %q: %v", rdUrl, err)
		return "", err
	}
	rdc = conn
	return rdUrl, nil
}

// rdClose: close the open Redis connection.
func rdClose() {
	if rdc != nil {
		rdc.Close()
		rdc = nil
	}
}

// rdExecute: execute the body against the Redis connection, with
// the mutex held.  Meant to be used inside a handler, because
// errors in execution will panic back to package entry level.
func rdExecute(body func(tx redis.Conn) error) {
	// wrap the body against runtime and database failures
	wrapper := func(tx redis.Conn) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = e
				} else {
					err = fmt.Errorf("caught panic during rdExecute: %v", r)
				}
			}
		}()
		// Because Redis connections can go away without warning,
		// we ping to make sure the connection is alive, and try
		// to reconnect if not.
		if _, err := rdc.Do("PING"); err != nil {
			rdClose()
			if _, err = rdConnect(); err != nil {
				return fmt.Errorf("failed to reconnect to cache at %q", rdUrl)
			}
		}
		// connection is good; run the body
		return body(tx)
	}
	// grab the mutex and execute the body
	rdMutex.Lock()
	defer func(err error) {
		rdMutex.Unlock()
		if err != nil {
			panic(err)
		}
	}(wrapper(rdc))
}

/*

persistence using Postgres

*/

// Postgres connection data
var (
	pgConn *pgx.Conn // open database, if any
	pgUrl  string    // URL for the open connection
)

// pgInit - adopt the database settings from the configuration
func pgInit(cfg conf.Config) {
	pgUrl = cfg.DatabaseURL
}

// pgConnect: open the Postgres database.  Returns any error
// encountered during the open.
func pgConnect() (string, error) {
	conn, err := pgx.Connect(context.Background(), pgUrl)
	if err != nil {
		err = fmt.Errorf("couldn't connect to db at %q: %v", pgUrl, err)
		return "", err
	}
	pgConn = conn
	return pgUrl, nil
}

// pgClose: close the open Postgres connection.
func pgClose() {
	if pgConn != nil {
		pgConn.Close(context.Background())
		pgConn = nil
	}
}

// pgExecute: execute the body inside a single transaction.  Meant
// to be used inside a handler, because errors in execution will
// panic back to the package entry level.  If the body errs out,
// the transaction is rolled back, otherwise it's committed.
func pgExecute(body func(ctx context.Context, tx pgx.Tx) error) {
	ctx := context.Background()
	// wrap the body against runtime and database failures
	wrapper := func(tx pgx.Tx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = e
				} else {
					err = fmt.Errorf("caught panic during pgExecute: %v", r)
				}
			}
		}()
		return body(ctx, tx)
	}
	// get the transaction
	tx, err := pgConn.Begin(ctx)
	if err != nil {
		panic(fmt.Errorf("can't open a transaction against database: %v", err))
	}
	// execute the body in the transaction
	defer func(err error) {
		if err != nil {
			tx.Rollback(ctx)
			panic(err)
		}
		tx.Commit(ctx)
	}(wrapper(tx))
}
