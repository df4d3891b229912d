// killer-server is the web front end for killer sudoku games.  A
// cookie identifies each player's session; the session's game
// state is persisted through the storage package, so a restarted
// server (or a returning player) picks up where the game left
// off.  Spectators can follow the action over a websocket at
// /watch.
package main

import (
	"flag"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jovankoledin/killer.go/conf"
	"github.com/jovankoledin/killer.go/puzzle"
	"github.com/jovankoledin/killer.go/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"
)

const (
	cookieName = "killerID"
	cookiePath = "/"
)

var (
	log          = logrus.WithField("component", "server")
	sessions     = make(map[string]*gameSession)
	sessionMutex sync.RWMutex
	hub          *watchHub
)

// A gameSession couples a player's persisted session with the
// lock that serializes edits to it.  Games accept edits one at a
// time; simultaneous requests from the same player's tabs take
// turns here.
type gameSession struct {
	mutex sync.Mutex
	saved *storage.Session
}

// scoreLogger is the score reporter attached to games created by
// this server.
type scoreLogger struct{}

func (scoreLogger) ReportScore(ev puzzle.ScoreEvent) {
	log.WithField("score", ev.Score).Info("Game completed")
}

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	if sc, e := r.Cookie(cookieName); e == nil && sc.Value != "" {
		return sc.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath})
	return sid
}

// since session selection can happen concurrently from
// simultaneous goroutines, it has to be interlocked
func sessionSelect(w http.ResponseWriter, r *http.Request) *gameSession {
	sessionID := getCookie(w, r)
	sessionMutex.RLock()
	session, ok := sessions[sessionID]
	sessionMutex.RUnlock()
	if ok {
		return session
	}

	// not in memory: restore the saved session, or start fresh
	session = &gameSession{saved: &storage.Session{SID: sessionID}}
	if session.saved.Lookup() {
		if err := session.saved.LoadGame(); err != nil {
			log.WithError(err).Warnf("Couldn't restore session %q; starting over", sessionID)
		} else {
			log.Infof("Restored session %q (seed %d).", sessionID, session.saved.Seed)
		}
	}
	if session.saved.Game == nil {
		if err := session.saved.StartGame(puzzle.Medium, nil, puzzle.WithReporter(scoreLogger{})); err != nil {
			panic(err)
		}
	}

	sessionMutex.Lock()
	sessions[sessionID] = session
	sessionMutex.Unlock()
	return session
}

// apiHandler dispatches the JSON API.  The game handlers answer
// the HTTP client themselves; this layer persists applied edits
// and feeds the spectator hub.
func (session *gameSession) apiHandler(w http.ResponseWriter, r *http.Request) {
	session.mutex.Lock()
	defer session.mutex.Unlock()

	switch {
	case r.URL.Path == "/api/new" && r.Method == "POST":
		game, err := puzzle.NewHandler(w, r, puzzle.WithReporter(scoreLogger{}))
		if err != nil {
			log.WithError(err).Warn("New game failed.")
			return
		}
		session.saved.AdoptGame(game)
		hub.broadcast <- game.Board()
	case r.URL.Path == "/api/board" && r.Method == "GET":
		session.saved.Game.StateHandler(w, r)
	case r.URL.Path == "/api/assign" && r.Method == "POST":
		update, err := session.saved.Game.AssignHandler(w, r)
		if err != nil {
			log.WithError(err).Warn("Assign failed, returned error, no session change.")
			return
		}
		session.saved.RecordMove(update.Applied)
		if update.Applied {
			hub.broadcast <- update.Board
		}
	case r.URL.Path == "/api/score" && r.Method == "GET":
		session.saved.Game.ScoreHandler(w, r)
	default:
		http.NotFound(w, r)
	}
}

// recovered wraps a handler so panics out of the storage layer
// come back as 500s instead of killing the connection.
func recovered(inner http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf("Storage failure handling %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, "storage failure", http.StatusInternalServerError)
			}
		}()
		inner(w, r)
	}
}

func serveMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/watch", websocket.Handler(hub.serve))
	mux.HandleFunc("/api/", recovered(func(w http.ResponseWriter, r *http.Request) {
		sessionSelect(w, r).apiHandler(w, r)
	}))
	mux.HandleFunc("/", recovered(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/board", http.StatusFound)
	}))
	return mux
}

func main() {
	configPath := flag.String("config", "killer.toml", "path to the configuration file")
	flag.Parse()

	cfg, err := conf.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Couldn't load configuration")
	}

	cacheId, databaseId, err := storage.Connect(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Couldn't connect to storage")
	}
	defer storage.Close()
	log.Infof("Connected to cache at %q, database at %q.", cacheId, databaseId)

	hub = newWatchHub()
	go hub.run()

	log.Infof("Listening on :%s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, serveMux()); err != nil {
		logrus.WithError(err).Fatal("Listener failure")
	}
}
