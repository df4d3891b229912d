package main

import (
	"io"

	"github.com/jovankoledin/killer.go/puzzle"
	"golang.org/x/net/websocket"
)

// A watcher is one connected spectator.  Snapshots are pushed
// over send; a watcher that can't keep up has snapshots dropped
// rather than stalling the hub.
type watcher struct {
	conn *websocket.Conn
	send chan puzzle.Board
}

// The watchHub fans board snapshots out to every connected
// spectator.  All bookkeeping happens on the run goroutine, so
// the maps need no locks.
type watchHub struct {
	watchers   map[*watcher]bool
	broadcast  chan puzzle.Board
	register   chan *watcher
	unregister chan *watcher
}

func newWatchHub() *watchHub {
	return &watchHub{
		watchers:   make(map[*watcher]bool),
		broadcast:  make(chan puzzle.Board, 16),
		register:   make(chan *watcher),
		unregister: make(chan *watcher),
	}
}

func (h *watchHub) run() {
	for {
		select {
		case w := <-h.register:
			h.watchers[w] = true
			log.Infof("Added watcher, count: %d", len(h.watchers))
		case w := <-h.unregister:
			if _, ok := h.watchers[w]; ok {
				delete(h.watchers, w)
				close(w.send)
			}
			log.Infof("Removed watcher, count: %d", len(h.watchers))
		case board := <-h.broadcast:
			for w := range h.watchers {
				select {
				case w.send <- board:
				default:
					// slow watcher, skip this snapshot
				}
			}
		}
	}
}

// serve handles one spectator connection.  The writer goroutine
// pushes snapshots; the read loop exists only to notice the
// client going away.
func (h *watchHub) serve(conn *websocket.Conn) {
	w := &watcher{conn: conn, send: make(chan puzzle.Board, 8)}
	h.register <- w
	go w.writer()
	defer func() {
		h.unregister <- w
		conn.Close()
	}()
	for {
		var discard string
		if err := websocket.Message.Receive(conn, &discard); err != nil {
			if err != io.EOF {
				log.WithError(err).Debug("Watcher read failed.")
			}
			return
		}
	}
}

func (w *watcher) writer() {
	for board := range w.send {
		if err := websocket.JSON.Send(w.conn, board); err != nil {
			log.WithError(err).Debug("Watcher write failed.")
			return
		}
	}
}
