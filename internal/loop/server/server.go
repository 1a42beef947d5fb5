// Package server tracks the sessions of a multi-user host: who is connected, each
// user's best score, and the shutdown notice sent to everyone when the host stops.
//
// Every session still runs its own loop.Controller; the server never touches game
// state.
package server

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomz197/snake/internal/loop"
)

// TopScoreCount is the number of leaderboard entries kept in a snapshot.
const TopScoreCount = 5

// Server registers client sessions and publishes a leaderboard snapshot.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	best         map[string]TopScoreEntry // Keyed by username
	nextClientID int
	shuttingDown bool

	snapshot atomic.Pointer[Snapshot]
}

// ClientHandle represents one connected session.
type ClientHandle struct {
	ID       int
	Username string

	server   *Server
	shutdown chan struct{}
}

// Compile-time check that ClientHandle implements loop.Observer.
var _ loop.Observer = (*ClientHandle)(nil)

// NewServer creates an empty server.
func NewServer() *Server {
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		best:         make(map[string]TopScoreEntry),
		nextClientID: 1,
	}
	s.snapshot.Store(&Snapshot{TopScores: []TopScoreEntry{}})
	return s
}

// RegisterClient registers a new session for username and returns its handle.
// Sessions joining after Shutdown started receive an already closed shutdown channel.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		server:   s,
		shutdown: make(chan struct{}),
	}
	s.nextClientID++
	if s.shuttingDown {
		close(h.shutdown)
	}
	s.clients[h.ID] = h
	s.publishLocked()
	return h
}

// UnregisterClient removes a session. The user's best score stays on the board.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return
	}
	delete(s.clients, clientID)
	s.publishLocked()
}

// Players returns the number of connected sessions.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Snapshot returns the current leaderboard.
func (s *Server) Snapshot() Snapshot {
	return *s.snapshot.Load()
}

// ReportScore records score for the session if it beats the user's best.
func (s *Server) ReportScore(clientID int, u loop.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.clients[clientID]
	if !ok {
		return
	}
	if prev, ok := s.best[h.Username]; ok && prev.Score >= u.State.Score {
		return
	}
	s.best[h.Username] = TopScoreEntry{
		Username: h.Username,
		Score:    u.State.Score,
		Mode:     u.State.Mode,
		clientID: clientID,
	}
	s.publishLocked()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	if !s.shuttingDown {
		s.shuttingDown = true
		for _, h := range s.clients {
			close(h.shutdown)
		}
	}
	s.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}

// publishLocked rebuilds the snapshot. Must be called with s.mu held.
func (s *Server) publishLocked() {
	top := make([]TopScoreEntry, 0, len(s.best))
	for _, e := range s.best {
		top = append(top, e)
	}
	slices.SortFunc(top, rank)
	if len(top) > TopScoreCount {
		top = top[:TopScoreCount]
	}
	s.snapshot.Store(&Snapshot{Players: len(s.clients), TopScores: top})
}

// Shutdown is closed when the server starts shutting down.
func (h *ClientHandle) Shutdown() <-chan struct{} {
	return h.shutdown
}

// Close unregisters the session.
func (h *ClientHandle) Close() {
	h.server.UnregisterClient(h.ID)
}

// Observe implements loop.Observer by reporting scores as food is eaten.
func (h *ClientHandle) Observe(u loop.Update) {
	if u.Tick.Ate && u.State.Score > 0 {
		h.server.ReportScore(h.ID, u)
	}
}
