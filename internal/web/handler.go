// Package web serves the browser frontend: an embedded page and a websocket that
// runs one session controller per connection.
package web

import (
	"context"
	_ "embed"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/input"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/stats"
	"github.com/tomz197/snake/internal/store"
)

//go:embed index.html
var page []byte

const (
	writeTimeout   = 5 * time.Second
	maxMessageSize = 512
	outboxSize     = 16
)

var playerName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Options configures a Handler.
type Options struct {
	Store  store.Store // Defaults to an in-memory store
	Logger *log.Logger
	// NewClock overrides the clocks given to each session, for tests.
	NewClock func() loop.Clock
}

// Handler serves the page on "/" and sessions on "/ws".
type Handler struct {
	store    store.Store
	logger   *log.Logger
	newClock func() loop.Clock
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// NewHandler creates the HTTP handler.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		store:    opts.Store,
		logger:   opts.Logger,
		newClock: opts.NewClock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	if h.store == nil {
		h.store = store.NewMemory()
	}
	if h.logger == nil {
		h.logger = log.New(io.Discard)
	}
	if h.newClock == nil {
		h.newClock = func() loop.Clock { return loop.NewTickerClock() }
	}
	h.mux.HandleFunc("GET /{$}", h.servePage)
	h.mux.HandleFunc("GET /ws", h.serveSocket)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// storePrefix namespaces persisted data by the optional ?player= name. Anonymous
// players share one record.
func storePrefix(r *http.Request) string {
	name := r.URL.Query().Get("player")
	if name == "" || len(name) > config.MaxUsernameLength || !playerName.MatchString(name) {
		return "web"
	}
	return "web:" + name
}

// session is one websocket connection and the game it drives.
type session struct {
	id      string
	conn    *websocket.Conn
	ctrl    *loop.Controller
	tracker *stats.Tracker
	logger  *log.Logger
	notify  chan struct{}      // Coalesced "snapshot changed" signal
	outbox  chan ServerMessage // Achievements and errors
}

func (h *Handler) serveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	id := uuid.NewString()
	logger := h.logger.With("session", id)
	st := store.WithPrefix(h.store, storePrefix(r))

	s := &session{
		id:     id,
		conn:   conn,
		logger: logger,
		notify: make(chan struct{}, 1),
		outbox: make(chan ServerMessage, outboxSize),
	}
	s.tracker = stats.NewTracker(st, logger)
	s.ctrl = loop.New(loop.Options{
		Scores:         store.NewHighScores(st),
		TickClock:      h.newClock(),
		CountdownClock: h.newClock(),
		Logger:         logger,
	})
	// The tracker must see an update before the push does, so pushed stats are current.
	s.ctrl.Subscribe(s.tracker)
	s.ctrl.Subscribe(loop.ObserverFunc(func(loop.Update) { s.signal() }))
	s.tracker.OnUnlock(func(a stats.Achievement) {
		s.enqueue(ServerMessage{Type: TypeAchievement, Achievement: &a})
	})

	logger.Info("web session started", "remote", r.RemoteAddr)
	defer logger.Info("web session ended")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.ctrl.Run(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		if err := s.writeLoop(ctx); err != nil {
			logger.Debug("write loop stopped", "err", err)
		}
	}()

	s.readLoop()
	cancel()
	<-done
}

func (s *session) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *session) enqueue(msg ServerMessage) {
	select {
	case s.outbox <- msg:
	default:
		s.logger.Warn("dropping message for slow client", "type", msg.Type)
	}
}

// writeLoop is the only writer on the connection.
func (s *session) writeLoop(ctx context.Context) error {
	if err := s.write(ServerMessage{Type: TypeHello, Session: s.id, Board: boardInfo()}); err != nil {
		return err
	}
	if err := s.writeSnapshot(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return nil
		case msg := <-s.outbox:
			if err := s.write(msg); err != nil {
				return err
			}
		case <-s.notify:
			if err := s.writeSnapshot(); err != nil {
				return err
			}
		}
	}
}

func (s *session) writeSnapshot() error {
	u := s.ctrl.Snapshot()
	rec := s.tracker.Record()
	return s.write(ServerMessage{Type: TypeUpdate, Update: &u, Stats: &rec})
}

func (s *session) write(msg ServerMessage) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(msg)
}

// readLoop routes browser messages to the controller until the connection closes.
func (s *session) readLoop() {
	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		s.handle(msg)
	}
}

func (s *session) handle(msg ClientMessage) {
	switch msg.Type {
	case TypeKey:
		if cmd, ok := input.Command(input.ParseKeyName(msg.Key)); ok {
			s.ctrl.Send(cmd)
		}
	case TypeSwipe:
		if d, ok := input.Swipe(msg.DX, msg.DY); ok {
			s.ctrl.Send(input.SteerCommand(d))
		}
	case TypeMode:
		m, err := game.ParseMode(msg.Mode)
		if err != nil {
			s.enqueue(ServerMessage{Type: TypeError, Error: err.Error()})
			return
		}
		s.ctrl.Send(loop.Command{Kind: loop.CmdSelectMode, Mode: m})
	default:
		s.enqueue(ServerMessage{Type: TypeError, Error: "unknown message type " + msg.Type})
	}
}
