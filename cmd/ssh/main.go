package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/client"
	loopconfig "github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
	"github.com/tomz197/snake/internal/stats"
	"github.com/tomz197/snake/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDBPath      = "/app/data/snake.db"
)

// app holds what every SSH session shares.
type app struct {
	hub    *server.Server
	db     store.Store
	logger *log.Logger
}

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dbPath := config.GetEnv("SNAKE_DB", defaultDBPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "db", dbPath)

	db, closeDB, err := store.Open(dbPath)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer closeDB()

	a := &app{hub: server.NewServer(), db: db, logger: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "players", a.hub.Players())

	// Let players see the notice and leave before the listener goes away.
	a.hub.Shutdown(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// gameMiddleware runs one snake session per SSH connection.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		username := sess.User()
		if len(username) > loopconfig.MaxUsernameLength {
			username = username[:loopconfig.MaxUsernameLength]
		}
		logger := a.logger.With("session", uuid.NewString(), "user", username)
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		handle := a.hub.RegisterClient(username)
		defer handle.Close()

		userStore := store.WithPrefix(a.db, "ssh:"+username)
		tracker := stats.NewTracker(userStore, logger)
		ctrl := loop.New(loop.Options{
			Scores: store.NewHighScores(userStore),
			Logger: logger,
		})
		ctrl.Subscribe(tracker)
		ctrl.Subscribe(handle)

		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		go ctrl.Run(ctx)

		c := client.NewClient(ctrl, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     username,
			Stats:        tracker,
			Leaderboard:  a.hub,
			Shutdown:     handle.Shutdown(),
			IdleLimit:    true,
			Logger:       logger,
		})
		if err := c.Run(ctx); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended", "high", ctrl.Snapshot().State.HighScore)
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
