// Package client is the terminal frontend: it reads keys, forwards them to a
// session controller and renders the controller's snapshots at a fixed frame rate.
package client

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/effect"
	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/input"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
	"github.com/tomz197/snake/internal/stats"
)

// Toggler switches a feature on or off and reports the new setting.
type Toggler interface {
	Toggle() bool
}

// Leaderboard reports the players sharing a server.
type Leaderboard interface {
	Snapshot() server.Snapshot
}

// Client handles rendering and input for a single terminal.
type Client struct {
	ctrl         *loop.Controller
	stats        *stats.Tracker
	sound        Toggler
	leaderboard  Leaderboard
	state        *ClientState
	board        *draw.Board
	frame        *draw.Frame
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	particles    *effect.System
	eaten        chan game.Position
	shutdown     <-chan struct{}
	idleLimit    bool
	lastInput    time.Time
	username     string
	logger       *log.Logger
	offsetCol    int
	offsetRow    int
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string          // Shown in the HUD for remote sessions
	Stats        *stats.Tracker  // Lifetime stats for the title screen
	Sound        Toggler         // Bound to the mute key when set
	Leaderboard  Leaderboard     // Shown on the title screen when set
	Rand         effect.Rand     // Particle spread
	Shutdown     <-chan struct{} // Closed when the server is going away
	IdleLimit    bool            // Warn and disconnect inactive players
	Logger       *log.Logger
}

// NewClient creates a client for ctrl and subscribes it to ctrl's updates.
func NewClient(ctrl *loop.Controller, r io.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = game.NewRand()
	}

	c := &Client{
		ctrl:         ctrl,
		stats:        opts.Stats,
		sound:        opts.Sound,
		leaderboard:  opts.Leaderboard,
		state:        NewClientState(),
		board:        draw.NewBoard(game.GridWidth, game.GridHeight),
		frame:        draw.NewFrame(w, 0, 0),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		particles:    effect.NewSystem(rng),
		eaten:        make(chan game.Position, 8),
		shutdown:     opts.Shutdown,
		idleLimit:    opts.IdleLimit,
		lastInput:    time.Now(),
		username:     opts.Username,
		logger:       logger,
	}
	ctrl.Subscribe(c)
	return c
}

// Observe implements loop.Observer. It runs on the controller goroutine and only
// hands eaten-food positions to the frame loop.
func (c *Client) Observe(u loop.Update) {
	if !u.Tick.Ate {
		return
	}
	select {
	case c.eaten <- u.State.Head():
	default:
	}
}

// Run starts the frame loop. Blocks until the player quits, the input closes or ctx
// is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	frame := time.NewTicker(config.ClientTargetFrameTime)
	defer frame.Stop()

	lastTime := time.Now()
	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processEvents()
		c.updateScreen()
		c.particles.Update(c.state.delta.Seconds())

		if c.state.shuttingDown {
			c.state.shutdownTimer -= c.state.delta.Seconds()
			if c.state.shutdownTimer <= 0 {
				c.state.Running = false
			}
		}

		if err := c.drawFrame(c.ctrl.Snapshot()); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			c.state.Running = false
		case <-frame.C:
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads keys and forwards them to the controller.
func (c *Client) processInput() {
	keys, ok := input.ReadKeys(c.inputStream)
	if !ok {
		c.state.Running = false
		return
	}

	if len(keys) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if c.idleLimit {
		idle := time.Since(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting inactive player", "user", c.username)
			c.state.Running = false
		} else if idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	for _, k := range keys {
		switch k {
		case input.KeyQuit:
			c.state.Running = false
			return
		case input.KeyMute:
			if c.sound != nil {
				c.state.muted = !c.sound.Toggle()
			}
			continue
		}
		if c.state.shuttingDown {
			continue
		}
		if cmd, ok := input.Command(k); ok {
			c.ctrl.Send(cmd)
		}
	}
}

// processEvents handles shutdown notice and food bursts.
func (c *Client) processEvents() {
	if c.shutdown != nil && !c.state.shuttingDown {
		select {
		case <-c.shutdown:
			c.state.shuttingDown = true
			c.state.shutdownTimer = config.ShutdownDisplaySeconds
		default:
		}
	}
	for {
		select {
		case p := <-c.eaten:
			c.particles.Burst(p.X, p.Y, config.BurstParticles, config.BurstSpeed, config.BurstLifetime, config.ParticleDrag)
		default:
			return
		}
	}
}

// updateScreen centers the layout in the terminal. On size changes the terminal is
// cleared so nothing from the previous layout persists.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	width, height := c.layoutSize()
	offsetCol, offsetRow, fits := draw.Layout(termWidth, termHeight, width, height)

	if offsetCol != c.offsetCol || offsetRow != c.offsetRow || fits != c.state.fits {
		c.frame.SetOffset(0, 0)
		c.frame.WriteString("\033[H\033[2J")
		c.board.ForceRedraw()
	}
	c.offsetCol, c.offsetRow = offsetCol, offsetRow
	c.state.fits = fits
}

// layoutSize is the terminal area used by the HUD, board and footer.
func (c *Client) layoutSize() (width, height int) {
	return c.board.Width(), config.HUDRows + c.board.Height() + config.FooterRows
}
