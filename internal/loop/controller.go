// Package loop drives a single snake session: it owns the phase state machine, the
// tick and countdown clocks, and publishes an immutable Update after every transition.
//
// All transitions run on one goroutine. Frontends enqueue Commands with Send and read
// the latest Update with Snapshot or through an Observer.
package loop

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/loop/config"
)

// ScoreStore loads and persists the all-time high score.
type ScoreStore interface {
	Load() (int, error)
	game.HighScoreSaver
}

// Options configures a Controller. Every field is optional.
type Options struct {
	Scores         ScoreStore
	Rand           game.Rand
	Mode           game.Mode // Initially selected mode
	TickClock      Clock
	CountdownClock Clock
	Logger         *log.Logger
}

// Controller runs one session through mode select, play, pause and game over.
type Controller struct {
	engine    *game.Engine
	tick      Clock
	countdown Clock
	logger    *log.Logger

	// Owned by the controller goroutine.
	state    game.State
	phase    Phase
	selected game.Mode
	paused   bool // Pause was used at least once this game
	seq      uint64

	cmds     chan Command
	snapshot atomic.Pointer[Update]

	mu        sync.Mutex
	observers []Observer
}

// New creates a controller in the mode select phase. The high score is read from
// opts.Scores; a failed read is logged and treated as zero.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tick := opts.TickClock
	if tick == nil {
		tick = NewTickerClock()
	}
	countdown := opts.CountdownClock
	if countdown == nil {
		countdown = NewTickerClock()
	}

	var saver game.HighScoreSaver
	highScore := 0
	if opts.Scores != nil {
		saver = opts.Scores
		hs, err := opts.Scores.Load()
		if err != nil {
			logger.Warn("failed to load high score", "err", err)
			hs = 0
		}
		highScore = hs
	}

	mode := opts.Mode
	if !mode.Valid() {
		mode = game.ModeClassic
	}

	c := &Controller{
		engine:    game.NewEngine(opts.Rand, saver, logger),
		tick:      tick,
		countdown: countdown,
		logger:    logger,
		selected:  mode,
		phase:     PhaseModeSelect,
		cmds:      make(chan Command, config.CommandBuffer),
	}
	c.state = c.engine.NewState(highScore)
	c.state.Mode = c.selected
	c.publish(EventInit, game.TickResult{})
	return c
}

// Run processes commands and clock ticks until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	defer c.stopClocks()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.cmds:
			c.Apply(cmd)
		case <-c.tick.C():
			c.Tick()
		case <-c.countdown.C():
			c.CountdownTick()
		}
	}
}

// Send enqueues a command for Run. It never blocks; when the queue is full the
// command is dropped and Send reports false.
func (c *Controller) Send(cmd Command) bool {
	select {
	case c.cmds <- cmd:
		return true
	default:
		c.logger.Debug("command dropped", "kind", cmd.Kind)
		return false
	}
}

// Snapshot returns the most recent Update. Safe for concurrent use.
func (c *Controller) Snapshot() Update {
	return *c.snapshot.Load()
}

// Subscribe registers an observer for all later updates.
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Apply performs a command synchronously. It must only be called from the goroutine
// that owns the controller (Run, or a test driving it directly).
func (c *Controller) Apply(cmd Command) {
	switch cmd.Kind {
	case CmdSelectMode:
		c.SelectMode(cmd.Mode)
	case CmdStart:
		c.Start()
	case CmdSteer:
		c.Steer(cmd.Direction)
	case CmdTogglePause:
		c.TogglePause()
	case CmdConfirm:
		c.Confirm()
	case CmdReset:
		c.Reset()
	case CmdResetStats:
		c.ResetStats()
	}
}

// SelectMode changes the highlighted mode on the title screen.
func (c *Controller) SelectMode(m game.Mode) {
	if c.phase != PhaseModeSelect || !m.Valid() || m == c.selected {
		return
	}
	c.selected = m
	c.state.Mode = c.selected
	c.publish(EventModeSelected, game.TickResult{})
}

// Start begins play in the selected mode and arms the clocks.
func (c *Controller) Start() {
	if c.phase != PhaseModeSelect {
		return
	}
	c.state = game.Start(c.state, c.selected)
	c.phase = PhasePlaying
	c.paused = false
	c.armClocks()
	c.logger.Info("game started", "mode", c.selected, "speed", c.state.Speed)
	c.publish(EventStarted, game.TickResult{})
}

// Steer queues a direction change for the next tick.
func (c *Controller) Steer(d game.Direction) {
	if c.phase != PhasePlaying {
		return
	}
	next := game.Steer(c.state, d)
	if next.Direction == c.state.Direction {
		return
	}
	c.state = next
	c.publish(EventSteered, game.TickResult{})
}

// TogglePause freezes or resumes play. While paused both clocks are stopped.
func (c *Controller) TogglePause() {
	switch c.phase {
	case PhasePlaying:
		c.stopClocks()
		c.state.Paused = true
		c.paused = true
		c.phase = PhasePaused
		c.publish(EventPaused, game.TickResult{})
	case PhasePaused:
		c.state.Paused = false
		c.phase = PhasePlaying
		c.armClocks()
		c.publish(EventResumed, game.TickResult{})
	}
}

// Tick advances the snake one cell.
func (c *Controller) Tick() {
	if c.phase != PhasePlaying {
		return
	}
	next, res := c.engine.Advance(c.state)
	c.state = next
	if res.GameOver {
		c.finish(res)
		return
	}
	if res.SpeedChanged {
		c.tick.Reset(interval(c.state.Speed))
	}
	c.publish(EventTick, res)
}

// CountdownTick spends one second of a timed game.
func (c *Controller) CountdownTick() {
	if c.phase != PhasePlaying || !c.state.Mode.Timed() {
		return
	}
	next, res := game.Countdown(c.state)
	c.state = next
	if res.GameOver {
		c.finish(res)
		return
	}
	c.publish(EventCountdown, res)
}

// Confirm starts from the title screen and returns to it from game over.
func (c *Controller) Confirm() {
	switch c.phase {
	case PhaseModeSelect:
		c.Start()
	case PhaseGameOver:
		c.Reset()
	}
}

// Reset abandons the current game and returns to mode select. The high score and
// the selected mode are kept.
func (c *Controller) Reset() {
	if c.phase == PhaseModeSelect {
		return
	}
	c.stopClocks()
	c.state = c.engine.NewState(c.state.HighScore)
	c.state.Mode = c.selected
	c.phase = PhaseModeSelect
	c.publish(EventReset, game.TickResult{})
}

// ResetStats asks observers to clear lifetime statistics. Only honored on the
// title screen.
func (c *Controller) ResetStats() {
	if c.phase != PhaseModeSelect {
		return
	}
	c.publish(EventStatsReset, game.TickResult{})
}

func (c *Controller) finish(res game.TickResult) {
	c.stopClocks()
	c.phase = PhaseGameOver
	c.logger.Info("game over",
		"mode", c.state.Mode,
		"score", c.state.Score,
		"length", len(c.state.Snake),
		"cause", res.Cause,
	)
	c.publish(EventGameOver, res)
}

func (c *Controller) armClocks() {
	c.tick.Reset(interval(c.state.Speed))
	if c.state.Mode.Timed() {
		c.countdown.Reset(config.CountdownInterval)
	}
}

func (c *Controller) stopClocks() {
	c.tick.Stop()
	c.countdown.Stop()
}

func (c *Controller) publish(ev Event, res game.TickResult) {
	c.seq++
	u := Update{
		Seq:       c.seq,
		Event:     ev,
		Phase:     c.phase,
		Selected:  c.selected,
		State:     c.state,
		Tick:      res,
		PauseUsed: c.paused,
	}
	c.snapshot.Store(&u)

	c.mu.Lock()
	observers := c.observers
	c.mu.Unlock()
	for _, o := range observers {
		o.Observe(u)
	}
}

func interval(speedMs int) time.Duration {
	return time.Duration(speedMs) * time.Millisecond
}
