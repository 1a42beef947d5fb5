package loop

import "github.com/tomz197/snake/internal/game"

// Phase is the session's position in the state machine.
type Phase int

const (
	PhaseModeSelect Phase = iota // Title screen, choosing a mode
	PhasePlaying                 // Ticks advance the snake
	PhasePaused                  // Clock stopped, input ignored
	PhaseGameOver                // Terminal until reset
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseModeSelect:
		return "mode-select"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game-over"
	}
	return "unknown"
}

// MarshalText encodes the phase name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Event identifies the transition that produced an Update.
type Event int

const (
	EventInit Event = iota
	EventModeSelected
	EventStarted
	EventSteered
	EventTick
	EventCountdown
	EventPaused
	EventResumed
	EventGameOver
	EventReset
	EventStatsReset
)

var eventNames = [...]string{
	EventInit:         "init",
	EventModeSelected: "mode-selected",
	EventStarted:      "started",
	EventSteered:      "steered",
	EventTick:         "tick",
	EventCountdown:    "countdown",
	EventPaused:       "paused",
	EventResumed:      "resumed",
	EventGameOver:     "game-over",
	EventReset:        "reset",
	EventStatsReset:   "stats-reset",
}

// String returns the event name.
func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// MarshalText encodes the event name.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Update is an immutable snapshot published after every transition.
type Update struct {
	Seq       uint64          `json:"seq"`
	Event     Event           `json:"event"`
	Phase     Phase           `json:"phase"`
	Selected  game.Mode       `json:"selected"`
	State     game.State      `json:"state"`
	Tick      game.TickResult `json:"tick"`      // Set for tick, countdown and game-over events
	PauseUsed bool            `json:"pauseUsed"` // The current game was paused at least once
}

// Observer receives every Update on the controller goroutine. Observe must not block.
type Observer interface {
	Observe(u Update)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(u Update)

// Observe implements Observer.
func (f ObserverFunc) Observe(u Update) {
	f(u)
}

// CommandKind identifies a player or system request.
type CommandKind int

const (
	CmdSelectMode CommandKind = iota
	CmdStart
	CmdSteer
	CmdTogglePause
	CmdConfirm // Start from mode select, reset from game over
	CmdReset
	CmdResetStats
)

// Command is a request routed to the controller.
type Command struct {
	Kind      CommandKind
	Mode      game.Mode      // CmdSelectMode
	Direction game.Direction // CmdSteer
}
