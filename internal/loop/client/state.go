package client

import "time"

// screen identifies what the frame shows. Switching screens clears the terminal.
type screen int

const (
	screenTitle screen = iota
	screenPlaying
	screenPaused
	screenGameOver
	screenInactive
	screenShutdown
	screenTooSmall
)

// ClientState holds per-connection view state. The game itself lives in the
// controller; this only tracks what the frame loop needs between frames.
type ClientState struct {
	Running       bool
	prevScreen    screen
	fits          bool // Layout fits the terminal
	isInactive    bool
	shuttingDown  bool
	shutdownTimer float64 // Seconds before auto-disconnect on shutdown
	muted         bool
	delta         time.Duration
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:    true,
		prevScreen: -1,
		fits:       true,
	}
}
