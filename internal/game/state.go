// Package game implements the snake simulation: grid geometry, food placement,
// direction control and the tick engine.
//
// State is a value type. Every transition returns a new State and never writes
// through the slices of the State it was given, so published states can be shared
// with renderers without copying.
package game

// Position is a grid cell. (0,0) is the top-left cell.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p moved one step in direction d.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// InBounds reports whether p lies on the grid.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridWidth && p.Y >= 0 && p.Y < GridHeight
}

// State is a single game session.
type State struct {
	Snake         []Position `json:"snake"` // Head first
	Food          Position   `json:"food"`
	Direction     Direction  `json:"direction"` // Applied on the next tick
	Heading       Direction  `json:"heading"`   // Direction of the last applied move
	Score         int        `json:"score"`
	HighScore     int        `json:"highScore"`
	GameOver      bool       `json:"gameOver"`
	Started       bool       `json:"started"`
	Paused        bool       `json:"paused"`
	Mode          Mode       `json:"mode"`
	TimeRemaining int        `json:"timeRemaining,omitempty"` // Seconds, timed modes only
	Speed         int        `json:"speed"`                   // Tick interval in milliseconds
}

// NewState creates a session in the not-started state with a single segment at the
// grid center and freshly placed food.
func NewState(highScore int, rng Rand) State {
	snake := []Position{{X: OriginX, Y: OriginY}}
	food, _ := GenerateFood(snake, rng)
	return State{
		Snake:     snake,
		Food:      food,
		Direction: None,
		HighScore: max(highScore, 0),
		Mode:      ModeClassic,
		Speed:     InitialSpeed,
	}
}

// Start begins play in the given mode. The snake starts moving right.
func Start(s State, mode Mode) State {
	s.Started = true
	s.Mode = mode
	s.Speed = mode.StartSpeed()
	s.Direction = Right
	s.TimeRemaining = mode.Config().TimeLimit
	return s
}

// Head returns the first snake segment.
func (s State) Head() Position {
	return s.Snake[0]
}

// Live reports whether ticks currently change the state.
func (s State) Live() bool {
	return s.Started && !s.GameOver && !s.Paused
}

// Occupies reports whether any snake segment is at p.
func (s State) Occupies(p Position) bool {
	for _, seg := range s.Snake {
		if seg == p {
			return true
		}
	}
	return false
}

// Clone performs a deep copy of the state.
func (s State) Clone() State {
	out := s
	if s.Snake != nil {
		out.Snake = make([]Position, len(s.Snake))
		copy(out.Snake, s.Snake)
	}
	return out
}
