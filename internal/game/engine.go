package game

import (
	"io"

	"github.com/charmbracelet/log"
)

// Cause explains why a game ended.
type Cause int

const (
	CauseNone Cause = iota
	CauseWall
	CauseSelf
	CauseTimeout
	CauseBoardFull // Snake filled every cell
)

// String returns the cause identifier used in logs and on the wire.
func (c Cause) String() string {
	switch c {
	case CauseWall:
		return "wall-collision"
	case CauseSelf:
		return "self-collision"
	case CauseTimeout:
		return "timeout"
	case CauseBoardFull:
		return "board-full"
	}
	return ""
}

// MarshalText encodes the cause identifier.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// TickResult reports what a transition did, for observers such as achievement
// tracking and audio.
type TickResult struct {
	Moved        bool  `json:"moved"`
	Ate          bool  `json:"ate"`
	PrevScore    int   `json:"prevScore"`
	Score        int   `json:"score"` // Multiplied score after the transition
	NewHighScore bool  `json:"newHighScore"`
	SpeedChanged bool  `json:"speedChanged"`
	GameOver     bool  `json:"gameOver"`
	Cause        Cause `json:"cause,omitempty"`
}

// HighScoreSaver persists a new high score.
type HighScoreSaver interface {
	SaveHighScore(score int) error
}

// Engine advances sessions one tick at a time. It holds no session state of its own;
// the random source and the high-score port are injected.
type Engine struct {
	rng    Rand
	scores HighScoreSaver
	logger *log.Logger
}

// NewEngine creates an engine. A nil rng is replaced by a randomly seeded source,
// a nil scores disables persistence and a nil logger discards output.
func NewEngine(rng Rand, scores HighScoreSaver, logger *log.Logger) *Engine {
	if rng == nil {
		rng = NewRand()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{rng: rng, scores: scores, logger: logger}
}

// NewState creates a fresh not-started session using the engine's random source.
func (e *Engine) NewState(highScore int) State {
	return NewState(highScore, e.rng)
}

// Advance moves the snake one cell and resolves collisions and food.
// It returns s unchanged when the session is not live or has no direction yet.
func (e *Engine) Advance(s State) (State, TickResult) {
	res := TickResult{PrevScore: s.Score, Score: s.Score}
	if !s.Live() || s.Direction.IsZero() || len(s.Snake) == 0 {
		return s, res
	}

	head := s.Head().Add(s.Direction)

	if !head.InBounds() {
		s.GameOver = true
		res.GameOver, res.Cause = true, CauseWall
		return s, res
	}

	// Checked against the pre-move body, tail included.
	if s.Occupies(head) {
		s.GameOver = true
		res.GameOver, res.Cause = true, CauseSelf
		return s, res
	}

	body := make([]Position, 0, len(s.Snake)+1)
	body = append(body, head)
	body = append(body, s.Snake...)

	next := s
	next.Heading = s.Direction
	res.Moved = true

	if head != s.Food {
		next.Snake = body[:len(body)-1]
		return next, res
	}

	next.Snake = body
	next.Score = s.Score + s.Mode.Config().ScoreMultiplier
	res.Ate = true
	res.Score = next.Score

	if next.Score > s.HighScore {
		next.HighScore = next.Score
		res.NewHighScore = true
		e.saveHighScore(next.HighScore)
	}

	next.Speed = max(MaxSpeed, s.Speed-SpeedIncrement)
	res.SpeedChanged = next.Speed != s.Speed

	food, ok := GenerateFood(body, e.rng)
	if !ok {
		next.GameOver = true
		res.GameOver, res.Cause = true, CauseBoardFull
		return next, res
	}
	next.Food = food

	return next, res
}

// Countdown spends one second of a timed session. Reaching zero ends the game.
func Countdown(s State) (State, TickResult) {
	res := TickResult{PrevScore: s.Score, Score: s.Score}
	if !s.Live() || !s.Mode.Timed() {
		return s, res
	}

	s.TimeRemaining = max(s.TimeRemaining-1, 0)
	if s.TimeRemaining == 0 {
		s.GameOver = true
		res.GameOver, res.Cause = true, CauseTimeout
	}
	return s, res
}

// saveHighScore writes through the port. Failures leave the in-memory value authoritative.
func (e *Engine) saveHighScore(score int) {
	if e.scores == nil {
		return
	}
	if err := e.scores.SaveHighScore(score); err != nil {
		e.logger.Warn("failed to persist high score", "score", score, "err", err)
	}
}
