package game

// Direction is a unit step on the grid, or None before the first move.
type Direction struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var (
	None  = Direction{}
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// IsZero reports whether d is the not-yet-moving sentinel.
func (d Direction) IsZero() bool {
	return d == None
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

// Reverses reports whether d points exactly against other on a shared nonzero axis.
func (d Direction) Reverses(other Direction) bool {
	return (other.X != 0 && d.X == -other.X) || (other.Y != 0 && d.Y == -other.Y)
}

// String names the direction for logs.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case None:
		return "none"
	}
	return "invalid"
}

// ChangeDirection returns requested unless it is the exact reverse of current,
// in which case current is kept.
func ChangeDirection(current, requested Direction) Direction {
	if requested.Reverses(current) {
		return current
	}
	return requested
}

// Steer applies a requested direction to a live session using ChangeDirection.
// Requests made while the session is not live are ignored.
func Steer(s State, requested Direction) State {
	if !s.Live() {
		return s
	}
	s.Direction = ChangeDirection(s.Direction, requested)
	return s
}
