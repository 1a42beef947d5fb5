package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// recordingSaver captures persisted high scores.
type recordingSaver struct {
	saved []int
	err   error
}

func (r *recordingSaver) SaveHighScore(score int) error {
	r.saved = append(r.saved, score)
	return r.err
}

func dumpState(s State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode=%s score=%d high=%d speed=%d dir=%s over=%v\n",
		s.Mode, s.Score, s.HighScore, s.Speed, s.Direction, s.GameOver)
	for y := range GridHeight {
		for x := range GridWidth {
			p := Position{X: x, Y: y}
			switch {
			case len(s.Snake) > 0 && s.Snake[0] == p:
				b.WriteByte('H')
			case s.Occupies(p):
				b.WriteByte('o')
			case s.Food == p:
				b.WriteByte('F')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func playing(mode Mode, snake []Position, food Position, dir Direction) State {
	s := Start(NewState(0, newTestRand()), mode)
	s.Snake = snake
	s.Food = food
	s.Direction = dir
	return s
}

func TestChangeDirection(t *testing.T) {
	dirs := []Direction{None, Up, Down, Left, Right}
	for _, cur := range dirs {
		for _, req := range dirs {
			got := ChangeDirection(cur, req)
			opposite := !cur.IsZero() && req == cur.Opposite()
			want := req
			if opposite {
				want = cur
			}
			if got != want {
				t.Errorf("ChangeDirection(%s, %s) = %s, want %s", cur, req, got, want)
			}
		}
	}
}

func TestSteerChecksPendingDirection(t *testing.T) {
	s := playing(ModeClassic, []Position{{5, 5}, {4, 5}, {3, 5}}, Position{15, 15}, Right)
	s.Heading = Right

	s = Steer(s, Up)
	if s.Direction != Up {
		t.Fatalf("perpendicular turn rejected: got %s", s.Direction)
	}
	// Only the pending direction is compared, so Left is accepted after Up.
	s = Steer(s, Left)
	if s.Direction != Left {
		t.Fatalf("turn from pending up rejected: got %s", s.Direction)
	}
	s = Steer(s, Right)
	if s.Direction != Left {
		t.Fatalf("reversal of pending direction accepted: got %s", s.Direction)
	}
}

func TestSteerIgnoredWhenNotLive(t *testing.T) {
	s := NewState(0, newTestRand())
	if got := Steer(s, Up); got.Direction != None {
		t.Fatalf("steer before start changed direction to %s", got.Direction)
	}
	p := playing(ModeClassic, []Position{{5, 5}}, Position{0, 0}, Right)
	p.Paused = true
	if got := Steer(p, Up); got.Direction != Right {
		t.Fatalf("steer while paused changed direction to %s", got.Direction)
	}
}

func TestGenerateFoodAvoidsOccupied(t *testing.T) {
	rng := newTestRand()
	snake := []Position{{5, 5}, {4, 5}, {3, 5}}
	for i := 0; i < 500; i++ {
		food, ok := GenerateFood(snake, rng)
		if !ok {
			t.Fatal("GenerateFood reported a full board")
		}
		if !food.InBounds() {
			t.Fatalf("food out of bounds: %+v", food)
		}
		for _, seg := range snake {
			if seg == food {
				t.Fatalf("food placed on snake at %+v", food)
			}
		}
	}
}

func TestGenerateFoodDrawsIndependently(t *testing.T) {
	rng := newTestRand()
	seen := make(map[Position]int)
	for i := 0; i < 200; i++ {
		food, _ := GenerateFood([]Position{{OriginX, OriginY}}, rng)
		seen[food]++
	}
	if len(seen) < 50 {
		t.Errorf("expected spread-out placements, got %d distinct cells", len(seen))
	}
}

func TestGenerateFoodCrowdedBoard(t *testing.T) {
	var occupied []Position
	free := Position{X: 7, Y: 13}
	for y := range GridHeight {
		for x := range GridWidth {
			if p := (Position{X: x, Y: y}); p != free {
				occupied = append(occupied, p)
			}
		}
	}

	food, ok := GenerateFood(occupied, newTestRand())
	if !ok || food != free {
		t.Fatalf("GenerateFood = %+v, %v; want %+v, true", food, ok, free)
	}

	if _, ok := GenerateFood(append(occupied, free), newTestRand()); ok {
		t.Fatal("GenerateFood succeeded on a full board")
	}
}

func TestAdvanceIdentityWhenNotLive(t *testing.T) {
	e := NewEngine(newTestRand(), nil, nil)

	tests := []struct {
		name  string
		state func() State
	}{
		{"not started", func() State {
			s := NewState(3, newTestRand())
			s.Direction = Right
			return s
		}},
		{"paused", func() State {
			s := playing(ModeClassic, []Position{{5, 5}}, Position{6, 5}, Right)
			s.Paused = true
			return s
		}},
		{"game over", func() State {
			s := playing(ModeClassic, []Position{{5, 5}}, Position{6, 5}, Right)
			s.GameOver = true
			return s
		}},
		{"no direction", func() State {
			return playing(ModeClassic, []Position{{5, 5}}, Position{6, 5}, None)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.state()
			before := in.Clone()
			out, res := e.Advance(in)
			if !reflect.DeepEqual(out, before) {
				t.Fatalf("state changed:\nbefore:\n%s\nafter:\n%s", dumpState(before), dumpState(out))
			}
			if res.Moved || res.Ate || res.GameOver {
				t.Fatalf("unexpected result %+v", res)
			}
		})
	}
}

func TestAdvanceWallCollision(t *testing.T) {
	e := NewEngine(newTestRand(), nil, nil)
	walls := []struct {
		head Position
		dir  Direction
	}{
		{Position{GridWidth - 1, 10}, Right},
		{Position{0, 10}, Left},
		{Position{10, 0}, Up},
		{Position{10, GridHeight - 1}, Down},
	}

	for _, w := range walls {
		in := playing(ModeClassic, []Position{w.head}, Position{2, 2}, w.dir)
		out, res := e.Advance(in)
		if !res.GameOver || res.Cause != CauseWall {
			t.Fatalf("%s from %+v: result %+v, want wall collision", w.dir, w.head, res)
		}
		want := in.Clone()
		want.GameOver = true
		if !reflect.DeepEqual(out, want) {
			t.Fatalf("wall collision mutated more than GameOver:\n%s", dumpState(out))
		}
	}
}

func TestAdvanceSelfCollision(t *testing.T) {
	e := NewEngine(newTestRand(), nil, nil)
	in := playing(ModeClassic, []Position{
		{5, 5}, {4, 5}, {3, 5}, {3, 4}, {4, 4}, {5, 4},
	}, Position{15, 15}, Up)

	out, res := e.Advance(in)
	if !out.GameOver || res.Cause != CauseSelf {
		t.Fatalf("expected self collision, got %+v\n%s", res, dumpState(out))
	}
	if len(out.Snake) != len(in.Snake) || out.Score != in.Score {
		t.Fatalf("self collision changed body or score:\n%s", dumpState(out))
	}
}

func TestAdvanceTailCellCountsAsCollision(t *testing.T) {
	// The head may not enter the cell the tail is about to leave.
	e := NewEngine(newTestRand(), nil, nil)
	in := playing(ModeClassic, []Position{{5, 5}, {5, 6}, {4, 6}, {4, 5}}, Position{15, 15}, Left)

	out, res := e.Advance(in)
	if !out.GameOver || res.Cause != CauseSelf {
		t.Fatalf("expected self collision into tail cell, got %+v", res)
	}
}

func TestAdvanceEatsFood(t *testing.T) {
	for _, mode := range Modes {
		t.Run(mode.String(), func(t *testing.T) {
			saver := &recordingSaver{}
			e := NewEngine(newTestRand(), saver, nil)
			in := playing(mode, []Position{{5, 5}}, Position{6, 5}, Right)

			out, res := e.Advance(in)

			if len(out.Snake) != 2 || out.Snake[0] != (Position{6, 5}) || out.Snake[1] != (Position{5, 5}) {
				t.Fatalf("unexpected body after eating:\n%s", dumpState(out))
			}
			mult := mode.Config().ScoreMultiplier
			if out.Score != mult || res.Score != mult || !res.Ate {
				t.Fatalf("score = %d (result %+v), want %d", out.Score, res, mult)
			}
			if out.Occupies(out.Food) || !out.Food.InBounds() {
				t.Fatalf("new food %+v overlaps body or is off board", out.Food)
			}
			if want := in.Speed - SpeedIncrement; out.Speed != want {
				t.Fatalf("speed = %d, want %d", out.Speed, want)
			}
			if !res.NewHighScore || out.HighScore != mult {
				t.Fatalf("high score = %d (new=%v), want %d", out.HighScore, res.NewHighScore, mult)
			}
			if !reflect.DeepEqual(saver.saved, []int{mult}) {
				t.Fatalf("saved = %v, want [%d]", saver.saved, mult)
			}
			if len(in.Snake) != 1 {
				t.Fatal("input state was mutated")
			}
		})
	}
}

func TestAdvanceSpeedFloor(t *testing.T) {
	e := NewEngine(newTestRand(), nil, nil)
	in := playing(ModeClassic, []Position{{5, 5}}, Position{6, 5}, Right)
	in.Speed = MaxSpeed + 2

	out, res := e.Advance(in)
	if out.Speed != MaxSpeed {
		t.Fatalf("speed = %d, want floor %d", out.Speed, MaxSpeed)
	}
	if !res.SpeedChanged {
		t.Fatal("expected SpeedChanged")
	}

	out.Food = out.Head().Add(Right)
	again, res := e.Advance(out)
	if again.Speed != MaxSpeed || res.SpeedChanged {
		t.Fatalf("speed = %d changed=%v, want %d unchanged", again.Speed, res.SpeedChanged, MaxSpeed)
	}
}

func TestAdvancePlainMove(t *testing.T) {
	e := NewEngine(newTestRand(), nil, nil)
	in := playing(ModeSpeed, []Position{{5, 5}, {4, 5}, {3, 5}}, Position{15, 15}, Down)
	in.Score = 4

	out, res := e.Advance(in)
	want := []Position{{5, 6}, {5, 5}, {4, 5}}
	if !reflect.DeepEqual(out.Snake, want) {
		t.Fatalf("body = %v, want %v", out.Snake, want)
	}
	if out.Score != in.Score || out.Speed != in.Speed || out.Food != in.Food {
		t.Fatalf("plain move changed score/speed/food:\n%s", dumpState(out))
	}
	if res.Ate || !res.Moved || out.Heading != Down {
		t.Fatalf("unexpected result %+v heading=%s", res, out.Heading)
	}
}

func TestAdvanceHighScoreOnlyOnStrictIncrease(t *testing.T) {
	saver := &recordingSaver{}
	e := NewEngine(newTestRand(), saver, nil)

	in := playing(ModeSpeed, []Position{{5, 5}}, Position{6, 5}, Right)
	in.Score = 8
	in.HighScore = 10

	out, res := e.Advance(in)
	if out.Score != 10 || out.HighScore != 10 || res.NewHighScore {
		t.Fatalf("tie updated high score: score=%d high=%d new=%v", out.Score, out.HighScore, res.NewHighScore)
	}
	if len(saver.saved) != 0 {
		t.Fatalf("tie persisted high score: %v", saver.saved)
	}

	out.Food = out.Head().Add(Right)
	out, res = e.Advance(out)
	if out.HighScore != 12 || !res.NewHighScore {
		t.Fatalf("high score = %d new=%v, want 12", out.HighScore, res.NewHighScore)
	}
	if !reflect.DeepEqual(saver.saved, []int{12}) {
		t.Fatalf("saved = %v, want [12]", saver.saved)
	}
}

func TestAdvanceSurvivesStoreFailure(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	e := NewEngine(newTestRand(), saver, nil)
	in := playing(ModeClassic, []Position{{5, 5}}, Position{6, 5}, Right)

	out, res := e.Advance(in)
	if out.HighScore != 1 || !res.NewHighScore {
		t.Fatalf("in-memory high score not kept after failed write: %d", out.HighScore)
	}
}

func TestAdvanceBoardFull(t *testing.T) {
	// Serpentine path over the whole board; the snake covers all but the last cell.
	var path []Position
	for y := range GridHeight {
		for i := range GridWidth {
			x := i
			if y%2 == 1 {
				x = GridWidth - 1 - i
			}
			path = append(path, Position{X: x, Y: y})
		}
	}
	snake := make([]Position, 0, GridCells-1)
	for i := GridCells - 2; i >= 0; i-- {
		snake = append(snake, path[i])
	}
	last := path[GridCells-1]

	e := NewEngine(newTestRand(), nil, nil)
	in := playing(ModeClassic, snake, last, Left)
	in.Heading = Left

	out, res := e.Advance(in)
	if !out.GameOver || res.Cause != CauseBoardFull || !res.Ate {
		t.Fatalf("expected board-full end after eating, got %+v", res)
	}
	if len(out.Snake) != GridCells {
		t.Fatalf("snake length = %d, want %d", len(out.Snake), GridCells)
	}
}

func TestCountdown(t *testing.T) {
	s := Start(NewState(0, newTestRand()), ModeSurvival)
	if s.TimeRemaining != 120 {
		t.Fatalf("time remaining = %d, want 120", s.TimeRemaining)
	}

	s.TimeRemaining = 2
	s, res := Countdown(s)
	if s.TimeRemaining != 1 || s.GameOver || res.GameOver {
		t.Fatalf("after one second: %+v", s)
	}
	s, res = Countdown(s)
	if s.TimeRemaining != 0 || !s.GameOver || res.Cause != CauseTimeout {
		t.Fatalf("expected timeout, got remaining=%d over=%v cause=%s", s.TimeRemaining, s.GameOver, res.Cause)
	}

	classic := Start(NewState(0, newTestRand()), ModeClassic)
	if out, _ := Countdown(classic); !reflect.DeepEqual(out, classic) {
		t.Fatal("countdown changed an untimed session")
	}
}

func TestStart(t *testing.T) {
	tests := []struct {
		mode  Mode
		speed int
		time  int
	}{
		{ModeClassic, 150, 0},
		{ModeSpeed, 100, 0},
		{ModeSurvival, 150, 120},
	}
	for _, tt := range tests {
		s := Start(NewState(7, newTestRand()), tt.mode)
		if !s.Started || s.Direction != Right || s.Speed != tt.speed || s.TimeRemaining != tt.time {
			t.Errorf("%s: started=%v dir=%s speed=%d time=%d", tt.mode, s.Started, s.Direction, s.Speed, s.TimeRemaining)
		}
		if s.HighScore != 7 || s.Score != 0 {
			t.Errorf("%s: score=%d high=%d", tt.mode, s.Score, s.HighScore)
		}
	}
}

func TestNewState(t *testing.T) {
	s := NewState(-4, newTestRand())
	if len(s.Snake) != 1 || s.Head() != (Position{OriginX, OriginY}) {
		t.Fatalf("unexpected initial snake %v", s.Snake)
	}
	if s.Food == s.Head() || !s.Food.InBounds() {
		t.Fatalf("bad initial food %+v", s.Food)
	}
	if s.Started || s.GameOver || s.Paused || !s.Direction.IsZero() || s.HighScore != 0 {
		t.Fatalf("unexpected initial flags %+v", s)
	}
}

func TestParseMode(t *testing.T) {
	for _, in := range []string{"SURVIVAL", "survival", " Survival "} {
		m, err := ParseMode(in)
		if err != nil || m != ModeSurvival {
			t.Errorf("ParseMode(%q) = %v, %v", in, m, err)
		}
	}
	if _, err := ParseMode("hardcore"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(hardcore) error = %v, want ErrUnknownMode", err)
	}

	var m Mode
	if err := m.UnmarshalText([]byte("speed")); err != nil || m != ModeSpeed {
		t.Errorf("UnmarshalText = %v, %v", m, err)
	}
}
