package client

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
	"github.com/tomz197/snake/internal/stats"
	"github.com/tomz197/snake/internal/store"
)

type toggle struct{ on bool }

func (t *toggle) Toggle() bool {
	t.on = !t.on
	return t.on
}

func newController() *loop.Controller {
	return loop.New(loop.Options{
		Rand:           rand.New(rand.NewPCG(7, 8)),
		TickClock:      loop.NewManualClock(),
		CountdownClock: loop.NewManualClock(),
	})
}

func newTestClient(t *testing.T, ctrl *loop.Controller, in io.Reader, opts ClientOptions) (*Client, *bytes.Buffer) {
	t.Helper()
	if in == nil {
		r, w := io.Pipe()
		t.Cleanup(func() { w.Close() })
		in = r
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.FixedSize(80, 30)
	}
	out := &bytes.Buffer{}
	return NewClient(ctrl, in, out, opts), out
}

func render(t *testing.T, c *Client) string {
	t.Helper()
	out := c.writer.(*bytes.Buffer)
	out.Reset()
	c.updateScreen()
	if err := c.drawFrame(c.ctrl.Snapshot()); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

func TestTitleScreenShowsModesAndStats(t *testing.T) {
	tracker := stats.NewTracker(store.NewMemory(), nil)
	tracker.Observe(loop.Update{
		Event: loop.EventGameOver,
		State: game.State{Started: true, GameOver: true, Score: 4, Snake: make([]game.Position, 5)},
	})
	c, _ := newTestClient(t, newController(), nil, ClientOptions{Stats: tracker, Sound: &toggle{on: true}})

	frame := render(t, c)
	for _, want := range []string{"Select mode", "Classic", "Speed", "Survival", "Games 1", "Longest 5", "sound on"} {
		if !strings.Contains(frame, want) {
			t.Errorf("title frame lacks %q", want)
		}
	}
}

func TestTooSmallTerminal(t *testing.T) {
	c, _ := newTestClient(t, newController(), nil, ClientOptions{TermSizeFunc: draw.FixedSize(20, 10)})
	frame := render(t, c)
	if !strings.Contains(frame, "Terminal too small") {
		t.Fatalf("frame = %q", frame)
	}
}

func TestPlayingFrameDrawsSnakeAndHUD(t *testing.T) {
	ctrl := newController()
	c, _ := newTestClient(t, ctrl, nil, ClientOptions{Username: "ana"})
	ctrl.Start()

	frame := render(t, c)
	if !strings.Contains(frame, "██") {
		t.Fatal("frame lacks snake cells")
	}
	if !strings.Contains(frame, "Score 0") || !strings.Contains(frame, "ana") {
		t.Fatalf("HUD missing: %q", frame)
	}

	// An unchanged second frame only repaints overlays, not the board.
	second := render(t, c)
	if strings.Contains(second, "┌") {
		t.Fatal("unchanged frame must not redraw the border")
	}
}

func TestGameOverScreen(t *testing.T) {
	ctrl := newController()
	c, _ := newTestClient(t, ctrl, nil, ClientOptions{})
	ctrl.Start()
	for range game.GridWidth {
		ctrl.Tick()
	}
	if ctrl.Snapshot().Phase != loop.PhaseGameOver {
		t.Fatal("expected game over")
	}
	frame := render(t, c)
	if !strings.Contains(frame, "G A M E   O V E R") || !strings.Contains(frame, "You hit the wall") {
		t.Fatalf("frame = %q", frame)
	}
}

func TestKeysDriveController(t *testing.T) {
	ctrl := newController()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	r, w := io.Pipe()
	defer w.Close()
	c, _ := newTestClient(t, ctrl, r, ClientOptions{})

	go w.Write([]byte("2 "))

	deadline := time.Now().Add(2 * time.Second)
	for ctrl.Snapshot().Phase != loop.PhasePlaying {
		if time.Now().After(deadline) {
			t.Fatalf("controller never started: %+v", ctrl.Snapshot())
		}
		c.processInput()
		time.Sleep(time.Millisecond)
	}
	if got := ctrl.Snapshot().State.Mode; got != game.ModeSpeed {
		t.Fatalf("mode = %v, want SPEED", got)
	}
}

func TestMuteKeyTogglesSound(t *testing.T) {
	snd := &toggle{on: true}
	c, _ := newTestClient(t, newController(), strings.NewReader("m"), ClientOptions{Sound: snd})
	deadline := time.Now().Add(2 * time.Second)
	for snd.on {
		if time.Now().After(deadline) {
			t.Fatal("mute key not handled")
		}
		c.processInput()
		time.Sleep(time.Millisecond)
	}
	if !c.state.muted {
		t.Fatal("client must remember the muted state")
	}
}

func TestEatSpawnsParticles(t *testing.T) {
	c, _ := newTestClient(t, newController(), nil, ClientOptions{})
	c.Observe(loop.Update{Event: loop.EventTick, Tick: game.TickResult{Ate: true},
		State: game.State{Snake: []game.Position{{X: 3, Y: 4}}}})
	c.processEvents()
	if got := c.particles.Len(); got != config.BurstParticles {
		t.Fatalf("particles = %d, want %d", got, config.BurstParticles)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	c, out := newTestClient(t, newController(), strings.NewReader("q"), ClientOptions{})
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}
	if !strings.HasSuffix(out.String(), "\033[?25h") {
		t.Fatal("cursor must be restored on exit")
	}
}

func TestShutdownNotice(t *testing.T) {
	shutdown := make(chan struct{})
	c, _ := newTestClient(t, newController(), nil, ClientOptions{Shutdown: shutdown})
	close(shutdown)
	c.processEvents()
	frame := render(t, c)
	if !strings.Contains(frame, "SERVER SHUTTING DOWN") {
		t.Fatalf("frame = %q", frame)
	}
}

func TestTitleShowsLeaderboard(t *testing.T) {
	hub := server.NewServer()
	ana := hub.RegisterClient("ana")
	ana.Observe(loop.Update{Tick: game.TickResult{Ate: true}, State: game.State{Score: 12}})
	hub.RegisterClient("bo")

	c, _ := newTestClient(t, newController(), nil, ClientOptions{Leaderboard: hub})
	frame := render(t, c)
	if !strings.Contains(frame, "Online 2") || !strings.Contains(frame, "1. ana 12") {
		t.Fatalf("title frame lacks leaderboard: %q", frame)
	}
}

func TestLeaderboardLineFitsWidth(t *testing.T) {
	snap := server.Snapshot{Players: 3, TopScores: []server.TopScoreEntry{
		{Username: "averyveryverylong", Score: 100},
		{Username: "bo", Score: 3},
	}}
	if got := draw.TextWidth(leaderboardLine(snap, 20)); got > 20 {
		t.Fatalf("line width = %d, want <= 20", got)
	}
	if got := leaderboardLine(snap, 80); !strings.Contains(got, "2. bo 3") {
		t.Fatalf("wide line = %q", got)
	}
}
