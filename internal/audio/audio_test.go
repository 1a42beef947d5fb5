package audio

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/loop"
)

// drain streams s to the end and returns the sample count and peak amplitude.
func drain(t *testing.T, s beep.Streamer) (samples int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for range 10000 {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = max(peak, math.Abs(smp[0]))
		}
		samples += n
		if !ok {
			return samples, peak
		}
	}
	t.Fatal("streamer never drained")
	return 0, 0
}

func TestSquareWave(t *testing.T) {
	rate := beep.SampleRate(8000)
	osc := newSquare(1000, 10*time.Millisecond, rate)
	buf := make([][2]float64, 8)
	n, ok := osc.Stream(buf)
	if !ok || n != 8 {
		t.Fatalf("stream = %d, %v", n, ok)
	}
	want := []float64{1, 1, 1, 1, -1, -1, -1, -1}
	for i, w := range want {
		if buf[i][0] != w || buf[i][1] != w {
			t.Fatalf("sample %d = %v, want %v", i, buf[i], w)
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	env := newEnvelope(newSquare(1, 100*time.Millisecond, rate), 100*time.Millisecond, rate)
	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("n = %d", n)
	}
	if buf[0][0] != 0 {
		t.Fatalf("attack must start silent, got %v", buf[0][0])
	}
	if math.Abs(buf[10][0]-1) > 1e-9 {
		t.Fatalf("gain after attack = %v, want 1", buf[10][0])
	}
	if g := math.Abs(buf[99][0]); g > 0.002 {
		t.Fatalf("tail gain = %v, want near %v", g, decayGain)
	}
}

func TestCueLengths(t *testing.T) {
	tests := []struct {
		cue    Cue
		length time.Duration
		volume float64
	}{
		{CueEat, 100 * time.Millisecond, 0.3},
		{CueGameOver, 500 * time.Millisecond, 0.5},
		{CueAchievement, 500 * time.Millisecond, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.cue.String(), func(t *testing.T) {
			score, ok := ScoreFor(tt.cue)
			if !ok || score.Length() != tt.length || score.Volume != tt.volume {
				t.Fatalf("score = %+v", score)
			}

			rate := beep.SampleRate(8000)
			n, peak := drain(t, Render(tt.cue, rate))
			want := rate.N(tt.length)
			if n < want-512 || n > want+512 {
				t.Fatalf("rendered %d samples, want about %d", n, want)
			}
			limit := tt.volume*float64(len(score.Tones)) + 1e-9
			if peak == 0 || peak > limit {
				t.Fatalf("peak = %v, want in (0, %v]", peak, limit)
			}
		})
	}
}

type recorder struct {
	cues []Cue
}

func (r *recorder) Play(c Cue) { r.cues = append(r.cues, c) }

func TestCuesObserver(t *testing.T) {
	rec := &recorder{}
	obs := Cues{Player: rec}

	obs.Observe(loop.Update{Event: loop.EventTick, Tick: game.TickResult{Moved: true}})
	obs.Observe(loop.Update{Event: loop.EventTick, Tick: game.TickResult{Moved: true, Ate: true}})
	obs.Observe(loop.Update{Event: loop.EventGameOver, Tick: game.TickResult{GameOver: true}})

	want := []Cue{CueEat, CueGameOver}
	if !slices.Equal(rec.cues, want) {
		t.Fatalf("cues = %v, want %v", rec.cues, want)
	}

	Cues{}.Observe(loop.Update{Event: loop.EventGameOver})
	Discard.Play(CueEat)
}
