// Package audio synthesizes the game's sound cues with beep and plays them through
// the system speaker.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate every cue is rendered at.
const SampleRate = beep.SampleRate(44100)

const (
	attack    = 10 * time.Millisecond
	decayGain = 0.001 // Gain reached at the end of a tone
)

// square is a square-wave oscillator that stops after a fixed number of samples.
type square struct {
	freq     float64
	phase    float64
	position int
	total    int
	rate     beep.SampleRate
}

func newSquare(freq float64, d time.Duration, rate beep.SampleRate) *square {
	return &square{freq: freq, total: rate.N(d), rate: rate}
}

func (o *square) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, i > 0
		}
		val := -1.0
		if o.phase < 0.5 {
			val = 1.0
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *square) Err() error { return nil }

// envelope ramps linearly up over the attack and then decays exponentially to
// decayGain at the end of the tone.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	total    int
}

func newEnvelope(s beep.Streamer, d time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{streamer: s, attack: rate.N(attack), total: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := range n {
		var gain float64
		switch {
		case e.position < e.attack:
			gain = float64(e.position) / float64(e.attack)
		default:
			span := float64(max(e.total-e.attack, 1))
			gain = math.Pow(decayGain, float64(e.position-e.attack)/span)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// volume scales s linearly; zero or negative volumes are silent.
func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Tone is a square-wave note starting at Offset from the beginning of a cue.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Offset   time.Duration
}

// streamer renders the tone, preceded by silence for its offset.
func (t Tone) streamer(rate beep.SampleRate) beep.Streamer {
	note := newEnvelope(newSquare(t.Freq, t.Duration, rate), t.Duration, rate)
	if t.Offset <= 0 {
		return note
	}
	return beep.Seq(beep.Silence(rate.N(t.Offset)), note)
}
