package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue identifies a sound effect.
type Cue int

const (
	CueEat Cue = iota
	CueGameOver
	CueAchievement
)

func (c Cue) String() string {
	switch c {
	case CueEat:
		return "eat"
	case CueGameOver:
		return "game-over"
	case CueAchievement:
		return "achievement"
	}
	return "unknown"
}

// Score describes a cue as overlapping tones at one volume.
type Score struct {
	Volume float64
	Tones  []Tone
}

var scores = map[Cue]Score{
	CueEat: {
		Volume: 0.3,
		Tones:  []Tone{{Freq: 800, Duration: 100 * time.Millisecond}},
	},
	CueGameOver: {
		Volume: 0.5,
		Tones: []Tone{
			{Freq: 200, Duration: 500 * time.Millisecond},
			{Freq: 150, Duration: 300 * time.Millisecond, Offset: 200 * time.Millisecond},
		},
	},
	CueAchievement: {
		Volume: 0.4,
		Tones: []Tone{
			{Freq: 600, Duration: 200 * time.Millisecond},
			{Freq: 800, Duration: 200 * time.Millisecond, Offset: 100 * time.Millisecond},
			{Freq: 1000, Duration: 300 * time.Millisecond, Offset: 200 * time.Millisecond},
		},
	},
}

// ScoreFor returns the tones of a cue.
func ScoreFor(c Cue) (Score, bool) {
	s, ok := scores[c]
	return s, ok
}

// Length is the time from the cue's start to the end of its last tone.
func (s Score) Length() time.Duration {
	var end time.Duration
	for _, t := range s.Tones {
		end = max(end, t.Offset+t.Duration)
	}
	return end
}

// Render builds a streamer for the cue. Overlapping tones are mixed.
func Render(c Cue, rate beep.SampleRate) beep.Streamer {
	s, ok := scores[c]
	if !ok {
		return beep.Silence(0)
	}
	parts := make([]beep.Streamer, 0, len(s.Tones))
	for _, t := range s.Tones {
		parts = append(parts, t.streamer(rate))
	}
	return volume(beep.Mix(parts...), s.Volume)
}
