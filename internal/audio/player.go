package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/snake/internal/loop"
)

// Player plays cues. Implementations must not block the caller.
type Player interface {
	Play(c Cue)
}

// Discard is a Player that plays nothing.
var Discard Player = discard{}

type discard struct{}

func (discard) Play(Cue) {}

// Speaker plays cues through the default output device. Cues are mixed so they can
// overlap.
type Speaker struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
}

var speakerOnce struct {
	sync.Once
	err error
}

// NewSpeaker initializes the output device. The device is opened once per process.
func NewSpeaker() (*Speaker, error) {
	speakerOnce.Do(func() {
		speakerOnce.err = speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond))
	})
	if speakerOnce.err != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerOnce.err)
	}
	s := &Speaker{mixer: &beep.Mixer{}, enabled: true}
	speaker.Play(s.mixer)
	return s, nil
}

// Play implements Player.
func (s *Speaker) Play(c Cue) {
	s.mu.Lock()
	enabled := s.enabled
	s.mu.Unlock()
	if !enabled {
		return
	}
	st := Render(c, SampleRate)
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Toggle flips sound on or off and reports the new setting.
func (s *Speaker) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = !s.enabled
	return s.enabled
}

// Enabled reports whether cues are played.
func (s *Speaker) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Close silences everything still playing.
func (s *Speaker) Close() {
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

// Cues turns controller updates into sounds: food eaten and game over.
type Cues struct {
	Player Player
}

var _ loop.Observer = Cues{}

// Observe implements loop.Observer.
func (o Cues) Observe(u loop.Update) {
	if o.Player == nil {
		return
	}
	if u.Tick.Ate {
		o.Player.Play(CueEat)
	}
	if u.Event == loop.EventGameOver {
		o.Player.Play(CueGameOver)
	}
}
