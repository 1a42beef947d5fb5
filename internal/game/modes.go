package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownMode is returned when a mode name does not match any game mode.
var ErrUnknownMode = errors.New("unknown game mode")

// Mode selects the rule variant for a session.
type Mode int

const (
	ModeClassic Mode = iota
	ModeSpeed
	ModeSurvival
)

// ModeConfig describes how a mode scales speed and score.
type ModeConfig struct {
	Key             string
	Name            string
	Description     string
	SpeedMultiplier float64
	ScoreMultiplier int
	TimeLimit       int // Seconds; zero means no time limit
}

var modeConfigs = [...]ModeConfig{
	ModeClassic: {
		Key:             "CLASSIC",
		Name:            "Classic",
		Description:     "Traditional Snake gameplay",
		SpeedMultiplier: 1,
		ScoreMultiplier: 1,
	},
	ModeSpeed: {
		Key:             "SPEED",
		Name:            "Speed",
		Description:     "Faster pace with bonus points",
		SpeedMultiplier: 1.5,
		ScoreMultiplier: 2,
	},
	ModeSurvival: {
		Key:             "SURVIVAL",
		Name:            "Survival",
		Description:     "Beat the clock for triple points",
		SpeedMultiplier: 1,
		ScoreMultiplier: 3,
		TimeLimit:       120,
	},
}

// Modes lists every mode in menu order.
var Modes = []Mode{ModeClassic, ModeSpeed, ModeSurvival}

// Config returns the mode's configuration. Out-of-range values fall back to Classic.
func (m Mode) Config() ModeConfig {
	if !m.Valid() {
		return modeConfigs[ModeClassic]
	}
	return modeConfigs[m]
}

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	return m >= 0 && int(m) < len(modeConfigs)
}

// String returns the mode key, e.g. "SURVIVAL".
func (m Mode) String() string {
	return m.Config().Key
}

// Timed reports whether the mode runs against a countdown.
func (m Mode) Timed() bool {
	return m.Config().TimeLimit > 0
}

// StartSpeed is the tick interval in milliseconds a fresh game of this mode starts with.
func (m Mode) StartSpeed() int {
	speed := int(math.Round(InitialSpeed / m.Config().SpeedMultiplier))
	return clampSpeed(speed)
}

// MarshalText encodes the mode as its key.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode key.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode resolves a mode key or display name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.TrimSpace(s)
	for _, m := range Modes {
		cfg := m.Config()
		if strings.EqualFold(name, cfg.Key) || strings.EqualFold(name, cfg.Name) {
			return m, nil
		}
	}
	return ModeClassic, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func clampSpeed(speed int) int {
	return max(MaxSpeed, min(InitialSpeed, speed))
}
