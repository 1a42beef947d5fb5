package store

import (
	"fmt"
	"strconv"
	"strings"
)

// HighScores reads and writes the high score as a decimal string.
type HighScores struct {
	store Store
}

// NewHighScores wraps s.
func NewHighScores(s Store) *HighScores {
	return &HighScores{store: s}
}

// parseScore decodes a stored high score.
func parseScore(raw string) (int, error) {
	return parseScore(raw)
}

// Load returns the stored high score, or 0 when none is stored.
// On error the returned score is 0 as well.
func (h *HighScores) Load() (int, error) {
	raw, ok, err := h.store.Get(HighScoreKey)
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return parseScore(raw)
}

// SaveHighScore stores score unless the stored value is already at least as high.
// Sessions sharing a key each load the score once, so a late writer must not
// replace a higher score saved since.
func (h *HighScores) SaveHighScore(score int) error {
	err := h.store.Update(HighScoreKey, func(old string, ok bool) (string, bool) {
		if ok {
			if stored, err := parseScore(old); err == nil && stored >= score {
				return old, false
			}
		}
		return strconv.Itoa(score), true
	})
	if err != nil {
		return fmt.Errorf("write high score: %w", err)
	}
	return nil
}
