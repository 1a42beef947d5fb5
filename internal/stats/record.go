// Package stats keeps lifetime statistics and achievements across games.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Record is the persisted lifetime summary.
type Record struct {
	TotalGames   int      `json:"totalGames"`
	TotalScore   int      `json:"totalScore"`
	AverageScore int      `json:"averageScore"`
	LongestSnake int      `json:"longestSnake"`
	Achievements []string `json:"achievements"`
}

// Empty returns a record with no games played.
func Empty() Record {
	return Record{Achievements: []string{}}
}

// WithGame returns r updated with one finished game.
func (r Record) WithGame(score, length int) Record {
	r.TotalGames++
	r.TotalScore += score
	r.LongestSnake = max(r.LongestSnake, length)
	r.AverageScore = int(math.Round(float64(r.TotalScore) / float64(r.TotalGames)))
	r.Achievements = slices.Clone(r.Achievements)
	return r
}

// Has reports whether the achievement is unlocked.
func (r Record) Has(id string) bool {
	return slices.Contains(r.Achievements, id)
}

// Unlock returns r with id added. added is false when it was already unlocked.
func (r Record) Unlock(id string) (out Record, added bool) {
	if r.Has(id) {
		return r, false
	}
	r.Achievements = append(slices.Clone(r.Achievements), id)
	return r, true
}

// Clone performs a deep copy of the record.
func (r Record) Clone() Record {
	r.Achievements = slices.Clone(r.Achievements)
	if r.Achievements == nil {
		r.Achievements = []string{}
	}
	return r
}

// Decode parses a stored record. Missing fields keep their zero values.
func Decode(raw string) (Record, error) {
	r := Empty()
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Empty(), fmt.Errorf("decode stats: %w", err)
	}
	return r.Clone(), nil
}

// Encode serializes the record for storage.
func (r Record) Encode() (string, error) {
	b, err := json.Marshal(r.Clone())
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}
	return string(b), nil
}
