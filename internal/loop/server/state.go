package server

import "github.com/tomz197/snake/internal/game"

// TopScoreEntry is one line of the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	Mode     game.Mode
	clientID int // Tie-break when scores are equal: the earlier session ranks first
}

// Snapshot is an immutable view of the connected players for rendering.
type Snapshot struct {
	Players   int
	TopScores []TopScoreEntry // Best score per user, highest first
}

// rank orders entries by score, then by who got there first.
func rank(a, b TopScoreEntry) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	return a.clientID - b.clientID
}
