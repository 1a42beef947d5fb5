package web

import (
	"github.com/tomz197/snake/internal/game"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/stats"
)

// Server message types.
const (
	TypeHello       = "hello"
	TypeUpdate      = "update"
	TypeAchievement = "achievement"
	TypeError       = "error"
)

// Client message types.
const (
	TypeKey   = "key"
	TypeSwipe = "swipe"
	TypeMode  = "mode"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type string  `json:"type"`
	Key  string  `json:"key,omitempty"` // KeyboardEvent.key
	DX   float64 `json:"dx,omitempty"`  // Swipe displacement in CSS pixels
	DY   float64 `json:"dy,omitempty"`
	Mode string  `json:"mode,omitempty"` // Mode key, e.g. "SPEED"
}

// ModeInfo describes a selectable mode for the page's menu.
type ModeInfo struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ScoreMultiplier int    `json:"scoreMultiplier"`
	TimeLimit       int    `json:"timeLimit,omitempty"`
}

// BoardInfo is sent once per connection so the page can size its canvas.
type BoardInfo struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Modes  []ModeInfo `json:"modes"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type        string             `json:"type"`
	Session     string             `json:"session,omitempty"`
	Board       *BoardInfo         `json:"board,omitempty"`
	Update      *loop.Update       `json:"update,omitempty"`
	Stats       *stats.Record      `json:"stats,omitempty"`
	Achievement *stats.Achievement `json:"achievement,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func boardInfo() *BoardInfo {
	info := &BoardInfo{Width: game.GridWidth, Height: game.GridHeight}
	for _, m := range game.Modes {
		cfg := m.Config()
		info.Modes = append(info.Modes, ModeInfo{
			Key:             cfg.Key,
			Name:            cfg.Name,
			Description:     cfg.Description,
			ScoreMultiplier: cfg.ScoreMultiplier,
			TimeLimit:       cfg.TimeLimit,
		})
	}
	return info
}
