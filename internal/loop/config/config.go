// Package config centralizes session and client tunables. Grid geometry and
// scoring live with the simulation in internal/game.
package config

import "time"

// Controller
const (
	CountdownInterval = time.Second // Survival timer resolution
	CommandBuffer     = 64          // Pending commands before Send starts dropping
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	HUDRows               = 2 // Status lines above the board
	FooterRows            = 1 // Hint line below the board
)

// Particles spawned when food is eaten
const (
	BurstParticles = 10
	BurstSpeed     = 6.0 // Cells per second
	BurstLifetime  = 0.6 // Seconds
	ParticleDrag   = 0.9
)

// Inactivity, for remote sessions only
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Remote players
const (
	MaxUsernameLength = 16
)
