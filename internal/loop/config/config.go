// Package config centralizes all tunable game parameters.
package config

import "time"

// Table geometry in logical units. The playing surface is inset by
// TablePadding on every side; walls run along its edge.
const (
	TableWidth   = 300
	TableHeight  = 500
	TablePadding = 10
	GoalLeftX    = 80  // Left post of both goal gaps
	GoalRightX   = 220 // Right post of both goal gaps
)

// Pieces
const (
	PuckRadius        = 13.0
	PuckRestitution   = 0.8
	MalletRadius      = 25.0
	HomeMalletY       = 450.0
	AwayMalletY       = 50.0
	GoalLineDistance  = 3.0 // Goal lines sit this many puck radii behind the walls
	HomeServeY        = 375.0
	AwayServeY        = 125.0
	MalletKeyStep     = 12.0 // Target movement per arrow/WASD press
	MaxPuckVelocity   = 800.0
	CollisionEpsilon  = 0.0001
	MaxFrameDeltaSecs = 0.1 // Longer frames (e.g. after a stall) are simulated as this
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Goal celebration
const (
	GoalBannerSeconds = 1.5
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering. The table is portrait, so the render area is capped on
// rows and its width follows from the table's aspect ratio.
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 120
	MaxTermHeight         = 60
	HUDColumns            = 24 // Columns reserved right of the table for scores
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)

// Spectator feed
const (
	SpectatorRate      = 30
	SpectatorFrameTime = time.Second / SpectatorRate
)
