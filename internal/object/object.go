// Package object builds the air hockey table's entities and draws
// snapshot views of them.
package object

import (
	"io"

	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/physics"
)

// Side identifies which end of the table a connection plays.
type Side int

const (
	SideSpectator Side = iota
	SideHome           // Bottom of the table
	SideAway           // Top of the table
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "spectator"
	}
}

// Opponent returns the other playing side. Spectators have no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	default:
		return SideSpectator
	}
}

// Entity IDs. Walls are numbered "wall-0" to "wall-9".
const (
	PuckID       = physics.PuckID
	HomeMalletID = "home"
	AwayMalletID = "away"
	HomeGoalID   = "home-goal" // Behind the home mallet; a puck here scores for away
	AwayGoalID   = "away-goal"
)

// MalletID returns the entity ID of a side's mallet.
func MalletID(s Side) string {
	if s == SideAway {
		return AwayMalletID
	}
	return HomeMalletID
}

// Transform maps table coordinates to screen coordinates. Flip rotates the
// table by 180 degrees so the away player sees their mallet at the bottom.
type Transform struct {
	Width, Height float64
	Flip          bool
}

// Apply converts a table point to a screen point.
func (t Transform) Apply(p physics.Vec2) draw.Point {
	if t.Flip {
		return draw.Point{X: t.Width - p.X, Y: t.Height - p.Y}
	}
	return draw.Point{X: p.X, Y: p.Y}
}

// Invert converts a screen point back to table coordinates.
func (t Transform) Invert(p draw.Point) physics.Vec2 {
	if t.Flip {
		return physics.V(t.Width-p.X, t.Height-p.Y)
	}
	return physics.V(p.X, p.Y)
}

// DrawContext provides drawing resources for views.
type DrawContext struct {
	Canvas    *draw.Canvas // High-resolution canvas (2x vertical)
	Writer    io.Writer    // Direct terminal output for text
	Transform Transform
}
