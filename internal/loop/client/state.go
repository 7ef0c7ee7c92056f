package client

import (
	"time"

	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/input"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // At the table, playing or watching
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection state (input, side, mallet target, banners).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input        input.Input
	GameState    GameState         // This client's game phase
	Side         object.Side       // Which end of the table this client plays
	Target       physics.Vec2      // Where this client wants its mallet, in table coordinates
	targetSet    bool              // Target has been seeded from the mallet's position
	termSizeFunc draw.TermSizeFunc // Function to get terminal size
	Running      bool              // Client loop running
	delta        time.Duration     // Frame delta time (client-side)

	banner      string  // Goal or seat message shown over the table
	bannerTimer float64 // Seconds left to show the banner

	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state

	// Previous frame's screen, used to clear stale overlays on transitions.
	prevGameState GameState
	wasInactive   bool
	hadBanner     bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Side:      object.SideSpectator,
		Running:   true,
	}
}

// transform returns how this client sees the table. The away player looks
// at it rotated so their own mallet is at the bottom.
func (s *ClientState) transform(width, height float64) object.Transform {
	return object.Transform{Width: width, Height: height, Flip: s.Side == object.SideAway}
}
