package client

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/input"
	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/loop/server"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

// tableAspect is the table's width in terminal columns per row. A cell is
// one sub-pixel wide and two tall, and sub-pixels are roughly square.
const tableAspect = 2.0 * config.TableWidth / config.TableHeight

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	termWidth, termHeight, err := termSizeFunc()
	if err != nil {
		termWidth, termHeight = 80, 24
	}
	cols, rows, offsetCol, offsetRow := layout(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(cols, rows, config.TableWidth, config.TableHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Check for server events first so a new seat applies to this frame's input
		c.processServerEvents()

		c.processInput()

		// Handle screen resize
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and turns it into a mallet command.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	in := c.state.Input

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
	}

	if c.state.GameState != GameStatePlaying {
		return
	}
	if cmd, ok := c.command(in); ok {
		c.server.SendCommand(c.handle.ID, cmd)
	}
}

// command converts this frame's pointer and nudges into a mallet command.
// It reports false when the client is not seated or nothing changed.
func (c *Client) command(in input.Input) (server.MalletCommand, bool) {
	if c.state.Side == object.SideSpectator || !c.state.targetSet {
		return server.MalletCommand{}, false
	}
	if !in.Pointer && in.DX == 0 && in.DY == 0 {
		return server.MalletCommand{}, false
	}

	tr := c.state.transform(config.TableWidth, config.TableHeight)
	screen := tr.Apply(c.state.Target)
	if in.Pointer {
		screen.X, screen.Y = c.canvas.TerminalToLogical(in.Col, in.Row)
	}
	screen.X += float64(in.DX) * config.MalletKeyStep
	screen.Y += float64(in.DY) * config.MalletKeyStep

	c.state.Target = server.ClampTarget(c.state.Side, tr.Invert(screen))
	return server.MalletCommand{Target: c.state.Target, Teleport: in.Press}, true
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventSeatChanged:
				c.state.Side = event.Side
				c.state.targetSet = false
				c.showBanner("You play " + event.Side.String())
			case server.EventGoal:
				c.showBanner(goalBanner(c.state.Side, event.Side))
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

func (c *Client) showBanner(msg string) {
	c.state.banner = msg
	c.state.bannerTimer = config.GoalBannerSeconds
}

// goalBanner words a goal from the viewer's point of view.
func goalBanner(viewer, scorer object.Side) string {
	switch {
	case viewer == object.SideSpectator:
		return "GOAL for " + scorer.String()
	case viewer == scorer:
		return "GOAL! You scored"
	default:
		return "Goal against you"
	}
}

// updateScreen handles terminal resize, fitting the table and the HUD.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	cols, rows, offsetCol, offsetRow := layout(termWidth, termHeight)

	if cols != c.canvas.TerminalWidth() || rows != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(cols, rows)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// layout fits the table, its border and the HUD into the terminal and
// centers them. The table keeps its aspect ratio.
func layout(termWidth, termHeight int) (cols, rows, offsetCol, offsetRow int) {
	rows = max(min(termHeight, config.MaxTermHeight)-2, 1)
	cols = int(float64(rows)*tableAspect + 0.5)

	if avail := min(termWidth, config.MaxTermWidth) - config.HUDColumns - 2; cols > avail {
		cols = max(avail, 1)
		rows = max(int(float64(cols)/tableAspect), 1)
	}

	offsetCol = max((termWidth-cols-2-config.HUDColumns)/2, 0) + 1
	offsetRow = max((termHeight-rows-2)/2, 0) + 1
	return cols, rows, offsetCol, offsetRow
}

// updateStartState handles the start screen.
func (c *Client) updateStartState() {
	if c.state.Input.Space || c.state.Input.Press {
		c.state.GameState = GameStatePlaying
	}
}

// updatePlayingState seeds the mallet target from the table and counts
// down the banner.
func (c *Client) updatePlayingState() {
	if !c.state.targetSet {
		if pos, ok := mallet(c.server.GetSnapshot(), c.state.Side); ok {
			c.state.Target = pos
			c.state.targetSet = true
		}
	}

	if c.state.bannerTimer > 0 {
		c.state.bannerTimer -= c.state.delta.Seconds()
		if c.state.bannerTimer <= 0 {
			c.state.bannerTimer = 0
			c.state.banner = ""
		}
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// mallet returns this client's mallet from a snapshot.
func mallet(snapshot *server.WorldSnapshot, side object.Side) (physics.Vec2, bool) {
	switch side {
	case object.SideHome:
		return snapshot.Home.Position, true
	case object.SideAway:
		return snapshot.Away.Position, true
	default:
		return physics.Vec2{}, false
	}
}
