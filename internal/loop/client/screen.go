package client

import (
	"fmt"
	"time"

	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/loop/server"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

// hudWidth is the usable width of a HUD line, leaving a column of margin
// on each side.
const hudWidth = config.HUDColumns - 2

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On state, inactivity or banner transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	hasBanner := c.state.banner != ""
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged || hasBanner != c.state.hadBanner {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.hadBanner = hasBanner
	}

	c.canvas.Clear()

	snapshot := c.server.GetSnapshot()

	if c.state.GameState == GameStatePlaying && !c.state.isInactive {
		ctx := object.DrawContext{
			Canvas:    c.canvas,
			Writer:    c.chunkWriter,
			Transform: c.state.transform(config.TableWidth, config.TableHeight),
		}
		drawTable(ctx, snapshot)
	}

	// Render canvas to terminal
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	if err := c.drawUI(snapshot); err != nil {
		return err
	}

	return c.chunkWriter.Flush()
}

// drawTable draws the center line, walls, goal lines, mallets and puck.
func drawTable(ctx object.DrawContext, snapshot *server.WorldSnapshot) {
	const (
		p   = config.TablePadding
		mid = config.TableHeight / 2
	)
	ctx.Canvas.DrawDottedLine(
		ctx.Transform.Apply(physics.V(p, mid)),
		ctx.Transform.Apply(physics.V(config.TableWidth-p, mid)),
	)

	for _, w := range snapshot.Walls {
		w.Draw(ctx)
	}
	snapshot.HomeGoal.Draw(ctx)
	snapshot.AwayGoal.Draw(ctx)
	snapshot.Home.Draw(ctx)
	snapshot.Away.Draw(ctx)
	snapshot.Puck.Draw(ctx)
}

// drawUI draws the screens and HUD over the canvas.
func (c *Client) drawUI(snapshot *server.WorldSnapshot) error {
	tableCols := c.canvas.TerminalWidth()
	rows := c.canvas.TerminalHeight()
	centerX := (tableCols + config.HUDColumns) / 2 // Full screens span table and HUD
	centerY := rows / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return nil
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return nil
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStatePlaying:
		c.drawHUD(tableCols+3, rows, snapshot)
		if c.state.banner != "" {
			return c.drawBanner()
		}
	}
	return nil
}

// drawBanner draws the goal or seat message in reverse video over the
// center of the table.
func (c *Client) drawBanner() error {
	col, row := c.canvas.LogicalToTerminal(config.TableWidth/2, config.TableHeight/2)
	msg := " " + c.state.banner + " "
	banner := object.Text{
		X:     col - len(msg)/2,
		Y:     row,
		Value: draw.SeqReverseVideo + msg + draw.SeqResetStyle,
	}
	return banner.Draw(c.chunkWriter)
}

// drawHUD draws scores, players and controls to the right of the table.
// Lines are padded to a fixed width so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(col, rows int, snapshot *server.WorldSnapshot) {
	lines := hudLines(c.state.Side, snapshot)
	for i, line := range lines {
		row := i + 1
		if row > rows {
			break
		}
		c.chunkWriter.WriteAt(col, row, fmt.Sprintf("%-*.*s", hudWidth, hudWidth, line))
	}
}

// hudLines lists the HUD text for a viewer. The player shown first is the
// one at the top of the viewer's screen.
func hudLines(viewer object.Side, snapshot *server.WorldSnapshot) []string {
	type row struct {
		side  object.Side
		name  string
		score int
	}
	home := row{object.SideHome, snapshot.HomePlayer, snapshot.Score.Home}
	away := row{object.SideAway, snapshot.AwayPlayer, snapshot.Score.Away}
	top, bottom := away, home
	if viewer == object.SideAway {
		top, bottom = home, away
	}

	player := func(r row) string {
		name := r.name
		if name == "" {
			name = "(open)"
		}
		return fmt.Sprintf("%-4s %-11.11s %3d", r.side, name, r.score)
	}

	you := "Watching"
	if viewer != object.SideSpectator {
		you = "You play " + viewer.String()
	}

	return []string{
		"AIR HOCKEY",
		"",
		player(top),
		player(bottom),
		"",
		you,
		fmt.Sprintf("Round %d", snapshot.Round),
		fmt.Sprintf("Spectators %d", snapshot.Spectators),
		"",
		"Mouse  . . . move",
		"Click  . . . place",
		"WASD / arrows nudge",
		"Q  . . . . . quit",
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVE"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"Disconnecting in %d s",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		`   _   _       `,
		`  /_\ (_)_ _   `,
		` / _ \| | '_|  `,
		`/_/ \_\_|_|    `,
		` _  _         _             `,
		`| || |___  __| |_____ _  _  `,
		`| __ / _ \/ _| / / -_) || | `,
		`|_||_\___/\__|_\_\___|\_, | `,
		`                      |__/  `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 9
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	y := titleStartY + len(titleArt) + 1
	subtitle := "~ over SSH ~"
	cw.WriteAt(centerX-len(subtitle)/2, y, subtitle)

	seat := "The table is full, you will watch"
	if c.state.Side != object.SideSpectator {
		seat = "You play " + c.state.Side.String()
	}
	cw.WriteAt(centerX-len(seat)/2, y+2, seat)

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">> SPACE or click <<"
		cw.WriteAt(centerX-len(prompt)/2, y+4, prompt)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, title)

	msg := "Please reconnect soon."
	cw.WriteAt(centerX-len(msg)/2, centerY-1, msg)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d s", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+1, countdown)

	hint := "Press Q to leave now"
	cw.WriteAt(centerX-len(hint)/2, centerY+3, hint)
}
