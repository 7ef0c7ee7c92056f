package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/airhockey/internal/input"
	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/loop/server"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, keys string, out io.Writer) (*Client, *server.Server) {
	t.Helper()
	srv := server.NewServer(log.New(io.Discard))
	c := NewClient(srv, bufio.NewReader(strings.NewReader(keys)), out, ClientOptions{
		TermSizeFunc: fixedSize(80, 24),
		Username:     "alice",
	})
	return c, srv
}

func TestLayoutKeepsAspectAndRoomForHUD(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
	}{
		{"classic terminal", 80, 24, 26, 22},
		{"narrow", 40, 50, 14, 11},
		{"huge is capped", 400, 200, 70, 58},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows, offCol, offRow := layout(tt.w, tt.h)
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("layout = %dx%d, want %dx%d", cols, rows, tt.cols, tt.rows)
			}
			if offCol < 1 || offRow < 1 {
				t.Errorf("offsets (%d,%d) leave no room for the border", offCol, offRow)
			}
			if offCol+cols+1+config.HUDColumns > tt.w+1 {
				t.Errorf("table and HUD overflow %d columns", tt.w)
			}
		})
	}
}

func TestCommandFromNudgeFollowsFlippedView(t *testing.T) {
	c, _ := newTestClient(t, "", io.Discard)
	c.state.Side = object.SideAway
	c.state.Target = physics.V(150, 50)
	c.state.targetSet = true

	cmd, ok := c.command(input.Input{DX: 1})
	if !ok {
		t.Fatal("nudge should produce a command")
	}
	// Right on the away player's screen is left on the table.
	if want := physics.V(150-config.MalletKeyStep, 50); physics.Distance(cmd.Target, want) > 1e-9 {
		t.Errorf("target = %v, want %v", cmd.Target, want)
	}
	if cmd.Teleport {
		t.Error("nudges never teleport")
	}
}

func TestCommandFromPointer(t *testing.T) {
	c, _ := newTestClient(t, "", io.Discard)
	c.state.Side = object.SideHome
	c.state.Target = physics.V(150, 450)
	c.state.targetSet = true

	col, row := c.canvas.LogicalToTerminal(150, 400)
	cmd, ok := c.command(input.Input{Pointer: true, Press: true, Col: col, Row: row})
	if !ok || !cmd.Teleport {
		t.Fatalf("press should teleport, got %+v ok=%v", cmd, ok)
	}
	// One cell is about 12 units wide and 23 tall at 80x24.
	if d := cmd.Target.Sub(physics.V(150, 400)); d.X*d.X > 144 || d.Y*d.Y > 529 {
		t.Errorf("target = %v, want near (150,400)", cmd.Target)
	}

	// Pointing into the opponent's half clamps to the center line.
	col, row = c.canvas.LogicalToTerminal(150, 100)
	cmd, _ = c.command(input.Input{Pointer: true, Col: col, Row: row})
	if cmd.Target.Y != 275 {
		t.Errorf("target y = %v, want 275", cmd.Target.Y)
	}
}

func TestSpectatorSendsNoCommands(t *testing.T) {
	c, _ := newTestClient(t, "", io.Discard)
	c.state.Side = object.SideSpectator
	c.state.targetSet = true
	if _, ok := c.command(input.Input{DX: 1, Pointer: true}); ok {
		t.Error("spectators should not command a mallet")
	}
}

func TestGoalBanner(t *testing.T) {
	tests := []struct {
		viewer, scorer object.Side
		want           string
	}{
		{object.SideHome, object.SideHome, "GOAL! You scored"},
		{object.SideHome, object.SideAway, "Goal against you"},
		{object.SideSpectator, object.SideAway, "GOAL for away"},
	}
	for _, tt := range tests {
		if got := goalBanner(tt.viewer, tt.scorer); got != tt.want {
			t.Errorf("goalBanner(%v, %v) = %q, want %q", tt.viewer, tt.scorer, got, tt.want)
		}
	}
}

func TestHUDPutsTopPlayerFirst(t *testing.T) {
	snap := &server.WorldSnapshot{HomePlayer: "alice", AwayPlayer: "bob"}
	snap.Score = server.Score{Home: 2, Away: 5}

	lines := hudLines(object.SideAway, snap)
	if !strings.Contains(lines[2], "alice") || !strings.Contains(lines[3], "bob") {
		t.Errorf("away viewer should see home on top: %q / %q", lines[2], lines[3])
	}
	lines = hudLines(object.SideHome, &server.WorldSnapshot{HomePlayer: "alice"})
	if !strings.Contains(lines[2], "(open)") {
		t.Errorf("free seat should read open: %q", lines[2])
	}
}

func TestRunQuitsAndUnregisters(t *testing.T) {
	var out bytes.Buffer
	c, srv := newTestClient(t, " q", &out)

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "\033[?1003h") || !strings.Contains(out.String(), "\033[?1003l") {
		t.Error("mouse tracking should be enabled and restored")
	}
	if srv.Side(c.handle.ID) != object.SideSpectator {
		t.Error("client should be unregistered after quitting")
	}
	// The seat is free again.
	if h := srv.RegisterClient("bob"); srv.Side(h.ID) != object.SideHome {
		t.Error("home seat should be free after the client left")
	}
}
