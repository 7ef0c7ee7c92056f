package object

import (
	"bytes"
	"testing"

	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/physics"
)

func TestTableWallsFaceInward(t *testing.T) {
	center := physics.V(config.TableWidth/2, config.TableHeight/2)
	walls := TableWalls()
	if len(walls) != 10 {
		t.Fatalf("got %d walls, want 10", len(walls))
	}
	for _, w := range walls {
		seg := w.Segment()
		n, ok := physics.SegmentNormal(seg.P0, seg.P1)
		if !ok {
			t.Fatalf("%s is degenerate", w.ID)
		}
		mid := seg.P0.Add(seg.P1).Scale(0.5)
		if n.Dot(center.Sub(mid)) <= 0 {
			t.Errorf("%s normal %v points away from the table", w.ID, n)
		}
		if !w.Solid {
			t.Errorf("%s should be solid", w.ID)
		}
	}
}

func TestGoalLinesSitBehindTable(t *testing.T) {
	home, away := GoalLines()
	if home.Solid || away.Solid {
		t.Fatal("goal lines must not be solid")
	}
	off := config.GoalLineDistance * config.PuckRadius
	if y := home.Segment().P0.Y; y != config.TableHeight-config.TablePadding+off {
		t.Errorf("home goal y = %v", y)
	}
	if y := away.Segment().P0.Y; y != -off {
		t.Errorf("away goal y = %v", y)
	}

	center := physics.V(config.TableWidth/2, config.TableHeight/2)
	for _, g := range []*physics.Entity{home, away} {
		seg := g.Segment()
		n, _ := physics.SegmentNormal(seg.P0, seg.P1)
		if n.Dot(center.Sub(seg.P0)) <= 0 {
			t.Errorf("%s should face the table", g.ID)
		}
	}
}

func TestSideHelpers(t *testing.T) {
	if SideHome.Opponent() != SideAway || SideAway.Opponent() != SideHome {
		t.Error("home and away should oppose each other")
	}
	if SideSpectator.Opponent() != SideSpectator {
		t.Error("spectators have no opponent")
	}
	if MalletID(SideAway) != AwayMalletID || MalletID(SideHome) != HomeMalletID {
		t.Error("wrong mallet IDs")
	}
	if SideAway.String() != "away" {
		t.Errorf("String() = %q", SideAway.String())
	}
}

func TestTransformFlipRoundTrip(t *testing.T) {
	tr := Transform{Width: 300, Height: 500, Flip: true}
	p := physics.V(40, 100)
	got := tr.Apply(p)
	if got.X != 260 || got.Y != 400 {
		t.Errorf("flipped point = %v, want (260,400)", got)
	}
	if back := tr.Invert(got); back != p {
		t.Errorf("inverse = %v, want %v", back, p)
	}
}

func TestViewsDraw(t *testing.T) {
	canvas := draw.NewScaledCanvas(30, 25, 300, 500)
	ctx := DrawContext{Canvas: canvas, Transform: Transform{Width: 300, Height: 500}}

	puck, ok := ViewCircle(NewPuck(physics.V(150, 250)))
	if !ok {
		t.Fatal("puck should be a circle")
	}
	puck.Draw(ctx)
	if !canvas.Pixel(15, 25) {
		t.Error("puck should be drawn filled")
	}

	if _, ok := ViewSegment(NewPuck(physics.V(0, 0))); ok {
		t.Error("a circle is not a segment")
	}

	// wall-2 runs down the left side at x=10.
	wall, _ := ViewSegment(TableWalls()[2])
	wall.Draw(ctx)
	if !canvas.Pixel(1, 25) {
		t.Error("left wall should be drawn at column 1")
	}

	flipped := draw.NewScaledCanvas(30, 25, 300, 500)
	wall.Draw(DrawContext{Canvas: flipped, Transform: Transform{Width: 300, Height: 500, Flip: true}})
	if !flipped.Pixel(29, 25) || flipped.Pixel(1, 25) {
		t.Error("flipped view should draw the left wall on the right")
	}
}

func TestTextDraw(t *testing.T) {
	var buf bytes.Buffer
	if err := (Text{X: 0, Y: 3, Value: "GOAL"}).Draw(&buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\033[3;1HGOAL" {
		t.Errorf("got %q, want column clamped to 1", got)
	}

	buf.Reset()
	if err := (Text{X: 5, Y: 5}).Draw(&buf); err != nil || buf.Len() != 0 {
		t.Errorf("empty text wrote %q", buf.String())
	}
}
