// Package web serves the landing page and a websocket spectator feed of
// the table.
package web

import (
	"math"

	"github.com/tomz197/airhockey/internal/loop/server"
	"github.com/tomz197/airhockey/internal/object"
)

// Circle is a puck or mallet on the wire.
type Circle struct {
	ID string  `msgpack:"id"`
	X  float64 `msgpack:"x"`
	Y  float64 `msgpack:"y"`
	R  float64 `msgpack:"r"`
}

// Line is a wall or goal line on the wire.
type Line struct {
	X0    float64 `msgpack:"x0"`
	Y0    float64 `msgpack:"y0"`
	X1    float64 `msgpack:"x1"`
	Y1    float64 `msgpack:"y1"`
	Solid bool    `msgpack:"solid"`
}

// Frame is one spectator update, encoded with msgpack.
type Frame struct {
	Puck       Circle `msgpack:"puck"`
	Home       Circle `msgpack:"home"`
	Away       Circle `msgpack:"away"`
	Lines      []Line `msgpack:"lines"`
	HomeScore  int    `msgpack:"hs"`
	AwayScore  int    `msgpack:"as"`
	HomePlayer string `msgpack:"hp"`
	AwayPlayer string `msgpack:"ap"`
	Round      int    `msgpack:"round"`
	Spectators int    `msgpack:"spec"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func circle(v object.CircleView) Circle {
	return Circle{ID: v.ID, X: round1(v.Position.X), Y: round1(v.Position.Y), R: v.Radius}
}

func line(v object.SegmentView) Line {
	return Line{X0: v.P0.X, Y0: v.P0.Y, X1: v.P1.X, Y1: v.P1.Y, Solid: v.Solid}
}

// NewFrame converts a snapshot to its wire form. Coordinates are rounded to
// a tenth of a unit.
func NewFrame(snap *server.WorldSnapshot) Frame {
	f := Frame{
		Puck:       circle(snap.Puck),
		Home:       circle(snap.Home),
		Away:       circle(snap.Away),
		Lines:      make([]Line, 0, len(snap.Walls)+2),
		HomeScore:  snap.Score.Home,
		AwayScore:  snap.Score.Away,
		HomePlayer: snap.HomePlayer,
		AwayPlayer: snap.AwayPlayer,
		Round:      snap.Round,
		Spectators: snap.Spectators,
	}
	for _, w := range snap.Walls {
		f.Lines = append(f.Lines, line(w))
	}
	f.Lines = append(f.Lines, line(snap.HomeGoal), line(snap.AwayGoal))
	return f
}
