package object

import (
	"github.com/tomz197/airhockey/internal/physics"
)

// CircleView is an immutable copy of a circle entity for rendering.
type CircleView struct {
	ID        string
	Position  physics.Vec2
	Velocity  physics.Vec2
	Radius    float64
	Collision bool // Touched something during the last tick
}

// SegmentView is an immutable copy of a segment entity for rendering.
type SegmentView struct {
	ID    string
	P0    physics.Vec2
	P1    physics.Vec2
	Solid bool
}

// ViewCircle copies a circle entity. It reports false for other shapes.
func ViewCircle(e *physics.Entity) (CircleView, bool) {
	c := e.Circle()
	if c == nil {
		return CircleView{}, false
	}
	return CircleView{
		ID:        e.ID,
		Position:  c.Position,
		Velocity:  c.Velocity,
		Radius:    c.Radius,
		Collision: e.Collision,
	}, true
}

// ViewSegment copies a segment entity. It reports false for other shapes.
func ViewSegment(e *physics.Entity) (SegmentView, bool) {
	s := e.Segment()
	if s == nil {
		return SegmentView{}, false
	}
	return SegmentView{ID: e.ID, P0: s.P0, P1: s.P1, Solid: e.Solid}, true
}

// Draw renders the circle. The puck is filled, mallets are outlined with
// a dot in the middle for the handle.
func (v CircleView) Draw(ctx DrawContext) {
	center := ctx.Transform.Apply(v.Position)
	if v.ID == PuckID {
		ctx.Canvas.DrawCircle(center, v.Radius, true)
		return
	}
	ctx.Canvas.DrawCircle(center, v.Radius, false)
	ctx.Canvas.DrawCircle(center, v.Radius/4, true)
}

// Draw renders the segment. Goal lines are dotted.
func (v SegmentView) Draw(ctx DrawContext) {
	a := ctx.Transform.Apply(v.P0)
	b := ctx.Transform.Apply(v.P1)
	if v.Solid {
		ctx.Canvas.DrawLine(a, b)
		return
	}
	ctx.Canvas.DrawDottedLine(a, b)
}
