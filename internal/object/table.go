package object

import (
	"strconv"

	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/physics"
)

// NewPuck creates the puck at the given position, at rest.
func NewPuck(pos physics.Vec2) *physics.Entity {
	return &physics.Entity{
		ID:    PuckID,
		Solid: true,
		Shape: &physics.Circle{
			Position:    pos,
			Radius:      config.PuckRadius,
			Restitution: config.PuckRestitution,
		},
	}
}

// NewMallet creates a player's mallet at the given position.
func NewMallet(id string, pos physics.Vec2) *physics.Entity {
	return &physics.Entity{
		ID:    id,
		Solid: true,
		Shape: &physics.Circle{Position: pos, Radius: config.MalletRadius},
	}
}

// NewWall creates a solid wall. Order matters: the wall faces the right
// of the direction a -> b.
func NewWall(id string, a, b physics.Vec2) *physics.Entity {
	return &physics.Entity{ID: id, Solid: true, Shape: &physics.Segment{P0: a, P1: b}}
}

// NewGoalLine creates a pass-through line that only records the puck crossing it.
func NewGoalLine(id string, a, b physics.Vec2) *physics.Entity {
	return &physics.Entity{ID: id, Solid: false, Shape: &physics.Segment{P0: a, P1: b}}
}

// TableWalls returns the ten walls enclosing the table, with a goal gap
// between GoalLeftX and GoalRightX at both short ends. Each gap has short
// returns so the puck can bounce off the goal posts.
func TableWalls() []*physics.Entity {
	const (
		w  = config.TableWidth
		h  = config.TableHeight
		p  = config.TablePadding
		gl = config.GoalLeftX
		gr = config.GoalRightX
	)
	points := [][2]physics.Vec2{
		{physics.V(gl, 0), physics.V(gl, p)},
		{physics.V(gl, p), physics.V(p, p)},
		{physics.V(p, p), physics.V(p, h-p)},
		{physics.V(p, h-p), physics.V(gl, h-p)},
		{physics.V(gl, h-p), physics.V(gl, h)},
		{physics.V(gr, h), physics.V(gr, h-p)},
		{physics.V(gr, h-p), physics.V(w-p, h-p)},
		{physics.V(w-p, h-p), physics.V(w-p, p)},
		{physics.V(w-p, p), physics.V(gr, p)},
		{physics.V(gr, p), physics.V(gr, 0)},
	}

	walls := make([]*physics.Entity, len(points))
	for i, pts := range points {
		walls[i] = NewWall("wall-"+strconv.Itoa(i), pts[0], pts[1])
	}
	return walls
}

// GoalLines returns the home and away goal lines, GoalLineDistance puck
// radii beyond each end of the table, facing the table.
func GoalLines() (home, away *physics.Entity) {
	const (
		w   = config.TableWidth
		h   = config.TableHeight
		p   = config.TablePadding
		off = config.GoalLineDistance * config.PuckRadius
	)
	home = NewGoalLine(HomeGoalID, physics.V(0, h-p+off), physics.V(w, h-p+off))
	away = NewGoalLine(AwayGoalID, physics.V(w, -off), physics.V(0, -off))
	return home, away
}
