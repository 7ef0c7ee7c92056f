package server

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

// MalletCommand is where a player wants their mallet to be, in table coordinates.
type MalletCommand struct {
	Target   physics.Vec2
	Teleport bool // Place the mallet directly instead of moving it there
}

// Score holds the goals scored by each side.
type Score struct {
	Home int
	Away int
}

// Match holds one table's entities, score and round state.
// It is not safe for concurrent use; the Server serializes access.
type Match struct {
	engine *physics.Engine
	logger *log.Logger
	world  *physics.World

	puck     *physics.Entity
	home     *physics.Entity
	away     *physics.Entity
	homeGoal *physics.Entity
	awayGoal *physics.Entity

	score      Score
	round      int
	lastScorer object.Side
}

// MatchSnapshot is an immutable copy of the match for rendering.
type MatchSnapshot struct {
	Puck       object.CircleView
	Home       object.CircleView
	Away       object.CircleView
	Walls      []object.SegmentView
	HomeGoal   object.SegmentView
	AwayGoal   object.SegmentView
	Score      Score
	Round      int
	LastScorer object.Side // SideSpectator until the first goal
}

var (
	homeStart = physics.V(config.TableWidth/2, config.HomeMalletY)
	awayStart = physics.V(config.TableWidth/2, config.AwayMalletY)
)

// NewMatch builds the table and serves the first puck toward home.
func NewMatch(engine *physics.Engine, logger *log.Logger) *Match {
	m := &Match{
		engine: engine,
		logger: logger,
		puck:   object.NewPuck(physics.Vec2{}),
		home:   object.NewMallet(object.MalletID(object.SideHome), homeStart),
		away:   object.NewMallet(object.MalletID(object.SideAway), awayStart),
		world:  physics.NewWorld(),
	}
	m.homeGoal, m.awayGoal = object.GoalLines()

	m.world.Add(m.puck)
	m.world.Add(m.home)
	m.world.Add(m.away)
	for _, w := range object.TableWalls() {
		m.world.Add(w)
	}
	m.world.Add(m.homeGoal)
	m.world.Add(m.awayGoal)

	m.NextRound(object.SideHome)
	return m
}

// World exposes the match's physics world.
func (m *Match) World() *physics.World {
	return m.world
}

// Score returns the current score.
func (m *Match) Score() Score {
	return m.score
}

func (m *Match) mallet(side object.Side) *physics.Circle {
	switch side {
	case object.SideHome:
		return m.home.Circle()
	case object.SideAway:
		return m.away.Circle()
	default:
		return nil
	}
}

// halfBounds returns the area a side's mallet center may occupy: inside the
// playing surface and on its own half.
func halfBounds(side object.Side) (minX, maxX, minY, maxY float64) {
	const (
		p = config.TablePadding
		w = config.TableWidth - 2*p
		h = config.TableHeight - 2*p
		r = config.MalletRadius
	)
	minX, maxX = p+r, p+w-r
	if side == object.SideAway {
		return minX, maxX, p + r, math.Floor(p+h/2) - r
	}
	return minX, maxX, math.Ceil(p+h/2) + r, p + h - r
}

// ClampTarget keeps a target inside the side's half of the table.
func ClampTarget(side object.Side, t physics.Vec2) physics.Vec2 {
	minX, maxX, minY, maxY := halfBounds(side)
	return physics.V(max(minX, min(t.X, maxX)), max(minY, min(t.Y, maxY)))
}

// ApplyCommand steers a side's mallet toward the command's target over dt
// seconds. A teleport places the mallet directly unless that would drop it
// onto the puck, in which case it moves there like any other target.
func (m *Match) ApplyCommand(side object.Side, cmd MalletCommand, dt float64) {
	mallet := m.mallet(side)
	if mallet == nil || dt <= 0 {
		return
	}

	target := ClampTarget(side, cmd.Target)
	puck := m.puck.Circle()
	if cmd.Teleport && !physics.CirclesOverlap(target, mallet.Radius, puck.Position, puck.Radius) {
		mallet.Position = target
		mallet.Velocity = physics.Vec2{}
		return
	}
	mallet.Velocity = target.Sub(mallet.Position).Scale(1 / dt)
}

// Step advances the match by dt seconds. When the puck crosses a goal line
// the opposing side scores, the conceding side serves the next round and
// Step returns the scorer. A puck that ends up off the table is served again
// by the side whose half it left from, without a score change.
func (m *Match) Step(dt float64) (object.Side, bool) {
	report := m.engine.Tick(m.world, dt)
	if len(report.Events) > 0 {
		m.logger.Debug("tick", "events", len(report.Events), "elapsed", report.Elapsed)
	}

	var scorer object.Side
	switch {
	case m.homeGoal.Collision:
		scorer = object.SideAway
	case m.awayGoal.Collision:
		scorer = object.SideHome
	default:
		m.recoverPuck()
		return object.SideSpectator, false
	}

	if scorer == object.SideHome {
		m.score.Home++
	} else {
		m.score.Away++
	}
	m.lastScorer = scorer
	m.logger.Info("goal", "scorer", scorer, "home", m.score.Home, "away", m.score.Away)

	m.NextRound(scorer.Opponent())
	return scorer, true
}

// recoverPuck re-serves a puck whose center has left the playing surface
// anywhere other than through a goal pocket.
func (m *Match) recoverPuck() {
	puck := m.puck.Circle()
	if onTable(puck.Position) {
		return
	}

	serve := object.SideAway
	if puck.Position.Y >= config.TableHeight/2 {
		serve = object.SideHome
	}
	m.logger.Warn("puck left the table", "pos", puck.Position, "vel", puck.Velocity, "serve", serve)
	m.NextRound(serve)
}

// onTable reports whether a puck center lies on the playing surface or in a
// goal pocket between the posts and the goal lines.
func onTable(p physics.Vec2) bool {
	const (
		w   = config.TableWidth
		h   = config.TableHeight
		pad = config.TablePadding
		off = config.GoalLineDistance * config.PuckRadius
	)
	if p.X >= config.GoalLeftX && p.X <= config.GoalRightX {
		return p.Y >= -off && p.Y <= h-pad+off
	}
	return p.X >= pad && p.X <= w-pad && p.Y >= pad && p.Y <= h-pad
}

// NextRound stops the puck and places it on the serving side's half, on
// the opposite side of center from that side's mallet.
func (m *Match) NextRound(serve object.Side) {
	puck := m.puck.Circle()
	puck.Velocity = physics.Vec2{}

	y := config.HomeServeY
	mallet := m.home.Circle()
	if serve == object.SideAway {
		y = config.AwayServeY
		mallet = m.away.Circle()
	}

	x := config.TableWidth * 0.25
	if mallet.Position.X < config.TableWidth/2 {
		x = config.TableWidth * 0.75
	}
	puck.Position = physics.V(x, y)
	m.round++
}

// Reset clears the score and returns the mallets to their starting spots.
func (m *Match) Reset() {
	m.score = Score{}
	m.round = 0
	m.lastScorer = object.SideSpectator
	home, away := m.home.Circle(), m.away.Circle()
	home.Position, home.Velocity = homeStart, physics.Vec2{}
	away.Position, away.Velocity = awayStart, physics.Vec2{}
	m.NextRound(object.SideHome)
}

// Snapshot copies the match state into views that share no memory with it.
func (m *Match) Snapshot() MatchSnapshot {
	snap := MatchSnapshot{
		Score:      m.score,
		Round:      m.round,
		LastScorer: m.lastScorer,
	}
	snap.Puck, _ = object.ViewCircle(m.puck)
	snap.Home, _ = object.ViewCircle(m.home)
	snap.Away, _ = object.ViewCircle(m.away)
	snap.HomeGoal, _ = object.ViewSegment(m.homeGoal)
	snap.AwayGoal, _ = object.ViewSegment(m.awayGoal)

	for _, e := range m.world.Entities {
		if e == m.homeGoal || e == m.awayGoal {
			continue
		}
		if v, ok := object.ViewSegment(e); ok {
			snap.Walls = append(snap.Walls, v)
		}
	}
	return snap
}
