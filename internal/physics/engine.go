package physics

import (
	"github.com/charmbracelet/log"
)

// Default engine tuning.
const (
	DefaultMaxVelocity = 800.0
	DefaultEpsilon     = 0.0001
)

// Engine advances a World with continuous collision detection for the puck.
// Only the puck is swept; mallets move along their velocity and act as
// targets. An Engine holds no per-world state and may be shared.
type Engine struct {
	maxVelocity float64
	epsilon     float64
	logger      *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxVelocity sets the puck speed cap applied after every collision.
// Non-positive values are ignored.
func WithMaxVelocity(v float64) Option {
	return func(e *Engine) {
		if v > 0 {
			e.maxVelocity = v
		}
	}
}

// WithEpsilon sets the minimum time advanced per resolved event.
// Non-positive values are ignored.
func WithEpsilon(eps float64) Option {
	return func(e *Engine) {
		if eps > 0 {
			e.epsilon = eps
		}
	}
}

// WithLogger sets the logger used to report anomalous ticks.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine with default tuning, modified by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxVelocity: DefaultMaxVelocity,
		epsilon:     DefaultEpsilon,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxVelocity returns the puck speed cap.
func (e *Engine) MaxVelocity() float64 {
	return e.maxVelocity
}

// Event is a collision resolved during a tick.
type Event struct {
	Entity *Entity
	Point  Vec2
	T      float64 // Time from the start of the sub-step, in seconds
}

// Report summarizes one Tick call.
type Report struct {
	Events  []Event
	Elapsed float64 // Total simulated time, equal to dt for dt > 0
}

// Tick advances the world by dt seconds.
//
// It repeatedly finds the earliest puck collision within the remaining time,
// moves every circle up to it, resolves it and continues with what is left,
// until no collision remains and everything is moved by the rest of dt.
// Collision flags are cleared first and are left set on every entity touched
// by a resolved event. A world without a puck is only advanced.
func (e *Engine) Tick(w *World, dt float64) Report {
	var report Report

	for _, ent := range w.Entities {
		ent.Collision = false
	}

	if dt <= 0 {
		return report
	}

	puckEnt := w.Puck()
	if puckEnt == nil {
		advance(w, dt)
		report.Elapsed = dt
		return report
	}
	puck := puckEnt.Circle()
	e.clampSpeed(puck)

	for dt > 0 {
		ev, ok := e.earliest(puck, w, dt)
		if !ok {
			advance(w, dt)
			report.Elapsed += dt
			break
		}

		// Force progress when the puck already rests on a contact boundary.
		if ev.T < e.epsilon {
			ev.T = min(e.epsilon, dt)
		}

		advance(w, ev.T)
		e.resolve(puckEnt, ev)
		e.clampSpeed(puck)

		report.Events = append(report.Events, ev)
		report.Elapsed += ev.T
		dt -= ev.T
	}

	if len(report.Events) > len(w.Entities) {
		e.logger.Warn("excessive collision events in one tick",
			"events", len(report.Events), "entities", len(w.Entities), "elapsed", report.Elapsed)
	}

	return report
}

// advance moves every circle along its velocity for dt seconds.
func advance(w *World, dt float64) {
	for _, ent := range w.Entities {
		if c, ok := ent.Shape.(*Circle); ok {
			c.Position = c.Position.Add(c.Velocity.Scale(dt))
		}
	}
}

// clampSpeed rescales the circle's velocity down to the engine's maximum.
func (e *Engine) clampSpeed(c *Circle) {
	speed := c.Velocity.Len()
	if speed > e.maxVelocity {
		c.Velocity = c.Velocity.Scale(e.maxVelocity / speed)
	}
}
