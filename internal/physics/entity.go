package physics

// PuckID is the identifier of the one entity the engine sweeps against the rest.
const PuckID = "puck"

// Shape is the geometry of an entity. It is implemented only by *Segment and
// *Circle; dispatch on it with a type switch.
type Shape interface {
	shape()
}

// Segment is a static wall. It faces the side given by SegmentNormal(P0, P1),
// i.e. order P0 -> P1 so the face points to the right of the segment.
type Segment struct {
	P0, P1 Vec2
}

// Circle is a moving disc. Restitution is only read from the puck.
type Circle struct {
	Position    Vec2
	Velocity    Vec2
	Radius      float64
	Restitution float64
}

func (*Segment) shape() {}
func (*Circle) shape()  {}

// Entity is a participant in the simulation.
// Collision is reset at the start of every tick and set for each entity
// touched by a resolved event during it. Non-solid entities (goal lines)
// record collisions without deflecting the puck.
type Entity struct {
	ID        string
	Solid     bool
	Collision bool
	Shape     Shape
}

// Circle returns the entity's circle, or nil if it is not a circle.
func (e *Entity) Circle() *Circle {
	c, _ := e.Shape.(*Circle)
	return c
}

// Segment returns the entity's segment, or nil if it is not a segment.
func (e *Entity) Segment() *Segment {
	s, _ := e.Shape.(*Segment)
	return s
}

// World is an ordered collection of entities. Iteration order is insertion
// order and decides which entity wins when two events happen at the same time.
//
// A World is owned by its caller and must not be ticked from more than one
// goroutine at a time.
type World struct {
	Entities []*Entity
	index    map[string]int
}

// NewWorld creates a world holding the given entities in order.
func NewWorld(entities ...*Entity) *World {
	w := &World{index: make(map[string]int)}
	for _, e := range entities {
		w.Add(e)
	}
	return w
}

// Add appends an entity, replacing any entity already registered with the same ID.
func (w *World) Add(e *Entity) {
	if w.index == nil {
		w.index = make(map[string]int)
	}
	if i, ok := w.index[e.ID]; ok {
		w.Entities[i] = e
		return
	}
	w.index[e.ID] = len(w.Entities)
	w.Entities = append(w.Entities, e)
}

// Get returns the entity with the given ID, or nil.
func (w *World) Get(id string) *Entity {
	i, ok := w.index[id]
	if !ok {
		return nil
	}
	return w.Entities[i]
}

// Puck returns the puck entity, or nil if the world has none.
func (w *World) Puck() *Entity {
	e := w.Get(PuckID)
	if e == nil || e.Circle() == nil {
		return nil
	}
	return e
}
