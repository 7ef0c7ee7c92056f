package physics

// earliest returns the first collision of the puck with any other entity
// within the next dt seconds. On equal times the entity that comes first in
// the world wins.
func (e *Engine) earliest(puck *Circle, w *World, dt float64) (Event, bool) {
	var best Event
	found := false

	for _, ent := range w.Entities {
		if ent.ID == PuckID {
			continue
		}

		hit, ok := sweep(puck, ent, dt)
		if !ok || hit.T < 0 || hit.T > 1 {
			continue
		}

		t := hit.T * dt
		if !found || t < best.T {
			best = Event{Entity: ent, Point: hit.Point, T: t}
			found = true
		}
	}

	return best, found
}

// sweep tests the puck's motion over dt against one entity. The returned T is
// a fraction of dt.
func sweep(puck *Circle, ent *Entity, dt float64) (Hit, bool) {
	v := puck.Velocity.Scale(dt)

	switch s := ent.Shape.(type) {
	case *Segment:
		return IntersectMovingCircleSegment(puck.Position, puck.Radius, v, s.P0, s.P1)
	case *Circle:
		return IntersectMovingCircleMovingCircle(
			puck.Position, puck.Radius, v,
			s.Position, s.Radius, s.Velocity.Scale(dt),
		)
	default:
		return Hit{}, false
	}
}
