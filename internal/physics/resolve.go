package physics

// resolve applies a collision event to the puck and flags both participants.
// Only solid entities change the puck's velocity.
func (e *Engine) resolve(puckEnt *Entity, ev Event) {
	puck := puckEnt.Circle()

	if ev.Entity.Solid {
		switch s := ev.Entity.Shape.(type) {
		case *Segment:
			bounceSegment(puck, s, ev.Point)
		case *Circle:
			bounceCircle(puck, s)
		}
	}

	ev.Entity.Collision = true
	puckEnt.Collision = true
}

// bounceSegment reflects the puck off a wall at contact point p:
// v' = v - n*((1+e)(v·n)).
func bounceSegment(puck *Circle, seg *Segment, p Vec2) {
	n, ok := puck.Position.Sub(p).TryNormalize()
	if !ok {
		// Contact at the puck's center; fall back to the wall's face.
		if n, ok = SegmentNormal(seg.P0, seg.P1); !ok {
			return
		}
	}
	v := puck.Velocity
	puck.Velocity = v.Sub(n.Scale((1 + puck.Restitution) * v.Dot(n)))
}

// bounceCircle reflects the puck off a mallet using the relative velocity
// along the line of centers. The mallet keeps its velocity.
func bounceCircle(puck, mallet *Circle) {
	n, ok := mallet.Position.Sub(puck.Position).TryNormalize()
	if !ok {
		return
	}
	v1 := puck.Velocity
	v2 := mallet.Velocity
	puck.Velocity = v1.Sub(n.Scale((1 + puck.Restitution) * (v1.Dot(n) - v2.Dot(n))))
}
