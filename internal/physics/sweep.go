package physics

// IntersectMovingCircleSegment sweeps a circle centered at c with radius r
// along displacement v against segment ab. The returned T is the fraction of
// v travelled at first contact. Only approaches from the side the segment
// faces (see SegmentNormal) can hit.
//
// The face test tracks the point on the circle that leads toward the
// segment's line. When that point lands on the line outside the segment, the
// circle can still clip an end of the segment, which is tested by casting a
// ray from the nearest segment point backwards along v into the circle.
func IntersectMovingCircleSegment(c Vec2, r float64, v, a, b Vec2) (Hit, bool) {
	n, ok := SegmentNormal(a, b)
	if !ok {
		return Hit{}, false
	}

	// Moving parallel to or away from the face.
	if n.Dot(v) >= 0 {
		return Hit{}, false
	}

	lead := c.Sub(n.Scale(r))
	hit, ok := IntersectRayPlane(lead, v, n, n.Dot(a))
	if !ok {
		return Hit{}, false
	}

	if hit.T >= 0 && hit.T <= 1 && IsProjectedPointOnSegment(hit.Point, a, b) {
		return hit, true
	}

	q := ClosestPointOnSegment(hit.Point, a, b)
	corner, ok := IntersectRayCircle(q, v.Scale(-1), c, r)
	if !ok {
		return Hit{}, false
	}
	return Hit{Point: q, T: corner.T}, true
}

// IntersectMovingCircleMovingCircle sweeps two moving circles against each
// other. v1 and v2 are the displacements over the step and the returned T is
// the fraction of the step at first contact. The contact point lies on the
// line between the centers at that instant, r1 away from the first center.
//
// Circles with identical displacement never collide by relative motion.
func IntersectMovingCircleMovingCircle(c1 Vec2, r1 float64, v1, c2 Vec2, r2 float64, v2 Vec2) (Hit, bool) {
	// Grow the second circle by r1 and treat the first as a point moving
	// along the relative displacement.
	r := r1 + r2
	v := v1.Sub(v2)

	speed := v.Len()
	if speed == 0 {
		return Hit{}, false
	}

	hit, ok := IntersectRayCircle(c1, v.Scale(1/speed), c2, r)
	if !ok {
		return Hit{}, false
	}

	t := hit.T / speed
	p1 := c1.Add(v1.Scale(t))
	p2 := c2.Add(v2.Scale(t))
	if r == 0 {
		return Hit{Point: p1, T: t}, true
	}
	return Hit{Point: p1.Add(p2.Sub(p1).Scale(r1 / r)), T: t}, true
}
