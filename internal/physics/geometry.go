package physics

import "math"

// Hit is the result of a ray or sweep test: the contact point and the
// parametric time along the tested displacement.
type Hit struct {
	Point Vec2
	T     float64
}

// ClosestPointOnSegment returns the point on segment ab closest to c.
// A zero-length segment returns a.
func ClosestPointOnSegment(c, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return a
	}
	t := c.Sub(a).Dot(ab) / denom
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

// IsProjectedPointOnSegment reports whether c, projected onto the line
// through a and b, falls within the bounds of segment ab.
func IsProjectedPointOnSegment(c, a, b Vec2) bool {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return false
	}
	t := c.Sub(a).Dot(ab) / denom
	return t >= 0 && t <= 1
}

// IntersectRayPlane intersects the ray p + v*t with the line n·x = d, where n
// is a unit normal. The returned T is not clamped. Returns false when the ray
// is parallel to the line.
func IntersectRayPlane(p, v, n Vec2, d float64) (Hit, bool) {
	denom := n.Dot(v)
	if denom == 0 {
		return Hit{}, false
	}
	t := (d - n.Dot(p)) / denom
	return Hit{Point: p.Add(v.Scale(t)), T: t}, true
}

// IntersectRayCircle returns where the ray p + v*t first enters the circle
// centered at s with radius r. T is measured in units of v, so a unit v gives
// a distance and a displacement v gives a fraction of that displacement.
// Returns false if the ray starts outside and points away, or misses.
func IntersectRayCircle(p, v, s Vec2, r float64) (Hit, bool) {
	a := v.Dot(v)
	if a == 0 {
		return Hit{}, false
	}

	m := p.Sub(s)
	b := m.Dot(v)
	c := m.Dot(m) - r*r

	if c > 0 && b > 0 {
		return Hit{}, false
	}

	discr := b*b - a*c
	if discr < 0 {
		return Hit{}, false
	}

	// Near root: the entry point, not the exit point.
	t := (-b - math.Sqrt(discr)) / a
	return Hit{Point: p.Add(v.Scale(t)), T: t}, true
}

// SegmentNormal returns the unit normal of the directed segment a->b. This is
// the side the segment faces: only approaches from this side collide.
// Returns false for a zero-length segment.
func SegmentNormal(a, b Vec2) (Vec2, bool) {
	return Vec2{X: b.Y - a.Y, Y: a.X - b.X}.TryNormalize()
}
