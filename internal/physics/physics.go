// Package physics provides the swept collision engine for the puck and the
// vector and geometry helpers it is built on.
package physics

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// CirclesOverlap checks if two circles overlap. Touching circles do not overlap.
func CirclesOverlap(c1 Vec2, r1 float64, c2 Vec2, r2 float64) bool {
	minDist := r1 + r2
	return c2.Sub(c1).LenSq() < minDist*minDist
}
