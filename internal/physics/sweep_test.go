package physics

import (
	"math"
	"testing"
)

func TestIntersectMovingCircleSegmentFace(t *testing.T) {
	hit, ok := IntersectMovingCircleSegment(V(0, 50), 10, V(100, 0), V(50, 100), V(50, 0))
	if !ok {
		t.Fatal("expected a hit")
	}
	if !approx(hit.T, 0.4, tol) {
		t.Errorf("t = %f, want 0.4", hit.T)
	}
	if !approxVec(hit.Point, V(50, 50), tol) {
		t.Errorf("point = %v, want (50,50)", hit.Point)
	}
}

func TestIntersectMovingCircleSegmentRejects(t *testing.T) {
	tests := []struct {
		name string
		c, v Vec2
		a, b Vec2
	}{
		{"moving away", V(0, 50), V(-100, 0), V(50, 100), V(50, 0)},
		{"moving parallel", V(0, 50), V(0, 100), V(50, 100), V(50, 0)},
		{"back side", V(100, 50), V(-100, 0), V(50, 100), V(50, 0)},
		{"passes beyond the end", V(0, 200), V(100, 0), V(50, 100), V(50, 0)},
		{"too short a step", V(0, 50), V(10, 0), V(50, 100), V(50, 0)},
		{"degenerate segment", V(0, 50), V(100, 0), V(50, 50), V(50, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := IntersectMovingCircleSegment(tt.c, 10, tt.v, tt.a, tt.b)
			if ok && hit.T >= 0 && hit.T <= 1 {
				t.Errorf("unexpected hit within step: %+v", hit)
			}
		})
	}
}

func TestIntersectMovingCircleSegmentCorner(t *testing.T) {
	// The circle's center passes 5 units beyond the wall's end, so only its
	// edge clips the endpoint (50,100).
	hit, ok := IntersectMovingCircleSegment(V(0, 105), 10, V(100, 0), V(50, 100), V(50, 0))
	if !ok {
		t.Fatal("expected a corner hit")
	}
	want := (5000 - math.Sqrt(750000)) / 10000
	if !approx(hit.T, want, 1e-9) {
		t.Errorf("t = %f, want %f", hit.T, want)
	}
	if hit.Point != V(50, 100) {
		t.Errorf("point = %v, want endpoint (50,100)", hit.Point)
	}

	center := V(0, 105).Add(V(100, 0).Scale(hit.T))
	if d := Distance(center, hit.Point); !approx(d, 10, 1e-9) {
		t.Errorf("center is %f from the corner at contact, want 10", d)
	}
}

func TestIntersectMovingCircleMovingCircle(t *testing.T) {
	tests := []struct {
		name      string
		v1, v2    Vec2
		wantT     float64
		wantPoint Vec2
	}{
		{"static target", V(100, 0), V(0, 0), 0.3, V(40, 0)},
		{"head on", V(50, 0), V(-50, 0), 0.3, V(25, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := IntersectMovingCircleMovingCircle(V(0, 0), 10, tt.v1, V(50, 0), 10, tt.v2)
			if !ok {
				t.Fatal("expected a hit")
			}
			if !approx(hit.T, tt.wantT, tol) {
				t.Errorf("t = %f, want %f", hit.T, tt.wantT)
			}
			if !approxVec(hit.Point, tt.wantPoint, tol) {
				t.Errorf("point = %v, want %v", hit.Point, tt.wantPoint)
			}
		})
	}
}

func TestIntersectMovingCircleMovingCircleSameVelocity(t *testing.T) {
	if _, ok := IntersectMovingCircleMovingCircle(V(0, 0), 10, V(30, 0), V(50, 0), 10, V(30, 0)); ok {
		t.Error("circles moving identically must not collide")
	}
}

func TestIntersectMovingCircleMovingCircleSeparating(t *testing.T) {
	if _, ok := IntersectMovingCircleMovingCircle(V(0, 0), 10, V(-100, 0), V(50, 0), 10, V(0, 0)); ok {
		t.Error("separating circles must not collide")
	}
}
