package geo

import "testing"

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	if !r.Contains(10, 20) || !r.Contains(40, 60) || !r.Contains(25, 35) {
		t.Fatalf("boundary and interior points must be contained")
	}
	if r.Contains(9.9, 30) || r.Contains(25, 60.1) {
		t.Fatalf("outside points must not be contained")
	}
}

func TestRect_Inset(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	grown := r.Inset(-2)
	if !grown.Contains(8.5, 8.5) {
		t.Fatalf("negative inset should grow the rect: %+v", grown)
	}
	shrunk := r.Inset(5)
	if shrunk.Contains(12, 12) {
		t.Fatalf("positive inset should shrink the rect: %+v", shrunk)
	}
}

func TestDistMidpoint(t *testing.T) {
	a, b := Point{X: 0, Y: 0}, Point{X: 3, Y: 4}
	if d := Dist(a, b); d != 5 {
		t.Fatalf("Dist = %v, want 5", d)
	}
	if m := Midpoint(a, b); m.X != 1.5 || m.Y != 2 {
		t.Fatalf("Midpoint = %+v", m)
	}
}
