package geom

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
		// Window wider than viewport: lower bound wins.
		{7, 0, -100, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Fatalf("Clamp(%d,%d,%d)=%d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}
	if !r.Contains(Point{X: 10, Y: 10}) {
		t.Fatalf("expected origin to be inside")
	}
	if r.Contains(Point{X: 110, Y: 20}) {
		t.Fatalf("expected right edge to be exclusive")
	}
	if got := RectOf(r.Origin(), r.Size()); got != r {
		t.Fatalf("RectOf round trip: got %+v", got)
	}
}
