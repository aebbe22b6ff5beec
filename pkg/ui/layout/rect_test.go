package layout

import "testing"

func TestRect_Contains(t *testing.T) {
	r := NewRect(10, 5, 20, 10)

	tests := []struct {
		x, y int
		want bool
	}{
		{10, 5, true},
		{29, 14, true},
		{30, 5, false},
		{10, 15, false},
		{9, 5, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRect_Intersection(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 10, 10)

	if got := a.Intersection(b); got != NewRect(5, 5, 5, 5) {
		t.Errorf("Intersection = %v, want {5,5,5,5}", got)
	}
	if !a.Intersects(b) {
		t.Error("expected rects to intersect")
	}
	if got := a.Intersection(NewRect(20, 20, 2, 2)); !got.Empty() {
		t.Errorf("disjoint Intersection = %v, want empty", got)
	}
}

func TestRect_InsetAndCentered(t *testing.T) {
	r := NewRect(0, 0, 10, 6)

	if got := r.Inset(1, 1, 1, 1); got != NewRect(1, 1, 8, 4) {
		t.Errorf("Inset = %v, want {1,1,8,4}", got)
	}
	if got := r.Inset(4, 6, 4, 6); got.Area() != 0 {
		t.Errorf("over-inset area = %d, want 0", got.Area())
	}
	if got := r.Centered(4, 2); got != NewRect(3, 2, 4, 2) {
		t.Errorf("Centered = %v, want {3,2,4,2}", got)
	}
	if got := r.Centered(40, 40); got != r {
		t.Errorf("Centered oversize = %v, want %v", got, r)
	}
}
