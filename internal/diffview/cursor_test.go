package diffview

import "testing"

func TestStopNavigation(t *testing.T) {
	stops := []int{5, 8, 20}

	if got := NextStop(stops, 5); got != 8 {
		t.Errorf("NextStop(5) = %d, want 8", got)
	}
	if got := NextStop(stops, 6); got != 8 {
		t.Errorf("NextStop(6) = %d, want 8", got)
	}
	if got := NextStop(stops, 20); got != 20 {
		t.Errorf("NextStop at last = %d, want 20", got)
	}

	if got := PrevStop(stops, 8); got != 5 {
		t.Errorf("PrevStop(8) = %d, want 5", got)
	}
	if got := PrevStop(stops, 21); got != 20 {
		t.Errorf("PrevStop(21) = %d, want 20", got)
	}
	if got := PrevStop(stops, 5); got != 5 {
		t.Errorf("PrevStop at first = %d, want 5", got)
	}

	if got := FirstStop(stops); got != 5 {
		t.Errorf("FirstStop = %d, want 5", got)
	}
	if got := LastStop(stops); got != 20 {
		t.Errorf("LastStop = %d, want 20", got)
	}
	if got := FirstStop(nil); got != 0 {
		t.Errorf("FirstStop(nil) = %d, want 0", got)
	}
}

func TestSnapToStop(t *testing.T) {
	stops := []int{5, 8, 20}

	cases := []struct{ row, want int }{
		{0, 5},
		{5, 5},
		{7, 5},
		{8, 8},
		{19, 8},
		{100, 20},
	}
	for _, c := range cases {
		if got := SnapToStop(stops, c.row); got != c.want {
			t.Errorf("SnapToStop(%d) = %d, want %d", c.row, got, c.want)
		}
	}

	if got := SnapToStop(nil, 7); got != 7 {
		t.Errorf("SnapToStop(nil, 7) = %d, want 7", got)
	}
}

func TestSelectionOverlaps(t *testing.T) {
	sel := Selection{Anchor: 10, Cursor: 14}

	cases := []struct {
		start, span int
		want        bool
	}{
		{10, 1, true},
		{14, 1, true},
		{9, 1, false},
		{15, 1, false},
		{8, 3, true},   // [8,10]
		{14, 5, true},  // [14,18]
		{5, 5, false},  // [5,9]
		{15, 2, false}, // [15,16]
	}
	for _, c := range cases {
		if got := sel.Overlaps(c.start, c.span); got != c.want {
			t.Errorf("Overlaps(%d, %d) = %v, want %v", c.start, c.span, got, c.want)
		}
	}

	// Anchor and cursor order is irrelevant.
	rev := Selection{Anchor: 14, Cursor: 10}
	if !rev.Overlaps(12, 1) {
		t.Error("reversed selection should overlap")
	}
}
