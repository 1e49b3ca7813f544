package app

import "testing"

func TestPaneWidths(t *testing.T) {
	sidebar, diff := paneWidths(100, 36, false)
	if sidebar != 36 || diff != 60 {
		t.Fatalf("widths = %d, %d, want 36, 60", sidebar, diff)
	}

	sidebar, diff = paneWidths(100, 36, true)
	if sidebar != 0 || diff != 98 {
		t.Fatalf("hidden widths = %d, %d, want 0, 98", sidebar, diff)
	}
}

func TestPaneWidthsNarrow(t *testing.T) {
	sidebar, diff := paneWidths(10, 36, false)
	if sidebar < 1 || diff < 1 {
		t.Fatalf("narrow widths = %d, %d, want both >= 1", sidebar, diff)
	}
	if sidebar+diff > 10 {
		t.Fatalf("narrow widths overflow: %d + %d", sidebar, diff)
	}

	if _, diff := paneWidths(1, 36, true); diff < 1 {
		t.Fatalf("degenerate diff width = %d, want >= 1", diff)
	}
}

func TestPaneContentHeight(t *testing.T) {
	if got := paneContentHeight(30); got != 26 {
		t.Fatalf("height = %d, want 26", got)
	}
	if got := paneContentHeight(2); got != 1 {
		t.Fatalf("degenerate height = %d, want 1", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{5, 0, -3, 0}, // inverted bounds collapse to lo
	}
	for _, c := range cases {
		if got := clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}
