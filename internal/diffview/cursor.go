package diffview

import "sort"

// Selection is an inclusive row-span selection in visual mode. Anchor is the
// row where the selection started; Cursor moves.
type Selection struct {
	Anchor int
	Cursor int
}

// Overlaps reports whether a unit occupying rows [start, start+span) touches
// the selection.
func (s Selection) Overlaps(start, span int) bool {
	lo, hi := s.Anchor, s.Cursor
	if lo > hi {
		lo, hi = hi, lo
	}
	return start <= hi && start+span-1 >= lo
}

// NextStop returns the first stop strictly after row, or row when none.
func NextStop(stops []int, row int) int {
	i := sort.SearchInts(stops, row+1)
	if i < len(stops) {
		return stops[i]
	}
	return row
}

// PrevStop returns the last stop strictly before row, or row when none.
func PrevStop(stops []int, row int) int {
	i := sort.SearchInts(stops, row)
	if i > 0 {
		return stops[i-1]
	}
	return row
}

// FirstStop returns the first stop, or 0 when there are none.
func FirstStop(stops []int) int {
	if len(stops) == 0 {
		return 0
	}
	return stops[0]
}

// LastStop returns the last stop, or 0 when there are none.
func LastStop(stops []int) int {
	if len(stops) == 0 {
		return 0
	}
	return stops[len(stops)-1]
}

// SnapToStop returns the greatest stop at or before row, falling back to the
// first stop when row precedes them all.
func SnapToStop(stops []int, row int) int {
	if len(stops) == 0 {
		return row
	}
	i := sort.SearchInts(stops, row+1)
	if i > 0 {
		return stops[i-1]
	}
	return stops[0]
}
