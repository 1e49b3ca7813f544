package diffview

import (
	"sort"

	"critview/internal/review"
)

// ThreadAnchor places a thread inside a diff's display lines. Derived every
// layout pass, never stored.
type ThreadAnchor struct {
	ThreadID string
	// DisplayLine is the display index of the selection-start line.
	DisplayLine int
	// CommentAfterLine is the display index after which the thread's
	// comment block renders (the selection-end line, or DisplayLine).
	CommentAfterLine int
	LineCount        int
	Status           string
	CommentCount     int
}

// MapThreadsToDiff anchors threads to display line indices (one index per
// hunk header and per diff line, in document order). Threads anchor only by
// their selection-start new-side line number; the old side is never
// consulted, since an old-side number can collide with an unrelated removed
// line in another hunk. Unmatched threads are orphaned.
func MapThreadsToDiff(d *Diff, threads []review.Thread) []ThreadAnchor {
	newLineToDisplay := make(map[int]int)
	displayIdx := 0
	for _, hunk := range d.Hunks {
		displayIdx++ // hunk header
		for _, line := range hunk.Lines {
			if line.NewLine != nil {
				newLineToDisplay[*line.NewLine] = displayIdx
			}
			displayIdx++
		}
	}

	var anchors []ThreadAnchor
	for _, thread := range threads {
		displayLine, ok := newLineToDisplay[thread.SelectionStart]
		if !ok {
			continue
		}

		end := threadEnd(thread)
		commentAfter := displayLine
		if idx, ok := newLineToDisplay[end]; ok {
			commentAfter = idx
		}

		anchors = append(anchors, ThreadAnchor{
			ThreadID:         thread.ID,
			DisplayLine:      displayLine,
			CommentAfterLine: commentAfter,
			LineCount:        end - thread.SelectionStart + 1,
			Status:           thread.Status,
			CommentCount:     thread.CommentCount,
		})
	}

	sort.SliceStable(anchors, func(a, b int) bool {
		return anchors[a].DisplayLine < anchors[b].DisplayLine
	})
	return anchors
}

// threadEnd is the effective selection end (start when unset).
func threadEnd(t review.Thread) int {
	if t.SelectionEnd > 0 {
		return t.SelectionEnd
	}
	return t.SelectionStart
}

// buildThreadRanges returns each thread's inclusive selection range, used to
// draw the thread-range bar next to covered lines.
func buildThreadRanges(threads []review.Thread) []LineRange {
	out := make([]LineRange, 0, len(threads))
	for _, t := range threads {
		end := threadEnd(t)
		out = append(out, LineRange{Start: min(t.SelectionStart, end), End: max(t.SelectionStart, end)})
	}
	return out
}

func lineInThreadRanges(line *int, ranges []LineRange) bool {
	if line == nil {
		return false
	}
	for _, r := range ranges {
		if *line >= r.Start && *line <= r.End {
			return true
		}
	}
	return false
}

// ChangeCounts tallies added/removed lines for the file header.
type ChangeCounts struct {
	Added   int
	Removed int
}

func DiffChangeCounts(d *Diff) ChangeCounts {
	var c ChangeCounts
	for _, hunk := range d.Hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdded:
				c.Added++
			case LineRemoved:
				c.Removed++
			}
		}
	}
	return c
}
