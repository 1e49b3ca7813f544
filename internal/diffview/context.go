package diffview

import "critview/internal/review"

// DisplayItem is one row source of a context window: either a separator
// (Gap skipped lines, 0 when unknown) or a single numbered source line.
type DisplayItem struct {
	Separator bool
	Gap       int
	LineNum   int
	Content   string
}

// CalculateContextRanges computes the context windows for a set of threads:
// [start-ContextRadius, end+ContextRadius] clamped to [startLine, endLine],
// sorted, merged, then clipped against exclude so nothing already shown in
// the diff repeats as context.
func CalculateContextRanges(threads []review.Thread, startLine, endLine int, exclude []LineRange) []LineRange {
	if len(threads) == 0 {
		return nil
	}

	var ranges []LineRange
	for _, t := range threads {
		r := LineRange{
			Start: max(t.SelectionStart-ContextRadius, startLine),
			End:   min(threadEnd(t)+ContextRadius, endLine),
		}
		if r.Start <= r.End {
			ranges = append(ranges, r)
		}
	}

	merged := mergeRanges(ranges)
	if len(exclude) == 0 {
		return merged
	}

	var clipped []LineRange
	for _, r := range merged {
		remaining := []LineRange{r}
		for _, ex := range exclude {
			var next []LineRange
			for _, cur := range remaining {
				if cur.End < ex.Start || cur.Start > ex.End {
					next = append(next, cur)
					continue
				}
				if cur.Start < ex.Start {
					next = append(next, LineRange{Start: cur.Start, End: ex.Start - 1})
				}
				if cur.End > ex.End {
					next = append(next, LineRange{Start: ex.End + 1, End: cur.End})
				}
			}
			remaining = next
		}
		clipped = append(clipped, remaining...)
	}
	return mergeRanges(clipped)
}

// GroupRangesByHunks buckets context ranges relative to hunk boundaries:
// bucket i renders before hunk i, the last bucket after the final hunk.
// Ranges and hunkRanges must both be sorted by start.
func GroupRangesByHunks(ranges []LineRange, hunkRanges []LineRange) [][]LineRange {
	sections := make([][]LineRange, len(hunkRanges)+1)
	hunkIdx := 0
	for _, r := range ranges {
		for hunkIdx < len(hunkRanges) && hunkRanges[hunkIdx].Start <= r.End {
			hunkIdx++
		}
		sections[hunkIdx] = append(sections[hunkIdx], r)
	}
	return sections
}

// BuildContextItems expands the context windows of threads over content into
// display items. With no applicable window it returns a single separator so
// the file still renders one row.
func BuildContextItems(content *FileContent, threads []review.Thread, exclude []LineRange) []DisplayItem {
	endLine := content.StartLine + len(content.Lines) - 1
	ranges := CalculateContextRanges(threads, content.StartLine, endLine, exclude)
	if len(ranges) == 0 {
		return []DisplayItem{{Separator: true}}
	}
	return buildContextItemsFromRanges(content, ranges)
}

func buildContextItemsFromRanges(content *FileContent, ranges []LineRange) []DisplayItem {
	var items []DisplayItem
	prevEnd := -1
	for _, r := range ranges {
		if prevEnd >= 0 && r.Start > prevEnd+1 {
			items = append(items, DisplayItem{Separator: true, Gap: r.Start - prevEnd - 1})
		}
		for ln := r.Start; ln <= r.End; ln++ {
			idx := ln - content.StartLine
			if idx >= 0 && idx < len(content.Lines) {
				items = append(items, DisplayItem{LineNum: ln, Content: content.Lines[idx]})
			} else {
				// Out-of-window line: keep the row so geometry is stable.
				items = append(items, DisplayItem{LineNum: ln})
			}
		}
		prevEnd = r.End
	}
	return items
}
