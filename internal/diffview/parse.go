package diffview

import (
	"sort"
	"strconv"
	"strings"
)

// Parse parses unified-diff text. It is total: malformed hunk headers drop
// that hunk, unrecognized line prefixes become context lines, and the worst
// case is a diff with no hunks.
func Parse(text string) Diff {
	var d Diff
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	// A final newline terminates the last line; it does not start a new one.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "@@") {
			break
		}
		if rest, ok := strings.CutPrefix(line, "--- "); ok {
			d.OldPath = normalizeDiffPath(rest)
		} else if rest, ok := strings.CutPrefix(line, "+++ "); ok {
			d.NewPath = normalizeDiffPath(rest)
		}
	}

	for i < len(lines) {
		line := lines[i]
		if !strings.HasPrefix(line, "@@") {
			i++
			continue
		}

		header, ok := parseHunkHeader(line)
		i++
		body := lines[i:]
		end := 0
		for end < len(body) &&
			!strings.HasPrefix(body[end], "@@") &&
			!strings.HasPrefix(body[end], "diff ") {
			end++
		}
		i += end

		if !ok {
			continue
		}
		header.Lines = assignHunkLines(body[:end], header.OldStart, header.NewStart)
		d.Hunks = append(d.Hunks, header)
	}

	return d
}

// parseHunkHeader parses "@@ -a[,b] +c[,d] @@ ...". An omitted count
// defaults to 1.
func parseHunkHeader(line string) (Hunk, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || !strings.HasPrefix(fields[1], "-") || !strings.HasPrefix(fields[2], "+") {
		return Hunk{}, false
	}

	oldStart, oldCount, ok := parseStartCount(fields[1][1:])
	if !ok {
		return Hunk{}, false
	}
	newStart, newCount, ok := parseStartCount(fields[2][1:])
	if !ok {
		return Hunk{}, false
	}

	return Hunk{
		Header:   line,
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
	}, true
}

func parseStartCount(s string) (int, int, bool) {
	startStr, countStr, hasCount := strings.Cut(s, ",")
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return 0, 0, false
	}
	count := 1
	if hasCount {
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return 0, 0, false
		}
	}
	return start, count, true
}

func assignHunkLines(raw []string, oldStart, newStart int) []DiffLine {
	oldLn := oldStart
	newLn := newStart

	out := make([]DiffLine, 0, len(raw))
	for _, line := range raw {
		switch {
		case strings.HasPrefix(line, "+"):
			out = append(out, DiffLine{Kind: LineAdded, NewLine: linePtr(newLn), Content: line[1:]})
			newLn++
		case strings.HasPrefix(line, "-"):
			out = append(out, DiffLine{Kind: LineRemoved, OldLine: linePtr(oldLn), Content: line[1:]})
			oldLn++
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"
		case strings.HasPrefix(line, " "):
			out = append(out, DiffLine{Kind: LineContext, OldLine: linePtr(oldLn), NewLine: linePtr(newLn), Content: line[1:]})
			oldLn++
			newLn++
		default:
			// Empty or unrecognized lines count as context.
			out = append(out, DiffLine{Kind: LineContext, OldLine: linePtr(oldLn), NewLine: linePtr(newLn), Content: line})
			oldLn++
			newLn++
		}
	}
	return out
}

func normalizeDiffPath(p string) string {
	p = strings.TrimSpace(p)
	if tab := strings.IndexByte(p, '\t'); tab >= 0 {
		p = p[:tab]
	}
	p = strings.TrimPrefix(p, "a/")
	p = strings.TrimPrefix(p, "b/")
	return p
}

// HunkExclusionRanges returns the union of every hunk's old-side and
// new-side line ranges, sorted and merged. Context windows are clipped
// against these so no line shows twice.
func HunkExclusionRanges(hunks []Hunk) []LineRange {
	var ranges []LineRange
	for _, h := range hunks {
		if h.OldCount > 0 {
			ranges = append(ranges, LineRange{Start: h.OldStart, End: h.OldStart + h.OldCount - 1})
		}
		if h.NewCount > 0 {
			ranges = append(ranges, LineRange{Start: h.NewStart, End: h.NewStart + h.NewCount - 1})
		}
	}
	return mergeRanges(ranges)
}

// mergeRanges sorts ranges and merges any pair with start <= prev end + 1.
func mergeRanges(ranges []LineRange) []LineRange {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(a, b int) bool { return ranges[a].Start < ranges[b].Start })

	merged := []LineRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

func linePtr(n int) *int {
	v := n
	return &v
}
