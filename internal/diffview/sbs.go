package diffview

// SideLine is one half of a side-by-side row. DisplayIndex points back into
// the unified display-line order so highlights and anchors resolve the same
// way in both view modes.
type SideLine struct {
	LineNum      int
	Content      string
	Kind         LineKind
	DisplayIndex int
}

// SideBySideLine pairs the i-th removed line of a run with the i-th added
// line; a nil side renders blank.
type SideBySideLine struct {
	Left     *SideLine
	Right    *SideLine
	IsHeader bool
	HunkIdx  int
}

// BuildSideBySideLines converts a diff into paired display lines. Contiguous
// removed then added runs pair by index; standalone context and added lines
// occupy a full row.
func BuildSideBySideLines(d *Diff) []SideBySideLine {
	var result []SideBySideLine
	displayIdx := 0

	for hunkIdx := range d.Hunks {
		lines := d.Hunks[hunkIdx].Lines
		result = append(result, SideBySideLine{IsHeader: true, HunkIdx: hunkIdx})
		displayIdx++

		i := 0
		for i < len(lines) {
			line := lines[i]
			switch line.Kind {
			case LineContext:
				result = append(result, SideBySideLine{
					Left:  &SideLine{LineNum: lineNum(line.OldLine), Content: line.Content, Kind: LineContext, DisplayIndex: displayIdx},
					Right: &SideLine{LineNum: lineNum(line.NewLine), Content: line.Content, Kind: LineContext, DisplayIndex: displayIdx},
				})
				i++
				displayIdx++

			case LineRemoved:
				type indexed struct {
					line DiffLine
					idx  int
				}
				var removals, additions []indexed
				for i < len(lines) && lines[i].Kind == LineRemoved {
					removals = append(removals, indexed{lines[i], displayIdx})
					i++
					displayIdx++
				}
				for i < len(lines) && lines[i].Kind == LineAdded {
					additions = append(additions, indexed{lines[i], displayIdx})
					i++
					displayIdx++
				}
				for j := 0; j < max(len(removals), len(additions)); j++ {
					var pair SideBySideLine
					if j < len(removals) {
						r := removals[j]
						pair.Left = &SideLine{LineNum: lineNum(r.line.OldLine), Content: r.line.Content, Kind: LineRemoved, DisplayIndex: r.idx}
					}
					if j < len(additions) {
						a := additions[j]
						pair.Right = &SideLine{LineNum: lineNum(a.line.NewLine), Content: a.line.Content, Kind: LineAdded, DisplayIndex: a.idx}
					}
					result = append(result, pair)
				}

			case LineAdded:
				result = append(result, SideBySideLine{
					Right: &SideLine{LineNum: lineNum(line.NewLine), Content: line.Content, Kind: LineAdded, DisplayIndex: displayIdx},
				})
				i++
				displayIdx++
			}
		}
	}

	return result
}

func lineNum(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
