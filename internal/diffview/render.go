package diffview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"critview/internal/highlight"
	"critview/internal/theme"
)

// styles holds the per-pass lipgloss styles. Built once per paint, never in
// projection mode.
type styles struct {
	width int
	th    *theme.Theme

	base       lipgloss.Style
	muted      lipgloss.Style
	hunkHeader lipgloss.Style
	blank      string
}

func newStyles(th *theme.Theme, width int) *styles {
	if th == nil {
		th = theme.Default()
	}
	base := lipgloss.NewStyle().Background(th.Background)
	return &styles{
		width:      width,
		th:         th,
		base:       base,
		muted:      base.Foreground(th.Muted),
		hunkHeader: base.Foreground(th.HunkHeader),
		blank:      base.Render(strings.Repeat(" ", clampWidth(width))),
	}
}

// fill pads a partially painted row out to the pane width.
func (st *styles) fill(s string, used int, bg lipgloss.Color) string {
	if used >= st.width {
		return s
	}
	return s + lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", st.width-used))
}

// renderSpans paints styled runs (or plain text when spans is empty) over a
// background, truncated to maxWidth cells. Returns the painted string and the
// cell count used.
func (st *styles) renderSpans(spans []highlight.Span, text string, fg, bg lipgloss.Color, maxWidth int) (string, int) {
	if maxWidth <= 0 {
		return "", 0
	}

	if len(spans) == 0 {
		t := truncateRunes(text, maxWidth)
		n := len([]rune(t))
		return lipgloss.NewStyle().Foreground(fg).Background(bg).Render(t), n
	}

	var b strings.Builder
	used := 0
	for _, span := range spans {
		if used >= maxWidth {
			break
		}
		t := truncateRunes(span.Text, maxWidth-used)
		if t == "" {
			continue
		}
		style := lipgloss.NewStyle().Background(bg)
		if span.Color != "" {
			style = style.Foreground(lipgloss.Color(span.Color))
		} else {
			style = style.Foreground(fg)
		}
		if span.Bold {
			style = style.Bold(true)
		}
		if span.Italic {
			style = style.Italic(true)
		}
		b.WriteString(style.Render(t))
		used += len([]rune(t))
	}
	return b.String(), used
}

// blockRow paints one row of a bar block: side margins, the bar glyph, inner
// padding, then content padded to the block's inner width.
func (st *styles) blockRow(content string, contentLen int, barColor, bg lipgloss.Color) string {
	margin := st.base.Render(strings.Repeat(" ", BlockSideMargin))
	bar := lipgloss.NewStyle().Foreground(barColor).Background(bg).Render("▍")
	pad := lipgloss.NewStyle().Background(bg)

	inner := blockInnerWidth(st.width)
	trailing := inner - contentLen
	if trailing < 0 {
		trailing = 0
	}

	return margin +
		bar +
		pad.Render(strings.Repeat(" ", BlockLeftPad)) +
		content +
		pad.Render(strings.Repeat(" ", trailing+BlockRightPad)) +
		margin
}

func (w *walker) paintDescription(lines []string, rows int) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(sub int) string {
		// margin / padding / content / padding / margin
		switch {
		case sub == 0 || sub == rows-1:
			return st.blank
		case sub == 1 || sub == rows-2:
			return st.blockRow("", 0, st.th.Border, st.th.PanelBg)
		}
		line := lines[sub-2]
		content, n := st.renderSpans(nil, line, st.th.Foreground, st.th.PanelBg, blockInnerWidth(st.width))
		return st.blockRow(content, n, st.th.Border, st.th.PanelBg)
	}
}

func (w *walker) paintFileHeader(path string, counts *ChangeCounts) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(sub int) string {
		switch sub {
		case 0, 4:
			return st.blank
		case 1, 3:
			return st.blockRow("", 0, st.th.BorderFocused, st.th.PanelBg)
		}

		inner := blockInnerWidth(st.width)
		var right string
		rightLen := 0
		if counts != nil {
			added := fmt.Sprintf("+%d", counts.Added)
			removed := fmt.Sprintf("-%d", counts.Removed)
			rightLen = len(added) + 1 + len(removed)
			right = lipgloss.NewStyle().Foreground(st.th.Added).Background(st.th.PanelBg).Render(added) +
				lipgloss.NewStyle().Background(st.th.PanelBg).Render(" ") +
				lipgloss.NewStyle().Foreground(st.th.Removed).Background(st.th.PanelBg).Render(removed)
		}

		maxTitle := inner - rightLen
		if rightLen > 0 {
			maxTitle--
		}
		title := truncateRunes(path, clampWidth(maxTitle))
		titleLen := len([]rune(title))
		styledTitle := lipgloss.NewStyle().Foreground(st.th.Foreground).Background(st.th.PanelBg).Bold(true).Render(title)

		gap := inner - titleLen - rightLen
		if gap < 0 {
			gap = 0
		}
		content := styledTitle + lipgloss.NewStyle().Background(st.th.PanelBg).Render(strings.Repeat(" ", gap)) + right
		return st.blockRow(content, inner, st.th.BorderFocused, st.th.PanelBg)
	}
}

func (w *walker) paintPlaceholder(text string) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(int) string {
		row := st.muted.Render("  " + truncateRunes(text, clampWidth(st.width-2)))
		return st.fill(row, 2+len([]rune(text)), st.th.Background)
	}
}

func (w *walker) paintHunkHeader(header string) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(int) string {
		t := truncateRunes(header, clampWidth(st.width-DiffMargin))
		row := st.base.Render(strings.Repeat(" ", DiffMargin)) + st.hunkHeader.Render(t)
		return st.fill(row, DiffMargin+len([]rune(t)), st.th.Background)
	}
}

// threadCol paints the 2-cell gutter: cursor bar wins over the thread-range
// bar.
func (st *styles) threadCol(showBar, isCursor bool, bg lipgloss.Color) string {
	switch {
	case isCursor:
		return lipgloss.NewStyle().Foreground(st.th.Primary).Background(bg).Render("▌ ")
	case showBar:
		return lipgloss.NewStyle().Foreground(st.th.Warning).Background(bg).Render("│ ")
	default:
		return lipgloss.NewStyle().Background(bg).Render("  ")
	}
}

func (st *styles) lineBg(kind LineKind, isCursor, isSelected bool) lipgloss.Color {
	switch {
	case isCursor:
		return st.th.CursorBg
	case isSelected:
		return st.th.SelectionBg
	case kind == LineAdded:
		return st.th.AddedBg
	case kind == LineRemoved:
		return st.th.RemovedBg
	default:
		return st.th.Background
	}
}

func (st *styles) lineFg(kind LineKind) lipgloss.Color {
	switch kind {
	case LineAdded:
		return st.th.Added
	case LineRemoved:
		return st.th.Removed
	default:
		return st.th.Context
	}
}

func (w *walker) paintUnified(line *DiffLine, wrapped []wrappedLine, showBar, isCursor, isSelected bool) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(sub int) string {
		bg := st.lineBg(line.Kind, isCursor, isSelected)
		var b strings.Builder
		b.WriteString(st.threadCol(showBar, isCursor, bg))

		nums := strings.Repeat(" ", UnifiedLineNumWidth)
		if sub == 0 {
			marker := " "
			switch line.Kind {
			case LineAdded:
				marker = "+"
			case LineRemoved:
				marker = "-"
			}
			nums = fmt.Sprintf("%4s %4s %s ", numStr(line.OldLine), numStr(line.NewLine), marker)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(st.th.LineNumber).Background(bg).Render(nums))

		width := unifiedWrapWidth(st.width)
		var content wrappedLine
		if sub < len(wrapped) {
			content = wrapped[sub]
		}
		painted, used := st.renderSpans(content.Spans, content.Text, st.lineFg(line.Kind), bg, width)
		b.WriteString(painted)
		return st.fill(b.String(), ThreadColWidth+UnifiedLineNumWidth+used, bg)
	}
}

func (w *walker) paintSideBySide(sl *SideBySideLine, leftWrapped, rightWrapped []wrappedLine, showBar, isCursor, isSelected bool) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(sub int) string {
		leftWidth, rightWidth := sbsWrapWidths(st.width)

		rowBg := st.th.Background
		if isCursor {
			rowBg = st.th.CursorBg
		} else if isSelected {
			rowBg = st.th.SelectionBg
		}

		var b strings.Builder
		used := 0
		b.WriteString(st.threadCol(showBar, isCursor, rowBg))
		used += ThreadColWidth

		side := func(s *SideLine, lines []wrappedLine, width int) {
			bg := rowBg
			fg := st.th.Context
			if s != nil && !isCursor && !isSelected {
				bg = st.lineBg(s.Kind, false, false)
			}
			if s != nil {
				fg = st.lineFg(s.Kind)
			}

			nums := strings.Repeat(" ", SBSLineNumWidth)
			if s != nil && sub == 0 {
				nums = fmt.Sprintf("%5d ", s.LineNum)
			}
			b.WriteString(lipgloss.NewStyle().Foreground(st.th.LineNumber).Background(bg).Render(nums))
			used += SBSLineNumWidth

			var content wrappedLine
			if sub < len(lines) {
				content = lines[sub]
			}
			painted, n := st.renderSpans(content.Spans, content.Text, fg, bg, width)
			b.WriteString(painted)
			if n < width {
				b.WriteString(lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", width-n)))
			}
			used += width
		}

		side(sl.Left, leftWrapped, leftWidth)
		b.WriteString(lipgloss.NewStyle().Foreground(st.th.Border).Background(rowBg).Render("│"))
		used++
		side(sl.Right, rightWrapped, rightWidth)

		return st.fill(b.String(), used, st.th.Background)
	}
}

func (w *walker) paintContextBase() renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(int) string { return st.blank }
}

func (w *walker) paintSeparator(gap int) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(int) string {
		label := "···"
		if gap > 0 {
			label = fmt.Sprintf("··· %d lines ···", gap)
		}
		n := len([]rune(label))
		lead := (st.width - n) / 2
		if lead < 0 {
			lead = 0
		}
		row := st.base.Render(strings.Repeat(" ", lead)) + st.muted.Render(label)
		return st.fill(row, lead+n, st.th.Background)
	}
}

func (w *walker) paintContext(lineNum int, wrapped []wrappedLine, showBar, isCursor, isSelected bool) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	return func(sub int) string {
		bg := st.th.Background
		if isCursor {
			bg = st.th.CursorBg
		} else if isSelected {
			bg = st.th.SelectionBg
		}

		nums := strings.Repeat(" ", ContextLineNumWidth)
		if sub == 0 {
			nums = fmt.Sprintf("%5d ", lineNum)
		}
		numFg := st.th.LineNumber
		if showBar {
			numFg = st.th.Warning
		}

		var b strings.Builder
		b.WriteString(lipgloss.NewStyle().Foreground(numFg).Background(bg).Render(nums))

		width := contextWrapWidth(st.width)
		var content wrappedLine
		if sub < len(wrapped) {
			content = wrapped[sub]
		}
		painted, used := st.renderSpans(content.Spans, content.Text, st.th.Context, bg, width)
		b.WriteString(painted)
		return st.fill(b.String(), ContextLineNumWidth+used, bg)
	}
}

func (w *walker) paintCommentBlock(lines []commentLine, highlighted bool) renderFunc {
	if !w.painting {
		return nil
	}
	st := w.st
	rows := BlockPadding + len(lines) + BlockPadding + BlockMargin
	return func(sub int) string {
		bg := st.th.CommentBg
		if highlighted {
			bg = st.th.SelectionBg
		}
		bar := st.th.Border
		if highlighted {
			bar = st.th.Primary
		}

		switch {
		case sub == rows-1:
			return st.blank
		case sub == 0 || sub == rows-2:
			return st.blockRow("", 0, bar, bg)
		}

		line := lines[sub-1]
		inner := blockInnerWidth(st.width)

		var leftStyle lipgloss.Style
		switch line.kind {
		case commentLineHeader:
			leftStyle = lipgloss.NewStyle().Foreground(st.th.Muted).Background(bg).Bold(true)
		case commentLineAuthor:
			leftStyle = lipgloss.NewStyle().Foreground(st.th.CommentAuthor).Background(bg).Bold(true)
		default:
			leftStyle = lipgloss.NewStyle().Foreground(st.th.Foreground).Background(bg)
		}

		left := truncateRunes(line.left, inner)
		leftLen := len([]rune(left))
		content := leftStyle.Render(left)

		if line.right != "" {
			right := truncateRunes(line.right, clampWidth(inner-leftLen-1))
			rightLen := len([]rune(right))
			gap := inner - leftLen - rightLen
			if gap > 0 {
				content += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", gap))
				leftLen += gap
			}
			content += lipgloss.NewStyle().Foreground(st.th.Muted).Background(bg).Render(right)
			leftLen += rightLen
		}

		return st.blockRow(content, leftLen, bar, bg)
	}
}

func numStr(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
