package diffview

import (
	"fmt"
	"sort"
	"strings"

	"critview/internal/highlight"
	"critview/internal/review"
)

// unitMeta describes one row-unit to the sink.
type unitMeta struct {
	// newLine > 0 maps every row of the unit to that new-file line.
	newLine int
	// threadID marks the first row the thread is visible at.
	threadID string
	// stop marks the unit's first row as a cursor stop.
	stop bool
}

// renderFunc paints one row of a unit; sub is the row index within the unit.
// It is nil when the walk runs in projection mode.
type renderFunc func(sub int) string

// rowSink consumes the canonical row ordering. Sinks never influence the
// traversal: the walker advances identically whichever sink is attached,
// which is what makes projection and materialization agree by construction.
type rowSink interface {
	unit(firstRow, rows int, meta unitMeta, render renderFunc)
}

// countSink discards rows; the walker's final position is the row count.
type countSink struct{}

func (countSink) unit(int, int, unitMeta, renderFunc) {}

// paintSink materializes rows inside [scroll, scroll+height) and records the
// index maps for every row of the stream, visible or not.
type paintSink struct {
	res    *RenderResult
	scroll int
	height int
}

func (s *paintSink) unit(first, rows int, meta unitMeta, render renderFunc) {
	if meta.threadID != "" {
		if _, ok := s.res.ThreadRows[meta.threadID]; !ok {
			s.res.ThreadRows[meta.threadID] = first
		}
	}
	if meta.stop && rows > 0 {
		s.res.CursorStops = append(s.res.CursorStops, first)
	}
	for sub := 0; sub < rows; sub++ {
		row := first + sub
		if meta.newLine > 0 {
			s.res.RowLine[row] = meta.newLine
		}
		if row >= s.scroll && row < s.scroll+s.height {
			s.res.Rows = append(s.res.Rows, render(sub))
		}
	}
}

// walker owns the traversal position. All geometry decisions happen here so
// every sink sees the same rows.
type walker struct {
	p        *StreamParams
	sink     rowSink
	painting bool
	st       *styles

	row             int
	fileOffsets     []int
	descriptionRows int
}

func (w *walker) emit(rows int, meta unitMeta, render renderFunc) {
	w.sink.unit(w.row, rows, meta, render)
	w.row += rows
}

// note records a thread's position without emitting rows.
func (w *walker) note(threadID string) {
	w.sink.unit(w.row, 0, unitMeta{threadID: threadID}, nil)
}

func (w *walker) cursorAt(rows int) bool {
	return w.p.Cursor >= w.row && w.p.Cursor < w.row+rows
}

func (w *walker) selectedAt(rows int) bool {
	return w.p.Selection != nil && w.p.Selection.Overlaps(w.row, rows)
}

func (w *walker) expanded(threadID string) bool {
	return w.p.ExpandAll || w.p.ExpandedThread == threadID
}

// walkStream runs the one canonical traversal.
func walkStream(p *StreamParams, sink rowSink, painting bool) *walker {
	w := &walker{p: p, sink: sink, painting: painting}
	if painting {
		w.st = newStyles(p.Theme, p.Width)
	}

	if strings.TrimSpace(p.Description) != "" {
		lines := Wrap(p.Description, blockInnerWidth(p.Width))
		rows := blockHeight(len(lines))
		w.emit(rows, unitMeta{}, w.paintDescription(lines, rows))
		w.descriptionRows = rows
	}

	for _, file := range p.Files {
		w.walkFile(file)
	}
	return w
}

// ComputeLayout is the projection query: row geometry only.
func ComputeLayout(p *StreamParams) *Layout {
	w := walkStream(p, countSink{}, false)
	return &Layout{
		DescriptionRows: w.descriptionRows,
		FileOffsets:     w.fileOffsets,
		TotalRows:       w.row,
	}
}

// RenderStream is the materialization query: it paints the rows that fall in
// [scroll, scroll+height) and records the index maps for the whole stream.
func RenderStream(p *StreamParams, scroll, height int) *RenderResult {
	res := &RenderResult{
		RowLine:    make(map[int]int),
		ThreadRows: make(map[string]int),
	}
	w := walkStream(p, &paintSink{res: res, scroll: scroll, height: height}, true)
	res.DescriptionRows = w.descriptionRows
	res.FileOffsets = w.fileOffsets
	res.TotalRows = w.row
	return res
}

func (w *walker) walkFile(file FileEntry) {
	w.fileOffsets = append(w.fileOffsets, w.row)

	entry := w.p.Cache[file.Path]
	var counts *ChangeCounts
	if entry != nil && entry.Diff != nil {
		c := DiffChangeCounts(entry.Diff)
		counts = &c
	}
	w.emit(blockHeight(1), unitMeta{}, w.paintFileHeader(file.Path, counts))

	if entry == nil {
		w.emit(1, unitMeta{}, w.paintPlaceholder("Loading..."))
		return
	}

	fileThreads := threadsForFile(w.p.Threads, file.Path)
	switch {
	case entry.Diff != nil:
		w.walkDiff(entry, fileThreads)
	case entry.Content != nil:
		w.walkContentFallback(entry, fileThreads)
	default:
		w.emit(1, unitMeta{}, w.paintPlaceholder("No content available"))
	}
}

// orphanContext carries everything needed to splice orphaned-thread context
// windows between hunks.
type orphanContext struct {
	sections     [][]LineRange
	threads      []review.Thread
	threadRanges []LineRange
	content      *FileContent
	highlights   [][]highlight.Span
}

// orphanState tracks comment emission across the file's context sections.
type orphanState struct {
	emitted  map[string]bool
	lastLine int
}

func (w *walker) walkDiff(entry *FileCacheEntry, fileThreads []review.Thread) {
	anchors := MapThreadsToDiff(entry.Diff, fileThreads)
	anchoredIDs := make(map[string]bool, len(anchors))
	anchorMap := make(map[int]*ThreadAnchor)
	commentMap := make(map[int]*ThreadAnchor)
	for i := range anchors {
		a := &anchors[i]
		anchoredIDs[a.ThreadID] = true
		anchorMap[a.DisplayLine] = a
		commentMap[a.CommentAfterLine] = a
	}

	var orphans []review.Thread
	for _, t := range fileThreads {
		if !anchoredIDs[t.ID] {
			orphans = append(orphans, t)
		}
	}

	var orphanCtx *orphanContext
	if len(orphans) > 0 && entry.Content != nil {
		hunkRanges := HunkExclusionRanges(entry.Diff.Hunks)
		endLine := entry.Content.StartLine + len(entry.Content.Lines) - 1
		ranges := CalculateContextRanges(orphans, entry.Content.StartLine, endLine, hunkRanges)
		sections := GroupRangesByHunks(ranges, hunkRanges)
		for _, s := range sections {
			if len(s) > 0 {
				orphanCtx = &orphanContext{
					sections:     sections,
					threads:      orphans,
					threadRanges: buildThreadRanges(orphans),
					content:      entry.Content,
					highlights:   entry.FileHighlights,
				}
				break
			}
		}
	}

	threadRanges := buildThreadRanges(fileThreads)
	state := &orphanState{emitted: make(map[string]bool)}
	bodyStart := w.row

	if w.p.ViewMode == ViewSideBySide {
		w.walkSideBySide(entry, fileThreads, anchors, orphanCtx, state, threadRanges)
	} else {
		w.walkUnified(entry, fileThreads, anchorMap, commentMap, orphanCtx, state, threadRanges)
	}

	if orphanCtx != nil {
		w.emitRemainingOrphanComments(orphanCtx, state)
	} else if len(orphans) > 0 {
		sorted := append([]review.Thread(nil), orphans...)
		sort.SliceStable(sorted, func(a, b int) bool {
			return sorted[a].SelectionStart < sorted[b].SelectionStart
		})
		for _, t := range sorted {
			w.note(t.ID)
			w.emitCommentBlock(t)
		}
	}

	if w.row == bodyStart {
		w.emit(1, unitMeta{}, w.paintPlaceholder("No changes"))
	}
}

func (w *walker) walkUnified(
	entry *FileCacheEntry,
	fileThreads []review.Thread,
	anchorMap, commentMap map[int]*ThreadAnchor,
	orphanCtx *orphanContext,
	state *orphanState,
	threadRanges []LineRange,
) {
	width := unifiedWrapWidth(w.p.Width)
	sectionIdx := 0
	idx := 0
	for hi := range entry.Diff.Hunks {
		hunk := &entry.Diff.Hunks[hi]

		w.emitOrphanSection(orphanCtx, sectionIdx, state, fileThreads)
		sectionIdx++

		if a := anchorMap[idx]; a != nil {
			w.note(a.ThreadID)
		}
		w.emit(1, unitMeta{}, w.paintHunkHeader(hunk.Header))
		w.emitCommentAfter(commentMap[idx], fileThreads)
		idx++

		for li := range hunk.Lines {
			line := &hunk.Lines[li]
			if a := anchorMap[idx]; a != nil {
				w.note(a.ThreadID)
			}

			spans := highlightAt(entry.DiffHighlights, idx)
			wrapped := w.wrapUnit(spans, line.Content, width)
			rows := len(wrapped)
			meta := unitMeta{newLine: lineNum(line.NewLine), stop: true}
			showBar := lineInThreadRanges(line.NewLine, threadRanges)
			isCursor := w.cursorAt(rows)
			isSelected := w.selectedAt(rows)
			w.emit(rows, meta, w.paintUnified(line, wrapped, showBar, isCursor, isSelected))

			w.emitCommentAfter(commentMap[idx], fileThreads)
			idx++
		}
	}
	w.emitOrphanSection(orphanCtx, sectionIdx, state, fileThreads)
}

func (w *walker) walkSideBySide(
	entry *FileCacheEntry,
	fileThreads []review.Thread,
	anchors []ThreadAnchor,
	orphanCtx *orphanContext,
	state *orphanState,
	threadRanges []LineRange,
) {
	sbsLines := BuildSideBySideLines(entry.Diff)
	leftWidth, rightWidth := sbsWrapWidths(w.p.Width)

	// Anchor lookup by new-side line number, mirrored onto SBS row indices.
	anchorMap := make(map[int]*ThreadAnchor)
	commentMap := make(map[int]*ThreadAnchor)
	for i := range anchors {
		a := &anchors[i]
		t, ok := threadByID(fileThreads, a.ThreadID)
		if !ok {
			continue
		}
		end := threadEnd(t)
		for si := range sbsLines {
			right := sbsLines[si].Right
			if right == nil {
				continue
			}
			if right.LineNum == t.SelectionStart {
				anchorMap[si] = a
			}
			if right.LineNum == end {
				commentMap[si] = a
			}
		}
	}

	sectionIdx := 0
	for si := range sbsLines {
		sl := &sbsLines[si]
		if sl.IsHeader {
			w.emitOrphanSection(orphanCtx, sectionIdx, state, fileThreads)
			sectionIdx++
		}
		if a := anchorMap[si]; a != nil {
			w.note(a.ThreadID)
		}

		if sl.IsHeader {
			w.emit(1, unitMeta{}, w.paintHunkHeader(entry.Diff.Hunks[sl.HunkIdx].Header))
		} else {
			leftWrapped := w.wrapSide(entry, sl.Left, leftWidth)
			rightWrapped := w.wrapSide(entry, sl.Right, rightWidth)
			rows := max(len(leftWrapped), len(rightWrapped))
			if rows < 1 {
				rows = 1
			}

			meta := unitMeta{stop: true}
			var rightLine *int
			if sl.Right != nil {
				meta.newLine = sl.Right.LineNum
				rightLine = &sl.Right.LineNum
			}
			showBar := lineInThreadRanges(rightLine, threadRanges)
			isCursor := w.cursorAt(rows)
			isSelected := w.selectedAt(rows)
			w.emit(rows, meta, w.paintSideBySide(sl, leftWrapped, rightWrapped, showBar, isCursor, isSelected))
		}

		w.emitCommentAfter(commentMap[si], fileThreads)
	}
	w.emitOrphanSection(orphanCtx, sectionIdx, state, fileThreads)
}

// wrapSide wraps one half of an SBS pair; a missing side is one blank row.
func (w *walker) wrapSide(entry *FileCacheEntry, side *SideLine, width int) []wrappedLine {
	if side == nil {
		return []wrappedLine{{}}
	}
	spans := highlightAt(entry.DiffHighlights, side.DisplayIndex)
	return w.wrapUnit(spans, side.Content, width)
}

// wrapUnit is the single row-height rule: wrapped heights when wrapping is
// on, exactly one row otherwise.
func (w *walker) wrapUnit(spans []highlight.Span, content string, width int) []wrappedLine {
	if !w.p.Wrap {
		return []wrappedLine{{Spans: spans, Text: content}}
	}
	return wrapContent(spans, content, width)
}

func (w *walker) emitCommentAfter(anchor *ThreadAnchor, fileThreads []review.Thread) {
	if anchor == nil {
		return
	}
	w.note(anchor.ThreadID)
	if t, ok := threadByID(fileThreads, anchor.ThreadID); ok {
		w.emitCommentBlock(t)
	}
}

func (w *walker) emitOrphanSection(ctx *orphanContext, sectionIdx int, state *orphanState, fileThreads []review.Thread) {
	if ctx == nil || sectionIdx >= len(ctx.sections) || len(ctx.sections[sectionIdx]) == 0 {
		return
	}

	w.emit(1, unitMeta{}, w.paintContextBase())

	width := contextWrapWidth(w.p.Width)
	items := buildContextItemsFromRanges(ctx.content, ctx.sections[sectionIdx])
	for _, item := range items {
		if !item.Separator && state.lastLine > 0 {
			// Threads whose range ended in the gap we just skipped still
			// need their comment blocks before the next context line.
			for _, t := range ctx.threads {
				end := threadEnd(t)
				if !state.emitted[t.ID] && end > state.lastLine && end < item.LineNum {
					state.emitted[t.ID] = true
					w.note(t.ID)
					w.emitCommentBlock(t)
				}
			}
		}

		if item.Separator {
			w.emit(1, unitMeta{}, w.paintSeparator(item.Gap))
			continue
		}

		ln := item.LineNum
		showBar := lineInThreadRanges(&ln, ctx.threadRanges)
		spans := highlightAt(ctx.highlights, ln-ctx.content.StartLine)
		wrapped := w.wrapUnit(spans, item.Content, width)
		rows := len(wrapped)
		isCursor := w.cursorAt(rows)
		isSelected := w.selectedAt(rows)
		w.emit(rows, unitMeta{newLine: ln, stop: true}, w.paintContext(ln, wrapped, showBar, isCursor, isSelected))

		for _, t := range ctx.threads {
			if !state.emitted[t.ID] && threadEnd(t) == ln {
				state.emitted[t.ID] = true
				w.note(t.ID)
				w.emitCommentBlock(t)
			}
		}
		state.lastLine = ln
	}
}

func (w *walker) emitRemainingOrphanComments(ctx *orphanContext, state *orphanState) {
	var remaining []review.Thread
	for _, t := range ctx.threads {
		if !state.emitted[t.ID] {
			remaining = append(remaining, t)
		}
	}
	sort.SliceStable(remaining, func(a, b int) bool {
		return remaining[a].SelectionStart < remaining[b].SelectionStart
	})
	for _, t := range remaining {
		w.note(t.ID)
		w.emitCommentBlock(t)
	}
}

func (w *walker) walkContentFallback(entry *FileCacheEntry, fileThreads []review.Thread) {
	width := contextWrapWidth(w.p.Width)
	threadRanges := buildThreadRanges(fileThreads)
	items := BuildContextItems(entry.Content, fileThreads, nil)
	emitted := make(map[string]bool)

	for _, item := range items {
		if item.Separator {
			w.emit(1, unitMeta{}, w.paintSeparator(item.Gap))
			continue
		}

		ln := item.LineNum
		showBar := lineInThreadRanges(&ln, threadRanges)
		spans := highlightAt(entry.FileHighlights, ln-entry.Content.StartLine)
		wrapped := w.wrapUnit(spans, item.Content, width)
		rows := len(wrapped)
		isCursor := w.cursorAt(rows)
		isSelected := w.selectedAt(rows)
		w.emit(rows, unitMeta{newLine: ln, stop: true}, w.paintContext(ln, wrapped, showBar, isCursor, isSelected))

		for _, t := range fileThreads {
			if !emitted[t.ID] && threadEnd(t) == ln {
				emitted[t.ID] = true
				w.note(t.ID)
				w.emitCommentBlock(t)
			}
		}
	}

	// Threads whose lines fell outside the content window still surface.
	var remaining []review.Thread
	for _, t := range fileThreads {
		if !emitted[t.ID] {
			remaining = append(remaining, t)
		}
	}
	sort.SliceStable(remaining, func(a, b int) bool {
		return remaining[a].SelectionStart < remaining[b].SelectionStart
	})
	for _, t := range remaining {
		w.note(t.ID)
		w.emitCommentBlock(t)
	}
}

// commentLine is one content row of a comment block.
type commentLine struct {
	left  string
	right string
	kind  commentLineKind
}

type commentLineKind int

const (
	commentLineHeader commentLineKind = iota
	commentLineAuthor
	commentLineBody
)

func buildCommentLines(t review.Thread, comments []review.Comment, contentWidth int) []commentLine {
	lineRange := fmt.Sprintf("%d", t.SelectionStart)
	if t.SelectionEnd > 0 && t.SelectionEnd != t.SelectionStart {
		lineRange = fmt.Sprintf("%d-%d", t.SelectionStart, t.SelectionEnd)
	}
	location := fmt.Sprintf("%s:%s", t.FilePath, lineRange)
	if maxRight := contentWidth - len(t.ID) - 1; maxRight <= 0 {
		location = ""
	} else if len(location) > maxRight {
		location = truncateRunes(location, maxRight)
	}

	lines := []commentLine{
		{left: t.ID, right: location, kind: commentLineHeader},
		{kind: commentLineBody},
	}
	for _, c := range comments {
		author := "@" + c.Author
		right := c.ID
		if maxRight := contentWidth - len(author) - 1; maxRight <= 0 {
			right = ""
		} else if len(right) > maxRight {
			right = truncateRunes(right, maxRight)
		}
		lines = append(lines, commentLine{left: author, right: right, kind: commentLineAuthor})
		for _, body := range Wrap(c.Body, contentWidth) {
			lines = append(lines, commentLine{left: body, kind: commentLineBody})
		}
	}
	return lines
}

func (w *walker) emitCommentBlock(t review.Thread) {
	comments := w.p.Comments[t.ID]
	if len(comments) == 0 || !w.expanded(t.ID) {
		return
	}

	contentLines := buildCommentLines(t, comments, blockInnerWidth(w.p.Width))
	rows := BlockPadding + len(contentLines) + BlockPadding + BlockMargin
	highlighted := w.cursorAt(rows) || w.selectedAt(rows)
	w.emit(rows, unitMeta{}, w.paintCommentBlock(contentLines, highlighted))
}

func threadsForFile(threads []review.Thread, path string) []review.Thread {
	var out []review.Thread
	for _, t := range threads {
		if t.FilePath == path {
			out = append(out, t)
		}
	}
	return out
}

func threadByID(threads []review.Thread, id string) (review.Thread, bool) {
	for _, t := range threads {
		if t.ID == id {
			return t, true
		}
	}
	return review.Thread{}, false
}

func highlightAt(hl [][]highlight.Span, idx int) []highlight.Span {
	if idx < 0 || idx >= len(hl) {
		return nil
	}
	return hl[idx]
}
