package diffview

// Layout constants shared by the projection and the row painters. All block,
// diff, and comment geometry derives from these so the two can never drift.

const (
	BlockMargin  = 1
	BlockPadding = 1

	BlockSideMargin = 2
	BlockLeftPad    = 2
	BlockRightPad   = 2

	DiffMargin = 2

	ThreadColWidth      = 2
	UnifiedLineNumWidth = 12
	SBSLineNumWidth     = 6
	ContextLineNumWidth = 6

	CommentHMargin = 2
	CommentHPad    = 2

	// ContextRadius is the number of lines shown around an orphaned thread.
	ContextRadius = 5

	// SideBySideMinWidth is the narrowest pane that still renders SBS.
	SideBySideMinWidth = 100
)

// blockHeight is the row count of a block with n content rows.
func blockHeight(contentRows int) int {
	return contentRows + 2*(BlockMargin+BlockPadding)
}

// unifiedWrapWidth is the content width of a unified diff line.
func unifiedWrapWidth(paneWidth int) int {
	return clampWidth(paneWidth - ThreadColWidth - UnifiedLineNumWidth - 2)
}

// contextWrapWidth is the content width of an orphaned-context line.
func contextWrapWidth(paneWidth int) int {
	return clampWidth(paneWidth - ContextLineNumWidth)
}

// sbsWrapWidths are the per-side content widths in side-by-side mode.
func sbsWrapWidths(paneWidth int) (int, int) {
	available := clampWidth(paneWidth - ThreadColWidth - 1)
	half := available / 2
	side := clampWidth(half - SBSLineNumWidth)
	return side, side
}

// blockInnerWidth is the content width inside a bar block (file headers,
// comment blocks, description): side margins, bar glyph, inner padding.
func blockInnerWidth(paneWidth int) int {
	return clampWidth(paneWidth - BlockSideMargin*2 - 1 - BlockLeftPad - BlockRightPad)
}

func clampWidth(w int) int {
	if w < 0 {
		return 0
	}
	return w
}
