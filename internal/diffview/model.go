// Package diffview is the layout and rendering engine for the diff pane: it
// turns per-file diffs (or windowed file content), comment threads, and
// comments into one scrollable virtual document, with exact maps between
// stream rows and semantic positions.
package diffview

import (
	"critview/internal/highlight"
	"critview/internal/review"
	"critview/internal/theme"
)

type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// DiffLine is one line of a hunk. OldLine is set for Context/Removed,
// NewLine for Context/Added. Content carries no +/-/space marker.
type DiffLine struct {
	Kind    LineKind
	OldLine *int
	NewLine *int
	Content string
}

type Hunk struct {
	Header   string
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

type Diff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// LineRange is an inclusive 1-based [Start, End] window.
type LineRange struct {
	Start int
	End   int
}

type ViewMode int

const (
	ViewUnified ViewMode = iota
	ViewSideBySide
)

func (m ViewMode) String() string {
	if m == ViewSideBySide {
		return "side-by-side"
	}
	return "unified"
}

// FileEntry is one file of the review, in review order.
type FileEntry struct {
	Path string
}

// FileContent is a window of a file's lines. StartLine is the 1-based line
// number of Lines[0].
type FileContent struct {
	Lines     []string
	StartLine int
}

// FileCacheEntry holds everything the engine needs for one file. Diff wins
// over Content when both are present; highlights align 1:1 with the diff's
// display lines (hunk headers included, nil there) and with Content.Lines.
type FileCacheEntry struct {
	Diff           *Diff
	Content        *FileContent
	DiffHighlights [][]highlight.Span
	FileHighlights [][]highlight.Span
}

// StreamParams are the inputs of one layout pass. The engine never mutates
// them; the virtual document is a pure function of this struct.
type StreamParams struct {
	Files       []FileEntry
	Cache       map[string]*FileCacheEntry
	Threads     []review.Thread
	Comments    map[string][]review.Comment
	Description string

	// ExpandAll renders every thread's comment block; otherwise only
	// ExpandedThread's block is rendered.
	ExpandAll      bool
	ExpandedThread string

	ViewMode ViewMode
	Wrap     bool
	Width    int
	Theme    *theme.Theme

	Cursor    int
	Selection *Selection
}

// Layout is the projection output: row geometry without painted rows.
type Layout struct {
	DescriptionRows int
	FileOffsets     []int
	TotalRows       int
}

// ActiveFileIndex returns the file whose stream segment contains scroll.
func (l *Layout) ActiveFileIndex(scroll int) int {
	idx := 0
	for i, off := range l.FileOffsets {
		if off <= scroll {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// FileScrollOffset returns the first stream row of a file.
func (l *Layout) FileScrollOffset(index int) int {
	if index < 0 || index >= len(l.FileOffsets) {
		return 0
	}
	return l.FileOffsets[index]
}

// RenderResult is the materialization output: the painted window plus the
// index maps for the whole stream.
type RenderResult struct {
	// Rows are the painted rows of the visible window, in order.
	Rows []string
	// RowLine maps every stream row showing a new-file line to that line.
	RowLine map[int]int
	// ThreadRows maps a thread id to the first stream row where it is
	// visible (anchor row for anchored threads, block start for orphans).
	ThreadRows map[string]int
	// CursorStops is the ascending list of rows eligible for the cursor.
	CursorStops []int

	DescriptionRows int
	FileOffsets     []int
	TotalRows       int
}
