package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"critview/internal/clipboard"
	"critview/internal/config"
	"critview/internal/diffview"
	"critview/internal/highlight"
	"critview/internal/review"
	"critview/internal/theme"
	"critview/internal/vcs"
)

type screen int

const (
	screenList screen = iota
	screenDetail
)

type focusPane int

const (
	focusSidebar focusPane = iota
	focusDiff
)

// composeTarget says what the comment input submits to.
type composeTarget struct {
	threadID string // reply when set
	filePath string // new thread otherwise
	start    int
	end      int
}

type reviewsLoadedMsg struct {
	reviews []review.ReviewSummary
	err     error
}

type reviewOpenedMsg struct {
	detail   *review.ReviewDetail
	threads  []review.Thread
	comments map[string][]review.Comment
	files    []diffview.FileEntry
	bundle   map[string]string
	err      error
}

type fileLoadedMsg struct {
	path  string
	entry *diffview.FileCacheEntry
}

type commentSavedMsg struct {
	threadID string
	comment  review.Comment
	err      error
}

type threadCreatedMsg struct {
	thread review.Thread
	err    error
}

type clipboardResultMsg struct {
	err error
}

type threadCommentsLoadedMsg struct {
	threadID string
	comments []review.Comment
	err      error
}

type alertTickMsg struct{}

// Model is the Bubble Tea state container for the app.
type Model struct {
	keys  KeyMap
	log   zerolog.Logger
	store review.Store
	repo  *vcs.Repo
	hl    *highlight.Highlighter
	theme *theme.Theme

	width  int
	height int
	ready  bool

	screen        screen
	pendingReview string

	// Review list screen.
	reviews        []review.ReviewSummary
	listCursor     int
	listScroll     int
	statusFilter   string
	loadingReviews bool

	// Review detail screen.
	detail   *review.ReviewDetail
	files    []diffview.FileEntry
	threads  []review.Thread
	comments map[string][]review.Comment
	bundle   map[string]string
	cache    map[string]*diffview.FileCacheEntry
	loading  map[string]bool

	viewMode       diffview.ViewMode
	wrap           bool
	expandAll      bool
	expandedThread string

	scroll       int
	cursor       int
	visualMode   bool
	visualAnchor int

	focus         focusPane
	sidebarCursor int
	sidebarScroll int
	sidebarHidden bool

	// Derived stream geometry, refreshed after every state change that
	// feeds the layout engine.
	layout *diffview.Layout
	index  *diffview.RenderResult

	composeActive bool
	composeInput  textinput.Model
	composeTarget composeTarget
	composeErr    string

	alertMsg   string
	alertUntil time.Time
	helpOpen   bool
	err        error
}

// Options carries the app's wired collaborators.
type Options struct {
	Store    review.Store
	Repo     *vcs.Repo
	Config   config.AppConfig
	Logger   zerolog.Logger
	ReviewID string
	Status   string
}

func NewModel(opts Options) Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "Type comment"
	input.CharLimit = 4096
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	mode := diffview.ViewUnified
	if opts.Config.ViewMode == "side-by-side" {
		mode = diffview.ViewSideBySide
	}

	return Model{
		keys:          defaultKeyMap(),
		log:           opts.Logger,
		store:         opts.Store,
		repo:          opts.Repo,
		hl:            highlight.New(),
		theme:         theme.Derive(opts.Config.Theme),
		pendingReview: opts.ReviewID,
		statusFilter:  opts.Status,
		viewMode:      mode,
		wrap:          opts.Config.WrapDefault(),
		expandAll:     true,
		comments:      make(map[string][]review.Comment),
		cache:         make(map[string]*diffview.FileCacheEntry),
		loading:       make(map[string]bool),
		composeInput:  input,
		focus:         focusDiff,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadReviewsCmd(), alertTickCmd()}
	if m.pendingReview != "" {
		cmds = append(cmds, m.openReviewCmd(m.pendingReview))
	}
	return tea.Batch(cmds...)
}

func alertTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return alertTickMsg{} })
}

func (m *Model) setAlert(text string) {
	m.alertMsg = text
	m.alertUntil = time.Now().Add(3 * time.Second)
}

// streamParams assembles the pure input of the layout engine.
func (m *Model) streamParams() *diffview.StreamParams {
	_, diffW := paneWidths(m.width, sidebarWidthDefault, m.sidebarHidden)
	p := &diffview.StreamParams{
		Files:          m.files,
		Cache:          m.cache,
		Threads:        m.threads,
		Comments:       m.comments,
		ExpandAll:      m.expandAll,
		ExpandedThread: m.expandedThread,
		ViewMode:       m.viewMode,
		Wrap:           m.wrap,
		Width:          diffW,
		Theme:          m.theme,
		Cursor:         m.cursor,
	}
	if m.detail != nil {
		p.Description = m.detail.Description
	}
	if m.visualMode {
		p.Selection = &diffview.Selection{Anchor: m.visualAnchor, Cursor: m.cursor}
	}
	return p
}

// refreshStream recomputes the layout and the stream's index maps, then
// clamps scroll and cursor against the new geometry.
func (m *Model) refreshStream() {
	if m.screen != screenDetail || m.width <= 0 {
		return
	}
	p := m.streamParams()
	m.layout = diffview.ComputeLayout(p)
	// Height 0 records the index maps without painting any rows.
	m.index = diffview.RenderStream(p, 0, 0)

	maxScroll := m.layout.TotalRows - paneContentHeight(m.height)
	m.scroll = clamp(m.scroll, 0, maxScroll)
	m.cursor = diffview.SnapToStop(m.index.CursorStops, m.cursor)
}

// ensureCursorVisible scrolls so the cursor row stays in the pane.
func (m *Model) ensureCursorVisible() {
	h := paneContentHeight(m.height)
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
	if m.layout != nil {
		m.scroll = clamp(m.scroll, 0, m.layout.TotalRows-h)
	}
}

// cursorLine resolves the cursor row to its file and new-file line.
func (m *Model) cursorLine() (string, int, bool) {
	if m.index == nil || m.layout == nil {
		return "", 0, false
	}
	file := ""
	if idx := m.layout.ActiveFileIndex(m.cursor); idx >= 0 && idx < len(m.files) {
		file = m.files[idx].Path
	}
	line, ok := m.index.RowLine[m.cursor]
	return file, line, ok && file != ""
}

// selectionLines returns the selected new-file line range in line order.
func (m *Model) selectionLines() (string, int, int, bool) {
	if !m.visualMode {
		file, line, ok := m.cursorLine()
		return file, line, line, ok
	}
	lo, hi := m.visualAnchor, m.cursor
	if lo > hi {
		lo, hi = hi, lo
	}
	start, end := 0, 0
	for row := lo; row <= hi; row++ {
		line, ok := m.index.RowLine[row]
		if !ok {
			continue
		}
		if start == 0 || line < start {
			start = line
		}
		if line > end {
			end = line
		}
	}
	if start == 0 {
		return "", 0, 0, false
	}
	file := ""
	if idx := m.layout.ActiveFileIndex(lo); idx >= 0 && idx < len(m.files) {
		file = m.files[idx].Path
	}
	return file, start, end, file != ""
}

// threadAtCursor finds a thread whose selection covers the cursor line.
func (m *Model) threadAtCursor() (review.Thread, bool) {
	file, line, ok := m.cursorLine()
	if !ok {
		return review.Thread{}, false
	}
	for _, t := range m.threads {
		if t.FilePath != file {
			continue
		}
		end := t.SelectionEnd
		if end == 0 {
			end = t.SelectionStart
		}
		if line >= t.SelectionStart && line <= end {
			return t, true
		}
	}
	return review.Thread{}, false
}

type threadRow struct {
	row int
	id  string
}

// threadRowsSorted returns (stream row, thread id) pairs in stream order.
func (m *Model) threadRowsSorted() []threadRow {
	if m.index == nil {
		return nil
	}
	out := make([]threadRow, 0, len(m.index.ThreadRows))
	for id, row := range m.index.ThreadRows {
		out = append(out, threadRow{row: row, id: id})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].row != out[b].row {
			return out[a].row < out[b].row
		}
		return out[a].id < out[b].id
	})
	return out
}

func (m Model) loadReviewsCmd() tea.Cmd {
	store := m.store
	filter := m.statusFilter
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		reviews, err := store.ListReviews(ctx, filter)
		if err != nil {
			log.Warn().Err(err).Msg("list reviews failed")
		}
		return reviewsLoadedMsg{reviews: reviews, err: err}
	}
}

func (m Model) openReviewCmd(id string) tea.Cmd {
	store := m.store
	repo := m.repo
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		detail, err := store.GetReview(ctx, id)
		if err != nil {
			return reviewOpenedMsg{err: fmt.Errorf("open review %s: %w", id, err)}
		}
		threads, err := store.ListThreads(ctx, id)
		if err != nil {
			return reviewOpenedMsg{err: fmt.Errorf("list threads: %w", err)}
		}

		comments := make(map[string][]review.Comment, len(threads))
		for _, t := range threads {
			list, err := store.ListComments(ctx, t.ID)
			if err != nil {
				log.Warn().Err(err).Str("thread", t.ID).Msg("list comments failed")
				continue
			}
			comments[t.ID] = list
		}

		// File list: every file the review's diff touches plus every
		// file a thread points at.
		bundle := map[string]string{}
		if repo != nil {
			raw, err := repo.FullDiff(ctx, detail.InitialCommit, detail.FinalCommit)
			if err != nil {
				log.Warn().Err(err).Msg("full diff failed")
			} else if split, splitErr := review.SplitDiffBundle(raw); splitErr == nil {
				bundle = split
			} else {
				log.Warn().Err(splitErr).Msg("diff bundle split failed")
			}
		}

		seen := make(map[string]bool)
		var files []diffview.FileEntry
		for path := range bundle {
			if !seen[path] {
				seen[path] = true
				files = append(files, diffview.FileEntry{Path: path})
			}
		}
		for _, t := range threads {
			if !seen[t.FilePath] {
				seen[t.FilePath] = true
				files = append(files, diffview.FileEntry{Path: t.FilePath})
			}
		}
		sort.Slice(files, func(a, b int) bool { return files[a].Path < files[b].Path })

		return reviewOpenedMsg{
			detail:   &detail,
			threads:  threads,
			comments: comments,
			files:    files,
			bundle:   bundle,
		}
	}
}

// loadFileCmd fills one file's cache entry: bundle diff first, then a direct
// VCS diff, then file content for context windows. Failures degrade to "no
// data" rather than erroring the render.
func (m Model) loadFileCmd(path string) tea.Cmd {
	repo := m.repo
	hl := m.hl
	log := m.log
	bundleDiff := ""
	if m.bundle != nil {
		bundleDiff = m.bundle[path]
	}
	var initial, final string
	if m.detail != nil {
		initial, final = m.detail.InitialCommit, m.detail.FinalCommit
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		entry := &diffview.FileCacheEntry{}

		diffText := bundleDiff
		if diffText == "" && repo != nil {
			text, err := repo.FileDiff(ctx, path, initial, final)
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("file diff unavailable")
			} else {
				diffText = text
			}
		}
		if diffText != "" {
			d := diffview.Parse(diffText)
			if len(d.Hunks) > 0 {
				entry.Diff = &d
				entry.DiffHighlights = highlightDiff(hl, path, &d)
			}
		}

		if repo != nil {
			ref := final
			if ref == "" {
				ref = "HEAD"
			}
			lines, err := repo.FileContent(ctx, path, ref)
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("file content unavailable")
			} else {
				entry.Content = &diffview.FileContent{Lines: lines, StartLine: 1}
				entry.FileHighlights = highlightLines(hl, path, lines)
			}
		}

		return fileLoadedMsg{path: path, entry: entry}
	}
}

// highlightDiff produces one span slice per display line, hunk headers
// included (nil there), matching the engine's display indexing.
func highlightDiff(hl *highlight.Highlighter, path string, d *diffview.Diff) [][]highlight.Span {
	fh := hl.ForFile(path)
	var out [][]highlight.Span
	for _, hunk := range d.Hunks {
		out = append(out, nil)
		for _, line := range hunk.Lines {
			out = append(out, fh.Line(line.Content))
		}
	}
	return out
}

func highlightLines(hl *highlight.Highlighter, path string, lines []string) [][]highlight.Span {
	fh := hl.ForFile(path)
	out := make([][]highlight.Span, len(lines))
	for i, line := range lines {
		out[i] = fh.Line(line)
	}
	return out
}

func (m Model) submitCommentCmd(threadID, body string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c, err := store.SubmitComment(ctx, threadID, body)
		return commentSavedMsg{threadID: threadID, comment: c, err: err}
	}
}

func (m Model) createThreadCmd(reviewID, path string, start, end int, body string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		t, err := store.CreateThread(ctx, reviewID, path, start, end, body)
		return threadCreatedMsg{thread: t, err: err}
	}
}

func (m Model) loadThreadCommentsCmd(threadID string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		list, err := store.ListComments(ctx, threadID)
		return threadCommentsLoadedMsg{threadID: threadID, comments: list, err: err}
	}
}

func (m Model) copyLocationCmd(location string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return clipboardResultMsg{err: clipboard.CopyText(ctx, location)}
	}
}
