package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"critview/internal/diffview"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.refreshStream()
		return m, nil

	case reviewsLoadedMsg:
		m.loadingReviews = false
		m.err = msg.err
		m.reviews = msg.reviews
		m.listCursor = clamp(m.listCursor, 0, len(m.reviews)-1)
		return m, nil

	case reviewOpenedMsg:
		if msg.err != nil {
			m.setAlert(fmt.Sprintf("failed to open review: %v", msg.err))
			return m, nil
		}
		m.screen = screenDetail
		m.detail = msg.detail
		m.threads = msg.threads
		m.comments = msg.comments
		m.files = msg.files
		m.bundle = msg.bundle
		m.cache = make(map[string]*diffview.FileCacheEntry)
		m.loading = make(map[string]bool)
		m.scroll = 0
		m.cursor = 0
		m.visualMode = false
		m.expandedThread = ""
		m.sidebarCursor = 0
		m.sidebarScroll = 0
		m.refreshStream()
		if m.index != nil {
			m.cursor = diffview.FirstStop(m.index.CursorStops)
		}

		cmds := make([]tea.Cmd, 0, len(m.files))
		for _, f := range m.files {
			m.loading[f.Path] = true
			cmds = append(cmds, m.loadFileCmd(f.Path))
		}
		return m, tea.Batch(cmds...)

	case fileLoadedMsg:
		m.cache[msg.path] = msg.entry
		delete(m.loading, msg.path)
		m.refreshStream()
		return m, nil

	case threadCommentsLoadedMsg:
		if msg.err == nil {
			m.comments[msg.threadID] = msg.comments
			m.refreshStream()
		}
		return m, nil

	case commentSavedMsg:
		if msg.err != nil {
			m.composeErr = msg.err.Error()
			return m, nil
		}
		m.closeCompose()
		m.comments[msg.threadID] = append(m.comments[msg.threadID], msg.comment)
		for i := range m.threads {
			if m.threads[i].ID == msg.threadID {
				m.threads[i].CommentCount++
			}
		}
		m.refreshStream()
		m.setAlert("Comment posted.")
		return m, nil

	case threadCreatedMsg:
		if msg.err != nil {
			m.composeErr = msg.err.Error()
			return m, nil
		}
		m.closeCompose()
		m.threads = append(m.threads, msg.thread)
		m.expandedThread = msg.thread.ID
		m.refreshStream()
		m.setAlert("Thread created.")
		return m, m.loadThreadCommentsCmd(msg.thread.ID)

	case clipboardResultMsg:
		if msg.err != nil {
			m.setAlert(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			m.setAlert("Location copied to clipboard.")
		}
		return m, nil

	case alertTickMsg:
		if m.alertMsg != "" && !m.alertUntil.IsZero() && time.Now().After(m.alertUntil) {
			m.alertMsg = ""
			m.alertUntil = time.Time{}
		}
		return m, alertTickCmd()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.composeActive {
			return m.handleCompose(msg)
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.helpOpen = !m.helpOpen
			return m, nil
		}
		if m.screen == screenList {
			return m.updateListScreen(msg)
		}
		return m.updateDetailScreen(msg)
	}

	return m, nil
}

func (m Model) updateListScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.listCursor = clamp(m.listCursor-1, 0, len(m.reviews)-1)
		m.ensureListCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.listCursor = clamp(m.listCursor+1, 0, len(m.reviews)-1)
		m.ensureListCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.listCursor = 0
		m.ensureListCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.listCursor = clamp(len(m.reviews)-1, 0, len(m.reviews)-1)
		m.ensureListCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		switch m.statusFilter {
		case "":
			m.statusFilter = "open"
		case "open":
			m.statusFilter = "closed"
		default:
			m.statusFilter = ""
		}
		m.loadingReviews = true
		return m, m.loadReviewsCmd()

	case key.Matches(msg, m.keys.Refresh):
		m.loadingReviews = true
		return m, m.loadReviewsCmd()

	case key.Matches(msg, m.keys.Open):
		if m.listCursor >= 0 && m.listCursor < len(m.reviews) {
			return m, m.openReviewCmd(m.reviews[m.listCursor].ID)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateDetailScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.visualMode {
			m.visualMode = false
			m.refreshStream()
			return m, nil
		}
		m.screen = screenList
		return m, nil

	case key.Matches(msg, m.keys.ToggleFocus):
		if m.focus == focusSidebar {
			m.focus = focusDiff
		} else {
			m.focus = focusSidebar
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarHidden = !m.sidebarHidden
		if m.sidebarHidden && m.focus == focusSidebar {
			m.focus = focusDiff
		}
		// Restoring the sidebar narrows the diff pane, which can drop it
		// below what side-by-side needs.
		if !m.sidebarHidden && m.viewMode == diffview.ViewSideBySide {
			if _, diffW := paneWidths(m.width, sidebarWidthDefault, false); diffW < diffview.SideBySideMinWidth {
				m.viewMode = diffview.ViewUnified
				m.setAlert("Pane too narrow for side-by-side view.")
			}
		}
		m.refreshStream()
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.ToggleView):
		if m.viewMode == diffview.ViewUnified {
			_, diffW := paneWidths(m.width, sidebarWidthDefault, m.sidebarHidden)
			if diffW < diffview.SideBySideMinWidth {
				m.setAlert("Pane too narrow for side-by-side view.")
				return m, nil
			}
			m.viewMode = diffview.ViewSideBySide
		} else {
			m.viewMode = diffview.ViewUnified
		}
		m.refreshStream()
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.ToggleWrap):
		m.wrap = !m.wrap
		m.refreshStream()
		m.ensureCursorVisible()
		return m, nil

	case key.Matches(msg, m.keys.ToggleExpand):
		m.expandAll = !m.expandAll
		if !m.expandAll {
			m.expandedThread = ""
		}
		m.refreshStream()
		m.ensureCursorVisible()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.updateSidebar(msg)
	}
	return m.updateDiffPane(msg)
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sidebarEntries()
	if len(entries) == 0 {
		return m, nil
	}
	m.sidebarCursor = clamp(m.sidebarCursor, 0, len(entries)-1)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebarCursor = clamp(m.sidebarCursor-1, 0, len(entries)-1)
		m.ensureSidebarCursorVisible(len(entries))
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.sidebarCursor = clamp(m.sidebarCursor+1, 0, len(entries)-1)
		m.ensureSidebarCursorVisible(len(entries))
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.sidebarCursor = 0
		m.ensureSidebarCursorVisible(len(entries))
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.sidebarCursor = len(entries) - 1
		m.ensureSidebarCursorVisible(len(entries))
		return m, nil

	case key.Matches(msg, m.keys.Open):
		entry := entries[m.sidebarCursor]
		if entry.threadID != "" {
			m.jumpToThread(entry.threadID)
		} else if m.layout != nil {
			m.scroll = m.layout.FileScrollOffset(entry.fileIdx)
			if m.index != nil {
				m.cursor = diffview.SnapToStop(m.index.CursorStops, m.scroll)
			}
			m.refreshStream()
		}
		m.focus = focusDiff
		return m, nil
	}
	return m, nil
}

func (m Model) updateDiffPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.index == nil || m.layout == nil {
		return m, nil
	}
	stops := m.index.CursorStops
	h := paneContentHeight(m.height)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = diffview.PrevStop(stops, m.cursor)

	case key.Matches(msg, m.keys.Down):
		m.cursor = diffview.NextStop(stops, m.cursor)

	case key.Matches(msg, m.keys.Top):
		m.cursor = diffview.FirstStop(stops)

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = diffview.LastStop(stops)

	case key.Matches(msg, m.keys.HalfPageDown):
		m.cursor = diffview.SnapToStop(stops, m.cursor+h/2)

	case key.Matches(msg, m.keys.HalfPageUp):
		m.cursor = diffview.SnapToStop(stops, m.cursor-h/2)

	case key.Matches(msg, m.keys.PageDown):
		m.cursor = diffview.SnapToStop(stops, m.cursor+h)

	case key.Matches(msg, m.keys.PageUp):
		m.cursor = diffview.SnapToStop(stops, m.cursor-h)

	case key.Matches(msg, m.keys.JumpDown):
		m.cursor = diffview.SnapToStop(stops, m.cursor+10)

	case key.Matches(msg, m.keys.JumpUp):
		m.cursor = diffview.SnapToStop(stops, m.cursor-10)

	case key.Matches(msg, m.keys.ScrollDown):
		m.scroll = clamp(m.scroll+1, 0, m.layout.TotalRows-h)
		m.refreshStream()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.scroll = clamp(m.scroll-1, 0, m.layout.TotalRows-h)
		m.refreshStream()
		return m, nil

	case key.Matches(msg, m.keys.Visual):
		if m.visualMode {
			m.visualMode = false
		} else {
			m.visualMode = true
			m.visualAnchor = m.cursor
		}
		m.refreshStream()
		return m, nil

	case key.Matches(msg, m.keys.NextThread):
		m.jumpToAdjacentThread(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevThread):
		m.jumpToAdjacentThread(-1)
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		return m.startCompose()

	case key.Matches(msg, m.keys.Yank):
		file, start, end, ok := m.selectionLines()
		if !ok {
			m.setAlert("No line selected.")
			return m, nil
		}
		location := fmt.Sprintf("%s:%d", file, start)
		if end > start {
			location = fmt.Sprintf("%s:%d-%d", file, start, end)
		}
		return m, m.copyLocationCmd(location)

	default:
		return m, nil
	}

	m.ensureCursorVisible()
	m.refreshStream()
	return m, nil
}

func (m *Model) jumpToThread(threadID string) {
	if m.index == nil {
		return
	}
	row, ok := m.index.ThreadRows[threadID]
	if !ok {
		m.setAlert("Thread not visible yet.")
		return
	}
	m.expandedThread = threadID
	m.cursor = diffview.SnapToStop(m.index.CursorStops, row)
	m.ensureCursorVisible()
	m.refreshStream()
}

func (m *Model) jumpToAdjacentThread(direction int) {
	rows := m.threadRowsSorted()
	if len(rows) == 0 {
		m.setAlert("No threads in this review.")
		return
	}

	var target threadRow
	found := false
	if direction > 0 {
		for _, tr := range rows {
			if tr.row > m.cursor {
				target = tr
				found = true
				break
			}
		}
		if !found {
			target = rows[0]
		}
	} else {
		for i := len(rows) - 1; i >= 0; i-- {
			if rows[i].row < m.cursor {
				target = rows[i]
				found = true
				break
			}
		}
		if !found {
			target = rows[len(rows)-1]
		}
	}

	m.jumpToThread(target.id)
}

func (m Model) startCompose() (tea.Model, tea.Cmd) {
	if t, ok := m.threadAtCursor(); ok {
		m.composeTarget = composeTarget{threadID: t.ID}
		m.expandedThread = t.ID
	} else {
		file, start, end, ok := m.selectionLines()
		if !ok {
			m.setAlert("No commentable line selected.")
			return m, nil
		}
		if end == start {
			end = 0
		}
		m.composeTarget = composeTarget{filePath: file, start: start, end: end}
	}

	m.composeActive = true
	m.composeErr = ""
	m.composeInput.SetValue("")
	cmd := m.composeInput.Focus()
	m.refreshStream()
	return m, cmd
}

func (m Model) handleCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeCompose()
		return m, nil

	case tea.KeyEnter:
		body := strings.TrimSpace(m.composeInput.Value())
		if body == "" {
			m.composeErr = "Comment text is empty."
			return m, nil
		}
		if m.composeTarget.threadID != "" {
			return m, m.submitCommentCmd(m.composeTarget.threadID, body)
		}
		if m.detail == nil {
			m.closeCompose()
			return m, nil
		}
		t := m.composeTarget
		return m, m.createThreadCmd(m.detail.ID, t.filePath, t.start, t.end, body)
	}

	var cmd tea.Cmd
	m.composeInput, cmd = m.composeInput.Update(msg)
	m.composeErr = ""
	return m, cmd
}

func (m *Model) closeCompose() {
	m.composeActive = false
	m.composeInput.SetValue("")
	m.composeInput.Blur()
	m.composeErr = ""
	m.composeTarget = composeTarget{}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenDetail || m.layout == nil || m.index == nil {
		return m, nil
	}
	h := paneContentHeight(m.height)

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.scroll = clamp(m.scroll+3, 0, m.layout.TotalRows-h)
		m.refreshStream()
		return m, nil

	case tea.MouseButtonWheelUp:
		m.scroll = clamp(m.scroll-3, 0, m.layout.TotalRows-h)
		m.refreshStream()
		return m, nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		sidebarW, _ := paneWidths(m.width, sidebarWidthDefault, m.sidebarHidden)
		paneLeft := 0
		if !m.sidebarHidden {
			paneLeft = sidebarW + 2
		}
		if msg.X < paneLeft {
			return m, nil
		}
		row := m.scroll + msg.Y - headerHeight - 1
		if row < 0 || row >= m.layout.TotalRows {
			return m, nil
		}
		m.cursor = diffview.SnapToStop(m.index.CursorStops, row)
		m.ensureCursorVisible()
		m.refreshStream()
		return m, nil
	}
	return m, nil
}

func (m *Model) ensureListCursorVisible() {
	page := paneContentHeight(m.height)
	maxScroll := len(m.reviews) - page
	if maxScroll < 0 {
		maxScroll = 0
	}
	m.listScroll = clamp(m.listScroll, 0, maxScroll)
	if m.listCursor < m.listScroll {
		m.listScroll = m.listCursor
	}
	if m.listCursor >= m.listScroll+page {
		m.listScroll = m.listCursor - page + 1
	}
}

func (m *Model) ensureSidebarCursorVisible(total int) {
	page := paneContentHeight(m.height)
	maxScroll := total - page
	if maxScroll < 0 {
		maxScroll = 0
	}
	m.sidebarScroll = clamp(m.sidebarScroll, 0, maxScroll)
	if m.sidebarCursor < m.sidebarScroll {
		m.sidebarScroll = m.sidebarCursor
	}
	if m.sidebarCursor >= m.sidebarScroll+page {
		m.sidebarScroll = m.sidebarCursor - page + 1
	}
}
