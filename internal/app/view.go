package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"critview/internal/diffview"
	"critview/internal/review"
)

type sidebarEntry struct {
	fileIdx  int
	threadID string
	label    string
	indent   bool
}

// sidebarEntries lists files with their threads nested underneath, both in
// the stream's order so the sidebar matches the diff pane.
func (m *Model) sidebarEntries() []sidebarEntry {
	var out []sidebarEntry
	for i, f := range m.files {
		var threads []review.Thread
		for _, t := range m.threads {
			if t.FilePath == f.Path {
				threads = append(threads, t)
			}
		}
		sort.SliceStable(threads, func(a, b int) bool {
			return m.threadStreamPos(threads[a]) < m.threadStreamPos(threads[b])
		})

		label := f.Path
		if len(threads) > 0 {
			label = fmt.Sprintf("%s (%d)", f.Path, len(threads))
		}
		out = append(out, sidebarEntry{fileIdx: i, label: label})

		for _, t := range threads {
			lineRange := fmt.Sprintf("%d", t.SelectionStart)
			if t.SelectionEnd > 0 && t.SelectionEnd != t.SelectionStart {
				lineRange = fmt.Sprintf("%d-%d", t.SelectionStart, t.SelectionEnd)
			}
			marker := "○"
			if t.Status == "resolved" || t.Status == "closed" {
				marker = "●"
			}
			out = append(out, sidebarEntry{
				fileIdx:  i,
				threadID: t.ID,
				label:    fmt.Sprintf("%s :%s (%d)", marker, lineRange, t.CommentCount),
				indent:   true,
			})
		}
	}
	return out
}

// threadStreamPos orders threads by their stream row; threads the stream has
// not positioned yet sort after positioned ones, by selection start.
func (m *Model) threadStreamPos(t review.Thread) int {
	if m.index != nil {
		if row, ok := m.index.ThreadRows[t.ID]; ok {
			return row
		}
	}
	return 1<<30 + t.SelectionStart
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	if m.screen == screenList {
		body = m.renderListScreen()
	} else {
		body = m.renderDetailScreen()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	title := "critview — reviews"
	if m.screen == screenDetail && m.detail != nil {
		title = fmt.Sprintf("critview — %s (%s)", m.detail.Title, m.detail.ID)
	}
	if m.statusFilter != "" && m.screen == screenList {
		title += fmt.Sprintf("  [%s]", m.statusFilter)
	}
	return lipgloss.NewStyle().
		Foreground(m.theme.Foreground).
		Background(m.theme.PanelBg).
		Bold(true).
		Width(max(1, m.width)).
		Render(ansi.Truncate(" "+title, max(1, m.width), "…"))
}

func (m Model) renderFooter() string {
	if m.composeActive {
		prompt := "reply"
		if m.composeTarget.threadID == "" {
			prompt = fmt.Sprintf("new thread %s:%d", m.composeTarget.filePath, m.composeTarget.start)
		}
		line := fmt.Sprintf(" %s > %s", prompt, m.composeInput.View())
		if m.composeErr != "" {
			line += "  " + lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.composeErr)
		}
		return lipgloss.NewStyle().Width(max(1, m.width)).Render(line)
	}
	if m.alertMsg != "" {
		return lipgloss.NewStyle().
			Foreground(m.theme.Warning).
			Width(max(1, m.width)).
			Render(ansi.Truncate(" "+m.alertMsg, max(1, m.width), "…"))
	}
	return lipgloss.NewStyle().
		Foreground(m.theme.Muted).
		Width(max(1, m.width)).
		Render(ansi.Truncate(" "+m.helpText(), max(1, m.width), "…"))
}

func (m Model) helpText() string {
	if m.screen == screenList {
		return "j/k move | enter open | f filter | r refresh | q quit"
	}
	if !m.helpOpen {
		return "j/k move | n/p threads | v view | w wrap | c comments | V select | a comment | y copy | tab focus | q back | ? more"
	}
	return "g/G top/bottom | ctrl-d/u half page | ctrl-f/b page | {/} jump 10 | ctrl-e/y scroll | s sidebar | enter sidebar jump | esc cancel"
}

func (m Model) renderListScreen() string {
	height := paneContentHeight(m.height)
	width := max(1, m.width-2)

	lines := make([]string, 0, height)
	if m.loadingReviews {
		lines = append(lines, "Loading reviews...")
	} else if len(m.reviews) == 0 {
		lines = append(lines, "No reviews found.")
	}

	start := clamp(m.listScroll, 0, max(0, len(m.reviews)-height))
	end := min(start+height, len(m.reviews))
	for i := start; i < end; i++ {
		r := m.reviews[i]
		prefix := "  "
		if i == m.listCursor {
			prefix = "> "
		}
		open := ""
		if r.OpenThreadCount > 0 {
			open = fmt.Sprintf(" [%d open]", r.OpenThreadCount)
		}
		line := fmt.Sprintf("%s%-8s %-10s %s — %s%s", prefix, r.Status, r.Author, r.ID, r.Title, open)

		style := lipgloss.NewStyle().Width(width).MaxWidth(width)
		if i == m.listCursor {
			style = style.Foreground(m.theme.Primary).Bold(true)
		}
		lines = append(lines, style.Render(ansi.Truncate(line, width, "…")))
	}

	if m.err != nil {
		lines = append(lines, "", fmt.Sprintf("error: %v", m.err))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(max(1, height)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.theme.BorderFocused).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetailScreen() string {
	height := paneContentHeight(m.height)
	sidebarW, diffW := paneWidths(m.width, sidebarWidthDefault, m.sidebarHidden)

	diffPane := m.renderDiffPane(diffW, height)
	if m.sidebarHidden {
		return diffPane
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(sidebarW, height), diffPane)
}

func (m Model) renderSidebar(width, height int) string {
	borderColor := m.theme.Border
	if m.focus == focusSidebar {
		borderColor = m.theme.BorderFocused
	}

	entries := m.sidebarEntries()
	lines := make([]string, 0, height)
	if len(entries) == 0 {
		lines = append(lines, "No files")
	}

	start := clamp(m.sidebarScroll, 0, max(0, len(entries)-height))
	end := min(start+height, len(entries))
	for i := start; i < end; i++ {
		e := entries[i]
		prefix := "  "
		if i == m.sidebarCursor && m.focus == focusSidebar {
			prefix = "> "
		}
		indent := ""
		if e.indent {
			indent = "  "
		}
		line := prefix + indent + e.label

		style := lipgloss.NewStyle().Width(width).MaxWidth(width)
		if e.indent {
			style = style.Foreground(m.theme.Muted)
		}
		if i == m.sidebarCursor && m.focus == focusSidebar {
			style = style.Foreground(m.theme.Primary).Bold(true)
		}
		lines = append(lines, style.Render(ansi.Truncate(line, width, "…")))
	}

	return lipgloss.NewStyle().
		Width(max(1, width)).
		Height(max(1, height)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderDiffPane(width, height int) string {
	borderColor := m.theme.Border
	if m.focus == focusDiff {
		borderColor = m.theme.BorderFocused
	}

	var lines []string
	if len(m.files) == 0 {
		lines = []string{"No files in this review."}
	} else {
		res := diffview.RenderStream(m.streamParams(), m.scroll, height)
		lines = res.Rows
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Width(max(1, width)).
		Height(max(1, height)).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))
}
