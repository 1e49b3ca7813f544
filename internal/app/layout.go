package app

const (
	sidebarWidthDefault = 36
	headerHeight        = 1
	footerHeight        = 1
)

// paneWidths returns the content widths of the sidebar and diff panes.
// Each visible pane carries a left+right border.
func paneWidths(totalWidth, desiredSidebar int, hideSidebar bool) (int, int) {
	if hideSidebar {
		available := totalWidth - 2
		if available < 1 {
			return 0, 1
		}
		return 0, available
	}

	available := totalWidth - 4
	if available < 2 {
		return 1, 1
	}

	sidebar := desiredSidebar
	if sidebar < 1 {
		sidebar = 1
	}
	if sidebar > available-1 {
		sidebar = available - 1
	}
	return sidebar, available - sidebar
}

// paneContentHeight is the inner height of the main panes: total minus the
// header line, the footer line, and the pane borders.
func paneContentHeight(totalHeight int) int {
	h := totalHeight - headerHeight - footerHeight - 2
	if h < 1 {
		return 1
	}
	return h
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
