package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kestrad/roster/internal/directory"
)

// selectedUserID returns the ID of the row the cursor is on, or "" when the
// page has no rows.
func (m Model) selectedUserID() string {
	items := m.listSnap.Page.Items
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return ""
	}
	return items[m.selectedRow].ID
}

// restoreSelection points the cursor back at the given user after a page
// commit. When the user is no longer on the page the cursor is clamped.
func (m *Model) restoreSelection(prevID string) {
	items := m.listSnap.Page.Items
	itemCount := len(items)

	if itemCount == 0 {
		m.selectedRow = 0
		return
	}

	if prevID != "" {
		for i, user := range items {
			if user.ID == prevID {
				m.selectedRow = i
				return
			}
		}
	}

	// User not found - clamp to valid range
	if m.selectedRow >= itemCount {
		m.selectedRow = itemCount - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// moveSelection moves the cursor by delta rows within page bounds.
func (m *Model) moveSelection(delta int) {
	itemCount := len(m.listSnap.Page.Items)
	if itemCount == 0 {
		return
	}
	row := m.selectedRow + delta
	if row < 0 {
		row = 0
	}
	if row >= itemCount {
		row = itemCount - 1
	}
	m.selectedRow = row
}

// updatePager syncs the paginator widget with the committed page.
func (m *Model) updatePager() {
	total := m.listSnap.Page.TotalPages
	if total < 1 {
		total = 1
	}
	page := m.listSnap.Page.PageNumber - 1
	if page < 0 {
		page = 0
	}
	if page >= total {
		page = total - 1
	}
	m.pager.TotalPages = total
	m.pager.Page = page
}

// renderList renders the user list view.
func (m Model) renderList() string {
	contentHeight := m.height - 2 // Account for header + cmdbar
	boxHeight := contentHeight

	var sections []string

	// The search prompt takes over a line above the table while active.
	if m.searchActive {
		bg := NewBgStyle(m.theme.Surface)
		line := bg.Space() + m.searchInput.View()
		sections = append(sections, bg.FillLine(line, m.width))
		boxHeight--
	}

	paneBg := m.theme.FocusBg
	if m.searchActive {
		paneBg = m.theme.SurfaceAlt
	}
	content := m.renderListContent(m.width-2, boxHeight-2, paneBg)
	sections = append(sections, m.renderTitledBox(m.getListTitle(), content, m.width, boxHeight, !m.searchActive))

	return strings.Join(sections, "\n")
}

// renderListContent builds the inner lines of the list box: column header,
// optional error banner, user rows, then a pinned pagination footer.
func (m Model) renderListContent(width, height int, paneBg string) string {
	if height < 1 {
		return ""
	}
	styles := m.theme.Styles()
	bg := NewBgStyle(paneBg)

	var lines []string
	lines = append(lines, m.formatColumnHeader(width, bg, styles))

	if m.listSnap.LastError != nil {
		banner := fmt.Sprintf("! %s (showing last loaded page)", m.listSnap.LastError)
		lines = append(lines, bg.Space()+bg.Render(truncate(banner, width-2), styles.DangerText))
	}

	switch {
	case !m.listSnap.HasPage && m.listSnap.Loading:
		lines = append(lines, "", bg.Spaces(2)+bg.Render("Loading users...", styles.MutedText))
	case !m.listSnap.HasPage:
		lines = append(lines, "", bg.Spaces(2)+bg.Render("No data yet. Press r to reload.", styles.MutedText))
	case len(m.listSnap.Page.Items) == 0:
		lines = append(lines, "", bg.Spaces(2)+bg.Render("No users match the current filters.", styles.MutedText))
	default:
		rowSpace := height - len(lines) - 1 // one line reserved for the footer
		lines = append(lines, m.renderUserRows(width, rowSpace, paneBg)...)
	}

	// Pin the footer to the bottom line of the box.
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	if len(lines) > height-1 {
		lines = lines[:height-1]
	}
	lines = append(lines, m.renderListFooter(bg, styles))

	return strings.Join(lines, "\n")
}

// renderUserRows renders at most space rows of the current page.
func (m Model) renderUserRows(width, space int, paneBg string) []string {
	items := m.listSnap.Page.Items
	var lines []string
	for i, user := range items {
		if i >= space {
			break
		}
		if i == m.selectedRow {
			content := m.formatUserRow(user, width, m.theme.SelectionBg, true)
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Width(width).
				Render(content))
		} else {
			lines = append(lines, m.formatUserRow(user, width, paneBg, false))
		}
	}
	return lines
}

// columnLayout returns the widths of the visible columns for the given inner
// width. Narrow terminals drop the email column first, then the username.
func (m Model) columnLayout(width int) (userW, nameW, emailW, statusW int) {
	statusW = 12
	gap := 2
	width-- // leading indent space

	switch {
	case m.width >= LayoutCompactWidth:
		userW = 18
		rest := width - statusW - userW - 3*gap
		emailW = rest * 45 / 100
		nameW = rest - emailW
	case m.width >= LayoutEmailWidth:
		rest := width - statusW - 2*gap
		emailW = rest * 45 / 100
		nameW = rest - emailW
	default:
		nameW = width - statusW - gap
	}

	if nameW < 10 {
		nameW = 10
	}
	return userW, nameW, emailW, statusW
}

// formatColumnHeader renders the table header line.
func (m Model) formatColumnHeader(width int, bg BgStyle, styles Styles) string {
	userW, nameW, emailW, statusW := m.columnLayout(width)

	var cells []string
	if userW > 0 {
		cells = append(cells, padRight("USERNAME", userW))
	}
	cells = append(cells, padRight("FULL NAME", nameW))
	if emailW > 0 {
		cells = append(cells, padRight("EMAIL", emailW))
	}
	cells = append(cells, padRight("STATUS", statusW))

	return bg.Space() + bg.Render(strings.Join(cells, "  "), styles.FaintText)
}

// formatUserRow formats one user row with inline colors. When selected is
// true every part uses SelectionText so the row stays readable on the
// selection background.
func (m Model) formatUserRow(user directory.User, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	userW, nameW, emailW, statusW := m.columnLayout(width)

	var userStyle, nameStyle, emailStyle, statusStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		userStyle = selText
		nameStyle = selText
		emailStyle = selText
		statusStyle = selText
	} else {
		styles := m.theme.Styles()
		userStyle = styles.MutedText
		nameStyle = styles.Text
		emailStyle = styles.FaintText
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForStatus(statusLabel(user.IsActive))))
	}

	var parts []string
	if userW > 0 {
		parts = append(parts, bg.Render(padRight(truncate(user.UserName, userW), userW), userStyle))
	}
	parts = append(parts, bg.Render(padRight(truncate(user.FullName, nameW), nameW), nameStyle))
	if emailW > 0 {
		parts = append(parts, bg.Render(padRight(truncate(user.Email, emailW), emailW), emailStyle))
	}
	status := ternary(user.IsActive, "● active", "○ inactive")
	parts = append(parts, bg.Render(padRight(status, statusW), statusStyle))

	return bg.Space() + strings.Join(parts, bg.Spaces(2))
}

// renderListFooter renders the pagination line at the bottom of the box.
func (m Model) renderListFooter(bg BgStyle, styles Styles) string {
	if !m.listSnap.HasPage {
		return ""
	}
	page := m.listSnap.Page

	info := fmt.Sprintf("page %d/%d · %d users", page.PageNumber, max(page.TotalPages, 1), page.TotalCount)
	line := bg.Space() + bg.Render(info, styles.MutedText)

	// Dots stop scaling past a couple dozen pages; the text carries it alone.
	if page.TotalPages > 1 && page.TotalPages <= 24 {
		line += bg.Spaces(2) + m.pager.View()
	}

	return line
}

// colorForStatus returns the theme color for a given state label.
func (m Model) colorForStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Text
}

// statusLabel maps the active flag onto its badge label.
func statusLabel(active bool) string {
	return ternary(active, "active", "inactive")
}

// getListTitle returns the list pane title with filter indicators.
func (m Model) getListTitle() string {
	if !m.listSnap.HasPage {
		return "Users"
	}
	title := fmt.Sprintf("Users (%d)", m.listSnap.Page.TotalCount)
	if s := m.listSnap.Query.Search; s != "" {
		title += fmt.Sprintf(" · search: %s", truncate(s, 20))
	}
	if m.listSnap.Query.IncludeInactive {
		title += " · including inactive"
	}
	return title
}

// renderTitledBox renders content in a box with the title embedded in the top
// border, tview frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	// Build the top border with embedded title. Widths are measured in cells,
	// not bytes: titles carry non-ASCII separators.
	innerWidth := width - 2
	title = truncate(title, innerWidth-4)
	titleLen := lipgloss.Width(title)
	leftPad := (innerWidth - titleLen - 2) / 2
	if leftPad < 0 {
		leftPad = 0
	}
	rightPad := innerWidth - titleLen - 2 - leftPad
	if rightPad < 0 {
		rightPad = 0
	}

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
