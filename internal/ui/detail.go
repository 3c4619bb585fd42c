package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kestrad/roster/internal/directory"
	"github.com/kestrad/roster/internal/state"
)

// renderDetail renders the edit view.
func (m Model) renderDetail() string {
	contentHeight := m.height - 2 // Account for header + cmdbar
	content := m.renderDetailContent(m.width-2, contentHeight-2)
	return m.renderTitledBox(m.getDetailTitle(), content, m.width, contentHeight, true)
}

// getDetailTitle returns the edit pane title.
func (m Model) getDetailTitle() string {
	snap := m.editorSnap
	switch {
	case snap.HasDetail:
		return fmt.Sprintf("Edit · %s", truncate(snap.Detail.FullName, 40))
	case snap.UserID != "":
		return fmt.Sprintf("Edit · %s", snap.UserID)
	default:
		return "Edit"
	}
}

// renderDetailContent renders the inside of the edit box for the current
// editor phase.
func (m Model) renderDetailContent(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	snap := m.editorSnap

	switch snap.Phase {
	case state.PhaseIdle:
		msg := bg.Render("No user selected.", styles.MutedText)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)

	case state.PhaseLoading:
		msg := m.spin.View() + bg.Space() + bg.Render("Loading "+snap.UserID+"...", styles.MutedText)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)

	case state.PhaseLoadFailed:
		return m.renderDetailLoadError(width, height, bg, styles)
	}

	if !snap.HasDetail {
		return ""
	}

	return m.detailViewport.View() + "\n\n" + m.renderDetailStatusLine(width, bg, styles)
}

// renderDetailLoadError renders the load-failure screen. A vanished user gets
// a distinct message from a transient fetch error.
func (m Model) renderDetailLoadError(width, height int, bg BgStyle, styles Styles) string {
	snap := m.editorSnap

	var lines []string
	if errors.Is(snap.LastError, directory.ErrNotFound) {
		lines = append(lines,
			bg.Render("This user no longer exists.", styles.WarningText),
			"",
			bg.Render("esc to go back", styles.MutedText),
		)
	} else {
		msg := "load failed"
		if snap.LastError != nil {
			msg = snap.LastError.Error()
		}
		lines = append(lines,
			bg.Render(truncate(msg, width-4), styles.DangerText),
			"",
			bg.Render("r to retry · esc to go back", styles.MutedText),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

// buildDetailForm renders the scrollable form body and reports which content
// line each focusable field sits on, keyed by focus index.
func (m Model) buildDetailForm(width int, bg BgStyle, styles Styles) ([]string, map[int]int) {
	snap := m.editorSnap
	d := snap.Detail
	editable := snap.Phase == state.PhaseReady
	fieldErrs := validationFields(snap.LastError)
	focusLines := make(map[int]int)

	var lines []string

	// Identity summary (read-only)
	badge := styles.StatusStyle(statusLabel(d.IsActive)).Render(strings.ToUpper(statusLabel(d.IsActive)))
	lines = append(lines,
		bg.Space()+bg.Render(d.UserName, styles.AccentText)+bg.Spaces(2)+badge+bg.Spaces(2)+bg.Render(d.ID, styles.FaintText),
		bg.Space()+bg.Render(truncate(d.Email, width-2), styles.MutedText),
	)

	audit := fmt.Sprintf("created %s · updated %s · last login %s",
		formatAbsTime(d.ParsedCreatedAt()),
		formatAbsTime(d.ParsedUpdatedAt()),
		formatAbsTime(d.ParsedLastLoginAt()))
	lines = append(lines, bg.Space()+bg.Render(truncate(audit, width-2), styles.FaintText))

	// Editable fields
	lines = append(lines, "")
	focusLines[0] = len(lines)
	lines = append(lines, m.formatFormField("Full name", m.nameInput.View(), m.focusIdx == 0, bg, styles))
	if msg, ok := fieldErrs["fullName"]; ok {
		lines = append(lines, bg.Spaces(3)+bg.Render("↳ "+msg, styles.DangerText))
	}

	focusLines[1] = len(lines)
	lines = append(lines, m.formatFormField("Phone", m.phoneInput.View(), m.focusIdx == 1, bg, styles))
	if msg, ok := fieldErrs["phoneNumber"]; ok {
		lines = append(lines, bg.Spaces(3)+bg.Render("↳ "+msg, styles.DangerText))
	}

	// Role checklist
	lines = append(lines, "", bg.Space()+bg.Render("Roles", styles.MutedText))
	if msg, ok := fieldErrs["roles"]; ok {
		lines = append(lines, bg.Spaces(3)+bg.Render("↳ "+msg, styles.DangerText))
	}
	for i, pair := range snap.Buffer.Roles {
		focusLines[2+i] = len(lines)
		marker := ternary(pair.Enabled, "[x]", "[ ]")
		cursor := ternary(m.focusIdx == 2+i, "▸", " ")

		rowStyle := styles.Text
		switch {
		case m.focusIdx == 2+i:
			rowStyle = styles.AccentText
		case !editable || !pair.Enabled:
			rowStyle = styles.FaintText
		}
		lines = append(lines, bg.Space()+bg.Render(cursor+" "+marker+" "+pair.Name, rowStyle))
	}
	if len(snap.Buffer.Roles) == 0 {
		lines = append(lines, bg.Spaces(3)+bg.Render("no roles defined", styles.FaintText))
	}

	return lines, focusLines
}

// formatFormField renders one labelled input line.
func (m Model) formatFormField(label, input string, focused bool, bg BgStyle, styles Styles) string {
	cursor := ternary(focused, "▸ ", "  ")
	labelStyle := styles.MutedText
	if focused {
		labelStyle = styles.AccentText
	}
	return bg.Space() + bg.Render(cursor+padRight(label, 12), labelStyle) + input
}

// renderDetailStatusLine renders the pinned line under the form: in-flight
// writes, failures, or the dirty indicator.
func (m Model) renderDetailStatusLine(width int, bg BgStyle, styles Styles) string {
	snap := m.editorSnap

	switch snap.Phase {
	case state.PhaseSaving:
		return bg.Space() + m.spin.View() + bg.Space() + bg.Render("saving...", styles.InfoText)
	case state.PhaseToggling:
		return bg.Space() + m.spin.View() + bg.Space() + bg.Render("updating status...", styles.WarningText)
	}

	if snap.LastError != nil {
		if validationFields(snap.LastError) != nil {
			return bg.Space() + bg.Render("! rejected: fix the highlighted fields", styles.DangerText)
		}
		return bg.Space() + bg.Render(truncate("! "+snap.LastError.Error(), width-2), styles.DangerText)
	}

	if m.editorDirty() {
		return bg.Space() + bg.Render("unsaved changes · ctrl+s to save", styles.WarningText)
	}

	hint := ternary(snap.Detail.IsActive, "X deactivates this user", "A activates this user")
	return bg.Space() + bg.Render(hint, styles.FaintText)
}

// editorDirty reports whether the draft buffer differs from the loaded
// record.
func (m Model) editorDirty() bool {
	snap := m.editorSnap
	if !snap.HasDetail {
		return false
	}
	if snap.Buffer.FullName != snap.Detail.FullName {
		return true
	}
	if snap.Buffer.PhoneNumber != snap.Detail.PhoneNumber {
		return true
	}
	return rolesDiffer(snap.Buffer.Roles, snap.Detail.Roles)
}

// rolesDiffer compares the checklist's enabled set against an assignment
// list, ignoring order and duplicates.
func rolesDiffer(pairs []state.RolePair, assigned []string) bool {
	enabled := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if p.Enabled {
			enabled[p.Name] = true
		}
	}

	seen := make(map[string]bool, len(assigned))
	count := 0
	for _, role := range assigned {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		count++
		if !enabled[role] {
			return true
		}
	}
	return len(enabled) != count
}

// validationFields extracts per-field messages when err wraps a validation
// failure, nil otherwise.
func validationFields(err error) map[string]string {
	var ve *directory.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// formatAbsTime formats an audit timestamp, with "never" for the zero value.
func formatAbsTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// detailLayout returns the inner width and the viewport height of the edit
// box for the current terminal size.
func (m Model) detailLayout() (width, height int) {
	width = m.width - 2               // box borders
	height = m.height - 2 - 2 - 1 - 1 // header+cmdbar, borders, status line, gap
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// updateDetailViewport re-renders the form into the viewport. Called whenever
// the buffer, focus, theme or terminal size changes.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	w, h := m.detailLayout()
	m.detailViewport.Width = w
	m.detailViewport.Height = h

	switch m.editorSnap.Phase {
	case state.PhaseReady, state.PhaseSaving, state.PhaseToggling:
		lines, _ := m.buildDetailForm(w, NewBgStyle(m.theme.FocusBg), m.theme.Styles())
		m.detailViewport.SetContent(strings.Join(lines, "\n"))
	}
}

// scrollDetailToFocus nudges the viewport so the focused field stays visible.
func (m *Model) scrollDetailToFocus() {
	if !m.ready {
		return
	}
	w, h := m.detailLayout()
	_, focusLines := m.buildDetailForm(w, NewBgStyle(m.theme.FocusBg), m.theme.Styles())
	line, ok := focusLines[m.focusIdx]
	if !ok || h <= 0 {
		return
	}
	if line < m.detailViewport.YOffset {
		m.detailViewport.SetYOffset(line)
	} else if line >= m.detailViewport.YOffset+h {
		m.detailViewport.SetYOffset(line - h + 1)
	}
}
