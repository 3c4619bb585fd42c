package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.listSnap.HasPage {
		return m.renderConnectingHeader(styles, bg)
	}

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// renderConnectingHeader shows the pre-first-page state: either still
// connecting, or failing with the retained error.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.listSnap.LastError != nil {
		errorMsg := classifyConnectionError(m.listSnap.LastError)

		parts := []string{
			bg.Render("roster", styles.Logo),
			bg.Render("DIRECTORY "+errorMsg, styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(truncateMiddle(m.apiAddr, 40), styles.MutedText),
		}

		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("roster", styles.Logo) + sep +
			bg.Render("Connecting to "+truncateMiddle(m.apiAddr, 40)+"...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth

	var parts []string

	// Logo
	parts = append(parts, bg.Render("roster", styles.Logo))

	// Connection indicator. A single miss shows as a retry; repeated misses
	// flip to offline while the stale page stays on screen.
	switch {
	case m.listSnap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case m.listSnap.ConsecutiveFailures > 0:
		parts = append(parts, bg.Render("● RETRY", styles.WarningText))
	default:
		parts = append(parts, bg.Render("● OK", styles.SuccessText))
	}

	// Service address
	if !compact {
		parts = append(parts, bg.Render(truncateMiddle(m.apiAddr, 28), styles.FaintText))
	}

	// Directory size
	parts = append(parts,
		bg.Render("Users:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.listSnap.Page.TotalCount), styles.Text),
	)

	// In-flight fetch indicator
	if m.listSnap.Loading {
		parts = append(parts, m.spin.View()+bg.Space()+bg.Render("fetching", styles.InfoText))
	}

	// Timestamp with relative time
	timeStr := m.formatTimestamp()
	if timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	// Error indicator (page data stays on screen; see the list banner)
	if m.listSnap.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		errText := truncate(fmt.Sprintf("%v", m.listSnap.LastError), maxErr)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(errText, styles.DangerText),
		)
	}

	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last successful fetch time with a relative
// indicator.
func (m Model) formatTimestamp() string {
	last := m.listSnap.LastUpdated
	if last.IsZero() {
		return ""
	}

	timeSince := time.Since(last)
	timeStr := last.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewDetail:
		commands = []cmd{
			{"Tab", "Fields"},
			{"Space", "Toggle role"},
			{"ctrl+s", "Save"},
			{"A/X", "Activate/Deactivate"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default: // ViewList
		inactiveLabel := "Show inactive"
		if m.listSnap.Query.IncludeInactive {
			inactiveLabel = "Hide inactive"
		}
		commands = []cmd{
			{"/", "Search"},
			{"a", inactiveLabel},
			{"n/p", "Page"},
			{"enter", "Open"},
			{"r", "Reload"},
			{"j/k", "Navigate"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Show the active search term
	if m.currentView == ViewList && m.listSnap.Query.Search != "" {
		pattern := truncate(m.listSnap.Query.Search, 18)
		segments = append(segments,
			bg.Render("/"+pattern, styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
