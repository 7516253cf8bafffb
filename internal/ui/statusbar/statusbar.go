package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/types"
	"github.com/riordanpawley/tasktable/internal/ui/styles"
)

// Info is the table state summarised on the right of the status bar
type Info struct {
	Shown   int    // rows passing the filter
	Total   int    // tasks loaded
	Filter  string // active filter description, empty when none
	Sort    string // active sort description, empty when none
	Pending int    // optimistic updates awaiting the backend
	Offline bool
	Loading bool
}

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode   types.Mode
	width  int
	info   Info
	styles *styles.Styles
}

// New creates a new StatusBar with the given mode, width, and styles
func New(mode types.Mode, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:   mode,
		width:  width,
		styles: styles,
	}
}

// WithInfo returns a copy of the status bar showing info
func (sb StatusBar) WithInfo(info Info) StatusBar {
	sb.info = info
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	// Mode badge
	modeBadge := sb.styles.StatusMode.Render(" " + sb.mode.String() + " ")

	left := []string{modeBadge}
	if sb.info.Offline {
		left = append(left, " ", sb.styles.StatusOffline.Render("OFFLINE"))
	}

	// Keybinding hints
	if hints := GetHints(sb.mode); hints != "" {
		separator := sb.styles.StatusHint.Render(" │ ")
		left = append(left, separator, sb.styles.StatusHint.Render(hints))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	if summary := sb.summary(); summary != "" {
		right := sb.styles.StatusInfo.Render(summary)
		// the status bar style pads one cell on each side
		gap := sb.width - 2 - lipgloss.Width(content) - lipgloss.Width(right)
		if gap > 0 {
			content += strings.Repeat(" ", gap) + right
		}
	}

	// Apply status bar style and fill width
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}

func (sb StatusBar) summary() string {
	var parts []string
	if sb.info.Loading {
		parts = append(parts, "loading…")
	}
	if sb.info.Pending > 0 {
		parts = append(parts, fmt.Sprintf("%d saving", sb.info.Pending))
	}
	if sb.info.Filter != "" {
		parts = append(parts, sb.info.Filter)
	}
	if sb.info.Sort != "" {
		parts = append(parts, sb.info.Sort)
	}
	if sb.info.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", sb.info.Shown, sb.info.Total))
	}
	return strings.Join(parts, "  ")
}
