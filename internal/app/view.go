package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/ui/overlay"
	"github.com/riordanpawley/tasktable/internal/ui/statusbar"
	"github.com/riordanpawley/tasktable/internal/ui/toast"
)

// View renders the current state as a string
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Spinner until the first list arrives
	if m.loading && m.store.Len() == 0 {
		return m.renderLoading()
	}

	// Bottom area: search bar, toasts, status bar
	var bottom []string
	current := m.overlayStack.Current()
	modal := false
	if current != nil {
		if width, _ := current.Size(); width == 0 {
			bottom = append(bottom, m.styles.Editor.Render(current.View()))
		} else {
			modal = true
		}
	}
	if len(m.toasts) > 0 {
		if toastView := toast.New(m.styles).Render(m.toasts, m.width); toastView != "" {
			bottom = append(bottom, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toastView))
		}
	}
	sb := statusbar.New(m.editor.GetMode(), m.width, m.styles).WithInfo(m.statusInfo())
	bottom = append(bottom, sb.Render())
	footer := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	available := max(1, m.height-lipgloss.Height(footer))
	body := m.table.Render()
	if modal {
		// Centered modal overlay with border and title
		body = lipgloss.Place(
			m.width,
			available,
			lipgloss.Center,
			lipgloss.Center,
			overlay.Render(current, m.overlayStyles),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, clipLines(body, available), footer)
}

// clipLines keeps the first n lines of s
func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

// renderLoading renders a centered loading spinner with message
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.spinner.View(),
		"Loading tasks...",
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

func (m Model) statusInfo() statusbar.Info {
	return statusbar.Info{
		Shown:   m.view.Matched,
		Total:   m.store.Len(),
		Filter:  describeFilter(m.editor.GetFilter()),
		Sort:    describeSort(m.editor.GetSort()),
		Pending: m.store.PendingCount(),
		Offline: !m.isOnline,
		Loading: m.loading,
	}
}

// describeFilter summarises the active constraints, empty when none
func describeFilter(f *domain.Filter) string {
	if f == nil || !f.IsActive() {
		return ""
	}

	var parts []string
	if q := strings.TrimSpace(f.SearchText); q != "" {
		parts = append(parts, fmt.Sprintf("%q", q))
	}
	if f.Status != "" && f.Status != domain.FilterAll {
		parts = append(parts, "status:"+domain.Status(f.Status).Label())
	}
	if f.Priority != "" && f.Priority != domain.FilterAll {
		parts = append(parts, "priority:"+domain.Priority(f.Priority).Label())
	}
	switch f.Phase {
	case "", domain.FilterAll:
	case domain.FilterNoPhase:
		parts = append(parts, "phase:none")
	default:
		parts = append(parts, "phase:P"+f.Phase)
	}
	return strings.Join(parts, " ")
}

// describeSort names the sorted column and direction, empty when unsorted
func describeSort(s *domain.Sort) string {
	if s == nil || !s.IsActive() {
		return ""
	}
	arrow := "↑"
	if s.Order == domain.SortDesc {
		arrow = "↓"
	}
	return fmt.Sprintf("sort:%s%s", s.Field, arrow)
}
