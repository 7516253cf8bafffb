// Package toast renders transient notifications above the status bar.
package toast

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/types"
	"github.com/riordanpawley/tasktable/internal/ui/styles"
)

// MaxVisible is how many toasts are stacked at once; older ones wait their turn
const MaxVisible = 3

// maxWidth caps a toast's width on wide terminals
const maxWidth = 40

// ToastRenderer handles rendering of toast notifications
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a new ToastRenderer with the given styles
func New(styles *styles.Styles) *ToastRenderer {
	return &ToastRenderer{
		styles: styles,
	}
}

// entry is a toast with the number of identical toasts folded into it
type entry struct {
	toast types.Toast
	count int
}

// Render renders the newest toasts stacked for the bottom-right corner.
// Consecutive toasts with the same level and message are shown once with a count.
// Returns empty string if no toasts to display
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	entries := collapse(toasts)
	if len(entries) == 0 {
		return ""
	}
	if len(entries) > MaxVisible {
		entries = entries[len(entries)-MaxVisible:]
	}

	toastWidth := min(width/3, maxWidth)

	rendered := make([]string, 0, len(entries))
	for _, e := range entries {
		text := icon(e.toast.Level) + " " + e.toast.Message
		if e.count > 1 {
			text += fmt.Sprintf(" (×%d)", e.count)
		}
		rendered = append(rendered, r.styleForLevel(e.toast.Level).Width(toastWidth).Render(text))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func collapse(toasts []types.Toast) []entry {
	var entries []entry
	for _, t := range toasts {
		if n := len(entries); n > 0 {
			last := &entries[n-1]
			if last.toast.Level == t.Level && last.toast.Message == t.Message {
				last.count++
				last.toast = t
				continue
			}
		}
		entries = append(entries, entry{toast: t, count: 1})
	}
	return entries
}

// Prune drops the toasts that have expired at now, keeping order
func Prune(toasts []types.Toast, now time.Time) []types.Toast {
	kept := toasts[:0]
	for _, t := range toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	return kept
}

func icon(level types.ToastLevel) string {
	switch level {
	case types.ToastSuccess:
		return "✓"
	case types.ToastWarning:
		return "!"
	case types.ToastError:
		return "✗"
	default:
		return "•"
	}
}

// styleForLevel returns the appropriate style for a toast level
func (r *ToastRenderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
