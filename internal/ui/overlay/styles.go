package overlay

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/ui/styles"
)

// Styles holds all overlay-specific styles
type Styles struct {
	Overlay          lipgloss.Style
	Title            lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style
	Separator        lipgloss.Style
	Footer           lipgloss.Style
	Header           lipgloss.Style
	Label            lipgloss.Style
	Search           lipgloss.Style
	MatchCount       lipgloss.Style

	// Shared with the table so values look the same in both
	PriorityBadge func(priority domain.Priority) lipgloss.Style
	StatusBadge   func(status domain.Status) lipgloss.Style
}

// New derives the overlay styles from the application theme
func New() *Styles {
	base := styles.New()

	return &Styles{
		Overlay:          base.Overlay,
		Title:            base.OverlayTitle,
		MenuItem:         base.MenuItem,
		MenuItemActive:   base.MenuItemActive,
		MenuItemDisabled: base.MenuItemDisabled,
		MenuKey:          base.MenuKey,
		Separator:        base.Separator,

		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),

		Header: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(styles.Teal).
			Width(12).
			Align(lipgloss.Right),

		Search: lipgloss.NewStyle().
			Foreground(styles.Text).
			Background(styles.Surface0),

		MatchCount: lipgloss.NewStyle().
			Foreground(styles.Overlay1).
			Background(styles.Surface0),

		PriorityBadge: base.PriorityBadge,
		StatusBadge:   base.StatusBadge,
	}
}

// Render wraps an overlay's view in the bordered box with its title
func Render(o Overlay, s *Styles) string {
	body := o.View()
	if title := o.Title(); title != "" {
		body = s.Title.Render(title) + "\n" + body
	}

	box := s.Overlay
	if width, _ := o.Size(); width > 0 {
		box = box.Width(width)
	}
	return box.Render(body)
}
