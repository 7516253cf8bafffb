package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Table
	HeaderCell       lipgloss.Style
	HeaderCellActive lipgloss.Style
	Separator        lipgloss.Style
	Row              lipgloss.Style
	RowActive        lipgloss.Style
	CellActive       lipgloss.Style
	Subtask          lipgloss.Style
	Muted            lipgloss.Style
	Overdue          lipgloss.Style
	Pending          lipgloss.Style
	Editor           lipgloss.Style
	Cursor           lipgloss.Style
	Expander         lipgloss.Style

	// Aggregate summary under expanded parents
	Aggregate      lipgloss.Style
	AggregateAlert lipgloss.Style

	// Badges
	PriorityBadge func(priority domain.Priority) lipgloss.Style
	StatusBadge   func(status domain.Status) lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusMode    lipgloss.Style
	StatusHint    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusOffline lipgloss.Style

	// Overlays
	Overlay          lipgloss.Style
	OverlayTitle     lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		HeaderCell: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true),

		HeaderCellActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		Row: lipgloss.NewStyle().
			Foreground(Text),

		RowActive: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0),

		CellActive: lipgloss.NewStyle().
			Foreground(Base).
			Background(Lavender),

		Subtask: lipgloss.NewStyle().
			Foreground(Subtext1),

		Muted: lipgloss.NewStyle().
			Foreground(Overlay0),

		Overdue: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		Pending: lipgloss.NewStyle().
			Foreground(Overlay1).
			Italic(true),

		Editor: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface2),

		Cursor: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		Expander: lipgloss.NewStyle().
			Foreground(Mauve),

		Aggregate: lipgloss.NewStyle().
			Foreground(Subtext0).
			Italic(true),

		AggregateAlert: lipgloss.NewStyle().
			Foreground(Peach).
			Italic(true),

		PriorityBadge: func(priority domain.Priority) lipgloss.Style {
			color, ok := PriorityColors[priority]
			if !ok {
				color = Overlay0
			}
			style := lipgloss.NewStyle().Foreground(color)
			if priority == domain.PriorityCritical {
				style = style.Bold(true)
			}
			return style
		},

		StatusBadge: func(status domain.Status) lipgloss.Style {
			color, ok := StatusColors[status]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().Foreground(color)
		},

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		StatusOffline: lipgloss.NewStyle().
			Background(Red).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuItemDisabled: lipgloss.NewStyle().
			Foreground(Overlay0),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),
	}
}
