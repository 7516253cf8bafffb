package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// SortOption represents a sort option with metadata
type SortOption struct {
	Key         string
	Label       string
	Field       domain.SortField
	Description string
}

// SortOptions are the sortable columns in menu order
var SortOptions = []SortOption{
	{Key: "t", Label: "Status", Field: domain.SortByStatus, Description: "to do first"},
	{Key: "r", Label: "Priority", Field: domain.SortByPriority, Description: "low first"},
	{Key: "p", Label: "Phase", Field: domain.SortByPhase, Description: "unphased last"},
	{Key: "a", Label: "Assignee", Field: domain.SortByAssignee, Description: "by name, unassigned last"},
	{Key: "s", Label: "Start date", Field: domain.SortByStartDate, Description: "missing dates last"},
	{Key: "d", Label: "Due date", Field: domain.SortByDueDate, Description: "missing dates last"},
}

// SortMenu is a menu overlay for sorting configuration
type SortMenu struct {
	sort   *domain.Sort
	styles *Styles
}

// NewSortMenu creates a new sort menu for the given sort state
func NewSortMenu(sort *domain.Sort) *SortMenu {
	return &SortMenu{
		sort:   sort,
		styles: New(),
	}
}

// Init initializes the menu
func (m *SortMenu) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SortMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := keyMsg.String(); key {
	case "esc", "q", "enter":
		return m, closeCmd

	case "x":
		m.sort.Clear()
		return m, sortChanged

	default:
		for _, opt := range SortOptions {
			if opt.Key == key {
				// Same key again flips the direction, a third press clears
				m.sort.Toggle(opt.Field)
				return m, sortChanged
			}
		}
	}

	return m, nil
}

func sortChanged() tea.Msg {
	return SortChangedMsg{}
}

// View renders the menu
func (m *SortMenu) View() string {
	var b strings.Builder

	for _, opt := range SortOptions {
		isActive := m.sort.IsActive() && m.sort.Field == opt.Field

		keyStyle, labelStyle := m.styles.MenuItem, m.styles.MenuItem
		if isActive {
			keyStyle, labelStyle = m.styles.MenuKey, m.styles.MenuItemActive
		}

		b.WriteString(keyStyle.Render("[" + opt.Key + "]"))
		b.WriteString(" ")
		b.WriteString(labelStyle.Render(opt.Label))
		b.WriteString(" ")
		b.WriteString(m.styles.MenuItemDisabled.Render("(" + opt.Description + ")"))

		if isActive {
			arrow := "↑"
			if m.sort.Order == domain.SortDesc {
				arrow = "↓"
			}
			b.WriteString(" ")
			b.WriteString(m.styles.MenuItemActive.Render("● " + arrow))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.MenuKey.Render("[x]") + " " + m.styles.MenuItem.Render("Original order"))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("Same key: asc → desc → off • Esc to close"))

	return b.String()
}

// Title returns the overlay title
func (m *SortMenu) Title() string {
	return "Sort"
}

// Size returns the overlay dimensions
func (m *SortMenu) Size() (width, height int) {
	return 60, len(SortOptions) + 6
}
