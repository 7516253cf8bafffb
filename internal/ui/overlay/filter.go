package overlay

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// filterMode represents the current selection mode
type filterMode string

const (
	filterModeNormal   filterMode = "normal"
	filterModeStatus   filterMode = "status"
	filterModePriority filterMode = "priority"
	filterModePhase    filterMode = "phase"
)

// filterOption represents a single selectable filter value
type filterOption struct {
	key   string
	label string
	value string
}

var statusOptions = []filterOption{
	{key: "*", label: "All", value: domain.FilterAll},
	{key: "t", label: domain.StatusTodo.Label(), value: string(domain.StatusTodo)},
	{key: "i", label: domain.StatusInProgress.Label(), value: string(domain.StatusInProgress)},
	{key: "d", label: domain.StatusDone.Label(), value: string(domain.StatusDone)},
	{key: "a", label: domain.StatusArchived.Label(), value: string(domain.StatusArchived)},
}

var priorityOptions = []filterOption{
	{key: "*", label: "All", value: domain.FilterAll},
	{key: "l", label: domain.PriorityLow.Label(), value: string(domain.PriorityLow)},
	{key: "m", label: domain.PriorityMedium.Label(), value: string(domain.PriorityMedium)},
	{key: "h", label: domain.PriorityHigh.Label(), value: string(domain.PriorityHigh)},
	{key: "c", label: domain.PriorityCritical.Label(), value: string(domain.PriorityCritical)},
}

// FilterMenu edits the status, priority and phase constraints of a filter in place
type FilterMenu struct {
	filter *domain.Filter
	phases []int
	styles *Styles
	mode   filterMode
}

// NewFilterMenu creates a filter menu; phases are the phase numbers offered (at most 9)
func NewFilterMenu(filter *domain.Filter, phases []int) *FilterMenu {
	if len(phases) > 9 {
		phases = phases[:9]
	}
	return &FilterMenu{
		filter: filter,
		phases: phases,
		styles: New(),
		mode:   filterModeNormal,
	}
}

// Init initializes the menu
func (m *FilterMenu) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *FilterMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case filterModeStatus:
		return m.choose(keyMsg, statusOptions, m.filter.SetStatus)
	case filterModePriority:
		return m.choose(keyMsg, priorityOptions, m.filter.SetPriority)
	case filterModePhase:
		return m.choose(keyMsg, m.phaseOptions(), m.filter.SetPhase)
	}
	return m.handleNormalMode(keyMsg)
}

// handleNormalMode handles keys in normal mode
func (m *FilterMenu) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		return m, closeCmd

	case "s":
		m.mode = filterModeStatus
	case "p":
		m.mode = filterModePriority
	case "P":
		m.mode = filterModePhase

	case "c":
		search := m.filter.SearchText
		m.filter.Clear()
		m.filter.SearchText = search
		return m, changed
	}

	return m, nil
}

// choose applies the option bound to the pressed key and returns to normal mode
func (m *FilterMenu) choose(msg tea.KeyMsg, options []filterOption, set func(string) error) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = filterModeNormal
		return m, nil
	}

	for _, opt := range options {
		if opt.key == msg.String() {
			m.mode = filterModeNormal
			if err := set(opt.value); err != nil {
				return m, nil
			}
			return m, changed
		}
	}
	return m, nil
}

func changed() tea.Msg {
	return FilterChangedMsg{}
}

func (m *FilterMenu) phaseOptions() []filterOption {
	options := []filterOption{
		{key: "*", label: "All", value: domain.FilterAll},
		{key: "n", label: "None", value: domain.FilterNoPhase},
	}
	for i, p := range m.phases {
		options = append(options, filterOption{
			key:   strconv.Itoa(i + 1),
			label: fmt.Sprintf("P%d", p),
			value: strconv.Itoa(p),
		})
	}
	return options
}

// View renders the menu
func (m *FilterMenu) View() string {
	var b strings.Builder

	b.WriteString(m.renderFilterLine("Status", "s", statusOptions, m.filter.Status, m.mode == filterModeStatus))
	b.WriteString(m.renderFilterLine("Priority", "p", priorityOptions, m.filter.Priority, m.mode == filterModePriority))
	b.WriteString(m.renderFilterLine("Phase", "P", m.phaseOptions(), m.filter.Phase, m.mode == filterModePhase))

	b.WriteString(m.styles.Separator.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")
	b.WriteString(m.styles.MenuKey.Render("[c]") + " " + m.styles.MenuItem.Render("Clear filters (keeps search)"))
	b.WriteString("\n")

	hint := "Press a category key • Esc to close"
	if m.mode != filterModeNormal {
		hint = "Press a value key • Esc to go back"
	}
	b.WriteString(m.styles.Footer.Render(hint))

	return b.String()
}

// renderFilterLine renders a filter category line with its current value marked
func (m *FilterMenu) renderFilterLine(category, categoryKey string, options []filterOption, current string, selecting bool) string {
	var b strings.Builder

	keyStyle := m.styles.MenuKey
	if selecting {
		keyStyle = m.styles.MenuItemActive
	}
	b.WriteString(keyStyle.Render(fmt.Sprintf("[%s]", categoryKey)))
	b.WriteString(" ")
	b.WriteString(m.styles.MenuItem.Render(category + ":"))

	if current == "" {
		current = domain.FilterAll
	}
	for _, opt := range options {
		indicator := " "
		style := m.styles.MenuItem
		if opt.value == current {
			indicator = "●"
			style = m.styles.MenuItemActive
		}
		b.WriteString(" ")
		b.WriteString(style.Render(fmt.Sprintf("[%s%s=%s]", indicator, opt.key, opt.label)))
	}

	b.WriteString("\n")
	return b.String()
}

// Title returns the overlay title
func (m *FilterMenu) Title() string {
	return "Filter Tasks"
}

// Size returns the overlay dimensions
func (m *FilterMenu) Size() (width, height int) {
	return 72, 11
}
