package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/config"
)

// ProjectSelectedMsg is sent when a project is chosen to be shown
type ProjectSelectedMsg struct {
	Project config.Project
}

// ProjectDefaultMsg is sent when a project should become the registry default
type ProjectDefaultMsg struct {
	Name string
}

// ProjectSelector lists the registered projects and switches between them
type ProjectSelector struct {
	registry *config.ProjectsRegistry
	current  string
	cursor   int
	styles   *Styles
}

// NewProjectSelector creates a selector with the cursor on the project with id current
func NewProjectSelector(registry *config.ProjectsRegistry, current string) *ProjectSelector {
	if registry == nil {
		registry = &config.ProjectsRegistry{}
	}
	m := &ProjectSelector{
		registry: registry,
		current:  current,
		styles:   New(),
	}
	for i, p := range registry.Projects {
		if p.ID == current {
			m.cursor = i
			break
		}
	}
	return m
}

// Init initializes the overlay
func (m *ProjectSelector) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ProjectSelector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, closeCmd

	case "j", "down":
		if m.cursor < len(m.registry.Projects)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "enter":
		if p, ok := m.selected(); ok {
			return m, func() tea.Msg { return ProjectSelectedMsg{Project: p} }
		}

	case "d":
		if p, ok := m.selected(); ok {
			return m, func() tea.Msg { return ProjectDefaultMsg{Name: p.Name} }
		}
	}

	return m, nil
}

func (m *ProjectSelector) selected() (config.Project, bool) {
	if m.cursor < 0 || m.cursor >= len(m.registry.Projects) {
		return config.Project{}, false
	}
	return m.registry.Projects[m.cursor], true
}

// View renders the project list
func (m *ProjectSelector) View() string {
	var b strings.Builder

	if len(m.registry.Projects) == 0 {
		b.WriteString(m.styles.MenuItemDisabled.Render("No projects registered."))
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render("Add one with: tasktable project add NAME ID"))
		return b.String()
	}

	for i, p := range m.registry.Projects {
		cursor := "  "
		style := m.styles.MenuItem
		if i == m.cursor {
			cursor = "▶ "
			style = m.styles.MenuItemActive
		}

		b.WriteString(m.styles.MenuItemActive.Render(cursor))
		b.WriteString(style.Render(p.Name))
		b.WriteString(m.styles.MenuItemDisabled.Render(fmt.Sprintf("  %s", p.ID)))
		if p.Name == m.registry.DefaultProject {
			b.WriteString(m.styles.MenuKey.Render("  ★"))
		}
		if p.ID == m.current {
			b.WriteString(m.styles.MenuItemDisabled.Render("  (shown)"))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render("Enter: switch • d: make default • Esc: close"))
	return b.String()
}

// Title returns the overlay title
func (m *ProjectSelector) Title() string {
	return "Projects"
}

// Size returns the overlay dimensions
func (m *ProjectSelector) Size() (width, height int) {
	return 56, max(len(m.registry.Projects), 2) + 6
}
