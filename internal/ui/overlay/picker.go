package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// PickerOption is one choosable value
type PickerOption struct {
	Value string
	Label string
}

// ValuePicker chooses a status, priority or assignee for one task cell
type ValuePicker struct {
	taskID  string
	field   domain.EditField
	title   string
	options []PickerOption
	current string
	cursor  int
	styles  *Styles
}

func newValuePicker(task domain.Task, field domain.EditField, title string, options []PickerOption, current string) *ValuePicker {
	p := &ValuePicker{
		taskID:  task.ID,
		field:   field,
		title:   title,
		options: options,
		current: current,
		styles:  New(),
	}
	for i, opt := range options {
		if opt.Value == current {
			p.cursor = i
			break
		}
	}
	return p
}

// NewStatusPicker offers every status for task
func NewStatusPicker(task domain.Task) *ValuePicker {
	options := make([]PickerOption, len(domain.Statuses))
	for i, s := range domain.Statuses {
		options[i] = PickerOption{Value: string(s), Label: s.Label()}
	}
	return newValuePicker(task, domain.EditStatus, "Set Status", options, string(task.Status))
}

// NewPriorityPicker offers every priority for task
func NewPriorityPicker(task domain.Task) *ValuePicker {
	options := make([]PickerOption, len(domain.Priorities))
	for i, p := range domain.Priorities {
		options[i] = PickerOption{Value: string(p), Label: p.Label()}
	}
	return newValuePicker(task, domain.EditPriority, "Set Priority", options, string(task.Priority))
}

// NewAssigneePicker offers "Unassigned" followed by users
func NewAssigneePicker(task domain.Task, users []domain.Assignee) *ValuePicker {
	options := []PickerOption{{Value: "", Label: "Unassigned"}}
	for _, u := range users {
		label := u.DisplayName()
		if label == "" {
			label = u.ID
		}
		options = append(options, PickerOption{Value: u.ID, Label: label})
	}

	current := ""
	if task.AssigneeID != nil {
		current = *task.AssigneeID
	}
	return newValuePicker(task, domain.EditAssignee, "Assign To", options, current)
}

// Field returns the cell field being picked
func (p *ValuePicker) Field() domain.EditField {
	return p.field
}

// Init initializes the picker
func (p *ValuePicker) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (p *ValuePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key := keyMsg.String(); key {
	case "esc", "q":
		cancelled := PickCancelledMsg{TaskID: p.taskID, Field: p.field}
		return p, func() tea.Msg { return cancelled }

	case "j", "down":
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "g", "home":
		p.cursor = 0
	case "G", "end":
		p.cursor = max(0, len(p.options)-1)

	case "enter", " ":
		return p, p.pick(p.cursor)

	default:
		// Number keys pick directly
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(p.options) {
				return p, p.pick(i)
			}
		}
	}

	return p, nil
}

// pick reports the chosen value; the receiver closes the picker
func (p *ValuePicker) pick(index int) tea.Cmd {
	if index < 0 || index >= len(p.options) {
		return nil
	}
	picked := ValuePickedMsg{TaskID: p.taskID, Field: p.field, Value: p.options[index].Value}
	return func() tea.Msg { return picked }
}

// View renders the options with the cursor and current value marked
func (p *ValuePicker) View() string {
	var b strings.Builder

	for i, opt := range p.options {
		style := p.optionStyle(opt)
		cursor := "  "
		if i == p.cursor {
			cursor = "▶ "
			style = style.Bold(true).Underline(true)
		}

		key := "   "
		if i < 9 {
			key = fmt.Sprintf("%d. ", i+1)
		}

		marker := ""
		if opt.Value == p.current {
			marker = p.styles.MenuItemDisabled.Render("  (current)")
		}

		b.WriteString(p.styles.MenuItemActive.Render(cursor))
		b.WriteString(p.styles.MenuKey.Render(key))
		b.WriteString(style.Render(opt.Label))
		b.WriteString(marker)
		b.WriteString("\n")
	}

	b.WriteString(p.styles.Footer.Render("j/k: move • Enter or 1-9: pick • Esc: cancel"))
	return b.String()
}

func (p *ValuePicker) optionStyle(opt PickerOption) lipgloss.Style {
	switch p.field {
	case domain.EditStatus:
		return p.styles.StatusBadge(domain.Status(opt.Value))
	case domain.EditPriority:
		return p.styles.PriorityBadge(domain.Priority(opt.Value))
	}
	if opt.Value == "" {
		return p.styles.MenuItemDisabled
	}
	return p.styles.MenuItem
}

// Title returns the picker title
func (p *ValuePicker) Title() string {
	return p.title
}

// Size returns the picker dimensions
func (p *ValuePicker) Size() (width, height int) {
	return 40, len(p.options) + 6
}
