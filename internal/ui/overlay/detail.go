package overlay

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// DetailPanel displays full task details with a scrollable description
type DetailPanel struct {
	task       domain.Task
	subtasks   []domain.Task
	today      domain.Date
	scrollY    int
	viewHeight int
	styles     *Styles
}

// NewDetailPanel shows task; subtasks is its loaded bucket, nil when not loaded
func NewDetailPanel(task domain.Task, subtasks []domain.Task, today domain.Date) *DetailPanel {
	return &DetailPanel{
		task:       task,
		subtasks:   subtasks,
		today:      today,
		viewHeight: 12,
		styles:     New(),
	}
}

// TaskID returns the id of the task shown
func (d *DetailPanel) TaskID() string {
	return d.task.ID
}

// Init initializes the detail panel
func (d *DetailPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (d *DetailPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	switch keyMsg.String() {
	case "esc", "q", "o", "enter":
		return d, closeCmd

	case "j", "down":
		if d.scrollY < d.maxScroll() {
			d.scrollY++
		}
	case "k", "up":
		if d.scrollY > 0 {
			d.scrollY--
		}
	case "g":
		d.scrollY = 0
	case "G":
		d.scrollY = d.maxScroll()
	}

	return d, nil
}

// View renders the detail panel
func (d *DetailPanel) View() string {
	var b strings.Builder
	t := d.task

	b.WriteString(d.styles.Header.Render(fmt.Sprintf("[%s] %s", t.ID, t.Title)))
	b.WriteString("\n\n")

	d.field(&b, "Status:", d.styles.StatusBadge(t.Status).Render(t.Status.Label()))
	d.field(&b, "Priority:", d.styles.PriorityBadge(t.Priority).Render(t.Priority.Label()))

	phase := "none"
	if t.PhaseNumber != nil {
		phase = fmt.Sprintf("P%d", *t.PhaseNumber)
	}
	d.field(&b, "Phase:", d.styles.MenuItem.Render(phase))

	assignee := "unassigned"
	if name := t.Assignee.DisplayName(); name != "" {
		assignee = name
		if t.Assignee.Email != "" && t.Assignee.Email != name {
			assignee += " <" + t.Assignee.Email + ">"
		}
	} else if t.AssigneeID != nil && *t.AssigneeID != "" {
		assignee = *t.AssigneeID
	}
	d.field(&b, "Assignee:", d.styles.MenuItem.Render(assignee))

	d.field(&b, "Start:", d.styles.MenuItem.Render(orNone(domain.DateString(t.StartDate))))
	due := orNone(domain.DateString(t.DueDate))
	if t.Overdue(d.today) {
		due += " (overdue)"
	}
	d.field(&b, "Due:", d.styles.MenuItem.Render(due))

	if t.IsSubtask() {
		d.field(&b, "Parent:", d.styles.MenuItem.Render(*t.ParentTaskID))
	}
	d.field(&b, "Version:", d.styles.MenuItem.Render(fmt.Sprintf("%d", t.Version)))
	if !t.UpdatedAt.IsZero() {
		d.field(&b, "Updated:", d.styles.MenuItem.Render(formatTime(t.UpdatedAt)))
	}

	if d.subtasks != nil {
		agg := domain.AggregateSubtasks(d.subtasks, d.today)
		b.WriteString("\n")
		b.WriteString(d.styles.Header.Render("Subtasks"))
		b.WriteString(" ")
		b.WriteString(d.styles.MenuItemDisabled.Render(agg.Summary))
		b.WriteString("\n")
		for _, sub := range d.subtasks {
			b.WriteString("  ")
			b.WriteString(d.styles.StatusBadge(sub.Status).Render(statusGlyph(sub.Status)))
			b.WriteString(" ")
			b.WriteString(d.styles.MenuItem.Render(sub.Title))
			b.WriteString("\n")
		}
	}

	if t.Description != "" {
		b.WriteString("\n")
		b.WriteString(d.styles.Header.Render("Description"))
		b.WriteString("\n")

		lines := strings.Split(t.Description, "\n")
		end := min(d.scrollY+d.viewHeight, len(lines))
		for _, line := range lines[d.scrollY:end] {
			b.WriteString(d.styles.MenuItem.Render(line))
			b.WriteString("\n")
		}

		if d.maxScroll() > 0 {
			b.WriteString(d.styles.Footer.Render(
				fmt.Sprintf("[j/k to scroll, g/G to jump] (line %d/%d)", d.scrollY+1, len(lines)),
			))
		}
	}

	return b.String()
}

func (d *DetailPanel) field(b *strings.Builder, label, value string) {
	b.WriteString(d.styles.Label.Render(label))
	b.WriteString("  ")
	b.WriteString(value)
	b.WriteString("\n")
}

// Title returns the overlay title
func (d *DetailPanel) Title() string {
	return "Task Details"
}

// Size returns the overlay dimensions
func (d *DetailPanel) Size() (width, height int) {
	return 70, 30
}

// maxScroll returns the maximum description scroll position
func (d *DetailPanel) maxScroll() int {
	if d.task.Description == "" {
		return 0
	}
	return max(0, len(strings.Split(d.task.Description, "\n"))-d.viewHeight)
}

func statusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusDone:
		return "✓"
	case domain.StatusInProgress:
		return "◐"
	case domain.StatusArchived:
		return "▪"
	default:
		return "○"
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
