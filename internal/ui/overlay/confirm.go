package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// ActionDelete is the confirm action for deleting a task
const ActionDelete = "delete"

// ConfirmDialog is a confirmation dialog overlay with Yes/No options
type ConfirmDialog struct {
	title    string
	message  string
	action   string
	taskID   string
	styles   *Styles
	selected bool // true = Yes, false = No
}

// NewConfirmDialog creates a dialog that answers with a ConfirmResultMsg for action on taskID
func NewConfirmDialog(title, message, action, taskID string) *ConfirmDialog {
	return &ConfirmDialog{
		title:   title,
		message: message,
		action:  action,
		taskID:  taskID,
		styles:  New(),
	}
}

// NewDeleteConfirm asks before deleting task and its subtasks
func NewDeleteConfirm(task domain.Task, subtasks int) *ConfirmDialog {
	message := fmt.Sprintf("Delete %q?", task.Title)
	if subtasks > 0 {
		message += fmt.Sprintf("\nIts %d subtask(s) will be deleted too.", subtasks)
	}
	return NewConfirmDialog("Delete Task", message, ActionDelete, task.ID)
}

// Init initializes the dialog
func (c *ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (c *ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		return c, c.answer(true)

	case "n", "N", "esc":
		return c, c.answer(false)

	case "enter":
		return c, c.answer(c.selected)

	case "left", "h":
		c.selected = true
		return c, nil

	case "right", "l", "tab":
		c.selected = false
		return c, nil
	}

	return c, nil
}

// answer reports the result; the receiver closes the dialog
func (c *ConfirmDialog) answer(confirmed bool) tea.Cmd {
	result := ConfirmResultMsg{Action: c.action, TaskID: c.taskID, Confirmed: confirmed}
	return func() tea.Msg { return result }
}

// View renders the dialog
func (c *ConfirmDialog) View() string {
	var b strings.Builder

	if c.message != "" {
		b.WriteString(c.styles.MenuItem.Render(c.message))
		b.WriteString("\n\n")
	}

	yesStyle, noStyle := c.styles.MenuItem, c.styles.MenuItemActive
	if c.selected {
		yesStyle, noStyle = c.styles.MenuItemActive, c.styles.MenuItem
	}
	b.WriteString(yesStyle.Render("[Y] Yes") + "    " + noStyle.Render("[N] No"))
	b.WriteString("\n")
	b.WriteString(c.styles.Footer.Render("← → / Tab: Switch • Enter: Confirm • Esc: Cancel"))

	return b.String()
}

// Title returns the dialog title
func (c *ConfirmDialog) Title() string {
	return c.title
}

// Size returns the dialog dimensions
func (c *ConfirmDialog) Size() (width, height int) {
	messageLines := len(strings.Split(c.message, "\n"))
	return 60, messageLines + 6
}
