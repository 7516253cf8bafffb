package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/ui/overlay"
	"github.com/riordanpawley/tasktable/internal/ui/table"
)

// handleKey processes keyboard input based on current mode
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (work in any mode)
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		// Force redraw
		return m, tea.ClearScreen
	}

	if m.editor.IsEdit() {
		return m.handleEditMode(msg)
	}
	return m.handleNormalMode(msg)
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	cmd := m.overlayStack.Update(msg)
	return m, cmd
}

// handleNormalMode processes keyboard input in normal mode
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.view.Rows
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	// Navigation
	case key.Matches(msg, m.keys.Down):
		m.nav.MoveDown(rows)
	case key.Matches(msg, m.keys.Up):
		m.nav.MoveUp(rows)
	case key.Matches(msg, m.keys.Left):
		m.nav.MoveLeft(len(table.Columns))
	case key.Matches(msg, m.keys.Right):
		m.nav.MoveRight(len(table.Columns))
	case key.Matches(msg, m.keys.Top):
		m.nav.GotoTop(rows)
	case key.Matches(msg, m.keys.Bottom):
		m.nav.GotoBottom(rows)
	case key.Matches(msg, m.keys.HalfDown):
		m.nav.HalfPageDown(rows, m.halfPage())
	case key.Matches(msg, m.keys.HalfUp):
		m.nav.HalfPageUp(rows, m.halfPage())

	// Row actions
	case key.Matches(msg, m.keys.Edit):
		return m.editFocusedCell()
	case key.Matches(msg, m.keys.Expand):
		cmd = m.toggleExpand()
	case key.Matches(msg, m.keys.Toggle):
		if row := m.currentRow(); row != nil {
			commit := domain.QuickToggleCommit(row.Task)
			cmd = emit(TaskUpdateMsg{TaskID: commit.TaskID, Field: commit.Field, Update: commit.Update})
		}
	case key.Matches(msg, m.keys.Detail):
		if row := m.currentRow(); row != nil {
			cmd = emit(TaskClickedMsg{TaskID: row.Task.ID})
		}
	case key.Matches(msg, m.keys.Delete):
		if row := m.currentRow(); row != nil {
			subtasks := domain.Group(m.store.All()).Subtasks(row.Task.ID)
			cmd = m.overlayStack.Push(overlay.NewDeleteConfirm(row.Task, len(subtasks)))
		}

	// View state
	case key.Matches(msg, m.keys.Search):
		m.editor.EnterSearch()
		search := overlay.NewSearchOverlay(m.editor.GetFilter().SearchText)
		search.SetMatchCount(m.view.Matched)
		cmd = m.overlayStack.Push(search)
	case key.Matches(msg, m.keys.Filter):
		cmd = m.overlayStack.Push(overlay.NewFilterMenu(m.editor.GetFilter(), m.store.Phases()))
	case key.Matches(msg, m.keys.SortColumn):
		col := table.Columns[m.nav.Column()]
		if col.Sort == domain.SortNone {
			m.addToast(ToastInfo, fmt.Sprintf("%s column is not sortable", col.Title))
			break
		}
		m.editor.ToggleSort(col.Sort)
	case key.Matches(msg, m.keys.SortMenu):
		cmd = m.overlayStack.Push(overlay.NewSortMenu(m.editor.GetSort()))
	case key.Matches(msg, m.keys.Clear):
		if m.editor.IsFilterActive() {
			m.editor.ClearFilters()
			m.addToast(ToastInfo, "Filters cleared")
		}

	// Other
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		cmd = m.fetchTasksCmd()
	case key.Matches(msg, m.keys.Projects):
		cmd = m.overlayStack.Push(overlay.NewProjectSelector(m.registry, m.projectID))
	case key.Matches(msg, m.keys.Help):
		cmd = m.overlayStack.Push(overlay.NewHelpOverlay())
	}

	m.refresh()
	return m, cmd
}

// editFocusedCell starts an edit of the focused cell; read-only cells open the task
func (m Model) editFocusedCell() (tea.Model, tea.Cmd) {
	row := m.currentRow()
	if row == nil {
		return m, nil
	}

	col := table.Columns[m.nav.Column()]
	if col.Field == "" {
		return m, emit(TaskClickedMsg{TaskID: row.Task.ID})
	}

	if err := m.editor.BeginEdit(row.Task, col.Field); err != nil {
		m.addToast(ToastError, err.Error())
		return m, nil
	}

	var cmd tea.Cmd
	switch col.Field {
	case domain.EditStatus:
		cmd = m.overlayStack.Push(overlay.NewStatusPicker(row.Task))
	case domain.EditPriority:
		cmd = m.overlayStack.Push(overlay.NewPriorityPicker(row.Task))
	case domain.EditAssignee:
		cmd = m.overlayStack.Push(overlay.NewAssigneePicker(row.Task, m.users))
	default:
		m.dateInput.SetValue(m.editor.Session().Buffer())
		m.dateInput.CursorEnd()
		cmd = m.dateInput.Focus()
	}

	m.refresh()
	return m, cmd
}

// handleEditMode drives the in-cell date editor
func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, _, _ := m.editor.Session().Editing()
	task, ok := m.store.Get(id)
	if !ok {
		// The task went away under the editor
		m.editor.CancelEdit()
		m.dateInput.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "esc":
		m.editor.CancelEdit()
		m.dateInput.Blur()

	case "enter", "tab":
		m.editor.Session().SetBuffer(m.dateInput.Value())
		commit, err := m.editor.ConfirmDate(task)
		if err != nil {
			// Keep the editor open with the rejected text
			m.addToast(ToastWarning, fmt.Sprintf("Invalid date %q, use %s", m.dateInput.Value(), domain.DateLayout))
			return m, nil
		}
		m.dateInput.Blur()
		if commit != nil {
			cmd = emit(TaskUpdateMsg{TaskID: commit.TaskID, Field: commit.Field, Update: commit.Update})
		}

	default:
		m.dateInput, cmd = m.dateInput.Update(msg)
		m.editor.Session().SetBuffer(m.dateInput.Value())
	}

	m.refresh()
	return m, cmd
}

// handleValuePicked commits a status, priority or assignee choice
func (m Model) handleValuePicked(msg overlay.ValuePickedMsg) (tea.Model, tea.Cmd) {
	task, ok := m.store.Get(msg.TaskID)
	if !ok {
		m.editor.CancelEdit()
		m.addToast(ToastWarning, "Task no longer exists")
		m.refresh()
		return m, nil
	}

	commit, err := m.editor.SelectValue(task, msg.Value)
	if err != nil {
		m.editor.CancelEdit()
		m.addToast(ToastError, err.Error())
		m.refresh()
		return m, nil
	}

	m.refresh()
	if commit == nil {
		return m, nil
	}
	return m, emit(TaskUpdateMsg{TaskID: commit.TaskID, Field: commit.Field, Update: commit.Update})
}

// toggleExpand opens or closes the current parent; on a subtask it closes the parent
func (m *Model) toggleExpand() tea.Cmd {
	row := m.currentRow()
	if row == nil {
		return nil
	}

	if row.Task.IsSubtask() {
		parentID := *row.Task.ParentTaskID
		m.store.Collapse(parentID)
		m.refresh()
		m.nav.JumpToTaskByID(m.view.Rows, parentID)
		return nil
	}

	if !row.Expanded && !m.store.Expandable(*row) {
		return nil
	}
	if _, needsFetch := m.store.ToggleExpanded(row.Task.ID); needsFetch {
		return m.fetchSubtasksCmd(row.Task.ID)
	}
	return nil
}

// openDetail shows the task detail panel
func (m Model) openDetail(taskID string) (tea.Model, tea.Cmd) {
	task, ok := m.store.Get(taskID)
	if !ok {
		return m, nil
	}

	// nil tells the panel the subtasks were never fetched
	var subtasks []domain.Task
	if !task.IsSubtask() {
		subtasks = domain.Group(m.store.All()).Subtasks(taskID)
		if len(subtasks) == 0 && !m.store.Expandable(domain.Row{Task: task}) {
			subtasks = []domain.Task{}
		}
	}

	return m, m.overlayStack.Push(overlay.NewDetailPanel(task, subtasks, m.today()))
}
