package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/config"
	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/services/tasks"
)

// Host callbacks. The table emits these; the model answers them by calling the backend.

// TaskClickedMsg asks the host to show a task
type TaskClickedMsg struct {
	TaskID string
}

// TaskUpdateMsg asks the host to persist a partial update of one task
type TaskUpdateMsg struct {
	TaskID string
	Field  domain.EditField
	Update domain.TaskUpdate
}

// TaskDeleteMsg asks the host to delete a task
type TaskDeleteMsg struct {
	TaskID string
}

// Message types for async operations

type tasksLoadedMsg struct {
	projectID string
	tasks     []domain.Task
	err       error
}

type subtasksLoadedMsg struct {
	parentID string
	tasks    []domain.Task
	err      error
}

type taskUpdatedMsg struct {
	token  string
	taskID string
	task   *domain.Task
	err    error
}

type taskDeletedMsg struct {
	taskID string
	err    error
}

type usersLoadedMsg struct {
	users []domain.Assignee
	err   error
}

type registrySavedMsg struct {
	name string
	err  error
}

type tickMsg time.Time

// Commands

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// callContext bounds one backend call by the configured timeout
func (m Model) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.config.Timeout())
}

// fetchTasksCmd loads the task list of the shown project
func (m Model) fetchTasksCmd() tea.Cmd {
	backend, projectID := m.backend, m.projectID
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()

		list, err := backend.FetchTasks(ctx, projectID)
		return tasksLoadedMsg{projectID: projectID, tasks: list, err: err}
	}
}

// fetchSubtasksCmd loads the children of one parent
func (m Model) fetchSubtasksCmd(parentID string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()

		list, err := backend.FetchSubtasks(ctx, parentID)
		return subtasksLoadedMsg{parentID: parentID, tasks: list, err: err}
	}
}

// updateTaskCmd sends a pending optimistic update guarded by its base version
func (m Model) updateTaskCmd(p tasks.Pending) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()

		task, err := backend.UpdateTask(ctx, p.TaskID, p.Update, p.BaseVersion)
		return taskUpdatedMsg{token: p.Token, taskID: p.TaskID, task: task, err: err}
	}
}

func (m Model) deleteTaskCmd(taskID string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()

		return taskDeletedMsg{taskID: taskID, err: backend.DeleteTask(ctx, taskID)}
	}
}

func (m Model) fetchUsersCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()

		users, err := backend.FetchUsers(ctx)
		return usersLoadedMsg{users: users, err: err}
	}
}

// saveDefaultProjectCmd makes name the registry default and writes the registry
func (m Model) saveDefaultProjectCmd(name string) tea.Cmd {
	registry := m.registry
	if err := registry.SetDefault(name); err != nil {
		return emit(registrySavedMsg{name: name, err: err})
	}
	return func() tea.Msg {
		return registrySavedMsg{name: name, err: config.SaveProjectsRegistry(registry)}
	}
}
