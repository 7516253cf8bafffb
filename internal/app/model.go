// Package app contains the main application model and TEA implementation.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/config"
	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/services/api"
	"github.com/riordanpawley/tasktable/internal/services/editor"
	"github.com/riordanpawley/tasktable/internal/services/navigation"
	"github.com/riordanpawley/tasktable/internal/services/network"
	"github.com/riordanpawley/tasktable/internal/services/tasks"
	"github.com/riordanpawley/tasktable/internal/types"
	"github.com/riordanpawley/tasktable/internal/ui/overlay"
	"github.com/riordanpawley/tasktable/internal/ui/styles"
	"github.com/riordanpawley/tasktable/internal/ui/table"
	"github.com/riordanpawley/tasktable/internal/ui/toast"
)

// Re-export Mode type and constants for convenience
type Mode = types.Mode

const (
	ModeNormal = types.ModeNormal
	ModeSearch = types.ModeSearch
	ModeEdit   = types.ModeEdit
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast
type ToastLevel = types.ToastLevel

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

const toastTick = time.Second

// Deps are the collaborators the model is wired to
type Deps struct {
	Backend  api.Backend
	Registry *config.ProjectsRegistry

	// NewBackend builds a backend for a project registered with its own base URL.
	// Without it every project is read from Backend.
	NewBackend func(baseURL string) api.Backend

	Logger *slog.Logger
	Now    func() time.Time
}

// Model is the main application state
type Model struct {
	// Core data
	store *tasks.Store
	view  domain.View
	users []domain.Assignee

	// Navigation (cursor by task id, focused column)
	nav *navigation.Service

	// Editor state (mode, filter, sort, cell edit)
	editor    *editor.Service
	dateInput textinput.Model

	// UI state
	overlayStack  *overlay.Stack
	overlayStyles *overlay.Styles
	table         *table.Table
	keys          keyMap

	// Project
	projectID string
	registry  *config.ProjectsRegistry

	// Toasts
	toasts []Toast

	// Terminal size
	width  int
	height int

	// Styles
	styles *styles.Styles

	// Configuration
	config *config.Config

	// Loading state
	loading     bool
	spinner     spinner.Model
	lastRefresh time.Time

	// Backend
	backend        api.Backend
	baseURL        string
	newBackend     func(baseURL string) api.Backend
	networkChecker *network.StatusChecker
	isOnline       bool

	logger *slog.Logger
	now    func() time.Time
}

// New creates the model for cfg's project
func New(cfg *config.Config, deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	registry := deps.Registry
	if registry == nil {
		registry = &config.ProjectsRegistry{Projects: []config.Project{}}
	}

	st := styles.New()

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	// Date editor
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = domain.DateLayout
	input.CharLimit = 32

	ed := editor.NewService()
	sort := cfg.InitialSort()
	ed.SetSort(&sort)

	store := tasks.NewStore(logger)
	tbl := table.New(st)
	tbl.SetRowState(store)

	return Model{
		store:          store,
		nav:            navigation.NewService(),
		editor:         ed,
		dateInput:      input,
		overlayStack:   overlay.NewStack(),
		overlayStyles:  overlay.New(),
		table:          tbl,
		keys:           defaultKeyMap(),
		projectID:      cfg.Project.ID,
		registry:       registry,
		toasts:         []Toast{},
		styles:         st,
		config:         cfg,
		loading:        true, // Start with loading state
		spinner:        s,
		backend:        deps.Backend,
		baseURL:        cfg.API.BaseURL,
		newBackend:     deps.NewBackend,
		networkChecker: network.NewStatusChecker(deps.Backend, cfg.Timeout(), logger),
		isOnline:       true, // Optimistically assume online
		logger:         logger,
		now:            now,
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetchTasksCmd(),
		m.fetchUsersCmd(),
		m.networkChecker.CheckCmd(),
		tickEvery(toastTick),
	)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// status bar and the "more" line
		m.table.SetSize(msg.Width, max(3, msg.Height-2))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.table.SetSpinner(m.spinner.View())
		return m, cmd

	case tea.KeyMsg:
		// If overlay is open, route to overlay stack
		if !m.overlayStack.IsEmpty() {
			return m.handleOverlayKey(msg)
		}
		return m.handleKey(msg)

	// Overlay messages
	case overlay.CloseOverlayMsg:
		m.overlayStack.Pop()
		if m.overlayStack.IsEmpty() && m.editor.IsSearch() {
			m.editor.EnterNormal()
		}
		return m, nil

	case overlay.SearchMsg:
		m.editor.SetSearchQuery(msg.Query)
		m.refresh()
		if search, ok := m.overlayStack.Current().(*overlay.SearchOverlay); ok {
			search.SetMatchCount(m.view.Matched)
		}
		return m, nil

	case overlay.FilterChangedMsg, overlay.SortChangedMsg:
		m.refresh()
		return m, nil

	case overlay.ValuePickedMsg:
		m.overlayStack.Pop()
		return m.handleValuePicked(msg)

	case overlay.PickCancelledMsg:
		m.overlayStack.Pop()
		m.editor.CancelEdit()
		m.refresh()
		return m, nil

	case overlay.ConfirmResultMsg:
		m.overlayStack.Pop()
		if msg.Confirmed && msg.Action == overlay.ActionDelete {
			return m, emit(TaskDeleteMsg{TaskID: msg.TaskID})
		}
		return m, nil

	case overlay.ProjectSelectedMsg:
		m.overlayStack.Pop()
		return m.switchProject(msg.Project)

	case overlay.ProjectDefaultMsg:
		return m, m.saveDefaultProjectCmd(msg.Name)

	// Host callbacks
	case TaskClickedMsg:
		return m.openDetail(msg.TaskID)

	case TaskUpdateMsg:
		return m.handleTaskUpdate(msg)

	case TaskDeleteMsg:
		return m, m.deleteTaskCmd(msg.TaskID)

	// Backend results
	case tasksLoadedMsg:
		return m.handleTasksLoaded(msg)

	case subtasksLoadedMsg:
		if msg.err != nil {
			m.store.FailSubtasks(msg.parentID)
			m.noteBackendError(msg.err)
			m.addToast(ToastError, fmt.Sprintf("Failed to load subtasks: %v", msg.err))
		} else {
			m.store.MergeSubtasks(msg.parentID, msg.tasks)
		}
		m.refresh()
		return m, nil

	case taskUpdatedMsg:
		return m.handleTaskUpdated(msg)

	case taskDeletedMsg:
		if msg.err != nil {
			m.noteBackendError(msg.err)
			m.addToast(ToastError, fmt.Sprintf("Delete failed: %v", msg.err))
			return m, nil
		}
		removed := m.store.Remove(msg.taskID)
		m.logger.Debug("task deleted", "id", msg.taskID, "removed", len(removed))
		m.addToast(ToastSuccess, "Task deleted")
		m.refresh()
		return m, nil

	case usersLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to load users", "error", msg.err)
			return m, nil
		}
		m.users = msg.users
		return m, nil

	case registrySavedMsg:
		if msg.err != nil {
			m.addToast(ToastError, fmt.Sprintf("Failed to save projects: %v", msg.err))
			return m, nil
		}
		m.addToast(ToastSuccess, fmt.Sprintf("%s is now the default project", msg.name))
		return m, nil

	case network.StatusMsg:
		return m.handleNetworkStatus(msg)

	case tickMsg:
		m.expireToasts()
		return m, tickEvery(toastTick)
	}

	if cmd := m.networkChecker.HandleTick(msg); cmd != nil {
		return m, cmd
	}
	return m, nil
}

func (m Model) handleTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	// A list for a project that is no longer shown
	if msg.projectID != m.projectID {
		return m, nil
	}

	m.loading = false
	if msg.err != nil {
		m.noteBackendError(msg.err)
		m.addToast(ToastError, fmt.Sprintf("Failed to load tasks: %v", msg.err))
		return m, nil
	}

	m.store.Replace(msg.tasks)
	m.lastRefresh = m.now()
	m.refresh()

	var cmds []tea.Cmd
	for _, id := range m.store.ReloadExpanded() {
		cmds = append(cmds, m.fetchSubtasksCmd(id))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleTaskUpdate(msg TaskUpdateMsg) (tea.Model, tea.Cmd) {
	pending, send, err := m.store.ApplyOptimistic(domain.Commit{
		TaskID: msg.TaskID,
		Field:  msg.Field,
		Update: msg.Update,
	})
	if err != nil {
		m.addToast(ToastError, fmt.Sprintf("Cannot update task: %v", err))
		return m, nil
	}
	m.refresh()
	if !send {
		// queued behind the update already in flight for this task
		return m, nil
	}
	return m, m.updateTaskCmd(pending)
}

func (m Model) handleTaskUpdated(msg taskUpdatedMsg) (tea.Model, tea.Cmd) {
	inflight, _ := m.store.PendingFor(msg.taskID)
	res, next := m.store.Resolve(msg.token, msg.task, msg.err)
	m.logger.Debug("update resolved", "id", msg.taskID, "result", res.String())

	var cmds []tea.Cmd
	switch res {
	case tasks.Chained:
		cmds = append(cmds, m.updateTaskCmd(*next))
	case tasks.RolledBack:
		m.noteBackendError(msg.err)
		if errors.Is(msg.err, domain.ErrConflict) {
			m.addToast(ToastWarning, "Task changed on the server, reloading")
			cmds = append(cmds, m.fetchTasksCmd())
		} else {
			m.addToast(ToastError, fmt.Sprintf("Update failed: %v", msg.err))
		}
		cmds = append(cmds, m.reopenRejectedDate(inflight))
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

// reopenRejectedDate puts a refused date back into the cell editor so it can
// be corrected. It does nothing when another edit or an overlay is open.
func (m *Model) reopenRejectedDate(p tasks.Pending) tea.Cmd {
	var rejected *domain.Date
	switch p.Field {
	case domain.EditStartDate:
		rejected = p.Update.StartDate
	case domain.EditDueDate:
		rejected = p.Update.DueDate
	}
	if rejected == nil || m.editor.Session().Active() || !m.overlayStack.IsEmpty() {
		return nil
	}

	task, ok := m.store.Get(p.TaskID)
	if !ok {
		return nil
	}
	if err := m.editor.BeginEdit(task, p.Field); err != nil {
		return nil
	}
	m.editor.Session().SetBuffer(rejected.String())
	m.dateInput.SetValue(rejected.String())
	m.dateInput.CursorEnd()
	return m.dateInput.Focus()
}

func (m Model) handleNetworkStatus(msg network.StatusMsg) (tea.Model, tea.Cmd) {
	wasOnline := m.isOnline
	m.isOnline = msg.Online

	var cmds []tea.Cmd
	if interval := m.config.HealthInterval(); interval > 0 {
		cmds = append(cmds, m.networkChecker.PollCmd(interval))
	}
	switch {
	case wasOnline && !msg.Online:
		m.addToast(ToastWarning, "Backend unreachable")
	case !wasOnline && msg.Online:
		m.addToast(ToastInfo, "Backend reachable again")
		cmds = append(cmds, m.fetchTasksCmd())
	}
	return m, tea.Batch(cmds...)
}

// switchProject shows p's tasks, moving to its backend when it names one
func (m Model) switchProject(p config.Project) (tea.Model, tea.Cmd) {
	if p.BaseURL != "" && p.BaseURL != m.baseURL && m.newBackend != nil {
		m.backend = m.newBackend(p.BaseURL)
		m.baseURL = p.BaseURL
		m.networkChecker = network.NewStatusChecker(m.backend, m.config.Timeout(), m.logger)
	}

	m.projectID = p.ID
	m.editor.CancelEdit()
	m.store.Replace(nil)
	m.users = nil
	m.loading = true
	m.refresh()

	m.logger.Info("switched project", "name", p.Name, "id", p.ID)
	m.addToast(ToastInfo, fmt.Sprintf("Showing %s", p.Name))
	return m, tea.Batch(m.fetchTasksCmd(), m.fetchUsersCmd())
}

// refresh recomputes the displayed rows and pushes view state into the table
func (m *Model) refresh() {
	today := m.today()
	m.view = m.store.View(m.editor.GetFilter(), m.editor.GetSort(), today)
	m.nav.Sync(m.view.Rows)

	m.table.SetRows(m.view.Rows)
	m.table.SetCursor(m.nav.GetPosition(m.view.Rows).Row)
	m.table.SetColumn(m.nav.Column())
	m.table.SetSort(*m.editor.GetSort())
	m.table.SetToday(today)
	m.table.SetEditor(m.cellEditor())

	if m.editor.IsFilterActive() {
		m.table.SetEmptyMessage("No tasks match the current filters")
	} else {
		m.table.SetEmptyMessage("No tasks to display")
	}
}

// cellEditor returns the date editor drawn in its cell, nil when none is open
func (m *Model) cellEditor() *table.Editor {
	id, field, ok := m.editor.Session().Editing()
	if !ok || !field.IsDate() {
		return nil
	}
	return &table.Editor{TaskID: id, Field: field, View: m.dateInput.View()}
}

func (m Model) today() domain.Date {
	return domain.NewDate(m.now())
}

// currentRow returns the row under the cursor, nil when the table is empty
func (m Model) currentRow() *domain.Row {
	return m.nav.GetCurrentRow(m.view.Rows)
}

// noteBackendError flips the offline badge on transport failures
func (m *Model) noteBackendError(err error) {
	if errors.Is(err, domain.ErrOffline) {
		m.isOnline = false
	}
}

// halfPage calculates half-page scroll distance based on the table height
func (m Model) halfPage() int {
	return max(1, m.table.VisibleRows()/2)
}

// addToast adds a toast notification to the list
func (m *Model) addToast(level ToastLevel, message string) {
	m.toasts = append(m.toasts, types.NewToast(level, message, m.now(), types.DefaultToastTTL))
}

// expireToasts removes expired toasts from the list
func (m *Model) expireToasts() {
	m.toasts = toast.Prune(m.toasts, m.now())
}
