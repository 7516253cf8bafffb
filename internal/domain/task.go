// Package domain contains the core task types and the pure filter, sort,
// grouping and edit logic behind the task table.
package domain

import "time"

// Task represents a project task as supplied by the backend
type Task struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       Status    `json:"status"`
	Priority     Priority  `json:"priority"`
	PhaseNumber  *int      `json:"phase_number,omitempty"`
	AssigneeID   *string   `json:"assignee_id,omitempty"`
	Assignee     *Assignee `json:"assignee,omitempty"`
	StartDate    *Date     `json:"start_date,omitempty"`
	DueDate      *Date     `json:"due_date,omitempty"`
	ParentTaskID *string   `json:"parent_task_id,omitempty"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Assignee is the user a task is assigned to
type Assignee struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName returns the name, falling back to the email
func (a *Assignee) DisplayName() string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

// IsSubtask reports whether the task references a parent
func (t Task) IsSubtask() bool {
	return t.ParentTaskID != nil && *t.ParentTaskID != ""
}

// Overdue reports whether an unfinished task's due date is before today
func (t Task) Overdue(today Date) bool {
	if t.Status.Finished() || t.DueDate == nil || t.DueDate.IsZero() {
		return false
	}
	return t.DueDate.Before(today)
}

// Status represents task status
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusArchived   Status = "archived"
)

// Statuses lists the valid statuses in workflow order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusArchived}

// Rank returns the sort rank of the status, 0 for unknown values
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 1
	case StatusInProgress:
		return 2
	case StatusDone:
		return 3
	case StatusArchived:
		return 4
	default:
		return 0
	}
}

// Valid reports whether the status is one of the known values
func (s Status) Valid() bool {
	return s.Rank() != 0
}

// Finished reports whether no further work is expected on the task
func (s Status) Finished() bool {
	return s == StatusDone || s == StatusArchived
}

// QuickToggle returns the next status in the todo → in_progress → done cycle.
// Archived and unknown statuses restart at todo.
func (s Status) QuickToggle() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Label returns a human-readable label
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusArchived:
		return "Archived"
	default:
		return string(s)
	}
}

// String returns the display string
func (s Status) String() string {
	return string(s)
}

// Priority represents task priority
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists the valid priorities from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Rank returns the sort rank of the priority, 0 for unknown values
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether the priority is one of the known values
func (p Priority) Valid() bool {
	return p.Rank() != 0
}

// Label returns a human-readable label
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return string(p)
	}
}

// String returns the display string
func (p Priority) String() string {
	return string(p)
}
