package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EditField is a table cell that can be edited inline
type EditField string

const (
	EditStatus    EditField = "status"
	EditPriority  EditField = "priority"
	EditAssignee  EditField = "assignee"
	EditStartDate EditField = "start_date"
	EditDueDate   EditField = "due_date"
)

// EditFields lists the editable fields in column order
var EditFields = []EditField{EditStatus, EditPriority, EditAssignee, EditStartDate, EditDueDate}

// IsDate reports whether the field is edited through a text buffer
func (f EditField) IsDate() bool {
	return f == EditStartDate || f == EditDueDate
}

// Valid reports whether f is an editable field
func (f EditField) Valid() bool {
	for _, e := range EditFields {
		if e == f {
			return true
		}
	}
	return false
}

// TaskUpdate is a partial update of a task.
// nil fields are left untouched. An empty AssigneeID or a zero date clears the field.
type TaskUpdate struct {
	Status     *Status
	Priority   *Priority
	AssigneeID *string
	StartDate  *Date
	DueDate    *Date
}

// IsEmpty reports whether the update changes nothing
func (u TaskUpdate) IsEmpty() bool {
	return u.Status == nil && u.Priority == nil && u.AssigneeID == nil &&
		u.StartDate == nil && u.DueDate == nil
}

// Fields returns the wire names of the keys present in the update
func (u TaskUpdate) Fields() []string {
	var fields []string
	if u.Status != nil {
		fields = append(fields, "status")
	}
	if u.Priority != nil {
		fields = append(fields, "priority")
	}
	if u.AssigneeID != nil {
		fields = append(fields, "assignee_id")
	}
	if u.StartDate != nil {
		fields = append(fields, "start_date")
	}
	if u.DueDate != nil {
		fields = append(fields, "due_date")
	}
	return fields
}

// Merge returns u with the keys present in later layered on top
func (u TaskUpdate) Merge(later TaskUpdate) TaskUpdate {
	if later.Status != nil {
		u.Status = later.Status
	}
	if later.Priority != nil {
		u.Priority = later.Priority
	}
	if later.AssigneeID != nil {
		u.AssigneeID = later.AssigneeID
	}
	if later.StartDate != nil {
		u.StartDate = later.StartDate
	}
	if later.DueDate != nil {
		u.DueDate = later.DueDate
	}
	return u
}

// ApplyTo returns a copy of t with the update applied.
// Assignee details are dropped when the assignee id changes; the server copy restores them.
func (u TaskUpdate) ApplyTo(t Task) Task {
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssigneeID != nil {
		if *u.AssigneeID == "" {
			t.AssigneeID = nil
			t.Assignee = nil
		} else {
			id := *u.AssigneeID
			if t.Assignee == nil || t.Assignee.ID != id {
				t.Assignee = &Assignee{ID: id}
			}
			t.AssigneeID = &id
		}
	}
	if u.StartDate != nil {
		t.StartDate = datePtr(*u.StartDate)
	}
	if u.DueDate != nil {
		t.DueDate = datePtr(*u.DueDate)
	}
	return t
}

func datePtr(d Date) *Date {
	if d.IsZero() {
		return nil
	}
	return &d
}

// MarshalJSON emits only the keys present, with null for cleared values
func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	if u.Status != nil {
		m["status"] = *u.Status
	}
	if u.Priority != nil {
		m["priority"] = *u.Priority
	}
	if u.AssigneeID != nil {
		if *u.AssigneeID == "" {
			m["assignee_id"] = nil
		} else {
			m["assignee_id"] = *u.AssigneeID
		}
	}
	if u.StartDate != nil {
		m["start_date"] = *u.StartDate
	}
	if u.DueDate != nil {
		m["due_date"] = *u.DueDate
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a partial update, treating null as "clear"
func (u *TaskUpdate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = TaskUpdate{}
	for key, value := range raw {
		isNull := bytes.Equal(bytes.TrimSpace(value), []byte("null"))
		switch key {
		case "status":
			var s Status
			if err := json.Unmarshal(value, &s); err != nil || !s.Valid() {
				return fmt.Errorf("%w: status %s", ErrInvalidValue, value)
			}
			u.Status = &s
		case "priority":
			var p Priority
			if err := json.Unmarshal(value, &p); err != nil || !p.Valid() {
				return fmt.Errorf("%w: priority %s", ErrInvalidValue, value)
			}
			u.Priority = &p
		case "assignee_id":
			id := ""
			if !isNull {
				if err := json.Unmarshal(value, &id); err != nil {
					return fmt.Errorf("%w: assignee_id %s", ErrInvalidValue, value)
				}
			}
			u.AssigneeID = &id
		case "start_date", "due_date":
			var d Date
			if err := json.Unmarshal(value, &d); err != nil {
				return err
			}
			if key == "start_date" {
				u.StartDate = &d
			} else {
				u.DueDate = &d
			}
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidValue, key)
		}
	}
	return nil
}

// Commit is a pending change produced by the edit session
type Commit struct {
	TaskID string
	Field  EditField
	Update TaskUpdate
}

// EditSession tracks the single cell being edited.
// The zero value is Idle.
type EditSession struct {
	editing bool
	taskID  string
	field   EditField
	buffer  string
}

// Begin starts editing field on task, discarding any other edit uncommitted
func (s *EditSession) Begin(task Task, field EditField) error {
	if !field.Valid() {
		return fmt.Errorf("%w: field %q is not editable", ErrInvalidValue, field)
	}

	s.editing = true
	s.taskID = task.ID
	s.field = field
	s.buffer = ""

	switch field {
	case EditStartDate:
		s.buffer = DateString(task.StartDate)
	case EditDueDate:
		s.buffer = DateString(task.DueDate)
	}
	return nil
}

// Editing returns the cell under edit
func (s *EditSession) Editing() (taskID string, field EditField, ok bool) {
	return s.taskID, s.field, s.editing
}

// IsEditing reports whether the given cell is under edit
func (s *EditSession) IsEditing(taskID string, field EditField) bool {
	return s.editing && s.taskID == taskID && s.field == field
}

// Active reports whether any cell is under edit
func (s *EditSession) Active() bool {
	return s.editing
}

// Buffer returns the staged value of a date edit
func (s *EditSession) Buffer() string {
	return s.buffer
}

// SetBuffer stages a new value without touching the task
func (s *EditSession) SetBuffer(v string) {
	if s.editing {
		s.buffer = v
	}
}

// Cancel aborts the edit without an update
func (s *EditSession) Cancel() {
	*s = EditSession{}
}

// Select commits a status, priority or assignee choice for task.
// It returns nil when nothing needs to be sent. An empty assignee value unassigns.
func (s *EditSession) Select(task Task, value string) (*Commit, error) {
	if !s.editing || s.taskID != task.ID {
		return nil, ErrNotEditing
	}

	var update TaskUpdate
	switch s.field {
	case EditStatus:
		status := Status(value)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status %q", ErrInvalidValue, value)
		}
		if status == task.Status {
			s.Cancel()
			return nil, nil
		}
		update.Status = &status

	case EditPriority:
		priority := Priority(value)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: priority %q", ErrInvalidValue, value)
		}
		update.Priority = &priority

	case EditAssignee:
		id := strings.TrimSpace(value)
		update.AssigneeID = &id

	default:
		return nil, fmt.Errorf("%w: %s is edited with Confirm", ErrInvalidValue, s.field)
	}

	commit := &Commit{TaskID: task.ID, Field: s.field, Update: update}
	s.Cancel()
	return commit, nil
}

// Confirm commits the staged date for task.
// Invalid input keeps the session and its buffer. An unchanged date ends the edit with no commit.
func (s *EditSession) Confirm(task Task) (*Commit, error) {
	if !s.editing || s.taskID != task.ID {
		return nil, ErrNotEditing
	}
	if !s.field.IsDate() {
		return nil, fmt.Errorf("%w: %s is edited with Select", ErrInvalidValue, s.field)
	}

	date, err := ParseDate(s.buffer)
	if err != nil {
		return nil, err
	}

	current := task.StartDate
	if s.field == EditDueDate {
		current = task.DueDate
	}
	if date.String() == DateString(current) {
		s.Cancel()
		return nil, nil
	}

	var update TaskUpdate
	if s.field == EditStartDate {
		update.StartDate = &date
	} else {
		update.DueDate = &date
	}

	commit := &Commit{TaskID: task.ID, Field: s.field, Update: update}
	s.Cancel()
	return commit, nil
}

// QuickToggleCommit builds the status change for the one-click toggle.
// It reads the task's own status, never an aggregate.
func QuickToggleCommit(task Task) Commit {
	next := task.Status.QuickToggle()
	return Commit{
		TaskID: task.ID,
		Field:  EditStatus,
		Update: TaskUpdate{Status: &next},
	}
}
