package domain

import (
	"cmp"
	"math"
	"slices"
)

// SortField represents a field to sort by
type SortField string

const (
	SortNone        SortField = ""
	SortByPhase     SortField = "phase"
	SortByStartDate SortField = "start_date"
	SortByDueDate   SortField = "due_date"
	SortByAssignee  SortField = "assignee"
	SortByPriority  SortField = "priority"
	SortByStatus    SortField = "status"
)

// SortFields lists the sortable fields in column order
var SortFields = []SortField{
	SortByPhase,
	SortByStartDate,
	SortByDueDate,
	SortByAssignee,
	SortByPriority,
	SortByStatus,
}

// Valid reports whether f is SortNone or a sortable field
func (f SortField) Valid() bool {
	return f == SortNone || slices.Contains(SortFields, f)
}

// SortOrder represents sort direction
type SortOrder string

const (
	OrderNone SortOrder = ""
	SortAsc   SortOrder = "asc"
	SortDesc  SortOrder = "desc"
)

// Sort represents sorting state
type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"direction"`
}

// IsActive reports whether the sort reorders anything
func (s *Sort) IsActive() bool {
	return s.Field != SortNone && s.Order != OrderNone
}

// Toggle cycles the sort for field.
// A new field starts ascending; the same field goes asc → desc → none.
func (s *Sort) Toggle(field SortField) {
	if field == SortNone {
		s.Clear()
		return
	}
	if s.Field != field || s.Order == OrderNone {
		s.Field = field
		s.Order = SortAsc
		return
	}

	switch s.Order {
	case SortAsc:
		s.Order = SortDesc
	default:
		s.Clear()
	}
}

// Clear removes any sort
func (s *Sort) Clear() {
	s.Field = SortNone
	s.Order = OrderNone
}

// Apply returns a stably sorted copy of tasks.
// With no active sort the copy keeps the input order.
func (s *Sort) Apply(tasks []Task) []Task {
	// Make a copy to avoid modifying the input slice
	result := make([]Task, len(tasks))
	copy(result, tasks)

	if !s.IsActive() || len(result) < 2 {
		return result
	}

	desc := s.Order == SortDesc
	slices.SortStableFunc(result, func(a, b Task) int {
		return compareKeys(s.keyOf(a), s.keyOf(b), desc)
	})

	return result
}

// sortKey is the comparable projection of a task for one field.
// Unknown keys come from malformed enum values and always sort last.
type sortKey struct {
	unknown bool
	num     float64
	str     string
}

func compareKeys(a, b sortKey, desc bool) int {
	if a.unknown || b.unknown {
		switch {
		case a.unknown && b.unknown:
			return 0
		case a.unknown:
			return 1
		default:
			return -1
		}
	}

	c := cmp.Compare(a.num, b.num)
	if c == 0 {
		c = cmp.Compare(a.str, b.str)
	}
	if desc {
		return -c
	}
	return c
}

// phaseSentinel places unassigned phases after every real phase in ascending order
const phaseSentinel = math.MaxInt32

func (s *Sort) keyOf(t Task) sortKey {
	switch s.Field {
	case SortByPhase:
		if t.PhaseNumber == nil {
			return sortKey{num: phaseSentinel}
		}
		return sortKey{num: float64(*t.PhaseNumber)}

	case SortByStartDate:
		return dateKey(t.StartDate)

	case SortByDueDate:
		return dateKey(t.DueDate)

	case SortByAssignee:
		return sortKey{str: assigneeKey(t)}

	case SortByPriority:
		rank := t.Priority.Rank()
		return sortKey{num: float64(rank), unknown: rank == 0}

	case SortByStatus:
		rank := t.Status.Rank()
		return sortKey{num: float64(rank), unknown: rank == 0}
	}

	return sortKey{}
}

func dateKey(d *Date) sortKey {
	if d == nil || d.IsZero() {
		return sortKey{num: math.Inf(1)}
	}
	return sortKey{num: float64(d.Time().Unix())}
}

// assigneeKey returns the case-folded display name, else email, else ""
func assigneeKey(t Task) string {
	if t.Assignee == nil {
		return ""
	}
	return fold(t.Assignee.DisplayName())
}
