// Package tasks holds the client-side task set, the expansion state and the
// bookkeeping for optimistic updates.
package tasks

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/riordanpawley/tasktable/internal/domain"
)

// Pending is an optimistic update in flight, or queued behind the one in flight
type Pending struct {
	Token       string
	TaskID      string
	Field       domain.EditField
	Update      domain.TaskUpdate
	BaseVersion int64       // If-Match version; set when the update is sent
	Snapshot    domain.Task // last server-confirmed copy
}

// Resolution reports what Resolve did with a server response
type Resolution int

const (
	// Committed means the server copy replaced the optimistic one
	Committed Resolution = iota
	// RolledBack means the update failed and the snapshot was restored
	RolledBack
	// Chained means the update committed and the queued one is ready to send
	Chained
	// Stale means the token is unknown or the task is gone
	Stale
)

func (r Resolution) String() string {
	return [...]string{"committed", "rolled_back", "chained", "stale"}[r]
}

// Store is the in-memory task set shown by the table.
// It is owned by the UI update loop and is not safe for concurrent use.
type Store struct {
	tasks map[string]domain.Task
	order []string

	expanded map[string]bool
	loaded   map[string]bool
	loading  map[string]bool
	stale    map[string]bool // loaded before the last Replace, not refetched since

	pending map[string]Pending // in-flight update by task id
	queued  map[string]Pending // merged updates waiting for the in-flight one
	tokens  map[string]string  // in-flight token -> task id

	newToken func() string
	logger   *slog.Logger
}

// NewStore creates an empty store
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		tasks:    make(map[string]domain.Task),
		expanded: make(map[string]bool),
		loaded:   make(map[string]bool),
		loading:  make(map[string]bool),
		stale:    make(map[string]bool),
		pending:  make(map[string]Pending),
		queued:   make(map[string]Pending),
		tokens:   make(map[string]string),
		newToken: uuid.NewString,
		logger:   logger,
	}
}

// Replace swaps in a fresh task set.
// Expansion survives for tasks still present. Tasks with a pending update keep
// showing the optimistic value on top of the fresh copy. Subtasks fetched for a
// parent that survives, and that the list did not deliver children for, are
// carried over and marked stale so an expanded parent is refetched.
func (s *Store) Replace(tasks []domain.Task) {
	prev, prevOrder, prevLoaded := s.tasks, s.order, s.loaded

	s.tasks = make(map[string]domain.Task, len(tasks))
	s.order = make([]string, 0, len(tasks))

	delivered := make(map[string]bool)
	for _, t := range tasks {
		if _, dup := s.tasks[t.ID]; !dup {
			s.order = append(s.order, t.ID)
		}
		if t.IsSubtask() {
			delivered[*t.ParentTaskID] = true
		}

		s.tasks[t.ID] = s.withLocalEdits(t)
	}

	// subtasks delivered with the project list count as loaded
	s.loaded = make(map[string]bool, len(delivered))
	for pid := range delivered {
		s.loaded[pid] = true
	}
	s.stale = make(map[string]bool)
	for pid := range prevLoaded {
		if _, ok := s.tasks[pid]; !ok || delivered[pid] {
			continue
		}
		s.loaded[pid] = true
		s.stale[pid] = true
	}
	for _, id := range prevOrder {
		t := prev[id]
		if _, dup := s.tasks[id]; dup || !t.IsSubtask() || !s.stale[*t.ParentTaskID] {
			continue
		}
		s.order = append(s.order, id)
		s.tasks[id] = t
	}

	for id := range s.expanded {
		if _, ok := s.tasks[id]; !ok {
			delete(s.expanded, id)
		}
	}
	for id := range s.pending {
		if _, ok := s.tasks[id]; !ok {
			s.dropPending(id)
		}
	}
	s.loading = make(map[string]bool)

	s.logger.Debug("task set replaced", "count", len(s.order), "expanded", len(s.expanded), "cached_parents", len(s.stale))
}

// All returns the tasks in arrival order
func (s *Store) All() []domain.Task {
	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}

// Len returns the number of tasks
func (s *Store) Len() int {
	return len(s.order)
}

// Get returns the task with id
func (s *Store) Get(id string) (domain.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Upsert replaces the task with the same id or appends it
func (s *Store) Upsert(task domain.Task) {
	if _, ok := s.tasks[task.ID]; !ok {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task
}

// Remove deletes a task and its subtasks, with their expansion and pending state.
// It returns the ids removed.
func (s *Store) Remove(id string) []string {
	if _, ok := s.tasks[id]; !ok {
		return nil
	}

	doomed := map[string]bool{id: true}
	for _, t := range s.tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == id {
			doomed[t.ID] = true
		}
	}

	removed := make([]string, 0, len(doomed))
	kept := s.order[:0]
	for _, tid := range s.order {
		if doomed[tid] {
			removed = append(removed, tid)
			continue
		}
		kept = append(kept, tid)
	}
	s.order = kept

	for _, tid := range removed {
		delete(s.tasks, tid)
		delete(s.expanded, tid)
		delete(s.loaded, tid)
		delete(s.loading, tid)
		delete(s.stale, tid)
		s.dropPending(tid)
	}

	s.logger.Debug("tasks removed", "id", id, "count", len(removed))
	return removed
}

// Phases returns the distinct phase numbers present
func (s *Store) Phases() []int {
	return domain.Phases(s.All())
}

// View composes the displayed rows for filter and sort as of today
func (s *Store) View(filter *domain.Filter, sort *domain.Sort, today domain.Date) domain.View {
	return domain.BuildView(s.All(), filter, sort, s.expanded, today)
}
