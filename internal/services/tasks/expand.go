package tasks

import "github.com/riordanpawley/tasktable/internal/domain"

// ToggleExpanded flips the expansion of a parent row.
// needsFetch is true when the parent was just expanded and its subtasks have
// never been loaded and are not already loading.
func (s *Store) ToggleExpanded(id string) (expanded, needsFetch bool) {
	if _, ok := s.tasks[id]; !ok {
		return false, false
	}

	if s.expanded[id] {
		delete(s.expanded, id)
		return false, false
	}

	s.expanded[id] = true
	if s.loaded[id] || s.loading[id] {
		return true, false
	}
	s.loading[id] = true
	return true, true
}

// Expand opens a parent row; it reports whether a fetch is needed
func (s *Store) Expand(id string) (needsFetch bool) {
	if s.expanded[id] {
		return false
	}
	_, needsFetch = s.ToggleExpanded(id)
	return needsFetch
}

// Collapse closes a parent row
func (s *Store) Collapse(id string) {
	delete(s.expanded, id)
}

// IsExpanded reports whether a parent row is open
func (s *Store) IsExpanded(id string) bool {
	return s.expanded[id]
}

// IsLoading reports whether subtasks for id are in flight
func (s *Store) IsLoading(id string) bool {
	return s.loading[id]
}

// Expandable reports whether a row can be opened: it has subtasks, or its
// subtasks have not been fetched yet
func (s *Store) Expandable(row domain.Row) bool {
	if row.Depth > 0 {
		return false
	}
	return row.HasChildren || !s.loaded[row.Task.ID]
}

// ReloadExpanded marks every expanded parent whose subtasks are missing or
// stale as loading and returns their ids in table order, so the caller can
// refetch them after the task set was replaced. Cached rows stay visible until
// the fetch lands.
func (s *Store) ReloadExpanded() []string {
	var ids []string
	for _, id := range s.order {
		if !s.expanded[id] || (s.loaded[id] && !s.stale[id]) || s.loading[id] {
			continue
		}
		s.loading[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Expanded returns a copy of the expansion set
func (s *Store) Expanded() map[string]bool {
	out := make(map[string]bool, len(s.expanded))
	for id := range s.expanded {
		out[id] = true
	}
	return out
}

// MergeSubtasks installs the fetched children of parentID, replacing any it had.
// Only that parent's bucket is touched, so overlapping fetches do not clobber each other.
func (s *Store) MergeSubtasks(parentID string, subtasks []domain.Task) {
	delete(s.loading, parentID)
	if _, ok := s.tasks[parentID]; !ok {
		return
	}

	fresh := make(map[string]bool, len(subtasks))
	for _, t := range subtasks {
		fresh[t.ID] = true
	}

	kept := s.order[:0]
	for _, id := range s.order {
		t := s.tasks[id]
		if t.ParentTaskID != nil && *t.ParentTaskID == parentID && !fresh[id] {
			delete(s.tasks, id)
			s.dropPending(id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	for _, t := range subtasks {
		pid := parentID
		t.ParentTaskID = &pid
		s.Upsert(s.withLocalEdits(t))
	}

	s.loaded[parentID] = true
	delete(s.stale, parentID)
	s.logger.Debug("subtasks merged", "parent", parentID, "count", len(subtasks))
}

// FailSubtasks records a failed subtask fetch. The row collapses so the next
// expand retries.
func (s *Store) FailSubtasks(parentID string) {
	delete(s.loading, parentID)
	delete(s.expanded, parentID)
	s.logger.Debug("subtask fetch failed", "parent", parentID)
}
