// Package editor provides input mode and view state management
package editor

import (
	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/types"
)

// Re-export Mode type for convenience
type Mode = types.Mode

// Mode constants
const (
	ModeNormal = types.ModeNormal
	ModeSearch = types.ModeSearch
	ModeEdit   = types.ModeEdit
)

// Service manages view state (mode, filter, sort, cell edit)
type Service struct {
	mode    Mode
	filter  *domain.Filter
	sort    *domain.Sort
	session domain.EditSession
}

// NewService creates a new editor service with defaults
func NewService() *Service {
	return &Service{
		mode:   ModeNormal,
		filter: domain.NewFilter(),
		sort:   &domain.Sort{},
	}
}

// GetMode returns the current mode
func (s *Service) GetMode() Mode {
	return s.mode
}

// EnterNormal switches to normal mode
func (s *Service) EnterNormal() {
	s.mode = ModeNormal
}

// EnterSearch switches to search mode
func (s *Service) EnterSearch() {
	s.mode = ModeSearch
}

// ExitMode returns to normal mode, cancelling any edit
func (s *Service) ExitMode() bool {
	if s.mode == ModeNormal {
		return false
	}
	if s.mode == ModeEdit {
		s.session.Cancel()
	}
	s.mode = ModeNormal
	return true
}

// IsNormal returns true if in normal mode
func (s *Service) IsNormal() bool {
	return s.mode == ModeNormal
}

// IsSearch returns true if in search mode
func (s *Service) IsSearch() bool {
	return s.mode == ModeSearch
}

// IsEdit returns true while a cell is being edited
func (s *Service) IsEdit() bool {
	return s.mode == ModeEdit
}

// Filter management

// GetFilter returns the current filter
func (s *Service) GetFilter() *domain.Filter {
	return s.filter
}

// SetFilter sets the filter
func (s *Service) SetFilter(filter *domain.Filter) {
	if filter == nil {
		filter = domain.NewFilter()
	}
	s.filter = filter
}

// SetSearchQuery updates the search text in the filter
func (s *Service) SetSearchQuery(query string) {
	s.filter.SearchText = query
}

// ClearSearch clears the search text
func (s *Service) ClearSearch() {
	s.filter.SearchText = ""
}

// CycleStatusFilter steps the status filter through all → each status → all
func (s *Service) CycleStatusFilter() {
	s.filter.CycleStatus()
}

// CyclePriorityFilter steps the priority filter through all → each priority → all
func (s *Service) CyclePriorityFilter() {
	s.filter.CyclePriority()
}

// CyclePhaseFilter steps the phase filter through all → none → each known phase → all
func (s *Service) CyclePhaseFilter(phases []int) {
	s.filter.CyclePhase(phases)
}

// ClearFilters clears all filters
func (s *Service) ClearFilters() {
	s.filter.Clear()
}

// IsFilterActive returns true if any filter is active
func (s *Service) IsFilterActive() bool {
	return s.filter.IsActive()
}

// Sort management

// GetSort returns the current sort settings
func (s *Service) GetSort() *domain.Sort {
	return s.sort
}

// SetSort sets the sort settings
func (s *Service) SetSort(sort *domain.Sort) {
	if sort == nil {
		sort = &domain.Sort{}
	}
	s.sort = sort
}

// ToggleSort cycles the sort for a column header
func (s *Service) ToggleSort(field domain.SortField) {
	s.sort.Toggle(field)
}

// Edit session

// BeginEdit starts editing one cell, replacing any other edit
func (s *Service) BeginEdit(task domain.Task, field domain.EditField) error {
	if err := s.session.Begin(task, field); err != nil {
		return err
	}
	s.mode = ModeEdit
	return nil
}

// Session exposes the edit session for rendering and input
func (s *Service) Session() *domain.EditSession {
	return &s.session
}

// SelectValue commits a status, priority or assignee choice
func (s *Service) SelectValue(task domain.Task, value string) (*domain.Commit, error) {
	commit, err := s.session.Select(task, value)
	s.syncMode()
	return commit, err
}

// ConfirmDate commits the staged date
func (s *Service) ConfirmDate(task domain.Task) (*domain.Commit, error) {
	commit, err := s.session.Confirm(task)
	s.syncMode()
	return commit, err
}

// CancelEdit aborts the edit without an update
func (s *Service) CancelEdit() {
	s.session.Cancel()
	s.syncMode()
}

// syncMode leaves edit mode once the session has ended
func (s *Service) syncMode() {
	if s.mode == ModeEdit && !s.session.Active() {
		s.mode = ModeNormal
	}
}
