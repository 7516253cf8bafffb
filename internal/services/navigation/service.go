// Package navigation provides cursor and navigation state management
package navigation

import (
	"github.com/riordanpawley/tasktable/internal/domain"
)

// Position represents a computed position in the table
type Position struct {
	Row   int  // Index within the displayed rows
	Valid bool // Whether the position is valid
}

// Cursor tracks the selected row by task ID (survives filter/sort changes)
type Cursor struct {
	TaskID      string // Primary state: selected task ID
	FallbackRow int    // Row to use when TaskID not found
	Column      int    // Focused column
}

// FindPosition computes the position of the cursor's task in rows
func (c *Cursor) FindPosition(rows []domain.Row) Position {
	if len(rows) == 0 {
		return Position{}
	}

	if c.TaskID != "" {
		for i, row := range rows {
			if row.Task.ID == c.TaskID {
				return Position{Row: i, Valid: true}
			}
		}
	}

	// Task not found (filtered out?), use fallback clamped to the table
	row := c.FallbackRow
	if row >= len(rows) {
		row = len(rows) - 1
	}
	if row < 0 {
		row = 0
	}
	return Position{Row: row, Valid: true}
}

// SetTask updates the cursor to point to a specific task
func (c *Cursor) SetTask(taskID string, row int) {
	c.TaskID = taskID
	c.FallbackRow = row
}

// MoveVertical moves up or down, returns new task ID
func (c *Cursor) MoveVertical(rows []domain.Row, delta int) string {
	pos := c.FindPosition(rows)
	if !pos.Valid {
		return c.TaskID
	}

	newIdx := pos.Row + delta

	// Clamp to table bounds
	if newIdx < 0 {
		newIdx = 0
	}
	if newIdx >= len(rows) {
		newIdx = len(rows) - 1
	}

	c.SetTask(rows[newIdx].Task.ID, newIdx)
	return c.TaskID
}

// MoveHorizontal moves the focused column, clamped to [0, columns)
func (c *Cursor) MoveHorizontal(columns, delta int) int {
	if columns <= 0 {
		c.Column = 0
		return 0
	}
	c.Column += delta
	if c.Column < 0 {
		c.Column = 0
	}
	if c.Column >= columns {
		c.Column = columns - 1
	}
	return c.Column
}

// Service manages navigation state
type Service struct {
	cursor Cursor
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		cursor: Cursor{},
	}
}

// GetCursor returns the current cursor (for read access)
func (s *Service) GetCursor() *Cursor {
	return &s.cursor
}

// GetPosition returns the computed position of the cursor in rows
func (s *Service) GetPosition(rows []domain.Row) Position {
	return s.cursor.FindPosition(rows)
}

// GetCurrentRow returns the selected row, nil when the table is empty
func (s *Service) GetCurrentRow(rows []domain.Row) *domain.Row {
	pos := s.cursor.FindPosition(rows)
	if !pos.Valid {
		return nil
	}
	row := rows[pos.Row]
	return &row
}

// Sync pins the cursor to whatever row it resolves to in rows, so a task that
// disappears leaves the cursor on its neighbour
func (s *Service) Sync(rows []domain.Row) {
	pos := s.cursor.FindPosition(rows)
	if !pos.Valid {
		s.cursor.TaskID = ""
		return
	}
	s.cursor.SetTask(rows[pos.Row].Task.ID, pos.Row)
}

// Column returns the focused column
func (s *Service) Column() int {
	return s.cursor.Column
}

// MoveDown moves cursor down one row
func (s *Service) MoveDown(rows []domain.Row) {
	s.cursor.MoveVertical(rows, 1)
}

// MoveUp moves cursor up one row
func (s *Service) MoveUp(rows []domain.Row) {
	s.cursor.MoveVertical(rows, -1)
}

// MoveLeft focuses the previous column
func (s *Service) MoveLeft(columns int) {
	s.cursor.MoveHorizontal(columns, -1)
}

// MoveRight focuses the next column
func (s *Service) MoveRight(columns int) {
	s.cursor.MoveHorizontal(columns, 1)
}

// HalfPageDown moves cursor half a page down
func (s *Service) HalfPageDown(rows []domain.Row, halfPage int) {
	s.cursor.MoveVertical(rows, halfPage)
}

// HalfPageUp moves cursor half a page up
func (s *Service) HalfPageUp(rows []domain.Row, halfPage int) {
	s.cursor.MoveVertical(rows, -halfPage)
}

// GotoTop moves cursor to the first row
func (s *Service) GotoTop(rows []domain.Row) {
	if len(rows) > 0 {
		s.cursor.SetTask(rows[0].Task.ID, 0)
	}
}

// GotoBottom moves cursor to the last row
func (s *Service) GotoBottom(rows []domain.Row) {
	if len(rows) > 0 {
		last := len(rows) - 1
		s.cursor.SetTask(rows[last].Task.ID, last)
	}
}

// JumpToTaskByID finds and selects a task by ID
func (s *Service) JumpToTaskByID(rows []domain.Row, taskID string) bool {
	for i, row := range rows {
		if row.Task.ID == taskID {
			s.cursor.SetTask(taskID, i)
			return true
		}
	}
	return false
}
