// Package overlay holds the modal components drawn over the task table.
package overlay

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// Overlay represents a modal overlay component
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// CloseOverlayMsg signals that the overlay should be closed
type CloseOverlayMsg struct{}

// SearchMsg is emitted on every keystroke for live filtering
type SearchMsg struct {
	Query string
}

// FilterChangedMsg is emitted after the filter menu mutates the filter
type FilterChangedMsg struct{}

// SortChangedMsg is emitted after the sort menu mutates the sort
type SortChangedMsg struct{}

// ValuePickedMsg carries the value chosen for a status, priority or assignee cell
type ValuePickedMsg struct {
	TaskID string
	Field  domain.EditField
	Value  string
}

// PickCancelledMsg is emitted when a value picker is dismissed without a choice
type PickCancelledMsg struct {
	TaskID string
	Field  domain.EditField
}

// ConfirmResultMsg reports the answer to a confirmation dialog
type ConfirmResultMsg struct {
	Action    string
	TaskID    string
	Confirmed bool
}

func closeCmd() tea.Msg {
	return CloseOverlayMsg{}
}
