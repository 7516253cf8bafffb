package statusbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/types"
	"github.com/riordanpawley/tasktable/internal/ui/styles"
)

func TestStatusBar_RenderNormalMode(t *testing.T) {
	style := styles.New()
	sb := New(types.ModeNormal, 140, style)

	result := sb.Render()

	// Should contain mode badge
	if !strings.Contains(result, "NORMAL") {
		t.Errorf("Expected status bar to contain 'NORMAL', got: %s", result)
	}

	// Should contain normal mode hints
	if !strings.Contains(result, "j/k: rows") {
		t.Errorf("Expected status bar to contain row navigation hints, got: %s", result)
	}
	if !strings.Contains(result, "Enter: edit") {
		t.Errorf("Expected status bar to contain edit hint, got: %s", result)
	}
}

func TestStatusBar_RenderSearchMode(t *testing.T) {
	style := styles.New()
	sb := New(types.ModeSearch, 80, style)

	result := sb.Render()

	if !strings.Contains(result, "SEARCH") {
		t.Errorf("Expected status bar to contain 'SEARCH', got: %s", result)
	}
	if !strings.Contains(result, "Type to search") {
		t.Errorf("Expected status bar to contain search hint, got: %s", result)
	}
}

func TestStatusBar_RenderEditMode(t *testing.T) {
	style := styles.New()
	sb := New(types.ModeEdit, 80, style)

	result := sb.Render()

	if !strings.Contains(result, "EDIT") {
		t.Errorf("Expected status bar to contain 'EDIT', got: %s", result)
	}
	if !strings.Contains(result, "Esc: cancel") {
		t.Errorf("Expected status bar to contain cancel hint, got: %s", result)
	}
}

func TestStatusBar_RenderInfo(t *testing.T) {
	style := styles.New()
	sb := New(types.ModeSearch, 160, style).WithInfo(Info{
		Shown:   3,
		Total:   12,
		Filter:  "status:done",
		Sort:    "due_date ↓",
		Pending: 2,
		Offline: true,
	})

	result := sb.Render()

	for _, want := range []string{"OFFLINE", "2 saving", "status:done", "due_date ↓", "3/12"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected status bar to contain %q, got: %s", want, result)
		}
	}
}

func TestStatusBar_FillsWidth(t *testing.T) {
	style := styles.New()
	width := 100
	sb := New(types.ModeEdit, width, style).WithInfo(Info{Shown: 1, Total: 1})

	result := sb.Render()

	if got := lipgloss.Width(result); got != width {
		t.Errorf("Expected status bar width %d, got %d", width, got)
	}
}

func TestGetHints_AllModes(t *testing.T) {
	tests := []struct {
		mode     types.Mode
		expected string
	}{
		{types.ModeNormal, "j/k: rows  h/l: columns  Enter: edit  Space: expand  /: search  f: filter  ?: help  q: quit"},
		{types.ModeSearch, "Type to search  Enter: confirm  Esc: clear"},
		{types.ModeEdit, "Enter: save  Esc: cancel"},
		{types.Mode(99), ""},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			result := GetHints(tt.mode)
			if result != tt.expected {
				t.Errorf("GetHints(%v) = %q, want %q", tt.mode, result, tt.expected)
			}
		})
	}
}
