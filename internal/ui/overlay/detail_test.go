package overlay

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riordanpawley/tasktable/internal/domain"
)

func detailTask() domain.Task {
	phase := 3
	assignee := "u-1"
	due := domain.MustParseDate("2026-01-10")
	return domain.Task{
		ID:          "t-1",
		Title:       "Migrate billing",
		Description: "Move invoices to the new provider.",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityHigh,
		PhaseNumber: &phase,
		AssigneeID:  &assignee,
		Assignee:    &domain.Assignee{ID: assignee, Name: "Ada", Email: "ada@example.com"},
		DueDate:     &due,
		Version:     4,
	}
}

func TestDetailPanel_View(t *testing.T) {
	today := domain.MustParseDate("2026-02-01")
	d := NewDetailPanel(detailTask(), nil, today)

	view := d.View()
	for _, want := range []string{
		"[t-1] Migrate billing",
		"In Progress",
		"High",
		"P3",
		"Ada <ada@example.com>",
		"2026-01-10 (overdue)",
		"Start:",
		"none",
		"Version:",
		"Move invoices",
	} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "Subtasks", "bucket not loaded")
	assert.NotContains(t, view, "Parent:")
	assert.Equal(t, "t-1", d.TaskID())
}

func TestDetailPanel_Subtasks(t *testing.T) {
	parentID := "t-1"
	subtasks := []domain.Task{
		{ID: "c-1", Title: "Export data", Status: domain.StatusDone, ParentTaskID: &parentID},
		{ID: "c-2", Title: "Switch DNS", Status: domain.StatusTodo, ParentTaskID: &parentID},
	}

	view := NewDetailPanel(detailTask(), subtasks, domain.MustParseDate("2026-01-01")).View()

	assert.Contains(t, view, "Subtasks")
	assert.Contains(t, view, "1/2 done")
	assert.Contains(t, view, "✓ Export data")
	assert.Contains(t, view, "○ Switch DNS")
}

func TestDetailPanel_SubtaskShowsParent(t *testing.T) {
	parentID := "p-9"
	task := domain.Task{ID: "c-1", Title: "Child", ParentTaskID: &parentID}

	view := NewDetailPanel(task, nil, domain.Date{}).View()

	assert.Contains(t, view, "Parent:")
	assert.Contains(t, view, "p-9")
	assert.Contains(t, view, "unassigned")
}

func TestDetailPanel_Scroll(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = fmt.Sprintf("line-%02d", i+1)
	}
	task := domain.Task{ID: "t-1", Title: "Long", Description: strings.Join(lines, "\n")}
	d := NewDetailPanel(task, nil, domain.Date{})

	assert.Equal(t, 18, d.maxScroll())
	assert.Contains(t, d.View(), "line-01")
	assert.NotContains(t, d.View(), "line-13")

	d.Update(key("j"))
	d.Update(key("j"))
	assert.Equal(t, 2, d.scrollY)
	assert.NotContains(t, d.View(), "line-02")
	assert.Contains(t, d.View(), "(line 3/30)")

	d.Update(key("G"))
	assert.Equal(t, 18, d.scrollY)
	d.Update(key("j"))
	assert.Equal(t, 18, d.scrollY)

	d.Update(key("g"))
	d.Update(key("k"))
	assert.Equal(t, 0, d.scrollY)
}

func TestDetailPanel_Close(t *testing.T) {
	for _, k := range []string{"esc", "q", "o", "enter"} {
		d := NewDetailPanel(detailTask(), nil, domain.Date{})
		_, cmd := d.Update(key(k))
		assert.IsType(t, CloseOverlayMsg{}, run(cmd), k)
	}
}
