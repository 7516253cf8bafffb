package domain

import (
	"fmt"
	"strings"
)

// Grouping partitions a task set into parents and per-parent subtask buckets
type Grouping struct {
	Parents          []Task
	SubtasksByParent map[string][]Task
}

// Group partitions tasks by parent_task_id, preserving input order everywhere.
// Subtasks whose parent is absent stay in SubtasksByParent under the missing id.
func Group(tasks []Task) Grouping {
	g := Grouping{
		Parents:          make([]Task, 0, len(tasks)),
		SubtasksByParent: make(map[string][]Task),
	}

	for _, t := range tasks {
		if !t.IsSubtask() {
			g.Parents = append(g.Parents, t)
			continue
		}
		parentID := *t.ParentTaskID
		g.SubtasksByParent[parentID] = append(g.SubtasksByParent[parentID], t)
	}

	return g
}

// Subtasks returns the bucket for parentID, nil when it has none
func (g Grouping) Subtasks(parentID string) []Task {
	return g.SubtasksByParent[parentID]
}

// Orphans returns the subtasks whose parent is not among Parents
func (g Grouping) Orphans() []Task {
	parents := make(map[string]bool, len(g.Parents))
	for _, p := range g.Parents {
		parents[p.ID] = true
	}

	var orphans []Task
	for parentID, bucket := range g.SubtasksByParent {
		if !parents[parentID] {
			orphans = append(orphans, bucket...)
		}
	}
	return orphans
}

// Aggregate summarises a parent's subtasks for display.
// It never replaces the parent's own Status.
type Aggregate struct {
	Total               int
	ByStatus            map[Status]int
	HighestOpenPriority Priority
	Overdue             int
	Summary             string
	NeedsAlert          bool
}

// Done returns the number of finished subtasks
func (a Aggregate) Done() int {
	return a.ByStatus[StatusDone] + a.ByStatus[StatusArchived]
}

// Percent returns the finished share of subtasks, 0-100
func (a Aggregate) Percent() int {
	if a.Total == 0 {
		return 0
	}
	return a.Done() * 100 / a.Total
}

// AggregateSubtasks computes the aggregate for a subtask bucket as of today
func AggregateSubtasks(subtasks []Task, today Date) Aggregate {
	agg := Aggregate{
		Total:    len(subtasks),
		ByStatus: make(map[Status]int),
	}

	critical := false
	for _, t := range subtasks {
		agg.ByStatus[t.Status]++

		if t.Status.Finished() {
			continue
		}
		if t.Priority.Rank() > agg.HighestOpenPriority.Rank() {
			agg.HighestOpenPriority = t.Priority
		}
		if t.Priority == PriorityCritical {
			critical = true
		}
		if t.Overdue(today) {
			agg.Overdue++
		}
	}

	agg.NeedsAlert = critical || agg.Overdue > 0
	agg.Summary = agg.summary()
	return agg
}

func (a Aggregate) summary() string {
	if a.Total == 0 {
		return "no subtasks"
	}

	parts := []string{fmt.Sprintf("%d/%d done", a.Done(), a.Total)}
	if n := a.ByStatus[StatusInProgress]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d in progress", n))
	}
	if a.Overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", a.Overdue))
	}
	if a.HighestOpenPriority == PriorityCritical {
		parts = append(parts, "critical open")
	}
	return strings.Join(parts, " · ")
}

// Row is one displayed line of the task table
type Row struct {
	Task        Task
	Depth       int // 0 for parents, 1 for subtasks
	HasChildren bool
	Expanded    bool
	Aggregate   *Aggregate // set on expanded parents with subtasks
}

// View is the composed output of filter, grouping and sort
type View struct {
	Grouping Grouping
	Rows     []Row
	Matched  int // tasks passing the filter, orphans included
}

// BuildView filters tasks, groups them, sorts the parents and flattens the result
// into rows. Children of parents in expanded follow their parent in bucket order.
func BuildView(tasks []Task, filter *Filter, sort *Sort, expanded map[string]bool, today Date) View {
	filtered := tasks
	if filter != nil {
		filtered = filter.Apply(tasks)
	}

	g := Group(filtered)
	if sort != nil {
		g.Parents = sort.Apply(g.Parents)
	}

	rows := make([]Row, 0, len(filtered))
	for _, parent := range g.Parents {
		children := g.SubtasksByParent[parent.ID]
		isOpen := expanded[parent.ID]

		row := Row{
			Task:        parent,
			HasChildren: len(children) > 0,
			Expanded:    isOpen,
		}
		if isOpen && len(children) > 0 {
			agg := AggregateSubtasks(children, today)
			row.Aggregate = &agg
		}
		rows = append(rows, row)

		if !isOpen {
			continue
		}
		for _, child := range children {
			rows = append(rows, Row{Task: child, Depth: 1})
		}
	}

	return View{Grouping: g, Rows: rows, Matched: len(filtered)}
}
