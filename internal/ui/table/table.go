// Package table renders the task rows, their subtasks and the in-cell editor.
package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/ui/styles"
)

// Column describes one table column
type Column struct {
	Title string
	Field domain.EditField // empty when the cell is read-only
	Sort  domain.SortField // empty when the column is not sortable
	Width int              // 0 takes the remaining width
}

// Columns are the table columns in display order
var Columns = []Column{
	{Title: "Title"},
	{Title: "Status", Field: domain.EditStatus, Sort: domain.SortByStatus, Width: 13},
	{Title: "Priority", Field: domain.EditPriority, Sort: domain.SortByPriority, Width: 12},
	{Title: "Phase", Sort: domain.SortByPhase, Width: 9},
	{Title: "Assignee", Field: domain.EditAssignee, Sort: domain.SortByAssignee, Width: 16},
	{Title: "Start", Field: domain.EditStartDate, Sort: domain.SortByStartDate, Width: 12},
	{Title: "Due", Field: domain.EditDueDate, Sort: domain.SortByDueDate, Width: 12},
}

// ColumnFor returns the index of the column editing field, or -1
func ColumnFor(field domain.EditField) int {
	for i, c := range Columns {
		if c.Field != "" && c.Field == field {
			return i
		}
	}
	return -1
}

const (
	markerWidth   = 4 // cursor + expander
	minTitleWidth = 20
)

// RowState answers display questions the rows themselves do not carry
type RowState interface {
	IsLoading(id string) bool
	IsPending(id string) bool
	Expandable(row domain.Row) bool
}

// Editor is an in-progress cell edit drawn in place of the cell value
type Editor struct {
	TaskID string
	Field  domain.EditField
	View   string
}

// Table renders a scrolling window of rows
type Table struct {
	rows     []domain.Row
	cursor   int
	column   int
	sort     domain.Sort
	editor   *Editor
	state    RowState
	today    domain.Date
	spinner  string
	empty    string
	styles   *styles.Styles
	width    int
	height   int
	scrollOf int
}

// New creates a new Table with the given styles
func New(s *styles.Styles) *Table {
	return &Table{
		styles:  s,
		spinner: "⋯",
		empty:   "No tasks to display",
	}
}

// SetRows replaces the displayed rows
func (t *Table) SetRows(rows []domain.Row) {
	t.rows = rows
	if t.cursor >= len(rows) {
		t.cursor = max(0, len(rows)-1)
	}
	t.ensureCursorVisible()
}

// SetCursor sets the active row
func (t *Table) SetCursor(index int) {
	if index < 0 {
		t.cursor = 0
	} else if index >= len(t.rows) {
		t.cursor = max(0, len(t.rows)-1)
	} else {
		t.cursor = index
	}
	t.ensureCursorVisible()
}

// SetColumn sets the focused column
func (t *Table) SetColumn(column int) {
	t.column = column
}

// SetSort shows the sort indicator on the sorted column
func (t *Table) SetSort(sort domain.Sort) {
	t.sort = sort
}

// SetEditor draws e in its cell; nil removes the editor
func (t *Table) SetEditor(e *Editor) {
	t.editor = e
}

// SetRowState supplies loading, pending and expandability per row
func (t *Table) SetRowState(state RowState) {
	t.state = state
}

// SetToday sets the date overdue checks are made against
func (t *Table) SetToday(today domain.Date) {
	t.today = today
}

// SetSpinner sets the frame drawn on rows whose subtasks are loading
func (t *Table) SetSpinner(frame string) {
	t.spinner = frame
}

// SetEmptyMessage sets the text shown when there are no rows
func (t *Table) SetEmptyMessage(msg string) {
	t.empty = msg
}

// SetSize updates the view dimensions
func (t *Table) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// VisibleRows returns how many rows fit below the header
func (t *Table) VisibleRows() int {
	// header (1 line) + separator (1 line)
	available := t.height - 2
	if available < 1 {
		return 1
	}
	return available
}

// Render renders the header and the visible rows
func (t *Table) Render() string {
	var b strings.Builder

	b.WriteString(t.renderHeader())
	b.WriteString("\n")
	b.WriteString(t.styles.Separator.Render(strings.Repeat("─", max(t.width, 1))))

	if len(t.rows) == 0 {
		b.WriteString("\n")
		b.WriteString(t.styles.Muted.Italic(true).Width(max(t.width, 1)).Align(lipgloss.Center).Render(t.empty))
		return b.String()
	}

	end := min(t.scrollOf+t.VisibleRows(), len(t.rows))
	for i := t.scrollOf; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(t.renderRow(i, t.rows[i]))
	}

	if end < len(t.rows) {
		b.WriteString("\n")
		b.WriteString(t.styles.Separator.Render(fmt.Sprintf(" ↓ %d more ↓ ", len(t.rows)-end)))
	}

	return b.String()
}

func (t *Table) widths() []int {
	fixed := markerWidth
	for _, c := range Columns {
		fixed += c.Width
	}
	titleWidth := max(minTitleWidth, t.width-fixed)

	out := make([]int, len(Columns))
	for i, c := range Columns {
		if c.Width == 0 {
			out[i] = titleWidth
		} else {
			out[i] = c.Width
		}
	}
	return out
}

func (t *Table) renderHeader() string {
	widths := t.widths()
	cells := []string{t.styles.HeaderCell.Width(markerWidth).Render("")}

	for i, c := range Columns {
		title := headerTitle(c, widths[i], t.sort)
		style := t.styles.HeaderCell
		if i == t.column {
			style = t.styles.HeaderCellActive
		}
		cells = append(cells, style.Width(widths[i]).Render(title))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// headerTitle fits a column title into width, keeping the sort arrow when the
// column is the active sort
func headerTitle(c Column, width int, sort domain.Sort) string {
	if c.Sort == "" || !sort.IsActive() || sort.Field != c.Sort {
		return truncateString(c.Title, width-1)
	}
	return truncateString(c.Title, width-3) + " " + sortArrow(sort.Order)
}

func (t *Table) renderRow(index int, row domain.Row) string {
	isActive := index == t.cursor
	widths := t.widths()

	rowStyle := t.styles.Row
	if row.Depth > 0 {
		rowStyle = t.styles.Subtask
	}
	if isActive {
		rowStyle = rowStyle.Background(t.styles.RowActive.GetBackground())
	}

	cells := []string{t.renderMarker(row, isActive, rowStyle)}
	for i, c := range Columns {
		width := widths[i]

		if e := t.editor; e != nil && c.Field != "" && e.TaskID == row.Task.ID && e.Field == c.Field {
			cells = append(cells, t.styles.Editor.Width(width).MaxWidth(width).Render(e.View))
			continue
		}

		text, style := t.cell(c, row, rowStyle)
		if isActive && i == t.column {
			style = t.styles.CellActive
		}
		if i == 0 {
			text = t.withAggregate(row, text, width, style)
		} else {
			text = truncateString(text, width-1)
		}
		cells = append(cells, style.Width(width).Render(text))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (t *Table) renderMarker(row domain.Row, isActive bool, rowStyle lipgloss.Style) string {
	cursor := "  "
	if isActive {
		cursor = t.styles.Cursor.Render("▶ ")
	}

	expander := " "
	switch {
	case t.state != nil && t.state.IsLoading(row.Task.ID):
		expander = t.spinner
	case row.Expanded:
		expander = "▾"
	case t.expandable(row):
		expander = "▸"
	}

	return rowStyle.Width(markerWidth).Render(cursor + t.styles.Expander.Render(expander))
}

func (t *Table) expandable(row domain.Row) bool {
	if t.state != nil {
		return t.state.Expandable(row)
	}
	return row.HasChildren
}

// cell returns the text and style of a read-only cell
func (t *Table) cell(c Column, row domain.Row, rowStyle lipgloss.Style) (string, lipgloss.Style) {
	task := row.Task
	bg := rowStyle.GetBackground()

	switch c.Title {
	case "Title":
		return t.titleCell(row, rowStyle)
	case "Status":
		return task.Status.Label(), t.styles.StatusBadge(task.Status).Background(bg)
	case "Priority":
		return task.Priority.Label(), t.styles.PriorityBadge(task.Priority).Background(bg)
	case "Phase":
		if task.PhaseNumber == nil {
			return "—", t.styles.Muted.Background(bg)
		}
		return fmt.Sprintf("P%d", *task.PhaseNumber), rowStyle
	case "Assignee":
		if task.Assignee == nil && (task.AssigneeID == nil || *task.AssigneeID == "") {
			return "unassigned", t.styles.Muted.Background(bg)
		}
		if name := task.Assignee.DisplayName(); name != "" {
			return name, rowStyle
		}
		return *task.AssigneeID, rowStyle
	case "Start":
		return dateCell(task.StartDate), rowStyle
	case "Due":
		if task.Overdue(t.today) {
			return dateCell(task.DueDate), t.styles.Overdue.Background(bg)
		}
		return dateCell(task.DueDate), rowStyle
	}
	return "", rowStyle
}

func (t *Table) titleCell(row domain.Row, rowStyle lipgloss.Style) (string, lipgloss.Style) {
	title := row.Task.Title
	if row.Depth > 0 {
		title = strings.Repeat("  ", row.Depth-1) + "└ " + title
	}

	if t.state != nil && t.state.IsPending(row.Task.ID) {
		return title + " ⟳", t.styles.Pending.Background(rowStyle.GetBackground())
	}
	return title, rowStyle
}

// withAggregate truncates the title and appends the subtask summary when it fits
func (t *Table) withAggregate(row domain.Row, title string, width int, cellStyle lipgloss.Style) string {
	agg := row.Aggregate
	if agg == nil {
		return truncateString(title, width-1)
	}

	summary := "  [" + agg.Summary + "]"
	room := width - 1 - len([]rune(summary))
	if room < 8 {
		return truncateString(title, width-1)
	}

	style := t.styles.Aggregate
	if agg.NeedsAlert {
		style = t.styles.AggregateAlert
	}
	return truncateString(title, room) + style.Background(cellStyle.GetBackground()).Render(summary)
}

func dateCell(d *domain.Date) string {
	if s := domain.DateString(d); s != "" {
		return s
	}
	return "—"
}

func sortArrow(order domain.SortOrder) string {
	if order == domain.SortDesc {
		return "▼"
	}
	return "▲"
}

// ensureCursorVisible adjusts scroll offset to keep cursor visible
func (t *Table) ensureCursorVisible() {
	visible := t.VisibleRows()

	// Cursor is above visible area
	if t.cursor < t.scrollOf {
		t.scrollOf = t.cursor
	}

	// Cursor is below visible area
	if t.cursor >= t.scrollOf+visible {
		t.scrollOf = t.cursor - visible + 1
	}

	// Clamp scroll offset
	maxOffset := max(0, len(t.rows)-visible)
	if t.scrollOf > maxOffset {
		t.scrollOf = maxOffset
	}
	if t.scrollOf < 0 {
		t.scrollOf = 0
	}
}

// truncateString truncates a string to fit within the given width
// If truncated, adds "…" at the end
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
