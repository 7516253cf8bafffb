package domain

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// FilterAll imposes no constraint on a filter field
const FilterAll = "all"

// FilterNoPhase matches tasks without a phase number
const FilterNoPhase = "none"

// Filter represents task filtering state.
// Status, Phase and Priority hold FilterAll (or "") or an exact value to match.
type Filter struct {
	SearchText string `json:"searchText"`
	Status     string `json:"statusFilter"`
	Phase      string `json:"phaseFilter"`
	Priority   string `json:"priorityFilter"`
}

// NewFilter creates a new empty filter
func NewFilter() *Filter {
	return &Filter{
		Status:   FilterAll,
		Phase:    FilterAll,
		Priority: FilterAll,
	}
}

func isAll(v string) bool {
	return v == "" || v == FilterAll
}

// IsActive returns true if any filter is active
func (f *Filter) IsActive() bool {
	return strings.TrimSpace(f.SearchText) != "" ||
		!isAll(f.Status) ||
		!isAll(f.Phase) ||
		!isAll(f.Priority)
}

// Apply returns the tasks passing all active filters, preserving input order.
// The input slice is never modified.
func (f *Filter) Apply(tasks []Task) []Task {
	result := make([]Task, 0, len(tasks))
	if !f.IsActive() {
		return append(result, tasks...)
	}

	query := fold(strings.TrimSpace(f.SearchText))
	for _, task := range tasks {
		if f.matches(task, query) {
			result = append(result, task)
		}
	}
	return result
}

// Matches returns true if the task passes all active filters
func (f *Filter) Matches(t Task) bool {
	return f.matches(t, fold(strings.TrimSpace(f.SearchText)))
}

func (f *Filter) matches(t Task, query string) bool {
	if !isAll(f.Status) && string(t.Status) != f.Status {
		return false
	}

	if !isAll(f.Priority) && string(t.Priority) != f.Priority {
		return false
	}

	if !isAll(f.Phase) && !matchesPhase(t.PhaseNumber, f.Phase) {
		return false
	}

	// Search query (case-insensitive, matches title or description)
	if query != "" {
		if !strings.Contains(fold(t.Title), query) && !strings.Contains(fold(t.Description), query) {
			return false
		}
	}

	return true
}

func matchesPhase(phase *int, want string) bool {
	if want == FilterNoPhase {
		return phase == nil
	}
	if phase == nil {
		return false
	}
	return strconv.Itoa(*phase) == want
}

// Clear resets all filters
func (f *Filter) Clear() {
	f.SearchText = ""
	f.Status = FilterAll
	f.Phase = FilterAll
	f.Priority = FilterAll
}

// SetStatus constrains the filter to a status, or clears it with FilterAll
func (f *Filter) SetStatus(s string) error {
	if !isAll(s) && !Status(s).Valid() {
		return ErrInvalidValue
	}
	f.Status = normalizeAll(s)
	return nil
}

// SetPriority constrains the filter to a priority, or clears it with FilterAll
func (f *Filter) SetPriority(p string) error {
	if !isAll(p) && !Priority(p).Valid() {
		return ErrInvalidValue
	}
	f.Priority = normalizeAll(p)
	return nil
}

// SetPhase constrains the filter to a phase number, FilterNoPhase, or FilterAll
func (f *Filter) SetPhase(p string) error {
	if !isAll(p) && p != FilterNoPhase {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return ErrInvalidValue
		}
		p = strconv.Itoa(n)
	}
	f.Phase = normalizeAll(p)
	return nil
}

// CycleStatus advances the status constraint through all → todo → ... → archived → all
func (f *Filter) CycleStatus() {
	f.Status = cycleValue(f.Status, statusValues())
}

// CyclePriority advances the priority constraint through all → low → ... → critical → all
func (f *Filter) CyclePriority() {
	f.Priority = cycleValue(f.Priority, priorityValues())
}

// CyclePhase advances the phase constraint through all → none → each known phase → all
func (f *Filter) CyclePhase(phases []int) {
	values := []string{FilterNoPhase}
	for _, p := range phases {
		values = append(values, strconv.Itoa(p))
	}
	f.Phase = cycleValue(f.Phase, values)
}

// Phases returns the distinct phase numbers present in tasks, ascending
func Phases(tasks []Task) []int {
	seen := make(map[int]bool)
	var phases []int
	for _, t := range tasks {
		if t.PhaseNumber != nil && !seen[*t.PhaseNumber] {
			seen[*t.PhaseNumber] = true
			phases = append(phases, *t.PhaseNumber)
		}
	}
	slices.Sort(phases)
	return phases
}

func cycleValue(current string, values []string) string {
	if isAll(current) {
		return values[0]
	}
	for i, v := range values {
		if v == current {
			if i == len(values)-1 {
				return FilterAll
			}
			return values[i+1]
		}
	}
	return FilterAll
}

func statusValues() []string {
	values := make([]string, len(Statuses))
	for i, s := range Statuses {
		values[i] = string(s)
	}
	return values
}

func priorityValues() []string {
	values := make([]string, len(Priorities))
	for i, p := range Priorities {
		values[i] = string(p)
	}
	return values
}

func normalizeAll(v string) string {
	if isAll(v) {
		return FilterAll
	}
	return v
}

// fold case-folds s for case-insensitive comparison
func fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Fold().String(s)
}
