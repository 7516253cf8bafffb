package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riordanpawley/tasktable/internal/domain"
)

func TestFilterMenu_SetsValues(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		check func(t *testing.T, f *domain.Filter)
	}{
		{
			name: "status in progress",
			keys: []string{"s", "i"},
			check: func(t *testing.T, f *domain.Filter) {
				assert.Equal(t, string(domain.StatusInProgress), f.Status)
			},
		},
		{
			name: "priority critical",
			keys: []string{"p", "c"},
			check: func(t *testing.T, f *domain.Filter) {
				assert.Equal(t, string(domain.PriorityCritical), f.Priority)
			},
		},
		{
			name: "second known phase",
			keys: []string{"P", "2"},
			check: func(t *testing.T, f *domain.Filter) {
				assert.Equal(t, "4", f.Phase)
			},
		},
		{
			name: "tasks without a phase",
			keys: []string{"P", "n"},
			check: func(t *testing.T, f *domain.Filter) {
				assert.Equal(t, domain.FilterNoPhase, f.Phase)
			},
		},
		{
			name: "back to all",
			keys: []string{"s", "d", "s", "*"},
			check: func(t *testing.T, f *domain.Filter) {
				assert.Equal(t, domain.FilterAll, f.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := domain.NewFilter()
			m := NewFilterMenu(f, []int{1, 4})

			var last any
			for _, k := range tt.keys {
				_, cmd := m.Update(key(k))
				last = run(cmd)
			}

			assert.IsType(t, FilterChangedMsg{}, last)
			assert.Equal(t, filterModeNormal, m.mode)
			tt.check(t, f)
		})
	}
}

func TestFilterMenu_UnknownValueKeyStaysInMode(t *testing.T) {
	f := domain.NewFilter()
	m := NewFilterMenu(f, nil)

	m.Update(key("P"))
	_, cmd := m.Update(key("7"))

	assert.Nil(t, cmd)
	assert.Equal(t, filterModePhase, m.mode)
	assert.Equal(t, domain.FilterAll, f.Phase)

	_, cmd = m.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.Equal(t, filterModeNormal, m.mode)
}

func TestFilterMenu_ClearKeepsSearch(t *testing.T) {
	f := domain.NewFilter()
	f.SearchText = "deploy"
	f.Status = string(domain.StatusDone)
	f.Priority = string(domain.PriorityHigh)
	m := NewFilterMenu(f, nil)

	_, cmd := m.Update(key("c"))

	assert.IsType(t, FilterChangedMsg{}, run(cmd))
	assert.Equal(t, "deploy", f.SearchText)
	assert.Equal(t, domain.FilterAll, f.Status)
	assert.Equal(t, domain.FilterAll, f.Priority)
}

func TestFilterMenu_Close(t *testing.T) {
	for _, k := range []string{"esc", "q", "enter"} {
		m := NewFilterMenu(domain.NewFilter(), nil)
		_, cmd := m.Update(key(k))
		assert.IsType(t, CloseOverlayMsg{}, run(cmd), k)
	}
}

func TestFilterMenu_View(t *testing.T) {
	f := domain.NewFilter()
	f.Priority = string(domain.PriorityHigh)
	m := NewFilterMenu(f, []int{2})

	view := m.View()
	for _, want := range []string{"Status:", "Priority:", "Phase:", "[●h=High]", "[●*=All]", "1=P2", "n=None"} {
		assert.Contains(t, view, want)
	}
	assert.Equal(t, 1, strings.Count(view, "●h="))
}

func TestFilterMenu_LimitsPhases(t *testing.T) {
	phases := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	m := NewFilterMenu(domain.NewFilter(), phases)

	assert.Len(t, m.phases, 9)
	assert.Len(t, m.phaseOptions(), 11)
}
