package overlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// mockOverlay is a simple overlay implementation for testing
type mockOverlay struct {
	title  string
	width  int
	height int
	value  string
}

func (m mockOverlay) Init() tea.Cmd {
	return nil
}

func (m mockOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m, func() tea.Msg { return SearchMsg{Query: m.value} }
		case "esc":
			return m, closeCmd
		case "u":
			m.value = strings.ToUpper(m.value)
			return m, nil
		}
	}
	return m, nil
}

func (m mockOverlay) View() string {
	return m.value
}

func (m mockOverlay) Title() string {
	return m.title
}

func (m mockOverlay) Size() (width, height int) {
	return m.width, m.height
}

// key builds the KeyMsg bubbletea delivers for a key name
func key(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// run executes cmd and returns its message, or nil
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestOverlayInterface(t *testing.T) {
	var _ Overlay = mockOverlay{}
	var _ Overlay = &ConfirmDialog{}
	var _ Overlay = &SearchOverlay{}
	var _ Overlay = &FilterMenu{}
	var _ Overlay = &SortMenu{}
	var _ Overlay = &ValuePicker{}
	var _ Overlay = &DetailPanel{}
	var _ Overlay = &HelpOverlay{}
	var _ Overlay = &ProjectSelector{}
}

func TestRender(t *testing.T) {
	s := New()

	titled := Render(mockOverlay{title: "Pick One", width: 30, value: "body text"}, s)
	if !strings.Contains(titled, "Pick One") || !strings.Contains(titled, "body text") {
		t.Errorf("Expected title and body in rendered overlay:\n%s", titled)
	}
	if !strings.Contains(titled, "╭") {
		t.Errorf("Expected rounded border:\n%s", titled)
	}

	untitled := Render(mockOverlay{value: "only body"}, s)
	if !strings.Contains(untitled, "only body") {
		t.Errorf("Expected body in untitled overlay:\n%s", untitled)
	}
}
