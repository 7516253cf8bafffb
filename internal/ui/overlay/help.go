package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding represents a single keybinding entry
type KeyBinding struct {
	Key         string
	Description string
}

// KeyCategory represents a category of keybindings
type KeyCategory struct {
	Name     string
	Bindings []KeyBinding
}

// HelpCategories is the keybinding reference shown by the help overlay
var HelpCategories = []KeyCategory{
	{
		Name: "Navigation",
		Bindings: []KeyBinding{
			{Key: "j/k", Description: "Move between rows"},
			{Key: "h/l", Description: "Move between columns"},
			{Key: "g/G", Description: "Jump to first/last row"},
			{Key: "Ctrl+d/u", Description: "Half page down/up"},
		},
	},
	{
		Name: "Editing",
		Bindings: []KeyBinding{
			{Key: "Enter", Description: "Edit focused cell (title opens details)"},
			{Key: "x", Description: "Toggle status: to do → in progress → done"},
			{Key: "d", Description: "Delete task"},
			{Key: "Esc", Description: "Cancel edit"},
		},
	},
	{
		Name: "View",
		Bindings: []KeyBinding{
			{Key: "Space", Description: "Expand/collapse subtasks"},
			{Key: "o", Description: "Task details"},
			{Key: "/", Description: "Search"},
			{Key: "f", Description: "Filter menu"},
			{Key: "c", Description: "Clear search and filters"},
			{Key: "s", Description: "Sort by focused column"},
			{Key: "S", Description: "Sort menu"},
		},
	},
	{
		Name: "Other",
		Bindings: []KeyBinding{
			{Key: "r", Description: "Reload tasks"},
			{Key: "p", Description: "Switch project"},
			{Key: "?", Description: "Help (this screen)"},
			{Key: "q", Description: "Quit"},
		},
	},
}

// HelpOverlay displays keybinding reference
type HelpOverlay struct {
	styles     *Styles
	scroll     int
	viewHeight int
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		styles:     New(),
		viewHeight: 20,
	}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch keyMsg.String() {
	case "esc", "q", "?":
		return h, closeCmd
	case "j", "down":
		if h.scroll < h.maxScroll() {
			h.scroll++
		}
	case "k", "up":
		if h.scroll > 0 {
			h.scroll--
		}
	case "g":
		h.scroll = 0
	case "G":
		h.scroll = h.maxScroll()
	}

	return h, nil
}

func (h *HelpOverlay) lines() []string {
	var lines []string
	for i, cat := range HelpCategories {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, h.styles.Header.Render(cat.Name+":"))
		for _, binding := range cat.Bindings {
			key := h.styles.MenuKey.Width(10).Render(binding.Key)
			lines = append(lines, "  "+key+h.styles.MenuItem.Render(binding.Description))
		}
	}
	return lines
}

func (h *HelpOverlay) maxScroll() int {
	return max(0, len(h.lines())-h.viewHeight)
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	lines := h.lines()
	end := min(h.scroll+h.viewHeight, len(lines))
	result := strings.Join(lines[h.scroll:end], "\n")

	if h.maxScroll() > 0 {
		result += "\n" + h.styles.Footer.Render("[j/k to scroll, g/G to jump]")
	}
	return result
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Help"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	return 60, 26
}
