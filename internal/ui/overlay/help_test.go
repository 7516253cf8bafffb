package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpOverlay_ListsBindings(t *testing.T) {
	h := NewHelpOverlay()
	h.viewHeight = 100

	view := h.View()
	for _, cat := range HelpCategories {
		assert.Contains(t, view, cat.Name+":")
		for _, b := range cat.Bindings {
			assert.Contains(t, view, b.Description)
		}
	}
	assert.NotContains(t, view, "to scroll", "everything fits")
}

func TestHelpOverlay_Scroll(t *testing.T) {
	h := NewHelpOverlay()
	h.viewHeight = 5

	assert.Contains(t, h.View(), "Navigation:")
	assert.Contains(t, h.View(), "to scroll")

	h.Update(key("j"))
	assert.Equal(t, 1, h.scroll)
	assert.NotContains(t, h.View(), "Navigation:")

	h.Update(key("G"))
	assert.Equal(t, h.maxScroll(), h.scroll)
	assert.Contains(t, h.View(), "Quit")

	h.Update(key("g"))
	h.Update(key("k"))
	assert.Equal(t, 0, h.scroll)
}

func TestHelpOverlay_Close(t *testing.T) {
	for _, k := range []string{"esc", "q", "?"} {
		_, cmd := NewHelpOverlay().Update(key(k))
		assert.IsType(t, CloseOverlayMsg{}, run(cmd), k)
	}
}
